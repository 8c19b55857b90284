package domain

import (
	"encoding/json"
	"io"
	"time"
)

// AskRequest is the payload of the question-answering endpoint
type AskRequest struct {
	Question string `json:"question"`
	TopK     int    `json:"top_k"`
}

// Source is a case or statute the answer was grounded on
type Source struct {
	Title    string          `json:"title"`
	Year     json.RawMessage `json:"year,omitempty"` // int or string upstream
	Summary  string          `json:"summary"`
	FullText string          `json:"full_text,omitempty"`
}

// AskResponse is the answer returned by the question-answering endpoint
type AskResponse struct {
	Answer  string   `json:"answer"`
	Sources []Source `json:"sources"`
}

const (
	RoleUser = "user"
	RoleBot  = "bot"
)

// Message is a single chat bubble
type Message struct {
	Role    string   `json:"role"`
	Text    string   `json:"text"`
	Sources []Source `json:"sources,omitempty"`
}

// Conversation is one chat history entry
type Conversation struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Messages  []Message `json:"messages"`
	Date      string    `json:"date"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// VoiceRequest is an audio question to be transcribed, answered and spoken back
type VoiceRequest struct {
	Audio      io.Reader
	Filename   string
	TargetLang string
}

// VoiceResponse is what the voice endpoint returns
type VoiceResponse struct {
	QueryTextNative    string   `json:"query_text_native"`
	ResponseTextNative string   `json:"response_text_native"`
	AudioBase64        string   `json:"audio_base64"`
	Sources            []Source `json:"sources"`
}
