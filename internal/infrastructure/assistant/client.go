package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/cyberlegal/backend/internal/domain"
)

const maxErrorBodyBytes = 4096

// Client talks to the retrieval-augmented question-answering service.
// Requests are never retried: a failed answer is reported to the user once.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// NewClient creates a new assistant API client
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimSuffix(baseURL, "/"),
	}
}

// errorResponse is the error body shape of the upstream service
type errorResponse struct {
	Detail string `json:"detail"`
}

// Ask sends a question to POST /ask
func (c *Client) Ask(ctx context.Context, request *domain.AskRequest) (*domain.AskResponse, error) {
	payload, err := json.Marshal(request)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/ask", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	var answer domain.AskResponse
	if err := c.do(req, &answer); err != nil {
		return nil, err
	}

	log.Printf("[Assistant] Answered question (%d sources)", len(answer.Sources))
	return &answer, nil
}

// ProcessAudio uploads a recording to POST /process-audio as multipart form data
func (c *Client) ProcessAudio(ctx context.Context, request *domain.VoiceRequest) (*domain.VoiceResponse, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	filename := request.Filename
	if filename == "" {
		filename = "recording.webm"
	}

	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := io.Copy(part, request.Audio); err != nil {
		return nil, fmt.Errorf("failed to copy audio: %w", err)
	}
	if err := writer.WriteField("target_lang", request.TargetLang); err != nil {
		return nil, fmt.Errorf("failed to write form field: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/process-audio", &body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	var voice domain.VoiceResponse
	if err := c.do(req, &voice); err != nil {
		return nil, err
	}

	return &voice, nil
}

// do executes req and decodes a 200 response into out
func (c *Client) do(req *http.Request, out interface{}) error {
	req.Header.Set("User-Agent", "CyberLegal/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrAssistantUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		detail := string(raw)
		var errBody errorResponse
		if json.Unmarshal(raw, &errBody) == nil && errBody.Detail != "" {
			detail = errBody.Detail
		}
		log.Printf("[Assistant] %s %s failed - Status: %d, Detail: %s", req.Method, req.URL.Path, resp.StatusCode, detail)
		return fmt.Errorf("%w: status %d: %s", domain.ErrAssistantUnavailable, resp.StatusCode, detail)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: failed to decode response: %v", domain.ErrAssistantUnavailable, err)
	}

	return nil
}
