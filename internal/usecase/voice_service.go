package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/cyberlegal/backend/internal/domain"
)

// SupportedLanguages are the target languages the voice endpoint can speak
var SupportedLanguages = []string{"english", "hindi", "kannada", "tamil"}

// VoiceService forwards recorded questions to the voice endpoint
type VoiceService struct {
	assistant domain.AssistantClient
}

// NewVoiceService creates a voice service
func NewVoiceService(assistant domain.AssistantClient) *VoiceService {
	return &VoiceService{assistant: assistant}
}

// Process validates the request and returns the spoken answer
func (s *VoiceService) Process(ctx context.Context, request *domain.VoiceRequest) (*domain.VoiceResponse, error) {
	if request == nil || request.Audio == nil {
		return nil, fmt.Errorf("%w: audio file is required", domain.ErrInvalidRequest)
	}

	lang, err := normalizeLanguage(request.TargetLang)
	if err != nil {
		return nil, err
	}

	forwarded := *request
	forwarded.TargetLang = lang

	resp, err := s.assistant.ProcessAudio(ctx, &forwarded)
	if err != nil {
		return nil, err
	}
	if resp.Sources == nil {
		resp.Sources = []domain.Source{}
	}
	return resp, nil
}

// normalizeLanguage defaults to english and rejects unknown languages
func normalizeLanguage(lang string) (string, error) {
	lang = strings.ToLower(strings.TrimSpace(lang))
	if lang == "" {
		return "english", nil
	}
	for _, supported := range SupportedLanguages {
		if lang == supported {
			return lang, nil
		}
	}
	return "", fmt.Errorf("%w: %q", domain.ErrUnsupportedLanguage, lang)
}
