package intent

import (
	"context"

	"cartscout/models"
)

// Service turns one free-text shopping query into a structured SearchIntent.
type Service interface {
	Resolve(ctx context.Context, query string) models.SearchIntent
}

// DefaultIntentService resolves intent with Gemini when a client is
// configured and falls back to local heuristics otherwise. Resolution is
// best-effort: the raw query is always a valid fallback, so Resolve never
// fails the search round.
type DefaultIntentService struct {
	gemini *GeminiClient
}

func NewDefaultIntentService(apiKey string) *DefaultIntentService {
	svc := &DefaultIntentService{}
	if apiKey != "" {
		svc.gemini = NewGeminiClient(apiKey)
	}
	return svc
}
