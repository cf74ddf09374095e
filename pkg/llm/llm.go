// Package llm adapts hosted generative endpoints to a single prompt-in,
// text-out interface.
package llm

import (
	"context"
	"fmt"
	"net/http"

	"github.com/yedamo-ai/yedamo/pkg/config"
)

// Generator produces text for a prompt. Every provider in this package
// implements it.
type Generator interface {
	Generate(ctx context.Context, prompt string, maxTokens int) (string, error)
}

// New builds the generator selected by cfg.Provider. The "none" provider
// yields a nil Generator, which callers treat as "always fall back".
func New(ctx context.Context, cfg config.ConsultationConfig, httpClient *http.Client) (Generator, error) {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	switch cfg.Provider {
	case config.ProviderBedrock:
		return NewBedrock(ctx, cfg.Region, cfg.Model)
	case config.ProviderAnthropic:
		return NewAnthropic(httpClient, cfg.APIKey, cfg.BaseURL, cfg.Model), nil
	case config.ProviderOpenAI:
		return NewOpenAI(httpClient, cfg.APIKey, cfg.BaseURL, cfg.Model), nil
	case config.ProviderGemini:
		return NewGemini(ctx, cfg.APIKey, cfg.Model)
	case config.ProviderNone, "":
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown provider %q", cfg.Provider)
	}
}
