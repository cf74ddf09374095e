package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/yedamo-ai/yedamo/pkg/models"
)

const defaultOpenAIURL = "https://api.openai.com/v1"

// OpenAI calls any OpenAI-compatible chat completions endpoint, such as
// OpenRouter.
type OpenAI struct {
	httpClient *http.Client
	apiKey     string
	baseURL    string
	model      string
}

func NewOpenAI(httpClient *http.Client, apiKey, baseURL, model string) *OpenAI {
	if baseURL == "" {
		baseURL = defaultOpenAIURL
	}
	return &OpenAI{
		httpClient: httpClient,
		apiKey:     apiKey,
		baseURL:    strings.TrimRight(baseURL, "/"),
		model:      model,
	}
}

func (o *OpenAI) Generate(ctx context.Context, prompt string, maxTokens int) (string, error) {
	body, err := json.Marshal(models.ChatCompletionRequest{
		Model:     o.model,
		Messages:  []models.ChatMessage{{Role: "user", Content: prompt}},
		MaxTokens: &maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+o.apiKey)

	respBody, err := do(o.httpClient, req)
	if err != nil {
		return "", err
	}

	var resp models.ChatCompletionResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices in response")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
