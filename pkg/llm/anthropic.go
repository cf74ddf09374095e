package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/yedamo-ai/yedamo/pkg/models"
)

const (
	defaultAnthropicURL = "https://api.anthropic.com"
	anthropicVersion    = "2023-06-01"
)

// Anthropic calls the Anthropic Messages API.
type Anthropic struct {
	httpClient *http.Client
	apiKey     string
	baseURL    string
	model      string
}

func NewAnthropic(httpClient *http.Client, apiKey, baseURL, model string) *Anthropic {
	if baseURL == "" {
		baseURL = defaultAnthropicURL
	}
	return &Anthropic{
		httpClient: httpClient,
		apiKey:     apiKey,
		baseURL:    strings.TrimRight(baseURL, "/"),
		model:      model,
	}
}

func (a *Anthropic) Generate(ctx context.Context, prompt string, maxTokens int) (string, error) {
	body, err := json.Marshal(models.AnthropicRequest{
		Model:     a.model,
		Messages:  []models.ChatMessage{{Role: "user", Content: prompt}},
		MaxTokens: maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+"/v1/messages", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", a.apiKey)
	req.Header.Set("anthropic-version", anthropicVersion)

	respBody, err := do(a.httpClient, req)
	if err != nil {
		return "", err
	}

	var resp models.AnthropicResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	text, ok := resp.FirstText()
	if !ok {
		return "", fmt.Errorf("no text content in response")
	}
	return strings.TrimSpace(text), nil
}

// do sends req and returns the body of a 200 response.
func do(client *http.Client, req *http.Request) ([]byte, error) {
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http call: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("upstream status %d: %s", resp.StatusCode, string(body))
	}
	return body, nil
}
