package llm

import (
	"context"
	"fmt"
	"net/http"
	"strings"
)

const (
	openAIBaseURL     = "https://api.openai.com/v1"
	openRouterBaseURL = "https://openrouter.ai/api/v1"
)

// openAIClient implements the Client interface for OpenAI-compatible
// chat completion endpoints.
type openAIClient struct {
	httpClient  *http.Client
	headers     map[string]string
	provider    string
	baseURL     string
	model       string
	temperature float64
	maxTokens   int
}

// newOpenAIClient creates a new OpenAI API client.
func newOpenAIClient(cfg Config) (Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}
	return buildOpenAIClient(cfg, "openai", openAIBaseURL, "gpt-4o-mini", nil), nil
}

// newOpenRouterClient creates a client for OpenRouter's OpenAI-compatible API.
func newOpenRouterClient(cfg Config) (Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("OpenRouter API key is required")
	}
	if !strings.HasPrefix(cfg.APIKey, "sk-or-") {
		return nil, fmt.Errorf("invalid OpenRouter key format (must start with sk-or-)")
	}

	siteURL := cfg.SiteURL
	if siteURL == "" {
		siteURL = "http://localhost"
	}
	siteName := cfg.SiteName
	if siteName == "" {
		siteName = "Finance Mentor"
	}
	return buildOpenAIClient(cfg, "openrouter", openRouterBaseURL, "google/gemini-flash-1.5-8b", map[string]string{
		"HTTP-Referer": siteURL,
		"X-Title":      siteName,
	}), nil
}

func buildOpenAIClient(cfg Config, provider, baseURL, model string, extra map[string]string) *openAIClient {
	if cfg.BaseURL != "" {
		baseURL = cfg.BaseURL
	}
	if cfg.Model != "" {
		model = cfg.Model
	}

	temperature := cfg.Temperature
	if temperature == 0 {
		temperature = 0.7
	}

	maxTokens := cfg.MaxTokens
	if maxTokens == 0 {
		maxTokens = 800
	}

	headers := map[string]string{"Authorization": "Bearer " + cfg.APIKey}
	for k, v := range extra {
		headers[k] = v
	}

	return &openAIClient{
		provider:    provider,
		baseURL:     strings.TrimRight(baseURL, "/"),
		model:       model,
		temperature: temperature,
		maxTokens:   maxTokens,
		headers:     headers,
		httpClient:  newHTTPClient(),
	}
}

// Chat sends the conversation to the chat completions endpoint.
func (c *openAIClient) Chat(ctx context.Context, messages []Message) (string, error) {
	requestBody := map[string]any{
		"model":       c.model,
		"messages":    messages,
		"temperature": c.temperature,
		"max_tokens":  c.maxTokens,
	}

	var response openAIResponse
	if err := postJSON(ctx, c.httpClient, c.provider, c.baseURL+"/chat/completions", c.headers, requestBody, &response); err != nil {
		return "", err
	}

	if len(response.Choices) == 0 {
		return "", fmt.Errorf("no completion choices returned")
	}
	return response.Choices[0].Message.Content, nil
}

// openAIResponse represents the OpenAI API response structure.
type openAIResponse struct {
	ID      string `json:"id"`
	Model   string `json:"model"`
	Choices []struct {
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
		Index        int    `json:"index"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
}
