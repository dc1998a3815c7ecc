package llms

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/prepgraph/prepgraph/pkg/config"
	"github.com/prepgraph/prepgraph/pkg/httpclient"
)

const defaultOpenAIBaseURL = "https://api.openai.com/v1"

// OpenAIProvider implements LLMProvider against the OpenAI chat completions
// API (or any OpenAI-compatible endpoint via base_url).
type OpenAIProvider struct {
	config     *config.LLMConfig
	httpClient *httpclient.Client
	baseURL    string
}

type openAIRequest struct {
	Model          string                `json:"model"`
	Messages       []openAIMessage       `json:"messages"`
	MaxTokens      *int                  `json:"max_tokens,omitempty"`
	Temperature    float64               `json:"temperature"`
	ResponseFormat *openAIResponseFormat `json:"response_format,omitempty"`
}

type openAIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openAIResponseFormat struct {
	Type string `json:"type"`
}

type openAIResponse struct {
	Choices []openAIChoice `json:"choices"`
	Usage   openAIUsage    `json:"usage"`
	Error   *openAIError   `json:"error,omitempty"`
}

type openAIChoice struct {
	Message      openAIMessage `json:"message"`
	FinishReason string        `json:"finish_reason"`
}

type openAIUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

type openAIError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
	Code    string `json:"code"`
}

// NewOpenAIProviderFromConfig creates an OpenAI provider.
func NewOpenAIProviderFromConfig(cfg *config.LLMConfig) (*OpenAIProvider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("API key is required for OpenAI provider")
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultOpenAIBaseURL
	}

	client := httpclient.New(
		httpclient.WithHTTPClient(&http.Client{
			Timeout: time.Duration(cfg.Timeout) * time.Second,
		}),
		httpclient.WithMaxRetries(cfg.MaxRetries),
	)

	return &OpenAIProvider{
		config:     cfg,
		httpClient: client,
		baseURL:    baseURL,
	}, nil
}

// Generate implements LLMProvider.
func (p *OpenAIProvider) Generate(ctx context.Context, messages []Message) (string, int, error) {
	return p.generate(ctx, messages, nil)
}

// GenerateStructured implements LLMProvider. Format "json" maps to the
// json_object response format.
func (p *OpenAIProvider) GenerateStructured(ctx context.Context, messages []Message, cfg *StructuredOutputConfig) (string, int, error) {
	var format *openAIResponseFormat
	if cfg != nil && cfg.Format == "json" {
		format = &openAIResponseFormat{Type: "json_object"}
	}
	return p.generate(ctx, messages, format)
}

func (p *OpenAIProvider) generate(ctx context.Context, messages []Message, format *openAIResponseFormat) (string, int, error) {
	reqPayload := openAIRequest{
		Model:          p.config.Model,
		Messages:       convertOpenAIMessages(messages),
		Temperature:    *p.config.Temperature,
		ResponseFormat: format,
	}
	if p.config.MaxTokens > 0 {
		maxTokens := p.config.MaxTokens
		reqPayload.MaxTokens = &maxTokens
	}

	body, err := json.Marshal(reqPayload)
	if err != nil {
		return "", 0, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.config.APIKey)
	req.GetBody = func() (io.ReadCloser, error) {
		return io.NopCloser(bytes.NewReader(body)), nil
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", 0, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", 0, fmt.Errorf("failed to read response: %w", err)
	}

	var parsed openAIResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", 0, fmt.Errorf("failed to parse response (HTTP %d): %w", resp.StatusCode, err)
	}
	if parsed.Error != nil {
		return "", 0, fmt.Errorf("OpenAI API error: %s (%s)", parsed.Error.Message, parsed.Error.Type)
	}
	if resp.StatusCode != http.StatusOK {
		return "", 0, fmt.Errorf("OpenAI API returned HTTP %d", resp.StatusCode)
	}
	if len(parsed.Choices) == 0 {
		return "", 0, fmt.Errorf("OpenAI API returned no choices")
	}

	return parsed.Choices[0].Message.Content, parsed.Usage.TotalTokens, nil
}

func convertOpenAIMessages(messages []Message) []openAIMessage {
	out := make([]openAIMessage, 0, len(messages))
	for _, m := range messages {
		out = append(out, openAIMessage{Role: string(m.Role), Content: m.Content})
	}
	return out
}

// GetModelName implements LLMProvider.
func (p *OpenAIProvider) GetModelName() string {
	return p.config.Model
}

// Close implements LLMProvider.
func (p *OpenAIProvider) Close() error {
	return nil
}
