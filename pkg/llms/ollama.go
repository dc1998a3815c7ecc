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

const defaultOllamaBaseURL = "http://localhost:11434"

// OllamaProvider implements LLMProvider against a local Ollama server.
type OllamaProvider struct {
	config     *config.LLMConfig
	httpClient *httpclient.Client
	baseURL    string
}

type ollamaChatRequest struct {
	Model    string          `json:"model"`
	Messages []openAIMessage `json:"messages"`
	Stream   bool            `json:"stream"`
	Format   string          `json:"format,omitempty"`
	Options  ollamaOptions   `json:"options"`
}

type ollamaOptions struct {
	Temperature float64 `json:"temperature"`
	NumPredict  int     `json:"num_predict,omitempty"`
}

type ollamaChatResponse struct {
	Message struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"message"`
	Done            bool   `json:"done"`
	PromptEvalCount int    `json:"prompt_eval_count"`
	EvalCount       int    `json:"eval_count"`
	Error           string `json:"error,omitempty"`
}

// NewOllamaProviderFromConfig creates an Ollama provider.
func NewOllamaProviderFromConfig(cfg *config.LLMConfig) (*OllamaProvider, error) {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultOllamaBaseURL
	}

	client := httpclient.New(
		httpclient.WithHTTPClient(&http.Client{
			Timeout: time.Duration(cfg.Timeout) * time.Second,
		}),
		httpclient.WithMaxRetries(cfg.MaxRetries),
	)

	return &OllamaProvider{
		config:     cfg,
		httpClient: client,
		baseURL:    baseURL,
	}, nil
}

// Generate implements LLMProvider.
func (p *OllamaProvider) Generate(ctx context.Context, messages []Message) (string, int, error) {
	return p.generate(ctx, messages, "")
}

// GenerateStructured implements LLMProvider using Ollama's format parameter.
func (p *OllamaProvider) GenerateStructured(ctx context.Context, messages []Message, cfg *StructuredOutputConfig) (string, int, error) {
	format := ""
	if cfg != nil && cfg.Format == "json" {
		format = "json"
	}
	return p.generate(ctx, messages, format)
}

func (p *OllamaProvider) generate(ctx context.Context, messages []Message, format string) (string, int, error) {
	reqPayload := ollamaChatRequest{
		Model:    p.config.Model,
		Messages: convertOpenAIMessages(messages),
		Stream:   false,
		Format:   format,
		Options: ollamaOptions{
			Temperature: *p.config.Temperature,
			NumPredict:  p.config.MaxTokens,
		},
	}

	body, err := json.Marshal(reqPayload)
	if err != nil {
		return "", 0, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/api/chat", bytes.NewReader(body))
	if err != nil {
		return "", 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
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

	var parsed ollamaChatResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", 0, fmt.Errorf("failed to parse response (HTTP %d): %w", resp.StatusCode, err)
	}
	if parsed.Error != "" {
		return "", 0, fmt.Errorf("Ollama API error: %s", parsed.Error)
	}

	tokens := parsed.PromptEvalCount + parsed.EvalCount
	return parsed.Message.Content, tokens, nil
}

// GetModelName implements LLMProvider.
func (p *OllamaProvider) GetModelName() string {
	return p.config.Model
}

// Close implements LLMProvider.
func (p *OllamaProvider) Close() error {
	return nil
}
