package llms

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prepgraph/prepgraph/pkg/config"
)

func openAITestConfig(baseURL string) *config.LLMConfig {
	cfg := &config.LLMConfig{
		Provider: config.LLMProviderOpenAI,
		Model:    "gpt-4.1",
		APIKey:   "sk-test",
		BaseURL:  baseURL,
	}
	cfg.SetDefaults()
	return cfg
}

func TestOpenAIProviderRequiresAPIKey(t *testing.T) {
	cfg := openAITestConfig("")
	cfg.APIKey = ""
	if _, err := NewOpenAIProviderFromConfig(cfg); err == nil {
		t.Error("missing API key should fail")
	}
}

func TestOpenAIGenerate(t *testing.T) {
	var gotReq map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer sk-test" {
			t.Errorf("Authorization = %q", auth)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("bad request body: %v", err)
		}

		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"role": "assistant", "content": "hello"}},
			},
			"usage": map[string]int{"total_tokens": 12},
		})
	}))
	defer srv.Close()

	provider, err := NewOpenAIProviderFromConfig(openAITestConfig(srv.URL))
	if err != nil {
		t.Fatal(err)
	}

	text, tokens, err := provider.Generate(context.Background(), []Message{
		{Role: RoleUser, Content: "hi"},
	})
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}
	if text != "hello" || tokens != 12 {
		t.Errorf("Generate() = %q, %d", text, tokens)
	}
	if gotReq["model"] != "gpt-4.1" {
		t.Errorf("request model = %v", gotReq["model"])
	}
	if _, hasFormat := gotReq["response_format"]; hasFormat {
		t.Error("plain Generate should not request a response format")
	}
}

func TestOpenAIGenerateStructuredJSON(t *testing.T) {
	var gotReq map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&gotReq)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"role": "assistant", "content": `{"next_agent":"end","reason":"done"}`}},
			},
			"usage": map[string]int{"total_tokens": 5},
		})
	}))
	defer srv.Close()

	provider, err := NewOpenAIProviderFromConfig(openAITestConfig(srv.URL))
	if err != nil {
		t.Fatal(err)
	}

	text, _, err := provider.GenerateStructured(context.Background(),
		[]Message{{Role: RoleUser, Content: "route"}},
		&StructuredOutputConfig{Format: "json"})
	if err != nil {
		t.Fatal(err)
	}
	if text == "" {
		t.Error("empty response")
	}

	format, ok := gotReq["response_format"].(map[string]interface{})
	if !ok || format["type"] != "json_object" {
		t.Errorf("response_format = %v, want json_object", gotReq["response_format"])
	}
}

func TestOpenAIGenerateAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"error": map[string]string{"message": "bad key", "type": "invalid_request_error"},
		})
	}))
	defer srv.Close()

	provider, err := NewOpenAIProviderFromConfig(openAITestConfig(srv.URL))
	if err != nil {
		t.Fatal(err)
	}

	if _, _, err := provider.Generate(context.Background(), []Message{{Role: RoleUser, Content: "hi"}}); err == nil {
		t.Error("API error should surface")
	}
}
