package llm

import (
	"fmt"
	"net/http"
)

const (
	defaultOpenRouterBaseURL = "https://openrouter.ai/api/v1"

	openRouterReferer = "https://github.com/madan-d/classmos"
	openRouterTitle   = "classmos"
)

// openrouterModels maps the friendly names shared with the other providers
// to OpenRouter's vendor-prefixed IDs. Anything else is passed through.
var openrouterModels = map[string]string{
	"gemini-flash":  "google/gemini-2.5-flash",
	"gemini-pro":    "google/gemini-2.5-pro",
	"claude-haiku":  "anthropic/claude-haiku-4.5",
	"claude-sonnet": "anthropic/claude-sonnet-4",
	"gpt-4o-mini":   "openai/gpt-4o-mini",
}

// OpenRouterProvider talks to OpenRouter's OpenAI-compatible API. Requests
// carry the classmos attribution headers OpenRouter uses for its app
// rankings.
type OpenRouterProvider struct {
	*OpenAIProvider
}

// NewOpenRouterProvider creates a provider targeting the OpenRouter API.
func NewOpenRouterProvider(cfg OpenRouterConfig) (*OpenRouterProvider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openrouter API key is required")
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultOpenRouterBaseURL
	}
	client := &http.Client{Transport: attributionTransport{base: http.DefaultTransport}}
	inner := newOpenAICompatible(OpenAIConfig{APIKey: cfg.APIKey, Model: cfg.Model, BaseURL: baseURL}, openrouterModels, client)
	return &OpenRouterProvider{OpenAIProvider: inner}, nil
}

// attributionTransport stamps OpenRouter's app attribution headers.
type attributionTransport struct {
	base http.RoundTripper
}

func (t attributionTransport) RoundTrip(r *http.Request) (*http.Response, error) {
	r = r.Clone(r.Context())
	r.Header.Set("HTTP-Referer", openRouterReferer)
	r.Header.Set("X-Title", openRouterTitle)
	return t.base.RoundTrip(r)
}
