// Package llm provides a multi-provider text completion client.
package llm

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
)

// Provider identifies a completion provider.
type Provider string

const (
	ProviderAnthropic Provider = "anthropic"
	ProviderOpenAI    Provider = "openai"
	ProviderOllama    Provider = "ollama"
)

// Message is a single chat message.
type Message struct {
	Role    string `json:"role"` // system, user, assistant
	Content string `json:"content"`
}

// CompletionRequest is a provider-agnostic completion request.
type CompletionRequest struct {
	Provider    Provider
	Model       string
	Messages    []Message
	SystemMsg   string // optional system instruction
	MaxTokens   int
	Temperature float64
}

// Usage reports token consumption for a completion.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// CompletionResponse is the provider-agnostic completion result.
type CompletionResponse struct {
	Content string `json:"content"`
	Model   string `json:"model"`
	Usage   Usage  `json:"usage"`
}

// Client is the interface implemented by all completion providers.
type Client interface {
	Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error)
}

// Config holds provider credentials and defaults.
type Config struct {
	DefaultProvider Provider
	AnthropicAPIKey string
	OpenAIAPIKey    string
	OllamaHost      string
	OllamaModel     string
}

// MultiClient routes completion requests to a primary provider and falls
// back to the remaining configured providers on failure.
type MultiClient struct {
	providers       map[Provider]Client
	fallbacks       map[Provider][]Provider
	defaultProvider Provider
	log             zerolog.Logger
}

// NewMultiClient builds a MultiClient from config. At least one provider
// must be configured.
func NewMultiClient(cfg Config, logger zerolog.Logger) (*MultiClient, error) {
	mc := &MultiClient{
		providers:       make(map[Provider]Client),
		fallbacks:       make(map[Provider][]Provider),
		defaultProvider: cfg.DefaultProvider,
		log:             logger,
	}

	if cfg.AnthropicAPIKey != "" {
		client, err := NewAnthropicClient(cfg.AnthropicAPIKey)
		if err != nil {
			return nil, fmt.Errorf("anthropic client: %w", err)
		}
		mc.providers[ProviderAnthropic] = client
	}

	if cfg.OpenAIAPIKey != "" {
		client, err := NewOpenAIClient(cfg.OpenAIAPIKey)
		if err != nil {
			return nil, fmt.Errorf("openai client: %w", err)
		}
		mc.providers[ProviderOpenAI] = client
	}

	if cfg.OllamaHost != "" {
		client, err := NewOllamaClient(cfg.OllamaHost, cfg.OllamaModel)
		if err != nil {
			logger.Warn().Err(err).Msg("ollama client initialization failed")
		} else {
			mc.providers[ProviderOllama] = client
		}
	}

	if len(mc.providers) == 0 {
		return nil, ErrNoProviders
	}

	if mc.defaultProvider == "" || mc.providers[mc.defaultProvider] == nil {
		for p := range mc.providers {
			mc.defaultProvider = p
			break
		}
	}

	mc.fallbacks[ProviderAnthropic] = []Provider{ProviderOpenAI, ProviderOllama}
	mc.fallbacks[ProviderOpenAI] = []Provider{ProviderAnthropic, ProviderOllama}
	mc.fallbacks[ProviderOllama] = []Provider{ProviderAnthropic, ProviderOpenAI}

	return mc, nil
}

// Complete sends the request to the primary provider, trying fallbacks in
// order when it fails. The last provider error is returned when all fail.
func (mc *MultiClient) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	provider := req.Provider
	if provider == "" {
		provider = mc.defaultProvider
	}

	var lastErr error

	if client, ok := mc.providers[provider]; ok {
		resp, err := client.Complete(ctx, req)
		if err == nil {
			return resp, nil
		}
		lastErr = err
		mc.log.Warn().Err(err).Str("provider", string(provider)).Msg("completion provider failed, trying fallbacks")
	}

	for _, fallback := range mc.fallbacks[provider] {
		client, ok := mc.providers[fallback]
		if !ok {
			continue
		}
		req.Provider = fallback
		resp, err := client.Complete(ctx, req)
		if err == nil {
			return resp, nil
		}
		lastErr = err
		mc.log.Warn().Err(err).Str("provider", string(fallback)).Msg("fallback completion provider failed")
	}

	if lastErr != nil {
		return nil, fmt.Errorf("all completion providers failed: %w", lastErr)
	}
	return nil, ErrNoProviders
}

// IsProviderAvailable reports whether a provider is configured.
func (mc *MultiClient) IsProviderAvailable(provider Provider) bool {
	_, ok := mc.providers[provider]
	return ok
}
