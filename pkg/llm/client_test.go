package llm

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubProvider struct {
	content string
	err     error
	calls   int
}

func (s *stubProvider) Complete(_ context.Context, _ CompletionRequest) (*CompletionResponse, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return &CompletionResponse{Content: s.content}, nil
}

func TestNewMultiClientRequiresProvider(t *testing.T) {
	_, err := NewMultiClient(Config{}, zerolog.Nop())
	assert.ErrorIs(t, err, ErrNoProviders)
}

func TestMultiClientPrimarySucceeds(t *testing.T) {
	primary := &stubProvider{content: "hello"}
	fallback := &stubProvider{content: "unused"}
	mc := &MultiClient{
		providers: map[Provider]Client{
			ProviderAnthropic: primary,
			ProviderOpenAI:    fallback,
		},
		fallbacks: map[Provider][]Provider{
			ProviderAnthropic: {ProviderOpenAI},
		},
		defaultProvider: ProviderAnthropic,
		log:             zerolog.Nop(),
	}

	resp, err := mc.Complete(context.Background(), CompletionRequest{})
	require.NoError(t, err)
	assert.Equal(t, "hello", resp.Content)
	assert.Equal(t, 1, primary.calls)
	assert.Zero(t, fallback.calls)
}

func TestMultiClientFallsBack(t *testing.T) {
	primary := &stubProvider{err: &APIError{Provider: ProviderAnthropic, StatusCode: 503}}
	fallback := &stubProvider{content: "from fallback"}
	mc := &MultiClient{
		providers: map[Provider]Client{
			ProviderAnthropic: primary,
			ProviderOpenAI:    fallback,
		},
		fallbacks: map[Provider][]Provider{
			ProviderAnthropic: {ProviderOpenAI, ProviderOllama},
		},
		defaultProvider: ProviderAnthropic,
		log:             zerolog.Nop(),
	}

	resp, err := mc.Complete(context.Background(), CompletionRequest{})
	require.NoError(t, err)
	assert.Equal(t, "from fallback", resp.Content)
	assert.Equal(t, 1, primary.calls)
	assert.Equal(t, 1, fallback.calls)
}

func TestMultiClientAllFail(t *testing.T) {
	primary := &stubProvider{err: &APIError{Provider: ProviderAnthropic, StatusCode: 503}}
	fallback := &stubProvider{err: &APIError{Provider: ProviderOpenAI, StatusCode: 500}}
	mc := &MultiClient{
		providers: map[Provider]Client{
			ProviderAnthropic: primary,
			ProviderOpenAI:    fallback,
		},
		fallbacks: map[Provider][]Provider{
			ProviderAnthropic: {ProviderOpenAI},
		},
		defaultProvider: ProviderAnthropic,
		log:             zerolog.Nop(),
	}

	_, err := mc.Complete(context.Background(), CompletionRequest{})
	require.Error(t, err)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, ProviderOpenAI, apiErr.Provider, "last provider error surfaces")
}

func TestMultiClientExplicitProvider(t *testing.T) {
	anthropic := &stubProvider{content: "a"}
	openai := &stubProvider{content: "o"}
	mc := &MultiClient{
		providers: map[Provider]Client{
			ProviderAnthropic: anthropic,
			ProviderOpenAI:    openai,
		},
		fallbacks:       map[Provider][]Provider{},
		defaultProvider: ProviderAnthropic,
		log:             zerolog.Nop(),
	}

	resp, err := mc.Complete(context.Background(), CompletionRequest{Provider: ProviderOpenAI})
	require.NoError(t, err)
	assert.Equal(t, "o", resp.Content)
	assert.Zero(t, anthropic.calls)
}
