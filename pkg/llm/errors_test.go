package llm

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsTransient(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"server error", &APIError{StatusCode: 500}, true},
		{"bad gateway", &APIError{StatusCode: 502}, true},
		{"rate limited", &APIError{StatusCode: 429}, true},
		{"unauthorized", &APIError{StatusCode: 401}, false},
		{"bad request", &APIError{StatusCode: 400}, false},
		{"empty completion", ErrEmptyCompletion, false},
		{"wrapped empty completion", fmt.Errorf("attempt 3: %w", ErrEmptyCompletion), false},
		{"wrapped api error", fmt.Errorf("all providers: %w", &APIError{StatusCode: 503}), true},
		{"plain network error", errors.New("dial tcp: connection refused"), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsTransient(tt.err))
		})
	}
}

func TestAPIErrorMessage(t *testing.T) {
	err := &APIError{Provider: ProviderAnthropic, StatusCode: 429, Body: "rate limit"}
	assert.Contains(t, err.Error(), "anthropic")
	assert.Contains(t, err.Error(), "429")
}
