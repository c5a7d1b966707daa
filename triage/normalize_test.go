package triage

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanName(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain name passes through", "Review budget", "Review budget"},
		{"surrounding whitespace trimmed", "  Review budget  ", "Review budget"},
		{"markdown bold stripped", "**Fix the leak**", "Fix the leak"},
		{"markdown italics stripped", "_Fix the leak_", "Fix the leak"},
		{"classification prefix stripped", "SIGNAL: Review budget", "Review budget"},
		{"prefix without colon stripped", "NOISE organize desk", "organize desk"},
		{"prefix case-insensitive", "necessary: File expenses", "File expenses"},
		{"internal whitespace collapsed", "Review\t the   budget", "Review the budget"},
		{"prefix-like word inside name kept", "Investigate signal loss", "Investigate signal loss"},
		{"empty input", "   ", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanName(tt.in))
		})
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"lowercases", "Review Budget", "review budget"},
		{"strips punctuation", "Ship release!", "ship release"},
		{"strips prefix then lowercases", "SIGNAL: Review budget", "review budget"},
		{"unicode letters survive", "Café run", "café run"},
		{"punctuation-only collapses to empty", "***!!!", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{"SIGNAL: Review budget", "**Fix the leak**", "Ship  release!"}
	for _, in := range inputs {
		once := Normalize(in)
		assert.Equal(t, once, Normalize(once))
	}
}
