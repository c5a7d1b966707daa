package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseClassification(t *testing.T) {
	tests := []struct {
		in      string
		want    Classification
		wantErr bool
	}{
		{"SIGNAL", ClassSignal, false},
		{"signal", ClassSignal, false},
		{" Necessary ", ClassNecessary, false},
		{"NOISE", ClassNoise, false},
		{"URGENT", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseClassification(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClassificationValid(t *testing.T) {
	for _, c := range Classifications {
		assert.True(t, c.Valid())
	}
	assert.False(t, Classification("MAYBE").Valid())
	assert.False(t, Classification("").Valid())
}
