package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestResolveRange(t *testing.T) {
	tests := []struct {
		in       string
		wantKey  string
		wantSpan time.Duration
	}{
		{"24h", "24h", 24 * time.Hour},
		{"30d", "30d", 30 * 24 * time.Hour},
		{"90d", "90d", 90 * 24 * time.Hour},
		{"", "7d", 7 * 24 * time.Hour},
		{"1y", "7d", 7 * 24 * time.Hour},
	}
	for _, tt := range tests {
		key, span := ResolveRange(tt.in)
		assert.Equal(t, tt.wantKey, key, tt.in)
		assert.Equal(t, tt.wantSpan, span, tt.in)
	}

	assert.True(t, IsValidRange("7d"))
	assert.False(t, IsValidRange("7days"))
}
