package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"lensfolio/api/models"
)

func TestClassifyDevice(t *testing.T) {
	tests := []struct {
		ua   string
		want models.Device
	}{
		{"Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) Mobile/15E148", models.DeviceMobile},
		{"Mozilla/5.0 (Linux; Android 14; Pixel 8) Mobile Safari/537.36", models.DeviceMobile},
		{"Mozilla/5.0 (iPad; CPU OS 17_0 like Mac OS X)", models.DeviceTablet},
		{"Mozilla/5.0 (Linux; Android 13; SM-X700 Tablet)", models.DeviceTablet},
		{"Mozilla/5.0 (Macintosh; Intel Mac OS X 14_0) Safari/605.1.15", models.DeviceDesktop},
		{"", models.DeviceDesktop},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ClassifyDevice(tt.ua), tt.ua)
	}
}

func TestHashIP(t *testing.T) {
	h := HashIP("203.0.113.7", "salt")

	assert.Len(t, h, 64)
	assert.NotContains(t, h, "203.0.113.7")
	assert.Equal(t, h, HashIP("203.0.113.7", "salt"))
	assert.NotEqual(t, h, HashIP("203.0.113.7", "other-salt"))
	assert.NotEqual(t, h, HashIP("203.0.113.8", "salt"))
}

func TestLookupCountry(t *testing.T) {
	assert.Equal(t, models.UnknownCountry, LookupCountry("203.0.113.7"))
}
