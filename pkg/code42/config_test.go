package code42_test

import (
	"testing"
	"time"

	"github.com/code42/code42-go/pkg/code42"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateConfig(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		config  *code42.Config
		wantErr string
	}{
		{"valid host", &code42.Config{Host: "console.example.com"}, ""},
		{"valid ip", &code42.Config{Host: "10.0.0.5", Port: 4285, Scheme: "http", PathPrefix: "/api"}, ""},
		{"missing host", &code42.Config{}, "Host"},
		{"host with scheme", &code42.Config{Host: "https://console.example.com"}, "Host"},
		{"port out of range", &code42.Config{Host: "h", Port: 70000}, "Port"},
		{"bad scheme", &code42.Config{Host: "h", Scheme: "ftp"}, "Scheme"},
		{"relative prefix", &code42.Config{Host: "h", PathPrefix: "api"}, "PathPrefix"},
		{"negative retries", &code42.Config{Host: "h", RetryMax: -1}, "RetryMax"},
		{"negative timeout", &code42.Config{Host: "h", HTTPTimeout: -time.Second}, "HTTPTimeout"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := code42.ValidateConfig(tt.config)
			if tt.wantErr == "" {
				require.NoError(t, err)

				return
			}

			require.ErrorIs(t, err, code42.ErrInvalidConfig)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidateConfig_Nil(t *testing.T) {
	t.Parallel()

	require.ErrorIs(t, code42.ValidateConfig(nil), code42.ErrConfigRequired)
}
