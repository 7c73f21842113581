package config

import (
	"io"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestNewConfig(t *testing.T) {
	t.Setenv("TOKEN_SECRET", "test-secret")

	t.Run("defaults keep audience and issuer distinct", func(t *testing.T) {
		logger := zerolog.New(io.Discard)
		cfg := NewConfig(&logger)

		assert.Equal(t, "mystry-message-api", cfg.Token.Issuer)
		assert.Equal(t, "mystry-message", cfg.Token.Audience)
		assert.Equal(t, 24*time.Hour, cfg.Token.ExpiresIn)
	})

	t.Run("token fields come from the environment", func(t *testing.T) {
		t.Setenv("TOKEN_ISSUER", "auth.example.com")
		t.Setenv("TOKEN_AUDIENCE", "dashboard")

		logger := zerolog.New(io.Discard)
		cfg := NewConfig(&logger)

		assert.Equal(t, "auth.example.com", cfg.Token.Issuer)
		assert.Equal(t, "dashboard", cfg.Token.Audience)
	})
}
