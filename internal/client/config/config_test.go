package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, "http://localhost:8080", c.APIBaseURL)
	assert.Equal(t, "ws://localhost:8080/ws/websocket", c.RealtimeURL)
	assert.Equal(t, 5*time.Second, c.ReconnectDelay)
	assert.Equal(t, 5*time.Second, c.RequestTimeout)
	assert.Equal(t, 10*time.Second, c.HandshakeTimeout)
	assert.Equal(t, 10*time.Second, c.HeartBeat)
	assert.Equal(t, 1, c.RetryCount)
	assert.Equal(t, "session.db", c.SessionDBPath)
	require.NoError(t, c.Validate())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"empty api url", func(c *Config) { c.APIBaseURL = "" }},
		{"bad realtime url", func(c *Config) { c.RealtimeURL = "not a url" }},
		{"zero reconnect delay", func(c *Config) { c.ReconnectDelay = 0 }},
		{"negative retries", func(c *Config) { c.RetryCount = -1 }},
		{"zero handshake timeout", func(c *Config) { c.HandshakeTimeout = 0 }},
		{"negative heart-beat", func(c *Config) { c.HeartBeat = -time.Second }},
		{"unknown log format", func(c *Config) { c.LogFormat = "xml" }},
		{"unknown log level", func(c *Config) { c.LogLevel = "trace" }},
		{"empty db path", func(c *Config) { c.SessionDBPath = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var c Config
			c.LoadDefaults()
			tt.mutate(&c)
			require.Error(t, c.Validate())
		})
	}
}
