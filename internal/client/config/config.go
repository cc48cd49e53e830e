package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
)

// Config holds runtime settings for the storefront client.
type Config struct {
	APIBaseURL       string        `validate:"required,url"`
	RealtimeURL      string        `validate:"required,url"`
	ReconnectDelay   time.Duration `validate:"gt=0"`
	RequestTimeout   time.Duration `validate:"gt=0"`
	WriteTimeout     time.Duration `validate:"gt=0"`
	HandshakeTimeout time.Duration `validate:"gt=0"`
	// HeartBeat is the STOMP heart-beat interval offered to the broker; zero
	// disables heart-beating.
	HeartBeat     time.Duration `validate:"gte=0"`
	RetryCount    int           `validate:"gte=0,lte=10"`
	SessionDBPath string        `validate:"required"`
	LogFormat     string        `validate:"oneof=text json"`
	LogLevel      string        `validate:"oneof=debug info warn error"`
}

// LoadDefaults populates c with defaults matching a local backend.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "http://localhost:8080"
	c.RealtimeURL = "ws://localhost:8080/ws/websocket"
	c.ReconnectDelay = 5 * time.Second
	c.RequestTimeout = 5 * time.Second
	c.WriteTimeout = 5 * time.Second
	c.HandshakeTimeout = 10 * time.Second
	c.HeartBeat = 10 * time.Second
	c.RetryCount = 1
	c.SessionDBPath = "session.db"
	c.LogFormat = "text"
	c.LogLevel = "info"
}

// Validate reports the first invalid field.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// the environment, JSON (if present) and command-line flags. Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg, ".env")
	parseJson(cfg, os.Args[1:])
	parseFlags(cfg, os.Args[1:])
	return cfg
}
