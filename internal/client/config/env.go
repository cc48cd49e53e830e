package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Environment variable names read by parseEnv.
const (
	EnvAPIBaseURL     = "SHOP_API_URL"
	EnvRealtimeURL    = "SHOP_WS_URL"
	EnvReconnectDelay = "SHOP_RECONNECT_DELAY"
	EnvRequestTimeout = "SHOP_REQUEST_TIMEOUT"
	EnvSessionDBPath  = "SHOP_SESSION_DB"
	EnvLogFormat      = "SHOP_LOG_FORMAT"
	EnvLogLevel       = "SHOP_LOG_LEVEL"
	EnvRetryCount     = "SHOP_RETRY_COUNT"
	EnvHeartBeat      = "SHOP_HEARTBEAT"
)

// parseEnv loads envFile into the process environment (variables already set
// win, as godotenv does) and overlays every SHOP_* variable that is present.
// A missing file is not an error; a malformed one or a bad value panics.
func parseEnv(cfg *Config, envFile string) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			panic(err)
		}
	}

	setString(&cfg.APIBaseURL, EnvAPIBaseURL)
	setString(&cfg.RealtimeURL, EnvRealtimeURL)
	setString(&cfg.SessionDBPath, EnvSessionDBPath)
	setString(&cfg.LogFormat, EnvLogFormat)
	setString(&cfg.LogLevel, EnvLogLevel)
	setDuration(&cfg.ReconnectDelay, EnvReconnectDelay)
	setDuration(&cfg.RequestTimeout, EnvRequestTimeout)
	setDuration(&cfg.HeartBeat, EnvHeartBeat)

	if v, ok := os.LookupEnv(EnvRetryCount); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			panic(err)
		}
		cfg.RetryCount = n
	}
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

func setDuration(dst *time.Duration, key string) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		panic(err)
	}
	*dst = d
}
