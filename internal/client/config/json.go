package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/shopclient/internal/flagx"
	"github.com/dmitrijs2005/shopclient/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Pointer and
// zero-value checks let a partial file override only the keys it names.
type JsonConfig struct {
	APIBaseURL       string          `json:"api_base_url"`
	RealtimeURL      string          `json:"realtime_url"`
	ReconnectDelay   *timex.Duration `json:"reconnect_delay"`
	RequestTimeout   *timex.Duration `json:"request_timeout"`
	WriteTimeout     *timex.Duration `json:"write_timeout"`
	HandshakeTimeout *timex.Duration `json:"handshake_timeout"`
	HeartBeat        *timex.Duration `json:"heart_beat"`
	RetryCount       *int            `json:"retry_count"`
	SessionDBPath    string          `json:"session_db_path"`
	LogFormat        string          `json:"log_format"`
	LogLevel         string          `json:"log_level"`
}

// parseJson overlays cfg with the file named by -c/-config in args. Nothing
// happens when no file is named; read or decode errors panic, as with flags.
func parseJson(cfg *Config, args []string) {
	path := flagx.ConfigPath(args)
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.APIBaseURL != "" {
		cfg.APIBaseURL = jc.APIBaseURL
	}
	if jc.RealtimeURL != "" {
		cfg.RealtimeURL = jc.RealtimeURL
	}
	if jc.ReconnectDelay != nil {
		cfg.ReconnectDelay = jc.ReconnectDelay.Duration
	}
	if jc.RequestTimeout != nil {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	if jc.WriteTimeout != nil {
		cfg.WriteTimeout = jc.WriteTimeout.Duration
	}
	if jc.HandshakeTimeout != nil {
		cfg.HandshakeTimeout = jc.HandshakeTimeout.Duration
	}
	if jc.HeartBeat != nil {
		cfg.HeartBeat = jc.HeartBeat.Duration
	}
	if jc.RetryCount != nil {
		cfg.RetryCount = *jc.RetryCount
	}
	if jc.SessionDBPath != "" {
		cfg.SessionDBPath = jc.SessionDBPath
	}
	if jc.LogFormat != "" {
		cfg.LogFormat = jc.LogFormat
	}
	if jc.LogLevel != "" {
		cfg.LogLevel = jc.LogLevel
	}
}
