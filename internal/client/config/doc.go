// Package config loads runtime configuration for the storefront client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. A .env file in the working directory and SHOP_* environment variables.
//  3. Optional JSON file selected via -c or -config.
//  4. Command-line flags, which override everything above.
//
// Supported flags
//
//	-a string   base URL of the storefront HTTP API
//	-w string   STOMP-over-WebSocket endpoint URL
//	-r int      reconnect delay (seconds)
//	-d string   path of the session database
//	-f string   log format: text or json
//	-l string   log level: debug, info, warn, error
//
// # JSON schema
//
// Durations accept strings like "5s" or integer nanoseconds:
//
//	{
//	  "api_base_url": "http://localhost:8080",
//	  "realtime_url": "ws://localhost:8080/ws/websocket",
//	  "reconnect_delay": "5s",
//	  "request_timeout": "5s",
//	  "write_timeout": "5s",
//	  "retry_count": 1,
//	  "session_db_path": "session.db",
//	  "log_format": "text",
//	  "log_level": "info"
//	}
package config
