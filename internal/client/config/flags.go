package config

import (
	"flag"
	"time"

	"github.com/dmitrijs2005/shopclient/internal/flagx"
)

var ownFlags = []string{"-a", "-w", "-r", "-d", "-f", "-l"}

// parseFlags populates Config fields from command-line flags, ignoring any
// flag it does not own. Parse errors panic.
func parseFlags(cfg *Config, args []string) {
	fs := flag.NewFlagSet("client", flag.ContinueOnError)

	fs.StringVar(&cfg.APIBaseURL, "a", cfg.APIBaseURL, "base URL of the storefront API")
	fs.StringVar(&cfg.RealtimeURL, "w", cfg.RealtimeURL, "STOMP over WebSocket endpoint")
	reconnect := fs.Int("r", int(cfg.ReconnectDelay.Seconds()), "reconnect delay (in seconds)")
	fs.StringVar(&cfg.SessionDBPath, "d", cfg.SessionDBPath, "session database path")
	fs.StringVar(&cfg.LogFormat, "f", cfg.LogFormat, "log format: text or json")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")

	if err := fs.Parse(flagx.FilterArgs(args, ownFlags)); err != nil {
		panic(err)
	}

	fs.Visit(func(f *flag.Flag) {
		if f.Name == "r" {
			cfg.ReconnectDelay = time.Duration(*reconnect) * time.Second
		}
	})
}
