package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/dmitrijs2005/shopclient/internal/buildinfo"
	"github.com/dmitrijs2005/shopclient/internal/client/chat"
	"github.com/dmitrijs2005/shopclient/internal/client/cli"
	"github.com/dmitrijs2005/shopclient/internal/client/client"
	"github.com/dmitrijs2005/shopclient/internal/client/config"
	"github.com/dmitrijs2005/shopclient/internal/client/notifications"
	"github.com/dmitrijs2005/shopclient/internal/client/realtime"
	"github.com/dmitrijs2005/shopclient/internal/client/services"
	"github.com/dmitrijs2005/shopclient/internal/client/session"
	"github.com/dmitrijs2005/shopclient/internal/logging"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()
	cfg := config.LoadConfig()
	if err := run(ctx, cfg); err != nil {
		log.Fatalf("%v", err)
	}

}

func run(ctx context.Context, cfg *config.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := logging.New(cfg.LogFormat, cfg.LogLevel, os.Stderr)
	if err != nil {
		return err
	}
	if z, ok := logger.(*logging.ZapLogger); ok {
		defer z.Sync()
	}

	db, err := client.InitDatabase(ctx, cfg.SessionDBPath)
	if err != nil {
		return fmt.Errorf("error initializing database: %w", err)
	}
	defer db.Close()

	store := session.NewStore(db, logger.With("component", "session"))

	var app *cli.App
	api, err := client.NewHTTPClient(cfg.APIBaseURL, store,
		client.WithTimeout(cfg.RequestTimeout),
		client.WithRetries(cfg.RetryCount, cfg.RequestTimeout/10),
		client.WithLogger(logger.With("component", "api")),
		client.WithUnauthorizedHook(func(ctx context.Context) {
			if err := store.Clear(ctx); err != nil {
				logger.Error(ctx, "clear expired session", "error", err)
			}
			if app != nil {
				app.SessionExpired()
			}
		}),
	)
	if err != nil {
		return err
	}

	dialer, err := realtime.NewWebSocketDialer(cfg.RealtimeURL, cfg.WriteTimeout,
		realtime.WithHandshakeTimeout(cfg.HandshakeTimeout),
		realtime.WithHeartBeat(cfg.HeartBeat),
	)
	if err != nil {
		return err
	}
	manager := realtime.NewManager(dialer,
		realtime.WithReconnectDelay(cfg.ReconnectDelay),
		realtime.WithLogger(logger.With("component", "realtime")),
	)
	defer manager.Bind(store)()
	defer manager.Disconnect()

	inbox := notifications.New(manager, logger.With("component", "notifications"))
	defer inbox.Bind(store)()

	room := chat.NewSession(manager, api, logger.With("component", "chat"))

	app = cli.NewApp(cli.Deps{
		Auth:          services.NewAuthService(api, store),
		API:           api,
		Shop:          services.NewShopService(api),
		Chat:          room,
		Notifications: inbox,
		Realtime:      manager,
		Session:       store,
		Log:           logger,
	}, os.Stdin, os.Stdout)

	app.Run(ctx)
	return nil
}
