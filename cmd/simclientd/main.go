package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/unnamed-mmo/metaverse-client/internal/admin"
	"github.com/unnamed-mmo/metaverse-client/internal/logging"
	"github.com/unnamed-mmo/metaverse-client/internal/login"
	"github.com/unnamed-mmo/metaverse-client/internal/session"
)

func main() {
	if err := run(); err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintf(os.Stderr, "simclientd: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "", "path to toml config")
	flag.Parse()

	logging.ConfigureRuntime()

	cfg := defaultServiceConfig()
	if *configPath != "" {
		loaded, err := loadServiceConfig(*configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	if lvl, ok := logging.ParseLevel(cfg.LogLevel); ok {
		zerolog.SetGlobalLevel(lvl)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Stale socket files survive crashes; rebinding requires removal.
	_ = os.Remove(cfg.ControlSocket)
	conn, err := net.ListenPacket("unixgram", cfg.ControlSocket)
	if err != nil {
		return fmt.Errorf("bind control socket: %w", err)
	}
	defer os.Remove(cfg.ControlSocket)

	notifier := session.NewDatagramNotifier("unixgram", cfg.NotifySocket)
	defer notifier.Close()

	mbox := session.NewMailbox(notifier)
	mbox.Start(ctx)

	auth := &login.XMLRPCAuthenticator{
		Version:  "0.1.0",
		Platform: "Lin",
	}
	bridge := session.NewBridge(conn, auth, mbox)
	bridge.DefaultLoginURL = cfg.LoginURL

	adminSrv := admin.New(cfg.AdminAddr, mbox, cfg.CorsOrigins)
	go func() {
		if err := adminSrv.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error().Err(err).Msg("admin server exited")
		}
	}()

	log.Info().
		Str("control_socket", cfg.ControlSocket).
		Str("admin_addr", cfg.AdminAddr).
		Msg("simclientd starting")
	return bridge.Run(ctx)
}
