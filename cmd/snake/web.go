package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-snake/internal/platform/web"
)

var flagWebAddr string

var webCmd = &cobra.Command{
	Use:   "web",
	Short: "Start the browser front-end",
	Long: `Start an HTTP server with a browser client at / and the game
websocket at /ws. Every browser tab plays its own game.

The page accepts ?preset=<name> and ?seed=<n> to pick the board and RNG.

Examples:
  snake web
  snake web --addr :9000
  snake web --preset wide`,
	RunE: runWeb,
}

func init() {
	webCmd.Flags().StringVar(&flagWebAddr, "addr", "", "HTTP listen address (default from config)")
}

func runWeb(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if flagWebAddr != "" {
		cfg.Server.WebAddr = flagWebAddr
	}

	logger := newLogger(cfg, os.Stderr, "snake-web")
	store := openStore(cfg, logger)
	if store != nil {
		defer store.Close()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	server := web.New(web.Config{
		Address:  cfg.Server.WebAddr,
		Game:     &cfg,
		OnFinish: store.Recorder(logger),
		Logger:   logger,
	})

	fmt.Printf("Open http://localhost%s in a browser\n", cfg.Server.WebAddr)
	fmt.Println("Press Ctrl+C to stop")

	return server.ListenAndServe(ctx)
}
