package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"go-groupchat/internal/collab"
	"go-groupchat/internal/config"
	"go-groupchat/internal/provider"
	"go-groupchat/internal/tui"
)

// Exit codes
const (
	exitOK      = 0
	exitRuntime = 1
	exitConfig  = 2
)

func main() {
	code, err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "groupchat: %v\n", err)
	}
	os.Exit(code)
}

func run() (int, error) {
	cfg, err := config.Load(".env")
	if err != nil {
		return exitConfig, err
	}

	logger, closer, err := cfg.Logger()
	if err != nil {
		return exitConfig, err
	}
	defer closer.Close()
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := collab.Options{
		URL:   cfg.CollabURL,
		Room:  cfg.CollabRoom,
		Token: cfg.CollabToken,
	}
	slog.Info("Starting group chat client", "url", opts.URL, "room", opts.Room)

	if err := tui.Run(ctx, opts, provider.Open, os.Stdin, os.Stdout); err != nil {
		return exitRuntime, err
	}
	slog.Info("Group chat client stopped")
	return exitOK, nil
}
