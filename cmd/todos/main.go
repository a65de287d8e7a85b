// Package main is the entry point for the todos CLI.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"todos/internal/backend"
	"todos/internal/cli"
	"todos/internal/commands"
	"todos/internal/config"
	"todos/internal/logging"
	"todos/internal/service"
)

func main() {
	// Create context that cancels on interrupt
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	factory := func(ctx context.Context, cfg *config.Config) (service.Service, error) {
		logger := logging.New(os.Stderr, cfg.LogLevelName(), cfg.LogFormat)
		return backend.Open(cfg, logger)
	}

	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, factory)

	code := dispatcher.Run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	os.Exit(code)
}
