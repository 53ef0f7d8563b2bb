// Command kancl is the command-line client for the kancl API.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jandrly/kancl/internal/client/api"
	"github.com/jandrly/kancl/internal/client/cli"
	"github.com/jandrly/kancl/internal/client/config"
	"github.com/jandrly/kancl/internal/client/storage"
	"github.com/jandrly/kancl/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	log := logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: true, Service: "kancl-cli"})

	client := api.New(cfg.ServerURL, api.WithHTTPClient(&http.Client{Timeout: cfg.RequestTimeout}))
	app, err := cli.NewApp(client, storage.NewFileStore(cfg.StateFile), os.Stdin, os.Stdout, log,
		cli.WithPollInterval(cfg.PollInterval))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load client state")
	}

	err = app.Run(ctx, os.Args[1:])
	app.Close()
	if err != nil {
		fmt.Fprintln(os.Stderr, "kancl:", err)
		os.Exit(1)
	}
}
