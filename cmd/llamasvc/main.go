package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"llamasvc/internal/cli"
)

func main() {
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		With().Timestamp().Logger()

	// Graceful shutdown (Ctrl+C / SIGTERM)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := cli.NewRootCmd(log, os.Stdin, os.Stdout)
	if err := root.ExecuteContext(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Error().Err(err).Msg("llamasvc failed")
		stop()
		os.Exit(1)
	}
}
