package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/JonMunkholm/csvdiff/internal/cli"
	"github.com/JonMunkholm/csvdiff/internal/config"
)

func main() {
	// A .env file may supply defaults; real environment variables win.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "configuration error:", err)
		os.Exit(2)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	err = cli.NewRootCommand(cfg).ExecuteContext(ctx)
	if err != nil && !errors.Is(err, cli.ErrDifferent) {
		fmt.Fprintln(os.Stderr, cli.ErrorMessage(err))
	}
	cancel()
	os.Exit(cli.ExitCode(err))
}
