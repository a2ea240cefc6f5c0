package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/adrianliechti/payroll/config"
	"github.com/adrianliechti/payroll/pkg/otel"
	"github.com/adrianliechti/payroll/server"
)

var version = "dev"

func main() {
	configFlag := flag.String("config", "config.yaml", "config file")
	addressFlag := flag.String("address", "", "listen address")

	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, *configFlag, *addressFlag); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, path, address string) error {
	shutdown, err := otel.Setup(ctx, "payroll", version)

	if err != nil {
		return err
	}

	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		shutdown(ctx)
	}()

	cfg, err := config.Parse(path)

	if err != nil {
		return err
	}

	if address != "" {
		cfg.Address = address
	}

	s, err := server.New(cfg)

	if err != nil {
		return err
	}

	slog.Info("payroll starting", "version", version, "models", cfg.Models(), "format", cfg.Format().String())

	return s.ListenAndServe(ctx)
}
