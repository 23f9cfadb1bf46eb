package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"worker-payroll/internal/config"
	"worker-payroll/internal/errs"
	"worker-payroll/internal/report"
	"worker-payroll/internal/shaping"
	"worker-payroll/internal/storage/sqlstore"
)

const (
	exitOK       = 0
	exitFailure  = 1
	exitOperator = 2
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg := config.MustConfig()

	log, closeLog := setupLogger(cfg.Env, os.Stderr, cfg.ErrorLog)
	defer closeLog()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	storage, err := sqlstore.New(cfg.Storage)
	if err != nil {
		log.Error("failed to open db", slog.String("driver", cfg.Storage.Driver), slog.String("error", err.Error()))
		return exitFailure
	}
	defer storage.Close()

	if err := storage.Migrate(ctx); err != nil {
		log.Error("failed to migrate db", slog.String("error", err.Error()))
		return exitFailure
	}

	pipeline := shaping.Detect(log, cfg.Report)
	reports := report.NewService(log, storage, pipeline)

	router := commands(*cfg, log, storage, reports)

	if err := router.Run(ctx, os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		if errs.IsOperatorError(err) {
			return exitOperator
		}
		return exitFailure
	}

	return exitOK
}
