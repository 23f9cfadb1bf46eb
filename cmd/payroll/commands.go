package main

import (
	"log/slog"

	"worker-payroll/internal/cli"
	"worker-payroll/internal/config"
	"worker-payroll/internal/report"
	"worker-payroll/internal/service/builder"
	"worker-payroll/internal/service/persist"
	"worker-payroll/internal/service/rates"
	"worker-payroll/internal/storage/sqlstore"
)

func commands(cfg config.Config, log *slog.Logger, storage *sqlstore.Storage, reports *report.Service) *cli.Router {
	router := cli.NewRouter()

	pricing := cli.Pricing{
		Policy:   rates.Policy(cfg.Rates.MissingRatePolicy),
		Fallback: cfg.Rates.FallbackAmount(),
	}
	resolver := rates.NewResolver(storage)
	newBuilder := func() *builder.Builder {
		return builder.New(log, resolver, pricing.Policy, pricing.Fallback)
	}
	persister := persist.New(log, storage)

	// workers
	router.Handle("worker add", "<name>", cli.AddWorker(log, storage))
	router.Handle("worker list", "", cli.ListWorkers(log, storage))
	router.Handle("worker rename", "<id> <new name>", cli.RenameWorker(log, storage))
	router.Handle("worker delete", "<id>", cli.DeleteWorker(log, storage))

	// areas
	router.Handle("area add", "<name>", cli.AddArea(log, storage))
	router.Handle("area list", "", cli.ListAreas(log, storage))
	router.Handle("area rename", "<id> <new name>", cli.RenameArea(log, storage))
	router.Handle("area delete", "<id>", cli.DeleteArea(log, storage))

	// rates
	router.Handle("rate set", "-worker <id|name> -area <id|name> -salary <amount>", cli.SetRate(log, storage))
	router.Handle("rate list", "[-area <id|name>]", cli.ListRates(log, storage))
	router.Handle("rate delete", "<id>", cli.DeleteRate(log, storage))

	// orders
	router.Handle("order candidates", "-area <id|name>", cli.Candidates(log, storage, pricing))
	router.Handle("order create", "-area <id|name> (-worker <ref>... | -all) [-transport <ref>=<amount>...] [-address <text>] [-dry-run]",
		cli.CreateOrder(log, storage, newBuilder, pricing, persister))
	router.Handle("order list", "", cli.ListOrders(log, storage))
	router.Handle("order show", "<id>", cli.ShowOrder(log, storage))

	// reports
	router.Handle("report export", "-order <id> [-dir <dir>] [-format pdf|xlsx]", cli.ExportReport(log, reports, cfg.Report))

	router.Handle("seed", "add demo data to an empty database", cli.Seed(log, storage))

	return router
}
