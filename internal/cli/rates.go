package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"

	"worker-payroll/internal/errs"
	"worker-payroll/internal/storage"
)

type RateSetter interface {
	WorkerFinder
	AreaFinder
	UpsertRate(ctx context.Context, workerID, areaID int64, salary decimal.Decimal) error
}

type RateLister interface {
	AreaFinder
	ListRates(ctx context.Context) ([]storage.RateEntry, error)
}

type RateDeleter interface {
	DeleteRate(ctx context.Context, id int64) error
}

func SetRate(log *slog.Logger, s RateSetter) Command {
	return func(ctx context.Context, args []string, out io.Writer) error {
		const op = "cli.rate.set"

		fs := newFlagSet("rate set")
		workerRef := fs.String("worker", "", "worker id or name")
		areaRef := fs.String("area", "", "area id or name")
		rawSalary := fs.String("salary", "", "salary amount")
		if err := parseFlags(fs, args); err != nil {
			return err
		}

		if *workerRef == "" || *areaRef == "" || *rawSalary == "" {
			return errs.NewValidationError("args", "usage: rate set -worker <id|name> -area <id|name> -salary <amount>")
		}

		parsed, err := decimal.NewFromString(strings.TrimSpace(*rawSalary))
		if err != nil {
			return errs.NewValidationErrorWithCause("salary", fmt.Sprintf("%q is not a number", *rawSalary), err)
		}
		salary := storage.Money(parsed)

		worker, err := findWorker(ctx, s, *workerRef)
		if err != nil {
			return err
		}
		area, err := findArea(ctx, s, *areaRef)
		if err != nil {
			return err
		}

		if err := s.UpsertRate(ctx, worker.ID, area.ID, salary); err != nil {
			log.Error("failed to set rate", slog.String("op", op), slog.String("error", err.Error()))
			return err
		}

		log.Info("rate set",
			slog.String("op", op),
			slog.Int64("worker_id", worker.ID),
			slog.Int64("area_id", area.ID),
			slog.String("salary", salary.String()),
		)
		fmt.Fprintf(out, "rate for %s in %s set to %s\n", worker.Name, area.Name, money(salary))

		return nil
	}
}

func ListRates(log *slog.Logger, s RateLister) Command {
	return func(ctx context.Context, args []string, out io.Writer) error {
		const op = "cli.rate.list"

		fs := newFlagSet("rate list")
		areaRef := fs.String("area", "", "only rates of this area (id or name)")
		if err := parseFlags(fs, args); err != nil {
			return err
		}

		var areaID int64
		if *areaRef != "" {
			area, err := findArea(ctx, s, *areaRef)
			if err != nil {
				return err
			}
			areaID = area.ID
		}

		entries, err := s.ListRates(ctx)
		if err != nil {
			log.Error("failed to list rates", slog.String("op", op), slog.String("error", err.Error()))
			return err
		}

		rows := make([][]string, 0, len(entries))
		for _, e := range entries {
			if areaID != 0 && e.AreaID != areaID {
				continue
			}
			rows = append(rows, []string{itoa(e.ID), e.AreaName, e.WorkerName, money(e.Salary)})
		}

		return renderTable(out, []string{"ID", "Area", "Worker", "Salary"}, rows)
	}
}

func DeleteRate(log *slog.Logger, s RateDeleter) Command {
	return func(ctx context.Context, args []string, out io.Writer) error {
		const op = "cli.rate.delete"

		if err := wantArgs(args, 1, "rate delete <id>"); err != nil {
			return err
		}
		id, err := parseID("id", args[0])
		if err != nil {
			return err
		}

		if err := s.DeleteRate(ctx, id); err != nil {
			log.Warn("failed to delete rate", slog.String("op", op), slog.Int64("id", id), slog.String("error", err.Error()))
			return err
		}

		fmt.Fprintf(out, "rate %d deleted\n", id)

		return nil
	}
}
