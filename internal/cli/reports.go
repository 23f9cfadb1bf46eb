package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"worker-payroll/internal/config"
	"worker-payroll/internal/errs"
)

type Exporter interface {
	Export(ctx context.Context, orderID int64, dir, format string) (string, error)
}

type Seeder interface {
	Seed(ctx context.Context) (bool, error)
}

func ExportReport(log *slog.Logger, e Exporter, defaults config.Report) Command {
	return func(ctx context.Context, args []string, out io.Writer) error {
		const op = "cli.report.export"

		fs := newFlagSet("report export")
		orderRef := fs.String("order", "", "order id")
		dir := fs.String("dir", defaults.Dir, "output directory")
		format := fs.String("format", defaults.Format, "pdf or xlsx")
		if err := parseFlags(fs, args); err != nil {
			return err
		}
		if *orderRef == "" {
			return errs.NewValidationError("order", "usage: report export -order <id> [-dir <dir>] [-format pdf|xlsx]")
		}

		id, err := parseID("order", *orderRef)
		if err != nil {
			return err
		}

		path, err := e.Export(ctx, id, *dir, *format)
		if err != nil {
			log.Error("failed to export report", slog.String("op", op), slog.Int64("order_id", id), slog.String("error", err.Error()))
			return err
		}

		fmt.Fprintf(out, "report written to %s\n", path)

		return nil
	}
}

func Seed(log *slog.Logger, s Seeder) Command {
	return func(ctx context.Context, args []string, out io.Writer) error {
		seeded, err := s.Seed(ctx)
		if err != nil {
			log.Error("failed to seed demo data", slog.String("op", "cli.seed"), slog.String("error", err.Error()))
			return err
		}

		if !seeded {
			fmt.Fprintln(out, "database already has workers, nothing seeded")
			return nil
		}

		fmt.Fprintln(out, "demo workers, areas and rates added")

		return nil
	}
}
