package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"worker-payroll/internal/storage"
)

type WorkerCreator interface {
	CreateWorker(ctx context.Context, name string) (int64, error)
}

type WorkerLister interface {
	ListWorkers(ctx context.Context) ([]storage.Worker, error)
}

type WorkerRenamer interface {
	RenameWorker(ctx context.Context, id int64, name string) error
}

type WorkerDeleter interface {
	DeleteWorker(ctx context.Context, id int64) error
}

type WorkerFinder interface {
	GetWorker(ctx context.Context, id int64) (storage.Worker, error)
	GetWorkerByName(ctx context.Context, name string) (storage.Worker, error)
}

func AddWorker(log *slog.Logger, s WorkerCreator) Command {
	return func(ctx context.Context, args []string, out io.Writer) error {
		const op = "cli.worker.add"

		if err := wantArgs(args, 1, "worker add <name>"); err != nil {
			return err
		}

		id, err := s.CreateWorker(ctx, args[0])
		if err != nil {
			log.Warn("failed to add worker", slog.String("op", op), slog.String("error", err.Error()))
			return err
		}

		log.Info("worker added", slog.String("op", op), slog.Int64("id", id))
		fmt.Fprintf(out, "worker %d added\n", id)

		return nil
	}
}

func ListWorkers(log *slog.Logger, s WorkerLister) Command {
	return func(ctx context.Context, args []string, out io.Writer) error {
		const op = "cli.worker.list"

		workers, err := s.ListWorkers(ctx)
		if err != nil {
			log.Error("failed to list workers", slog.String("op", op), slog.String("error", err.Error()))
			return err
		}

		rows := make([][]string, 0, len(workers))
		for _, w := range workers {
			rows = append(rows, []string{itoa(w.ID), w.Name})
		}

		return renderTable(out, []string{"ID", "Name"}, rows)
	}
}

func RenameWorker(log *slog.Logger, s WorkerRenamer) Command {
	return func(ctx context.Context, args []string, out io.Writer) error {
		const op = "cli.worker.rename"

		if err := wantArgs(args, 2, "worker rename <id> <new name>"); err != nil {
			return err
		}
		id, err := parseID("id", args[0])
		if err != nil {
			return err
		}

		if err := s.RenameWorker(ctx, id, args[1]); err != nil {
			log.Warn("failed to rename worker", slog.String("op", op), slog.Int64("id", id), slog.String("error", err.Error()))
			return err
		}

		fmt.Fprintf(out, "worker %d renamed\n", id)

		return nil
	}
}

func DeleteWorker(log *slog.Logger, s WorkerDeleter) Command {
	return func(ctx context.Context, args []string, out io.Writer) error {
		const op = "cli.worker.delete"

		if err := wantArgs(args, 1, "worker delete <id>"); err != nil {
			return err
		}
		id, err := parseID("id", args[0])
		if err != nil {
			return err
		}

		if err := s.DeleteWorker(ctx, id); err != nil {
			log.Warn("failed to delete worker", slog.String("op", op), slog.Int64("id", id), slog.String("error", err.Error()))
			return err
		}

		log.Info("worker deleted", slog.String("op", op), slog.Int64("id", id))
		fmt.Fprintf(out, "worker %d deleted\n", id)

		return nil
	}
}

// findWorker accepts a numeric id or an exact name.
func findWorker(ctx context.Context, s WorkerFinder, ref string) (storage.Worker, error) {
	ref = strings.TrimSpace(ref)
	if id, err := strconv.ParseInt(ref, 10, 64); err == nil {
		return s.GetWorker(ctx, id)
	}
	return s.GetWorkerByName(ctx, ref)
}
