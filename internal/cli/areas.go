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

type AreaCreator interface {
	CreateArea(ctx context.Context, name string) (int64, error)
}

type AreaLister interface {
	ListAreas(ctx context.Context) ([]storage.Area, error)
}

type AreaRenamer interface {
	RenameArea(ctx context.Context, id int64, name string) error
}

type AreaDeleter interface {
	DeleteArea(ctx context.Context, id int64) error
}

type AreaFinder interface {
	GetArea(ctx context.Context, id int64) (storage.Area, error)
	GetAreaByName(ctx context.Context, name string) (storage.Area, error)
}

func AddArea(log *slog.Logger, s AreaCreator) Command {
	return func(ctx context.Context, args []string, out io.Writer) error {
		const op = "cli.area.add"

		if err := wantArgs(args, 1, "area add <name>"); err != nil {
			return err
		}

		id, err := s.CreateArea(ctx, args[0])
		if err != nil {
			log.Warn("failed to add area", slog.String("op", op), slog.String("error", err.Error()))
			return err
		}

		log.Info("area added", slog.String("op", op), slog.Int64("id", id))
		fmt.Fprintf(out, "area %d added\n", id)

		return nil
	}
}

func ListAreas(log *slog.Logger, s AreaLister) Command {
	return func(ctx context.Context, args []string, out io.Writer) error {
		areas, err := s.ListAreas(ctx)
		if err != nil {
			log.Error("failed to list areas", slog.String("op", "cli.area.list"), slog.String("error", err.Error()))
			return err
		}

		rows := make([][]string, 0, len(areas))
		for _, a := range areas {
			rows = append(rows, []string{itoa(a.ID), a.Name})
		}

		return renderTable(out, []string{"ID", "Name"}, rows)
	}
}

func RenameArea(log *slog.Logger, s AreaRenamer) Command {
	return func(ctx context.Context, args []string, out io.Writer) error {
		const op = "cli.area.rename"

		if err := wantArgs(args, 2, "area rename <id> <new name>"); err != nil {
			return err
		}
		id, err := parseID("id", args[0])
		if err != nil {
			return err
		}

		if err := s.RenameArea(ctx, id, args[1]); err != nil {
			log.Warn("failed to rename area", slog.String("op", op), slog.Int64("id", id), slog.String("error", err.Error()))
			return err
		}

		fmt.Fprintf(out, "area %d renamed\n", id)

		return nil
	}
}

func DeleteArea(log *slog.Logger, s AreaDeleter) Command {
	return func(ctx context.Context, args []string, out io.Writer) error {
		const op = "cli.area.delete"

		if err := wantArgs(args, 1, "area delete <id>"); err != nil {
			return err
		}
		id, err := parseID("id", args[0])
		if err != nil {
			return err
		}

		if err := s.DeleteArea(ctx, id); err != nil {
			log.Warn("failed to delete area", slog.String("op", op), slog.Int64("id", id), slog.String("error", err.Error()))
			return err
		}

		log.Info("area deleted", slog.String("op", op), slog.Int64("id", id))
		fmt.Fprintf(out, "area %d deleted\n", id)

		return nil
	}
}

func findArea(ctx context.Context, s AreaFinder, ref string) (storage.Area, error) {
	ref = strings.TrimSpace(ref)
	if id, err := strconv.ParseInt(ref, 10, 64); err == nil {
		return s.GetArea(ctx, id)
	}
	return s.GetAreaByName(ctx, ref)
}
