package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"worker-payroll/internal/errs"
	"worker-payroll/internal/service/builder"
	"worker-payroll/internal/service/rates"
	"worker-payroll/internal/storage"
)

// Pricing carries the missing-rate policy into order commands.
type Pricing struct {
	Policy   rates.Policy
	Fallback decimal.Decimal
}

type CandidateSource interface {
	AreaFinder
	rates.CandidateStorage
}

type OrderComposer interface {
	CandidateSource
	WorkerFinder
}

type Committer interface {
	CommitBuilder(ctx context.Context, b *builder.Builder, address string) (int64, error)
}

type OrderLister interface {
	ListOrders(ctx context.Context) ([]storage.OrderSummary, error)
}

type OrderReader interface {
	GetOrder(ctx context.Context, id int64) (storage.Order, error)
	GetOrderLines(ctx context.Context, orderID int64) ([]storage.OrderLine, error)
}

// multiFlag collects a repeatable string flag.
type multiFlag []string

func (m *multiFlag) String() string {
	return strings.Join(*m, ",")
}

func (m *multiFlag) Set(v string) error {
	*m = append(*m, v)
	return nil
}

func Candidates(log *slog.Logger, s CandidateSource, pricing Pricing) Command {
	return func(ctx context.Context, args []string, out io.Writer) error {
		const op = "cli.order.candidates"

		fs := newFlagSet("order candidates")
		areaRef := fs.String("area", "", "area id or name")
		if err := parseFlags(fs, args); err != nil {
			return err
		}
		if *areaRef == "" {
			return errs.NewValidationError("area", "usage: order candidates -area <id|name>")
		}

		area, err := findArea(ctx, s, *areaRef)
		if err != nil {
			return err
		}

		list, err := rates.Candidates(ctx, s, area.ID, pricing.Policy, pricing.Fallback)
		if err != nil {
			log.Error("failed to list candidates", slog.String("op", op), slog.String("error", err.Error()))
			return err
		}

		rows := make([][]string, 0, len(list))
		for _, c := range list {
			rows = append(rows, []string{itoa(c.Worker.ID), c.Worker.Name, money(c.Salary), string(c.Source)})
		}

		return renderTable(out, []string{"ID", "Worker", "Salary", "Rate"}, rows)
	}
}

func CreateOrder(log *slog.Logger, s OrderComposer, newBuilder func() *builder.Builder, pricing Pricing, c Committer) Command {
	return func(ctx context.Context, args []string, out io.Writer) error {
		const op = "cli.order.create"

		var workerRefs, transports multiFlag

		fs := newFlagSet("order create")
		areaRef := fs.String("area", "", "area id or name")
		address := fs.String("address", "", "optional address")
		all := fs.Bool("all", false, "select every candidate worker of the area")
		dryRun := fs.Bool("dry-run", false, "show the order without saving it")
		fs.Var(&workerRefs, "worker", "worker id or name (repeatable)")
		fs.Var(&transports, "transport", "transport allowance as <worker>=<amount> (repeatable)")
		if err := parseFlags(fs, args); err != nil {
			return err
		}
		if *areaRef == "" {
			return errs.NewValidationError("area", "usage: order create -area <id|name> (-worker <ref>... | -all) [-transport <ref>=<amount>...] [-address <text>] [-dry-run]")
		}

		area, err := findArea(ctx, s, *areaRef)
		if err != nil {
			return err
		}

		b := newBuilder()
		if err := b.SelectArea(area); err != nil {
			return err
		}

		workers, err := selectWorkers(ctx, s, area, workerRefs, *all, pricing)
		if err != nil {
			return err
		}

		if err := b.AddWorkers(ctx, area, workers); err != nil {
			return err
		}

		for _, t := range transports {
			if err := applyTransport(b, t); err != nil {
				return err
			}
		}

		if err := printPreview(out, area, b.Lines(), b.GrandTotal()); err != nil {
			return err
		}

		if *dryRun {
			return nil
		}

		id, err := c.CommitBuilder(ctx, b, *address)
		if err != nil {
			log.Error("failed to create order", slog.String("op", op), slog.String("error", err.Error()))
			return err
		}

		fmt.Fprintf(out, "order %d saved\n", id)

		return nil
	}
}

func selectWorkers(ctx context.Context, s OrderComposer, area storage.Area, refs []string, all bool, pricing Pricing) ([]storage.Worker, error) {
	if all {
		list, err := rates.Candidates(ctx, s, area.ID, pricing.Policy, pricing.Fallback)
		if err != nil {
			return nil, err
		}
		workers := make([]storage.Worker, 0, len(list))
		for _, c := range list {
			workers = append(workers, c.Worker)
		}
		return workers, nil
	}

	workers := make([]storage.Worker, 0, len(refs))
	for _, ref := range refs {
		w, err := findWorker(ctx, s, ref)
		if err != nil {
			return nil, err
		}
		workers = append(workers, w)
	}

	return workers, nil
}

// applyTransport handles one "<worker>=<amount>" assignment. A numeric
// reference is matched against worker ids before names, like findWorker.
func applyTransport(b *builder.Builder, assignment string) error {
	ref, raw, ok := strings.Cut(assignment, "=")
	if !ok {
		return errs.NewValidationError("transport", fmt.Sprintf("%q is not <worker>=<amount>", assignment))
	}
	ref = strings.TrimSpace(ref)
	lines := b.Lines()

	if id, err := strconv.ParseInt(ref, 10, 64); err == nil {
		for i, l := range lines {
			if l.Worker.ID == id {
				return b.SetTransport(i, raw)
			}
		}
	}

	for i, l := range lines {
		if l.Worker.Name == ref {
			return b.SetTransport(i, raw)
		}
	}

	return errs.NewValidationError("transport", fmt.Sprintf("worker %q is not part of the order", ref))
}

func printPreview(out io.Writer, area storage.Area, lines []builder.Line, total decimal.Decimal) error {
	fmt.Fprintf(out, "area: %s\n", area.Name)

	rows := make([][]string, 0, len(lines))
	for _, l := range lines {
		rows = append(rows, []string{
			l.Worker.Name,
			money(l.Salary),
			money(l.Transport),
			money(l.Total()),
			string(l.Source),
		})
	}

	if err := renderTable(out, []string{"Worker", "Salary", "Transport", "Total", "Rate"}, rows); err != nil {
		return err
	}

	fmt.Fprintf(out, "total: %s\n", money(total))

	return nil
}

func ListOrders(log *slog.Logger, s OrderLister) Command {
	return func(ctx context.Context, args []string, out io.Writer) error {
		orders, err := s.ListOrders(ctx)
		if err != nil {
			log.Error("failed to list orders", slog.String("op", "cli.order.list"), slog.String("error", err.Error()))
			return err
		}

		rows := make([][]string, 0, len(orders))
		for _, o := range orders {
			rows = append(rows, []string{
				itoa(o.ID),
				localTime(o.CreatedAt),
				o.AreaName,
				o.Address,
				fmt.Sprint(o.Lines),
				money(o.Total),
			})
		}

		return renderTable(out, []string{"ID", "Date", "Area", "Address", "Workers", "Total"}, rows)
	}
}

func ShowOrder(log *slog.Logger, s OrderReader) Command {
	return func(ctx context.Context, args []string, out io.Writer) error {
		const op = "cli.order.show"

		if err := wantArgs(args, 1, "order show <id>"); err != nil {
			return err
		}
		id, err := parseID("id", args[0])
		if err != nil {
			return err
		}

		order, err := s.GetOrder(ctx, id)
		if err != nil {
			log.Warn("failed to load order", slog.String("op", op), slog.Int64("id", id), slog.String("error", err.Error()))
			return err
		}
		lines, err := s.GetOrderLines(ctx, id)
		if err != nil {
			log.Error("failed to load order lines", slog.String("op", op), slog.Int64("id", id), slog.String("error", err.Error()))
			return err
		}

		fmt.Fprintf(out, "order %d\narea: %s\n", order.ID, order.AreaName)
		if order.Address != "" {
			fmt.Fprintf(out, "address: %s\n", order.Address)
		}
		fmt.Fprintf(out, "date: %s\n", localTime(order.CreatedAt))

		rows := make([][]string, 0, len(lines))
		for _, l := range lines {
			rows = append(rows, []string{l.WorkerName, money(l.Salary), money(l.Transport), money(l.Total())})
		}
		if err := renderTable(out, []string{"Worker", "Salary", "Transport", "Total"}, rows); err != nil {
			return err
		}

		fmt.Fprintf(out, "total: %s\n", money(storage.GrandTotal(lines)))

		return nil
	}
}
