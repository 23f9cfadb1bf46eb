package builder

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"

	"worker-payroll/internal/errs"
	"worker-payroll/internal/service/rates"
	"worker-payroll/internal/storage"
)

type State int

const (
	StateEmpty State = iota
	StateAreaChosen
	StateWorkersSelected
	StateTransportEdited
	StateFinalized
)

func (s State) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StateAreaChosen:
		return "area_chosen"
	case StateWorkersSelected:
		return "workers_selected"
	case StateTransportEdited:
		return "transport_edited"
	case StateFinalized:
		return "finalized"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

type RateResolver interface {
	Resolve(ctx context.Context, workerID, areaID int64) (decimal.Decimal, error)
}

type Line struct {
	Worker    storage.Worker
	Salary    decimal.Decimal
	Transport decimal.Decimal
	Source    rates.Source
}

func (l Line) Total() decimal.Decimal {
	return l.Salary.Add(l.Transport)
}

// Snapshot is a finalized copy of the working set. It shares no memory with
// the builder.
type Snapshot struct {
	Area  storage.Area
	Lines []Line
}

func (s Snapshot) GrandTotal() decimal.Decimal {
	return sumLines(s.Lines)
}

func (s Snapshot) Empty() bool {
	return len(s.Lines) == 0
}

// Builder holds the order being composed. It is not safe for concurrent use.
type Builder struct {
	log      *slog.Logger
	resolver RateResolver
	policy   rates.Policy
	fallback decimal.Decimal

	state State
	area  storage.Area
	lines []Line
}

func New(log *slog.Logger, resolver RateResolver, policy rates.Policy, fallback decimal.Decimal) *Builder {
	return &Builder{
		log:      log,
		resolver: resolver,
		policy:   policy,
		fallback: storage.Money(fallback),
	}
}

func (b *Builder) State() State {
	return b.state
}

func (b *Builder) Area() storage.Area {
	return b.area
}

// SelectArea sets the order area. Choosing a different area drops the
// current selection.
func (b *Builder) SelectArea(area storage.Area) error {
	if area.ID <= 0 {
		return errs.NewValidationError("area", "no area selected")
	}

	if b.state != StateEmpty && b.area.ID == area.ID {
		b.area = area
		return nil
	}

	b.area = area
	b.lines = nil
	b.state = StateAreaChosen

	return nil
}

// AddWorkers replaces the working set with the given workers at their area
// rates and zero transport. Earlier transport edits are discarded. On error
// the builder is left unchanged.
func (b *Builder) AddWorkers(ctx context.Context, area storage.Area, workers []storage.Worker) error {
	const op = "service.builder.AddWorkers"

	if area.ID <= 0 {
		return errs.NewValidationError("area", "no area selected")
	}
	if len(workers) == 0 {
		return errs.NewValidationError("workers", "select at least one worker")
	}

	seen := make(map[int64]struct{}, len(workers))
	lines := make([]Line, 0, len(workers))

	for _, w := range workers {
		if _, dup := seen[w.ID]; dup {
			continue
		}
		seen[w.ID] = struct{}{}

		salary, source, err := b.salaryFor(ctx, w, area)
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}

		lines = append(lines, Line{
			Worker:    w,
			Salary:    salary,
			Transport: decimal.Zero,
			Source:    source,
		})
	}

	b.area = area
	b.lines = lines
	b.state = StateWorkersSelected

	return nil
}

func (b *Builder) salaryFor(ctx context.Context, w storage.Worker, area storage.Area) (decimal.Decimal, rates.Source, error) {
	salary, err := b.resolver.Resolve(ctx, w.ID, area.ID)
	if err == nil {
		return storage.Money(salary), rates.SourceConfigured, nil
	}
	if !errors.Is(err, errs.ErrRateNotFound) {
		return decimal.Zero, "", err
	}

	if b.policy != rates.PolicyFallback {
		return decimal.Zero, "", errs.NewValidationError("workers",
			fmt.Sprintf("worker %q has no rate for area %q", w.Name, area.Name))
	}

	b.log.Warn("no rate configured, using fallback salary",
		slog.Int64("worker_id", w.ID),
		slog.Int64("area_id", area.ID),
		slog.String("salary", b.fallback.String()),
	)

	return b.fallback, rates.SourceFallback, nil
}

// SetTransport parses raw as the transport allowance of the line at index.
// An empty value means zero. Negative values are accepted. Amounts are
// rounded to whole cents.
func (b *Builder) SetTransport(index int, raw string) error {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return b.SetTransportAmount(index, decimal.Zero)
	}

	amount, err := decimal.NewFromString(raw)
	if err != nil {
		return errs.NewValidationErrorWithCause("transport", fmt.Sprintf("%q is not a number", raw), err)
	}

	return b.SetTransportAmount(index, amount)
}

func (b *Builder) SetTransportAmount(index int, amount decimal.Decimal) error {
	if index < 0 || index >= len(b.lines) {
		return errs.NewValidationError("index", fmt.Sprintf("line %d does not exist", index))
	}

	b.lines[index].Transport = storage.Money(amount)
	b.state = StateTransportEdited

	return nil
}

// Snapshot finalizes the order and returns an independent copy of it.
func (b *Builder) Snapshot() (Snapshot, error) {
	if len(b.lines) == 0 {
		return Snapshot{}, errs.ErrEmptySelection
	}

	b.state = StateFinalized

	return Snapshot{Area: b.area, Lines: b.Lines()}, nil
}

func (b *Builder) Lines() []Line {
	out := make([]Line, len(b.lines))
	copy(out, b.lines)
	return out
}

func (b *Builder) GrandTotal() decimal.Decimal {
	return sumLines(b.lines)
}

func (b *Builder) Reset() {
	b.area = storage.Area{}
	b.lines = nil
	b.state = StateEmpty
}

// MarkPersisted clears a finalized order after it has been committed.
func (b *Builder) MarkPersisted() {
	if b.state == StateFinalized {
		b.Reset()
	}
}

func sumLines(lines []Line) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.Total())
	}
	return total
}
