package rates

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"worker-payroll/internal/errs"
	"worker-payroll/internal/storage"
)

// Policy decides what happens to a worker without a configured rate.
type Policy string

const (
	// PolicyFallback substitutes the flat fallback salary and flags the line.
	PolicyFallback Policy = "fallback"
	// PolicyReject refuses workers without a rate.
	PolicyReject Policy = "reject"
)

// Source tells where a resolved salary came from.
type Source string

const (
	SourceConfigured Source = "configured"
	SourceFallback   Source = "fallback"
)

type RateStorage interface {
	GetRate(ctx context.Context, workerID, areaID int64) (decimal.Decimal, error)
}

type CandidateStorage interface {
	ListAreaRates(ctx context.Context, areaID int64) ([]storage.WorkerRate, error)
	ListWorkers(ctx context.Context) ([]storage.Worker, error)
}

type Resolver struct {
	storage RateStorage
}

func NewResolver(storage RateStorage) *Resolver {
	return &Resolver{storage: storage}
}

// Resolve returns the configured salary for the pair or an error matching
// errs.ErrRateNotFound. It never substitutes a default.
func (r *Resolver) Resolve(ctx context.Context, workerID, areaID int64) (decimal.Decimal, error) {
	const op = "service.rates.Resolve"

	salary, err := r.storage.GetRate(ctx, workerID, areaID)
	if err != nil {
		if errors.Is(err, errs.ErrRateNotFound) {
			return decimal.Zero, err
		}
		return decimal.Zero, fmt.Errorf("%s: %w", op, err)
	}

	return salary, nil
}

// Candidate is one row of the worker selection list.
type Candidate struct {
	Worker storage.Worker
	Salary decimal.Decimal
	Source Source
}

// Candidates lists the workers offered for an order in the area: those with a
// configured rate, or, when the area has none and the policy allows it, every
// worker at the fallback salary. The Source field makes the substitution
// visible to the caller.
func Candidates(ctx context.Context, s CandidateStorage, areaID int64, policy Policy, fallback decimal.Decimal) ([]Candidate, error) {
	const op = "service.rates.Candidates"

	rated, err := s.ListAreaRates(ctx, areaID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if len(rated) > 0 {
		result := make([]Candidate, 0, len(rated))
		for _, wr := range rated {
			result = append(result, Candidate{Worker: wr.Worker, Salary: wr.Salary, Source: SourceConfigured})
		}
		return result, nil
	}

	if policy != PolicyFallback {
		return nil, nil
	}

	workers, err := s.ListWorkers(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	result := make([]Candidate, 0, len(workers))
	for _, w := range workers {
		result = append(result, Candidate{Worker: w, Salary: fallback, Source: SourceFallback})
	}

	return result, nil
}
