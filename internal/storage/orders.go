package storage

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order is a persisted order header. The grand total is never stored; use
// GrandTotal over the order lines.
type Order struct {
	ID        int64     `json:"id"`
	AreaID    int64     `json:"area_id"`
	AreaName  string    `json:"area_name"`
	Address   string    `json:"address"`
	CreatedAt time.Time `json:"created_at"`
}

type OrderLine struct {
	ID         int64           `json:"id"`
	OrderID    int64           `json:"order_id"`
	WorkerID   int64           `json:"worker_id"`
	WorkerName string          `json:"worker_name"`
	Salary     decimal.Decimal `json:"salary"`
	Transport  decimal.Decimal `json:"transport"`
}

// Total is always salary + transport.
func (l OrderLine) Total() decimal.Decimal {
	return l.Salary.Add(l.Transport)
}

// OrderSummary is a list row for the report picker. Total is computed on
// read from the lines.
type OrderSummary struct {
	ID        int64           `json:"id"`
	AreaName  string          `json:"area_name"`
	Address   string          `json:"address"`
	CreatedAt time.Time       `json:"created_at"`
	Lines     int             `json:"lines"`
	Total     decimal.Decimal `json:"total"`
}

// NewOrder is the input of an atomic order insert.
type NewOrder struct {
	AreaID    int64
	Address   string
	CreatedAt time.Time
	Lines     []NewOrderLine
}

type NewOrderLine struct {
	WorkerID  int64
	Salary    decimal.Decimal
	Transport decimal.Decimal
}

// MoneyPlaces is the precision of every stored and displayed amount.
const MoneyPlaces = 2

// Money rounds d to MoneyPlaces. Amounts are rounded once, when they enter
// the system, so stored lines match what the operator saw.
func Money(d decimal.Decimal) decimal.Decimal {
	return d.Round(MoneyPlaces)
}

// GrandTotal sums the line totals as they are displayed, so the printed rows
// always add up to the printed total.
func GrandTotal(lines []OrderLine) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(Money(l.Total()))
	}
	return total
}
