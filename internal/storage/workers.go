package storage

import "github.com/shopspring/decimal"

type Worker struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type Area struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// RateEntry is the configured salary of one worker in one area.
type RateEntry struct {
	ID         int64           `json:"id"`
	WorkerID   int64           `json:"worker_id"`
	WorkerName string          `json:"worker_name"`
	AreaID     int64           `json:"area_id"`
	AreaName   string          `json:"area_name"`
	Salary     decimal.Decimal `json:"salary"`
}

// WorkerRate is a worker together with the salary configured for one area.
type WorkerRate struct {
	Worker Worker          `json:"worker"`
	Salary decimal.Decimal `json:"salary"`
}
