package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"worker-payroll/internal/config"
	"worker-payroll/internal/errs"
)

// Storage is the single data-access layer of the application. Every method
// acquires a pooled connection for the duration of one logical operation;
// with max_idle_conns = 0 the connection is closed again right after.
type Storage struct {
	db      *sql.DB
	dialect dialect
}

func New(cfg config.Storage) (*Storage, error) {
	const op = "storage.sqlstore.New"

	d, dsn, err := dialectFor(cfg)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	db, err := sql.Open(d.driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	db.SetMaxIdleConns(cfg.MaxIdleConns)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: ping %s: %w", op, d.name, err)
	}

	return &Storage{db: db, dialect: d}, nil
}

func (s *Storage) Close() error {
	return s.db.Close()
}

// Driver returns the configured engine name.
func (s *Storage) Driver() string {
	return s.dialect.name
}

// Migrate creates the schema when it does not exist yet.
func (s *Storage) Migrate(ctx context.Context) error {
	const op = "storage.sqlstore.Migrate"

	for _, stmt := range s.dialect.schema {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}

	return nil
}

func cleanName(field, name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", errs.NewValidationError(field, "name is required")
	}
	return name, nil
}

func formatTime(t time.Time) string {
	return t.Format(time.RFC3339Nano)
}

func parseTime(raw string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, raw)
}

// notFound maps sql.ErrNoRows to errs.ErrNotFound and leaves other errors as is.
func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return errs.ErrNotFound
	}
	return err
}
