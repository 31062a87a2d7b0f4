// Package store persists KPI snapshot rows.
//
// The importer talks to a [Store] through a single [Tx] per run: every
// insert is issued inside that transaction and becomes visible only when the
// run commits. Backends are append-only; there is no update or upsert path.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/JonMunkholm/kpiimport/internal/config"
)

// ErrConnectionLost marks failures caused by the database connection going
// away. Callers treat it as fatal for the whole run.
var ErrConnectionLost = errors.New("database connection lost")

// Row is one snapshot as stored. Data is the serialized payload.
type Row struct {
	EntityID     int64
	SnapshotDate time.Time
	Category     string
	Source       string
	Data         []byte
}

// Store hands out transactions against the snapshot table.
type Store interface {
	Begin(ctx context.Context) (Tx, error)
	Close()
}

// Tx is a single import transaction.
//
// A failed Insert leaves the transaction usable: backends isolate each insert
// behind a savepoint so one rejected row does not poison the rest.
type Tx interface {
	Insert(ctx context.Context, row Row) error
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// Open connects to the backend selected by the DATABASE_URL scheme.
func Open(ctx context.Context, cfg config.DatabaseConfig) (Store, error) {
	if strings.TrimSpace(cfg.URL) == "" {
		return nil, errors.New("DATABASE_URL is not set")
	}

	driver, err := cfg.Driver()
	if err != nil {
		return nil, err
	}

	connectCtx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()

	switch driver {
	case "postgres":
		return OpenPostgres(connectCtx, cfg)
	case "mysql":
		return OpenMySQL(connectCtx, cfg)
	default:
		return nil, fmt.Errorf("unsupported driver: %s", driver)
	}
}

// connectionLost wraps err so errors.Is(err, ErrConnectionLost) holds.
func connectionLost(err error) error {
	return fmt.Errorf("%w: %w", ErrConnectionLost, err)
}
