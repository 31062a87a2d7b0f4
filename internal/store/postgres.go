package store

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"strings"

	"github.com/JonMunkholm/kpiimport/internal/config"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DefaultPostgresTable is the snapshot table used when SNAPSHOT_TABLE is unset.
const DefaultPostgresTable = "kpi_snapshots"

// Postgres stores snapshots through a pgx connection pool.
type Postgres struct {
	pool  *pgxpool.Pool
	table string
}

// OpenPostgres parses the URL, applies pool limits and verifies the connection.
func OpenPostgres(ctx context.Context, cfg config.DatabaseConfig) (*Postgres, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}

	poolConfig.MaxConns = int32(cfg.MaxConns)
	poolConfig.MinConns = int32(cfg.MinConns)

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	table := cfg.Table
	if table == "" {
		table = DefaultPostgresTable
	}

	return &Postgres{pool: pool, table: table}, nil
}

// Begin starts the run transaction.
func (p *Postgres) Begin(ctx context.Context) (Tx, error) {
	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", classifyPgError(err))
	}
	return &pgTx{tx: tx, insertSQL: postgresInsertSQL(p.table)}, nil
}

// Close releases all pooled connections.
func (p *Postgres) Close() {
	p.pool.Close()
}

func postgresInsertSQL(table string) string {
	ident := pgx.Identifier(strings.Split(table, "."))
	return fmt.Sprintf(
		"INSERT INTO %s (company_id, snapshot_date, kpi_type, source, data, created_at) VALUES ($1, $2, $3, $4, $5, NOW())",
		ident.Sanitize(),
	)
}

type pgTx struct {
	tx        pgx.Tx
	insertSQL string
	seq       int
}

// Insert writes one row inside its own savepoint. A constraint violation rolls
// back to the savepoint so the surrounding transaction stays usable.
func (t *pgTx) Insert(ctx context.Context, row Row) error {
	savepoint := fmt.Sprintf("sp_%d", t.seq)
	t.seq++

	if _, err := t.tx.Exec(ctx, "SAVEPOINT "+savepoint); err != nil {
		return fmt.Errorf("create savepoint: %w", classifyPgError(err))
	}

	_, err := t.tx.Exec(ctx, t.insertSQL,
		row.EntityID,
		pgtype.Date{Time: row.SnapshotDate, Valid: true},
		row.Category,
		row.Source,
		row.Data,
	)
	if err != nil {
		_, _ = t.tx.Exec(ctx, "ROLLBACK TO SAVEPOINT "+savepoint)
		return fmt.Errorf("insert: %w", classifyPgError(err))
	}

	_, _ = t.tx.Exec(ctx, "RELEASE SAVEPOINT "+savepoint)
	return nil
}

func (t *pgTx) Commit(ctx context.Context) error {
	if err := t.tx.Commit(ctx); err != nil {
		return classifyPgError(err)
	}
	return nil
}

func (t *pgTx) Rollback(ctx context.Context) error {
	err := t.tx.Rollback(ctx)
	if errors.Is(err, pgx.ErrTxClosed) {
		return nil
	}
	return err
}

// classifyPgError tags connection-level failures with ErrConnectionLost.
// Constraint and data errors are returned unchanged.
func classifyPgError(err error) error {
	if err == nil {
		return nil
	}
	if isPgConnectionLost(err) {
		return connectionLost(err)
	}
	return err
}

func isPgConnectionLost(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// Class 08: connection exception. 57P01-57P03: server shutting down.
		return strings.HasPrefix(pgErr.Code, "08") ||
			pgErr.Code == "57P01" || pgErr.Code == "57P02" || pgErr.Code == "57P03"
	}

	if errors.Is(err, pgx.ErrTxClosed) || errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return true
	}
	if pgconn.Timeout(err) {
		return true
	}

	var netErr net.Error
	return errors.As(err, &netErr)
}
