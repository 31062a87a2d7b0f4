package store

import (
	"context"
	"errors"
	"sync"
	"time"
)

// StoredRow is a committed row held by Memory.
type StoredRow struct {
	ID        int64
	Row       Row
	CreatedAt time.Time
}

// Memory is an in-process Store used for dry runs. Committed rows are kept
// in insertion order; rolled back rows are discarded.
type Memory struct {
	mu     sync.Mutex
	rows   []StoredRow
	nextID int64
	now    func() time.Time
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{now: time.Now}
}

// Begin starts a transaction that buffers inserts until Commit.
func (m *Memory) Begin(ctx context.Context) (Tx, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &memoryTx{store: m}, nil
}

// Close is a no-op.
func (m *Memory) Close() {}

// Rows returns a copy of all committed rows.
func (m *Memory) Rows() []StoredRow {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]StoredRow, len(m.rows))
	copy(out, m.rows)
	return out
}

// Count returns the number of committed rows.
func (m *Memory) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.rows)
}

var errTxDone = errors.New("transaction already finished")

type memoryTx struct {
	store   *Memory
	pending []Row
	done    bool
}

func (t *memoryTx) Insert(ctx context.Context, row Row) error {
	if t.done {
		return connectionLost(errTxDone)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	data := make([]byte, len(row.Data))
	copy(data, row.Data)
	row.Data = data

	t.pending = append(t.pending, row)
	return nil
}

func (t *memoryTx) Commit(_ context.Context) error {
	if t.done {
		return errTxDone
	}
	t.done = true

	m := t.store
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	for _, row := range t.pending {
		m.nextID++
		m.rows = append(m.rows, StoredRow{ID: m.nextID, Row: row, CreatedAt: now})
	}
	t.pending = nil
	return nil
}

func (t *memoryTx) Rollback(_ context.Context) error {
	t.done = true
	t.pending = nil
	return nil
}
