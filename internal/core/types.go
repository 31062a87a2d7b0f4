package core

import (
	"bytes"
	"encoding/json"
	"time"
)

// FieldType represents the coercion target for a spreadsheet column.
type FieldType int

const (
	FieldInteger FieldType = iota
	FieldDecimal
	FieldDate
)

func (t FieldType) String() string {
	switch t {
	case FieldInteger:
		return "integer"
	case FieldDecimal:
		return "decimal"
	case FieldDate:
		return "date"
	default:
		return "unknown"
	}
}

// FieldSpec binds one payload metric to a fixed column position.
type FieldSpec struct {
	Name   string    // Payload key: "faturamento_mensal"
	Group  string    // Nested payload object, empty for top-level metrics
	Column int       // Zero-based column index (A = 0)
	Type   FieldType // FieldInteger or FieldDecimal
}

// SheetInfo contains the identity of a sheet type.
type SheetInfo struct {
	Key      string // Unique identifier: "blue_consult"
	Name     string // Exact worksheet name: "Blue Consult"
	Category string // Stored kpi type: "blue_consult_all"
	Source   string // Provenance tag: "consolidated"
}

// SheetDefinition contains everything needed to turn a sheet into snapshots.
// Columns are bound by position; header text is never consulted.
type SheetDefinition struct {
	Info       SheetInfo
	DateColumn int
	Entity     EntityStrategy
	Fields     []FieldSpec
}

// Metric is one entry of a Payload. Value is an int64, a float64 or a
// nested Payload.
type Metric struct {
	Key   string
	Value any
}

// Payload is an ordered metric mapping. It serializes to a JSON object whose
// keys keep declaration order.
type Payload []Metric

// Get returns the value stored under key.
func (p Payload) Get(key string) (any, bool) {
	for _, m := range p {
		if m.Key == key {
			return m.Value, true
		}
	}
	return nil, false
}

// Keys returns the top-level keys in order.
func (p Payload) Keys() []string {
	keys := make([]string, len(p))
	for i, m := range p {
		keys[i] = m.Key
	}
	return keys
}

// MarshalJSON writes the payload as an object, preserving key order.
func (p Payload) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, m := range p {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(m.Key)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := json.Marshal(m.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Snapshot is one normalized KPI record: a single (entity, date, category)
// reading built from one spreadsheet row. The creation timestamp is assigned
// by the database at insert time.
type Snapshot struct {
	EntityID     int64
	SnapshotDate time.Time
	Category     string
	Source       string
	Payload      Payload
}

// OutcomeKind classifies what happened to a spreadsheet row.
type OutcomeKind int

const (
	OutcomeRecord   OutcomeKind = iota // Row produced a snapshot
	OutcomeSkipped                     // Blank date cell, silently ignored
	OutcomeRejected                    // Row failed validation
)

// RowOutcome is emitted by Parse for every data row.
type RowOutcome struct {
	Row      int // 1-based spreadsheet row number
	Kind     OutcomeKind
	Snapshot Snapshot  // Set when Kind is OutcomeRecord
	Err      *RowError // Set when Kind is OutcomeRejected
}

// SheetResult counts what happened to one sheet during a run.
type SheetResult struct {
	Sheet           string
	Found           bool
	Error           string // Non-empty if the sheet could not be read
	Written         int    // Snapshots inserted
	Blank           int    // Rows skipped because the date cell was blank
	Rejected        int    // Rows failing coercion or entity lookup
	UnknownEntities int    // Subset of Rejected caused by entity lookup
	WriteFailures   int    // Snapshots whose insert failed
}

// Errors returns the rows that did not make it into storage, blanks excluded.
func (r SheetResult) Errors() int {
	return r.Rejected + r.WriteFailures
}

// ImportResult contains the final result of an import run.
type ImportResult struct {
	RunID     string
	FileName  string
	Sheets    []SheetResult
	RowErrors []RowError // First N row errors, capped by MaxReportedErrors
	Ignored   []string   // Worksheets no definition reads
	Committed bool
	Duration  time.Duration
	Error     string // Non-empty if the run failed
}

// Written returns the total snapshots written across all sheets. After a
// failed commit nothing was persisted, whatever the per-sheet counters say.
func (r *ImportResult) Written() int {
	n := 0
	for _, s := range r.Sheets {
		n += s.Written
	}
	return n
}

// Errors returns the total rejected and failed rows across all sheets.
func (r *ImportResult) Errors() int {
	n := 0
	for _, s := range r.Sheets {
		n += s.Errors()
	}
	return n
}

// ProgressEvent reports one processed row while a run is in flight.
type ProgressEvent struct {
	Sheet    string
	Row      int
	Kind     OutcomeKind
	Snapshot Snapshot
	Err      error // Row or write error, nil on success
}

// ProgressFunc is called for every processed row, in order.
type ProgressFunc func(ProgressEvent)
