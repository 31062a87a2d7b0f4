package core

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/JonMunkholm/kpiimport/internal/config"
	"github.com/JonMunkholm/kpiimport/internal/logging"
	"github.com/JonMunkholm/kpiimport/internal/store"
)

// ContextCheckInterval is how often, in rows, to check for context cancellation.
var ContextCheckInterval = 100

// Workbook is the read side of an opened spreadsheet.
type Workbook interface {
	SheetNames() []string
	Rows(sheet string) ([][]string, error)
	Close() error
}

// WorkbookOpener opens the workbook at path.
type WorkbookOpener func(path string) (Workbook, error)

// Importer runs one workbook through every registered sheet definition and
// writes the resulting snapshots in a single transaction.
type Importer struct {
	store      store.Store
	open       WorkbookOpener
	registry   *Registry
	cfg        config.ImportConfig
	onProgress ProgressFunc
}

// NewImporter creates an importer. The store is owned by the caller and is
// not closed by Run.
func NewImporter(st store.Store, open WorkbookOpener, reg *Registry, cfg config.ImportConfig) *Importer {
	return &Importer{
		store:    st,
		open:     open,
		registry: reg,
		cfg:      cfg,
	}
}

// OnProgress sets a callback invoked for every written, rejected or failed row.
func (im *Importer) OnProgress(fn ProgressFunc) {
	im.onProgress = fn
}

// Run imports the workbook at path.
//
// The returned result is never nil. A non-nil error means the run failed and
// nothing was persisted: the workbook or transaction could not be opened
// (*SourceOpenError), the connection was lost mid-run (*WriteError), the
// context was cancelled, or the final commit failed (*CommitError).
// Rejected rows alone never fail a run.
func (im *Importer) Run(ctx context.Context, path string) (*ImportResult, error) {
	start := time.Now()
	runID := uuid.NewString()
	ctx = logging.ContextWithRunID(ctx, runID)
	log := logging.WithFields(ctx, "file", path)

	result := &ImportResult{
		RunID:    runID,
		FileName: filepath.Base(path),
	}
	finish := func(err error) (*ImportResult, error) {
		result.Duration = time.Since(start)
		if err != nil {
			result.Error = err.Error()
			log.Error("import failed", "error", err, "duration", result.Duration)
		}
		return result, err
	}

	log.Info("import started", "sheets", im.registry.Count())

	wb, err := im.open(path)
	if err != nil {
		return finish(&SourceOpenError{Path: path, Err: err})
	}
	defer func() {
		if err := wb.Close(); err != nil {
			log.Warn("close workbook", "error", err)
		}
	}()

	tx, err := im.store.Begin(ctx)
	if err != nil {
		return finish(&SourceOpenError{Path: path, Err: fmt.Errorf("begin transaction: %w", err)})
	}
	defer func() {
		if result.Committed {
			return
		}
		if err := tx.Rollback(context.WithoutCancel(ctx)); err != nil {
			log.Warn("rollback", "error", err)
		}
	}()

	writer := NewWriter(tx)
	sheetNames := wb.SheetNames()
	for _, name := range sheetNames {
		if _, ok := im.registry.ByName(name); !ok {
			result.Ignored = append(result.Ignored, name)
			log.Info("ignoring unregistered sheet", "sheet", name)
		}
	}

	for _, def := range im.registry.All() {
		sr, err := im.importSheet(ctx, wb, sheetNames, def, writer, result)
		result.Sheets = append(result.Sheets, sr)
		if err != nil {
			return finish(err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return finish(&CommitError{Err: err})
	}
	result.Committed = true

	result, _ = finish(nil)
	log.Info("import finished",
		"written", writer.Written(),
		"errors", result.Errors(),
		"duration", result.Duration,
	)
	return result, nil
}

// importSheet locates, parses and writes one sheet. It returns an error only
// for conditions that must end the whole run.
func (im *Importer) importSheet(ctx context.Context, wb Workbook, sheetNames []string, def SheetDefinition, w *Writer, result *ImportResult) (SheetResult, error) {
	sr := SheetResult{Sheet: def.Info.Name}
	log := logging.WithFields(ctx, "sheet", def.Info.Name)

	if !slices.Contains(sheetNames, def.Info.Name) {
		log.Warn("sheet not found in workbook, skipping")
		return sr, nil
	}
	sr.Found = true

	rows, err := wb.Rows(def.Info.Name)
	if err != nil {
		sr.Error = err.Error()
		log.Error("read sheet", "error", err)
		return sr, nil
	}

	i := 0
	for outcome := range Parse(def, rows) {
		if ContextCheckInterval > 0 && i%ContextCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return sr, fmt.Errorf("import cancelled at %s row %d: %w", def.Info.Name, outcome.Row, err)
			}
		}
		i++

		switch outcome.Kind {
		case OutcomeSkipped:
			sr.Blank++

		case OutcomeRejected:
			sr.Rejected++
			if errors.Is(outcome.Err, ErrUnknownEntity) {
				sr.UnknownEntities++
			}
			im.recordError(result, *outcome.Err)
			log.Warn("row rejected", "row", outcome.Row, "value", outcome.Err.Value, "error", outcome.Err.Err)
			im.progress(ProgressEvent{Sheet: def.Info.Name, Row: outcome.Row, Kind: OutcomeRejected, Err: outcome.Err})

		case OutcomeRecord:
			err := w.Write(ctx, outcome.Snapshot)
			if err == nil {
				sr.Written++
				log.Debug("snapshot written", "row", outcome.Row, "entity_id", outcome.Snapshot.EntityID,
					"date", outcome.Snapshot.SnapshotDate.Format(DateLayout))
				im.progress(ProgressEvent{Sheet: def.Info.Name, Row: outcome.Row, Kind: OutcomeRecord, Snapshot: outcome.Snapshot})
				continue
			}

			im.progress(ProgressEvent{Sheet: def.Info.Name, Row: outcome.Row, Kind: OutcomeRejected, Snapshot: outcome.Snapshot, Err: err})

			var we *WriteError
			if errors.As(err, &we) && we.Fatal() {
				return sr, err
			}
			sr.WriteFailures++
			im.recordError(result, RowError{Sheet: def.Info.Name, Row: outcome.Row, Err: err})
			log.Warn("write failed", "row", outcome.Row, "error", err)
		}
	}

	log.Info("sheet finished",
		"written", sr.Written,
		"blank", sr.Blank,
		"rejected", sr.Rejected,
		"write_failures", sr.WriteFailures,
	)
	return sr, nil
}

// recordError keeps the first MaxReportedErrors row errors for the report.
func (im *Importer) recordError(result *ImportResult, rowErr RowError) {
	if im.cfg.MaxReportedErrors > 0 && len(result.RowErrors) >= im.cfg.MaxReportedErrors {
		return
	}
	result.RowErrors = append(result.RowErrors, rowErr)
}

func (im *Importer) progress(ev ProgressEvent) {
	if im.onProgress != nil {
		im.onProgress(ev)
	}
}
