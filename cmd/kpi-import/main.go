// Command kpi-import loads historical KPI snapshots from an xlsx workbook.
//
// Usage:
//
//	kpi-import [--dry-run] [--env-file .env] <file.xlsx>
//
// The process exits non-zero when the workbook cannot be opened, the database
// is unreachable, the connection drops mid-run, or the final commit fails.
// Rejected rows are reported but do not change the exit status.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/JonMunkholm/kpiimport/internal/config"
	"github.com/JonMunkholm/kpiimport/internal/core"
	"github.com/JonMunkholm/kpiimport/internal/core/sheets"
	"github.com/JonMunkholm/kpiimport/internal/logging"
	"github.com/JonMunkholm/kpiimport/internal/store"
	"github.com/JonMunkholm/kpiimport/internal/workbook"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)

	err := newRootCmd().ExecuteContext(ctx)
	stop()

	if err != nil {
		reportError(os.Stderr, err)
		os.Exit(1)
	}
}

// reportError prints a fatal error and, when it maps to a support code, the
// user-facing message with its suggested action.
func reportError(w io.Writer, err error) {
	fmt.Fprintf(w, "error: %v\n", err)
	if core.IsUserFacing(err) {
		fmt.Fprintln(w, core.NewUserError(err).Detail())
	}
}

type options struct {
	dryRun  bool
	envFile string
}

func newRootCmd() *cobra.Command {
	var opts options

	cmd := &cobra.Command{
		Use:   "kpi-import <file.xlsx>",
		Short: "Import historical KPI snapshots from a spreadsheet",
		Long: `Import historical KPI snapshots from an xlsx workbook.

Recognized sheets: "Blue Consult", "Tokeniza Academy", "Redes Sociais" and
"Cademi Cursos". Missing sheets are skipped with a warning. Every valid row
becomes one snapshot; all snapshots are committed together at the end.

Configuration is read from the environment (and the --env-file, if present):
- DATABASE_URL (postgres://..., postgresql://... or mysql://...)
- SNAPSHOT_TABLE (optional; default kpi_snapshots or kpiSnapshots)
- IMPORT_ENTITIES (default "Blue Consult=1,Tokeniza=2,Tokeniza Academy=4,Mychel Mendes=30004")
- LOG_LEVEL, LOG_FORMAT

Example:
  kpi-import --dry-run historico_kpis.xlsx`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd.Context(), cmd.OutOrStdout(), args[0], opts)
		},
	}

	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "Parse and validate without writing to the database")
	cmd.Flags().StringVar(&opts.envFile, "env-file", ".env", "Environment file to load before reading configuration")

	return cmd
}

func runImport(ctx context.Context, out io.Writer, path string, opts options) error {
	// Overload overwrites existing env vars
	if err := godotenv.Overload(opts.envFile); err != nil {
		slog.Debug("no env file loaded, using environment variables", "path", opts.envFile)
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	slog.Debug("configuration loaded", "config", cfg.String(), "dry_run", opts.dryRun)

	// Fail on a missing file before touching the database.
	if _, err := os.Stat(path); err != nil {
		return &core.SourceOpenError{Path: path, Err: err}
	}

	reg, err := sheets.NewRegistry(cfg.Import)
	if err != nil {
		return err
	}

	var st store.Store
	if opts.dryRun {
		st = store.NewMemory()
	} else {
		st, err = store.Open(ctx, cfg.Database)
		if err != nil {
			return &core.SourceOpenError{Path: path, Err: fmt.Errorf("connect to database: %w", err)}
		}
	}
	defer st.Close()

	open := func(p string) (core.Workbook, error) {
		f, err := workbook.Open(p, cfg.Import.MaxFileSize)
		if err != nil {
			return nil, err
		}
		return f, nil
	}

	im := core.NewImporter(st, open, reg, cfg.Import)
	im.OnProgress(progressPrinter(out))

	result, runErr := im.Run(ctx, path)

	fmt.Fprintln(out)
	if err := result.WriteReport(out); err != nil {
		slog.Warn("write report", "error", err)
	}
	if opts.dryRun && runErr == nil {
		fmt.Fprintln(out, "Dry run: nothing was written to the database")
	}

	return runErr
}

// progressPrinter streams one line per written or rejected row.
func progressPrinter(out io.Writer) core.ProgressFunc {
	return func(ev core.ProgressEvent) {
		if ev.Err != nil {
			fmt.Fprintf(out, "  ✗ %s row %d: %v\n", ev.Sheet, ev.Row, errorDetail(ev.Err))
			return
		}
		fmt.Fprintf(out, "  ✓ %s row %d: %s entity %d\n",
			ev.Sheet, ev.Row, ev.Snapshot.SnapshotDate.Format(core.DateLayout), ev.Snapshot.EntityID)
	}
}

// errorDetail drops the sheet/row prefix of row errors, which the progress
// line already shows.
func errorDetail(err error) error {
	var re *core.RowError
	if errors.As(err, &re) {
		return re.Err
	}
	return err
}
