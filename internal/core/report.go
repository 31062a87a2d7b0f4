package core

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"
)

// WriteReport renders the run summary: one line per sheet, totals, the
// reported row errors with their support codes, and the final outcome.
func (r *ImportResult) WriteReport(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	fmt.Fprintf(tw, "Import of %s (run %s)\n\n", r.FileName, r.RunID)
	fmt.Fprintln(tw, "SHEET\tWRITTEN\tBLANK\tREJECTED\tUNKNOWN ENTITY\tWRITE FAILED\tSTATUS")

	var total SheetResult
	for _, s := range r.Sheets {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%d\t%d\t%s\n",
			s.Sheet, s.Written, s.Blank, s.Rejected, s.UnknownEntities, s.WriteFailures, sheetStatus(s))
		total.Written += s.Written
		total.Blank += s.Blank
		total.Rejected += s.Rejected
		total.UnknownEntities += s.UnknownEntities
		total.WriteFailures += s.WriteFailures
	}
	fmt.Fprintf(tw, "TOTAL\t%d\t%d\t%d\t%d\t%d\t\n",
		total.Written, total.Blank, total.Rejected, total.UnknownEntities, total.WriteFailures)

	if err := tw.Flush(); err != nil {
		return err
	}

	if len(r.Ignored) > 0 {
		fmt.Fprintf(w, "\nIgnored sheets: %s\n", strings.Join(r.Ignored, ", "))
	}

	if len(r.RowErrors) > 0 {
		fmt.Fprintf(w, "\nRow errors (showing %d of %d):\n", len(r.RowErrors), r.Errors())
		tw = tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		for _, e := range r.RowErrors {
			fmt.Fprintf(tw, "  %s row %d\t[%s]\t%q\t%v\n", e.Sheet, e.Row, MapError(e.Err).Code, e.Value, e.Err)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}

	duration := r.Duration.Round(time.Millisecond)
	var err error
	if r.Committed {
		_, err = fmt.Fprintf(w, "\nCommitted %d snapshots in %s\n", r.Written(), duration)
	} else {
		_, err = fmt.Fprintf(w, "\nFAILED after %s, nothing was saved: %s\n", duration, r.Error)
	}
	return err
}

func sheetStatus(s SheetResult) string {
	switch {
	case !s.Found:
		return "not found"
	case s.Error != "":
		return "error: " + s.Error
	case s.Errors() > 0:
		return "partial"
	default:
		return "ok"
	}
}
