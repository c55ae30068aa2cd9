package events

import (
	"encoding/csv"
	"io"
	"time"
)

// CSVOptions configures the event CSV export.
type CSVOptions struct {
	Delimiter     rune
	UseCRLF       bool
	IncludeHeader bool
	DateFormat    string
}

// DefaultCSVOptions returns the export settings used by the download route.
func DefaultCSVOptions() CSVOptions {
	return CSVOptions{
		Delimiter:     ',',
		IncludeHeader: true,
		DateFormat:    time.RFC3339,
	}
}

var csvHeader = []string{
	"id", "title", "event_type", "category_id",
	"status", "start_date", "end_date", "last_status_changed_at",
}

// ExportCSV writes the event collection as CSV.
func ExportCSV(w io.Writer, evts []Event, opts CSVOptions) error {
	cw := csv.NewWriter(w)
	if opts.Delimiter != 0 {
		cw.Comma = opts.Delimiter
	}
	cw.UseCRLF = opts.UseCRLF

	if opts.IncludeHeader {
		if err := cw.Write(csvHeader); err != nil {
			return err
		}
	}

	format := opts.DateFormat
	if format == "" {
		format = time.RFC3339
	}
	for i := range evts {
		e := &evts[i]
		record := []string{
			e.ID.String(),
			e.Title,
			e.EventType,
			e.CategoryID.String(),
			e.StatusCode,
			e.StartDate.Format(format),
			e.EndDate.Format(format),
			e.LastStatusChangedAt.Format(format),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
