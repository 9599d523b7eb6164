package output

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/maryline/catalogsync/internal/history"
	"github.com/maryline/catalogsync/pkg/reconcile"
)

// SummaryToTableData renders per-kind counters with a total row.
func SummaryToTableData(s *reconcile.Summary) Data {
	data := Data{
		Headers:         []string{"Kind", "Created", "Skipped", "Failed"},
		ColumnAlignment: []Align{AlignLeft, AlignRight, AlignRight, AlignRight},
	}
	for _, r := range s.Rows() {
		data.Rows = append(data.Rows, countsRow(string(r.Kind), r.Counts))
	}
	data.Rows = append(data.Rows, countsRow("total", s.Totals()))
	return data
}

func countsRow(label string, c reconcile.Counts) []string {
	return []string{label, strconv.Itoa(c.Created), strconv.Itoa(c.Skipped), strconv.Itoa(c.Failed)}
}

// RunsToTableData renders the run history, newest first.
func RunsToTableData(runs []history.Run) Data {
	data := Data{
		Headers: []string{"ID", "Scope", "Status", "Started", "Duration", "Result"},
	}
	for _, r := range runs {
		duration := "-"
		if r.FinishedAt != nil {
			duration = r.Duration().Round(time.Second).String()
		}
		result := r.Error
		if result == "" && r.Summary != nil {
			result = r.Summary.String()
		}
		data.Rows = append(data.Rows, []string{
			r.ID,
			string(r.Scope),
			string(r.Status),
			r.StartedAt.Local().Format("2006-01-02 15:04:05"),
			duration,
			result,
		})
	}
	return data
}

// WriteSummary writes a run summary in the given format.
func WriteSummary(w io.Writer, format Format, s *reconcile.Summary) error {
	if s == nil {
		return nil
	}
	if format == FormatJSON || format == FormatYAML {
		return NewFormatter(format).Format(w, s)
	}
	if err := NewFormatter(FormatTable).Format(w, SummaryToTableData(s)); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "%s in %s\n", s.String(), s.Duration().Round(time.Millisecond))
	return err
}

// WriteRuns writes the run history in the given format.
func WriteRuns(w io.Writer, format Format, runs []history.Run) error {
	if format == FormatJSON || format == FormatYAML {
		if runs == nil {
			runs = []history.Run{}
		}
		return NewFormatter(format).Format(w, runs)
	}
	if len(runs) == 0 {
		_, err := fmt.Fprintln(w, "No runs recorded")
		return err
	}
	return NewFormatter(FormatTable).Format(w, RunsToTableData(runs))
}
