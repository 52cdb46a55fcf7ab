// Package sink renders comparison runs for people: plain-text tables and
// spreadsheet workbooks.
package sink

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"text/tabwriter"

	"gointegral/domain/quadrature"
)

// Column headers shared by every tabular sink
var Headers = []string{"Method", "Result", "Time (s)", "Error"}

// Row formats one result as table cells: six decimals everywhere, N/A for a
// missing error.
func Row(r quadrature.MethodResult) []string {
	return []string{
		r.Method,
		fmt.Sprintf("%.6f", r.Value),
		fmt.Sprintf("%.6f", r.ElapsedSeconds()),
		r.Error.String(),
	}
}

// Table writes aligned text tables
type Table struct {
	mu sync.Mutex
	w  io.Writer
}

// NewTable creates a table sink writing to w
func NewTable(w io.Writer) *Table {
	return &Table{w: w}
}

// Render writes the run label followed by one row per method
func (t *Table) Render(ctx context.Context, run *quadrature.Run) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	tw := tabwriter.NewWriter(t.w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, run.Label())
	fmt.Fprintln(tw, strings.Join(Headers, "\t"))
	for _, r := range run.Results {
		fmt.Fprintln(tw, strings.Join(Row(r), "\t"))
	}
	fmt.Fprintln(tw)
	return tw.Flush()
}
