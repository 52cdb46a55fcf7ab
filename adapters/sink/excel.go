package sink

import (
	"context"
	"fmt"
	"sync"

	"gointegral/domain/quadrature"

	"github.com/xuri/excelize/v2"
)

const defaultSheet = "Sheet1"

// Workbook collects runs into an xlsx file, one sheet per run
type Workbook struct {
	mu     sync.Mutex
	file   *excelize.File
	sheets map[string]int
}

// NewWorkbook creates an empty workbook
func NewWorkbook() *Workbook {
	return &Workbook{
		file:   excelize.NewFile(),
		sheets: make(map[string]int),
	}
}

// Render adds a sheet for the run: label on row 1, headers on row 2, then one
// row per method.
func (w *Workbook) Render(ctx context.Context, run *quadrature.Run) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	name := w.sheetName(run)
	if len(w.sheets) == 1 {
		if err := w.file.SetSheetName(defaultSheet, name); err != nil {
			return fmt.Errorf("failed to rename sheet: %w", err)
		}
	} else if _, err := w.file.NewSheet(name); err != nil {
		return fmt.Errorf("failed to create sheet %s: %w", name, err)
	}

	if err := w.file.SetCellValue(name, "A1", run.Label()); err != nil {
		return fmt.Errorf("failed to write label: %w", err)
	}
	if err := w.file.SetSheetRow(name, "A2", &Headers); err != nil {
		return fmt.Errorf("failed to write headers: %w", err)
	}

	for i, r := range run.Results {
		cell, err := excelize.CoordinatesToCellName(1, i+3)
		if err != nil {
			return err
		}
		var errCell interface{} = r.Error.String()
		if r.Error.Available {
			errCell = r.Error.Value
		}
		row := []interface{}{r.Method, r.Value, r.ElapsedSeconds(), errCell}
		if err := w.file.SetSheetRow(name, cell, &row); err != nil {
			return fmt.Errorf("failed to write %s row: %w", r.Method, err)
		}
	}

	numFmt := "0.000000"
	style, err := w.file.NewStyle(&excelize.Style{CustomNumFmt: &numFmt})
	if err != nil {
		return fmt.Errorf("failed to create number style: %w", err)
	}
	last := fmt.Sprintf("D%d", len(run.Results)+2)
	if err := w.file.SetCellStyle(name, "B3", last, style); err != nil {
		return fmt.Errorf("failed to style results: %w", err)
	}
	return nil
}

// sheetName derives a unique sheet name from the function and partition count
func (w *Workbook) sheetName(run *quadrature.Run) string {
	base := fmt.Sprintf("%s n=%d", run.Function, run.N)
	if len(base) > 28 {
		base = base[:28]
	}
	name := base
	for i := 2; ; i++ {
		if _, taken := w.sheets[name]; !taken {
			break
		}
		name = fmt.Sprintf("%s_%d", base, i)
	}
	w.sheets[name] = len(w.sheets)
	return name
}

// Sheets lists sheet names in insertion order
func (w *Workbook) Sheets() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.file.GetSheetList()
}

// Save writes the workbook to path
func (w *Workbook) Save(path string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.file.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook %s: %w", path, err)
	}
	return nil
}

// Close releases the workbook
func (w *Workbook) Close() error {
	return w.file.Close()
}
