// Package xlsx writes report worksheets through excelize.
package xlsx

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
)

// Style names a cell format registered on the workbook.
type Style int

const (
	Plain Style = iota
	Header
	Week
	Banner
	Percent
	WholePercent
	HeaderPercent
	Date
)

const defaultSheet = "Sheet1"

var styleDefs = map[Style]*excelize.Style{
	Header: {Font: &excelize.Font{Bold: true}},
	Week: {
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"4F81BD"}},
	},
	Banner: {
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"8064A2"}},
	},
	Percent:       {NumFmt: 10},
	WholePercent:  {NumFmt: 9},
	HeaderPercent: {Font: &excelize.Font{Bold: true}, NumFmt: 9},
	Date:          {CustomNumFmt: strPtr("mm/dd/yyyy")},
}

func strPtr(s string) *string { return &s }

// Workbook is a write-only view of an xlsx file addressed by zero-based
// row and column indices.
type Workbook struct {
	file   *excelize.File
	styles map[Style]int
	sheets []string
	widths map[string]map[int]float64
	fixed  map[string]map[int]bool
}

func New() (*Workbook, error) {
	f := excelize.NewFile()
	wb := &Workbook{
		file:   f,
		styles: make(map[Style]int, len(styleDefs)),
		widths: make(map[string]map[int]float64),
		fixed:  make(map[string]map[int]bool),
	}

	for name, def := range styleDefs {
		id, err := f.NewStyle(def)
		if err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("failed to register style %d: %w", name, err)
		}
		wb.styles[name] = id
	}
	return wb, nil
}

// Sheet creates the named worksheet on first use. The first sheet replaces
// the default one excelize starts with.
func (wb *Workbook) Sheet(name string) error {
	for _, s := range wb.sheets {
		if s == name {
			return nil
		}
	}

	if len(wb.sheets) == 0 {
		if err := wb.file.SetSheetName(defaultSheet, name); err != nil {
			return fmt.Errorf("failed to create sheet %q: %w", name, err)
		}
	} else if _, err := wb.file.NewSheet(name); err != nil {
		return fmt.Errorf("failed to create sheet %q: %w", name, err)
	}

	wb.sheets = append(wb.sheets, name)
	wb.widths[name] = make(map[int]float64)
	wb.fixed[name] = make(map[int]bool)
	return nil
}

func cell(row, col int) (string, error) {
	return excelize.CoordinatesToCellName(col+1, row+1)
}

// Cell returns the A1 reference for a zero-based row and column.
func Cell(row, col int) string {
	name, err := cell(row, col)
	if err != nil {
		return ""
	}
	return name
}

// Write stores a scalar value at (row, col).
func (wb *Workbook) Write(sheet string, row, col int, value interface{}, style Style) error {
	if err := wb.Sheet(sheet); err != nil {
		return err
	}
	ref, err := cell(row, col)
	if err != nil {
		return err
	}
	if err := wb.file.SetCellValue(sheet, ref, value); err != nil {
		return fmt.Errorf("failed to write %s!%s: %w", sheet, ref, err)
	}
	if err := wb.applyStyle(sheet, ref, style); err != nil {
		return err
	}
	wb.track(sheet, col, display(value, style))
	return nil
}

// WriteRow stores values left to right starting at (row, col). styles holds
// per-column styles; missing entries fall back to fallback.
func (wb *Workbook) WriteRow(sheet string, row, col int, values []interface{}, fallback Style, styles ...Style) error {
	for i, v := range values {
		style := fallback
		if i < len(styles) {
			style = styles[i]
		}
		if err := wb.Write(sheet, row, col+i, v, style); err != nil {
			return err
		}
	}
	return nil
}

// WriteFormula stores a formula at (row, col).
func (wb *Workbook) WriteFormula(sheet string, row, col int, formula string, style Style) error {
	if err := wb.Sheet(sheet); err != nil {
		return err
	}
	ref, err := cell(row, col)
	if err != nil {
		return err
	}
	if err := wb.file.SetCellFormula(sheet, ref, formula); err != nil {
		return fmt.Errorf("failed to write formula %s!%s: %w", sheet, ref, err)
	}
	return wb.applyStyle(sheet, ref, style)
}

// SetColumnWidth pins a column width, overriding the fitted width.
func (wb *Workbook) SetColumnWidth(sheet string, col int, width float64) error {
	if err := wb.Sheet(sheet); err != nil {
		return err
	}
	wb.widths[sheet][col] = width
	wb.fixed[sheet][col] = true
	return nil
}

func (wb *Workbook) applyStyle(sheet, ref string, style Style) error {
	if style == Plain {
		return nil
	}
	id, ok := wb.styles[style]
	if !ok {
		return fmt.Errorf("unknown style %d", style)
	}
	if err := wb.file.SetCellStyle(sheet, ref, ref, id); err != nil {
		return fmt.Errorf("failed to style %s!%s: %w", sheet, ref, err)
	}
	return nil
}

// display is the text Excel shows for value under style. Percent styles show
// the scaled number with its number format's precision.
func display(value interface{}, style Style) string {
	switch v := value.(type) {
	case string:
		return v
	case time.Time:
		return "mm/dd/yyyy"
	case float64:
		switch style {
		case Percent:
			return fmt.Sprintf("%.2f%%", v*100)
		case WholePercent, HeaderPercent:
			return fmt.Sprintf("%.0f%%", v*100)
		}
	}
	return fmt.Sprint(value)
}

// track keeps the widest rendered text per column for fitting at save.
func (wb *Workbook) track(sheet string, col int, text string) {
	if wb.fixed[sheet][col] {
		return
	}
	width := float64(utf8.RuneCountInString(text)) + 2
	if width > wb.widths[sheet][col] {
		wb.widths[sheet][col] = width
	}
}

func (wb *Workbook) fitColumns() error {
	for _, sheet := range wb.sheets {
		for col, width := range wb.widths[sheet] {
			name, err := excelize.ColumnNumberToName(col + 1)
			if err != nil {
				return err
			}
			if err := wb.file.SetColWidth(sheet, name, name, width); err != nil {
				return fmt.Errorf("failed to size %s!%s: %w", sheet, name, err)
			}
		}
	}
	return nil
}

// Prepare creates the directory for path and removes a report already saved
// there. Reports are replaced, never merged.
func Prepare(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove existing report: %w", err)
	}
	return nil
}

// SaveAs fits column widths and writes the workbook to path.
func (wb *Workbook) SaveAs(path string) error {
	if err := wb.fitColumns(); err != nil {
		return err
	}
	if len(wb.sheets) > 0 {
		wb.file.SetActiveSheet(0)
	}
	if err := wb.file.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

func (wb *Workbook) Close() error {
	return wb.file.Close()
}

// File exposes the underlying excelize file for reading back in tests.
func (wb *Workbook) File() *excelize.File {
	return wb.file
}
