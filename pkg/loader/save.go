package loader

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/easty4690-png/ab-agri-timeline/pkg/model"

	"github.com/xuri/excelize/v2"
)

// SheetName is the sheet written by Save.
const SheetName = "Gantt"

const dateNumFmt = "yyyy-mm-dd"

// Header returns the canonical column order used when writing.
func Header() []string {
	out := make([]string, 0, len(RequiredColumns)+len(OptionalColumns))
	for _, f := range RequiredColumns {
		out = append(out, string(f))
	}
	for _, f := range OptionalColumns {
		out = append(out, string(f))
	}
	return out
}

// Save writes the document to path as a workbook, or as CSV when the
// extension is .csv. The file is replaced.
func Save(doc *model.Document, path string) error {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".xlsx", ".xlsm", ".csv":
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if ext == ".csv" {
		err = WriteCSV(doc, f)
	} else {
		err = WriteWorkbook(doc, f)
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("saving %s: %w", filepath.Base(path), err)
	}
	return nil
}

// WriteWorkbook writes a single-sheet workbook. Dates are stored as real
// Excel dates with a yyyy-mm-dd number format; numeric risk levels and
// offsets as numbers.
func WriteWorkbook(doc *model.Document, w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return err
	}

	header := Header()
	row := make([]any, len(header))
	for i, h := range header {
		row[i] = h
	}
	if err := f.SetSheetRow(SheetName, "A1", &row); err != nil {
		return err
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	lastCol, _ := excelize.ColumnNumberToName(len(header))
	if err := f.SetCellStyle(SheetName, "A1", lastCol+"1", bold); err != nil {
		return err
	}

	numFmt := dateNumFmt
	dateStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: &numFmt})
	if err != nil {
		return err
	}

	lines := sheetLines(doc)
	for i := 0; i < doc.Len(); i++ {
		e := doc.Events[i]
		values := eventCells(e)
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, lines[i])
			if err != nil {
				return err
			}
			if v == nil {
				continue
			}
			if err := f.SetCellValue(SheetName, cell, v); err != nil {
				return err
			}
			if _, isDate := v.(time.Time); isDate {
				if err := f.SetCellStyle(SheetName, cell, cell, dateStyle); err != nil {
					return err
				}
			}
		}
	}

	if err := f.SetColWidth(SheetName, "A", lastCol, 16); err != nil {
		return err
	}
	_, err = f.WriteTo(w)
	return err
}

// sheetLines returns the worksheet line of each event, keeping the blank
// rows the document was read with so row numbers survive a save. Lines that
// would overlap the previous event move down.
func sheetLines(doc *model.Document) []int {
	lines := make([]int, doc.Len())
	prev := 1
	for i, e := range doc.Events {
		line := e.Line
		if line <= prev {
			line = prev + 1
		}
		lines[i] = line
		prev = line
	}
	return lines
}

// eventCells returns the typed cell values of one event in Header order.
// nil means an empty cell.
func eventCells(e model.Event) []any {
	category := e.Category
	if category == "" && e.Section != model.SectionNone {
		category = e.Section.String()
	}
	return []any{
		text(category),
		text(e.RowRef),
		text(e.Title),
		text(e.Symbol),
		number(e.RiskLevel),
		dateCell(e.DateFrom),
		dateCell(e.DateTo),
		dateCell(e.HeatMapDate),
		e.XOffset,
		e.YOffset,
	}
}

func text(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func number(s string) any {
	s = strings.TrimSpace(s)
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		return v
	}
	return text(s)
}

func dateCell(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t
}

// WriteCSV writes the document with the canonical header and ISO dates.
// Blank rows are written as empty records since the CSV reader skips empty
// lines.
func WriteCSV(doc *model.Document, w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header()); err != nil {
		return err
	}
	fields := append(append([]model.Field(nil), RequiredColumns...), OptionalColumns...)
	blank := make([]string, len(fields))
	prev := 1
	for i, line := range sheetLines(doc) {
		for ; prev+1 < line; prev++ {
			if err := cw.Write(blank); err != nil {
				return err
			}
		}
		prev = line
		e := doc.Events[i]
		rec := make([]string, len(fields))
		for j, f := range fields {
			rec[j] = e.FieldValue(f)
		}
		if rec[0] == "" && e.Section != model.SectionNone {
			rec[0] = e.Section.String()
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
