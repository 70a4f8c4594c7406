// Package loader reads the task table from a spreadsheet and writes it back.
//
// Workbooks (.xlsx, .xlsm) are read with excelize from the first sheet using
// raw cell values, so Excel dates arrive as serial numbers and are converted
// by model.ParseDate. CSV files are read with encoding/csv.
package loader

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/easty4690-png/ab-agri-timeline/pkg/debug"
	"github.com/easty4690-png/ab-agri-timeline/pkg/metrics"
	"github.com/easty4690-png/ab-agri-timeline/pkg/model"

	"github.com/xuri/excelize/v2"
)

var (
	// ErrMissingColumn is wrapped by MissingColumnsError.
	ErrMissingColumn = errors.New("missing required column")
	// ErrUnsupportedFormat is returned for extensions other than .xlsx, .xlsm and .csv.
	ErrUnsupportedFormat = errors.New("unsupported file format")
)

// RequiredColumns must all be present in the header row.
var RequiredColumns = []model.Field{
	model.FieldCategory,
	model.FieldRowRef,
	model.FieldTitle,
	model.FieldSymbol,
	model.FieldRiskLevel,
	model.FieldDateFrom,
	model.FieldDateTo,
	model.FieldHeatMapDate,
}

// OptionalColumns default to 0 when absent.
var OptionalColumns = []model.Field{model.FieldXOffset, model.FieldYOffset}

// MissingColumnsError lists every required header the table lacks.
type MissingColumnsError struct {
	Columns []string
}

func (e *MissingColumnsError) Error() string {
	return fmt.Sprintf("%v: %s", ErrMissingColumn, strings.Join(e.Columns, ", "))
}

func (e *MissingColumnsError) Unwrap() error { return ErrMissingColumn }

// Options configures loading.
type Options struct {
	// WarningHandler receives per-cell degradations (unparseable dates or
	// offsets). If nil, warnings go to the debug log.
	WarningHandler func(string)
}

// Load reads a document from path, choosing the reader by extension.
func Load(path string) (*model.Document, error) {
	return LoadWithOptions(path, Options{})
}

// LoadWithOptions is Load with custom options.
func LoadWithOptions(path string, opts Options) (*model.Document, error) {
	defer metrics.Timer(metrics.Load)()

	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".xlsx" && ext != ".xlsm" && ext != ".csv" {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open spreadsheet: %w", err)
	}
	defer file.Close()

	var doc *model.Document
	if ext == ".csv" {
		doc, err = ReadCSV(file, opts)
	} else {
		doc, err = ReadWorkbook(file, opts)
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", filepath.Base(path), err)
	}
	doc.Path = path
	debug.Log("loaded %d events from %s (offset columns: %v)", doc.Len(), path, doc.HasOffsetColumns)
	return doc, nil
}

// ReadWorkbook parses the first sheet of a workbook stream.
func ReadWorkbook(r io.Reader, opts Options) (*model.Document, error) {
	rows, err := readWorkbookRows(r)
	if err != nil {
		return nil, err
	}
	return ParseRows(rows, opts)
}

// ReadCSV parses a CSV stream with a header row.
func ReadCSV(r io.Reader, opts Options) (*model.Document, error) {
	rows, err := readCSVRows(r)
	if err != nil {
		return nil, err
	}
	return ParseRows(rows, opts)
}

func readWorkbookRows(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}
	return rows, nil
}

func readCSVRows(r io.Reader) ([][]string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	cr := csv.NewReader(bytes.NewReader(stripBOM(data)))
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse CSV: %w", err)
	}
	return rows, nil
}

// stripBOM removes the UTF-8 Byte Order Mark if present
func stripBOM(b []byte) []byte {
	if bytes.HasPrefix(b, []byte{0xEF, 0xBB, 0xBF}) {
		return b[3:]
	}
	return b
}

// ParseRows turns a header row plus data rows into a document. Fully empty
// rows are dropped. Unparseable dates become missing and unparseable offsets
// become 0; both are reported to the warning handler.
func ParseRows(rows [][]string, opts Options) (*model.Document, error) {
	warn := opts.WarningHandler
	if warn == nil {
		warn = func(msg string) { debug.Log("%s", msg) }
	}

	var header []string
	if len(rows) > 0 {
		header = rows[0]
	}
	cols := make(map[string]int, len(header))
	for i, h := range header {
		key := strings.ToLower(strings.TrimSpace(h))
		if _, dup := cols[key]; !dup && key != "" {
			cols[key] = i
		}
	}

	var missing []string
	for _, f := range RequiredColumns {
		if _, ok := cols[strings.ToLower(string(f))]; !ok {
			missing = append(missing, string(f))
		}
	}
	if len(missing) > 0 {
		return nil, &MissingColumnsError{Columns: missing}
	}

	hasOffsets := false
	for _, f := range OptionalColumns {
		if _, ok := cols[strings.ToLower(string(f))]; ok {
			hasOffsets = true
		}
	}

	var events []model.Event
	for n, row := range rows[min(1, len(rows)):] {
		if isEmptyRow(row) {
			continue
		}
		line := n + 2 // worksheet line; the header is line 1
		cell := func(f model.Field) string {
			i, ok := cols[strings.ToLower(string(f))]
			if !ok || i >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[i])
		}
		date := func(f model.Field) time.Time {
			raw := cell(f)
			t, ok := model.ParseDate(raw)
			if !ok && raw != "" {
				warn(fmt.Sprintf("line %d: %s %q is not a date, treated as missing", line, f, raw))
			}
			return t
		}
		offset := func(f model.Field) float64 {
			v, err := model.ParseOffset(cell(f))
			if err != nil {
				warn(fmt.Sprintf("line %d: %s: %v, using 0", line, f, err))
			}
			return v
		}

		category := cell(model.FieldCategory)
		events = append(events, model.Event{
			Line:        line,
			Category:    category,
			Section:     model.ClassifySection(category),
			RowRef:      cell(model.FieldRowRef),
			Title:       cell(model.FieldTitle),
			Symbol:      cell(model.FieldSymbol),
			RiskLevel:   cell(model.FieldRiskLevel),
			DateFrom:    date(model.FieldDateFrom),
			DateTo:      date(model.FieldDateTo),
			HeatMapDate: date(model.FieldHeatMapDate),
			XOffset:     offset(model.FieldXOffset),
			YOffset:     offset(model.FieldYOffset),
		})
	}

	doc := model.NewDocument("", events)
	doc.HasOffsetColumns = hasOffsets
	return doc, nil
}

func isEmptyRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
