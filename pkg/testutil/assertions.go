package testutil

import (
	"encoding/csv"
	"os"
	"testing"

	"github.com/easty4690-png/ab-agri-timeline/pkg/layout"
	"github.com/easty4690-png/ab-agri-timeline/pkg/model"

	"github.com/xuri/excelize/v2"
)

// AssertLaneCounts verifies the number of lanes on both panels.
func AssertLaneCounts(t *testing.T, fig *layout.Figure, timeline, heat int) {
	t.Helper()
	if len(fig.TimelineLanes) != timeline {
		t.Errorf("expected %d timeline lanes, got %d (%v)", timeline, len(fig.TimelineLanes), fig.TimelineLanes)
	}
	if len(fig.HeatLanes) != heat {
		t.Errorf("expected %d heat lanes, got %d (%v)", heat, len(fig.HeatLanes), fig.HeatLanes)
	}
}

// AssertShapes verifies bar and marker counts on one timeline lane.
func AssertShapes(t *testing.T, fig *layout.Figure, lane, bars, markers int) {
	t.Helper()
	b, m := fig.TimelineShapes(lane)
	if b != bars || m != markers {
		t.Errorf("lane %d: expected %d bars and %d markers, got %d and %d", lane, bars, markers, b, m)
	}
}

// AssertWithinDomain verifies every plotted shape lies inside the figure domain.
func AssertWithinDomain(t *testing.T, fig *layout.Figure) {
	t.Helper()
	for _, b := range fig.Bars {
		if b.Start < fig.Start || b.Start+b.Width > fig.End {
			t.Errorf("bar on row %d [%v, %v] outside domain [%v, %v]", b.Row, b.Start, b.Start+b.Width, fig.Start, fig.End)
		}
	}
	for _, m := range fig.Markers {
		if m.X < fig.Start || m.X > fig.End {
			t.Errorf("marker on row %d at %v outside domain", m.Row, m.X)
		}
	}
}

// EventRows returns a header row plus one row of typed cell values per event,
// the way a user-authored workbook stores them.
func EventRows(events []model.Event) [][]any {
	header := make([]any, len(model.EditableFields))
	for i, f := range model.EditableFields {
		header[i] = string(f)
	}
	rows := [][]any{header}
	for _, e := range events {
		row := make([]any, len(model.EditableFields))
		for i, f := range model.EditableFields {
			switch f {
			case model.FieldDateFrom:
				row[i] = timeOrBlank(e.DateFrom, e.HasDateFrom())
			case model.FieldDateTo:
				row[i] = timeOrBlank(e.DateTo, e.HasDateTo())
			case model.FieldHeatMapDate:
				row[i] = timeOrBlank(e.HeatMapDate, e.HasHeatMapDate())
			case model.FieldXOffset:
				row[i] = e.XOffset
			case model.FieldYOffset:
				row[i] = e.YOffset
			default:
				row[i] = e.FieldValue(f)
			}
		}
		rows = append(rows, row)
	}
	return rows
}

func timeOrBlank(v any, ok bool) any {
	if !ok {
		return ""
	}
	return v
}

// WriteWorkbook writes rows to the first sheet of a new workbook at path.
func WriteWorkbook(t *testing.T, path string, rows [][]any) {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatalf("cell name: %v", err)
		}
		r := row
		if err := f.SetSheetRow("Sheet1", cell, &r); err != nil {
			t.Fatalf("failed to write row %d: %v", i+1, err)
		}
	}
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("failed to save workbook: %v", err)
	}
}

// WriteCSVFile writes rows to a CSV file at path.
func WriteCSVFile(t *testing.T, path string, rows [][]string) {
	t.Helper()

	file, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create csv: %v", err)
	}
	defer file.Close()
	w := csv.NewWriter(file)
	if err := w.WriteAll(rows); err != nil {
		t.Fatalf("failed to write csv: %v", err)
	}
}
