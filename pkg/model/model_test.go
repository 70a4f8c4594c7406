package model

import (
	"errors"
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestClassifySection(t *testing.T) {
	tests := []struct {
		in   string
		want Section
	}{
		{"Timeline", SectionTimeline},
		{"  project TIMELINE row", SectionTimeline},
		{"Heat Map", SectionHeatMap},
		{"heatmap", SectionHeatMap},
		{"Timeline heat", SectionTimeline},
		{"", SectionNone},
		{"notes", SectionNone},
	}
	for _, tt := range tests {
		if got := ClassifySection(tt.in); got != tt.want {
			t.Errorf("ClassifySection(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
		ok   bool
	}{
		{"2024-01-10", date(2024, 1, 10), true},
		{" 2024-01-10 00:00:00 ", date(2024, 1, 10), true},
		{"2024-01-10T00:00:00Z", date(2024, 1, 10), true},
		{"2024-03-01T00:00:00+02:00", date(2024, 3, 1), true},
		{"2024-03-01T23:30:00-05:00", date(2024, 3, 1).Add(23*time.Hour + 30*time.Minute), true},
		{"03/04/2024", date(2024, 3, 4), true},
		{"25/12/2024", date(2024, 12, 25), true},
		{"15 Mar 2024", date(2024, 3, 15), true},
		{"Mar 15, 2024", date(2024, 3, 15), true},
		{"45301", date(2024, 1, 10), true},
		{"45301.5", date(2024, 1, 10).Add(12 * time.Hour), true},
		{"", time.Time{}, false},
		{"tbc", time.Time{}, false},
		{"0", time.Time{}, false},
	}
	for _, tt := range tests {
		got, ok := ParseDate(tt.in)
		if ok != tt.ok {
			t.Errorf("ParseDate(%q) ok = %v, want %v", tt.in, ok, tt.ok)
			continue
		}
		if ok && !got.Equal(tt.want) {
			t.Errorf("ParseDate(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseOffset(t *testing.T) {
	if v, err := ParseOffset(""); v != 0 || err != nil {
		t.Errorf("blank offset = %v, %v", v, err)
	}
	if v, err := ParseOffset(" 2.5 "); v != 2.5 || err != nil {
		t.Errorf("2.5 offset = %v, %v", v, err)
	}
	if v, err := ParseOffset("abc"); v != 0 || err == nil {
		t.Errorf("bad offset = %v, %v; want 0 and an error", v, err)
	}
}

func sampleDoc() *Document {
	return NewDocument("plan.xlsx", []Event{
		{Category: "Timeline", Section: SectionTimeline, RowRef: "A", Title: "Build", Symbol: "Blue Bar", DateFrom: date(2024, 1, 1), DateTo: date(2024, 2, 1)},
		{Category: "Heat Map", Section: SectionHeatMap, RowRef: "B", Symbol: "red", HeatMapDate: date(2024, 3, 15)},
	})
}

func TestDocumentApply(t *testing.T) {
	doc := sampleDoc()

	steps := []EditRequest{
		{Index: 0, Field: FieldTitle, Value: "Build v2"},
		{Index: 0, Field: FieldDateTo, Value: "2024-02-15"},
		{Index: 0, Field: FieldXOffset, Value: "3"},
		{Index: 0, Field: FieldYOffset, Value: "not-a-number"},
		{Index: 1, Field: FieldHeatMapDate, Value: ""},
		{Index: 1, Field: FieldCategory, Value: "timeline"},
	}
	if err := doc.ApplyAll(steps); err != nil {
		t.Fatalf("ApplyAll: %v", err)
	}

	e := doc.Events[0]
	if e.Title != "Build v2" {
		t.Errorf("Title = %q", e.Title)
	}
	if !e.DateTo.Equal(date(2024, 2, 15)) {
		t.Errorf("DateTo = %v", e.DateTo)
	}
	if e.XOffset != 3 || e.YOffset != 0 {
		t.Errorf("offsets = %v, %v; want 3, 0", e.XOffset, e.YOffset)
	}
	if !doc.HasOffsetColumns {
		t.Error("offset edit should mark offset columns present")
	}
	if doc.Events[1].HasHeatMapDate() {
		t.Error("blank heat map date should clear the date")
	}
	if doc.Events[1].Section != SectionTimeline {
		t.Errorf("category edit should reclassify, got %v", doc.Events[1].Section)
	}
}

func TestDocumentApplyRejectsBadDate(t *testing.T) {
	doc := sampleDoc()
	err := doc.Apply(EditRequest{Index: 0, Field: FieldDateFrom, Value: "someday"})
	if !errors.Is(err, ErrBadDate) {
		t.Fatalf("expected ErrBadDate, got %v", err)
	}
	if !doc.Events[0].DateFrom.Equal(date(2024, 1, 1)) {
		t.Errorf("failed edit must not change the event, DateFrom = %v", doc.Events[0].DateFrom)
	}
}

func TestDocumentApplyErrors(t *testing.T) {
	doc := sampleDoc()
	if err := doc.Apply(EditRequest{Index: 5, Field: FieldTitle}); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("expected ErrIndexOutOfRange, got %v", err)
	}
	if err := doc.Apply(EditRequest{Index: 0, Field: "Owner"}); !errors.Is(err, ErrUnknownField) {
		t.Errorf("expected ErrUnknownField, got %v", err)
	}
}

func TestDocumentApplyAllIsAtomic(t *testing.T) {
	doc := sampleDoc()
	before := doc.Events[0]
	err := doc.ApplyAll([]EditRequest{
		{Index: 0, Field: FieldTitle, Value: "changed"},
		{Index: 0, Field: FieldDateFrom, Value: "someday"},
	})
	if !errors.Is(err, ErrBadDate) {
		t.Fatalf("expected ErrBadDate, got %v", err)
	}
	if doc.Events[0] != before {
		t.Errorf("failed batch left %+v, want %+v", doc.Events[0], before)
	}
}

func TestIndexOfLine(t *testing.T) {
	doc := NewDocument("", []Event{{Title: "a", Line: 2}, {Title: "b", Line: 5}, {Title: "c"}})
	if doc.Events[2].Line != 4 {
		t.Errorf("missing line should default to position + 2, got %d", doc.Events[2].Line)
	}
	for line, want := range map[int]int{2: 0, 5: 1, 4: 2} {
		got, err := doc.IndexOfLine(line)
		if err != nil || got != want {
			t.Errorf("IndexOfLine(%d) = %d, %v; want %d", line, got, err, want)
		}
	}
	for _, line := range []int{1, 3, 40} {
		if _, err := doc.IndexOfLine(line); !errors.Is(err, ErrIndexOutOfRange) {
			t.Errorf("IndexOfLine(%d): expected ErrIndexOutOfRange, got %v", line, err)
		}
	}
}

func TestCloneIsIndependent(t *testing.T) {
	doc := sampleDoc()
	c := doc.Clone()
	c.Events[0].Title = "changed"
	if doc.Events[0].Title == "changed" {
		t.Error("Clone shares the event slice")
	}
}

func TestSymbols(t *testing.T) {
	doc := NewDocument("", []Event{
		{Symbol: "Milestone"}, {Symbol: ""}, {Symbol: "Blue Bar"}, {Symbol: "Milestone"},
	})
	got := doc.Symbols()
	if len(got) != 2 || got[0] != "Milestone" || got[1] != "Blue Bar" {
		t.Errorf("Symbols() = %v", got)
	}
}

func TestParseField(t *testing.T) {
	for in, want := range map[string]Field{
		"title":         FieldTitle,
		"DATE FROM":     FieldDateFrom,
		"Heat Map Date": FieldHeatMapDate,
		"x offset":      FieldXOffset,
	} {
		got, err := ParseField(in)
		if err != nil || got != want {
			t.Errorf("ParseField(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := ParseField("owner"); !errors.Is(err, ErrUnknownField) {
		t.Errorf("expected ErrUnknownField, got %v", err)
	}
}

func TestResolveSymbolChoice(t *testing.T) {
	tests := []struct {
		choice, custom string
		want           string
		err            error
	}{
		{"Blue Bar", "", "Blue Bar", nil},
		{"Custom", "#f05ded", "#f05ded", nil},
		{"custom", "", "", ErrCustomColourRequired},
		{"#112233", "", "#112233", nil},
		{"#112233", "#445566", "#445566", nil},
	}
	for _, tt := range tests {
		got, err := ResolveSymbolChoice(tt.choice, tt.custom)
		if !errors.Is(err, tt.err) || got != tt.want {
			t.Errorf("ResolveSymbolChoice(%q, %q) = %q, %v; want %q, %v", tt.choice, tt.custom, got, err, tt.want, tt.err)
		}
	}
}
