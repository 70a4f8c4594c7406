package layout

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"testing"
	"time"

	"github.com/easty4690-png/ab-agri-timeline/pkg/model"

	"pgregory.net/rapid"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func timeline(ref, title, symbol string, from, to time.Time) model.Event {
	return model.Event{
		Category: "Timeline",
		Section:  model.SectionTimeline,
		RowRef:   ref,
		Title:    title,
		Symbol:   symbol,
		DateFrom: from,
		DateTo:   to,
	}
}

func heat(ref, symbol string, d time.Time) model.Event {
	return model.Event{
		Category:    "Heat Map",
		Section:     model.SectionHeatMap,
		RowRef:      ref,
		Symbol:      symbol,
		HeatMapDate: d,
	}
}

func numbered(events ...model.Event) []model.Event {
	for i := range events {
		events[i].Row = i
		events[i].Line = i + 2
	}
	return events
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestComposeMixedLane(t *testing.T) {
	events := numbered(
		timeline("A", "Planting", "Blue Bar", day(2024, 1, 10), day(2024, 1, 20)),
		timeline("A", "Go live", "Milestone", day(2024, 2, 1), time.Time{}),
		timeline("A", "Other", "UnknownTag", day(2024, 1, 15), day(2024, 1, 25)),
		heat("B", "", day(2024, 3, 15)),
	)

	fig, err := Compose(events, DefaultRenderConfig())
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}

	if !slices.Equal(fig.TimelineLanes, []string{"A"}) {
		t.Fatalf("timeline lanes = %v, want [A]", fig.TimelineLanes)
	}
	bars, markers := fig.TimelineShapes(0)
	if bars != 2 || markers != 1 {
		t.Fatalf("lane A: %d bars, %d markers; want 2 bars, 1 marker", bars, markers)
	}
	if fig.Markers[0].Shape != ShapeDiamond {
		t.Errorf("milestone shape = %s, want diamond", fig.Markers[0].Shape)
	}

	fills := map[string]string{}
	for _, b := range fig.Bars {
		fills[b.Symbol] = b.Fill
	}
	if fills["Blue Bar"] != "#1f77b4" {
		t.Errorf("Blue Bar fill = %s", fills["Blue Bar"])
	}
	if fills["UnknownTag"] != NeutralGray {
		t.Errorf("UnknownTag fill = %s, want %s", fills["UnknownTag"], NeutralGray)
	}

	if !slices.Equal(fig.HeatLanes, []string{"B"}) {
		t.Fatalf("heat lanes = %v, want [B]", fig.HeatLanes)
	}
	if len(fig.HeatCells) != 1 {
		t.Fatalf("expected 1 heat cell, got %d", len(fig.HeatCells))
	}
	cell := fig.HeatCells[0]
	if !cell.Month.Equal(day(2024, 3, 1)) {
		t.Errorf("heat cell month = %v, want March 2024", cell.Month)
	}
	if !almostEqual(cell.Width, 31) {
		t.Errorf("March cell width = %v, want 31", cell.Width)
	}
	if len(fig.Labels) != 3 {
		t.Errorf("expected 3 timeline labels, got %d", len(fig.Labels))
	}
}

func TestComposeNoValidDates(t *testing.T) {
	events := numbered(
		timeline("A", "x", "Blue Bar", time.Time{}, day(2024, 1, 1)),
		heat("B", "", time.Time{}),
		model.Event{Category: "notes", RowRef: "C", DateFrom: day(2024, 1, 1)},
	)
	_, err := Compose(events, DefaultRenderConfig())
	if !errors.Is(err, ErrNoValidDates) {
		t.Fatalf("expected ErrNoValidDates, got %v", err)
	}
}

func TestComposeDoesNotMutateEvents(t *testing.T) {
	events := numbered(
		timeline("A", "x", "Blue Bar", day(2024, 1, 10), day(2024, 1, 10)),
	)
	before := slices.Clone(events)
	if _, err := Compose(events, DefaultRenderConfig()); err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(before, events) {
		t.Error("Compose modified its input")
	}
}

func TestOneDayNormalization(t *testing.T) {
	tests := []struct {
		name string
		to   time.Time
	}{
		{"same day", day(2024, 1, 10)},
		{"missing end", time.Time{}},
		{"end before start", day(2024, 1, 5)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			events := numbered(timeline("A", "x", "Blue Bar", day(2024, 1, 10), tt.to))
			fig, err := Compose(events, DefaultRenderConfig())
			if err != nil {
				t.Fatal(err)
			}
			if len(fig.Bars) != 1 {
				t.Fatalf("expected 1 bar, got %d", len(fig.Bars))
			}
			if !almostEqual(fig.Bars[0].Width, 1) {
				t.Errorf("bar width = %v, want 1", fig.Bars[0].Width)
			}
			if !almostEqual(fig.Bars[0].Start, DayNum(day(2024, 1, 10))) {
				t.Errorf("bar start = %v", fig.Bars[0].Start)
			}
			if !events[0].DateTo.Equal(tt.to) {
				t.Error("event end date was changed")
			}
		})
	}
}

func TestComposeSkipsIncompleteEvents(t *testing.T) {
	events := numbered(
		timeline("", "no lane", "Blue Bar", day(2024, 1, 1), day(2024, 1, 5)),
		timeline("A", "no start", "Blue Bar", time.Time{}, day(2024, 1, 5)),
		timeline("A", "drawn", "Blue Bar", day(2024, 1, 1), day(2024, 1, 2)),
		heat("H", "", time.Time{}),
		heat("H", "", day(2024, 2, 2)),
	)
	fig, err := Compose(events, DefaultRenderConfig())
	if err != nil {
		t.Fatal(err)
	}
	if len(fig.Skipped) != 3 {
		t.Fatalf("expected 3 skipped events, got %+v", fig.Skipped)
	}
	if s := fig.Skipped[1]; s.Row != 1 || s.Line != 3 || s.Reason != "missing Date From" {
		t.Errorf("skipped[1] = %+v, want row 1 from worksheet line 3", s)
	}
	if len(fig.Bars) != 1 || len(fig.HeatCells) != 1 {
		t.Fatalf("bars=%d cells=%d, want 1 and 1", len(fig.Bars), len(fig.HeatCells))
	}
	// The skipped event still counts toward the lane sequence.
	if len(fig.Labels) != 1 {
		t.Fatalf("expected 1 label, got %d", len(fig.Labels))
	}
	if want := StaggerOffset(1, 0.25); !almostEqual(fig.Labels[0].Y, want) {
		t.Errorf("label y = %v, want %v", fig.Labels[0].Y, want)
	}
}

func TestComputeDateRange(t *testing.T) {
	tests := []struct {
		name       string
		events     []model.Event
		start, end time.Time
	}{
		{
			name: "minimum margin",
			events: []model.Event{
				timeline("A", "", "", day(2024, 1, 10), day(2024, 1, 20)),
				heat("B", "", day(2024, 3, 15)),
			},
			start: day(2024, 1, 5),
			end:   day(2024, 3, 20),
		},
		{
			name: "two percent margin",
			events: []model.Event{
				timeline("A", "", "", day(2020, 1, 1), day(2024, 1, 1)),
			},
			// 1461 days span, 2% is 29.22, floored to 29
			start: day(2020, 1, 1).AddDate(0, 0, -29),
			end:   day(2024, 1, 1).AddDate(0, 0, 29),
		},
		{
			name: "end date earlier than every start",
			events: []model.Event{
				timeline("A", "", "", day(2024, 6, 1), day(2024, 5, 1)),
			},
			start: day(2024, 4, 26),
			end:   day(2024, 6, 6),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := ComputeDateRange(tt.events)
			if err != nil {
				t.Fatal(err)
			}
			if !r.Start.Equal(tt.start) || !r.End.Equal(tt.end) {
				t.Errorf("range = %v..%v, want %v..%v", r.Start, r.End, tt.start, tt.end)
			}
		})
	}
}

func TestDateRangeCoversEveryDate(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(1, 20).Draw(t, "n")
		var events []model.Event
		var all []time.Time
		for i := range n {
			from := day(2000, 1, 1).AddDate(0, 0, rapid.IntRange(0, 20000).Draw(t, fmt.Sprintf("from%d", i)))
			if rapid.Bool().Draw(t, fmt.Sprintf("heat%d", i)) {
				events = append(events, heat("H", "", from))
				all = append(all, from)
				continue
			}
			to := from.AddDate(0, 0, rapid.IntRange(-30, 400).Draw(t, fmt.Sprintf("len%d", i)))
			events = append(events, timeline("T", "", "", from, to))
			all = append(all, from, to)
		}

		r, err := ComputeDateRange(events)
		if err != nil {
			t.Fatal(err)
		}
		for _, d := range all {
			if r.Start.After(d.AddDate(0, 0, -MinMarginDays)) {
				t.Fatalf("start %v does not leave %d days before %v", r.Start, MinMarginDays, d)
			}
			if r.End.Before(d.AddDate(0, 0, MinMarginDays)) {
				t.Fatalf("end %v does not leave %d days after %v", r.End, MinMarginDays, d)
			}
		}
	})
}

func TestAssignRowsOrderAndIdempotence(t *testing.T) {
	refs := []string{"A", "B", "C", "D", "", " "}
	rapid.Check(t, func(t *rapid.T) {
		picks := rapid.SliceOf(rapid.SampledFrom(refs)).Draw(t, "refs")
		var events []model.Event
		for _, r := range picks {
			events = append(events, timeline(r, "", "", day(2024, 1, 1), time.Time{}))
		}

		lanes := AssignRows(events, model.SectionTimeline)
		again := AssignRows(append(slices.Clone(events), events...), model.SectionTimeline)
		if !slices.Equal(lanes, again) {
			t.Fatalf("lanes changed when events repeated: %v vs %v", lanes, again)
		}

		seen := map[string]bool{}
		var want []string
		for _, r := range picks {
			if r == "" || r == " " || seen[r] {
				continue
			}
			seen[r] = true
			want = append(want, r)
		}
		if !slices.Equal(lanes, want) {
			t.Fatalf("AssignRows = %v, want first-occurrence order %v", lanes, want)
		}
	})
}

func TestAssignRowsSeparatesSections(t *testing.T) {
	events := []model.Event{
		timeline("A", "", "", day(2024, 1, 1), time.Time{}),
		heat("A", "", day(2024, 1, 1)),
		heat("B", "", day(2024, 1, 1)),
	}
	if got := AssignRows(events, model.SectionHeatMap); !slices.Equal(got, []string{"A", "B"}) {
		t.Errorf("heat lanes = %v", got)
	}
	if got := AssignRows(events, model.SectionTimeline); !slices.Equal(got, []string{"A"}) {
		t.Errorf("timeline lanes = %v", got)
	}
}

func TestClassifyPaletteCycles(t *testing.T) {
	var symbols []string
	for i := range 11 {
		symbols = append(symbols, fmt.Sprintf("Tag%d", i))
	}
	m := Classify(symbols, nil)

	first, eleventh := m.Resolve("Tag0"), m.Resolve("Tag10")
	if first.Kind != StylePalette || eleventh.Kind != StylePalette {
		t.Fatalf("kinds = %s, %s; want palette", first.Kind, eleventh.Kind)
	}
	if first.Color != eleventh.Color {
		t.Errorf("11th symbol colour %s, want repeat of first %s", eleventh.Color, first.Color)
	}
	if m.Resolve("Tag1").Color == first.Color {
		t.Error("second symbol reused the first palette colour")
	}
	if got := first.Fill(false); got != NeutralGray {
		t.Errorf("palette fill without colouring = %s, want %s", got, NeutralGray)
	}
	if got := first.Fill(true); got != first.Color {
		t.Errorf("palette fill with colouring = %s, want %s", got, first.Color)
	}
}

func TestClassifySymbols(t *testing.T) {
	m := Classify([]string{"Blue Bar", "Red Spot", "#00ff00", "#zzzzzz", "#ff000080"}, nil)

	tests := []struct {
		symbol string
		kind   StyleKind
		fill   string
	}{
		{"Blue Bar", StyleBar, "#1f77b4"},
		{"#00ff00", StyleLiteral, "#00ff00"},
		{"#zzzzzz", StyleLiteral, NeutralGray},
		{"#ff000080", StyleLiteral, "#ff000080"},
		{"never seen", StyleUnrecognized, NeutralGray},
		{"", StyleUnrecognized, NeutralGray},
	}
	for _, tt := range tests {
		st := m.Resolve(tt.symbol)
		if st.Kind != tt.kind {
			t.Errorf("Resolve(%q).Kind = %s, want %s", tt.symbol, st.Kind, tt.kind)
		}
		if got := st.Fill(false); got != tt.fill {
			t.Errorf("Resolve(%q).Fill = %s, want %s", tt.symbol, got, tt.fill)
		}
	}
	if !m.Resolve("#zzzzzz").BadColor {
		t.Error("expected BadColor for #zzzzzz")
	}
	spot := m.Resolve("Red Spot")
	if !spot.IsMarker() || spot.Marker.Shape != ShapeCircle || spot.Marker.Color != "#ff0000" {
		t.Errorf("Red Spot = %+v", spot)
	}
}

func TestHeatFill(t *testing.T) {
	m := Classify(nil, []string{"North", "South"})
	if got, want := m.HeatFill("North", "Red"), Lighten("#d62728", 0.3); got != want {
		t.Errorf("colour word fill = %s, want %s", got, want)
	}
	if got := m.HeatFill("South", ""); got != tab20[1] {
		t.Errorf("lane fill = %s, want %s", got, tab20[1])
	}
	if got := m.HeatFill("West", "stripes"); got != HeatFallback {
		t.Errorf("unknown lane fill = %s, want %s", got, HeatFallback)
	}
}

func TestParseHexColor(t *testing.T) {
	c, err := ParseHexColor("#ff000080")
	if err != nil {
		t.Fatal(err)
	}
	if c.R != 0xff || c.G != 0 || c.A != 0x80 {
		t.Errorf("got %+v", c)
	}
	for _, bad := range []string{"red", "#ff00", "#gggggg", "#ff0000zz"} {
		if _, err := ParseHexColor(bad); !errors.Is(err, ErrBadColor) {
			t.Errorf("ParseHexColor(%q) err = %v, want ErrBadColor", bad, err)
		}
	}
	if got := ColorOrGray("nope"); got.R != 0xcc || got.A != 0xff {
		t.Errorf("ColorOrGray fallback = %+v", got)
	}
}

func TestLighten(t *testing.T) {
	if got := Lighten("#000000", 1); got != "#ffffff" {
		t.Errorf("Lighten to white = %s", got)
	}
	if got := Lighten("#1f77b4", 0); got != "#1f77b4" {
		t.Errorf("Lighten by 0 = %s", got)
	}
}

func TestParseRisk(t *testing.T) {
	tests := []struct {
		in    string
		tier  RiskTier
		color string
		desc  string
		text  string
	}{
		{"4.5", RiskHigh, "#ff0000", "", "Impact Risk: High"},
		{"4", RiskHigh, "#ff0000", "", "Impact Risk: High"},
		{"3.2", RiskMedium, "#e6b800", "", "Impact Risk: Medium"},
		{"1", RiskLow, "#008000", "", "Impact Risk: Low"},
		{"Low - weather delays", RiskLow, "#008000", "weather delays", "Impact Risk: Low - weather delays"},
		{"HIGH", RiskHigh, "#ff0000", "", "Impact Risk: High"},
		{"Medium-supplier", RiskMedium, "#e6b800", "supplier", "Impact Risk: Medium - supplier"},
		{"Unknown - check", RiskOther, "#808080", "check", "Impact Risk: Unknown - check"},
	}
	for _, tt := range tests {
		r, ok := ParseRisk(tt.in)
		if !ok {
			t.Errorf("ParseRisk(%q) not ok", tt.in)
			continue
		}
		if r.Tier != tt.tier || r.Color != tt.color || r.Description != tt.desc {
			t.Errorf("ParseRisk(%q) = %+v", tt.in, r)
		}
		if r.Text() != tt.text {
			t.Errorf("ParseRisk(%q).Text() = %q, want %q", tt.in, r.Text(), tt.text)
		}
	}
	if _, ok := ParseRisk("   "); ok {
		t.Error("blank risk should not parse")
	}
}

func TestLaneRiskUsesFirstValue(t *testing.T) {
	a := timeline("A", "", "", day(2024, 1, 1), time.Time{})
	b := a
	a.RiskLevel = ""
	b.RiskLevel = "4.5"
	c := b
	c.RiskLevel = "Low"
	r, ok := LaneRisk([]model.Event{a, b, c}, "A")
	if !ok || r.Tier != RiskHigh {
		t.Errorf("LaneRisk = %+v, %v; want High", r, ok)
	}
	if _, ok := LaneRisk([]model.Event{a}, "A"); ok {
		t.Error("lane without risk should report false")
	}
}

func TestLabelPlacement(t *testing.T) {
	p := NewLabelPlacer(false, 0.25)
	tests := []struct {
		name  string
		pl    Placement
		x     float64
		align Align
	}{
		{"marker", Placement{Lane: "A", Start: 100, Width: 1, Marker: true, Title: "m"}, 101, AlignLeft},
		{"wide bar", Placement{Lane: "A", Start: 100, Width: 10, Title: "w"}, 105, AlignCenter},
		{"narrow bar", Placement{Lane: "A", Start: 100, Width: 1, Title: "n"}, 101.5, AlignLeft},
		{"manual offset", Placement{Lane: "A", Start: 100, Width: 10, Title: "o", XOffset: 2}, 107, AlignCenter},
	}
	for _, tt := range tests {
		l, ok := p.Place(tt.pl)
		if !ok {
			t.Errorf("%s: no label", tt.name)
			continue
		}
		if !almostEqual(l.X, tt.x) || l.Align != tt.align {
			t.Errorf("%s: x=%v align=%s, want x=%v align=%s", tt.name, l.X, l.Align, tt.x, tt.align)
		}
	}
	if _, ok := p.Place(Placement{Lane: "A", Title: ""}); ok {
		t.Error("empty title should draw no label")
	}
}

func TestLabelDuplicateSuppression(t *testing.T) {
	events := numbered(
		timeline("A", "Harvest", "Blue Bar", day(2024, 1, 1), day(2024, 1, 10)),
		timeline("A", "Harvest", "Blue Bar", day(2024, 2, 1), day(2024, 2, 10)),
		timeline("B", "Harvest", "Blue Bar", day(2024, 2, 1), day(2024, 2, 10)),
	)

	fig, err := Compose(events, DefaultRenderConfig())
	if err != nil {
		t.Fatal(err)
	}
	if len(fig.Labels) != 2 {
		t.Errorf("with suppression: %d labels, want 2", len(fig.Labels))
	}

	cfg := DefaultRenderConfig()
	cfg.SuppressDuplicateLabels = false
	fig, err = Compose(events, cfg)
	if err != nil {
		t.Fatal(err)
	}
	if len(fig.Labels) != 3 {
		t.Errorf("without suppression: %d labels, want 3", len(fig.Labels))
	}
}

func TestStaggerOffset(t *testing.T) {
	want := []float64{0, 0.25, -0.25, 0.5, -0.5, 0.75, -0.75, 0}
	for j, w := range want {
		if got := StaggerOffset(j, 0.25); !almostEqual(got, w) {
			t.Errorf("StaggerOffset(%d) = %v, want %v", j, got, w)
		}
	}
}

func TestMonthTicks(t *testing.T) {
	r := DateRange{Start: day(2024, 1, 5), End: day(2024, 3, 20)}
	ticks := MonthTicks(r)
	if len(ticks) != 2 || !ticks[0].Equal(day(2024, 2, 1)) || !ticks[1].Equal(day(2024, 3, 1)) {
		t.Errorf("MonthTicks = %v", ticks)
	}
	if n := MonthCount(r); n != 3 {
		t.Errorf("MonthCount = %d, want 3", n)
	}
}

func TestFigureSize(t *testing.T) {
	r := DateRange{Start: day(2024, 1, 5), End: day(2024, 3, 20)}
	w, h := figureSize(r, 1, 1, 1)
	if w != 12 || h != 4 {
		t.Errorf("small figure = %vx%v, want 12x4", w, h)
	}
	w, _ = figureSize(r, 1, 1, 2)
	if w != 24 {
		t.Errorf("zoomed width = %v, want 24", w)
	}
	long := DateRange{Start: day(2020, 1, 1), End: day(2024, 12, 31)}
	w, h = figureSize(long, 10, 5, 1)
	if !almostEqual(w, 36) || !almostEqual(h, 9.5) {
		t.Errorf("large figure = %vx%v, want 36x9.5", w, h)
	}
}

func TestLegendDistinctPairs(t *testing.T) {
	events := numbered(
		timeline("A", "Sow", "Blue Bar", day(2024, 1, 1), day(2024, 1, 5)),
		timeline("B", "Sow", "Blue Bar", day(2024, 1, 1), day(2024, 1, 5)),
		timeline("B", "Launch", "Milestone", day(2024, 1, 9), time.Time{}),
		timeline("C", "", "Red Bar", day(2024, 1, 1), day(2024, 1, 5)),
	)
	fig, err := Compose(events, DefaultRenderConfig())
	if err != nil {
		t.Fatal(err)
	}
	if len(fig.Legend) != 2 {
		t.Fatalf("legend = %+v, want 2 entries", fig.Legend)
	}
	if !fig.Legend[1].Marker || fig.Legend[1].Shape != ShapeDiamond {
		t.Errorf("milestone legend entry = %+v", fig.Legend[1])
	}
}

func TestRiskNotesPosition(t *testing.T) {
	a := timeline("A", "", "Blue Bar", day(2024, 1, 1), day(2024, 6, 1))
	a.RiskLevel = "High - drought"
	b := timeline("B", "", "Blue Bar", day(2024, 1, 1), day(2024, 6, 1))
	fig, err := Compose(numbered(a, b), DefaultRenderConfig())
	if err != nil {
		t.Fatal(err)
	}
	if len(fig.RiskNotes) != 1 {
		t.Fatalf("risk notes = %+v", fig.RiskNotes)
	}
	n := fig.RiskNotes[0]
	if n.Lane != 0 || !almostEqual(n.Y, -0.3) || n.X >= fig.Start {
		t.Errorf("risk note = %+v", n)
	}
	if n.Risk.Text() != "Impact Risk: High - drought" {
		t.Errorf("risk text = %q", n.Risk.Text())
	}
}
