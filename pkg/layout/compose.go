package layout

import (
	"math"
	"strings"

	"github.com/easty4690-png/ab-agri-timeline/pkg/debug"
	"github.com/easty4690-png/ab-agri-timeline/pkg/metrics"
	"github.com/easty4690-png/ab-agri-timeline/pkg/model"
)

// Compose builds the whole figure from the event table. It is a pure
// function of its inputs: every call recomputes lanes, styles and
// coordinates from scratch and never touches the events.
func Compose(events []model.Event, cfg RenderConfig) (*Figure, error) {
	defer metrics.Timer(metrics.Layout)()

	timelineLanes := AssignRows(events, model.SectionTimeline)
	heatLanes := AssignRows(events, model.SectionHeatMap)

	styles := Classify(timelineSymbols(events), heatLanes)

	rng, err := ComputeDateRange(events)
	if err != nil {
		return nil, err
	}

	fig := &Figure{
		Title:          cfg.Title,
		Domain:         rng,
		Start:          DayNum(rng.Start),
		End:            DayNum(rng.End),
		MonthTicks:     MonthTicks(rng),
		TimelineLanes:  timelineLanes,
		HeatLanes:      heatLanes,
		Styles:         styles,
		TimelineWeight: float64(max(1, len(timelineLanes))),
		HeatWeight:     float64(max(1, len(heatLanes))),
	}
	fig.WidthIn, fig.HeightIn = figureSize(rng, len(timelineLanes), len(heatLanes), cfg.ZoomFactor)

	composeTimeline(fig, events, styles, cfg)
	composeRisk(fig, events)
	composeHeatMap(fig, events, styles)
	fig.Legend = buildLegend(events, styles, cfg.ColorUnknownSymbols)

	debug.Log("compose: %d timeline lanes, %d heat lanes, %d bars, %d markers, %d cells, %d skipped",
		len(timelineLanes), len(heatLanes), len(fig.Bars), len(fig.Markers), len(fig.HeatCells), len(fig.Skipped))
	return fig, nil
}

func timelineSymbols(events []model.Event) []string {
	var syms []string
	for _, e := range events {
		if e.IsTimeline() {
			syms = append(syms, e.Symbol)
		}
	}
	return syms
}

// figureSize returns width and height in inches. Width follows the month
// count and zoom, height the lane counts of both panels.
func figureSize(rng DateRange, timelineLanes, heatLanes int, zoom float64) (float64, float64) {
	months := float64(MonthCount(rng))
	w := math.Max(12.0, 0.6*months) * math.Max(0.1, zoom)
	h := math.Max(4.0, 0.6*float64(max(1, timelineLanes))+0.4*float64(max(1, heatLanes))+1.5)
	return w, h
}

// drawWidth normalizes a timeline event to at least a one-day bar for
// drawing. The event itself is left alone.
func drawWidth(e model.Event) float64 {
	if !e.HasDateTo() || !e.DateTo.After(e.DateFrom) {
		return 1
	}
	return DayNum(e.DateTo) - DayNum(e.DateFrom)
}

func composeTimeline(fig *Figure, events []model.Event, styles StyleMap, cfg RenderConfig) {
	lanes := laneIndex(fig.TimelineLanes)
	placer := NewLabelPlacer(cfg.SuppressDuplicateLabels, cfg.LabelOffsetScale)
	seq := make(map[string]int, len(lanes))

	for _, e := range events {
		if !e.IsTimeline() {
			continue
		}
		if !hasRowRef(e) {
			fig.Skipped = append(fig.Skipped, Skipped{Row: e.Row, Line: e.Line, Section: e.Section.String(), Reason: "missing Line Ref"})
			continue
		}
		i := lanes[e.RowRef]
		j := seq[e.RowRef]
		seq[e.RowRef]++
		if !e.HasDateFrom() {
			fig.Skipped = append(fig.Skipped, Skipped{Row: e.Row, Line: e.Line, Section: e.Section.String(), Lane: e.RowRef, Reason: "missing Date From"})
			continue
		}

		start := DayNum(e.DateFrom)
		width := drawWidth(e)
		st := styles.Resolve(e.Symbol)

		if st.IsMarker() {
			fig.Markers = append(fig.Markers, Marker{
				Lane:  i,
				X:     start,
				Y:     float64(i),
				Shape: st.Marker.Shape,
				Color: st.Marker.Color,
				Size:  cfg.MarkerSize,
				Row:   e.Row,
			})
		} else {
			fig.Bars = append(fig.Bars, Bar{
				Lane:   i,
				Start:  start,
				Width:  width,
				Y:      float64(i) - barHeight/2,
				Height: barHeight,
				Fill:   st.Fill(cfg.ColorUnknownSymbols),
				Symbol: e.Symbol,
				Row:    e.Row,
			})
		}

		label, ok := placer.Place(Placement{
			Lane:    e.RowRef,
			LaneY:   i,
			Seq:     j,
			Start:   start,
			Width:   width,
			Marker:  st.IsMarker(),
			Title:   strings.TrimSpace(e.Title),
			XOffset: e.XOffset,
			YOffset: e.YOffset,
			Row:     e.Row,
		})
		if ok {
			fig.Labels = append(fig.Labels, label)
		}
	}
}

func composeRisk(fig *Figure, events []model.Event) {
	x := fig.Start - (fig.End-fig.Start)*0.02
	for i, lane := range fig.TimelineLanes {
		r, ok := LaneRisk(events, lane)
		if !ok {
			continue
		}
		fig.RiskNotes = append(fig.RiskNotes, RiskNote{Lane: i, X: x, Y: float64(i) - 0.3, Risk: r})
	}
}

func composeHeatMap(fig *Figure, events []model.Event, styles StyleMap) {
	lanes := laneIndex(fig.HeatLanes)
	for _, e := range events {
		if !e.IsHeatMap() {
			continue
		}
		if !hasRowRef(e) {
			fig.Skipped = append(fig.Skipped, Skipped{Row: e.Row, Line: e.Line, Section: e.Section.String(), Reason: "missing Line Ref"})
			continue
		}
		if !e.HasHeatMapDate() {
			fig.Skipped = append(fig.Skipped, Skipped{Row: e.Row, Line: e.Line, Section: e.Section.String(), Lane: e.RowRef, Reason: "missing Heat Map Dates"})
			continue
		}
		i := lanes[e.RowRef]
		from, to := MonthBounds(e.HeatMapDate)
		start, width := DayNum(from), DayNum(to)-DayNum(from)
		fig.HeatCells = append(fig.HeatCells, HeatCell{
			Lane:   i,
			Month:  from,
			Start:  start,
			Width:  width,
			Y:      float64(i) - heatHeight/2,
			Height: heatHeight,
			Fill:   styles.HeatFill(e.RowRef, e.Symbol),
			Alpha:  heatAlpha,
			Row:    e.Row,
		})
		fig.HeatLabels = append(fig.HeatLabels, Label{
			X:        start + width/2,
			Y:        float64(i),
			Text:     e.RowRef,
			Align:    AlignCenter,
			FontSize: 7,
			Color:    "#000000",
			Row:      e.Row,
		})
	}

	x := fig.Start - (fig.End-fig.Start)*0.01
	for i, lane := range fig.HeatLanes {
		fig.LaneLabels = append(fig.LaneLabels, Label{
			X:        x,
			Y:        float64(i),
			Text:     lane,
			Align:    AlignRight,
			FontSize: 8,
			Color:    "#000000",
			Row:      -1,
		})
	}
}

// buildLegend lists distinct (symbol, title) pairs of timeline events that
// have both, in table order.
func buildLegend(events []model.Event, styles StyleMap, colorUnknown bool) []LegendEntry {
	type key struct{ sym, title string }
	seen := make(map[key]bool)
	var out []LegendEntry
	for _, e := range events {
		if !e.IsTimeline() {
			continue
		}
		sym, title := strings.TrimSpace(e.Symbol), strings.TrimSpace(e.Title)
		if sym == "" || title == "" {
			continue
		}
		k := key{sym, title}
		if seen[k] {
			continue
		}
		seen[k] = true

		st := styles.Resolve(sym)
		entry := LegendEntry{Symbol: sym, Title: title}
		if st.IsMarker() {
			entry.Marker = true
			entry.Fill = st.Marker.Color
			entry.Shape = st.Marker.Shape
		} else {
			entry.Fill = st.Fill(colorUnknown)
		}
		out = append(out, entry)
	}
	return out
}
