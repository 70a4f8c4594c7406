package layout

import "time"

// RenderConfig holds the per-render knobs.
type RenderConfig struct {
	Title                   string  `json:"title"`
	ZoomFactor              float64 `json:"zoom_factor"`
	MarkerSize              float64 `json:"marker_size"` // marker area in points squared
	LabelOffsetScale        float64 `json:"label_offset_scale"`
	SuppressDuplicateLabels bool    `json:"suppress_duplicate_labels"`
	ColorUnknownSymbols     bool    `json:"color_unknown_symbols"`
}

// DefaultRenderConfig returns the defaults used when nothing is configured.
func DefaultRenderConfig() RenderConfig {
	return RenderConfig{
		Title:                   "Gantt Chart",
		ZoomFactor:              1.0,
		MarkerSize:              70,
		LabelOffsetScale:        0.25,
		SuppressDuplicateLabels: true,
	}
}

const (
	barHeight  = 0.8
	heatHeight = 0.6
	heatAlpha  = 0.6
)

// Bar is a filled horizontal bar on the timeline panel.
type Bar struct {
	Lane   int     `json:"lane"`
	Start  float64 `json:"start"` // day number
	Width  float64 `json:"width"` // days
	Y      float64 `json:"y"`     // top edge in lane units
	Height float64 `json:"height"`
	Fill   string  `json:"fill"`
	Symbol string  `json:"symbol"`
	Row    int     `json:"row"`
}

// Marker is a point glyph on the timeline panel.
type Marker struct {
	Lane  int         `json:"lane"`
	X     float64     `json:"x"`
	Y     float64     `json:"y"`
	Shape MarkerShape `json:"shape"`
	Color string      `json:"color"`
	Size  float64     `json:"size"`
	Row   int         `json:"row"`
}

// HeatCell is one month-wide block on the heat map panel.
type HeatCell struct {
	Lane   int       `json:"lane"`
	Month  time.Time `json:"month"`
	Start  float64   `json:"start"`
	Width  float64   `json:"width"`
	Y      float64   `json:"y"`
	Height float64   `json:"height"`
	Fill   string    `json:"fill"`
	Alpha  float64   `json:"alpha"`
	Row    int       `json:"row"`
}

// RiskNote is the risk annotation left of a timeline lane.
type RiskNote struct {
	Lane int     `json:"lane"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	Risk Risk    `json:"risk"`
}

// LegendEntry summarises one distinct (symbol, title) pair.
type LegendEntry struct {
	Symbol string      `json:"symbol"`
	Title  string      `json:"title"`
	Marker bool        `json:"marker"`
	Fill   string      `json:"fill"`
	Shape  MarkerShape `json:"shape,omitempty"`
}

// Skipped records an event left out of a panel.
type Skipped struct {
	Row     int    `json:"row"`
	Line    int    `json:"line"`
	Section string `json:"section"`
	Lane    string `json:"lane"`
	Reason  string `json:"reason"`
}

// Figure is a complete chart in data coordinates. Backends in pkg/export map
// it to pixels; nothing here knows about fonts or resolution.
type Figure struct {
	Title  string    `json:"title"`
	Domain DateRange `json:"domain"`
	Start  float64   `json:"start"`
	End    float64   `json:"end"`

	MonthTicks    []time.Time `json:"month_ticks"`
	TimelineLanes []string    `json:"timeline_lanes"`
	HeatLanes     []string    `json:"heat_lanes"`

	Bars       []Bar         `json:"bars"`
	Markers    []Marker      `json:"markers"`
	Labels     []Label       `json:"labels"`
	HeatCells  []HeatCell    `json:"heat_cells"`
	HeatLabels []Label       `json:"heat_labels"`
	LaneLabels []Label       `json:"lane_labels"`
	RiskNotes  []RiskNote    `json:"risk_notes"`
	Legend     []LegendEntry `json:"legend"`
	Skipped    []Skipped     `json:"skipped,omitempty"`

	Styles StyleMap `json:"styles"`

	WidthIn  float64 `json:"width_in"`
	HeightIn float64 `json:"height_in"`
	// Relative heights of the two panels.
	TimelineWeight float64 `json:"timeline_weight"`
	HeatWeight     float64 `json:"heat_weight"`
}

// TimelineShapes counts bars and markers drawn on lane i.
func (f *Figure) TimelineShapes(lane int) (bars, markers int) {
	for _, b := range f.Bars {
		if b.Lane == lane {
			bars++
		}
	}
	for _, m := range f.Markers {
		if m.Lane == lane {
			markers++
		}
	}
	return bars, markers
}
