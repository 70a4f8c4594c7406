package layout

import "math"

// Align is the horizontal anchoring of a text label.
type Align string

const (
	AlignLeft   Align = "left"
	AlignCenter Align = "center"
	AlignRight  Align = "right"
)

// offsetCycle staggers labels that share a lane. It is a cheap heuristic:
// an eighth co-located label lands back on the lane centre.
var offsetCycle = [...]float64{0, 1, -1, 2, -2, 3, -3}

// StaggerOffset returns the vertical micro-offset of the j-th event on a lane.
func StaggerOffset(j int, scale float64) float64 {
	if j < 0 {
		j = -j
	}
	return math.Max(0, scale) * offsetCycle[j%len(offsetCycle)]
}

// centerMinDays is the bar width from which a label sits inside the bar.
const centerMinDays = 3.0

// Label is a piece of text in data coordinates (x in day numbers, y in lane units).
type Label struct {
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Text     string  `json:"text"`
	Align    Align   `json:"align"`
	FontSize float64 `json:"font_size"`
	Color    string  `json:"color"`
	Row      int     `json:"row"`
}

// Placement describes one timeline event for the label engine.
type Placement struct {
	Lane    string
	LaneY   int
	Seq     int // position of the event among its lane's events, in table order
	Start   float64
	Width   float64 // normalized draw width in days
	Marker  bool
	Title   string
	XOffset float64
	YOffset float64
	Row     int
}

// LabelPlacer decides where timeline labels go and suppresses repeats.
// Use one placer per render; its seen-set is the only render state.
type LabelPlacer struct {
	suppress bool
	scale    float64
	seen     map[string]map[string]bool
}

// NewLabelPlacer creates a placer for a single render pass.
func NewLabelPlacer(suppressDuplicates bool, offsetScale float64) *LabelPlacer {
	return &LabelPlacer{
		suppress: suppressDuplicates,
		scale:    offsetScale,
		seen:     make(map[string]map[string]bool),
	}
}

// Place returns the label for an event, or false when it draws no label:
// an empty title, or a title already shown on the same lane.
func (p *LabelPlacer) Place(pl Placement) (Label, bool) {
	if pl.Title == "" {
		return Label{}, false
	}
	if p.suppress {
		lane := p.seen[pl.Lane]
		if lane == nil {
			lane = make(map[string]bool)
			p.seen[pl.Lane] = lane
		}
		if lane[pl.Title] {
			return Label{}, false
		}
		lane[pl.Title] = true
	}

	l := Label{
		Y:        float64(pl.LaneY) + StaggerOffset(pl.Seq, p.scale) + pl.YOffset,
		Text:     pl.Title,
		FontSize: 8,
		Color:    "#000000",
		Row:      pl.Row,
	}
	switch {
	case pl.Marker:
		l.X = pl.Start + 1 + pl.XOffset
		l.Align = AlignLeft
	case pl.Width >= centerMinDays:
		l.X = pl.Start + pl.Width/2 + pl.XOffset
		l.Align = AlignCenter
	default:
		l.X = pl.Start + pl.Width + 0.5 + pl.XOffset
		l.Align = AlignLeft
	}
	return l, true
}
