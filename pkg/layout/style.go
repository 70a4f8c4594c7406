package layout

import (
	"errors"
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/easty4690-png/ab-agri-timeline/pkg/debug"
	"github.com/easty4690-png/ab-agri-timeline/pkg/model"

	"github.com/lucasb-eyer/go-colorful"
)

// NeutralGray fills unrecognized symbols and unparseable colours.
const NeutralGray = "#cccccc"

// HeatFallback fills a heat cell whose lane has no palette entry.
const HeatFallback = "#dddddd"

// ErrBadColor is returned by ParseHexColor for strings that are not #rrggbb or #rrggbbaa.
var ErrBadColor = errors.New("bad colour value")

// tab10 is the categorical palette for unmapped timeline symbols.
var tab10 = []string{
	"#1f77b4", "#ff7f0e", "#2ca02c", "#d62728", "#9467bd",
	"#8c564b", "#e377c2", "#7f7f7f", "#bcbd22", "#17becf",
}

// tab20 is the categorical palette for heat map lanes.
var tab20 = []string{
	"#1f77b4", "#aec7e8", "#ff7f0e", "#ffbb78", "#2ca02c",
	"#98df8a", "#d62728", "#ff9896", "#9467bd", "#c5b0d5",
	"#8c564b", "#c49c94", "#e377c2", "#f7b6d2", "#7f7f7f",
	"#c7c7c7", "#bcbd22", "#dbdb8d", "#17becf", "#9edae5",
}

// BuiltinBars are the named bar symbols with fixed fills.
var BuiltinBars = map[string]string{
	"Blue Bar":  "#1f77b4",
	"Grey Bar":  "#8c8c8c",
	"White Bar": "#ffffff",
	"Red Bar":   "#d62728",
}

// MarkerShape is the glyph drawn for point events.
type MarkerShape string

const (
	ShapeDiamond MarkerShape = "diamond"
	ShapeCircle  MarkerShape = "circle"
)

// MarkerStyle is a marker glyph and its fill.
type MarkerStyle struct {
	Shape MarkerShape `json:"shape"`
	Color string      `json:"color"`
}

// BuiltinMarkers are the named point-event symbols.
var BuiltinMarkers = map[string]MarkerStyle{
	"Milestone":  {Shape: ShapeDiamond, Color: "#000000"},
	"Black Spot": {Shape: ShapeCircle, Color: "#000000"},
	"Red Spot":   {Shape: ShapeCircle, Color: "#ff0000"},
}

// BuiltinSymbols lists every named symbol in picker order.
func BuiltinSymbols() []string {
	return []string{"Blue Bar", "Grey Bar", "White Bar", "Red Bar", "Milestone", "Black Spot", "Red Spot"}
}

// heatBaseColors are the colour words recognised in heat map symbols.
var heatBaseColors = map[string]string{
	"red":   "#d62728",
	"black": "#000000",
	"blue":  "#1f77b4",
	"grey":  "#8c8c8c",
	"gray":  "#8c8c8c",
	"white": "#ffffff",
}

// StyleKind tags how a timeline symbol is drawn.
type StyleKind int

const (
	StyleUnrecognized StyleKind = iota
	StyleBar
	StyleMarker
	StyleLiteral
	StylePalette
)

func (k StyleKind) String() string {
	switch k {
	case StyleBar:
		return "bar"
	case StyleMarker:
		return "marker"
	case StyleLiteral:
		return "literal"
	case StylePalette:
		return "palette"
	default:
		return "unrecognized"
	}
}

// Style is the resolved rendering of one symbol.
type Style struct {
	Kind     StyleKind
	Symbol   string
	Color    string      // bar fill; palette colour for StylePalette
	Marker   MarkerStyle // only for StyleMarker
	BadColor bool        // literal colour that failed to parse; Color is NeutralGray
}

// IsMarker reports whether the symbol draws as a point marker.
func (s Style) IsMarker() bool { return s.Kind == StyleMarker }

// Fill returns the bar fill to draw. Palette-assigned symbols are still
// unrecognized tags and draw gray unless colorUnknown is set.
func (s Style) Fill(colorUnknown bool) string {
	switch s.Kind {
	case StyleBar, StyleLiteral:
		return s.Color
	case StylePalette:
		if colorUnknown {
			return s.Color
		}
	}
	return NeutralGray
}

// StyleMap is the per-render symbol and lane lookup.
type StyleMap struct {
	BarColors  map[string]string      `json:"bar_colors"`
	Markers    map[string]MarkerStyle `json:"markers"`
	HeatColors map[string]string      `json:"heat_colors"`

	styles map[string]Style
}

// Resolve returns the style for a symbol. Symbols not seen by Classify
// (including the empty symbol) resolve to StyleUnrecognized.
func (m StyleMap) Resolve(symbol string) Style {
	if s, ok := m.styles[strings.TrimSpace(symbol)]; ok {
		return s
	}
	return Style{Kind: StyleUnrecognized, Symbol: symbol, Color: NeutralGray}
}

// HeatFill returns the fill of a heat cell on lane rowRef with the given symbol.
func (m StyleMap) HeatFill(rowRef, symbol string) string {
	if base, ok := heatBaseColors[strings.ToLower(strings.TrimSpace(symbol))]; ok {
		return Lighten(base, 0.3)
	}
	if c, ok := m.HeatColors[rowRef]; ok {
		return c
	}
	return HeatFallback
}

// Classify builds the style map from the distinct timeline symbols and heat
// map lanes, both in encounter order. Palettes are indexed by a running
// count modulo their length, so the 11th unmapped symbol repeats the first
// palette colour.
func Classify(symbols []string, heatLanes []string) StyleMap {
	m := StyleMap{
		BarColors:  make(map[string]string),
		Markers:    make(map[string]MarkerStyle, len(BuiltinMarkers)),
		HeatColors: make(map[string]string, len(heatLanes)),
		styles:     make(map[string]Style),
	}
	for name, ms := range BuiltinMarkers {
		m.Markers[name] = ms
	}

	unmapped := 0
	for _, raw := range symbols {
		sym := strings.TrimSpace(raw)
		if sym == "" {
			continue
		}
		if _, done := m.styles[sym]; done {
			continue
		}
		switch {
		case model.IsHexColour(sym):
			st := Style{Kind: StyleLiteral, Symbol: sym, Color: sym}
			if _, err := ParseHexColor(sym); err != nil {
				debug.Log("symbol %q: %v, using %s", sym, err, NeutralGray)
				st.Color = NeutralGray
				st.BadColor = true
			}
			m.BarColors[sym] = st.Color
			m.styles[sym] = st
		case BuiltinBars[sym] != "":
			m.BarColors[sym] = BuiltinBars[sym]
			m.styles[sym] = Style{Kind: StyleBar, Symbol: sym, Color: BuiltinBars[sym]}
		case isBuiltinMarker(sym):
			m.styles[sym] = Style{Kind: StyleMarker, Symbol: sym, Marker: BuiltinMarkers[sym]}
		default:
			c := tab10[unmapped%len(tab10)]
			unmapped++
			m.BarColors[sym] = c
			m.styles[sym] = Style{Kind: StylePalette, Symbol: sym, Color: c}
		}
	}

	for i, lane := range heatLanes {
		m.HeatColors[lane] = tab20[i%len(tab20)]
	}
	return m
}

func isBuiltinMarker(sym string) bool {
	_, ok := BuiltinMarkers[sym]
	return ok
}

// ParseHexColor parses #rrggbb or #rrggbbaa.
func ParseHexColor(s string) (color.RGBA, error) {
	if !model.IsHexColour(s) {
		return color.RGBA{}, fmt.Errorf("%w: %q", ErrBadColor, s)
	}
	c, err := colorful.Hex(s[:7])
	if err != nil {
		return color.RGBA{}, fmt.Errorf("%w: %q", ErrBadColor, s)
	}
	r, g, b := c.RGB255()
	alpha := uint8(0xff)
	if len(s) == 9 {
		a, err := strconv.ParseUint(s[7:], 16, 8)
		if err != nil {
			return color.RGBA{}, fmt.Errorf("%w: %q", ErrBadColor, s)
		}
		alpha = uint8(a)
	}
	return color.RGBA{R: r, G: g, B: b, A: alpha}, nil
}

// ColorOrGray parses a hex colour and falls back to NeutralGray.
func ColorOrGray(s string) color.RGBA {
	c, err := ParseHexColor(s)
	if err != nil {
		c, _ = ParseHexColor(NeutralGray)
	}
	return c
}

// Lighten mixes a colour toward white; 0 keeps it, 1 gives white.
// Unparseable input is treated as mid gray.
func Lighten(hex string, amount float64) string {
	c, err := colorful.Hex(hex)
	if err != nil {
		c = colorful.Color{R: 0.5, G: 0.5, B: 0.5}
	}
	return c.BlendRgb(colorful.Color{R: 1, G: 1, B: 1}, amount).Clamped().Hex()
}
