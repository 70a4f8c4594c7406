package export

import (
	"math"

	"github.com/easty4690-png/ab-agri-timeline/pkg/layout"
)

// Point sizes used by the chart.
const (
	titlePt  = 14
	riskPt   = 9
	tickPt   = 8
	legendPt = 8
)

// Panel is one horizontal band of lanes in pixel space. Lane 0 is topmost.
type Panel struct {
	Top    float64
	Bottom float64
	Lanes  int
}

// LaneHeight returns the pixel height of one lane unit.
func (p Panel) LaneHeight() float64 {
	return (p.Bottom - p.Top) / float64(max(1, p.Lanes))
}

// Y maps a lane coordinate (lane index plus offsets) to a pixel row.
func (p Panel) Y(v float64) float64 {
	return p.Top + (v+0.5)*p.LaneHeight()
}

// LegendSlot is one positioned legend entry.
type LegendSlot struct {
	Entry layout.LegendEntry
	X, Y  float64 // swatch top-left
	Size  float64
}

// Geometry is the pixel layout of a figure at one resolution.
type Geometry struct {
	Width, Height int
	DPI           float64

	// Shared horizontal plot extent.
	Left, Right float64

	TitleX, TitleY float64
	Legend         []LegendSlot
	Timeline       Panel
	Heat           Panel
	TickY          float64 // top of the month tick label block

	start, end float64
}

// X maps a day number to a pixel column.
func (g Geometry) X(day float64) float64 {
	span := g.end - g.start
	if span <= 0 {
		return g.Left
	}
	return g.Left + (day-g.start)/span*(g.Right-g.Left)
}

// ComputeGeometry sizes the canvas from the figure's inch dimensions and
// grows it to fit the measured text around the plot area, so nothing drawn
// outside the axes is cut off.
func ComputeGeometry(fig *layout.Figure, faces *Faces) Geometry {
	dpi := faces.DPI()
	pad := faces.Px(10)
	baseW := fig.WidthIn * dpi
	baseH := fig.HeightIn * dpi

	plotW := math.Max(baseW-2*pad, faces.Px(72))

	// Left gutter: lane tick labels, risk notes and heat lane labels all sit
	// left of the plot.
	gutter := 0.0
	for _, lane := range fig.TimelineLanes {
		gutter = math.Max(gutter, faces.Measure(tickPt, lane)+faces.Px(6))
	}
	for _, n := range fig.RiskNotes {
		gutter = math.Max(gutter, faces.Measure(riskPt, n.Risk.Text())+0.02*plotW)
	}
	for _, l := range fig.LaneLabels {
		gutter = math.Max(gutter, faces.Measure(l.FontSize, l.Text)+0.01*plotW)
	}

	g := Geometry{DPI: dpi, start: fig.Start, end: fig.End}
	g.Left = pad + gutter
	g.Right = g.Left + plotW

	// Title band, then the legend grid right-aligned under it.
	y := pad
	g.TitleX = (g.Left + g.Right) / 2
	g.TitleY = y + faces.LineHeight(titlePt)/2
	y += faces.LineHeight(titlePt) + faces.Px(6)

	if n := len(fig.Legend); n > 0 {
		ncol := min(3, n)
		swatch := faces.Px(legendPt)
		colW := 0.0
		for _, e := range fig.Legend {
			colW = math.Max(colW, swatch+faces.Px(4)+faces.Measure(legendPt, e.Title)+faces.Px(12))
		}
		rowH := faces.LineHeight(legendPt) * 1.3
		x0 := g.Right - float64(ncol)*colW
		for i, e := range fig.Legend {
			g.Legend = append(g.Legend, LegendSlot{
				Entry: e,
				X:     x0 + float64(i%ncol)*colW,
				Y:     y + float64(i/ncol)*rowH,
				Size:  swatch,
			})
		}
		y += float64((n+ncol-1)/ncol)*rowH + faces.Px(4)
	}
	// Risk notes sit 0.3 lanes above lane 0; keep them inside the canvas.
	y += faces.LineHeight(riskPt) / 2

	tickBand := 2*faces.LineHeight(tickPt) + faces.Px(6)
	gap := faces.Px(14)
	panels := math.Max(baseH-(y+tickBand+pad), faces.Px(72))

	tw, hw := fig.TimelineWeight, fig.HeatWeight
	if tw+hw <= 0 {
		tw, hw = 1, 1
	}
	timelineH := (panels - gap) * tw / (tw + hw)
	g.Timeline = Panel{Top: y, Bottom: y + timelineH, Lanes: len(fig.TimelineLanes)}
	g.Heat = Panel{Top: g.Timeline.Bottom + gap, Bottom: y + panels, Lanes: len(fig.HeatLanes)}
	g.TickY = g.Heat.Bottom + faces.Px(4)

	g.Width = int(math.Ceil(g.Right + pad))
	g.Height = int(math.Ceil(g.TickY + tickBand + pad))
	return g
}

// markerRadius converts a marker area in points squared to a pixel radius.
func markerRadius(area float64, faces *Faces) float64 {
	return faces.Px(math.Sqrt(math.Max(area, 0)) / 2)
}
