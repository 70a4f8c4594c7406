// Package export turns a composed figure into files: PNG via gg, SVG via
// svgo, a single-slide PowerPoint deck, and markdown/JSON summaries.
package export

import (
	"bufio"
	"errors"
	"fmt"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/easty4690-png/ab-agri-timeline/pkg/layout"
	"github.com/easty4690-png/ab-agri-timeline/pkg/metrics"

	"github.com/ajstarks/svgo"
)

// ErrUnsupportedFormat is returned for output formats other than png and svg.
var ErrUnsupportedFormat = errors.New("unsupported output format")

// Default resolutions.
const (
	DefaultPNGDPI = 300
	DefaultSVGDPI = 100
)

// Options controls figure export.
type Options struct {
	Path   string  // Output path; format inferred from extension when Format empty
	Format string  // "svg" or "png" (case-insensitive). If empty, inferred from Path.
	DPI    float64 // 0 selects DefaultPNGDPI or DefaultSVGDPI
}

// SaveFigure renders fig to opts.Path.
func SaveFigure(fig *layout.Figure, opts Options) error {
	if fig == nil {
		return errors.New("no figure to export")
	}
	if opts.Path == "" {
		return errors.New("output path is required")
	}
	format := strings.ToLower(strings.TrimPrefix(opts.Format, "."))
	if format == "" {
		format = strings.ToLower(strings.TrimPrefix(filepath.Ext(opts.Path), "."))
	}
	if format != "png" && format != "svg" {
		return fmt.Errorf("%w %q (want png or svg)", ErrUnsupportedFormat, format)
	}

	if dir := filepath.Dir(opts.Path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create parent dir: %w", err)
		}
	}
	file, err := os.Create(opts.Path)
	if err != nil {
		return fmt.Errorf("create %s: %w", opts.Path, err)
	}
	w := bufio.NewWriter(file)
	if format == "png" {
		err = RenderPNG(w, fig, opts.DPI)
	} else {
		err = RenderSVG(w, fig, opts.DPI)
	}
	if err == nil {
		err = w.Flush()
	}
	if cerr := file.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("export %s: %w", opts.Path, err)
	}
	return nil
}

// RenderPNG rasterizes fig at dpi and encodes it as PNG.
func RenderPNG(w io.Writer, fig *layout.Figure, dpi float64) error {
	defer metrics.Timer(metrics.Export)()
	if dpi <= 0 {
		dpi = DefaultPNGDPI
	}
	faces := NewFaces(dpi)
	geo := ComputeGeometry(fig, faces)
	c := newGGCanvas(geo.Width, geo.Height, faces)
	drawFigure(c, fig, geo, faces)
	return c.dc.EncodePNG(w)
}

// RenderSVG writes fig as an SVG document sized for dpi.
func RenderSVG(w io.Writer, fig *layout.Figure, dpi float64) error {
	defer metrics.Timer(metrics.Export)()
	if dpi <= 0 {
		dpi = DefaultSVGDPI
	}
	faces := NewFaces(dpi)
	geo := ComputeGeometry(fig, faces)

	s := svg.New(w)
	s.Start(geo.Width, geo.Height)
	s.Rect(0, 0, geo.Width, geo.Height, fmt.Sprintf("fill:%s", css(colorBackdrop)))
	drawFigure(&svgCanvas{s: s, faces: faces}, fig, geo, faces)
	s.End()
	return nil
}

func drawFigure(c canvas, fig *layout.Figure, geo Geometry, faces *Faces) {
	c.Text(geo.TitleX, geo.TitleY, fig.Title, titlePt, colorText, layout.AlignCenter)
	drawLegend(c, geo, faces)

	drawGrid(c, fig, geo, geo.Timeline, faces)
	drawGrid(c, fig, geo, geo.Heat, faces)
	drawTimeline(c, fig, geo, faces)
	drawHeatMap(c, fig, geo)
	drawTicks(c, fig, geo, faces)
}

func drawGrid(c canvas, fig *layout.Figure, geo Geometry, p Panel, faces *Faces) {
	for _, t := range fig.MonthTicks {
		x := geo.X(layout.DayNum(t))
		c.Line(x, p.Top, x, p.Bottom, colorGrid, faces.Px(0.8), true, 0.3)
	}
	c.Line(geo.Left, p.Bottom, geo.Right, p.Bottom, colorAxis, faces.Px(0.8), false, 1)
}

func drawTimeline(c canvas, fig *layout.Figure, geo Geometry, faces *Faces) {
	p := geo.Timeline
	for i, lane := range fig.TimelineLanes {
		c.Text(geo.Left-faces.Px(4), p.Y(float64(i)), lane, tickPt, colorText, layout.AlignRight)
	}
	for _, n := range fig.RiskNotes {
		c.Text(geo.X(n.X), p.Y(n.Y), n.Risk.Text(), riskPt, layout.ColorOrGray(n.Risk.Color), layout.AlignRight)
	}

	c.Clip(geo.Left, p.Top, geo.Right-geo.Left, p.Bottom-p.Top)
	for _, b := range fig.Bars {
		x0, x1 := geo.X(b.Start), geo.X(b.Start+b.Width)
		y0, y1 := p.Y(b.Y), p.Y(b.Y+b.Height)
		c.Rect(x0, y0, x1-x0, y1-y0, layout.ColorOrGray(b.Fill), 1, true)
	}
	for _, m := range fig.Markers {
		drawMarker(c, geo.X(m.X), p.Y(m.Y), markerRadius(m.Size, faces), m.Shape, layout.ColorOrGray(m.Color))
	}
	for _, l := range fig.Labels {
		c.Text(geo.X(l.X), p.Y(l.Y), l.Text, l.FontSize, layout.ColorOrGray(l.Color), l.Align)
	}
	c.Unclip()
}

func drawMarker(c canvas, x, y, r float64, shape layout.MarkerShape, fill color.RGBA) {
	if shape == layout.ShapeDiamond {
		d := r * 0.85
		c.Polygon([]float64{x, x + d, x, x - d}, []float64{y - d, y, y + d, y}, fill)
		return
	}
	c.Circle(x, y, r, fill)
}

func drawHeatMap(c canvas, fig *layout.Figure, geo Geometry) {
	p := geo.Heat
	for _, l := range fig.LaneLabels {
		c.Text(geo.X(l.X), p.Y(l.Y), l.Text, l.FontSize, layout.ColorOrGray(l.Color), l.Align)
	}

	c.Clip(geo.Left, p.Top, geo.Right-geo.Left, p.Bottom-p.Top)
	for _, cell := range fig.HeatCells {
		x0, x1 := geo.X(cell.Start), geo.X(cell.Start+cell.Width)
		y0, y1 := p.Y(cell.Y), p.Y(cell.Y+cell.Height)
		c.Rect(x0, y0, x1-x0, y1-y0, layout.ColorOrGray(cell.Fill), cell.Alpha, false)
	}
	for _, l := range fig.HeatLabels {
		c.Text(geo.X(l.X), p.Y(l.Y), l.Text, l.FontSize, layout.ColorOrGray(l.Color), l.Align)
	}
	c.Unclip()
}

// drawTicks labels each month as "Jan" over "2024".
func drawTicks(c canvas, fig *layout.Figure, geo Geometry, faces *Faces) {
	lh := faces.LineHeight(tickPt)
	for _, t := range fig.MonthTicks {
		x := geo.X(layout.DayNum(t))
		c.Text(x, geo.TickY+lh*0.5, t.Format("Jan"), tickPt, colorText, layout.AlignCenter)
		c.Text(x, geo.TickY+lh*1.5, t.Format("2006"), tickPt, colorText, layout.AlignCenter)
	}
}

func drawLegend(c canvas, geo Geometry, faces *Faces) {
	for _, slot := range geo.Legend {
		e := slot.Entry
		fill := layout.ColorOrGray(e.Fill)
		cx, cy := slot.X+slot.Size/2, slot.Y+slot.Size/2
		if e.Marker {
			drawMarker(c, cx, cy, slot.Size/2, e.Shape, fill)
		} else {
			c.Rect(slot.X, slot.Y, slot.Size, slot.Size, fill, 1, true)
		}
		c.Text(slot.X+slot.Size+faces.Px(4), cy, e.Title, legendPt, colorText, layout.AlignLeft)
	}
}
