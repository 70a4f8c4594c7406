package export

import (
	"fmt"
	"image/color"
	"math"

	"github.com/easty4690-png/ab-agri-timeline/pkg/layout"

	"git.sr.ht/~sbinet/gg"
	"github.com/ajstarks/svgo"
)

// canvas is the drawing surface shared by the PNG and SVG backends.
// Text y is the vertical centre of the line.
type canvas interface {
	Rect(x, y, w, h float64, fill color.RGBA, alpha float64, edge bool)
	Line(x1, y1, x2, y2 float64, c color.RGBA, width float64, dashed bool, alpha float64)
	Text(x, y float64, s string, pt float64, c color.RGBA, align layout.Align)
	Circle(x, y, r float64, fill color.RGBA)
	Polygon(xs, ys []float64, fill color.RGBA)
	Clip(x, y, w, h float64)
	Unclip()
}

var (
	colorBackdrop = color.RGBA{0xff, 0xff, 0xff, 0xff}
	colorEdge     = color.RGBA{0x00, 0x00, 0x00, 0xff}
	colorText     = color.RGBA{0x11, 0x11, 0x11, 0xff}
	colorGrid     = color.RGBA{0x80, 0x80, 0x80, 0xff}
	colorAxis     = color.RGBA{0x33, 0x33, 0x33, 0xff}
)

// --- gg ---------------------------------------------------------------------

type ggCanvas struct {
	dc    *gg.Context
	faces *Faces
}

func newGGCanvas(width, height int, faces *Faces) *ggCanvas {
	dc := gg.NewContext(width, height)
	dc.SetColor(colorBackdrop)
	dc.Clear()
	return &ggCanvas{dc: dc, faces: faces}
}

func (c *ggCanvas) setColor(col color.RGBA, alpha float64) {
	c.dc.SetRGBA(float64(col.R)/255, float64(col.G)/255, float64(col.B)/255, alpha*float64(col.A)/255)
}

func (c *ggCanvas) Rect(x, y, w, h float64, fill color.RGBA, alpha float64, edge bool) {
	c.dc.DrawRectangle(x, y, w, h)
	c.setColor(fill, alpha)
	if !edge {
		c.dc.Fill()
		return
	}
	c.dc.FillPreserve()
	c.dc.SetColor(colorEdge)
	c.dc.SetLineWidth(c.faces.Px(0.8))
	c.dc.Stroke()
}

func (c *ggCanvas) Line(x1, y1, x2, y2 float64, col color.RGBA, width float64, dashed bool, alpha float64) {
	c.setColor(col, alpha)
	c.dc.SetLineWidth(width)
	if dashed {
		c.dc.SetDash(c.faces.Px(3), c.faces.Px(2))
	}
	c.dc.DrawLine(x1, y1, x2, y2)
	c.dc.Stroke()
	c.dc.SetDash()
}

func (c *ggCanvas) Text(x, y float64, s string, pt float64, col color.RGBA, align layout.Align) {
	c.dc.SetFontFace(c.faces.Face(pt))
	c.dc.SetColor(col)
	c.dc.DrawStringAnchored(s, x, y, anchor(align), 0.5)
}

func (c *ggCanvas) Circle(x, y, r float64, fill color.RGBA) {
	c.dc.DrawCircle(x, y, r)
	c.dc.SetColor(fill)
	c.dc.Fill()
}

func (c *ggCanvas) Polygon(xs, ys []float64, fill color.RGBA) {
	c.dc.NewSubPath()
	for i := range xs {
		if i == 0 {
			c.dc.MoveTo(xs[i], ys[i])
		} else {
			c.dc.LineTo(xs[i], ys[i])
		}
	}
	c.dc.ClosePath()
	c.dc.SetColor(fill)
	c.dc.Fill()
}

func (c *ggCanvas) Clip(x, y, w, h float64) {
	c.dc.DrawRectangle(x, y, w, h)
	c.dc.Clip()
}

func (c *ggCanvas) Unclip() { c.dc.ResetClip() }

func anchor(a layout.Align) float64 {
	switch a {
	case layout.AlignCenter:
		return 0.5
	case layout.AlignRight:
		return 1
	default:
		return 0
	}
}

// --- svgo -------------------------------------------------------------------

type svgCanvas struct {
	s     *svg.SVG
	faces *Faces
	clips int
}

func (c *svgCanvas) Rect(x, y, w, h float64, fill color.RGBA, alpha float64, edge bool) {
	style := fmt.Sprintf("fill:%s;fill-opacity:%.2f", css(fill), alpha*float64(fill.A)/255)
	if edge {
		style += fmt.Sprintf(";stroke:%s;stroke-width:%.1f", css(colorEdge), c.faces.Px(0.8))
	}
	c.s.Rect(px(x), px(y), max(1, px(w)), max(1, px(h)), style)
}

func (c *svgCanvas) Line(x1, y1, x2, y2 float64, col color.RGBA, width float64, dashed bool, alpha float64) {
	style := fmt.Sprintf("stroke:%s;stroke-width:%.1f;stroke-opacity:%.2f", css(col), width, alpha)
	if dashed {
		style += fmt.Sprintf(";stroke-dasharray:%d,%d", px(c.faces.Px(3)), px(c.faces.Px(2)))
	}
	c.s.Line(px(x1), px(y1), px(x2), px(y2), style)
}

func (c *svgCanvas) Text(x, y float64, s string, pt float64, col color.RGBA, align layout.Align) {
	c.s.Text(px(x), px(y), s, fmt.Sprintf(
		"fill:%s;font-size:%.1fpx;font-family:Go,Helvetica,Arial,sans-serif;text-anchor:%s;dominant-baseline:central",
		css(col), c.faces.Px(pt), textAnchor(align)))
}

func (c *svgCanvas) Circle(x, y, r float64, fill color.RGBA) {
	c.s.Circle(px(x), px(y), max(1, px(r)), fmt.Sprintf("fill:%s", css(fill)))
}

func (c *svgCanvas) Polygon(xs, ys []float64, fill color.RGBA) {
	ix := make([]int, len(xs))
	iy := make([]int, len(ys))
	for i := range xs {
		ix[i], iy[i] = px(xs[i]), px(ys[i])
	}
	c.s.Polygon(ix, iy, fmt.Sprintf("fill:%s", css(fill)))
}

func (c *svgCanvas) Clip(x, y, w, h float64) {
	c.clips++
	id := fmt.Sprintf("plot%d", c.clips)
	c.s.Def()
	c.s.ClipPath(fmt.Sprintf(`id="%s"`, id))
	c.s.Rect(px(x), px(y), px(w), px(h))
	c.s.ClipEnd()
	c.s.DefEnd()
	c.s.Group(fmt.Sprintf(`clip-path="url(#%s)"`, id))
}

func (c *svgCanvas) Unclip() { c.s.Gend() }

func textAnchor(a layout.Align) string {
	switch a {
	case layout.AlignCenter:
		return "middle"
	case layout.AlignRight:
		return "end"
	default:
		return "start"
	}
}

// --- helpers ---------------------------------------------------------------

func px(v float64) int { return int(math.Round(v)) }

func css(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
