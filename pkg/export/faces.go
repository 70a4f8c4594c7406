package export

import (
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/easty4690-png/ab-agri-timeline/pkg/debug"
)

// Faces hands out text faces at point sizes for one resolution. When the
// embedded Go font cannot be parsed every size falls back to basicfont.
type Faces struct {
	dpi   float64
	font  *opentype.Font
	cache map[float64]font.Face
}

// NewFaces prepares faces for rendering at dpi.
func NewFaces(dpi float64) *Faces {
	f, err := opentype.Parse(goregular.TTF)
	if err != nil {
		debug.Log("faces: parse goregular: %v, using basicfont", err)
		f = nil
	}
	return &Faces{dpi: dpi, font: f, cache: make(map[float64]font.Face)}
}

// DPI returns the resolution the faces were built for.
func (f *Faces) DPI() float64 { return f.dpi }

// Face returns the face for a point size.
func (f *Faces) Face(pt float64) font.Face {
	if face, ok := f.cache[pt]; ok {
		return face
	}
	var face font.Face = basicfont.Face7x13
	if f.font != nil {
		nf, err := opentype.NewFace(f.font, &opentype.FaceOptions{
			Size:    pt,
			DPI:     f.dpi,
			Hinting: font.HintingFull,
		})
		if err != nil {
			debug.Log("faces: size %.1f: %v", pt, err)
		} else {
			face = nf
		}
	}
	f.cache[pt] = face
	return face
}

// Measure returns the advance width of s in pixels.
func (f *Faces) Measure(pt float64, s string) float64 {
	return fixedToFloat(font.MeasureString(f.Face(pt), s))
}

// LineHeight returns the line height of a size in pixels.
func (f *Faces) LineHeight(pt float64) float64 {
	return fixedToFloat(f.Face(pt).Metrics().Height)
}

// Px converts points to pixels.
func (f *Faces) Px(pt float64) float64 {
	return pt * f.dpi / 72
}

func fixedToFloat(v fixed.Int26_6) float64 {
	return float64(v) / 64
}
