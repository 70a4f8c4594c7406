package ui

import (
	"math"
	"strings"

	"github.com/easty4690-png/ab-agri-timeline/pkg/layout"
)

// Preview glyphs.
const (
	glyphBar     = '█'
	glyphHeat    = '▒'
	glyphDiamond = '◆'
	glyphCircle  = '●'
	glyphGrid    = '┊'
	glyphEmpty   = ' '
)

type previewCell struct {
	r     rune
	color string
}

// previewRow is one lane of cells mapped from the figure's day domain.
type previewRow struct {
	cells []previewCell
	start float64
	span  float64
}

func newPreviewRow(fig *layout.Figure, width int) *previewRow {
	row := &previewRow{
		cells: make([]previewCell, width),
		start: fig.Start,
		span:  math.Max(fig.End-fig.Start, 1),
	}
	for i := range row.cells {
		row.cells[i].r = glyphEmpty
	}
	for _, tick := range fig.MonthTicks {
		if c, ok := row.col(layout.DayNum(tick)); ok {
			row.cells[c].r = glyphGrid
		}
	}
	return row
}

func (p *previewRow) col(day float64) (int, bool) {
	c := int(math.Floor((day - p.start) / p.span * float64(len(p.cells))))
	return c, c >= 0 && c < len(p.cells)
}

// fill paints [from, from+width) days, always at least one cell.
func (p *previewRow) fill(from, width float64, r rune, color string) {
	lo, _ := p.col(from)
	hi, _ := p.col(from + width)
	hi = max(hi, lo+1)
	for c := max(lo, 0); c < min(hi, len(p.cells)); c++ {
		p.cells[c] = previewCell{r: r, color: color}
	}
}

func (p *previewRow) point(day float64, r rune, color string) {
	if c, ok := p.col(day); ok {
		p.cells[c] = previewCell{r: r, color: color}
	}
}

func (p *previewRow) render(t Theme) string {
	var sb strings.Builder
	i := 0
	for i < len(p.cells) {
		j := i
		for j < len(p.cells) && p.cells[j].color == p.cells[i].color {
			j++
		}
		var run strings.Builder
		for _, c := range p.cells[i:j] {
			run.WriteRune(c.r)
		}
		if p.cells[i].color == "" {
			sb.WriteString(t.MutedText.Render(run.String()))
		} else {
			sb.WriteString(t.Renderer.NewStyle().Foreground(SwatchColor(p.cells[i].color)).Render(run.String()))
		}
		i = j
	}
	return sb.String()
}

// RenderPreview draws the figure as text: one line per timeline lane, a
// divider, one line per heat map lane, and a month axis. Lane names fill a
// left gutter; risk tiers follow each timeline lane.
func RenderPreview(fig *layout.Figure, width int, t Theme) string {
	if fig == nil {
		return ""
	}

	gutter := 4
	for _, l := range fig.TimelineLanes {
		gutter = max(gutter, len([]rune(l)))
	}
	for _, l := range fig.HeatLanes {
		gutter = max(gutter, len([]rune(l)))
	}
	gutter = min(gutter, 14)
	const riskWidth = 8
	plotWidth := max(12, width-gutter-riskWidth-2)

	risks := make(map[int]layout.Risk, len(fig.RiskNotes))
	for _, n := range fig.RiskNotes {
		risks[n.Lane] = n.Risk
	}

	var lines []string
	lines = append(lines, t.PrimaryBold.Render(truncate(fig.Title, width)))

	for i, lane := range fig.TimelineLanes {
		row := newPreviewRow(fig, plotWidth)
		for _, b := range fig.Bars {
			if b.Lane == i {
				row.fill(b.Start, b.Width, glyphBar, b.Fill)
			}
		}
		for _, m := range fig.Markers {
			if m.Lane == i {
				g := glyphCircle
				if m.Shape == layout.ShapeDiamond {
					g = glyphDiamond
				}
				row.point(m.X, g, m.Color)
			}
		}
		line := padRight(lane, gutter) + " " + row.render(t)
		if r, ok := risks[i]; ok {
			line += " " + t.Renderer.NewStyle().Foreground(t.RiskColor(r.Tier)).Render(truncate(r.Label, riskWidth))
		}
		lines = append(lines, line)
	}

	if len(fig.HeatLanes) > 0 {
		lines = append(lines, strings.Repeat(" ", gutter+1)+RenderDivider(plotWidth))
	}
	for i, lane := range fig.HeatLanes {
		row := newPreviewRow(fig, plotWidth)
		for _, c := range fig.HeatCells {
			if c.Lane == i {
				row.fill(c.Start, c.Width, glyphHeat, c.Fill)
			}
		}
		lines = append(lines, padRight(lane, gutter)+" "+row.render(t))
	}

	lines = append(lines, strings.Repeat(" ", gutter+1)+t.MutedText.Render(monthAxis(fig, plotWidth)))
	return strings.Join(lines, "\n")
}

// monthAxis labels month ticks with abbreviated names where they fit,
// falling back to the month's initial letter.
func monthAxis(fig *layout.Figure, width int) string {
	axis := []rune(strings.Repeat(" ", width))
	row := &previewRow{cells: make([]previewCell, width), start: fig.Start, span: math.Max(fig.End-fig.Start, 1)}

	cols := make([]int, 0, len(fig.MonthTicks))
	for _, tick := range fig.MonthTicks {
		if c, ok := row.col(layout.DayNum(tick)); ok {
			cols = append(cols, c)
		}
	}
	gap := width
	for i := 1; i < len(cols); i++ {
		gap = min(gap, cols[i]-cols[i-1])
	}

	next := 0
	for k, tick := range fig.MonthTicks {
		c, ok := row.col(layout.DayNum(tick))
		if !ok || c < next {
			continue
		}
		label := tick.Format("Jan")
		if gap < 4 {
			label = label[:1]
		}
		if k == 0 || tick.Month() == 1 {
			if yr := tick.Format("Jan 06"); gap > len(yr) {
				label = yr
			}
		}
		for i, r := range label {
			if c+i < width {
				axis[c+i] = r
			}
		}
		next = c + len(label) + 1
	}
	return string(axis)
}
