package export

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/easty4690-png/ab-agri-timeline/pkg/layout"
	"github.com/easty4690-png/ab-agri-timeline/pkg/model"

	"github.com/charmbracelet/glamour"
	json "github.com/goccy/go-json"
)

// GenerateMarkdown summarises a document and its composed figure: the date
// domain, every lane with its shape counts and risk, the legend, and any
// events left off the chart.
func GenerateMarkdown(doc *model.Document, fig *layout.Figure) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "# %s\n\n", fig.Title)
	if doc != nil && doc.Path != "" {
		fmt.Fprintf(&sb, "*Source: %s (%d rows)*\n\n", filepath.Base(doc.Path), doc.Len())
	}
	fmt.Fprintf(&sb, "**Date range:** %s to %s (%d months)  \n",
		model.FormatDate(fig.Domain.Start), model.FormatDate(fig.Domain.End), layout.MonthCount(fig.Domain))
	fmt.Fprintf(&sb, "**Figure size:** %.1f x %.1f in\n\n", fig.WidthIn, fig.HeightIn)

	sb.WriteString("## Timeline\n\n")
	if len(fig.TimelineLanes) == 0 {
		sb.WriteString("No timeline lanes.\n\n")
	} else {
		sb.WriteString("| Lane | Bars | Markers | Risk |\n|---|---:|---:|---|\n")
		risks := make(map[int]layout.Risk, len(fig.RiskNotes))
		for _, n := range fig.RiskNotes {
			risks[n.Lane] = n.Risk
		}
		for i, lane := range fig.TimelineLanes {
			bars, markers := fig.TimelineShapes(i)
			risk := "-"
			if r, ok := risks[i]; ok {
				risk = r.Text()
			}
			fmt.Fprintf(&sb, "| %s | %d | %d | %s |\n", escapeCell(lane), bars, markers, escapeCell(risk))
		}
		sb.WriteString("\n")
	}

	sb.WriteString("## Heat Map\n\n")
	if len(fig.HeatLanes) == 0 {
		sb.WriteString("No heat map lanes.\n\n")
	} else {
		sb.WriteString("| Lane | Months |\n|---|---|\n")
		for i, lane := range fig.HeatLanes {
			var months []string
			for _, c := range fig.HeatCells {
				if c.Lane == i {
					months = append(months, c.Month.Format("Jan 2006"))
				}
			}
			fmt.Fprintf(&sb, "| %s | %s |\n", escapeCell(lane), escapeCell(strings.Join(months, ", ")))
		}
		sb.WriteString("\n")
	}

	if len(fig.Legend) > 0 {
		sb.WriteString("## Legend\n\n")
		for _, e := range fig.Legend {
			kind := "bar"
			if e.Marker {
				kind = string(e.Shape)
			}
			fmt.Fprintf(&sb, "- **%s**: %s `%s` (%s)\n", e.Title, kind, e.Fill, e.Symbol)
		}
		sb.WriteString("\n")
	}

	if len(fig.Skipped) > 0 {
		sb.WriteString("## Skipped Events\n\n| Row | Section | Lane | Reason |\n|---:|---|---|---|\n")
		for _, s := range fig.Skipped {
			// Spreadsheet line: header is line 1.
			fmt.Fprintf(&sb, "| %d | %s | %s | %s |\n", s.Line, s.Section, escapeCell(s.Lane), s.Reason)
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// RenderMarkdown renders markdown for the terminal.
func RenderMarkdown(md string, width int) (string, error) {
	if width <= 0 {
		width = 100
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", fmt.Errorf("markdown renderer: %w", err)
	}
	return r.Render(md)
}

// LayoutJSON returns the figure in data coordinates as indented JSON.
func LayoutJSON(fig *layout.Figure) ([]byte, error) {
	return json.MarshalIndent(fig, "", "  ")
}

func escapeCell(s string) string {
	return strings.NewReplacer("|", `\|`, "\n", " ").Replace(s)
}
