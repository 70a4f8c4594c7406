package ui

import (
	"os"

	"github.com/easty4690-png/ab-agri-timeline/pkg/layout"
	"github.com/easty4690-png/ab-agri-timeline/pkg/model"

	"github.com/charmbracelet/colorprofile"
	"github.com/charmbracelet/lipgloss"
)

// TermProfile holds the detected terminal color profile. Computed once at
// package init so every style helper can branch without re-detecting.
var TermProfile colorprofile.Profile

func init() {
	TermProfile = colorprofile.Detect(os.Stdout, os.Environ())
}

// ThemeFg returns the given hex color for ANSI256+ terminals and a safe
// ANSI white (color 7) for 16-color or lower terminals.
func ThemeFg(hex string) lipgloss.TerminalColor {
	if TermProfile < colorprofile.ANSI256 {
		return lipgloss.ANSIColor(7)
	}
	return lipgloss.Color(hex)
}

// SwatchColor returns a chart colour for preview glyphs. Terminals without
// ANSI256 get no colour at all; the glyph shape still carries the meaning.
func SwatchColor(hex string) lipgloss.TerminalColor {
	if TermProfile < colorprofile.ANSI256 || hex == "" {
		return lipgloss.NoColor{}
	}
	return lipgloss.Color(hex)
}

type Theme struct {
	Renderer *lipgloss.Renderer

	// Colors
	Primary   lipgloss.AdaptiveColor
	Secondary lipgloss.AdaptiveColor
	Subtext   lipgloss.AdaptiveColor

	// Sections
	Timeline lipgloss.AdaptiveColor
	HeatMap  lipgloss.AdaptiveColor
	Ignored  lipgloss.AdaptiveColor

	// Risk tiers
	RiskHigh   lipgloss.AdaptiveColor
	RiskMedium lipgloss.AdaptiveColor
	RiskLow    lipgloss.AdaptiveColor

	// UI Elements
	Border    lipgloss.AdaptiveColor
	Highlight lipgloss.AdaptiveColor
	Muted     lipgloss.AdaptiveColor

	// Styles
	Base     lipgloss.Style
	Selected lipgloss.Style
	Header   lipgloss.Style

	MutedText   lipgloss.Style
	PrimaryBold lipgloss.Style
	ErrorText   lipgloss.Style
	SuccessText lipgloss.Style
}

// DefaultTheme returns the standard Dracula-inspired theme (adaptive)
func DefaultTheme(r *lipgloss.Renderer) Theme {
	t := Theme{
		Renderer: r,

		Primary:   lipgloss.AdaptiveColor{Light: "#6B47D9", Dark: "#BD93F9"},
		Secondary: lipgloss.AdaptiveColor{Light: "#555555", Dark: "#6272A4"},
		Subtext:   lipgloss.AdaptiveColor{Light: "#666666", Dark: "#BFBFBF"},

		Timeline: lipgloss.AdaptiveColor{Light: "#2684FF", Dark: "#4C9AFF"},
		HeatMap:  lipgloss.AdaptiveColor{Light: "#B06800", Dark: "#FFB86C"},
		Ignored:  lipgloss.AdaptiveColor{Light: "#888888", Dark: "#44475A"},

		RiskHigh:   lipgloss.AdaptiveColor{Light: "#CC0000", Dark: "#FF5555"},
		RiskMedium: lipgloss.AdaptiveColor{Light: "#B06800", Dark: "#FFB86C"},
		RiskLow:    lipgloss.AdaptiveColor{Light: "#007700", Dark: "#50FA7B"},

		Border:    lipgloss.AdaptiveColor{Light: "#AAAAAA", Dark: "#44475A"},
		Highlight: lipgloss.AdaptiveColor{Light: "#E0E0E0", Dark: "#44475A"},
		Muted:     lipgloss.AdaptiveColor{Light: "#555555", Dark: "#6272A4"},
	}

	t.Base = r.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#000000", Dark: "#F8F8F2"})

	t.Selected = r.NewStyle().
		Background(t.Highlight).
		Bold(true)

	t.Header = r.NewStyle().
		Background(t.Primary).
		Foreground(lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#282A36"}).
		Bold(true).
		Padding(0, 1)

	t.MutedText = r.NewStyle().Foreground(ColorMuted)
	t.PrimaryBold = r.NewStyle().Foreground(t.Primary).Bold(true)
	t.ErrorText = r.NewStyle().Foreground(ColorDanger).Bold(true)
	t.SuccessText = r.NewStyle().Foreground(ColorSuccess)

	return t
}

// SectionColor colours the section column of the event table.
func (t Theme) SectionColor(s model.Section) lipgloss.AdaptiveColor {
	switch s {
	case model.SectionTimeline:
		return t.Timeline
	case model.SectionHeatMap:
		return t.HeatMap
	default:
		return t.Ignored
	}
}

// RiskColor colours a risk annotation by tier.
func (t Theme) RiskColor(tier layout.RiskTier) lipgloss.AdaptiveColor {
	switch tier {
	case layout.RiskHigh:
		return t.RiskHigh
	case layout.RiskMedium:
		return t.RiskMedium
	case layout.RiskLow:
		return t.RiskLow
	default:
		return t.Subtext
	}
}

// TestTheme returns a theme suitable for use in tests.
func TestTheme() Theme {
	return DefaultTheme(lipgloss.NewRenderer(os.Stdout))
}
