package ui

import (
	"testing"

	"github.com/easty4690-png/ab-agri-timeline/pkg/layout"
	"github.com/easty4690-png/ab-agri-timeline/pkg/model"

	"github.com/charmbracelet/colorprofile"
	"github.com/charmbracelet/lipgloss"
)

func TestDefaultTheme(t *testing.T) {
	renderer := lipgloss.NewRenderer(nil)
	theme := DefaultTheme(renderer)

	if theme.Renderer != renderer {
		t.Error("DefaultTheme renderer mismatch")
	}
	for name, c := range map[string]lipgloss.AdaptiveColor{
		"Primary":  theme.Primary,
		"Timeline": theme.Timeline,
		"HeatMap":  theme.HeatMap,
		"RiskHigh": theme.RiskHigh,
	} {
		if isColorEmpty(c) {
			t.Errorf("DefaultTheme %s color is empty", name)
		}
	}
}

func isColorEmpty(c lipgloss.AdaptiveColor) bool {
	return c.Light == "" && c.Dark == ""
}

func TestSectionColor(t *testing.T) {
	theme := DefaultTheme(lipgloss.NewRenderer(nil))

	tests := []struct {
		section model.Section
		want    lipgloss.AdaptiveColor
	}{
		{model.SectionTimeline, theme.Timeline},
		{model.SectionHeatMap, theme.HeatMap},
		{model.SectionNone, theme.Ignored},
	}
	for _, tt := range tests {
		if got := theme.SectionColor(tt.section); got != tt.want {
			t.Errorf("SectionColor(%v) = %v, want %v", tt.section, got, tt.want)
		}
	}
}

func TestRiskColor(t *testing.T) {
	theme := DefaultTheme(lipgloss.NewRenderer(nil))

	tests := []struct {
		tier layout.RiskTier
		want lipgloss.AdaptiveColor
	}{
		{layout.RiskHigh, theme.RiskHigh},
		{layout.RiskMedium, theme.RiskMedium},
		{layout.RiskLow, theme.RiskLow},
		{layout.RiskOther, theme.Subtext},
	}
	for _, tt := range tests {
		if got := theme.RiskColor(tt.tier); got != tt.want {
			t.Errorf("RiskColor(%v) = %v, want %v", tt.tier, got, tt.want)
		}
	}
}

func TestSwatchColorFollowsProfile(t *testing.T) {
	saved := TermProfile
	defer func() { TermProfile = saved }()

	TermProfile = colorprofile.ANSI
	if _, ok := SwatchColor("#1f77b4").(lipgloss.NoColor); !ok {
		t.Error("16-colour terminals should get no swatch colour")
	}
	if _, ok := ThemeFg("#1f77b4").(lipgloss.ANSIColor); !ok {
		t.Error("ThemeFg should fall back to ANSI white")
	}

	TermProfile = colorprofile.TrueColor
	if got := SwatchColor("#1f77b4"); got != lipgloss.Color("#1f77b4") {
		t.Errorf("SwatchColor = %v", got)
	}
	if _, ok := SwatchColor("").(lipgloss.NoColor); !ok {
		t.Error("empty hex should give no colour")
	}
}
