package layout

import (
	"math"
	"strconv"
	"strings"

	"github.com/easty4690-png/ab-agri-timeline/pkg/model"
)

// RiskTier is the severity bucket of a lane's risk value.
type RiskTier string

const (
	RiskHigh   RiskTier = "High"
	RiskMedium RiskTier = "Medium"
	RiskLow    RiskTier = "Low"
	RiskOther  RiskTier = "Other"
)

var riskColors = map[RiskTier]string{
	RiskHigh:   "#ff0000",
	RiskMedium: "#e6b800",
	RiskLow:    "#008000",
	RiskOther:  "#808080",
}

// Risk is a parsed risk value.
type Risk struct {
	Tier        RiskTier `json:"tier"`
	Label       string   `json:"label"` // tier name, or the raw level text for RiskOther
	Description string   `json:"description,omitempty"`
	Color       string   `json:"color"`
}

// Text is the annotation drawn beside the lane.
func (r Risk) Text() string {
	s := "Impact Risk: " + r.Label
	if r.Description != "" {
		s += " - " + r.Description
	}
	return s
}

func tierRisk(t RiskTier) Risk {
	return Risk{Tier: t, Label: string(t), Color: riskColors[t]}
}

// ParseRisk classifies a raw risk value. Numbers use the thresholds 4 and 3;
// text is read as "<level> - <description>" with level matched by prefix.
// Blank input returns false.
func ParseRisk(raw string) (Risk, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return Risk{}, false
	}
	if v, err := strconv.ParseFloat(s, 64); err == nil && !math.IsNaN(v) {
		switch {
		case v >= 4.0:
			return tierRisk(RiskHigh), true
		case v >= 3.0:
			return tierRisk(RiskMedium), true
		default:
			return tierRisk(RiskLow), true
		}
	}

	level, desc, _ := strings.Cut(s, "-")
	level = strings.TrimSpace(level)
	desc = strings.TrimSpace(desc)

	var r Risk
	switch l := strings.ToLower(level); {
	case strings.HasPrefix(l, "high"):
		r = tierRisk(RiskHigh)
	case strings.HasPrefix(l, "med"):
		r = tierRisk(RiskMedium)
	case strings.HasPrefix(l, "low"):
		r = tierRisk(RiskLow)
	default:
		r = tierRisk(RiskOther)
		if level != "" {
			r.Label = level
		}
	}
	r.Description = desc
	return r, true
}

// LaneRisk returns the risk of a timeline lane: the first non-blank risk
// value among its events in table order. Later values are ignored.
func LaneRisk(events []model.Event, lane string) (Risk, bool) {
	for _, e := range events {
		if e.Section != model.SectionTimeline || e.RowRef != lane {
			continue
		}
		if r, ok := ParseRisk(e.RiskLevel); ok {
			return r, true
		}
	}
	return Risk{}, false
}
