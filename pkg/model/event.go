// Package model defines the in-memory task table: one Event per spreadsheet
// row, held in a Document that is mutated only through EditRequests.
package model

import (
	"strings"
	"time"
)

// Section identifies which chart panel an event belongs to.
type Section int

const (
	SectionNone Section = iota
	SectionTimeline
	SectionHeatMap
)

func (s Section) String() string {
	switch s {
	case SectionTimeline:
		return "Timeline"
	case SectionHeatMap:
		return "Heat Map"
	default:
		return "None"
	}
}

// ClassifySection maps the free-text category column to a panel. "timeline"
// wins over "heat" when both appear.
func ClassifySection(category string) Section {
	c := strings.ToLower(category)
	switch {
	case strings.Contains(c, "timeline"):
		return SectionTimeline
	case strings.Contains(c, "heat"):
		return SectionHeatMap
	default:
		return SectionNone
	}
}

// Event is one row of the source table. Zero dates mean "missing".
type Event struct {
	Row         int // 0-based position in the table
	Line        int // worksheet line it was read from; the header is line 1
	Category    string
	Section     Section
	RowRef      string
	Title       string
	Symbol      string
	RiskLevel   string
	DateFrom    time.Time
	DateTo      time.Time
	HeatMapDate time.Time
	XOffset     float64
	YOffset     float64
}

// HasDateFrom reports whether the event can be plotted on the timeline.
func (e Event) HasDateFrom() bool { return !e.DateFrom.IsZero() }

// HasDateTo reports whether an explicit end date is present.
func (e Event) HasDateTo() bool { return !e.DateTo.IsZero() }

// HasHeatMapDate reports whether the event can be plotted on the heat map.
func (e Event) HasHeatMapDate() bool { return !e.HeatMapDate.IsZero() }

// IsTimeline reports whether the event belongs to the timeline panel.
func (e Event) IsTimeline() bool { return e.Section == SectionTimeline }

// IsHeatMap reports whether the event belongs to the heat map panel.
func (e Event) IsHeatMap() bool { return e.Section == SectionHeatMap }

// FormatDate renders a date for tables and forms; missing dates render empty.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}
