// Package testutil provides task-table fixtures for tests.
// All generators produce deterministic output for reproducible tests.
package testutil

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/easty4690-png/ab-agri-timeline/pkg/model"
)

// GeneratorConfig controls event generation.
type GeneratorConfig struct {
	Seed          int64     // Random seed for determinism (0 = use current time)
	BaseTime      time.Time // First possible start date
	TimelineLanes int
	EventsPerLane int
	HeatLanes     int
	HeatMonths    int      // heat map entries per heat lane
	Symbols       []string // symbol mix for timeline events
	WithRisk      bool     // give every timeline lane a risk value on its first event
}

// DefaultConfig returns a config suitable for most tests.
func DefaultConfig() GeneratorConfig {
	return GeneratorConfig{
		Seed:          42,
		BaseTime:      time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		TimelineLanes: 4,
		EventsPerLane: 3,
		HeatLanes:     2,
		HeatMonths:    3,
		Symbols:       []string{"Blue Bar", "Grey Bar", "Milestone", "Red Spot", "#2ca02c"},
		WithRisk:      true,
	}
}

// Generator creates event tables.
type Generator struct {
	cfg GeneratorConfig
	rng *rand.Rand
}

// New creates a Generator with the given config.
func New(cfg GeneratorConfig) *Generator {
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	if cfg.BaseTime.IsZero() {
		cfg.BaseTime = DefaultConfig().BaseTime
	}
	if len(cfg.Symbols) == 0 {
		cfg.Symbols = []string{"Blue Bar"}
	}
	return &Generator{
		cfg: cfg,
		rng: rand.New(rand.NewSource(seed)),
	}
}

// NewDefault creates a Generator with default config.
func NewDefault() *Generator {
	return New(DefaultConfig())
}

var riskValues = []string{"4.5", "3", "1", "High - frost", "Medium - supply", "Low - weather delays"}

// Events generates timeline lanes followed by heat map lanes, in table order.
func (g *Generator) Events() []model.Event {
	var events []model.Event
	for lane := 0; lane < g.cfg.TimelineLanes; lane++ {
		ref := fmt.Sprintf("L%d", lane+1)
		for i := 0; i < g.cfg.EventsPerLane; i++ {
			sym := g.cfg.Symbols[g.rng.Intn(len(g.cfg.Symbols))]
			from := g.cfg.BaseTime.AddDate(0, 0, g.rng.Intn(180))
			e := model.Event{
				Category: "Timeline",
				Section:  model.SectionTimeline,
				RowRef:   ref,
				Title:    fmt.Sprintf("Task %s.%d", ref, i+1),
				Symbol:   sym,
				DateFrom: from,
			}
			if sym != "Milestone" && sym != "Red Spot" {
				e.DateTo = from.AddDate(0, 0, 1+g.rng.Intn(60))
			}
			if g.cfg.WithRisk && i == 0 {
				e.RiskLevel = riskValues[g.rng.Intn(len(riskValues))]
			}
			events = append(events, e)
		}
	}
	for lane := 0; lane < g.cfg.HeatLanes; lane++ {
		ref := fmt.Sprintf("H%d", lane+1)
		for m := 0; m < g.cfg.HeatMonths; m++ {
			events = append(events, model.Event{
				Category:    "Heat Map",
				Section:     model.SectionHeatMap,
				RowRef:      ref,
				HeatMapDate: g.cfg.BaseTime.AddDate(0, g.rng.Intn(6), 14),
			})
		}
	}
	for i := range events {
		events[i].Row = i
		events[i].Line = i + 2
	}
	return events
}

// Document wraps Events in a document.
func (g *Generator) Document(path string) *model.Document {
	return model.NewDocument(path, g.Events())
}

// Date is a UTC midnight date.
func Date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ScenarioEvents is the reference table: lane A mixes a styled bar, a
// milestone and an unknown tag; heat lane B has one mid-March entry.
func ScenarioEvents() []model.Event {
	events := []model.Event{
		{Category: "Timeline", Section: model.SectionTimeline, RowRef: "A", Title: "Planting", Symbol: "Blue Bar",
			RiskLevel: "Low - weather delays", DateFrom: Date(2024, 1, 10), DateTo: Date(2024, 1, 20)},
		{Category: "Timeline", Section: model.SectionTimeline, RowRef: "A", Title: "Go live", Symbol: "Milestone",
			DateFrom: Date(2024, 2, 1)},
		{Category: "Timeline", Section: model.SectionTimeline, RowRef: "A", Title: "Survey", Symbol: "UnknownTag",
			DateFrom: Date(2024, 1, 15), DateTo: Date(2024, 1, 25)},
		{Category: "Heat Map", Section: model.SectionHeatMap, RowRef: "B", Symbol: "Red",
			HeatMapDate: Date(2024, 3, 15)},
	}
	for i := range events {
		events[i].Row = i
		events[i].Line = i + 2
	}
	return events
}

// ScenarioDocument wraps ScenarioEvents.
func ScenarioDocument(path string) *model.Document {
	return model.NewDocument(path, ScenarioEvents())
}
