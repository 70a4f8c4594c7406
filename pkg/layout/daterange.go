package layout

import (
	"errors"
	"math"
	"time"

	"github.com/easty4690-png/ab-agri-timeline/pkg/model"

	"gonum.org/v1/gonum/floats"
)

// ErrNoValidDates means neither panel has a plottable date. Rendering cannot
// proceed and the caller must tell the user.
var ErrNoValidDates = errors.New("no valid dates found in dataset")

// MinMarginDays is the smallest padding applied on each side of the domain.
const MinMarginDays = 5

const secondsPerDay = 86400

// DayNum converts a time to fractional days since the Unix epoch, the x unit
// of every figure coordinate.
func DayNum(t time.Time) float64 {
	return float64(t.Unix()) / secondsPerDay
}

// FromDayNum is the inverse of DayNum at second precision.
func FromDayNum(d float64) time.Time {
	return time.Unix(int64(math.Round(d*secondsPerDay)), 0).UTC()
}

// DateRange is the padded horizontal domain shared by both panels.
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Span returns the domain width in days.
func (r DateRange) Span() float64 {
	return DayNum(r.End) - DayNum(r.Start)
}

// ComputeDateRange covers every plottable date: Date From and Date To of
// timeline events that have a start, and heat map dates. The margin is the
// larger of MinMarginDays and 2% of the span in whole days.
func ComputeDateRange(events []model.Event) (DateRange, error) {
	var days []float64
	for _, e := range events {
		switch e.Section {
		case model.SectionTimeline:
			if !e.HasDateFrom() {
				continue
			}
			days = append(days, DayNum(e.DateFrom))
			if e.HasDateTo() {
				days = append(days, DayNum(e.DateTo))
			}
		case model.SectionHeatMap:
			if e.HasHeatMapDate() {
				days = append(days, DayNum(e.HeatMapDate))
			}
		}
	}
	if len(days) == 0 {
		return DateRange{}, ErrNoValidDates
	}

	lo, hi := floats.Min(days), floats.Max(days)
	start, end := FromDayNum(lo), FromDayNum(hi)
	total := math.Floor(hi - lo)
	margin := int(math.Max(MinMarginDays, math.Floor(total*0.02)))
	return DateRange{
		Start: start.AddDate(0, 0, -margin),
		End:   end.AddDate(0, 0, margin),
	}, nil
}

// MonthTicks returns the first day of every month inside the range.
func MonthTicks(r DateRange) []time.Time {
	t := time.Date(r.Start.Year(), r.Start.Month(), 1, 0, 0, 0, 0, time.UTC)
	if t.Before(r.Start) {
		t = t.AddDate(0, 1, 0)
	}
	var ticks []time.Time
	for !t.After(r.End) {
		ticks = append(ticks, t)
		t = t.AddDate(0, 1, 0)
	}
	return ticks
}

// MonthCount is the number of calendar months the range touches.
func MonthCount(r DateRange) int {
	n := (r.End.Year()-r.Start.Year())*12 + int(r.End.Month()) - int(r.Start.Month()) + 1
	if n < 1 {
		return 1
	}
	return n
}

// MonthBounds returns the calendar month containing t as [start, next start).
func MonthBounds(t time.Time) (time.Time, time.Time) {
	start := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, 0)
}
