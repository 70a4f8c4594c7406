package model

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// dateLayouts are tried in order. Month-first slashed dates come before
// day-first so "03/04/2024" reads as March 4th.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"2006/01/02",
	"1/2/2006",
	"1/2/2006 15:04",
	"2/1/2006",
	"01-02-06",
	"2 Jan 2006",
	"02 Jan 2006",
	"2 January 2006",
	"Jan 2, 2006",
	"January 2, 2006",
	"Jan 2006",
	"January 2006",
	"2006-01",
}

// excelEpoch is day zero of the 1900 date system (with the Lotus leap-year bug).
var excelEpoch = time.Date(1899, 12, 30, 0, 0, 0, 0, time.UTC)

// ParseDate parses a spreadsheet date leniently. Excel serial numbers are
// accepted. The second return is false for blank or unparseable input; the
// caller decides whether that means "missing" or an error.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if serial, err := strconv.ParseFloat(s, 64); err == nil {
		return excelSerialToTime(serial)
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			// Keep the written wall clock; converting to UTC could move the day.
			return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, time.UTC), true
		}
	}
	return time.Time{}, false
}

func excelSerialToTime(serial float64) (time.Time, bool) {
	// Serials below 1 or beyond year 9999 are not dates.
	if math.IsNaN(serial) || serial < 1 || serial > 2958465 {
		return time.Time{}, false
	}
	days := math.Floor(serial)
	frac := serial - days
	t := excelEpoch.AddDate(0, 0, int(days))
	t = t.Add(time.Duration(math.Round(frac*86400)) * time.Second)
	return t, true
}

// ParseOffset parses a manual label offset. Blank input is 0 with no error;
// anything unparseable is 0 with an error the caller may log and ignore.
func ParseOffset(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("offset %q is not a number", s)
	}
	return v, nil
}

// FormatOffset renders an offset for forms; zero renders as "0".
func FormatOffset(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
