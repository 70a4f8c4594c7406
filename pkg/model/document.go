package model

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrIndexOutOfRange      = errors.New("event index out of range")
	ErrUnknownField         = errors.New("unknown field")
	ErrBadDate              = errors.New("unparseable date")
	ErrCustomColourRequired = errors.New("choose a custom colour before selecting Custom")
)

// Field names an editable Event attribute. The string values match the
// spreadsheet headers so `--set "Date From=2024-01-10"` reads naturally.
type Field string

const (
	FieldCategory    Field = "Timline / Heat Map"
	FieldRowRef      Field = "Line Ref"
	FieldTitle       Field = "Title"
	FieldSymbol      Field = "Symbol"
	FieldRiskLevel   Field = "Risk Level"
	FieldDateFrom    Field = "Date From"
	FieldDateTo      Field = "Date To"
	FieldHeatMapDate Field = "Heat Map Dates"
	FieldXOffset     Field = "X Offset"
	FieldYOffset     Field = "Y Offset"
)

// EditableFields lists every field accepted by Document.Apply, in form order.
var EditableFields = []Field{
	FieldCategory, FieldRowRef, FieldTitle, FieldSymbol, FieldRiskLevel,
	FieldDateFrom, FieldDateTo, FieldHeatMapDate, FieldXOffset, FieldYOffset,
}

// ParseField resolves a field name case-insensitively. "Heat Map Date" and
// "Timeline / Heat Map" are accepted as aliases.
func ParseField(name string) (Field, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	switch n {
	case "heat map date":
		return FieldHeatMapDate, nil
	case "timeline / heat map", "category", "section":
		return FieldCategory, nil
	}
	for _, f := range EditableFields {
		if strings.ToLower(string(f)) == n {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownField, name)
}

// EditRequest is a single field change against one event.
type EditRequest struct {
	Index int
	Field Field
	Value string
}

// Document is the whole single-document state: the table plus where it came
// from. Rendering never mutates it; only Apply does.
type Document struct {
	Path             string
	Events           []Event
	HasOffsetColumns bool
}

// NewDocument wraps events, renumbering rows to match their position.
// Events without a worksheet line are assumed to follow the header with no
// gaps.
func NewDocument(path string, events []Event) *Document {
	d := &Document{Path: path, Events: events}
	for i := range d.Events {
		d.Events[i].Row = i
		if d.Events[i].Line == 0 {
			d.Events[i].Line = i + 2
		}
	}
	return d
}

// Len returns the number of events.
func (d *Document) Len() int {
	if d == nil {
		return 0
	}
	return len(d.Events)
}

// Event returns a copy of the i-th event.
func (d *Document) Event(i int) (Event, error) {
	if d == nil || i < 0 || i >= len(d.Events) {
		return Event{}, fmt.Errorf("%w: %d", ErrIndexOutOfRange, i)
	}
	return d.Events[i], nil
}

// IndexOfLine returns the position of the event read from the given
// worksheet line.
func (d *Document) IndexOfLine(line int) (int, error) {
	if d != nil {
		for i, e := range d.Events {
			if e.Line == line {
				return i, nil
			}
		}
	}
	return -1, fmt.Errorf("%w: no event on row %d", ErrIndexOutOfRange, line)
}

// Clone returns a deep copy suitable for rendering while edits continue.
func (d *Document) Clone() *Document {
	if d == nil {
		return nil
	}
	c := *d
	c.Events = append([]Event(nil), d.Events...)
	return &c
}

// Symbols returns the distinct non-empty symbols in table order.
func (d *Document) Symbols() []string {
	if d == nil {
		return nil
	}
	seen := make(map[string]bool)
	var out []string
	for _, e := range d.Events {
		s := strings.TrimSpace(e.Symbol)
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}

// Apply commits one edit. Offset edits never fail: unparseable input resets
// the offset to 0. Date edits reject unparseable input and leave the event
// unchanged; an empty date clears it.
func (d *Document) Apply(req EditRequest) error {
	if d == nil || req.Index < 0 || req.Index >= len(d.Events) {
		return fmt.Errorf("%w: %d", ErrIndexOutOfRange, req.Index)
	}
	e := &d.Events[req.Index]
	switch req.Field {
	case FieldCategory:
		e.Category = req.Value
		e.Section = ClassifySection(req.Value)
	case FieldRowRef:
		e.RowRef = strings.TrimSpace(req.Value)
	case FieldTitle:
		e.Title = req.Value
	case FieldSymbol:
		e.Symbol = strings.TrimSpace(req.Value)
	case FieldRiskLevel:
		e.RiskLevel = req.Value
	case FieldDateFrom, FieldDateTo, FieldHeatMapDate:
		t, ok := ParseDate(req.Value)
		if !ok && strings.TrimSpace(req.Value) != "" {
			return fmt.Errorf("%s: %w: %q", req.Field, ErrBadDate, req.Value)
		}
		switch req.Field {
		case FieldDateFrom:
			e.DateFrom = t
		case FieldDateTo:
			e.DateTo = t
		default:
			e.HeatMapDate = t
		}
	case FieldXOffset, FieldYOffset:
		v, _ := ParseOffset(req.Value)
		if req.Field == FieldXOffset {
			e.XOffset = v
		} else {
			e.YOffset = v
		}
		d.HasOffsetColumns = true
	default:
		return fmt.Errorf("%w: %q", ErrUnknownField, req.Field)
	}
	return nil
}

// ApplyAll commits edits in order. If any edit fails the document is left
// unchanged.
func (d *Document) ApplyAll(reqs []EditRequest) error {
	if len(reqs) == 0 {
		return nil
	}
	next := d.Clone()
	for _, r := range reqs {
		if err := next.Apply(r); err != nil {
			return err
		}
	}
	d.Events = next.Events
	return nil
}

// FieldValue renders the current value of a field as form text.
func (e Event) FieldValue(f Field) string {
	switch f {
	case FieldCategory:
		return e.Category
	case FieldRowRef:
		return e.RowRef
	case FieldTitle:
		return e.Title
	case FieldSymbol:
		return e.Symbol
	case FieldRiskLevel:
		return e.RiskLevel
	case FieldDateFrom:
		return FormatDate(e.DateFrom)
	case FieldDateTo:
		return FormatDate(e.DateTo)
	case FieldHeatMapDate:
		return FormatDate(e.HeatMapDate)
	case FieldXOffset:
		return FormatOffset(e.XOffset)
	case FieldYOffset:
		return FormatOffset(e.YOffset)
	}
	return ""
}

// CustomSymbol is the picker entry that switches to a literal colour.
const CustomSymbol = "Custom"

// IsHexColour reports whether s has the shape of a literal colour symbol
// (#rrggbb or #rrggbbaa). It does not validate the digits.
func IsHexColour(s string) bool {
	return strings.HasPrefix(s, "#") && (len(s) == 7 || len(s) == 9)
}

// ResolveSymbolChoice turns a picker choice plus the custom colour field into
// the symbol to store.
func ResolveSymbolChoice(choice, customColour string) (string, error) {
	choice = strings.TrimSpace(choice)
	customColour = strings.TrimSpace(customColour)
	if strings.EqualFold(choice, CustomSymbol) || IsHexColour(choice) {
		switch {
		case strings.HasPrefix(customColour, "#"):
			return customColour, nil
		case strings.HasPrefix(choice, "#"):
			return choice, nil
		default:
			return "", ErrCustomColourRequired
		}
	}
	return choice, nil
}
