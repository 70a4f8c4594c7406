package ui

import (
	"fmt"
	"os"
	"strings"

	"github.com/easty4690-png/ab-agri-timeline/pkg/model"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"
)

// isTerminal checks if stdin is connected to a terminal
func isTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// newForm creates a form with appropriate settings based on TTY detection
func newForm(groups ...*huh.Group) *huh.Form {
	form := huh.NewForm(groups...).WithTheme(huh.ThemeDracula())
	if !isTerminal() {
		form = form.WithAccessible(true)
	}
	return form
}

func validateDate(s string) error {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	if _, ok := model.ParseDate(s); !ok {
		return fmt.Errorf("not a date (try 2024-01-31)")
	}
	return nil
}

func validateColour(s string) error {
	if strings.TrimSpace(s) == "" || model.IsHexColour(strings.TrimSpace(s)) {
		return nil
	}
	return fmt.Errorf("use #rrggbb or #rrggbbaa")
}

// EditFormValues holds the form state; exported so callers can prefill or
// inspect it around RunEditForm.
type EditFormValues struct {
	Title       string
	Symbol      string
	Custom      string
	RiskLevel   string
	DateFrom    string
	DateTo      string
	HeatMapDate string
	XOffset     string
	YOffset     string
}

// NewEditFormValues prefills the form from event e.
func NewEditFormValues(e model.Event) EditFormValues {
	choice, custom := symbolChoice(e.Symbol)
	return EditFormValues{
		Title:       e.Title,
		Symbol:      choice,
		Custom:      custom,
		RiskLevel:   e.RiskLevel,
		DateFrom:    model.FormatDate(e.DateFrom),
		DateTo:      model.FormatDate(e.DateTo),
		HeatMapDate: model.FormatDate(e.HeatMapDate),
		XOffset:     model.FormatOffset(e.XOffset),
		YOffset:     model.FormatOffset(e.YOffset),
	}
}

// Requests diffs the values against event index of doc.
func (v EditFormValues) Requests(doc *model.Document, index int) ([]model.EditRequest, error) {
	e, err := doc.Event(index)
	if err != nil {
		return nil, err
	}
	values := map[model.Field]string{
		model.FieldTitle:       v.Title,
		model.FieldRiskLevel:   v.RiskLevel,
		model.FieldDateFrom:    v.DateFrom,
		model.FieldDateTo:      v.DateTo,
		model.FieldHeatMapDate: v.HeatMapDate,
		model.FieldXOffset:     v.XOffset,
		model.FieldYOffset:     v.YOffset,
	}
	return diffRequests(index, e, values, v.Symbol, strings.TrimSpace(v.Custom))
}

// RunEditForm asks for new values of event index and returns the edit
// requests for the fields that changed. The document is not modified.
func RunEditForm(doc *model.Document, index int) ([]model.EditRequest, error) {
	e, err := doc.Event(index)
	if err != nil {
		return nil, err
	}
	v := NewEditFormValues(e)

	var opts []huh.Option[string]
	for _, s := range SymbolOptions(doc) {
		opts = append(opts, huh.NewOption(s, s))
	}

	title := fmt.Sprintf("Row %d: %s %s", e.Line, e.Section, e.RowRef)
	form := newForm(
		huh.NewGroup(
			huh.NewNote().Title(title).Description(strings.TrimSpace(e.Title)),
			huh.NewInput().Title("Title").Value(&v.Title),
			huh.NewSelect[string]().Title("Symbol").Options(opts...).Value(&v.Symbol),
			huh.NewInput().
				Title("Custom colour").
				Description("Used when Symbol is Custom").
				Validate(validateColour).
				Value(&v.Custom),
			huh.NewInput().Title("Risk Level").Placeholder("High - description").Value(&v.RiskLevel),
		),
		huh.NewGroup(
			huh.NewInput().Title("Date From").Validate(validateDate).Value(&v.DateFrom),
			huh.NewInput().Title("Date To").Validate(validateDate).Value(&v.DateTo),
			huh.NewInput().Title("Heat Map Date").Validate(validateDate).Value(&v.HeatMapDate),
			huh.NewInput().Title("X Offset").Description("Days; invalid input resets to 0").Value(&v.XOffset),
			huh.NewInput().Title("Y Offset").Description("Lanes; invalid input resets to 0").Value(&v.YOffset),
		),
	)
	if err := form.Run(); err != nil {
		return nil, fmt.Errorf("edit form: %w", err)
	}
	return v.Requests(doc, index)
}
