package ui

import (
	"fmt"
	"slices"
	"strings"

	"github.com/easty4690-png/ab-agri-timeline/pkg/layout"
	"github.com/easty4690-png/ab-agri-timeline/pkg/model"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// EditFieldType defines the type of edit field
type EditFieldType int

const (
	EditFieldText EditFieldType = iota
	EditFieldSelect
)

// customColourKey is the modal-only field holding the colour for "Custom".
const customColourKey model.Field = "Custom Colour"

// noSymbol is how the empty symbol is shown in the picker.
const noSymbol = "(none)"

// EditField represents a single editable field
type EditField struct {
	Label    string
	Key      model.Field
	Type     EditFieldType
	Input    textinput.Model // for text fields
	Options  []string        // for select fields
	Selected int             // current selection index for select fields
	Original string          // original value for dirty detection
}

// EditModal provides field-by-field editing of one event
type EditModal struct {
	fields          []EditField
	focusedField    int
	width           int
	height          int
	theme           Theme
	index           int
	event           model.Event
	dirty           bool
	saveRequested   bool
	cancelRequested bool
	err             string
}

// NewEditModal creates an edit modal pre-populated from event index of doc.
func NewEditModal(doc *model.Document, index int, theme Theme) (EditModal, error) {
	e, err := doc.Event(index)
	if err != nil {
		return EditModal{}, err
	}

	choice, custom := symbolChoice(e.Symbol)
	fields := []EditField{
		makeTextField("Title", model.FieldTitle, e.Title),
		makeSelectField("Symbol", model.FieldSymbol, choice, SymbolOptions(doc)),
		makeTextField("Custom", customColourKey, custom),
		makeTextField("Risk Level", model.FieldRiskLevel, e.RiskLevel),
		makeTextField("Date From", model.FieldDateFrom, model.FormatDate(e.DateFrom)),
		makeTextField("Date To", model.FieldDateTo, model.FormatDate(e.DateTo)),
		makeTextField("Heat Map", model.FieldHeatMapDate, model.FormatDate(e.HeatMapDate)),
		makeTextField("X Offset", model.FieldXOffset, model.FormatOffset(e.XOffset)),
		makeTextField("Y Offset", model.FieldYOffset, model.FormatOffset(e.YOffset)),
	}
	fields[0].Input.Focus()

	return EditModal{
		fields: fields,
		theme:  theme,
		index:  index,
		event:  e,
	}, nil
}

// SymbolOptions lists the picker entries: no symbol, the built-in names,
// every named symbol already in the document, then Custom. Literal colours
// are reached through Custom.
func SymbolOptions(doc *model.Document) []string {
	opts := []string{noSymbol}
	opts = append(opts, layout.BuiltinSymbols()...)
	for _, s := range doc.Symbols() {
		if model.IsHexColour(s) || slices.Contains(opts, s) {
			continue
		}
		opts = append(opts, s)
	}
	return append(opts, model.CustomSymbol)
}

// symbolChoice maps a stored symbol to its picker entry and custom colour.
func symbolChoice(symbol string) (choice, custom string) {
	switch {
	case symbol == "":
		return noSymbol, ""
	case model.IsHexColour(symbol):
		return model.CustomSymbol, symbol
	default:
		return symbol, ""
	}
}

// makeTextField creates a text input field
func makeTextField(label string, key model.Field, value string) EditField {
	ti := textinput.New()
	ti.SetValue(value)
	ti.CharLimit = 200
	ti.Width = 40

	return EditField{
		Label:    label,
		Key:      key,
		Type:     EditFieldText,
		Input:    ti,
		Original: value,
	}
}

// makeSelectField creates a select field
func makeSelectField(label string, key model.Field, value string, options []string) EditField {
	selected := 0
	for i, opt := range options {
		if opt == value {
			selected = i
			break
		}
	}

	return EditField{
		Label:    label,
		Key:      key,
		Type:     EditFieldSelect,
		Options:  options,
		Selected: selected,
		Original: value,
	}
}

// Update handles input for the edit modal
func (m EditModal) Update(msg tea.Msg) (EditModal, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+s":
			m.saveRequested = true
			return m, nil

		case "esc":
			m.cancelRequested = true
			return m, nil

		case "tab", "down":
			m.fields[m.focusedField] = m.blurField(m.fields[m.focusedField])
			m.focusedField = (m.focusedField + 1) % len(m.fields)
			m.fields[m.focusedField] = m.focusField(m.fields[m.focusedField])
			return m, nil

		case "shift+tab", "up":
			m.fields[m.focusedField] = m.blurField(m.fields[m.focusedField])
			m.focusedField = (m.focusedField - 1 + len(m.fields)) % len(m.fields)
			m.fields[m.focusedField] = m.focusField(m.fields[m.focusedField])
			return m, nil

		case "left", "h":
			if m.fields[m.focusedField].Type == EditFieldSelect {
				field := &m.fields[m.focusedField]
				field.Selected = (field.Selected - 1 + len(field.Options)) % len(field.Options)
				m.updateDirtyFlag()
				return m, nil
			}

		case "right", "l":
			if m.fields[m.focusedField].Type == EditFieldSelect {
				field := &m.fields[m.focusedField]
				field.Selected = (field.Selected + 1) % len(field.Options)
				m.updateDirtyFlag()
				return m, nil
			}
		}

		field := &m.fields[m.focusedField]
		if field.Type == EditFieldText {
			field.Input, cmd = field.Input.Update(msg)
		}
		m.updateDirtyFlag()
	}

	return m, cmd
}

func (m EditModal) focusField(field EditField) EditField {
	if field.Type == EditFieldText {
		field.Input.Focus()
	}
	return field
}

func (m EditModal) blurField(field EditField) EditField {
	if field.Type == EditFieldText {
		field.Input.Blur()
	}
	return field
}

// updateDirtyFlag checks if any field differs from its original value
func (m *EditModal) updateDirtyFlag() {
	m.dirty = false
	for _, field := range m.fields {
		if m.getCurrentValue(field) != field.Original {
			m.dirty = true
			break
		}
	}
}

// getCurrentValue returns the current value of a field as a string
func (m EditModal) getCurrentValue(field EditField) string {
	switch field.Type {
	case EditFieldText:
		return field.Input.Value()
	case EditFieldSelect:
		if field.Selected >= 0 && field.Selected < len(field.Options) {
			return field.Options[field.Selected]
		}
	}
	return ""
}

// View renders the edit modal
func (m EditModal) View() string {
	r := m.theme.Renderer

	boxWidth := max(60, min(80, m.width-10))

	headerStyle := r.NewStyle().
		Bold(true).
		Foreground(m.theme.Primary)

	title := fmt.Sprintf("Edit row %d: %s", m.event.Line, m.event.RowRef)
	if t := strings.TrimSpace(m.event.Title); t != "" {
		title += " / " + truncate(t, 30)
	}

	var content strings.Builder
	content.WriteString(headerStyle.Render(title))
	content.WriteString("\n\n")

	labelStyle := r.NewStyle().
		Foreground(m.theme.Secondary).
		Width(12).
		Align(lipgloss.Right)

	focusedLabelStyle := r.NewStyle().
		Foreground(m.theme.Primary).
		Bold(true).
		Width(12).
		Align(lipgloss.Right)

	selectStyle := r.NewStyle().
		Foreground(m.theme.Primary)

	for i, field := range m.fields {
		isFocused := i == m.focusedField

		if isFocused {
			content.WriteString(focusedLabelStyle.Render(field.Label + ":"))
		} else {
			content.WriteString(labelStyle.Render(field.Label + ":"))
		}
		content.WriteString(" ")

		switch field.Type {
		case EditFieldText:
			content.WriteString(field.Input.View())
		case EditFieldSelect:
			val := field.Options[field.Selected]
			if isFocused {
				content.WriteString(selectStyle.Render(fmt.Sprintf("< %s >", val)))
			} else {
				content.WriteString(val)
			}
		}
		content.WriteString("\n")
	}

	if m.err != "" {
		content.WriteString("\n")
		content.WriteString(m.theme.ErrorText.Render(m.err))
		content.WriteString("\n")
	}

	content.WriteString("\n")
	subtextStyle := r.NewStyle().
		Foreground(m.theme.Subtext).
		Italic(true)

	instructions := "[Tab] Next field   [Ctrl+S] Save   [Esc] Cancel"
	if m.fields[m.focusedField].Type == EditFieldSelect {
		instructions = "[←/→] Change   [Tab] Next field   [Ctrl+S] Save   [Esc] Cancel"
	}
	content.WriteString(subtextStyle.Render(instructions))

	boxStyle := r.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(m.theme.Primary).
		Padding(1, 2).
		Width(boxWidth)

	box := boxStyle.Render(content.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}

// SetSize sets the modal dimensions
func (m *EditModal) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// IsSaveRequested returns true if ctrl+s was pressed
func (m EditModal) IsSaveRequested() bool {
	return m.saveRequested
}

// IsCancelRequested returns true if esc was pressed
func (m EditModal) IsCancelRequested() bool {
	return m.cancelRequested
}

// IsDirty reports whether any field differs from the event.
func (m EditModal) IsDirty() bool {
	return m.dirty
}

// Line is the worksheet row of the event being edited.
func (m EditModal) Line() int {
	return m.event.Line
}

// SetError shows err inside the modal and clears the pending save so the
// user can correct the input.
func (m *EditModal) SetError(err error) {
	m.saveRequested = false
	if err == nil {
		m.err = ""
		return
	}
	m.err = err.Error()
}

// BuildEditRequests returns one request per changed field.
func (m EditModal) BuildEditRequests() ([]model.EditRequest, error) {
	values := make(map[model.Field]string, len(m.fields))
	for _, field := range m.fields {
		values[field.Key] = m.getCurrentValue(field)
	}
	return diffRequests(m.index, m.event, values, values[model.FieldSymbol], values[customColourKey])
}

// diffRequests compares form values against e. The symbol picker choice and
// custom colour resolve to a single Symbol request, emitted only when the
// resulting symbol differs from the stored one.
func diffRequests(index int, e model.Event, values map[model.Field]string, choice, colour string) ([]model.EditRequest, error) {
	var reqs []model.EditRequest
	for _, f := range model.EditableFields {
		if f == model.FieldSymbol {
			continue
		}
		v, ok := values[f]
		if ok && v != e.FieldValue(f) {
			reqs = append(reqs, model.EditRequest{Index: index, Field: f, Value: v})
		}
	}

	origChoice, origColour := symbolChoice(e.Symbol)
	if choice == origChoice && colour == origColour {
		return reqs, nil
	}
	var symbol string
	if choice != noSymbol {
		resolved, err := model.ResolveSymbolChoice(choice, colour)
		if err != nil {
			return nil, err
		}
		symbol = resolved
	}
	if symbol != e.Symbol {
		reqs = append(reqs, model.EditRequest{Index: index, Field: model.FieldSymbol, Value: symbol})
	}
	return reqs, nil
}
