package ui

import (
	"errors"
	"testing"

	"github.com/easty4690-png/ab-agri-timeline/pkg/model"
	"github.com/easty4690-png/ab-agri-timeline/pkg/testutil"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

func newScenarioModal(t *testing.T, index int) (EditModal, *model.Document) {
	t.Helper()
	doc := testutil.ScenarioDocument("plan.xlsx")
	modal, err := NewEditModal(doc, index, DefaultTheme(lipgloss.DefaultRenderer()))
	if err != nil {
		t.Fatalf("NewEditModal: %v", err)
	}
	return modal, doc
}

func setField(t *testing.T, m *EditModal, key model.Field, value string) {
	t.Helper()
	for i, f := range m.fields {
		if f.Key == key {
			m.fields[i].Input.SetValue(value)
			return
		}
	}
	t.Fatalf("no field %s", key)
}

func selectOption(t *testing.T, m *EditModal, key model.Field, option string) {
	t.Helper()
	for i, f := range m.fields {
		if f.Key != key {
			continue
		}
		for j, o := range f.Options {
			if o == option {
				m.fields[i].Selected = j
				return
			}
		}
	}
	t.Fatalf("no option %q for %s", option, key)
}

func TestNewEditModal_PopulatesFromEvent(t *testing.T) {
	modal, _ := newScenarioModal(t, 0)

	expected := map[model.Field]string{
		model.FieldTitle:       "Planting",
		model.FieldSymbol:      "Blue Bar",
		customColourKey:        "",
		model.FieldRiskLevel:   "Low - weather delays",
		model.FieldDateFrom:    "2024-01-10",
		model.FieldDateTo:      "2024-01-20",
		model.FieldHeatMapDate: "",
		model.FieldXOffset:     "0",
		model.FieldYOffset:     "0",
	}
	if len(modal.fields) != len(expected) {
		t.Fatalf("expected %d fields, got %d", len(expected), len(modal.fields))
	}
	for _, field := range modal.fields {
		want := expected[field.Key]
		if got := modal.getCurrentValue(field); got != want {
			t.Errorf("Field %s: expected %q, got %q", field.Key, want, got)
		}
		if field.Original != want {
			t.Errorf("Field %s original: expected %q, got %q", field.Key, want, field.Original)
		}
	}
}

func TestNewEditModal_OutOfRange(t *testing.T) {
	doc := testutil.ScenarioDocument("plan.xlsx")
	if _, err := NewEditModal(doc, 10, TestTheme()); !errors.Is(err, model.ErrIndexOutOfRange) {
		t.Errorf("expected ErrIndexOutOfRange, got %v", err)
	}
}

func TestNewEditModal_LiteralColourUsesCustom(t *testing.T) {
	doc := model.NewDocument("x.csv", []model.Event{{Section: model.SectionTimeline, RowRef: "A", Symbol: "#336699"}})
	modal, err := NewEditModal(doc, 0, TestTheme())
	if err != nil {
		t.Fatal(err)
	}
	if got := modal.getCurrentValue(modal.fields[1]); got != model.CustomSymbol {
		t.Errorf("symbol choice = %q, want Custom", got)
	}
	if got := modal.getCurrentValue(modal.fields[2]); got != "#336699" {
		t.Errorf("custom colour = %q", got)
	}
	reqs, err := modal.BuildEditRequests()
	if err != nil || len(reqs) != 0 {
		t.Errorf("unchanged modal should produce no requests, got %v, %v", reqs, err)
	}
}

func TestSymbolOptions(t *testing.T) {
	doc := testutil.ScenarioDocument("plan.xlsx")
	doc.Events[0].Symbol = "#123456"
	opts := SymbolOptions(doc)

	if opts[0] != noSymbol || opts[len(opts)-1] != model.CustomSymbol {
		t.Errorf("options should start with %q and end with Custom: %v", noSymbol, opts)
	}
	counts := make(map[string]int)
	for _, o := range opts {
		counts[o]++
	}
	if counts["Milestone"] != 1 {
		t.Error("builtin symbols already in the document must not repeat")
	}
	if counts["UnknownTag"] != 1 || counts["Red"] != 1 {
		t.Errorf("document symbols missing: %v", opts)
	}
	if counts["#123456"] != 0 {
		t.Error("literal colours are reached through Custom")
	}
}

func TestEditModal_TabNavigation(t *testing.T) {
	modal, _ := newScenarioModal(t, 0)

	modal, _ = modal.Update(tea.KeyMsg{Type: tea.KeyTab})
	if modal.focusedField != 1 {
		t.Errorf("After tab: expected field 1, got %d", modal.focusedField)
	}
	modal, _ = modal.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	modal, _ = modal.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	if modal.focusedField != len(modal.fields)-1 {
		t.Errorf("shift+tab should wrap to the last field, got %d", modal.focusedField)
	}
}

func TestEditModal_SelectFieldNavigation(t *testing.T) {
	modal, _ := newScenarioModal(t, 0)
	modal, _ = modal.Update(tea.KeyMsg{Type: tea.KeyTab})

	field := &modal.fields[modal.focusedField]
	if field.Key != model.FieldSymbol {
		t.Fatalf("Expected to focus symbol field, got %s", field.Key)
	}
	initial := field.Selected

	modal, _ = modal.Update(tea.KeyMsg{Type: tea.KeyRight})
	if modal.fields[1].Selected == initial {
		t.Error("Right arrow should change selection")
	}
	if !modal.IsDirty() {
		t.Error("changing the symbol should mark the modal dirty")
	}
	modal, _ = modal.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'h'}})
	if modal.fields[1].Selected != initial {
		t.Error("'h' should change selection back")
	}
	if modal.IsDirty() {
		t.Error("restoring the value should clear dirty")
	}
}

func TestEditModal_BuildEditRequests_OnlyChanged(t *testing.T) {
	modal, _ := newScenarioModal(t, 0)

	setField(t, &modal, model.FieldTitle, "Sowing")
	setField(t, &modal, model.FieldXOffset, "2.5")

	reqs, err := modal.BuildEditRequests()
	if err != nil {
		t.Fatal(err)
	}
	want := []model.EditRequest{
		{Index: 0, Field: model.FieldTitle, Value: "Sowing"},
		{Index: 0, Field: model.FieldXOffset, Value: "2.5"},
	}
	if len(reqs) != len(want) {
		t.Fatalf("Expected %d requests, got %v", len(want), reqs)
	}
	for i := range want {
		if reqs[i] != want[i] {
			t.Errorf("request %d = %+v, want %+v", i, reqs[i], want[i])
		}
	}
}

func TestEditModal_SymbolChoices(t *testing.T) {
	tests := []struct {
		name    string
		choice  string
		custom  string
		want    string
		wantErr error
	}{
		{"builtin", "Milestone", "", "Milestone", nil},
		{"custom colour", model.CustomSymbol, "#ff8800", "#ff8800", nil},
		{"custom without colour", model.CustomSymbol, "", "", model.ErrCustomColourRequired},
		{"cleared", noSymbol, "", "", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			modal, _ := newScenarioModal(t, 0)
			selectOption(t, &modal, model.FieldSymbol, tt.choice)
			setField(t, &modal, customColourKey, tt.custom)

			reqs, err := modal.BuildEditRequests()
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if len(reqs) != 1 || reqs[0].Field != model.FieldSymbol || reqs[0].Value != tt.want {
				t.Errorf("requests = %+v, want one Symbol=%q", reqs, tt.want)
			}
		})
	}
}

func TestEditModal_SaveAndCancelFlags(t *testing.T) {
	modal, _ := newScenarioModal(t, 0)

	modal, _ = modal.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	if !modal.IsSaveRequested() {
		t.Error("ctrl+s should request save")
	}
	modal.SetError(errors.New("boom"))
	if modal.IsSaveRequested() || modal.err != "boom" {
		t.Error("SetError should clear the pending save and keep the message")
	}

	modal, _ = modal.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if !modal.IsCancelRequested() {
		t.Error("esc should request cancel")
	}
}
