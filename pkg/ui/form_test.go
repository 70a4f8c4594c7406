package ui

import (
	"errors"
	"testing"

	"github.com/easty4690-png/ab-agri-timeline/pkg/model"
	"github.com/easty4690-png/ab-agri-timeline/pkg/testutil"
)

func TestNewEditFormValues(t *testing.T) {
	doc := testutil.ScenarioDocument("plan.xlsx")
	e, _ := doc.Event(0)

	v := NewEditFormValues(e)
	if v.Title != "Planting" || v.Symbol != "Blue Bar" || v.Custom != "" {
		t.Errorf("unexpected prefill: %+v", v)
	}
	if v.DateFrom != "2024-01-10" || v.DateTo != "2024-01-20" || v.HeatMapDate != "" {
		t.Errorf("unexpected dates: %+v", v)
	}

	reqs, err := v.Requests(doc, 0)
	if err != nil || len(reqs) != 0 {
		t.Errorf("untouched form should produce no requests, got %v, %v", reqs, err)
	}
}

func TestEditFormValuesRequests(t *testing.T) {
	doc := testutil.ScenarioDocument("plan.xlsx")
	e, _ := doc.Event(1)

	v := NewEditFormValues(e)
	v.RiskLevel = "High - frost"
	v.Symbol = model.CustomSymbol
	v.Custom = " #aabbcc "

	reqs, err := v.Requests(doc, 1)
	if err != nil {
		t.Fatal(err)
	}
	want := []model.EditRequest{
		{Index: 1, Field: model.FieldRiskLevel, Value: "High - frost"},
		{Index: 1, Field: model.FieldSymbol, Value: "#aabbcc"},
	}
	if len(reqs) != len(want) {
		t.Fatalf("got %v, want %v", reqs, want)
	}
	for i := range want {
		if reqs[i] != want[i] {
			t.Errorf("request %d = %+v, want %+v", i, reqs[i], want[i])
		}
	}

	v.Custom = ""
	if _, err := v.Requests(doc, 1); !errors.Is(err, model.ErrCustomColourRequired) {
		t.Errorf("expected ErrCustomColourRequired, got %v", err)
	}
	if _, err := v.Requests(doc, 99); !errors.Is(err, model.ErrIndexOutOfRange) {
		t.Errorf("expected ErrIndexOutOfRange, got %v", err)
	}
}

func TestFormValidators(t *testing.T) {
	for _, s := range []string{"", "2024-01-31", "31/01/2024"} {
		if err := validateDate(s); err != nil {
			t.Errorf("validateDate(%q) = %v", s, err)
		}
	}
	if validateDate("soon") == nil {
		t.Error("validateDate should reject text")
	}
	for _, s := range []string{"", "#112233", "#11223344"} {
		if err := validateColour(s); err != nil {
			t.Errorf("validateColour(%q) = %v", s, err)
		}
	}
	if validateColour("blue") == nil {
		t.Error("validateColour should reject names")
	}
}
