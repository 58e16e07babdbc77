package lexicon

import (
	"strings"
	"testing"
)

// Every term must be stored lowercased, or it can never match against
// lowercased abstract text.
func TestAllTermsLowercased(t *testing.T) {
	for _, cats := range [][]Category{IndicatorCategories, InteractionCategories} {
		for _, cat := range cats {
			for _, term := range cat.Terms {
				if term != strings.ToLower(term) {
					t.Errorf("category %s: term %q is not lowercase", cat.Name, term)
				}
			}
		}
	}
}

func TestCategoryOrder(t *testing.T) {
	wantIndicator := []string{
		ClinicalStudy, CaseReport, AnimalEvidence,
		CellLine, ImagingEvidence, Retrospective,
	}
	if len(IndicatorCategories) != len(wantIndicator) {
		t.Fatalf("expected %d indicator categories, got %d", len(wantIndicator), len(IndicatorCategories))
	}
	for i, name := range wantIndicator {
		if IndicatorCategories[i].Name != name {
			t.Errorf("indicator category %d: expected %q, got %q", i, name, IndicatorCategories[i].Name)
		}
	}

	wantInteraction := []string{
		DirectInteraction, BindingInteraction, RegulationChanges,
		SensitivityResistance, Pharmacogenomic,
	}
	if len(InteractionCategories) != len(wantInteraction) {
		t.Fatalf("expected %d interaction categories, got %d", len(wantInteraction), len(InteractionCategories))
	}
	for i, name := range wantInteraction {
		if InteractionCategories[i].Name != name {
			t.Errorf("interaction category %d: expected %q, got %q", i, name, InteractionCategories[i].Name)
		}
	}
}

func TestNoEmptyTerms(t *testing.T) {
	for _, cats := range [][]Category{IndicatorCategories, InteractionCategories} {
		for _, cat := range cats {
			if len(cat.Terms) == 0 {
				t.Errorf("category %s has no terms", cat.Name)
			}
			for _, term := range cat.Terms {
				if strings.TrimSpace(term) == "" {
					t.Errorf("category %s contains a blank term", cat.Name)
				}
			}
		}
	}
}

// Categories may share terms; "inhibit" is deliberately in both the
// direct-interaction and regulation sets.
func TestInhibitSharedAcrossCategories(t *testing.T) {
	containsTerm := func(name, term string) bool {
		for _, cat := range InteractionCategories {
			if cat.Name != name {
				continue
			}
			for _, t := range cat.Terms {
				if t == term {
					return true
				}
			}
		}
		return false
	}

	if !containsTerm(DirectInteraction, "inhibit") {
		t.Error("expected inhibit in direct_interaction")
	}
	if !containsTerm(RegulationChanges, "inhibit") {
		t.Error("expected inhibit in regulation_changes")
	}
}

func TestIsChemotherapyAgent(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"cisplatin", true},
		{"Cisplatin", true},
		{"PACLITAXEL", true},
		{"imatinib", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := IsChemotherapyAgent(tt.name); got != tt.want {
			t.Errorf("IsChemotherapyAgent(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}
