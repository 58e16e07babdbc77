package score

import (
	"reflect"
	"testing"

	"github.com/mcannon068nw/clinical-score-2/internal/lexicon"
	"github.com/mcannon068nw/clinical-score-2/internal/text"
)

func TestParseDrugTerms(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{name: "tuple", in: "('Gleevec', 'Imatinib')", want: []string{"Gleevec", "Imatinib"}},
		{name: "list", in: `["Gleevec", "Imatinib"]`, want: []string{"Gleevec", "Imatinib"}},
		{name: "single element tuple", in: "('Gleevec',)", want: []string{"Gleevec"}},
		{name: "mixed quotes", in: `('Gleevec', "Imatinib")`, want: []string{"Gleevec", "Imatinib"}},
		{name: "plain name", in: "Imatinib", want: []string{"Imatinib"}},
		{name: "name with parens", in: "5-FU (bolus)", want: []string{"5-FU (bolus)"}},
		{name: "unquoted elements", in: "(Gleevec, Imatinib)", want: []string{"(Gleevec, Imatinib)"}},
		{name: "mixed string and number", in: "('Gleevec', 2)", want: []string{"Gleevec"}},
		{name: "number before string", in: "(2, 'Gleevec')", want: []string{"Gleevec"}},
		{name: "numbers only", in: "(1, 2)", want: []string{"(1, 2)"}},
		{name: "unterminated quote", in: "('Gleevec)", want: []string{"('Gleevec)"}},
		{name: "empty tuple", in: "()", want: []string{"()"}},
		{name: "empty string", in: "", want: []string{""}},
		{name: "whitespace padded", in: "  ('Gleevec', 'Imatinib')  ", want: []string{"Gleevec", "Imatinib"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseDrugTerms(tt.in)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseDrugTerms(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestIndicatorScorer_GateRequiresBothMentions(t *testing.T) {
	s := NewIndicatorScorer()

	tests := []struct {
		name     string
		abstract string
	}{
		{name: "gene only", abstract: "KIT mutations were observed in a randomized trial."},
		{name: "drug only", abstract: "Imatinib was given in a randomized trial."},
		{name: "neither", abstract: "A randomized trial of unrelated therapy."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := s.Score("Imatinib", "KIT", tt.abstract)
			if res.Label != LabelNotEvaluated {
				t.Errorf("expected label %q, got %q", LabelNotEvaluated, res.Label)
			}
			if res.Evaluated {
				t.Error("expected Evaluated=false when the gate fails")
			}
			if res.Counts != nil {
				t.Errorf("expected nil counts when the gate fails, got %v", res.Counts)
			}
			if res.Total != 0 {
				t.Errorf("expected zero total when the gate fails, got %d", res.Total)
			}
		})
	}
}

func TestIndicatorScorer_GateIsCaseInsensitive(t *testing.T) {
	s := NewIndicatorScorer()

	res := s.Score("IMATINIB", "kit", "Imatinib responses in KIT-positive tumors.")
	if !res.Evaluated {
		t.Fatal("expected mixed-case mentions to pass the gate")
	}
}

func TestIndicatorScorer_CountsDistinctTermsOnce(t *testing.T) {
	s := NewIndicatorScorer()

	// "randomized" and "trial" both appear twice; each counts once.
	abstract := "Imatinib for KIT-driven disease: a randomized trial. The trial was randomized."
	res := s.Score("Imatinib", "KIT", abstract)

	if res.Label != LabelIndicatorEvidence {
		t.Fatalf("expected label %q, got %q", LabelIndicatorEvidence, res.Label)
	}
	if got := res.Counts[lexicon.ClinicalStudy]; got != 2 {
		t.Errorf("expected clinical_study count 2 (randomized, trial), got %d", got)
	}
	if res.Total != 2 {
		t.Errorf("expected total 2, got %d", res.Total)
	}
}

func TestIndicatorScorer_AllCategoriesReported(t *testing.T) {
	s := NewIndicatorScorer()

	res := s.Score("Imatinib", "KIT", "Imatinib binds KIT and was assessed.")
	if len(res.Categories) != len(lexicon.IndicatorCategories) {
		t.Fatalf("expected %d categories, got %d", len(lexicon.IndicatorCategories), len(res.Categories))
	}
	for i, cat := range lexicon.IndicatorCategories {
		if res.Categories[i] != cat.Name {
			t.Errorf("category %d: expected %q, got %q", i, cat.Name, res.Categories[i])
		}
		if _, ok := res.Counts[cat.Name]; !ok {
			t.Errorf("missing count for category %q", cat.Name)
		}
	}
}

func TestIndicatorScorer_NoEvidenceLabel(t *testing.T) {
	s := NewIndicatorScorer()

	res := s.Score("Imatinib", "KIT", "Imatinib and KIT were assessed.")
	if res.Label != LabelNoIndicatorEvidence {
		t.Errorf("expected label %q, got %q", LabelNoIndicatorEvidence, res.Label)
	}
	if !res.Evaluated {
		t.Error("expected Evaluated=true when the gate passes")
	}
	if res.Total != 0 {
		t.Errorf("expected zero total, got %d", res.Total)
	}
}

func TestIndicatorScorer_MultiWordPhrases(t *testing.T) {
	s := NewIndicatorScorer()

	abstract := "This randomized double-blind trial evaluated Drug X in patients with Gene Y mutations."
	res := s.Score("Drug X", "Gene Y", abstract)

	if res.Label != LabelIndicatorEvidence {
		t.Fatalf("expected label %q, got %q", LabelIndicatorEvidence, res.Label)
	}
	// randomized, double-blind, and trial are all present.
	if got := res.Counts[lexicon.ClinicalStudy]; got < 3 {
		t.Errorf("expected clinical_study count >= 3, got %d", got)
	}
}

func TestIndicatorScorer_Idempotent(t *testing.T) {
	s := NewIndicatorScorer()
	abstract := "Imatinib in KIT-mutant GIST: a phase ii clinical trial with mri follow-up."

	first := s.Score("Imatinib", "KIT", abstract)
	second := s.Score("Imatinib", "KIT", abstract)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("scoring is not idempotent: %+v vs %+v", first, second)
	}
}

func newTestNormalizer(t *testing.T) *text.Normalizer {
	t.Helper()
	n, err := text.NewNormalizer()
	if err != nil {
		t.Fatalf("building normalizer: %v", err)
	}
	return n
}

func TestInteractionScorer_GateChecksGeneOnly(t *testing.T) {
	s := NewInteractionScorer(newTestNormalizer(t))

	res := s.Score("EGFR", "Erlotinib inhibits growth but the gene is never named.")
	if res.Label != LabelNotEvaluated {
		t.Errorf("expected label %q without a gene mention, got %q", LabelNotEvaluated, res.Label)
	}
	if res.Evaluated {
		t.Error("expected Evaluated=false when the gene is absent")
	}
}

func TestInteractionScorer_CountsLemmas(t *testing.T) {
	s := NewInteractionScorer(newTestNormalizer(t))

	// "inhibited" and "binds" must hit through lemmatization; "inhibit"
	// belongs to both the direct-interaction and regulation sets.
	res := s.Score("EGFR", "EGFR is inhibited by erlotinib, which binds the receptor.")

	if res.Label != LabelInteractionEvidence {
		t.Fatalf("expected label %q, got %q", LabelInteractionEvidence, res.Label)
	}
	if got := res.Counts[lexicon.DirectInteraction]; got != 1 {
		t.Errorf("expected direct_interaction count 1, got %d", got)
	}
	if got := res.Counts[lexicon.BindingInteraction]; got != 2 {
		t.Errorf("expected binding_interaction count 2 (bind, receptor), got %d", got)
	}
	if got := res.Counts[lexicon.RegulationChanges]; got != 1 {
		t.Errorf("expected regulation_changes count 1 (inhibit), got %d", got)
	}
	if res.Total != 4 {
		t.Errorf("expected total 4, got %d", res.Total)
	}
}

func TestInteractionScorer_HitsEveryCategory(t *testing.T) {
	s := NewInteractionScorer(newTestNormalizer(t))

	res := s.Score("KIT", "The compound inhibited KIT binding and induced resistance in treated cells.")

	if res.Label != LabelInteractionEvidence {
		t.Fatalf("expected label %q, got %q", LabelInteractionEvidence, res.Label)
	}
	for _, cat := range []string{
		lexicon.DirectInteraction,
		lexicon.BindingInteraction,
		lexicon.RegulationChanges,
		lexicon.SensitivityResistance,
	} {
		if res.Counts[cat] < 1 {
			t.Errorf("expected %s count >= 1, got %d", cat, res.Counts[cat])
		}
	}
}

func TestInteractionScorer_NoEvidenceLabel(t *testing.T) {
	s := NewInteractionScorer(newTestNormalizer(t))

	res := s.Score("KRAS", "KRAS status was recorded for every enrolled subject.")
	if res.Label != LabelNoInteractionEvidence {
		t.Errorf("expected label %q, got %q", LabelNoInteractionEvidence, res.Label)
	}
	if !res.Evaluated {
		t.Error("expected Evaluated=true when the gate passes")
	}
	if res.Total != 0 {
		t.Errorf("expected zero total, got %d", res.Total)
	}
}

func TestInteractionScorer_FrequencyDiscarded(t *testing.T) {
	s := NewInteractionScorer(newTestNormalizer(t))

	once := s.Score("EGFR", "EGFR binds the drug.")
	thrice := s.Score("EGFR", "EGFR binds, binds, and binds the drug.")
	if once.Counts[lexicon.BindingInteraction] != thrice.Counts[lexicon.BindingInteraction] {
		t.Errorf("repeated mentions changed the count: %d vs %d",
			once.Counts[lexicon.BindingInteraction], thrice.Counts[lexicon.BindingInteraction])
	}
}

// Labels carry evidence iff some term was counted.
func TestLabelsMatchTotals(t *testing.T) {
	ind := NewIndicatorScorer()
	inter := NewInteractionScorer(newTestNormalizer(t))

	abstracts := []string{
		"Imatinib and KIT in a randomized controlled trial.",
		"Imatinib and KIT were assessed.",
		"KIT inhibition by imatinib.",
		"KIT was sequenced.",
	}

	for _, abstract := range abstracts {
		if res := ind.Score("Imatinib", "KIT", abstract); res.Evaluated {
			hasEvidence := res.Label == LabelIndicatorEvidence
			if hasEvidence != (res.Total > 0) {
				t.Errorf("indicator label %q disagrees with total %d for %q", res.Label, res.Total, abstract)
			}
		}
		if res := inter.Score("KIT", abstract); res.Evaluated {
			hasEvidence := res.Label == LabelInteractionEvidence
			if hasEvidence != (res.Total > 0) {
				t.Errorf("interaction label %q disagrees with total %d for %q", res.Label, res.Total, abstract)
			}
		}
	}
}
