// Package score implements the abstract-scoring core: the drug-term
// parser, the mention gate, and the two lexicon scorers.
package score

import (
	"strings"

	"github.com/mcannon068nw/clinical-score-2/internal/lexicon"
	"github.com/mcannon068nw/clinical-score-2/internal/text"
)

// Labels assigned to a scored abstract.
const (
	LabelNotEvaluated          = "not_evaluated"
	LabelIndicatorEvidence     = "indicator_evidence"
	LabelNoIndicatorEvidence   = "no_indicator_evidence"
	LabelInteractionEvidence   = "interaction_evidence"
	LabelNoInteractionEvidence = "no_interaction_evidence"
)

// Result is one immutable scoring outcome for a single abstract. When the
// mention gate fails, Evaluated is false and Counts is nil (the serialized
// form is the 0.0 sentinel, not an empty mapping).
type Result struct {
	Label     string
	Evaluated bool
	// Categories preserves reporting order; Counts maps category name to
	// the number of distinct lexicon terms present.
	Categories []string
	Counts     map[string]int
	Total      int
}

// notEvaluated is the gate short-circuit outcome.
func notEvaluated() Result {
	return Result{Label: LabelNotEvaluated}
}

// ParseDrugTerms extracts drug name variants from a drug field that may be
// a literal tuple/list string such as "('Gleevec', 'Imatinib')". Quoted
// elements are returned in order; unquoted elements in a mixed literal are
// filtered out. Any input that does not decode to at least one quoted
// string comes back unchanged as a single-element slice; parse failure is
// an expected outcome, never an error.
func ParseDrugTerms(field string) []string {
	trimmed := strings.TrimSpace(field)
	if len(trimmed) < 2 {
		return []string{field}
	}

	var inner string
	switch {
	case trimmed[0] == '(' && trimmed[len(trimmed)-1] == ')':
		inner = trimmed[1 : len(trimmed)-1]
	case trimmed[0] == '[' && trimmed[len(trimmed)-1] == ']':
		inner = trimmed[1 : len(trimmed)-1]
	default:
		return []string{field}
	}

	elems, ok := splitQuoted(inner)
	if !ok || len(elems) == 0 {
		return []string{field}
	}
	return elems
}

// splitQuoted splits a comma-separated literal body into its single- or
// double-quoted string elements. Unquoted elements (numbers and the like)
// are skipped rather than failing the parse. Returns ok=false on
// malformed quoting.
func splitQuoted(s string) ([]string, bool) {
	var elems []string
	rest := strings.TrimSpace(s)
	// Trailing comma is valid in a literal tuple: ('Gleevec',)
	rest = strings.TrimSuffix(rest, ",")
	if rest == "" {
		return nil, false
	}

	for {
		rest = strings.TrimSpace(rest)
		if rest == "" {
			return nil, false
		}
		if quote := rest[0]; quote == '\'' || quote == '"' {
			end := strings.IndexByte(rest[1:], quote)
			if end < 0 {
				return nil, false
			}
			elems = append(elems, rest[1:1+end])
			rest = strings.TrimSpace(rest[2+end:])
		} else {
			seg := rest
			comma := strings.IndexByte(rest, ',')
			if comma >= 0 {
				seg = rest[:comma]
			}
			if strings.ContainsAny(seg, `'"`) {
				return nil, false
			}
			if comma < 0 {
				return elems, true
			}
			rest = rest[comma:]
		}
		if rest == "" {
			return elems, true
		}
		if rest[0] != ',' {
			return nil, false
		}
		rest = rest[1:]
	}
}

// mentioned reports whether term occurs case-insensitively in loweredText.
// The term is matched literally, so regex metacharacters in drug names
// ("5-FU (bolus)") cannot act as search syntax.
func mentioned(term, loweredText string) bool {
	return strings.Contains(loweredText, strings.ToLower(term))
}

// IndicatorScorer counts study-design indicator terms over the raw
// lowercased abstract. Substring matching is deliberate: many indicator
// terms are multi-word phrases a tokenizer would split.
type IndicatorScorer struct{}

// NewIndicatorScorer returns a document-evidence scorer.
func NewIndicatorScorer() *IndicatorScorer {
	return &IndicatorScorer{}
}

// Score gates on co-occurrence of both drug and gene, then counts per
// category how many lexicon terms are present (each term counts at most
// once regardless of frequency).
func (s *IndicatorScorer) Score(drug, gene, abstract string) Result {
	lowered := strings.ToLower(abstract)
	if !mentioned(drug, lowered) || !mentioned(gene, lowered) {
		return notEvaluated()
	}

	res := countCategories(lexicon.IndicatorCategories, func(term string) bool {
		return strings.Contains(lowered, term)
	})
	if res.Total > 0 {
		res.Label = LabelIndicatorEvidence
	} else {
		res.Label = LabelNoIndicatorEvidence
	}
	return res
}

// InteractionScorer counts gene-drug relation lemmas over a normalized
// token set. Lemma matching absorbs inflection (inhibit/inhibits/
// inhibited) that substring counting over raw text would under-count.
//
// The gate checks the gene only; drug presence in interaction mode comes
// from pre-tagged corpus columns and is not re-derived from the text.
type InteractionScorer struct {
	normalizer *text.Normalizer
}

// NewInteractionScorer returns a relation scorer backed by the given
// normalizer.
func NewInteractionScorer(n *text.Normalizer) *InteractionScorer {
	return &InteractionScorer{normalizer: n}
}

// Score gates on the gene mention, then counts per category how many
// lexicon lemmas appear in the normalized token set.
func (s *InteractionScorer) Score(gene, abstract string) Result {
	lowered := strings.ToLower(abstract)
	if !mentioned(gene, lowered) {
		return notEvaluated()
	}

	tokens := s.normalizer.TokenSet(abstract)
	res := countCategories(lexicon.InteractionCategories, func(lemma string) bool {
		_, ok := tokens[lemma]
		return ok
	})
	if res.Total > 0 {
		res.Label = LabelInteractionEvidence
	} else {
		res.Label = LabelNoInteractionEvidence
	}
	return res
}

func countCategories(cats []lexicon.Category, present func(term string) bool) Result {
	res := Result{
		Evaluated:  true,
		Categories: make([]string, 0, len(cats)),
		Counts:     make(map[string]int, len(cats)),
	}
	for _, cat := range cats {
		n := 0
		for _, term := range cat.Terms {
			if present(term) {
				n++
			}
		}
		res.Categories = append(res.Categories, cat.Name)
		res.Counts[cat.Name] = n
		res.Total += n
	}
	return res
}
