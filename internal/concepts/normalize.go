// Package concepts normalizes tagged entity mentions against an external
// concept-resolution API (the VICC normalizers). Outcomes are explicit:
// a matched concept, a clean no-match, and a failed call are three
// distinct results, never collapsed into sentinel strings.
package concepts

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/gertd/go-pluralize"
	gocache "github.com/patrickmn/go-cache"

	"github.com/mcannon068nw/clinical-score-2/internal/tagger"
)

// DefaultBaseURL is the public concept-normalization service.
const DefaultBaseURL = "https://normalize.cancervariants.org"

// Cache TTLs: concept records are stable, so cache generously.
const (
	defaultCacheTTL     = 12 * time.Hour
	defaultCacheCleanup = 30 * time.Minute
)

// Outcome classifies a normalization attempt.
type Outcome int

const (
	// Matched means the service resolved the term to a concept.
	Matched Outcome = iota
	// NoMatch means the service answered but found no concept.
	NoMatch
	// Failed means the call errored or the response was malformed.
	Failed
)

// String returns the outcome name.
func (o Outcome) String() string {
	switch o {
	case Matched:
		return "matched"
	case NoMatch:
		return "no_match"
	default:
		return "failed"
	}
}

// Result is the outcome of normalizing one term.
type Result struct {
	Outcome   Outcome `json:"outcome"`
	MatchType int     `json:"match_type,omitempty"`
	ConceptID string  `json:"concept_id,omitempty"`
	Label     string  `json:"label,omitempty"`
}

// Normalizer resolves entity mentions to concept identifiers. Lookups are
// cached in memory; plural mentions are singularized before the call.
type Normalizer struct {
	baseURL    string
	httpClient *http.Client
	cache      *gocache.Cache
	singular   *pluralize.Client
}

// NewNormalizer creates a concept normalizer. An empty baseURL selects the
// public service.
func NewNormalizer(baseURL string, httpClient *http.Client) *Normalizer {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Normalizer{
		baseURL:    baseURL,
		httpClient: httpClient,
		cache:      gocache.New(defaultCacheTTL, defaultCacheCleanup),
		singular:   pluralize.NewClient(),
	}
}

// Normalize routes a tagged entity to the endpoint for its category.
// Unrecognized categories fail rather than guess.
func (n *Normalizer) Normalize(ctx context.Context, e tagger.Entity) Result {
	switch e.Group {
	case tagger.GroupGenetic:
		return n.NormalizeGene(ctx, e.Word)
	case tagger.GroupChemical:
		return n.NormalizeTherapy(ctx, e.Word)
	case tagger.GroupDisease:
		return n.NormalizeDisease(ctx, e.Word)
	default:
		return Result{Outcome: Failed}
	}
}

// NormalizeGene resolves a gene mention.
func (n *Normalizer) NormalizeGene(ctx context.Context, term string) Result {
	return n.normalize(ctx, "gene", term, nil)
}

// NormalizeDisease resolves a disease mention.
func (n *Normalizer) NormalizeDisease(ctx context.Context, term string) Result {
	return n.normalize(ctx, "disease", term, nil)
}

// NormalizeTherapy resolves a drug or therapy mention.
func (n *Normalizer) NormalizeTherapy(ctx context.Context, term string) Result {
	return n.normalize(ctx, "therapy", term, url.Values{"infer_namespace": {"true"}})
}

// conceptResponse covers the common shape of the three endpoints: a
// match_type plus one category-keyed concept object.
type conceptResponse struct {
	MatchType int            `json:"match_type"`
	Gene      *conceptRecord `json:"gene"`
	Disease   *conceptRecord `json:"disease"`
	Therapy   *conceptRecord `json:"therapy"`
}

type conceptRecord struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func (n *Normalizer) normalize(ctx context.Context, category, term string, extra url.Values) Result {
	term = n.singular.Singular(term)

	cacheKey := category + ":" + term
	if cached, ok := n.cache.Get(cacheKey); ok {
		return cached.(Result)
	}

	res := n.call(ctx, category, term, extra)
	// Failures are not cached; a later retry may succeed.
	if res.Outcome != Failed {
		n.cache.SetDefault(cacheKey, res)
	}
	return res
}

func (n *Normalizer) call(ctx context.Context, category, term string, extra url.Values) Result {
	params := url.Values{"q": {term}}
	for k, vs := range extra {
		for _, v := range vs {
			params.Add(k, v)
		}
	}
	endpoint := fmt.Sprintf("%s/%s/normalize?%s", n.baseURL, category, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return Result{Outcome: Failed}
	}

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return Result{Outcome: Failed}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Result{Outcome: Failed}
	}

	var parsed conceptResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return Result{Outcome: Failed}
	}

	if parsed.MatchType == 0 {
		return Result{Outcome: NoMatch}
	}

	var rec *conceptRecord
	switch category {
	case "gene":
		rec = parsed.Gene
	case "disease":
		rec = parsed.Disease
	case "therapy":
		rec = parsed.Therapy
	}
	if rec == nil || rec.ID == "" {
		// A positive match_type without a concept record is malformed.
		return Result{Outcome: Failed}
	}

	return Result{
		Outcome:   Matched,
		MatchType: parsed.MatchType,
		ConceptID: rec.ID,
		Label:     rec.Name,
	}
}
