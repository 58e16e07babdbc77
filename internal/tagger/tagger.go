// Package tagger tags genetic, chemical, and disease entities in free
// text via token-classification model endpoints speaking the Hugging Face
// inference wire format.
package tagger

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"time"
)

// Entity categories reported by the three models.
const (
	GroupGenetic  = "GENETIC"
	GroupChemical = "CHEMICAL"
	GroupDisease  = "DISEASE"

	// groupUnknown marks spans the model could not classify; they are
	// filtered out of every result.
	groupUnknown = "0"
)

// Entity is one tagged span.
type Entity struct {
	Group string  `json:"entity_group"`
	Score float64 `json:"score"`
	Word  string  `json:"word"`
	Start int     `json:"start"`
	End   int     `json:"end"`
}

// Tagger tags entities of one category in raw text.
type Tagger interface {
	Tag(ctx context.Context, text string) ([]Entity, error)
}

// ModelEndpoints names the token-classification endpoints for the three
// categories, relative to the client base URL.
type ModelEndpoints struct {
	Genetic  string
	Chemical string
	Disease  string
}

// DefaultModels are the biomedical NER models the pipeline was built
// against.
var DefaultModels = ModelEndpoints{
	Genetic:  "alvaroalon2/biobert_genetic_ner",
	Chemical: "alvaroalon2/biobert_chemical_ner",
	Disease:  "alvaroalon2/biobert_diseases_ner",
}

// Client calls token-classification endpoints over HTTP. Construct one
// with NewClient and pass it where tagging is needed; there is no
// package-level model state.
type Client struct {
	baseURL    string
	models     ModelEndpoints
	httpClient *http.Client
}

// NewClient creates a tagging client. baseURL is the inference server
// root; models defaults to DefaultModels when zero.
func NewClient(baseURL string, models ModelEndpoints, httpClient *http.Client) *Client {
	if models == (ModelEndpoints{}) {
		models = DefaultModels
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 60 * time.Second}
	}
	return &Client{baseURL: baseURL, models: models, httpClient: httpClient}
}

// TagGenes tags genetic entities.
func (c *Client) TagGenes(ctx context.Context, text string) ([]Entity, error) {
	return c.tag(ctx, c.models.Genetic, text)
}

// TagChemicals tags chemical entities.
func (c *Client) TagChemicals(ctx context.Context, text string) ([]Entity, error) {
	return c.tag(ctx, c.models.Chemical, text)
}

// TagDiseases tags disease entities.
func (c *Client) TagDiseases(ctx context.Context, text string) ([]Entity, error) {
	return c.tag(ctx, c.models.Disease, text)
}

// TagAll runs all three models and merges the results in span order.
func (c *Client) TagAll(ctx context.Context, text string) ([]Entity, error) {
	var all []Entity
	for _, tag := range []func(context.Context, string) ([]Entity, error){
		c.TagGenes, c.TagChemicals, c.TagDiseases,
	} {
		entities, err := tag(ctx, text)
		if err != nil {
			return nil, err
		}
		all = append(all, entities...)
	}
	sort.SliceStable(all, func(i, j int) bool { return all[i].Start < all[j].Start })
	return all, nil
}

// tag posts text to one model endpoint and parses the entity list,
// dropping unknown-category spans.
func (c *Client) tag(ctx context.Context, model, text string) ([]Entity, error) {
	payload, err := json.Marshal(map[string]string{"inputs": text})
	if err != nil {
		return nil, fmt.Errorf("encoding tag request: %w", err)
	}

	url := c.baseURL + "/models/" + model
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("creating tag request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tagging request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("tagger returned HTTP %d for model %s", resp.StatusCode, model)
	}

	var entities []Entity
	if err := json.NewDecoder(resp.Body).Decode(&entities); err != nil {
		return nil, fmt.Errorf("parsing tag response: %w", err)
	}
	return DropUnknowns(entities), nil
}

// DropUnknowns filters out spans the model tagged with the unknown
// category.
func DropUnknowns(entities []Entity) []Entity {
	kept := entities[:0]
	for _, e := range entities {
		if e.Group != groupUnknown {
			kept = append(kept, e)
		}
	}
	return kept
}
