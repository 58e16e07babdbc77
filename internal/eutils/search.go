package eutils

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
)

// esearchResponse is the raw JSON shape of an ESearch reply.
type esearchResponse struct {
	Result esearchResult `json:"esearchresult"`
}

type esearchResult struct {
	Count            string   `json:"count"`
	IDList           []string `json:"idlist"`
	QueryTranslation string   `json:"querytranslation"`
}

// Search returns PMIDs for a free-text PubMed query.
func (c *Client) Search(ctx context.Context, term string, opts *SearchOptions) (*SearchResult, error) {
	if term == "" {
		return nil, fmt.Errorf("search term cannot be empty")
	}

	params := url.Values{}
	params.Set("db", "pubmed")
	params.Set("term", term)
	params.Set("retmode", "json")

	limit := DefaultRetMax
	if opts != nil {
		if opts.Limit > 0 {
			limit = opts.Limit
		}
		if opts.Sort != "" {
			params.Set("sort", opts.Sort)
		}
	}
	params.Set("retmax", strconv.Itoa(limit))

	body, err := c.Get(ctx, "esearch.fcgi", params)
	if err != nil {
		return nil, fmt.Errorf("search request failed: %w", err)
	}

	var resp esearchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("parsing search response: %w", err)
	}

	count, _ := strconv.Atoi(resp.Result.Count)
	return &SearchResult{
		Count:            count,
		IDs:              resp.Result.IDList,
		QueryTranslation: resp.Result.QueryTranslation,
	}, nil
}
