package eutils

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
)

// elinkResponse is the raw JSON shape of an ELink reply.
type elinkResponse struct {
	LinkSets []elinkLinkSet `json:"linksets"`
}

type elinkLinkSet struct {
	LinkSetDBs []elinkLinkSetDB `json:"linksetdbs"`
}

type elinkLinkSetDB struct {
	DbTo     string      `json:"dbto"`
	LinkName string      `json:"linkname"`
	Links    []elinkLink `json:"links"`
}

type elinkLink struct {
	ID string `json:"id"`
}

// GenePMIDs resolves a human gene symbol to its NCBI Gene record and
// returns the PubMed articles linked to it, capped at limit (DefaultRetMax
// when zero).
func (c *Client) GenePMIDs(ctx context.Context, symbol string, limit int) ([]string, error) {
	if symbol == "" {
		return nil, fmt.Errorf("gene symbol cannot be empty")
	}
	if limit <= 0 {
		limit = DefaultRetMax
	}

	params := url.Values{}
	params.Set("db", "gene")
	params.Set("term", fmt.Sprintf("%s[PREF] AND Homo sapiens[ORGN]", symbol))
	params.Set("retmode", "json")

	body, err := c.Get(ctx, "esearch.fcgi", params)
	if err != nil {
		return nil, fmt.Errorf("gene search failed: %w", err)
	}

	var resp esearchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("parsing gene search response: %w", err)
	}
	if len(resp.Result.IDList) == 0 {
		return nil, fmt.Errorf("no NCBI Gene record for symbol %q", symbol)
	}
	geneID := resp.Result.IDList[0]

	params = url.Values{}
	params.Set("dbfrom", "gene")
	params.Set("db", "pubmed")
	params.Set("id", geneID)
	params.Set("retmode", "json")

	body, err = c.Get(ctx, "elink.fcgi", params)
	if err != nil {
		return nil, fmt.Errorf("gene link failed: %w", err)
	}

	var link elinkResponse
	if err := json.Unmarshal(body, &link); err != nil {
		return nil, fmt.Errorf("parsing gene link response: %w", err)
	}

	var pmids []string
	for _, ls := range link.LinkSets {
		for _, db := range ls.LinkSetDBs {
			if db.DbTo != "pubmed" {
				continue
			}
			for _, l := range db.Links {
				pmids = append(pmids, l.ID)
				if len(pmids) == limit {
					return pmids, nil
				}
			}
		}
	}
	return pmids, nil
}
