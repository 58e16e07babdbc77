package eutils

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/url"
	"os"
	"strings"
)

// FetchBatchSize is the number of PMIDs requested per EFetch call.
const FetchBatchSize = 200

// XML structures for the slice of the EFetch response we consume: PMID and
// abstract text.

type pubmedArticleSet struct {
	XMLName  xml.Name        `xml:"PubmedArticleSet"`
	Articles []pubmedArticle `xml:"PubmedArticle"`
}

type pubmedArticle struct {
	PMID          string   `xml:"MedlineCitation>PMID"`
	AbstractTexts []string `xml:"MedlineCitation>Article>Abstract>AbstractText"`
}

// FetchAbstracts retrieves abstracts for the given PMIDs in batches.
// Structured abstracts are joined into one text with single spaces;
// articles without abstract text are dropped. A batch whose request or XML
// parse fails after the client's retries is skipped with a warning and the
// remaining batches continue; no batch failure aborts the run.
func (c *Client) FetchAbstracts(ctx context.Context, pmids []string) ([]Abstract, error) {
	var abstracts []Abstract
	if len(pmids) == 0 {
		return abstracts, nil
	}

	for start := 0; start < len(pmids); start += FetchBatchSize {
		end := start + FetchBatchSize
		if end > len(pmids) {
			end = len(pmids)
		}
		batch := pmids[start:end]

		params := url.Values{}
		params.Set("db", "pubmed")
		params.Set("id", strings.Join(batch, ","))
		params.Set("retmode", "xml")

		body, err := c.Get(ctx, "efetch.fcgi", params)
		if err != nil {
			if ctx.Err() != nil {
				return abstracts, ctx.Err()
			}
			fmt.Fprintf(os.Stderr, "Warning: skipping batch %d-%d: %v\n", start, end, err)
			continue
		}

		parsed, err := parseAbstracts(body)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: XML parse error for batch %d-%d: %v\n", start, end, err)
			continue
		}
		abstracts = append(abstracts, parsed...)
	}

	return abstracts, nil
}

func parseAbstracts(data []byte) ([]Abstract, error) {
	var set pubmedArticleSet
	if err := xml.Unmarshal(data, &set); err != nil {
		return nil, fmt.Errorf("parsing PubMed XML: %w", err)
	}

	abstracts := make([]Abstract, 0, len(set.Articles))
	for _, a := range set.Articles {
		text := strings.TrimSpace(strings.Join(a.AbstractTexts, " "))
		if text == "" {
			continue
		}
		abstracts = append(abstracts, Abstract{PMID: a.PMID, Text: text})
	}
	return abstracts, nil
}
