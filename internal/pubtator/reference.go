// Package pubtator looks PMIDs up in precomputed PubTator3 reference sets
// instead of live E-utilities calls. The sets are tab-separated files with
// five columns: PMID, entity type, concept identifier, mention text, and
// source.
package pubtator

import (
	"bufio"
	"fmt"
	"os"
	"sort"
	"strings"
)

// mention is one reference-set row we keep during a scan.
type mention struct {
	pmid string
	text string
}

// PMIDsByGene returns the PMIDs whose gene mention text contains the given
// symbol. Matching is substring, case-sensitive, mirroring the gene set's
// canonical symbols.
func PMIDsByGene(path, gene string) ([]string, error) {
	if gene == "" {
		return nil, fmt.Errorf("gene symbol cannot be empty")
	}

	var pmids []string
	err := scanSet(path, func(pmid, mentionText string) {
		if strings.Contains(mentionText, gene) {
			pmids = append(pmids, pmid)
		}
	})
	if err != nil {
		return nil, err
	}
	return pmids, nil
}

// PMIDsByGeneAndDrugs joins the gene reference set against the chemical
// reference set: for each drug name variant, the PMIDs mentioning both the
// gene and that drug, newest (highest PMID) first, deduplicated. Chemical
// mentions are compared lowercased.
func PMIDsByGeneAndDrugs(genePath, chemPath, gene string, drugs []string) (map[string][]string, error) {
	genePMIDs := make(map[string]bool)
	err := scanSet(genePath, func(pmid, mentionText string) {
		if strings.Contains(mentionText, gene) {
			genePMIDs[pmid] = true
		}
	})
	if err != nil {
		return nil, fmt.Errorf("gene reference set: %w", err)
	}

	// One pass over the (large) chemical set serves every drug variant.
	loweredDrugs := make([]string, len(drugs))
	for i, d := range drugs {
		loweredDrugs[i] = strings.ToLower(d)
	}
	hits := make(map[string]map[string]bool, len(drugs))

	err = scanSet(chemPath, func(pmid, mentionText string) {
		if !genePMIDs[pmid] {
			return
		}
		lowered := strings.ToLower(mentionText)
		for i, drug := range loweredDrugs {
			if strings.Contains(lowered, drug) {
				set := hits[drugs[i]]
				if set == nil {
					set = make(map[string]bool)
					hits[drugs[i]] = set
				}
				set[pmid] = true
			}
		}
	})
	if err != nil {
		return nil, fmt.Errorf("chemical reference set: %w", err)
	}

	result := make(map[string][]string, len(drugs))
	for _, drug := range drugs {
		var pmids []string
		for pmid := range hits[drug] {
			pmids = append(pmids, pmid)
		}
		// Numeric descending: newer articles first.
		sort.Slice(pmids, func(i, j int) bool { return pmidGreater(pmids[i], pmids[j]) })
		result[drug] = pmids
	}
	return result, nil
}

// pmidGreater compares two PMIDs as decimal numbers of arbitrary length.
func pmidGreater(a, b string) bool {
	if len(a) != len(b) {
		return len(a) > len(b)
	}
	return a > b
}

// scanSet streams a reference-set file line by line, invoking fn with the
// PMID and mention text of each well-formed row. Short rows are ignored.
func scanSet(path string, fn func(pmid, mentionText string)) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening reference set: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	// Mention rows can be long; default token size is too small.
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		cols := strings.Split(scanner.Text(), "\t")
		if len(cols) < 4 {
			continue
		}
		fn(cols[0], cols[3])
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("scanning reference set: %w", err)
	}
	return nil
}
