// Package searchset builds the (gene, drug) reference table a scoring run
// iterates, from a DGIdb interactions export.
package searchset

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Pair is one reference-table row: a gene symbol and a drug field. The
// drug field may be a literal-encoded list of name variants.
type Pair struct {
	Gene  string
	Drug  string
	Score float64
}

// Generate reads a DGIdb interactions CSV, keeps rows for the given gene
// symbol that carry an interaction score, orders them by score descending,
// and writes the search set to
// searchDir/<date>_<gene>_clin_score.csv. Returns the output path.
func Generate(dgidbPath, searchDir, gene string, now time.Time) (string, error) {
	pairs, err := loadDGIdb(dgidbPath, gene)
	if err != nil {
		return "", err
	}
	if len(pairs) == 0 {
		return "", fmt.Errorf("no scored DGIdb interactions for gene %q", gene)
	}

	if err := os.MkdirAll(searchDir, 0o755); err != nil {
		return "", fmt.Errorf("creating search directory: %w", err)
	}

	name := fmt.Sprintf("%s_%s_clin_score.csv", now.Format("2006-01-02"), gene)
	path := filepath.Join(searchDir, name)
	if err := writePairs(path, pairs); err != nil {
		return "", err
	}
	return path, nil
}

// loadDGIdb extracts scored (gene, drug) pairs for one gene from a DGIdb
// export, highest interaction score first.
func loadDGIdb(path, gene string) ([]Pair, error) {
	rows, header, err := readCSV(path)
	if err != nil {
		return nil, err
	}

	geneCol, ok := header["gene_symbol"]
	if !ok {
		return nil, fmt.Errorf("%s has no gene_symbol column", path)
	}
	drugCol, ok := header["concept_name"]
	if !ok {
		return nil, fmt.Errorf("%s has no concept_name column", path)
	}
	scoreCol, ok := header["interaction_score"]
	if !ok {
		return nil, fmt.Errorf("%s has no interaction_score column", path)
	}

	var pairs []Pair
	for _, row := range rows {
		if row[geneCol] != gene {
			continue
		}
		score, err := strconv.ParseFloat(strings.TrimSpace(row[scoreCol]), 64)
		if err != nil {
			// Unscored interactions are excluded from search sets.
			continue
		}
		pairs = append(pairs, Pair{Gene: gene, Drug: row[drugCol], Score: score})
	}

	sort.SliceStable(pairs, func(i, j int) bool { return pairs[i].Score > pairs[j].Score })
	return pairs, nil
}

// Load reads a search-set (reference table) CSV. Gene and Drug columns
// are required; a Score column is optional.
func Load(path string) ([]Pair, error) {
	rows, header, err := readCSV(path)
	if err != nil {
		return nil, err
	}

	geneCol, ok := header["Gene"]
	if !ok {
		return nil, fmt.Errorf("%s has no Gene column", path)
	}
	drugCol, ok := header["Drug"]
	if !ok {
		return nil, fmt.Errorf("%s has no Drug column", path)
	}

	var pairs []Pair
	for _, row := range rows {
		p := Pair{Gene: row[geneCol], Drug: row[drugCol]}
		if i, ok := header["Score"]; ok {
			p.Score, _ = strconv.ParseFloat(strings.TrimSpace(row[i]), 64)
		}
		pairs = append(pairs, p)
	}
	return pairs, nil
}

func writePairs(path string, pairs []Pair) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating search set: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"Gene", "Drug", "Score"}); err != nil {
		return fmt.Errorf("writing search set header: %w", err)
	}
	for _, p := range pairs {
		row := []string{p.Gene, p.Drug, strconv.FormatFloat(p.Score, 'g', -1, 64)}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("writing search set row: %w", err)
		}
	}
	w.Flush()
	return w.Error()
}

// readCSV loads a headered CSV into rows plus a column-name index. Rows
// shorter than the header are padded so column lookups never panic.
func readCSV(path string) ([][]string, map[string]int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	all, err := r.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("reading %s: %w", path, err)
	}
	if len(all) == 0 {
		return nil, nil, fmt.Errorf("%s is empty", path)
	}

	header := make(map[string]int, len(all[0]))
	for i, name := range all[0] {
		header[strings.TrimSpace(name)] = i
	}

	rows := all[1:]
	for i, row := range rows {
		for len(row) < len(all[0]) {
			row = append(row, "")
		}
		rows[i] = row
	}
	return rows, header, nil
}
