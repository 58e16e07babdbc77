package runner

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"github.com/mcannon068nw/clinical-score-2/internal/eutils"
)

// LoadCorpus reads an abstract corpus from a headered CSV. The identifier
// column may be named pmid or PMID; the text column text, TEXT, or
// abstract. Rows with an empty identifier or text are skipped. When the
// corpus is entity-tagged it carries DRUG_LABELS and DRUG_IDS columns;
// tagged reports whether both were present, and the per-row values are
// filled into each Abstract.
func LoadCorpus(path string) (corpus []eutils.Abstract, tagged bool, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, false, fmt.Errorf("opening corpus: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		return nil, false, fmt.Errorf("reading corpus: %w", err)
	}
	if len(rows) == 0 {
		return nil, false, fmt.Errorf("corpus %s is empty", path)
	}

	idCol, textCol, labelCol, conceptCol := -1, -1, -1, -1
	for i, name := range rows[0] {
		switch strings.TrimSpace(name) {
		case "pmid", "PMID":
			idCol = i
		case "text", "TEXT", "abstract":
			textCol = i
		case "DRUG_LABELS":
			labelCol = i
		case "DRUG_IDS":
			conceptCol = i
		}
	}
	if idCol < 0 || textCol < 0 {
		return nil, false, fmt.Errorf("corpus %s needs pmid and text columns", path)
	}
	tagged = labelCol >= 0 && conceptCol >= 0

	for _, row := range rows[1:] {
		if idCol >= len(row) || textCol >= len(row) {
			continue
		}
		pmid := strings.TrimSpace(row[idCol])
		text := strings.TrimSpace(row[textCol])
		if pmid == "" || text == "" {
			continue
		}
		a := eutils.Abstract{PMID: pmid, Text: text}
		if labelCol >= 0 && labelCol < len(row) {
			a.TaggedDrugs = row[labelCol]
		}
		if conceptCol >= 0 && conceptCol < len(row) {
			a.Concepts = row[conceptCol]
		}
		corpus = append(corpus, a)
	}
	if len(corpus) == 0 {
		return nil, false, fmt.Errorf("corpus %s has no usable rows", path)
	}
	return corpus, tagged, nil
}
