package results

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Assessment is one aggregated row: a record plus the reference pair and
// search method it came from.
type Assessment struct {
	Record
	Gene   string
	Drug   string
	Method string
}

// LoadAssessments extracts a run archive into outDir, parses every
// per-pair CSV inside it, and concatenates the rows. The gene and drug are
// derived from the GENE_DRUG.csv file name. Files that fail to parse are
// skipped with a warning; only a run yielding zero loadable files is an
// error, summarizing the first few failures. The extracted directory is
// removed before returning.
func LoadAssessments(zipPath, method, outDir string) ([]Assessment, error) {
	extractDir, err := extractArchive(zipPath, outDir)
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(extractDir)

	paths, err := filepath.Glob(filepath.Join(extractDir, "*.csv"))
	if err != nil {
		return nil, fmt.Errorf("scanning extracted archive: %w", err)
	}
	if len(paths) == 0 {
		// Some archives extract flat into outDir with no wrapping folder.
		paths, _ = filepath.Glob(filepath.Join(outDir, "*.csv"))
	}
	sort.Strings(paths)

	var (
		assessments []Assessment
		failures    []string
	)
	for _, path := range paths {
		records, err := ReadLog(path)
		if err != nil {
			failures = append(failures, fmt.Sprintf("%s -> %v", path, err))
			continue
		}

		gene, drug := pairFromFileName(filepath.Base(path))
		for _, rec := range records {
			assessments = append(assessments, Assessment{
				Record: rec,
				Gene:   gene,
				Drug:   drug,
				Method: method,
			})
		}
	}

	if len(assessments) == 0 {
		n := len(failures)
		if n > 5 {
			failures = failures[:5]
		}
		return nil, fmt.Errorf("no result files could be loaded from %s (%d failures; examples: %s)",
			zipPath, n, strings.Join(failures, "; "))
	}

	for _, f := range failures {
		fmt.Fprintf(os.Stderr, "Warning: skipped %s\n", f)
	}
	return assessments, nil
}

// pairFromFileName splits "GENE_DRUG.csv" into its gene and drug parts.
// Files without an underscore fall back to gene-only.
func pairFromFileName(name string) (gene, drug string) {
	stem := strings.TrimSuffix(name, filepath.Ext(name))
	parts := strings.SplitN(stem, "_", 2)
	if len(parts) == 2 {
		return parts[0], parts[1]
	}
	return parts[0], ""
}
