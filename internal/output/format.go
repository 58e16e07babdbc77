// Package output formats pipeline results for the terminal: plain text by
// default, structured JSON with --json, lipgloss-styled tables with
// --human, and optional CSV export alongside either.
package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/mcannon068nw/clinical-score-2/internal/concepts"
	"github.com/mcannon068nw/clinical-score-2/internal/eutils"
	"github.com/mcannon068nw/clinical-score-2/internal/results"
	"github.com/mcannon068nw/clinical-score-2/internal/runner"
	"github.com/mcannon068nw/clinical-score-2/internal/tagger"
)

// Config controls which output mode(s) are active.
type Config struct {
	JSON    bool   // structured JSON
	Human   bool   // rich terminal output
	CSVFile string // export to this CSV path (works alongside any mode)
}

// TaggedEntity pairs a tagged span with its normalization result for
// display.
type TaggedEntity struct {
	Entity  tagger.Entity   `json:"entity"`
	Concept concepts.Result `json:"concept"`
}

// FormatPMIDs writes an identifier search result.
func FormatPMIDs(w io.Writer, result *eutils.SearchResult, cfg Config) error {
	if cfg.JSON {
		return writeJSON(w, result)
	}
	if cfg.Human {
		return formatPMIDsHuman(w, result)
	}

	fmt.Fprintf(w, "%d PMIDs found\n", len(result.IDs))
	if result.QueryTranslation != "" {
		fmt.Fprintf(w, "Query: %s\n", result.QueryTranslation)
	}
	for _, id := range result.IDs {
		fmt.Fprintln(w, id)
	}
	return nil
}

// FormatAbstracts writes fetched abstracts.
func FormatAbstracts(w io.Writer, abstracts []eutils.Abstract, cfg Config) error {
	if cfg.CSVFile != "" {
		if err := writeAbstractsCSV(cfg.CSVFile, abstracts); err != nil {
			return fmt.Errorf("CSV export failed: %w", err)
		}
	}
	if cfg.JSON {
		return writeJSON(w, abstracts)
	}
	if cfg.Human {
		return formatAbstractsHuman(w, abstracts)
	}

	for i, a := range abstracts {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "PMID: %s\n%s\n", a.PMID, a.Text)
	}
	return nil
}

// FormatRunSummary writes the outcome of a scoring run.
func FormatRunSummary(w io.Writer, summary *runner.Summary, cfg Config) error {
	if cfg.JSON {
		return writeJSON(w, map[string]any{
			"archive": summary.ArchivePath,
			"pairs":   summary.Pairs,
			"scored":  summary.Scored,
		})
	}
	if cfg.Human {
		return formatRunSummaryHuman(w, summary)
	}

	fmt.Fprintf(w, "Scored %d abstracts across %d reference pairs\n", summary.Scored, summary.Pairs)
	fmt.Fprintf(w, "Results saved to %s\n", summary.ArchivePath)
	return nil
}

// FormatAssessments writes aggregated assessments.
func FormatAssessments(w io.Writer, assessments []results.Assessment, cfg Config) error {
	if cfg.CSVFile != "" {
		if err := writeAssessmentsCSV(cfg.CSVFile, assessments); err != nil {
			return fmt.Errorf("CSV export failed: %w", err)
		}
	}
	if cfg.JSON {
		return writeJSON(w, assessmentsJSON(assessments))
	}
	if cfg.Human {
		return formatAssessmentsHuman(w, assessments)
	}

	for _, a := range assessments {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", a.PMID, a.Gene, a.Drug, a.Label)
	}
	fmt.Fprintf(w, "%d assessments\n", len(assessments))
	return nil
}

// FormatEntities writes tagged and normalized entities.
func FormatEntities(w io.Writer, entities []TaggedEntity, cfg Config) error {
	if cfg.CSVFile != "" {
		if err := writeEntitiesCSV(cfg.CSVFile, entities); err != nil {
			return fmt.Errorf("CSV export failed: %w", err)
		}
	}
	if cfg.JSON {
		return writeJSON(w, entities)
	}
	if cfg.Human {
		return formatEntitiesHuman(w, entities)
	}

	if len(entities) == 0 {
		fmt.Fprintln(w, "No entities found.")
		return nil
	}
	for _, e := range entities {
		line := fmt.Sprintf("%s\t%q\t[%d:%d]", e.Entity.Group, e.Entity.Word, e.Entity.Start, e.Entity.End)
		if e.Concept.Outcome == concepts.Matched {
			line += fmt.Sprintf("\t%s (%s)", e.Concept.ConceptID, e.Concept.Label)
		} else {
			line += "\t" + e.Concept.Outcome.String()
		}
		fmt.Fprintln(w, line)
	}
	return nil
}

// --- CSV export ---

func writeAbstractsCSV(path string, abstracts []eutils.Abstract) error {
	return withCSV(path, func(w *csv.Writer) error {
		if err := w.Write([]string{"pmid", "text"}); err != nil {
			return err
		}
		for _, a := range abstracts {
			if err := w.Write([]string{a.PMID, a.Text}); err != nil {
				return err
			}
		}
		return nil
	})
}

func writeAssessmentsCSV(path string, assessments []results.Assessment) error {
	return withCSV(path, func(w *csv.Writer) error {
		if err := w.Write([]string{"pmid", "gene", "drug", "method", "label", "total"}); err != nil {
			return err
		}
		for _, a := range assessments {
			total := ""
			if a.Scores != nil {
				total = strconv.Itoa(a.Scores["unweighted_total"])
			}
			row := []string{a.PMID, a.Gene, a.Drug, a.Method, a.Label, total}
			if err := w.Write(row); err != nil {
				return err
			}
		}
		return nil
	})
}

func writeEntitiesCSV(path string, entities []TaggedEntity) error {
	return withCSV(path, func(w *csv.Writer) error {
		header := []string{"entity_group", "word", "start", "end", "outcome", "concept_id", "concept_label"}
		if err := w.Write(header); err != nil {
			return err
		}
		for _, e := range entities {
			row := []string{
				e.Entity.Group,
				e.Entity.Word,
				strconv.Itoa(e.Entity.Start),
				strconv.Itoa(e.Entity.End),
				e.Concept.Outcome.String(),
				e.Concept.ConceptID,
				e.Concept.Label,
			}
			if err := w.Write(row); err != nil {
				return err
			}
		}
		return nil
	})
}

func withCSV(path string, fn func(*csv.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	w := csv.NewWriter(f)
	if err := fn(w); err != nil {
		f.Close()
		return err
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// assessmentsJSON flattens assessments for stable JSON field names.
func assessmentsJSON(assessments []results.Assessment) []map[string]any {
	out := make([]map[string]any, 0, len(assessments))
	for _, a := range assessments {
		entry := map[string]any{
			"pmid":   a.PMID,
			"gene":   a.Gene,
			"drug":   a.Drug,
			"method": a.Method,
			"label":  a.Label,
		}
		if a.Scores != nil {
			entry["scores"] = a.Scores
		}
		out = append(out, entry)
	}
	return out
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
