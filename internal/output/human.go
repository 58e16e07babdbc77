package output

import (
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/mcannon068nw/clinical-score-2/internal/concepts"
	"github.com/mcannon068nw/clinical-score-2/internal/eutils"
	"github.com/mcannon068nw/clinical-score-2/internal/results"
	"github.com/mcannon068nw/clinical-score-2/internal/runner"
	"github.com/mcannon068nw/clinical-score-2/internal/score"
)

// --- Styles ---

var (
	cyan    = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	bold    = lipgloss.NewStyle().Bold(true)
	dim     = lipgloss.NewStyle().Faint(true)
	green   = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	yellow  = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	magenta = lipgloss.NewStyle().Foreground(lipgloss.Color("5"))
)

// truncate cuts a string to maxLen characters, appending "…" if truncated.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-1] + "…"
}

func newTable(headers ...string) *table.Table {
	return table.New().
		Headers(headers...).
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("8"))).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("4"))
			}
			return lipgloss.NewStyle()
		})
}

// labelStyle colors evidence labels: positive green, negative yellow,
// gated-out dim.
func labelStyle(label string) lipgloss.Style {
	switch label {
	case score.LabelIndicatorEvidence, score.LabelInteractionEvidence:
		return green
	case score.LabelNotEvaluated:
		return dim
	default:
		return yellow
	}
}

func formatPMIDsHuman(w io.Writer, result *eutils.SearchResult) error {
	if len(result.IDs) == 0 {
		fmt.Fprintln(w, "🔬 No results found.")
		return nil
	}

	fmt.Fprintln(w, bold.Render(fmt.Sprintf("🔬 %d PMIDs found", len(result.IDs))))
	if result.QueryTranslation != "" {
		fmt.Fprintf(w, "   Query: %s\n", dim.Render(result.QueryTranslation))
	}
	fmt.Fprintln(w)

	var rows [][]string
	for i, id := range result.IDs {
		rows = append(rows, []string{strconv.Itoa(i + 1), cyan.Render(id)})
	}
	fmt.Fprintln(w, newTable("#", "PMID").Rows(rows...).Render())
	return nil
}

func formatAbstractsHuman(w io.Writer, abstracts []eutils.Abstract) error {
	if len(abstracts) == 0 {
		fmt.Fprintln(w, "🔬 No abstracts found.")
		return nil
	}

	for i, a := range abstracts {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintln(w, bold.Render("PMID ")+cyan.Render(a.PMID))
		fmt.Fprintln(w, a.Text)
	}
	return nil
}

func formatRunSummaryHuman(w io.Writer, summary *runner.Summary) error {
	fmt.Fprintln(w, bold.Render("🧬 Scoring run complete"))
	fmt.Fprintf(w, "   Reference pairs: %s\n", magenta.Render(strconv.Itoa(summary.Pairs)))
	fmt.Fprintf(w, "   Abstracts scored: %s\n", magenta.Render(strconv.Itoa(summary.Scored)))
	fmt.Fprintf(w, "   Archive: %s\n", green.Render(summary.ArchivePath))
	return nil
}

func formatAssessmentsHuman(w io.Writer, assessments []results.Assessment) error {
	if len(assessments) == 0 {
		fmt.Fprintln(w, "🧬 No assessments loaded.")
		return nil
	}

	var rows [][]string
	for _, a := range assessments {
		total := ""
		if a.Scores != nil {
			total = strconv.Itoa(a.Scores["unweighted_total"])
		}
		rows = append(rows, []string{
			cyan.Render(a.PMID),
			a.Gene,
			truncate(a.Drug, 30),
			labelStyle(a.Label).Render(a.Label),
			total,
		})
	}

	fmt.Fprintln(w, bold.Render(fmt.Sprintf("🧬 %d assessments", len(assessments))))
	fmt.Fprintln(w, newTable("PMID", "Gene", "Drug", "Label", "Total").Rows(rows...).Render())
	return nil
}

func formatEntitiesHuman(w io.Writer, entities []TaggedEntity) error {
	if len(entities) == 0 {
		fmt.Fprintln(w, "🏷️  No entities found.")
		return nil
	}

	var rows [][]string
	for _, e := range entities {
		concept := dim.Render(e.Concept.Outcome.String())
		if e.Concept.Outcome == concepts.Matched {
			concept = green.Render(e.Concept.ConceptID) + " " + truncate(e.Concept.Label, 30)
		}
		rows = append(rows, []string{
			magenta.Render(e.Entity.Group),
			bold.Render(truncate(e.Entity.Word, 30)),
			fmt.Sprintf("%d:%d", e.Entity.Start, e.Entity.End),
			concept,
		})
	}

	fmt.Fprintln(w, bold.Render(fmt.Sprintf("🏷️  %d entities", len(entities))))
	fmt.Fprintln(w, newTable("Category", "Mention", "Span", "Concept").Rows(rows...).Render())
	return nil
}
