// Package runner drives a scoring run: for every (gene, drug) reference
// pair it scores each abstract in the corpus slice and appends the result
// to that pair's log, then packages the run directory into an archive.
package runner

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/mcannon068nw/clinical-score-2/internal/eutils"
	"github.com/mcannon068nw/clinical-score-2/internal/results"
	"github.com/mcannon068nw/clinical-score-2/internal/score"
	"github.com/mcannon068nw/clinical-score-2/internal/searchset"
	"github.com/mcannon068nw/clinical-score-2/internal/text"
)

// Mode selects which scorer a run applies.
type Mode string

const (
	// ModeClinical scores document-evidence indicators.
	ModeClinical Mode = "clinical"
	// ModeInteraction scores gene-drug relation lemmas.
	ModeInteraction Mode = "interaction"
)

// ParseMode validates a mode flag value.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeClinical, ModeInteraction:
		return Mode(s), nil
	default:
		return "", fmt.Errorf("unknown mode %q (want clinical or interaction)", s)
	}
}

// Config describes one scoring run.
type Config struct {
	Mode  Mode
	Pairs []searchset.Pair
	// Corpus is scored over [Start:Stop); Stop <= 0 means the end.
	Corpus []eutils.Abstract
	Start  int
	Stop   int
	// Tagged includes the optional tagged_drugs/concepts columns in every
	// log, filled from each abstract's pre-tagged corpus values.
	Tagged bool
	// OutDir is the parent of the run directory. Defaults to ".".
	OutDir string
	// Now stamps the run directory. Defaults to time.Now.
	Now time.Time
	// Progress receives per-pair progress lines. Defaults to stderr.
	Progress io.Writer
}

// Summary reports what a completed run produced.
type Summary struct {
	ArchivePath string
	Pairs       int
	Scored      int
}

// Run executes a scoring run and returns the archive path. The run
// directory only exists while the run is in flight; the archive is the
// unit of delivery.
func Run(ctx context.Context, cfg Config, normalizer *text.Normalizer) (*Summary, error) {
	if len(cfg.Pairs) == 0 {
		return nil, fmt.Errorf("reference table is empty")
	}
	if cfg.Mode == ModeInteraction && normalizer == nil {
		return nil, fmt.Errorf("interaction mode requires a text normalizer")
	}

	now := cfg.Now
	if now.IsZero() {
		now = time.Now()
	}
	progress := cfg.Progress
	if progress == nil {
		progress = os.Stderr
	}
	outDir := cfg.OutDir
	if outDir == "" {
		outDir = "."
	}

	corpus := sliceCorpus(cfg.Corpus, cfg.Start, cfg.Stop)

	// The run directory is stamped with the first pair's gene; a reference
	// table covers one gene.
	runPath := filepath.Join(outDir, results.RunDirName(cfg.Pairs[0].Gene, now))

	var (
		indicator   = score.NewIndicatorScorer()
		interaction *score.InteractionScorer
		scored      int
	)
	if cfg.Mode == ModeInteraction {
		interaction = score.NewInteractionScorer(normalizer)
	}

	for _, pair := range cfg.Pairs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		drugs := score.ParseDrugTerms(pair.Drug)
		drug := drugs[0]

		fmt.Fprintf(progress, "Scoring %s / %s (%d abstracts)\n", pair.Gene, drug, len(corpus))

		log, err := results.OpenLog(runPath, pair.Gene, drug, cfg.Tagged)
		if err != nil {
			return nil, err
		}

		for _, abstract := range corpus {
			if err := ctx.Err(); err != nil {
				log.Close()
				return nil, err
			}

			var res score.Result
			switch cfg.Mode {
			case ModeClinical:
				res = indicator.Score(drug, pair.Gene, abstract.Text)
			case ModeInteraction:
				res = interaction.Score(pair.Gene, abstract.Text)
			}

			if err := log.Append(abstract.PMID, res, abstract.TaggedDrugs, abstract.Concepts); err != nil {
				log.Close()
				return nil, err
			}
			scored++
		}

		if err := log.Close(); err != nil {
			return nil, fmt.Errorf("closing log for %s/%s: %w", pair.Gene, drug, err)
		}
	}

	archive, err := results.Archive(runPath)
	if err != nil {
		return nil, err
	}

	return &Summary{ArchivePath: archive, Pairs: len(cfg.Pairs), Scored: scored}, nil
}

// sliceCorpus applies the start/stop window, clamped to valid bounds.
func sliceCorpus(corpus []eutils.Abstract, start, stop int) []eutils.Abstract {
	if start < 0 {
		start = 0
	}
	if stop <= 0 || stop > len(corpus) {
		stop = len(corpus)
	}
	if start >= stop {
		return nil
	}
	return corpus[start:stop]
}
