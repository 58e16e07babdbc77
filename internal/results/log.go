// Package results persists per-pair score logs, packages a run into a zip
// archive, and loads archived assessments back for aggregation.
package results

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mcannon068nw/clinical-score-2/internal/score"
)

// scoreSentinel is written in the scores column when the mention gate
// short-circuited and no category scoring happened.
const scoreSentinel = "0.0"

// Record is one serialized row of a result log.
type Record struct {
	PMID        string
	Label       string
	Scores      map[string]int // nil when not evaluated
	TaggedDrugs string         // optional pre-tagged corpus columns
	Concepts    string
}

// Log appends score records for one (gene, drug) reference pair to a CSV
// file, one flushed write per record. Partial runs stay readable: every
// record already scored is on disk if the run is interrupted.
type Log struct {
	file   *os.File
	writer *csv.Writer
	tagged bool
}

// OpenLog creates the log file for a reference pair inside dir, writing
// the header immediately. When tagged is true the optional tagged_drugs
// and concepts columns are included.
func OpenLog(dir, gene, drug string, tagged bool) (*Log, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating run directory: %w", err)
	}

	path := filepath.Join(dir, PairFileName(gene, drug))
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating result log: %w", err)
	}

	l := &Log{file: f, writer: csv.NewWriter(f), tagged: tagged}
	header := []string{"pmid", "label", "scores"}
	if tagged {
		header = append(header, "tagged_drugs", "concepts")
	}
	if err := l.writer.Write(header); err != nil {
		f.Close()
		return nil, fmt.Errorf("writing log header: %w", err)
	}
	l.writer.Flush()
	return l, l.writer.Error()
}

// PairFileName returns the deterministic file name for a (gene, drug)
// pair. Slashes in drug names would escape the run directory, so they are
// replaced.
func PairFileName(gene, drug string) string {
	name := fmt.Sprintf("%s_%s.csv", gene, drug)
	return strings.ReplaceAll(name, "/", "-")
}

// Append writes one record and flushes it to disk.
func (l *Log) Append(pmid string, res score.Result, taggedDrugs, concepts string) error {
	row := []string{pmid, res.Label, encodeScores(res)}
	if l.tagged {
		row = append(row, taggedDrugs, concepts)
	}
	if err := l.writer.Write(row); err != nil {
		return fmt.Errorf("appending result for PMID %s: %w", pmid, err)
	}
	l.writer.Flush()
	return l.writer.Error()
}

// Close flushes and closes the underlying file.
func (l *Log) Close() error {
	l.writer.Flush()
	if err := l.writer.Error(); err != nil {
		l.file.Close()
		return err
	}
	return l.file.Close()
}

// encodeScores serializes category counts as JSON, or the 0.0 sentinel for
// a gated-out result.
func encodeScores(res score.Result) string {
	if !res.Evaluated {
		return scoreSentinel
	}
	// Ordered object: categories in reporting order, then the total.
	var b strings.Builder
	b.WriteByte('{')
	for _, name := range res.Categories {
		fmt.Fprintf(&b, "%q: %d, ", name, res.Counts[name])
	}
	fmt.Fprintf(&b, "%q: %d}", "unweighted_total", res.Total)
	return b.String()
}

// decodeScores parses a scores column value. The sentinel (and anything
// unparseable) yields a nil map.
func decodeScores(s string) map[string]int {
	s = strings.TrimSpace(s)
	if s == "" || s == scoreSentinel {
		return nil
	}
	var m map[string]int
	if err := json.Unmarshal([]byte(s), &m); err != nil {
		return nil
	}
	return m
}

// ReadLog loads a result log back into records. Column order follows the
// header; the tagged columns are optional.
func ReadLog(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening result log: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading result log: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("result log %s is empty", path)
	}

	col := make(map[string]int, len(rows[0]))
	for i, name := range rows[0] {
		col[strings.TrimSpace(name)] = i
	}
	pmidCol, ok := col["pmid"]
	if !ok {
		return nil, fmt.Errorf("result log %s has no pmid column", path)
	}
	labelCol := col["label"]
	scoresCol, hasScores := col["scores"]

	var records []Record
	for _, row := range rows[1:] {
		rec := Record{PMID: field(row, pmidCol), Label: field(row, labelCol)}
		if hasScores {
			rec.Scores = decodeScores(field(row, scoresCol))
		}
		if i, ok := col["tagged_drugs"]; ok {
			rec.TaggedDrugs = field(row, i)
		}
		if i, ok := col["concepts"]; ok {
			rec.Concepts = field(row, i)
		}
		records = append(records, rec)
	}
	return records, nil
}

func field(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}
