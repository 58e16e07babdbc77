package results

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/mcannon068nw/clinical-score-2/internal/score"
)

func evaluatedResult() score.Result {
	return score.Result{
		Label:      score.LabelIndicatorEvidence,
		Evaluated:  true,
		Categories: []string{"clinical_study", "case_report"},
		Counts:     map[string]int{"clinical_study": 2, "case_report": 0},
		Total:      2,
	}
}

func gatedResult() score.Result {
	return score.Result{Label: score.LabelNotEvaluated}
}

func TestPairFileName(t *testing.T) {
	tests := []struct {
		gene, drug, want string
	}{
		{"KIT", "Imatinib", "KIT_Imatinib.csv"},
		{"EGFR", "5-FU/leucovorin", "EGFR_5-FU-leucovorin.csv"},
	}
	for _, tt := range tests {
		if got := PairFileName(tt.gene, tt.drug); got != tt.want {
			t.Errorf("PairFileName(%q, %q) = %q, want %q", tt.gene, tt.drug, got, tt.want)
		}
	}
}

func TestRunDirName(t *testing.T) {
	now := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	if got := RunDirName("KIT", now); got != "2026-03-14_KIT" {
		t.Errorf("RunDirName = %q, want %q", got, "2026-03-14_KIT")
	}
}

func TestLog_HeaderWrittenImmediately(t *testing.T) {
	dir := t.TempDir()

	l, err := OpenLog(dir, "KIT", "Imatinib", false)
	if err != nil {
		t.Fatalf("OpenLog: %v", err)
	}
	defer l.Close()

	// The header must be on disk before any record is appended.
	data, err := os.ReadFile(filepath.Join(dir, "KIT_Imatinib.csv"))
	if err != nil {
		t.Fatalf("reading log: %v", err)
	}
	if got := strings.TrimSpace(string(data)); got != "pmid,label,scores" {
		t.Errorf("expected bare header, got %q", got)
	}
}

func TestLog_AppendFlushesEachRecord(t *testing.T) {
	dir := t.TempDir()

	l, err := OpenLog(dir, "KIT", "Imatinib", false)
	if err != nil {
		t.Fatalf("OpenLog: %v", err)
	}
	defer l.Close()

	if err := l.Append("38000001", evaluatedResult(), "", ""); err != nil {
		t.Fatalf("Append: %v", err)
	}

	// Read back without closing: the record must already be durable.
	data, err := os.ReadFile(filepath.Join(dir, "KIT_Imatinib.csv"))
	if err != nil {
		t.Fatalf("reading log: %v", err)
	}
	if !strings.Contains(string(data), "38000001") {
		t.Error("appended record not flushed to disk")
	}
}

func TestLog_RoundTrip(t *testing.T) {
	dir := t.TempDir()

	l, err := OpenLog(dir, "KIT", "Imatinib", false)
	if err != nil {
		t.Fatalf("OpenLog: %v", err)
	}
	if err := l.Append("38000001", evaluatedResult(), "", ""); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := l.Append("38000002", gatedResult(), "", ""); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := l.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	records, err := ReadLog(filepath.Join(dir, "KIT_Imatinib.csv"))
	if err != nil {
		t.Fatalf("ReadLog: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}

	first := records[0]
	if first.PMID != "38000001" || first.Label != score.LabelIndicatorEvidence {
		t.Errorf("unexpected first record: %+v", first)
	}
	if first.Scores["clinical_study"] != 2 {
		t.Errorf("expected clinical_study=2, got %v", first.Scores)
	}
	if first.Scores["unweighted_total"] != 2 {
		t.Errorf("expected unweighted_total=2, got %v", first.Scores)
	}

	second := records[1]
	if second.Label != score.LabelNotEvaluated {
		t.Errorf("expected not_evaluated label, got %q", second.Label)
	}
	if second.Scores != nil {
		t.Errorf("expected nil scores for a gated record, got %v", second.Scores)
	}
}

func TestLog_TaggedColumns(t *testing.T) {
	dir := t.TempDir()

	l, err := OpenLog(dir, "KIT", "Imatinib", true)
	if err != nil {
		t.Fatalf("OpenLog: %v", err)
	}
	if err := l.Append("38000001", evaluatedResult(), "imatinib;gleevec", "chembl:CHEMBL941"); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := l.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	records, err := ReadLog(filepath.Join(dir, "KIT_Imatinib.csv"))
	if err != nil {
		t.Fatalf("ReadLog: %v", err)
	}
	if records[0].TaggedDrugs != "imatinib;gleevec" {
		t.Errorf("expected tagged drugs to round-trip, got %q", records[0].TaggedDrugs)
	}
	if records[0].Concepts != "chembl:CHEMBL941" {
		t.Errorf("expected concepts to round-trip, got %q", records[0].Concepts)
	}
}

// The scores column is an ordered object ending in the total, or the 0.0
// sentinel for gated rows.
func TestEncodeScores(t *testing.T) {
	got := encodeScores(evaluatedResult())
	want := `{"clinical_study": 2, "case_report": 0, "unweighted_total": 2}`
	if got != want {
		t.Errorf("encodeScores = %q, want %q", got, want)
	}

	if got := encodeScores(gatedResult()); got != "0.0" {
		t.Errorf("expected sentinel for gated result, got %q", got)
	}
}

func TestDecodeScores(t *testing.T) {
	if m := decodeScores("0.0"); m != nil {
		t.Errorf("expected nil for sentinel, got %v", m)
	}
	if m := decodeScores("garbage"); m != nil {
		t.Errorf("expected nil for unparseable value, got %v", m)
	}
	m := decodeScores(`{"clinical_study": 1, "unweighted_total": 1}`)
	if m["clinical_study"] != 1 || m["unweighted_total"] != 1 {
		t.Errorf("unexpected decoded scores: %v", m)
	}
}

func writeRun(t *testing.T, root string) string {
	t.Helper()

	runDir := filepath.Join(root, "2026-03-14_KIT")
	l, err := OpenLog(runDir, "KIT", "Imatinib", false)
	if err != nil {
		t.Fatalf("OpenLog: %v", err)
	}
	if err := l.Append("38000001", evaluatedResult(), "", ""); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := l.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	l, err = OpenLog(runDir, "KIT", "Sunitinib", false)
	if err != nil {
		t.Fatalf("OpenLog: %v", err)
	}
	if err := l.Append("38000002", gatedResult(), "", ""); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := l.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	return runDir
}

func TestArchive_RemovesDirAndRoundTrips(t *testing.T) {
	root := t.TempDir()
	runDir := writeRun(t, root)

	zipPath, err := Archive(runDir)
	if err != nil {
		t.Fatalf("Archive: %v", err)
	}
	if zipPath != runDir+".zip" {
		t.Errorf("expected archive next to run dir, got %q", zipPath)
	}
	if _, err := os.Stat(runDir); !os.IsNotExist(err) {
		t.Error("run directory should be removed after archiving")
	}

	extractDir := t.TempDir()
	got, err := extractArchive(zipPath, extractDir)
	if err != nil {
		t.Fatalf("extractArchive: %v", err)
	}
	if filepath.Base(got) != "2026-03-14_KIT" {
		t.Errorf("expected extraction into zip stem directory, got %q", got)
	}
	for _, name := range []string{"KIT_Imatinib.csv", "KIT_Sunitinib.csv"} {
		if _, err := os.Stat(filepath.Join(got, name)); err != nil {
			t.Errorf("missing extracted log %s: %v", name, err)
		}
	}
}

func TestLoadAssessments(t *testing.T) {
	root := t.TempDir()
	runDir := writeRun(t, root)
	zipPath, err := Archive(runDir)
	if err != nil {
		t.Fatalf("Archive: %v", err)
	}

	outDir := t.TempDir()
	assessments, err := LoadAssessments(zipPath, "dgidb", outDir)
	if err != nil {
		t.Fatalf("LoadAssessments: %v", err)
	}
	if len(assessments) != 2 {
		t.Fatalf("expected 2 assessments, got %d", len(assessments))
	}

	// Files are processed in sorted order: Imatinib before Sunitinib.
	first := assessments[0]
	if first.Gene != "KIT" || first.Drug != "Imatinib" {
		t.Errorf("expected pair from file name, got gene=%q drug=%q", first.Gene, first.Drug)
	}
	if first.Method != "dgidb" {
		t.Errorf("expected method label on every row, got %q", first.Method)
	}
	if first.PMID != "38000001" {
		t.Errorf("unexpected record: %+v", first.Record)
	}

	// The extraction directory must be cleaned up.
	if _, err := os.Stat(filepath.Join(outDir, "2026-03-14_KIT")); !os.IsNotExist(err) {
		t.Error("extracted directory should be removed after loading")
	}
}

func TestLoadAssessments_ErrorOnlyWhenNothingLoads(t *testing.T) {
	root := t.TempDir()

	// A run whose only file is not parseable as a result log.
	runDir := filepath.Join(root, "2026-03-14_KIT")
	if err := os.MkdirAll(runDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(runDir, "KIT_Imatinib.csv"), []byte(""), 0o644); err != nil {
		t.Fatal(err)
	}
	zipPath, err := Archive(runDir)
	if err != nil {
		t.Fatalf("Archive: %v", err)
	}

	if _, err := LoadAssessments(zipPath, "dgidb", t.TempDir()); err == nil {
		t.Fatal("expected error when zero files load")
	}
}

func TestPairFromFileName(t *testing.T) {
	tests := []struct {
		name, wantGene, wantDrug string
	}{
		{"KIT_Imatinib.csv", "KIT", "Imatinib"},
		{"KIT_drug_with_underscores.csv", "KIT", "drug_with_underscores"},
		{"ORPHAN.csv", "ORPHAN", ""},
	}
	for _, tt := range tests {
		gene, drug := pairFromFileName(tt.name)
		if gene != tt.wantGene || drug != tt.wantDrug {
			t.Errorf("pairFromFileName(%q) = (%q, %q), want (%q, %q)",
				tt.name, gene, drug, tt.wantGene, tt.wantDrug)
		}
	}
}
