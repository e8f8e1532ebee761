package reconcile

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/sdejongh/filedrift/pkg/models"
	"github.com/sdejongh/filedrift/pkg/output"
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("failed to create directory: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to create file: %v", err)
	}
}

func newTestOperation(t *testing.T, source, target string) *models.CompareOperation {
	t.Helper()
	return &models.CompareOperation{
		ID:          "test-run",
		SourcePath:  source,
		TargetPath:  target,
		CSVPath:     filepath.Join(t.TempDir(), "out.csv"),
		ScanWorkers: 2,
	}
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	file, err := os.Open(path)
	if err != nil {
		t.Fatalf("failed to open output file: %v", err)
	}
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	if err != nil {
		t.Fatalf("failed to parse output file: %v", err)
	}
	return records
}

func TestEngineRun(t *testing.T) {
	source := t.TempDir()
	target := t.TempDir()

	writeFile(t, source, "kept/same.txt", "identical")
	writeFile(t, source, "kept/gone.txt", "only here")
	writeFile(t, source, "moved/file.bin", "payload")
	writeFile(t, target, "kept/same.txt", "identical")
	writeFile(t, target, "kept/elsewhere/file.bin", "payload")

	op := newTestOperation(t, source, target)
	engine := NewEngine(op, nil, nil)

	report, err := engine.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if report.Status != models.StatusCompleted {
		t.Errorf("Status = %s, want completed", report.Status)
	}
	if report.Status.ExitCode() != 0 {
		t.Errorf("ExitCode() = %d, want 0", report.Status.ExitCode())
	}
	if report.Stats.SourceFiles != 3 {
		t.Errorf("SourceFiles = %d, want 3", report.Stats.SourceFiles)
	}
	if report.Stats.InBoth != 1 {
		t.Errorf("InBoth = %d, want 1", report.Stats.InBoth)
	}
	if report.Stats.MovedHighConf != 1 {
		t.Errorf("MovedHighConf = %d, want 1", report.Stats.MovedHighConf)
	}
	if report.Stats.OnlyOnSource != 1 {
		t.Errorf("OnlyOnSource = %d, want 1", report.Stats.OnlyOnSource)
	}
	if report.Stats.MissingBytes != int64(len("only here")) {
		t.Errorf("MissingBytes = %d, want %d", report.Stats.MissingBytes, len("only here"))
	}

	records := readCSV(t, op.CSVPath)
	// header + moved + only_on_source; in_both never appears
	if len(records) != 3 {
		t.Fatalf("output rows = %d, want 3", len(records))
	}
	if records[1][0] != "kept/gone.txt" || records[2][0] != "moved/file.bin" {
		t.Errorf("rows not sorted by relative path: %s, %s", records[1][0], records[2][0])
	}
}

func TestEngineRunEmptySource(t *testing.T) {
	op := newTestOperation(t, t.TempDir(), t.TempDir())
	engine := NewEngine(op, nil, nil)

	report, err := engine.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if report.Status != models.StatusNothingToCompare {
		t.Errorf("Status = %s, want nothing_to_compare", report.Status)
	}
	if report.Status.ExitCode() != 0 {
		t.Errorf("ExitCode() = %d, want 0", report.Status.ExitCode())
	}
	if _, err := os.Stat(op.CSVPath); !os.IsNotExist(err) {
		t.Error("no output file should be written when there is nothing to compare")
	}
}

func TestEngineRunMissingSourceRoot(t *testing.T) {
	op := newTestOperation(t, filepath.Join(t.TempDir(), "nope"), t.TempDir())
	engine := NewEngine(op, nil, nil)

	report, err := engine.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v (missing roots are reported, not fatal)", err)
	}
	if report.Status != models.StatusNothingToCompare {
		t.Errorf("Status = %s, want nothing_to_compare", report.Status)
	}
}

func TestEngineRunMissingTargetRoot(t *testing.T) {
	source := t.TempDir()
	writeFile(t, source, "a.txt", "data")

	op := newTestOperation(t, source, filepath.Join(t.TempDir(), "nope"))
	engine := NewEngine(op, nil, nil)

	report, err := engine.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if report.Status != models.StatusCompleted {
		t.Errorf("Status = %s, want completed", report.Status)
	}
	if report.Stats.OnlyOnSource != 1 {
		t.Errorf("OnlyOnSource = %d, want 1 (empty target inventory)", report.Stats.OnlyOnSource)
	}
}

func TestEngineRunSmartScan(t *testing.T) {
	source := t.TempDir()
	target := t.TempDir()

	writeFile(t, source, "music/a.mp3", "aaa")
	writeFile(t, source, "vanished/b.txt", "bbb")
	writeFile(t, target, "music/a.mp3", "aaa")
	// A target-only tree that a smart scan must not visit. Its files
	// share no names with the source, so a full scan would not change
	// the classification, only the target file count.
	writeFile(t, target, "unrelated/huge.iso", "xxxxxxxxxx")

	op := newTestOperation(t, source, target)
	engine := NewEngine(op, nil, nil)

	report, err := engine.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if report.Stats.TargetFiles != 1 {
		t.Errorf("TargetFiles = %d, want 1 (smart scan visits only source subdirs)", report.Stats.TargetFiles)
	}
	if len(report.SubdirsNotFound) != 1 || report.SubdirsNotFound[0] != "vanished" {
		t.Errorf("SubdirsNotFound = %v, want [vanished]", report.SubdirsNotFound)
	}

	if len(report.Directories) != 1 || report.Directories[0].Name != "vanished" {
		t.Errorf("Directories = %v, want the vanished directory", report.Directories)
	}
}

func TestEngineRunFullScan(t *testing.T) {
	source := t.TempDir()
	target := t.TempDir()

	writeFile(t, source, "music/a.mp3", "aaa")
	writeFile(t, target, "music/a.mp3", "aaa")
	writeFile(t, target, "unrelated/huge.iso", "xxxxxxxxxx")

	op := newTestOperation(t, source, target)
	op.FullScan = true
	engine := NewEngine(op, nil, nil)

	report, err := engine.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if report.Stats.TargetFiles != 2 {
		t.Errorf("TargetFiles = %d, want 2 (full scan visits everything)", report.Stats.TargetFiles)
	}
	if len(report.SubdirsNotFound) != 0 {
		t.Errorf("SubdirsNotFound = %v, want none in full scan mode", report.SubdirsNotFound)
	}
}

func TestEngineRunRootFilesNeedFullScan(t *testing.T) {
	// The source holds only root-level files; a smart scan restricted to
	// zero subdirectories sees an empty target, so the root file is
	// reported missing even though the target has it.
	source := t.TempDir()
	target := t.TempDir()

	writeFile(t, source, "root.txt", "data")
	writeFile(t, target, "root.txt", "data")

	op := newTestOperation(t, source, target)
	engine := NewEngine(op, nil, nil)

	report, err := engine.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if report.Stats.OnlyOnSource != 1 {
		t.Errorf("smart scan: OnlyOnSource = %d, want 1", report.Stats.OnlyOnSource)
	}

	op2 := newTestOperation(t, source, target)
	op2.FullScan = true
	report2, err := NewEngine(op2, nil, nil).Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if report2.Stats.InBoth != 1 {
		t.Errorf("full scan: InBoth = %d, want 1", report2.Stats.InBoth)
	}
}

func TestEngineRunCancelled(t *testing.T) {
	source := t.TempDir()
	writeFile(t, source, "a.txt", "data")

	op := newTestOperation(t, source, t.TempDir())
	engine := NewEngine(op, nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report, err := engine.Run(ctx)
	if err == nil {
		t.Fatal("Run() with cancelled context should return an error")
	}
	if report.Status != models.StatusCancelled {
		t.Errorf("Status = %s, want cancelled", report.Status)
	}
	if report.Status.ExitCode() != 3 {
		t.Errorf("ExitCode() = %d, want 3", report.Status.ExitCode())
	}
}

func TestEngineRunCSVWriteFailure(t *testing.T) {
	source := t.TempDir()
	writeFile(t, source, "a.txt", "data")

	op := newTestOperation(t, source, t.TempDir())
	op.CSVPath = filepath.Join(t.TempDir(), "no", "such", "dir", "out.csv")
	engine := NewEngine(op, nil, nil)

	report, err := engine.Run(context.Background())
	if err == nil {
		t.Fatal("Run() should fail when the output file cannot be created")
	}
	if report.Status != models.StatusFailed {
		t.Errorf("Status = %s, want failed", report.Status)
	}
	if report.Status.ExitCode() != 2 {
		t.Errorf("ExitCode() = %d, want 2", report.Status.ExitCode())
	}
}

func TestEngineRunExcludeHighConfidenceMoved(t *testing.T) {
	source := t.TempDir()
	target := t.TempDir()

	writeFile(t, source, "docs/moved.txt", "same bytes")
	writeFile(t, source, "docs/gone.txt", "missing")
	writeFile(t, target, "docs/archive/moved.txt", "same bytes")

	op := newTestOperation(t, source, target)
	op.ExcludeHighConfidenceMoved = true
	engine := NewEngine(op, nil, nil)

	report, err := engine.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if report.Stats.ExcludedMoved != 1 {
		t.Errorf("ExcludedMoved = %d, want 1", report.Stats.ExcludedMoved)
	}
	if report.Stats.RowsWritten != 1 {
		t.Errorf("RowsWritten = %d, want 1", report.Stats.RowsWritten)
	}

	records := readCSV(t, op.CSVPath)
	if len(records) != 2 {
		t.Fatalf("output rows = %d, want 2", len(records))
	}
	if records[1][0] != "docs/gone.txt" {
		t.Errorf("remaining row = %s, want docs/gone.txt", records[1][0])
	}
}

func TestEngineRunIdempotent(t *testing.T) {
	source := t.TempDir()
	target := t.TempDir()

	writeFile(t, source, "a/one.txt", "1")
	writeFile(t, source, "b/two.txt", "22")
	writeFile(t, source, "c/three.txt", "333")
	writeFile(t, target, "a/one.txt", "1")
	writeFile(t, target, "moved/two.txt", "22")

	op := newTestOperation(t, source, target)
	op.FullScan = true

	if _, err := NewEngine(op, nil, nil).Run(context.Background()); err != nil {
		t.Fatalf("first Run() error = %v", err)
	}
	first, err := os.ReadFile(op.CSVPath)
	if err != nil {
		t.Fatalf("failed to read output: %v", err)
	}

	if _, err := NewEngine(op, nil, nil).Run(context.Background()); err != nil {
		t.Fatalf("second Run() error = %v", err)
	}
	second, err := os.ReadFile(op.CSVPath)
	if err != nil {
		t.Fatalf("failed to read output: %v", err)
	}

	if string(first) != string(second) {
		t.Error("repeated runs over unchanged trees must produce identical output")
	}
}

func TestEngineRunJSONFormatter(t *testing.T) {
	source := t.TempDir()
	writeFile(t, source, "a.txt", "data")

	op := newTestOperation(t, source, t.TempDir())

	var buf bytes.Buffer
	formatter := output.NewJSONFormatter(&buf)
	engine := NewEngine(op, formatter, nil)

	report, err := engine.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if report.Status != models.StatusCompleted {
		t.Errorf("Status = %s, want completed", report.Status)
	}

	if err := formatter.Complete(report); err != nil {
		t.Fatalf("Complete() error = %v", err)
	}

	var doc map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if doc["status"] != "completed" {
		t.Errorf("status = %v, want completed", doc["status"])
	}
	if doc["run_id"] != "test-run" {
		t.Errorf("run_id = %v, want test-run", doc["run_id"])
	}
}
