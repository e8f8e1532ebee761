package output

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/sdejongh/filedrift/pkg/models"
)

func TestCSVFields(t *testing.T) {
	t.Run("MovedRow", func(t *testing.T) {
		row := &models.ComparisonRow{
			RelativePath: "a/file.txt",
			SourcePath:   "/src/a/file.txt",
			SourceSize:   100,
			TargetPath:   "/dst/b/file.txt",
			TargetSize:   100,
			FoundAtPath:  "b/file.txt",
			MatchType:    models.MatchFilenameSameSize,
			Confidence:   models.ConfidenceHigh,
			Status:       models.StatusMoved,
		}

		want := []string{
			"a/file.txt", "/src/a/file.txt", "100",
			"/dst/b/file.txt", "100", "b/file.txt",
			"filename_same_size", "high", "moved", "",
		}
		if got := CSVFields(row); !reflect.DeepEqual(got, want) {
			t.Errorf("CSVFields() = %v, want %v", got, want)
		}
	})

	t.Run("OnlyOnSourceRow", func(t *testing.T) {
		row := &models.ComparisonRow{
			RelativePath: "gone.txt",
			SourcePath:   "/src/gone.txt",
			SourceSize:   42,
			MatchType:    models.MatchNone,
			Confidence:   models.ConfidenceNone,
			Status:       models.StatusOnlyOnSource,
		}

		fields := CSVFields(row)
		if fields[4] != "" {
			t.Errorf("target_size = %q, want empty for unmatched rows", fields[4])
		}
		if fields[3] != "" {
			t.Errorf("target_path = %q, want empty", fields[3])
		}
		if fields[8] != "only_on_source" {
			t.Errorf("status = %q, want only_on_source", fields[8])
		}
	})

	t.Run("DuplicateGroupJoined", func(t *testing.T) {
		row := &models.ComparisonRow{
			RelativePath:   "a/track.mp3",
			SourceSize:     100,
			TargetSize:     100,
			MatchType:      models.MatchFilenameSameSize,
			Confidence:     models.ConfidenceHigh,
			Status:         models.StatusDuplicateOnSource,
			DuplicateGroup: []string{"b/track.mp3", "c/track.mp3"},
		}

		fields := CSVFields(row)
		if fields[9] != "b/track.mp3; c/track.mp3" {
			t.Errorf("duplicate_group = %q, want %q", fields[9], "b/track.mp3; c/track.mp3")
		}
	})
}

func TestWriteCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	rows := []*models.ComparisonRow{
		{
			RelativePath: "a.txt",
			SourcePath:   "/src/a.txt",
			SourceSize:   10,
			MatchType:    models.MatchNone,
			Confidence:   models.ConfidenceNone,
			Status:       models.StatusOnlyOnSource,
		},
		{
			RelativePath: "b, with comma.txt",
			SourcePath:   "/src/b, with comma.txt",
			SourceSize:   20,
			TargetPath:   "/dst/x/b, with comma.txt",
			TargetSize:   20,
			FoundAtPath:  "x/b, with comma.txt",
			MatchType:    models.MatchFilenameSameSize,
			Confidence:   models.ConfidenceHigh,
			Status:       models.StatusMoved,
		},
	}

	if err := WriteCSV(path, rows); err != nil {
		t.Fatalf("WriteCSV() error = %v", err)
	}

	file, err := os.Open(path)
	if err != nil {
		t.Fatalf("failed to open output: %v", err)
	}
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	if err != nil {
		t.Fatalf("failed to parse output: %v", err)
	}

	if len(records) != 3 {
		t.Fatalf("records = %d, want header + 2 rows", len(records))
	}
	if !reflect.DeepEqual(records[0], CSVHeader) {
		t.Errorf("header = %v, want %v", records[0], CSVHeader)
	}
	if records[2][0] != "b, with comma.txt" {
		t.Errorf("comma in path not preserved: %q", records[2][0])
	}
}

func TestWriteCSVEmptyRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")

	if err := WriteCSV(path, nil); err != nil {
		t.Fatalf("WriteCSV() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read output: %v", err)
	}
	if len(data) == 0 {
		t.Error("header should be written even with no rows")
	}
}

func TestWriteCSVCreateFailure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "dir", "out.csv")
	if err := WriteCSV(path, nil); err == nil {
		t.Error("WriteCSV() should fail when the directory does not exist")
	}
}
