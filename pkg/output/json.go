package output

import (
	"encoding/json"
	"io"
	"os"
	"time"

	"github.com/sdejongh/filedrift/pkg/models"
)

// JSONFormatter emits a single machine-readable report document for
// automation and scripting. Phase events are not streamed.
type JSONFormatter struct {
	writer io.Writer
}

// JSONReportData represents the final report document
type JSONReportData struct {
	RunID           string              `json:"run_id"`
	Status          string              `json:"status"`
	SourcePath      string              `json:"source_path"`
	TargetPath      string              `json:"target_path"`
	ScanMode        string              `json:"scan_mode"`
	CSVPath         string              `json:"csv_path,omitempty"`
	Duration        string              `json:"duration"`
	DurationMs      int64               `json:"duration_ms"`
	Phases          JSONPhaseData       `json:"phases"`
	Stats           JSONStatsData       `json:"stats"`
	Rows            []JSONRowData       `json:"rows,omitempty"`
	Directories     []JSONDirectoryData `json:"missing_directories,omitempty"`
	SubdirsNotFound []string            `json:"subdirs_not_found,omitempty"`
}

// JSONPhaseData represents per-phase timings in milliseconds
type JSONPhaseData struct {
	SourceScanMs int64 `json:"source_scan_ms"`
	TargetScanMs int64 `json:"target_scan_ms"`
	CompareMs    int64 `json:"compare_ms"`
	WriteMs      int64 `json:"write_ms"`
}

// JSONStatsData represents run statistics
type JSONStatsData struct {
	SourceFiles        int   `json:"source_files"`
	TargetFiles        int   `json:"target_files"`
	SourceSkipped      int   `json:"source_skipped"`
	TargetSkipped      int   `json:"target_skipped"`
	InBoth             int   `json:"in_both"`
	OnlyOnSource       int   `json:"only_on_source"`
	MovedHighConf      int   `json:"moved_high_confidence"`
	MovedMediumConf    int   `json:"moved_medium_confidence"`
	DuplicatesOnSource int   `json:"duplicates_on_source"`
	MissingBytes       int64 `json:"missing_bytes"`
	RowsWritten        int   `json:"rows_written"`
	ExcludedMoved      int   `json:"excluded_moved,omitempty"`
}

// JSONRowData represents one comparison row
type JSONRowData struct {
	RelativePath   string   `json:"relative_path"`
	SourcePath     string   `json:"source_path"`
	SourceSize     int64    `json:"source_size"`
	TargetPath     string   `json:"target_path,omitempty"`
	TargetSize     *int64   `json:"target_size,omitempty"`
	FoundAtPath    string   `json:"found_at_path,omitempty"`
	MatchType      string   `json:"match_type"`
	Confidence     string   `json:"confidence"`
	Status         string   `json:"status"`
	DuplicateGroup []string `json:"duplicate_group,omitempty"`
}

// JSONDirectoryData represents an entirely missing directory
type JSONDirectoryData struct {
	Name         string `json:"name"`
	MissingFiles int    `json:"missing_files"`
	MissingSize  int64  `json:"missing_size"`
	TotalFiles   int    `json:"total_files"`
}

// NewJSONFormatter creates a new JSON formatter
func NewJSONFormatter(writer io.Writer) *JSONFormatter {
	if writer == nil {
		writer = os.Stdout
	}
	return &JSONFormatter{writer: writer}
}

// RunStarted is a no-op; the JSON output is a single final document
func (f *JSONFormatter) RunStarted(op *models.CompareOperation) {}

// PhaseStarted is a no-op
func (f *JSONFormatter) PhaseStarted(phase, detail string) {}

// PhaseCompleted is a no-op
func (f *JSONFormatter) PhaseCompleted(phase, detail string, elapsed time.Duration) {}

// CompareProgress is a no-op to keep the output parseable
func (f *JSONFormatter) CompareProgress(done, total int) {}

// Complete encodes the final report as indented JSON
func (f *JSONFormatter) Complete(report *models.ReconcileReport) error {
	mode := "smart"
	if report.FullScan {
		mode = "full"
	}

	doc := JSONReportData{
		RunID:      report.RunID,
		Status:     string(report.Status),
		SourcePath: report.SourcePath,
		TargetPath: report.TargetPath,
		ScanMode:   mode,
		CSVPath:    report.CSVPath,
		Duration:   report.Duration.Round(time.Millisecond).String(),
		DurationMs: report.Duration.Milliseconds(),
		Phases: JSONPhaseData{
			SourceScanMs: report.Phases.SourceScan.Milliseconds(),
			TargetScanMs: report.Phases.TargetScan.Milliseconds(),
			CompareMs:    report.Phases.Compare.Milliseconds(),
			WriteMs:      report.Phases.Write.Milliseconds(),
		},
		Stats: JSONStatsData{
			SourceFiles:        report.Stats.SourceFiles,
			TargetFiles:        report.Stats.TargetFiles,
			SourceSkipped:      report.Stats.SourceSkipped,
			TargetSkipped:      report.Stats.TargetSkipped,
			InBoth:             report.Stats.InBoth,
			OnlyOnSource:       report.Stats.OnlyOnSource,
			MovedHighConf:      report.Stats.MovedHighConf,
			MovedMediumConf:    report.Stats.MovedMediumConf,
			DuplicatesOnSource: report.Stats.DuplicatesOnSource,
			MissingBytes:       report.Stats.MissingBytes,
			RowsWritten:        report.Stats.RowsWritten,
			ExcludedMoved:      report.Stats.ExcludedMoved,
		},
		SubdirsNotFound: report.SubdirsNotFound,
	}

	for _, row := range report.Rows {
		data := JSONRowData{
			RelativePath:   row.RelativePath,
			SourcePath:     row.SourcePath,
			SourceSize:     row.SourceSize,
			TargetPath:     row.TargetPath,
			FoundAtPath:    row.FoundAtPath,
			MatchType:      string(row.MatchType),
			Confidence:     string(row.Confidence),
			Status:         string(row.Status),
			DuplicateGroup: row.DuplicateGroup,
		}
		if row.MatchType != models.MatchNone {
			size := row.TargetSize
			data.TargetSize = &size
		}
		doc.Rows = append(doc.Rows, data)
	}

	for _, dir := range report.Directories {
		doc.Directories = append(doc.Directories, JSONDirectoryData{
			Name:         dir.Name,
			MissingFiles: dir.MissingFiles,
			MissingSize:  dir.MissingSize,
			TotalFiles:   dir.TotalFiles,
		})
	}

	encoder := json.NewEncoder(f.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(doc)
}

// Error reports an error as a JSON line
func (f *JSONFormatter) Error(err error) {
	json.NewEncoder(f.writer).Encode(map[string]string{"error": err.Error()})
}

// Name returns the formatter name
func (f *JSONFormatter) Name() string {
	return "json"
}
