package models

import (
	"time"
)

// ReconcileReport represents the results of one comparison run
type ReconcileReport struct {
	// Run details
	RunID      string
	SourcePath string
	TargetPath string
	FullScan   bool
	CSVPath    string

	// Timing
	StartTime time.Time
	EndTime   time.Time
	Duration  time.Duration
	Phases    PhaseTimings

	// Statistics
	Stats Statistics

	// Rows written to the output file (in_both rows are never included)
	Rows []*ComparisonRow

	// Directories entirely missing from the target
	Directories []DirectoryStat

	// Smart scan: source top-level subdirectories absent from the target
	SubdirsNotFound []string

	// Overall status
	Status RunStatus
}

// PhaseTimings records how long each pipeline phase took
type PhaseTimings struct {
	SourceScan time.Duration
	TargetScan time.Duration
	Compare    time.Duration
	Write      time.Duration
}

// Statistics holds comparison run metrics
type Statistics struct {
	// Scan counts
	SourceFiles   int
	TargetFiles   int
	SourceSkipped int
	TargetSkipped int

	// Classification counts (these partition the source files)
	InBoth             int
	OnlyOnSource       int
	MovedHighConf      int // moved with filename_same_size match
	MovedMediumConf    int // moved with filename_diff_size match
	DuplicatesOnSource int

	// Bytes of source data with no target match at all
	MissingBytes int64

	// Output
	RowsWritten   int
	ExcludedMoved int // high-confidence moved rows dropped from the output
}

// DirectoryStat aggregates missing-file counts for one source directory
type DirectoryStat struct {
	// Name is the directory path, or RootDirLabel for root-level files
	Name         string
	MissingFiles int
	MissingSize  int64
	TotalFiles   int
}

// EntirelyMissing reports whether every file in the directory is absent
// from the target.
func (d DirectoryStat) EntirelyMissing() bool {
	return d.TotalFiles > 0 && d.MissingFiles == d.TotalFiles
}

// RunStatus represents the overall result of a run
type RunStatus string

const (
	// StatusCompleted indicates the comparison ran to the end
	StatusCompleted RunStatus = "completed"
	// StatusNothingToCompare indicates the source inventory was empty
	StatusNothingToCompare RunStatus = "nothing-to-compare"
	// StatusFailed indicates the run failed
	StatusFailed RunStatus = "failed"
	// StatusCancelled indicates the run was cancelled
	StatusCancelled RunStatus = "cancelled"
)

// ExitCode returns the process exit code for the run status. An empty
// source is a completed run, not a failure.
func (s RunStatus) ExitCode() int {
	switch s {
	case StatusCompleted, StatusNothingToCompare:
		return 0
	case StatusCancelled:
		return 3
	default:
		return 2
	}
}
