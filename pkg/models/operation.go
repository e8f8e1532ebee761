package models

import (
	"time"
)

// CompareOperation represents one comparison run configuration
type CompareOperation struct {
	ID         string
	SourcePath string
	TargetPath string
	CSVPath    string

	// FullScan scans the whole target tree instead of only the source's
	// top-level subdirectories
	FullScan bool

	// ExcludeHighConfidenceMoved drops moved rows with high confidence
	// from the output file
	ExcludeHighConfidenceMoved bool

	// ExtraIgnore adds filenames to the builtin ignore denylist
	ExtraIgnore []string

	// ScanWorkers bounds parallel subdirectory scans in smart mode
	ScanWorkers int

	CreatedAt time.Time
}

// Validate checks if the operation configuration is valid
func (op *CompareOperation) Validate() error {
	if op.SourcePath == "" {
		return &ValidationError{Field: "SourcePath", Message: "source path is required"}
	}
	if op.TargetPath == "" {
		return &ValidationError{Field: "TargetPath", Message: "target path is required"}
	}
	if op.CSVPath == "" {
		return &ValidationError{Field: "CSVPath", Message: "output path is required"}
	}
	if op.ScanWorkers < 1 {
		return &ValidationError{Field: "ScanWorkers", Message: "scan workers must be at least 1"}
	}
	return nil
}

// ValidationError represents a validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}
