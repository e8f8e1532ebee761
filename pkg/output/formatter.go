package output

import (
	"time"

	"github.com/sdejongh/filedrift/pkg/models"
)

// Formatter defines the interface for run output.
// Implementations include human-readable and JSON formatters.
type Formatter interface {
	// RunStarted announces a new comparison run
	RunStarted(op *models.CompareOperation)

	// PhaseStarted announces a pipeline phase
	PhaseStarted(phase, detail string)

	// PhaseCompleted reports a finished phase
	PhaseCompleted(phase, detail string, elapsed time.Duration)

	// CompareProgress reports classification progress
	CompareProgress(done, total int)

	// Complete finalizes output and displays the run summary
	Complete(report *models.ReconcileReport) error

	// Error reports a recoverable error during the run
	Error(err error)

	// Name returns the formatter name
	Name() string
}
