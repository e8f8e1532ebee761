package reconcile

import (
	"context"
	"fmt"
	"time"

	"github.com/sdejongh/filedrift/pkg/logging"
	"github.com/sdejongh/filedrift/pkg/models"
	"github.com/sdejongh/filedrift/pkg/output"
	"github.com/sdejongh/filedrift/pkg/scan"
)

// Engine runs the full reconciliation pipeline: scan both trees, build
// the filename indices, classify every source file, resolve duplicate
// groups, aggregate directory completeness and write the output file.
type Engine struct {
	op        *models.CompareOperation
	formatter output.Formatter
	logger    logging.Logger
	ignore    *scan.IgnoreFilter
}

// NewEngine creates an engine for one comparison run. A nil logger
// discards output, a nil formatter is replaced by a silent one.
func NewEngine(op *models.CompareOperation, formatter output.Formatter, logger logging.Logger) *Engine {
	if logger == nil {
		logger = logging.NewNullLogger()
	}
	if formatter == nil {
		formatter = output.NewHumanFormatter(nil, false, true)
	}
	return &Engine{
		op:        op,
		formatter: formatter,
		logger:    logger,
		ignore:    scan.NewIgnoreFilter(op.ExtraIgnore...),
	}
}

// Run executes the pipeline and returns the run report. Scan errors on
// a missing root are reported and produce an empty inventory; only
// output write failures and cancellation return a non-nil error.
func (e *Engine) Run(ctx context.Context) (*models.ReconcileReport, error) {
	report := &models.ReconcileReport{
		RunID:      e.op.ID,
		SourcePath: e.op.SourcePath,
		TargetPath: e.op.TargetPath,
		FullScan:   e.op.FullScan,
		CSVPath:    e.op.CSVPath,
		StartTime:  time.Now(),
	}
	defer func() {
		report.EndTime = time.Now()
		report.Duration = report.EndTime.Sub(report.StartTime)
	}()

	e.formatter.RunStarted(e.op)
	e.logger.Info("comparison started", logging.Fields{
		"run_id": e.op.ID,
		"source": e.op.SourcePath,
		"target": e.op.TargetPath,
	})

	// Phase 1: source scan
	sourceInv, err := e.runScan(ctx, report, "Scanning source", e.op.SourcePath, nil)
	if err != nil {
		return report, err
	}
	report.Phases.SourceScan = time.Since(report.StartTime)
	report.Stats.SourceFiles = sourceInv.Len()
	report.Stats.SourceSkipped = sourceInv.Skipped
	e.formatter.PhaseCompleted("source scan",
		fmt.Sprintf("found %d files, skipped %d", sourceInv.Len(), sourceInv.Skipped),
		report.Phases.SourceScan)

	if sourceInv.Len() == 0 {
		report.Status = models.StatusNothingToCompare
		e.logger.Warn("source inventory is empty", logging.Fields{"source": e.op.SourcePath})
		return report, nil
	}

	// Phase 2: target scan, restricted to the source's top-level
	// subdirectories unless a full scan was requested
	phaseStart := time.Now()
	var subdirs []string
	if !e.op.FullScan {
		existing, missing := scan.ExistingSubdirs(e.op.TargetPath, sourceInv.TopLevelDirs())
		report.SubdirsNotFound = missing
		if len(missing) > 0 {
			e.logger.Info("subdirectories absent from target", logging.Fields{"count": len(missing)})
		}
		// Restricting to zero subdirectories is a valid smart scan: the
		// target contributes nothing and every source file is missing.
		subdirs = existing
		if subdirs == nil {
			subdirs = []string{}
		}
	}

	targetInv, err := e.runScan(ctx, report, "Scanning target", e.op.TargetPath, subdirs)
	if err != nil {
		return report, err
	}
	report.Phases.TargetScan = time.Since(phaseStart)
	report.Stats.TargetFiles = targetInv.Len()
	report.Stats.TargetSkipped = targetInv.Skipped
	e.formatter.PhaseCompleted("target scan",
		fmt.Sprintf("scanned %d files, skipped %d", targetInv.Len(), targetInv.Skipped),
		report.Phases.TargetScan)

	// Phase 3: index and classify
	phaseStart = time.Now()
	e.formatter.PhaseStarted("Comparing", "")

	targetIndex := BuildFilenameIndex(targetInv)
	sourceIndex := BuildFilenameIndex(sourceInv)

	classification := Classify(sourceInv, targetInv, targetIndex, sourceIndex, e.formatter.CompareProgress)
	ResolveDuplicates(classification.Moved, classification.DuplicateGroups)
	report.Directories = AnalyzeDirectories(classification, sourceInv)
	report.Phases.Compare = time.Since(phaseStart)

	e.fillStats(report, classification)

	rows, excluded := InterestingRows(classification, e.op.ExcludeHighConfidenceMoved)
	report.Rows = rows
	report.Stats.RowsWritten = len(rows)
	report.Stats.ExcludedMoved = excluded

	e.formatter.PhaseCompleted("comparison",
		fmt.Sprintf("classified %d files", classification.Total()),
		report.Phases.Compare)

	// Phase 4: write output
	phaseStart = time.Now()
	if err := output.WriteCSV(e.op.CSVPath, rows); err != nil {
		report.Status = models.StatusFailed
		e.logger.Error("failed to write output", err, logging.Fields{"path": e.op.CSVPath})
		return report, err
	}
	report.Phases.Write = time.Since(phaseStart)
	report.Status = models.StatusCompleted

	e.logger.Info("comparison completed", logging.Fields{
		"run_id":         e.op.ID,
		"rows_written":   len(rows),
		"only_on_source": report.Stats.OnlyOnSource,
		"in_both":        report.Stats.InBoth,
	})
	return report, nil
}

// runScan scans a root, full or restricted to subdirs. A missing root
// is reported and yields an empty inventory; cancellation aborts.
func (e *Engine) runScan(ctx context.Context, report *models.ReconcileReport, phase, root string, subdirs []string) (*models.TreeInventory, error) {
	e.formatter.PhaseStarted(phase, root)

	scanner := scan.NewScanner(root, e.ignore, e.logger)
	scanner.SetWorkers(e.op.ScanWorkers)

	var inv *models.TreeInventory
	var err error
	if subdirs != nil {
		inv, err = scanner.ScanSubdirs(ctx, subdirs)
	} else {
		inv, err = scanner.Scan(ctx)
	}

	if err != nil {
		if ctx.Err() != nil {
			report.Status = models.StatusCancelled
			return inv, ctx.Err()
		}
		// A missing root is a reportable condition, not a crash: the
		// empty inventory flows through the rest of the pipeline.
		e.formatter.Error(err)
		e.logger.Warn("scan error", logging.Fields{"root": root, "error": err.Error()})
	}
	return inv, nil
}

// fillStats derives the classification counters for the report.
func (e *Engine) fillStats(report *models.ReconcileReport, c *models.Classification) {
	report.Stats.InBoth = len(c.InBoth)
	report.Stats.OnlyOnSource = len(c.OnlyOnSource)

	for _, row := range c.OnlyOnSource {
		report.Stats.MissingBytes += row.SourceSize
	}
	for _, row := range c.Moved {
		switch {
		case row.Status == models.StatusDuplicateOnSource:
			report.Stats.DuplicatesOnSource++
		case row.Confidence == models.ConfidenceHigh:
			report.Stats.MovedHighConf++
		default:
			report.Stats.MovedMediumConf++
		}
	}
}
