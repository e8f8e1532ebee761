package output

import (
	"fmt"
	"io"
	"time"

	"github.com/cheggaaa/pb/v3"
	"github.com/fatih/color"

	"github.com/sdejongh/filedrift/pkg/models"
)

// HumanFormatter prints phase banners, an optional progress bar during
// classification and a final summary in human-readable form.
type HumanFormatter struct {
	writer       io.Writer
	showProgress bool
	quiet        bool
	bar          *pb.ProgressBar
}

// NewHumanFormatter creates a human-readable formatter. Progress bars
// are only drawn when showProgress is set (the CLI enables it on a TTY).
func NewHumanFormatter(writer io.Writer, showProgress, quiet bool) *HumanFormatter {
	if writer == nil {
		writer = io.Discard
	}
	return &HumanFormatter{
		writer:       writer,
		showProgress: showProgress && !quiet,
		quiet:        quiet,
	}
}

// RunStarted announces the run
func (f *HumanFormatter) RunStarted(op *models.CompareOperation) {
	if f.quiet {
		return
	}
	mode := "smart scan"
	if op.FullScan {
		mode = "full scan"
	}
	fmt.Fprintf(f.writer, "Comparing trees (%s)\n", mode)
	fmt.Fprintf(f.writer, "  Source: %s\n", op.SourcePath)
	fmt.Fprintf(f.writer, "  Target: %s\n", op.TargetPath)
	fmt.Fprintf(f.writer, "  Output: %s\n\n", op.CSVPath)
}

// PhaseStarted announces a pipeline phase
func (f *HumanFormatter) PhaseStarted(phase, detail string) {
	if f.quiet {
		return
	}
	if detail != "" {
		fmt.Fprintf(f.writer, "%s: %s\n", phase, detail)
	} else {
		fmt.Fprintf(f.writer, "%s...\n", phase)
	}
}

// PhaseCompleted reports a finished phase
func (f *HumanFormatter) PhaseCompleted(phase, detail string, elapsed time.Duration) {
	if f.quiet {
		return
	}
	fmt.Fprintf(f.writer, "  %s (%s)\n", detail, formatDuration(elapsed))
}

// CompareProgress drives the classification progress bar
func (f *HumanFormatter) CompareProgress(done, total int) {
	if !f.showProgress || total == 0 {
		return
	}
	if f.bar == nil {
		f.bar = pb.New(total)
		f.bar.SetWriter(f.writer)
		f.bar.Start()
	}
	f.bar.SetCurrent(int64(done))
	if done >= total {
		f.bar.Finish()
		f.bar = nil
	}
}

// Complete displays the run summary
func (f *HumanFormatter) Complete(report *models.ReconcileReport) error {
	if f.bar != nil {
		f.bar.Finish()
		f.bar = nil
	}

	if report.Status == models.StatusNothingToCompare {
		fmt.Fprintf(f.writer, "\nNo files found in source directory, nothing to compare.\n")
		return nil
	}

	warn := color.New(color.FgYellow).SprintFunc()
	bad := color.New(color.FgRed).SprintFunc()
	bold := color.New(color.Bold).SprintFunc()

	fmt.Fprintf(f.writer, "\n%s\n", bold("Summary"))
	fmt.Fprintf(f.writer, "  Files on source:          %d (%d skipped)\n", report.Stats.SourceFiles, report.Stats.SourceSkipped)
	fmt.Fprintf(f.writer, "  Files scanned on target:  %d (%d skipped)\n", report.Stats.TargetFiles, report.Stats.TargetSkipped)
	fmt.Fprintf(f.writer, "  In both locations:        %d (excluded from output)\n", report.Stats.InBoth)
	fmt.Fprintf(f.writer, "  Moved (high confidence):  %d\n", report.Stats.MovedHighConf)
	fmt.Fprintf(f.writer, "  Moved (medium confidence): %d\n", report.Stats.MovedMediumConf)
	fmt.Fprintf(f.writer, "  Source duplicates:        %s\n", warn(fmt.Sprintf("%d", report.Stats.DuplicatesOnSource)))
	fmt.Fprintf(f.writer, "  Only on source:           %s (%s)\n",
		bad(fmt.Sprintf("%d", report.Stats.OnlyOnSource)), formatBytes(report.Stats.MissingBytes))

	if len(report.SubdirsNotFound) > 0 {
		fmt.Fprintf(f.writer, "\n%s\n", bold("Source subdirectories not found on target:"))
		for _, d := range report.SubdirsNotFound {
			fmt.Fprintf(f.writer, "  - %s\n", d)
		}
	}

	if len(report.Directories) > 0 {
		fmt.Fprintf(f.writer, "\n%s\n", bold("Directories entirely missing on target:"))
		for _, dir := range report.Directories {
			fmt.Fprintf(f.writer, "  %s (%d files, %s)\n",
				bad(dir.Name), dir.MissingFiles, formatBytes(dir.MissingSize))
		}
	}

	if report.Stats.ExcludedMoved > 0 {
		fmt.Fprintf(f.writer, "\nNote: %d high-confidence moved files excluded from output\n", report.Stats.ExcludedMoved)
	}

	fmt.Fprintf(f.writer, "\nTimings:\n")
	fmt.Fprintf(f.writer, "  Source scan: %s\n", formatDuration(report.Phases.SourceScan))
	fmt.Fprintf(f.writer, "  Target scan: %s\n", formatDuration(report.Phases.TargetScan))
	fmt.Fprintf(f.writer, "  Comparison:  %s\n", formatDuration(report.Phases.Compare))
	fmt.Fprintf(f.writer, "  Write:       %s\n", formatDuration(report.Phases.Write))
	fmt.Fprintf(f.writer, "  Total:       %s\n", formatDuration(report.Duration))

	fmt.Fprintf(f.writer, "\n%d rows written to %s\n", report.Stats.RowsWritten, report.CSVPath)
	return nil
}

// Error reports an error
func (f *HumanFormatter) Error(err error) {
	fmt.Fprintf(f.writer, "Error: %v\n", err)
}

// Name returns the formatter name
func (f *HumanFormatter) Name() string {
	return "human"
}

// formatBytes formats bytes in human-readable form
func formatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(bytes)/float64(div), "KMGTPE"[exp])
}

// formatDuration formats a duration in human-readable form
func formatDuration(d time.Duration) string {
	if d < time.Second {
		return d.Round(time.Millisecond).String()
	}
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	return fmt.Sprintf("%dm%ds", int(d.Minutes()), int(d.Seconds())%60)
}
