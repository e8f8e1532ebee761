package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/sdejongh/filedrift/pkg/config"
	"github.com/sdejongh/filedrift/pkg/logging"
	"github.com/sdejongh/filedrift/pkg/output"
	"github.com/sdejongh/filedrift/pkg/reconcile"
)

// CompareFlags holds compare command flags
type CompareFlags struct {
	Source                     string
	Target                     string
	CSVPath                    string
	FullScan                   bool
	ExcludeHighConfidenceMoved bool
	Format                     string
	// Logging flags
	LogFile   string
	LogFormat string
	LogLevel  string
}

var compareFlags CompareFlags

// NewCompareCommand creates the compare command
func NewCompareCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Compare a source tree against a target tree",
		Long: `Compare a smaller source tree against a larger target tree and report
which source files are missing, moved, or duplicated, and which
directories are entirely absent from the target. Matching is by
filename and size only; contents are never read.`,
		RunE: runCompare,
	}

	// Required flags
	cmd.Flags().StringVarP(&compareFlags.Source, "source", "s", "", "source directory path (required)")
	cmd.Flags().StringVarP(&compareFlags.Target, "target", "t", "", "target directory path (required)")
	cmd.MarkFlagRequired("source")
	cmd.MarkFlagRequired("target")

	// Optional flags
	cmd.Flags().StringVarP(&compareFlags.CSVPath, "output", "o", "", "output CSV file path (default: missing_files.csv)")
	cmd.Flags().BoolVar(&compareFlags.FullScan, "full-scan", false, "scan the whole target instead of only the source's top-level subdirectories")
	cmd.Flags().BoolVar(&compareFlags.ExcludeHighConfidenceMoved, "exclude-high-confidence-moved", false, "exclude high-confidence moved files from the output")
	cmd.Flags().StringVar(&compareFlags.Format, "format", "", "summary format: human, json")

	// Logging flags
	cmd.Flags().StringVar(&compareFlags.LogFile, "log-file", "", "write logs to file (enables logging)")
	cmd.Flags().StringVar(&compareFlags.LogFormat, "log-format", "text", "log format: text, json")
	cmd.Flags().StringVar(&compareFlags.LogLevel, "log-level", "info", "log level: debug, info, warn, error")

	return cmd
}

func runCompare(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if err := validateCompareFlags(); err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyFlagsToConfig(cfg, cmd.Flags())

	operation, err := createCompareOperation(cfg)
	if err != nil {
		return fmt.Errorf("failed to create comparison: %w", err)
	}

	formatter := createFormatter(cfg)

	logger, err := createLogger(compareFlags.LogFile, compareFlags.LogFormat, compareFlags.LogLevel)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}

	engine := reconcile.NewEngine(operation, formatter, logger)

	report, err := engine.Run(ctx)

	// The run is over either way; close before os.Exit skips any defers.
	logger.Close()

	if err != nil {
		// Failed and cancelled runs map to distinct exit codes, so the
		// error is reported here instead of bubbling up as a generic one.
		formatter.Error(fmt.Errorf("comparison failed: %w", err))
		os.Exit(report.Status.ExitCode())
	}

	if err := formatter.Complete(report); err != nil {
		return fmt.Errorf("failed to write summary: %w", err)
	}

	os.Exit(report.Status.ExitCode())
	return nil
}

// createFormatter picks the summary formatter. Progress bars are only
// drawn on an interactive terminal.
func createFormatter(cfg *config.Config) output.Formatter {
	if cfg.Output.Format == "json" {
		return output.NewJSONFormatter(os.Stdout)
	}

	showProgress := cfg.Output.Progress && term.IsTerminal(int(os.Stdout.Fd()))
	return output.NewHumanFormatter(os.Stdout, showProgress, cfg.Output.Quiet)
}

// createLogger creates a logger based on configuration
func createLogger(logFile, logFormat, logLevel string) (logging.Logger, error) {
	if logFile == "" {
		return logging.NewNullLogger(), nil
	}

	var format logging.Format
	switch logFormat {
	case "json":
		format = logging.FormatJSON
	default:
		format = logging.FormatText
	}

	cfg := logging.FileLoggerConfig{
		Path:    logFile,
		Format:  format,
		Level:   logging.ParseLevel(logLevel),
		MaxSize: 10 * 1024 * 1024, // 10 MB
	}

	return logging.NewFileLogger(cfg)
}
