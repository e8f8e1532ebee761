package cli

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/sdejongh/filedrift/internal/platform"
	"github.com/sdejongh/filedrift/pkg/config"
	"github.com/sdejongh/filedrift/pkg/models"
)

// validateCompareFlags validates the compare/plan command flags.
// Existence of the roots is deliberately not checked here: a missing
// root yields an empty inventory and a reported error downstream, not
// a setup failure.
func validateCompareFlags() error {
	if err := platform.ValidatePath(compareFlags.Source); err != nil {
		return fmt.Errorf("invalid source path: %w", err)
	}
	if err := platform.ValidatePath(compareFlags.Target); err != nil {
		return fmt.Errorf("invalid target path: %w", err)
	}

	sourceAbs, err := filepath.Abs(platform.NormalizePath(compareFlags.Source))
	if err != nil {
		return fmt.Errorf("failed to resolve source path: %w", err)
	}
	targetAbs, err := filepath.Abs(platform.NormalizePath(compareFlags.Target))
	if err != nil {
		return fmt.Errorf("failed to resolve target path: %w", err)
	}

	if sourceAbs == targetAbs {
		return fmt.Errorf("source and target cannot be the same: %s", sourceAbs)
	}

	validFormats := map[string]bool{"human": true, "json": true, "": true}
	if !validFormats[compareFlags.Format] {
		return fmt.Errorf("invalid output format: %s (valid: human, json)", compareFlags.Format)
	}

	return nil
}

// loadConfig loads configuration from file or returns default
func loadConfig() (*config.Config, error) {
	if globalFlags.ConfigFile != "" {
		return config.LoadFromFile(globalFlags.ConfigFile)
	}
	return config.LoadDefault()
}

// applyFlagsToConfig overrides config values with command-line flags
func applyFlagsToConfig(cfg *config.Config, cmd flagChecker) {
	if cmd.Changed("full-scan") {
		cfg.Scan.FullScan = compareFlags.FullScan
	}
	if compareFlags.CSVPath != "" {
		cfg.Output.CSVPath = compareFlags.CSVPath
	}
	if compareFlags.Format != "" {
		cfg.Output.Format = compareFlags.Format
	}
	if globalFlags.Quiet {
		cfg.Output.Progress = false
		cfg.Output.Quiet = true
	}
	if globalFlags.Verbose {
		cfg.Output.Progress = true
	}
}

// flagChecker is the subset of cobra's flag set used here
type flagChecker interface {
	Changed(name string) bool
}

// createCompareOperation creates a comparison operation from configuration
func createCompareOperation(cfg *config.Config) (*models.CompareOperation, error) {
	operation := &models.CompareOperation{
		ID:                         uuid.New().String(),
		SourcePath:                 platform.NormalizePath(compareFlags.Source),
		TargetPath:                 platform.NormalizePath(compareFlags.Target),
		CSVPath:                    cfg.Output.CSVPath,
		FullScan:                   cfg.Scan.FullScan,
		ExcludeHighConfidenceMoved: compareFlags.ExcludeHighConfidenceMoved,
		ExtraIgnore:                cfg.Scan.Ignore,
		ScanWorkers:                cfg.Scan.Workers,
		CreatedAt:                  time.Now(),
	}

	if err := operation.Validate(); err != nil {
		return nil, err
	}

	return operation, nil
}
