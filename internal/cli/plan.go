package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sdejongh/filedrift/pkg/scan"
)

// NewPlanCommand creates the plan command
func NewPlanCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Preview what a comparison would scan, without comparing",
		Long: `Scan only the source tree and print the scan plan for the target:
which target subdirectories would be visited in smart mode, and which
source subdirectories are absent from the target entirely. No
comparison is performed and no output file is written.`,
		RunE: runPlan,
	}

	// Reuse compare flags for the preview
	cmd.Flags().StringVarP(&compareFlags.Source, "source", "s", "", "source directory path (required)")
	cmd.Flags().StringVarP(&compareFlags.Target, "target", "t", "", "target directory path (required)")
	cmd.MarkFlagRequired("source")
	cmd.MarkFlagRequired("target")

	cmd.Flags().BoolVar(&compareFlags.FullScan, "full-scan", false, "plan a full target scan instead of a smart scan")

	return cmd
}

func runPlan(cmd *cobra.Command, args []string) error {
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

	out := os.Stdout
	mode := "smart scan"
	if cfg.Scan.FullScan {
		mode = "full scan"
	}

	fmt.Fprintf(out, "Plan preview\n")
	fmt.Fprintf(out, "  Source: %s\n", compareFlags.Source)
	fmt.Fprintf(out, "  Target: %s\n", compareFlags.Target)
	fmt.Fprintf(out, "  Mode:   %s\n\n", mode)

	scanner := scan.NewScanner(compareFlags.Source, scan.NewIgnoreFilter(cfg.Scan.Ignore...), nil)
	inv, err := scanner.Scan(ctx)
	if err != nil {
		fmt.Fprintf(out, "Error: %v\n", err)
	}

	if inv.Len() == 0 {
		fmt.Fprintf(out, "No files found in source directory, nothing to compare.\n")
		return nil
	}

	subdirs := inv.TopLevelDirs()
	fmt.Fprintf(out, "Total files in source: %d\n", inv.Len())
	fmt.Fprintf(out, "Root files:            %d\n", len(inv.RootFiles))
	fmt.Fprintf(out, "Subdirectories:        %d\n\n", len(subdirs))

	if cfg.Scan.FullScan {
		fmt.Fprintf(out, "Full scan mode: the whole target tree will be scanned.\n")
		return nil
	}

	existing, missing := scan.ExistingSubdirs(compareFlags.Target, subdirs)

	fmt.Fprintf(out, "Target scan plan:\n")
	for _, d := range existing {
		fmt.Fprintf(out, "  + %s (will scan on target)\n", d)
	}
	for _, d := range missing {
		count := 0
		prefix := strings.ToLower(d) + "/"
		for _, rec := range inv.SortedRecords() {
			if strings.HasPrefix(strings.ToLower(rec.RelativePath), prefix) {
				count++
			}
		}
		fmt.Fprintf(out, "  - %s (not on target, %d files will be reported missing)\n", d, count)
	}

	fmt.Fprintf(out, "\nSubdirectories to scan on target: %d\n", len(existing))
	fmt.Fprintf(out, "Subdirectories not on target:     %d\n", len(missing))
	return nil
}
