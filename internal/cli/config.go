package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sdejongh/filedrift/pkg/config"
)

// NewConfigCommand creates the config command
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration",
		Long:  `View or modify filedrift configuration.`,
	}

	cmd.AddCommand(newConfigShowCommand())
	cmd.AddCommand(newConfigInitCommand())

	return cmd
}

func newConfigShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			mode := "smart"
			if cfg.Scan.FullScan {
				mode = "full"
			}

			fmt.Printf("Scan Mode: %s\n", mode)
			fmt.Printf("Scan Workers: %d\n", cfg.Scan.Workers)
			fmt.Printf("Extra Ignored Names: %v\n", cfg.Scan.Ignore)
			fmt.Printf("Output Format: %s\n", cfg.Output.Format)
			fmt.Printf("Output CSV Path: %s\n", cfg.Output.CSVPath)
			fmt.Printf("Log Format: %s\n", cfg.Logging.Format)
			fmt.Printf("Log Level: %s\n", cfg.Logging.Level)

			return nil
		},
	}
}

func newConfigInitCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create default configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.DefaultConfigPath()
			if err != nil {
				return err
			}

			cfg := config.Default()
			if err := config.SaveToFile(cfg, path); err != nil {
				return err
			}

			fmt.Printf("Configuration file created at: %s\n", path)
			return nil
		},
	}
}
