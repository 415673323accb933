package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"ocmon/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	RunE:  runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(_ *cobra.Command, _ []string) error {
	cfg := loadConfig()

	if flagJSON {
		return printJSON(cfg)
	}

	fmt.Printf("  Config file: %s\n", config.ConfigPath())
	if config.Exists() {
		fmt.Println("  Status: loaded")
	} else {
		fmt.Println("  Status: using defaults (no config file)")
	}
	fmt.Println()

	fmt.Println("  [General]")
	source := cfg.General.Source
	if source == "" {
		source = "auto"
	}
	fmt.Printf("    Source:           %s\n", source)
	fmt.Printf("    Refresh interval: %ds\n", cfg.General.RefreshIntervalSecs)
	fmt.Printf("    Session limit:    %d\n", cfg.General.SessionLimit)
	fmt.Println()

	fmt.Println("  [Paths]")
	printPath := func(label, value string) {
		if value == "" {
			value = "(auto-detect)"
		}
		fmt.Printf("    %-13s %s\n", label+":", value)
	}
	printPath("Storage dir", cfg.Paths.StorageDir)
	printPath("Database", cfg.Paths.DatabasePath)
	printPath("Export dir", cfg.Paths.ExportDir)
	fmt.Println()

	fmt.Println("  [Appearance]")
	fmt.Printf("    Theme: %s\n", cfg.Appearance.Theme)
	fmt.Println()

	if n := len(cfg.Pricing.Overrides); n > 0 {
		fmt.Printf("  [Pricing] %d model override(s)\n", n)
		fmt.Println()
	}

	fmt.Println("  Run `ocmon setup` to reconfigure.")
	return nil
}
