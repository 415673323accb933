package cmd

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"ocmon/internal/config"
	"ocmon/internal/monitor"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Interactive setup wizard",
	RunE:  runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(_ *cobra.Command, _ []string) error {
	cfg := loadConfig()

	// Show what a run would find before asking anything.
	res := monitor.Validate(cfg)
	fmt.Println()
	fmt.Println("  Welcome to ocmon!")
	if res.Database.Available {
		fmt.Printf("  Found database with %d sessions at %s\n", res.Database.Sessions, res.Database.Path)
	}
	if res.Files.Available {
		fmt.Printf("  Found file store with %d sessions at %s\n", res.Files.Sessions, res.Files.Path)
	}
	if !res.Valid {
		fmt.Println("  No session data found yet; saved settings will apply once opencode runs.")
	}
	fmt.Println()

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Data source").
				Description("Where to read session data from").
				Options(
					huh.NewOption("Auto-detect (database preferred)", ""),
					huh.NewOption("Database", "db"),
					huh.NewOption("File store", "file"),
				).
				Value(&cfg.General.Source),
			huh.NewSelect[int]().
				Title("Refresh interval").
				Description("How often the live dashboard polls").
				Options(
					huh.NewOption("2 seconds", 2),
					huh.NewOption("5 seconds", 5),
					huh.NewOption("10 seconds", 10),
					huh.NewOption("30 seconds", 30),
				).
				Value(&cfg.General.RefreshIntervalSecs),
			huh.NewSelect[int]().
				Title("Session limit").
				Description("Max sessions loaded per poll").
				Options(
					huh.NewOption("20", 20),
					huh.NewOption("50", 50),
					huh.NewOption("100", 100),
				).
				Value(&cfg.General.SessionLimit),
			huh.NewSelect[string]().
				Title("Color theme").
				Options(
					huh.NewOption("Dark", "dark"),
					huh.NewOption("Light", "light"),
				).
				Value(&cfg.Appearance.Theme),
		),
	)

	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			fmt.Println("  Setup canceled, nothing saved.")
			return nil
		}
		return err
	}

	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Printf("\n  Saved to %s\n", config.ConfigPath())
	fmt.Println("  Run `ocmon setup` anytime to reconfigure.")
	fmt.Println()
	return nil
}
