package cmd

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"ocmon/internal/cli"
	"ocmon/internal/monitor"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check that opencode session data can be found and read",
	RunE:  runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(_ *cobra.Command, _ []string) error {
	cfg := loadConfig()
	res := monitor.Validate(cfg)

	if flagJSON {
		if err := printJSON(res); err != nil {
			return err
		}
	} else {
		printValidation(res, cli.ThemeByName(cfg.Appearance.Theme))
	}

	if !res.Valid {
		return errors.New("validation failed")
	}
	return nil
}

func printValidation(res monitor.ValidationResult, theme cli.Theme) {
	good := lipgloss.NewStyle().Foreground(theme.Good)
	warn := lipgloss.NewStyle().Foreground(theme.Warn)
	bad := lipgloss.NewStyle().Foreground(theme.Bad)
	muted := lipgloss.NewStyle().Foreground(theme.Muted)

	fmt.Println()
	printStore := func(name string, info monitor.StoreInfo) {
		switch {
		case info.Error != "":
			fmt.Printf("  %s %s: %s\n", bad.Render("✗"), name, info.Error)
		case !info.Available:
			fmt.Printf("  %s %s: %s\n", muted.Render("-"), name, muted.Render("not found"))
		default:
			detail := fmt.Sprintf("%d sessions", info.Sessions)
			if info.SubAgents > 0 {
				detail += fmt.Sprintf(", %d sub-agents", info.SubAgents)
			}
			fmt.Printf("  %s %s: %s  (%s)\n", good.Render("✓"), name, info.Path, muted.Render(detail))
		}
	}
	printStore("database", res.Database)
	printStore("file store", res.Files)
	fmt.Println()

	for _, issue := range res.Issues {
		fmt.Printf("  %s %s\n", bad.Render("issue:"), issue)
	}
	for _, warning := range res.Warnings {
		fmt.Printf("  %s %s\n", warn.Render("warning:"), warning)
	}
	if len(res.Issues)+len(res.Warnings) > 0 {
		fmt.Println()
	}

	if res.Valid {
		fmt.Printf("  %s\n\n", good.Render("Ready to monitor."))
	}
}
