package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"ocmon/internal/cli"
	"ocmon/internal/pipeline"
)

var weeklyCmd = &cobra.Command{
	Use:   "weekly",
	Short: "Weekly usage table (Monday start)",
	RunE:  runWeekly,
}

func init() {
	rootCmd.AddCommand(weeklyCmd)
}

func runWeekly(_ *cobra.Command, _ []string) error {
	cfg := loadConfig()

	workflows, err := loadWorkflows(cfg)
	if err != nil {
		return err
	}

	since, until := reportRange()
	weeks, err := pipeline.AggregateWeekly(flattenSessions(workflows), cfg.PricingData(), since, until)
	if errors.Is(err, pipeline.ErrNoData) {
		fmt.Println("\n  No data for the selected period.")
		return nil
	}
	if err != nil {
		return err
	}

	if flagJSON {
		return printJSON(weeks)
	}

	rows := make([][]string, 0, len(weeks))
	for _, w := range weeks {
		rows = append(rows, []string{
			"wk of " + w.WeekStart.Format("Jan 02"),
			cli.FormatNumber(int64(w.Sessions)),
			cli.FormatNumber(int64(w.Interactions)),
			cli.FormatTokens(w.Tokens.Total()),
			cli.FormatCost(w.Cost),
		})
	}

	fmt.Println()
	fmt.Print(cli.Table{
		Title:   fmt.Sprintf("WEEKLY USAGE  Last %dd", flagDays),
		Headers: []string{"Week", "Sessions", "Msgs", "Tokens", "Cost"},
		Rows:    rows,
		Theme:   cli.ThemeByName(cfg.Appearance.Theme),
	}.Render())

	return nil
}
