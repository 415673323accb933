package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"ocmon/internal/cli"
	"ocmon/internal/pipeline"
)

var dailyCmd = &cobra.Command{
	Use:   "daily",
	Short: "Daily usage table",
	RunE:  runDaily,
}

func init() {
	rootCmd.AddCommand(dailyCmd)
}

func runDaily(_ *cobra.Command, _ []string) error {
	cfg := loadConfig()

	workflows, err := loadWorkflows(cfg)
	if err != nil {
		return err
	}

	since, until := reportRange()
	days, err := pipeline.AggregateDaily(flattenSessions(workflows), cfg.PricingData(), since, until)
	if errors.Is(err, pipeline.ErrNoData) {
		fmt.Println("\n  No data for the selected period.")
		return nil
	}
	if err != nil {
		return err
	}

	if flagJSON {
		return printJSON(days)
	}

	rows := make([][]string, 0, len(days))
	for _, d := range days {
		rows = append(rows, []string{
			d.Date.Format("2006-01-02"),
			d.Date.Format("Mon"),
			cli.FormatNumber(int64(d.Sessions)),
			cli.FormatNumber(int64(d.Interactions)),
			cli.FormatTokens(d.Tokens.Total()),
			cli.FormatCost(d.Cost),
		})
	}

	fmt.Println()
	fmt.Print(cli.Table{
		Title:   fmt.Sprintf("DAILY USAGE  Last %dd", flagDays),
		Headers: []string{"Date", "Day", "Sessions", "Msgs", "Tokens", "Cost"},
		Rows:    rows,
		Theme:   cli.ThemeByName(cfg.Appearance.Theme),
	}.Render())

	// Sparkline runs oldest to newest.
	tokens := make([]float64, len(days))
	for i, d := range days {
		tokens[len(days)-1-i] = float64(d.Tokens.Total())
	}
	fmt.Printf("  tokens/day %s\n\n", cli.Sparkline(tokens))

	return nil
}
