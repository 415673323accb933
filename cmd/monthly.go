package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"ocmon/internal/cli"
	"ocmon/internal/pipeline"
)

var monthlyCmd = &cobra.Command{
	Use:   "monthly",
	Short: "Monthly usage table",
	RunE:  runMonthly,
}

func init() {
	rootCmd.AddCommand(monthlyCmd)
}

func runMonthly(_ *cobra.Command, _ []string) error {
	cfg := loadConfig()

	workflows, err := loadWorkflows(cfg)
	if err != nil {
		return err
	}

	since, until := reportRange()
	months, err := pipeline.AggregateMonthly(flattenSessions(workflows), cfg.PricingData(), since, until)
	if errors.Is(err, pipeline.ErrNoData) {
		fmt.Println("\n  No data for the selected period.")
		return nil
	}
	if err != nil {
		return err
	}

	if flagJSON {
		return printJSON(months)
	}

	rows := make([][]string, 0, len(months))
	for _, m := range months {
		rows = append(rows, []string{
			m.Month.Format("2006-01"),
			cli.FormatNumber(int64(m.Sessions)),
			cli.FormatNumber(int64(m.Interactions)),
			cli.FormatTokens(m.Tokens.Total()),
			cli.FormatCost(m.Cost),
		})
	}

	fmt.Println()
	fmt.Print(cli.Table{
		Title:   fmt.Sprintf("MONTHLY USAGE  Last %dd", flagDays),
		Headers: []string{"Month", "Sessions", "Msgs", "Tokens", "Cost"},
		Rows:    rows,
		Theme:   cli.ThemeByName(cfg.Appearance.Theme),
	}.Render())

	return nil
}
