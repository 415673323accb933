package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"ocmon/internal/cli"
	"ocmon/internal/pipeline"
)

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "Per-model usage breakdown",
	RunE:  runModels,
}

func init() {
	rootCmd.AddCommand(modelsCmd)
}

func runModels(_ *cobra.Command, _ []string) error {
	cfg := loadConfig()

	workflows, err := loadWorkflows(cfg)
	if err != nil {
		return err
	}

	since, until := reportRange()
	models, err := pipeline.AggregateModels(flattenSessions(workflows), cfg.PricingData(), since, until)
	if errors.Is(err, pipeline.ErrNoData) {
		fmt.Println("\n  No model data in the selected period.")
		return nil
	}
	if err != nil {
		return err
	}

	if flagJSON {
		return printJSON(models)
	}

	rows := make([][]string, 0, len(models))
	for _, ms := range models {
		rows = append(rows, []string{
			truncate(ms.Model, 26),
			cli.FormatNumber(int64(ms.Interactions)),
			cli.FormatTokens(ms.Tokens.Input),
			cli.FormatTokens(ms.Tokens.Output),
			cli.FormatCost(ms.Cost),
			fmt.Sprintf("%s %s", cli.Bar(ms.SharePercent, 100, 10), cli.FormatPercent(ms.SharePercent)),
		})
	}

	fmt.Println()
	fmt.Print(cli.Table{
		Title:   fmt.Sprintf("MODEL USAGE  Last %dd", flagDays),
		Headers: []string{"Model", "Msgs", "Input", "Output", "Cost", "Share"},
		Rows:    rows,
		Theme:   cli.ThemeByName(cfg.Appearance.Theme),
	}.Render())

	return nil
}
