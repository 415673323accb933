package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"ocmon/internal/cli"
	"ocmon/internal/pipeline"
)

var projectsCmd = &cobra.Command{
	Use:   "projects",
	Short: "Per-project usage breakdown",
	RunE:  runProjects,
}

func init() {
	rootCmd.AddCommand(projectsCmd)
}

func runProjects(_ *cobra.Command, _ []string) error {
	cfg := loadConfig()

	workflows, err := loadWorkflows(cfg)
	if err != nil {
		return err
	}

	projects, err := pipeline.AggregateProjects(workflows, cfg.PricingData())
	if errors.Is(err, pipeline.ErrNoData) {
		fmt.Println("\n  No opencode sessions found.")
		return nil
	}
	if err != nil {
		return err
	}

	if flagJSON {
		return printJSON(projects)
	}

	rows := make([][]string, 0, len(projects))
	for _, ps := range projects {
		rows = append(rows, []string{
			truncate(ps.Project, 22),
			cli.FormatNumber(int64(ps.Workflows)),
			cli.FormatNumber(int64(ps.Sessions)),
			cli.FormatNumber(int64(ps.Interactions)),
			cli.FormatTokens(ps.Tokens.Total()),
			cli.FormatCost(ps.Cost),
		})
	}

	fmt.Println()
	fmt.Print(cli.Table{
		Title:   "PROJECT USAGE",
		Headers: []string{"Project", "Workflows", "Sessions", "Msgs", "Tokens", "Cost"},
		Rows:    rows,
		Theme:   cli.ThemeByName(cfg.Appearance.Theme),
	}.Render())

	return nil
}
