package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"ocmon/internal/cli"
	"ocmon/internal/pipeline"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "One-shot snapshot of the most recent workflow",
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

type statusPayload struct {
	WorkflowID         string    `json:"workflow_id"`
	Project            string    `json:"project,omitempty"`
	State              string    `json:"state"`
	Sessions           int       `json:"sessions"`
	SubAgents          int       `json:"sub_agents"`
	Interactions       int       `json:"interactions"`
	Model              string    `json:"model,omitempty"`
	TotalTokens        int64     `json:"total_tokens"`
	Cost               float64   `json:"cost_usd"`
	BurnRate           float64   `json:"burn_rate_tok_per_sec"`
	ContextSize        int64     `json:"context_size"`
	ContextWindow      int64     `json:"context_window"`
	ContextPercentage  float64   `json:"context_pct"`
	DurationSecs       int64     `json:"duration_secs"`
	DurationPercentage float64   `json:"budget_pct"`
	SessionQuota       int64     `json:"session_quota,omitempty"`
	LastActivity       time.Time `json:"last_activity"`
}

func runStatus(_ *cobra.Command, _ []string) error {
	cfg := loadConfig()

	src, err := openSource(cfg)
	if err != nil {
		return err
	}
	defer src.Close()

	workflows, err := src.RecentWorkflows(context.Background(), cfg.General.SessionLimit)
	if err != nil {
		return err
	}
	if len(workflows) == 0 {
		if flagJSON {
			return printJSON(map[string]any{"workflows": 0})
		}
		fmt.Println("\n  No opencode sessions found.")
		return nil
	}

	now := time.Now()
	view := pipeline.Snapshot(workflows[0], cfg.PricingData(), now)
	w := &view.Workflow
	activity := cli.ClassifyActivity(now.Sub(w.LastActivity()))
	cost, _ := view.TotalCost.Float64()

	if flagJSON {
		payload := statusPayload{
			WorkflowID:         w.WorkflowID(),
			Project:            w.Project(),
			State:              activity.Label(),
			Sessions:           w.SessionCount(),
			SubAgents:          len(w.SubAgents),
			Model:              recentModel(&view),
			TotalTokens:        view.TotalTokens.Total(),
			Cost:               cost,
			BurnRate:           view.BurnRate,
			ContextSize:        view.Context.ContextSize,
			ContextWindow:      view.Context.ContextWindow,
			ContextPercentage:  view.Context.UsagePercentage,
			DurationSecs:       int64(w.Duration().Seconds()),
			DurationPercentage: view.DurationPercentage,
			SessionQuota:       view.SessionQuota,
			LastActivity:       w.LastActivity(),
		}
		for _, s := range w.AllSessions() {
			payload.Interactions += s.InteractionCount()
		}
		return printJSON(payload)
	}

	theme := cli.ThemeByName(cfg.Appearance.Theme)
	stateStyle := lipgloss.NewStyle().Bold(true).Foreground(theme.ActivityColor(activity))
	ctxStyle := lipgloss.NewStyle().Foreground(theme.UtilizationColor(view.Context.UsagePercentage))
	budStyle := lipgloss.NewStyle().Foreground(theme.UtilizationColor(view.DurationPercentage))

	fmt.Println()
	fmt.Printf("  Workflow:  %s", w.WorkflowID())
	if p := w.Project(); p != "" {
		fmt.Printf("  (%s)", p)
	}
	fmt.Println()
	fmt.Printf("  State:     %s  (last activity %s)\n",
		stateStyle.Render(activity.Label()), cli.FormatRelTime(w.LastActivity()))
	fmt.Printf("  Sessions:  %d", w.SessionCount())
	if n := len(w.SubAgents); n > 0 {
		fmt.Printf("  (%d sub-agents)", n)
	}
	fmt.Println()
	if m := recentModel(&view); m != "" {
		fmt.Printf("  Model:     %s\n", m)
	}
	fmt.Println()
	fmt.Printf("  Tokens:    %s\n", cli.FormatTokens(view.TotalTokens.Total()))
	fmt.Printf("  Cost:      %s\n", cli.FormatCost(cost))
	fmt.Printf("  Burn:      %s\n", cli.FormatBurnRate(view.BurnRate))
	fmt.Println()
	fmt.Printf("  Context:   %s %s  (%s / %s)\n",
		cli.Bar(view.Context.UsagePercentage, 100, 20),
		ctxStyle.Render(cli.FormatPercent(view.Context.UsagePercentage)),
		cli.FormatTokens(view.Context.ContextSize),
		cli.FormatTokens(view.Context.ContextWindow))
	fmt.Printf("  Budget:    %s %s  (%s elapsed)\n",
		cli.Bar(view.DurationPercentage, 100, 20),
		budStyle.Render(cli.FormatPercent(view.DurationPercentage)),
		cli.FormatDuration(w.Duration()))
	fmt.Println()

	return nil
}

func recentModel(v *pipeline.View) string {
	if v.RecentFile == nil {
		return ""
	}
	return v.RecentFile.ModelID
}
