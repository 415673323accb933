package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"ocmon/internal/cli"
	"ocmon/internal/config"
	"ocmon/internal/model"
	"ocmon/internal/pipeline"
	"ocmon/internal/source"
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions [session-id]",
	Short: "Recent session list, or detail for one session",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runSessions,
}

func init() {
	rootCmd.AddCommand(sessionsCmd)
}

type sessionPayload struct {
	SessionID    string    `json:"session_id"`
	ParentID     string    `json:"parent_id,omitempty"`
	Project      string    `json:"project,omitempty"`
	Title        string    `json:"title,omitempty"`
	Start        time.Time `json:"start"`
	LastActivity time.Time `json:"last_activity"`
	Interactions int       `json:"interactions"`
	Tokens       int64     `json:"tokens"`
	Cost         float64   `json:"cost_usd"`
}

func runSessions(_ *cobra.Command, args []string) error {
	cfg := loadConfig()

	workflows, err := loadWorkflows(cfg)
	if err != nil {
		return err
	}
	sessions := flattenSessions(workflows)

	if len(args) == 1 {
		return showSession(cfg, sessions, args[0])
	}
	if len(sessions) == 0 {
		if flagJSON {
			return printJSON([]sessionPayload{})
		}
		fmt.Println("\n  No opencode sessions found.")
		return nil
	}

	pricing := cfg.PricingData()

	if flagJSON {
		payload := make([]sessionPayload, 0, len(sessions))
		for i := range sessions {
			payload = append(payload, sessionJSON(&sessions[i], pricing))
		}
		return printJSON(payload)
	}

	fmt.Println()
	rows := make([][]string, 0, len(sessions))
	for i := range sessions {
		s := &sessions[i]
		start := ""
		if !s.StartTime().IsZero() {
			start = s.StartTime().Local().Format("Jan 02 15:04")
		}

		id := s.SessionID
		if s.IsSubAgent() {
			id += " (sub)"
		}
		cost, _ := pipeline.SessionCost(s, pricing).Float64()

		rows = append(rows, []string{
			truncate(id, 34),
			truncate(s.Project, 14),
			start,
			cli.FormatNumber(int64(s.InteractionCount())),
			cli.FormatTokens(s.TotalTokens().Total()),
			cli.FormatCost(cost),
		})
	}

	fmt.Print(cli.Table{
		Title:   fmt.Sprintf("SESSIONS  (%d most recent)", len(sessions)),
		Headers: []string{"Session", "Project", "Start", "Msgs", "Tokens", "Cost"},
		Rows:    rows,
		Theme:   cli.ThemeByName(cfg.Appearance.Theme),
	}.Render())

	return nil
}

// showSession prints the detail view for one session. The flattened list
// is checked first; the file store is probed directly for sessions that
// fell outside the poll limit.
func showSession(cfg config.Config, sessions []model.SessionData, id string) error {
	var found *model.SessionData
	for i := range sessions {
		if sessions[i].SessionID == id {
			found = &sessions[i]
			break
		}
	}
	if found == nil {
		base, ok := cfg.Paths.StorageDir, cfg.Paths.StorageDir != ""
		if !ok {
			base, ok = source.FindStorePath()
		}
		if ok {
			if s, err := source.LoadSession(base, id); err == nil {
				found = s
			}
		}
	}
	if found == nil {
		return fmt.Errorf("session %q not found", id)
	}

	pricing := cfg.PricingData()
	if flagJSON {
		return printJSON(sessionJSON(found, pricing))
	}

	view := pipeline.SessionSnapshot(*found, pricing, time.Now())
	cost, _ := view.TotalCost.Float64()

	fmt.Println()
	fmt.Printf("  Session:   %s\n", found.SessionID)
	if found.ParentID != "" {
		fmt.Printf("  Parent:    %s\n", found.ParentID)
	}
	if found.Title != "" {
		fmt.Printf("  Title:     %s\n", found.Title)
	}
	if found.Project != "" {
		fmt.Printf("  Project:   %s\n", found.Project)
	}
	fmt.Printf("  Models:    %s\n", strings.Join(found.ModelsUsed(), ", "))
	fmt.Println()
	fmt.Printf("  Messages:  %d\n", found.InteractionCount())
	fmt.Printf("  Tokens:    %s\n", cli.FormatTokens(found.TotalTokens().Total()))
	fmt.Printf("  Cost:      %s\n", cli.FormatCost(cost))
	fmt.Printf("  Duration:  %s\n", cli.FormatDuration(view.Workflow.Duration()))
	fmt.Printf("  Last seen: %s\n", cli.FormatRelTime(found.LastActivity()))
	fmt.Println()
	return nil
}

func sessionJSON(s *model.SessionData, pricing config.PricingTable) sessionPayload {
	cost, _ := pipeline.SessionCost(s, pricing).Float64()
	return sessionPayload{
		SessionID:    s.SessionID,
		ParentID:     s.ParentID,
		Project:      s.Project,
		Title:        s.Title,
		Start:        s.StartTime(),
		LastActivity: s.LastActivity(),
		Interactions: s.InteractionCount(),
		Tokens:       s.TotalTokens().Total(),
		Cost:         cost,
	}
}
