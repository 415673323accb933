// Package cmd implements the ocmon CLI commands.
package cmd

import (
	"context"
	"encoding/json"
	"os"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"ocmon/internal/config"
	"ocmon/internal/model"
	"ocmon/internal/monitor"
)

var (
	flagDataDir  string
	flagDBPath   string
	flagSource   string
	flagLimit    int
	flagInterval int
	flagDays     int
	flagJSON     bool
	flagQuiet    bool
)

var rootCmd = &cobra.Command{
	Use:   "ocmon",
	Short: "Live usage monitor for opencode sessions",
	Long: "Track opencode agent workflows as they run: token burn rate,\n" +
		"context window utilization, cost, and session budget.",
	RunE:          runLive,
	SilenceUsage:  true,
	SilenceErrors: false,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&flagDataDir, "data-dir", "d", "", "opencode message storage directory (default: auto-detect)")
	pf.StringVar(&flagDBPath, "db", "", "opencode database path (default: auto-detect)")
	pf.StringVarP(&flagSource, "source", "s", "", "data source: file, db, or auto (default)")
	pf.IntVarP(&flagLimit, "limit", "l", 0, "max sessions to load per poll")
	pf.IntVarP(&flagInterval, "interval", "i", 0, "poll interval in seconds")
	pf.IntVarP(&flagDays, "days", "n", 30, "time window in days for report commands")
	pf.BoolVar(&flagJSON, "json", false, "machine-readable JSON output")
	pf.BoolVarP(&flagQuiet, "quiet", "q", false, "suppress log output")
}

// loadConfig merges the config file with command-line overrides. Flags
// always win.
func loadConfig() config.Config {
	cfg, err := config.Load()
	if err != nil {
		// A broken config file should not brick the tool.
		cfg = config.DefaultConfig()
	}

	if flagDataDir != "" {
		cfg.Paths.StorageDir = flagDataDir
	}
	if flagDBPath != "" {
		cfg.Paths.DatabasePath = flagDBPath
	}
	if flagSource != "" {
		sourceMode := flagSource
		if sourceMode == "auto" {
			sourceMode = ""
		}
		cfg.General.Source = sourceMode
	}
	if flagLimit > 0 {
		cfg.General.SessionLimit = flagLimit
	}
	if flagInterval > 0 {
		cfg.General.RefreshIntervalSecs = flagInterval
	}

	if cfg.General.SessionLimit <= 0 {
		cfg.General.SessionLimit = 50
	}
	if cfg.General.RefreshIntervalSecs <= 0 {
		cfg.General.RefreshIntervalSecs = 5
	}
	return cfg
}

func openSource(cfg config.Config) (monitor.Source, error) {
	return monitor.SelectSource(cfg.General.Source, cfg)
}

// loadWorkflows is the shared one-shot loading path for report commands.
func loadWorkflows(cfg config.Config) ([]model.Workflow, error) {
	src, err := openSource(cfg)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	return src.RecentWorkflows(context.Background(), cfg.General.SessionLimit)
}

// flattenSessions turns grouped workflows back into a flat session list,
// most recent first.
func flattenSessions(workflows []model.Workflow) []model.SessionData {
	var sessions []model.SessionData
	for i := range workflows {
		sessions = append(sessions, workflows[i].AllSessions()...)
	}
	sort.SliceStable(sessions, func(i, j int) bool {
		return sessions[i].LastActivity().After(sessions[j].LastActivity())
	})
	return sessions
}

// reportRange returns the [since, now) window selected by --days.
func reportRange() (time.Time, time.Time) {
	now := time.Now()
	return now.AddDate(0, 0, -flagDays), now
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen-1]) + "…"
}
