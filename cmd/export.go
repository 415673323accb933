package cmd

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/spf13/cobra"
)

var (
	flagExportFormat string
	flagExportOut    string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export session data to a JSON or CSV file",
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&flagExportFormat, "format", "f", "json", "output format: json or csv")
	exportCmd.Flags().StringVarP(&flagExportOut, "out", "o", "", "output path (default: export dir with a timestamped name)")
	rootCmd.AddCommand(exportCmd)
}

func runExport(_ *cobra.Command, _ []string) error {
	if flagExportFormat != "json" && flagExportFormat != "csv" {
		return fmt.Errorf("unknown format %q (want json or csv)", flagExportFormat)
	}

	cfg := loadConfig()

	workflows, err := loadWorkflows(cfg)
	if err != nil {
		return err
	}
	sessions := flattenSessions(workflows)
	if len(sessions) == 0 {
		fmt.Println("\n  No opencode sessions to export.")
		return nil
	}

	pricing := cfg.PricingData()
	payload := make([]sessionPayload, 0, len(sessions))
	for i := range sessions {
		payload = append(payload, sessionJSON(&sessions[i], pricing))
	}

	out := flagExportOut
	if out == "" {
		dir := cfg.Paths.ExportDir
		if dir == "" {
			dir = "."
		}
		name := fmt.Sprintf("ocmon-export-%s.%s",
			time.Now().Format("20060102-150405"), flagExportFormat)
		out = filepath.Join(dir, name)
	}
	if dir := filepath.Dir(out); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating export dir: %w", err)
		}
	}

	f, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("creating export file: %w", err)
	}
	defer f.Close()

	switch flagExportFormat {
	case "json":
		enc := json.NewEncoder(f)
		enc.SetIndent("", "  ")
		if err := enc.Encode(payload); err != nil {
			return fmt.Errorf("writing export: %w", err)
		}
	case "csv":
		if err := writeCSV(f, payload); err != nil {
			return fmt.Errorf("writing export: %w", err)
		}
	}

	fmt.Printf("  Exported %d sessions to %s\n", len(payload), out)
	return nil
}

func writeCSV(f *os.File, sessions []sessionPayload) error {
	w := csv.NewWriter(f)
	if err := w.Write([]string{
		"session_id", "parent_id", "project", "title",
		"start", "last_activity", "interactions", "tokens", "cost_usd",
	}); err != nil {
		return err
	}

	for _, s := range sessions {
		record := []string{
			s.SessionID,
			s.ParentID,
			s.Project,
			s.Title,
			s.Start.Format(time.RFC3339),
			s.LastActivity.Format(time.RFC3339),
			strconv.Itoa(s.Interactions),
			strconv.FormatInt(s.Tokens, 10),
			strconv.FormatFloat(s.Cost, 'f', 4, 64),
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}
