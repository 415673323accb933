package monitor

import (
	"fmt"

	"ocmon/internal/config"
	"ocmon/internal/source"
	"ocmon/internal/store"
)

// StoreInfo describes one discovered data source.
type StoreInfo struct {
	Available bool   `json:"available"`
	Path      string `json:"path,omitempty"`
	Sessions  int    `json:"sessions"`
	SubAgents int    `json:"sub_agents,omitempty"`
	Error     string `json:"error,omitempty"`
}

// ValidationResult is the outcome of an environment check. Issues make
// the setup unusable; warnings are survivable.
type ValidationResult struct {
	Valid    bool      `json:"valid"`
	Issues   []string  `json:"issues,omitempty"`
	Warnings []string  `json:"warnings,omitempty"`
	Database StoreInfo `json:"database"`
	Files    StoreInfo `json:"files"`
}

// Validate probes both session stores and the pricing table and reports
// what a live run would find. It never fails; problems land in the
// result.
func Validate(cfg config.Config) ValidationResult {
	res := ValidationResult{
		Database: probeDatabase(cfg),
		Files:    probeFiles(cfg),
	}

	if !res.Database.Available && !res.Files.Available {
		res.Issues = append(res.Issues,
			"no session data source found: no opencode database or message store")
	}
	if res.Database.Available && res.Database.Sessions == 0 {
		res.Warnings = append(res.Warnings,
			fmt.Sprintf("database %s contains no sessions", res.Database.Path))
	}
	if res.Files.Available && res.Files.Sessions == 0 {
		res.Warnings = append(res.Warnings,
			fmt.Sprintf("message store %s contains no sessions", res.Files.Path))
	}
	if cfg.PricingData().Len() == 0 {
		res.Warnings = append(res.Warnings,
			"pricing table is empty; all costs will report as zero")
	}
	if !config.Exists() {
		res.Warnings = append(res.Warnings,
			fmt.Sprintf("no config file at %s; using defaults", config.ConfigPath()))
	}

	res.Valid = len(res.Issues) == 0
	return res
}

func probeDatabase(cfg config.Config) StoreInfo {
	path, ok := databasePath(cfg)
	if !ok {
		return StoreInfo{}
	}

	info := StoreInfo{Available: true, Path: path}
	db, err := store.Open(path)
	if err != nil {
		info.Available = false
		info.Error = err.Error()
		return info
	}
	defer db.Close()

	stats, err := db.Stats()
	if err != nil {
		info.Available = false
		info.Error = err.Error()
		return info
	}
	info.Sessions = stats.SessionCount
	info.SubAgents = stats.SubAgentCount
	return info
}

func probeFiles(cfg config.Config) StoreInfo {
	base, ok := storagePath(cfg)
	if !ok {
		return StoreInfo{}
	}

	info := StoreInfo{Available: true, Path: base}
	n, err := source.CountSessions(base)
	if err != nil {
		info.Available = false
		info.Error = err.Error()
		return info
	}
	info.Sessions = n
	return info
}
