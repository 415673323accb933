// Package store provides read-only access to opencode's embedded sqlite
// session database.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"ocmon/internal/model"

	_ "modernc.org/sqlite" // register sqlite driver
)

// DB wraps the opencode session database.
type DB struct {
	db *sql.DB
}

// FindDatabasePath probes the well-known opencode database location.
// Absence is a normal result, not an error.
func FindDatabasePath() (string, bool) {
	if dir := os.Getenv("OPENCODE_DATA"); dir != "" {
		return probeFile(filepath.Join(dir, "opencode.db"))
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", false
	}

	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		dataHome = filepath.Join(home, ".local", "share")
	}
	return probeFile(filepath.Join(dataHome, "opencode", "opencode.db"))
}

func probeFile(path string) (string, bool) {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return "", false
	}
	return path, true
}

// Open opens the database at the given path read-only.
func Open(dbPath string) (*DB, error) {
	db, err := sql.Open("sqlite", dbPath+"?_pragma=query_only(on)&_pragma=busy_timeout(2000)")
	if err != nil {
		return nil, fmt.Errorf("opening session db: %w", err)
	}
	return &DB{db: db}, nil
}

// Close closes the database.
func (d *DB) Close() error {
	return d.db.Close()
}

// DatabaseStats holds diagnostic counts used by setup validation.
type DatabaseStats struct {
	SessionCount  int
	SubAgentCount int
}

// Stats counts main and sub-agent sessions.
func (d *DB) Stats() (DatabaseStats, error) {
	var stats DatabaseStats
	err := d.db.QueryRow(
		`SELECT COUNT(*) FROM session WHERE parent_id IS NULL OR parent_id = ''`,
	).Scan(&stats.SessionCount)
	if err != nil {
		return stats, fmt.Errorf("counting sessions: %w", err)
	}
	err = d.db.QueryRow(
		`SELECT COUNT(*) FROM session WHERE parent_id IS NOT NULL AND parent_id <> ''`,
	).Scan(&stats.SubAgentCount)
	if err != nil {
		return stats, fmt.Errorf("counting sub-agents: %w", err)
	}
	return stats, nil
}

// sessionRow is one row of the session table.
type sessionRow struct {
	id        string
	parentID  string
	title     string
	directory string
}

// RecentWorkflows returns the most recently active workflows, pre-grouped
// with their sub-agent sessions, most recent first. limit <= 0 means no
// limit. An empty database yields an empty slice, not an error.
func (d *DB) RecentWorkflows(limit int) ([]model.Workflow, error) {
	rows, err := d.db.Query(`SELECT id, parent_id, title, directory FROM session`)
	if err != nil {
		return nil, fmt.Errorf("listing sessions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	byID := make(map[string]sessionRow)
	var order []string
	for rows.Next() {
		var r sessionRow
		var parent, title, directory sql.NullString
		if err := rows.Scan(&r.id, &parent, &title, &directory); err != nil {
			return nil, fmt.Errorf("scanning session: %w", err)
		}
		r.parentID = parent.String
		r.title = title.String
		r.directory = directory.String
		byID[r.id] = r
		order = append(order, r.id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Group children under their ultimate root. A parent chain that leads
	// nowhere promotes the child to a root of its own.
	children := make(map[string][]string)
	var roots []string
	for _, id := range order {
		r := byID[id]
		if r.parentID == "" {
			roots = append(roots, id)
			continue
		}
		root := resolveRoot(byID, id)
		if root == id {
			roots = append(roots, id)
		} else {
			children[root] = append(children[root], id)
		}
	}

	workflows := make([]model.Workflow, 0, len(roots))
	for _, rootID := range roots {
		main, err := d.loadSessionData(byID[rootID])
		if err != nil {
			return nil, err
		}

		wf := model.Workflow{MainSession: *main}
		subIDs := children[rootID]
		sort.Strings(subIDs)
		for _, subID := range subIDs {
			sub, err := d.loadSessionData(byID[subID])
			if err != nil {
				return nil, err
			}
			if len(sub.Files) == 0 {
				continue
			}
			wf.SubAgents = append(wf.SubAgents, *sub)
		}

		if len(wf.MainSession.Files) == 0 && len(wf.SubAgents) == 0 {
			continue
		}
		workflows = append(workflows, wf)
	}

	sort.SliceStable(workflows, func(i, j int) bool {
		ti, tj := workflows[i].LastActivity(), workflows[j].LastActivity()
		if !ti.Equal(tj) {
			return ti.After(tj)
		}
		return workflows[i].WorkflowID() < workflows[j].WorkflowID()
	})

	if limit > 0 && len(workflows) > limit {
		workflows = workflows[:limit]
	}
	return workflows, nil
}

// resolveRoot follows parent links to the top of the chain. Dangling
// parents and cycles both resolve to the starting session.
func resolveRoot(byID map[string]sessionRow, id string) string {
	seen := map[string]struct{}{id: {}}
	cur := id
	for {
		r := byID[cur]
		if r.parentID == "" {
			if cur == id {
				return id
			}
			return cur
		}
		parent, ok := byID[r.parentID]
		if !ok {
			return id
		}
		if _, looped := seen[parent.id]; looped {
			return id
		}
		seen[parent.id] = struct{}{}
		cur = parent.id
	}
}

func (d *DB) loadSessionData(r sessionRow) (*model.SessionData, error) {
	session := &model.SessionData{
		SessionID: r.id,
		ParentID:  r.parentID,
		Title:     r.title,
		Project:   projectFromDirectory(r.directory),
	}

	rows, err := d.db.Query(`SELECT id, model_id, input_tokens, output_tokens,
		cache_write_tokens, cache_read_tokens, time_created, duration_ms
		FROM message WHERE session_id = ? ORDER BY time_created`, r.id)
	if err != nil {
		return nil, fmt.Errorf("loading messages for %s: %w", r.id, err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var (
			id, modelID         sql.NullString
			created, durationMs sql.NullInt64
			tokens              model.TokenUsage
		)
		err := rows.Scan(&id, &modelID, &tokens.Input, &tokens.Output,
			&tokens.CacheWrite, &tokens.CacheRead, &created, &durationMs)
		if err != nil {
			// A single bad row is skipped; partial data beats no data.
			continue
		}
		if modelID.String == "" {
			continue
		}

		file := model.InteractionFile{
			FileName:  id.String,
			SessionID: r.id,
			ModelID:   modelID.String,
			Tokens:    tokens,
		}
		if created.Valid && created.Int64 > 0 {
			ts := time.UnixMilli(created.Int64)
			// The database path keys recency off the creation timestamp.
			file.ModTime = ts
			file.Time = &model.TimeData{Created: ts, DurationMs: durationMs.Int64}
		}
		session.Files = append(session.Files, file)
	}
	return session, rows.Err()
}

func projectFromDirectory(directory string) string {
	if directory == "" {
		return ""
	}
	return filepath.Base(filepath.Clean(directory))
}
