package source

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"ocmon/internal/model"
)

// ListResult extends the session list with scan diagnostics.
type ListResult struct {
	Sessions     []model.SessionData
	SkippedFiles int
}

// ListSessions loads the most recently active sessions from basePath,
// newest first. limit <= 0 means no limit. Individual unreadable or
// malformed interaction files are skipped and counted; they never abort
// the scan.
func ListSessions(basePath string, limit int) (*ListResult, error) {
	dirs, err := findSessionDirs(basePath)
	if err != nil {
		if os.IsNotExist(err) {
			return &ListResult{}, nil
		}
		return nil, err
	}

	if limit > 0 && len(dirs) > limit {
		dirs = dirs[:limit]
	}

	result := &ListResult{}
	for _, d := range dirs {
		session, skipped := loadSession(basePath, d)
		result.SkippedFiles += skipped
		if session != nil {
			result.Sessions = append(result.Sessions, *session)
		}
	}
	return result, nil
}

// LoadSession reads a single session directory. Used by batch report
// callers that point at one session rather than the whole store.
func LoadSession(basePath, sessionID string) (*model.SessionData, error) {
	dir := filepath.Join(basePath, sessionID)
	if _, err := os.Stat(dir); err != nil {
		return nil, err
	}
	session, _ := loadSession(basePath, sessionDir{id: sessionID, path: dir})
	return session, nil
}

func loadSession(basePath string, d sessionDir) (*model.SessionData, int) {
	entries, err := os.ReadDir(d.path)
	if err != nil {
		return nil, 0
	}

	session := &model.SessionData{SessionID: d.id}
	applySessionInfo(session, basePath)

	skipped := 0
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".json" {
			continue
		}
		file, ok := parseInteraction(filepath.Join(d.path, e.Name()), d.id)
		if !ok {
			skipped++
			continue
		}
		if file != nil {
			session.Files = append(session.Files, *file)
		}
	}

	if len(session.Files) == 0 {
		return nil, skipped
	}
	return session, skipped
}

// applySessionInfo fills parent/project/title from the session metadata
// file when present. A missing or unreadable info file leaves the session
// a root with no project, which is fine for display.
func applySessionInfo(session *model.SessionData, basePath string) {
	data, err := os.ReadFile(sessionInfoPath(basePath, session.SessionID))
	if err != nil {
		return
	}
	var info RawSessionInfo
	if err := json.Unmarshal(data, &info); err != nil {
		return
	}
	session.ParentID = info.ParentID
	session.Title = info.Title
	session.Project = projectFromDirectory(info.Directory)
}

// parseInteraction reads one message file. Returns (nil, true) for valid
// records that aren't model invocations (user messages), and (nil, false)
// for unreadable or malformed files.
func parseInteraction(path, sessionID string) (*model.InteractionFile, bool) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, false
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, false
	}

	var raw RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, false
	}

	// Only assistant messages represent model invocations.
	if raw.ModelID == "" || raw.Role == "user" {
		return nil, true
	}

	file := &model.InteractionFile{
		FileName:  filepath.Base(path),
		SessionID: sessionID,
		ModelID:   raw.ModelID,
		ModTime:   info.ModTime(),
	}

	if raw.Tokens != nil {
		file.Tokens = model.TokenUsage{
			Input:  raw.Tokens.Input,
			Output: raw.Tokens.Output,
		}
		if raw.Tokens.Cache != nil {
			file.Tokens.CacheWrite = raw.Tokens.Cache.Write
			file.Tokens.CacheRead = raw.Tokens.Cache.Read
		}
	}

	if raw.Time != nil && raw.Time.Created > 0 {
		td := &model.TimeData{Created: time.UnixMilli(raw.Time.Created)}
		if raw.Time.Completed > raw.Time.Created {
			td.DurationMs = raw.Time.Completed - raw.Time.Created
		}
		file.Time = td
	}

	return file, true
}
