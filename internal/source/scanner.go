// Package source reads opencode's file-based session storage: one
// directory per session under storage/message, one JSON file per
// interaction, with session metadata under storage/session/info.
package source

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// FindStorePath probes the well-known opencode message storage location.
// Absence is a normal result, not an error.
func FindStorePath() (string, bool) {
	if dir := os.Getenv("OPENCODE_DATA"); dir != "" {
		return probeDir(filepath.Join(dir, "storage", "message"))
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", false
	}

	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		dataHome = filepath.Join(home, ".local", "share")
	}
	return probeDir(filepath.Join(dataHome, "opencode", "storage", "message"))
}

func probeDir(path string) (string, bool) {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return "", false
	}
	return path, true
}

// sessionDir pairs a session id with its directory and latest mtime.
type sessionDir struct {
	id      string
	path    string
	modTime int64 // unix nanos of the directory's newest entry
}

// findSessionDirs lists per-session directories under basePath, newest
// first. Unreadable entries are skipped.
func findSessionDirs(basePath string) ([]sessionDir, error) {
	entries, err := os.ReadDir(basePath)
	if err != nil {
		return nil, err
	}

	var dirs []sessionDir
	for _, e := range entries {
		if !e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		sd := sessionDir{id: e.Name(), path: filepath.Join(basePath, e.Name())}
		sd.modTime = newestEntry(sd.path)
		dirs = append(dirs, sd)
	}

	sort.Slice(dirs, func(i, j int) bool {
		if dirs[i].modTime != dirs[j].modTime {
			return dirs[i].modTime > dirs[j].modTime
		}
		return dirs[i].id < dirs[j].id
	})

	return dirs, nil
}

func newestEntry(dir string) int64 {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0
	}
	var newest int64
	for _, e := range entries {
		info, err := e.Info()
		if err != nil {
			continue
		}
		if ns := info.ModTime().UnixNano(); ns > newest {
			newest = ns
		}
	}
	return newest
}

// CountSessions counts per-session directories under basePath without
// parsing any interaction files. Used by store health checks.
func CountSessions(basePath string) (int, error) {
	dirs, err := findSessionDirs(basePath)
	if err != nil {
		return 0, err
	}
	return len(dirs), nil
}

// sessionInfoPath locates the metadata file for a session. The message
// base path is <storage>/message, so metadata lives at
// <storage>/session/info/<id>.json.
func sessionInfoPath(basePath, sessionID string) string {
	storage := filepath.Dir(basePath)
	return filepath.Join(storage, "session", "info", sessionID+".json")
}

// projectFromDirectory derives a display name from a session's working
// directory path.
func projectFromDirectory(directory string) string {
	if directory == "" {
		return ""
	}
	return filepath.Base(filepath.Clean(directory))
}
