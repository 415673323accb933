package model

import "time"

// TimeData holds the recorded timing for one interaction. DurationMs is the
// model's active processing time; zero means the store did not record one.
type TimeData struct {
	Created    time.Time
	DurationMs int64
}

// InteractionFile is a read-only view of one model invocation record. The
// file-based store keys recency off ModTime; the database store populates
// ModTime from Time.Created so both paths order the same way.
type InteractionFile struct {
	FileName  string
	SessionID string
	ModelID   string
	Tokens    TokenUsage
	Time      *TimeData
	ModTime   time.Time
}

// SessionData is one agent run and its ordered interaction records.
// ParentID is empty for main (root) sessions.
type SessionData struct {
	SessionID string
	ParentID  string
	Project   string
	Title     string
	Files     []InteractionFile
}

// IsSubAgent reports whether this session was spawned by another session.
func (s *SessionData) IsSubAgent() bool {
	return s.ParentID != ""
}

// InteractionCount returns the number of interaction records.
func (s *SessionData) InteractionCount() int {
	return len(s.Files)
}

// TotalTokens sums token usage across all interactions.
func (s *SessionData) TotalTokens() TokenUsage {
	var total TokenUsage
	for _, f := range s.Files {
		total = total.Add(f.Tokens)
	}
	return total
}

// StartTime returns the earliest interaction timestamp, or zero if the
// session has no interactions.
func (s *SessionData) StartTime() time.Time {
	var earliest time.Time
	for _, f := range s.Files {
		if earliest.IsZero() || f.ModTime.Before(earliest) {
			earliest = f.ModTime
		}
	}
	return earliest
}

// EndTime returns the latest interaction timestamp, or zero if the session
// has no interactions.
func (s *SessionData) EndTime() time.Time {
	var latest time.Time
	for _, f := range s.Files {
		if f.ModTime.After(latest) {
			latest = f.ModTime
		}
	}
	return latest
}

// LastActivity is EndTime under its monitoring name: the recency signal
// used to order sessions and workflows.
func (s *SessionData) LastActivity() time.Time {
	return s.EndTime()
}

// MostRecentFile returns the interaction with the latest ModTime, or nil
// for an empty session.
func (s *SessionData) MostRecentFile() *InteractionFile {
	var recent *InteractionFile
	for i := range s.Files {
		if recent == nil || s.Files[i].ModTime.After(recent.ModTime) {
			recent = &s.Files[i]
		}
	}
	return recent
}

// ModelsUsed returns the distinct model identifiers seen in this session,
// in first-use order.
func (s *SessionData) ModelsUsed() []string {
	seen := make(map[string]struct{})
	var models []string
	for _, f := range s.Files {
		if _, ok := seen[f.ModelID]; ok {
			continue
		}
		seen[f.ModelID] = struct{}{}
		models = append(models, f.ModelID)
	}
	return models
}
