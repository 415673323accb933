package model

import "time"

// SessionBudget is the reference wall-clock span a workflow is measured
// against when reporting duration as a percentage.
const SessionBudget = 5 * time.Hour

// Workflow groups a main session with the sub-agent sessions it spawned,
// treated as one monitoring unit. A session belongs to at most one workflow.
type Workflow struct {
	MainSession SessionData
	SubAgents   []SessionData
}

// WorkflowID is the main session's id.
func (w *Workflow) WorkflowID() string {
	return w.MainSession.SessionID
}

// AllSessions returns the main session followed by its sub-agents.
func (w *Workflow) AllSessions() []SessionData {
	all := make([]SessionData, 0, 1+len(w.SubAgents))
	all = append(all, w.MainSession)
	all = append(all, w.SubAgents...)
	return all
}

// SessionIDs returns the set of member session ids.
func (w *Workflow) SessionIDs() map[string]struct{} {
	ids := make(map[string]struct{}, 1+len(w.SubAgents))
	ids[w.MainSession.SessionID] = struct{}{}
	for _, s := range w.SubAgents {
		ids[s.SessionID] = struct{}{}
	}
	return ids
}

// HasSubAgents reports whether the workflow spawned any sub-agents.
func (w *Workflow) HasSubAgents() bool {
	return len(w.SubAgents) > 0
}

// SessionCount is the number of member sessions including the main one.
func (w *Workflow) SessionCount() int {
	return 1 + len(w.SubAgents)
}

// Project is the main session's project name.
func (w *Workflow) Project() string {
	return w.MainSession.Project
}

// TotalTokens sums token usage across every member session.
func (w *Workflow) TotalTokens() TokenUsage {
	total := w.MainSession.TotalTokens()
	for i := range w.SubAgents {
		total = total.Add(w.SubAgents[i].TotalTokens())
	}
	return total
}

// AllFiles returns every interaction record across all member sessions.
func (w *Workflow) AllFiles() []InteractionFile {
	var files []InteractionFile
	files = append(files, w.MainSession.Files...)
	for i := range w.SubAgents {
		files = append(files, w.SubAgents[i].Files...)
	}
	return files
}

// MostRecentFile returns the latest interaction across all member sessions,
// or nil if the workflow has none.
func (w *Workflow) MostRecentFile() *InteractionFile {
	recent := w.MainSession.MostRecentFile()
	for i := range w.SubAgents {
		if f := w.SubAgents[i].MostRecentFile(); f != nil {
			if recent == nil || f.ModTime.After(recent.ModTime) {
				recent = f
			}
		}
	}
	return recent
}

// StartTime returns the earliest interaction timestamp across all sessions.
func (w *Workflow) StartTime() time.Time {
	earliest := w.MainSession.StartTime()
	for i := range w.SubAgents {
		t := w.SubAgents[i].StartTime()
		if t.IsZero() {
			continue
		}
		if earliest.IsZero() || t.Before(earliest) {
			earliest = t
		}
	}
	return earliest
}

// EndTime returns the latest interaction timestamp across all sessions.
func (w *Workflow) EndTime() time.Time {
	latest := w.MainSession.EndTime()
	for i := range w.SubAgents {
		if t := w.SubAgents[i].EndTime(); t.After(latest) {
			latest = t
		}
	}
	return latest
}

// LastActivity is the recency signal used to pick the current workflow.
func (w *Workflow) LastActivity() time.Time {
	return w.EndTime()
}

// Duration is the wall-clock span from the first to the last interaction.
func (w *Workflow) Duration() time.Duration {
	start, end := w.StartTime(), w.EndTime()
	if start.IsZero() || end.IsZero() {
		return 0
	}
	return end.Sub(start)
}

// DurationPercentage expresses the workflow's span as a fraction of the
// fixed session budget, capped at 100.
func (w *Workflow) DurationPercentage() float64 {
	pct := w.Duration().Hours() / SessionBudget.Hours() * 100
	if pct > 100 {
		return 100
	}
	if pct < 0 {
		return 0
	}
	return pct
}
