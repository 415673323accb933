package model

import (
	"testing"
	"time"
)

func interaction(id string, at time.Time, tokens TokenUsage) InteractionFile {
	return InteractionFile{
		FileName:  "msg_" + id + ".json",
		SessionID: id,
		ModelID:   "claude-sonnet-4-5",
		Tokens:    tokens,
		ModTime:   at,
	}
}

func TestTokenUsageTotals(t *testing.T) {
	u := TokenUsage{Input: 100, Output: 50, CacheWrite: 20, CacheRead: 30}

	if got := u.Total(); got != 200 {
		t.Errorf("Total() = %d, want 200", got)
	}
	if got := u.ContextSize(); got != 150 {
		t.Errorf("ContextSize() = %d, want 150 (output tokens excluded)", got)
	}

	sum := u.Add(TokenUsage{Input: 1, Output: 2, CacheWrite: 3, CacheRead: 4})
	want := TokenUsage{Input: 101, Output: 52, CacheWrite: 23, CacheRead: 34}
	if sum != want {
		t.Errorf("Add() = %+v, want %+v", sum, want)
	}
}

func TestSessionTimeBounds(t *testing.T) {
	t0 := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	s := SessionData{
		SessionID: "ses_a",
		Files: []InteractionFile{
			interaction("ses_a", t0.Add(time.Minute), TokenUsage{}),
			interaction("ses_a", t0, TokenUsage{}),
			interaction("ses_a", t0.Add(2*time.Minute), TokenUsage{}),
		},
	}

	if got := s.StartTime(); !got.Equal(t0) {
		t.Errorf("StartTime() = %v, want %v", got, t0)
	}
	if got := s.EndTime(); !got.Equal(t0.Add(2 * time.Minute)) {
		t.Errorf("EndTime() = %v, want %v", got, t0.Add(2*time.Minute))
	}
	if f := s.MostRecentFile(); f == nil || !f.ModTime.Equal(t0.Add(2*time.Minute)) {
		t.Errorf("MostRecentFile() = %v", f)
	}

	var empty SessionData
	if !empty.StartTime().IsZero() || !empty.EndTime().IsZero() {
		t.Error("empty session should have zero time bounds")
	}
	if empty.MostRecentFile() != nil {
		t.Error("empty session should have no recent file")
	}
}

func TestWorkflowSpansSubAgents(t *testing.T) {
	t0 := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	w := Workflow{
		MainSession: SessionData{
			SessionID: "ses_main",
			Project:   "gitlore",
			Files:     []InteractionFile{interaction("ses_main", t0, TokenUsage{Input: 100})},
		},
		SubAgents: []SessionData{
			{
				SessionID: "ses_sub",
				ParentID:  "ses_main",
				Files:     []InteractionFile{interaction("ses_sub", t0.Add(time.Hour), TokenUsage{Output: 40})},
			},
		},
	}

	if got := w.WorkflowID(); got != "ses_main" {
		t.Errorf("WorkflowID() = %q", got)
	}
	if got := w.SessionCount(); got != 2 {
		t.Errorf("SessionCount() = %d, want 2", got)
	}
	if got := w.TotalTokens().Total(); got != 140 {
		t.Errorf("TotalTokens().Total() = %d, want 140", got)
	}
	if got := w.LastActivity(); !got.Equal(t0.Add(time.Hour)) {
		t.Errorf("LastActivity() = %v, want sub-agent time", got)
	}
	if got := w.Duration(); got != time.Hour {
		t.Errorf("Duration() = %v, want 1h", got)
	}
	if f := w.MostRecentFile(); f == nil || f.SessionID != "ses_sub" {
		t.Errorf("MostRecentFile() should come from the sub-agent, got %v", f)
	}

	ids := w.SessionIDs()
	if len(ids) != 2 {
		t.Fatalf("SessionIDs() has %d entries, want 2", len(ids))
	}
	for _, id := range []string{"ses_main", "ses_sub"} {
		if _, ok := ids[id]; !ok {
			t.Errorf("SessionIDs() missing %q", id)
		}
	}
}

func TestDurationPercentageAgainstBudget(t *testing.T) {
	t0 := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	mk := func(span time.Duration) Workflow {
		return Workflow{MainSession: SessionData{
			SessionID: "ses_a",
			Files: []InteractionFile{
				interaction("ses_a", t0, TokenUsage{}),
				interaction("ses_a", t0.Add(span), TokenUsage{}),
			},
		}}
	}

	w := mk(time.Hour)
	if got := w.DurationPercentage(); got != 20 {
		t.Errorf("1h of 5h budget = %v%%, want 20", got)
	}

	over := mk(8 * time.Hour)
	if got := over.DurationPercentage(); got != 100 {
		t.Errorf("over-budget workflow = %v%%, want capped 100", got)
	}

	var empty Workflow
	if got := empty.DurationPercentage(); got != 0 {
		t.Errorf("empty workflow = %v%%, want 0", got)
	}
}
