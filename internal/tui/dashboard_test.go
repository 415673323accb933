package tui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"ocmon/internal/cli"
	"ocmon/internal/config"
	"ocmon/internal/model"
	"ocmon/internal/monitor"
	"ocmon/internal/pipeline"
)

func testUpdate(transition monitor.Transition, ids ...string) UpdateMsg {
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	w := model.Workflow{
		MainSession: model.SessionData{
			SessionID: "ses_main",
			Files: []model.InteractionFile{{
				SessionID: "ses_main",
				ModelID:   "claude-sonnet-4-5",
				Tokens:    model.TokenUsage{Input: 1000, Output: 200},
				Time:      &model.TimeData{Created: at, DurationMs: 2000},
				ModTime:   at,
			}},
		},
	}
	return UpdateMsg{Update: monitor.Update{
		View:          pipeline.Snapshot(w, config.NewPricingTable(nil), at.Add(30*time.Second)),
		Transition:    transition,
		NewSessionIDs: ids,
	}}
}

func TestDashboardWaitingState(t *testing.T) {
	d := NewDashboard(cli.DarkTheme, "database: /tmp/opencode.db", 5*time.Second)

	view := d.View()
	if !strings.Contains(view, "waiting for session data") {
		t.Errorf("waiting view missing placeholder, got:\n%s", view)
	}
}

func TestDashboardShowsWorkflow(t *testing.T) {
	d := NewDashboard(cli.DarkTheme, "fake", 5*time.Second)
	m, _ := d.Update(testUpdate(monitor.TransitionStarted))
	d = m.(Dashboard)

	view := d.View()
	for _, want := range []string{"ses_main", "tracking workflow ses_main", "claude-sonnet-4-5", "1.2K"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q, got:\n%s", want, view)
		}
	}
}

func TestDashboardEventLogBounded(t *testing.T) {
	d := NewDashboard(cli.DarkTheme, "fake", 5*time.Second)
	for i := 0; i < maxEvents+3; i++ {
		m, _ := d.Update(testUpdate(monitor.TransitionNewWorkflow))
		d = m.(Dashboard)
	}
	if len(d.events) != maxEvents {
		t.Errorf("got %d events, want %d", len(d.events), maxEvents)
	}
}

func TestDashboardQuitKeys(t *testing.T) {
	d := NewDashboard(cli.DarkTheme, "fake", 5*time.Second)
	_, cmd := d.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd == nil {
		t.Fatal("expected quit command for q")
	}
	if msg := cmd(); msg == nil {
		t.Fatal("expected quit message")
	}
}
