package monitor

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"ocmon/internal/config"
	"ocmon/internal/model"
)

type fakeSource struct {
	workflows []model.Workflow
	err       error
	calls     int
}

func (f *fakeSource) RecentWorkflows(_ context.Context, _ int) ([]model.Workflow, error) {
	f.calls++
	return f.workflows, f.err
}

func (f *fakeSource) Describe() string { return "fake" }

func (f *fakeSource) Close() error { return nil }

type captureSink struct {
	updates []Update
}

func (c *captureSink) Publish(u Update) { c.updates = append(c.updates, u) }

func (c *captureSink) last(t *testing.T) Update {
	t.Helper()
	require.NotEmpty(t, c.updates)
	return c.updates[len(c.updates)-1]
}

func wf(mainID string, at time.Time, subIDs ...string) model.Workflow {
	w := model.Workflow{MainSession: session(mainID, at)}
	for _, id := range subIDs {
		sub := session(id, at)
		sub.ParentID = mainID
		w.SubAgents = append(w.SubAgents, sub)
	}
	return w
}

func session(id string, at time.Time) model.SessionData {
	return model.SessionData{
		SessionID: id,
		Files: []model.InteractionFile{{
			FileName:  "msg_" + id + ".json",
			SessionID: id,
			ModelID:   "claude-sonnet-4-5",
			Tokens:    model.TokenUsage{Input: 100, Output: 50},
			Time:      &model.TimeData{Created: at, DurationMs: 1000},
			ModTime:   at,
		}},
	}
}

func newTestMonitor(t *testing.T, src Source, sink Sink) *Monitor {
	t.Helper()
	m, err := New(src, config.NewPricingTable(nil), sink, Options{
		Interval: time.Second,
		Now:      func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) },
	})
	require.NoError(t, err)
	return m
}

func TestNewRejectsBadOptions(t *testing.T) {
	src := &fakeSource{}
	sink := &captureSink{}
	pricing := config.NewPricingTable(nil)

	_, err := New(nil, pricing, sink, Options{Interval: time.Second})
	require.Error(t, err)

	_, err = New(src, pricing, nil, Options{Interval: time.Second})
	require.Error(t, err)

	_, err = New(src, pricing, sink, Options{Interval: 0})
	require.Error(t, err)

	_, err = New(src, pricing, sink, Options{Interval: -time.Second})
	require.Error(t, err)
}

func TestFirstTickStartsTracking(t *testing.T) {
	at := time.Date(2026, 3, 1, 11, 59, 0, 0, time.UTC)
	src := &fakeSource{workflows: []model.Workflow{wf("ses_a", at)}}
	sink := &captureSink{}
	m := newTestMonitor(t, src, sink)

	require.NoError(t, m.tick(context.Background()))

	u := sink.last(t)
	require.Equal(t, TransitionStarted, u.Transition)
	require.Equal(t, "ses_a", u.View.Workflow.WorkflowID())
}

func TestStableWorkflowPublishesWithoutTransition(t *testing.T) {
	at := time.Date(2026, 3, 1, 11, 59, 0, 0, time.UTC)
	src := &fakeSource{workflows: []model.Workflow{wf("ses_a", at)}}
	sink := &captureSink{}
	m := newTestMonitor(t, src, sink)

	require.NoError(t, m.tick(context.Background()))
	require.NoError(t, m.tick(context.Background()))

	require.Len(t, sink.updates, 2)
	require.Equal(t, TransitionNone, sink.last(t).Transition)
	require.InDelta(t, 50.0, sink.last(t).View.BurnRate, 0.001)
}

func TestNewSubAgentDetected(t *testing.T) {
	at := time.Date(2026, 3, 1, 11, 59, 0, 0, time.UTC)
	src := &fakeSource{workflows: []model.Workflow{wf("ses_a", at)}}
	sink := &captureSink{}
	m := newTestMonitor(t, src, sink)

	require.NoError(t, m.tick(context.Background()))

	src.workflows = []model.Workflow{wf("ses_a", at, "ses_sub1", "ses_sub2")}
	require.NoError(t, m.tick(context.Background()))

	u := sink.last(t)
	require.Equal(t, TransitionNewSubAgents, u.Transition)
	require.Equal(t, []string{"ses_sub1", "ses_sub2"}, u.NewSessionIDs)

	// The grown membership is now the baseline.
	require.NoError(t, m.tick(context.Background()))
	require.Equal(t, TransitionNone, sink.last(t).Transition)
}

func TestNewWorkflowDetected(t *testing.T) {
	at := time.Date(2026, 3, 1, 11, 59, 0, 0, time.UTC)
	src := &fakeSource{workflows: []model.Workflow{wf("ses_a", at, "ses_sub1")}}
	sink := &captureSink{}
	m := newTestMonitor(t, src, sink)

	require.NoError(t, m.tick(context.Background()))

	src.workflows = []model.Workflow{
		wf("ses_b", at.Add(time.Minute)),
		wf("ses_a", at, "ses_sub1"),
	}
	require.NoError(t, m.tick(context.Background()))

	u := sink.last(t)
	require.Equal(t, TransitionNewWorkflow, u.Transition)
	require.Equal(t, "ses_b", u.View.Workflow.WorkflowID())

	// Old workflow's members no longer count as tracked.
	src.workflows = []model.Workflow{wf("ses_a", at.Add(2 * time.Minute), "ses_sub1")}
	require.NoError(t, m.tick(context.Background()))
	require.Equal(t, TransitionNewWorkflow, sink.last(t).Transition)
}

func TestPromotedSubAgentIsNotANewWorkflow(t *testing.T) {
	at := time.Date(2026, 3, 1, 11, 59, 0, 0, time.UTC)
	src := &fakeSource{workflows: []model.Workflow{wf("ses_a", at, "ses_sub1")}}
	sink := &captureSink{}
	m := newTestMonitor(t, src, sink)

	require.NoError(t, m.tick(context.Background()))

	// The store briefly surfaces a tracked sub-agent as its own root,
	// e.g. while the parent row lags behind.
	src.workflows = []model.Workflow{
		wf("ses_sub1", at.Add(time.Second)),
		wf("ses_a", at, "ses_sub1"),
	}
	require.NoError(t, m.tick(context.Background()))

	u := sink.last(t)
	require.Equal(t, TransitionNone, u.Transition)
	require.Equal(t, "ses_a", u.View.Workflow.WorkflowID())
}

func TestEmptyResultKeepsLastView(t *testing.T) {
	at := time.Date(2026, 3, 1, 11, 59, 0, 0, time.UTC)
	src := &fakeSource{}
	sink := &captureSink{}
	m := newTestMonitor(t, src, sink)

	// Nothing to report before the first workflow appears.
	require.NoError(t, m.tick(context.Background()))
	require.Empty(t, sink.updates)

	src.workflows = []model.Workflow{wf("ses_a", at)}
	require.NoError(t, m.tick(context.Background()))

	src.workflows = nil
	require.NoError(t, m.tick(context.Background()))

	u := sink.last(t)
	require.Equal(t, TransitionNone, u.Transition)
	require.Equal(t, "ses_a", u.View.Workflow.WorkflowID())
}

func TestRunStopsOnCancel(t *testing.T) {
	at := time.Date(2026, 3, 1, 11, 59, 0, 0, time.UTC)
	src := &fakeSource{workflows: []model.Workflow{wf("ses_a", at)}}
	sink := &captureSink{}
	m := newTestMonitor(t, src, sink)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- m.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("monitor did not stop after cancel")
	}
	require.GreaterOrEqual(t, src.calls, 1)
}
