package monitor

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"ocmon/internal/config"
	"ocmon/internal/model"
	"ocmon/internal/pipeline"
)

// Transition classifies what changed between two polls.
type Transition int

const (
	// TransitionNone: same workflow, no new members.
	TransitionNone Transition = iota
	// TransitionStarted: first successful load after startup.
	TransitionStarted
	// TransitionNewWorkflow: a different workflow became the most recent.
	TransitionNewWorkflow
	// TransitionNewSubAgents: the tracked workflow grew new sessions.
	TransitionNewSubAgents
)

// Update is pushed to the sink on every tick, whether or not a
// transition fired — metrics stay live even when the identity is stable.
type Update struct {
	View          pipeline.View
	Transition    Transition
	NewSessionIDs []string
}

// Sink consumes monitor updates. Implementations must not mutate the
// view they receive.
type Sink interface {
	Publish(Update)
}

// Options configures a Monitor.
type Options struct {
	Interval time.Duration
	Limit    int
	Logger   *zap.SugaredLogger
	// Now overrides the clock, for tests.
	Now func() time.Time
}

// Monitor owns the workflow-continuity state machine. All mutable state
// lives on the value itself, so independent monitors never interfere.
type Monitor struct {
	source   Source
	pricing  config.PricingTable
	sink     Sink
	interval time.Duration
	limit    int
	log      *zap.SugaredLogger
	now      func() time.Time

	trackedID    string
	trackedIDs   map[string]struct{}
	lastWorkflow *model.Workflow
}

// New validates options and builds a monitor. A non-positive interval is
// caller misuse and fails immediately.
func New(src Source, pricing config.PricingTable, sink Sink, opts Options) (*Monitor, error) {
	if src == nil {
		return nil, errors.New("monitor: nil source")
	}
	if sink == nil {
		return nil, errors.New("monitor: nil sink")
	}
	if opts.Interval <= 0 {
		return nil, fmt.Errorf("monitor: interval must be positive, got %s", opts.Interval)
	}
	if opts.Limit <= 0 {
		opts.Limit = 50
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop().Sugar()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	return &Monitor{
		source:   src,
		pricing:  pricing,
		sink:     sink,
		interval: opts.Interval,
		limit:    opts.Limit,
		log:      opts.Logger,
		now:      opts.Now,
	}, nil
}

// Run polls until ctx is canceled. Query errors are logged and the loop
// keeps going; a slow store simply delays the next tick.
func (m *Monitor) Run(ctx context.Context) error {
	m.log.Infow("starting live monitoring",
		"source", m.source.Describe(),
		"interval", m.interval)

	if err := m.tick(ctx); err != nil {
		m.log.Warnw("poll failed", "error", err)
	}

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			m.log.Infow("live monitoring stopped")
			return ctx.Err()
		case <-ticker.C:
			if err := m.tick(ctx); err != nil {
				m.log.Warnw("poll failed", "error", err)
			}
		}
	}
}

// tick runs one poll cycle: query, classify, aggregate, publish.
func (m *Monitor) tick(ctx context.Context) error {
	workflows, err := m.source.RecentWorkflows(ctx, m.limit)
	if err != nil {
		return err
	}
	if len(workflows) == 0 {
		// Nothing to track yet; stay in the current state and re-publish
		// the last known view if there is one.
		if m.lastWorkflow != nil {
			m.publish(*m.lastWorkflow, TransitionNone, nil)
		}
		return nil
	}

	latest := workflows[0]
	switch {
	case m.trackedID == "":
		m.track(latest)
		m.log.Infow("tracking workflow",
			"workflow", latest.WorkflowID(),
			"sessions", latest.SessionCount())
		m.publish(latest, TransitionStarted, nil)

	case latest.WorkflowID() != m.trackedID:
		if _, isMember := m.trackedIDs[latest.WorkflowID()]; isMember {
			// The store surfaced one of our own sub-agents as most
			// recent. Not a new workflow; keep tracking the current one.
			current, ok := findWorkflow(workflows, m.trackedID)
			if !ok {
				current = *m.lastWorkflow
			}
			m.refresh(current)
			return nil
		}

		// Genuinely new workflow; this includes the case where our
		// previous main session reappears as a sub-agent of a new root.
		m.track(latest)
		m.log.Infow("new workflow detected", "workflow", latest.WorkflowID())
		m.publish(latest, TransitionNewWorkflow, nil)

	default:
		m.refresh(latest)
	}

	return nil
}

// refresh handles the same-workflow path: fold in any new sub-agent ids
// and republish.
func (m *Monitor) refresh(current model.Workflow) {
	newIDs := m.diffSessionIDs(&current)
	if len(newIDs) > 0 {
		m.track(current)
		m.log.Infow("new sub-agents detected",
			"workflow", current.WorkflowID(),
			"sessions", newIDs)
		m.publish(current, TransitionNewSubAgents, newIDs)
		return
	}
	m.lastWorkflow = &current
	m.publish(current, TransitionNone, nil)
}

// track replaces the continuity state wholesale: the new id set is built
// completely before assignment, never patched in place.
func (m *Monitor) track(w model.Workflow) {
	m.trackedID = w.WorkflowID()
	m.trackedIDs = w.SessionIDs()
	m.lastWorkflow = &w
}

// diffSessionIDs returns member ids present now but absent from the
// tracked set, sorted for stable output.
func (m *Monitor) diffSessionIDs(w *model.Workflow) []string {
	var added []string
	for id := range w.SessionIDs() {
		if _, ok := m.trackedIDs[id]; !ok {
			added = append(added, id)
		}
	}
	sort.Strings(added)
	return added
}

func (m *Monitor) publish(w model.Workflow, transition Transition, newIDs []string) {
	m.sink.Publish(Update{
		View:          pipeline.Snapshot(w, m.pricing, m.now()),
		Transition:    transition,
		NewSessionIDs: newIDs,
	})
}

func findWorkflow(workflows []model.Workflow, id string) (model.Workflow, bool) {
	for i := range workflows {
		if workflows[i].WorkflowID() == id {
			return workflows[i], true
		}
	}
	return model.Workflow{}, false
}
