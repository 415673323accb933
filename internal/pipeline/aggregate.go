package pipeline

import (
	"time"

	"github.com/shopspring/decimal"

	"ocmon/internal/config"
	"ocmon/internal/model"
)

// BurnRateWindow is the trailing window burn rate is measured over.
const BurnRateWindow = 5 * time.Minute

// ContextUsage describes how much of a model's context window the most
// recent interaction consumed.
type ContextUsage struct {
	ContextSize     int64
	ContextWindow   int64
	UsagePercentage float64
}

// View is the aggregated snapshot published to display sinks on every
// poll tick. It is recomputed from scratch each time and never persisted.
type View struct {
	Workflow           model.Workflow
	RecentFile         *model.InteractionFile
	TotalTokens        model.TokenUsage
	TotalCost          decimal.Decimal
	BurnRate           float64
	Context            ContextUsage
	DurationPercentage float64
	SessionQuota       int64
	GeneratedAt        time.Time
}

// Snapshot computes the full aggregated view for a workflow. It is a pure
// function of the workflow, the pricing table, and now: calling it twice
// with the same inputs yields identical output.
func Snapshot(w model.Workflow, pricing config.PricingTable, now time.Time) View {
	view := View{
		Workflow:           w,
		RecentFile:         w.MostRecentFile(),
		TotalTokens:        w.TotalTokens(),
		TotalCost:          WorkflowCost(&w, pricing),
		BurnRate:           BurnRate(w.AllFiles(), now),
		DurationPercentage: w.DurationPercentage(),
		GeneratedAt:        now,
	}

	if view.RecentFile != nil {
		view.Context = ContextUsageFor(view.RecentFile, pricing)
		if mp, ok := pricing.Lookup(view.RecentFile.ModelID); ok {
			view.SessionQuota = mp.SessionQuota
		}
	}

	return view
}

// BurnRate computes output tokens per second of recorded processing time
// across interactions inside the trailing window ending at now. An empty
// window yields 0; so does a window with output tokens but no recorded
// durations (a spike with unrecorded duration is not a crash condition).
func BurnRate(files []model.InteractionFile, now time.Time) float64 {
	cutoff := now.Add(-BurnRateWindow)

	var outputTokens int64
	var durationMs int64
	for i := range files {
		if files[i].ModTime.Before(cutoff) {
			continue
		}
		outputTokens += files[i].Tokens.Output
		if files[i].Time != nil {
			durationMs += files[i].Time.DurationMs
		}
	}

	if outputTokens == 0 || durationMs == 0 {
		return 0
	}
	return float64(outputTokens) / (float64(durationMs) / 1000)
}

// ContextUsageFor computes context occupancy for one interaction. Unknown
// models report against the default 200K window.
func ContextUsageFor(f *model.InteractionFile, pricing config.PricingTable) ContextUsage {
	usage := ContextUsage{
		ContextSize:   f.Tokens.ContextSize(),
		ContextWindow: pricing.ContextWindow(f.ModelID),
	}
	if usage.ContextWindow > 0 {
		pct := float64(usage.ContextSize) / float64(usage.ContextWindow) * 100
		if pct > 100 {
			pct = 100
		}
		usage.UsagePercentage = pct
	}
	return usage
}

// SessionSnapshot is the single-session variant of Snapshot, used when a
// report targets one session directory instead of a workflow.
func SessionSnapshot(s model.SessionData, pricing config.PricingTable, now time.Time) View {
	return Snapshot(model.Workflow{MainSession: s}, pricing, now)
}
