package pipeline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ocmon/internal/config"
	"ocmon/internal/model"
)

func interaction(sessionID, modelID string, tokens model.TokenUsage, modTime time.Time, durationMs int64) model.InteractionFile {
	f := model.InteractionFile{
		FileName:  "msg.json",
		SessionID: sessionID,
		ModelID:   modelID,
		Tokens:    tokens,
		ModTime:   modTime,
	}
	if durationMs > 0 {
		f.Time = &model.TimeData{Created: modTime, DurationMs: durationMs}
	}
	return f
}

func TestBurnRateOutsideWindow(t *testing.T) {
	now := time.Now()
	files := []model.InteractionFile{
		interaction("ses_a", "claude-sonnet-4-5",
			model.TokenUsage{Output: 500}, now.Add(-10*time.Minute), 2000),
	}

	assert.Zero(t, BurnRate(files, now))
}

func TestBurnRateInsideWindow(t *testing.T) {
	now := time.Now()
	files := []model.InteractionFile{
		interaction("ses_a", "claude-sonnet-4-5",
			model.TokenUsage{Output: 100}, now.Add(-time.Minute), 2000),
	}

	assert.InDelta(t, 50.0, BurnRate(files, now), 1e-9)
}

func TestBurnRateZeroDuration(t *testing.T) {
	now := time.Now()
	files := []model.InteractionFile{
		interaction("ses_a", "claude-sonnet-4-5",
			model.TokenUsage{Output: 100}, now.Add(-time.Minute), 0),
	}

	assert.Zero(t, BurnRate(files, now), "output with no recorded duration reports 0, not a crash")
}

func TestContextUsageKnownModel(t *testing.T) {
	pricing := config.NewPricingTable(map[string]config.ModelPricing{
		"tiny-model": {ContextWindow: 2000},
	})
	f := interaction("ses_a", "tiny-model",
		model.TokenUsage{Input: 1000, CacheRead: 500}, time.Now(), 0)

	usage := ContextUsageFor(&f, pricing)
	assert.EqualValues(t, 1500, usage.ContextSize)
	assert.EqualValues(t, 2000, usage.ContextWindow)
	assert.InDelta(t, 75.0, usage.UsagePercentage, 1e-9)
}

func TestContextUsageUnknownModelDefaultsWindow(t *testing.T) {
	pricing := config.NewPricingTable(map[string]config.ModelPricing{})
	f := interaction("ses_a", "mystery-model",
		model.TokenUsage{Input: 1000, CacheRead: 500}, time.Now(), 0)

	usage := ContextUsageFor(&f, pricing)
	assert.EqualValues(t, config.DefaultContextWindow, usage.ContextWindow)
	assert.InDelta(t, 0.75, usage.UsagePercentage, 1e-9)
}

func TestContextUsageCappedAt100(t *testing.T) {
	pricing := config.NewPricingTable(map[string]config.ModelPricing{
		"tiny-model": {ContextWindow: 1000},
	})
	f := interaction("ses_a", "tiny-model",
		model.TokenUsage{Input: 5000}, time.Now(), 0)

	usage := ContextUsageFor(&f, pricing)
	assert.InDelta(t, 100.0, usage.UsagePercentage, 1e-9)
}

func TestSnapshotIdempotent(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	wf := model.Workflow{
		MainSession: model.SessionData{
			SessionID: "ses_a",
			Files: []model.InteractionFile{
				interaction("ses_a", "claude-sonnet-4-5",
					model.TokenUsage{Input: 1000, Output: 200, CacheRead: 300},
					now.Add(-time.Minute), 4000),
				interaction("ses_a", "claude-sonnet-4-5",
					model.TokenUsage{Input: 2000, Output: 400},
					now.Add(-2*time.Minute), 8000),
			},
		},
	}
	pricing := config.NewPricingTable(nil)

	first := Snapshot(wf, pricing, now)
	second := Snapshot(wf, pricing, now)

	assert.Equal(t, first.TotalTokens, second.TotalTokens)
	assert.True(t, first.TotalCost.Equal(second.TotalCost))
	assert.Equal(t, first.BurnRate, second.BurnRate)
	assert.Equal(t, first.Context, second.Context)
	assert.Equal(t, first.DurationPercentage, second.DurationPercentage)
}

func TestSnapshotPicksMostRecentAcrossSubAgents(t *testing.T) {
	now := time.Now()
	wf := model.Workflow{
		MainSession: model.SessionData{
			SessionID: "ses_main",
			Files: []model.InteractionFile{interaction("ses_main", "claude-sonnet-4-5",
				model.TokenUsage{Output: 10}, now.Add(-time.Hour), 0)},
		},
		SubAgents: []model.SessionData{{
			SessionID: "ses_sub",
			ParentID:  "ses_main",
			Files: []model.InteractionFile{interaction("ses_sub", "claude-haiku-4-5",
				model.TokenUsage{Output: 20}, now.Add(-time.Minute), 0)},
		}},
	}

	view := Snapshot(wf, config.NewPricingTable(nil), now)
	require.NotNil(t, view.RecentFile)
	assert.Equal(t, "ses_sub", view.RecentFile.SessionID)
	assert.EqualValues(t, 30, view.TotalTokens.Output)
}

func TestDurationPercentageCapped(t *testing.T) {
	now := time.Now()
	wf := model.Workflow{
		MainSession: model.SessionData{
			SessionID: "ses_a",
			Files: []model.InteractionFile{
				interaction("ses_a", "claude-sonnet-4-5", model.TokenUsage{}, now.Add(-8*time.Hour), 0),
				interaction("ses_a", "claude-sonnet-4-5", model.TokenUsage{}, now, 0),
			},
		},
	}

	assert.InDelta(t, 100.0, wf.DurationPercentage(), 1e-9)
}
