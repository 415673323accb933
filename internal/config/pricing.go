package config

import "strings"

// DefaultContextWindow is used when a model is missing from the pricing
// table. Cost for such a model is zero; context usage is still reported
// against this window.
const DefaultContextWindow = 200_000

// ModelPricing holds per-million-token prices plus model limits.
type ModelPricing struct {
	InputPerMTok      float64
	OutputPerMTok     float64
	CacheWritePerMTok float64
	CacheReadPerMTok  float64
	ContextWindow     int64
	// SessionQuota is an optional per-session output token quota; zero
	// means no quota is defined for the model.
	SessionQuota int64
}

// DefaultPricing maps model base names to their pricing.
var DefaultPricing = map[string]ModelPricing{
	"claude-opus-4-1": {
		InputPerMTok: 15.00, OutputPerMTok: 75.00,
		CacheWritePerMTok: 18.75, CacheReadPerMTok: 1.50,
		ContextWindow: 200_000,
	},
	"claude-opus-4": {
		InputPerMTok: 15.00, OutputPerMTok: 75.00,
		CacheWritePerMTok: 18.75, CacheReadPerMTok: 1.50,
		ContextWindow: 200_000,
	},
	"claude-sonnet-4-5": {
		InputPerMTok: 3.00, OutputPerMTok: 15.00,
		CacheWritePerMTok: 3.75, CacheReadPerMTok: 0.30,
		ContextWindow: 200_000,
	},
	"claude-sonnet-4": {
		InputPerMTok: 3.00, OutputPerMTok: 15.00,
		CacheWritePerMTok: 3.75, CacheReadPerMTok: 0.30,
		ContextWindow: 200_000,
	},
	"claude-haiku-4-5": {
		InputPerMTok: 1.00, OutputPerMTok: 5.00,
		CacheWritePerMTok: 1.25, CacheReadPerMTok: 0.10,
		ContextWindow: 200_000,
	},
	"claude-3-5-haiku": {
		InputPerMTok: 0.80, OutputPerMTok: 4.00,
		CacheWritePerMTok: 1.00, CacheReadPerMTok: 0.08,
		ContextWindow: 200_000,
	},
	"gpt-5": {
		InputPerMTok: 1.25, OutputPerMTok: 10.00,
		CacheReadPerMTok: 0.125,
		ContextWindow:    400_000,
	},
	"gpt-5-mini": {
		InputPerMTok: 0.25, OutputPerMTok: 2.00,
		CacheReadPerMTok: 0.025,
		ContextWindow:    400_000,
	},
	"gemini-2.5-pro": {
		InputPerMTok: 1.25, OutputPerMTok: 10.00,
		CacheReadPerMTok: 0.31,
		ContextWindow:    1_048_576,
	},
	"gemini-2.5-flash": {
		InputPerMTok: 0.30, OutputPerMTok: 2.50,
		CacheReadPerMTok: 0.075,
		ContextWindow:    1_048_576,
	},
}

// PricingTable resolves model identifiers to pricing entries. The zero
// value falls back to DefaultPricing.
type PricingTable struct {
	models map[string]ModelPricing
}

// NewPricingTable returns a table over the given entries; nil means the
// built-in defaults.
func NewPricingTable(models map[string]ModelPricing) PricingTable {
	if models == nil {
		models = DefaultPricing
	}
	return PricingTable{models: models}
}

// Len reports the number of models the table knows about.
func (p PricingTable) Len() int {
	if p.models == nil {
		return len(DefaultPricing)
	}
	return len(p.models)
}

// Lookup returns the pricing for a model, normalizing the name first.
// Returns zero pricing and false for unknown models.
func (p PricingTable) Lookup(modelID string) (ModelPricing, bool) {
	models := p.models
	if models == nil {
		models = DefaultPricing
	}
	mp, ok := models[normalizeModelID(modelID, models)]
	return mp, ok
}

// ContextWindow returns the model's context window, or DefaultContextWindow
// for unknown models.
func (p PricingTable) ContextWindow(modelID string) int64 {
	mp, ok := p.Lookup(modelID)
	if !ok || mp.ContextWindow <= 0 {
		return DefaultContextWindow
	}
	return mp.ContextWindow
}

// normalizeModelID strips provider prefixes and date suffixes so that
// "anthropic/claude-sonnet-4-5-20250929" resolves to "claude-sonnet-4-5".
func normalizeModelID(raw string, models map[string]ModelPricing) string {
	if _, ok := models[raw]; ok {
		return raw
	}

	candidate := raw
	if idx := strings.LastIndex(candidate, "/"); idx >= 0 {
		candidate = candidate[idx+1:]
		if _, ok := models[candidate]; ok {
			return candidate
		}
	}

	parts := strings.Split(candidate, "-")
	if len(parts) >= 2 {
		last := parts[len(parts)-1]
		if isAllDigits(last) && len(last) >= 8 {
			trimmed := strings.Join(parts[:len(parts)-1], "-")
			if _, ok := models[trimmed]; ok {
				return trimmed
			}
		}
	}

	return raw
}

func isAllDigits(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return len(s) > 0
}
