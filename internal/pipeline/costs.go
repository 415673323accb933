package pipeline

import (
	"github.com/shopspring/decimal"

	"ocmon/internal/config"
	"ocmon/internal/model"
)

var mTok = decimal.NewFromInt(1_000_000)

// InteractionCost prices a single interaction against its model's rates.
// Unknown models contribute zero rather than failing.
func InteractionCost(f *model.InteractionFile, pricing config.PricingTable) decimal.Decimal {
	mp, ok := pricing.Lookup(f.ModelID)
	if !ok {
		return decimal.Zero
	}

	cost := decimal.NewFromInt(f.Tokens.Input).Mul(decimal.NewFromFloat(mp.InputPerMTok))
	cost = cost.Add(decimal.NewFromInt(f.Tokens.Output).Mul(decimal.NewFromFloat(mp.OutputPerMTok)))
	cost = cost.Add(decimal.NewFromInt(f.Tokens.CacheWrite).Mul(decimal.NewFromFloat(mp.CacheWritePerMTok)))
	cost = cost.Add(decimal.NewFromInt(f.Tokens.CacheRead).Mul(decimal.NewFromFloat(mp.CacheReadPerMTok)))
	return cost.Div(mTok)
}

// SessionCost sums interaction costs across one session. The accumulator
// stays decimal end to end; rounding happens only at display time.
func SessionCost(s *model.SessionData, pricing config.PricingTable) decimal.Decimal {
	total := decimal.Zero
	for i := range s.Files {
		total = total.Add(InteractionCost(&s.Files[i], pricing))
	}
	return total
}

// WorkflowCost sums session costs across every member session.
func WorkflowCost(w *model.Workflow, pricing config.PricingTable) decimal.Decimal {
	total := SessionCost(&w.MainSession, pricing)
	for i := range w.SubAgents {
		total = total.Add(SessionCost(&w.SubAgents[i], pricing))
	}
	return total
}
