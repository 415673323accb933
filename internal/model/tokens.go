// Package model defines domain types for ocmon sessions and workflows.
package model

// TokenUsage holds the token counts for one interaction, or the
// component-wise sum across many.
type TokenUsage struct {
	Input      int64
	Output     int64
	CacheWrite int64
	CacheRead  int64
}

// Total returns the sum of all four token counts.
func (t TokenUsage) Total() int64 {
	return t.Input + t.Output + t.CacheWrite + t.CacheRead
}

// Add returns the component-wise sum of t and other.
func (t TokenUsage) Add(other TokenUsage) TokenUsage {
	return TokenUsage{
		Input:      t.Input + other.Input,
		Output:     t.Output + other.Output,
		CacheWrite: t.CacheWrite + other.CacheWrite,
		CacheRead:  t.CacheRead + other.CacheRead,
	}
}

// ContextSize returns the input-side token count that occupies a model's
// context window: input + cache reads + cache writes.
func (t TokenUsage) ContextSize() int64 {
	return t.Input + t.CacheRead + t.CacheWrite
}
