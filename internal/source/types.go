package source

// RawMessage mirrors one opencode message JSON file. Only the fields the
// engine consumes are declared; everything else in the file is ignored.
type RawMessage struct {
	ID         string    `json:"id"`
	SessionID  string    `json:"sessionID"`
	Role       string    `json:"role"`
	ModelID    string    `json:"modelID"`
	ProviderID string    `json:"providerID"`
	Tokens     *RawUsage `json:"tokens,omitempty"`
	Time       *RawTime  `json:"time,omitempty"`
}

// RawUsage holds token counts from a message record.
type RawUsage struct {
	Input     int64     `json:"input"`
	Output    int64     `json:"output"`
	Reasoning int64     `json:"reasoning"`
	Cache     *RawCache `json:"cache,omitempty"`
}

// RawCache holds the cache token breakdown.
type RawCache struct {
	Write int64 `json:"write"`
	Read  int64 `json:"read"`
}

// RawTime holds epoch-millisecond timestamps for a message.
type RawTime struct {
	Created   int64 `json:"created"`
	Completed int64 `json:"completed"`
}

// RawSessionInfo mirrors an opencode session info JSON file. ParentID is
// set when the session was spawned as a sub-agent.
type RawSessionInfo struct {
	ID        string   `json:"id"`
	ParentID  string   `json:"parentID,omitempty"`
	Title     string   `json:"title"`
	Directory string   `json:"directory,omitempty"`
	Time      *RawTime `json:"time,omitempty"`
}
