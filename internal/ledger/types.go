package ledger

import "time"

// Mutation carries everything Apply needs to adjust a counter and record
// the audit row: the source event's identity and metadata plus the
// classified label and effect.
type Mutation struct {
	// EventID is the source event's identifier. It doubles as the
	// idempotency key: redelivering the same id never re-applies Effect.
	EventID string

	// ScopeID partitions counters; counters in different scopes never
	// interact.
	ScopeID string

	ChannelID string
	AuthorID  string

	// RawText is the event text exactly as authored, kept for audit.
	RawText string

	TimeSent time.Time

	// Label is the counter name extracted by the classifier.
	Label string

	// Effect is the signed unit to apply, +1 or -1.
	Effect int64
}

// CounterRank is one row of the counter leaderboard.
type CounterRank struct {
	Label string `json:"label"`
	Value int64  `json:"value"`
}

// AuthorRank is one row of the author leaderboard. Count is the number of
// mutation events the author has committed within the scope.
type AuthorRank struct {
	AuthorID string `json:"author_id"`
	Count    int64  `json:"count"`
}
