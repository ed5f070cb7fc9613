// Package bot is the event-handling boundary: it wires inbound chat
// events through the classifier into the ledger and reports new counter
// values back through the response sink.
package bot

import (
	"context"
	"time"
)

// Event is the inbound message tuple delivered by the event source.
type Event struct {
	// ScopeID is the counter isolation boundary the event belongs to
	// (a guild, or a per-user scope for direct messages).
	ScopeID string

	ChannelID string
	AuthorID  string

	// EventID is the source's message identifier; it deduplicates
	// redeliveries in the ledger.
	EventID string

	TimeSent time.Time

	// Text is the raw message content.
	Text string

	// FromBot marks events authored by bot accounts; those are dropped
	// so bots cannot tally counters (or loop on our own replies).
	FromBot bool
}

// Responder is the response-sink capability: it posts a text reply into
// a channel. Delivery guarantees (retry, rate limiting) are its concern.
type Responder interface {
	Post(ctx context.Context, channelID, text string) error
}
