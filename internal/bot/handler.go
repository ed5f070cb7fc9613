package bot

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/roach88/incydecy/internal/classify"
	"github.com/roach88/incydecy/internal/ledger"
)

// Handler processes one inbound event at a time: classify, apply, reply.
// It is stateless apart from its collaborators and safe to invoke
// concurrently from many event deliveries.
type Handler struct {
	ledger    *ledger.Ledger
	responder Responder
	log       *slog.Logger
}

// New creates a handler over the given ledger and response sink.
// A nil logger falls back to slog's default.
func New(lg *ledger.Ledger, r Responder, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{ledger: lg, responder: r, log: logger}
}

// Handle runs the pipeline for one event. Non-mutation text is a normal
// no-op. Storage failures are surfaced to the caller after logging; the
// handler never retries — a redelivered event is simply a fresh Handle
// call, which the ledger deduplicates by event id.
func (h *Handler) Handle(ctx context.Context, ev Event) error {
	if ev.FromBot {
		h.log.Debug("ignoring bot-authored event", "author", ev.AuthorID)
		return nil
	}

	req, ok := classify.Classify(ev.Text)
	if !ok {
		h.log.Debug("not a mutation", "event", ev.EventID)
		return nil
	}

	value, err := h.ledger.Apply(ctx, ledger.Mutation{
		EventID:   ev.EventID,
		ScopeID:   ev.ScopeID,
		ChannelID: ev.ChannelID,
		AuthorID:  ev.AuthorID,
		RawText:   ev.Text,
		TimeSent:  ev.TimeSent,
		Label:     req.Label,
		Effect:    req.Direction.Effect(),
	})
	if err != nil {
		h.log.Error("apply failed",
			"event", ev.EventID,
			"scope", ev.ScopeID,
			"label", req.Label,
			"error", err,
		)
		return fmt.Errorf("handle event %s: %w", ev.EventID, err)
	}

	h.log.Debug("counter updated",
		"scope", ev.ScopeID,
		"label", req.Label,
		"direction", req.Direction,
		"value", value,
	)

	// The ledger transaction has committed by now; the reply happens
	// outside any storage critical section.
	reply := fmt.Sprintf("%s ⟶ %d", req.Label, value)
	if err := h.responder.Post(ctx, ev.ChannelID, reply); err != nil {
		h.log.Error("posting reply failed", "event", ev.EventID, "error", err)
		return fmt.Errorf("handle event %s: post reply: %w", ev.EventID, err)
	}

	return nil
}
