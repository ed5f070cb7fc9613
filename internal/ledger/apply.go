package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"golang.org/x/text/unicode/norm"
)

// timeFormat is fixed-width so stored timestamps compare correctly as
// strings (RFC3339Nano trims trailing zeros, which breaks lexical order
// and the MAX() keeping updated_at monotonic).
const timeFormat = "2006-01-02T15:04:05.000000000Z"

// Apply adjusts the counter for (ScopeID, Label) by Effect and records the
// mutation's audit row, all in one transaction. It returns the counter's
// post-mutation value.
//
// The counter is created implicitly on first mention. The tally moves via
// a single upsert statement so concurrent applies to the same counter
// serialize at the engine with no lost updates.
//
// Redelivery of an already-recorded EventID refreshes the audit row and
// returns the counter's current value without re-applying Effect.
//
// Counter identity uses the NFC-normalized label, so precomposed and
// decomposed spellings of the same name tally together. RawText is stored
// exactly as authored.
func (l *Ledger) Apply(ctx context.Context, m Mutation) (int64, error) {
	if m.Effect != 1 && m.Effect != -1 {
		return 0, &StoreError{
			Code: ErrCodeConstraint,
			Op:   "apply",
			Err:  fmt.Errorf("effect must be +1 or -1, got %d", m.Effect),
		}
	}

	label := norm.NFC.String(m.Label)

	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, storeErr("apply: begin tx", err)
	}
	defer tx.Rollback() // No-op if committed

	// Duplicate-delivery check runs first so a redelivered event never
	// touches the counter again.
	var counterID int64
	err = tx.QueryRowContext(ctx, `
		SELECT counter_id FROM mutations WHERE event_id = ?
	`, m.EventID).Scan(&counterID)

	switch {
	case err == nil:
		return l.refreshDuplicate(ctx, tx, m, label, counterID)
	case errors.Is(err, sql.ErrNoRows):
		// First delivery, fall through.
	default:
		return 0, storeErr("apply: check duplicate", err)
	}

	now := time.Now().UTC().Format(timeFormat)

	// Upsert the counter. MAX keeps updated_at monotonic even if the
	// wall clock steps backwards between applies.
	var value int64
	err = tx.QueryRowContext(ctx, `
		INSERT INTO counters (scope_id, label, current_value, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(scope_id, label) DO UPDATE SET
			current_value = current_value + excluded.current_value,
			updated_at = MAX(updated_at, excluded.updated_at)
		RETURNING id, current_value
	`, m.ScopeID, label, m.Effect, now, now).Scan(&counterID, &value)
	if err != nil {
		return 0, storeErr("apply: upsert counter", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO mutations
		(event_id, scope_id, channel_id, author_id, raw_text, time_sent, label, effect, counter_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		m.EventID,
		m.ScopeID,
		m.ChannelID,
		m.AuthorID,
		m.RawText,
		m.TimeSent.UTC().Format(timeFormat),
		label,
		m.Effect,
		counterID,
	)
	if err != nil {
		return 0, storeErr("apply: insert mutation", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, storeErr("apply: commit", err)
	}

	return value, nil
}

// refreshDuplicate handles redelivery of a known event id: the audit row
// is replaced with the redelivered payload (which may differ from the
// original), the counter is left untouched, and its current value is
// returned so the caller can still answer the event source.
func (l *Ledger) refreshDuplicate(ctx context.Context, tx *sql.Tx, m Mutation, label string, counterID int64) (int64, error) {
	_, err := tx.ExecContext(ctx, `
		UPDATE mutations
		SET scope_id = ?, channel_id = ?, author_id = ?, raw_text = ?, time_sent = ?, label = ?, effect = ?
		WHERE event_id = ?
	`,
		m.ScopeID,
		m.ChannelID,
		m.AuthorID,
		m.RawText,
		m.TimeSent.UTC().Format(timeFormat),
		label,
		m.Effect,
		m.EventID,
	)
	if err != nil {
		return 0, storeErr("apply: refresh duplicate", err)
	}

	var value int64
	err = tx.QueryRowContext(ctx, `
		SELECT current_value FROM counters WHERE id = ?
	`, counterID).Scan(&value)
	if err != nil {
		return 0, storeErr("apply: read counter", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, storeErr("apply: commit duplicate", err)
	}

	return value, nil
}
