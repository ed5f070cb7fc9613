package ledger

import (
	"context"
	"database/sql"
	"errors"

	"golang.org/x/text/unicode/norm"
)

// DefaultLimit bounds leaderboard results when the caller passes a
// non-positive limit.
const DefaultLimit = 10

// TopCounters returns the scope's counters ordered by value descending.
// Ties break on label lexical order so results are deterministic.
//
// Returns an empty slice (not nil) if the scope has no counters.
func (l *Ledger) TopCounters(ctx context.Context, scopeID string, limit int) ([]CounterRank, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}

	rows, err := l.db.QueryContext(ctx, `
		SELECT label, current_value
		FROM counters
		WHERE scope_id = ?
		ORDER BY current_value DESC, label ASC
		LIMIT ?
	`, scopeID, limit)
	if err != nil {
		return nil, storeErr("top counters", err)
	}
	defer rows.Close()

	ranks := []CounterRank{}
	for rows.Next() {
		var r CounterRank
		if err := rows.Scan(&r.Label, &r.Value); err != nil {
			return nil, storeErr("top counters: scan", err)
		}
		ranks = append(ranks, r)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("top counters: iterate", err)
	}

	return ranks, nil
}

// TopAuthors returns the scope's authors ordered by how many mutation
// events each has committed, descending. Ties break on author id.
//
// Returns an empty slice (not nil) if the scope has no mutations.
func (l *Ledger) TopAuthors(ctx context.Context, scopeID string, limit int) ([]AuthorRank, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}

	rows, err := l.db.QueryContext(ctx, `
		SELECT author_id, COUNT(*) AS invocations
		FROM mutations
		WHERE scope_id = ?
		GROUP BY author_id
		ORDER BY invocations DESC, author_id ASC
		LIMIT ?
	`, scopeID, limit)
	if err != nil {
		return nil, storeErr("top authors", err)
	}
	defer rows.Close()

	ranks := []AuthorRank{}
	for rows.Next() {
		var r AuthorRank
		if err := rows.Scan(&r.AuthorID, &r.Count); err != nil {
			return nil, storeErr("top authors: scan", err)
		}
		ranks = append(ranks, r)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("top authors: iterate", err)
	}

	return ranks, nil
}

// CounterValue reads a single counter's current value. The second return
// value is false if the counter has never been mutated.
func (l *Ledger) CounterValue(ctx context.Context, scopeID, label string) (int64, bool, error) {
	var value int64
	err := l.db.QueryRowContext(ctx, `
		SELECT current_value FROM counters WHERE scope_id = ? AND label = ?
	`, scopeID, norm.NFC.String(label)).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, storeErr("counter value", err)
	}
	return value, true, nil
}
