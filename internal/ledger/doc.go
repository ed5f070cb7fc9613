// Package ledger provides SQLite-backed durable storage for counters and
// their mutation history.
//
// The ledger holds two tables:
//   - Counters: one row per (scope, label), carrying the running tally
//   - Mutations: append-only audit log, one row per source event id
//
// # Critical Patterns
//
// Atomic apply
//   - The counter upsert and the audit insert commit in one transaction;
//     a failure anywhere rolls both back
//   - The tally moves via a single ON CONFLICT upsert statement, never an
//     application-level read-modify-write, so concurrent applies to the
//     same counter cannot lose updates
//
// Idempotent redelivery
//   - mutations.event_id is the primary key; a redelivered event refreshes
//     its audit row but never touches the counter again
//
// Deterministic query results
//   - Leaderboard queries order by value DESC with a lexical secondary key
//     (label, author_id) so ties render identically across runs
//
// # Database Configuration
//
//   - WAL mode: concurrent reads during writes
//   - synchronous=NORMAL: balance durability/performance
//   - busy_timeout=5000: wait for locks up to 5 seconds
//   - foreign_keys=ON: enforce referential integrity
//   - _txlock=immediate: write transactions take the write lock up front,
//     queueing on the busy timeout instead of failing mid-transaction
//
// Pragmas ride on the DSN so every pooled connection carries them. The
// pool is the only process-wide state; no in-process lock serializes
// callers on top of SQLite's own writer serialization.
package ledger
