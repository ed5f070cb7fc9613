package ledger

import (
	"fmt"
	"path/filepath"
	"testing"
	"time"
)

// openTestLedger opens a fresh ledger in a per-test temp directory and
// closes it when the test finishes.
func openTestLedger(t *testing.T) *Ledger {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ledger.db")
	l, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { l.Close() })
	return l
}

// testMutation builds a well-formed mutation with a unique-ish event id.
func testMutation(scope, label string, effect int64, seq int) Mutation {
	return Mutation{
		EventID:   fmt.Sprintf("evt-%s-%s-%d", scope, label, seq),
		ScopeID:   scope,
		ChannelID: "chan-1",
		AuthorID:  "author-1",
		RawText:   label + suffixFor(effect),
		TimeSent:  time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
		Label:     label,
		Effect:    effect,
	}
}

func suffixFor(effect int64) string {
	if effect < 0 {
		return "--"
	}
	return "++"
}
