package bot

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/incydecy/internal/ledger"
)

// fakeResponder records posted replies; Post can be made to fail.
type fakeResponder struct {
	mu    sync.Mutex
	posts []string
	err   error
}

func (f *fakeResponder) Post(_ context.Context, channelID, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.posts = append(f.posts, channelID+": "+text)
	return nil
}

func newTestHandler(t *testing.T) (*Handler, *fakeResponder, *ledger.Ledger) {
	t.Helper()
	lg, err := ledger.Open(filepath.Join(t.TempDir(), "ledger.db"))
	require.NoError(t, err)
	t.Cleanup(func() { lg.Close() })

	resp := &fakeResponder{}
	return New(lg, resp, nil), resp, lg
}

func testEvent(id, text string) Event {
	return Event{
		ScopeID:   "guild.42",
		ChannelID: "chan-1",
		AuthorID:  "author-1",
		EventID:   id,
		TimeSent:  time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
		Text:      text,
	}
}

func TestHandle_EndToEnd(t *testing.T) {
	h, resp, lg := newTestHandler(t)
	ctx := context.Background()

	require.NoError(t, h.Handle(ctx, testEvent("e1", "a++")))
	require.NoError(t, h.Handle(ctx, testEvent("e2", "a++")))

	assert.Equal(t, []string{"chan-1: a ⟶ 1", "chan-1: a ⟶ 2"}, resp.posts)

	ranks, err := lg.TopCounters(ctx, "guild.42", 10)
	require.NoError(t, err)
	require.Len(t, ranks, 1)
	assert.Equal(t, ledger.CounterRank{Label: "a", Value: 2}, ranks[0])
}

func TestHandle_NonMutationIsSilent(t *testing.T) {
	h, resp, _ := newTestHandler(t)

	err := h.Handle(context.Background(), testEvent("e1", "hello there"))
	require.NoError(t, err)
	assert.Empty(t, resp.posts)
}

func TestHandle_IgnoresBotAuthors(t *testing.T) {
	h, resp, lg := newTestHandler(t)

	ev := testEvent("e1", "a++")
	ev.FromBot = true
	require.NoError(t, h.Handle(context.Background(), ev))

	assert.Empty(t, resp.posts)
	ranks, err := lg.TopCounters(context.Background(), "guild.42", 10)
	require.NoError(t, err)
	assert.Empty(t, ranks)
}

func TestHandle_Decrement(t *testing.T) {
	h, resp, _ := newTestHandler(t)

	require.NoError(t, h.Handle(context.Background(), testEvent("e1", "mondays--")))
	assert.Equal(t, []string{"chan-1: mondays ⟶ -1"}, resp.posts)
}

func TestHandle_RedeliveryDoesNotDoubleCount(t *testing.T) {
	h, resp, _ := newTestHandler(t)
	ctx := context.Background()

	ev := testEvent("e1", "a++")
	require.NoError(t, h.Handle(ctx, ev))
	require.NoError(t, h.Handle(ctx, ev))

	// Both deliveries answer, but with the same value.
	assert.Equal(t, []string{"chan-1: a ⟶ 1", "chan-1: a ⟶ 1"}, resp.posts)
}

func TestHandle_ResponderFailureSurfaces(t *testing.T) {
	h, resp, lg := newTestHandler(t)
	resp.err = errors.New("gateway down")

	err := h.Handle(context.Background(), testEvent("e1", "a++"))
	require.Error(t, err)

	// The mutation committed before the reply was attempted.
	value, ok, lerr := lg.CounterValue(context.Background(), "guild.42", "a")
	require.NoError(t, lerr)
	assert.True(t, ok)
	assert.Equal(t, int64(1), value)
}

func TestHandle_StorageFailureSurfacesTyped(t *testing.T) {
	h, _, lg := newTestHandler(t)

	// Closing the ledger under the handler forces a storage failure.
	require.NoError(t, lg.Close())

	err := h.Handle(context.Background(), testEvent("e1", "a++"))
	require.Error(t, err)
	assert.True(t, ledger.IsUnavailable(err))
}
