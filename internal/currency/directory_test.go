package currency

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

type stubLister struct {
	entries []Currency
	calls   int
}

func (s *stubLister) ListCurrencies(ctx context.Context) ([]Currency, error) {
	s.calls++
	return s.entries, nil
}

func newTestDirectory(t *testing.T, repo Lister) (*Directory, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewDirectory(repo, client, time.Minute), client
}

func TestSnapshotFirstMatchWins(t *testing.T) {
	snap := NewSnapshot([]Currency{
		{ID: 1, Code: "USD"},
		{ID: 1, Code: "XXX"},
		{ID: 2, Code: "EUR"},
	})
	require.Equal(t, "USD", snap.CodeFor(1))
	require.Equal(t, "EUR", snap.CodeFor(2))
}

func TestSnapshotMissingIDYieldsEmptyCode(t *testing.T) {
	snap := NewSnapshot([]Currency{{ID: 1, Code: "USD"}})
	require.Equal(t, "", snap.CodeFor(7))
}

func TestDirectoryReadThrough(t *testing.T) {
	repo := &stubLister{entries: []Currency{{ID: 1, Code: "USD"}, {ID: 2, Code: "EUR"}}}
	dir, _ := newTestDirectory(t, repo)

	ctx := context.Background()
	snap, err := dir.Snapshot(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, snap.Len())
	require.Equal(t, 1, repo.calls)

	// Second read is served from the cached document.
	snap, err = dir.Snapshot(ctx)
	require.NoError(t, err)
	require.Equal(t, "EUR", snap.CodeFor(2))
	require.Equal(t, 1, repo.calls)
}

func TestDirectoryRefreshReplacesDocument(t *testing.T) {
	repo := &stubLister{entries: []Currency{{ID: 1, Code: "USD"}}}
	dir, _ := newTestDirectory(t, repo)

	ctx := context.Background()
	_, err := dir.Snapshot(ctx)
	require.NoError(t, err)

	repo.entries = []Currency{{ID: 1, Code: "USD"}, {ID: 3, Code: "GBP"}}
	n, err := dir.Refresh(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, n)

	snap, err := dir.Snapshot(ctx)
	require.NoError(t, err)
	require.Equal(t, "GBP", snap.CodeFor(3))
}

func TestDirectoryWithoutRedisFallsBackToStore(t *testing.T) {
	repo := &stubLister{entries: []Currency{{ID: 5, Code: "JPY"}}}
	dir := NewDirectory(repo, nil, time.Minute)

	snap, err := dir.Snapshot(context.Background())
	require.NoError(t, err)
	require.Equal(t, "JPY", snap.CodeFor(5))
}
