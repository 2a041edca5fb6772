package archive

import (
	"context"
	"testing"
	"time"

	"cinescrape/lib/sqliteutil"
	"cinescrape/services/catalog"

	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) Store {
	t.Helper()
	db, err := sqliteutil.OpenDB(Schema, ":memory:")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return NewStore(db)
}

func TestPushAndLatest(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	runTime, records, err := store.Latest(ctx)
	require.NoError(t, err)
	require.True(t, runTime.IsZero())
	require.Empty(t, records)

	first := time.Date(2024, 2, 1, 3, 0, 0, 0, time.UTC)
	err = store.Push(ctx, first, []catalog.MovieRecord{
		{Title: "Movie A", Genre: "Action", ScrapeDate: "2024-02-01 11:00:00"},
		{Title: "Movie B", ScrapeDate: "2024-02-01 11:00:00"},
	})
	require.NoError(t, err)

	second := first.Add(24 * time.Hour)
	err = store.Push(ctx, second, []catalog.MovieRecord{
		{Title: "Movie A", Genre: "Drama", ScrapeDate: "2024-02-02 11:00:00"},
	})
	require.NoError(t, err)

	runTime, records, err = store.Latest(ctx)
	require.NoError(t, err)
	require.Equal(t, second.Unix(), runTime.Unix())
	require.Len(t, records, 1)
	require.Equal(t, "Drama", records["Movie A"].Genre)
}

func TestPushSameRunReplaces(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	runTime := time.Date(2024, 2, 1, 3, 0, 0, 0, time.UTC)

	require.NoError(t, store.Push(ctx, runTime, []catalog.MovieRecord{
		{Title: "Movie A"}, {Title: "Movie B"},
	}))
	require.NoError(t, store.Push(ctx, runTime, []catalog.MovieRecord{
		{Title: "Movie C"},
	}))

	_, records, err := store.Latest(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.Contains(t, records, "Movie C")
}
