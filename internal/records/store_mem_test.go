package records_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/edukita/schoolhub/internal/records"
)

func TestRecordLifecycle(t *testing.T) {
	store := records.NewMemoryStore()
	ctx := context.Background()

	rec, err := store.Create(ctx, "news", map[string]any{"title": "hello", "body": "world"})
	require.NoError(t, err)
	require.NotEmpty(t, rec.ID)

	got, err := store.Get(ctx, "news", rec.ID)
	require.NoError(t, err)
	require.Equal(t, "hello", got.Doc["title"])

	// update merges, untouched fields survive
	upd, err := store.Update(ctx, "news", rec.ID, map[string]any{"title": "edited"})
	require.NoError(t, err)
	require.Equal(t, "edited", upd.Doc["title"])
	require.Equal(t, "world", upd.Doc["body"])

	require.NoError(t, store.Delete(ctx, "news", rec.ID))
	_, err = store.Get(ctx, "news", rec.ID)
	require.ErrorIs(t, err, records.ErrNotFound)
}

func TestCollectionsAreIsolated(t *testing.T) {
	store := records.NewMemoryStore()
	ctx := context.Background()

	rec, err := store.Create(ctx, "classes", map[string]any{"name": "X-1"})
	require.NoError(t, err)

	_, err = store.Get(ctx, "majors", rec.ID)
	require.ErrorIs(t, err, records.ErrNotFound)

	classes, err := store.List(ctx, "classes")
	require.NoError(t, err)
	require.Len(t, classes, 1)
	majors, err := store.List(ctx, "majors")
	require.NoError(t, err)
	require.Empty(t, majors)
}

func TestListByAndDeleteBy(t *testing.T) {
	store := records.NewMemoryStore()
	ctx := context.Background()

	for _, user := range []string{"u1", "u1", "u2"} {
		_, err := store.Create(ctx, "payments", map[string]any{"user": user, "amount": 100})
		require.NoError(t, err)
	}

	mine, err := store.ListBy(ctx, "payments", "user", "u1")
	require.NoError(t, err)
	require.Len(t, mine, 2)

	n, err := store.DeleteBy(ctx, "payments", "user", "u1")
	require.NoError(t, err)
	require.Equal(t, int64(2), n)

	rest, err := store.List(ctx, "payments")
	require.NoError(t, err)
	require.Len(t, rest, 1)
	require.Equal(t, "u2", rest[0].Doc["user"])
}

func TestRecordJSONFlattens(t *testing.T) {
	store := records.NewMemoryStore()
	rec, err := store.Create(context.Background(), "web", map[string]any{"schoolName": "SMA 1"})
	require.NoError(t, err)

	out := rec.JSON()
	require.Equal(t, rec.ID, out["id"])
	require.Equal(t, "SMA 1", out["schoolName"])
	require.Contains(t, out, "createdAt")
}
