package recordstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testRecord struct {
	ID    string `json:"id"`
	Name  string `json:"name,omitempty"`
	Count int    `json:"count,omitempty"`
}

func TestMemoryStoreInitializesCollectionsEagerly(t *testing.T) {
	store := NewMemoryStore("orders", "client_last_orders")

	coll := NewTyped[testRecord](store.Collection("orders"))
	records, err := coll.Scan(context.Background(), nil)

	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestTypedAppendAndGetByID(t *testing.T) {
	store := NewMemoryStore("orders")
	coll := NewTyped[testRecord](store.Collection("orders"))

	require.NoError(t, coll.Append(context.Background(), "a1", testRecord{ID: "a1", Name: "first"}))

	got, err := coll.GetByID(context.Background(), "a1")
	require.NoError(t, err)
	assert.Equal(t, "first", got.Name)
}

func TestGetByIDMissingReturnsNotFound(t *testing.T) {
	store := NewMemoryStore("orders")
	coll := NewTyped[testRecord](store.Collection("orders"))

	_, err := coll.GetByID(context.Background(), "missing")

	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAppendRejectsDuplicateID(t *testing.T) {
	store := NewMemoryStore("orders")
	coll := NewTyped[testRecord](store.Collection("orders"))

	require.NoError(t, coll.Append(context.Background(), "a1", testRecord{ID: "a1"}))
	err := coll.Append(context.Background(), "a1", testRecord{ID: "a1"})

	assert.Error(t, err)
}

func TestScanPreservesInsertionOrderAndFilters(t *testing.T) {
	store := NewMemoryStore("orders")
	coll := NewTyped[testRecord](store.Collection("orders"))

	ctx := context.Background()
	require.NoError(t, coll.Append(ctx, "a1", testRecord{ID: "a1", Count: 1}))
	require.NoError(t, coll.Append(ctx, "a2", testRecord{ID: "a2", Count: 2}))
	require.NoError(t, coll.Append(ctx, "a3", testRecord{ID: "a3", Count: 3}))

	all, err := coll.Scan(ctx, nil)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "a1", all[0].ID)
	assert.Equal(t, "a3", all[2].ID)

	odd, err := coll.Scan(ctx, func(r testRecord) bool { return r.Count%2 == 1 })
	require.NoError(t, err)
	assert.Len(t, odd, 2)
}

func TestUpdateByIDPatchesInPlace(t *testing.T) {
	store := NewMemoryStore("orders")
	coll := NewTyped[testRecord](store.Collection("orders"))

	ctx := context.Background()
	require.NoError(t, coll.Append(ctx, "a1", testRecord{ID: "a1", Name: "before"}))

	updated, err := coll.UpdateByID(ctx, "a1", func(r *testRecord) {
		r.Name = "after"
	})
	require.NoError(t, err)
	assert.Equal(t, "after", updated.Name)

	got, err := coll.GetByID(ctx, "a1")
	require.NoError(t, err)
	assert.Equal(t, "after", got.Name)

	// no second record appeared
	all, err := coll.Scan(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestUpdateByIDMissingReturnsNotFound(t *testing.T) {
	store := NewMemoryStore("orders")
	coll := NewTyped[testRecord](store.Collection("orders"))

	_, err := coll.UpdateByID(context.Background(), "missing", func(r *testRecord) {})

	assert.ErrorIs(t, err, ErrNotFound)
}
