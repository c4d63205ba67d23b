package recordstore

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStoreCreatesFileEagerly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db.json")

	_, err := NewFileStore(path, "orders", "client_last_orders")
	require.NoError(t, err)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	byName := map[string][]json.RawMessage{}
	require.NoError(t, json.Unmarshal(raw, &byName))
	assert.Contains(t, byName, "orders")
	assert.Contains(t, byName, "client_last_orders")
	assert.Empty(t, byName["orders"])
}

func TestFileStoreSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db.json")
	ctx := context.Background()

	store, err := NewFileStore(path, "orders")
	require.NoError(t, err)

	coll := NewTyped[testRecord](store.Collection("orders"))
	require.NoError(t, coll.Append(ctx, "a1", testRecord{ID: "a1", Name: "first"}))
	require.NoError(t, coll.Append(ctx, "a2", testRecord{ID: "a2", Name: "second"}))
	_, err = coll.UpdateByID(ctx, "a1", func(r *testRecord) { r.Name = "patched" })
	require.NoError(t, err)

	reopened, err := NewFileStore(path, "orders")
	require.NoError(t, err)

	coll = NewTyped[testRecord](reopened.Collection("orders"))
	all, err := coll.Scan(ctx, nil)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "patched", all[0].Name)
	assert.Equal(t, "second", all[1].Name)

	got, err := coll.GetByID(ctx, "a2")
	require.NoError(t, err)
	assert.Equal(t, "second", got.Name)
}

func TestFileStoreLoadsNumericIDs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"products":[{"id":1,"description":"NEBLINA"}]}`), 0o644))

	store, err := NewFileStore(path, "products")
	require.NoError(t, err)

	doc, err := store.Collection("products").GetByID(context.Background(), "1")
	require.NoError(t, err)
	assert.Contains(t, string(doc), "NEBLINA")
}

func TestFileStoreRejectsCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db.json")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0o644))

	_, err := NewFileStore(path, "orders")

	assert.Error(t, err)
}
