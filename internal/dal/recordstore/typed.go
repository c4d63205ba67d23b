package recordstore

import (
	"context"
	"encoding/json"
	"fmt"
)

// Typed adapts a raw document collection to a concrete record type.
type Typed[T any] struct {
	coll Collection
}

// NewTyped wraps a collection with JSON conversion for T.
func NewTyped[T any](coll Collection) Typed[T] {
	return Typed[T]{coll: coll}
}

// Append marshals the record and appends it under the given id. The
// record is expected to carry the id in its own id field as well.
func (c Typed[T]) Append(ctx context.Context, id string, rec T) error {
	doc, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal record: %w", err)
	}

	return c.coll.Append(ctx, id, doc)
}

// GetByID resolves a single record. Returns ErrNotFound when absent.
func (c Typed[T]) GetByID(ctx context.Context, id string) (T, error) {
	var rec T
	doc, err := c.coll.GetByID(ctx, id)
	if err != nil {
		return rec, err
	}
	if err := json.Unmarshal(doc, &rec); err != nil {
		return rec, fmt.Errorf("failed to unmarshal record %s: %w", id, err)
	}

	return rec, nil
}

// Scan returns the records matching pred in insertion order. A nil pred
// matches everything.
func (c Typed[T]) Scan(ctx context.Context, pred func(T) bool) ([]T, error) {
	var out []T
	err := c.coll.Scan(ctx, func(doc []byte) error {
		var rec T
		if err := json.Unmarshal(doc, &rec); err != nil {
			return fmt.Errorf("failed to unmarshal record: %w", err)
		}
		if pred == nil || pred(rec) {
			out = append(out, rec)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return out, nil
}

// UpdateByID applies patch to the stored record in place and returns the
// updated value. Returns ErrNotFound when the id does not exist.
func (c Typed[T]) UpdateByID(ctx context.Context, id string, patch func(*T)) (T, error) {
	var updated T
	_, err := c.coll.UpdateByID(ctx, id, func(doc []byte) ([]byte, error) {
		var rec T
		if err := json.Unmarshal(doc, &rec); err != nil {
			return nil, fmt.Errorf("failed to unmarshal record %s: %w", id, err)
		}
		patch(&rec)

		out, err := json.Marshal(rec)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal record %s: %w", id, err)
		}
		updated = rec

		return out, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}

	return updated, nil
}
