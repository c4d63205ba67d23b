// Package recordstore provides the persisted collection abstraction the
// order core is built on: named, ordered collections of JSON documents
// supporting append, point lookup, scan, and in-place update.
package recordstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
)

// ErrNotFound is returned when no document with the requested id exists.
// It is a normal negative outcome, not a storage failure.
var ErrNotFound = errors.New("record not found")

// Collection is an ordered set of JSON documents addressed by id.
// Documents keep their insertion order during Scan.
type Collection interface {
	Append(ctx context.Context, id string, doc []byte) error
	GetByID(ctx context.Context, id string) ([]byte, error)
	Scan(ctx context.Context, fn func(doc []byte) error) error
	UpdateByID(ctx context.Context, id string, update func(doc []byte) ([]byte, error)) ([]byte, error)
}

// Store hands out named collections backed by one persistence medium.
type Store interface {
	Collection(name string) Collection
	Close() error
}

// documentID extracts the id field from a raw document. Ids are stored
// inside the documents themselves, so a reloaded store can rebuild its
// indexes without a side table. Numeric ids (the seeded catalog) are
// rendered in decimal.
func documentID(doc []byte) (string, error) {
	var probe struct {
		ID any `json:"id"`
	}
	if err := json.Unmarshal(doc, &probe); err != nil {
		return "", fmt.Errorf("failed to probe document id: %w", err)
	}
	switch v := probe.ID.(type) {
	case string:
		if v != "" {
			return v, nil
		}
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	}

	return "", errors.New("document has no id")
}
