package recordstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"
)

// FileStore persists every collection into a single JSON file shaped as
// a mapping from collection name to an ordered sequence of documents.
// The whole file is rewritten on each mutation; with one local process
// and hand-typed order volumes that is plenty.
type FileStore struct {
	mu          sync.RWMutex
	path        string
	collections map[string]*fileCollection
}

// NewFileStore opens (or creates) the store file at path and initializes
// the named collections eagerly as empty sequences.
func NewFileStore(path string, collections ...string) (*FileStore, error) {
	s := &FileStore{path: path, collections: make(map[string]*fileCollection)}
	for _, name := range collections {
		s.collections[name] = newFileCollection(s)
	}

	raw, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		if err := s.flushLocked(); err != nil {
			return nil, err
		}

		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read store file %s: %w", path, err)
	}

	byName := map[string][]json.RawMessage{}
	if err := json.Unmarshal(raw, &byName); err != nil {
		return nil, fmt.Errorf("failed to parse store file %s: %w", path, err)
	}
	for name, docs := range byName {
		coll, ok := s.collections[name]
		if !ok {
			coll = newFileCollection(s)
			s.collections[name] = coll
		}
		for _, doc := range docs {
			id, err := documentID(doc)
			if err != nil {
				return nil, fmt.Errorf("collection %s: %w", name, err)
			}
			coll.index[id] = len(coll.docs)
			coll.docs = append(coll.docs, doc)
		}
	}

	return s, nil
}

// Collection returns the named collection, creating it when absent.
func (s *FileStore) Collection(name string) Collection {
	s.mu.Lock()
	defer s.mu.Unlock()

	coll, ok := s.collections[name]
	if !ok {
		coll = newFileCollection(s)
		s.collections[name] = coll
	}

	return coll
}

// Close is a no-op; every mutation is flushed as it happens.
func (s *FileStore) Close() error {
	return nil
}

// flushLocked rewrites the store file. Callers hold s.mu.
func (s *FileStore) flushLocked() error {
	byName := make(map[string][]json.RawMessage, len(s.collections))
	for name, coll := range s.collections {
		docs := make([]json.RawMessage, len(coll.docs))
		for i, doc := range coll.docs {
			docs[i] = json.RawMessage(doc)
		}
		byName[name] = docs
	}

	raw, err := json.MarshalIndent(byName, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal store file: %w", err)
	}
	if err := os.WriteFile(s.path, raw, 0o644); err != nil {
		return fmt.Errorf("failed to write store file %s: %w", s.path, err)
	}

	return nil
}

type fileCollection struct {
	store *FileStore
	docs  [][]byte
	index map[string]int
}

func newFileCollection(store *FileStore) *fileCollection {
	return &fileCollection{store: store, index: make(map[string]int)}
}

func (c *fileCollection) Append(_ context.Context, id string, doc []byte) error {
	c.store.mu.Lock()
	defer c.store.mu.Unlock()

	if _, ok := c.index[id]; ok {
		return fmt.Errorf("duplicate id %s", id)
	}
	c.index[id] = len(c.docs)
	c.docs = append(c.docs, doc)

	return c.store.flushLocked()
}

func (c *fileCollection) GetByID(_ context.Context, id string) ([]byte, error) {
	c.store.mu.RLock()
	defer c.store.mu.RUnlock()

	i, ok := c.index[id]
	if !ok {
		return nil, ErrNotFound
	}

	return c.docs[i], nil
}

func (c *fileCollection) Scan(_ context.Context, fn func(doc []byte) error) error {
	c.store.mu.RLock()
	defer c.store.mu.RUnlock()

	for _, doc := range c.docs {
		if err := fn(doc); err != nil {
			return err
		}
	}

	return nil
}

func (c *fileCollection) UpdateByID(_ context.Context, id string, update func(doc []byte) ([]byte, error)) ([]byte, error) {
	c.store.mu.Lock()
	defer c.store.mu.Unlock()

	i, ok := c.index[id]
	if !ok {
		return nil, ErrNotFound
	}
	doc, err := update(c.docs[i])
	if err != nil {
		return nil, err
	}
	c.docs[i] = doc
	if err := c.store.flushLocked(); err != nil {
		return nil, err
	}

	return doc, nil
}
