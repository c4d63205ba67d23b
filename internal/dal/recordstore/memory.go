package recordstore

import (
	"context"
	"fmt"
	"sync"
)

// MemoryStore keeps every collection in process memory. It is the test
// substitute and the zero-setup storage driver.
type MemoryStore struct {
	mu          sync.Mutex
	collections map[string]*memoryCollection
}

// NewMemoryStore creates a store with the named collections initialized
// eagerly as empty sequences.
func NewMemoryStore(collections ...string) *MemoryStore {
	s := &MemoryStore{collections: make(map[string]*memoryCollection)}
	for _, name := range collections {
		s.collections[name] = newMemoryCollection()
	}

	return s
}

// Collection returns the named collection, creating it when absent.
func (s *MemoryStore) Collection(name string) Collection {
	s.mu.Lock()
	defer s.mu.Unlock()

	coll, ok := s.collections[name]
	if !ok {
		coll = newMemoryCollection()
		s.collections[name] = coll
	}

	return coll
}

// Close is a no-op for the in-memory store.
func (s *MemoryStore) Close() error {
	return nil
}

type memoryCollection struct {
	mu    sync.RWMutex
	docs  [][]byte
	index map[string]int
}

func newMemoryCollection() *memoryCollection {
	return &memoryCollection{index: make(map[string]int)}
}

func (c *memoryCollection) Append(_ context.Context, id string, doc []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.index[id]; ok {
		return fmt.Errorf("duplicate id %s", id)
	}
	c.index[id] = len(c.docs)
	c.docs = append(c.docs, doc)

	return nil
}

func (c *memoryCollection) GetByID(_ context.Context, id string) ([]byte, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	i, ok := c.index[id]
	if !ok {
		return nil, ErrNotFound
	}

	return c.docs[i], nil
}

func (c *memoryCollection) Scan(_ context.Context, fn func(doc []byte) error) error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, doc := range c.docs {
		if err := fn(doc); err != nil {
			return err
		}
	}

	return nil
}

func (c *memoryCollection) UpdateByID(_ context.Context, id string, update func(doc []byte) ([]byte, error)) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	i, ok := c.index[id]
	if !ok {
		return nil, ErrNotFound
	}
	doc, err := update(c.docs[i])
	if err != nil {
		return nil, err
	}
	c.docs[i] = doc

	return doc, nil
}
