package inmemorystore

import (
	"bytes"
	"context"
	"sort"
	"sync"

	"github.com/vk/sduigo/internal/scenariostore"
)

// Store keeps documents in a map guarded by a RWMutex. Reads dominate: the
// server reads on every request, the watcher writes on file changes.
type Store struct {
	mu   sync.RWMutex
	docs map[string][]byte
}

// New creates a new, empty in-memory scenario store.
func New() *Store {
	return &Store{docs: make(map[string][]byte)}
}

var _ scenariostore.Store = (*Store)(nil)

// Put stores a copy of doc under name.
func (s *Store) Put(_ context.Context, name string, doc []byte) error {
	if err := scenariostore.ValidateName(name); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[name] = bytes.Clone(doc)
	return nil
}

// Get returns a copy of the document stored under name.
func (s *Store) Get(_ context.Context, name string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.docs[name]
	if !ok {
		return nil, scenariostore.ErrNotFound
	}
	return bytes.Clone(doc), nil
}

// List returns the stored names in sorted order.
func (s *Store) List(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.docs))
	for n := range s.docs {
		names = append(names, n)
	}
	sort.Strings(names)
	return names, nil
}

// Delete removes the document stored under name.
func (s *Store) Delete(_ context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.docs[name]; !ok {
		return scenariostore.ErrNotFound
	}
	delete(s.docs, name)
	return nil
}
