// Package memory provides an in-memory statestore.Store suitable for tests
// and single-process deployments. State does not survive a restart.
package memory

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/cardframe/cardframe-go/statestore"
)

// Store is an in-memory implementation of statestore.Store. Documents are
// held as encoded JSON so callers never share structure with the store.
type Store struct {
	mu   sync.RWMutex
	docs map[string][]byte
}

func New() *Store {
	return &Store{docs: make(map[string][]byte)}
}

func (s *Store) Get(ctx context.Context, key string) (statestore.Document, error) {
	s.mu.RLock()
	raw, ok := s.docs[key]
	s.mu.RUnlock()
	if !ok {
		return nil, nil
	}

	var doc statestore.Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, &statestore.StoreError{Op: "get", Key: key, Err: err}
	}
	return doc, nil
}

func (s *Store) Set(ctx context.Context, key string, doc statestore.Document) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return &statestore.StoreError{Op: "set", Key: key, Err: err}
	}

	s.mu.Lock()
	s.docs[key] = raw
	s.mu.Unlock()
	return nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	delete(s.docs, key)
	s.mu.Unlock()
	return nil
}

func (s *Store) Close() error {
	return nil
}

// Compile-time interface check
var _ statestore.Store = (*Store)(nil)
