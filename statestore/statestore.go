// Package statestore defines the durable state contract for card instances.
//
// A card instance's interactive state is an opaque JSON document addressed
// by the instance's storage key. Backends implement Store; callers treat
// every backend the same way: a key that was never written reads back as
// (nil, nil), writes replace the whole document, and backend failures are
// reported as *StoreError so callers can degrade to stateless operation
// instead of failing outright.
package statestore

import (
	"context"
	"fmt"
)

// Document is one card instance's state as decoded JSON. Documents are
// replaced wholesale on write; partial updates are combined by the caller
// before the write (see Merge).
type Document map[string]any

// Store is the durable backend for card instance state.
//
// Implementations must be safe for concurrent use. Concurrent writers follow
// last-write-wins semantics: Set replaces the stored document without any
// compare-and-swap step.
type Store interface {
	// Get returns the document stored under key, or (nil, nil) when the key
	// has never been written or has been deleted.
	Get(ctx context.Context, key string) (Document, error)

	// Set stores doc under key, replacing any previous document.
	Set(ctx context.Context, key string, doc Document) error

	// Delete removes the document under key. Deleting an absent key is not
	// an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources. The store must not be used after
	// Close returns.
	Close() error
}

// Merge returns a new document holding base overlaid with patch. The merge
// is shallow: a top-level key in patch replaces the same key in base, nested
// values are never combined. Neither argument is modified.
func Merge(base, patch Document) Document {
	if base == nil && patch == nil {
		return nil
	}
	out := make(Document, len(base)+len(patch))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range patch {
		out[k] = v
	}
	return out
}

// StoreError describes a failed backend operation.
type StoreError struct {
	Op  string // "get", "set" or "delete"
	Key string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("state store %s %q: %v", e.Op, e.Key, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}
