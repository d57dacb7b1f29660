// Package storetest provides a reusable conformance suite for
// statestore.Store implementations.
//
// Backend packages run the suite from their own tests:
//
//	func TestConformance(t *testing.T) {
//		storetest.Run(t, func(t *testing.T) statestore.Store {
//			return memory.New()
//		})
//	}
//
// The factory must return a fresh, empty store for each call. Run closes
// each store when its subtest ends; factories should not close stores
// themselves.
package storetest

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"sync"
	"testing"

	"github.com/cardframe/cardframe-go/statestore"
)

// Factory creates a fresh store for one subtest.
type Factory func(t *testing.T) statestore.Store

// Run exercises a Store implementation against the contract shared by all
// backends.
func Run(t *testing.T, factory Factory) {
	t.Run("GetMissingKey", func(t *testing.T) { testGetMissingKey(t, factory) })
	t.Run("SetThenGet", func(t *testing.T) { testSetThenGet(t, factory) })
	t.Run("SetReplacesDocument", func(t *testing.T) { testSetReplacesDocument(t, factory) })
	t.Run("EmptyDocumentIsNotMissing", func(t *testing.T) { testEmptyDocumentIsNotMissing(t, factory) })
	t.Run("Delete", func(t *testing.T) { testDelete(t, factory) })
	t.Run("DeleteMissingKey", func(t *testing.T) { testDeleteMissingKey(t, factory) })
	t.Run("KeysAreIndependent", func(t *testing.T) { testKeysAreIndependent(t, factory) })
	t.Run("ReturnedDocumentIsDetached", func(t *testing.T) { testReturnedDocumentIsDetached(t, factory) })
	t.Run("ConcurrentWriters", func(t *testing.T) { testConcurrentWriters(t, factory) })
}

func newStore(t *testing.T, factory Factory) statestore.Store {
	t.Helper()
	store := factory(t)
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("close store: %v", err)
		}
	})
	return store
}

// normalize round-trips a document through JSON so expectations compare
// equal regardless of how a backend decodes numbers.
func normalize(t *testing.T, doc statestore.Document) statestore.Document {
	t.Helper()
	raw, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("marshal document: %v", err)
	}
	var out statestore.Document
	if err := json.Unmarshal(raw, &out); err != nil {
		t.Fatalf("unmarshal document: %v", err)
	}
	return out
}

func requireDoc(t *testing.T, store statestore.Store, key string, want statestore.Document) {
	t.Helper()
	got, err := store.Get(context.Background(), key)
	if err != nil {
		t.Fatalf("get %q: %v", key, err)
	}
	if want == nil {
		if got != nil {
			t.Fatalf("get %q = %#v, want nil", key, got)
		}
		return
	}
	if !reflect.DeepEqual(normalize(t, got), normalize(t, want)) {
		t.Fatalf("get %q = %#v, want %#v", key, got, want)
	}
}

func testGetMissingKey(t *testing.T, factory Factory) {
	store := newStore(t, factory)

	doc, err := store.Get(context.Background(), "card:test:never-written")
	if err != nil {
		t.Fatalf("get missing key: %v", err)
	}
	if doc != nil {
		t.Fatalf("expected nil document for missing key, got %#v", doc)
	}
}

func testSetThenGet(t *testing.T, factory Factory) {
	store := newStore(t, factory)
	ctx := context.Background()

	doc := statestore.Document{
		"votes":   map[string]any{"go": 3, "rust": 1},
		"open":    true,
		"title":   "favorite language",
		"updated": "2025-11-02T10:00:00Z",
	}
	if err := store.Set(ctx, "card:poll:abc123", doc); err != nil {
		t.Fatalf("set: %v", err)
	}

	requireDoc(t, store, "card:poll:abc123", doc)
}

func testSetReplacesDocument(t *testing.T, factory Factory) {
	store := newStore(t, factory)
	ctx := context.Background()

	if err := store.Set(ctx, "card:counter:k", statestore.Document{"count": 1, "label": "old"}); err != nil {
		t.Fatalf("first set: %v", err)
	}
	if err := store.Set(ctx, "card:counter:k", statestore.Document{"count": 2}); err != nil {
		t.Fatalf("second set: %v", err)
	}

	// The second write replaces the whole document; "label" must be gone.
	requireDoc(t, store, "card:counter:k", statestore.Document{"count": 2})
}

func testEmptyDocumentIsNotMissing(t *testing.T, factory Factory) {
	store := newStore(t, factory)
	ctx := context.Background()

	if err := store.Set(ctx, "card:empty:k", statestore.Document{}); err != nil {
		t.Fatalf("set: %v", err)
	}

	doc, err := store.Get(ctx, "card:empty:k")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if doc == nil {
		t.Fatal("expected empty document, got nil")
	}
	if len(doc) != 0 {
		t.Fatalf("expected empty document, got %#v", doc)
	}
}

func testDelete(t *testing.T, factory Factory) {
	store := newStore(t, factory)
	ctx := context.Background()

	if err := store.Set(ctx, "card:todo:k", statestore.Document{"items": []any{"a"}}); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := store.Delete(ctx, "card:todo:k"); err != nil {
		t.Fatalf("delete: %v", err)
	}

	requireDoc(t, store, "card:todo:k", nil)
}

func testDeleteMissingKey(t *testing.T, factory Factory) {
	store := newStore(t, factory)

	if err := store.Delete(context.Background(), "card:todo:never-written"); err != nil {
		t.Fatalf("delete of missing key should succeed, got %v", err)
	}
}

func testKeysAreIndependent(t *testing.T, factory Factory) {
	store := newStore(t, factory)
	ctx := context.Background()

	if err := store.Set(ctx, "card:weather:paris", statestore.Document{"unit": "celsius"}); err != nil {
		t.Fatalf("set paris: %v", err)
	}
	if err := store.Set(ctx, "card:weather:tokyo", statestore.Document{"unit": "fahrenheit"}); err != nil {
		t.Fatalf("set tokyo: %v", err)
	}
	if err := store.Delete(ctx, "card:weather:paris"); err != nil {
		t.Fatalf("delete paris: %v", err)
	}

	requireDoc(t, store, "card:weather:paris", nil)
	requireDoc(t, store, "card:weather:tokyo", statestore.Document{"unit": "fahrenheit"})
}

func testReturnedDocumentIsDetached(t *testing.T, factory Factory) {
	store := newStore(t, factory)
	ctx := context.Background()

	if err := store.Set(ctx, "card:poll:k", statestore.Document{"count": 1}); err != nil {
		t.Fatalf("set: %v", err)
	}

	doc, err := store.Get(ctx, "card:poll:k")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	doc["count"] = 999
	doc["extra"] = "mutated"

	// Mutating the returned document must not change what is stored.
	requireDoc(t, store, "card:poll:k", statestore.Document{"count": 1})
}

func testConcurrentWriters(t *testing.T, factory Factory) {
	store := newStore(t, factory)
	ctx := context.Background()

	const writers = 16
	var wg sync.WaitGroup
	errs := make(chan error, writers)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			key := fmt.Sprintf("card:load:%d", n)
			if err := store.Set(ctx, key, statestore.Document{"n": n}); err != nil {
				errs <- fmt.Errorf("set %s: %w", key, err)
			}
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatal(err)
	}

	for i := 0; i < writers; i++ {
		requireDoc(t, store, fmt.Sprintf("card:load:%d", i), statestore.Document{"n": i})
	}
}
