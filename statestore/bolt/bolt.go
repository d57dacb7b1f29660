// Package bolt provides a bbolt-backed statestore.Store: a single-file
// embedded database for single-host deployments where card state must
// survive restarts without an external service.
package bolt

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.etcd.io/bbolt"

	"github.com/cardframe/cardframe-go/statestore"
)

var bucketState = []byte("card_state")

// Store is a bbolt implementation of statestore.Store.
type Store struct {
	db *bbolt.DB
}

// Open opens or creates the database file at path.
func Open(path string) (*Store, error) {
	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open bolt database %s: %w", path, err)
	}
	if err := db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketState)
		return err
	}); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create state bucket: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Get(ctx context.Context, key string) (statestore.Document, error) {
	var raw []byte
	err := s.db.View(func(tx *bbolt.Tx) error {
		if v := tx.Bucket(bucketState).Get([]byte(key)); v != nil {
			// Values are only valid inside the transaction.
			raw = append([]byte(nil), v...)
		}
		return nil
	})
	if err != nil {
		return nil, &statestore.StoreError{Op: "get", Key: key, Err: err}
	}
	if raw == nil {
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
	err = s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketState).Put([]byte(key), raw)
	})
	if err != nil {
		return &statestore.StoreError{Op: "set", Key: key, Err: err}
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	err := s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketState).Delete([]byte(key))
	})
	if err != nil {
		return &statestore.StoreError{Op: "delete", Key: key, Err: err}
	}
	return nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Compile-time interface check
var _ statestore.Store = (*Store)(nil)
