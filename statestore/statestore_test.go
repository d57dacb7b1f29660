package statestore

import (
	"errors"
	"reflect"
	"testing"
)

func TestMergeShallow(t *testing.T) {
	base := Document{"count": 1, "meta": map[string]any{"a": 1}}
	patch := Document{"count": 2, "meta": map[string]any{"b": 2}}

	got := Merge(base, patch)

	want := Document{"count": 2, "meta": map[string]any{"b": 2}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("merged document = %#v, want %#v", got, want)
	}
	if base["count"] != 1 {
		t.Fatalf("base was modified: %#v", base)
	}
}

func TestMergeNilBase(t *testing.T) {
	got := Merge(nil, Document{"x": true})
	if !reflect.DeepEqual(got, Document{"x": true}) {
		t.Fatalf("merged document = %#v", got)
	}
}

func TestMergeNilPatch(t *testing.T) {
	got := Merge(Document{"x": true}, nil)
	if !reflect.DeepEqual(got, Document{"x": true}) {
		t.Fatalf("merged document = %#v", got)
	}
	if got == nil {
		t.Fatal("expected non-nil document")
	}
}

func TestMergeBothNil(t *testing.T) {
	if got := Merge(nil, nil); got != nil {
		t.Fatalf("expected nil, got %#v", got)
	}
}

func TestStoreErrorUnwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := &StoreError{Op: "set", Key: "card:weather:abc", Err: cause}

	if !errors.Is(err, cause) {
		t.Fatal("expected StoreError to unwrap to its cause")
	}

	var se *StoreError
	if !errors.As(err, &se) {
		t.Fatal("expected errors.As to match *StoreError")
	}
	if se.Op != "set" {
		t.Fatalf("Op = %q, want %q", se.Op, "set")
	}
}
