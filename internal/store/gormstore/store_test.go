package gormstore

import (
	"context"
	"testing"

	gormsqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	db, err := gorm.Open(gormsqlite.Open("file::memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	s, err := New(db)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	return s
}

func TestRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if _, ok, err := s.Get(ctx, "missing"); err != nil || ok {
		t.Fatalf("get missing = ok=%v err=%v, want absent without error", ok, err)
	}

	if err := s.Set(ctx, "k", `{"a":1}`); err != nil {
		t.Fatalf("set: %v", err)
	}
	v, ok, err := s.Get(ctx, "k")
	if err != nil || !ok || v != `{"a":1}` {
		t.Fatalf("get = %q ok=%v err=%v", v, ok, err)
	}

	// upsert replaces in place
	if err := s.Set(ctx, "k", `{"a":2}`); err != nil {
		t.Fatalf("set again: %v", err)
	}
	v, _, _ = s.Get(ctx, "k")
	if v != `{"a":2}` {
		t.Fatalf("after upsert = %q", v)
	}
}

func TestDeleteIdempotent(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if err := s.Set(ctx, "k", "v"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := s.Delete(ctx, "k"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := s.Delete(ctx, "k"); err != nil {
		t.Fatalf("second delete should be a no-op, got %v", err)
	}
	if _, ok, _ := s.Get(ctx, "k"); ok {
		t.Fatal("key still present after delete")
	}
}
