package profile

import (
	"context"
	"testing"

	"github.com/novalabs/nova-backend/internal/store/memstore"
)

func TestProfileLifecycle(t *testing.T) {
	svc := NewService(memstore.New())
	ctx := context.Background()

	got, err := svc.Get(ctx)
	if err != nil || got != nil {
		t.Fatalf("get before save = %v, %v; want nil, nil", got, err)
	}

	p := UserProfile{
		Name:      "Alex",
		Gender:    "other",
		Goal:      "manage stress",
		Feeling:   "anxious",
		Interests: []string{"music", "hiking"},
	}
	if err := svc.Save(ctx, p); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err = svc.Get(ctx)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got == nil || got.Name != "Alex" || len(got.Interests) != 2 {
		t.Errorf("round-trip = %+v", got)
	}

	if err := svc.Delete(ctx); err != nil {
		t.Fatalf("delete: %v", err)
	}
	got, _ = svc.Get(ctx)
	if got != nil {
		t.Errorf("profile still present after delete: %+v", got)
	}
}

func TestGetMalformedDocument(t *testing.T) {
	kv := memstore.New()
	ctx := context.Background()
	if err := kv.Set(ctx, StorageKey, "{broken"); err != nil {
		t.Fatal(err)
	}

	svc := NewService(kv)
	got, err := svc.Get(ctx)
	if err != nil || got != nil {
		t.Fatalf("malformed document should read as absent, got %v, %v", got, err)
	}
}
