package save

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
)

func newTestStore(t *testing.T) *SlotStore {
	t.Helper()
	store, err := OpenSlotStore(filepath.Join(t.TempDir(), "data", "slots.db"))
	if err != nil {
		t.Fatalf("opening slot store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

// TestSlotPutGet verifies a stored payload comes back unchanged with
// its metadata
func TestSlotPutGet(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	meta, err := store.Put(ctx, "before meltdown", "cGF5bG9hZA==")
	if err != nil {
		t.Fatalf("put failed: %v", err)
	}
	if meta.ID == "" || meta.Name != "before meltdown" {
		t.Errorf("meta = %+v", meta)
	}

	got, payload, err := store.Get(ctx, meta.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if payload != "cGF5bG9hZA==" {
		t.Errorf("payload = %q", payload)
	}
	if got.ID != meta.ID || got.Name != meta.Name {
		t.Errorf("got meta %+v, want %+v", got, meta)
	}
}

// TestSlotList verifies listing returns every slot without payloads
func TestSlotList(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for _, name := range []string{"alpha", "beta", "gamma"} {
		if _, err := store.Put(ctx, name, "x"); err != nil {
			t.Fatalf("put %s failed: %v", name, err)
		}
	}

	metas, err := store.List(ctx)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(metas) != 3 {
		t.Fatalf("listed %d slots, want 3", len(metas))
	}
	seen := map[string]bool{}
	for _, m := range metas {
		seen[m.Name] = true
	}
	if !seen["alpha"] || !seen["beta"] || !seen["gamma"] {
		t.Errorf("names = %v", seen)
	}
}

// TestSlotUpdate verifies overwriting a payload and the not-found case
func TestSlotUpdate(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	meta, err := store.Put(ctx, "slot", "old")
	if err != nil {
		t.Fatalf("put failed: %v", err)
	}
	if err := store.Update(ctx, meta.ID, "new"); err != nil {
		t.Fatalf("update failed: %v", err)
	}
	_, payload, err := store.Get(ctx, meta.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if payload != "new" {
		t.Errorf("payload = %q, want %q", payload, "new")
	}

	if err := store.Update(ctx, "no-such-id", "x"); !errors.Is(err, ErrSlotNotFound) {
		t.Errorf("update missing slot: %v, want ErrSlotNotFound", err)
	}
}

// TestSlotDelete verifies removal and double-delete behavior
func TestSlotDelete(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	meta, err := store.Put(ctx, "doomed", "x")
	if err != nil {
		t.Fatalf("put failed: %v", err)
	}
	if err := store.Delete(ctx, meta.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, _, err := store.Get(ctx, meta.ID); !errors.Is(err, ErrSlotNotFound) {
		t.Errorf("get after delete: %v, want ErrSlotNotFound", err)
	}
	if err := store.Delete(ctx, meta.ID); !errors.Is(err, ErrSlotNotFound) {
		t.Errorf("double delete: %v, want ErrSlotNotFound", err)
	}
}

// TestSlotGetMissing verifies an unknown id maps to ErrSlotNotFound
func TestSlotGetMissing(t *testing.T) {
	store := newTestStore(t)
	if _, _, err := store.Get(context.Background(), "nope"); !errors.Is(err, ErrSlotNotFound) {
		t.Errorf("got %v, want ErrSlotNotFound", err)
	}
}
