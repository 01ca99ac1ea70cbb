package booking

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewStore(client, time.Hour), mr
}

func TestStoreLoadMissingReturnsFresh(t *testing.T) {
	store, _ := newTestStore(t)

	sel, err := store.Load(context.Background(), "session-1")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if sel.Step != StepSelectDoctor || sel.DoctorID != nil {
		t.Fatalf("expected fresh selection, got %+v", sel)
	}
}

func TestStoreRoundTrip(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	sel := NewSelection()
	sel.SelectDoctor("doc-1")
	sel.SetDate("2025-06-10")
	sel.SetTime("09:00")
	sel.Step = StepConfirm
	if err := store.Save(ctx, "session-1", sel); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := store.Load(ctx, "session-1")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.DoctorID == nil || *got.DoctorID != "doc-1" || got.Date != "2025-06-10" ||
		got.Time != "09:00" || got.Step != StepConfirm {
		t.Fatalf("round trip mismatch: %+v", got)
	}
}

func TestStoreSessionsAreIsolated(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	a := NewSelection()
	a.SelectDoctor("doc-1")
	if err := store.Save(ctx, "session-a", a); err != nil {
		t.Fatalf("Save: %v", err)
	}

	b, err := store.Load(ctx, "session-b")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if b.DoctorID != nil {
		t.Fatal("sessions must not share state")
	}
}

func TestStoreEntriesExpire(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	sel := NewSelection()
	sel.SelectDoctor("doc-1")
	if err := store.Save(ctx, "session-1", sel); err != nil {
		t.Fatalf("Save: %v", err)
	}

	mr.FastForward(2 * time.Hour)

	got, err := store.Load(ctx, "session-1")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.DoctorID != nil {
		t.Fatal("expired selection must come back fresh")
	}
}

func TestStoreDelete(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	sel := NewSelection()
	sel.SelectDoctor("doc-1")
	if err := store.Save(ctx, "session-1", sel); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := store.Delete(ctx, "session-1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	got, err := store.Load(ctx, "session-1")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.DoctorID != nil {
		t.Fatal("deleted selection must come back fresh")
	}
}
