package session

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestPutGet(t *testing.T) {
	store := NewMemory(time.Minute)
	ctx := context.Background()

	if _, err := store.Get(ctx, 1, "task_name"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing field, got %v", err)
	}

	if err := store.Put(ctx, 1, "task_name", "Buy milk"); err != nil {
		t.Fatalf("put: %v", err)
	}
	got, err := store.Get(ctx, 1, "task_name")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != "Buy milk" {
		t.Fatalf("expected %q, got %q", "Buy milk", got)
	}
}

func TestListAppend(t *testing.T) {
	store := NewMemory(time.Minute)
	ctx := context.Background()

	// A list that was never written reads as empty, not as an error.
	list, err := store.GetList(ctx, 1, "tags")
	if err != nil {
		t.Fatalf("get missing list: %v", err)
	}
	if len(list) != 0 {
		t.Fatalf("expected empty list, got %v", list)
	}

	for _, tag := range []string{"work", "urgent", "work"} {
		if err := store.AppendList(ctx, 1, "tags", tag); err != nil {
			t.Fatalf("append: %v", err)
		}
	}
	list, err = store.GetList(ctx, 1, "tags")
	if err != nil {
		t.Fatalf("get list: %v", err)
	}
	// Appends are verbatim; no dedup at this layer.
	if len(list) != 3 || list[0] != "work" || list[1] != "urgent" || list[2] != "work" {
		t.Fatalf("unexpected list %v", list)
	}
}

func TestClearIsTotal(t *testing.T) {
	store := NewMemory(time.Minute)
	ctx := context.Background()

	store.Put(ctx, 1, "task_name", "Buy milk")
	store.AppendList(ctx, 1, "tags", "home")

	if err := store.Clear(ctx, 1); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if _, err := store.Get(ctx, 1, "task_name"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected scalar gone after clear, got %v", err)
	}
	list, err := store.GetList(ctx, 1, "tags")
	if err != nil || len(list) != 0 {
		t.Fatalf("expected list gone after clear, got %v, %v", list, err)
	}
}

func TestTTLExpiry(t *testing.T) {
	store := NewMemory(time.Minute)
	ctx := context.Background()

	now := time.Now()
	store.SetClock(func() time.Time { return now })

	store.Put(ctx, 1, "state", "add_task:waiting_tags")
	store.AppendList(ctx, 1, "tags", "work")

	// A write inside the window refreshes the deadline.
	now = now.Add(50 * time.Second)
	store.Put(ctx, 1, "task_name", "Buy milk")

	now = now.Add(50 * time.Second)
	if _, err := store.Get(ctx, 1, "state"); err != nil {
		t.Fatalf("expected session alive after refresh, got %v", err)
	}

	// Past the deadline, the whole namespace is treated as absent.
	now = now.Add(2 * time.Minute)
	if _, err := store.Get(ctx, 1, "state"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after expiry, got %v", err)
	}
	list, err := store.GetList(ctx, 1, "tags")
	if err != nil || len(list) != 0 {
		t.Fatalf("expected list expired, got %v, %v", list, err)
	}
}

func TestUserIsolation(t *testing.T) {
	store := NewMemory(time.Minute)
	ctx := context.Background()

	store.Put(ctx, 1, "task_name", "A's task")
	store.Put(ctx, 2, "task_name", "B's task")
	store.AppendList(ctx, 1, "tags", "a-tag")

	if err := store.Clear(ctx, 1); err != nil {
		t.Fatalf("clear: %v", err)
	}

	got, err := store.Get(ctx, 2, "task_name")
	if err != nil {
		t.Fatalf("user B's session was affected: %v", err)
	}
	if got != "B's task" {
		t.Fatalf("expected %q, got %q", "B's task", got)
	}
}
