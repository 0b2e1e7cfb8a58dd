package memory

import (
	"context"
	"testing"
	"time"
)

func TestGetSetDelete(t *testing.T) {
	ctx := context.Background()
	s := New()

	if _, ok, _ := s.Get(ctx, "orders_januari"); ok {
		t.Fatal("expected missing key")
	}
	if err := s.Set(ctx, "orders_januari", `[]`); err != nil {
		t.Fatalf("set: %v", err)
	}
	v, ok, err := s.Get(ctx, "orders_januari")
	if err != nil || !ok || v != `[]` {
		t.Fatalf("get: got %q ok=%v err=%v", v, ok, err)
	}
	if err := s.Delete(ctx, "orders_januari"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok, _ := s.Get(ctx, "orders_januari"); ok {
		t.Fatal("expected key removed")
	}
}

func TestWatchDeliversChanges(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s := New()
	ch, err := s.Watch(ctx)
	if err != nil {
		t.Fatalf("watch: %v", err)
	}

	if err := s.Set(ctx, "invoices", `[{"id":"i-1"}]`); err != nil {
		t.Fatalf("set: %v", err)
	}

	select {
	case ev := <-ch:
		if ev.Key != "invoices" || ev.Value != `[{"id":"i-1"}]` {
			t.Fatalf("unexpected event %+v", ev)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for change event")
	}
}

func TestWatchClosesOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s := New()
	ch, err := s.Watch(ctx)
	if err != nil {
		t.Fatalf("watch: %v", err)
	}
	cancel()

	select {
	case _, open := <-ch:
		if open {
			t.Fatal("expected closed channel")
		}
	case <-time.After(time.Second):
		t.Fatal("channel not closed after cancel")
	}
}
