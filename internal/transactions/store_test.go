package transactions

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"undangan/internal/core"
	"undangan/internal/kv/memory"
)

func TestScopeKey(t *testing.T) {
	cases := []struct {
		sc  Scope
		key string
	}{
		{Scope{Year: 2025, Month: 1}, "transactions_2025_januari"},
		{Scope{Year: 2025, Month: 12}, "transactions_2025_desember"},
		{Scope{Year: 2025}, "transactions_2025"},
		{Scope{Month: 7}, "transactions_juli"},
		{Scope{}, "transactions_all"},
	}
	for _, tc := range cases {
		if got := tc.sc.Key(); got != tc.key {
			t.Fatalf("%+v: expected %q, got %q", tc.sc, tc.key, got)
		}
	}
}

func TestAddRoundTripNormalizesAmount(t *testing.T) {
	ctx := context.Background()
	mem := memory.New()
	s := New(mem, nil)
	sc := Scope{Year: 2025, Month: 4}

	var in Input
	// simulate a client payload with a locale-formatted amount string
	payload := `{"date":"2025-04-05","type":"fixed","description":"venue",` +
		`"amount":"1.500.000","budget":"2.000.000","isPaid":false}`
	if err := json.Unmarshal([]byte(payload), &in); err != nil {
		t.Fatalf("decode input: %v", err)
	}

	if _, err := s.Add(ctx, sc, in); err != nil {
		t.Fatalf("add: %v", err)
	}

	got, err := s.List(ctx, sc)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 transaction, got %d", len(got))
	}
	if got[0].Amount.Rupiah != 1500000 || got[0].Budget.Rupiah != 2000000 {
		t.Fatalf("amounts not normalized: %+v", got[0])
	}

	// the stored JSON must carry numbers, not the original strings
	raw, ok, _ := mem.Get(ctx, sc.Key())
	if !ok {
		t.Fatal("partition missing")
	}
	var generic []map[string]any
	if err := json.Unmarshal([]byte(raw), &generic); err != nil {
		t.Fatalf("stored partition not JSON: %v", err)
	}
	if _, isString := generic[0]["amount"].(string); isString {
		t.Fatal("amount stored as string")
	}
}

func TestUpdateStaysInPartition(t *testing.T) {
	ctx := context.Background()
	s := New(memory.New(), nil)
	sc := Scope{Year: 2025, Month: 4}

	added, err := s.Add(ctx, sc, Input{
		Date: core.NewDate(2025, 4, 5), Type: core.Variable,
		Description: "flowers", Amount: core.Money{Rupiah: 250000},
	})
	if err != nil {
		t.Fatalf("add: %v", err)
	}

	// date moves to another month; the record must not move partitions
	newDate := core.NewDate(2025, 8, 1)
	if _, err := s.Update(ctx, sc, added.ID, Patch{Date: &newDate}); err != nil {
		t.Fatalf("update: %v", err)
	}

	same, err := s.List(ctx, sc)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(same) != 1 || !same[0].Date.Equal(newDate.Time) {
		t.Fatalf("expected updated record in original partition, got %+v", same)
	}

	other, err := s.List(ctx, Scope{Year: 2025, Month: 8})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(other) != 0 {
		t.Fatalf("record leaked into scope partition %+v", other)
	}
}

func TestTogglePaid(t *testing.T) {
	ctx := context.Background()
	s := New(memory.New(), nil)
	sc := Scope{}

	added, err := s.Add(ctx, sc, Input{
		Date: core.NewDate(2025, 4, 5), Type: core.Fixed,
		Description: "hosting", Amount: core.Money{Rupiah: 100000},
	})
	if err != nil {
		t.Fatalf("add: %v", err)
	}

	got, err := s.TogglePaid(ctx, sc, added.ID)
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if !got.IsPaid {
		t.Fatal("expected isPaid=true after first toggle")
	}
	if got.Description != "hosting" || got.Amount.Rupiah != 100000 {
		t.Fatalf("toggle changed other fields: %+v", got)
	}

	got, err = s.TogglePaid(ctx, sc, added.ID)
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if got.IsPaid {
		t.Fatal("expected isPaid=false after second toggle")
	}

	if _, err := s.TogglePaid(ctx, sc, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	s := New(memory.New(), nil)
	sc := Scope{Year: 2025}

	added, err := s.Add(ctx, sc, Input{
		Date: core.NewDate(2025, 2, 1), Type: core.Variable,
		Description: "prints", Amount: core.Money{Rupiah: 75000},
	})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := s.Delete(ctx, sc, added.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := s.Delete(ctx, sc, added.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMalformedPartitionTreatedAsEmpty(t *testing.T) {
	ctx := context.Background()
	mem := memory.New()
	s := New(mem, nil)
	sc := Scope{Year: 2025, Month: 2}

	mem.Seed(map[string]string{sc.Key(): `[{"broken"`})
	got, err := s.List(ctx, sc)
	if err != nil {
		t.Fatalf("list should not fail on corrupt JSON: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty, got %+v", got)
	}
}
