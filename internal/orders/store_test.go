package orders

import (
	"context"
	"errors"
	"testing"
	"time"

	"undangan/internal/core"
	"undangan/internal/kv/memory"
)

func fixedNow() time.Time {
	return time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
}

func newTestStore() (*Store, *memory.Store) {
	mem := memory.New()
	s := New(mem, nil)
	s.now = fixedNow
	return s, mem
}

func sampleInput(client string, orderDate core.Date) Input {
	return Input{
		ClientName:    client,
		OrderDate:     orderDate,
		EventDate:     core.NewDate(2025, 9, 20),
		VendorID:      "v-1",
		PaymentStatus: core.Pending,
		PaymentAmount: core.Money{Rupiah: 1500000},
		WorkStatus:    "design",
	}
}

func TestAddAndList(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore()

	added, err := s.Add(ctx, sampleInput("Budi & Sari", core.NewDate(2025, 3, 10)))
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if added.ID == "" {
		t.Fatal("expected generated id")
	}

	got, err := s.List(ctx, 2025, 3)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 1 || got[0].ID != added.ID {
		t.Fatalf("expected the added order, got %+v", got)
	}
	// countdown derived from event date at read time
	want := core.CountdownDays(added.EventDate.Time, fixedNow())
	if got[0].CountdownDays != want {
		t.Fatalf("countdown = %d, want %d", got[0].CountdownDays, want)
	}

	// other months stay empty
	empty, err := s.List(ctx, 2025, 4)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(empty) != 0 {
		t.Fatalf("expected no orders in april, got %d", len(empty))
	}
}

func TestListMergesAllMonths(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore()

	if _, err := s.Add(ctx, sampleInput("a", core.NewDate(2025, 1, 5))); err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := s.Add(ctx, sampleInput("b", core.NewDate(2025, 7, 5))); err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := s.Add(ctx, sampleInput("c", core.NewDate(2024, 7, 5))); err != nil {
		t.Fatalf("add: %v", err)
	}

	all, err := s.List(ctx, YearAll, MonthAll)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 orders across partitions, got %d", len(all))
	}

	y2025, err := s.List(ctx, 2025, MonthAll)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(y2025) != 2 {
		t.Fatalf("expected 2 orders for 2025, got %d", len(y2025))
	}

	july2024, err := s.List(ctx, 2024, 7)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(july2024) != 1 || july2024[0].ClientName != "c" {
		t.Fatalf("expected only c, got %+v", july2024)
	}
}

func TestEditMovesPartitionOnDateChange(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore()

	added, err := s.Add(ctx, sampleInput("move me", core.NewDate(2025, 3, 10)))
	if err != nil {
		t.Fatalf("add: %v", err)
	}

	newDate := core.NewDate(2025, 5, 2)
	if _, err := s.Edit(ctx, added.ID, Patch{OrderDate: &newDate}); err != nil {
		t.Fatalf("edit: %v", err)
	}

	march, err := s.List(ctx, 2025, 3)
	if err != nil {
		t.Fatalf("list march: %v", err)
	}
	may, err := s.List(ctx, 2025, 5)
	if err != nil {
		t.Fatalf("list may: %v", err)
	}
	if len(march) != 0 {
		t.Fatalf("order still present in old partition: %+v", march)
	}
	if len(may) != 1 || may[0].ID != added.ID {
		t.Fatalf("order missing from new partition: %+v", may)
	}
}

func TestEditRecomputesCountdown(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore()

	added, err := s.Add(ctx, sampleInput("x", core.NewDate(2025, 3, 10)))
	if err != nil {
		t.Fatalf("add: %v", err)
	}

	event := core.NewDate(2025, 6, 11) // 10 days after fixedNow
	got, err := s.Edit(ctx, added.ID, Patch{EventDate: &event})
	if err != nil {
		t.Fatalf("edit: %v", err)
	}
	if got.CountdownDays != 10 {
		t.Fatalf("countdown = %d, want 10", got.CountdownDays)
	}
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore()

	added, err := s.Add(ctx, sampleInput("bye", core.NewDate(2025, 3, 10)))
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := s.Delete(ctx, added.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	got, err := s.List(ctx, YearAll, MonthAll)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty store, got %+v", got)
	}

	if err := s.Delete(ctx, added.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestEditNotFound(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore()
	if _, err := s.Edit(ctx, "nope", Patch{}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMalformedPartitionTreatedAsEmpty(t *testing.T) {
	ctx := context.Background()
	s, mem := newTestStore()

	mem.Seed(map[string]string{"orders_maret": `{not json`})
	if _, err := s.Add(ctx, sampleInput("ok", core.NewDate(2025, 4, 1))); err != nil {
		t.Fatalf("add: %v", err)
	}

	got, err := s.List(ctx, YearAll, MonthAll)
	if err != nil {
		t.Fatalf("list should survive a corrupt partition: %v", err)
	}
	if len(got) != 1 || got[0].ClientName != "ok" {
		t.Fatalf("expected the april order only, got %+v", got)
	}
}

func TestStringAmountsCoercedOnLoad(t *testing.T) {
	ctx := context.Background()
	s, mem := newTestStore()

	mem.Seed(map[string]string{
		"orders_januari": `[{"id":"o-1","clientName":"legacy","orderDate":"2025-01-10",` +
			`"eventDate":"2025-02-01","paymentStatus":"Lunas","paymentAmount":"1.500.000"}]`,
	})

	got, err := s.List(ctx, 2025, 1)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 order, got %d", len(got))
	}
	if got[0].PaymentAmount.Rupiah != 1500000 {
		t.Fatalf("amount = %d, want 1500000", got[0].PaymentAmount.Rupiah)
	}
}
