package ledger

import (
	"context"
	"encoding/json"
	"testing"

	"undangan/internal/core"
)

type stubLister struct {
	byScope map[[2]int][]core.Order
}

func (s *stubLister) List(_ context.Context, year, month int) ([]core.Order, error) {
	return s.byScope[[2]int{year, month}], nil
}

func decodeOrders(t *testing.T, raw string) []core.Order {
	t.Helper()
	var orders []core.Order
	if err := json.Unmarshal([]byte(raw), &orders); err != nil {
		t.Fatalf("decode orders: %v", err)
	}
	return orders
}

func decodeTxs(t *testing.T, raw string) []core.Transaction {
	t.Helper()
	var txs []core.Transaction
	if err := json.Unmarshal([]byte(raw), &txs); err != nil {
		t.Fatalf("decode transactions: %v", err)
	}
	return txs
}

func TestRevenueSplit(t *testing.T) {
	orders := decodeOrders(t, `[
		{"id":"o-1","paymentStatus":"Pending","paymentAmount":1000000},
		{"id":"o-2","paymentStatus":"Lunas","paymentAmount":2000000}
	]`)

	if got := TotalRevenue(orders); got != 3000000 {
		t.Fatalf("total revenue = %d, want 3000000", got)
	}
	if got := PaidAmount(orders); got != 2000000 {
		t.Fatalf("paid = %d, want 2000000", got)
	}
	if got := UnpaidAmount(orders); got != 1000000 {
		t.Fatalf("unpaid = %d, want 1000000", got)
	}
	if PaidAmount(orders)+UnpaidAmount(orders) != TotalRevenue(orders) {
		t.Fatal("paid + unpaid must equal total revenue")
	}
}

func TestRevenueCoercesStringAmounts(t *testing.T) {
	orders := decodeOrders(t, `[
		{"id":"o-1","paymentStatus":"Lunas","paymentAmount":"1.500.000"},
		{"id":"o-2","paymentStatus":"Lunas","paymentAmount":"not a number"}
	]`)

	// the malformed amount degrades to 0 instead of poisoning the sum
	if got := TotalRevenue(orders); got != 1500000 {
		t.Fatalf("total revenue = %d, want 1500000", got)
	}
}

func TestFixedStatusScenario(t *testing.T) {
	txs := decodeTxs(t, `[
		{"id":"t-1","type":"fixed","amount":"500.000","isPaid":false},
		{"id":"t-2","type":"fixed","amount":300000,"isPaid":true}
	]`)

	got := FixedStatus(txs)
	want := FixedExpenseStatus{Paid: 1, Total: 2, Percent: 50}
	if got != want {
		t.Fatalf("fixed status = %+v, want %+v", got, want)
	}
	if total := ExpenseTotal(txs, core.Fixed); total != 800000 {
		t.Fatalf("fixed expense total = %d, want 800000", total)
	}
}

func TestFixedStatusEmpty(t *testing.T) {
	if got := FixedStatus(nil); got != (FixedExpenseStatus{}) {
		t.Fatalf("empty status = %+v", got)
	}
}

func TestBudgetVariance(t *testing.T) {
	txs := decodeTxs(t, `[
		{"id":"t-1","type":"fixed","amount":700000,"budget":"500.000"},
		{"id":"t-2","type":"fixed","amount":100000,"budget":200000},
		{"id":"t-3","type":"variable","amount":999999,"budget":999999}
	]`)

	got := BudgetVariance(txs)
	if got.TotalBudget != 700000 || got.TotalActual != 800000 {
		t.Fatalf("variance totals = %+v", got)
	}
	if got.Difference != -100000 {
		t.Fatalf("difference = %d, want -100000 (overspend)", got.Difference)
	}
}

func TestPreviousMonthBalanceJanuaryRollsOver(t *testing.T) {
	ctx := context.Background()
	lister := &stubLister{byScope: map[[2]int][]core.Order{
		{2024, 12}: decodeOrders(t, `[
			{"id":"o-1","paymentStatus":"Lunas","paymentAmount":2500000},
			{"id":"o-2","paymentStatus":"Pending","paymentAmount":9000000}
		]`),
	}}

	got, err := PreviousMonthBalance(ctx, lister, 2025, 1)
	if err != nil {
		t.Fatalf("previous month balance: %v", err)
	}
	if got != 2500000 {
		t.Fatalf("balance = %d, want only December 2024 paid orders", got)
	}
}

func TestPreviousMonthBalanceMissingPartition(t *testing.T) {
	ctx := context.Background()
	got, err := PreviousMonthBalance(ctx, &stubLister{byScope: map[[2]int][]core.Order{}}, 2025, 6)
	if err != nil {
		t.Fatalf("previous month balance: %v", err)
	}
	if got != 0 {
		t.Fatalf("balance = %d, want 0 for missing partition", got)
	}
}

func TestBuildStatement(t *testing.T) {
	ctx := context.Background()
	lister := &stubLister{byScope: map[[2]int][]core.Order{
		{2025, 5}: decodeOrders(t, `[{"id":"o-0","paymentStatus":"Lunas","paymentAmount":1000000}]`),
	}}
	orders := decodeOrders(t, `[
		{"id":"o-1","paymentStatus":"Lunas","paymentAmount":2000000},
		{"id":"o-2","paymentStatus":"Pending","paymentAmount":500000}
	]`)
	txs := decodeTxs(t, `[
		{"id":"t-1","type":"fixed","amount":300000,"budget":400000,"isPaid":true},
		{"id":"t-2","type":"variable","amount":200000}
	]`)

	st, err := Build(ctx, lister, 2025, 6, orders, txs)
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	if st.TotalRevenue != 2500000 || st.PaidAmount != 2000000 || st.UnpaidAmount != 500000 {
		t.Fatalf("revenue block = %+v", st)
	}
	if st.FixedExpenses != 300000 || st.VariableExpenses != 200000 || st.TotalExpenses != 500000 {
		t.Fatalf("expense block = %+v", st)
	}
	if st.PreviousMonthBalance != 1000000 {
		t.Fatalf("opening balance = %d", st.PreviousMonthBalance)
	}
	// 1000000 opening - 500000 expenses
	if st.RemainingBalance != 500000 {
		t.Fatalf("remaining = %d", st.RemainingBalance)
	}
	if st.Label != "juni 2025" {
		t.Fatalf("label = %q", st.Label)
	}
	if st.FixedStatus.Percent != 100 {
		t.Fatalf("fixed status = %+v", st.FixedStatus)
	}
}

func TestRemainingBalanceMayGoNegative(t *testing.T) {
	ctx := context.Background()
	txs := decodeTxs(t, `[{"id":"t-1","type":"variable","amount":750000}]`)

	st, err := Build(ctx, &stubLister{byScope: map[[2]int][]core.Order{}}, 2025, 3, nil, txs)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if st.RemainingBalance != -750000 {
		t.Fatalf("remaining = %d, want -750000", st.RemainingBalance)
	}
}
