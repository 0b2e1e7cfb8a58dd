// Package ledger computes the monthly financial statement: revenue
// splits over orders, expense totals over transactions, the opening
// balance carried forward from the previous month, and budget variance
// for fixed expenses. Everything is recomputed on every read.
package ledger

import (
	"context"
	"fmt"

	"undangan/internal/core"
)

// OrderLister is the slice of the order store the ledger needs.
type OrderLister interface {
	List(ctx context.Context, year, month int) ([]core.Order, error)
}

// TotalRevenue sums every order's payment amount regardless of status.
func TotalRevenue(orders []core.Order) int64 {
	var sum int64
	for _, o := range orders {
		sum += o.PaymentAmount.Rupiah
	}
	return sum
}

// PaidAmount sums orders marked Lunas.
func PaidAmount(orders []core.Order) int64 {
	var sum int64
	for _, o := range orders {
		if o.PaymentStatus == core.Paid {
			sum += o.PaymentAmount.Rupiah
		}
	}
	return sum
}

// UnpaidAmount sums pending orders. PaidAmount + UnpaidAmount equals
// TotalRevenue because the status set is exactly {Lunas, Pending}.
func UnpaidAmount(orders []core.Order) int64 {
	var sum int64
	for _, o := range orders {
		if o.PaymentStatus != core.Paid {
			sum += o.PaymentAmount.Rupiah
		}
	}
	return sum
}

// ExpenseTotal sums transactions of one type.
func ExpenseTotal(txs []core.Transaction, kind core.TransactionType) int64 {
	var sum int64
	for _, tx := range txs {
		if tx.Type == kind {
			sum += tx.Amount.Rupiah
		}
	}
	return sum
}

// BudgetVsActual compares planned against actual spend over fixed
// transactions. Difference may be negative when actuals overrun.
type BudgetVsActual struct {
	TotalBudget int64 `json:"totalBudget"`
	TotalActual int64 `json:"totalActual"`
	Difference  int64 `json:"difference"`
}

func BudgetVariance(txs []core.Transaction) BudgetVsActual {
	var v BudgetVsActual
	for _, tx := range txs {
		if tx.Type != core.Fixed {
			continue
		}
		v.TotalBudget += tx.Budget.Rupiah
		v.TotalActual += tx.Amount.Rupiah
	}
	v.Difference = v.TotalBudget - v.TotalActual
	return v
}

// FixedExpenseStatus reports how many fixed expenses are settled.
type FixedExpenseStatus struct {
	Paid    int `json:"paid"`
	Total   int `json:"total"`
	Percent int `json:"percent"`
}

func FixedStatus(txs []core.Transaction) FixedExpenseStatus {
	var st FixedExpenseStatus
	for _, tx := range txs {
		if tx.Type != core.Fixed {
			continue
		}
		st.Total++
		if tx.IsPaid {
			st.Paid++
		}
	}
	if st.Total > 0 {
		st.Percent = st.Paid * 100 / st.Total
	}
	return st
}

// PreviousMonthBalance is the carry-forward opening balance: the sum of
// paid orders in the calendar-previous month. January rolls over to
// December of the prior year. A missing or unreadable partition yields 0.
func PreviousMonthBalance(ctx context.Context, lister OrderLister, year, month int) (int64, error) {
	prevYear, prevMonth := core.PreviousMonth(year, month)
	orders, err := lister.List(ctx, prevYear, prevMonth)
	if err != nil {
		return 0, fmt.Errorf("load previous month orders: %w", err)
	}
	return PaidAmount(orders), nil
}

// Statement is the derived view for one year+month scope.
type Statement struct {
	Year  int    `json:"year"`
	Month int    `json:"month"`
	Label string `json:"label"`

	TotalRevenue int64 `json:"totalRevenue"`
	PaidAmount   int64 `json:"paidAmount"`
	UnpaidAmount int64 `json:"unpaidAmount"`

	FixedExpenses    int64 `json:"fixedExpenses"`
	VariableExpenses int64 `json:"variableExpenses"`
	TotalExpenses    int64 `json:"totalExpenses"`

	PreviousMonthBalance int64 `json:"previousMonthBalance"`
	RemainingBalance     int64 `json:"remainingBalance"`

	BudgetVsActual BudgetVsActual     `json:"budgetVsActual"`
	FixedStatus    FixedExpenseStatus `json:"fixedExpenseStatus"`
}

// Build assembles the statement for a scope from already-loaded records
// plus the carry-forward balance read through the order lister.
func Build(ctx context.Context, lister OrderLister, year, month int, orders []core.Order, txs []core.Transaction) (Statement, error) {
	opening, err := PreviousMonthBalance(ctx, lister, year, month)
	if err != nil {
		return Statement{}, err
	}

	fixed := ExpenseTotal(txs, core.Fixed)
	variable := ExpenseTotal(txs, core.Variable)

	st := Statement{
		Year:                 year,
		Month:                month,
		TotalRevenue:         TotalRevenue(orders),
		PaidAmount:           PaidAmount(orders),
		UnpaidAmount:         UnpaidAmount(orders),
		FixedExpenses:        fixed,
		VariableExpenses:     variable,
		TotalExpenses:        fixed + variable,
		PreviousMonthBalance: opening,
		RemainingBalance:     opening - fixed - variable,
		BudgetVsActual:       BudgetVariance(txs),
		FixedStatus:          FixedStatus(txs),
	}
	if name, err := core.MonthName(month); err == nil {
		st.Label = fmt.Sprintf("%s %d", name, year)
	}
	return st, nil
}
