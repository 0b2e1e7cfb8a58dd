// undanganctl is the admin CLI: inspect orders, manage vendors,
// generate and pay invoices, and print monthly statements against the
// same backend the server uses.
package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"undangan/internal/backend"
	"undangan/internal/cli"
	"undangan/internal/core"
	"undangan/internal/invoices"
	"undangan/internal/ledger"
	"undangan/internal/transactions"
)

func main() {
	cfg, logger := cli.Bootstrap()

	var b *backend.Backend
	root := &cobra.Command{
		Use:           "undanganctl",
		Short:         "Back-office administration for the undangan service",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			b, err = backend.New(cmd.Context(), cfg, logger)
			if err != nil {
				return fmt.Errorf("assemble backend: %w", err)
			}
			return nil
		},
		PersistentPostRunE: func(*cobra.Command, []string) error {
			if b != nil {
				return b.Close()
			}
			return nil
		},
	}

	var year, month int
	now := time.Now()
	root.PersistentFlags().IntVar(&year, "year", now.Year(), "scope year (0 for all)")
	root.PersistentFlags().IntVar(&month, "month", int(now.Month()), "scope month (0 for all)")

	ordersCmd := &cobra.Command{
		Use:   "orders",
		Short: "List orders in the scope",
		RunE: func(cmd *cobra.Command, _ []string) error {
			list, err := b.Orders.List(cmd.Context(), year, month)
			if err != nil {
				return err
			}
			for _, o := range list {
				fmt.Printf("%s  %-24s %s  %-7s %12s  H-%d\n",
					o.ID, o.ClientName, o.OrderDate.Format("2006-01-02"),
					o.PaymentStatus, core.FormatRupiah(o.PaymentAmount.Rupiah), o.CountdownDays)
			}
			fmt.Printf("%d orders\n", len(list))
			return nil
		},
	}

	vendorsCmd := &cobra.Command{Use: "vendors", Short: "Manage vendors"}
	vendorsCmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List vendors",
		RunE: func(cmd *cobra.Command, _ []string) error {
			list, err := b.Settings.Vendors(cmd.Context())
			if err != nil {
				return err
			}
			for _, v := range list {
				fmt.Printf("%s  %-6s %s\n", v.ID, v.Code, v.Name)
			}
			return nil
		},
	})
	addVendor := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a vendor",
		Args:  cobra.ExactArgs(1),
	}
	vendorCode := addVendor.Flags().String("code", "", "short code used in invoice numbers")
	vendorColor := addVendor.Flags().String("color", "", "display color")
	addVendor.RunE = func(cmd *cobra.Command, args []string) error {
		v, err := b.Settings.AddVendor(cmd.Context(), args[0], *vendorCode, *vendorColor)
		if err != nil {
			return err
		}
		fmt.Printf("created vendor %s (%s)\n", v.ID, v.Code)
		return nil
	}
	vendorsCmd.AddCommand(addVendor)

	invoiceCmd := &cobra.Command{Use: "invoice", Short: "Manage invoices"}
	invoiceCmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List invoices",
		RunE: func(cmd *cobra.Command, _ []string) error {
			list, err := b.Invoices.List(cmd.Context())
			if err != nil {
				return err
			}
			for _, inv := range list {
				fmt.Printf("%s  %-20s %-6s %12s  %d orders\n",
					inv.ID, inv.Number, inv.Status,
					core.FormatRupiah(inv.TotalAmount.Rupiah), len(inv.Lines))
			}
			return nil
		},
	})
	generateCmd := &cobra.Command{
		Use:   "generate <vendor-id>",
		Short: "Invoice a vendor's uninvoiced paid orders",
		Args:  cobra.ExactArgs(1),
	}
	dueDays := generateCmd.Flags().Int("due-days", 14, "days until the invoice is due")
	generateCmd.RunE = func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		vendor, err := b.Settings.VendorByID(ctx, args[0])
		if err != nil {
			return err
		}
		all, err := b.Orders.List(ctx, 0, 0)
		if err != nil {
			return err
		}
		existing, err := b.Invoices.List(ctx)
		if err != nil {
			return err
		}
		var paid []core.Order
		for _, o := range all {
			if o.PaymentStatus == core.Paid && o.VendorID == vendor.ID {
				paid = append(paid, o)
			}
		}
		billable := invoices.Uninvoiced(paid, existing)
		if len(billable) == 0 {
			return fmt.Errorf("vendor %s has no uninvoiced paid orders", vendor.Name)
		}
		issued := time.Now()
		inv := invoices.Generate(vendor.ID, vendor.Name, vendor.Code, billable,
			issued, issued.AddDate(0, 0, *dueDays))
		stored, err := b.Invoices.Add(ctx, inv, vendor.Code)
		if err != nil {
			return err
		}
		fmt.Printf("created invoice %s (%s) over %s\n",
			stored.Number, stored.ID, core.FormatRupiah(stored.TotalAmount.Rupiah))
		return nil
	}
	invoiceCmd.AddCommand(generateCmd)
	invoiceCmd.AddCommand(&cobra.Command{
		Use:   "pay <invoice-id>",
		Short: "Mark an invoice as paid",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			inv, err := b.Invoices.MarkPaid(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Printf("invoice %s is now %s\n", inv.Number, inv.Status)
			return nil
		},
	})

	statementCmd := &cobra.Command{
		Use:   "statement",
		Short: "Print the monthly statement for the scope",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if month < 1 || month > 12 {
				return fmt.Errorf("statement requires a specific month, got %s", strconv.Itoa(month))
			}
			ctx := cmd.Context()
			orderList, err := b.Orders.List(ctx, year, month)
			if err != nil {
				return err
			}
			txList, err := b.Transactions.List(ctx, transactions.Scope{Year: year, Month: month})
			if err != nil {
				return err
			}
			st, err := ledger.Build(ctx, b.Orders, year, month, orderList, txList)
			if err != nil {
				return err
			}
			printStatement(st)
			return nil
		},
	}

	root.AddCommand(ordersCmd, vendorsCmd, invoiceCmd, statementCmd)

	if err := root.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func printStatement(st ledger.Statement) {
	fmt.Printf("Statement %s\n", st.Label)
	fmt.Printf("  revenue          %14s\n", core.FormatRupiah(st.TotalRevenue))
	fmt.Printf("    paid           %14s\n", core.FormatRupiah(st.PaidAmount))
	fmt.Printf("    unpaid         %14s\n", core.FormatRupiah(st.UnpaidAmount))
	fmt.Printf("  expenses         %14s\n", core.FormatRupiah(st.TotalExpenses))
	fmt.Printf("    fixed          %14s\n", core.FormatRupiah(st.FixedExpenses))
	fmt.Printf("    variable       %14s\n", core.FormatRupiah(st.VariableExpenses))
	fmt.Printf("  opening balance  %14s\n", core.FormatRupiah(st.PreviousMonthBalance))
	fmt.Printf("  remaining        %14s\n", core.FormatRupiah(st.RemainingBalance))
	fmt.Printf("  budget vs actual %14s (budget %s, actual %s)\n",
		core.FormatRupiah(st.BudgetVsActual.Difference),
		core.FormatRupiah(st.BudgetVsActual.TotalBudget),
		core.FormatRupiah(st.BudgetVsActual.TotalActual))
	fmt.Printf("  fixed paid       %d/%d (%d%%)\n",
		st.FixedStatus.Paid, st.FixedStatus.Total, st.FixedStatus.Percent)
}
