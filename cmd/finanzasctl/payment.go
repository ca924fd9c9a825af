package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"finanzas/internal/core"
	"finanzas/internal/services"
)

func newPaymentCmd() *cobra.Command {
	var (
		amount   string
		interest string
		term     int
		schedule bool
		start    string
	)

	cmd := &cobra.Command{
		Use:   "payment",
		Short: "Compute the weekly payment of a loan",
		Example: `  finanzasctl payment --amount 10000 --interest 36 --term 52
  finanzasctl payment --amount 10000 --interest 36 --term 52 --schedule --start 2026-01-05`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			amt, err := core.ParseAmount(amount)
			if err != nil {
				return err
			}
			rate, err := decimal.NewFromString(interest)
			if err != nil {
				return fmt.Errorf("invalid interest %q: %w", interest, err)
			}

			payment, err := services.QuoteWeeklyPayment(amt, rate, term)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "weekly payment: %s\n", payment.StringFixed(2))
			fmt.Fprintf(out, "total: %s\n", payment.Mul(decimal.NewFromInt(int64(term))).StringFixed(2))
			if !schedule {
				return nil
			}

			startDate := core.DateOf(nowFunc())
			if start != "" {
				if startDate, err = core.ParseDate(start); err != nil {
					return err
				}
			}
			rows, err := core.AmortizationSchedule(amt.InexactFloat64(), rate.InexactFloat64(), term, startDate)
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
			fmt.Fprintln(tw, "#\tdue\tpayment\tinterest\tprincipal\tbalance\t")
			for _, r := range rows {
				fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t\n", r.Number, r.DueDate,
					r.Payment.StringFixed(2), r.Interest.StringFixed(2),
					r.Principal.StringFixed(2), r.Balance.StringFixed(2))
			}
			return tw.Flush()
		},
	}

	cmd.Flags().StringVar(&amount, "amount", "", "loan principal")
	cmd.Flags().StringVar(&interest, "interest", "0", "annual interest rate in percent")
	cmd.Flags().IntVar(&term, "term", 0, "term in weeks")
	cmd.Flags().BoolVar(&schedule, "schedule", false, "print the amortization schedule")
	cmd.Flags().StringVar(&start, "start", "", "schedule start date (YYYY-MM-DD), defaults to today")
	_ = cmd.MarkFlagRequired("amount")
	_ = cmd.MarkFlagRequired("term")
	return cmd
}
