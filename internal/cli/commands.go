package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/marcos-lima-dev/finance-app/internal/app"
	"github.com/marcos-lima-dev/finance-app/internal/application/service"
	"github.com/marcos-lima-dev/finance-app/internal/domain/aggregation"
	"github.com/marcos-lima-dev/finance-app/internal/domain/dashboard"
	"github.com/marcos-lima-dev/finance-app/internal/domain/entity"
	"github.com/marcos-lima-dev/finance-app/internal/domain/money"
)

const dateLayout = "2006-01-02"

// withApp opens the application, runs fn and closes it again
func withApp(cmd *cobra.Command, flags *rootFlags, fn func(ctx context.Context, a *app.App) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	a, err := flags.open(ctx)
	if err != nil {
		return err
	}
	runErr := fn(ctx, a)
	if err := a.Close(); err != nil && runErr == nil {
		return err
	}
	return runErr
}

// formatter waits for rates when the preferred currency needs them
func formatter(ctx context.Context, a *app.App) (money.Formatter, error) {
	prefs, err := a.Preferences.Get(ctx)
	if err != nil {
		return money.Formatter{}, err
	}
	if prefs.BaseCurrency == entity.BRL {
		return money.NewFormatter(prefs, nil), nil
	}

	snapshot, err := a.Rates.Current(time.Now())
	if err != nil {
		a.Rates.Wait()
		if snapshot, err = a.Rates.Current(time.Now()); err != nil {
			return money.NewFormatter(prefs, nil), nil
		}
	}
	return money.NewFormatter(prefs, &snapshot), nil
}

func newSummaryCommand(flags *rootFlags) *cobra.Command {
	var period, granularity string
	var window int

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Print totals and period aggregates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := dashboard.Options{Window: window}
			var err error
			if opts.Period, err = aggregation.ParsePeriod(period); err != nil {
				return err
			}
			if opts.Granularity, err = aggregation.ParseGranularity(granularity); err != nil {
				return err
			}

			return withApp(cmd, flags, func(ctx context.Context, a *app.App) error {
				d, err := a.Dashboards.Dashboard(ctx, opts)
				if err != nil {
					return err
				}
				f, err := formatter(ctx, a)
				if err != nil {
					return err
				}
				printSummary(cmd.OutOrStdout(), d, f)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&period, "period", "p", string(aggregation.CurrentMonth), "month, last_three_months, year or all")
	cmd.Flags().StringVarP(&granularity, "granularity", "g", string(aggregation.Month), "month, quarter or year")
	cmd.Flags().IntVarP(&window, "window", "w", 0, "Moving average window in days (default from config)")
	return cmd
}

func printSummary(out io.Writer, d dashboard.Dashboard, f money.Formatter) {
	fmt.Fprintf(out, "Period: %s (as of %s)\n", d.Period, d.ReferenceDate.Format(dateLayout))
	fmt.Fprintf(out, "Transactions: %d\n", d.Totals.Count)
	fmt.Fprintf(out, "Credits: %s\n", f.Format(d.Totals.TotalCredits))
	fmt.Fprintf(out, "Debits: %s\n", f.Format(d.Totals.TotalDebits))
	fmt.Fprintf(out, "Balance: %s\n", f.Format(d.Totals.Balance))

	if len(d.Aggregates) == 0 {
		return
	}
	fmt.Fprintln(out)
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "PERIOD\tCREDITS\tDEBITS\tNET\tVARIANCE")
	for _, b := range d.Aggregates {
		variance := "-"
		if b.Variance.Valid {
			variance = b.Variance.Decimal.StringFixed(2) + "%"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", b.Label,
			f.Format(b.TotalCredits), f.Format(b.TotalDebits), f.Format(b.NetBalance), variance)
	}
	tw.Flush()
}

func newAlertsCommand(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "alerts",
		Short: "List spending alerts for the current month",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, flags, func(ctx context.Context, a *app.App) error {
				alerts, err := a.Dashboards.Alerts(ctx)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if len(alerts) == 0 {
					fmt.Fprintln(out, "No alerts")
					return nil
				}
				tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
				fmt.Fprintln(tw, "SEVERITY\tCATEGORY\tSPENT\tLIMIT\tUSED")
				for _, alert := range alerts {
					fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s%%\n", alert.Severity, alert.Category,
						money.Render(alert.AmountSpent, entity.BRL), money.Render(alert.Limit, entity.BRL),
						alert.Percentage.StringFixed(2))
				}
				return tw.Flush()
			})
		},
	}
}

func newLimitCommand(flags *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "limit",
		Short: "Manage monthly category limits",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "set <category> <amount>",
		Short: "Set the monthly limit of a debit category (0 disables alerts)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			value, err := decimal.NewFromString(args[1])
			if err != nil {
				return &entity.ValidationError{Field: "limit", Message: "must be a number"}
			}
			return withApp(cmd, flags, func(ctx context.Context, a *app.App) error {
				limits, err := a.Limits.SetLimit(ctx, args[0], value)
				if err != nil {
					return err
				}
				limit, _ := limits.Of(args[0])
				fmt.Fprintf(cmd.OutOrStdout(), "Limit for %s set to %s\n", args[0], money.Render(limit, entity.BRL))
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List every configured limit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, flags, func(ctx context.Context, a *app.App) error {
				limits, err := a.Limits.GetLimits(ctx)
				if err != nil {
					return err
				}
				tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
				fmt.Fprintln(tw, "CATEGORY\tLIMIT")
				for _, category := range entity.DebitCategories {
					if limit, ok := limits.Of(category); ok {
						fmt.Fprintf(tw, "%s\t%s\n", category, money.Render(limit, entity.BRL))
					}
				}
				return tw.Flush()
			})
		},
	})
	return cmd
}

func newAddCommand(flags *rootFlags) *cobra.Command {
	var in struct {
		typ, category, amount, date, description string
	}

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a transaction",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := decimal.NewFromString(in.amount)
			if err != nil {
				return &entity.ValidationError{Field: "amount", Message: "must be a number"}
			}
			date := time.Now()
			if in.date != "" {
				if date, err = time.Parse(dateLayout, in.date); err != nil {
					return &entity.ValidationError{Field: "date", Message: "must be in YYYY-MM-DD format"}
				}
			}

			return withApp(cmd, flags, func(ctx context.Context, a *app.App) error {
				tx, err := a.Transactions.CreateTransaction(ctx, service.TransactionInput{
					Type:        in.typ,
					Category:    in.category,
					Amount:      amount,
					Date:        date,
					Description: in.description,
				})
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Recorded %s %s %s on %s (%s)\n", tx.Type, tx.Category,
					money.Render(tx.Amount, entity.BRL), tx.Date.Format(dateLayout), tx.ID)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&in.typ, "type", "t", "", "credit or debit")
	cmd.Flags().StringVar(&in.category, "category", "", "Category of the transaction")
	cmd.Flags().StringVarP(&in.amount, "amount", "a", "", "Amount in BRL")
	cmd.Flags().StringVarP(&in.date, "date", "d", "", "Date in YYYY-MM-DD (default today)")
	cmd.Flags().StringVar(&in.description, "description", "", "Free text description")
	cmd.MarkFlagRequired("type")
	cmd.MarkFlagRequired("category")
	cmd.MarkFlagRequired("amount")
	return cmd
}

func newExportCommand(flags *rootFlags) *cobra.Command {
	var from, to, typ, output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export transactions as CSV",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var f service.ExportFilter
			var err error
			if from != "" {
				if f.From, err = time.Parse(dateLayout, from); err != nil {
					return &entity.ValidationError{Field: "from", Message: "must be in YYYY-MM-DD format"}
				}
			}
			if to != "" {
				if f.To, err = time.Parse(dateLayout, to); err != nil {
					return &entity.ValidationError{Field: "to", Message: "must be in YYYY-MM-DD format"}
				}
			}
			if !f.From.IsZero() && !f.To.IsZero() && f.From.After(f.To) {
				return &entity.ValidationError{Field: "from", Message: "must not be after 'to'"}
			}
			if typ != "" {
				if f.Type, err = entity.ParseTransactionType(typ); err != nil {
					return err
				}
			}

			return withApp(cmd, flags, func(ctx context.Context, a *app.App) error {
				// Resolves the rates first so the export can use the preferred currency
				if _, err := formatter(ctx, a); err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				if output != "" {
					if output == "auto" {
						output = a.Exports.FileName()
					}
					file, err := os.Create(output)
					if err != nil {
						return fmt.Errorf("failed to create %s: %w", output, err)
					}
					defer file.Close()
					out = file
				}

				n, err := a.Exports.Export(ctx, out, f)
				if err != nil {
					return err
				}
				if output != "" {
					fmt.Fprintf(cmd.OutOrStdout(), "Exported %d transactions to %s\n", n, output)
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "First date to include (YYYY-MM-DD)")
	cmd.Flags().StringVar(&to, "to", "", "Last date to include (YYYY-MM-DD)")
	cmd.Flags().StringVarP(&typ, "type", "t", "", "Only credit or debit transactions")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write to a file instead of stdout; 'auto' picks a dated name")
	return cmd
}
