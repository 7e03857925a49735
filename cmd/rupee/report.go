package main

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/rupeeledger/rupeeledger/internal/report"
)

func reportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Derived views over the ledger",
	}

	cmd.AddCommand(monthlyReportCmd())
	cmd.AddCommand(todayReportCmd())
	cmd.AddCommand(categoriesReportCmd())
	cmd.AddCommand(recentReportCmd())

	return cmd
}

func monthlyReportCmd() *cobra.Command {
	var month string

	cmd := &cobra.Command{
		Use:   "monthly",
		Short: "Income, expense and net for a calendar month",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			target := time.Now().UTC()
			if month != "" {
				parsed, err := time.Parse("2006-01", month)
				if err != nil {
					return fmt.Errorf("invalid --month, want YYYY-MM: %w", err)
				}
				target = parsed
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			summary, err := report.NewViews(store).MonthlySummary(ctx, target.Year(), target.Month())
			if err != nil {
				return fmt.Errorf("failed to get monthly summary: %w", err)
			}

			fmt.Printf("%s %d\n", summary.Month, summary.Year)
			fmt.Printf("  Income:  %s\n", summary.Income)
			fmt.Printf("  Expense: %s\n", summary.Expense)
			fmt.Printf("  Net:     %s\n", summary.Net())
			return nil
		},
	}

	cmd.Flags().StringVar(&month, "month", "", "month to report (YYYY-MM, default current)")
	return cmd
}

func todayReportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "today",
		Short: "Total spend for today",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			spent, err := report.NewViews(store).TodaySpend(ctx, time.Now().UTC())
			if err != nil {
				return fmt.Errorf("failed to get today's spend: %w", err)
			}

			fmt.Printf("Spent today: %s\n", spent)
			return nil
		},
	}
}

func categoriesReportCmd() *cobra.Command {
	var (
		from string
		to   string
	)

	cmd := &cobra.Command{
		Use:   "categories",
		Short: "Expense breakdown by category",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			now := time.Now().UTC()
			start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
			end := start.AddDate(0, 1, 0)

			if from != "" {
				parsed, err := time.Parse("2006-01-02", from)
				if err != nil {
					return fmt.Errorf("invalid --from date: %w", err)
				}
				start = parsed
			}
			if to != "" {
				parsed, err := time.Parse("2006-01-02", to)
				if err != nil {
					return fmt.Errorf("invalid --to date: %w", err)
				}
				end = parsed.AddDate(0, 0, 1)
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			breakdown, err := report.NewViews(store).CategoryBreakdown(ctx, start, end)
			if err != nil {
				return fmt.Errorf("failed to get category breakdown: %w", err)
			}

			if len(breakdown) == 0 {
				fmt.Println("No expenses in range.")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer func() { _ = w.Flush() }()

			fmt.Fprintln(w, "Category\tSpent\tEntries")
			for _, cs := range breakdown {
				fmt.Fprintf(w, "%s\t%s\t%d\n", cs.CategoryName, cs.Spent, cs.Count)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "start date (YYYY-MM-DD, default month start)")
	cmd.Flags().StringVar(&to, "to", "", "end date (YYYY-MM-DD inclusive, default month end)")
	return cmd
}

func recentReportCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "recent",
		Short: "Most recent entries with category and account names",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			entries, err := report.NewViews(store).RecentEntries(ctx, limit)
			if err != nil {
				return fmt.Errorf("failed to get recent entries: %w", err)
			}

			if len(entries) == 0 {
				fmt.Println("No entries yet.")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer func() { _ = w.Flush() }()

			fmt.Fprintln(w, "Date\tType\tAmount\tCategory\tAccount\tNote")
			for _, display := range entries {
				account := display.AccountName
				if account == "" {
					account = "-"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
					display.Entry.Date.Format("2006-01-02"),
					display.Entry.Type,
					display.Entry.Amount,
					display.CategoryName,
					account,
					display.Entry.Note)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "maximum entries to show")
	return cmd
}
