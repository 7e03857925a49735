package main

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/rupeeledger/rupeeledger/internal/model"
	"github.com/rupeeledger/rupeeledger/internal/report"
)

func budgetsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "budgets",
		Short: "Manage monthly category budgets",
	}

	cmd.AddCommand(listBudgetsCmd())
	cmd.AddCommand(setBudgetCmd())
	cmd.AddCommand(deleteBudgetCmd())
	cmd.AddCommand(budgetAlertsCmd())

	return cmd
}

func listBudgetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List budgets with current-month spend",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			statuses, err := report.NewViews(store).BudgetStatuses(ctx, time.Now().UTC())
			if err != nil {
				return fmt.Errorf("failed to get budget status: %w", err)
			}

			if len(statuses) == 0 {
				fmt.Println("No budgets configured.")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer func() { _ = w.Flush() }()

			fmt.Fprintln(w, "Category\tSpent\tLimit\tUsed")
			for _, status := range statuses {
				name := status.CategoryName
				if name == "" {
					name = status.CategoryID
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%.0f%%\n",
					name, status.Spent, status.Limit, status.Percentage*100)
			}
			return nil
		},
	}
}

func setBudgetCmd() *cobra.Command {
	var threshold float64

	cmd := &cobra.Command{
		Use:   "set <category-id> <amount>",
		Short: "Set or replace a category's monthly budget",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			amount, err := model.ParseMoney(args[1])
			if err != nil {
				return err
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			budget := &model.Budget{
				CategoryID:     args[0],
				Amount:         amount,
				AlertThreshold: threshold,
			}
			if err := store.SetBudget(ctx, budget); err != nil {
				return fmt.Errorf("failed to set budget: %w", err)
			}

			fmt.Printf("Budget set: %s per month, alert at %.0f%%\n", amount, threshold*100)
			return nil
		},
	}

	cmd.Flags().Float64Var(&threshold, "alert-at", 0.8, "alert threshold as a fraction of the limit")
	return cmd
}

func deleteBudgetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <category-id>",
		Short: "Remove a category's budget",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if err := store.DeleteBudget(ctx, args[0]); err != nil {
				return fmt.Errorf("failed to delete budget: %w", err)
			}
			fmt.Println("Budget deleted.")
			return nil
		},
	}
}

func budgetAlertsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "alerts",
		Short: "Show budgets over their alert threshold",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			over, err := report.NewViews(store).OverAlertBudgets(ctx, time.Now().UTC())
			if err != nil {
				return fmt.Errorf("failed to get budget alerts: %w", err)
			}

			if len(over) == 0 {
				fmt.Println("All budgets within their alert thresholds.")
				return nil
			}
			for _, status := range over {
				name := status.CategoryName
				if name == "" {
					name = status.CategoryID
				}
				fmt.Printf("%s: %s of %s spent (%.0f%%, alert at %.0f%%)\n",
					name, status.Spent, status.Limit, status.Percentage*100, status.Threshold*100)
			}
			return nil
		},
	}
}
