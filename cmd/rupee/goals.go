package main

import (
	"errors"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/rupeeledger/rupeeledger/internal/common"
	"github.com/rupeeledger/rupeeledger/internal/ledger"
	"github.com/rupeeledger/rupeeledger/internal/model"
)

func goalsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "goals",
		Short: "Manage savings goals",
	}

	cmd.AddCommand(listGoalsCmd())
	cmd.AddCommand(addGoalCmd())
	cmd.AddCommand(contributeGoalCmd())
	cmd.AddCommand(withdrawGoalCmd())
	cmd.AddCommand(deleteGoalCmd())

	return cmd
}

func listGoalsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List savings goals with progress",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			goals, err := store.GetGoals(ctx)
			if err != nil {
				return fmt.Errorf("failed to get goals: %w", err)
			}

			if len(goals) == 0 {
				fmt.Println("No savings goals.")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer func() { _ = w.Flush() }()

			fmt.Fprintln(w, "ID\tName\tSaved\tTarget\tStatus")
			for _, goal := range goals {
				status := "in progress"
				if goal.Completed() {
					status = "completed"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
					goal.ID, goal.Name, goal.SavedAmount, goal.TargetAmount, status)
			}
			return nil
		},
	}
}

func addGoalCmd() *cobra.Command {
	var (
		icon  string
		color string
	)

	cmd := &cobra.Command{
		Use:   "add <name> <target-amount>",
		Short: "Create a savings goal",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			target, err := model.ParseMoney(args[1])
			if err != nil {
				return err
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			goal := &model.SavingsGoal{
				ID:           uuid.NewString(),
				Name:         args[0],
				TargetAmount: target,
				Icon:         icon,
				Color:        color,
			}
			if err := store.CreateGoal(ctx, goal); err != nil {
				return fmt.Errorf("failed to create goal: %w", err)
			}

			fmt.Printf("Created goal %q with target %s (%s)\n", goal.Name, goal.TargetAmount, goal.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&icon, "icon", "", "display icon")
	cmd.Flags().StringVar(&color, "color", "", "display color")
	return cmd
}

func contributeGoalCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "contribute <id> <amount>",
		Short: "Add to a goal's saved progress",
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

			if err := ledger.NewReconciler(store).Contribute(ctx, args[0], amount); err != nil {
				return fmt.Errorf("failed to contribute: %w", err)
			}

			fmt.Printf("Contributed %s\n", amount)
			return nil
		},
	}
}

func withdrawGoalCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "withdraw <id> <amount>",
		Short: "Withdraw from a goal's saved progress",
		Long: `Withdraw from a goal. Saved progress never goes below zero: asking
for more than is saved withdraws what is there and reports the shortfall.`,
		Args: cobra.ExactArgs(2),
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

			withdrawn, err := ledger.NewReconciler(store).Withdraw(ctx, args[0], amount)
			if errors.Is(err, common.ErrInvalidOperation) {
				fmt.Printf("Withdrew %s (requested %s; goal is now empty)\n", withdrawn, amount)
				return nil
			}
			if err != nil {
				return fmt.Errorf("failed to withdraw: %w", err)
			}

			fmt.Printf("Withdrew %s\n", withdrawn)
			return nil
		},
	}
}

func deleteGoalCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a savings goal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if err := store.DeleteGoal(ctx, args[0]); err != nil {
				return fmt.Errorf("failed to delete goal: %w", err)
			}
			fmt.Println("Goal deleted.")
			return nil
		},
	}
}
