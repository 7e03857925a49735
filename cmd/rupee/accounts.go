package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/rupeeledger/rupeeledger/internal/ledger"
	"github.com/rupeeledger/rupeeledger/internal/model"
)

func accountsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "accounts",
		Short: "Manage accounts",
		Long:  `List, add, and delete the accounts whose balances the ledger tracks.`,
	}

	cmd.AddCommand(listAccountsCmd())
	cmd.AddCommand(addAccountCmd())
	cmd.AddCommand(deleteAccountCmd())
	cmd.AddCommand(repairAccountsCmd())

	return cmd
}

func listAccountsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all accounts with balances",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			accounts, err := store.GetAccounts(ctx)
			if err != nil {
				return fmt.Errorf("failed to get accounts: %w", err)
			}

			if len(accounts) == 0 {
				fmt.Println("No accounts found. Use 'rupee accounts add' to create one.")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer func() { _ = w.Flush() }()

			fmt.Fprintln(w, "ID\tName\tType\tBalance")
			for _, account := range accounts {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
					account.ID, account.Name, account.Type, account.Balance)
			}
			return nil
		},
	}
}

func addAccountCmd() *cobra.Command {
	var accountType string

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a new account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			account := &model.Account{
				ID:   uuid.NewString(),
				Name: args[0],
				Type: model.AccountType(accountType),
			}
			if err := store.CreateAccount(ctx, account); err != nil {
				return fmt.Errorf("failed to create account: %w", err)
			}

			fmt.Printf("Created account %q (%s)\n", account.Name, account.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&accountType, "type", "BANK", "account type (CASH, BANK, UPI, CREDIT_CARD)")
	return cmd
}

func deleteAccountCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an account",
		Long:  `Delete an account. Historical entries keep their reference and show as "Unknown".`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if err := store.DeleteAccount(ctx, args[0]); err != nil {
				return fmt.Errorf("failed to delete account: %w", err)
			}
			fmt.Println("Account deleted.")
			return nil
		},
	}
}

func repairAccountsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "repair",
		Short: "Recompute balances from entries and fix drift",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			drifts, err := ledger.NewReconciler(store).Repair(ctx)
			if err != nil {
				return fmt.Errorf("repair failed: %w", err)
			}

			if len(drifts) == 0 {
				fmt.Println("All account balances consistent.")
				return nil
			}
			for _, d := range drifts {
				fmt.Printf("Repaired %s: stored %s, computed %s\n", d.Name, d.Stored, d.Computed)
			}
			return nil
		},
	}
}
