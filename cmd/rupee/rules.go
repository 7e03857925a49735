package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/rupeeledger/rupeeledger/internal/model"
)

func rulesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "Manage categorization rules",
		Long: `Rules map a text fragment to a category. They are evaluated in
ascending priority order against the UPI ID, merchant name and sender of each
incoming transaction, and always beat the built-in keyword table.`,
	}

	cmd.AddCommand(listRulesCmd())
	cmd.AddCommand(addRuleCmd())
	cmd.AddCommand(deleteRuleCmd())

	return cmd
}

func listRulesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List rules in evaluation order",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			rules, err := store.GetRules(ctx)
			if err != nil {
				return fmt.Errorf("failed to get rules: %w", err)
			}

			if len(rules) == 0 {
				fmt.Println("No rules configured.")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer func() { _ = w.Flush() }()

			fmt.Fprintln(w, "ID\tPriority\tMatch\tCategory")
			for _, rule := range rules {
				name := rule.CategoryID
				if cat, err := store.GetCategory(ctx, rule.CategoryID); err == nil {
					name = cat.Name
				}
				fmt.Fprintf(w, "%s\t%d\t%q\t%s\n", rule.ID, rule.Priority, rule.MatchText, name)
			}
			return nil
		},
	}
}

func addRuleCmd() *cobra.Command {
	var priority int

	cmd := &cobra.Command{
		Use:   "add <match-text> <category-id>",
		Short: "Add a categorization rule",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			rule := &model.Rule{
				ID:         uuid.NewString(),
				MatchText:  args[0],
				CategoryID: args[1],
				Priority:   priority,
			}
			if err := store.CreateRule(ctx, rule); err != nil {
				return fmt.Errorf("failed to create rule: %w", err)
			}

			fmt.Printf("Created rule %q -> %s (%s)\n", rule.MatchText, rule.CategoryID, rule.ID)
			return nil
		},
	}

	cmd.Flags().IntVar(&priority, "priority", 0, "evaluation priority (lower wins)")
	return cmd
}

func deleteRuleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a rule",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if err := store.DeleteRule(ctx, args[0]); err != nil {
				return fmt.Errorf("failed to delete rule: %w", err)
			}
			fmt.Println("Rule deleted.")
			return nil
		},
	}
}
