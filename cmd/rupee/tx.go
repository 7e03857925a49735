package main

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/rupeeledger/rupeeledger/internal/ledger"
	"github.com/rupeeledger/rupeeledger/internal/model"
	"github.com/rupeeledger/rupeeledger/internal/service"
)

func txCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tx",
		Short: "Manage ledger entries",
		Long: `Record, edit, delete, and list ledger entries. Every mutation keeps
the referenced account balance consistent in the same transaction.`,
	}

	cmd.AddCommand(addTxCmd())
	cmd.AddCommand(editTxCmd())
	cmd.AddCommand(deleteTxCmd())
	cmd.AddCommand(listTxCmd())

	return cmd
}

type txFlags struct {
	entryType string
	category  string
	account   string
	note      string
	date      string
	goal      string
}

func (f *txFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.entryType, "type", "EXPENSE", "entry type (EXPENSE, INCOME)")
	cmd.Flags().StringVar(&f.category, "category", "", "category ID")
	cmd.Flags().StringVar(&f.account, "account", "", "account ID")
	cmd.Flags().StringVar(&f.note, "note", "", "free-form note")
	cmd.Flags().StringVar(&f.date, "date", "", "entry date (YYYY-MM-DD, default today)")
	cmd.Flags().StringVar(&f.goal, "goal", "", "linked savings goal ID")
}

func (f *txFlags) parseDate() (time.Time, error) {
	if f.date == "" {
		return time.Now().UTC(), nil
	}
	return time.Parse("2006-01-02", f.date)
}

func addTxCmd() *cobra.Command {
	var flags txFlags

	cmd := &cobra.Command{
		Use:   "add <amount>",
		Short: "Record a new ledger entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			amount, err := model.ParseMoney(args[0])
			if err != nil {
				return err
			}
			date, err := flags.parseDate()
			if err != nil {
				return fmt.Errorf("invalid date: %w", err)
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			entry := &model.Entry{
				Amount:     amount,
				Type:       model.EntryType(flags.entryType),
				CategoryID: flags.category,
				AccountID:  flags.account,
				Note:       flags.note,
				GoalID:     flags.goal,
				Date:       date,
			}
			if err := ledger.NewReconciler(store).Create(ctx, entry); err != nil {
				return userFacing("failed to record entry", err)
			}

			fmt.Printf("Recorded %s %s (%s)\n", entry.Type, entry.Amount, entry.ID)
			return nil
		},
	}

	flags.register(cmd)
	return cmd
}

func editTxCmd() *cobra.Command {
	var (
		flags  txFlags
		amount string
	)

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit an existing entry",
		Long: `Edit an entry. Only the flags you pass change; balance adjustments
for the old and new values are applied atomically.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			entry, err := store.GetEntry(ctx, args[0])
			if err != nil {
				return fmt.Errorf("failed to get entry: %w", err)
			}

			if cmd.Flags().Changed("amount") {
				parsed, err := model.ParseMoney(amount)
				if err != nil {
					return err
				}
				entry.Amount = parsed
			}
			if cmd.Flags().Changed("type") {
				entry.Type = model.EntryType(flags.entryType)
			}
			if cmd.Flags().Changed("category") {
				entry.CategoryID = flags.category
			}
			if cmd.Flags().Changed("account") {
				entry.AccountID = flags.account
			}
			if cmd.Flags().Changed("note") {
				entry.Note = flags.note
			}
			if cmd.Flags().Changed("goal") {
				entry.GoalID = flags.goal
			}
			if cmd.Flags().Changed("date") {
				date, err := flags.parseDate()
				if err != nil {
					return fmt.Errorf("invalid date: %w", err)
				}
				entry.Date = date
			}

			if err := ledger.NewReconciler(store).Update(ctx, entry); err != nil {
				return userFacing("failed to update entry", err)
			}

			fmt.Printf("Updated entry %s\n", entry.ID)
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&amount, "amount", "", "new amount")
	return cmd
}

func deleteTxCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an entry, reversing its balance effect",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if err := ledger.NewReconciler(store).Delete(ctx, args[0]); err != nil {
				return userFacing("failed to delete entry", err)
			}
			fmt.Println("Entry deleted.")
			return nil
		},
	}
}

func listTxCmd() *cobra.Command {
	var (
		from     string
		to       string
		account  string
		category string
		limit    int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List entries, newest first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			filter := service.EntryFilter{
				AccountID:  account,
				CategoryID: category,
				Limit:      limit,
			}
			if from != "" {
				start, err := time.Parse("2006-01-02", from)
				if err != nil {
					return fmt.Errorf("invalid --from date: %w", err)
				}
				filter.Start = &start
			}
			if to != "" {
				end, err := time.Parse("2006-01-02", to)
				if err != nil {
					return fmt.Errorf("invalid --to date: %w", err)
				}
				// Make --to inclusive of the whole day.
				end = end.AddDate(0, 0, 1)
				filter.End = &end
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			entries, err := store.GetEntries(ctx, filter)
			if err != nil {
				return fmt.Errorf("failed to get entries: %w", err)
			}

			if len(entries) == 0 {
				fmt.Println("No entries found.")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer func() { _ = w.Flush() }()

			fmt.Fprintln(w, "ID\tDate\tType\tAmount\tNote")
			for _, entry := range entries {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
					entry.ID, entry.Date.Format("2006-01-02"), entry.Type, entry.Amount, entry.Note)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&to, "to", "", "end date (YYYY-MM-DD, inclusive)")
	cmd.Flags().StringVar(&account, "account", "", "filter by account ID")
	cmd.Flags().StringVar(&category, "category", "", "filter by category ID")
	cmd.Flags().IntVar(&limit, "limit", 50, "maximum entries to show")
	return cmd
}
