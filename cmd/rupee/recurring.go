package main

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/rupeeledger/rupeeledger/internal/ledger"
	"github.com/rupeeledger/rupeeledger/internal/model"
	"github.com/rupeeledger/rupeeledger/internal/report"
)

func recurringCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recurring",
		Short: "Manage recurring schedules",
		Long: `A recurring schedule produces one ledger entry per month on a
fixed day: rent, salary, subscriptions. Run 'rupee recurring apply' to turn
every due period into an entry.`,
	}

	cmd.AddCommand(listRecurringCmd())
	cmd.AddCommand(addRecurringCmd())
	cmd.AddCommand(deleteRecurringCmd())
	cmd.AddCommand(applyRecurringCmd())
	cmd.AddCommand(dueRecurringCmd())

	return cmd
}

func listRecurringCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List recurring schedules",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			schedules, err := store.GetRecurrings(ctx)
			if err != nil {
				return fmt.Errorf("failed to get schedules: %w", err)
			}

			if len(schedules) == 0 {
				fmt.Println("No recurring schedules.")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer func() { _ = w.Flush() }()

			fmt.Fprintln(w, "ID\tName\tType\tAmount\tDay\tNext due")
			for _, schedule := range schedules {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%s\n",
					schedule.ID, schedule.Name, schedule.Type, schedule.Amount,
					schedule.DayOfMonth, schedule.NextDue().Format("2006-01-02"))
			}
			return nil
		},
	}
}

func addRecurringCmd() *cobra.Command {
	var (
		entryType string
		category  string
		account   string
		day       int
	)

	cmd := &cobra.Command{
		Use:   "add <name> <amount>",
		Short: "Add a recurring schedule",
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

			schedule := &model.Recurring{
				ID:         uuid.NewString(),
				Name:       args[0],
				Amount:     amount,
				Type:       model.EntryType(entryType),
				CategoryID: category,
				AccountID:  account,
				DayOfMonth: day,
			}
			if err := store.CreateRecurring(ctx, schedule); err != nil {
				return fmt.Errorf("failed to create schedule: %w", err)
			}

			fmt.Printf("Created schedule %q, %s on day %d (%s)\n",
				schedule.Name, schedule.Amount, schedule.DayOfMonth, schedule.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&entryType, "type", "EXPENSE", "entry type (EXPENSE, INCOME)")
	cmd.Flags().StringVar(&category, "category", "", "category ID")
	cmd.Flags().StringVar(&account, "account", "", "account ID")
	cmd.Flags().IntVar(&day, "day", 1, "day of month (1-28)")
	return cmd
}

func deleteRecurringCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a recurring schedule",
		Long:  `Delete a schedule. Entries it already produced are kept.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if err := store.DeleteRecurring(ctx, args[0]); err != nil {
				return fmt.Errorf("failed to delete schedule: %w", err)
			}
			fmt.Println("Schedule deleted.")
			return nil
		},
	}
}

func applyRecurringCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "apply",
		Short: "Turn every due recurring period into a ledger entry",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			created, err := ledger.NewReconciler(store).ApplyDueRecurring(ctx, time.Now().UTC())
			if err != nil {
				return userFacing("failed to apply schedules", err)
			}

			if len(created) == 0 {
				fmt.Println("Nothing due.")
				return nil
			}
			for _, entry := range created {
				fmt.Printf("Applied %s: %s %s on %s\n",
					entry.Note, entry.Type, entry.Amount, entry.Date.Format("2006-01-02"))
			}
			return nil
		},
	}
}

func dueRecurringCmd() *cobra.Command {
	var withinDays int

	cmd := &cobra.Command{
		Use:   "due",
		Short: "Show schedules coming due soon",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			due, err := report.NewViews(store).RecurringDueSoon(ctx, time.Now().UTC(), withinDays)
			if err != nil {
				return fmt.Errorf("failed to get due schedules: %w", err)
			}

			if len(due) == 0 {
				fmt.Printf("Nothing due within %d days.\n", withinDays)
				return nil
			}
			for _, d := range due {
				fmt.Printf("%s: %s due %s\n", d.Recurring.Name, d.Recurring.Amount, d.Due.Format("2006-01-02"))
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&withinDays, "days", 7, "horizon in days")
	return cmd
}
