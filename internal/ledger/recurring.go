package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/rupeeledger/rupeeledger/internal/model"
	"github.com/rupeeledger/rupeeledger/internal/service"
)

// ApplyDueRecurring turns every recurring schedule due on or before now into
// ledger entries, one per missed period. Each application is one atomic
// transaction covering the entry write, the balance adjustment and the
// schedule's last-applied marker, so a crash mid-run never double-applies a
// period. Returns the entries created.
func (r *Reconciler) ApplyDueRecurring(ctx context.Context, now time.Time) ([]model.Entry, error) {
	schedules, err := r.store.GetRecurrings(ctx)
	if err != nil {
		return nil, err
	}

	var created []model.Entry
	for _, schedule := range schedules {
		sched := schedule
		for {
			due := sched.NextDue()
			if due.After(now) {
				break
			}

			entry := model.Entry{
				ID:          uuid.NewString(),
				Amount:      sched.Amount,
				Type:        sched.Type,
				CategoryID:  sched.CategoryID,
				AccountID:   sched.AccountID,
				Date:        due,
				Note:        sched.Name,
				RecurringID: sched.ID,
			}

			err := r.withTx(ctx, func(tx service.Tx) error {
				if err := checkReferences(ctx, tx, &entry); err != nil {
					return err
				}
				if entry.AccountID != "" {
					if err := tx.AdjustAccountBalance(ctx, entry.AccountID, entry.SignedEffect()); err != nil {
						return err
					}
				}
				if err := tx.SaveEntry(ctx, &entry); err != nil {
					return err
				}
				return tx.MarkRecurringApplied(ctx, sched.ID, due)
			})
			if err != nil {
				return created, fmt.Errorf("failed to apply recurring %q for %s: %w",
					sched.Name, due.Format("2006-01-02"), err)
			}

			slog.Info("applied recurring schedule",
				"recurring_id", sched.ID,
				"name", sched.Name,
				"due", due.Format("2006-01-02"),
				"amount", sched.Amount)

			created = append(created, entry)
			sched.LastApplied = &due
		}
	}

	return created, nil
}
