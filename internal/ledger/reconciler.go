// Package ledger maintains the invariant that every account balance equals
// the sum of signed effects of the entries referencing it, across entry
// creation, edits and deletion, and the analogous invariant for savings
// goal progress.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/rupeeledger/rupeeledger/internal/common"
	"github.com/rupeeledger/rupeeledger/internal/model"
	"github.com/rupeeledger/rupeeledger/internal/service"
)

// Reconciler applies ledger mutations inside single atomic transactions:
// either the entry write and its balance adjustment both commit, or neither
// does. Same-account adjustments serialize through the store's single
// writer, so increments are never lost to concurrent edits.
type Reconciler struct {
	store service.Storage
}

// NewReconciler creates a reconciler over the given store.
func NewReconciler(store service.Storage) *Reconciler {
	return &Reconciler{store: store}
}

// withTx runs fn inside a transaction, rolling back on error.
func (r *Reconciler) withTx(ctx context.Context, fn func(tx service.Tx) error) error {
	tx, err := r.store.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			slog.Error("rollback failed", "error", rbErr, "cause", err)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func validateEntryInput(entry *model.Entry) error {
	if entry == nil {
		return fmt.Errorf("%w: entry cannot be nil", common.ErrValidation)
	}
	if entry.Amount <= 0 {
		return fmt.Errorf("%w: amount must be positive, got %s", common.ErrValidation, entry.Amount)
	}
	if entry.Type != model.EntryTypeExpense && entry.Type != model.EntryTypeIncome {
		return fmt.Errorf("%w: unknown entry type %q", common.ErrValidation, entry.Type)
	}
	if entry.Date.IsZero() {
		return fmt.Errorf("%w: date is required", common.ErrValidation)
	}
	return nil
}

// checkReferences verifies the entry's category and account references point
// at live entities. References are checked on write; later deletion of the
// referenced entity degrades reads, it does not cascade.
func checkReferences(ctx context.Context, tx service.Tx, entry *model.Entry) error {
	if entry.CategoryID != "" {
		if _, err := tx.GetCategory(ctx, entry.CategoryID); err != nil {
			return err
		}
	}
	if entry.AccountID != "" {
		if _, err := tx.GetAccount(ctx, entry.AccountID); err != nil {
			return err
		}
	}
	return nil
}

// Create validates and persists a new entry, applying its signed effect to
// the referenced account in the same transaction. The entry's ID is
// generated when empty.
func (r *Reconciler) Create(ctx context.Context, entry *model.Entry) error {
	if err := validateEntryInput(entry); err != nil {
		return err
	}
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}

	return r.withTx(ctx, func(tx service.Tx) error {
		if err := checkReferences(ctx, tx, entry); err != nil {
			return err
		}
		if entry.AccountID != "" {
			if err := tx.AdjustAccountBalance(ctx, entry.AccountID, entry.SignedEffect()); err != nil {
				return err
			}
		}
		if err := r.applyGoalLink(ctx, tx, entry, false); err != nil {
			return err
		}
		return tx.SaveEntry(ctx, entry)
	})
}

// Update replaces an existing entry. The old entry's effect is reversed on
// its old account before the new effect is applied to the new account; when
// both accounts are the same the two deltas collapse into one adjustment so
// no intermediate balance is ever visible. Validation failures leave all
// state unchanged.
func (r *Reconciler) Update(ctx context.Context, entry *model.Entry) error {
	if err := validateEntryInput(entry); err != nil {
		return err
	}
	if entry.ID == "" {
		return fmt.Errorf("%w: entry ID is required", common.ErrValidation)
	}

	return r.withTx(ctx, func(tx service.Tx) error {
		old, err := tx.GetEntry(ctx, entry.ID)
		if err != nil {
			return err
		}
		if err := checkReferences(ctx, tx, entry); err != nil {
			return err
		}

		switch {
		case old.AccountID == entry.AccountID && entry.AccountID != "":
			// Same account: combine reversal and reapplication algebraically.
			if delta := entry.SignedEffect() - old.SignedEffect(); delta != 0 {
				if err := tx.AdjustAccountBalance(ctx, entry.AccountID, delta); err != nil {
					return err
				}
			}
		default:
			if old.AccountID != "" {
				if err := tx.AdjustAccountBalance(ctx, old.AccountID, -old.SignedEffect()); err != nil {
					return err
				}
			}
			if entry.AccountID != "" {
				if err := tx.AdjustAccountBalance(ctx, entry.AccountID, entry.SignedEffect()); err != nil {
					return err
				}
			}
		}

		if err := r.applyGoalLink(ctx, tx, old, true); err != nil {
			return err
		}
		if err := r.applyGoalLink(ctx, tx, entry, false); err != nil {
			return err
		}

		entry.CreatedAt = old.CreatedAt
		return tx.UpdateEntry(ctx, entry)
	})
}

// Delete reverses an entry's effect and removes it. Deleting an id that no
// longer exists is a no-op success so retries are safe.
func (r *Reconciler) Delete(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("%w: entry ID is required", common.ErrValidation)
	}

	return r.withTx(ctx, func(tx service.Tx) error {
		old, err := tx.GetEntry(ctx, id)
		if errors.Is(err, common.ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}

		if old.AccountID != "" {
			if err := tx.AdjustAccountBalance(ctx, old.AccountID, -old.SignedEffect()); err != nil {
				return err
			}
		}
		if err := r.applyGoalLink(ctx, tx, old, true); err != nil {
			return err
		}
		return tx.DeleteEntry(ctx, id)
	})
}

// applyGoalLink adjusts a linked goal's saved amount for an entry. A goal
// contribution is an expense from the account into the goal; an income entry
// linked to a goal is money taken back out. The effect is applied exactly
// once per entry, and reversal clamps at zero like any withdrawal.
func (r *Reconciler) applyGoalLink(ctx context.Context, tx service.Tx, entry *model.Entry, reverse bool) error {
	if entry.GoalID == "" {
		return nil
	}

	delta := entry.Amount
	if entry.Type == model.EntryTypeIncome {
		delta = -delta
	}
	if reverse {
		delta = -delta
	}

	if delta < 0 {
		goal, err := tx.GetGoal(ctx, entry.GoalID)
		if err != nil {
			return err
		}
		if goal.SavedAmount+delta < 0 {
			delta = -goal.SavedAmount
		}
	}
	if delta == 0 {
		return nil
	}
	return tx.AdjustGoalSaved(ctx, entry.GoalID, delta)
}

// Contribute adds amount to a goal's saved progress.
func (r *Reconciler) Contribute(ctx context.Context, goalID string, amount model.Money) error {
	if amount <= 0 {
		return fmt.Errorf("%w: contribution must be positive, got %s", common.ErrValidation, amount)
	}

	return r.withTx(ctx, func(tx service.Tx) error {
		if _, err := tx.GetGoal(ctx, goalID); err != nil {
			return err
		}
		return tx.AdjustGoalSaved(ctx, goalID, amount)
	})
}

// Withdraw removes up to amount from a goal's saved progress, clamping at
// zero. The amount actually withdrawn is always returned; when the request
// exceeded the saved balance the clamped withdrawal still commits and the
// error wraps common.ErrInvalidOperation so the caller can report it.
func (r *Reconciler) Withdraw(ctx context.Context, goalID string, amount model.Money) (model.Money, error) {
	if amount <= 0 {
		return 0, fmt.Errorf("%w: withdrawal must be positive, got %s", common.ErrValidation, amount)
	}

	var withdrawn model.Money
	err := r.withTx(ctx, func(tx service.Tx) error {
		goal, err := tx.GetGoal(ctx, goalID)
		if err != nil {
			return err
		}
		withdrawn = amount
		if withdrawn > goal.SavedAmount {
			withdrawn = goal.SavedAmount
		}
		if withdrawn == 0 {
			return nil
		}
		return tx.AdjustGoalSaved(ctx, goalID, -withdrawn)
	})
	if err != nil {
		return 0, err
	}

	if withdrawn < amount {
		return withdrawn, fmt.Errorf("%w: requested %s but only %s was available",
			common.ErrInvalidOperation, amount, withdrawn)
	}
	return withdrawn, nil
}
