package ledger

import (
	"context"
	"fmt"

	"github.com/rupeeledger/rupeeledger/internal/common"
	"github.com/rupeeledger/rupeeledger/internal/model"
	"github.com/rupeeledger/rupeeledger/internal/service"
)

// Drift describes an account whose incrementally maintained balance no
// longer matched the sum of its entries.
type Drift struct {
	AccountID string
	Name      string
	Stored    model.Money
	Computed  model.Money
}

// Repair recomputes every account balance from its entries and corrects any
// drift, all in one transaction. Incremental updates are authoritative in
// normal operation; this is a repair-only operation for detected
// inconsistency. Any drift found is logged as a consistency violation and
// returned so the caller can investigate.
func (r *Reconciler) Repair(ctx context.Context) ([]Drift, error) {
	var drifts []Drift

	err := r.withTx(ctx, func(tx service.Tx) error {
		accounts, err := tx.GetAccounts(ctx)
		if err != nil {
			return err
		}

		for _, account := range accounts {
			computed, err := tx.SumAccountEntries(ctx, account.ID)
			if err != nil {
				return err
			}
			if computed == account.Balance {
				continue
			}

			drift := Drift{
				AccountID: account.ID,
				Name:      account.Name,
				Stored:    account.Balance,
				Computed:  computed,
			}
			drifts = append(drifts, drift)

			common.LogError(
				fmt.Errorf("%w: account balance drifted", common.ErrConsistency),
				"repairing account balance",
				common.Fields{
					"account_id": account.ID,
					"stored":     account.Balance.String(),
					"computed":   computed.String(),
				})

			if err := tx.AdjustAccountBalance(ctx, account.ID, computed-account.Balance); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return drifts, nil
}
