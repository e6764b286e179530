package commands

import (
	"context"
	"time"

	"campus-market/internal/domain/money"
	"campus-market/internal/domain/wallet"
	"campus-market/internal/infra"
	"campus-market/internal/usecase/shared"

	"github.com/google/uuid"
)

var errWalletCreatedConcurrently = ErrConcurrentUpdate

// creditWallet credits the user's wallet, opening it on first use. The
// balance change and its ledger entry are written in the caller's transaction.
// A zero amount leaves the ledger untouched.
func creditWallet(ctx context.Context, tx shared.Tx, userID uuid.UUID, amount money.Money, description string, ref wallet.Reference, now time.Time) error {
	if !amount.IsPositive() {
		return nil
	}

	w, err := tx.Wallets().FindByUserID(ctx, userID)
	switch {
	case err == nil:
	case infra.IsKind(err, infra.KindNotFound):
		w = wallet.NewWallet(userID, now)
		if err := createErr(tx.Wallets().Create(ctx, w), errWalletCreatedConcurrently); err != nil {
			return err
		}
	default:
		return err
	}

	entry, err := w.Credit(amount, description, ref, now)
	if err != nil {
		return err
	}
	if err := repoErr(tx.Wallets().Update(ctx, w), nil); err != nil {
		return err
	}
	return repoErr(tx.Wallets().AppendTransaction(ctx, entry), nil)
}
