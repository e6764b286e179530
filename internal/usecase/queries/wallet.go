package queries

//go:generate mockgen -source=wallet.go -destination=../../../tests/mock/queries/wallet.go -package=queriesmock

import (
	"context"

	"campus-market/internal/domain/money"
	"campus-market/internal/infra"
	"campus-market/internal/usecase/shared"

	"github.com/google/uuid"
)

type WalletQueries interface {
	GetWallet(ctx context.Context, userID uuid.UUID, cursor *Cursor, limit int) (*WalletView, error)
}

type walletQueriesImpl struct {
	uow shared.UnitOfWork
}

func NewWalletQueries(uow shared.UnitOfWork) WalletQueries {
	return &walletQueriesImpl{uow: uow}
}

// GetWallet returns the balance with one page of transactions, newest first.
// A user without a wallet yet sees a zero balance.
func (q *walletQueriesImpl) GetWallet(ctx context.Context, userID uuid.UUID, cursor *Cursor, limit int) (*WalletView, error) {
	page, limit, err := PageFrom(cursor, limit)
	if err != nil {
		return nil, err
	}

	view := &WalletView{UserID: userID, Balance: money.Zero, Transactions: []*TransactionView{}}
	err = q.uow.WithinReadOnly(ctx, func(ctx context.Context, tx shared.Tx) error {
		w, err := tx.Wallets().FindByUserID(ctx, userID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return nil
			}
			return err
		}
		view.Balance = w.Balance()

		txs, err := tx.Wallets().ListTransactions(ctx, w.ID(), page)
		if err != nil {
			return err
		}
		if len(txs) > limit {
			last := txs[limit-1]
			view.NextCursor = &Cursor{After: EncodeAfterCursor(last.CreatedAt, last.ID)}
			txs = txs[:limit]
		}
		for _, t := range txs {
			view.Transactions = append(view.Transactions, NewTransactionView(t))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}
