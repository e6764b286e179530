package repository

import (
	"context"
	"log/slog"
	"strconv"

	"campus-market/internal/domain/wallet"
	"campus-market/internal/infra"
	"campus-market/internal/infra/repository/converter"
	"campus-market/internal/usecase/shared"

	"github.com/google/uuid"
)

const transactionColumns = `id, wallet_id, type, amount, description,
	reference_kind, reference_id, status, reverses_id, created_at`

type WalletRepository struct {
	db      DBTX
	slogger *slog.Logger
}

func NewWalletRepository(db DBTX, slogger *slog.Logger) *WalletRepository {
	return &WalletRepository{db: db, slogger: slogger}
}

func (r *WalletRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*wallet.Wallet, error) {
	var row converter.WalletRow
	err := r.db.QueryRow(ctx,
		`SELECT id, user_id, balance, version, created_at, updated_at FROM wallets WHERE user_id = $1`, userID,
	).Scan(&row.ID, &row.UserID, &row.Balance, &row.Version, &row.CreatedAt, &row.UpdatedAt)
	if err != nil {
		return nil, infra.ClassifyPgError(r.slogger, "failed to get wallet", err)
	}
	return converter.WalletFromRow(row), nil
}

func (r *WalletRepository) Create(ctx context.Context, w *wallet.Wallet) error {
	row := converter.WalletToRow(w)
	return exec(ctx, r.db, r.slogger, "failed to create wallet",
		`INSERT INTO wallets (id, user_id, balance, version, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		row.ID, row.UserID, row.Balance, row.Version, row.CreatedAt, row.UpdatedAt)
}

func (r *WalletRepository) Update(ctx context.Context, w *wallet.Wallet) error {
	row := converter.WalletToRow(w)
	return execVersioned(ctx, r.db, r.slogger, "failed to update wallet",
		`UPDATE wallets SET balance = $3, updated_at = $4, version = version + 1
		WHERE id = $1 AND version = $2`,
		row.ID, row.Version, row.Balance, row.UpdatedAt)
}

func (r *WalletRepository) AppendTransaction(ctx context.Context, t wallet.Transaction) error {
	row := converter.TransactionToRow(t)
	return exec(ctx, r.db, r.slogger, "failed to append wallet transaction",
		`INSERT INTO wallet_transactions (`+transactionColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		row.ID, row.WalletID, row.Type, row.Amount, row.Description,
		row.ReferenceKind, row.ReferenceID, row.Status, row.ReversesID, row.CreatedAt)
}

func (r *WalletRepository) ListTransactions(ctx context.Context, walletID uuid.UUID, page shared.Page) ([]wallet.Transaction, error) {
	sql := `SELECT ` + transactionColumns + ` FROM wallet_transactions WHERE wallet_id = $1`
	args := []any{walletID}
	if page.After != nil {
		sql += ` AND (created_at, id) < ($2, $3)`
		args = append(args, page.After.CreatedAt, page.After.ID)
	}
	sql += ` ORDER BY created_at DESC, id DESC`
	if page.Limit > 0 {
		args = append(args, page.Limit)
		sql += ` LIMIT $` + strconv.Itoa(len(args))
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, infra.ClassifyPgError(r.slogger, "failed to list wallet transactions", err)
	}
	defer rows.Close()

	var out []wallet.Transaction
	for rows.Next() {
		var t converter.TransactionRow
		if err := rows.Scan(
			&t.ID, &t.WalletID, &t.Type, &t.Amount, &t.Description,
			&t.ReferenceKind, &t.ReferenceID, &t.Status, &t.ReversesID, &t.CreatedAt,
		); err != nil {
			return nil, infra.ClassifyPgError(r.slogger, "failed to scan wallet transaction", err)
		}
		out = append(out, converter.TransactionFromRow(t))
	}
	if err := rows.Err(); err != nil {
		return nil, infra.ClassifyPgError(r.slogger, "failed to list wallet transactions", err)
	}
	return out, nil
}
