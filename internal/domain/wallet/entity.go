package wallet

import (
	"time"

	"campus-market/internal/domain/money"
	"campus-market/internal/pkg/errs"

	"github.com/google/uuid"
)

var (
	ErrWalletNotFound    = errs.Kind("wallet not found", errs.ErrNotFound)
	ErrInsufficientFunds = errs.Kind("insufficient wallet balance", errs.ErrInvalidState)
	ErrNonPositiveAmount = errs.Kind("transaction amount must be positive", errs.ErrValidation)
	ErrNotReversible     = errs.Kind("only a completed transaction of this wallet can be reversed", errs.ErrInvalidState)
	ErrBalanceOutOfSync  = errs.Kind("wallet balance does not match its transactions", errs.ErrInternalInconsistency)
)

type Transaction struct {
	ID          uuid.UUID
	WalletID    uuid.UUID
	Type        TransactionType
	Amount      money.Money
	Description string
	Reference   Reference
	Status      TransactionStatus
	ReversesID  *uuid.UUID
	CreatedAt   time.Time
}

type Wallet struct {
	id        uuid.UUID
	userID    uuid.UUID
	balance   money.Money
	version   int
	createdAt time.Time
	updatedAt time.Time
}

func NewWallet(userID uuid.UUID, now time.Time) *Wallet {
	return &Wallet{
		id:        uuid.New(),
		userID:    userID,
		balance:   money.Zero,
		createdAt: now,
		updatedAt: now,
	}
}

func ReconstructWallet(id, userID uuid.UUID, balance money.Money, version int, createdAt, updatedAt time.Time) *Wallet {
	return &Wallet{
		id:        id,
		userID:    userID,
		balance:   balance,
		version:   version,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}
}

// Credit adds amount and returns the completed transaction to append.
func (w *Wallet) Credit(amount money.Money, description string, ref Reference, now time.Time) (Transaction, error) {
	if !amount.IsPositive() {
		return Transaction{}, ErrNonPositiveAmount
	}
	w.balance = w.balance.Add(amount)
	w.updatedAt = now
	return w.entry(TypeCredit, amount, description, ref, now), nil
}

func (w *Wallet) Debit(amount money.Money, description string, ref Reference, now time.Time) (Transaction, error) {
	if !amount.IsPositive() {
		return Transaction{}, ErrNonPositiveAmount
	}
	if w.balance.LessThan(amount) {
		return Transaction{}, ErrInsufficientFunds
	}
	w.balance = w.balance.Sub(amount)
	w.updatedAt = now
	return w.entry(TypeDebit, amount, description, ref, now), nil
}

// Reverse appends a compensating entry of the opposite type. The original
// transaction is left untouched.
func (w *Wallet) Reverse(original Transaction, description string, now time.Time) (Transaction, error) {
	if original.WalletID != w.id || original.Status != StatusCompleted || original.ReversesID != nil {
		return Transaction{}, ErrNotReversible
	}
	ref := Reference{Kind: RefTransaction, ID: original.ID}

	var (
		tx  Transaction
		err error
	)
	if original.Type == TypeCredit {
		tx, err = w.Debit(original.Amount, description, ref, now)
	} else {
		tx, err = w.Credit(original.Amount, description, ref, now)
	}
	if err != nil {
		return Transaction{}, err
	}
	id := original.ID
	tx.ReversesID = &id
	return tx, nil
}

func (w *Wallet) entry(typ TransactionType, amount money.Money, description string, ref Reference, now time.Time) Transaction {
	return Transaction{
		ID:          uuid.New(),
		WalletID:    w.id,
		Type:        typ,
		Amount:      amount,
		Description: description,
		Reference:   ref,
		Status:      StatusCompleted,
		CreatedAt:   now,
	}
}

// ReplayBalance recomputes a balance from completed credits minus completed debits.
func ReplayBalance(txs []Transaction) money.Money {
	balance := money.Zero
	for _, tx := range txs {
		if tx.Status != StatusCompleted {
			continue
		}
		switch tx.Type {
		case TypeCredit:
			balance = balance.Add(tx.Amount)
		case TypeDebit:
			balance = balance.Sub(tx.Amount)
		}
	}
	return balance
}

// Verify checks the stored balance against the ledger.
func (w *Wallet) Verify(txs []Transaction) error {
	if !ReplayBalance(txs).Equal(w.balance) || w.balance.IsNegative() {
		return ErrBalanceOutOfSync
	}
	return nil
}

func (w *Wallet) ID() uuid.UUID        { return w.id }
func (w *Wallet) UserID() uuid.UUID    { return w.userID }
func (w *Wallet) Balance() money.Money { return w.balance }
func (w *Wallet) Version() int         { return w.version }
func (w *Wallet) CreatedAt() time.Time { return w.createdAt }
func (w *Wallet) UpdatedAt() time.Time { return w.updatedAt }
