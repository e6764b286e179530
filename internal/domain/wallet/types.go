package wallet

import "github.com/google/uuid"

type TransactionType string

const (
	TypeCredit TransactionType = "credit"
	TypeDebit  TransactionType = "debit"
)

func (t TransactionType) Opposite() TransactionType {
	if t == TypeCredit {
		return TypeDebit
	}
	return TypeCredit
}

type TransactionStatus string

const (
	StatusPending   TransactionStatus = "pending"
	StatusCompleted TransactionStatus = "completed"
	StatusFailed    TransactionStatus = "failed"
	StatusReversed  TransactionStatus = "reversed"
)

type ReferenceKind string

const (
	RefMatch         ReferenceKind = "match"
	RefErrand        ReferenceKind = "errand"
	RefRefundRequest ReferenceKind = "refund_request"
	RefTransaction   ReferenceKind = "transaction"
)

// Reference points at the entity that caused a transaction.
type Reference struct {
	Kind ReferenceKind `json:"kind"`
	ID   uuid.UUID     `json:"id"`
}
