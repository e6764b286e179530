package shared

import (
	"context"
	"time"

	"campus-market/internal/domain/coupon"
	"campus-market/internal/domain/errand"
	"campus-market/internal/domain/match"
	"campus-market/internal/domain/money"
	"campus-market/internal/domain/refund"
	"campus-market/internal/domain/resource"
	"campus-market/internal/domain/user"
	"campus-market/internal/domain/wallet"

	"github.com/google/uuid"
)

type UnitOfWork interface {
	// Within: Full transaction for write operations with retry logic.
	// Any error returned by fn rolls back every write made through tx.
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	// WithinReadOnly: Read-only transaction for multi-aggregate consistent reads
	WithinReadOnly(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
}

// Tx exposes repositories bound to one transaction.
type Tx interface {
	Resources() ResourceRepository
	Matches() MatchRepository
	Errands() ErrandRepository
	Refunds() RefundRepository
	Wallets() WalletRepository
	Users() UserRepository
	Coupons() CouponRepository
	Payments() PaymentRepository
}

// Update methods compare the aggregate's version with the stored row and
// fail with a STALE_WRITE repository error when another writer got there first.

type ResourceRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*resource.Resource, error)
	Create(ctx context.Context, r *resource.Resource) error
	Update(ctx context.Context, r *resource.Resource) error
}

type MatchRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*match.Match, error)
	Create(ctx context.Context, m *match.Match) error
	Update(ctx context.Context, m *match.Match) error
	// ListStalePending returns pending matches whose first acceptance is older than before.
	ListStalePending(ctx context.Context, before time.Time, limit int) ([]*match.Match, error)
}

type ErrandRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*errand.Errand, error)
	FindByResourceID(ctx context.Context, resourceID uuid.UUID) (*errand.Errand, error)
	Create(ctx context.Context, e *errand.Errand) error
	Update(ctx context.Context, e *errand.Errand) error
}

type RefundRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*refund.Request, error)
	Create(ctx context.Context, r *refund.Request) error
	Update(ctx context.Context, r *refund.Request) error
	HasActive(ctx context.Context, target refund.Target) (bool, error)
	HasProcessed(ctx context.Context, target refund.Target) (bool, error)
}

type WalletRepository interface {
	FindByUserID(ctx context.Context, userID uuid.UUID) (*wallet.Wallet, error)
	Create(ctx context.Context, w *wallet.Wallet) error
	Update(ctx context.Context, w *wallet.Wallet) error
	AppendTransaction(ctx context.Context, t wallet.Transaction) error
	// ListTransactions returns entries newest first. A zero Page returns all of them.
	ListTransactions(ctx context.Context, walletID uuid.UUID, page Page) ([]wallet.Transaction, error)
}

// Keyset is the (created_at, id) position of the last row already returned.
type Keyset struct {
	CreatedAt time.Time
	ID        uuid.UUID
}

type Page struct {
	After *Keyset
	Limit int
}

type UserRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*user.User, error)
	Create(ctx context.Context, u *user.User) error
	Update(ctx context.Context, u *user.User) error
}

type CouponRepository interface {
	FindByCode(ctx context.Context, code coupon.Code) (*coupon.Coupon, error)
	Create(ctx context.Context, c *coupon.Coupon) error
}

// Charge is a payment confirmed by the gateway.
type Charge struct {
	ChargeID   string
	TargetKind string
	TargetID   uuid.UUID
	Amount     money.Money
	ReceivedAt time.Time
}

type PaymentRepository interface {
	// Record stores the charge once. A second call with the same charge id
	// fails with a DUPLICATE_KEY repository error.
	Record(ctx context.Context, c Charge) error
}
