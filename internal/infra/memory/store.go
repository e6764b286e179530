// Package memory is an in-process implementation of the unit of work. It
// keeps the same row shapes and constraint behaviour as the Postgres store
// and backs the memory store driver and the use case tests.
package memory

import (
	"context"
	"log/slog"
	"maps"
	"slices"
	"sync"

	"campus-market/internal/infra/repository/converter"
	"campus-market/internal/pkg/errs"
	"campus-market/internal/usecase/shared"

	"github.com/google/uuid"
)

var errReadOnly = errs.New("write attempted in a read-only transaction")

type state struct {
	resources    map[uuid.UUID]converter.ResourceRow
	matches      map[uuid.UUID]converter.MatchRow
	errands      map[uuid.UUID]converter.ErrandRow
	refunds      map[uuid.UUID]converter.RefundRow
	wallets      map[uuid.UUID]converter.WalletRow
	transactions []converter.TransactionRow
	users        map[uuid.UUID]converter.UserRow
	coupons      map[string]converter.CouponRow
	charges      map[string]shared.Charge
}

func newState() *state {
	return &state{
		resources: map[uuid.UUID]converter.ResourceRow{},
		matches:   map[uuid.UUID]converter.MatchRow{},
		errands:   map[uuid.UUID]converter.ErrandRow{},
		refunds:   map[uuid.UUID]converter.RefundRow{},
		wallets:   map[uuid.UUID]converter.WalletRow{},
		users:     map[uuid.UUID]converter.UserRow{},
		coupons:   map[string]converter.CouponRow{},
		charges:   map[string]shared.Charge{},
	}
}

// clone copies every table. Rows are values and never mutated in place,
// so a shallow copy of each map is enough.
func (s *state) clone() *state {
	return &state{
		resources:    maps.Clone(s.resources),
		matches:      maps.Clone(s.matches),
		errands:      maps.Clone(s.errands),
		refunds:      maps.Clone(s.refunds),
		wallets:      maps.Clone(s.wallets),
		transactions: slices.Clone(s.transactions),
		users:        maps.Clone(s.users),
		coupons:      maps.Clone(s.coupons),
		charges:      maps.Clone(s.charges),
	}
}

// Store serializes writers. Each Within works on a private copy of the
// tables that replaces the shared state only when fn succeeds.
type Store struct {
	mu      sync.RWMutex
	state   *state
	slogger *slog.Logger
}

func NewStore() *Store {
	return &Store{state: newState(), slogger: slog.Default()}
}

func NewUoW(s *Store) shared.UnitOfWork {
	return s
}

func (s *Store) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	working := s.state.clone()
	if err := fn(ctx, &memTx{st: working, slogger: s.slogger}); err != nil {
		return err
	}
	s.state = working
	return nil
}

func (s *Store) WithinReadOnly(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	return fn(ctx, &memTx{st: s.state, readOnly: true, slogger: s.slogger})
}

type memTx struct {
	st       *state
	readOnly bool
	slogger  *slog.Logger
}

func (t *memTx) guard() error {
	if t.readOnly {
		return errReadOnly
	}
	return nil
}

func (t *memTx) Resources() shared.ResourceRepository { return resourceRepo{t} }
func (t *memTx) Matches() shared.MatchRepository      { return matchRepo{t} }
func (t *memTx) Errands() shared.ErrandRepository     { return errandRepo{t} }
func (t *memTx) Refunds() shared.RefundRepository     { return refundRepo{t} }
func (t *memTx) Wallets() shared.WalletRepository     { return walletRepo{t} }
func (t *memTx) Users() shared.UserRepository         { return userRepo{t} }
func (t *memTx) Coupons() shared.CouponRepository     { return couponRepo{t} }
func (t *memTx) Payments() shared.PaymentRepository   { return paymentRepo{t} }
