//go:build unit

package commands_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"campus-market/internal/domain/match"
	"campus-market/internal/domain/resource"
	"campus-market/internal/domain/user"
	"campus-market/internal/domain/wallet"
	"campus-market/internal/infra/memory"
	"campus-market/internal/pkg/clock"
	"campus-market/internal/usecase/commands"
	"campus-market/internal/usecase/shared"
	"campus-market/tests/common/builder"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2025, 4, 1, 10, 0, 0, 0, time.UTC)

// recordingNotifier keeps every delivered message. A non-nil fail makes
// every delivery fail after recording the attempt.
type recordingNotifier struct {
	mu   sync.Mutex
	msgs []shared.Message
	fail error
}

func (n *recordingNotifier) Notify(_ context.Context, msg shared.Message) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.msgs = append(n.msgs, msg)
	return n.fail
}

func (n *recordingNotifier) events() []shared.Event {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]shared.Event, 0, len(n.msgs))
	for _, m := range n.msgs {
		out = append(out, m.Event)
	}
	return out
}

type world struct {
	store    *memory.Store
	clock    *clock.MockClock
	notifier *recordingNotifier

	matches  commands.MatchCommands
	errands  commands.ErrandCommands
	refunds  commands.RefundCommands
	payments commands.PaymentCommands
}

func newWorld(t *testing.T) *world {
	t.Helper()
	store := memory.NewStore()
	uow := memory.NewUoW(store)
	clk := clock.NewMockClock(t0)
	n := &recordingNotifier{}
	return &world{
		store:    store,
		clock:    clk,
		notifier: n,
		matches:  commands.NewMatchUseCase(uow, match.NewDefaultDeliveryPricer(time.UTC), n, clk),
		errands:  commands.NewErrandUseCase(uow, n, clk),
		refunds:  commands.NewRefundUseCase(uow, n, clk),
		payments: commands.NewPaymentUseCase(uow, n, clk),
	}
}

func (w *world) seed(t *testing.T, fn func(ctx context.Context, tx shared.Tx) error) {
	t.Helper()
	require.NoError(t, w.store.Within(t.Context(), fn))
}

func (w *world) read(t *testing.T, fn func(ctx context.Context, tx shared.Tx) error) {
	t.Helper()
	require.NoError(t, w.store.WithinReadOnly(t.Context(), fn))
}

func (w *world) seedUsers(t *testing.T, users ...*user.User) {
	t.Helper()
	w.seed(t, func(ctx context.Context, tx shared.Tx) error {
		for _, u := range users {
			if err := tx.Users().Create(ctx, u); err != nil {
				return err
			}
		}
		return nil
	})
}

func (w *world) seedResources(t *testing.T, resources ...*resource.Resource) {
	t.Helper()
	w.seed(t, func(ctx context.Context, tx shared.Tx) error {
		for _, r := range resources {
			if err := tx.Resources().Create(ctx, r); err != nil {
				return err
			}
		}
		return nil
	})
}

func (w *world) seedMatch(t *testing.T, m *match.Match) {
	t.Helper()
	w.seed(t, func(ctx context.Context, tx shared.Tx) error { return tx.Matches().Create(ctx, m) })
}

func (w *world) user(t *testing.T, id uuid.UUID) *user.User {
	t.Helper()
	var u *user.User
	w.read(t, func(ctx context.Context, tx shared.Tx) error {
		var err error
		u, err = tx.Users().FindByID(ctx, id)
		return err
	})
	return u
}

func (w *world) match(t *testing.T, id uuid.UUID) *match.Match {
	t.Helper()
	var m *match.Match
	w.read(t, func(ctx context.Context, tx shared.Tx) error {
		var err error
		m, err = tx.Matches().FindByID(ctx, id)
		return err
	})
	return m
}

func (w *world) resource(t *testing.T, id uuid.UUID) *resource.Resource {
	t.Helper()
	var r *resource.Resource
	w.read(t, func(ctx context.Context, tx shared.Tx) error {
		var err error
		r, err = tx.Resources().FindByID(ctx, id)
		return err
	})
	return r
}

// ledger returns the user's wallet and its entries, or a nil wallet when none
// was opened yet.
func (w *world) ledger(t *testing.T, userID uuid.UUID) (*wallet.Wallet, []wallet.Transaction) {
	t.Helper()
	var (
		wl  *wallet.Wallet
		txs []wallet.Transaction
	)
	err := w.store.WithinReadOnly(t.Context(), func(ctx context.Context, tx shared.Tx) error {
		var err error
		wl, err = tx.Wallets().FindByUserID(ctx, userID)
		if err != nil {
			return err
		}
		txs, err = tx.Wallets().ListTransactions(ctx, wl.ID(), shared.Page{})
		return err
	})
	if err != nil {
		return nil, nil
	}
	return wl, txs
}

// marketParties seeds both users of a match and the two resources it links.
func (w *world) marketParties(t *testing.T, mb *builder.MatchBuilder) (requester, owner *user.User) {
	t.Helper()
	requester = builder.NewUserBuilder().MustBuild()
	owner = builder.NewUserBuilder().MustBuild()
	mb.WithParties(requester.ID(), owner.ID())
	w.seedUsers(t, requester, owner)

	r1 := builder.NewResourceBuilder().AsTrade(resource.TypeBuy).WithOwner(requester.ID()).
		With(func(b *builder.ResourceBuilder) { b.ID = mb.Parties.Resource1ID }).
		WithStatus(resource.StatusMatched).BuildDomain()
	r2 := builder.NewResourceBuilder().AsTrade(resource.TypeSell).WithOwner(owner.ID()).
		With(func(b *builder.ResourceBuilder) { b.ID = mb.Parties.Resource2ID }).
		WithStatus(resource.StatusMatched).BuildDomain()
	w.seedResources(t, r1, r2)
	return requester, owner
}

var errDeliveryDown = errors.New("broker unavailable")
