package memory

import (
	"cmp"
	"context"
	"slices"
	"time"

	"campus-market/internal/domain/coupon"
	"campus-market/internal/domain/errand"
	"campus-market/internal/domain/match"
	"campus-market/internal/domain/refund"
	"campus-market/internal/domain/resource"
	"campus-market/internal/domain/user"
	"campus-market/internal/domain/wallet"
	"campus-market/internal/infra"
	"campus-market/internal/infra/repository/converter"
	"campus-market/internal/usecase/shared"

	"github.com/google/uuid"
)

func (t *memTx) notFound(msg string) error {
	return infra.WrapRepoErr(t.slogger, infra.KindNotFound, msg, nil)
}

func (t *memTx) duplicate(msg string) error {
	return infra.WrapRepoErr(t.slogger, infra.KindDuplicateKey, msg, nil)
}

func (t *memTx) stale(msg string) error {
	return infra.WrapRepoErr(t.slogger, infra.KindStaleWrite, msg, nil)
}

type resourceRepo struct{ t *memTx }

func (r resourceRepo) FindByID(_ context.Context, id uuid.UUID) (*resource.Resource, error) {
	row, ok := r.t.st.resources[id]
	if !ok {
		return nil, r.t.notFound("failed to get resource")
	}
	return converter.ResourceFromRow(row)
}

func (r resourceRepo) Create(_ context.Context, res *resource.Resource) error {
	if err := r.t.guard(); err != nil {
		return err
	}
	row, err := converter.ResourceToRow(res)
	if err != nil {
		return err
	}
	if _, ok := r.t.st.resources[row.ID]; ok {
		return r.t.duplicate("failed to create resource")
	}
	if r.matchIDTaken(row) {
		return r.t.duplicate("failed to create resource")
	}
	r.t.st.resources[row.ID] = row
	return nil
}

func (r resourceRepo) Update(_ context.Context, res *resource.Resource) error {
	if err := r.t.guard(); err != nil {
		return err
	}
	row, err := converter.ResourceToRow(res)
	if err != nil {
		return err
	}
	cur, ok := r.t.st.resources[row.ID]
	if !ok || cur.Version != row.Version {
		return r.t.stale("failed to update resource")
	}
	if r.matchIDTaken(row) {
		return r.t.duplicate("failed to update resource")
	}
	row.Version++
	r.t.st.resources[row.ID] = row
	return nil
}

// matchIDTaken mirrors the unique index on resources(match_id).
func (r resourceRepo) matchIDTaken(row converter.ResourceRow) bool {
	if row.MatchID == nil {
		return false
	}
	for id, other := range r.t.st.resources {
		if id != row.ID && other.MatchID != nil && *other.MatchID == *row.MatchID {
			return true
		}
	}
	return false
}

type matchRepo struct{ t *memTx }

func (r matchRepo) FindByID(_ context.Context, id uuid.UUID) (*match.Match, error) {
	row, ok := r.t.st.matches[id]
	if !ok {
		return nil, r.t.notFound("failed to get match")
	}
	return converter.MatchFromRow(row)
}

func (r matchRepo) Create(_ context.Context, m *match.Match) error {
	if err := r.t.guard(); err != nil {
		return err
	}
	row, err := converter.MatchToRow(m)
	if err != nil {
		return err
	}
	if _, ok := r.t.st.matches[row.ID]; ok {
		return r.t.duplicate("failed to create match")
	}
	r.t.st.matches[row.ID] = row
	return nil
}

func (r matchRepo) Update(_ context.Context, m *match.Match) error {
	if err := r.t.guard(); err != nil {
		return err
	}
	row, err := converter.MatchToRow(m)
	if err != nil {
		return err
	}
	cur, ok := r.t.st.matches[row.ID]
	if !ok || cur.Version != row.Version {
		return r.t.stale("failed to update match")
	}
	row.Version++
	r.t.st.matches[row.ID] = row
	return nil
}

func (r matchRepo) ListStalePending(_ context.Context, before time.Time, limit int) ([]*match.Match, error) {
	var rows []converter.MatchRow
	for _, row := range r.t.st.matches {
		if row.Status == string(match.StatusPending) && row.FirstAcceptanceTime != nil && row.FirstAcceptanceTime.Before(before) {
			rows = append(rows, row)
		}
	}
	slices.SortFunc(rows, func(a, b converter.MatchRow) int {
		if c := a.FirstAcceptanceTime.Compare(*b.FirstAcceptanceTime); c != 0 {
			return c
		}
		return cmp.Compare(a.ID.String(), b.ID.String())
	})
	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}

	out := make([]*match.Match, 0, len(rows))
	for _, row := range rows {
		m, err := converter.MatchFromRow(row)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

type errandRepo struct{ t *memTx }

func (r errandRepo) FindByID(_ context.Context, id uuid.UUID) (*errand.Errand, error) {
	row, ok := r.t.st.errands[id]
	if !ok {
		return nil, r.t.notFound("failed to get errand")
	}
	return converter.ErrandFromRow(row)
}

func (r errandRepo) FindByResourceID(_ context.Context, resourceID uuid.UUID) (*errand.Errand, error) {
	for _, row := range r.t.st.errands {
		if row.ResourceID == resourceID {
			return converter.ErrandFromRow(row)
		}
	}
	return nil, r.t.notFound("failed to get errand by resource")
}

func (r errandRepo) Create(_ context.Context, e *errand.Errand) error {
	if err := r.t.guard(); err != nil {
		return err
	}
	row, err := converter.ErrandToRow(e)
	if err != nil {
		return err
	}
	if _, ok := r.t.st.errands[row.ID]; ok {
		return r.t.duplicate("failed to create errand")
	}
	for _, other := range r.t.st.errands {
		if other.ResourceID == row.ResourceID {
			return r.t.duplicate("failed to create errand")
		}
	}
	r.t.st.errands[row.ID] = row
	return nil
}

func (r errandRepo) Update(_ context.Context, e *errand.Errand) error {
	if err := r.t.guard(); err != nil {
		return err
	}
	row, err := converter.ErrandToRow(e)
	if err != nil {
		return err
	}
	cur, ok := r.t.st.errands[row.ID]
	if !ok || cur.Version != row.Version {
		return r.t.stale("failed to update errand")
	}
	row.Version++
	r.t.st.errands[row.ID] = row
	return nil
}

type refundRepo struct{ t *memTx }

func (r refundRepo) FindByID(_ context.Context, id uuid.UUID) (*refund.Request, error) {
	row, ok := r.t.st.refunds[id]
	if !ok {
		return nil, r.t.notFound("failed to get refund request")
	}
	return converter.RefundFromRow(row), nil
}

func (r refundRepo) Create(_ context.Context, req *refund.Request) error {
	if err := r.t.guard(); err != nil {
		return err
	}
	row := converter.RefundToRow(req)
	if _, ok := r.t.st.refunds[row.ID]; ok {
		return r.t.duplicate("failed to create refund request")
	}
	if r.activeConflict(row) {
		return r.t.duplicate("failed to create refund request")
	}
	r.t.st.refunds[row.ID] = row
	return nil
}

func (r refundRepo) Update(_ context.Context, req *refund.Request) error {
	if err := r.t.guard(); err != nil {
		return err
	}
	row := converter.RefundToRow(req)
	cur, ok := r.t.st.refunds[row.ID]
	if !ok || cur.Version != row.Version {
		return r.t.stale("failed to update refund request")
	}
	if r.activeConflict(row) {
		return r.t.duplicate("failed to update refund request")
	}
	row.Version++
	r.t.st.refunds[row.ID] = row
	return nil
}

func (r refundRepo) HasActive(_ context.Context, target refund.Target) (bool, error) {
	return r.any(target, func(s refund.Status) bool { return s.IsActive() }), nil
}

func (r refundRepo) HasProcessed(_ context.Context, target refund.Target) (bool, error) {
	return r.any(target, func(s refund.Status) bool { return s == refund.StatusProcessed }), nil
}

func (r refundRepo) any(target refund.Target, pred func(refund.Status) bool) bool {
	for _, row := range r.t.st.refunds {
		if row.TargetKind == string(target.Kind) && row.TargetID == target.ID && pred(refund.Status(row.Status)) {
			return true
		}
	}
	return false
}

// activeConflict mirrors the partial unique index on active refund targets.
func (r refundRepo) activeConflict(row converter.RefundRow) bool {
	if !refund.Status(row.Status).IsActive() {
		return false
	}
	for id, other := range r.t.st.refunds {
		if id != row.ID && other.TargetKind == row.TargetKind && other.TargetID == row.TargetID &&
			refund.Status(other.Status).IsActive() {
			return true
		}
	}
	return false
}

type walletRepo struct{ t *memTx }

func (r walletRepo) FindByUserID(_ context.Context, userID uuid.UUID) (*wallet.Wallet, error) {
	for _, row := range r.t.st.wallets {
		if row.UserID == userID {
			return converter.WalletFromRow(row), nil
		}
	}
	return nil, r.t.notFound("failed to get wallet")
}

func (r walletRepo) Create(_ context.Context, w *wallet.Wallet) error {
	if err := r.t.guard(); err != nil {
		return err
	}
	row := converter.WalletToRow(w)
	for _, other := range r.t.st.wallets {
		if other.ID == row.ID || other.UserID == row.UserID {
			return r.t.duplicate("failed to create wallet")
		}
	}
	r.t.st.wallets[row.ID] = row
	return nil
}

func (r walletRepo) Update(_ context.Context, w *wallet.Wallet) error {
	if err := r.t.guard(); err != nil {
		return err
	}
	row := converter.WalletToRow(w)
	cur, ok := r.t.st.wallets[row.ID]
	if !ok || cur.Version != row.Version {
		return r.t.stale("failed to update wallet")
	}
	row.Version++
	r.t.st.wallets[row.ID] = row
	return nil
}

func (r walletRepo) AppendTransaction(_ context.Context, tr wallet.Transaction) error {
	if err := r.t.guard(); err != nil {
		return err
	}
	row := converter.TransactionToRow(tr)
	// timestamptz keeps microseconds; keyset cursors rely on the same precision.
	row.CreatedAt = row.CreatedAt.Truncate(time.Microsecond)
	for _, other := range r.t.st.transactions {
		if other.ID == row.ID {
			return r.t.duplicate("failed to append wallet transaction")
		}
	}
	r.t.st.transactions = append(r.t.st.transactions, row)
	return nil
}

func (r walletRepo) ListTransactions(_ context.Context, walletID uuid.UUID, page shared.Page) ([]wallet.Transaction, error) {
	var rows []converter.TransactionRow
	for _, row := range r.t.st.transactions {
		if row.WalletID != walletID {
			continue
		}
		if page.After != nil && !keysetBefore(row, *page.After) {
			continue
		}
		rows = append(rows, row)
	}
	slices.SortFunc(rows, func(a, b converter.TransactionRow) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(b.ID.String(), a.ID.String())
	})
	if page.Limit > 0 && len(rows) > page.Limit {
		rows = rows[:page.Limit]
	}

	out := make([]wallet.Transaction, 0, len(rows))
	for _, row := range rows {
		out = append(out, converter.TransactionFromRow(row))
	}
	return out, nil
}

// keysetBefore reports (created_at, id) < (after.CreatedAt, after.ID).
func keysetBefore(row converter.TransactionRow, after shared.Keyset) bool {
	if c := row.CreatedAt.Compare(after.CreatedAt); c != 0 {
		return c < 0
	}
	return row.ID.String() < after.ID.String()
}

type userRepo struct{ t *memTx }

func (r userRepo) FindByID(_ context.Context, id uuid.UUID) (*user.User, error) {
	row, ok := r.t.st.users[id]
	if !ok {
		return nil, r.t.notFound("failed to get user")
	}
	return converter.UserFromRow(row)
}

func (r userRepo) Create(_ context.Context, u *user.User) error {
	if err := r.t.guard(); err != nil {
		return err
	}
	row, err := converter.UserToRow(u)
	if err != nil {
		return err
	}
	for _, other := range r.t.st.users {
		if other.ID == row.ID || other.Email == row.Email {
			return r.t.duplicate("failed to create user")
		}
	}
	r.t.st.users[row.ID] = row
	return nil
}

func (r userRepo) Update(_ context.Context, u *user.User) error {
	if err := r.t.guard(); err != nil {
		return err
	}
	row, err := converter.UserToRow(u)
	if err != nil {
		return err
	}
	cur, ok := r.t.st.users[row.ID]
	if !ok || cur.Version != row.Version {
		return r.t.stale("failed to update user")
	}
	row.Version++
	r.t.st.users[row.ID] = row
	return nil
}

type couponRepo struct{ t *memTx }

func (r couponRepo) FindByCode(_ context.Context, code coupon.Code) (*coupon.Coupon, error) {
	row, ok := r.t.st.coupons[code.String()]
	if !ok {
		return nil, r.t.notFound("failed to get coupon")
	}
	return converter.CouponFromRow(row)
}

func (r couponRepo) Create(_ context.Context, c *coupon.Coupon) error {
	if err := r.t.guard(); err != nil {
		return err
	}
	row := converter.CouponToRow(c)
	if _, ok := r.t.st.coupons[row.Code]; ok {
		return r.t.duplicate("failed to create coupon")
	}
	r.t.st.coupons[row.Code] = row
	return nil
}

type paymentRepo struct{ t *memTx }

func (r paymentRepo) Record(_ context.Context, c shared.Charge) error {
	if err := r.t.guard(); err != nil {
		return err
	}
	if _, ok := r.t.st.charges[c.ChargeID]; ok {
		return r.t.duplicate("payment already recorded")
	}
	r.t.st.charges[c.ChargeID] = c
	return nil
}
