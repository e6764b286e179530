//go:build e2e

package market_test

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"campus-market/internal/domain/match"
	"campus-market/internal/domain/money"
	"campus-market/internal/domain/resource"
	"campus-market/internal/domain/user"
	"campus-market/internal/handler/dto/response"
	"campus-market/internal/handler/middleware"
	"campus-market/internal/infra/repository"
	"campus-market/internal/pkg/ptr"
	"campus-market/tests/common/builder"
	"campus-market/tests/common/dbtest"
	"campus-market/tests/common/httptest"
	"campus-market/tests/e2e"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const (
	matchURL     = "/api/matches/%s"
	claimURL     = "/api/resources/%s/claim"
	errandURL    = "/api/errands/%s"
	refundsURL   = "/api/refunds"
	refundURL    = "/api/refunds/%s"
	walletURL    = "/api/wallet"
	callbackURL  = "/api/payments/callback"
	proofURLBase = "https://cdn.campus.example.com/proofs/"
)

type MarketSuite struct {
	e2e.SharedSuite
}

func TestMarketSuite(t *testing.T) {
	t.Parallel()
	suite.Run(t, new(MarketSuite))
}

type parties struct {
	requester *user.User
	owner     *user.User
	runner    *user.User
	offer     *resource.Resource
	matchID   uuid.UUID
}

// seedPendingMatch inserts two trade listings, a runner with an active offer
// and a pending match between the listing owners.
func (s *MarketSuite) seedPendingMatch(t *testing.T) parties {
	t.Helper()
	requester := builder.NewUserBuilder().MustBuild()
	owner := builder.NewUserBuilder().MustBuild()
	runner := builder.NewUserBuilder().AsRunner().MustBuild()
	dbtest.InsertUsers(t, s.DB, requester, owner, runner)

	wanted := builder.NewResourceBuilder().AsTrade(resource.TypeBuy).WithOwner(requester.ID()).WithPrice(money.FromInt(30)).BuildDomain()
	listed := builder.NewResourceBuilder().AsTrade(resource.TypeSell).WithOwner(owner.ID()).WithPrice(money.FromInt(25)).BuildDomain()
	offer := builder.NewResourceBuilder().AsOffer().WithOwner(runner.ID()).WithPrice(money.FromInt(5)).BuildDomain()
	dbtest.InsertResources(t, s.DB, wanted, listed, offer)

	m := builder.NewMatchBuilder().
		WithParties(requester.ID(), owner.ID()).
		WithResources(wanted.ID(), listed.ID()).
		With(func(b *builder.MatchBuilder) { b.CreatedAt = time.Now().UTC().Truncate(time.Second) }).
		BuildDomain()
	dbtest.InsertMatch(t, s.DB, m)

	return parties{requester: requester, owner: owner, runner: runner, offer: offer, matchID: m.ID()}
}

func (s *MarketSuite) token(t *testing.T, u *user.User) string {
	return s.JWT.GenerateToken(t, u.ID(), u.Role())
}

func confirmOrderBody(deliveryTime time.Time) map[string]any {
	return map[string]any{
		"pickupAddress":  map[string]string{"building": "Library", "district": "north"},
		"dropoffAddress": map[string]string{"building": "Dorm B", "district": "south", "detail": "room 214"},
		"deliveryTime":   deliveryTime.Format(time.RFC3339),
		"doorDelivery":   true,
		"tips":           "1.50",
	}
}

func (s *MarketSuite) TestMatchToErrandFlow() {
	s.Run("Normal case: accepted match is delivered and both parties get paid", func() {
		t := s.T()
		p := s.seedPendingMatch(t)
		requesterToken := s.token(t, p.requester)
		ownerToken := s.token(t, p.owner)
		runnerToken := s.token(t, p.runner)

		// negotiation
		w := httptest.PerformRequest(t, s.Router, http.MethodPost, fmt.Sprintf(matchURL, p.matchID)+"/accept", nil, requesterToken)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		var first response.AcceptResponse
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &first))
		assert.Equal(t, string(match.OutcomeFirstAcceptance), first.Outcome)
		require.NotNil(t, first.Match.AcceptanceDeadline)

		w = httptest.PerformRequest(t, s.Router, http.MethodPost, fmt.Sprintf(matchURL, p.matchID)+"/accept", nil, ownerToken)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		var second response.AcceptResponse
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &second))
		assert.Equal(t, string(match.OutcomeAccepted), second.Outcome)
		assert.Equal(t, string(match.StatusAccepted), second.Match.Status)
		assert.Equal(t, "28.00", second.Match.AgreedPrice.String())

		// only the requester confirms the order
		w = httptest.PerformRequest(t, s.Router, http.MethodPost, fmt.Sprintf(matchURL, p.matchID)+"/confirm-order",
			confirmOrderBody(time.Now().Add(2*time.Hour)), ownerToken)
		require.Equal(t, http.StatusForbidden, w.Code, w.Body.String())

		w = httptest.PerformRequest(t, s.Router, http.MethodPost, fmt.Sprintf(matchURL, p.matchID)+"/confirm-order",
			confirmOrderBody(time.Now().Add(2*time.Hour)), requesterToken)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		var confirmed response.ConfirmOrderResponse
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &confirmed))
		assert.Equal(t, string(match.StatusPaid), confirmed.Match.Status)
		require.NotEqual(t, uuid.Nil, confirmed.ServiceRequestID)
		assert.True(t, confirmed.Match.DeliveryFee.IsPositive())
		finalAmount := confirmed.Match.FinalAmount

		// a late gateway callback for the same match is a no-op, its replay is flagged
		callback := map[string]any{
			"chargeId":   "ch_" + p.matchID.String()[:8],
			"targetType": "match",
			"targetId":   p.matchID.String(),
			"amount":     finalAmount.String(),
		}
		headers := map[string]string{middleware.PaymentSecretHeader: s.Config.Payment.WebhookSecret}
		w = httptest.PerformRequestWithHeaders(t, s.Router, http.MethodPost, callbackURL, callback, headers)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		var paid response.PaymentResponse
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &paid))
		assert.False(t, paid.Changed)
		assert.False(t, paid.Replayed)

		w = httptest.PerformRequestWithHeaders(t, s.Router, http.MethodPost, callbackURL, callback, headers)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		var replay response.PaymentResponse
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &replay))
		assert.True(t, replay.Replayed)

		// the matcher has proposed the spawned request to the runner
		s.cachePotentialMatch(t, p.runner.ID(), confirmed.ServiceRequestID, p.offer.ID())

		w = httptest.PerformRequest(t, s.Router, http.MethodPost, fmt.Sprintf(claimURL, confirmed.ServiceRequestID), nil, runnerToken)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		var claimed response.ErrandResponse
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &claimed))
		require.NotNil(t, claimed.RunnerID)
		assert.Equal(t, p.runner.ID(), *claimed.RunnerID)
		assert.Equal(t, "assigned", claimed.Status)
		assert.Equal(t, p.requester.ID(), claimed.RequesterID)

		w = httptest.PerformRequest(t, s.Router, http.MethodGet, fmt.Sprintf(matchURL, p.matchID), nil, ownerToken)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		var erranding response.MatchResponse
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &erranding))
		assert.Equal(t, string(match.StatusErranding), erranding.Status)

		// the match cannot close before the delivery does
		w = httptest.PerformRequest(t, s.Router, http.MethodPost, fmt.Sprintf(matchURL, p.matchID)+"/complete", nil, requesterToken)
		require.Equal(t, http.StatusConflict, w.Code, w.Body.String())

		for _, step := range []string{"pickup", "dropoff"} {
			body := map[string]string{"proofUrl": proofURLBase + step + ".jpg"}
			w = httptest.PerformRequest(t, s.Router, http.MethodPost, fmt.Sprintf(errandURL, claimed.ID)+"/"+step, body, runnerToken)
			require.Equal(t, http.StatusOK, w.Code, "%s: %s", step, w.Body.String())
		}

		w = httptest.PerformRequest(t, s.Router, http.MethodPost, fmt.Sprintf(errandURL, claimed.ID)+"/complete", nil, runnerToken)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		var delivered response.ErrandResponse
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &delivered))
		assert.Equal(t, "completed", delivered.Status)
		assert.True(t, delivered.Earnings.IsPositive())

		w = httptest.PerformRequest(t, s.Router, http.MethodPost, fmt.Sprintf(matchURL, p.matchID)+"/complete", nil, requesterToken)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		var completed response.MatchResponse
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &completed))
		assert.Equal(t, string(match.StatusCompleted), completed.Status)

		ownerWallet := s.wallet(t, ownerToken)
		assert.Equal(t, finalAmount.String(), ownerWallet.Balance.String())
		require.Len(t, ownerWallet.Transactions, 1)
		assert.Equal(t, "match", ownerWallet.Transactions[0].ReferenceType)
		assert.Equal(t, p.matchID, ownerWallet.Transactions[0].ReferenceID)

		runnerWallet := s.wallet(t, runnerToken)
		assert.Equal(t, delivered.Earnings.String(), runnerWallet.Balance.String())
		require.Len(t, runnerWallet.Transactions, 1)
		assert.Equal(t, claimed.ID, runnerWallet.Transactions[0].ReferenceID)
	})

	s.Run("Error case: claim without a cached proposal is rejected", func() {
		t := s.T()
		p := s.seedPendingMatch(t)
		sr := builder.NewResourceBuilder().WithOwner(p.requester.ID()).BuildDomain()
		dbtest.InsertResources(t, s.DB, sr)

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, fmt.Sprintf(claimURL, sr.ID()), nil, s.token(t, p.runner))
		require.Equal(t, http.StatusForbidden, w.Code, w.Body.String())
	})

	s.Run("Error case: members cannot claim service requests", func() {
		t := s.T()
		p := s.seedPendingMatch(t)

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, fmt.Sprintf(claimURL, uuid.New()), nil, s.token(t, p.owner))
		require.Equal(t, http.StatusForbidden, w.Code, w.Body.String())
	})

	s.Run("Error case: strangers cannot see the match", func() {
		t := s.T()
		p := s.seedPendingMatch(t)
		stranger := builder.NewUserBuilder().MustBuild()
		dbtest.InsertUsers(t, s.DB, stranger)

		w := httptest.PerformRequest(t, s.Router, http.MethodGet, fmt.Sprintf(matchURL, p.matchID), nil, s.token(t, stranger))
		require.Equal(t, http.StatusForbidden, w.Code, w.Body.String())
	})
}

func (s *MarketSuite) TestRefundFlow() {
	s.Run("Normal case: approved refund is credited to the requester", func() {
		t := s.T()
		p := s.seedPendingMatch(t)
		admin := builder.NewUserBuilder().AsAdmin().MustBuild()
		dbtest.InsertUsers(t, s.DB, admin)

		paid := builder.NewMatchBuilder().
			WithParties(p.requester.ID(), p.owner.ID()).
			With(func(b *builder.MatchBuilder) {
				b.Parties.Resource1ID, b.Parties.Resource2ID = s.tradePair(t, p)
			}).
			Settled(match.StatusPaid, money.FromInt(28), money.FromInt(4)).
			BuildDomain()
		dbtest.InsertMatch(t, s.DB, paid)

		requesterToken := s.token(t, p.requester)
		adminToken := s.token(t, admin)

		w := httptest.PerformRequest(t, s.Router, http.MethodGet,
			fmt.Sprintf("%s/quote?targetType=match&targetId=%s", refundsURL, paid.ID()), nil, requesterToken)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		var quote response.RefundQuoteResponse
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &quote))
		assert.Equal(t, "32.00", quote.Amount.String())

		body := map[string]string{"targetType": "match", "targetId": paid.ID().String(), "reason": "  item never arrived  "}
		w = httptest.PerformRequest(t, s.Router, http.MethodPost, refundsURL, body, requesterToken)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		var created response.RefundResponse
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &created))

		expected := &response.RefundResponse{
			RequesterID: p.requester.ID(),
			MatchID:     ptr.Of(paid.ID()),
			Amount:      money.FromInt(32),
			Reason:      "item never arrived",
			Status:      "pending",
		}
		opts := []cmp.Option{
			cmpopts.IgnoreFields(response.RefundResponse{}, "ID", "CreatedAt", "UpdatedAt"),
			cmp.Comparer(func(a, b money.Money) bool { return a.Equal(b) }),
		}
		if diff := cmp.Diff(expected, &created, opts...); diff != "" {
			t.Errorf("refund response mismatch (-want +got):\n%s", diff)
		}

		// a second open request for the same match conflicts
		w = httptest.PerformRequest(t, s.Router, http.MethodPost, refundsURL, body, requesterToken)
		require.Equal(t, http.StatusConflict, w.Code, w.Body.String())

		// review endpoints are admin-only
		w = httptest.PerformRequest(t, s.Router, http.MethodPost, fmt.Sprintf(refundURL, created.ID)+"/approve", nil, requesterToken)
		require.Equal(t, http.StatusForbidden, w.Code, w.Body.String())

		for _, action := range []string{"approve", "process"} {
			w = httptest.PerformRequest(t, s.Router, http.MethodPost, fmt.Sprintf(refundURL, created.ID)+"/"+action, nil, adminToken)
			require.Equal(t, http.StatusOK, w.Code, "%s: %s", action, w.Body.String())
		}

		w = httptest.PerformRequest(t, s.Router, http.MethodGet, fmt.Sprintf(refundURL, created.ID), nil, requesterToken)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		var processed response.RefundResponse
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &processed))
		assert.Equal(t, "processed", processed.Status)
		require.NotNil(t, processed.ProcessorID)
		assert.Equal(t, admin.ID(), *processed.ProcessorID)

		ledger := s.wallet(t, requesterToken)
		assert.Equal(t, "32.00", ledger.Balance.String())
		require.Len(t, ledger.Transactions, 1)
		assert.Equal(t, created.ID, ledger.Transactions[0].ReferenceID)

		// a processed target cannot be refunded again
		w = httptest.PerformRequest(t, s.Router, http.MethodPost, refundsURL, body, requesterToken)
		require.Equal(t, http.StatusConflict, w.Code, w.Body.String())
	})

	s.Run("Error case: unpaid match has nothing to refund", func() {
		t := s.T()
		p := s.seedPendingMatch(t)

		body := map[string]string{"targetType": "match", "targetId": p.matchID.String()}
		w := httptest.PerformRequest(t, s.Router, http.MethodPost, refundsURL, body, s.token(t, p.requester))
		require.Equal(t, http.StatusUnprocessableEntity, w.Code, w.Body.String())
	})
}

func (s *MarketSuite) TestAuthentication() {
	cases := []struct {
		name    string
		token   func(t *testing.T, u *user.User) string
		headers map[string]string
		path    string
		want    int
	}{
		{
			name:  "Error case: missing token",
			token: func(*testing.T, *user.User) string { return "" },
			path:  walletURL,
			want:  http.StatusUnauthorized,
		},
		{
			name:  "Error case: expired token",
			token: func(t *testing.T, u *user.User) string { return s.JWT.CreateExpiredToken(t, u.ID(), u.Role()) },
			path:  walletURL,
			want:  http.StatusUnauthorized,
		},
		{
			name:  "Error case: token signed with another secret",
			token: func(t *testing.T, u *user.User) string { return s.JWT.CreateForeignToken(t, u.ID(), u.Role()) },
			path:  walletURL,
			want:  http.StatusUnauthorized,
		},
		{
			name:  "Normal case: empty wallet reads as zero",
			token: func(t *testing.T, u *user.User) string { return s.JWT.GenerateToken(t, u.ID(), u.Role()) },
			path:  walletURL,
			want:  http.StatusOK,
		},
	}

	for _, tc := range cases {
		s.Run(tc.name, func() {
			t := s.T()
			u := builder.NewUserBuilder().MustBuild()
			dbtest.InsertUsers(t, s.DB, u)

			w := httptest.PerformRequest(t, s.Router, http.MethodGet, tc.path, nil, tc.token(t, u))
			require.Equal(t, tc.want, w.Code, w.Body.String())
		})
	}

	s.Run("Error case: payment callback without the gateway secret", func() {
		t := s.T()
		body := map[string]any{"chargeId": "ch_1", "targetType": "match", "targetId": uuid.New().String(), "amount": "1.00"}

		w := httptest.PerformRequestWithHeaders(t, s.Router, http.MethodPost, callbackURL, body,
			map[string]string{middleware.PaymentSecretHeader: "wrong"})
		require.Equal(t, http.StatusUnauthorized, w.Code, w.Body.String())
	})
}

func (s *MarketSuite) wallet(t *testing.T, token string) response.WalletResponse {
	t.Helper()
	w := httptest.PerformRequest(t, s.Router, http.MethodGet, walletURL, nil, token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var view response.WalletResponse
	require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &view))
	return view
}

func (s *MarketSuite) cachePotentialMatch(t *testing.T, runnerID, resourceID, offerID uuid.UUID) {
	t.Helper()
	ctx := context.Background()
	repo := repository.NewUserRepository(s.DB, slog.Default())
	runner, err := repo.FindByID(ctx, runnerID)
	require.NoError(t, err)
	pm, err := user.NewPotentialMatch(resourceID, offerID, 0.9)
	require.NoError(t, err)
	runner.CachePotentialMatch(pm, time.Now())
	require.NoError(t, repo.Update(ctx, runner))
}

func (s *MarketSuite) tradePair(t *testing.T, p parties) (uuid.UUID, uuid.UUID) {
	t.Helper()
	wanted := builder.NewResourceBuilder().AsTrade(resource.TypeRent).WithOwner(p.requester.ID()).BuildDomain()
	listed := builder.NewResourceBuilder().AsTrade(resource.TypeLease).WithOwner(p.owner.ID()).BuildDomain()
	dbtest.InsertResources(t, s.DB, wanted, listed)
	return wanted.ID(), listed.ID()
}
