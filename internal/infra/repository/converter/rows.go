package converter

import (
	"encoding/json"
	"time"

	"campus-market/internal/domain/coupon"
	"campus-market/internal/domain/errand"
	"campus-market/internal/domain/match"
	"campus-market/internal/domain/money"
	"campus-market/internal/domain/refund"
	"campus-market/internal/domain/resource"
	"campus-market/internal/domain/user"
	"campus-market/internal/domain/wallet"
	"campus-market/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Rows mirror the table columns one to one. Both the pgx repositories and
// the in-memory store persist aggregates through them.

type ResourceRow struct {
	ID              uuid.UUID
	Type            string
	Price           money.Money
	OwnerID         uuid.UUID
	Status          string
	Specifications  []byte
	MatchID         *uuid.UUID
	ErrandID        *uuid.UUID
	RefundRequestID *uuid.UUID
	Version         int
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func ResourceToRow(r *resource.Resource) (ResourceRow, error) {
	specs, err := resource.MarshalSpecifications(r.Specs())
	if err != nil {
		return ResourceRow{}, errs.Wrap(err, "encode specifications")
	}
	return ResourceRow{
		ID:              r.ID(),
		Type:            string(r.Type()),
		Price:           r.Price(),
		OwnerID:         r.OwnerID(),
		Status:          string(r.Status()),
		Specifications:  specs,
		MatchID:         r.MatchID(),
		ErrandID:        r.ErrandID(),
		RefundRequestID: r.RefundRequestID(),
		Version:         r.Version(),
		CreatedAt:       r.CreatedAt(),
		UpdatedAt:       r.UpdatedAt(),
	}, nil
}

func ResourceFromRow(row ResourceRow) (*resource.Resource, error) {
	typ := resource.Type(row.Type)
	specs, err := resource.UnmarshalSpecifications(typ, row.Specifications)
	if err != nil {
		return nil, errs.Wrap(err, "decode specifications")
	}
	return resource.ReconstructResource(
		row.ID, typ, row.Price, row.OwnerID, resource.Status(row.Status), specs,
		row.MatchID, row.ErrandID, row.RefundRequestID,
		row.Version, row.CreatedAt, row.UpdatedAt,
	), nil
}

type MatchRow struct {
	ID                      uuid.UUID
	Resource1ID             uuid.UUID
	Resource2ID             uuid.UUID
	RequesterID             uuid.UUID
	OwnerID                 uuid.UUID
	Score                   float64
	RequesterSuggestedPrice *money.Money
	OwnerSuggestedPrice     *money.Money
	RequesterOriginalPrice  money.Money
	OwnerOriginalPrice      money.Money
	FirstAcceptanceTime     *time.Time
	RequesterAccepted       bool
	OwnerAccepted           bool
	Resource1Payment        money.Money
	Resource2Receipt        money.Money
	AgreedPrice             money.Money
	DeliveryFee             money.Money
	TotalAmount             money.Money
	FinalAmount             money.Money
	Coupon                  []byte
	Status                  string
	CancellationReason      string
	CancelledBy             *uuid.UUID
	TimeoutPenaltyAppliedTo *uuid.UUID
	ServiceRequestID        *uuid.UUID
	RefundRequestID         *uuid.UUID
	AcceptedAt              *time.Time
	PaidAt                  *time.Time
	CompletedAt             *time.Time
	CancelledAt             *time.Time
	Version                 int
	CreatedAt               time.Time
	UpdatedAt               time.Time
}

func MatchToRow(m *match.Match) (MatchRow, error) {
	applied, err := encodeApplied(m.Coupon())
	if err != nil {
		return MatchRow{}, err
	}
	p, n, s, c, l, ts := m.Prices(), m.Negotiation(), m.Settlement(), m.Closure(), m.Links(), m.Timestamps()
	return MatchRow{
		ID:                      m.ID(),
		Resource1ID:             m.Resource1ID(),
		Resource2ID:             m.Resource2ID(),
		RequesterID:             m.RequesterID(),
		OwnerID:                 m.OwnerID(),
		Score:                   m.Score(),
		RequesterSuggestedPrice: p.RequesterSuggested,
		OwnerSuggestedPrice:     p.OwnerSuggested,
		RequesterOriginalPrice:  p.RequesterOriginal,
		OwnerOriginalPrice:      p.OwnerOriginal,
		FirstAcceptanceTime:     n.FirstAcceptanceTime,
		RequesterAccepted:       n.RequesterAccepted,
		OwnerAccepted:           n.OwnerAccepted,
		Resource1Payment:        s.Resource1Payment,
		Resource2Receipt:        s.Resource2Receipt,
		AgreedPrice:             s.AgreedPrice,
		DeliveryFee:             s.DeliveryFee,
		TotalAmount:             s.TotalAmount,
		FinalAmount:             s.FinalAmount,
		Coupon:                  applied,
		Status:                  string(m.Status()),
		CancellationReason:      c.Reason,
		CancelledBy:             c.CancelledBy,
		TimeoutPenaltyAppliedTo: c.TimeoutPenaltyAppliedTo,
		ServiceRequestID:        l.ServiceRequestID,
		RefundRequestID:         l.RefundRequestID,
		AcceptedAt:              ts.AcceptedAt,
		PaidAt:                  ts.PaidAt,
		CompletedAt:             ts.CompletedAt,
		CancelledAt:             ts.CancelledAt,
		Version:                 m.Version(),
		CreatedAt:               ts.CreatedAt,
		UpdatedAt:               ts.UpdatedAt,
	}, nil
}

func MatchFromRow(row MatchRow) (*match.Match, error) {
	applied, err := decodeApplied(row.Coupon)
	if err != nil {
		return nil, err
	}
	return match.ReconstructMatch(
		row.ID,
		match.Parties{
			Resource1ID: row.Resource1ID,
			Resource2ID: row.Resource2ID,
			RequesterID: row.RequesterID,
			OwnerID:     row.OwnerID,
		},
		row.Score,
		match.Prices{
			RequesterSuggested: row.RequesterSuggestedPrice,
			OwnerSuggested:     row.OwnerSuggestedPrice,
			RequesterOriginal:  row.RequesterOriginalPrice,
			OwnerOriginal:      row.OwnerOriginalPrice,
		},
		match.Negotiation{
			FirstAcceptanceTime: row.FirstAcceptanceTime,
			RequesterAccepted:   row.RequesterAccepted,
			OwnerAccepted:       row.OwnerAccepted,
		},
		match.Settlement{
			Resource1Payment: row.Resource1Payment,
			Resource2Receipt: row.Resource2Receipt,
			AgreedPrice:      row.AgreedPrice,
			DeliveryFee:      row.DeliveryFee,
			TotalAmount:      row.TotalAmount,
			FinalAmount:      row.FinalAmount,
			Coupon:           applied,
		},
		match.Status(row.Status),
		match.Closure{
			Reason:                  row.CancellationReason,
			CancelledBy:             row.CancelledBy,
			TimeoutPenaltyAppliedTo: row.TimeoutPenaltyAppliedTo,
		},
		match.Links{ServiceRequestID: row.ServiceRequestID, RefundRequestID: row.RefundRequestID},
		match.Timestamps{
			AcceptedAt:  row.AcceptedAt,
			PaidAt:      row.PaidAt,
			CompletedAt: row.CompletedAt,
			CancelledAt: row.CancelledAt,
			CreatedAt:   row.CreatedAt,
			UpdatedAt:   row.UpdatedAt,
		},
		row.Version,
	), nil
}

type ErrandRow struct {
	ID              uuid.UUID
	ResourceID      uuid.UUID
	MatchID         *uuid.UUID
	RequesterID     uuid.UUID
	RunnerID        *uuid.UUID
	Status          string
	BaseFee         money.Money
	DoorDeliveryFee money.Money
	Tips            money.Money
	DeliveryFee     money.Money
	TotalAmount     money.Money
	FinalAmount     money.Money
	Coupon          []byte
	PickupAddress   []byte
	DropoffAddress  []byte
	StartTime       time.Time
	ArrivalTime     *time.Time
	DoorDelivery    bool
	PickupProofURL  *string
	DropoffProofURL *string
	Earnings        money.Money
	RefundRequestID *uuid.UUID
	AssignedAt      *time.Time
	PickedUpAt      *time.Time
	DroppedOffAt    *time.Time
	CompletedAt     *time.Time
	Version         int
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func ErrandToRow(e *errand.Errand) (ErrandRow, error) {
	applied, err := encodeApplied(e.Coupon())
	if err != nil {
		return ErrandRow{}, err
	}
	route := e.Route()
	pickup, err := json.Marshal(route.Pickup)
	if err != nil {
		return ErrandRow{}, errs.Wrap(err, "encode pickup address")
	}
	dropoff, err := json.Marshal(route.Dropoff)
	if err != nil {
		return ErrandRow{}, errs.Wrap(err, "encode dropoff address")
	}
	a, proofs, ts := e.Amounts(), e.Proofs(), e.Timestamps()
	return ErrandRow{
		ID:              e.ID(),
		ResourceID:      e.ResourceID(),
		MatchID:         e.MatchID(),
		RequesterID:     e.RequesterID(),
		RunnerID:        e.RunnerID(),
		Status:          string(e.Status()),
		BaseFee:         a.BaseFee,
		DoorDeliveryFee: a.DoorDeliveryFee,
		Tips:            a.Tips,
		DeliveryFee:     a.DeliveryFee,
		TotalAmount:     a.TotalAmount,
		FinalAmount:     a.FinalAmount,
		Coupon:          applied,
		PickupAddress:   pickup,
		DropoffAddress:  dropoff,
		StartTime:       route.StartTime,
		ArrivalTime:     route.ArrivalTime,
		DoorDelivery:    route.DoorDelivery,
		PickupProofURL:  proofString(proofs.Pickup),
		DropoffProofURL: proofString(proofs.Dropoff),
		Earnings:        e.Earnings(),
		RefundRequestID: e.RefundRequestID(),
		AssignedAt:      ts.AssignedAt,
		PickedUpAt:      ts.PickedUpAt,
		DroppedOffAt:    ts.DroppedOffAt,
		CompletedAt:     ts.CompletedAt,
		Version:         e.Version(),
		CreatedAt:       ts.CreatedAt,
		UpdatedAt:       ts.UpdatedAt,
	}, nil
}

func ErrandFromRow(row ErrandRow) (*errand.Errand, error) {
	applied, err := decodeApplied(row.Coupon)
	if err != nil {
		return nil, err
	}
	var pickup, dropoff resource.Address
	if err := json.Unmarshal(row.PickupAddress, &pickup); err != nil {
		return nil, errs.Wrap(err, "decode pickup address")
	}
	if err := json.Unmarshal(row.DropoffAddress, &dropoff); err != nil {
		return nil, errs.Wrap(err, "decode dropoff address")
	}
	return errand.ReconstructErrand(
		row.ID, row.ResourceID, row.MatchID, row.RequesterID, row.RunnerID,
		errand.Status(row.Status),
		errand.Amounts{
			BaseFee:         row.BaseFee,
			DoorDeliveryFee: row.DoorDeliveryFee,
			Tips:            row.Tips,
			DeliveryFee:     row.DeliveryFee,
			TotalAmount:     row.TotalAmount,
			FinalAmount:     row.FinalAmount,
		},
		applied,
		errand.Route{
			Pickup:       pickup,
			Dropoff:      dropoff,
			StartTime:    row.StartTime,
			ArrivalTime:  row.ArrivalTime,
			DoorDelivery: row.DoorDelivery,
		},
		errand.Proofs{Pickup: proofRef(row.PickupProofURL), Dropoff: proofRef(row.DropoffProofURL)},
		row.Earnings,
		row.RefundRequestID,
		row.Version,
		errand.Timestamps{
			AssignedAt:   row.AssignedAt,
			PickedUpAt:   row.PickedUpAt,
			DroppedOffAt: row.DroppedOffAt,
			CompletedAt:  row.CompletedAt,
			CreatedAt:    row.CreatedAt,
			UpdatedAt:    row.UpdatedAt,
		},
	), nil
}

type RefundRow struct {
	ID          uuid.UUID
	RequesterID uuid.UUID
	TargetKind  string
	TargetID    uuid.UUID
	Amount      money.Money
	Reason      string
	Status      string
	ProcessorID *uuid.UUID
	ApprovedAt  *time.Time
	RejectedAt  *time.Time
	ProcessedAt *time.Time
	DisputedAt  *time.Time
	Version     int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func RefundToRow(r *refund.Request) RefundRow {
	t, ts := r.Target(), r.Timestamps()
	return RefundRow{
		ID:          r.ID(),
		RequesterID: r.RequesterID(),
		TargetKind:  string(t.Kind),
		TargetID:    t.ID,
		Amount:      r.Amount(),
		Reason:      r.Reason(),
		Status:      string(r.Status()),
		ProcessorID: r.ProcessorID(),
		ApprovedAt:  ts.ApprovedAt,
		RejectedAt:  ts.RejectedAt,
		ProcessedAt: ts.ProcessedAt,
		DisputedAt:  ts.DisputedAt,
		Version:     r.Version(),
		CreatedAt:   ts.CreatedAt,
		UpdatedAt:   ts.UpdatedAt,
	}
}

func RefundFromRow(row RefundRow) *refund.Request {
	return refund.ReconstructRequest(
		row.ID, row.RequesterID,
		refund.Target{Kind: refund.TargetKind(row.TargetKind), ID: row.TargetID},
		row.Amount, row.Reason, refund.Status(row.Status), row.ProcessorID, row.Version,
		refund.Timestamps{
			ApprovedAt:  row.ApprovedAt,
			RejectedAt:  row.RejectedAt,
			ProcessedAt: row.ProcessedAt,
			DisputedAt:  row.DisputedAt,
			CreatedAt:   row.CreatedAt,
			UpdatedAt:   row.UpdatedAt,
		},
	)
}

type WalletRow struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Balance   money.Money
	Version   int
	CreatedAt time.Time
	UpdatedAt time.Time
}

func WalletToRow(w *wallet.Wallet) WalletRow {
	return WalletRow{
		ID:        w.ID(),
		UserID:    w.UserID(),
		Balance:   w.Balance(),
		Version:   w.Version(),
		CreatedAt: w.CreatedAt(),
		UpdatedAt: w.UpdatedAt(),
	}
}

func WalletFromRow(row WalletRow) *wallet.Wallet {
	return wallet.ReconstructWallet(row.ID, row.UserID, row.Balance, row.Version, row.CreatedAt, row.UpdatedAt)
}

type UserRow struct {
	ID               uuid.UUID
	Email            string
	Role             string
	CreditScore      int
	ReputationPoints int64
	PotentialMatches []byte
	Version          int
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

type potentialMatchJSON struct {
	ResourceID      uuid.UUID `json:"resource_id"`
	OfferResourceID uuid.UUID `json:"offer_resource_id"`
	Score           float64   `json:"score"`
}

func UserToRow(u *user.User) (UserRow, error) {
	pms := make([]potentialMatchJSON, 0, len(u.PotentialMatches()))
	for _, pm := range u.PotentialMatches() {
		pms = append(pms, potentialMatchJSON(pm))
	}
	raw, err := json.Marshal(pms)
	if err != nil {
		return UserRow{}, errs.Wrap(err, "encode potential matches")
	}
	return UserRow{
		ID:               u.ID(),
		Email:            u.Email().Value(),
		Role:             u.Role().String(),
		CreditScore:      u.CreditScore(),
		ReputationPoints: u.ReputationPoints(),
		PotentialMatches: raw,
		Version:          u.Version(),
		CreatedAt:        u.CreatedAt(),
		UpdatedAt:        u.UpdatedAt(),
	}, nil
}

func UserFromRow(row UserRow) (*user.User, error) {
	var pms []potentialMatchJSON
	if len(row.PotentialMatches) > 0 {
		if err := json.Unmarshal(row.PotentialMatches, &pms); err != nil {
			return nil, errs.Wrap(err, "decode potential matches")
		}
	}
	cache := make([]user.PotentialMatch, 0, len(pms))
	for _, pm := range pms {
		cache = append(cache, user.PotentialMatch(pm))
	}
	email, err := user.NewEmail(row.Email)
	if err != nil {
		return nil, err
	}
	return user.ReconstructUser(
		row.ID, email, user.Role(row.Role), row.CreditScore, row.ReputationPoints,
		cache, row.Version, row.CreatedAt, row.UpdatedAt,
	), nil
}

type CouponRow struct {
	ID         uuid.UUID
	Code       string
	AmountOff  *money.Money
	PercentOff *decimal.Decimal
	ValidFrom  *time.Time
	ValidTo    *time.Time
	CreatedAt  time.Time
}

func CouponToRow(c *coupon.Coupon) CouponRow {
	row := CouponRow{
		ID:        c.ID(),
		Code:      c.Code().String(),
		ValidFrom: c.ValidFrom(),
		ValidTo:   c.ValidTo(),
		CreatedAt: c.CreatedAt(),
	}
	d := c.Discount()
	if d.IsFixed() {
		amount := d.AmountOff()
		row.AmountOff = &amount
	}
	if d.IsPercentage() {
		pct := d.PercentOff()
		row.PercentOff = &pct
	}
	return row
}

func CouponFromRow(row CouponRow) (*coupon.Coupon, error) {
	discount, err := coupon.NewDiscount(row.AmountOff, row.PercentOff)
	if err != nil {
		return nil, err
	}
	return coupon.ReconstructCoupon(row.ID, coupon.Code(row.Code), discount, row.ValidFrom, row.ValidTo, row.CreatedAt), nil
}

func encodeApplied(a *coupon.Applied) ([]byte, error) {
	if a == nil {
		return nil, nil
	}
	raw, err := json.Marshal(a)
	if err != nil {
		return nil, errs.Wrap(err, "encode applied coupon")
	}
	return raw, nil
}

func decodeApplied(raw []byte) (*coupon.Applied, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	var a coupon.Applied
	if err := json.Unmarshal(raw, &a); err != nil {
		return nil, errs.Wrap(err, "decode applied coupon")
	}
	return &a, nil
}

func proofString(p *errand.ProofRef) *string {
	if p == nil {
		return nil
	}
	s := p.String()
	return &s
}

func proofRef(s *string) *errand.ProofRef {
	if s == nil {
		return nil
	}
	p := errand.ProofRef(*s)
	return &p
}

type TransactionRow struct {
	ID            uuid.UUID
	WalletID      uuid.UUID
	Type          string
	Amount        money.Money
	Description   string
	ReferenceKind string
	ReferenceID   uuid.UUID
	Status        string
	ReversesID    *uuid.UUID
	CreatedAt     time.Time
}

func TransactionToRow(t wallet.Transaction) TransactionRow {
	return TransactionRow{
		ID:            t.ID,
		WalletID:      t.WalletID,
		Type:          string(t.Type),
		Amount:        t.Amount,
		Description:   t.Description,
		ReferenceKind: string(t.Reference.Kind),
		ReferenceID:   t.Reference.ID,
		Status:        string(t.Status),
		ReversesID:    t.ReversesID,
		CreatedAt:     t.CreatedAt,
	}
}

func TransactionFromRow(row TransactionRow) wallet.Transaction {
	return wallet.Transaction{
		ID:          row.ID,
		WalletID:    row.WalletID,
		Type:        wallet.TransactionType(row.Type),
		Amount:      row.Amount,
		Description: row.Description,
		Reference:   wallet.Reference{Kind: wallet.ReferenceKind(row.ReferenceKind), ID: row.ReferenceID},
		Status:      wallet.TransactionStatus(row.Status),
		ReversesID:  row.ReversesID,
		CreatedAt:   row.CreatedAt,
	}
}
