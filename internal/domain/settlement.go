package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type SettlementStatus string

const (
	SettlementPrepared   SettlementStatus = "PREPARED"
	SettlementPending    SettlementStatus = "PENDING"
	SettlementSettled    SettlementStatus = "SETTLED"
	SettlementNotSettled SettlementStatus = "NOT_SETTLED"
)

// PartStatus is one side's view reported in a settlement confirmation.
type PartStatus string

const (
	PartUnreported  PartStatus = ""
	PartSettled     PartStatus = "SETTLED"
	PartNotSettled  PartStatus = "NOT_SETTLED"
	PartPendingSide PartStatus = "PENDING"
)

// Settlement is the monetary-claim record for one order, unique per
// (participant_id, order_id).
type Settlement struct {
	SettlementID        string
	ParticipantID       string
	OrderID             string
	CollectorID         string
	ReceiverID          string
	TotalOrderValue     decimal.Decimal
	Commission          decimal.Decimal
	Tcs                 decimal.Decimal
	Tds                 decimal.Decimal
	WithholdingAmount   decimal.Decimal
	InterNpSettlement   decimal.Decimal
	CollectorSettlement decimal.Decimal
	Status              SettlementStatus
	SelfStatus          PartStatus
	ProviderStatus      PartStatus
	SelfReference       string
	ProviderReference   string
	TransactionID       string
	MessageID           string
	Error               string
	Recon               ReconciliationInfo
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// ReconAmounts snapshots the figures this side asserts in a recon.
func (s *Settlement) ReconAmounts() ReconAmounts {
	return ReconAmounts{
		TotalOrderValue:   s.TotalOrderValue,
		Commission:        s.Commission,
		Tcs:               s.Tcs,
		Tds:               s.Tds,
		WithholdingAmount: s.WithholdingAmount,
		InterNpSettlement: s.InterNpSettlement,
	}
}

type SettlementFilter struct {
	ParticipantID string
	OrderID       string
	Status        string
	ReconStatus   string
	Page          int64
	Limit         int64
}

// ReconUpdate is one row of a batch recon commit. Expected carries the
// pre-transition status; the commit must refuse the row when the
// stored status differs.
type ReconUpdate struct {
	SettlementID string
	Expected     ReconStatus
	Recon        ReconciliationInfo
}

// ConfirmationUpdate applies one order's part of an on_settle
// confirmation. Expected carries the pre-transition status; the commit
// must refuse the row when the stored status differs.
type ConfirmationUpdate struct {
	SettlementID      string
	Expected          SettlementStatus
	Status            SettlementStatus
	SelfStatus        PartStatus
	ProviderStatus    PartStatus
	SelfReference     string
	ProviderReference string
}

type SettlementRepository interface {
	// CreateSettlements persists the whole set atomically; a compound
	// key collision surfaces as ErrDuplicateSettlement and nothing is
	// written.
	CreateSettlements(ctx context.Context, settlements []*Settlement) error
	GetByID(ctx context.Context, settlementID string) (*Settlement, error)
	GetByOrderID(ctx context.Context, participantID, orderID string) (*Settlement, error)
	GetByTransactionID(ctx context.Context, participantID, transactionID string) ([]*Settlement, error)
	GetByReconTransactionID(ctx context.Context, participantID, transactionID string) ([]*Settlement, error)
	List(ctx context.Context, filter SettlementFilter) ([]*Settlement, int64, error)
	// UpdateStatus commits only if the stored status equals from;
	// losing a race returns ErrConflict.
	UpdateStatus(ctx context.Context, settlementID string, from, to SettlementStatus, transactionID, messageID string) error
	SetError(ctx context.Context, settlementID, message string) error
	ApplyConfirmations(ctx context.Context, updates []ConfirmationUpdate) error
	// UpdateReconBatch applies every row in one transaction guarded by
	// the expected pre-transition recon status. All rows commit or
	// none do.
	UpdateReconBatch(ctx context.Context, updates []ReconUpdate) error
}
