package recondto

import "github.com/ondc-labs/rsf-settlement-service/internal/domain"

type InitiateInput struct {
	ParticipantID string
	SettlementIDs []string
}

// AmountSet carries unparsed wire amounts; the batch validator owns
// parsing so a bad figure rejects the whole batch before any write.
type AmountSet struct {
	TotalOrderValue   string
	Commission        string
	Tcs               string
	Tds               string
	WithholdingAmount string
	InterNpSettlement string
}

type ReconOrderEntry struct {
	OrderID string
	Amounts AmountSet
}

type InboundReconInput struct {
	ParticipantID string
	Context       domain.ProtocolContext
	Orders        []ReconOrderEntry
}

type OnReconOrderEntry struct {
	OrderID        string
	Accord         bool
	CounterAmounts *AmountSet
}

type InboundOnReconInput struct {
	ParticipantID string
	Context       domain.ProtocolContext
	Orders        []OnReconOrderEntry
}

// RespondInput is our side's decision on a RECEIVED_PENDING batch.
// CounterAmounts is keyed by order id and consulted only on rejection.
type RespondInput struct {
	ParticipantID  string
	TransactionID  string
	Accord         bool
	CounterAmounts map[string]AmountSet
}

type DeactivateInput struct {
	ParticipantID string
	OrderIDs      []string
	Reason        string
}
