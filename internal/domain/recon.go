package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type ReconStatus string

const (
	ReconAbsent           ReconStatus = ""
	ReconSentPending      ReconStatus = "SENT_PENDING"
	ReconSentAccepted     ReconStatus = "SENT_ACCEPTED"
	ReconSentRejected     ReconStatus = "SENT_REJECTED"
	ReconReceivedPending  ReconStatus = "RECEIVED_PENDING"
	ReconReceivedAccepted ReconStatus = "RECEIVED_ACCEPTED"
	ReconReceivedRejected ReconStatus = "RECEIVED_REJECTED"
	ReconInactive         ReconStatus = "INACTIVE"
)

// ReconAmounts is one side's asserted settlement figures for an order.
type ReconAmounts struct {
	TotalOrderValue   decimal.Decimal
	Commission        decimal.Decimal
	Tcs               decimal.Decimal
	Tds               decimal.Decimal
	WithholdingAmount decimal.Decimal
	InterNpSettlement decimal.Decimal
}

// ReconciliationInfo is the negotiation state embedded in a
// Settlement. It is only ever mutated through the transition methods
// below; every order in one batch shares TransactionID and MessageID.
type ReconciliationInfo struct {
	Status          ReconStatus
	ReconData       *ReconAmounts
	OnReconData     *ReconAmounts
	TransactionID   string
	MessageID       string
	CounterpartyID  string
	CounterpartyURI string
	InitiatedAt     time.Time
	RespondedAt     time.Time
}

// CanInitiate reports whether a new outbound recon may start.
// Agreed or in-flight reconciliations block a fresh request.
func (r *ReconciliationInfo) CanInitiate() bool {
	switch r.Status {
	case ReconSentPending, ReconSentAccepted, ReconReceivedPending, ReconReceivedAccepted:
		return false
	}
	return true
}

// CanReceive is the symmetric gate for an inbound recon request.
func (r *ReconciliationInfo) CanReceive() bool {
	return r.CanInitiate()
}

func (r *ReconciliationInfo) MarkSentPending(transactionID, messageID, counterpartyID, counterpartyURI string, data ReconAmounts, at time.Time) error {
	if !r.CanInitiate() {
		return NewPreconditionError(CodeInvalidReconState, "recon already %s", r.Status)
	}
	r.Status = ReconSentPending
	r.ReconData = &data
	r.OnReconData = nil
	r.TransactionID = transactionID
	r.MessageID = messageID
	r.CounterpartyID = counterpartyID
	r.CounterpartyURI = counterpartyURI
	r.InitiatedAt = at
	r.RespondedAt = time.Time{}
	return nil
}

// ApplySentOutcome settles an outbound recon with the counterparty's
// accord. Counter-figures are stored only on rejection.
func (r *ReconciliationInfo) ApplySentOutcome(accord bool, counterData *ReconAmounts, at time.Time) error {
	if r.Status != ReconSentPending {
		return NewPreconditionError(CodeInvalidReconState, "recon is %s, expected %s", r.Status, ReconSentPending)
	}
	if accord {
		r.Status = ReconSentAccepted
		r.OnReconData = nil
	} else {
		r.Status = ReconSentRejected
		r.OnReconData = counterData
	}
	r.RespondedAt = at
	return nil
}

func (r *ReconciliationInfo) MarkReceivedPending(transactionID, messageID, counterpartyID, counterpartyURI string, data ReconAmounts, at time.Time) error {
	if !r.CanReceive() {
		return NewPreconditionError(CodeInvalidReconState, "recon already %s", r.Status)
	}
	r.Status = ReconReceivedPending
	r.ReconData = &data
	r.OnReconData = nil
	r.TransactionID = transactionID
	r.MessageID = messageID
	r.CounterpartyID = counterpartyID
	r.CounterpartyURI = counterpartyURI
	r.InitiatedAt = at
	r.RespondedAt = time.Time{}
	return nil
}

// ApplyReceivedDecision records our accept/reject of an inbound recon.
func (r *ReconciliationInfo) ApplyReceivedDecision(accord bool, counterData *ReconAmounts, at time.Time) error {
	if r.Status != ReconReceivedPending {
		return NewPreconditionError(CodeInvalidReconState, "recon is %s, expected %s", r.Status, ReconReceivedPending)
	}
	if accord {
		r.Status = ReconReceivedAccepted
		r.OnReconData = nil
	} else {
		r.Status = ReconReceivedRejected
		r.OnReconData = counterData
	}
	r.RespondedAt = at
	return nil
}

// Deactivate is the administrative override after a counterparty
// reports an unrecoverable batch error. Legal from any state.
func (r *ReconciliationInfo) Deactivate(at time.Time) {
	r.Status = ReconInactive
	r.RespondedAt = at
}
