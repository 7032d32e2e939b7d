package recon

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/ondc-labs/rsf-settlement-service/internal/domain"
	"github.com/ondc-labs/rsf-settlement-service/internal/protocol"
	recondto "github.com/ondc-labs/rsf-settlement-service/internal/usecase/dto/recon"
)

const protocolVersion = "2.0.0"
const requestTTL = "PT30S"

// Initiate starts an outbound recon for a batch of settlements. The
// SENT_PENDING transitions are committed before the signed call goes
// out, so the counterparty's on_recon always finds its trigger
// recorded. A transport failure is surfaced to the caller; the batch
// stays SENT_PENDING and resending is a manual action.
func (uc *DefaultReconUsecase) Initiate(ctx context.Context, input *recondto.InitiateInput) (*recondto.InitiateOutput, error) {
	if len(input.SettlementIDs) == 0 {
		return nil, domain.NewValidationError(domain.CodeInvalidPayload, "no settlement ids given")
	}

	profile, err := uc.participantRepo.GetProfile(ctx, input.ParticipantID)
	if err != nil {
		return nil, domain.NewValidationError(domain.CodeLookupFailure, "participant %s: %v", input.ParticipantID, err)
	}

	transactionID := uuid.NewString()
	messageID := uuid.NewString()
	now := time.Now()

	var (
		collectorID string
		receiverID  string
		transitions []batchTransition
	)
	for _, id := range input.SettlementIDs {
		s, err := uc.settlementRepo.GetByID(ctx, id)
		if err != nil {
			return nil, domain.NewValidationError(domain.CodeLookupFailure, "settlement %s: %v", id, err)
		}
		if collectorID == "" {
			collectorID, receiverID = s.CollectorID, s.ReceiverID
		} else if s.CollectorID != collectorID || s.ReceiverID != receiverID {
			return nil, domain.NewPreconditionError(domain.CodeMismatchedCounterparty, "MISMATCHED_COUNTERPARTY: settlement %s references %s/%s, batch is %s/%s",
				id, s.CollectorID, s.ReceiverID, collectorID, receiverID)
		}

		counterpartyID := collectorID
		if counterpartyID == input.ParticipantID {
			counterpartyID = receiverID
		}
		counterparty, err := uc.participantRepo.GetProfile(ctx, counterpartyID)
		if err != nil {
			return nil, domain.NewValidationError(domain.CodeLookupFailure, "counterparty %s: %v", counterpartyID, err)
		}

		expected := s.Recon.Status
		if err := s.Recon.MarkSentPending(transactionID, messageID, counterpartyID, counterparty.SubscriberURL, s.ReconAmounts(), now); err != nil {
			return nil, err
		}
		transitions = append(transitions, batchTransition{Settlement: s, Expected: expected})
	}

	if err := uc.settlementRepo.UpdateReconBatch(ctx, updatesOf(transitions)); err != nil {
		return nil, err
	}

	settlements := settlementsOf(transitions)
	uc.recordReconTransitions(settlements)
	uc.publishBatch(settlements)

	request := protocol.ReconRequest{
		Context: uc.protocolContext(profile, settlements[0], domain.ActionRecon, transactionID, messageID),
		Message: protocol.ReconMessage{Orders: make([]protocol.ReconOrder, 0, len(settlements))},
	}
	for _, s := range settlements {
		request.Message.Orders = append(request.Message.Orders, protocol.ReconOrder{
			OrderID:   s.OrderID,
			ReconData: amountsDTO(*s.Recon.ReconData),
		})
	}

	ack, err := uc.sendSigned(ctx, settlements[0].Recon.CounterpartyURI, domain.ActionRecon, request)
	if err != nil {
		return nil, err
	}
	if !ack.IsAck() {
		nack := &domain.DomainError{Kind: domain.KindPrecondition, Code: domain.CodeProcessingFailure, Message: "counterparty rejected recon batch"}
		if ack.Error != nil {
			nack.Code = ack.Error.Code
			nack.Message = ack.Error.Message
		}
		return nil, nack
	}

	return &recondto.InitiateOutput{
		TransactionID: transactionID,
		MessageID:     messageID,
		Settlements:   settlements,
	}, nil
}

func (uc *DefaultReconUsecase) protocolContext(profile *domain.ParticipantProfile, s *domain.Settlement, action, transactionID, messageID string) domain.ProtocolContext {
	pctx := domain.ProtocolContext{
		Domain:        profile.Domain,
		Version:       protocolVersion,
		Action:        action,
		TransactionID: transactionID,
		MessageID:     messageID,
		Timestamp:     time.Now().UTC(),
		TTL:           requestTTL,
	}
	if profile.Role == "BPP" {
		pctx.BppID = profile.ParticipantID
		pctx.BppURI = profile.SubscriberURL
		pctx.BapID = s.Recon.CounterpartyID
		pctx.BapURI = s.Recon.CounterpartyURI
	} else {
		pctx.BapID = profile.ParticipantID
		pctx.BapURI = profile.SubscriberURL
		pctx.BppID = s.Recon.CounterpartyID
		pctx.BppURI = s.Recon.CounterpartyURI
	}
	return pctx
}

func amountsDTO(a domain.ReconAmounts) protocol.ReconAmounts {
	return protocol.ReconAmounts{
		TotalOrderValue:   a.TotalOrderValue.StringFixed(2),
		Commission:        a.Commission.StringFixed(2),
		Tcs:               a.Tcs.StringFixed(2),
		Tds:               a.Tds.StringFixed(2),
		WithholdingAmount: a.WithholdingAmount.StringFixed(2),
		InterNpSettlement: a.InterNpSettlement.StringFixed(2),
	}
}
