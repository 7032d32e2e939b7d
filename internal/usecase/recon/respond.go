package recon

import (
	"context"
	"time"

	"github.com/ondc-labs/rsf-settlement-service/internal/domain"
	"github.com/ondc-labs/rsf-settlement-service/internal/protocol"
	recondto "github.com/ondc-labs/rsf-settlement-service/internal/usecase/dto/recon"
)

// Respond records our accept/reject decision on a RECEIVED_PENDING
// batch and sends the matching on_recon to the counterparty, echoing
// the transaction and message ids of the original request. The local
// transitions commit before the send, so a transport failure leaves a
// decided batch whose on_recon can be resent manually.
func (uc *DefaultReconUsecase) Respond(ctx context.Context, input *recondto.RespondInput) error {
	profile, err := uc.participantRepo.GetProfile(ctx, input.ParticipantID)
	if err != nil {
		return domain.NewValidationError(domain.CodeLookupFailure, "participant %s: %v", input.ParticipantID, err)
	}

	settlements, err := uc.settlementRepo.GetByReconTransactionID(ctx, input.ParticipantID, input.TransactionID)
	if err != nil {
		return domain.NewUnexpectedError(err)
	}
	if len(settlements) == 0 {
		return domain.NewPreconditionError(domain.CodeUnknownTransaction, "no recon recorded for transaction %s", input.TransactionID)
	}

	// Validation pass: the whole batch must be awaiting our decision.
	now := time.Now()
	transitions := make([]batchTransition, 0, len(settlements))
	for _, s := range settlements {
		var counterData *domain.ReconAmounts
		if !input.Accord {
			set, ok := input.CounterAmounts[s.OrderID]
			if !ok {
				return domain.NewValidationError(domain.CodeInvalidPayload, "order %s: rejection without counter amounts", s.OrderID)
			}
			amounts, err := parseAmounts(s.OrderID, set)
			if err != nil {
				return err
			}
			counterData = &amounts
		}

		expected := s.Recon.Status
		if err := s.Recon.ApplyReceivedDecision(input.Accord, counterData, now); err != nil {
			return err
		}
		transitions = append(transitions, batchTransition{Settlement: s, Expected: expected})
	}

	// Commit pass.
	if err := uc.settlementRepo.UpdateReconBatch(ctx, updatesOf(transitions)); err != nil {
		return err
	}
	committed := settlementsOf(transitions)
	uc.recordReconTransitions(committed)
	uc.publishBatch(committed)

	first := committed[0]
	request := protocol.OnReconRequest{
		Context: uc.protocolContext(profile, first, domain.ActionOnRecon, first.Recon.TransactionID, first.Recon.MessageID),
		Message: protocol.OnReconMessage{Orders: make([]protocol.OnReconOrder, 0, len(committed))},
	}
	for _, s := range committed {
		order := protocol.OnReconOrder{
			OrderID: s.OrderID,
			Accord:  input.Accord,
		}
		if s.Recon.OnReconData != nil {
			dto := amountsDTO(*s.Recon.OnReconData)
			order.OnReconData = &dto
		}
		request.Message.Orders = append(request.Message.Orders, order)
	}

	ack, err := uc.sendSigned(ctx, first.Recon.CounterpartyURI, domain.ActionOnRecon, request)
	if err != nil {
		return err
	}
	if !ack.IsAck() {
		nack := &domain.DomainError{Kind: domain.KindPrecondition, Code: domain.CodeProcessingFailure, Message: "counterparty rejected on_recon"}
		if ack.Error != nil {
			nack.Code = ack.Error.Code
			nack.Message = ack.Error.Message
		}
		return nack
	}
	return nil
}
