package settlement

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ondc-labs/rsf-settlement-service/internal/domain"
	"github.com/ondc-labs/rsf-settlement-service/internal/protocol"
	settlementdto "github.com/ondc-labs/rsf-settlement-service/internal/usecase/dto/settlement"
)

const protocolVersion = "2.0.0"
const requestTTL = "PT30S"

// TriggerSettle builds one outbound settle batch for a single
// counterparty pair, signs and sends it, and applies the outcome. On a
// positive acknowledgement every PREPARED settlement moves to PENDING
// and every row records the new transaction/message ids; a batch may
// include PENDING or NOT_SETTLED rows as a manual retry, only SETTLED
// is refused. On any negative outcome the settlements keep their state
// with the error recorded.
func (uc *DefaultSettlementUsecase) TriggerSettle(ctx context.Context, input *settlementdto.TriggerSettleInput) (*settlementdto.TriggerSettleOutput, error) {
	if len(input.SettlementIDs) == 0 {
		return nil, domain.NewValidationError(domain.CodeInvalidPayload, "no settlement ids given")
	}

	var (
		settlements []*domain.Settlement
		collectorID string
		receiverID  string
	)
	for _, id := range input.SettlementIDs {
		s, err := uc.settlementRepo.GetByID(ctx, id)
		if err != nil {
			return nil, domain.NewValidationError(domain.CodeLookupFailure, "settlement %s: %v", id, err)
		}
		if s.Status == domain.SettlementSettled {
			return nil, domain.NewPreconditionError(domain.CodeInvalidPayload, "settlement %s is already %s", id, s.Status)
		}
		if collectorID == "" {
			collectorID, receiverID = s.CollectorID, s.ReceiverID
		} else if s.CollectorID != collectorID || s.ReceiverID != receiverID {
			return nil, domain.NewPreconditionError(domain.CodeMismatchedCounterparty, "MISMATCHED_COUNTERPARTY: settlement %s references %s/%s, batch is %s/%s",
				id, s.CollectorID, s.ReceiverID, collectorID, receiverID)
		}
		settlements = append(settlements, s)
	}

	counterpartyID := collectorID
	if counterpartyID == input.ParticipantID {
		counterpartyID = receiverID
	}
	counterparty, err := uc.participantRepo.GetProfile(ctx, counterpartyID)
	if err != nil {
		return nil, domain.NewValidationError(domain.CodeLookupFailure, "counterparty %s: %v", counterpartyID, err)
	}

	// The first order carries the protocol orientation for the batch.
	order, err := uc.orderRepo.GetOrder(ctx, input.ParticipantID, settlements[0].OrderID)
	if err != nil {
		return nil, domain.NewValidationError(domain.CodeLookupFailure, "order %s: %v", settlements[0].OrderID, err)
	}

	transactionID := uuid.NewString()
	messageID := uuid.NewString()

	settlementType := input.SettlementType
	if settlementType == "" {
		settlementType = "NP-NP"
	}
	request := protocol.SettleRequest{
		Context: domain.ProtocolContext{
			Domain:        order.Domain,
			Version:       protocolVersion,
			Action:        domain.ActionSettle,
			BapID:         order.BapID,
			BapURI:        order.BapURI,
			BppID:         order.BppID,
			BppURI:        order.BppURI,
			TransactionID: transactionID,
			MessageID:     messageID,
			Timestamp:     time.Now().UTC(),
			TTL:           requestTTL,
		},
		Message: protocol.SettleMessage{
			Settlement: protocol.SettleBody{
				Type:   settlementType,
				Orders: make([]protocol.SettleOrder, 0, len(settlements)),
			},
		},
	}
	for _, s := range settlements {
		request.Message.Settlement.Orders = append(request.Message.Settlement.Orders, protocol.SettleOrder{
			OrderID:             s.OrderID,
			CollectorID:         s.CollectorID,
			ReceiverID:          s.ReceiverID,
			TotalOrderValue:     s.TotalOrderValue.StringFixed(2),
			Commission:          s.Commission.StringFixed(2),
			Tcs:                 s.Tcs.StringFixed(2),
			Tds:                 s.Tds.StringFixed(2),
			WithholdingAmount:   s.WithholdingAmount.StringFixed(2),
			InterNpSettlement:   s.InterNpSettlement.StringFixed(2),
			CollectorSettlement: s.CollectorSettlement.StringFixed(2),
		})
	}

	ack, err := uc.sendSigned(ctx, counterparty.SubscriberURL, domain.ActionSettle, request)
	if err != nil {
		for _, s := range settlements {
			uc.recordError(ctx, s, err.Error())
		}
		return nil, err
	}
	if !ack.IsAck() {
		nack := &domain.DomainError{Kind: domain.KindPrecondition, Code: domain.CodeProcessingFailure, Message: "counterparty rejected settle batch"}
		if ack.Error != nil {
			nack.Code = ack.Error.Code
			nack.Message = ack.Error.Message
		}
		for _, s := range settlements {
			uc.recordError(ctx, s, nack.Error())
		}
		return nil, nack
	}

	// Every referenced settlement gets the new exchange ids, otherwise
	// the counterparty's on_settle for this transaction can never be
	// matched. Only PREPARED rows change status.
	for _, s := range settlements {
		to := s.Status
		if s.Status == domain.SettlementPrepared {
			to = domain.SettlementPending
		}
		if err := uc.settlementRepo.UpdateStatus(ctx, s.SettlementID, s.Status, to, transactionID, messageID); err != nil {
			return nil, err
		}
		moved := s.Status != to
		s.Status = to
		s.TransactionID = transactionID
		s.MessageID = messageID
		if moved && uc.metrics != nil {
			uc.metrics.RecordTransition(s.ParticipantID, string(s.Status))
		}
		uc.publishEvent(s, "")
	}

	return &settlementdto.TriggerSettleOutput{
		TransactionID: transactionID,
		MessageID:     messageID,
		Settlements:   settlements,
	}, nil
}

func (uc *DefaultSettlementUsecase) sendSigned(ctx context.Context, baseURL, action string, payload any) (*domain.AckResponse, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, domain.NewUnexpectedError(err)
	}

	authHeader, err := uc.gateway.Sign(body)
	if err != nil {
		return nil, domain.NewTransportError(err, "signing %s", action)
	}

	started := time.Now()
	result, err := uc.gateway.Send(ctx, fmt.Sprintf("%s/%s", baseURL, action), body, authHeader)
	if uc.metrics != nil {
		outcome := "ack"
		if err != nil {
			outcome = "transport_error"
		}
		uc.metrics.RecordOutboundCall(action, outcome, time.Since(started).Seconds())
	}
	if err != nil {
		return nil, domain.NewTransportError(err, "sending %s", action)
	}

	var ack domain.AckResponse
	if err := json.Unmarshal(result.Body, &ack); err != nil {
		return nil, domain.NewTransportError(err, "unreadable %s response", action)
	}
	if uc.metrics != nil && !ack.IsAck() {
		uc.metrics.RecordOutboundCall(action, "nack", 0)
	}
	return &ack, nil
}

func (uc *DefaultSettlementUsecase) recordError(ctx context.Context, s *domain.Settlement, message string) {
	if err := uc.settlementRepo.SetError(ctx, s.SettlementID, message); err == nil {
		s.Error = message
	}
	uc.publishEvent(s, message)
}
