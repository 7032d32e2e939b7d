package settlement

import (
	"context"
	"log/slog"
	"time"

	"github.com/jaevor/go-nanoid"
	"github.com/shopspring/decimal"

	"github.com/ondc-labs/rsf-settlement-service/internal/domain"
	"github.com/ondc-labs/rsf-settlement-service/internal/infrastructure/kafka"
	"github.com/ondc-labs/rsf-settlement-service/internal/usecase/calc"
	settlementdto "github.com/ondc-labs/rsf-settlement-service/internal/usecase/dto/settlement"
)

// Fixed uplift applied to the buyer finder fee before settlement.
// External contract, reproduced as-is.
var feeUplift = decimal.RequireFromString("1.18")

var hundred = decimal.NewFromInt(100)

func resolveBuyerFinderFee(order *domain.Order) decimal.Decimal {
	base := order.BuyerFinderFee.Amount
	if order.BuyerFinderFee.Type == domain.FeePercent {
		base = order.Quote.TotalValue.Mul(base).Div(hundred)
	}
	return base.Mul(feeUplift).Round(2)
}

// Prepare creates one PREPARED settlement per requested order. The
// whole set shares a single counterparty pair and is persisted
// atomically: any failing order fails the call and creates nothing.
func (uc *DefaultSettlementUsecase) Prepare(ctx context.Context, input *settlementdto.PrepareInput) (*settlementdto.PrepareOutput, error) {
	if len(input.OrderIDs) == 0 {
		return nil, domain.NewValidationError(domain.CodeInvalidPayload, "no order ids given")
	}

	profile, err := uc.participantRepo.GetProfile(ctx, input.ParticipantID)
	if err != nil {
		return nil, domain.NewValidationError(domain.CodeLookupFailure, "participant %s: %v", input.ParticipantID, err)
	}

	idGenerator, err := nanoid.Standard(15)
	if err != nil {
		return nil, domain.NewUnexpectedError(err)
	}

	var (
		collectorID string
		receiverID  string
		settlements []*domain.Settlement
		orders      []*domain.Order
	)
	for _, orderID := range input.OrderIDs {
		order, err := uc.orderRepo.GetOrder(ctx, input.ParticipantID, orderID)
		if err != nil {
			return nil, domain.NewValidationError(domain.CodeLookupFailure, "order %s: %v", orderID, err)
		}
		if order.State != domain.OrderCompleted {
			return nil, domain.NewPreconditionError(domain.CodeInvalidPayload, "order %s is %s, settlement requires %s", orderID, order.State, domain.OrderCompleted)
		}
		if order.SettlementMarked {
			return nil, domain.NewPreconditionError(domain.CodeDuplicateSettlement, "order %s already has a settlement", orderID)
		}
		if collectorID == "" {
			collectorID, receiverID = order.CollectorID(), order.ReceiverID()
		} else if order.CollectorID() != collectorID || order.ReceiverID() != receiverID {
			return nil, domain.NewPreconditionError(domain.CodeMismatchedCounterparty, "MISMATCHED_COUNTERPARTY: order %s references %s/%s, batch is %s/%s",
				orderID, order.CollectorID(), order.ReceiverID(), collectorID, receiverID)
		}

		fee := resolveBuyerFinderFee(order)
		breakdown := calc.Compute(calc.Input{
			CollectedBy:     order.CollectedBy,
			Domain:          order.Domain,
			MSN:             order.MSN,
			TotalOrderValue: order.Quote.TotalValue,
			BuyerFinderFee:  fee,
			ItemTax:         order.Quote.ItemTax(),
			TcsRate:         profile.NpTcs,
			TdsRate:         profile.NpTds,
		})

		now := time.Now()
		settlements = append(settlements, &domain.Settlement{
			SettlementID:        idGenerator(),
			ParticipantID:       input.ParticipantID,
			OrderID:             order.OrderID,
			CollectorID:         collectorID,
			ReceiverID:          receiverID,
			TotalOrderValue:     order.Quote.TotalValue,
			Commission:          fee,
			Tcs:                 breakdown.Tcs,
			Tds:                 breakdown.Tds,
			WithholdingAmount:   order.WithholdingAmount,
			InterNpSettlement:   breakdown.InterNpSettlement,
			CollectorSettlement: breakdown.CollectorSettlement,
			Status:              domain.SettlementPrepared,
			CreatedAt:           now,
			UpdatedAt:           now,
		})
		orders = append(orders, order)
	}

	if err := uc.settlementRepo.CreateSettlements(ctx, settlements); err != nil {
		return nil, err
	}

	for _, order := range orders {
		if err := uc.orderRepo.MarkSettlementInitiated(ctx, input.ParticipantID, order.OrderID); err != nil {
			slog.Error("failed to mark order settlement-initiated", "order_id", order.OrderID, "error", err.Error())
		}
	}

	for i, s := range settlements {
		if uc.metrics != nil {
			value, _ := s.TotalOrderValue.Float64()
			uc.metrics.RecordPrepared(s.ParticipantID, string(orders[i].CollectedBy), value)
		}
		uc.publishEvent(s, "")
	}

	return &settlementdto.PrepareOutput{Settlements: settlements}, nil
}

func (uc *DefaultSettlementUsecase) publishEvent(s *domain.Settlement, errMsg string) {
	event := kafka.SettlementEvent{
		SettlementID:  s.SettlementID,
		ParticipantID: s.ParticipantID,
		OrderID:       s.OrderID,
		Status:        string(s.Status),
		ReconStatus:   string(s.Recon.Status),
		TransactionID: s.TransactionID,
		MessageID:     s.MessageID,
		Error:         errMsg,
		OccurredAt:    time.Now(),
	}
	go func() {
		if err := uc.publisher.PublishSettlementEvent(EventTopic, event); err != nil {
			slog.Error("failed to publish settlement event", "settlement_id", event.SettlementID, "error", err.Error())
		}
	}()
}
