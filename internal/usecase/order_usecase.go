package usecase

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ondc-labs/rsf-settlement-service/internal/domain"
	"github.com/ondc-labs/rsf-settlement-service/internal/infrastructure/kafka"
)

type OrderUsecase interface {
	HandleEvent(ctx context.Context, event kafka.OrderEvent) error
	Run(ctx context.Context, subscriber domain.SubscriberPort, topic, groupID string) error
}

// DefaultOrderUsecase maintains the local order store from inbound
// lifecycle events: a confirmation creates the record, status events
// mutate it, and the settlement due date is derived exactly once when
// the order completes.
type DefaultOrderUsecase struct {
	orderRepo domain.OrderRepository
}

func NewDefaultOrderUsecase(orderRepo domain.OrderRepository) *DefaultOrderUsecase {
	return &DefaultOrderUsecase{orderRepo: orderRepo}
}

func (uc *DefaultOrderUsecase) Run(ctx context.Context, subscriber domain.SubscriberPort, topic, groupID string) error {
	messages, err := subscriber.Subscribe(ctx, topic, groupID)
	if err != nil {
		return err
	}
	for msg := range messages {
		var event kafka.OrderEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			slog.Error("unreadable order event", "error", err.Error())
			continue
		}
		if err := uc.HandleEvent(ctx, event); err != nil {
			slog.Error("failed to apply order event", "order_id", event.OrderID, "event_type", event.EventType, "error", err.Error())
		}
	}
	return nil
}

func (uc *DefaultOrderUsecase) HandleEvent(ctx context.Context, event kafka.OrderEvent) error {
	switch event.EventType {
	case "confirmed":
		return uc.createOrder(ctx, event)
	case "status_updated":
		return uc.updateOrder(ctx, event)
	case "cancelled":
		return uc.orderRepo.UpdateOrderState(ctx, event.ParticipantID, event.OrderID, domain.OrderCancelled)
	default:
		return domain.NewValidationError(domain.CodeInvalidPayload, "unknown order event type %q", event.EventType)
	}
}

func (uc *DefaultOrderUsecase) createOrder(ctx context.Context, event kafka.OrderEvent) error {
	breakup := make([]domain.QuoteLine, 0, len(event.QuoteBreakup))
	for _, line := range event.QuoteBreakup {
		breakup = append(breakup, domain.QuoteLine{
			Title:  line.Title,
			Amount: parseDecimal(line.Amount),
			IsTax:  line.IsTax,
		})
	}

	basis := domain.SettlementBasis(event.SettlementBasis)
	if basis == "" {
		basis = domain.BasisDelivery
	}

	now := time.Now()
	return uc.orderRepo.CreateOrder(ctx, &domain.Order{
		OrderID:       event.OrderID,
		ParticipantID: event.ParticipantID,
		BapID:         event.BapID,
		BapURI:        event.BapURI,
		BppID:         event.BppID,
		BppURI:        event.BppURI,
		Domain:        event.Domain,
		CollectedBy:   domain.CollectedBy(event.CollectedBy),
		MSN:           event.MSN,
		Quote: domain.Quote{
			TotalValue: parseDecimal(event.QuoteTotal),
			Breakup:    breakup,
		},
		BuyerFinderFee: domain.BuyerFinderFee{
			Amount: parseDecimal(event.FeeAmount),
			Type:   domain.FeeType(event.FeeType),
		},
		State:             domain.OrderCreated,
		SettlementBasis:   basis,
		SettlementWindow:  event.SettlementWindow,
		WithholdingAmount: parseDecimal(event.Withholding),
		CreatedAt:         now,
		UpdatedAt:         now,
	})
}

func (uc *DefaultOrderUsecase) updateOrder(ctx context.Context, event kafka.OrderEvent) error {
	state := domain.OrderState(event.State)
	if err := uc.orderRepo.UpdateOrderState(ctx, event.ParticipantID, event.OrderID, state); err != nil {
		return err
	}
	if !event.ShippedAt.IsZero() || !event.DeliveredAt.IsZero() {
		if err := uc.orderRepo.SetFulfilment(ctx, event.ParticipantID, event.OrderID, event.ShippedAt, event.DeliveredAt); err != nil {
			return err
		}
	}
	if state != domain.OrderCompleted {
		return nil
	}

	order, err := uc.orderRepo.GetOrder(ctx, event.ParticipantID, event.OrderID)
	if err != nil {
		return err
	}
	if !order.DueDate.IsZero() {
		return nil
	}
	dueDate, err := order.ComputeDueDate()
	if err != nil {
		return err
	}
	return uc.orderRepo.SetDueDate(ctx, event.ParticipantID, event.OrderID, dueDate)
}

func parseDecimal(raw string) decimal.Decimal {
	if raw == "" {
		return decimal.Zero
	}
	value, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero
	}
	return value
}
