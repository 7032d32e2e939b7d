package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ondc-labs/rsf-settlement-service/internal/domain"
	"github.com/ondc-labs/rsf-settlement-service/internal/infrastructure/kafka"
)

type memOrderRepo struct {
	store map[string]domain.Order
}

func newMemOrderRepo() *memOrderRepo {
	return &memOrderRepo{store: make(map[string]domain.Order)}
}

func (r *memOrderRepo) CreateOrder(_ context.Context, order *domain.Order) error {
	if _, ok := r.store[order.OrderID]; ok {
		return domain.ErrConflict
	}
	r.store[order.OrderID] = *order
	return nil
}

func (r *memOrderRepo) GetOrder(_ context.Context, _, orderID string) (*domain.Order, error) {
	o, ok := r.store[orderID]
	if !ok {
		return nil, fmt.Errorf("order %s: %w", orderID, domain.ErrNotFound)
	}
	return &o, nil
}

func (r *memOrderRepo) UpdateOrderState(_ context.Context, _, orderID string, state domain.OrderState) error {
	o, ok := r.store[orderID]
	if !ok {
		return domain.ErrNotFound
	}
	o.State = state
	r.store[orderID] = o
	return nil
}

func (r *memOrderRepo) SetFulfilment(_ context.Context, _, orderID string, shippedAt, deliveredAt time.Time) error {
	o := r.store[orderID]
	if !shippedAt.IsZero() {
		o.ShippedAt = shippedAt
	}
	if !deliveredAt.IsZero() {
		o.DeliveredAt = deliveredAt
	}
	r.store[orderID] = o
	return nil
}

func (r *memOrderRepo) SetDueDate(_ context.Context, _, orderID string, dueDate time.Time) error {
	o := r.store[orderID]
	if o.DueDate.IsZero() {
		o.DueDate = dueDate
		r.store[orderID] = o
	}
	return nil
}

func (r *memOrderRepo) MarkSettlementInitiated(_ context.Context, _, orderID string) error {
	o := r.store[orderID]
	if o.SettlementMarked {
		return domain.ErrConflict
	}
	o.SettlementMarked = true
	r.store[orderID] = o
	return nil
}

func confirmedEvent(orderID string) kafka.OrderEvent {
	return kafka.OrderEvent{
		EventType:        "confirmed",
		OrderID:          orderID,
		ParticipantID:    "buyer-app",
		BapID:            "buyer-app",
		BppID:            "seller-app",
		Domain:           "ONDC:RET10",
		CollectedBy:      "BAP",
		QuoteTotal:       "1000.00",
		FeeAmount:        "50",
		FeeType:          "amount",
		SettlementBasis:  "delivery",
		SettlementWindow: "P2D",
		QuoteBreakup: []kafka.OrderEventLine{
			{Title: "item", Amount: "900.00"},
			{Title: "tax", Amount: "100.00", IsTax: true},
		},
	}
}

func TestHandleEventConfirmedCreatesOrder(t *testing.T) {
	repo := newMemOrderRepo()
	uc := NewDefaultOrderUsecase(repo)

	require.NoError(t, uc.HandleEvent(context.Background(), confirmedEvent("O1")))

	order, err := repo.GetOrder(context.Background(), "buyer-app", "O1")
	require.NoError(t, err)
	assert.Equal(t, domain.OrderCreated, order.State)
	assert.Equal(t, "1000", order.Quote.TotalValue.String())
	assert.Equal(t, "100", order.Quote.ItemTax().String())
	assert.Equal(t, domain.BasisDelivery, order.SettlementBasis)
}

func TestHandleEventCompletionDerivesDueDateOnce(t *testing.T) {
	repo := newMemOrderRepo()
	uc := NewDefaultOrderUsecase(repo)
	require.NoError(t, uc.HandleEvent(context.Background(), confirmedEvent("O1")))

	delivered := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	require.NoError(t, uc.HandleEvent(context.Background(), kafka.OrderEvent{
		EventType:     "status_updated",
		OrderID:       "O1",
		ParticipantID: "buyer-app",
		State:         "COMPLETED",
		DeliveredAt:   delivered,
	}))

	order, err := repo.GetOrder(context.Background(), "buyer-app", "O1")
	require.NoError(t, err)
	assert.Equal(t, domain.OrderCompleted, order.State)
	assert.Equal(t, delivered.Add(48*time.Hour), order.DueDate)

	// A replayed completion must not move the due date.
	require.NoError(t, uc.HandleEvent(context.Background(), kafka.OrderEvent{
		EventType:     "status_updated",
		OrderID:       "O1",
		ParticipantID: "buyer-app",
		State:         "COMPLETED",
		DeliveredAt:   delivered.Add(24 * time.Hour),
	}))
	order, _ = repo.GetOrder(context.Background(), "buyer-app", "O1")
	assert.Equal(t, delivered.Add(48*time.Hour), order.DueDate)
}

func TestHandleEventCancelled(t *testing.T) {
	repo := newMemOrderRepo()
	uc := NewDefaultOrderUsecase(repo)
	require.NoError(t, uc.HandleEvent(context.Background(), confirmedEvent("O1")))

	require.NoError(t, uc.HandleEvent(context.Background(), kafka.OrderEvent{
		EventType:     "cancelled",
		OrderID:       "O1",
		ParticipantID: "buyer-app",
	}))

	order, _ := repo.GetOrder(context.Background(), "buyer-app", "O1")
	assert.Equal(t, domain.OrderCancelled, order.State)
}

func TestHandleEventUnknownType(t *testing.T) {
	uc := NewDefaultOrderUsecase(newMemOrderRepo())
	err := uc.HandleEvent(context.Background(), kafka.OrderEvent{EventType: "exploded"})
	assert.Error(t, err)
}

// chanSubscriber implements the subscriber port over a plain channel,
// honoring the same close-on-cancel contract as the kafka consumer.
type chanSubscriber struct {
	ch chan domain.Message
}

func (s *chanSubscriber) Subscribe(ctx context.Context, _, _ string) (<-chan domain.Message, error) {
	out := make(chan domain.Message)
	go func() {
		defer close(out)
		for {
			select {
			case m, ok := <-s.ch:
				if !ok {
					return
				}
				select {
				case out <- m:
				case <-ctx.Done():
					return
				}
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}

func TestRunConsumesUntilSourceCloses(t *testing.T) {
	repo := newMemOrderRepo()
	uc := NewDefaultOrderUsecase(repo)
	src := make(chan domain.Message)

	done := make(chan error, 1)
	go func() {
		done <- uc.Run(context.Background(), &chanSubscriber{ch: src}, "order-events", "buyer-app")
	}()

	raw, err := json.Marshal(confirmedEvent("O1"))
	require.NoError(t, err)
	src <- domain.Message{Value: raw}
	close(src)

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("consumer did not stop after the source closed")
	}

	order, err := repo.GetOrder(context.Background(), "buyer-app", "O1")
	require.NoError(t, err)
	assert.Equal(t, domain.OrderCreated, order.State)
}

func TestRunStopsOnCancellation(t *testing.T) {
	uc := NewDefaultOrderUsecase(newMemOrderRepo())
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		done <- uc.Run(ctx, &chanSubscriber{ch: make(chan domain.Message)}, "order-events", "buyer-app")
	}()

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("consumer did not stop after cancellation")
	}
}
