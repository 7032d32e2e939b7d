package settlement

import (
	"context"

	"github.com/ondc-labs/rsf-settlement-service/internal/domain"
	"github.com/ondc-labs/rsf-settlement-service/internal/infrastructure/kafka"
	"github.com/ondc-labs/rsf-settlement-service/internal/infrastructure/metrics"
	settlementdto "github.com/ondc-labs/rsf-settlement-service/internal/usecase/dto/settlement"
)

const EventTopic = "settlement-events"

type EventPublisher interface {
	PublishSettlementEvent(topic string, event kafka.SettlementEvent) error
	PublishSettlementEvents(topic string, events []kafka.SettlementEvent) error
}

type SettlementUsecase interface {
	Prepare(ctx context.Context, input *settlementdto.PrepareInput) (*settlementdto.PrepareOutput, error)
	TriggerSettle(ctx context.Context, input *settlementdto.TriggerSettleInput) (*settlementdto.TriggerSettleOutput, error)
	ApplyConfirmation(ctx context.Context, input *settlementdto.OnSettleInput) error
	GetByOrderID(ctx context.Context, participantID, orderID string) (*domain.Settlement, error)
	List(ctx context.Context, input *settlementdto.ListInput) (*settlementdto.ListOutput, error)
}

type DefaultSettlementUsecase struct {
	settlementRepo  domain.SettlementRepository
	orderRepo       domain.OrderRepository
	participantRepo domain.ParticipantRepository
	gateway         domain.Gateway
	publisher       EventPublisher
	metrics         *metrics.SettlementMetrics
}

func NewDefaultSettlementUsecase(
	settlementRepo domain.SettlementRepository,
	orderRepo domain.OrderRepository,
	participantRepo domain.ParticipantRepository,
	gateway domain.Gateway,
	publisher EventPublisher,
	settlementMetrics *metrics.SettlementMetrics,
) *DefaultSettlementUsecase {
	return &DefaultSettlementUsecase{
		settlementRepo:  settlementRepo,
		orderRepo:       orderRepo,
		participantRepo: participantRepo,
		gateway:         gateway,
		publisher:       publisher,
		metrics:         settlementMetrics,
	}
}
