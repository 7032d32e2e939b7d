package recon

import (
	"context"
	"log/slog"
	"time"

	"github.com/ondc-labs/rsf-settlement-service/internal/domain"
	"github.com/ondc-labs/rsf-settlement-service/internal/infrastructure/kafka"
	"github.com/ondc-labs/rsf-settlement-service/internal/infrastructure/metrics"
	recondto "github.com/ondc-labs/rsf-settlement-service/internal/usecase/dto/recon"
)

const EventTopic = "settlement-events"

type EventPublisher interface {
	PublishSettlementEvent(topic string, event kafka.SettlementEvent) error
	PublishSettlementEvents(topic string, events []kafka.SettlementEvent) error
}

type ReconUsecase interface {
	Initiate(ctx context.Context, input *recondto.InitiateInput) (*recondto.InitiateOutput, error)
	Receive(ctx context.Context, input *recondto.InboundReconInput) error
	ApplyOnRecon(ctx context.Context, input *recondto.InboundOnReconInput) error
	Respond(ctx context.Context, input *recondto.RespondInput) error
	Deactivate(ctx context.Context, input *recondto.DeactivateInput) error
}

type DefaultReconUsecase struct {
	settlementRepo  domain.SettlementRepository
	participantRepo domain.ParticipantRepository
	gateway         domain.Gateway
	publisher       EventPublisher
	metrics         *metrics.SettlementMetrics
}

func NewDefaultReconUsecase(
	settlementRepo domain.SettlementRepository,
	participantRepo domain.ParticipantRepository,
	gateway domain.Gateway,
	publisher EventPublisher,
	settlementMetrics *metrics.SettlementMetrics,
) *DefaultReconUsecase {
	return &DefaultReconUsecase{
		settlementRepo:  settlementRepo,
		participantRepo: participantRepo,
		gateway:         gateway,
		publisher:       publisher,
		metrics:         settlementMetrics,
	}
}

func (uc *DefaultReconUsecase) publishBatch(settlements []*domain.Settlement) {
	events := make([]kafka.SettlementEvent, 0, len(settlements))
	for _, s := range settlements {
		events = append(events, kafka.SettlementEvent{
			SettlementID:  s.SettlementID,
			ParticipantID: s.ParticipantID,
			OrderID:       s.OrderID,
			Status:        string(s.Status),
			ReconStatus:   string(s.Recon.Status),
			TransactionID: s.Recon.TransactionID,
			MessageID:     s.Recon.MessageID,
			OccurredAt:    time.Now(),
		})
	}
	go func() {
		if err := uc.publisher.PublishSettlementEvents(EventTopic, events); err != nil {
			slog.Error("failed to publish recon events", "count", len(events), "error", err.Error())
		}
	}()
}

func (uc *DefaultReconUsecase) recordReconTransitions(settlements []*domain.Settlement) {
	if uc.metrics == nil {
		return
	}
	for _, s := range settlements {
		uc.metrics.RecordReconTransition(s.ParticipantID, string(s.Recon.Status))
	}
}
