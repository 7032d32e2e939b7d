package recon

import (
	"context"
	"log/slog"
	"time"

	"github.com/ondc-labs/rsf-settlement-service/internal/domain"
	recondto "github.com/ondc-labs/rsf-settlement-service/internal/usecase/dto/recon"
)

// Deactivate is the administrative override after a counterparty
// reports an unrecoverable batch error: the referenced orders' recon
// state moves to INACTIVE regardless of its current value.
func (uc *DefaultReconUsecase) Deactivate(ctx context.Context, input *recondto.DeactivateInput) error {
	if len(input.OrderIDs) == 0 {
		return domain.NewValidationError(domain.CodeInvalidPayload, "no order ids given")
	}

	now := time.Now()
	transitions := make([]batchTransition, 0, len(input.OrderIDs))
	for _, orderID := range input.OrderIDs {
		s, err := uc.settlementRepo.GetByOrderID(ctx, input.ParticipantID, orderID)
		if err != nil {
			return domain.NewValidationError(domain.CodeLookupFailure, "order %s: %v", orderID, err)
		}
		expected := s.Recon.Status
		s.Recon.Deactivate(now)
		transitions = append(transitions, batchTransition{Settlement: s, Expected: expected})
	}

	if err := uc.settlementRepo.UpdateReconBatch(ctx, updatesOf(transitions)); err != nil {
		return err
	}

	slog.Info("recon deactivated", "participant_id", input.ParticipantID, "orders", len(input.OrderIDs), "reason", input.Reason)
	settlements := settlementsOf(transitions)
	uc.recordReconTransitions(settlements)
	uc.publishBatch(settlements)
	return nil
}
