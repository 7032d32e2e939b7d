package recon

import (
	"context"
	"time"

	"github.com/ondc-labs/rsf-settlement-service/internal/domain"
	recondto "github.com/ondc-labs/rsf-settlement-service/internal/usecase/dto/recon"
)

// ApplyOnRecon applies the counterparty's reply to a recon we sent.
// The reply's order set must exactly match the settlements recorded
// under the transaction id; extra, missing or duplicate orders abort
// the whole batch with no partial mutation.
func (uc *DefaultReconUsecase) ApplyOnRecon(ctx context.Context, input *recondto.InboundOnReconInput) error {
	if len(input.Orders) == 0 {
		return uc.rejectBatch(domain.ActionOnRecon, 0, domain.NewValidationError(domain.CodeInvalidPayload, "on_recon batch carries no orders"))
	}

	callerID, err := callerOf(input.Context, input.ParticipantID)
	if err != nil {
		return uc.rejectBatch(domain.ActionOnRecon, len(input.Orders), err)
	}

	expected, err := uc.settlementRepo.GetByReconTransactionID(ctx, input.ParticipantID, input.Context.TransactionID)
	if err != nil {
		return uc.rejectBatch(domain.ActionOnRecon, len(input.Orders), domain.NewUnexpectedError(err))
	}
	if len(expected) == 0 {
		return uc.rejectBatch(domain.ActionOnRecon, len(input.Orders),
			domain.NewPreconditionError(domain.CodeUnknownTransaction, "no recon recorded for transaction %s", input.Context.TransactionID))
	}

	byOrder := make(map[string]*domain.Settlement, len(expected))
	for _, s := range expected {
		byOrder[s.OrderID] = s
	}
	if len(input.Orders) != len(expected) {
		return uc.rejectBatch(domain.ActionOnRecon, len(input.Orders),
			domain.NewConsistencyError(domain.CodeBatchMismatch, "on_recon references %d orders, transaction %s has %d",
				len(input.Orders), input.Context.TransactionID, len(expected)))
	}

	// Validation pass.
	now := time.Now()
	seen := make(map[string]bool, len(input.Orders))
	transitions := make([]batchTransition, 0, len(input.Orders))
	for _, entry := range input.Orders {
		if seen[entry.OrderID] {
			return uc.rejectBatch(domain.ActionOnRecon, len(input.Orders),
				domain.NewConsistencyError(domain.CodeBatchMismatch, "order %s appears twice in the batch", entry.OrderID))
		}
		seen[entry.OrderID] = true

		s, ok := byOrder[entry.OrderID]
		if !ok {
			return uc.rejectBatch(domain.ActionOnRecon, len(input.Orders),
				domain.NewConsistencyError(domain.CodeBatchMismatch, "order %s is not part of transaction %s", entry.OrderID, input.Context.TransactionID))
		}
		if s.Recon.MessageID != input.Context.MessageID {
			return uc.rejectBatch(domain.ActionOnRecon, len(input.Orders),
				domain.NewPreconditionError(domain.CodeUnknownTransaction, "message %s does not match the recorded recon for order %s", input.Context.MessageID, entry.OrderID))
		}
		if err := verifyCallerPair(s, input.ParticipantID, callerID); err != nil {
			return uc.rejectBatch(domain.ActionOnRecon, len(input.Orders), err)
		}

		var counterData *domain.ReconAmounts
		if !entry.Accord {
			if entry.CounterAmounts == nil {
				return uc.rejectBatch(domain.ActionOnRecon, len(input.Orders),
					domain.NewValidationError(domain.CodeInvalidPayload, "order %s: rejection without on_recon_data", entry.OrderID))
			}
			amounts, err := parseAmounts(entry.OrderID, *entry.CounterAmounts)
			if err != nil {
				return uc.rejectBatch(domain.ActionOnRecon, len(input.Orders), err)
			}
			counterData = &amounts
		}

		expectedStatus := s.Recon.Status
		if err := s.Recon.ApplySentOutcome(entry.Accord, counterData, now); err != nil {
			return uc.rejectBatch(domain.ActionOnRecon, len(input.Orders), err)
		}
		transitions = append(transitions, batchTransition{Settlement: s, Expected: expectedStatus})
	}

	// Commit pass.
	if err := uc.settlementRepo.UpdateReconBatch(ctx, updatesOf(transitions)); err != nil {
		return uc.rejectBatch(domain.ActionOnRecon, len(input.Orders), err)
	}

	if uc.metrics != nil {
		uc.metrics.RecordBatchValidation(domain.ActionOnRecon, "accepted", len(input.Orders))
	}
	settlements := settlementsOf(transitions)
	uc.recordReconTransitions(settlements)
	uc.publishBatch(settlements)
	return nil
}
