package recon

import (
	"context"
	"time"

	"github.com/ondc-labs/rsf-settlement-service/internal/domain"
	recondto "github.com/ondc-labs/rsf-settlement-service/internal/usecase/dto/recon"
)

// Receive applies an inbound recon request. Pass one validates every
// order without writing; pass two commits every transition in one
// transaction. A single failing order rejects the whole batch with no
// partial mutation.
func (uc *DefaultReconUsecase) Receive(ctx context.Context, input *recondto.InboundReconInput) error {
	if len(input.Orders) == 0 {
		return uc.rejectBatch(domain.ActionRecon, 0, domain.NewValidationError(domain.CodeInvalidPayload, "recon batch carries no orders"))
	}

	callerID, err := callerOf(input.Context, input.ParticipantID)
	if err != nil {
		return uc.rejectBatch(domain.ActionRecon, len(input.Orders), err)
	}

	// Validation pass.
	now := time.Now()
	seen := make(map[string]bool, len(input.Orders))
	transitions := make([]batchTransition, 0, len(input.Orders))
	for _, entry := range input.Orders {
		if seen[entry.OrderID] {
			return uc.rejectBatch(domain.ActionRecon, len(input.Orders),
				domain.NewConsistencyError(domain.CodeBatchMismatch, "order %s appears twice in the batch", entry.OrderID))
		}
		seen[entry.OrderID] = true

		s, err := uc.settlementRepo.GetByOrderID(ctx, input.ParticipantID, entry.OrderID)
		if err != nil {
			return uc.rejectBatch(domain.ActionRecon, len(input.Orders),
				domain.NewValidationError(domain.CodeLookupFailure, "order %s: %v", entry.OrderID, err))
		}
		if err := verifyCallerPair(s, input.ParticipantID, callerID); err != nil {
			return uc.rejectBatch(domain.ActionRecon, len(input.Orders), err)
		}
		amounts, err := parseAmounts(entry.OrderID, entry.Amounts)
		if err != nil {
			return uc.rejectBatch(domain.ActionRecon, len(input.Orders), err)
		}

		expected := s.Recon.Status
		if err := s.Recon.MarkReceivedPending(input.Context.TransactionID, input.Context.MessageID, callerID, callerURI(input.Context, callerID), amounts, now); err != nil {
			return uc.rejectBatch(domain.ActionRecon, len(input.Orders), err)
		}
		transitions = append(transitions, batchTransition{Settlement: s, Expected: expected})
	}

	// Commit pass: all rows or none.
	if err := uc.settlementRepo.UpdateReconBatch(ctx, updatesOf(transitions)); err != nil {
		return uc.rejectBatch(domain.ActionRecon, len(input.Orders), err)
	}

	if uc.metrics != nil {
		uc.metrics.RecordBatchValidation(domain.ActionRecon, "accepted", len(input.Orders))
	}
	settlements := settlementsOf(transitions)
	uc.recordReconTransitions(settlements)
	uc.publishBatch(settlements)
	return nil
}

func (uc *DefaultReconUsecase) rejectBatch(action string, orders int, err error) error {
	if uc.metrics != nil {
		uc.metrics.RecordBatchValidation(action, "rejected", orders)
		uc.metrics.RecordError(kindLabel(err))
	}
	return err
}

func kindLabel(err error) string {
	switch domain.KindOf(err) {
	case domain.KindValidation:
		return "validation"
	case domain.KindPrecondition:
		return "precondition"
	case domain.KindConsistency:
		return "consistency"
	case domain.KindTransport:
		return "transport"
	default:
		return "unexpected"
	}
}

func callerURI(pctx domain.ProtocolContext, callerID string) string {
	if pctx.BapID == callerID {
		return pctx.BapURI
	}
	return pctx.BppURI
}
