package settlement

import (
	"context"

	"github.com/ondc-labs/rsf-settlement-service/internal/domain"
	settlementdto "github.com/ondc-labs/rsf-settlement-service/internal/usecase/dto/settlement"
)

// ApplyConfirmation applies an inbound on_settle message. Entries are
// matched by (transaction_id, message_id, order_id); a confirmation
// that references an unknown exchange is rejected, never buffered.
// Any side reporting failure forces NOT_SETTLED; all sides succeeding
// forces SETTLED; otherwise the settlement stays PENDING. A row in
// NOT_SETTLED can still be confirmed after a manual settle retry, a
// SETTLED row never changes again.
func (uc *DefaultSettlementUsecase) ApplyConfirmation(ctx context.Context, input *settlementdto.OnSettleInput) error {
	if len(input.Entries) == 0 {
		return domain.NewValidationError(domain.CodeInvalidPayload, "confirmation carries no orders")
	}

	settlements, err := uc.settlementRepo.GetByTransactionID(ctx, input.ParticipantID, input.Context.TransactionID)
	if err != nil {
		return domain.NewUnexpectedError(err)
	}
	if len(settlements) == 0 {
		return domain.NewPreconditionError(domain.CodeUnknownTransaction, "no settlement trigger recorded for transaction %s", input.Context.TransactionID)
	}

	byOrder := make(map[string]*domain.Settlement, len(settlements))
	for _, s := range settlements {
		byOrder[s.OrderID] = s
	}

	// Validation pass: every entry must resolve before anything moves.
	updates := make([]domain.ConfirmationUpdate, 0, len(input.Entries))
	for _, entry := range input.Entries {
		s, ok := byOrder[entry.OrderID]
		if !ok {
			return domain.NewConsistencyError(domain.CodeBatchMismatch, "order %s is not part of transaction %s", entry.OrderID, input.Context.TransactionID)
		}
		if s.MessageID != input.Context.MessageID {
			return domain.NewPreconditionError(domain.CodeUnknownTransaction, "message %s does not match the recorded trigger for order %s", input.Context.MessageID, entry.OrderID)
		}
		if s.Status == domain.SettlementSettled {
			return domain.NewPreconditionError(domain.CodeInvalidPayload, "settlement for order %s is already %s", entry.OrderID, s.Status)
		}

		selfStatus, err := parsePartStatus(entry.SelfStatus)
		if err != nil {
			return err
		}
		providerStatus, err := parsePartStatus(entry.ProviderStatus)
		if err != nil {
			return err
		}

		status := domain.SettlementPending
		switch {
		case selfStatus == domain.PartNotSettled || providerStatus == domain.PartNotSettled:
			status = domain.SettlementNotSettled
		case selfStatus == domain.PartSettled && providerStatus == domain.PartSettled:
			status = domain.SettlementSettled
		}
		// An inconclusive report cannot regress a failed settlement.
		if s.Status == domain.SettlementNotSettled && status == domain.SettlementPending {
			status = domain.SettlementNotSettled
		}

		updates = append(updates, domain.ConfirmationUpdate{
			SettlementID:      s.SettlementID,
			Expected:          s.Status,
			Status:            status,
			SelfStatus:        selfStatus,
			ProviderStatus:    providerStatus,
			SelfReference:     entry.SelfReference,
			ProviderReference: entry.ProviderReference,
		})
	}

	if err := uc.settlementRepo.ApplyConfirmations(ctx, updates); err != nil {
		return err
	}

	for i, update := range updates {
		s := byOrder[input.Entries[i].OrderID]
		s.Status = update.Status
		s.SelfStatus = update.SelfStatus
		s.ProviderStatus = update.ProviderStatus
		s.SelfReference = update.SelfReference
		s.ProviderReference = update.ProviderReference
		if uc.metrics != nil {
			uc.metrics.RecordTransition(s.ParticipantID, string(s.Status))
		}
		uc.publishEvent(s, "")
	}
	return nil
}

func parsePartStatus(raw string) (domain.PartStatus, error) {
	switch domain.PartStatus(raw) {
	case domain.PartSettled, domain.PartNotSettled, domain.PartPendingSide, domain.PartUnreported:
		return domain.PartStatus(raw), nil
	default:
		return "", domain.NewValidationError(domain.CodeInvalidPayload, "unknown settlement part status %q", raw)
	}
}
