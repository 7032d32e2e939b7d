package recon

import (
	"github.com/shopspring/decimal"

	"github.com/ondc-labs/rsf-settlement-service/internal/domain"
	recondto "github.com/ondc-labs/rsf-settlement-service/internal/usecase/dto/recon"
)

// The batch validator enforces all-or-nothing semantics for any
// counterparty-originated message referencing N orders. The validation
// pass mutates nothing and works on copies of the stored settlements;
// only after every order passes does the caller enter the commit pass.

type batchTransition struct {
	Settlement *domain.Settlement
	Expected   domain.ReconStatus
}

func (t batchTransition) update() domain.ReconUpdate {
	return domain.ReconUpdate{
		SettlementID: t.Settlement.SettlementID,
		Expected:     t.Expected,
		Recon:        t.Settlement.Recon,
	}
}

func updatesOf(transitions []batchTransition) []domain.ReconUpdate {
	updates := make([]domain.ReconUpdate, 0, len(transitions))
	for _, t := range transitions {
		updates = append(updates, t.update())
	}
	return updates
}

func settlementsOf(transitions []batchTransition) []*domain.Settlement {
	settlements := make([]*domain.Settlement, 0, len(transitions))
	for _, t := range transitions {
		settlements = append(settlements, t.Settlement)
	}
	return settlements
}

// callerOf extracts the counterparty identity from an inbound context
// block and checks the message is addressed to this participant.
func callerOf(pctx domain.ProtocolContext, participantID string) (string, error) {
	switch participantID {
	case pctx.BapID:
		return pctx.BppID, nil
	case pctx.BppID:
		return pctx.BapID, nil
	}
	return "", domain.NewValidationError(domain.CodeInvalidPayload, "message context does not reference participant %s", participantID)
}

// verifyCallerPair checks the calling participant's identity against
// the settlement's recorded counterparty pair.
func verifyCallerPair(s *domain.Settlement, participantID, callerID string) error {
	pairHas := func(id string) bool {
		return s.CollectorID == id || s.ReceiverID == id
	}
	if !pairHas(participantID) || !pairHas(callerID) || participantID == callerID {
		return domain.NewPreconditionError(domain.CodeMismatchedCounterparty,
			"caller %s is not the counterparty of order %s", callerID, s.OrderID)
	}
	return nil
}

func parseAmount(field, raw string, orderID string) (decimal.Decimal, error) {
	if raw == "" {
		return decimal.Zero, domain.NewValidationError(domain.CodeInvalidPayload, "order %s: missing %s", orderID, field)
	}
	value, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, domain.NewValidationError(domain.CodeInvalidPayload, "order %s: unparseable %s %q", orderID, field, raw)
	}
	return value, nil
}

func parseAmounts(orderID string, set recondto.AmountSet) (domain.ReconAmounts, error) {
	var (
		amounts domain.ReconAmounts
		err     error
	)
	if amounts.TotalOrderValue, err = parseAmount("total_order_value", set.TotalOrderValue, orderID); err != nil {
		return amounts, err
	}
	if amounts.Commission, err = parseAmount("buyer_app_finder_fee", set.Commission, orderID); err != nil {
		return amounts, err
	}
	if amounts.Tcs, err = parseAmount("tcs", set.Tcs, orderID); err != nil {
		return amounts, err
	}
	if amounts.Tds, err = parseAmount("tds", set.Tds, orderID); err != nil {
		return amounts, err
	}
	if amounts.WithholdingAmount, err = parseAmount("withholding_amount", set.WithholdingAmount, orderID); err != nil {
		return amounts, err
	}
	if amounts.InterNpSettlement, err = parseAmount("inter_np_settlement", set.InterNpSettlement, orderID); err != nil {
		return amounts, err
	}
	return amounts, nil
}
