package mappers

import (
	"encoding/json"
	"time"

	"github.com/ondc-labs/rsf-settlement-service/internal/domain"
	"github.com/ondc-labs/rsf-settlement-service/internal/infrastructure/postgres/models"
)

func ToGORMSettlement(s *domain.Settlement) *models.SettlementModel {
	return &models.SettlementModel{
		SettlementID:        s.SettlementID,
		ParticipantID:       s.ParticipantID,
		OrderID:             s.OrderID,
		CollectorID:         s.CollectorID,
		ReceiverID:          s.ReceiverID,
		TotalOrderValue:     s.TotalOrderValue,
		Commission:          s.Commission,
		Tcs:                 s.Tcs,
		Tds:                 s.Tds,
		WithholdingAmount:   s.WithholdingAmount,
		InterNpSettlement:   s.InterNpSettlement,
		CollectorSettlement: s.CollectorSettlement,
		Status:              string(s.Status),
		SelfStatus:          string(s.SelfStatus),
		ProviderStatus:      string(s.ProviderStatus),
		SelfReference:       s.SelfReference,
		ProviderReference:   s.ProviderReference,
		TransactionID:       s.TransactionID,
		MessageID:           s.MessageID,
		Error:               s.Error,

		ReconStatus:          string(s.Recon.Status),
		ReconData:            amountsToJSON(s.Recon.ReconData),
		OnReconData:          amountsToJSON(s.Recon.OnReconData),
		ReconTransactionID:   s.Recon.TransactionID,
		ReconMessageID:       s.Recon.MessageID,
		ReconCounterpartyID:  s.Recon.CounterpartyID,
		ReconCounterpartyURI: s.Recon.CounterpartyURI,
		ReconInitiatedAt:     timePtr(s.Recon.InitiatedAt),
		ReconRespondedAt:     timePtr(s.Recon.RespondedAt),

		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}

func ToDomainSettlement(model *models.SettlementModel) *domain.Settlement {
	return &domain.Settlement{
		SettlementID:        model.SettlementID,
		ParticipantID:       model.ParticipantID,
		OrderID:             model.OrderID,
		CollectorID:         model.CollectorID,
		ReceiverID:          model.ReceiverID,
		TotalOrderValue:     model.TotalOrderValue,
		Commission:          model.Commission,
		Tcs:                 model.Tcs,
		Tds:                 model.Tds,
		WithholdingAmount:   model.WithholdingAmount,
		InterNpSettlement:   model.InterNpSettlement,
		CollectorSettlement: model.CollectorSettlement,
		Status:              domain.SettlementStatus(model.Status),
		SelfStatus:          domain.PartStatus(model.SelfStatus),
		ProviderStatus:      domain.PartStatus(model.ProviderStatus),
		SelfReference:       model.SelfReference,
		ProviderReference:   model.ProviderReference,
		TransactionID:       model.TransactionID,
		MessageID:           model.MessageID,
		Error:               model.Error,
		Recon: domain.ReconciliationInfo{
			Status:          domain.ReconStatus(model.ReconStatus),
			ReconData:       amountsFromJSON(model.ReconData),
			OnReconData:     amountsFromJSON(model.OnReconData),
			TransactionID:   model.ReconTransactionID,
			MessageID:       model.ReconMessageID,
			CounterpartyID:  model.ReconCounterpartyID,
			CounterpartyURI: model.ReconCounterpartyURI,
			InitiatedAt:     timeVal(model.ReconInitiatedAt),
			RespondedAt:     timeVal(model.ReconRespondedAt),
		},
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	}
}

func amountsToJSON(amounts *domain.ReconAmounts) string {
	if amounts == nil {
		return ""
	}
	raw, err := json.Marshal(amounts)
	if err != nil {
		return ""
	}
	return string(raw)
}

func amountsFromJSON(raw string) *domain.ReconAmounts {
	if raw == "" {
		return nil
	}
	var amounts domain.ReconAmounts
	if err := json.Unmarshal([]byte(raw), &amounts); err != nil {
		return nil
	}
	return &amounts
}

func timePtr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

func timeVal(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}
