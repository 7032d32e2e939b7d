package mappers

import (
	"encoding/json"

	"github.com/ondc-labs/rsf-settlement-service/internal/domain"
	"github.com/ondc-labs/rsf-settlement-service/internal/infrastructure/postgres/models"
)

func ToDomainParticipant(model *models.ParticipantModel) *domain.ParticipantProfile {
	var counterparties []string
	if model.Counterparties != "" {
		_ = json.Unmarshal([]byte(model.Counterparties), &counterparties)
	}
	return &domain.ParticipantProfile{
		ParticipantID:    model.ParticipantID,
		Role:             model.Role,
		SubscriberURL:    model.SubscriberURL,
		Domain:           model.Domain,
		NpTcs:            model.NpTcs,
		NpTds:            model.NpTds,
		MSN:              model.MSN,
		BankAccountNo:    model.BankAccountNo,
		BankIfscCode:     model.BankIfscCode,
		ProviderName:     model.ProviderName,
		SigningPublicKey: model.SigningPublicKey,
		Counterparties:   counterparties,
	}
}

func ToGORMParticipant(profile *domain.ParticipantProfile) *models.ParticipantModel {
	counterparties, _ := json.Marshal(profile.Counterparties)
	return &models.ParticipantModel{
		ParticipantID:    profile.ParticipantID,
		Role:             profile.Role,
		SubscriberURL:    profile.SubscriberURL,
		Domain:           profile.Domain,
		NpTcs:            profile.NpTcs,
		NpTds:            profile.NpTds,
		MSN:              profile.MSN,
		BankAccountNo:    profile.BankAccountNo,
		BankIfscCode:     profile.BankIfscCode,
		ProviderName:     profile.ProviderName,
		SigningPublicKey: profile.SigningPublicKey,
		Counterparties:   string(counterparties),
	}
}
