package settlementdto

import "github.com/ondc-labs/rsf-settlement-service/internal/domain"

type PrepareInput struct {
	ParticipantID string
	OrderIDs      []string
}

type TriggerSettleInput struct {
	ParticipantID  string
	SettlementIDs  []string
	SettlementType string
}

type ConfirmationEntry struct {
	OrderID           string
	SelfStatus        string
	ProviderStatus    string
	SelfReference     string
	ProviderReference string
}

type OnSettleInput struct {
	ParticipantID string
	Context       domain.ProtocolContext
	Entries       []ConfirmationEntry
}

type ListInput struct {
	ParticipantID string
	OrderID       string
	Status        string
	ReconStatus   string
	Page          int64
	Limit         int64
}
