package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type SettlementModel struct {
	SettlementID        string `gorm:"primaryKey"`
	ParticipantID       string `gorm:"uniqueIndex:idx_settlement_participant_order"`
	OrderID             string `gorm:"uniqueIndex:idx_settlement_participant_order"`
	CollectorID         string
	ReceiverID          string
	TotalOrderValue     decimal.Decimal `gorm:"type:numeric(18,2)"`
	Commission          decimal.Decimal `gorm:"type:numeric(18,2)"`
	Tcs                 decimal.Decimal `gorm:"type:numeric(18,2)"`
	Tds                 decimal.Decimal `gorm:"type:numeric(18,2)"`
	WithholdingAmount   decimal.Decimal `gorm:"type:numeric(18,2)"`
	InterNpSettlement   decimal.Decimal `gorm:"type:numeric(18,2)"`
	CollectorSettlement decimal.Decimal `gorm:"type:numeric(18,2)"`
	Status              string          `gorm:"index"`
	SelfStatus          string
	ProviderStatus      string
	SelfReference       string
	ProviderReference   string
	TransactionID       string `gorm:"index"`
	MessageID           string
	Error               string

	ReconStatus          string `gorm:"index"`
	ReconData            string
	OnReconData          string
	ReconTransactionID   string `gorm:"index"`
	ReconMessageID       string
	ReconCounterpartyID  string
	ReconCounterpartyURI string
	ReconInitiatedAt     *time.Time
	ReconRespondedAt     *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}
