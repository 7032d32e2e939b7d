package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type ParticipantModel struct {
	ParticipantID    string `gorm:"primaryKey"`
	Role             string
	SubscriberURL    string
	Domain           string
	NpTcs            decimal.Decimal `gorm:"type:numeric(8,4)"`
	NpTds            decimal.Decimal `gorm:"type:numeric(8,4)"`
	MSN              bool
	BankAccountNo    string
	BankIfscCode     string
	ProviderName     string
	SigningPublicKey string
	Counterparties   string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
