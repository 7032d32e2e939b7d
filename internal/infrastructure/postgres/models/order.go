package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderModel struct {
	OrderID           string `gorm:"primaryKey"`
	ParticipantID     string `gorm:"primaryKey"`
	BapID             string
	BapURI            string
	BppID             string
	BppURI            string
	Domain            string
	CollectedBy       string
	MSN               bool
	QuoteTotal        decimal.Decimal `gorm:"type:numeric(18,2)"`
	QuoteBreakup      string
	FeeAmount         decimal.Decimal `gorm:"type:numeric(18,4)"`
	FeeType           string
	State             string `gorm:"index"`
	SettlementBasis   string
	SettlementWindow  string
	DueDate           *time.Time
	WithholdingAmount decimal.Decimal `gorm:"type:numeric(18,2)"`
	ShippedAt         *time.Time
	DeliveredAt       *time.Time
	SettlementMarked  bool
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
