package recondto

import "github.com/ondc-labs/rsf-settlement-service/internal/domain"

type InitiateOutput struct {
	TransactionID string
	MessageID     string
	Settlements   []*domain.Settlement
}
