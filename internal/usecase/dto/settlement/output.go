package settlementdto

import "github.com/ondc-labs/rsf-settlement-service/internal/domain"

type PrepareOutput struct {
	Settlements []*domain.Settlement
}

type TriggerSettleOutput struct {
	TransactionID string
	MessageID     string
	Settlements   []*domain.Settlement
}

type Pagination struct {
	CurrentPage  int64
	TotalPages   int64
	TotalItems   int64
	ItemsPerPage int64
}

type ListOutput struct {
	Settlements []*domain.Settlement
	Pagination  Pagination
}
