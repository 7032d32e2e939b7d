package admindto

import (
	"time"

	"github.com/ondc-labs/rsf-settlement-service/internal/domain"
)

type SettlementView struct {
	SettlementID        string `json:"settlement_id"`
	ParticipantID       string `json:"participant_id"`
	OrderID             string `json:"order_id"`
	CollectorID         string `json:"collector_app_id"`
	ReceiverID          string `json:"receiver_app_id"`
	TotalOrderValue     string `json:"total_order_value"`
	Commission          string `json:"buyer_app_finder_fee"`
	Tcs                 string `json:"tcs"`
	Tds                 string `json:"tds"`
	WithholdingAmount   string `json:"withholding_amount"`
	InterNpSettlement   string `json:"inter_np_settlement"`
	CollectorSettlement string `json:"collector_settlement"`
	Status              string `json:"status"`
	SelfStatus          string `json:"self_status,omitempty"`
	ProviderStatus      string `json:"provider_status,omitempty"`
	TransactionID       string `json:"transaction_id,omitempty"`
	MessageID           string `json:"message_id,omitempty"`
	ReconStatus         string `json:"recon_status,omitempty"`
	Error               string `json:"error,omitempty"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

func ToSettlementView(s *domain.Settlement) SettlementView {
	return SettlementView{
		SettlementID:        s.SettlementID,
		ParticipantID:       s.ParticipantID,
		OrderID:             s.OrderID,
		CollectorID:         s.CollectorID,
		ReceiverID:          s.ReceiverID,
		TotalOrderValue:     s.TotalOrderValue.StringFixed(2),
		Commission:          s.Commission.StringFixed(2),
		Tcs:                 s.Tcs.StringFixed(2),
		Tds:                 s.Tds.StringFixed(2),
		WithholdingAmount:   s.WithholdingAmount.StringFixed(2),
		InterNpSettlement:   s.InterNpSettlement.StringFixed(2),
		CollectorSettlement: s.CollectorSettlement.StringFixed(2),
		Status:              string(s.Status),
		SelfStatus:          string(s.SelfStatus),
		ProviderStatus:      string(s.ProviderStatus),
		TransactionID:       s.TransactionID,
		MessageID:           s.MessageID,
		ReconStatus:         string(s.Recon.Status),
		Error:               s.Error,
		CreatedAt:           s.CreatedAt,
		UpdatedAt:           s.UpdatedAt,
	}
}

func ToSettlementViews(settlements []*domain.Settlement) []SettlementView {
	views := make([]SettlementView, len(settlements))
	for i, s := range settlements {
		views[i] = ToSettlementView(s)
	}
	return views
}

type PrepareResponse struct {
	Settlements []SettlementView `json:"settlements"`
}

type SettleResponse struct {
	TransactionID string           `json:"transaction_id"`
	MessageID     string           `json:"message_id"`
	Settlements   []SettlementView `json:"settlements"`
}

type ReconInitiateResponse struct {
	TransactionID string           `json:"transaction_id"`
	MessageID     string           `json:"message_id"`
	Settlements   []SettlementView `json:"settlements"`
}

type Pagination struct {
	CurrentPage  int64 `json:"current_page"`
	TotalPages   int64 `json:"total_pages"`
	TotalItems   int64 `json:"total_items"`
	ItemsPerPage int64 `json:"items_per_page"`
}

type ListResponse struct {
	Settlements []SettlementView `json:"settlements"`
	Pagination  Pagination       `json:"pagination"`
}

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
