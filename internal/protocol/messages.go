// Package protocol defines the wire shapes of the settle / on_settle /
// recon / on_recon network actions, shared by the outbound builders and
// the inbound handlers. Amounts travel as strings so neither side is
// exposed to float rounding on the wire.
package protocol

import "github.com/ondc-labs/rsf-settlement-service/internal/domain"

type SettleRequest struct {
	Context domain.ProtocolContext `json:"context"`
	Message SettleMessage          `json:"message"`
}

type SettleMessage struct {
	Settlement SettleBody `json:"settlement"`
}

type SettleBody struct {
	Type   string        `json:"type"`
	Orders []SettleOrder `json:"orders"`
}

type SettleOrder struct {
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
}

type OnSettleRequest struct {
	Context domain.ProtocolContext `json:"context"`
	Message OnSettleMessage        `json:"message"`
}

type OnSettleMessage struct {
	Settlement OnSettleBody `json:"settlement"`
}

type OnSettleBody struct {
	Orders []OnSettleOrder `json:"orders"`
}

type OnSettleOrder struct {
	OrderID           string `json:"order_id"`
	SelfStatus        string `json:"self_status"`
	ProviderStatus    string `json:"provider_status"`
	SelfReference     string `json:"self_reference"`
	ProviderReference string `json:"provider_reference"`
	ErrorMessage      string `json:"error_message,omitempty"`
}

type ReconAmounts struct {
	TotalOrderValue   string `json:"total_order_value"`
	Commission        string `json:"buyer_app_finder_fee"`
	Tcs               string `json:"tcs"`
	Tds               string `json:"tds"`
	WithholdingAmount string `json:"withholding_amount"`
	InterNpSettlement string `json:"inter_np_settlement"`
}

type ReconRequest struct {
	Context domain.ProtocolContext `json:"context"`
	Message ReconMessage           `json:"message"`
}

type ReconMessage struct {
	Orders []ReconOrder `json:"orders"`
}

type ReconOrder struct {
	OrderID   string       `json:"id"`
	ReconData ReconAmounts `json:"recon_data"`
}

type OnReconRequest struct {
	Context domain.ProtocolContext `json:"context"`
	Message OnReconMessage         `json:"message"`
}

type OnReconMessage struct {
	Orders []OnReconOrder `json:"orders"`
}

type OnReconOrder struct {
	OrderID     string        `json:"id"`
	Accord      bool          `json:"recon_accord"`
	OnReconData *ReconAmounts `json:"on_recon_data,omitempty"`
}
