package kafka

import "time"

// OrderEvent is the inbound order lifecycle event. A "confirmed" event
// creates the local order record; status events mutate it afterwards.
type OrderEvent struct {
	EventType     string `json:"event_type"` // confirmed, status_updated, cancelled
	ParticipantID string `json:"participant_id"`
	OrderID       string `json:"order_id"`
	BapID         string `json:"bap_id"`
	BapURI        string `json:"bap_uri"`
	BppID         string `json:"bpp_id"`
	BppURI        string `json:"bpp_uri"`
	Domain        string `json:"domain"`
	CollectedBy   string `json:"collected_by"`
	MSN           bool   `json:"msn"`

	State            string           `json:"state,omitempty"`
	SettlementBasis  string           `json:"settlement_basis,omitempty"`
	SettlementWindow string           `json:"settlement_window,omitempty"`
	Withholding      string           `json:"withholding_amount,omitempty"`
	FeeAmount        string           `json:"buyer_finder_fee_amount,omitempty"`
	FeeType          string           `json:"buyer_finder_fee_type,omitempty"`
	QuoteTotal       string           `json:"quote_total,omitempty"`
	QuoteBreakup     []OrderEventLine `json:"quote_breakup,omitempty"`
	ShippedAt        time.Time        `json:"shipped_at,omitempty"`
	DeliveredAt      time.Time        `json:"delivered_at,omitempty"`
}

type OrderEventLine struct {
	Title  string `json:"title"`
	Amount string `json:"amount"`
	IsTax  bool   `json:"is_tax"`
}
