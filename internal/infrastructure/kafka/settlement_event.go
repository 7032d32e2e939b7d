package kafka

import "time"

// SettlementEvent is emitted on every settlement or recon status
// transition for downstream audit consumers.
type SettlementEvent struct {
	SettlementID  string    `json:"settlement_id"`
	ParticipantID string    `json:"participant_id"`
	OrderID       string    `json:"order_id"`
	Status        string    `json:"status"`
	ReconStatus   string    `json:"recon_status,omitempty"`
	TransactionID string    `json:"transaction_id,omitempty"`
	MessageID     string    `json:"message_id,omitempty"`
	Error         string    `json:"error,omitempty"`
	OccurredAt    time.Time `json:"occurred_at"`
}
