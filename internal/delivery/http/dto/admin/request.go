package admindto

type PrepareRequest struct {
	ParticipantID string   `json:"participant_id"`
	OrderIDs      []string `json:"order_ids"`
}

type SettleRequest struct {
	ParticipantID  string   `json:"participant_id"`
	SettlementIDs  []string `json:"settlement_ids"`
	SettlementType string   `json:"settlement_type"`
}

type ReconInitiateRequest struct {
	ParticipantID string   `json:"participant_id"`
	SettlementIDs []string `json:"settlement_ids"`
}

type ReconAmounts struct {
	TotalOrderValue   string `json:"total_order_value"`
	Commission        string `json:"buyer_app_finder_fee"`
	Tcs               string `json:"tcs"`
	Tds               string `json:"tds"`
	WithholdingAmount string `json:"withholding_amount"`
	InterNpSettlement string `json:"inter_np_settlement"`
}

type ReconRespondRequest struct {
	ParticipantID  string                  `json:"participant_id"`
	TransactionID  string                  `json:"transaction_id"`
	Accord         bool                    `json:"accord"`
	CounterAmounts map[string]ReconAmounts `json:"counter_amounts,omitempty"`
}

type ParticipantRequest struct {
	Role             string   `json:"role"`
	SubscriberURL    string   `json:"subscriber_url"`
	Domain           string   `json:"domain"`
	NpTcs            string   `json:"np_tcs"`
	NpTds            string   `json:"np_tds"`
	MSN              bool     `json:"msn"`
	BankAccountNo    string   `json:"bank_account_no"`
	BankIfscCode     string   `json:"bank_ifsc_code"`
	ProviderName     string   `json:"provider_name"`
	SigningPublicKey string   `json:"signing_public_key"`
	Counterparties   []string `json:"counterparties"`
}

type ReconDeactivateRequest struct {
	ParticipantID string   `json:"participant_id"`
	OrderIDs      []string `json:"order_ids"`
	Reason        string   `json:"reason"`
}
