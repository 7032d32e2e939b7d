package domain

import (
	"context"
	"time"
)

// ProtocolContext is the context block every network message carries.
// TransactionID and MessageID jointly identify one logical exchange
// and must be echoed verbatim by the matching response.
type ProtocolContext struct {
	Domain        string    `json:"domain"`
	Version       string    `json:"version"`
	Action        string    `json:"action"`
	BapID         string    `json:"bap_id"`
	BapURI        string    `json:"bap_uri"`
	BppID         string    `json:"bpp_id"`
	BppURI        string    `json:"bpp_uri"`
	TransactionID string    `json:"transaction_id"`
	MessageID     string    `json:"message_id"`
	Timestamp     time.Time `json:"timestamp"`
	TTL           string    `json:"ttl"`
}

const (
	ActionSettle   = "settle"
	ActionOnSettle = "on_settle"
	ActionRecon    = "recon"
	ActionOnRecon  = "on_recon"
)

type AckStatus struct {
	Status string `json:"status"`
}

type AckMessage struct {
	Ack AckStatus `json:"ack"`
}

type AckError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// AckResponse is the acknowledgement envelope of every inbound call.
// A NACK is still transport-success.
type AckResponse struct {
	Message AckMessage `json:"message"`
	Error   *AckError  `json:"error,omitempty"`
}

func (a AckResponse) IsAck() bool {
	return a.Message.Ack.Status == "ACK"
}

// SendResult is a counterparty's HTTP-level answer. Absence of a
// result (transport failure) is a distinct outcome surfaced as
// ErrTransport by the gateway.
type SendResult struct {
	StatusCode int
	Body       []byte
}

// Gateway is the signed-message transport consumed by the core. The
// signing primitives behind it are opaque to the lifecycle managers.
type Gateway interface {
	Sign(payload []byte) (string, error)
	Verify(authHeader string, body []byte, publicKey string) error
	Send(ctx context.Context, url string, payload []byte, authHeader string) (*SendResult, error)
}
