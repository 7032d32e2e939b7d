package gateway

import (
	"bytes"
	"context"
	"crypto/ed25519"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ondc-labs/rsf-settlement-service/internal/config"
	"github.com/ondc-labs/rsf-settlement-service/internal/domain"
)

const defaultSignatureTTL = 300

type DefaultGateway struct {
	subscriberID string
	uniqueKeyID  string
	privateKey   ed25519.PrivateKey
	signatureTTL int64
	client       *http.Client
}

func NewDefaultGateway(cfg config.Gateway) (*DefaultGateway, error) {
	rawKey, err := base64.StdEncoding.DecodeString(cfg.SigningPrivateKey)
	if err != nil {
		return nil, fmt.Errorf("decoding signing private key: %w", err)
	}
	if len(rawKey) != ed25519.PrivateKeySize {
		return nil, fmt.Errorf("signing private key must be %d bytes, got %d", ed25519.PrivateKeySize, len(rawKey))
	}
	ttl := cfg.SignatureTTL
	if ttl <= 0 {
		ttl = defaultSignatureTTL
	}
	return &DefaultGateway{
		subscriberID: cfg.SubscriberID,
		uniqueKeyID:  cfg.UniqueKeyID,
		privateKey:   ed25519.PrivateKey(rawKey),
		signatureTTL: ttl,
		client:       &http.Client{Timeout: 30 * time.Second},
	}, nil
}

// Send posts a signed payload and returns whatever the counterparty
// answered. Only network-level failure is an error; a NACK body comes
// back inside SendResult for the caller to interpret.
func (g *DefaultGateway) Send(ctx context.Context, url string, payload []byte, authHeader string) (*domain.SendResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("creating request for %s: %w", url, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", authHeader)

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("posting to %s: %w", url, domain.ErrTransport)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("reading response from %s: %w", url, domain.ErrTransport)
	}

	return &domain.SendResult{StatusCode: resp.StatusCode, Body: body}, nil
}
