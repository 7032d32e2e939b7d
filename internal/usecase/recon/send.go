package recon

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ondc-labs/rsf-settlement-service/internal/domain"
)

func (uc *DefaultReconUsecase) sendSigned(ctx context.Context, baseURL, action string, payload any) (*domain.AckResponse, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, domain.NewUnexpectedError(err)
	}

	authHeader, err := uc.gateway.Sign(body)
	if err != nil {
		return nil, domain.NewTransportError(err, "signing %s", action)
	}

	started := time.Now()
	result, err := uc.gateway.Send(ctx, fmt.Sprintf("%s/%s", baseURL, action), body, authHeader)
	if uc.metrics != nil {
		outcome := "ack"
		if err != nil {
			outcome = "transport_error"
		}
		uc.metrics.RecordOutboundCall(action, outcome, time.Since(started).Seconds())
	}
	if err != nil {
		return nil, domain.NewTransportError(err, "sending %s", action)
	}

	var ack domain.AckResponse
	if err := json.Unmarshal(result.Body, &ack); err != nil {
		return nil, domain.NewTransportError(err, "unreadable %s response", action)
	}
	if uc.metrics != nil && !ack.IsAck() {
		uc.metrics.RecordOutboundCall(action, "nack", 0)
	}
	return &ack, nil
}
