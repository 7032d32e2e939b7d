package domain

import (
	"context"

	"github.com/shopspring/decimal"
)

// ParticipantProfile is read-only input to settlement preparation and
// inbound call admission.
type ParticipantProfile struct {
	ParticipantID    string
	Role             string
	SubscriberURL    string
	Domain           string
	NpTcs            decimal.Decimal
	NpTds            decimal.Decimal
	MSN              bool
	BankAccountNo    string
	BankIfscCode     string
	ProviderName     string
	SigningPublicKey string
	Counterparties   []string
}

// AllowsCounterparty checks the allowlist; an empty list allows no one.
func (p *ParticipantProfile) AllowsCounterparty(counterpartyID string) bool {
	for _, id := range p.Counterparties {
		if id == counterpartyID {
			return true
		}
	}
	return false
}

type ParticipantRepository interface {
	GetProfile(ctx context.Context, participantID string) (*ParticipantProfile, error)
	UpsertProfile(ctx context.Context, profile *ParticipantProfile) error
}
