package recon

import (
	"context"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/ondc-labs/rsf-settlement-service/internal/domain"
	"github.com/ondc-labs/rsf-settlement-service/internal/infrastructure/kafka"
)

type fakeSettlementRepo struct {
	mu    sync.Mutex
	store map[string]domain.Settlement
}

func newFakeSettlementRepo(settlements ...*domain.Settlement) *fakeSettlementRepo {
	r := &fakeSettlementRepo{store: make(map[string]domain.Settlement)}
	for _, s := range settlements {
		r.store[s.SettlementID] = *s
	}
	return r
}

func (r *fakeSettlementRepo) CreateSettlements(_ context.Context, settlements []*domain.Settlement) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range settlements {
		r.store[s.SettlementID] = *s
	}
	return nil
}

func (r *fakeSettlementRepo) GetByID(_ context.Context, settlementID string) (*domain.Settlement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.store[settlementID]
	if !ok {
		return nil, fmt.Errorf("settlement %s: %w", settlementID, domain.ErrNotFound)
	}
	return &s, nil
}

func (r *fakeSettlementRepo) GetByOrderID(_ context.Context, participantID, orderID string) (*domain.Settlement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.store {
		if s.ParticipantID == participantID && s.OrderID == orderID {
			s := s
			return &s, nil
		}
	}
	return nil, fmt.Errorf("order %s: %w", orderID, domain.ErrNotFound)
}

func (r *fakeSettlementRepo) GetByTransactionID(_ context.Context, participantID, transactionID string) ([]*domain.Settlement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Settlement
	for _, s := range r.store {
		if s.ParticipantID == participantID && s.TransactionID == transactionID {
			s := s
			out = append(out, &s)
		}
	}
	return out, nil
}

func (r *fakeSettlementRepo) GetByReconTransactionID(_ context.Context, participantID, transactionID string) ([]*domain.Settlement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Settlement
	for _, s := range r.store {
		if s.ParticipantID == participantID && s.Recon.TransactionID == transactionID {
			s := s
			out = append(out, &s)
		}
	}
	return out, nil
}

func (r *fakeSettlementRepo) List(_ context.Context, filter domain.SettlementFilter) ([]*domain.Settlement, int64, error) {
	return nil, 0, nil
}

func (r *fakeSettlementRepo) UpdateStatus(_ context.Context, settlementID string, from, to domain.SettlementStatus, transactionID, messageID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.store[settlementID]
	if !ok || s.Status != from {
		return fmt.Errorf("settlement %s is not %s: %w", settlementID, from, domain.ErrConflict)
	}
	s.Status = to
	s.TransactionID = transactionID
	s.MessageID = messageID
	r.store[settlementID] = s
	return nil
}

func (r *fakeSettlementRepo) SetError(_ context.Context, settlementID, message string) error {
	return nil
}

func (r *fakeSettlementRepo) ApplyConfirmations(_ context.Context, updates []domain.ConfirmationUpdate) error {
	return nil
}

// Same guard discipline as the real repository: every row's stored
// recon status must equal the expected one or nothing commits.
func (r *fakeSettlementRepo) UpdateReconBatch(_ context.Context, updates []domain.ReconUpdate) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range updates {
		s, ok := r.store[u.SettlementID]
		if !ok || s.Recon.Status != u.Expected {
			return fmt.Errorf("settlement %s recon is not %q: %w", u.SettlementID, u.Expected, domain.ErrConflict)
		}
	}
	for _, u := range updates {
		s := r.store[u.SettlementID]
		s.Recon = u.Recon
		r.store[u.SettlementID] = s
	}
	return nil
}

func (r *fakeSettlementRepo) reconStatus(settlementID string) domain.ReconStatus {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.store[settlementID].Recon.Status
}

type fakeParticipantRepo struct {
	profiles map[string]*domain.ParticipantProfile
}

func (r *fakeParticipantRepo) GetProfile(_ context.Context, participantID string) (*domain.ParticipantProfile, error) {
	p, ok := r.profiles[participantID]
	if !ok {
		return nil, fmt.Errorf("participant %s: %w", participantID, domain.ErrNotFound)
	}
	return p, nil
}

func (r *fakeParticipantRepo) UpsertProfile(_ context.Context, profile *domain.ParticipantProfile) error {
	r.profiles[profile.ParticipantID] = profile
	return nil
}

type sentCall struct {
	URL  string
	Body []byte
}

type fakeGateway struct {
	mu        sync.Mutex
	calls     []sentCall
	ack       bool
	transport bool
}

func (g *fakeGateway) Sign(_ []byte) (string, error) {
	return `Signature keyId="test"`, nil
}

func (g *fakeGateway) Verify(_ string, _ []byte, _ string) error {
	return nil
}

func (g *fakeGateway) Send(_ context.Context, url string, payload []byte, _ string) (*domain.SendResult, error) {
	g.mu.Lock()
	g.calls = append(g.calls, sentCall{URL: url, Body: payload})
	g.mu.Unlock()
	if g.transport {
		return nil, fmt.Errorf("posting to %s: %w", url, domain.ErrTransport)
	}
	if g.ack {
		return &domain.SendResult{StatusCode: 200, Body: []byte(`{"message":{"ack":{"status":"ACK"}}}`)}, nil
	}
	return &domain.SendResult{StatusCode: 400, Body: []byte(`{"message":{"ack":{"status":"NACK"}},"error":{"code":"30002","message":"rejected"}}`)}, nil
}

func (g *fakeGateway) sent() []sentCall {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]sentCall(nil), g.calls...)
}

type fakePublisher struct {
	mu     sync.Mutex
	events []kafka.SettlementEvent
}

func (p *fakePublisher) PublishSettlementEvent(_ string, event kafka.SettlementEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *fakePublisher) PublishSettlementEvents(_ string, events []kafka.SettlementEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, events...)
	return nil
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// Our side of the pair is buyer-app; seller-app is the counterparty.
func testSettlement(settlementID, orderID string) *domain.Settlement {
	return &domain.Settlement{
		SettlementID:        settlementID,
		ParticipantID:       "buyer-app",
		OrderID:             orderID,
		CollectorID:         "buyer-app",
		ReceiverID:          "seller-app",
		TotalOrderValue:     dec("1000"),
		Commission:          dec("59"),
		Tcs:                 dec("50"),
		Tds:                 dec("60"),
		InterNpSettlement:   dec("831"),
		CollectorSettlement: dec("169"),
		Status:              domain.SettlementPending,
	}
}

func testProfiles() map[string]*domain.ParticipantProfile {
	return map[string]*domain.ParticipantProfile{
		"buyer-app": {
			ParticipantID:  "buyer-app",
			Role:           "BAP",
			SubscriberURL:  "https://buyer.example",
			Domain:         "ONDC:RET10",
			Counterparties: []string{"seller-app"},
		},
		"seller-app": {
			ParticipantID:  "seller-app",
			Role:           "BPP",
			SubscriberURL:  "https://seller.example",
			Domain:         "ONDC:RET10",
			Counterparties: []string{"buyer-app"},
		},
	}
}

func newTestUsecase(settlements ...*domain.Settlement) (*DefaultReconUsecase, *fakeSettlementRepo, *fakeGateway) {
	repo := newFakeSettlementRepo(settlements...)
	gw := &fakeGateway{ack: true}
	uc := NewDefaultReconUsecase(
		repo,
		&fakeParticipantRepo{profiles: testProfiles()},
		gw,
		&fakePublisher{},
		nil,
	)
	return uc, repo, gw
}
