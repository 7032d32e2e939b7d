package settlement

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ondc-labs/rsf-settlement-service/internal/domain"
	"github.com/ondc-labs/rsf-settlement-service/internal/infrastructure/kafka"
)

// In-memory doubles with the same contract as the postgres
// repositories: value-copy reads, conditional writes.

type fakeSettlementRepo struct {
	mu    sync.Mutex
	store map[string]domain.Settlement
}

func newFakeSettlementRepo() *fakeSettlementRepo {
	return &fakeSettlementRepo{store: make(map[string]domain.Settlement)}
}

func (r *fakeSettlementRepo) CreateSettlements(_ context.Context, settlements []*domain.Settlement) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range settlements {
		for _, existing := range r.store {
			if existing.ParticipantID == s.ParticipantID && existing.OrderID == s.OrderID {
				return fmt.Errorf("order %s: %w", s.OrderID, domain.ErrDuplicateSettlement)
			}
		}
	}
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
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Settlement
	for _, s := range r.store {
		if s.ParticipantID != filter.ParticipantID {
			continue
		}
		if filter.OrderID != "" && s.OrderID != filter.OrderID {
			continue
		}
		if filter.Status != "" && string(s.Status) != filter.Status {
			continue
		}
		s := s
		out = append(out, &s)
	}
	return out, int64(len(out)), nil
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
	s.Error = ""
	r.store[settlementID] = s
	return nil
}

func (r *fakeSettlementRepo) SetError(_ context.Context, settlementID, message string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.store[settlementID]
	if !ok {
		return domain.ErrNotFound
	}
	s.Error = message
	r.store[settlementID] = s
	return nil
}

func (r *fakeSettlementRepo) ApplyConfirmations(_ context.Context, updates []domain.ConfirmationUpdate) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range updates {
		s, ok := r.store[u.SettlementID]
		if !ok || s.Status != u.Expected {
			return fmt.Errorf("settlement %s is not %s: %w", u.SettlementID, u.Expected, domain.ErrConflict)
		}
	}
	for _, u := range updates {
		s := r.store[u.SettlementID]
		s.Status = u.Status
		s.SelfStatus = u.SelfStatus
		s.ProviderStatus = u.ProviderStatus
		s.SelfReference = u.SelfReference
		s.ProviderReference = u.ProviderReference
		r.store[u.SettlementID] = s
	}
	return nil
}

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

func (r *fakeSettlementRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.store)
}

type fakeOrderRepo struct {
	mu    sync.Mutex
	store map[string]domain.Order
}

func newFakeOrderRepo(orders ...*domain.Order) *fakeOrderRepo {
	r := &fakeOrderRepo{store: make(map[string]domain.Order)}
	for _, o := range orders {
		r.store[o.OrderID] = *o
	}
	return r
}

func (r *fakeOrderRepo) CreateOrder(_ context.Context, order *domain.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.store[order.OrderID]; ok {
		return domain.ErrConflict
	}
	r.store[order.OrderID] = *order
	return nil
}

func (r *fakeOrderRepo) GetOrder(_ context.Context, _, orderID string) (*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.store[orderID]
	if !ok {
		return nil, fmt.Errorf("order %s: %w", orderID, domain.ErrNotFound)
	}
	return &o, nil
}

func (r *fakeOrderRepo) UpdateOrderState(_ context.Context, _, orderID string, state domain.OrderState) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.store[orderID]
	if !ok {
		return domain.ErrNotFound
	}
	o.State = state
	r.store[orderID] = o
	return nil
}

func (r *fakeOrderRepo) SetFulfilment(_ context.Context, _, orderID string, shippedAt, deliveredAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.store[orderID]
	if !ok {
		return domain.ErrNotFound
	}
	if !shippedAt.IsZero() {
		o.ShippedAt = shippedAt
	}
	if !deliveredAt.IsZero() {
		o.DeliveredAt = deliveredAt
	}
	r.store[orderID] = o
	return nil
}

func (r *fakeOrderRepo) SetDueDate(_ context.Context, _, orderID string, dueDate time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.store[orderID]
	if !ok {
		return domain.ErrNotFound
	}
	if o.DueDate.IsZero() {
		o.DueDate = dueDate
		r.store[orderID] = o
	}
	return nil
}

func (r *fakeOrderRepo) MarkSettlementInitiated(_ context.Context, _, orderID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.store[orderID]
	if !ok || o.SettlementMarked {
		return fmt.Errorf("order %s already marked: %w", orderID, domain.ErrConflict)
	}
	o.SettlementMarked = true
	r.store[orderID] = o
	return nil
}

func (r *fakeOrderRepo) marked(orderID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.store[orderID].SettlementMarked
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
	nackCode  string
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
	body := fmt.Sprintf(`{"message":{"ack":{"status":"NACK"}},"error":{"code":%q,"message":"rejected"}}`, g.nackCode)
	return &domain.SendResult{StatusCode: 400, Body: []byte(body)}, nil
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

func completedOrder(orderID string) *domain.Order {
	return &domain.Order{
		OrderID:       orderID,
		ParticipantID: "buyer-app",
		BapID:         "buyer-app",
		BapURI:        "https://buyer.example",
		BppID:         "seller-app",
		BppURI:        "https://seller.example",
		Domain:        "ONDC:RET10",
		CollectedBy:   domain.CollectedByBAP,
		Quote:         domain.Quote{TotalValue: dec("1000")},
		BuyerFinderFee: domain.BuyerFinderFee{
			Amount: dec("50"),
			Type:   domain.FeeAmount,
		},
		State:            domain.OrderCompleted,
		SettlementBasis:  domain.BasisDelivery,
		SettlementWindow: "P2D",
	}
}

func testProfiles() map[string]*domain.ParticipantProfile {
	return map[string]*domain.ParticipantProfile{
		"buyer-app": {
			ParticipantID:  "buyer-app",
			Role:           "BAP",
			SubscriberURL:  "https://buyer.example",
			Domain:         "ONDC:RET10",
			NpTcs:          dec("5"),
			NpTds:          dec("6"),
			Counterparties: []string{"seller-app"},
		},
		"seller-app": {
			ParticipantID:  "seller-app",
			Role:           "BPP",
			SubscriberURL:  "https://seller.example",
			Domain:         "ONDC:RET10",
			NpTcs:          dec("5"),
			NpTds:          dec("6"),
			Counterparties: []string{"buyer-app"},
		},
	}
}

func newTestUsecase(orders ...*domain.Order) (*DefaultSettlementUsecase, *fakeSettlementRepo, *fakeOrderRepo, *fakeGateway) {
	settlementRepo := newFakeSettlementRepo()
	orderRepo := newFakeOrderRepo(orders...)
	gw := &fakeGateway{ack: true}
	uc := NewDefaultSettlementUsecase(
		settlementRepo,
		orderRepo,
		&fakeParticipantRepo{profiles: testProfiles()},
		gw,
		&fakePublisher{},
		nil,
	)
	return uc, settlementRepo, orderRepo, gw
}
