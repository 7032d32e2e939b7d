package domain

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type OrderState string

const (
	OrderCreated    OrderState = "CREATED"
	OrderAccepted   OrderState = "ACCEPTED"
	OrderInProgress OrderState = "IN_PROGRESS"
	OrderCompleted  OrderState = "COMPLETED"
	OrderCancelled  OrderState = "CANCELLED"
)

type CollectedBy string

const (
	CollectedByBAP CollectedBy = "BAP"
	CollectedByBPP CollectedBy = "BPP"
)

type FeeType string

const (
	FeePercent FeeType = "percent"
	FeeAmount  FeeType = "amount"
)

type SettlementBasis string

const (
	BasisDelivery SettlementBasis = "delivery"
	BasisShipment SettlementBasis = "shipment"
)

// Retail food & beverage domain: item tax moves between the parties
// instead of feeding the TCS base.
const DomainRetailFnB = "ONDC:RET11"

type QuoteLine struct {
	Title  string
	Amount decimal.Decimal
	IsTax  bool
}

type Quote struct {
	TotalValue decimal.Decimal
	Breakup    []QuoteLine
}

// ItemTax sums the tax-flagged lines of the breakup.
func (q Quote) ItemTax() decimal.Decimal {
	tax := decimal.Zero
	for _, line := range q.Breakup {
		if line.IsTax {
			tax = tax.Add(line.Amount)
		}
	}
	return tax
}

type BuyerFinderFee struct {
	Amount decimal.Decimal
	Type   FeeType
}

type Order struct {
	OrderID           string
	ParticipantID     string
	BapID             string
	BapURI            string
	BppID             string
	BppURI            string
	Domain            string
	CollectedBy       CollectedBy
	MSN               bool
	Quote             Quote
	BuyerFinderFee    BuyerFinderFee
	State             OrderState
	SettlementBasis   SettlementBasis
	SettlementWindow  string
	DueDate           time.Time
	WithholdingAmount decimal.Decimal
	ShippedAt         time.Time
	DeliveredAt       time.Time
	SettlementMarked  bool
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// CollectorID returns the participant that physically receives the
// customer's payment.
func (o *Order) CollectorID() string {
	if o.CollectedBy == CollectedByBPP {
		return o.BppID
	}
	return o.BapID
}

func (o *Order) ReceiverID() string {
	if o.CollectedBy == CollectedByBPP {
		return o.BapID
	}
	return o.BppID
}

// ComputeDueDate derives the settlement due date from the basis
// timestamp plus the settlement window. Called exactly once, when the
// order reaches COMPLETED.
func (o *Order) ComputeDueDate() (time.Time, error) {
	basis := o.DeliveredAt
	if o.SettlementBasis == BasisShipment {
		basis = o.ShippedAt
	}
	if basis.IsZero() {
		return time.Time{}, fmt.Errorf("order %s: no %s timestamp for due date", o.OrderID, o.SettlementBasis)
	}
	window, err := ParseWindow(o.SettlementWindow)
	if err != nil {
		return time.Time{}, err
	}
	return basis.Add(window), nil
}

// ParseWindow parses the ISO-8601 duration subset used for settlement
// windows: PnD, PTnH, PTnM and combinations like P1DT12H.
func ParseWindow(s string) (time.Duration, error) {
	if len(s) < 2 || s[0] != 'P' {
		return 0, fmt.Errorf("invalid settlement window %q", s)
	}
	rest := s[1:]
	datePart := rest
	timePart := ""
	if i := strings.IndexByte(rest, 'T'); i >= 0 {
		datePart, timePart = rest[:i], rest[i+1:]
	}
	var total time.Duration
	consume := func(part string, units map[byte]time.Duration) error {
		num := ""
		for i := 0; i < len(part); i++ {
			c := part[i]
			if c >= '0' && c <= '9' {
				num += string(c)
				continue
			}
			unit, ok := units[c]
			if !ok || num == "" {
				return fmt.Errorf("invalid settlement window %q", s)
			}
			n, err := strconv.Atoi(num)
			if err != nil {
				return fmt.Errorf("invalid settlement window %q", s)
			}
			total += time.Duration(n) * unit
			num = ""
		}
		if num != "" {
			return fmt.Errorf("invalid settlement window %q", s)
		}
		return nil
	}
	if err := consume(datePart, map[byte]time.Duration{'D': 24 * time.Hour}); err != nil {
		return 0, err
	}
	if err := consume(timePart, map[byte]time.Duration{'H': time.Hour, 'M': time.Minute, 'S': time.Second}); err != nil {
		return 0, err
	}
	if total == 0 {
		return 0, fmt.Errorf("invalid settlement window %q", s)
	}
	return total, nil
}

type OrderRepository interface {
	CreateOrder(ctx context.Context, order *Order) error
	GetOrder(ctx context.Context, participantID, orderID string) (*Order, error)
	UpdateOrderState(ctx context.Context, participantID, orderID string, state OrderState) error
	SetFulfilment(ctx context.Context, participantID, orderID string, shippedAt, deliveredAt time.Time) error
	// SetDueDate writes the due date only when it is still unset.
	SetDueDate(ctx context.Context, participantID, orderID string, dueDate time.Time) error
	// MarkSettlementInitiated flips the settlement flag only if it is
	// still unset, so a concurrent prepare loses with ErrConflict.
	MarkSettlementInitiated(ctx context.Context, participantID, orderID string) error
}
