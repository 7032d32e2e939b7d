package mappers

import (
	"encoding/json"

	"github.com/ondc-labs/rsf-settlement-service/internal/domain"
	"github.com/ondc-labs/rsf-settlement-service/internal/infrastructure/postgres/models"
)

func ToGORMOrder(order *domain.Order) *models.OrderModel {
	breakup, _ := json.Marshal(order.Quote.Breakup)
	return &models.OrderModel{
		OrderID:           order.OrderID,
		ParticipantID:     order.ParticipantID,
		BapID:             order.BapID,
		BapURI:            order.BapURI,
		BppID:             order.BppID,
		BppURI:            order.BppURI,
		Domain:            order.Domain,
		CollectedBy:       string(order.CollectedBy),
		MSN:               order.MSN,
		QuoteTotal:        order.Quote.TotalValue,
		QuoteBreakup:      string(breakup),
		FeeAmount:         order.BuyerFinderFee.Amount,
		FeeType:           string(order.BuyerFinderFee.Type),
		State:             string(order.State),
		SettlementBasis:   string(order.SettlementBasis),
		SettlementWindow:  order.SettlementWindow,
		DueDate:           timePtr(order.DueDate),
		WithholdingAmount: order.WithholdingAmount,
		ShippedAt:         timePtr(order.ShippedAt),
		DeliveredAt:       timePtr(order.DeliveredAt),
		SettlementMarked:  order.SettlementMarked,
		CreatedAt:         order.CreatedAt,
		UpdatedAt:         order.UpdatedAt,
	}
}

func ToDomainOrder(model *models.OrderModel) *domain.Order {
	var breakup []domain.QuoteLine
	if model.QuoteBreakup != "" {
		_ = json.Unmarshal([]byte(model.QuoteBreakup), &breakup)
	}
	return &domain.Order{
		OrderID:       model.OrderID,
		ParticipantID: model.ParticipantID,
		BapID:         model.BapID,
		BapURI:        model.BapURI,
		BppID:         model.BppID,
		BppURI:        model.BppURI,
		Domain:        model.Domain,
		CollectedBy:   domain.CollectedBy(model.CollectedBy),
		MSN:           model.MSN,
		Quote: domain.Quote{
			TotalValue: model.QuoteTotal,
			Breakup:    breakup,
		},
		BuyerFinderFee: domain.BuyerFinderFee{
			Amount: model.FeeAmount,
			Type:   domain.FeeType(model.FeeType),
		},
		State:             domain.OrderState(model.State),
		SettlementBasis:   domain.SettlementBasis(model.SettlementBasis),
		SettlementWindow:  model.SettlementWindow,
		DueDate:           timeVal(model.DueDate),
		WithholdingAmount: model.WithholdingAmount,
		ShippedAt:         timeVal(model.ShippedAt),
		DeliveredAt:       timeVal(model.DeliveredAt),
		SettlementMarked:  model.SettlementMarked,
		CreatedAt:         model.CreatedAt,
		UpdatedAt:         model.UpdatedAt,
	}
}
