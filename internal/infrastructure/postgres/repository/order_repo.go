package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/ondc-labs/rsf-settlement-service/internal/domain"
	"github.com/ondc-labs/rsf-settlement-service/internal/infrastructure/postgres/mappers"
	"github.com/ondc-labs/rsf-settlement-service/internal/infrastructure/postgres/models"
)

type DefaultOrderRepository struct {
	db *gorm.DB
}

func NewDefaultOrderRepository(db *gorm.DB) *DefaultOrderRepository {
	return &DefaultOrderRepository{db: db}
}

func (r *DefaultOrderRepository) CreateOrder(ctx context.Context, order *domain.Order) error {
	if err := r.db.WithContext(ctx).Create(mappers.ToGORMOrder(order)).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("order %s: %w", order.OrderID, domain.ErrConflict)
		}
		return err
	}
	return nil
}

func (r *DefaultOrderRepository) GetOrder(ctx context.Context, participantID, orderID string) (*domain.Order, error) {
	var model models.OrderModel
	err := r.db.WithContext(ctx).
		First(&model, "participant_id = ? AND order_id = ?", participantID, orderID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("order %s: %w", orderID, domain.ErrNotFound)
		}
		return nil, err
	}
	return mappers.ToDomainOrder(&model), nil
}

func (r *DefaultOrderRepository) UpdateOrderState(ctx context.Context, participantID, orderID string, state domain.OrderState) error {
	result := r.db.WithContext(ctx).Model(&models.OrderModel{}).
		Where("participant_id = ? AND order_id = ?", participantID, orderID).
		Updates(map[string]any{"state": string(state), "updated_at": time.Now()})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("order %s: %w", orderID, domain.ErrNotFound)
	}
	return nil
}

func (r *DefaultOrderRepository) SetFulfilment(ctx context.Context, participantID, orderID string, shippedAt, deliveredAt time.Time) error {
	updates := map[string]any{"updated_at": time.Now()}
	if !shippedAt.IsZero() {
		updates["shipped_at"] = shippedAt
	}
	if !deliveredAt.IsZero() {
		updates["delivered_at"] = deliveredAt
	}
	result := r.db.WithContext(ctx).Model(&models.OrderModel{}).
		Where("participant_id = ? AND order_id = ?", participantID, orderID).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("order %s: %w", orderID, domain.ErrNotFound)
	}
	return nil
}

func (r *DefaultOrderRepository) SetDueDate(ctx context.Context, participantID, orderID string, dueDate time.Time) error {
	return r.db.WithContext(ctx).Model(&models.OrderModel{}).
		Where("participant_id = ? AND order_id = ? AND due_date IS NULL", participantID, orderID).
		Updates(map[string]any{"due_date": dueDate, "updated_at": time.Now()}).Error
}

func (r *DefaultOrderRepository) MarkSettlementInitiated(ctx context.Context, participantID, orderID string) error {
	result := r.db.WithContext(ctx).Model(&models.OrderModel{}).
		Where("participant_id = ? AND order_id = ? AND settlement_marked = false", participantID, orderID).
		Updates(map[string]any{"settlement_marked": true, "updated_at": time.Now()})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("order %s already marked: %w", orderID, domain.ErrConflict)
	}
	return nil
}
