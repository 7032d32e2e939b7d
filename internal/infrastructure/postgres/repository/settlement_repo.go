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

type DefaultSettlementRepository struct {
	db *gorm.DB
}

func NewDefaultSettlementRepository(db *gorm.DB) *DefaultSettlementRepository {
	return &DefaultSettlementRepository{db: db}
}

func (r *DefaultSettlementRepository) CreateSettlements(ctx context.Context, settlements []*domain.Settlement) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, s := range settlements {
			if err := tx.Create(mappers.ToGORMSettlement(s)).Error; err != nil {
				if errors.Is(err, gorm.ErrDuplicatedKey) {
					return fmt.Errorf("order %s: %w", s.OrderID, domain.ErrDuplicateSettlement)
				}
				return err
			}
		}
		return nil
	})
}

func (r *DefaultSettlementRepository) GetByID(ctx context.Context, settlementID string) (*domain.Settlement, error) {
	var model models.SettlementModel
	if err := r.db.WithContext(ctx).First(&model, "settlement_id = ?", settlementID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("settlement %s: %w", settlementID, domain.ErrNotFound)
		}
		return nil, err
	}
	return mappers.ToDomainSettlement(&model), nil
}

func (r *DefaultSettlementRepository) GetByOrderID(ctx context.Context, participantID, orderID string) (*domain.Settlement, error) {
	var model models.SettlementModel
	err := r.db.WithContext(ctx).
		First(&model, "participant_id = ? AND order_id = ?", participantID, orderID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("order %s: %w", orderID, domain.ErrNotFound)
		}
		return nil, err
	}
	return mappers.ToDomainSettlement(&model), nil
}

func (r *DefaultSettlementRepository) GetByTransactionID(ctx context.Context, participantID, transactionID string) ([]*domain.Settlement, error) {
	var settlementModels []models.SettlementModel
	err := r.db.WithContext(ctx).
		Where("participant_id = ? AND transaction_id = ?", participantID, transactionID).
		Find(&settlementModels).Error
	if err != nil {
		return nil, err
	}
	return toDomainSettlements(settlementModels), nil
}

func (r *DefaultSettlementRepository) GetByReconTransactionID(ctx context.Context, participantID, transactionID string) ([]*domain.Settlement, error) {
	var settlementModels []models.SettlementModel
	err := r.db.WithContext(ctx).
		Where("participant_id = ? AND recon_transaction_id = ?", participantID, transactionID).
		Find(&settlementModels).Error
	if err != nil {
		return nil, err
	}
	return toDomainSettlements(settlementModels), nil
}

func (r *DefaultSettlementRepository) List(ctx context.Context, filter domain.SettlementFilter) ([]*domain.Settlement, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.SettlementModel{}).
		Where("participant_id = ?", filter.ParticipantID)

	if filter.OrderID != "" {
		query = query.Where("order_id = ?", filter.OrderID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.ReconStatus != "" {
		query = query.Where("recon_status = ?", filter.ReconStatus)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count settlements: %w", err)
	}

	offset := (filter.Page - 1) * filter.Limit
	var settlementModels []models.SettlementModel
	err := query.
		Order("created_at DESC").
		Offset(int(offset)).
		Limit(int(filter.Limit)).
		Find(&settlementModels).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to find settlements: %w", err)
	}

	return toDomainSettlements(settlementModels), total, nil
}

func (r *DefaultSettlementRepository) UpdateStatus(ctx context.Context, settlementID string, from, to domain.SettlementStatus, transactionID, messageID string) error {
	result := r.db.WithContext(ctx).Model(&models.SettlementModel{}).
		Where("settlement_id = ? AND status = ?", settlementID, string(from)).
		Updates(map[string]any{
			"status":         string(to),
			"transaction_id": transactionID,
			"message_id":     messageID,
			"error":          "",
			"updated_at":     time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("settlement %s is not %s: %w", settlementID, from, domain.ErrConflict)
	}
	return nil
}

func (r *DefaultSettlementRepository) SetError(ctx context.Context, settlementID, message string) error {
	return r.db.WithContext(ctx).Model(&models.SettlementModel{}).
		Where("settlement_id = ?", settlementID).
		Updates(map[string]any{"error": message, "updated_at": time.Now()}).Error
}

// ApplyConfirmations commits every confirmation row in one transaction
// guarded by the expected pre-transition status, so a concurrent
// transition rolls the batch back and a partial batch never lands.
func (r *DefaultSettlementRepository) ApplyConfirmations(ctx context.Context, updates []domain.ConfirmationUpdate) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, update := range updates {
			result := tx.Model(&models.SettlementModel{}).
				Where("settlement_id = ? AND status = ?", update.SettlementID, string(update.Expected)).
				Updates(map[string]any{
					"status":             string(update.Status),
					"self_status":        string(update.SelfStatus),
					"provider_status":    string(update.ProviderStatus),
					"self_reference":     update.SelfReference,
					"provider_reference": update.ProviderReference,
					"updated_at":         time.Now(),
				})
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return fmt.Errorf("settlement %s is not %s: %w", update.SettlementID, update.Expected, domain.ErrConflict)
			}
		}
		return nil
	})
}

// UpdateReconBatch applies a whole recon batch atomically. Every row
// carries the expected pre-transition status; a row whose stored
// status differs rolls the entire transaction back with ErrConflict.
func (r *DefaultSettlementRepository) UpdateReconBatch(ctx context.Context, updates []domain.ReconUpdate) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, update := range updates {
			model := mappers.ToGORMSettlement(&domain.Settlement{Recon: update.Recon})
			result := tx.Model(&models.SettlementModel{}).
				Where("settlement_id = ? AND recon_status = ?", update.SettlementID, string(update.Expected)).
				Updates(map[string]any{
					"recon_status":           model.ReconStatus,
					"recon_data":             model.ReconData,
					"on_recon_data":          model.OnReconData,
					"recon_transaction_id":   model.ReconTransactionID,
					"recon_message_id":       model.ReconMessageID,
					"recon_counterparty_id":  model.ReconCounterpartyID,
					"recon_counterparty_uri": model.ReconCounterpartyURI,
					"recon_initiated_at":     model.ReconInitiatedAt,
					"recon_responded_at":     model.ReconRespondedAt,
					"updated_at":             time.Now(),
				})
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return fmt.Errorf("settlement %s recon is not %q: %w", update.SettlementID, update.Expected, domain.ErrConflict)
			}
		}
		return nil
	})
}

func toDomainSettlements(settlementModels []models.SettlementModel) []*domain.Settlement {
	settlements := make([]*domain.Settlement, len(settlementModels))
	for i, model := range settlementModels {
		settlements[i] = mappers.ToDomainSettlement(&model)
	}
	return settlements
}
