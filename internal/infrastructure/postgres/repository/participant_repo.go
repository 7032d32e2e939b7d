package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/ondc-labs/rsf-settlement-service/internal/domain"
	"github.com/ondc-labs/rsf-settlement-service/internal/infrastructure/postgres/mappers"
	"github.com/ondc-labs/rsf-settlement-service/internal/infrastructure/postgres/models"
)

type DefaultParticipantRepository struct {
	db *gorm.DB
}

func NewDefaultParticipantRepository(db *gorm.DB) *DefaultParticipantRepository {
	return &DefaultParticipantRepository{db: db}
}

func (r *DefaultParticipantRepository) GetProfile(ctx context.Context, participantID string) (*domain.ParticipantProfile, error) {
	var model models.ParticipantModel
	if err := r.db.WithContext(ctx).First(&model, "participant_id = ?", participantID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("participant %s: %w", participantID, domain.ErrNotFound)
		}
		return nil, err
	}
	return mappers.ToDomainParticipant(&model), nil
}

func (r *DefaultParticipantRepository) UpsertProfile(ctx context.Context, profile *domain.ParticipantProfile) error {
	return r.db.WithContext(ctx).Save(mappers.ToGORMParticipant(profile)).Error
}
