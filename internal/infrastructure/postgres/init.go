package postgres

import (
	"log"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/ondc-labs/rsf-settlement-service/internal/config"
	"github.com/ondc-labs/rsf-settlement-service/internal/infrastructure/postgres/models"
)

func MustInitDB(cfg *config.SettlementConfig) *gorm.DB {
	dsn := cfg.SettlementDB.Dsn
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatalf("failed to init db: %v\n", err.Error())
	}

	db.AutoMigrate(&models.ParticipantModel{}, &models.OrderModel{}, &models.SettlementModel{})

	return db
}
