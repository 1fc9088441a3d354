package postgres

import (
	"log"

	"github.com/gigdesk/settlement-service/internal/config"
	"github.com/gigdesk/settlement-service/internal/infrastructure/postgres/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func MustInitDB(cfg *config.SettlementConfig) *gorm.DB {
	dsn := cfg.SettlementDB.Dsn
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatalf("failed to init db: %v\n", err.Error())
	}

	if err := db.AutoMigrate(&models.OrderModel{}, &models.TransactionModel{}); err != nil {
		log.Fatalf("failed to automigrate: %v\n", err.Error())
	}

	return db
}
