package setup

import (
	"github.com/gigdesk/settlement-service/internal/config"
	"github.com/gigdesk/settlement-service/internal/domain"
	"github.com/gigdesk/settlement-service/internal/infrastructure/gateway"
	"github.com/gigdesk/settlement-service/internal/infrastructure/kafka"
	"github.com/gigdesk/settlement-service/internal/infrastructure/metrics"
	"github.com/gigdesk/settlement-service/internal/infrastructure/postgres"
	"github.com/gigdesk/settlement-service/internal/infrastructure/postgres/repository"
	"gorm.io/gorm"
)

type Dependencies struct {
	Config       *config.SettlementConfig
	DB           *gorm.DB
	Publisher    *kafka.DefaultKafkaPublisher
	Gateway      domain.PaymentGateway
	Metrics      *metrics.SettlementMetrics
	Repositories *Repositories
}

type Repositories struct {
	OrderRepo  domain.OrderRepository
	LedgerRepo domain.LedgerRepository
}

func InitializeDependencies(cfg *config.SettlementConfig) *Dependencies {
	db := postgres.MustInitDB(cfg)

	return &Dependencies{
		Config:    cfg,
		DB:        db,
		Publisher: kafka.NewDefaultKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic),
		Gateway:   gateway.NewHTTPPaymentGateway(cfg.PaymentGateway.Address, cfg.PaymentGateway.Timeout),
		Metrics:   metrics.NewSettlementMetrics(),
		Repositories: &Repositories{
			OrderRepo:  repository.NewDefaultOrderRepository(db),
			LedgerRepo: repository.NewDefaultLedgerRepository(db),
		},
	}
}
