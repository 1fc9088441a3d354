package mappers

import (
	"github.com/gigdesk/settlement-service/internal/domain"
	"github.com/gigdesk/settlement-service/internal/infrastructure/postgres/models"
)

func ToDomainTransaction(model *models.TransactionModel) *domain.Transaction {
	return &domain.Transaction{
		ID:             model.ID,
		OrderID:        model.OrderID,
		FreelancerID:   model.FreelancerID,
		Type:           model.Type,
		Status:         model.Status,
		Amount:         model.Amount,
		Currency:       model.Currency,
		IdempotencyKey: model.IdempotencyKey,
		GatewayRef:     model.GatewayRef,
		Metadata:       model.Metadata,
		CreatedAt:      model.CreatedAt,
		SettledAt:      model.SettledAt,
	}
}

func ToGORMTransaction(entry *domain.Transaction) *models.TransactionModel {
	return &models.TransactionModel{
		ID:             entry.ID,
		OrderID:        entry.OrderID,
		FreelancerID:   entry.FreelancerID,
		Type:           entry.Type,
		Status:         entry.Status,
		Amount:         entry.Amount,
		Currency:       entry.Currency,
		IdempotencyKey: entry.IdempotencyKey,
		GatewayRef:     entry.GatewayRef,
		Metadata:       entry.Metadata,
		CreatedAt:      entry.CreatedAt,
		SettledAt:      entry.SettledAt,
	}
}
