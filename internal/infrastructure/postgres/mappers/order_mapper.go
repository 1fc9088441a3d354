package mappers

import (
	"github.com/gigdesk/settlement-service/internal/domain"
	"github.com/gigdesk/settlement-service/internal/infrastructure/postgres/models"
)

func ToDomainOrder(model *models.OrderModel) *domain.Order {
	return &domain.Order{
		ID:                model.ID,
		ClientID:          model.ClientID,
		FreelancerID:      model.FreelancerID,
		ServiceAmount:     model.ServiceAmount,
		PlatformFee:       model.PlatformFee,
		ProcessingFee:     model.ProcessingFee,
		TotalAmount:       model.TotalAmount,
		FreelancerAmount:  model.FreelancerAmount,
		Currency:          model.Currency,
		ReleasedAmount:    model.ReleasedAmount,
		RefundedAmount:    model.RefundedAmount,
		FulfillmentStatus: model.FulfillmentStatus,
		EscrowStatus:      model.EscrowStatus,
		ExpiresAt:         model.ExpiresAt,
		CreatedAt:         model.CreatedAt,
		UpdatedAt:         model.UpdatedAt,
	}
}

func ToGORMOrder(order *domain.Order) *models.OrderModel {
	return &models.OrderModel{
		ID:                order.ID,
		ClientID:          order.ClientID,
		FreelancerID:      order.FreelancerID,
		ServiceAmount:     order.ServiceAmount,
		PlatformFee:       order.PlatformFee,
		ProcessingFee:     order.ProcessingFee,
		TotalAmount:       order.TotalAmount,
		FreelancerAmount:  order.FreelancerAmount,
		Currency:          order.Currency,
		ReleasedAmount:    order.ReleasedAmount,
		RefundedAmount:    order.RefundedAmount,
		FulfillmentStatus: order.FulfillmentStatus,
		EscrowStatus:      order.EscrowStatus,
		ExpiresAt:         order.ExpiresAt,
		CreatedAt:         order.CreatedAt,
		UpdatedAt:         order.UpdatedAt,
	}
}
