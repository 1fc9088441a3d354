package repository

import (
	"errors"
	"fmt"
	"time"

	"github.com/gigdesk/settlement-service/internal/domain"
	"github.com/gigdesk/settlement-service/internal/infrastructure/postgres/mappers"
	"github.com/gigdesk/settlement-service/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DefaultOrderRepository struct {
	DB *gorm.DB
}

func NewDefaultOrderRepository(db *gorm.DB) *DefaultOrderRepository {
	return &DefaultOrderRepository{DB: db}
}

func (r *DefaultOrderRepository) CreateOrder(order *domain.Order) error {
	orderModel := mappers.ToGORMOrder(order)
	if err := r.DB.Create(orderModel).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("%w: order %s already exists", domain.ErrConflict, order.ID)
		}
		return err
	}
	return nil
}

func (r *DefaultOrderRepository) GetOrderByID(orderID string) (*domain.Order, error) {
	var orderModel models.OrderModel
	if err := r.DB.First(&orderModel, "id = ?", orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: order %s", domain.ErrNotFound, orderID)
		}
		return nil, err
	}
	return mappers.ToDomainOrder(&orderModel), nil
}

func (r *DefaultOrderRepository) ListByFreelancerID(freelancerID string) ([]*domain.Order, error) {
	var orderModels []models.OrderModel
	if err := r.DB.
		Where("freelancer_id = ?", freelancerID).
		Order("created_at ASC").
		Find(&orderModels).Error; err != nil {
		return nil, err
	}

	orders := make([]*domain.Order, 0, len(orderModels))
	for i := range orderModels {
		orders = append(orders, mappers.ToDomainOrder(&orderModels[i]))
	}
	return orders, nil
}

func (r *DefaultOrderRepository) FindExpiredUnpaid(now time.Time) ([]*domain.Order, error) {
	var orderModels []models.OrderModel
	if err := r.DB.
		Where("fulfillment_status = ? AND escrow_status = ? AND expires_at <= ?",
			domain.FulfillmentPending, domain.EscrowNone, now).
		Find(&orderModels).Error; err != nil {
		return nil, err
	}

	orders := make([]*domain.Order, 0, len(orderModels))
	for i := range orderModels {
		orders = append(orders, mappers.ToDomainOrder(&orderModels[i]))
	}
	return orders, nil
}

func (r *DefaultOrderRepository) WithOrder(orderID string, apply func(order *domain.Order) error) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		var orderModel models.OrderModel
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&orderModel, "id = ?", orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: order %s", domain.ErrNotFound, orderID)
			}
			return err
		}

		order := mappers.ToDomainOrder(&orderModel)
		if err := apply(order); err != nil {
			return err
		}
		order.UpdatedAt = time.Now()

		return tx.Save(mappers.ToGORMOrder(order)).Error
	})
}
