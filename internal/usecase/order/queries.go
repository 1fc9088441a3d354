package order

import "github.com/gigdesk/settlement-service/internal/domain"

func (uc *DefaultOrderUsecase) GetOrderByID(orderID string) (*domain.Order, error) {
	return uc.orderRepo.GetOrderByID(orderID)
}
