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

type DefaultLedgerRepository struct {
	DB *gorm.DB
}

func NewDefaultLedgerRepository(db *gorm.DB) *DefaultLedgerRepository {
	return &DefaultLedgerRepository{DB: db}
}

// AppendEntry inserts the entry inside one transaction that holds the
// order row lock, so the guard sees a state no concurrent settle can
// change underneath it. The partial unique index on (order_id, type)
// for pending rows backs the single-pending rule; the guard's check
// under the lock keeps the error readable before the index fires.
func (r *DefaultLedgerRepository) AppendEntry(entry *domain.Transaction, guard func(order *domain.Order) error) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		var order *domain.Order
		var orderModel models.OrderModel

		if entry.OrderID != "" {
			if err := tx.
				Clauses(clause.Locking{Strength: "UPDATE"}).
				First(&orderModel, "id = ?", entry.OrderID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fmt.Errorf("%w: order %s", domain.ErrNotFound, entry.OrderID)
				}
				return err
			}
			order = mappers.ToDomainOrder(&orderModel)

			var pendingCount int64
			if err := tx.Model(&models.TransactionModel{}).
				Where("order_id = ? AND type = ? AND status = ?",
					entry.OrderID, entry.Type, domain.TxPending).
				Count(&pendingCount).Error; err != nil {
				return err
			}
			if pendingCount > 0 {
				return fmt.Errorf("%w: order %s already has a pending %s entry",
					domain.ErrConflict, entry.OrderID, entry.Type)
			}
		}

		if err := guard(order); err != nil {
			return err
		}

		if err := tx.Create(mappers.ToGORMTransaction(entry)).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return fmt.Errorf("%w: idempotency key %s already used",
					domain.ErrConflict, entry.IdempotencyKey)
			}
			return err
		}

		if order != nil {
			order.UpdatedAt = time.Now()
			if err := tx.Save(mappers.ToGORMOrder(order)).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// AppendPayoutEntry serializes payout appends per freelancer with an
// advisory transaction lock; payouts have no order row to lock. The
// guard sees every entry committed before the lock was granted, which
// makes a balance bound checked inside it race-free.
func (r *DefaultLedgerRepository) AppendPayoutEntry(entry *domain.Transaction, guard func(history []*domain.Transaction) error) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("SELECT pg_advisory_xact_lock(hashtext(?))", entry.FreelancerID).Error; err != nil {
			return err
		}

		var dupCount int64
		if err := tx.Model(&models.TransactionModel{}).
			Where("idempotency_key = ?", entry.IdempotencyKey).
			Count(&dupCount).Error; err != nil {
			return err
		}
		if dupCount > 0 {
			return fmt.Errorf("%w: idempotency key %s already used",
				domain.ErrConflict, entry.IdempotencyKey)
		}

		var entryModels []models.TransactionModel
		if err := tx.
			Where("freelancer_id = ?", entry.FreelancerID).
			Order("created_at ASC").
			Find(&entryModels).Error; err != nil {
			return err
		}
		if err := guard(toDomainTransactions(entryModels)); err != nil {
			return err
		}

		if err := tx.Create(mappers.ToGORMTransaction(entry)).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return fmt.Errorf("%w: idempotency key %s already used",
					domain.ErrConflict, entry.IdempotencyKey)
			}
			return err
		}
		return nil
	})
}

// SettleEntry reloads entry and order under the order row lock and
// runs apply; entry and order persist atomically. Settling an entry
// twice hits the pending check and returns the settled entry together
// with ErrAlreadyProcessed so callers can treat the replay as done.
func (r *DefaultLedgerRepository) SettleEntry(entryID string, apply func(order *domain.Order, entry *domain.Transaction) error) (*domain.Transaction, error) {
	var settled *domain.Transaction

	err := r.DB.Transaction(func(tx *gorm.DB) error {
		var entryModel models.TransactionModel
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&entryModel, "id = ?", entryID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: entry %s", domain.ErrNotFound, entryID)
			}
			return err
		}
		entry := mappers.ToDomainTransaction(&entryModel)

		if !entry.Pending() {
			settled = entry
			return fmt.Errorf("%w: entry %s is %s", domain.ErrAlreadyProcessed, entry.ID, entry.Status)
		}

		var order *domain.Order
		if entry.OrderID != "" {
			var orderModel models.OrderModel
			if err := tx.
				Clauses(clause.Locking{Strength: "UPDATE"}).
				First(&orderModel, "id = ?", entry.OrderID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fmt.Errorf("%w: order %s", domain.ErrNotFound, entry.OrderID)
				}
				return err
			}
			order = mappers.ToDomainOrder(&orderModel)
		}

		if err := apply(order, entry); err != nil {
			return err
		}

		if err := tx.Save(mappers.ToGORMTransaction(entry)).Error; err != nil {
			return err
		}
		if order != nil {
			order.UpdatedAt = time.Now()
			if err := tx.Save(mappers.ToGORMOrder(order)).Error; err != nil {
				return err
			}
		}

		settled = entry
		return nil
	})

	return settled, err
}

func (r *DefaultLedgerRepository) SetGatewayRef(entryID, gatewayRef string) error {
	result := r.DB.Model(&models.TransactionModel{}).
		Where("id = ?", entryID).
		Update("gateway_ref", gatewayRef)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: entry %s", domain.ErrNotFound, entryID)
	}
	return nil
}

func (r *DefaultLedgerRepository) GetEntryByID(entryID string) (*domain.Transaction, error) {
	var entryModel models.TransactionModel
	if err := r.DB.First(&entryModel, "id = ?", entryID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: entry %s", domain.ErrNotFound, entryID)
		}
		return nil, err
	}
	return mappers.ToDomainTransaction(&entryModel), nil
}

func (r *DefaultLedgerRepository) GetEntryByIdempotencyKey(key string) (*domain.Transaction, error) {
	var entryModel models.TransactionModel
	if err := r.DB.First(&entryModel, "idempotency_key = ?", key).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: idempotency key %s", domain.ErrNotFound, key)
		}
		return nil, err
	}
	return mappers.ToDomainTransaction(&entryModel), nil
}

func (r *DefaultLedgerRepository) ListByOrderID(orderID string) ([]*domain.Transaction, error) {
	var entryModels []models.TransactionModel
	if err := r.DB.
		Where("order_id = ?", orderID).
		Order("created_at ASC").
		Find(&entryModels).Error; err != nil {
		return nil, err
	}
	return toDomainTransactions(entryModels), nil
}

func (r *DefaultLedgerRepository) ListByFreelancerID(freelancerID string) ([]*domain.Transaction, error) {
	var entryModels []models.TransactionModel
	if err := r.DB.
		Where("freelancer_id = ?", freelancerID).
		Order("created_at ASC").
		Find(&entryModels).Error; err != nil {
		return nil, err
	}
	return toDomainTransactions(entryModels), nil
}

func (r *DefaultLedgerRepository) FindStalePending(olderThan time.Time) ([]*domain.Transaction, error) {
	var entryModels []models.TransactionModel
	if err := r.DB.
		Where("status = ? AND created_at <= ?", domain.TxPending, olderThan).
		Find(&entryModels).Error; err != nil {
		return nil, err
	}
	return toDomainTransactions(entryModels), nil
}

func toDomainTransactions(entryModels []models.TransactionModel) []*domain.Transaction {
	entries := make([]*domain.Transaction, 0, len(entryModels))
	for i := range entryModels {
		entries = append(entries, mappers.ToDomainTransaction(&entryModels[i]))
	}
	return entries
}
