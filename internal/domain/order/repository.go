// internal/domain/order/repository.go
package order

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TransitionFunc inspects the locked order and returns the history row to record,
// or nil when nothing should change.
type TransitionFunc func(current *Order) (*OrderStatusHistory, error)

// Repository persists orders.
type Repository interface {
	// Create inserts the order, its items and its history in one transaction.
	Create(ctx context.Context, order *Order) error
	FindByID(ctx context.Context, id string) (*Order, error)
	FindByUser(ctx context.Context, userID string) ([]Order, error)
	// Transition locks the order row, asks fn what to do, and applies the change.
	Transition(ctx context.Context, id string, fn TransitionFunc) (*Order, bool, error)
}

type gormRepository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) Create(ctx context.Context, order *Order) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(order).Error; err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}
		if len(order.Items) > 0 {
			if err := tx.Create(&order.Items).Error; err != nil {
				return fmt.Errorf("failed to create order items: %w", err)
			}
		}
		if len(order.StatusHistory) > 0 {
			if err := tx.Create(&order.StatusHistory).Error; err != nil {
				return fmt.Errorf("failed to create status history: %w", err)
			}
		}
		return nil
	})
}

func (r *gormRepository) FindByID(ctx context.Context, id string) (*Order, error) {
	var order Order
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("id ASC")
		}).
		Where("id = ?", id).
		First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to retrieve order: %w", err)
	}
	return &order, nil
}

func (r *gormRepository) FindByUser(ctx context.Context, userID string) ([]Order, error) {
	var orders []Order
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("id ASC")
		}).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve orders: %w", err)
	}
	return orders, nil
}

func (r *gormRepository) Transition(ctx context.Context, id string, fn TransitionFunc) (*Order, bool, error) {
	var (
		order   Order
		changed bool
	)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", id).
			First(&order).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrOrderNotFound
			}
			return fmt.Errorf("failed to lock order: %w", err)
		}

		history, err := fn(&order)
		if err != nil || history == nil {
			return err
		}

		now := time.Now().UTC()
		updates := map[string]interface{}{
			"status":     history.Status,
			"updated_at": now,
		}
		if history.Reference != "" {
			updates["payment_reference"] = history.Reference
		}
		if err := tx.Model(&Order{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			return fmt.Errorf("failed to update order status: %w", err)
		}

		history.OrderID = id
		history.CreatedAt = now
		if err := tx.Create(history).Error; err != nil {
			return fmt.Errorf("failed to create status history: %w", err)
		}

		order.Status = history.Status
		order.UpdatedAt = now
		if history.Reference != "" {
			order.PaymentReference = history.Reference
		}
		changed = true
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return &order, changed, nil
}
