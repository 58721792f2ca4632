// internal/domain/cart/repository.go
package cart

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

// Repository is the durable cart mirror for signed-in users.
type Repository interface {
	ListByUser(ctx context.Context, userID string) ([]CartItem, error)
	// ReplaceForUser deletes every row of the user and inserts items in one transaction.
	ReplaceForUser(ctx context.Context, userID string, items []Item) error
	DeleteForUser(ctx context.Context, userID string) error
}

type gormRepository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) ListByUser(ctx context.Context, userID string) ([]CartItem, error) {
	var rows []CartItem
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve user cart: %w", err)
	}
	return rows, nil
}

func (r *gormRepository) ReplaceForUser(ctx context.Context, userID string, items []Item) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Delete(&CartItem{}).Error; err != nil {
			return fmt.Errorf("failed to clear user cart: %w", err)
		}
		if len(items) == 0 {
			return nil
		}

		rows := make([]CartItem, 0, len(items))
		for _, item := range items {
			rows = append(rows, CartItem{
				UserID:    userID,
				ProductID: item.ProductID,
				Quantity:  item.Quantity,
			})
		}
		if err := tx.Create(&rows).Error; err != nil {
			return fmt.Errorf("failed to insert user cart: %w", err)
		}
		return nil
	})
}

func (r *gormRepository) DeleteForUser(ctx context.Context, userID string) error {
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&CartItem{}).Error; err != nil {
		return fmt.Errorf("failed to clear user cart: %w", err)
	}
	return nil
}
