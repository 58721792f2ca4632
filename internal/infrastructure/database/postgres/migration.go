// internal/infrastructure/database/postgres/migration.go
package postgres

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/dk-code-insights/storefront/internal/domain/cart"
	"github.com/dk-code-insights/storefront/internal/domain/order"
	"github.com/dk-code-insights/storefront/internal/domain/user"
)

const (
	devUserEmail    = "test@example.com"
	devUserPassword = "Test1234"
)

// Migration handles database migrations
type Migration struct {
	db  *gorm.DB
	log logrus.FieldLogger
}

// NewMigration creates a new migration instance
func NewMigration(db *gorm.DB, log logrus.FieldLogger) *Migration {
	return &Migration{db: db, log: log}
}

// Models lists every persisted model in dependency order
func Models() []interface{} {
	return []interface{}{
		&user.User{},
		&cart.CartItem{},
		&order.Order{},
		&order.OrderItem{},
		&order.OrderStatusHistory{},
	}
}

// RunAutoMigrations runs GORM auto-migrations for all models
func (m *Migration) RunAutoMigrations() error {
	m.log.Info("Running database auto-migrations")

	for _, model := range Models() {
		m.log.Debugf("Migrating model: %T", model)
		if err := m.db.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate model %T: %w", model, err)
		}
	}

	m.log.Info("Database auto-migrations completed")
	return nil
}

// Indexes beyond what the struct tags declare
var indexes = []string{
	"CREATE UNIQUE INDEX IF NOT EXISTS idx_cart_items_user_product ON cart_items(user_id, product_id)",
	"CREATE INDEX IF NOT EXISTS idx_orders_user_created ON orders(user_id, created_at DESC)",
	"CREATE INDEX IF NOT EXISTS idx_orders_status_created ON orders(status, created_at DESC)",
	"CREATE INDEX IF NOT EXISTS idx_order_items_order ON order_items(order_id)",
	"CREATE INDEX IF NOT EXISTS idx_order_status_history_order_created ON order_status_history(order_id, created_at)",
	"CREATE INDEX IF NOT EXISTS idx_users_created_at ON users(created_at DESC)",
}

// CreateIndexes creates additional indexes for the hot queries
func (m *Migration) CreateIndexes() error {
	m.log.Info("Creating additional database indexes")

	var failed int
	for _, stmt := range indexes {
		if err := m.db.Exec(stmt).Error; err != nil {
			failed++
			m.log.WithError(err).WithField("statement", stmt).Warn("Failed to create index")
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d indexes failed", failed, len(indexes))
	}
	return nil
}

// SeedDevelopmentData creates a demo customer so checkout can be tried locally
func (m *Migration) SeedDevelopmentData() error {
	var existing user.User
	err := m.db.Where("email = ?", devUserEmail).First(&existing).Error
	if err == nil {
		m.log.Debug("Development user already exists")
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(devUserPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	u := user.User{
		ID:           uuid.NewString(),
		Email:        devUserEmail,
		PasswordHash: string(hash),
		FirstName:    "Test",
		LastName:     "Customer",
		Phone:        "+27821234567",
		City:         "Johannesburg",
		Country:      "South Africa",
	}
	if err := m.db.Create(&u).Error; err != nil {
		return err
	}

	m.log.WithField("email", devUserEmail).Info("Created development user")
	return nil
}

// TableInfo logs row counts for every migrated table
func (m *Migration) TableInfo() error {
	var tables []string
	if err := m.db.Raw("SELECT tablename FROM pg_tables WHERE schemaname = 'public' ORDER BY tablename").Scan(&tables).Error; err != nil {
		return err
	}

	for _, table := range tables {
		var count int64
		if err := m.db.Table(table).Count(&count).Error; err != nil {
			m.log.WithError(err).WithField("table", table).Warn("Failed to count rows")
			continue
		}
		m.log.WithFields(logrus.Fields{"table": table, "rows": count}).Info("Table")
	}
	return nil
}
