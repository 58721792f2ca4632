// cmd/orderemails/main.go
//
// Re-sends the confirmation and business emails for one order, for when the
// webhook-triggered dispatch failed.
//
//	go run ./cmd/orderemails -order <order-id>
package main

import (
	"context"
	"flag"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/dk-code-insights/storefront/internal/config"
	"github.com/dk-code-insights/storefront/internal/domain/notification"
	"github.com/dk-code-insights/storefront/internal/domain/order"
	"github.com/dk-code-insights/storefront/internal/domain/user"
	"github.com/dk-code-insights/storefront/internal/infrastructure/database/postgres"
	"github.com/dk-code-insights/storefront/internal/pkg/auth"
	"github.com/dk-code-insights/storefront/internal/pkg/email"
	"github.com/dk-code-insights/storefront/internal/pkg/logger"
)

func main() {
	orderID := flag.String("order", "", "order id to send emails for")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
	}
	log := logger.New(cfg.Logging)

	if *orderID == "" {
		log.Fatal("Usage: orderemails -order <order-id>")
	}

	db, err := postgres.NewConnection(cfg, log)
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to database")
	}
	defer db.Close()

	orders := order.NewService(order.NewRepository(db.GetDB()), log)
	users := user.NewService(user.NewRepository(db.GetDB()), auth.NewPasswordManager(cfg.Security.BcryptCost), auth.NewJWTManager(cfg), log)
	dispatcher := notification.NewDispatcher(orders, users, email.NewEmailService(cfg.Email, log), cfg.Business, log)

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	result, err := dispatcher.SendOrderEmails(ctx, *orderID)
	if err != nil {
		log.WithError(err).Fatal("Send failed")
	}
	log.WithFields(logrus.Fields{
		"order_id":      *orderID,
		"customer_sent": result.CustomerSent,
		"business_sent": result.BusinessSent,
	}).Info("Order emails processed")
}
