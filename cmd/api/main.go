// cmd/api/main.go
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/dk-code-insights/storefront/internal/config"
	"github.com/dk-code-insights/storefront/internal/domain/cart"
	"github.com/dk-code-insights/storefront/internal/domain/catalog"
	"github.com/dk-code-insights/storefront/internal/domain/checkout"
	"github.com/dk-code-insights/storefront/internal/domain/notification"
	"github.com/dk-code-insights/storefront/internal/domain/order"
	"github.com/dk-code-insights/storefront/internal/domain/payment"
	"github.com/dk-code-insights/storefront/internal/domain/user"
	"github.com/dk-code-insights/storefront/internal/infrastructure/database/postgres"
	redisdb "github.com/dk-code-insights/storefront/internal/infrastructure/database/redis"
	httpserver "github.com/dk-code-insights/storefront/internal/interfaces/http"
	"github.com/dk-code-insights/storefront/internal/interfaces/http/handlers"
	"github.com/dk-code-insights/storefront/internal/interfaces/http/routes"
	"github.com/dk-code-insights/storefront/internal/pkg/auth"
	"github.com/dk-code-insights/storefront/internal/pkg/email"
	"github.com/dk-code-insights/storefront/internal/pkg/logger"
	"github.com/dk-code-insights/storefront/internal/pkg/pdf"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
	}

	log := logger.New(cfg.Logging)
	log.WithFields(logrus.Fields{
		"app":         cfg.App.Name,
		"version":     cfg.App.Version,
		"environment": cfg.App.Environment,
	}).Info("Starting storefront API")

	db, err := postgres.NewConnection(cfg, log)
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to database")
	}
	defer db.Close()

	redisClient, err := redisdb.NewConnection(cfg, log)
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to Redis")
	}
	defer redisClient.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := db.Health(ctx); err != nil {
		log.WithError(err).Fatal("Database health check failed")
	}
	if err := redisClient.Health(ctx); err != nil {
		log.WithError(err).Fatal("Redis health check failed")
	}
	cancel()

	migration := postgres.NewMigration(db.GetDB(), log)
	if err := migration.RunAutoMigrations(); err != nil {
		log.WithError(err).Fatal("Database migration failed")
	}
	if err := migration.CreateIndexes(); err != nil {
		log.WithError(err).Warn("Index creation failed")
	}
	if cfg.IsDevelopment() {
		if err := migration.SeedDevelopmentData(); err != nil {
			log.WithError(err).Warn("Data seeding failed")
		}
		if err := migration.TableInfo(); err != nil {
			log.WithError(err).Warn("Failed to read table info")
		}
	}

	// Domain services
	jwtManager := auth.NewJWTManager(cfg)
	products := catalog.Default()

	userService := user.NewService(user.NewRepository(db.GetDB()), auth.NewPasswordManager(cfg.Security.BcryptCost), jwtManager, log)
	orderService := order.NewService(order.NewRepository(db.GetDB()), log)

	cartRepo := cart.NewRepository(db.GetDB())
	cartService := cart.NewService(cart.NewRedisSessionStore(redisClient.GetClient(), cfg.Session.TTL), cartRepo, products, log)
	syncer := cart.NewSyncer(cartRepo, log)
	cartService.Subscribe(syncer)
	syncer.Start()

	dispatcher := notification.NewDispatcher(orderService, userService, email.NewEmailService(cfg.Email, log), cfg.Business, log)
	gateway := payment.NewGateway(cfg.PayFast, cfg.NotifyURL())
	paymentService := payment.NewService(gateway, orderService, userService, dispatcher, cfg.PayFast.VerifySignature, log)
	if !gateway.Configured() {
		log.Warn("PayFast credentials missing, online payments are disabled")
	}

	checkoutService := checkout.NewService(cartService, products, orderService, paymentService, cfg.Business, log)
	pdfService := pdf.NewService(cfg.Invoice, cfg.Business, cfg.App.SiteURL)

	h := &routes.Handlers{
		Auth:         handlers.NewAuthHandler(userService, cartService, log),
		Profile:      handlers.NewUserProfileHandler(userService),
		Product:      handlers.NewProductHandler(products),
		Category:     handlers.NewCategoryHandler(products),
		Cart:         handlers.NewCartHandler(cartService),
		Checkout:     handlers.NewCheckoutHandler(checkoutService, cfg.App.SiteURL),
		Order:        handlers.NewOrderHandler(orderService),
		Invoice:      handlers.NewInvoiceHandler(orderService, userService, pdfService, log),
		Payment:      handlers.NewPaymentHandler(paymentService, cfg.App.SiteURL, log),
		Notification: handlers.NewNotificationHandler(dispatcher, log),
	}
	deps := routes.Dependencies{
		Config: cfg,
		JWT:    jwtManager,
		Redis:  redisClient.GetClient(),
		Log:    log,
	}
	server := httpserver.NewServer(h, deps, map[string]httpserver.HealthChecker{
		"database": db,
		"redis":    redisClient,
	})

	go func() {
		if err := server.Start(); err != nil {
			log.WithError(err).Fatal("Failed to start HTTP server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down gracefully")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Stop(shutdownCtx); err != nil {
		log.WithError(err).Error("Failed to shutdown HTTP server gracefully")
	}
	if err := syncer.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("Cart sync did not drain before shutdown")
	}
	if err := dispatcher.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("Order emails still pending at shutdown")
	}

	log.Info("Server shutdown completed")
}
