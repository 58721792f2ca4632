// internal/interfaces/http/routes/routes.go
package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/dk-code-insights/storefront/internal/config"
	"github.com/dk-code-insights/storefront/internal/interfaces/http/handlers"
	"github.com/dk-code-insights/storefront/internal/interfaces/http/middleware"
	"github.com/dk-code-insights/storefront/internal/pkg/auth"
)

// Handlers bundles every HTTP handler the API serves
type Handlers struct {
	Auth         *handlers.AuthHandler
	Profile      *handlers.UserProfileHandler
	Product      *handlers.ProductHandler
	Category     *handlers.CategoryHandler
	Cart         *handlers.CartHandler
	Checkout     *handlers.CheckoutHandler
	Order        *handlers.OrderHandler
	Invoice      *handlers.InvoiceHandler
	Payment      *handlers.PaymentHandler
	Notification *handlers.NotificationHandler
}

// Dependencies are the shared pieces the route middleware needs
type Dependencies struct {
	Config *config.Config
	JWT    *auth.JWTManager
	Redis  *redis.Client
	Log    logrus.FieldLogger
}

// SetupRoutes registers every API route on rg. PayFast notifications are kept
// out of the rate limiter.
func SetupRoutes(rg *gin.RouterGroup, h *Handlers, deps Dependencies) {
	SetupWebhookRoutes(rg, h)

	limited := rg.Group("")
	limited.Use(middleware.RateLimit(deps.Config.Security.RateLimitPerMinute, deps.Redis, deps.Log))

	SetupCatalogRoutes(limited, h)
	SetupAuthRoutes(limited, h, deps)
	SetupCartRoutes(limited, h, deps)
	SetupCheckoutRoutes(limited, h, deps)
	SetupOrderRoutes(limited, h, deps)
	SetupPaymentRoutes(limited, h, deps)
	SetupInternalRoutes(limited, h, deps)
}

// SetupWebhookRoutes sets up payment processor callbacks
func SetupWebhookRoutes(rg *gin.RouterGroup, h *Handlers) {
	webhooks := rg.Group("/webhooks")
	{
		webhooks.POST("/payfast", h.Payment.PayFastWebhook)
	}
}

// SetupCatalogRoutes sets up product and category routes
func SetupCatalogRoutes(rg *gin.RouterGroup, h *Handlers) {
	products := rg.Group("/products")
	{
		products.GET("", h.Product.ListProducts)
		products.GET("/:id", h.Product.GetProduct)
	}

	categories := rg.Group("/categories")
	{
		categories.GET("", h.Category.ListCategories)
		categories.GET("/:id/products", h.Category.GetCategoryProducts)
	}
}

// SetupAuthRoutes sets up authentication and profile routes
func SetupAuthRoutes(rg *gin.RouterGroup, h *Handlers, deps Dependencies) {
	authGroup := rg.Group("/auth")
	authGroup.Use(middleware.Session(deps.Config.Session))
	{
		authGroup.POST("/register", h.Auth.Register)
		authGroup.POST("/login", h.Auth.Login)
		authGroup.POST("/refresh", h.Auth.RefreshToken)
	}

	profile := rg.Group("/profile")
	profile.Use(middleware.AuthMiddleware(deps.JWT))
	{
		profile.GET("", h.Profile.GetProfile)
		profile.PUT("", h.Profile.UpdateProfile)
	}
}

// SetupCartRoutes sets up cart routes. Anonymous shoppers use the session
// cart; signed-in shoppers also get it mirrored to their account.
func SetupCartRoutes(rg *gin.RouterGroup, h *Handlers, deps Dependencies) {
	cartGroup := rg.Group("/cart")
	cartGroup.Use(middleware.Session(deps.Config.Session), middleware.OptionalAuthMiddleware(deps.JWT))
	{
		cartGroup.GET("", h.Cart.GetCart)
		cartGroup.DELETE("", h.Cart.ClearCart)
		cartGroup.POST("/items", h.Cart.AddToCart)
		cartGroup.PUT("/items/:product_id", h.Cart.UpdateCartItem)
		cartGroup.DELETE("/items/:product_id", h.Cart.RemoveFromCart)
		cartGroup.PUT("/currency", h.Cart.SetCurrency)
	}
}

// SetupCheckoutRoutes sets up checkout routes
func SetupCheckoutRoutes(rg *gin.RouterGroup, h *Handlers, deps Dependencies) {
	checkoutGroup := rg.Group("/checkout")
	checkoutGroup.Use(middleware.Session(deps.Config.Session))
	{
		checkoutGroup.GET("/payment-methods", h.Checkout.GetPaymentMethods)
		checkoutGroup.POST("/validate", h.Checkout.ValidateCheckout)
		checkoutGroup.POST("", middleware.AuthMiddleware(deps.JWT), h.Checkout.Checkout)
	}
}

// SetupOrderRoutes sets up order history and invoice routes
func SetupOrderRoutes(rg *gin.RouterGroup, h *Handlers, deps Dependencies) {
	orders := rg.Group("/orders")
	orders.Use(middleware.AuthMiddleware(deps.JWT))
	{
		orders.GET("", h.Order.ListOrders)
		orders.GET("/:id", h.Order.GetOrder)
		orders.GET("/:id/invoice", h.Invoice.GenerateInvoice)
		orders.GET("/:id/invoice/data", h.Invoice.GetInvoiceData)
	}
}

// SetupPaymentRoutes sets up PayFast payment routes
func SetupPaymentRoutes(rg *gin.RouterGroup, h *Handlers, deps Dependencies) {
	payments := rg.Group("/payments")
	payments.Use(middleware.AuthMiddleware(deps.JWT))
	{
		payments.POST("/payfast", h.Payment.CreatePayFastPayment)
		payments.GET("/payfast/:order_id/redirect", h.Payment.Redirect)
	}
}

// SetupInternalRoutes sets up service-to-service routes
func SetupInternalRoutes(rg *gin.RouterGroup, h *Handlers, deps Dependencies) {
	internal := rg.Group("/internal")
	internal.Use(middleware.InternalToken(deps.Config.Internal.Token))
	{
		internal.POST("/order-emails", h.Notification.SendOrderEmails)
	}
}
