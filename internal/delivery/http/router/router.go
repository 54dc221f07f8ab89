// Package router contains routing setup for the HTTP delivery.
package router

import (
	"storefront/internal/delivery/http/middleware"
	"storefront/internal/delivery/http/router/handler"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	UserHandler    *handler.UserHandler
	CatalogHandler *handler.CatalogHandler
	CartHandler    *handler.CartHandler
	PaymentHandler *handler.PaymentHandler
	WebhookHandler *handler.WebhookHandler
	AuthMiddleware *middleware.AuthMiddleware
}

// router holds all the handlers that need to be registered.
type router struct {
	userHandler    *handler.UserHandler
	catalogHandler *handler.CatalogHandler
	cartHandler    *handler.CartHandler
	paymentHandler *handler.PaymentHandler
	webhookHandler *handler.WebhookHandler
	authMiddleware *middleware.AuthMiddleware
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		userHandler:    params.UserHandler,
		catalogHandler: params.CatalogHandler,
		cartHandler:    params.CartHandler,
		paymentHandler: params.PaymentHandler,
		webhookHandler: params.WebhookHandler,
		authMiddleware: params.AuthMiddleware,
	}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	// Health check endpoint
	e.GET("/health", handler.HealthCheck)

	// Auth routes
	authGroup := e.Group("/auth")
	{
		authGroup.POST("/register", r.userHandler.Register)
		authGroup.POST("/login", r.userHandler.Login)
		authGroup.POST("/refresh", r.userHandler.RefreshToken)
	}

	// User routes that require authentication
	userGroup := e.Group("/user")
	userGroup.Use(r.authMiddleware.Authenticate)
	{
		userGroup.GET("/profile", r.userHandler.GetProfile)
	}

	// Catalog browse is public; catalog writes require authentication.
	e.GET("/products", r.catalogHandler.ListProducts)
	e.GET("/products/:id", r.catalogHandler.GetProduct)
	e.GET("/categories", r.catalogHandler.ListCategories)
	e.POST("/products", r.catalogHandler.CreateProduct, r.authMiddleware.Authenticate)
	e.POST("/categories", r.catalogHandler.CreateCategory, r.authMiddleware.Authenticate)

	// Cart routes serve both authenticated users and session-keyed guests,
	// so authentication is optional here.
	cartGroup := e.Group("/cart")
	cartGroup.Use(r.authMiddleware.AuthenticateOptional)
	{
		cartGroup.GET("", r.cartHandler.GetCart)
		cartGroup.DELETE("", r.cartHandler.ClearCart)
		cartGroup.POST("/items", r.cartHandler.AddItem)
		cartGroup.PUT("/items/:id", r.cartHandler.UpdateItem)
		cartGroup.PATCH("/items/:id", r.cartHandler.UpdateItem)
		cartGroup.DELETE("/items/:id", r.cartHandler.RemoveItem)
	}

	// Payment routes require authentication
	paymentGroup := e.Group("/payments")
	paymentGroup.Use(r.authMiddleware.Authenticate)
	{
		paymentGroup.POST("/create-checkout-session", r.paymentHandler.CreateCheckoutSession)
		paymentGroup.GET("", r.paymentHandler.ListPayments)
	}

	// Webhooks authenticate by signature, not by bearer token.
	e.POST("/webhooks/stripe", r.webhookHandler.HandleStripeWebhook)
}
