// Package router sets up the HTTP routing for the application.
package router

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/pantry-ledger/backend/internal/domain/entity"
	"github.com/pantry-ledger/backend/internal/integration/entrypoint/controller"
	"github.com/pantry-ledger/backend/internal/integration/entrypoint/middleware"
)

// Router holds the Gin engine and controller dependencies.
type Router struct {
	engine                 *gin.Engine
	healthController       *controller.HealthController
	authController         *controller.AuthController
	budgetController       *controller.BudgetController
	categoryController     *controller.CategoryController
	productController      *controller.ProductController
	shoppingListController *controller.ShoppingListController
	draftController        *controller.DraftController
	purchaseController     *controller.PurchaseController
	loginRateLimiter       *middleware.RateLimiter
	authMiddleware         *middleware.AuthMiddleware

	// receiptDir is served under /files when receipts are stored on local disk.
	receiptDir  string
	corsOrigins []string
}

// Controllers groups the controllers the router mounts.
type Controllers struct {
	Health       *controller.HealthController
	Auth         *controller.AuthController
	Budget       *controller.BudgetController
	Category     *controller.CategoryController
	Product      *controller.ProductController
	ShoppingList *controller.ShoppingListController
	Draft        *controller.DraftController
	Purchase     *controller.PurchaseController
}

// NewRouter creates a new router instance with all dependencies.
func NewRouter(
	controllers Controllers,
	loginRateLimiter *middleware.RateLimiter,
	authMiddleware *middleware.AuthMiddleware,
	receiptDir string,
	corsOrigins []string,
) *Router {
	return &Router{
		healthController:       controllers.Health,
		authController:         controllers.Auth,
		budgetController:       controllers.Budget,
		categoryController:     controllers.Category,
		productController:      controllers.Product,
		shoppingListController: controllers.ShoppingList,
		draftController:        controllers.Draft,
		purchaseController:     controllers.Purchase,
		loginRateLimiter:       loginRateLimiter,
		authMiddleware:         authMiddleware,
		receiptDir:             receiptDir,
		corsOrigins:            corsOrigins,
	}
}

// Setup configures and returns the Gin engine with all routes.
func (r *Router) Setup(environment string) *gin.Engine {
	// Set Gin mode based on environment
	if environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else if environment == "test" {
		gin.SetMode(gin.TestMode)
	}

	// Create router with default middleware (logger and recovery)
	r.engine = gin.Default()
	r.engine.Use(cors.New(r.corsConfig()))

	r.setupHealthRoutes()
	r.setupFileRoutes()
	r.setupAPIRoutes()

	return r.engine
}

func (r *Router) corsConfig() cors.Config {
	config := cors.DefaultConfig()
	if len(r.corsOrigins) == 0 || (len(r.corsOrigins) == 1 && r.corsOrigins[0] == "*") {
		config.AllowAllOrigins = true
	} else {
		config.AllowOrigins = r.corsOrigins
	}
	config.AllowMethods = []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"}
	config.AllowHeaders = []string{"Origin", "Content-Type", "Authorization"}
	config.ExposeHeaders = []string{"Content-Disposition"}
	return config
}

// setupHealthRoutes configures health check endpoints.
func (r *Router) setupHealthRoutes() {
	r.engine.GET("/health", r.healthController.Check)
}

// setupFileRoutes serves locally stored receipts to authenticated users.
func (r *Router) setupFileRoutes() {
	if r.receiptDir == "" {
		return
	}
	files := r.engine.Group("/", r.authMiddleware.Authenticate())
	files.Static("/files", r.receiptDir)
}

// setupAPIRoutes configures the main API routes.
func (r *Router) setupAPIRoutes() {
	v1 := r.engine.Group("/api/v1")

	auth := v1.Group("/auth")
	{
		auth.POST("/register", r.authController.Register)
		auth.POST("/login", r.loginRateLimiter.Middleware(), r.authController.Login)
		auth.POST("/refresh", r.authController.RefreshToken)
		auth.POST("/logout", r.authController.Logout)
		auth.GET("/me", r.authMiddleware.Authenticate(), r.authController.Me)
	}

	// Everything below requires a signed-in user; writes to money or catalog require an admin.
	api := v1.Group("")
	api.Use(r.authMiddleware.Authenticate())
	admin := r.authMiddleware.RequireRole(entity.RoleAdmin)

	budget := api.Group("/budget")
	{
		budget.GET("", r.budgetController.Get)
		budget.GET("/history", r.budgetController.History)
		budget.POST("/deposits", admin, r.budgetController.Deposit)
	}

	categories := api.Group("/categories")
	{
		categories.GET("", r.categoryController.List)
		categories.POST("", admin, r.categoryController.Create)
		categories.PATCH("/:id", admin, r.categoryController.Update)
		categories.DELETE("/:id", admin, r.categoryController.Delete)
	}

	products := api.Group("/products")
	{
		products.GET("", r.productController.List)
		products.GET("/low-stock", r.productController.LowStock)
		products.GET("/:id", r.productController.Get)
		products.POST("", admin, r.productController.Create)
		products.PATCH("/:id", admin, r.productController.Update)
		products.POST("/:id/consume", r.productController.Consume)
	}

	shoppingList := api.Group("/shopping-list")
	{
		shoppingList.GET("", r.shoppingListController.List)
		shoppingList.POST("", r.shoppingListController.Add)
		shoppingList.PATCH("/:id", r.shoppingListController.UpdateQuantity)
		shoppingList.POST("/:id/toggle", r.shoppingListController.Toggle)
		shoppingList.DELETE("/:id", r.shoppingListController.Delete)
	}

	draft := api.Group("/draft")
	{
		draft.GET("", r.draftController.Get)
		draft.PATCH("/items/:productId/price", r.draftController.EditPrice)
		draft.DELETE("/items/:productId", r.draftController.RemoveItem)
	}

	purchases := api.Group("/purchases")
	{
		purchases.GET("", r.purchaseController.List)
		purchases.GET("/export", admin, r.purchaseController.Export)
		purchases.GET("/:id", r.purchaseController.Get)
		purchases.POST("", admin, r.purchaseController.Settle)
		purchases.DELETE("/:id", admin, r.purchaseController.Reverse)
	}
}

// Engine returns the underlying Gin engine.
func (r *Router) Engine() *gin.Engine {
	return r.engine
}
