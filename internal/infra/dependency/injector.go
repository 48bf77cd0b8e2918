// Package dependency provides dependency injection for the application.
package dependency

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"google.golang.org/api/option"
	"gorm.io/gorm"

	"github.com/pantry-ledger/backend/config"
	"github.com/pantry-ledger/backend/internal/application/adapter"
	"github.com/pantry-ledger/backend/internal/application/usecase/auth"
	"github.com/pantry-ledger/backend/internal/application/usecase/budget"
	"github.com/pantry-ledger/backend/internal/application/usecase/category"
	"github.com/pantry-ledger/backend/internal/application/usecase/draft"
	"github.com/pantry-ledger/backend/internal/application/usecase/product"
	"github.com/pantry-ledger/backend/internal/application/usecase/purchase"
	"github.com/pantry-ledger/backend/internal/application/usecase/settlement"
	"github.com/pantry-ledger/backend/internal/application/usecase/shoppinglist"
	"github.com/pantry-ledger/backend/internal/domain/valueobject"
	"github.com/pantry-ledger/backend/internal/infra/server/router"
	"github.com/pantry-ledger/backend/internal/integration/adapters"
	"github.com/pantry-ledger/backend/internal/integration/email"
	"github.com/pantry-ledger/backend/internal/integration/email/templates"
	"github.com/pantry-ledger/backend/internal/integration/entrypoint/controller"
	"github.com/pantry-ledger/backend/internal/integration/entrypoint/middleware"
	"github.com/pantry-ledger/backend/internal/integration/export"
	"github.com/pantry-ledger/backend/internal/integration/lock"
	"github.com/pantry-ledger/backend/internal/integration/persistence"
	"github.com/pantry-ledger/backend/internal/integration/storage"
)

// Options overrides collaborators that tests replace.
type Options struct {
	// EmailSender replaces the Resend client.
	EmailSender adapter.EmailSender
	// ReceiptStorage replaces the configured storage backend.
	ReceiptStorage adapter.ReceiptStorage
	// Clock replaces the settlement clock.
	Clock func() time.Time
}

// Injector holds all application dependencies.
type Injector struct {
	Config      *config.Config
	DB          *gorm.DB
	Redis       *redis.Client
	Router      *router.Router
	EmailWorker *email.Worker
}

// NewInjector creates a new dependency injector with all dependencies wired.
// redisClient may be nil, in which case locks and rate limits stay in process.
func NewInjector(ctx context.Context, cfg *config.Config, db *gorm.DB, redisClient *redis.Client, opts Options) (*Injector, error) {
	// Create repositories
	txManager := persistence.NewTransactionManager(db)
	userRepo := persistence.NewUserRepository(db)
	tokenRepo := persistence.NewTokenRepository(db)
	categoryRepo := persistence.NewCategoryRepository(db)
	productRepo := persistence.NewProductRepository(db)
	budgetRepo := persistence.NewBudgetRepository(db)
	shoppingListRepo := persistence.NewShoppingListRepository(db)
	draftRepo := persistence.NewDraftPurchaseRepository(db)
	purchaseRepo := persistence.NewPurchaseRepository(db)
	notificationOutbox := persistence.NewNotificationOutbox(db)

	// Create adapters/services
	passwordService := adapters.NewPasswordService(cfg.JWT.BcryptCost)
	tokenService := adapters.NewTokenService(cfg.JWT.Secret, cfg.JWT.AccessTokenExpiry, cfg.JWT.RefreshTokenExpiry, tokenRepo)

	receiptStorage := opts.ReceiptStorage
	receiptDir := ""
	if receiptStorage == nil {
		var err error
		receiptStorage, receiptDir, err = newReceiptStorage(ctx, cfg.Storage)
		if err != nil {
			return nil, err
		}
	}

	var settlementLock adapter.SettlementLock
	if redisClient != nil {
		settlementLock = lock.NewRedisLock(redisClient, lock.DefaultKey, cfg.Settlement.LockTTL)
	} else {
		slog.Warn("Redis not configured, settlement lock is local to this process")
		settlementLock = lock.NewLocalLock()
	}

	settlementConfig := settlement.DefaultConfig()
	settlementConfig.ReversalWindow = cfg.Settlement.ReversalWindow
	settlementConfig.MaxRetries = cfg.Settlement.MaxRetries
	settlementConfig.ReceiptPolicy = valueobject.ReceiptPolicy{
		MaxBytes:     cfg.Settlement.MaxReceiptBytes,
		AllowedTypes: valueobject.DefaultReceiptTypes,
	}
	if opts.Clock != nil {
		settlementConfig.Clock = opts.Clock
	}
	notifier := email.NewNotifier(notificationOutbox, userRepo, cfg.Email.AppBaseURL, settlementConfig.Clock)

	// Create auth use cases
	registerUseCase := auth.NewRegisterUserUseCase(userRepo, passwordService, tokenService)
	loginUseCase := auth.NewLoginUserUseCase(userRepo, passwordService, tokenService)
	refreshTokenUseCase := auth.NewRefreshTokenUseCase(userRepo, tokenService)
	logoutUseCase := auth.NewLogoutUserUseCase(tokenService)
	currentUserUseCase := auth.NewGetCurrentUserUseCase(userRepo)

	// Create budget use cases
	getBudgetUseCase := budget.NewGetBudgetUseCase(budgetRepo)
	depositUseCase := budget.NewDepositUseCase(txManager, budgetRepo)
	listHistoryUseCase := budget.NewListHistoryUseCase(budgetRepo)

	// Create category use cases
	listCategoriesUseCase := category.NewListCategoriesUseCase(categoryRepo)
	createCategoryUseCase := category.NewCreateCategoryUseCase(categoryRepo)
	updateCategoryUseCase := category.NewUpdateCategoryUseCase(categoryRepo)
	deleteCategoryUseCase := category.NewDeleteCategoryUseCase(categoryRepo, productRepo)

	// Create product use cases
	listProductsUseCase := product.NewListProductsUseCase(productRepo, categoryRepo)
	listLowStockUseCase := product.NewListLowStockUseCase(productRepo, categoryRepo)
	getProductUseCase := product.NewGetProductUseCase(productRepo, categoryRepo)
	createProductUseCase := product.NewCreateProductUseCase(productRepo, categoryRepo)
	updateProductUseCase := product.NewUpdateProductUseCase(productRepo, categoryRepo)
	consumeStockUseCase := product.NewConsumeStockUseCase(txManager, productRepo, notifier)

	// Create shopping list use cases
	listItemsUseCase := shoppinglist.NewListItemsUseCase(shoppingListRepo)
	addItemUseCase := shoppinglist.NewAddItemUseCase(txManager, shoppingListRepo, productRepo)
	updateQuantityUseCase := shoppinglist.NewUpdateQuantityUseCase(txManager, shoppingListRepo, productRepo, categoryRepo, draftRepo)
	togglePurchasedUseCase := shoppinglist.NewTogglePurchasedUseCase(txManager, shoppingListRepo, productRepo, categoryRepo, draftRepo)
	deleteItemUseCase := shoppinglist.NewDeleteItemUseCase(shoppingListRepo)

	// Create draft use cases
	getDraftUseCase := draft.NewGetDraftUseCase(draftRepo)
	editDraftPriceUseCase := draft.NewEditDraftPriceUseCase(txManager, draftRepo)
	removeDraftItemUseCase := draft.NewRemoveDraftItemUseCase(txManager, draftRepo, shoppingListRepo)

	// Create settlement and purchase history use cases
	settleUseCase := settlement.NewSettlePurchaseUseCase(
		txManager,
		budgetRepo,
		productRepo,
		draftRepo,
		purchaseRepo,
		shoppingListRepo,
		receiptStorage,
		settlementLock,
		notifier,
		settlementConfig,
	)
	reverseUseCase := settlement.NewReversePurchaseUseCase(
		txManager,
		budgetRepo,
		productRepo,
		purchaseRepo,
		receiptStorage,
		settlementLock,
		notifier,
		settlementConfig,
	)
	listPurchasesUseCase := purchase.NewListPurchasesUseCase(purchaseRepo)
	getPurchaseUseCase := purchase.NewGetPurchaseUseCase(purchaseRepo, cfg.Settlement.ReversalWindow).WithClock(settlementConfig.Clock)
	exportPurchasesUseCase := purchase.NewExportPurchasesUseCase(purchaseRepo, export.NewXLSXExporter())

	// Create controllers
	checks := map[string]controller.HealthCheck{
		"database": func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
	}
	if redisClient != nil {
		checks["redis"] = func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		}
	}

	controllers := router.Controllers{
		Health: controller.NewHealthController(checks),
		Auth: controller.NewAuthController(
			registerUseCase,
			loginUseCase,
			refreshTokenUseCase,
			logoutUseCase,
			currentUserUseCase,
		),
		Budget: controller.NewBudgetController(
			getBudgetUseCase,
			depositUseCase,
			listHistoryUseCase,
		),
		Category: controller.NewCategoryController(
			listCategoriesUseCase,
			createCategoryUseCase,
			updateCategoryUseCase,
			deleteCategoryUseCase,
		),
		Product: controller.NewProductController(
			listProductsUseCase,
			listLowStockUseCase,
			getProductUseCase,
			createProductUseCase,
			updateProductUseCase,
			consumeStockUseCase,
		),
		ShoppingList: controller.NewShoppingListController(
			listItemsUseCase,
			addItemUseCase,
			updateQuantityUseCase,
			togglePurchasedUseCase,
			deleteItemUseCase,
		),
		Draft: controller.NewDraftController(
			getDraftUseCase,
			editDraftPriceUseCase,
			removeDraftItemUseCase,
		),
		Purchase: controller.NewPurchaseController(
			settleUseCase,
			reverseUseCase,
			listPurchasesUseCase,
			getPurchaseUseCase,
			exportPurchasesUseCase,
			cfg.Settlement.MaxReceiptBytes,
		),
	}

	// Create middleware
	var limiterClient redis.UniversalClient
	if redisClient != nil {
		limiterClient = redisClient
	}
	loginRateLimiter := middleware.NewRateLimiterWithConfig(limiterClient, 5, time.Minute)
	if cfg.Server.Environment == "e2e" || cfg.Server.Environment == "test" {
		loginRateLimiter.Disable()
	}
	authMiddleware := middleware.NewAuthMiddleware(tokenService)

	// Create notification worker
	renderer, err := templates.NewRenderer()
	if err != nil {
		return nil, fmt.Errorf("failed to load email templates: %w", err)
	}
	sender := opts.EmailSender
	if sender == nil {
		if cfg.Email.ResendAPIKey == "" {
			slog.Warn("RESEND_API_KEY not set, emails are logged instead of sent")
			sender = email.LogEmailSender{}
		} else {
			sender = email.NewResendClient(cfg.Email.ResendAPIKey, cfg.Email.FromName, cfg.Email.FromEmail)
		}
	}
	worker := email.NewWorker(notificationOutbox, sender, renderer, email.WorkerConfig{
		PollInterval: cfg.Email.PollInterval,
		BatchSize:    cfg.Email.BatchSize,
		Retention:    cfg.Email.Retention,
		AppBaseURL:   cfg.Email.AppBaseURL,
		Clock:        settlementConfig.Clock,
	})

	return &Injector{
		Config:      cfg,
		DB:          db,
		Redis:       redisClient,
		Router:      router.NewRouter(controllers, loginRateLimiter, authMiddleware, receiptDir, cfg.Server.CORSAllowedOrigins),
		EmailWorker: worker,
	}, nil
}

// newReceiptStorage builds the configured receipt backend. For local storage it
// also returns the directory the router serves under /files.
func newReceiptStorage(ctx context.Context, cfg config.StorageConfig) (adapter.ReceiptStorage, string, error) {
	switch cfg.Backend {
	case config.StorageGCS:
		var opts []option.ClientOption
		if cfg.CredentialsFile != "" {
			opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
		}
		gcs, err := storage.NewGCSStorage(ctx, cfg.Bucket, cfg.PublicBaseURL, opts...)
		if err != nil {
			return nil, "", fmt.Errorf("failed to create GCS receipt storage: %w", err)
		}
		return gcs, "", nil
	case config.StorageLocal, "":
		local, err := storage.NewLocalStorage(cfg.BaseDir, cfg.PublicBaseURL)
		if err != nil {
			return nil, "", fmt.Errorf("failed to create local receipt storage: %w", err)
		}
		return local, cfg.BaseDir, nil
	default:
		return nil, "", fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}

// NewRedisClient connects to the configured Redis server, or returns nil when none is set.
func NewRedisClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	if !cfg.Enabled() {
		return nil, nil
	}

	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_URL: %w", err)
	}
	if cfg.Password != "" {
		opts.Password = cfg.Password
	}
	if cfg.DB != 0 {
		opts.DB = cfg.DB
	}

	client := redis.NewClient(opts)
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	slog.Info("Redis connection established", "addr", opts.Addr)
	return client, nil
}
