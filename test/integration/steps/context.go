// Package steps provides step definitions for BDD integration tests.
package steps

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/cucumber/godog"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/pantry-ledger/backend/config"
	"github.com/pantry-ledger/backend/internal/infra/dependency"
	"github.com/pantry-ledger/backend/internal/integration/email"
	"github.com/pantry-ledger/backend/internal/integration/persistence/model"
	"github.com/pantry-ledger/backend/test/integration/mock"
)

const testJWTSecret = "test-jwt-secret-key-for-testing-purposes"

// testContext holds the state of one scenario.
type testContext struct {
	uri      string
	headers  map[string]string
	client   *http.Client
	response *response

	db       *mock.Db
	timeMock *mock.Time
	redis    *mock.Redis

	accessToken  string
	refreshToken string

	// Named resources created during the scenario, addressed by placeholders
	// such as {{product:Rice}} or {{item:Rice}}.
	productIDs     map[string]uuid.UUID
	itemIDs        map[string]uuid.UUID
	categoryIDs    map[string]uuid.UUID
	purchaseIDs    map[string]uuid.UUID
	lastPurchase   uuid.UUID
	lastReceiptURL string
}

type response struct {
	status int
	body   any
}

var (
	serverInit     sync.Once
	portInit       sync.Once
	testServerPort int

	testDB     *mock.Db
	testClock  *mock.Time
	testRedis  *mock.Redis
	testEmails *email.RecordingSender
)

func initializePort() {
	portInit.Do(func() {
		testServerPort = findAvailablePort()
		_ = os.Setenv("SERVER_PORT", strconv.Itoa(testServerPort))
		_ = os.Setenv("ENV", "test")
	})
}

func findAvailablePort() int {
	listener, err := net.Listen("tcp", ":0")
	if err != nil {
		panic(err)
	}
	defer listener.Close()
	return listener.Addr().(*net.TCPAddr).Port
}

// InitializeTestSuite sets up resources shared by every scenario.
func InitializeTestSuite(ctx *godog.TestSuiteContext) {
	ctx.BeforeSuite(func() {
		gin.SetMode(gin.TestMode)
		initializePort()
		testDB = mock.NewDb("pantry_ledger", model.All()...)
		testClock = mock.NewTime()
		testRedis = mock.NewRedis()
		testEmails = email.NewRecordingSender()
	})
}

// InitializeScenario registers all step definitions.
func InitializeScenario(ctx *godog.ScenarioContext) {
	initializePort()

	test := &testContext{
		uri:    fmt.Sprintf("http://localhost:%d", testServerPort),
		client: &http.Client{Timeout: 10 * time.Second},
	}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		return ctx, test.before()
	})

	registerHTTPSteps(ctx, test)
	registerPantrySteps(ctx, test)
}

func (t *testContext) before() error {
	t.db = testDB
	t.timeMock = testClock
	t.redis = testRedis
	t.headers = make(map[string]string)
	t.response = nil
	t.accessToken = ""
	t.refreshToken = ""
	t.productIDs = make(map[string]uuid.UUID)
	t.itemIDs = make(map[string]uuid.UUID)
	t.categoryIDs = make(map[string]uuid.UUID)
	t.purchaseIDs = make(map[string]uuid.UUID)
	t.lastPurchase = uuid.Nil
	t.lastReceiptURL = ""
	testEmails.Reset()

	t.timeMock.Reset()
	if err := t.redis.Clear(); err != nil {
		return fmt.Errorf("failed to clear redis: %w", err)
	}
	return t.db.ClearDB()
}

func (t *testContext) startServer() error {
	var startErr error
	serverInit.Do(func() {
		cfg := config.Load()
		cfg.Server.Environment = "test"
		cfg.JWT.Secret = testJWTSecret
		cfg.JWT.BcryptCost = bcrypt.MinCost

		receiptDir, err := os.MkdirTemp("", "pantry-ledger-receipts-*")
		if err != nil {
			startErr = err
			return
		}
		cfg.Storage.Backend = config.StorageLocal
		cfg.Storage.BaseDir = receiptDir
		cfg.Storage.PublicBaseURL = t.uri + "/files"

		injector, err := dependency.NewInjector(context.Background(), cfg, testDB.DbConn, testRedis.Client(), dependency.Options{
			EmailSender: testEmails,
			Clock:       testClock.Now,
		})
		if err != nil {
			startErr = err
			return
		}

		engine := injector.Router.Setup("test")
		server := &http.Server{
			Addr:    fmt.Sprintf(":%d", testServerPort),
			Handler: engine,
		}
		go func() {
			_ = server.ListenAndServe()
		}()
	})
	if startErr != nil {
		return startErr
	}

	// Wait for server to be ready
	for i := 0; i < 50; i++ {
		resp, err := http.Get(t.uri + "/health")
		if err == nil {
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return nil
			}
		}
		time.Sleep(100 * time.Millisecond)
	}
	return fmt.Errorf("server did not become healthy on port %d", testServerPort)
}
