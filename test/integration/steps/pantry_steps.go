package steps

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"github.com/cucumber/godog"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pantry-ledger/backend/internal/integration/lock"
	"github.com/pantry-ledger/backend/internal/integration/persistence/model"
)

const (
	defaultPassword = "SecurePass123!"
	// settlementLease is how long a simulated peer holds the settlement lock.
	settlementLease = 30 * time.Second
)

// receiptFixtures are minimal files whose content sniffs as the named kind.
var receiptFixtures = map[string]struct {
	name        string
	contentType string
	data        []byte
}{
	"pdf":  {"receipt.pdf", "application/pdf", []byte("%PDF-1.4\n1 0 obj\n<< /Type /Catalog >>\nendobj\ntrailer\n<< /Root 1 0 R >>\n%%EOF\n")},
	"png":  {"receipt.png", "image/png", []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")},
	"text": {"receipt.txt", "text/plain", []byte("milk 2.50\nbread 1.20\n")},
}

func registerPantrySteps(ctx *godog.ScenarioContext, t *testContext) {
	// Account steps
	ctx.Given(`^I am registered as "([^"]*)"$`, t.iAmRegisteredAs)
	ctx.Given(`^I am logged in as "([^"]*)"$`, t.iAmLoggedInAs)

	// Catalog and budget setup steps
	ctx.Given(`^the budget has a deposit of "([^"]*)"$`, t.theBudgetHasADepositOf)
	ctx.Given(`^a category "([^"]*)" exists$`, t.aCategoryExists)
	ctx.Given(`^a product "([^"]*)" priced "([^"]*)" with (\d+) in stock$`, t.aProductPricedWithInStock)
	ctx.Given(`^"([^"]*)" is on the shopping list with quantity (\d+)$`, t.isOnTheShoppingListWithQuantity)
	ctx.Given(`^I mark "([^"]*)" as purchased$`, t.iMarkAsPurchased)

	// Settlement steps
	ctx.When(`^I settle the draft with a "([^"]*)" receipt$`, t.iSettleTheDraftWithAReceipt)
	ctx.When(`^I settle the draft with a "([^"]*)" receipt named "([^"]*)"$`, t.iSettleTheDraftWithAReceiptNamed)
	ctx.When(`^I download the receipt$`, t.iDownloadTheReceipt)
	ctx.When(`^I settle the draft without a receipt$`, t.iSettleTheDraftWithoutAReceipt)
	ctx.When(`^I reverse the last purchase$`, t.iReverseTheLastPurchase)
	ctx.Given(`^the last purchase is saved as "([^"]*)"$`, t.theLastPurchaseIsSavedAs)
	ctx.Given(`^(\d+) hours pass$`, t.hoursPass)
	ctx.Given(`^another instance is settling a purchase$`, t.anotherInstanceIsSettling)
	ctx.Given(`^the other instance's settlement lease expires$`, t.theSettlementLeaseExpires)

	// State assertion steps
	ctx.Then(`^the stock of "([^"]*)" should be (\d+)$`, t.theStockOfShouldBe)
	ctx.Then(`^the budget should be "([^"]*)"$`, t.theBudgetShouldBe)
	ctx.Then(`^the settlement lock should be released$`, t.theSettlementLockShouldBeReleased)
}

func (t *testContext) iAmRegisteredAs(email string) error {
	body := fmt.Sprintf(`{"email": %q, "name": "Pantry Member", "password": %q}`, email, defaultPassword)
	if err := t.executeRequest(http.MethodPost, "/api/v1/auth/register", []byte(body), "application/json"); err != nil {
		return err
	}
	if err := t.expectStatus(http.StatusCreated); err != nil {
		return err
	}
	return t.captureTokens()
}

func (t *testContext) iAmLoggedInAs(email string) error {
	body := fmt.Sprintf(`{"email": %q, "password": %q}`, email, defaultPassword)
	if err := t.executeRequest(http.MethodPost, "/api/v1/auth/login", []byte(body), "application/json"); err != nil {
		return err
	}
	if err := t.expectStatus(http.StatusOK); err != nil {
		return err
	}
	return t.captureTokens()
}

func (t *testContext) captureTokens() error {
	body, err := t.jsonResponse()
	if err != nil {
		return err
	}
	access, _ := body["access_token"].(string)
	refresh, _ := body["refresh_token"].(string)
	if access == "" {
		return fmt.Errorf("no access token in response: %v", body)
	}
	t.accessToken = access
	t.refreshToken = refresh
	return nil
}

func (t *testContext) theBudgetHasADepositOf(amount string) error {
	body := fmt.Sprintf(`{"amount": %q}`, amount)
	if err := t.executeRequest(http.MethodPost, "/api/v1/budget/deposits", []byte(body), "application/json"); err != nil {
		return err
	}
	return t.expectStatus(http.StatusCreated)
}

func (t *testContext) aCategoryExists(name string) error {
	body := fmt.Sprintf(`{"name": %q}`, name)
	if err := t.executeRequest(http.MethodPost, "/api/v1/categories", []byte(body), "application/json"); err != nil {
		return err
	}
	if err := t.expectStatus(http.StatusCreated); err != nil {
		return err
	}
	id, err := t.capturedID("id")
	if err != nil {
		return err
	}
	t.categoryIDs[name] = id
	return nil
}

func (t *testContext) aProductPricedWithInStock(name, price string, stock int) error {
	body := fmt.Sprintf(`{"name": %q, "price": %q, "quantity": %d}`, name, price, stock)
	if err := t.executeRequest(http.MethodPost, "/api/v1/products", []byte(body), "application/json"); err != nil {
		return err
	}
	if err := t.expectStatus(http.StatusCreated); err != nil {
		return err
	}
	id, err := t.capturedID("id")
	if err != nil {
		return err
	}
	t.productIDs[name] = id
	return nil
}

func (t *testContext) isOnTheShoppingListWithQuantity(name string, quantity int) error {
	productID, ok := t.productIDs[name]
	if !ok {
		return fmt.Errorf("unknown product %q", name)
	}
	body := fmt.Sprintf(`{"product_id": %q, "quantity": %d}`, productID, quantity)
	if err := t.executeRequest(http.MethodPost, "/api/v1/shopping-list", []byte(body), "application/json"); err != nil {
		return err
	}
	if err := t.expectStatus(http.StatusCreated); err != nil {
		return err
	}
	id, err := t.capturedID("id")
	if err != nil {
		return err
	}
	t.itemIDs[name] = id
	return nil
}

func (t *testContext) iMarkAsPurchased(name string) error {
	itemID, ok := t.itemIDs[name]
	if !ok {
		return fmt.Errorf("%q is not on the shopping list", name)
	}
	if err := t.executeRequest(http.MethodPost, fmt.Sprintf("/api/v1/shopping-list/%s/toggle", itemID), nil, ""); err != nil {
		return err
	}
	return t.expectStatus(http.StatusOK)
}

func (t *testContext) iSettleTheDraftWithAReceipt(kind string) error {
	fixture, ok := receiptFixtures[kind]
	if !ok {
		return fmt.Errorf("no receipt fixture for %q", kind)
	}
	return t.settleWithReceipt(kind, fixture.name)
}

func (t *testContext) iSettleTheDraftWithAReceiptNamed(kind, fileName string) error {
	return t.settleWithReceipt(kind, fileName)
}

func (t *testContext) settleWithReceipt(kind, fileName string) error {
	fixture, ok := receiptFixtures[kind]
	if !ok {
		return fmt.Errorf("no receipt fixture for %q", kind)
	}

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="receipt"; filename=%q`, fileName))
	header.Set("Content-Type", fixture.contentType)
	part, err := writer.CreatePart(header)
	if err != nil {
		return err
	}
	if _, err := part.Write(fixture.data); err != nil {
		return err
	}
	if err := writer.Close(); err != nil {
		return err
	}

	if err := t.executeRequest(http.MethodPost, "/api/v1/purchases", buf.Bytes(), writer.FormDataContentType()); err != nil {
		return err
	}
	t.capturePurchase()
	return nil
}

func (t *testContext) iSettleTheDraftWithoutAReceipt() error {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	if err := writer.Close(); err != nil {
		return err
	}
	return t.executeRequest(http.MethodPost, "/api/v1/purchases", buf.Bytes(), writer.FormDataContentType())
}

// capturePurchase remembers the purchase created by a successful settlement.
func (t *testContext) capturePurchase() {
	if t.response == nil || t.response.status != http.StatusCreated {
		return
	}
	body, err := t.jsonResponse()
	if err != nil {
		return
	}
	if idStr, ok := getFieldValue(body, "purchase.id").(string); ok {
		if id, err := uuid.Parse(idStr); err == nil {
			t.lastPurchase = id
		}
	}
	if url, ok := getFieldValue(body, "purchase.receipt.url").(string); ok {
		t.lastReceiptURL = url
	}
}

func (t *testContext) iDownloadTheReceipt() error {
	if t.lastReceiptURL == "" {
		return fmt.Errorf("no receipt has been uploaded in this scenario")
	}
	path := strings.TrimPrefix(t.lastReceiptURL, t.uri)
	if path == t.lastReceiptURL {
		return fmt.Errorf("receipt URL %q is not served by the test server", t.lastReceiptURL)
	}
	return t.executeRequest(http.MethodGet, path, nil, "")
}

func (t *testContext) iReverseTheLastPurchase() error {
	if t.lastPurchase == uuid.Nil {
		return fmt.Errorf("no purchase has been settled in this scenario")
	}
	return t.executeRequest(http.MethodDelete, "/api/v1/purchases/"+t.lastPurchase.String(), nil, "")
}

func (t *testContext) theLastPurchaseIsSavedAs(name string) error {
	if t.lastPurchase == uuid.Nil {
		return fmt.Errorf("no purchase has been settled in this scenario")
	}
	t.purchaseIDs[name] = t.lastPurchase
	return nil
}

func (t *testContext) hoursPass(hours int) error {
	t.timeMock.Advance(time.Duration(hours) * time.Hour)
	return nil
}

func (t *testContext) anotherInstanceIsSettling() error {
	return t.redis.Hold(lock.DefaultKey, settlementLease)
}

func (t *testContext) theSettlementLeaseExpires() error {
	t.redis.FastForward(settlementLease + time.Second)
	return nil
}

func (t *testContext) theSettlementLockShouldBeReleased() error {
	if t.redis.Held(lock.DefaultKey) {
		return fmt.Errorf("settlement lock %q is still held", lock.DefaultKey)
	}
	return nil
}

func (t *testContext) theStockOfShouldBe(name string, expected int) error {
	productID, ok := t.productIDs[name]
	if !ok {
		return fmt.Errorf("unknown product %q", name)
	}
	var product model.ProductModel
	if err := t.db.DbConn.First(&product, "id = ?", productID).Error; err != nil {
		return fmt.Errorf("failed to load product %q: %w", name, err)
	}
	if product.Quantity != expected {
		return fmt.Errorf("expected stock of %q to be %d, got %d", name, expected, product.Quantity)
	}
	return nil
}

func (t *testContext) theBudgetShouldBe(expected string) error {
	want, err := decimal.NewFromString(expected)
	if err != nil {
		return err
	}
	var budget model.BudgetModel
	if err := t.db.DbConn.First(&budget).Error; err != nil {
		return fmt.Errorf("failed to load budget: %w", err)
	}
	if !budget.Current.Equal(want) {
		return fmt.Errorf("expected budget %s, got %s", want.StringFixed(2), budget.Current.StringFixed(2))
	}
	return nil
}

func (t *testContext) expectStatus(status int) error {
	if err := t.theResponseStatusShouldBe(status); err != nil {
		return fmt.Errorf("setup request failed: %w", err)
	}
	return nil
}

func (t *testContext) capturedID(field string) (uuid.UUID, error) {
	body, err := t.jsonResponse()
	if err != nil {
		return uuid.Nil, err
	}
	idStr, ok := getFieldValue(body, field).(string)
	if !ok {
		return uuid.Nil, fmt.Errorf("field '%s' not found in response: %v", field, body)
	}
	return uuid.Parse(idStr)
}
