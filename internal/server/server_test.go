package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"printshop-backend/internal/client"
	"printshop-backend/internal/config"
	"printshop-backend/internal/handler"
	"printshop-backend/internal/model"
	"printshop-backend/internal/repository"
	"printshop-backend/internal/service"
)

const (
	testJWTSecret     = "jwt_test_secret"
	testWebhookSecret = "whsec_test_secret"
)

type fixture struct {
	srv     *Server
	db      *gorm.DB
	webhook service.WebhookService
	pod     *fakePodClient
}

type fakePaymentClient struct {
	mu       sync.Mutex
	sessions int
}

func (f *fakePaymentClient) CreateCheckoutSession(ctx context.Context, params *client.CheckoutSessionParams) (*client.CheckoutSessionResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sessions++
	return &client.CheckoutSessionResult{
		SessionID:   fmt.Sprintf("cs_test_%d", f.sessions),
		RedirectURL: "https://checkout.example.com/pay",
	}, nil
}

func (f *fakePaymentClient) VerifyWebhookSignature(signatureHeader string, body []byte) error {
	return nil
}

func (f *fakePaymentClient) ParseEvent(body []byte) (*model.StripeEvent, error) {
	var event model.StripeEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return nil, err
	}
	return &event, nil
}

type fakePodClient struct {
	mu    sync.Mutex
	calls int
}

func (f *fakePodClient) CreateOrder(ctx context.Context, req *client.PodOrderRequest) (*client.PodOrderResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return &client.PodOrderResult{OrderID: fmt.Sprintf("pf_%d", f.calls), Status: "draft"}, nil
}

func (f *fakePodClient) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func setupServer(t *testing.T) *fixture {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatal(err)
	}
	sqlDB.SetMaxOpenConns(1)
	client.Migrate(db)

	shopItemRepo := repository.NewShopItemRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	eventRepo := repository.NewWebhookEventRepository(db)
	if err := shopItemRepo.Seed(context.Background()); err != nil {
		t.Fatalf("seed: %v", err)
	}

	// Real signature verification on the webhook path, fake session
	// creation on the checkout path.
	stripe := client.NewStripeClient(&config.Stripe{WebhookSecret: testWebhookSecret})
	pod := &fakePodClient{}
	dispatcher := service.NewFulfillmentDispatcher(orderRepo, shopItemRepo, pod)
	checkoutService := service.NewCheckoutService(shopItemRepo, orderRepo, &fakePaymentClient{}, "https://shop.example.com", 60)
	webhookService := service.NewWebhookService(stripe, orderRepo, eventRepo, dispatcher)
	shopService := service.NewShopService(shopItemRepo, orderRepo)

	return &fixture{
		srv:     NewServer(checkoutService, webhookService, shopService, testJWTSecret),
		db:      db,
		webhook: webhookService,
		pod:     pod,
	}
}

func doJSON(t *testing.T, s *Server, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.Echo().ServeHTTP(w, req)
	return w
}

func mintToken(t *testing.T, s *Server, userID string) string {
	t.Helper()
	w := doJSON(t, s, http.MethodPost, "/api/auth/token", "", map[string]string{"user_id": userID})
	if w.Code != http.StatusOK {
		t.Fatalf("mint token code %d: %s", w.Code, w.Body.String())
	}
	var resp struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	return resp.Token
}

func deliverWebhook(t *testing.T, s *Server, secret string, body []byte) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/payments/webhook", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(handler.SignatureHeader, client.BuildSignatureHeader(secret, time.Now(), body))
	w := httptest.NewRecorder()
	s.Echo().ServeHTTP(w, req)
	return w
}

func checkoutBody() map[string]any {
	return map[string]any{
		"item_id":  "aurora-ridge",
		"size":     "8x10",
		"quantity": 2,
		"recipient": map[string]string{
			"name":    "Jane Doe",
			"address": "1 Main St",
			"city":    "New York",
			"country": "US",
			"zip":     "10001",
		},
	}
}

func TestHealth(t *testing.T) {
	f := setupServer(t)
	w := doJSON(t, f.srv, http.MethodGet, "/api/health", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("health code %d", w.Code)
	}
}

func TestShopItemsArePublic(t *testing.T) {
	f := setupServer(t)
	w := doJSON(t, f.srv, http.MethodGet, "/api/shop/items", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list items code %d", w.Code)
	}
	w = doJSON(t, f.srv, http.MethodGet, "/api/shop/items/aurora-ridge", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("get item code %d", w.Code)
	}
	w = doJSON(t, f.srv, http.MethodGet, "/api/shop/items/no-such-item", "", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("missing item code %d", w.Code)
	}
}

func TestCheckoutRequiresAuth(t *testing.T) {
	f := setupServer(t)
	w := doJSON(t, f.srv, http.MethodPost, "/api/checkout", "", checkoutBody())
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
	var n int64
	f.db.Model(&model.Order{}).Count(&n)
	if n != 0 {
		t.Fatalf("expected zero orders, got %d", n)
	}
}

func TestCheckoutRejectsZeroQuantity(t *testing.T) {
	f := setupServer(t)
	token := mintToken(t, f.srv, "buyer-1")
	body := checkoutBody()
	body["quantity"] = 0
	w := doJSON(t, f.srv, http.MethodPost, "/api/checkout", token, body)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}
}

// Full purchase lifecycle: checkout opens a pending order, the verified
// completion event pays it exactly once, redelivery is acked without
// effect.
func TestPurchaseLifecycle(t *testing.T) {
	f := setupServer(t)
	token := mintToken(t, f.srv, "buyer-1")

	w := doJSON(t, f.srv, http.MethodPost, "/api/checkout", token, checkoutBody())
	if w.Code != http.StatusOK {
		t.Fatalf("checkout code %d: %s", w.Code, w.Body.String())
	}
	var checkoutResp struct {
		RedirectURL string `json:"redirect_url"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &checkoutResp); err != nil {
		t.Fatal(err)
	}
	if checkoutResp.RedirectURL == "" {
		t.Fatal("expected redirect url")
	}

	var order model.Order
	if err := f.db.First(&order).Error; err != nil {
		t.Fatal(err)
	}
	if order.Status != model.OrderStatusPending || order.AmountCents != 3000 {
		t.Fatalf("unexpected pending order: %+v", order)
	}

	event, err := json.Marshal(model.StripeEvent{
		ID:   "evt_1",
		Type: model.StripeEventCheckoutCompleted,
		Data: model.StripeEventData{Object: model.CheckoutSession{
			ID:            order.SessionID,
			PaymentIntent: "pi_test_1",
		}},
	})
	if err != nil {
		t.Fatal(err)
	}

	w = deliverWebhook(t, f.srv, testWebhookSecret, event)
	if w.Code != http.StatusOK {
		t.Fatalf("webhook code %d: %s", w.Code, w.Body.String())
	}
	var ack map[string]bool
	if err := json.Unmarshal(w.Body.Bytes(), &ack); err != nil {
		t.Fatal(err)
	}
	if !ack["received"] {
		t.Fatalf("expected received ack, got %s", w.Body.String())
	}
	f.webhook.Wait()

	if err := f.db.First(&order, "id = ?", order.ID).Error; err != nil {
		t.Fatal(err)
	}
	if order.Status != model.OrderStatusFulfilled || order.PaidAt == nil {
		t.Fatalf("order after payment: %+v", order)
	}

	// Second identical delivery.
	w = deliverWebhook(t, f.srv, testWebhookSecret, event)
	if w.Code != http.StatusOK {
		t.Fatalf("redelivery code %d", w.Code)
	}
	f.webhook.Wait()

	if n := f.pod.callCount(); n != 1 {
		t.Fatalf("expected one dispatch, got %d", n)
	}

	// Buyer sees the order.
	w = doJSON(t, f.srv, http.MethodGet, "/api/orders", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list orders code %d", w.Code)
	}
	var orders []model.Order
	if err := json.Unmarshal(w.Body.Bytes(), &orders); err != nil {
		t.Fatal(err)
	}
	if len(orders) != 1 || orders[0].ID != order.ID {
		t.Fatalf("unexpected order list: %+v", orders)
	}
}

func TestWebhookBadSignatureGets400(t *testing.T) {
	f := setupServer(t)
	token := mintToken(t, f.srv, "buyer-1")
	if w := doJSON(t, f.srv, http.MethodPost, "/api/checkout", token, checkoutBody()); w.Code != http.StatusOK {
		t.Fatalf("checkout code %d", w.Code)
	}
	var order model.Order
	if err := f.db.First(&order).Error; err != nil {
		t.Fatal(err)
	}

	event, _ := json.Marshal(model.StripeEvent{
		ID:   "evt_1",
		Type: model.StripeEventCheckoutCompleted,
		Data: model.StripeEventData{Object: model.CheckoutSession{ID: order.SessionID}},
	})

	// Signed with the wrong secret.
	w := deliverWebhook(t, f.srv, "whsec_wrong", event)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}

	// Missing header entirely.
	req := httptest.NewRequest(http.MethodPost, "/api/payments/webhook", bytes.NewReader(event))
	rec := httptest.NewRecorder()
	f.srv.Echo().ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing signature, got %d", rec.Code)
	}

	f.webhook.Wait()
	if err := f.db.First(&order, "id = ?", order.ID).Error; err != nil {
		t.Fatal(err)
	}
	if order.Status != model.OrderStatusPending {
		t.Fatalf("unauthenticated delivery mutated order: %+v", order)
	}
	if n := f.pod.callCount(); n != 0 {
		t.Fatalf("expected zero dispatches, got %d", n)
	}
}
