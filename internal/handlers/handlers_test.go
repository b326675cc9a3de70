package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/SscSPs/checkout_settlement/internal/apperrors"
	"github.com/SscSPs/checkout_settlement/internal/core/domain"
	portssvc "github.com/SscSPs/checkout_settlement/internal/core/ports/services"
	"github.com/SscSPs/checkout_settlement/internal/dto"
	"github.com/SscSPs/checkout_settlement/internal/gateway"
	"github.com/SscSPs/checkout_settlement/internal/handlers"
	"github.com/SscSPs/checkout_settlement/internal/middleware"
	"github.com/SscSPs/checkout_settlement/internal/platform/config"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mocks ---

type MockCheckoutService struct {
	mock.Mock
}

func (m *MockCheckoutService) CreateCheckout(ctx context.Context, tenantID string, req dto.CreateCheckoutRequest, actorID string) (*dto.CheckoutResponse, error) {
	args := m.Called(ctx, tenantID, req, actorID)
	resp, _ := args.Get(0).(*dto.CheckoutResponse)
	return resp, args.Error(1)
}

func (m *MockCheckoutService) ProcessPayment(ctx context.Context, tenantID, orderID string, method domain.PaymentMethod, actorID string) (*domain.PaymentArtifact, error) {
	args := m.Called(ctx, tenantID, orderID, method, actorID)
	artifact, _ := args.Get(0).(*domain.PaymentArtifact)
	return artifact, args.Error(1)
}

func (m *MockCheckoutService) GetOrder(ctx context.Context, tenantID, orderID string) (*domain.Order, error) {
	args := m.Called(ctx, tenantID, orderID)
	order, _ := args.Get(0).(*domain.Order)
	return order, args.Error(1)
}

func (m *MockCheckoutService) ListOrders(ctx context.Context, tenantID string, params dto.ListOrdersParams) (*dto.ListOrdersResponse, error) {
	args := m.Called(ctx, tenantID, params)
	resp, _ := args.Get(0).(*dto.ListOrdersResponse)
	return resp, args.Error(1)
}

func (m *MockCheckoutService) GetGatewayLog(ctx context.Context, tenantID, orderID string) (*domain.GatewayTransactionLog, error) {
	args := m.Called(ctx, tenantID, orderID)
	log, _ := args.Get(0).(*domain.GatewayTransactionLog)
	return log, args.Error(1)
}

func (m *MockCheckoutService) CancelOrder(ctx context.Context, tenantID, orderID, actorID, reason string) (*domain.Order, error) {
	args := m.Called(ctx, tenantID, orderID, actorID, reason)
	order, _ := args.Get(0).(*domain.Order)
	return order, args.Error(1)
}

type MockWebhookService struct {
	mock.Mock
}

func (m *MockWebhookService) HandleGatewayCallback(ctx context.Context, req dto.GatewayWebhookRequest, rawBody []byte) (*dto.WebhookResponse, error) {
	args := m.Called(ctx, req, rawBody)
	resp, _ := args.Get(0).(*dto.WebhookResponse)
	return resp, args.Error(1)
}

type MockLedgerService struct {
	mock.Mock
}

func (m *MockLedgerService) RecordEntry(ctx context.Context, entry domain.LedgerEntry) (*domain.LedgerEntry, error) {
	args := m.Called(ctx, entry)
	e, _ := args.Get(0).(*domain.LedgerEntry)
	return e, args.Error(1)
}

func (m *MockLedgerService) ConfirmEntry(ctx context.Context, tenantID, entryID, actorID string) (*domain.LedgerEntry, error) {
	args := m.Called(ctx, tenantID, entryID, actorID)
	e, _ := args.Get(0).(*domain.LedgerEntry)
	return e, args.Error(1)
}

func (m *MockLedgerService) FailEntry(ctx context.Context, tenantID, entryID, actorID string) (*domain.LedgerEntry, error) {
	args := m.Called(ctx, tenantID, entryID, actorID)
	e, _ := args.Get(0).(*domain.LedgerEntry)
	return e, args.Error(1)
}

func (m *MockLedgerService) RunningBalance(ctx context.Context, tenantID string, asOf time.Time) (decimal.Decimal, error) {
	args := m.Called(ctx, tenantID, asOf)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockLedgerService) AvailableBalance(ctx context.Context, tenantID string, asOf time.Time) (decimal.Decimal, error) {
	args := m.Called(ctx, tenantID, asOf)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockLedgerService) GetEntryByReference(ctx context.Context, tenantID, referenceID string) (*domain.LedgerEntry, error) {
	args := m.Called(ctx, tenantID, referenceID)
	e, _ := args.Get(0).(*domain.LedgerEntry)
	return e, args.Error(1)
}

func (m *MockLedgerService) ListEntries(ctx context.Context, tenantID string, params dto.ListLedgerEntriesParams) (*dto.ListLedgerEntriesResponse, error) {
	args := m.Called(ctx, tenantID, params)
	resp, _ := args.Get(0).(*dto.ListLedgerEntriesResponse)
	return resp, args.Error(1)
}

type MockReconciliationService struct {
	mock.Mock
}

func (m *MockReconciliationService) RunDaily(ctx context.Context, runAt time.Time) (*dto.ReconciliationRunSummary, error) {
	args := m.Called(ctx, runAt)
	summary, _ := args.Get(0).(*dto.ReconciliationRunSummary)
	return summary, args.Error(1)
}

func (m *MockReconciliationService) ReconcileTenant(ctx context.Context, tenant domain.Tenant, runAt time.Time) (*domain.ReconciliationRecord, error) {
	args := m.Called(ctx, tenant, runAt)
	record, _ := args.Get(0).(*domain.ReconciliationRecord)
	return record, args.Error(1)
}

func (m *MockReconciliationService) ListRecords(ctx context.Context, tenantID string, params dto.ListReconciliationsParams) (*dto.ListReconciliationsResponse, error) {
	args := m.Called(ctx, tenantID, params)
	resp, _ := args.Get(0).(*dto.ListReconciliationsResponse)
	return resp, args.Error(1)
}

func (m *MockReconciliationService) ResolveRecord(ctx context.Context, tenantID, recordID, actorID, note string) (*domain.ReconciliationRecord, error) {
	args := m.Called(ctx, tenantID, recordID, actorID, note)
	record, _ := args.Get(0).(*domain.ReconciliationRecord)
	return record, args.Error(1)
}

type MockWithdrawalService struct {
	mock.Mock
}

func (m *MockWithdrawalService) RegisterBankAccount(ctx context.Context, tenantID string, req dto.CreateBankAccountRequest, actorID string) (*domain.BankAccount, error) {
	args := m.Called(ctx, tenantID, req, actorID)
	account, _ := args.Get(0).(*domain.BankAccount)
	return account, args.Error(1)
}

func (m *MockWithdrawalService) RequestWithdrawal(ctx context.Context, tenantID string, req dto.CreateWithdrawalRequest, actorID string) (*domain.Withdrawal, error) {
	args := m.Called(ctx, tenantID, req, actorID)
	w, _ := args.Get(0).(*domain.Withdrawal)
	return w, args.Error(1)
}

func (m *MockWithdrawalService) CompleteWithdrawal(ctx context.Context, tenantID, withdrawalID, actorID string) (*domain.Withdrawal, error) {
	args := m.Called(ctx, tenantID, withdrawalID, actorID)
	w, _ := args.Get(0).(*domain.Withdrawal)
	return w, args.Error(1)
}

func (m *MockWithdrawalService) FailWithdrawal(ctx context.Context, tenantID, withdrawalID, reason, actorID string) (*domain.Withdrawal, error) {
	args := m.Called(ctx, tenantID, withdrawalID, reason, actorID)
	w, _ := args.Get(0).(*domain.Withdrawal)
	return w, args.Error(1)
}

// --- Test Suite ---

const (
	testTenant = "9c4e2b1a-7f3d-4e6a-b5c8-0d1e2f3a4b5c"
	testActor  = "user-1"
	testSecret = "test-secret-key-that-is-long-enough"
	hookSecret = "webhook-secret"
	testIssuer = "checkout-settlement"
)

type HandlersTestSuite struct {
	suite.Suite
	router         *gin.Engine
	checkout       *MockCheckoutService
	webhook        *MockWebhookService
	ledger         *MockLedgerService
	reconciliation *MockReconciliationService
	withdrawal     *MockWithdrawalService
}

func TestHandlersTestSuite(t *testing.T) {
	suite.Run(t, new(HandlersTestSuite))
}

func (s *HandlersTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)

	s.checkout = new(MockCheckoutService)
	s.webhook = new(MockWebhookService)
	s.ledger = new(MockLedgerService)
	s.reconciliation = new(MockReconciliationService)
	s.withdrawal = new(MockWithdrawalService)

	cfg := &config.Config{
		JWTSecret:     testSecret,
		JWTIssuer:     testIssuer,
		WebhookSecret: hookSecret,
	}
	s.router = gin.New()
	handlers.RegisterRoutes(s.router, cfg, &portssvc.ServiceContainer{
		Checkout:       s.checkout,
		Webhook:        s.webhook,
		Ledger:         s.ledger,
		Reconciliation: s.reconciliation,
		Withdrawal:     s.withdrawal,
	}, nil)
}

func (s *HandlersTestSuite) TearDownTest() {
	s.checkout.AssertExpectations(s.T())
	s.webhook.AssertExpectations(s.T())
	s.ledger.AssertExpectations(s.T())
	s.reconciliation.AssertExpectations(s.T())
	s.withdrawal.AssertExpectations(s.T())
}

func (s *HandlersTestSuite) token(tenantID, actorID string) string {
	claims := middleware.TenantClaims{
		TenantID: tenantID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   actorID,
			Issuer:    testIssuer,
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	if err != nil {
		s.FailNow("Failed to sign test token", err.Error())
	}
	return signed
}

func (s *HandlersTestSuite) do(method, path string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		s.Require().NoError(err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.token(testTenant, testActor))

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *HandlersTestSuite) errorBody(w *httptest.ResponseRecorder) string {
	var body map[string]string
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body))
	return body["error"]
}

func validCheckoutBody() map[string]any {
	return map[string]any{
		"items": []map[string]any{
			{"productID": "6f1c2d3e-4b5a-4c6d-8e7f-901a2b3c4d5e", "quantity": 2},
		},
		"customer": map[string]any{
			"name":     "Maria Silva",
			"email":    "maria@example.com",
			"document": "12345678901",
		},
		"paymentMethod": "pix",
		"shippingCost":  "10.00",
	}
}

// --- Checkout ---

func (s *HandlersTestSuite) TestCreateCheckout_Success() {
	resp := &dto.CheckoutResponse{
		OrderID:     "order-1",
		OrderNumber: 1,
		Status:      string(domain.OrderPending),
		Total:       decimal.RequireFromString("129.80"),
		Payment:     &dto.PaymentArtifactResponse{TransactionID: "txn-1", Method: "pix"},
	}
	s.checkout.On("CreateCheckout", mock.Anything, testTenant,
		mock.MatchedBy(func(req dto.CreateCheckoutRequest) bool {
			return len(req.Items) == 1 && req.Items[0].Quantity == 2 &&
				req.PaymentMethod == domain.PaymentMethodPix &&
				req.ShippingCost.Equal(decimal.RequireFromString("10"))
		}), testActor).Return(resp, nil).Once()

	w := s.do(http.MethodPost, "/api/v1/checkout", validCheckoutBody())

	s.Equal(http.StatusCreated, w.Code)
	var got dto.CheckoutResponse
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &got))
	s.Equal("order-1", got.OrderID)
	s.Equal("txn-1", got.Payment.TransactionID)
	s.True(got.Total.Equal(decimal.RequireFromString("129.80")))
}

func (s *HandlersTestSuite) TestCreateCheckout_GatewayDownStillCreated() {
	s.checkout.On("CreateCheckout", mock.Anything, testTenant, mock.Anything, testActor).
		Return(&dto.CheckoutResponse{OrderID: "order-2", PaymentError: "gateway unavailable"}, nil).Once()

	w := s.do(http.MethodPost, "/api/v1/checkout", validCheckoutBody())

	s.Equal(http.StatusCreated, w.Code)
	s.Contains(w.Body.String(), "gateway unavailable")
}

func (s *HandlersTestSuite) TestCreateCheckout_InvalidBody() {
	body := validCheckoutBody()
	body["paymentMethod"] = "credit_card"

	w := s.do(http.MethodPost, "/api/v1/checkout", body)

	s.Equal(http.StatusBadRequest, w.Code)
	s.Contains(s.errorBody(w), "Invalid request format")
	s.checkout.AssertNotCalled(s.T(), "CreateCheckout", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (s *HandlersTestSuite) TestCreateCheckout_InsufficientStock() {
	s.checkout.On("CreateCheckout", mock.Anything, testTenant, mock.Anything, testActor).
		Return(nil, fmt.Errorf("product p-1: %w", apperrors.ErrInsufficientStock)).Once()

	w := s.do(http.MethodPost, "/api/v1/checkout", validCheckoutBody())

	s.Equal(http.StatusBadRequest, w.Code)
	s.Contains(s.errorBody(w), "insufficient stock")
}

func (s *HandlersTestSuite) TestCreateCheckout_RequiresToken() {
	raw, _ := json.Marshal(validCheckoutBody())
	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout", bytes.NewReader(raw))
	w := httptest.NewRecorder()

	s.router.ServeHTTP(w, req)

	s.Equal(http.StatusUnauthorized, w.Code)
}

func (s *HandlersTestSuite) TestProcessPayment_GatewayErrorIsGeneric() {
	s.checkout.On("ProcessPayment", mock.Anything, testTenant, "order-1", domain.PaymentMethodPix, testActor).
		Return(nil, fmt.Errorf("create_pix: upstream bank offline: %w", apperrors.ErrGateway)).Once()

	w := s.do(http.MethodPost, "/api/v1/orders/order-1/payment", map[string]string{"paymentMethod": "pix"})

	s.Equal(http.StatusBadGateway, w.Code)
	s.NotContains(w.Body.String(), "upstream bank offline")
}

func (s *HandlersTestSuite) TestProcessPayment_RetryableGatewayErrorSetsRetryAfter() {
	s.checkout.On("ProcessPayment", mock.Anything, testTenant, "order-1", domain.PaymentMethodPix, testActor).
		Return(nil, &gateway.Error{Operation: "create_pix", StatusCode: http.StatusServiceUnavailable, Retryable: true}).Once()

	w := s.do(http.MethodPost, "/api/v1/orders/order-1/payment", map[string]string{"paymentMethod": "pix"})

	s.Equal(http.StatusBadGateway, w.Code)
	s.Equal("30", w.Header().Get("Retry-After"))
}

func (s *HandlersTestSuite) TestProcessPayment_AlreadyProcessed() {
	s.checkout.On("ProcessPayment", mock.Anything, testTenant, "order-1", domain.PaymentMethodPix, testActor).
		Return(nil, fmt.Errorf("order order-1: %w", apperrors.ErrAlreadyProcessed)).Once()

	w := s.do(http.MethodPost, "/api/v1/orders/order-1/payment", map[string]string{"paymentMethod": "pix"})

	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *HandlersTestSuite) TestGetOrder_NotFound() {
	s.checkout.On("GetOrder", mock.Anything, testTenant, "missing").Return(nil, apperrors.ErrOrderNotFound).Once()

	w := s.do(http.MethodGet, "/api/v1/orders/missing", nil)

	s.Equal(http.StatusNotFound, w.Code)
}

func (s *HandlersTestSuite) TestGetOrderStatus() {
	expires := time.Date(2024, 6, 1, 10, 30, 0, 0, time.UTC)
	s.checkout.On("GetOrder", mock.Anything, testTenant, "order-1").Return(&domain.Order{
		OrderID:          "order-1",
		Status:           domain.OrderPending,
		PaymentStatus:    domain.PaymentPending,
		PaymentExpiresAt: &expires,
	}, nil).Once()

	w := s.do(http.MethodGet, "/api/v1/orders/order-1/status", nil)

	s.Equal(http.StatusOK, w.Code)
	var got dto.OrderStatusResponse
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &got))
	s.Equal(string(domain.OrderPending), got.Status)
	s.Require().NotNil(got.ExpiresAt)
	s.True(got.ExpiresAt.Equal(expires))
}

func (s *HandlersTestSuite) TestGetGatewayLog() {
	txn := "txn-1"
	s.checkout.On("GetGatewayLog", mock.Anything, testTenant, "order-1").Return(&domain.GatewayTransactionLog{
		CorrelationID:        "corr-1",
		OrderID:              "order-1",
		Operation:            domain.GatewayOpWebhook,
		GatewayTransactionID: &txn,
		LastWebhook:          []byte(`{"status":"paid"}`),
		Success:              true,
	}, nil).Once()

	w := s.do(http.MethodGet, "/api/v1/orders/order-1/gateway-log", nil)

	s.Equal(http.StatusOK, w.Code)
	var got dto.GatewayLogResponse
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &got))
	s.Equal("corr-1", got.CorrelationID)
	s.Equal("webhook", got.Operation)
	s.JSONEq(`{"status":"paid"}`, string(got.LastWebhook))
}

func (s *HandlersTestSuite) TestGetGatewayLog_NotFound() {
	s.checkout.On("GetGatewayLog", mock.Anything, testTenant, "order-2").Return(nil, apperrors.ErrNotFound).Once()

	w := s.do(http.MethodGet, "/api/v1/orders/order-2/gateway-log", nil)

	s.Equal(http.StatusNotFound, w.Code)
}

func (s *HandlersTestSuite) TestListOrders_BindsPagination() {
	s.checkout.On("ListOrders", mock.Anything, testTenant, mock.MatchedBy(func(p dto.ListOrdersParams) bool {
		return p.Limit == 5 && p.NextToken != nil && *p.NextToken == "abc"
	})).Return(&dto.ListOrdersResponse{Orders: []dto.OrderResponse{}}, nil).Once()

	w := s.do(http.MethodGet, "/api/v1/orders?limit=5&nextToken=abc", nil)

	s.Equal(http.StatusOK, w.Code)
}

func (s *HandlersTestSuite) TestListOrders_RejectsOversizedPage() {
	w := s.do(http.MethodGet, "/api/v1/orders?limit=1000", nil)

	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *HandlersTestSuite) TestCancelOrder_ConfirmedConflict() {
	s.checkout.On("CancelOrder", mock.Anything, testTenant, "order-1", testActor, "customer asked").
		Return(nil, fmt.Errorf("%w: order order-1 is already confirmed", apperrors.ErrIllegalTransition)).Once()

	w := s.do(http.MethodPost, "/api/v1/orders/order-1/cancel", map[string]string{"reason": "customer asked"})

	s.Equal(http.StatusConflict, w.Code)
}

// --- Webhooks ---

func (s *HandlersTestSuite) webhookRequest(body []byte, signature string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/webhooks/gateway", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if signature != "" {
		req.Header.Set(middleware.SignatureHeader, signature)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *HandlersTestSuite) TestWebhook_SignedCallbackIsApplied() {
	body := []byte(`{"transactionId":"txn-1","status":"paid","correlationId":"corr-1"}`)
	signature := middleware.HMACVerifier{Secret: []byte(hookSecret)}.SignBody(body)

	s.webhook.On("HandleGatewayCallback", mock.Anything,
		dto.GatewayWebhookRequest{TransactionID: "txn-1", Status: "paid", CorrelationID: "corr-1"}, body).
		Return(&dto.WebhookResponse{Success: true, OrderID: "order-1", Status: "confirmed"}, nil).Once()

	w := s.webhookRequest(body, signature)

	s.Equal(http.StatusOK, w.Code)
	var got dto.WebhookResponse
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &got))
	s.True(got.Success)
	s.Equal("confirmed", got.Status)
}

func (s *HandlersTestSuite) TestWebhook_BadSignatureRejected() {
	body := []byte(`{"transactionId":"txn-1","status":"paid"}`)

	w := s.webhookRequest(body, "deadbeef")

	s.Equal(http.StatusUnauthorized, w.Code)
	s.webhook.AssertNotCalled(s.T(), "HandleGatewayCallback", mock.Anything, mock.Anything, mock.Anything)
}

func (s *HandlersTestSuite) TestWebhook_StorageFailureAsksForRetry() {
	body := []byte(`{"transactionId":"txn-1","status":"paid"}`)
	signature := middleware.HMACVerifier{Secret: []byte(hookSecret)}.SignBody(body)
	s.webhook.On("HandleGatewayCallback", mock.Anything, mock.Anything, body).
		Return(nil, fmt.Errorf("update order: %w", apperrors.ErrPersistence)).Once()

	w := s.webhookRequest(body, signature)

	s.Equal(http.StatusInternalServerError, w.Code)
}

func (s *HandlersTestSuite) TestWebhook_UnknownStatus() {
	body := []byte(`{"transactionId":"txn-1","status":"chargeback"}`)
	signature := middleware.HMACVerifier{Secret: []byte(hookSecret)}.SignBody(body)
	s.webhook.On("HandleGatewayCallback", mock.Anything, mock.Anything, body).
		Return(nil, fmt.Errorf("%w: unknown gateway status %q", apperrors.ErrValidation, "chargeback")).Once()

	w := s.webhookRequest(body, signature)

	s.Equal(http.StatusBadRequest, w.Code)
}

// --- Ledger ---

func (s *HandlersTestSuite) TestGetBalance_DateMeansEndOfDay() {
	asOf := domain.EndOfDay(time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC))
	sameInstant := mock.MatchedBy(func(t time.Time) bool { return t.Equal(asOf) })
	s.ledger.On("RunningBalance", mock.Anything, testTenant, sameInstant).Return(decimal.RequireFromString("150.00"), nil).Once()
	s.ledger.On("AvailableBalance", mock.Anything, testTenant, sameInstant).Return(decimal.RequireFromString("100.00"), nil).Once()

	w := s.do(http.MethodGet, "/api/v1/ledger/balance?asOf=2024-06-01", nil)

	s.Equal(http.StatusOK, w.Code)
	var got dto.BalanceResponse
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &got))
	s.Equal(testTenant, got.TenantID)
	s.True(got.Balance.Equal(decimal.RequireFromString("150")))
	s.True(got.Available.Equal(decimal.RequireFromString("100")))
}

func (s *HandlersTestSuite) TestGetBalance_InvalidAsOf() {
	w := s.do(http.MethodGet, "/api/v1/ledger/balance?asOf=yesterday", nil)

	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *HandlersTestSuite) TestListLedgerEntries() {
	s.ledger.On("ListEntries", mock.Anything, testTenant, mock.MatchedBy(func(p dto.ListLedgerEntriesParams) bool {
		return p.Limit == 50
	})).Return(&dto.ListLedgerEntriesResponse{Entries: []dto.LedgerEntryResponse{{EntryID: "e-1"}}}, nil).Once()

	w := s.do(http.MethodGet, "/api/v1/ledger/entries", nil)

	s.Equal(http.StatusOK, w.Code)
	s.Contains(w.Body.String(), "e-1")
}

// --- Reconciliation ---

func (s *HandlersTestSuite) TestResolveRecord_AlreadyResolved() {
	s.reconciliation.On("ResolveRecord", mock.Anything, testTenant, "rec-1", testActor, "bank fee").
		Return(nil, fmt.Errorf("record rec-1: %w", apperrors.ErrAlreadyFinalized)).Once()

	w := s.do(http.MethodPost, "/api/v1/reconciliations/rec-1/resolve", map[string]string{"note": "bank fee"})

	s.Equal(http.StatusConflict, w.Code)
}

func (s *HandlersTestSuite) TestListRecords_StatusFilter() {
	s.reconciliation.On("ListRecords", mock.Anything, testTenant, mock.MatchedBy(func(p dto.ListReconciliationsParams) bool {
		return p.Status != nil && *p.Status == "pending"
	})).Return(&dto.ListReconciliationsResponse{Records: []dto.ReconciliationResponse{}}, nil).Once()

	w := s.do(http.MethodGet, "/api/v1/reconciliations?status=pending", nil)

	s.Equal(http.StatusOK, w.Code)
}

// --- Withdrawals ---

func (s *HandlersTestSuite) TestRequestWithdrawal_OverBalance() {
	s.withdrawal.On("RequestWithdrawal", mock.Anything, testTenant, mock.Anything, testActor).
		Return(nil, fmt.Errorf("%w: amount exceeds available balance", apperrors.ErrValidation)).Once()

	w := s.do(http.MethodPost, "/api/v1/withdrawals", map[string]string{"bankAccountID": "ba-1", "amount": "1000.00"})

	s.Equal(http.StatusBadRequest, w.Code)
	s.Contains(s.errorBody(w), "exceeds available balance")
}

func (s *HandlersTestSuite) TestCompleteWithdrawal() {
	s.withdrawal.On("CompleteWithdrawal", mock.Anything, testTenant, "wd-1", testActor).Return(&domain.Withdrawal{
		WithdrawalID: "wd-1",
		Amount:       decimal.RequireFromString("50"),
		Status:       domain.WithdrawalCompleted,
	}, nil).Once()

	w := s.do(http.MethodPost, "/api/v1/withdrawals/wd-1/complete", nil)

	s.Equal(http.StatusOK, w.Code)
	var got dto.WithdrawalResponse
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &got))
	s.Equal(string(domain.WithdrawalCompleted), got.Status)
}

func (s *HandlersTestSuite) TestRegisterBankAccount_Validation() {
	w := s.do(http.MethodPost, "/api/v1/bank-accounts", map[string]string{"bankCode": "1"})

	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *HandlersTestSuite) TestHealth() {
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	s.Equal(http.StatusOK, w.Code)
	s.Equal("OK", w.Body.String())
}
