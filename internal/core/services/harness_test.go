package services_test

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/SscSPs/checkout_settlement/internal/core/domain"
	portssvc "github.com/SscSPs/checkout_settlement/internal/core/ports/services"
	"github.com/SscSPs/checkout_settlement/internal/core/services"
	"github.com/SscSPs/checkout_settlement/internal/dto"
	"github.com/SscSPs/checkout_settlement/internal/platform/config"
	"github.com/SscSPs/checkout_settlement/internal/platform/locking"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock PaymentGateway ---
type MockPaymentGateway struct {
	mock.Mock
}

var _ portssvc.PaymentGateway = (*MockPaymentGateway)(nil)

func (m *MockPaymentGateway) CreatePixPayment(ctx context.Context, req portssvc.GatewayPaymentRequest) (*portssvc.GatewayPaymentResult, error) {
	return gatewayResult(m.Called(ctx, req), req)
}

func (m *MockPaymentGateway) CreateBoleto(ctx context.Context, req portssvc.GatewayPaymentRequest) (*portssvc.GatewayPaymentResult, error) {
	return gatewayResult(m.Called(ctx, req), req)
}

func (m *MockPaymentGateway) GetAccountBalance(ctx context.Context, merchantID string) (decimal.Decimal, error) {
	args := m.Called(ctx, merchantID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

// gatewayResult accepts either a fixed result or a func building one from the request.
func gatewayResult(args mock.Arguments, req portssvc.GatewayPaymentRequest) (*portssvc.GatewayPaymentResult, error) {
	switch v := args.Get(0).(type) {
	case func(portssvc.GatewayPaymentRequest) *portssvc.GatewayPaymentResult:
		return v(req), args.Error(1)
	case *portssvc.GatewayPaymentResult:
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}

// --- Recording EventPublisher ---
type recordingPublisher struct {
	mu     sync.Mutex
	events []domain.DomainEvent
}

func (p *recordingPublisher) Publish(_ context.Context, event domain.DomainEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
}

func (p *recordingPublisher) ofType(t domain.EventType) []domain.DomainEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []domain.DomainEvent
	for _, e := range p.events {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// settlementSuite wires every service against one in-memory store.
type settlementSuite struct {
	suite.Suite

	store     *memStore
	gateway   *MockPaymentGateway
	publisher *recordingPublisher
	locker    *locking.MemoryLocker
	clock     *testClock
	svc       *portssvc.ServiceContainer

	ctx      context.Context
	tenant   domain.Tenant
	shirt    domain.Product
	mug      domain.Product
	operator string
	txnSeq   atomic.Int64
}

func (s *settlementSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = newMemStore()
	s.gateway = new(MockPaymentGateway)
	s.publisher = &recordingPublisher{}
	s.locker = locking.NewMemoryLocker()
	s.clock = &testClock{now: time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)}
	s.operator = uuid.NewString()
	s.txnSeq.Store(0)

	cfg := &config.Config{
		PixExpiry:               30 * time.Minute,
		BoletoExpiry:            72 * time.Hour,
		UnpaidOrderTTL:          time.Hour,
		ReconciliationTolerance: decimal.RequireFromString("0.01"),
		ReconciliationLockTTL:   time.Minute,
	}
	s.svc = services.NewServiceContainer(cfg, s.store.provider(), services.Dependencies{
		Gateway:   s.gateway,
		Locker:    s.locker,
		Publisher: s.publisher,
	}, services.WithClock(s.clock.Now))

	s.tenant = s.seedTenant("m-1")
	s.shirt = s.seedProduct(s.tenant.TenantID, "T-shirt", "59.90", 10)
	s.mug = s.seedProduct(s.tenant.TenantID, "Mug", "25.00", 3)
}

func (s *settlementSuite) seedTenant(merchantID string) domain.Tenant {
	t := domain.Tenant{TenantID: uuid.NewString(), Name: "Store " + merchantID, MerchantID: merchantID, IsActive: true}
	s.store.addTenant(t)
	return t
}

func (s *settlementSuite) seedProduct(tenantID, name, price string, stock int) domain.Product {
	p := domain.Product{
		ProductID: uuid.NewString(),
		TenantID:  tenantID,
		Name:      name,
		UnitPrice: decimal.RequireFromString(price),
		Stock:     stock,
		IsActive:  true,
	}
	s.store.addProduct(p)
	return p
}

func (s *settlementSuite) customer() dto.CustomerRequest {
	return dto.CustomerRequest{
		Name:     "Maria Silva",
		Email:    "maria@example.com",
		Document: "12345678901",
	}
}

func (s *settlementSuite) pixCheckout(items ...dto.CheckoutItemRequest) dto.CreateCheckoutRequest {
	return dto.CreateCheckoutRequest{
		Items:         items,
		Customer:      s.customer(),
		PaymentMethod: domain.PaymentMethodPix,
		ShippingCost:  decimal.RequireFromString("10.00"),
	}
}

func item(p domain.Product, qty int) dto.CheckoutItemRequest {
	return dto.CheckoutItemRequest{ProductID: p.ProductID, Quantity: qty}
}

// nextCharge answers charge requests with a fresh transaction id.
func (s *settlementSuite) nextCharge(req portssvc.GatewayPaymentRequest) *portssvc.GatewayPaymentResult {
	id := s.txnSeq.Add(1)
	return &portssvc.GatewayPaymentResult{
		TransactionID: fmt.Sprintf("txn-%d", id),
		Status:        "pending",
		QRCode:        "qr-" + req.OrderID,
		PixCopiaECola: "00020126" + req.CorrelationID,
		RawRequest:    []byte(`{"orderId":"` + req.OrderID + `"}`),
		RawResponse:   []byte(`{"status":"pending"}`),
	}
}

func (s *settlementSuite) acceptPixCharges() {
	s.gateway.On("CreatePixPayment", mock.Anything, mock.Anything).Return(s.nextCharge, nil)
}

// placeOrder places a PIX order and requires its charge to be attached.
func (s *settlementSuite) placeOrder(items ...dto.CheckoutItemRequest) *dto.CheckoutResponse {
	resp, err := s.svc.Checkout.CreateCheckout(s.ctx, s.tenant.TenantID, s.pixCheckout(items...), s.operator)
	s.Require().NoError(err)
	s.Require().NotNil(resp.Payment, "charge should be attached")
	return resp
}

func (s *settlementSuite) webhook(txnID, status string) (*dto.WebhookResponse, error) {
	body := []byte(`{"transactionId":"` + txnID + `","status":"` + status + `"}`)
	return s.svc.Webhook.HandleGatewayCallback(s.ctx, dto.GatewayWebhookRequest{TransactionID: txnID, Status: status}, body)
}
