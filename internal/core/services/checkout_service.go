package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/checkout_settlement/internal/apperrors"
	"github.com/SscSPs/checkout_settlement/internal/core/domain"
	portsrepo "github.com/SscSPs/checkout_settlement/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/checkout_settlement/internal/core/ports/services"
	"github.com/SscSPs/checkout_settlement/internal/dto"
	"github.com/SscSPs/checkout_settlement/internal/utils/pagination"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

const (
	maxOrderPageSize = 100

	// PaymentRetryMessage is returned to clients when an order was placed but its charge was not.
	PaymentRetryMessage = "payment could not be created, try again later"
)

// CheckoutConfig holds the payment windows granted per method.
type CheckoutConfig struct {
	PixExpiry    time.Duration
	BoletoExpiry time.Duration
}

// checkoutService implements the CheckoutSvcFacade interface
type checkoutService struct {
	BaseService
	cfg         CheckoutConfig
	txManager   portsrepo.TransactionManager
	tenantRepo  portsrepo.TenantReader
	productRepo portsrepo.ProductReader
	orderRepo   portsrepo.OrderRepositoryFacade
	gatewayLogs portsrepo.GatewayLogRepositoryFacade
	ledger      portssvc.LedgerSvcFacade
	inventory   portssvc.InventorySvc
	gateway     portssvc.PaymentGateway
	settler     *orderSettler
	validate    *validator.Validate
}

// NewCheckoutService creates the payment orchestrator.
func NewCheckoutService(
	cfg CheckoutConfig,
	repos portsrepo.RepositoryProvider,
	ledger portssvc.LedgerSvcFacade,
	inventory portssvc.InventorySvc,
	gateway portssvc.PaymentGateway,
	publisher portssvc.EventPublisher,
	options ...Option,
) portssvc.CheckoutSvcFacade {
	svc := &checkoutService{
		cfg:         cfg,
		txManager:   repos.TxManager,
		tenantRepo:  repos.TenantRepo,
		productRepo: repos.ProductRepo,
		orderRepo:   repos.OrderRepo,
		gatewayLogs: repos.GatewayLogRepo,
		ledger:      ledger,
		inventory:   inventory,
		gateway:     gateway,
		validate:    validator.New(),
	}
	svc.apply(options)
	svc.settler = newOrderSettler(repos, ledger, inventory, publisher, svc.BaseService)
	return svc
}

var _ portssvc.CheckoutSvcFacade = (*checkoutService)(nil)

// CreateCheckout reserves stock, stores the order with its pending ledger credit and then
// asks the gateway for a charge. A failed charge leaves the order pending with PaymentError set.
func (s *checkoutService) CreateCheckout(ctx context.Context, tenantID string, req dto.CreateCheckoutRequest, actorID string) (*dto.CheckoutResponse, error) {
	customer := req.Customer.ToDomainCustomer()
	if err := s.validateCustomer(customer, req.PaymentMethod); err != nil {
		return nil, err
	}
	if len(req.Items) == 0 {
		return nil, fmt.Errorf("%w: at least one item is required", apperrors.ErrValidation)
	}

	tenant, err := s.activeTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	items, err := s.resolveItems(ctx, tenantID, req.Items)
	if err != nil {
		return nil, err
	}
	subtotal, total, err := domain.CalculateTotals(items, req.ShippingCost, req.Discount)
	if err != nil {
		return nil, err
	}

	now := s.Now()
	order := domain.Order{
		OrderID:       uuid.NewString(),
		TenantID:      tenantID,
		Customer:      customer,
		Items:         items,
		Subtotal:      subtotal,
		ShippingCost:  req.ShippingCost,
		Discount:      req.Discount,
		Total:         total,
		PaymentMethod: req.PaymentMethod,
		Status:        domain.OrderPending,
		PaymentStatus: domain.PaymentPending,
		CorrelationID: uuid.NewString(),
		AuditFields:   domain.NewAuditFields(actorID, now),
	}

	err = s.txManager.WithinTx(ctx, func(txCtx context.Context) error {
		if err := s.inventory.Reserve(txCtx, tenantID, items); err != nil {
			return err
		}
		number, err := s.orderRepo.NextOrderNumber(txCtx, tenantID)
		if err != nil {
			return err
		}
		order.OrderNumber = number
		if err := s.orderRepo.CreateOrder(txCtx, order); err != nil {
			return err
		}
		_, err = s.ledger.RecordEntry(txCtx, domain.LedgerEntry{
			TenantID:      tenantID,
			Type:          domain.Credit,
			Amount:        total,
			ReferenceType: domain.ReferenceOrder,
			ReferenceID:   order.OrderID,
			Status:        domain.EntryPending,
			AuditFields:   domain.NewAuditFields(actorID, now),
		})
		return err
	})
	if err != nil {
		if !errors.Is(err, apperrors.ErrInsufficientStock) {
			s.LogError(ctx, err, "Failed to place order", slog.String("tenant_id", tenantID))
		}
		return nil, err
	}

	s.LogInfo(ctx, "Order placed",
		slog.String("order_id", order.OrderID),
		slog.Int64("order_number", order.OrderNumber),
		slog.String("total", total.StringFixed(2)))

	artifact, err := s.requestPayment(ctx, tenant, &order, actorID)
	if err != nil {
		s.LogError(ctx, err, "Payment request failed after order was placed",
			slog.String("order_id", order.OrderID),
			slog.String("correlation_id", order.CorrelationID))
		resp := dto.ToCheckoutResponse(&order, nil, PaymentRetryMessage)
		return &resp, nil
	}

	resp := dto.ToCheckoutResponse(&order, artifact, "")
	return &resp, nil
}

// ProcessPayment requests the charge for an order that was placed but has none yet.
// The stored correlation id is reused so the gateway can deduplicate the retry.
func (s *checkoutService) ProcessPayment(ctx context.Context, tenantID, orderID string, method domain.PaymentMethod, actorID string) (*domain.PaymentArtifact, error) {
	order, err := s.orderRepo.FindOrderByID(ctx, tenantID, orderID)
	if err != nil {
		return nil, err
	}
	if order.Status != domain.OrderPending || order.PaymentStatus != domain.PaymentPending || order.HasPaymentRequest() {
		return nil, fmt.Errorf("order %s: %w", orderID, apperrors.ErrAlreadyProcessed)
	}
	if method != "" && method != order.PaymentMethod {
		return nil, fmt.Errorf("%w: order was placed for %s", apperrors.ErrValidation, order.PaymentMethod)
	}
	if err := s.validateCustomer(order.Customer, order.PaymentMethod); err != nil {
		return nil, err
	}

	tenant, err := s.activeTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	return s.requestPayment(ctx, tenant, order, actorID)
}

func (s *checkoutService) requestPayment(ctx context.Context, tenant *domain.Tenant, order *domain.Order, actorID string) (*domain.PaymentArtifact, error) {
	now := s.Now()
	req := portssvc.GatewayPaymentRequest{
		MerchantID:    tenant.MerchantID,
		CorrelationID: order.CorrelationID,
		OrderID:       order.OrderID,
		Amount:        order.Total,
		Payer:         order.Customer,
		Description:   fmt.Sprintf("Order #%d", order.OrderNumber),
	}

	var (
		result    *portssvc.GatewayPaymentResult
		err       error
		operation domain.GatewayOperation
	)
	switch order.PaymentMethod {
	case domain.PaymentMethodPix:
		operation = domain.GatewayOpCreatePix
		req.ExpiresAt = now.Add(s.cfg.PixExpiry)
		result, err = s.gateway.CreatePixPayment(ctx, req)
	case domain.PaymentMethodBoleto:
		operation = domain.GatewayOpCreateBoleto
		req.ExpiresAt = now.Add(s.cfg.BoletoExpiry)
		result, err = s.gateway.CreateBoleto(ctx, req)
	default:
		return nil, fmt.Errorf("%w: unsupported payment method %q", apperrors.ErrValidation, order.PaymentMethod)
	}

	log := domain.GatewayTransactionLog{
		CorrelationID: order.CorrelationID,
		TenantID:      order.TenantID,
		OrderID:       order.OrderID,
		Operation:     operation,
		CreatedAt:     now,
		LastUpdatedAt: now,
	}
	if err != nil {
		msg := err.Error()
		log.ErrorMessage = &msg
		if logErr := s.gatewayLogs.UpsertGatewayLog(ctx, log); logErr != nil {
			s.LogError(ctx, logErr, "Failed to record gateway failure", slog.String("order_id", order.OrderID))
		}
		return nil, err
	}

	txnID := result.TransactionID
	log.GatewayTransactionID = &txnID
	log.RawRequest = result.RawRequest
	log.RawResponse = result.RawResponse
	log.Success = true

	err = s.txManager.WithinTx(ctx, func(txCtx context.Context) error {
		if err := s.orderRepo.AttachPayment(txCtx, order.TenantID, order.OrderID, txnID, req.ExpiresAt, actorID, now); err != nil {
			return err
		}
		return s.gatewayLogs.UpsertGatewayLog(txCtx, log)
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to attach gateway charge",
			slog.String("order_id", order.OrderID),
			slog.String("gateway_transaction_id", txnID))
		return nil, err
	}

	order.GatewayTransactionID = &txnID
	expiresAt := req.ExpiresAt
	order.PaymentExpiresAt = &expiresAt

	s.LogInfo(ctx, "Gateway charge created",
		slog.String("order_id", order.OrderID),
		slog.String("gateway_transaction_id", txnID),
		slog.String("method", string(order.PaymentMethod)))

	return &domain.PaymentArtifact{
		TransactionID: txnID,
		Method:        order.PaymentMethod,
		Status:        result.Status,
		QRCode:        result.QRCode,
		PixCopiaECola: result.PixCopiaECola,
		DigitableLine: result.DigitableLine,
		BarCode:       result.BarCode,
		PDFURL:        result.PDFURL,
		ExpiresAt:     expiresAt,
	}, nil
}

func (s *checkoutService) GetOrder(ctx context.Context, tenantID, orderID string) (*domain.Order, error) {
	order, err := s.orderRepo.FindOrderByID(ctx, tenantID, orderID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to get order", slog.String("order_id", orderID))
		}
		return nil, err
	}
	return order, nil
}

// GetGatewayLog returns the gateway audit row of a tenant's order.
func (s *checkoutService) GetGatewayLog(ctx context.Context, tenantID, orderID string) (*domain.GatewayTransactionLog, error) {
	order, err := s.GetOrder(ctx, tenantID, orderID)
	if err != nil {
		return nil, err
	}
	log, err := s.gatewayLogs.FindGatewayLog(ctx, order.CorrelationID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to get gateway log", slog.String("order_id", orderID))
		}
		return nil, err
	}
	return log, nil
}

// ListOrders returns one page of the tenant's orders, newest first.
func (s *checkoutService) ListOrders(ctx context.Context, tenantID string, params dto.ListOrdersParams) (*dto.ListOrdersResponse, error) {
	limit := pagination.NormalizeLimit(params.Limit, maxOrderPageSize)
	orders, nextToken, err := s.orderRepo.ListOrders(ctx, tenantID, limit, params.NextToken)
	if err != nil {
		s.LogError(ctx, err, "Failed to list orders", slog.String("tenant_id", tenantID))
		return nil, err
	}
	resp := dto.ToListOrdersResponse(orders, nextToken)
	return &resp, nil
}

// CancelOrder is the operator cancel. It takes the same path as a failed payment.
func (s *checkoutService) CancelOrder(ctx context.Context, tenantID, orderID, actorID, reason string) (*domain.Order, error) {
	order, err := s.orderRepo.FindOrderByID(ctx, tenantID, orderID)
	if err != nil {
		return nil, err
	}
	if order.IsTerminal() {
		if order.Status == domain.OrderConfirmed {
			return nil, fmt.Errorf("%w: order %s is already confirmed", apperrors.ErrIllegalTransition, orderID)
		}
		return order, nil
	}

	cancelled, _, err := s.settler.apply(ctx, order, transition{
		event:        domain.EventFailed,
		actorID:      actorID,
		cancelReason: &reason,
	})
	if err != nil {
		return nil, err
	}
	s.LogInfo(ctx, "Order cancelled by operator",
		slog.String("order_id", orderID),
		slog.String("actor_id", actorID))
	return cancelled, nil
}

func (s *checkoutService) validateCustomer(customer domain.CustomerSnapshot, method domain.PaymentMethod) error {
	if method != domain.PaymentMethodPix && method != domain.PaymentMethodBoleto {
		return fmt.Errorf("%w: unsupported payment method %q", apperrors.ErrValidation, method)
	}
	if method == domain.PaymentMethodBoleto && customer.Address == nil {
		return fmt.Errorf("%w: boleto payments require the payer address", apperrors.ErrValidation)
	}
	if err := s.validate.Struct(customer); err != nil {
		return fmt.Errorf("%w: customer: %v", apperrors.ErrValidation, err)
	}
	return nil
}

func (s *checkoutService) activeTenant(ctx context.Context, tenantID string) (*domain.Tenant, error) {
	tenant, err := s.tenantRepo.FindTenantByID(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if !tenant.IsActive {
		return nil, fmt.Errorf("tenant %s is inactive: %w", tenantID, apperrors.ErrForbidden)
	}
	return tenant, nil
}

func (s *checkoutService) resolveItems(ctx context.Context, tenantID string, requested []dto.CheckoutItemRequest) ([]domain.LineItem, error) {
	ids := make([]string, 0, len(requested))
	for _, item := range requested {
		if item.Quantity <= 0 {
			return nil, fmt.Errorf("%w: quantity for product %s must be positive", apperrors.ErrValidation, item.ProductID)
		}
		ids = append(ids, item.ProductID)
	}

	products, err := s.productRepo.FindProductsByIDs(ctx, tenantID, ids)
	if err != nil {
		return nil, err
	}

	items := make([]domain.LineItem, 0, len(requested))
	for _, item := range requested {
		product, ok := products[item.ProductID]
		if !ok {
			return nil, fmt.Errorf("%w: unknown product %s", apperrors.ErrValidation, item.ProductID)
		}
		items = append(items, domain.NewLineItem(product, item.Quantity))
	}
	return items, nil
}
