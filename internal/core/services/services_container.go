package services

import (
	portsrepo "github.com/SscSPs/checkout_settlement/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/checkout_settlement/internal/core/ports/services"
	"github.com/SscSPs/checkout_settlement/internal/platform/config"
)

// Dependencies are the adapters services talk to besides the database.
type Dependencies struct {
	Gateway   portssvc.PaymentGateway
	Locker    portssvc.Locker
	Publisher portssvc.EventPublisher
}

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, deps Dependencies, options ...Option) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	// Ledger and inventory are shared by every flow that settles an order
	container.Ledger = NewLedgerService(repos.LedgerRepo, options...)
	inventory := NewInventoryService(repos.ProductRepo, options...)

	container.Checkout = NewCheckoutService(
		CheckoutConfig{PixExpiry: cfg.PixExpiry, BoletoExpiry: cfg.BoletoExpiry},
		repos, container.Ledger, inventory, deps.Gateway, deps.Publisher, options...,
	)
	container.Webhook = NewWebhookService(repos, container.Ledger, inventory, deps.Publisher, options...)
	container.Expiry = NewExpiryService(cfg.UnpaidOrderTTL, repos, container.Ledger, inventory, deps.Publisher, options...)
	container.Reconciliation = NewReconciliationService(
		ReconciliationConfig{Tolerance: cfg.ReconciliationTolerance, LockTTL: cfg.ReconciliationLockTTL},
		repos, container.Ledger, deps.Gateway, deps.Locker, options...,
	)
	container.Withdrawal = NewWithdrawalService(repos, container.Ledger, deps.Locker, deps.Publisher, options...)

	return container
}
