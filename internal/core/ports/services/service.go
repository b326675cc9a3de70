package services

// ServiceContainer holds all service interfaces used by handlers and jobs.
type ServiceContainer struct {
	Checkout       CheckoutSvcFacade
	Webhook        WebhookSvcFacade
	Ledger         LedgerSvcFacade
	Reconciliation ReconciliationSvcFacade
	Expiry         ExpirySvc
	Withdrawal     WithdrawalSvcFacade
}
