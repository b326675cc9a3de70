package repositories

// RepositoryProvider holds all repository interfaces needed by services.
// This makes passing dependencies to the service container constructor cleaner.
type RepositoryProvider struct {
	TxManager          TransactionManager
	TenantRepo         TenantRepositoryFacade
	ProductRepo        ProductRepositoryFacade
	OrderRepo          OrderRepositoryFacade
	LedgerRepo         LedgerRepositoryFacade
	GatewayLogRepo     GatewayLogRepositoryFacade
	ReconciliationRepo ReconciliationRepositoryFacade
	BankAccountRepo    BankAccountRepositoryFacade
	WithdrawalRepo     WithdrawalRepositoryFacade
}
