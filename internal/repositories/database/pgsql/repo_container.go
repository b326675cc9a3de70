package pgsql

import (
	portsrepo "github.com/SscSPs/checkout_settlement/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	withdrawalRepo := newPgxWithdrawalRepository(dbPool)

	return portsrepo.RepositoryProvider{
		TxManager:          &BaseRepository{Pool: dbPool},
		TenantRepo:         newPgxTenantRepository(dbPool),
		ProductRepo:        newPgxProductRepository(dbPool),
		OrderRepo:          newPgxOrderRepository(dbPool),
		LedgerRepo:         newPgxLedgerRepository(dbPool),
		GatewayLogRepo:     newPgxGatewayLogRepository(dbPool),
		ReconciliationRepo: newPgxReconciliationRepository(dbPool),
		BankAccountRepo:    withdrawalRepo,
		WithdrawalRepo:     withdrawalRepo,
	}
}
