package pgsql

import (
	"context"
	"time"

	"github.com/SscSPs/checkout_settlement/internal/apperrors"
	"github.com/SscSPs/checkout_settlement/internal/core/domain"
	portsrepo "github.com/SscSPs/checkout_settlement/internal/core/ports/repositories"
	"github.com/SscSPs/checkout_settlement/internal/models"
	"github.com/SscSPs/checkout_settlement/internal/utils/mapping"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxWithdrawalRepository struct {
	BaseRepository
}

func newPgxWithdrawalRepository(pool *pgxpool.Pool) *PgxWithdrawalRepository {
	return &PgxWithdrawalRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var (
	_ portsrepo.WithdrawalRepositoryFacade  = (*PgxWithdrawalRepository)(nil)
	_ portsrepo.BankAccountRepositoryFacade = (*PgxWithdrawalRepository)(nil)
)

func (r *PgxWithdrawalRepository) CreateBankAccount(ctx context.Context, a domain.BankAccount) error {
	query := `
		INSERT INTO bank_accounts (
			bank_account_id, tenant_id, bank_code, branch, account_number, holder_name, holder_document,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	_, err := r.conn(ctx).Exec(ctx, query, a.BankAccountID, a.TenantID, a.BankCode, a.Branch, a.AccountNumber,
		a.HolderName, a.HolderDocument, a.CreatedAt, a.CreatedBy, a.LastUpdatedAt, a.LastUpdatedBy)
	if err != nil {
		return duplicateOr(err, "failed to insert bank account")
	}
	return nil
}

func (r *PgxWithdrawalRepository) FindBankAccountByID(ctx context.Context, tenantID, bankAccountID string) (*domain.BankAccount, error) {
	query := `
		SELECT bank_account_id, tenant_id, bank_code, branch, account_number, holder_name, holder_document,
		       created_at, created_by, last_updated_at, last_updated_by
		FROM bank_accounts
		WHERE tenant_id = $1 AND bank_account_id = $2;
	`
	var a domain.BankAccount
	err := r.conn(ctx).QueryRow(ctx, query, tenantID, bankAccountID).Scan(&a.BankAccountID, &a.TenantID, &a.BankCode,
		&a.Branch, &a.AccountNumber, &a.HolderName, &a.HolderDocument, &a.CreatedAt, &a.CreatedBy, &a.LastUpdatedAt, &a.LastUpdatedBy)
	if err != nil {
		return nil, notFoundOr(err, apperrors.ErrNotFound, "failed to find bank account "+bankAccountID)
	}
	return &a, nil
}

const withdrawalColumns = `
	withdrawal_id, tenant_id, bank_account_id, amount, status, ledger_entry_id, failure_reason, completed_at,
	created_at, created_by, last_updated_at, last_updated_by`

func (r *PgxWithdrawalRepository) CreateWithdrawal(ctx context.Context, w domain.Withdrawal) error {
	m := mapping.ToModelWithdrawal(w)
	query := `INSERT INTO withdrawals (` + withdrawalColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);`
	_, err := r.conn(ctx).Exec(ctx, query, m.WithdrawalID, m.TenantID, m.BankAccountID, m.Amount, m.Status, m.LedgerEntryID,
		m.FailureReason, m.CompletedAt, m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy)
	if err != nil {
		return duplicateOr(err, "failed to insert withdrawal")
	}
	return nil
}

func (r *PgxWithdrawalRepository) FindWithdrawalByID(ctx context.Context, tenantID, withdrawalID string) (*domain.Withdrawal, error) {
	query := `SELECT ` + withdrawalColumns + ` FROM withdrawals WHERE tenant_id = $1 AND withdrawal_id = $2;`
	var m models.Withdrawal
	err := r.conn(ctx).QueryRow(ctx, query, tenantID, withdrawalID).Scan(&m.WithdrawalID, &m.TenantID, &m.BankAccountID,
		&m.Amount, &m.Status, &m.LedgerEntryID, &m.FailureReason, &m.CompletedAt, &m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy)
	if err != nil {
		return nil, notFoundOr(err, apperrors.ErrNotFound, "failed to find withdrawal "+withdrawalID)
	}
	w := mapping.ToDomainWithdrawal(m)
	return &w, nil
}

func (r *PgxWithdrawalRepository) UpdateWithdrawalStatus(ctx context.Context, tenantID, withdrawalID string, from, to domain.WithdrawalStatus, failureReason *string, updatedBy string, at time.Time) error {
	query := `
		UPDATE withdrawals
		SET status = $4,
		    failure_reason = COALESCE($5, failure_reason),
		    completed_at = CASE WHEN $4 = 'completed' THEN $6 ELSE completed_at END,
		    last_updated_at = $6,
		    last_updated_by = $7
		WHERE tenant_id = $1 AND withdrawal_id = $2 AND status = $3;
	`
	tag, err := r.conn(ctx).Exec(ctx, query, tenantID, withdrawalID, string(from), string(to), failureReason, at, updatedBy)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update withdrawal "+withdrawalID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrAlreadyFinalized
	}
	return nil
}
