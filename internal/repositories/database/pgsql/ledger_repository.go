package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SscSPs/checkout_settlement/internal/apperrors"
	"github.com/SscSPs/checkout_settlement/internal/core/domain"
	portsrepo "github.com/SscSPs/checkout_settlement/internal/core/ports/repositories"
	"github.com/SscSPs/checkout_settlement/internal/models"
	"github.com/SscSPs/checkout_settlement/internal/utils/mapping"
	"github.com/SscSPs/checkout_settlement/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type PgxLedgerRepository struct {
	BaseRepository
}

func newPgxLedgerRepository(pool *pgxpool.Pool) portsrepo.LedgerRepositoryFacade {
	return &PgxLedgerRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.LedgerRepositoryFacade = (*PgxLedgerRepository)(nil)

const ledgerColumns = `
	entry_id, tenant_id, entry_type, amount, reference_type, reference_id, status,
	confirmed_at, reversed_at, created_at, created_by, last_updated_at, last_updated_by`

func scanLedgerEntry(row pgx.Row) (domain.LedgerEntry, error) {
	var m models.LedgerEntry
	err := row.Scan(&m.EntryID, &m.TenantID, &m.EntryType, &m.Amount, &m.ReferenceType, &m.ReferenceID, &m.Status,
		&m.ConfirmedAt, &m.ReversedAt, &m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy)
	if err != nil {
		return domain.LedgerEntry{}, err
	}
	return mapping.ToDomainLedgerEntry(m), nil
}

// InsertEntry appends an entry unless (tenant, reference) already has one.
func (r *PgxLedgerRepository) InsertEntry(ctx context.Context, entry domain.LedgerEntry) (*domain.LedgerEntry, bool, error) {
	m := mapping.ToModelLedgerEntry(entry)
	query := `
		INSERT INTO ledger_entries (` + ledgerColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (tenant_id, reference_id) DO NOTHING
		RETURNING ` + ledgerColumns + `;
	`
	stored, err := scanLedgerEntry(r.conn(ctx).QueryRow(ctx, query,
		m.EntryID, m.TenantID, m.EntryType, m.Amount, m.ReferenceType, m.ReferenceID, m.Status,
		m.ConfirmedAt, m.ReversedAt, m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	))
	if err == nil {
		return &stored, true, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, false, duplicateOr(err, "failed to insert ledger entry for reference "+entry.ReferenceID)
	}

	existing, err := r.FindEntryByReference(ctx, entry.TenantID, entry.ReferenceID)
	if err != nil {
		return nil, false, err
	}
	return existing, false, nil
}

func (r *PgxLedgerRepository) FindEntryByID(ctx context.Context, tenantID, entryID string) (*domain.LedgerEntry, error) {
	query := `SELECT ` + ledgerColumns + ` FROM ledger_entries WHERE tenant_id = $1 AND entry_id = $2;`
	e, err := scanLedgerEntry(r.conn(ctx).QueryRow(ctx, query, tenantID, entryID))
	if err != nil {
		return nil, notFoundOr(err, apperrors.ErrNotFound, "failed to find ledger entry "+entryID)
	}
	return &e, nil
}

func (r *PgxLedgerRepository) FindEntryByReference(ctx context.Context, tenantID, referenceID string) (*domain.LedgerEntry, error) {
	query := `SELECT ` + ledgerColumns + ` FROM ledger_entries WHERE tenant_id = $1 AND reference_id = $2;`
	e, err := scanLedgerEntry(r.conn(ctx).QueryRow(ctx, query, tenantID, referenceID))
	if err != nil {
		return nil, notFoundOr(err, apperrors.ErrNotFound, "failed to find ledger entry for reference "+referenceID)
	}
	return &e, nil
}

// UpdateEntryStatus finalizes a pending entry. Amount, type and reference are never written.
func (r *PgxLedgerRepository) UpdateEntryStatus(ctx context.Context, tenantID, entryID string, from, to domain.EntryStatus, updatedBy string, at time.Time) error {
	query := `
		UPDATE ledger_entries
		SET status = $4,
		    confirmed_at = CASE WHEN $4 = 'confirmed' THEN $5 ELSE confirmed_at END,
		    reversed_at = CASE WHEN $4 = 'failed' THEN $5 ELSE reversed_at END,
		    last_updated_at = $5,
		    last_updated_by = $6
		WHERE tenant_id = $1 AND entry_id = $2 AND status = $3;
	`
	tag, err := r.conn(ctx).Exec(ctx, query, tenantID, entryID, string(from), string(to), at, updatedBy)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update ledger entry "+entryID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrAlreadyFinalized
	}
	return nil
}

// SumConfirmed computes the running balance in the database.
func (r *PgxLedgerRepository) SumConfirmed(ctx context.Context, tenantID string, asOf time.Time) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(CASE WHEN entry_type = 'credit' THEN amount ELSE -amount END), 0)
		FROM ledger_entries
		WHERE tenant_id = $1 AND status = 'confirmed' AND confirmed_at <= $2;
	`
	var balance decimal.Decimal
	if err := r.conn(ctx).QueryRow(ctx, query, tenantID, asOf).Scan(&balance); err != nil {
		return decimal.Zero, apperrors.NewAppError(500, "failed to sum ledger balance", err)
	}
	return balance, nil
}

// SumPendingDebits totals payouts that were requested but not settled yet.
func (r *PgxLedgerRepository) SumPendingDebits(ctx context.Context, tenantID string) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(amount), 0)
		FROM ledger_entries
		WHERE tenant_id = $1 AND status = 'pending' AND entry_type = 'debit';
	`
	var total decimal.Decimal
	if err := r.conn(ctx).QueryRow(ctx, query, tenantID).Scan(&total); err != nil {
		return decimal.Zero, apperrors.NewAppError(500, "failed to sum pending debits", err)
	}
	return total, nil
}

// ListEntries returns a page of entries, newest first.
func (r *PgxLedgerRepository) ListEntries(ctx context.Context, tenantID string, limit int, nextToken *string) ([]domain.LedgerEntry, *string, error) {
	args := []any{tenantID}
	query := `SELECT ` + ledgerColumns + ` FROM ledger_entries WHERE tenant_id = $1`
	if nextToken != nil && *nextToken != "" {
		createdAt, entryID, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		query += ` AND (created_at, entry_id) < ($2, $3)`
		args = append(args, createdAt, entryID)
	}
	query += fmt.Sprintf(` ORDER BY created_at DESC, entry_id DESC LIMIT %d;`, limit+1)

	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to list ledger entries", err)
	}
	defer rows.Close()

	var entries []domain.LedgerEntry
	for rows.Next() {
		e, err := scanLedgerEntry(rows)
		if err != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to scan ledger entry", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "error iterating ledger entries", err)
	}

	var newNextToken *string
	if len(entries) > limit {
		entries = entries[:limit]
		last := entries[len(entries)-1]
		token := pagination.EncodeToken(last.CreatedAt, last.EntryID)
		newNextToken = &token
	}
	return entries, newNextToken, nil
}
