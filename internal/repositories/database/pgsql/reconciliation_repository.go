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
)

type PgxReconciliationRepository struct {
	BaseRepository
}

func newPgxReconciliationRepository(pool *pgxpool.Pool) portsrepo.ReconciliationRepositoryFacade {
	return &PgxReconciliationRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.ReconciliationRepositoryFacade = (*PgxReconciliationRepository)(nil)

const reconciliationColumns = `
	record_id, tenant_id, record_date, platform_balance, gateway_balance, discrepancy, status,
	resolved_by, resolved_at, resolution_note, created_at, created_by, last_updated_at, last_updated_by`

func scanReconciliation(row pgx.Row) (domain.ReconciliationRecord, error) {
	var m models.ReconciliationRecord
	err := row.Scan(&m.RecordID, &m.TenantID, &m.RecordDate, &m.PlatformBalance, &m.GatewayBalance, &m.Discrepancy, &m.Status,
		&m.ResolvedBy, &m.ResolvedAt, &m.ResolutionNote, &m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy)
	if err != nil {
		return domain.ReconciliationRecord{}, err
	}
	return mapping.ToDomainReconciliationRecord(m), nil
}

// SaveRecord inserts or refreshes the record of a day. Resolved records are never overwritten.
func (r *PgxReconciliationRepository) SaveRecord(ctx context.Context, record domain.ReconciliationRecord) (*domain.ReconciliationRecord, error) {
	m := mapping.ToModelReconciliationRecord(record)
	query := `
		INSERT INTO reconciliation_records (` + reconciliationColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		ON CONFLICT (tenant_id, record_date) DO UPDATE SET
			platform_balance = EXCLUDED.platform_balance,
			gateway_balance = EXCLUDED.gateway_balance,
			discrepancy = EXCLUDED.discrepancy,
			status = EXCLUDED.status,
			last_updated_at = EXCLUDED.last_updated_at,
			last_updated_by = EXCLUDED.last_updated_by
		WHERE reconciliation_records.status <> 'resolved'
		RETURNING ` + reconciliationColumns + `;
	`
	stored, err := scanReconciliation(r.conn(ctx).QueryRow(ctx, query,
		m.RecordID, m.TenantID, m.RecordDate, m.PlatformBalance, m.GatewayBalance, m.Discrepancy, m.Status,
		m.ResolvedBy, m.ResolvedAt, m.ResolutionNote, m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	))
	if err == nil {
		return &stored, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NewAppError(500, "failed to save reconciliation record", err)
	}

	existing, err := scanReconciliation(r.conn(ctx).QueryRow(ctx,
		`SELECT `+reconciliationColumns+` FROM reconciliation_records WHERE tenant_id = $1 AND record_date = $2;`,
		m.TenantID, m.RecordDate))
	if err != nil {
		return nil, notFoundOr(err, apperrors.ErrNotFound, "failed to load resolved reconciliation record")
	}
	return &existing, apperrors.ErrAlreadyFinalized
}

func (r *PgxReconciliationRepository) FindRecordByID(ctx context.Context, tenantID, recordID string) (*domain.ReconciliationRecord, error) {
	query := `SELECT ` + reconciliationColumns + ` FROM reconciliation_records WHERE tenant_id = $1 AND record_id = $2;`
	rec, err := scanReconciliation(r.conn(ctx).QueryRow(ctx, query, tenantID, recordID))
	if err != nil {
		return nil, notFoundOr(err, apperrors.ErrNotFound, "failed to find reconciliation record "+recordID)
	}
	return &rec, nil
}

// ListRecords pages through a tenant's records, most recent day first.
func (r *PgxReconciliationRepository) ListRecords(ctx context.Context, tenantID string, status *domain.ReconciliationStatus, limit int, nextToken *string) ([]domain.ReconciliationRecord, *string, error) {
	args := []any{tenantID}
	query := `SELECT ` + reconciliationColumns + ` FROM reconciliation_records WHERE tenant_id = $1`
	if status != nil {
		args = append(args, string(*status))
		query += fmt.Sprintf(` AND status = $%d`, len(args))
	}
	if nextToken != nil && *nextToken != "" {
		date, recordID, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		args = append(args, date, recordID)
		query += fmt.Sprintf(` AND (record_date, record_id) < ($%d, $%d)`, len(args)-1, len(args))
	}
	query += fmt.Sprintf(` ORDER BY record_date DESC, record_id DESC LIMIT %d;`, limit+1)

	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to list reconciliation records", err)
	}
	defer rows.Close()

	var records []domain.ReconciliationRecord
	for rows.Next() {
		rec, err := scanReconciliation(rows)
		if err != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to scan reconciliation record", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "error iterating reconciliation records", err)
	}

	var newNextToken *string
	if len(records) > limit {
		records = records[:limit]
		last := records[len(records)-1]
		token := pagination.EncodeToken(last.Date, last.RecordID)
		newNextToken = &token
	}
	return records, newNextToken, nil
}

// ResolveRecord closes a pending discrepancy with the operator's explanation.
func (r *PgxReconciliationRepository) ResolveRecord(ctx context.Context, tenantID, recordID, resolvedBy, note string, at time.Time) error {
	query := `
		UPDATE reconciliation_records
		SET status = 'resolved', resolved_by = $3, resolved_at = $4, resolution_note = $5,
		    last_updated_at = $4, last_updated_by = $3
		WHERE tenant_id = $1 AND record_id = $2 AND status = 'pending';
	`
	tag, err := r.conn(ctx).Exec(ctx, query, tenantID, recordID, resolvedBy, at, note)
	if err != nil {
		return apperrors.NewAppError(500, "failed to resolve reconciliation record "+recordID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrAlreadyFinalized
	}
	return nil
}
