package pgsql

import (
	"context"
	"database/sql"

	"github.com/SscSPs/checkout_settlement/internal/apperrors"
	"github.com/SscSPs/checkout_settlement/internal/core/domain"
	portsrepo "github.com/SscSPs/checkout_settlement/internal/core/ports/repositories"
	"github.com/SscSPs/checkout_settlement/internal/models"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxGatewayLogRepository struct {
	BaseRepository
}

func newPgxGatewayLogRepository(pool *pgxpool.Pool) portsrepo.GatewayLogRepositoryFacade {
	return &PgxGatewayLogRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.GatewayLogRepositoryFacade = (*PgxGatewayLogRepository)(nil)

// nullableJSON keeps empty payloads out of JSONB columns.
func nullableJSON(raw []byte) []byte {
	if len(raw) == 0 {
		return nil
	}
	return raw
}

// UpsertGatewayLog writes the audit row of a correlation id.
func (r *PgxGatewayLogRepository) UpsertGatewayLog(ctx context.Context, log domain.GatewayTransactionLog) error {
	query := `
		INSERT INTO gateway_transaction_logs (
			correlation_id, tenant_id, order_id, operation, gateway_transaction_id,
			raw_request, raw_response, last_webhook, success, error_message, created_at, last_updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $11)
		ON CONFLICT (correlation_id) DO UPDATE SET
			operation = EXCLUDED.operation,
			gateway_transaction_id = COALESCE(EXCLUDED.gateway_transaction_id, gateway_transaction_logs.gateway_transaction_id),
			raw_request = COALESCE(EXCLUDED.raw_request, gateway_transaction_logs.raw_request),
			raw_response = COALESCE(EXCLUDED.raw_response, gateway_transaction_logs.raw_response),
			last_webhook = COALESCE(EXCLUDED.last_webhook, gateway_transaction_logs.last_webhook),
			success = EXCLUDED.success,
			error_message = EXCLUDED.error_message,
			last_updated_at = EXCLUDED.last_updated_at;
	`
	_, err := r.conn(ctx).Exec(ctx, query,
		log.CorrelationID, log.TenantID, log.OrderID, string(log.Operation), log.GatewayTransactionID,
		nullableJSON(log.RawRequest), nullableJSON(log.RawResponse), nullableJSON(log.LastWebhook),
		log.Success, log.ErrorMessage, log.LastUpdatedAt,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to upsert gateway log "+log.CorrelationID, err)
	}
	return nil
}

func (r *PgxGatewayLogRepository) FindGatewayLog(ctx context.Context, correlationID string) (*domain.GatewayTransactionLog, error) {
	query := `
		SELECT correlation_id, tenant_id, order_id, operation, gateway_transaction_id,
		       raw_request, raw_response, last_webhook, success, error_message, created_at, last_updated_at
		FROM gateway_transaction_logs
		WHERE correlation_id = $1;
	`
	var (
		log             domain.GatewayTransactionLog
		operation       string
		txnID, errMsg   sql.NullString
		rawReq, rawResp []byte
		rawHook         []byte
	)
	err := r.conn(ctx).QueryRow(ctx, query, correlationID).Scan(
		&log.CorrelationID, &log.TenantID, &log.OrderID, &operation, &txnID,
		&rawReq, &rawResp, &rawHook, &log.Success, &errMsg, &log.CreatedAt, &log.LastUpdatedAt,
	)
	if err != nil {
		return nil, notFoundOr(err, apperrors.ErrNotFound, "failed to find gateway log "+correlationID)
	}
	log.Operation = domain.GatewayOperation(operation)
	log.GatewayTransactionID = models.NullStringValue(txnID)
	log.ErrorMessage = models.NullStringValue(errMsg)
	log.RawRequest = rawReq
	log.RawResponse = rawResp
	log.LastWebhook = rawHook
	return &log, nil
}
