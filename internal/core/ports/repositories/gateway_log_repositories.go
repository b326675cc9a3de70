package repositories

import (
	"context"

	"github.com/SscSPs/checkout_settlement/internal/core/domain"
)

type GatewayLogRepositoryFacade interface {
	// UpsertGatewayLog keeps one row per correlation id. Empty raw fields keep their stored value.
	UpsertGatewayLog(ctx context.Context, log domain.GatewayTransactionLog) error
	FindGatewayLog(ctx context.Context, correlationID string) (*domain.GatewayTransactionLog, error)
}
