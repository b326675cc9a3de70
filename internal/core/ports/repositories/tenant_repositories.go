package repositories

import (
	"context"

	"github.com/SscSPs/checkout_settlement/internal/core/domain"
)

type TenantReader interface {
	FindTenantByID(ctx context.Context, tenantID string) (*domain.Tenant, error)
	ListActiveTenants(ctx context.Context) ([]domain.Tenant, error)
}

type TenantRepositoryFacade interface {
	TenantReader
}
