package services

import (
	"context"

	"github.com/SscSPs/checkout_settlement/internal/dto"
)

// WebhookSvcFacade consumes authenticated gateway callbacks.
type WebhookSvcFacade interface {
	HandleGatewayCallback(ctx context.Context, req dto.GatewayWebhookRequest, rawBody []byte) (*dto.WebhookResponse, error)
}
