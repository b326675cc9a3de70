package domain

import (
	"encoding/json"
	"time"
)

// GatewayOperation identifies which gateway interaction produced a log row.
type GatewayOperation string

const (
	GatewayOpCreatePix    GatewayOperation = "create_pix"
	GatewayOpCreateBoleto GatewayOperation = "create_boleto"
	GatewayOpWebhook      GatewayOperation = "webhook"
)

// GatewayTransactionLog is the audit row for one correlation id.
// Payment creation fills request/response, later webhooks fill LastWebhook.
type GatewayTransactionLog struct {
	CorrelationID        string           `json:"correlationID"`
	TenantID             string           `json:"tenantID"`
	OrderID              string           `json:"orderID"`
	Operation            GatewayOperation `json:"operation"`
	GatewayTransactionID *string          `json:"gatewayTransactionID,omitempty"`
	RawRequest           json.RawMessage  `json:"rawRequest,omitempty"`
	RawResponse          json.RawMessage  `json:"rawResponse,omitempty"`
	LastWebhook          json.RawMessage  `json:"lastWebhook,omitempty"`
	Success              bool             `json:"success"`
	ErrorMessage         *string          `json:"errorMessage,omitempty"`
	CreatedAt            time.Time        `json:"createdAt"`
	LastUpdatedAt        time.Time        `json:"lastUpdatedAt"`
}
