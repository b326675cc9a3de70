package dto

// GatewayWebhookRequest is the callback body posted by the payment gateway.
type GatewayWebhookRequest struct {
	TransactionID string `json:"transactionId" binding:"required"`
	Status        string `json:"status" binding:"required"`
	CorrelationID string `json:"correlationId"`
}

// WebhookResponse acknowledges a gateway callback. The gateway retries anything that is not 2xx.
type WebhookResponse struct {
	Success bool   `json:"success"`
	OrderID string `json:"orderId"`
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// WebhookStatusNotFound is reported for transaction ids that match no order.
const WebhookStatusNotFound = "not_found"
