package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/SscSPs/checkout_settlement/internal/core/domain"
	"github.com/shopspring/decimal"
)

// GatewayPaymentRequest is a charge request. CorrelationID is sent as the idempotency key.
type GatewayPaymentRequest struct {
	MerchantID    string
	CorrelationID string
	OrderID       string
	Amount        decimal.Decimal
	ExpiresAt     time.Time
	Payer         domain.CustomerSnapshot
	Description   string
}

// GatewayPaymentResult is the gateway's answer to a charge request.
type GatewayPaymentResult struct {
	TransactionID string
	Status        string
	QRCode        string
	PixCopiaECola string
	DigitableLine string
	BarCode       string
	PDFURL        string
	RawRequest    json.RawMessage
	RawResponse   json.RawMessage
}

// PaymentGateway is the external payment provider. Errors wrap apperrors.ErrGateway.
type PaymentGateway interface {
	CreatePixPayment(ctx context.Context, req GatewayPaymentRequest) (*GatewayPaymentResult, error)
	CreateBoleto(ctx context.Context, req GatewayPaymentRequest) (*GatewayPaymentResult, error)
	GetAccountBalance(ctx context.Context, merchantID string) (decimal.Decimal, error)
}
