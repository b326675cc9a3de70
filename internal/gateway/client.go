package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	portssvc "github.com/SscSPs/checkout_settlement/internal/core/ports/services"
	"github.com/SscSPs/checkout_settlement/internal/middleware"
	"github.com/shopspring/decimal"
)

const (
	// IdempotencyKeyHeader carries the order's correlation id on charge creation.
	IdempotencyKeyHeader = "Idempotency-Key"

	maxResponseBytes = 1 << 20
)

// Client is the HTTP adapter of the payment gateway.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a gateway client. timeout bounds every call including body reads.
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
	}
}

var _ portssvc.PaymentGateway = (*Client)(nil)

// CreatePixPayment creates a PIX charge and returns its QR code.
func (c *Client) CreatePixPayment(ctx context.Context, req portssvc.GatewayPaymentRequest) (*portssvc.GatewayPaymentResult, error) {
	return c.createCharge(ctx, "create_pix", "/v1/pix/charges", req)
}

// CreateBoleto creates a boleto. The payer address is mandatory for this rail.
func (c *Client) CreateBoleto(ctx context.Context, req portssvc.GatewayPaymentRequest) (*portssvc.GatewayPaymentResult, error) {
	if req.Payer.Address == nil {
		return nil, &Error{Operation: "create_boleto", StatusCode: http.StatusBadRequest, Message: "payer address is required"}
	}
	return c.createCharge(ctx, "create_boleto", "/v1/boletos", req)
}

// GetAccountBalance returns the merchant's settled balance held by the gateway.
func (c *Client) GetAccountBalance(ctx context.Context, merchantID string) (decimal.Decimal, error) {
	const op = "get_balance"
	path := "/v1/merchants/" + url.PathEscape(merchantID) + "/balance"

	_, body, err := c.do(ctx, op, http.MethodGet, path, nil, "")
	if err != nil {
		return decimal.Zero, err
	}
	var resp balanceResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return decimal.Zero, &Error{Operation: op, Retryable: true, Message: "malformed balance response", Err: err}
	}
	return FromCentavos(resp.Available), nil
}

func (c *Client) createCharge(ctx context.Context, op, path string, req portssvc.GatewayPaymentRequest) (*portssvc.GatewayPaymentResult, error) {
	payload, err := json.Marshal(chargeRequest{
		MerchantID:  req.MerchantID,
		OrderID:     req.OrderID,
		Amount:      ToCentavos(req.Amount),
		ExpiresAt:   req.ExpiresAt.UTC(),
		Description: req.Description,
		Payer:       toPayer(req.Payer),
	})
	if err != nil {
		return nil, &Error{Operation: op, Message: "could not encode request", Err: err}
	}

	_, body, err := c.do(ctx, op, http.MethodPost, path, payload, req.CorrelationID)
	if err != nil {
		return nil, err
	}

	var resp chargeResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, &Error{Operation: op, Retryable: true, Message: "malformed charge response", Err: err}
	}
	if resp.TransactionID == "" {
		return nil, &Error{Operation: op, Retryable: true, Message: "charge response without transaction id"}
	}

	return &portssvc.GatewayPaymentResult{
		TransactionID: resp.TransactionID,
		Status:        resp.Status,
		QRCode:        resp.QRCode,
		PixCopiaECola: resp.PixCopiaECola,
		DigitableLine: resp.DigitableLine,
		BarCode:       resp.BarCode,
		PDFURL:        resp.PDFURL,
		RawRequest:    payload,
		RawResponse:   body,
	}, nil
}

func (c *Client) do(ctx context.Context, op, method, path string, payload []byte, idempotencyKey string) (int, []byte, error) {
	logger := middleware.GetLoggerFromCtx(ctx).With(slog.String("gateway_op", op))

	var reqBody io.Reader
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}
	httpReq, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return 0, nil, &Error{Operation: op, Message: "could not build request", Err: err}
	}
	httpReq.Header.Set("Accept", "application/json")
	if payload != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	if idempotencyKey != "" {
		httpReq.Header.Set(IdempotencyKeyHeader, idempotencyKey)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		logger.Warn("Gateway unreachable", slog.String("error", err.Error()))
		return 0, nil, &Error{Operation: op, Retryable: true, Message: "transport error", Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return resp.StatusCode, nil, &Error{Operation: op, StatusCode: resp.StatusCode, Retryable: true, Message: "could not read response", Err: err}
	}

	logger.Debug("Gateway call finished",
		slog.Int("status", resp.StatusCode),
		slog.Duration("latency", time.Since(start)))

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return resp.StatusCode, body, nil
	}

	msg := http.StatusText(resp.StatusCode)
	var errResp errorResponse
	if json.Unmarshal(body, &errResp) == nil && errResp.Message != "" {
		msg = errResp.Message
	}
	gwErr := &Error{
		Operation:  op,
		StatusCode: resp.StatusCode,
		Retryable:  resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests,
		Message:    msg,
	}
	logger.Warn("Gateway rejected request", slog.Int("status", resp.StatusCode), slog.String("message", msg))
	return resp.StatusCode, body, fmt.Errorf("%s %s: %w", method, path, gwErr)
}
