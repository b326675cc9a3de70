package domain

import (
	"fmt"
	"time"

	"github.com/SscSPs/checkout_settlement/internal/apperrors"
	"github.com/shopspring/decimal"
)

// OrderStatus is the fulfilment-facing state of an order.
type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderConfirmed OrderStatus = "confirmed"
	OrderCancelled OrderStatus = "cancelled"
)

// PaymentStatus is the payment-facing state of an order, tracked independently of OrderStatus.
type PaymentStatus string

const (
	PaymentPending    PaymentStatus = "pending"
	PaymentProcessing PaymentStatus = "processing"
	PaymentSucceeded  PaymentStatus = "succeeded"
	PaymentFailed     PaymentStatus = "failed"
)

// PaymentMethod enumerates the asynchronous payment rails supported by the gateway.
type PaymentMethod string

const (
	PaymentMethodPix    PaymentMethod = "pix"
	PaymentMethodBoleto PaymentMethod = "boleto"
)

// Address is required for boleto payers.
type Address struct {
	Street     string `json:"street" validate:"required"`
	Number     string `json:"number" validate:"required"`
	Complement string `json:"complement,omitempty"`
	District   string `json:"district" validate:"required"`
	City       string `json:"city" validate:"required"`
	State      string `json:"state" validate:"required,len=2,alpha"`
	ZipCode    string `json:"zipCode" validate:"required,len=8,numeric"`
}

// CustomerSnapshot is copied onto the order at checkout time and never updated afterwards.
type CustomerSnapshot struct {
	Name     string   `json:"name" validate:"required"`
	Email    string   `json:"email" validate:"required,email"`
	Document string   `json:"document" validate:"required,numeric,min=11,max=14"` // CPF or CNPJ digits
	Phone    string   `json:"phone,omitempty" validate:"omitempty,numeric,min=10,max=13"`
	Address  *Address `json:"address,omitempty" validate:"omitempty"`
}

// LineItem is one product line of an order with the price captured at checkout.
type LineItem struct {
	ProductID string          `json:"productID" validate:"required"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity" validate:"gt=0"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	LineTotal decimal.Decimal `json:"lineTotal"`
}

// Order is the purchase aggregate.
type Order struct {
	OrderID              string           `json:"orderID"`
	TenantID             string           `json:"tenantID"`
	OrderNumber          int64            `json:"orderNumber"`
	Customer             CustomerSnapshot `json:"customer"`
	Items                []LineItem       `json:"items"`
	Subtotal             decimal.Decimal  `json:"subtotal"`
	ShippingCost         decimal.Decimal  `json:"shippingCost"`
	Discount             decimal.Decimal  `json:"discount"`
	Total                decimal.Decimal  `json:"total"`
	PaymentMethod        PaymentMethod    `json:"paymentMethod"`
	Status               OrderStatus      `json:"status"`
	PaymentStatus        PaymentStatus    `json:"paymentStatus"`
	CorrelationID        string           `json:"correlationID"`
	GatewayTransactionID *string          `json:"gatewayTransactionID,omitempty"`
	PaymentExpiresAt     *time.Time       `json:"paymentExpiresAt,omitempty"`
	CancelReason         *string          `json:"cancelReason,omitempty"`
	StockReleasedAt      *time.Time       `json:"stockReleasedAt,omitempty"`
	ConfirmedAt          *time.Time       `json:"confirmedAt,omitempty"`
	CancelledAt          *time.Time       `json:"cancelledAt,omitempty"`
	AuditFields
}

// IsTerminal reports whether the order reached confirmed or cancelled.
func (o Order) IsTerminal() bool {
	return o.State().IsTerminal()
}

// HasPaymentRequest reports whether a gateway charge was already attached.
func (o Order) HasPaymentRequest() bool {
	return o.GatewayTransactionID != nil && *o.GatewayTransactionID != ""
}

// NewLineItem snapshots a product into an order line.
func NewLineItem(p Product, quantity int) LineItem {
	return LineItem{
		ProductID: p.ProductID,
		Name:      p.Name,
		Quantity:  quantity,
		UnitPrice: p.UnitPrice,
		LineTotal: p.UnitPrice.Mul(decimal.NewFromInt(int64(quantity))),
	}
}

// CalculateTotals returns subtotal and total for the given lines.
// total = subtotal + shipping - discount and must be strictly positive.
func CalculateTotals(items []LineItem, shipping, discount decimal.Decimal) (decimal.Decimal, decimal.Decimal, error) {
	if shipping.IsNegative() {
		return decimal.Zero, decimal.Zero, fmt.Errorf("%w: shipping cost cannot be negative", apperrors.ErrValidation)
	}
	if discount.IsNegative() {
		return decimal.Zero, decimal.Zero, fmt.Errorf("%w: discount cannot be negative", apperrors.ErrValidation)
	}
	if !IsCentavoAmount(shipping) || !IsCentavoAmount(discount) {
		return decimal.Zero, decimal.Zero, fmt.Errorf("%w: shipping cost and discount allow at most two decimal places", apperrors.ErrValidation)
	}
	subtotal := decimal.Zero
	for _, item := range items {
		subtotal = subtotal.Add(item.LineTotal)
	}
	total := subtotal.Add(shipping).Sub(discount)
	if !total.IsPositive() {
		return decimal.Zero, decimal.Zero, fmt.Errorf("%w: order total must be greater than zero", apperrors.ErrValidation)
	}
	return subtotal, total, nil
}

// IsCentavoAmount reports whether d has no fraction below one centavo.
func IsCentavoAmount(d decimal.Decimal) bool {
	return d.Equal(d.Round(2))
}

// PaymentArtifact is what the customer needs to complete an asynchronous payment.
type PaymentArtifact struct {
	TransactionID string        `json:"transactionID"`
	Method        PaymentMethod `json:"method"`
	Status        string        `json:"status"`
	QRCode        string        `json:"qrCode,omitempty"`
	PixCopiaECola string        `json:"pixCopiaECola,omitempty"`
	DigitableLine string        `json:"digitableLine,omitempty"`
	BarCode       string        `json:"barCode,omitempty"`
	PDFURL        string        `json:"pdfURL,omitempty"`
	ExpiresAt     time.Time     `json:"expiresAt"`
}
