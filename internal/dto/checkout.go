package dto

import (
	"time"

	"github.com/SscSPs/checkout_settlement/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CheckoutItemRequest is one requested product line.
type CheckoutItemRequest struct {
	ProductID string `json:"productID" binding:"required,uuid"`
	Quantity  int    `json:"quantity" binding:"required,gt=0,lte=1000"`
}

// AddressRequest is the payer address, mandatory for boleto.
type AddressRequest struct {
	Street     string `json:"street" binding:"required"`
	Number     string `json:"number" binding:"required"`
	Complement string `json:"complement"`
	District   string `json:"district" binding:"required"`
	City       string `json:"city" binding:"required"`
	State      string `json:"state" binding:"required,len=2"`
	ZipCode    string `json:"zipCode" binding:"required,len=8,numeric"`
}

// CustomerRequest carries the buyer data snapshotted onto the order.
type CustomerRequest struct {
	Name     string          `json:"name" binding:"required"`
	Email    string          `json:"email" binding:"required,email"`
	Document string          `json:"document" binding:"required,numeric,min=11,max=14"`
	Phone    string          `json:"phone" binding:"omitempty,numeric"`
	Address  *AddressRequest `json:"address"`
}

// CreateCheckoutRequest defines the data needed to place an order.
type CreateCheckoutRequest struct {
	Items         []CheckoutItemRequest `json:"items" binding:"required,min=1,dive"`
	Customer      CustomerRequest       `json:"customer" binding:"required"`
	PaymentMethod domain.PaymentMethod  `json:"paymentMethod" binding:"required,oneof=pix boleto"`
	ShippingCost  decimal.Decimal       `json:"shippingCost"`
	Discount      decimal.Decimal       `json:"discount"`
}

// ToDomainCustomer converts the request into the order's customer snapshot.
func (r CustomerRequest) ToDomainCustomer() domain.CustomerSnapshot {
	c := domain.CustomerSnapshot{
		Name:     r.Name,
		Email:    r.Email,
		Document: r.Document,
		Phone:    r.Phone,
	}
	if r.Address != nil {
		c.Address = &domain.Address{
			Street:     r.Address.Street,
			Number:     r.Address.Number,
			Complement: r.Address.Complement,
			District:   r.Address.District,
			City:       r.Address.City,
			State:      r.Address.State,
			ZipCode:    r.Address.ZipCode,
		}
	}
	return c
}

// LineItemResponse is an order line as returned to clients.
type LineItemResponse struct {
	ProductID string          `json:"productID"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	LineTotal decimal.Decimal `json:"lineTotal"`
}

// PaymentArtifactResponse is the customer-facing payment instruction.
type PaymentArtifactResponse struct {
	TransactionID string    `json:"transactionID"`
	Method        string    `json:"method"`
	Status        string    `json:"status"`
	QRCode        string    `json:"qrCode,omitempty"`
	PixCopiaECola string    `json:"pixCopiaECola,omitempty"`
	DigitableLine string    `json:"digitableLine,omitempty"`
	BarCode       string    `json:"barCode,omitempty"`
	PDFURL        string    `json:"pdfURL,omitempty"`
	ExpiresAt     time.Time `json:"expiresAt"`
}

// CheckoutResponse is returned after an order was created. PaymentError is set when the
// order exists but the gateway charge could not be created yet.
type CheckoutResponse struct {
	OrderID       string                   `json:"orderID"`
	OrderNumber   int64                    `json:"orderNumber"`
	Status        string                   `json:"status"`
	PaymentStatus string                   `json:"paymentStatus"`
	Subtotal      decimal.Decimal          `json:"subtotal"`
	ShippingCost  decimal.Decimal          `json:"shippingCost"`
	Discount      decimal.Decimal          `json:"discount"`
	Total         decimal.Decimal          `json:"total"`
	PaymentMethod string                   `json:"paymentMethod"`
	Items         []LineItemResponse       `json:"items"`
	Payment       *PaymentArtifactResponse `json:"payment,omitempty"`
	PaymentError  string                   `json:"paymentError,omitempty"`
}

// ToLineItemResponses converts order lines for the API.
func ToLineItemResponses(items []domain.LineItem) []LineItemResponse {
	responses := make([]LineItemResponse, len(items))
	for i, item := range items {
		responses[i] = LineItemResponse{
			ProductID: item.ProductID,
			Name:      item.Name,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			LineTotal: item.LineTotal,
		}
	}
	return responses
}

// ToPaymentArtifactResponse converts a domain.PaymentArtifact.
func ToPaymentArtifactResponse(a *domain.PaymentArtifact) *PaymentArtifactResponse {
	if a == nil {
		return nil
	}
	return &PaymentArtifactResponse{
		TransactionID: a.TransactionID,
		Method:        string(a.Method),
		Status:        a.Status,
		QRCode:        a.QRCode,
		PixCopiaECola: a.PixCopiaECola,
		DigitableLine: a.DigitableLine,
		BarCode:       a.BarCode,
		PDFURL:        a.PDFURL,
		ExpiresAt:     a.ExpiresAt,
	}
}

// ToCheckoutResponse builds the checkout result from the stored order and the optional artifact.
func ToCheckoutResponse(o *domain.Order, artifact *domain.PaymentArtifact, paymentErr string) CheckoutResponse {
	return CheckoutResponse{
		OrderID:       o.OrderID,
		OrderNumber:   o.OrderNumber,
		Status:        string(o.Status),
		PaymentStatus: string(o.PaymentStatus),
		Subtotal:      o.Subtotal,
		ShippingCost:  o.ShippingCost,
		Discount:      o.Discount,
		Total:         o.Total,
		PaymentMethod: string(o.PaymentMethod),
		Items:         ToLineItemResponses(o.Items),
		Payment:       ToPaymentArtifactResponse(artifact),
		PaymentError:  paymentErr,
	}
}
