package gateway

import (
	"time"

	"github.com/SscSPs/checkout_settlement/internal/core/domain"
	"github.com/shopspring/decimal"
)

// Amounts travel as integer centavos.

type payer struct {
	Name     string   `json:"name"`
	Email    string   `json:"email"`
	Document string   `json:"document"`
	Phone    string   `json:"phone,omitempty"`
	Address  *address `json:"address,omitempty"`
}

type address struct {
	Street     string `json:"street"`
	Number     string `json:"number"`
	Complement string `json:"complement,omitempty"`
	District   string `json:"district"`
	City       string `json:"city"`
	State      string `json:"state"`
	ZipCode    string `json:"zipCode"`
}

type chargeRequest struct {
	MerchantID  string    `json:"merchantId"`
	OrderID     string    `json:"orderId"`
	Amount      int64     `json:"amount"`
	ExpiresAt   time.Time `json:"expiresAt"`
	Description string    `json:"description,omitempty"`
	Payer       payer     `json:"payer"`
}

type chargeResponse struct {
	TransactionID string `json:"transactionId"`
	Status        string `json:"status"`
	QRCode        string `json:"qrCode"`
	PixCopiaECola string `json:"pixCopiaECola"`
	DigitableLine string `json:"digitableLine"`
	BarCode       string `json:"barCode"`
	PDFURL        string `json:"pdfUrl"`
}

type balanceResponse struct {
	Available int64 `json:"available"`
}

type errorResponse struct {
	Message string `json:"message"`
}

var hundred = decimal.NewFromInt(100)

// ToCentavos rounds to two decimals and converts to integer centavos.
func ToCentavos(amount decimal.Decimal) int64 {
	return amount.Round(2).Mul(hundred).IntPart()
}

// FromCentavos converts integer centavos back to a decimal amount.
func FromCentavos(centavos int64) decimal.Decimal {
	return decimal.New(centavos, -2)
}

func toPayer(c domain.CustomerSnapshot) payer {
	p := payer{Name: c.Name, Email: c.Email, Document: c.Document, Phone: c.Phone}
	if c.Address != nil {
		p.Address = &address{
			Street:     c.Address.Street,
			Number:     c.Address.Number,
			Complement: c.Address.Complement,
			District:   c.Address.District,
			City:       c.Address.City,
			State:      c.Address.State,
			ZipCode:    c.Address.ZipCode,
		}
	}
	return p
}
