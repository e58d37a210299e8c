package request

import (
	"github.com/shopspring/decimal"
)

// ProductRequest represents one requested line item.
// Price and quantity are validated by the invoice service so that zero-priced
// products remain allowed.
type ProductRequest struct {
	Name     string          `json:"name" binding:"required"`
	Price    decimal.Decimal `json:"price"`
	Quantity decimal.Decimal `json:"quantity"`
}

// PaymentRequest represents the payment tendered for an invoice
type PaymentRequest struct {
	Type   string          `json:"type" binding:"required"`
	Amount decimal.Decimal `json:"amount"`
}

// CreateInvoiceRequest represents the create invoice payload
type CreateInvoiceRequest struct {
	Products []ProductRequest `json:"products" binding:"required,min=1,dive"`
	Payment  PaymentRequest   `json:"payment" binding:"required"`
}
