package entity

import (
	"time"

	"github.com/psych0panda/checktrack/internal/domain/enum"
	"github.com/shopspring/decimal"
)

// ReceiptItem represents a single line item on a receipt.
type ReceiptItem struct {
	Name      string          `json:"name"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Total     decimal.Decimal `json:"total"`
}

// Receipt is a value object representing a printable receipt.
// It is NOT a database entity — it is composed from invoice data at print
// time, with totals recomputed from the line items.
type Receipt struct {
	ShopName     string           `json:"shop_name"`
	SerialNumber string           `json:"serial_number"`
	IssuedAt     time.Time        `json:"issued_at"`
	PaymentType  enum.PaymentType `json:"payment_type,omitempty"`
	Items        []ReceiptItem    `json:"items"`
	Total        decimal.Decimal  `json:"total"`
	Paid         decimal.Decimal  `json:"paid"`
	Change       decimal.Decimal  `json:"change"`
}
