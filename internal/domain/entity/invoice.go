package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/psych0panda/checktrack/internal/domain/enum"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Invoice represents a completed sale with its line items and payment.
// TotalAmount is the sum of the line item totals; Rest is the change owed
// to the payer (tendered amount minus total, never negative).
type Invoice struct {
	ID           uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	SerialNumber string          `gorm:"size:100;unique;not null" json:"serial_number"`
	UserID       uuid.UUID       `gorm:"type:uuid;not null;index" json:"user_id"`
	TotalAmount  decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"total_amount"`
	Rest         decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"rest"`
	DateOfIssue  time.Time       `gorm:"not null" json:"date_of_issue"`
	PaymentID    *uuid.UUID      `gorm:"type:uuid" json:"payment_id,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`

	// Relationships
	User    User       `gorm:"foreignKey:UserID" json:"-"`
	Items   []LineItem `gorm:"foreignKey:InvoiceID;constraint:OnDelete:CASCADE" json:"line_items,omitempty"`
	Payment *Payment   `gorm:"foreignKey:InvoiceID;constraint:OnDelete:CASCADE" json:"payment,omitempty"`
}

// BeforeCreate generates a UUID before creating a new invoice
func (i *Invoice) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Invoice model
func (Invoice) TableName() string {
	return "invoices"
}

// LineItem represents one purchased product line on an invoice.
// Line items are immutable once the invoice is finalized.
type LineItem struct {
	ID        uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	InvoiceID uuid.UUID       `gorm:"type:uuid;not null;index" json:"invoice_id"`
	Name      string          `gorm:"size:255;not null" json:"name"`
	Price     decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"price"`
	Quantity  decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"quantity"`
	Total     decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"total"`
	CreatedAt time.Time       `json:"created_at"`
}

// BeforeCreate generates a UUID before creating a new line item
func (li *LineItem) BeforeCreate(tx *gorm.DB) error {
	if li.ID == uuid.Nil {
		li.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the LineItem model
func (LineItem) TableName() string {
	return "line_items"
}

// Payment represents the single payment backing an invoice.
// Amount is the tendered amount, Rest the computed change.
type Payment struct {
	ID        uuid.UUID        `gorm:"type:uuid;primary_key" json:"id"`
	InvoiceID uuid.UUID        `gorm:"type:uuid;not null;uniqueIndex" json:"invoice_id"`
	Type      enum.PaymentType `gorm:"size:20;not null" json:"type"`
	Amount    decimal.Decimal  `gorm:"type:numeric(14,2);not null" json:"amount"`
	Rest      decimal.Decimal  `gorm:"type:numeric(14,2);not null" json:"rest"`
	CreatedAt time.Time        `json:"created_at"`
}

// BeforeCreate generates a UUID before creating a new payment
func (p *Payment) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Payment model
func (Payment) TableName() string {
	return "payments"
}
