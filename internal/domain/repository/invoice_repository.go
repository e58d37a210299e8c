package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/psych0panda/checktrack/internal/domain/entity"
	"github.com/psych0panda/checktrack/internal/domain/enum"
	"github.com/psych0panda/checktrack/pkg/pagination"
	"github.com/shopspring/decimal"
)

// InvoiceRepository defines the interface for invoice data operations
type InvoiceRepository interface {
	// CreateWithItems persists the invoice, its line items and its payment
	// atomically. On error nothing is persisted.
	CreateWithItems(ctx context.Context, invoice *entity.Invoice, items []entity.LineItem, payment *entity.Payment) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Invoice, error)
	GetBySerialNumber(ctx context.Context, serial string) (*entity.Invoice, error)
	// GetWithDetails loads the invoice with its line items and payment
	// through explicit eager joins.
	GetWithDetails(ctx context.Context, id uuid.UUID) (*entity.Invoice, error)
	List(ctx context.Context, params *InvoiceFilterParams) ([]entity.Invoice, int64, error)
	ListWithCursor(ctx context.Context, params *InvoiceCursorFilterParams) ([]entity.Invoice, error)
	// Delete removes the invoice together with its line items and payment
	// in one transaction.
	Delete(ctx context.Context, id uuid.UUID) error
}

// InvoiceFilterParams contains filtering parameters for invoice queries
type InvoiceFilterParams struct {
	Pagination      *pagination.PaginationParams
	FromDate        *time.Time        // date_of_issue lower bound
	MinTotal        *decimal.Decimal  // minimum total_amount
	PaymentType     *enum.PaymentType // joins against payments
	OwnerID         uuid.UUID
	SkipOwnerFilter bool // If true, returns all invoices (for superusers)
}

// InvoiceCursorFilterParams contains cursor-based filtering for invoice queries
type InvoiceCursorFilterParams struct {
	Cursor          *pagination.CursorParams
	FromDate        *time.Time
	MinTotal        *decimal.Decimal
	PaymentType     *enum.PaymentType
	OwnerID         uuid.UUID
	SkipOwnerFilter bool
}

// LineItemRepository defines the interface for line item data operations
type LineItemRepository interface {
	GetByInvoiceID(ctx context.Context, invoiceID uuid.UUID) ([]entity.LineItem, error)
}

// PaymentRepository defines the interface for payment data operations
type PaymentRepository interface {
	GetByInvoiceID(ctx context.Context, invoiceID uuid.UUID) (*entity.Payment, error)
}
