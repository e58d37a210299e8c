package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/psych0panda/checktrack/internal/domain/entity"
	"github.com/psych0panda/checktrack/internal/domain/enum"
	"github.com/psych0panda/checktrack/internal/domain/repository"
	"github.com/psych0panda/checktrack/pkg/apperror"
	"github.com/psych0panda/checktrack/pkg/pagination"
	"github.com/psych0panda/checktrack/pkg/utils"
	"github.com/shopspring/decimal"
)

// InvoiceService handles invoice creation and lifecycle operations
type InvoiceService struct {
	invoiceRepo repository.InvoiceRepository
}

// NewInvoiceService creates a new invoice service
func NewInvoiceService(invoiceRepo repository.InvoiceRepository) *InvoiceService {
	return &InvoiceService{invoiceRepo: invoiceRepo}
}

// LineItemInput represents a requested line item
type LineItemInput struct {
	Name     string
	Price    decimal.Decimal
	Quantity decimal.Decimal
}

// PaymentInput represents the payment tendered for an invoice
type PaymentInput struct {
	Type   enum.PaymentType
	Amount decimal.Decimal
}

// CreateInvoiceInput represents the create invoice input
type CreateInvoiceInput struct {
	UserID  uuid.UUID
	Items   []LineItemInput
	Payment PaymentInput
}

// CreateInvoice computes line totals, the invoice total and the change, and
// persists the invoice with its line items and exactly one payment record in
// a single transaction. An insufficient tender fails before anything is
// written.
func (s *InvoiceService) CreateInvoice(ctx context.Context, input *CreateInvoiceInput) (*entity.Invoice, error) {
	if err := validateCreateInput(input); err != nil {
		return nil, err
	}

	lineItems := make([]entity.LineItem, 0, len(input.Items))
	grandTotal := decimal.Zero
	for _, item := range input.Items {
		lineTotal := item.Price.Mul(item.Quantity).Round(2)
		grandTotal = grandTotal.Add(lineTotal)

		lineItems = append(lineItems, entity.LineItem{
			Name:     item.Name,
			Price:    item.Price,
			Quantity: item.Quantity,
			Total:    lineTotal,
		})
	}

	if input.Payment.Amount.LessThan(grandTotal) {
		return nil, apperror.ErrPaymentInsufficient
	}
	rest := input.Payment.Amount.Sub(grandTotal)

	invoice := &entity.Invoice{
		SerialNumber: utils.GenerateSerialNumber(),
		UserID:       input.UserID,
		TotalAmount:  grandTotal,
		Rest:         rest,
		DateOfIssue:  time.Now(),
	}
	payment := &entity.Payment{
		Type:   input.Payment.Type,
		Amount: input.Payment.Amount,
		Rest:   rest,
	}

	if err := s.invoiceRepo.CreateWithItems(ctx, invoice, lineItems, payment); err != nil {
		return nil, err
	}

	return invoice, nil
}

func validateCreateInput(input *CreateInvoiceInput) error {
	var fieldErrors []apperror.FieldError

	if len(input.Items) == 0 {
		fieldErrors = append(fieldErrors, apperror.FieldError{
			Field: "items", Message: "at least one line item is required",
		})
	}
	for _, item := range input.Items {
		if item.Name == "" {
			fieldErrors = append(fieldErrors, apperror.FieldError{
				Field: "items.name", Message: "name must not be empty",
			})
		}
		if item.Price.IsNegative() {
			fieldErrors = append(fieldErrors, apperror.FieldError{
				Field: "items.price", Message: "price must not be negative",
			})
		}
		if !item.Quantity.IsPositive() {
			fieldErrors = append(fieldErrors, apperror.FieldError{
				Field: "items.quantity", Message: "quantity must be positive",
			})
		}
	}
	if !input.Payment.Type.Valid() {
		fieldErrors = append(fieldErrors, apperror.FieldError{
			Field: "payment.type", Message: "payment type must be cash or cashless",
		})
	}
	if input.Payment.Amount.IsNegative() {
		fieldErrors = append(fieldErrors, apperror.FieldError{
			Field: "payment.amount", Message: "amount must not be negative",
		})
	}

	if len(fieldErrors) > 0 {
		return apperror.NewValidationError(fieldErrors)
	}
	return nil
}

// GetInvoice retrieves an invoice with its line items and payment.
// Non-superusers may only access their own invoices.
func (s *InvoiceService) GetInvoice(ctx context.Context, userID uuid.UUID, isSuperuser bool, id uuid.UUID) (*entity.Invoice, error) {
	invoice, err := s.invoiceRepo.GetWithDetails(ctx, id)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, apperror.NewNotFoundError("Invoice")
	}
	if !isSuperuser && invoice.UserID != userID {
		return nil, apperror.ErrForbidden
	}
	return invoice, nil
}

// ListInvoices lists invoices with filtering and offset pagination
func (s *InvoiceService) ListInvoices(ctx context.Context, params *repository.InvoiceFilterParams) (*pagination.PaginatedResult[entity.Invoice], error) {
	invoices, total, err := s.invoiceRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(invoices, pag), nil
}

// ListInvoicesWithCursor lists invoices with cursor-based pagination
func (s *InvoiceService) ListInvoicesWithCursor(ctx context.Context, params *repository.InvoiceCursorFilterParams) (*pagination.CursorPaginatedResult[entity.Invoice], error) {
	invoices, err := s.invoiceRepo.ListWithCursor(ctx, params)
	if err != nil {
		return nil, err
	}

	hasPrev := params.Cursor.Cursor != ""

	cursorPag, items := pagination.NewCursorPagination(invoices, params.Cursor.Limit,
		func(i entity.Invoice) string { return i.ID.String() },
		func(i entity.Invoice) time.Time { return i.CreatedAt },
	)
	cursorPag.HasPrev = hasPrev

	return pagination.NewCursorPaginatedResult(items, cursorPag), nil
}

// DeleteInvoice removes an invoice together with its line items and payment.
// Non-superusers may only delete their own invoices.
func (s *InvoiceService) DeleteInvoice(ctx context.Context, userID uuid.UUID, isSuperuser bool, id uuid.UUID) error {
	invoice, err := s.invoiceRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if invoice == nil {
		return apperror.NewNotFoundError("Invoice")
	}
	if !isSuperuser && invoice.UserID != userID {
		return apperror.ErrForbidden
	}

	return s.invoiceRepo.Delete(ctx, id)
}
