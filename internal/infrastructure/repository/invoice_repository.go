package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/psych0panda/checktrack/internal/domain/entity"
	domainRepo "github.com/psych0panda/checktrack/internal/domain/repository"
	"github.com/psych0panda/checktrack/pkg/pagination"
	"gorm.io/gorm"
)

type invoiceRepository struct {
	db *gorm.DB
}

// NewInvoiceRepository creates a new invoice repository
func NewInvoiceRepository(db *gorm.DB) domainRepo.InvoiceRepository {
	return &invoiceRepository{db: db}
}

// CreateWithItems writes the invoice, its line items and its payment in a
// single transaction. A failure on any row rolls back all of them.
func (r *invoiceRepository) CreateWithItems(ctx context.Context, invoice *entity.Invoice, items []entity.LineItem, payment *entity.Payment) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(invoice).Error; err != nil {
			return err
		}

		for i := range items {
			items[i].InvoiceID = invoice.ID
		}
		if len(items) > 0 {
			if err := tx.Create(&items).Error; err != nil {
				return err
			}
		}

		payment.InvoiceID = invoice.ID
		if err := tx.Create(payment).Error; err != nil {
			return err
		}

		invoice.PaymentID = &payment.ID
		if err := tx.Model(invoice).Update("payment_id", payment.ID).Error; err != nil {
			return err
		}

		invoice.Items = items
		invoice.Payment = payment
		return nil
	})
}

func (r *invoiceRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Invoice, error) {
	var invoice entity.Invoice
	err := r.db.WithContext(ctx).First(&invoice, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &invoice, nil
}

func (r *invoiceRepository) GetBySerialNumber(ctx context.Context, serial string) (*entity.Invoice, error) {
	var invoice entity.Invoice
	err := r.db.WithContext(ctx).First(&invoice, "serial_number = ?", serial).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &invoice, nil
}

func (r *invoiceRepository) GetWithDetails(ctx context.Context, id uuid.UUID) (*entity.Invoice, error) {
	var invoice entity.Invoice
	err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Payment").
		First(&invoice, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &invoice, nil
}

func (r *invoiceRepository) List(ctx context.Context, params *domainRepo.InvoiceFilterParams) ([]entity.Invoice, int64, error) {
	var invoices []entity.Invoice
	var total int64

	query := r.applyFilters(r.db.WithContext(ctx).Model(&entity.Invoice{}), params)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Pagination.Validate()
	err := query.Offset(params.Pagination.Offset()).Limit(params.Pagination.PerPage).
		Preload("Payment").
		Order("created_at DESC").
		Find(&invoices).Error

	return invoices, total, err
}

// ListWithCursor returns invoices using cursor-based pagination
func (r *invoiceRepository) ListWithCursor(ctx context.Context, params *domainRepo.InvoiceCursorFilterParams) ([]entity.Invoice, error) {
	var invoices []entity.Invoice

	params.Cursor.Validate()
	query := r.applyFilters(r.db.WithContext(ctx).Model(&entity.Invoice{}), &domainRepo.InvoiceFilterParams{
		FromDate:        params.FromDate,
		MinTotal:        params.MinTotal,
		PaymentType:     params.PaymentType,
		OwnerID:         params.OwnerID,
		SkipOwnerFilter: params.SkipOwnerFilter,
	})

	cursor, err := params.Cursor.DecodeCursor()
	if err != nil {
		return nil, err
	}

	if cursor != nil {
		if params.Cursor.Direction == pagination.CursorDirectionNext {
			query = query.Where("(invoices.created_at, invoices.id) > (?, ?)", cursor.CreatedAt, cursor.ID)
		} else {
			query = query.Where("(invoices.created_at, invoices.id) < (?, ?)", cursor.CreatedAt, cursor.ID)
		}
	}

	err = query.Limit(params.Cursor.Limit + 1).
		Preload("Payment").
		Order("invoices.created_at ASC, invoices.id ASC").
		Find(&invoices).Error

	return invoices, err
}

func (r *invoiceRepository) applyFilters(query *gorm.DB, params *domainRepo.InvoiceFilterParams) *gorm.DB {
	if !params.SkipOwnerFilter && params.OwnerID != uuid.Nil {
		query = query.Where("invoices.user_id = ?", params.OwnerID)
	}

	if params.FromDate != nil {
		query = query.Where("invoices.date_of_issue >= ?", *params.FromDate)
	}

	if params.MinTotal != nil {
		query = query.Where("invoices.total_amount >= ?", *params.MinTotal)
	}

	if params.PaymentType != nil {
		query = query.
			Joins("LEFT JOIN payments ON payments.invoice_id = invoices.id").
			Where("payments.type = ?", *params.PaymentType)
	}

	return query
}

// Delete removes the invoice and its dependent rows in one transaction.
func (r *invoiceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&entity.LineItem{}, "invoice_id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Delete(&entity.Payment{}, "invoice_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&entity.Invoice{}, "id = ?", id).Error
	})
}

type lineItemRepository struct {
	db *gorm.DB
}

// NewLineItemRepository creates a new line item repository
func NewLineItemRepository(db *gorm.DB) domainRepo.LineItemRepository {
	return &lineItemRepository{db: db}
}

func (r *lineItemRepository) GetByInvoiceID(ctx context.Context, invoiceID uuid.UUID) ([]entity.LineItem, error) {
	var items []entity.LineItem
	err := r.db.WithContext(ctx).
		Where("invoice_id = ?", invoiceID).
		Order("created_at ASC").
		Find(&items).Error
	return items, err
}

type paymentRepository struct {
	db *gorm.DB
}

// NewPaymentRepository creates a new payment repository
func NewPaymentRepository(db *gorm.DB) domainRepo.PaymentRepository {
	return &paymentRepository{db: db}
}

func (r *paymentRepository) GetByInvoiceID(ctx context.Context, invoiceID uuid.UUID) (*entity.Payment, error) {
	var payment entity.Payment
	err := r.db.WithContext(ctx).First(&payment, "invoice_id = ?", invoiceID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &payment, nil
}
