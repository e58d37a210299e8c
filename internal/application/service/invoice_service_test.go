package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/psych0panda/checktrack/internal/domain/entity"
	"github.com/psych0panda/checktrack/internal/domain/enum"
	"github.com/psych0panda/checktrack/internal/domain/repository"
	"github.com/psych0panda/checktrack/pkg/apperror"
	"github.com/psych0panda/checktrack/pkg/pagination"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeInvoiceRepo is an in-memory InvoiceRepository for service tests.
type fakeInvoiceRepo struct {
	invoices map[uuid.UUID]*entity.Invoice
	items    map[uuid.UUID][]entity.LineItem
	payments map[uuid.UUID]*entity.Payment
}

func newFakeInvoiceRepo() *fakeInvoiceRepo {
	return &fakeInvoiceRepo{
		invoices: make(map[uuid.UUID]*entity.Invoice),
		items:    make(map[uuid.UUID][]entity.LineItem),
		payments: make(map[uuid.UUID]*entity.Payment),
	}
}

func (f *fakeInvoiceRepo) CreateWithItems(_ context.Context, invoice *entity.Invoice, items []entity.LineItem, payment *entity.Payment) error {
	if invoice.ID == uuid.Nil {
		invoice.ID = uuid.New()
	}
	invoice.CreatedAt = time.Now()

	for i := range items {
		if items[i].ID == uuid.Nil {
			items[i].ID = uuid.New()
		}
		items[i].InvoiceID = invoice.ID
	}

	payment.ID = uuid.New()
	payment.InvoiceID = invoice.ID
	invoice.PaymentID = &payment.ID

	invoice.Items = items
	invoice.Payment = payment

	f.invoices[invoice.ID] = invoice
	f.items[invoice.ID] = items
	f.payments[invoice.ID] = payment
	return nil
}

func (f *fakeInvoiceRepo) GetByID(_ context.Context, id uuid.UUID) (*entity.Invoice, error) {
	invoice, ok := f.invoices[id]
	if !ok {
		return nil, nil
	}
	return invoice, nil
}

func (f *fakeInvoiceRepo) GetBySerialNumber(_ context.Context, serial string) (*entity.Invoice, error) {
	for _, invoice := range f.invoices {
		if invoice.SerialNumber == serial {
			return invoice, nil
		}
	}
	return nil, nil
}

func (f *fakeInvoiceRepo) GetWithDetails(_ context.Context, id uuid.UUID) (*entity.Invoice, error) {
	invoice, ok := f.invoices[id]
	if !ok {
		return nil, nil
	}
	invoice.Items = f.items[id]
	invoice.Payment = f.payments[id]
	return invoice, nil
}

func (f *fakeInvoiceRepo) List(_ context.Context, params *repository.InvoiceFilterParams) ([]entity.Invoice, int64, error) {
	var out []entity.Invoice
	for _, invoice := range f.invoices {
		if !params.SkipOwnerFilter && invoice.UserID != params.OwnerID {
			continue
		}
		if params.MinTotal != nil && invoice.TotalAmount.LessThan(*params.MinTotal) {
			continue
		}
		if params.FromDate != nil && invoice.DateOfIssue.Before(*params.FromDate) {
			continue
		}
		if params.PaymentType != nil {
			payment := f.payments[invoice.ID]
			if payment == nil || payment.Type != *params.PaymentType {
				continue
			}
		}
		out = append(out, *invoice)
	}
	return out, int64(len(out)), nil
}

func (f *fakeInvoiceRepo) ListWithCursor(_ context.Context, params *repository.InvoiceCursorFilterParams) ([]entity.Invoice, error) {
	items, _, err := f.List(context.Background(), &repository.InvoiceFilterParams{
		FromDate:        params.FromDate,
		MinTotal:        params.MinTotal,
		PaymentType:     params.PaymentType,
		OwnerID:         params.OwnerID,
		SkipOwnerFilter: params.SkipOwnerFilter,
	})
	return items, err
}

func (f *fakeInvoiceRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(f.invoices, id)
	delete(f.items, id)
	delete(f.payments, id)
	return nil
}

type fakeLineItemRepo struct{ repo *fakeInvoiceRepo }

func (f *fakeLineItemRepo) GetByInvoiceID(_ context.Context, invoiceID uuid.UUID) ([]entity.LineItem, error) {
	return f.repo.items[invoiceID], nil
}

type fakePaymentRepo struct{ repo *fakeInvoiceRepo }

func (f *fakePaymentRepo) GetByInvoiceID(_ context.Context, invoiceID uuid.UUID) (*entity.Payment, error) {
	return f.repo.payments[invoiceID], nil
}

func mustDecimal(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}

func TestCreateInvoice_ExactPayment(t *testing.T) {
	repo := newFakeInvoiceRepo()
	svc := NewInvoiceService(repo)
	userID := uuid.New()

	invoice, err := svc.CreateInvoice(context.Background(), &CreateInvoiceInput{
		UserID: userID,
		Items: []LineItemInput{
			{Name: "Scented candle", Price: mustDecimal(t, "298.00"), Quantity: mustDecimal(t, "3.00")},
		},
		Payment: PaymentInput{Type: enum.PaymentTypeCash, Amount: mustDecimal(t, "894.00")},
	})
	require.NoError(t, err)

	assert.True(t, invoice.TotalAmount.Equal(mustDecimal(t, "894.00")), "total = %s", invoice.TotalAmount)
	assert.True(t, invoice.Rest.IsZero(), "rest = %s", invoice.Rest)
	require.Len(t, invoice.Items, 1)
	assert.True(t, invoice.Items[0].Total.Equal(mustDecimal(t, "894.00")))
	require.NotNil(t, invoice.Payment)
	assert.Equal(t, enum.PaymentTypeCash, invoice.Payment.Type)
	assert.True(t, invoice.Payment.Rest.IsZero())
	assert.NotEmpty(t, invoice.SerialNumber)
	assert.Equal(t, userID, invoice.UserID)
}

func TestCreateInvoice_ComputesChange(t *testing.T) {
	repo := newFakeInvoiceRepo()
	svc := NewInvoiceService(repo)

	invoice, err := svc.CreateInvoice(context.Background(), &CreateInvoiceInput{
		UserID: uuid.New(),
		Items: []LineItemInput{
			{Name: "Coffee", Price: mustDecimal(t, "3.50"), Quantity: mustDecimal(t, "2")},
			{Name: "Croissant", Price: mustDecimal(t, "2.25"), Quantity: mustDecimal(t, "1")},
		},
		Payment: PaymentInput{Type: enum.PaymentTypeCashless, Amount: mustDecimal(t, "10.00")},
	})
	require.NoError(t, err)

	assert.True(t, invoice.TotalAmount.Equal(mustDecimal(t, "9.25")), "total = %s", invoice.TotalAmount)
	assert.True(t, invoice.Rest.Equal(mustDecimal(t, "0.75")), "rest = %s", invoice.Rest)
}

func TestCreateInvoice_InsufficientPaymentPersistsNothing(t *testing.T) {
	repo := newFakeInvoiceRepo()
	svc := NewInvoiceService(repo)

	_, err := svc.CreateInvoice(context.Background(), &CreateInvoiceInput{
		UserID: uuid.New(),
		Items: []LineItemInput{
			{Name: "Widget", Price: mustDecimal(t, "100.00"), Quantity: mustDecimal(t, "1")},
		},
		Payment: PaymentInput{Type: enum.PaymentTypeCash, Amount: mustDecimal(t, "50.00")},
	})
	require.Error(t, err)
	assert.Equal(t, apperror.ErrPaymentInsufficient, err)
	assert.Empty(t, repo.invoices)
	assert.Empty(t, repo.items)
	assert.Empty(t, repo.payments)
}

func TestCreateInvoice_ValidationErrors(t *testing.T) {
	svc := NewInvoiceService(newFakeInvoiceRepo())

	tests := []struct {
		name  string
		input *CreateInvoiceInput
		field string
	}{
		{
			name: "no items",
			input: &CreateInvoiceInput{
				UserID:  uuid.New(),
				Payment: PaymentInput{Type: enum.PaymentTypeCash},
			},
			field: "items",
		},
		{
			name: "empty item name",
			input: &CreateInvoiceInput{
				UserID: uuid.New(),
				Items: []LineItemInput{
					{Name: "", Price: mustDecimal(t, "1.00"), Quantity: mustDecimal(t, "1")},
				},
				Payment: PaymentInput{Type: enum.PaymentTypeCash, Amount: mustDecimal(t, "1.00")},
			},
			field: "items.name",
		},
		{
			name: "negative price",
			input: &CreateInvoiceInput{
				UserID: uuid.New(),
				Items: []LineItemInput{
					{Name: "Widget", Price: mustDecimal(t, "-1.00"), Quantity: mustDecimal(t, "1")},
				},
				Payment: PaymentInput{Type: enum.PaymentTypeCash, Amount: mustDecimal(t, "1.00")},
			},
			field: "items.price",
		},
		{
			name: "zero quantity",
			input: &CreateInvoiceInput{
				UserID: uuid.New(),
				Items: []LineItemInput{
					{Name: "Widget", Price: mustDecimal(t, "1.00"), Quantity: decimal.Zero},
				},
				Payment: PaymentInput{Type: enum.PaymentTypeCash, Amount: mustDecimal(t, "1.00")},
			},
			field: "items.quantity",
		},
		{
			name: "unknown payment type",
			input: &CreateInvoiceInput{
				UserID: uuid.New(),
				Items: []LineItemInput{
					{Name: "Widget", Price: mustDecimal(t, "1.00"), Quantity: mustDecimal(t, "1")},
				},
				Payment: PaymentInput{Type: "credit", Amount: mustDecimal(t, "1.00")},
			},
			field: "payment.type",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateInvoice(context.Background(), tt.input)
			require.Error(t, err)

			appErr := apperror.GetAppError(err)
			assert.Equal(t, 422, appErr.Code)

			found := false
			for _, fe := range appErr.Errors {
				if fe.Field == tt.field {
					found = true
				}
			}
			assert.True(t, found, "expected field error for %q, got %v", tt.field, appErr.Errors)
		})
	}
}

func TestGetInvoice_OwnershipEnforced(t *testing.T) {
	repo := newFakeInvoiceRepo()
	svc := NewInvoiceService(repo)
	owner := uuid.New()
	stranger := uuid.New()

	invoice, err := svc.CreateInvoice(context.Background(), &CreateInvoiceInput{
		UserID: owner,
		Items: []LineItemInput{
			{Name: "Widget", Price: mustDecimal(t, "5.00"), Quantity: mustDecimal(t, "1")},
		},
		Payment: PaymentInput{Type: enum.PaymentTypeCash, Amount: mustDecimal(t, "5.00")},
	})
	require.NoError(t, err)

	// Owner can read it
	got, err := svc.GetInvoice(context.Background(), owner, false, invoice.ID)
	require.NoError(t, err)
	assert.Equal(t, invoice.ID, got.ID)

	// A different user cannot
	_, err = svc.GetInvoice(context.Background(), stranger, false, invoice.ID)
	assert.Equal(t, apperror.ErrForbidden, err)

	// Unless they are a superuser
	got, err = svc.GetInvoice(context.Background(), stranger, true, invoice.ID)
	require.NoError(t, err)
	assert.Equal(t, invoice.ID, got.ID)
}

func TestGetInvoice_NotFound(t *testing.T) {
	svc := NewInvoiceService(newFakeInvoiceRepo())

	_, err := svc.GetInvoice(context.Background(), uuid.New(), false, uuid.New())
	require.Error(t, err)
	assert.Equal(t, 404, apperror.GetAppError(err).Code)
}

func TestListInvoices_OwnerScoped(t *testing.T) {
	repo := newFakeInvoiceRepo()
	svc := NewInvoiceService(repo)
	alice := uuid.New()
	bob := uuid.New()

	for _, userID := range []uuid.UUID{alice, alice, bob} {
		_, err := svc.CreateInvoice(context.Background(), &CreateInvoiceInput{
			UserID: userID,
			Items: []LineItemInput{
				{Name: "Widget", Price: mustDecimal(t, "5.00"), Quantity: mustDecimal(t, "1")},
			},
			Payment: PaymentInput{Type: enum.PaymentTypeCash, Amount: mustDecimal(t, "5.00")},
		})
		require.NoError(t, err)
	}

	result, err := svc.ListInvoices(context.Background(), &repository.InvoiceFilterParams{
		Pagination: pagination.DefaultPagination(),
		OwnerID:    alice,
	})
	require.NoError(t, err)
	assert.Len(t, result.Items, 2)
	assert.Equal(t, int64(2), result.Pagination.Total)

	// Superusers see everything
	result, err = svc.ListInvoices(context.Background(), &repository.InvoiceFilterParams{
		Pagination:      pagination.DefaultPagination(),
		OwnerID:         bob,
		SkipOwnerFilter: true,
	})
	require.NoError(t, err)
	assert.Len(t, result.Items, 3)
}

func TestListInvoices_MinTotalFilter(t *testing.T) {
	repo := newFakeInvoiceRepo()
	svc := NewInvoiceService(repo)
	userID := uuid.New()

	for _, price := range []string{"10.00", "50.00", "200.00"} {
		_, err := svc.CreateInvoice(context.Background(), &CreateInvoiceInput{
			UserID: userID,
			Items: []LineItemInput{
				{Name: "Widget", Price: mustDecimal(t, price), Quantity: mustDecimal(t, "1")},
			},
			Payment: PaymentInput{Type: enum.PaymentTypeCash, Amount: mustDecimal(t, "200.00")},
		})
		require.NoError(t, err)
	}

	minTotal := mustDecimal(t, "50.00")
	result, err := svc.ListInvoices(context.Background(), &repository.InvoiceFilterParams{
		Pagination: pagination.DefaultPagination(),
		OwnerID:    userID,
		MinTotal:   &minTotal,
	})
	require.NoError(t, err)
	assert.Len(t, result.Items, 2)
}

func TestDeleteInvoice_RemovesDependents(t *testing.T) {
	repo := newFakeInvoiceRepo()
	svc := NewInvoiceService(repo)
	owner := uuid.New()

	invoice, err := svc.CreateInvoice(context.Background(), &CreateInvoiceInput{
		UserID: owner,
		Items: []LineItemInput{
			{Name: "Widget", Price: mustDecimal(t, "5.00"), Quantity: mustDecimal(t, "2")},
		},
		Payment: PaymentInput{Type: enum.PaymentTypeCashless, Amount: mustDecimal(t, "10.00")},
	})
	require.NoError(t, err)

	// A different user cannot delete it
	err = svc.DeleteInvoice(context.Background(), uuid.New(), false, invoice.ID)
	assert.Equal(t, apperror.ErrForbidden, err)

	require.NoError(t, svc.DeleteInvoice(context.Background(), owner, false, invoice.ID))
	assert.Empty(t, repo.invoices)
	assert.Empty(t, repo.items)
	assert.Empty(t, repo.payments)

	// Deleting again reports not found
	err = svc.DeleteInvoice(context.Background(), owner, false, invoice.ID)
	require.Error(t, err)
	assert.Equal(t, 404, apperror.GetAppError(err).Code)
}
