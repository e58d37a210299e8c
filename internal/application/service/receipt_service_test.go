package service

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/psych0panda/checktrack/internal/domain/entity"
	"github.com/psych0panda/checktrack/internal/domain/enum"
	"github.com/psych0panda/checktrack/pkg/apperror"
	"github.com/psych0panda/checktrack/pkg/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestReceiptService(t *testing.T, repo *fakeInvoiceRepo) *ReceiptService {
	t.Helper()
	renderer, err := render.NewService("")
	require.NoError(t, err)
	return NewReceiptService(repo, &fakeLineItemRepo{repo: repo}, &fakePaymentRepo{repo: repo}, renderer, "Test Shop")
}

func seedInvoice(t *testing.T, repo *fakeInvoiceRepo, userID uuid.UUID, paid string) *entity.Invoice {
	t.Helper()
	invoice := &entity.Invoice{
		SerialNumber: "INV-001",
		UserID:       userID,
		TotalAmount:  mustDecimal(t, "894.00"),
		Rest:         mustDecimal(t, paid).Sub(mustDecimal(t, "894.00")),
		DateOfIssue:  time.Date(2026, 8, 30, 12, 45, 0, 0, time.UTC),
	}
	items := []entity.LineItem{
		{Name: "Scented candle", Price: mustDecimal(t, "298.00"), Quantity: mustDecimal(t, "3.00"), Total: mustDecimal(t, "894.00")},
	}
	payment := &entity.Payment{
		Type:   enum.PaymentTypeCash,
		Amount: mustDecimal(t, paid),
		Rest:   mustDecimal(t, paid).Sub(mustDecimal(t, "894.00")),
	}
	require.NoError(t, repo.CreateWithItems(context.Background(), invoice, items, payment))
	return invoice
}

func TestFormatReceipt_Layout(t *testing.T) {
	r := &entity.Receipt{
		ShopName:     "Test Shop",
		SerialNumber: "INV-001",
		IssuedAt:     time.Date(2026, 8, 30, 12, 45, 0, 0, time.UTC),
		PaymentType:  enum.PaymentTypeCash,
		Items: []entity.ReceiptItem{
			{
				Name:      "Scented candle",
				Quantity:  mustDecimal(t, "3.00"),
				UnitPrice: mustDecimal(t, "298.00"),
				Total:     mustDecimal(t, "894.00"),
			},
		},
		Total:  mustDecimal(t, "894.00"),
		Paid:   mustDecimal(t, "894.00"),
		Change: mustDecimal(t, "0.00"),
	}

	expected := strings.Join([]string{
		strings.Repeat(" ", 15) + "Test Shop",
		strings.Repeat("=", 40),
		strings.Repeat(" ", 12) + "Receipt #INV-001",
		strings.Repeat("=", 40),
		fmt.Sprintf("%-30s%10s", "3.00 x 298.00", "894.00"),
		fmt.Sprintf("%-30s%10s", "Scented candle", "894.00"),
		strings.Repeat("-", 40),
		strings.Repeat("=", 40),
		fmt.Sprintf("%-30s%10s", "TOTAL", "894.00"),
		fmt.Sprintf("%-30s%10s", "cash", "894.00"),
		fmt.Sprintf("%-30s%10s", "CHANGE", "0.00"),
		strings.Repeat("=", 40),
		strings.Repeat(" ", 12) + "30.08.2026 12:45",
		strings.Repeat(" ", 6) + "Thank you for your purchase!",
	}, "\n")

	assert.Equal(t, expected, FormatReceipt(r, 40))
}

func TestFormatReceipt_CustomWidth(t *testing.T) {
	r := &entity.Receipt{
		ShopName:     "Test Shop",
		SerialNumber: "INV-001",
		IssuedAt:     time.Date(2026, 8, 30, 12, 45, 0, 0, time.UTC),
		PaymentType:  enum.PaymentTypeCashless,
		Items: []entity.ReceiptItem{
			{Name: "Tea", Quantity: mustDecimal(t, "1"), UnitPrice: mustDecimal(t, "2.50"), Total: mustDecimal(t, "2.50")},
		},
		Total:  mustDecimal(t, "2.50"),
		Paid:   mustDecimal(t, "5.00"),
		Change: mustDecimal(t, "2.50"),
	}

	for _, line := range strings.Split(FormatReceipt(r, 32), "\n") {
		assert.LessOrEqual(t, len(line), 32, "line %q overflows width", line)
	}
	assert.Contains(t, FormatReceipt(r, 32), strings.Repeat("=", 32))
}

func TestRenderText_Idempotent(t *testing.T) {
	repo := newFakeInvoiceRepo()
	svc := newTestReceiptService(t, repo)
	owner := uuid.New()
	invoice := seedInvoice(t, repo, owner, "894.00")

	first, err := svc.RenderText(context.Background(), owner, false, invoice.ID, 40)
	require.NoError(t, err)
	second, err := svc.RenderText(context.Background(), owner, false, invoice.ID, 40)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Contains(t, first, "3.00 x 298.00")
	assert.Contains(t, first, "Receipt #INV-001")
}

func TestRenderText_InsufficientPayment(t *testing.T) {
	repo := newFakeInvoiceRepo()
	svc := newTestReceiptService(t, repo)
	owner := uuid.New()
	invoice := seedInvoice(t, repo, owner, "894.00")

	// Shrink the stored payment below the recomputed total
	repo.payments[invoice.ID].Amount = mustDecimal(t, "100.00")

	_, err := svc.RenderText(context.Background(), owner, false, invoice.ID, 40)
	assert.Equal(t, apperror.ErrPaymentInsufficient, err)
}

func TestRenderText_OwnershipEnforced(t *testing.T) {
	repo := newFakeInvoiceRepo()
	svc := newTestReceiptService(t, repo)
	owner := uuid.New()
	invoice := seedInvoice(t, repo, owner, "894.00")

	_, err := svc.RenderText(context.Background(), uuid.New(), false, invoice.ID, 40)
	assert.Equal(t, apperror.ErrForbidden, err)

	_, err = svc.RenderText(context.Background(), uuid.New(), true, invoice.ID, 40)
	assert.NoError(t, err)
}

func TestBuildReceipt_RecomputesTotal(t *testing.T) {
	repo := newFakeInvoiceRepo()
	svc := newTestReceiptService(t, repo)
	owner := uuid.New()
	invoice := seedInvoice(t, repo, owner, "1000.00")

	// Corrupt the stored invoice total; the receipt must not trust it
	repo.invoices[invoice.ID].TotalAmount = mustDecimal(t, "1.00")

	r, err := svc.BuildReceipt(context.Background(), owner, false, invoice.ID)
	require.NoError(t, err)

	assert.True(t, r.Total.Equal(mustDecimal(t, "894.00")), "total = %s", r.Total)
	assert.True(t, r.Paid.Equal(mustDecimal(t, "1000.00")))
	assert.True(t, r.Change.Equal(mustDecimal(t, "106.00")), "change = %s", r.Change)
}

func TestRenderHTML_EmbedsText(t *testing.T) {
	repo := newFakeInvoiceRepo()
	svc := newTestReceiptService(t, repo)
	owner := uuid.New()
	invoice := seedInvoice(t, repo, owner, "894.00")

	html, err := svc.RenderHTML(context.Background(), owner, false, invoice.ID, 40)
	require.NoError(t, err)

	assert.Contains(t, string(html), "<pre")
	assert.Contains(t, string(html), "INV-001")
	assert.Contains(t, string(html), "3.00 x 298.00")
}

func TestRenderPDF(t *testing.T) {
	repo := newFakeInvoiceRepo()
	svc := newTestReceiptService(t, repo)
	owner := uuid.New()
	invoice := seedInvoice(t, repo, owner, "894.00")

	data, filename, err := svc.RenderPDF(context.Background(), owner, false, invoice.ID, 40)
	require.NoError(t, err)

	assert.Equal(t, "invoice_INV-001.pdf", filename)
	assert.True(t, strings.HasPrefix(string(data), "%PDF"), "not a PDF document")
}

func TestRenderText_NotFound(t *testing.T) {
	repo := newFakeInvoiceRepo()
	svc := newTestReceiptService(t, repo)

	_, err := svc.RenderText(context.Background(), uuid.New(), false, uuid.New(), 40)
	require.Error(t, err)
	assert.Equal(t, 404, apperror.GetAppError(err).Code)
}
