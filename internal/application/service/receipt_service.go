package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/psych0panda/checktrack/internal/domain/entity"
	"github.com/psych0panda/checktrack/internal/domain/repository"
	"github.com/psych0panda/checktrack/pkg/apperror"
	"github.com/psych0panda/checktrack/pkg/receipt"
	"github.com/psych0panda/checktrack/pkg/render"
	"github.com/shopspring/decimal"
)

// ReceiptService composes printable receipts from stored invoice data and
// renders them as plain text, HTML or PDF.
type ReceiptService struct {
	invoiceRepo  repository.InvoiceRepository
	lineItemRepo repository.LineItemRepository
	paymentRepo  repository.PaymentRepository
	renderer     *render.Service
	shopName     string
}

// NewReceiptService creates a new receipt service
func NewReceiptService(
	invoiceRepo repository.InvoiceRepository,
	lineItemRepo repository.LineItemRepository,
	paymentRepo repository.PaymentRepository,
	renderer *render.Service,
	shopName string,
) *ReceiptService {
	return &ReceiptService{
		invoiceRepo:  invoiceRepo,
		lineItemRepo: lineItemRepo,
		paymentRepo:  paymentRepo,
		renderer:     renderer,
		shopName:     shopName,
	}
}

// receiptHTMLData is the payload for the receipt.html template.
type receiptHTMLData struct {
	SerialNumber string
	Text         string
}

// BuildReceipt loads the invoice with its line items and payment and turns
// them into a receipt value object. The total is recomputed from the line
// items rather than trusted from the invoice row, and the change is derived
// from the recomputed total. A payment smaller than the recomputed total is
// rejected.
func (s *ReceiptService) BuildReceipt(ctx context.Context, userID uuid.UUID, isSuperuser bool, id uuid.UUID) (*entity.Receipt, error) {
	invoice, err := s.invoiceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, apperror.NewNotFoundError("Invoice")
	}
	if !isSuperuser && invoice.UserID != userID {
		return nil, apperror.ErrForbidden
	}

	items, err := s.lineItemRepo.GetByInvoiceID(ctx, id)
	if err != nil {
		return nil, err
	}
	payment, err := s.paymentRepo.GetByInvoiceID(ctx, id)
	if err != nil {
		return nil, err
	}

	total := decimal.Zero
	receiptItems := make([]entity.ReceiptItem, 0, len(items))
	for _, item := range items {
		lineTotal := item.Price.Mul(item.Quantity).Round(2)
		total = total.Add(lineTotal)

		receiptItems = append(receiptItems, entity.ReceiptItem{
			Name:      item.Name,
			Quantity:  item.Quantity,
			UnitPrice: item.Price,
			Total:     lineTotal,
		})
	}

	paid := invoice.TotalAmount
	r := &entity.Receipt{
		ShopName:     s.shopName,
		SerialNumber: invoice.SerialNumber,
		IssuedAt:     invoice.DateOfIssue,
		Items:        receiptItems,
		Total:        total,
	}
	if payment != nil {
		paid = payment.Amount
		r.PaymentType = payment.Type
	}

	if paid.LessThan(total) {
		return nil, apperror.ErrPaymentInsufficient
	}

	r.Paid = paid
	r.Change = paid.Sub(total)
	return r, nil
}

// FormatReceipt lays the receipt out as fixed-width text. Amounts occupy a
// right-aligned ten character column; money and quantities always carry two
// decimal places.
func FormatReceipt(r *entity.Receipt, width int) string {
	b := receipt.NewBuilder(width)

	b.Center(r.ShopName)
	b.Divider('=')
	b.Center("Receipt #" + r.SerialNumber)
	b.Divider('=')

	for _, item := range r.Items {
		b.Row(item.Quantity.StringFixed(2)+" x "+item.UnitPrice.StringFixed(2), item.Total.StringFixed(2))
		b.Row(item.Name, item.Total.StringFixed(2))
		b.Divider('-')
	}

	b.Divider('=')
	b.Row("TOTAL", r.Total.StringFixed(2))
	if r.PaymentType != "" {
		b.Row(r.PaymentType.String(), r.Paid.StringFixed(2))
	}
	b.Row("CHANGE", r.Change.StringFixed(2))
	b.Divider('=')

	b.Center(r.IssuedAt.Format("02.01.2006 15:04"))
	b.Center("Thank you for your purchase!")

	return b.String()
}

// RenderText returns the receipt as plain text at the given width.
func (s *ReceiptService) RenderText(ctx context.Context, userID uuid.UUID, isSuperuser bool, id uuid.UUID, width int) (string, error) {
	r, err := s.BuildReceipt(ctx, userID, isSuperuser, id)
	if err != nil {
		return "", err
	}
	return FormatReceipt(r, width), nil
}

// RenderHTML returns the receipt as an HTML page.
func (s *ReceiptService) RenderHTML(ctx context.Context, userID uuid.UUID, isSuperuser bool, id uuid.UUID, width int) ([]byte, error) {
	r, err := s.BuildReceipt(ctx, userID, isSuperuser, id)
	if err != nil {
		return nil, err
	}
	return s.renderer.RenderHTML("receipt.html", receiptHTMLData{
		SerialNumber: r.SerialNumber,
		Text:         FormatReceipt(r, width),
	})
}

// RenderPDF returns the receipt as a PDF document and the suggested filename.
func (s *ReceiptService) RenderPDF(ctx context.Context, userID uuid.UUID, isSuperuser bool, id uuid.UUID, width int) ([]byte, string, error) {
	r, err := s.BuildReceipt(ctx, userID, isSuperuser, id)
	if err != nil {
		return nil, "", err
	}
	data, err := s.renderer.ReceiptPDF(FormatReceipt(r, width))
	if err != nil {
		return nil, "", err
	}
	return data, "invoice_" + r.SerialNumber + ".pdf", nil
}
