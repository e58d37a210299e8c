package handler

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/psych0panda/checktrack/internal/application/service"
	"github.com/psych0panda/checktrack/internal/domain/enum"
	"github.com/psych0panda/checktrack/internal/domain/repository"
	"github.com/psych0panda/checktrack/internal/presentation/http/dto/request"
	"github.com/psych0panda/checktrack/internal/presentation/http/dto/response"
	"github.com/psych0panda/checktrack/pkg/pagination"
	"github.com/shopspring/decimal"
)

// InvoiceHandler handles invoice-related HTTP requests
type InvoiceHandler struct {
	invoiceService *service.InvoiceService
	receiptService *service.ReceiptService
	receiptWidth   int
}

// NewInvoiceHandler creates a new invoice handler
func NewInvoiceHandler(invoiceService *service.InvoiceService, receiptService *service.ReceiptService, receiptWidth int) *InvoiceHandler {
	return &InvoiceHandler{
		invoiceService: invoiceService,
		receiptService: receiptService,
		receiptWidth:   receiptWidth,
	}
}

// List handles listing invoices (supports both page-based and cursor-based pagination)
// @Summary List invoices
// @Description List the authenticated user's invoices with optional filters
// @Tags invoices
// @Produce json
// @Param from_date query string false "Issue date lower bound (YYYY-MM-DD)"
// @Param min_total query string false "Minimum invoice total"
// @Param payment_type query string false "Payment type (cash or cashless)"
// @Success 200 {object} response.APIResponse
// @Router /invoices [get]
func (h *InvoiceHandler) List(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	isSuperuser := IsSuperuser(c)

	// Check if cursor-based pagination is requested
	if cursor := c.Query("cursor"); cursor != "" || c.Query("limit") != "" {
		h.listWithCursor(c, *userID, isSuperuser)
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "15"))

	params := &repository.InvoiceFilterParams{
		Pagination: &pagination.PaginationParams{
			Page:    page,
			PerPage: perPage,
		},
		OwnerID:         *userID,
		SkipOwnerFilter: isSuperuser,
	}
	h.bindFilters(c, &params.FromDate, &params.MinTotal, &params.PaymentType)

	result, err := h.invoiceService.ListInvoices(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Invoices retrieved successfully", result)
}

// listWithCursor handles listing invoices with cursor-based pagination
func (h *InvoiceHandler) listWithCursor(c *gin.Context, userID uuid.UUID, isSuperuser bool) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "15"))
	cursor := c.Query("cursor")
	direction := c.DefaultQuery("direction", "next")

	params := &repository.InvoiceCursorFilterParams{
		Cursor: &pagination.CursorParams{
			Cursor:    cursor,
			Direction: pagination.CursorDirection(direction),
			Limit:     limit,
		},
		OwnerID:         userID,
		SkipOwnerFilter: isSuperuser,
	}
	h.bindFilters(c, &params.FromDate, &params.MinTotal, &params.PaymentType)

	result, err := h.invoiceService.ListInvoicesWithCursor(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithCursorPagination(c, 200, "Invoices retrieved successfully", result)
}

// bindFilters parses the shared filter query parameters
func (h *InvoiceHandler) bindFilters(c *gin.Context, fromDate **time.Time, minTotal **decimal.Decimal, paymentType **enum.PaymentType) {
	if fromDateStr := c.Query("from_date"); fromDateStr != "" {
		if parsed, err := time.Parse(time.RFC3339, fromDateStr); err == nil {
			*fromDate = &parsed
		} else if parsed, err := time.Parse("2006-01-02", fromDateStr); err == nil {
			*fromDate = &parsed
		}
	}

	if minTotalStr := c.Query("min_total"); minTotalStr != "" {
		if parsed, err := decimal.NewFromString(minTotalStr); err == nil {
			*minTotal = &parsed
		}
	}

	if paymentTypeStr := c.Query("payment_type"); paymentTypeStr != "" {
		pt := enum.PaymentType(paymentTypeStr)
		if pt.Valid() {
			*paymentType = &pt
		}
	}
}

// Create handles creating an invoice
// @Summary Create invoice
// @Description Create an invoice with its line items and payment
// @Tags invoices
// @Accept json
// @Produce json
// @Param request body request.CreateInvoiceRequest true "Invoice data"
// @Success 201 {object} response.APIResponse
// @Failure 400 {object} response.APIResponse
// @Failure 422 {object} response.APIResponse
// @Router /invoices [post]
func (h *InvoiceHandler) Create(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	var req request.CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	input := &service.CreateInvoiceInput{
		UserID: *userID,
		Payment: service.PaymentInput{
			Type:   enum.PaymentType(req.Payment.Type),
			Amount: req.Payment.Amount,
		},
	}
	for _, p := range req.Products {
		input.Items = append(input.Items, service.LineItemInput{
			Name:     p.Name,
			Price:    p.Price,
			Quantity: p.Quantity,
		})
	}

	invoice, err := h.invoiceService.CreateInvoice(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Invoice created successfully", invoice)
}

// Get handles retrieving a single invoice
// @Summary Get invoice
// @Description Get an invoice with its line items and payment
// @Tags invoices
// @Produce json
// @Param id path string true "Invoice ID"
// @Success 200 {object} response.APIResponse
// @Failure 403 {object} response.APIResponse
// @Failure 404 {object} response.APIResponse
// @Router /invoices/{id} [get]
func (h *InvoiceHandler) Get(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid invoice ID")
		return
	}

	invoice, err := h.invoiceService.GetInvoice(c.Request.Context(), *userID, IsSuperuser(c), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Invoice retrieved successfully", invoice)
}

// Delete handles deleting an invoice
// @Summary Delete invoice
// @Description Delete an invoice together with its line items and payment
// @Tags invoices
// @Produce json
// @Param id path string true "Invoice ID"
// @Success 200 {object} response.APIResponse
// @Failure 403 {object} response.APIResponse
// @Failure 404 {object} response.APIResponse
// @Router /invoices/{id} [delete]
func (h *InvoiceHandler) Delete(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid invoice ID")
		return
	}

	if err := h.invoiceService.DeleteInvoice(c.Request.Context(), *userID, IsSuperuser(c), id); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Invoice deleted successfully", nil)
}

// width returns the requested receipt width, falling back to the configured default
func (h *InvoiceHandler) width(c *gin.Context) int {
	if widthStr := c.Query("width"); widthStr != "" {
		if w, err := strconv.Atoi(widthStr); err == nil && w > 0 {
			return w
		}
	}
	return h.receiptWidth
}

// PrintText returns the invoice receipt as plain text
// @Summary Print receipt (text)
// @Description Render the invoice receipt as fixed-width plain text
// @Tags invoices
// @Produce plain
// @Param id path string true "Invoice ID"
// @Param width query int false "Receipt width in characters"
// @Success 200 {string} string
// @Failure 400 {object} response.APIResponse
// @Failure 404 {object} response.APIResponse
// @Router /invoices/{id}/print [get]
func (h *InvoiceHandler) PrintText(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid invoice ID")
		return
	}

	text, err := h.receiptService.RenderText(c.Request.Context(), *userID, IsSuperuser(c), id, h.width(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.String(200, text)
}

// PrintHTML returns the invoice receipt as an HTML page
// @Summary Print receipt (HTML)
// @Description Render the invoice receipt as an HTML page
// @Tags invoices
// @Produce html
// @Param id path string true "Invoice ID"
// @Param width query int false "Receipt width in characters"
// @Success 200 {string} string
// @Failure 400 {object} response.APIResponse
// @Failure 404 {object} response.APIResponse
// @Router /invoices/{id}/print/html [get]
func (h *InvoiceHandler) PrintHTML(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid invoice ID")
		return
	}

	html, err := h.receiptService.RenderHTML(c.Request.Context(), *userID, IsSuperuser(c), id, h.width(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Data(200, "text/html; charset=utf-8", html)
}

// PrintPDF returns the invoice receipt as a PDF document
// @Summary Print receipt (PDF)
// @Description Render the invoice receipt as a downloadable PDF
// @Tags invoices
// @Produce application/pdf
// @Param id path string true "Invoice ID"
// @Param width query int false "Receipt width in characters"
// @Success 200 {file} file
// @Failure 400 {object} response.APIResponse
// @Failure 404 {object} response.APIResponse
// @Router /invoices/{id}/print/pdf [get]
func (h *InvoiceHandler) PrintPDF(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid invoice ID")
		return
	}

	data, filename, err := h.receiptService.RenderPDF(c.Request.Context(), *userID, IsSuperuser(c), id, h.width(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(200, "application/pdf", data)
}
