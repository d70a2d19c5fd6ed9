package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/ridwanfathin/invoice-dashboard/internal/domain"
	"github.com/ridwanfathin/invoice-dashboard/internal/model"
	"github.com/ridwanfathin/invoice-dashboard/internal/repository"
	"github.com/ridwanfathin/invoice-dashboard/internal/service"
)

// InvoiceHandler handles JSON API requests for invoice-related operations
type InvoiceHandler struct {
	invoiceService service.InvoiceService
}

// NewInvoiceHandler creates a new invoice handler
func NewInvoiceHandler(invoiceService service.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{
		invoiceService: invoiceService,
	}
}

// ListInvoices handles the GET /v1/invoices endpoint
// @Summary List invoices
// @Description Search invoices by customer, email, amount, date, status or category, newest first
// @Tags invoices
// @Produce json
// @Param query query string false "Search term"
// @Param page query int false "Page number (default: 1)"
// @Param limit query int false "Items per page (default: 6, max: 100)"
// @Success 200 {object} model.InvoicesListResponse "Paginated invoices"
// @Failure 400 {object} model.ErrorResponse "Invalid query parameters"
// @Failure 401 {object} model.ErrorResponse "Unauthorized"
// @Failure 500 {object} model.ErrorResponse "Internal server error"
// @Security BearerAuth
// @Router /v1/invoices [get]
func (h *InvoiceHandler) ListInvoices(c *gin.Context) {
	page, err := getQueryInt(c, "page", 1)
	if err != nil {
		respondBadRequest(c, err.Error())
		return
	}
	limit, err := getQueryInt(c, "limit", repository.DefaultPageSize)
	if err != nil {
		respondBadRequest(c, err.Error())
		return
	}
	if err := validatePagination(page, limit); err != nil {
		respondBadRequest(c, ErrInvalidQueryParams, model.ErrorDetail{Field: "pagination", Message: err.Error()})
		return
	}

	result, err := h.invoiceService.ListInvoices(c.Request.Context(), domain.InvoiceFilter{
		Query: c.Query("query"),
		Page:  page,
		Limit: limit,
	})
	if err != nil {
		logError(c, "failed_to_list_invoices", err, nil)
		respondInternalServerError(c, ErrInternalServer)
		return
	}

	respondOK(c, model.InvoicesListResponse{
		Data: model.NewInvoiceListItemResponses(result.Data),
		Pagination: model.PaginationResponse{
			TotalItems:  result.Pagination.TotalItems,
			TotalPages:  result.Pagination.TotalPages,
			CurrentPage: result.Pagination.CurrentPage,
			Limit:       result.Pagination.Limit,
		},
	})
}

// GetInvoice handles the GET /v1/invoices/:id endpoint
// @Summary Get an invoice
// @Description Retrieve a single invoice by its ID
// @Tags invoices
// @Produce json
// @Param id path string true "Invoice ID"
// @Success 200 {object} model.InvoiceResponse "Invoice"
// @Failure 401 {object} model.ErrorResponse "Unauthorized"
// @Failure 404 {object} model.ErrorResponse "Invoice not found"
// @Failure 500 {object} model.ErrorResponse "Internal server error"
// @Security BearerAuth
// @Router /v1/invoices/{id} [get]
func (h *InvoiceHandler) GetInvoice(c *gin.Context) {
	invoiceID, err := getPathParam(c, "id")
	if err != nil {
		respondBadRequest(c, ErrInvalidID)
		return
	}

	invoice, err := h.invoiceService.GetInvoice(c.Request.Context(), invoiceID)
	if err != nil {
		if errors.Is(err, domain.ErrInvoiceNotFound) {
			respondNotFound(c, ErrInvoiceNotFound)
			return
		}
		logError(c, "failed_to_get_invoice", err, map[string]interface{}{
			"invoice_id": invoiceID,
		})
		respondInternalServerError(c, ErrInternalServer)
		return
	}

	respondOK(c, model.NewInvoiceResponse(invoice))
}

// CreateInvoice handles the POST /v1/invoices endpoint
// @Summary Create an invoice
// @Description Validate the invoice fields and store a new invoice dated today
// @Tags invoices
// @Accept json
// @Produce json
// @Param invoice body model.InvoiceFormInput true "Invoice fields"
// @Success 201 {object} model.InvoiceResponse "Invoice created"
// @Failure 400 {object} model.ErrorResponse "Invalid input"
// @Failure 401 {object} model.ErrorResponse "Unauthorized"
// @Failure 422 {object} model.ErrorResponse "Validation failed"
// @Failure 500 {object} model.ErrorResponse "Database error"
// @Security BearerAuth
// @Router /v1/invoices [post]
func (h *InvoiceHandler) CreateInvoice(c *gin.Context) {
	var input model.InvoiceFormInput
	if err := bindJSON(c, &input); err != nil {
		respondBadRequest(c, ErrInvalidInput)
		return
	}

	invoice, err := h.invoiceService.CreateInvoice(c.Request.Context(), input)
	if err != nil {
		h.respondActionError(c, "failed_to_create_invoice", err)
		return
	}

	respondCreated(c, model.NewInvoiceResponse(invoice))
}

// UpdateInvoice handles the PUT /v1/invoices/:id endpoint
// @Summary Update an invoice
// @Description Validate the invoice fields and update customer, amount, status and category
// @Tags invoices
// @Accept json
// @Produce json
// @Param id path string true "Invoice ID"
// @Param invoice body model.InvoiceFormInput true "Invoice fields"
// @Success 200 {object} model.InvoiceResponse "Invoice updated"
// @Failure 400 {object} model.ErrorResponse "Invalid input"
// @Failure 401 {object} model.ErrorResponse "Unauthorized"
// @Failure 422 {object} model.ErrorResponse "Validation failed"
// @Failure 500 {object} model.ErrorResponse "Database error"
// @Security BearerAuth
// @Router /v1/invoices/{id} [put]
func (h *InvoiceHandler) UpdateInvoice(c *gin.Context) {
	invoiceID, err := getPathParam(c, "id")
	if err != nil {
		respondBadRequest(c, ErrInvalidID)
		return
	}

	var input model.InvoiceFormInput
	if err := bindJSON(c, &input); err != nil {
		respondBadRequest(c, ErrInvalidInput)
		return
	}

	invoice, err := h.invoiceService.UpdateInvoice(c.Request.Context(), invoiceID, input)
	if err != nil {
		h.respondActionError(c, "failed_to_update_invoice", err)
		return
	}

	respondOK(c, model.NewInvoiceResponse(invoice))
}

// DeleteInvoice handles the DELETE /v1/invoices/:id endpoint
// @Summary Delete an invoice
// @Description Delete an invoice by its ID
// @Tags invoices
// @Param id path string true "Invoice ID"
// @Success 204 "Invoice deleted"
// @Failure 401 {object} model.ErrorResponse "Unauthorized"
// @Failure 500 {object} model.ErrorResponse "Database error"
// @Security BearerAuth
// @Router /v1/invoices/{id} [delete]
func (h *InvoiceHandler) DeleteInvoice(c *gin.Context) {
	invoiceID, err := getPathParam(c, "id")
	if err != nil {
		respondBadRequest(c, ErrInvalidID)
		return
	}

	if err := h.invoiceService.DeleteInvoice(c.Request.Context(), invoiceID); err != nil {
		h.respondActionError(c, "failed_to_delete_invoice", err)
		return
	}

	respondNoContent(c)
}

// ListCustomers handles the GET /v1/customers endpoint
// @Summary List customers
// @Description Retrieve every customer an invoice can be billed to
// @Tags reference
// @Produce json
// @Success 200 {array} domain.Customer "Customers"
// @Failure 401 {object} model.ErrorResponse "Unauthorized"
// @Failure 500 {object} model.ErrorResponse "Internal server error"
// @Security BearerAuth
// @Router /v1/customers [get]
func (h *InvoiceHandler) ListCustomers(c *gin.Context) {
	customers, err := h.invoiceService.ListCustomers(c.Request.Context())
	if err != nil {
		logError(c, "failed_to_list_customers", err, nil)
		respondInternalServerError(c, ErrInternalServer)
		return
	}

	respondOK(c, customers)
}

// ListCategories handles the GET /v1/categories endpoint
// @Summary List categories
// @Description Retrieve every invoice category
// @Tags reference
// @Produce json
// @Success 200 {array} domain.Category "Categories"
// @Failure 401 {object} model.ErrorResponse "Unauthorized"
// @Failure 500 {object} model.ErrorResponse "Internal server error"
// @Security BearerAuth
// @Router /v1/categories [get]
func (h *InvoiceHandler) ListCategories(c *gin.Context) {
	categories, err := h.invoiceService.ListCategories(c.Request.Context())
	if err != nil {
		logError(c, "failed_to_list_categories", err, nil)
		respondInternalServerError(c, ErrInternalServer)
		return
	}

	respondOK(c, categories)
}

// respondActionError maps a failed invoice action onto its HTTP response
func (h *InvoiceHandler) respondActionError(c *gin.Context, event string, err error) {
	var serviceErr *service.InvoiceServiceError
	validation := errors.As(err, &serviceErr) && serviceErr.IsValidation()
	if !validation {
		logError(c, event, err, nil)
	}
	respondActionFailure(c, service.ActionStateFromError(err), validation)
}

// RegisterRoutes registers the invoice API routes
func (h *InvoiceHandler) RegisterRoutes(router *gin.Engine, authMiddleware gin.HandlerFunc) {
	v1 := router.Group("/v1", authMiddleware)
	{
		v1.GET("/invoices", h.ListInvoices)
		v1.POST("/invoices", h.CreateInvoice)
		v1.GET("/invoices/:id", h.GetInvoice)
		v1.PUT("/invoices/:id", h.UpdateInvoice)
		v1.DELETE("/invoices/:id", h.DeleteInvoice)
		v1.GET("/customers", h.ListCustomers)
		v1.GET("/categories", h.ListCategories)
	}
}
