package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ridwanfathin/invoice-dashboard/internal/domain"
	"github.com/ridwanfathin/invoice-dashboard/internal/model"
	"github.com/ridwanfathin/invoice-dashboard/internal/service"
)

// PageHandler serves the server-rendered dashboard pages and their form actions
type PageHandler struct {
	pageService    service.PageService
	invoiceService service.InvoiceService
}

// NewPageHandler creates a new page handler
func NewPageHandler(pageService service.PageService, invoiceService service.InvoiceService) *PageHandler {
	return &PageHandler{
		pageService:    pageService,
		invoiceService: invoiceService,
	}
}

// Dashboard renders the overview cards and latest invoices
func (h *PageHandler) Dashboard(c *gin.Context) {
	page, err := h.pageService.DashboardPage(c.Request.Context())
	if err != nil {
		logError(c, "failed_to_load_dashboard", err, nil)
		renderError(c, model.DashboardPath)
		return
	}

	renderHTML(c, StatusOK, tmplDashboard, page)
}

// ListInvoices renders one page of the searchable invoice table
func (h *PageHandler) ListInvoices(c *gin.Context) {
	pageNumber, err := getQueryInt(c, "page", 1)
	if err != nil || pageNumber < 1 {
		pageNumber = 1
	}

	page, err := h.pageService.InvoiceListPage(c.Request.Context(), c.Query("query"), pageNumber)
	if err != nil {
		logError(c, "failed_to_list_invoices", err, map[string]interface{}{
			"query": c.Query("query"),
			"page":  pageNumber,
		})
		renderError(c, model.InvoicesPath)
		return
	}

	renderHTML(c, StatusOK, tmplInvoices, page)
}

// CreateInvoicePage renders the empty create form
func (h *PageHandler) CreateInvoicePage(c *gin.Context) {
	page, err := h.pageService.CreateInvoicePage(c.Request.Context())
	if err != nil {
		logError(c, "failed_to_load_create_form", err, nil)
		renderError(c, model.CreateInvoicePath)
		return
	}

	renderHTML(c, StatusOK, tmplInvoiceForm, page)
}

// CreateInvoice handles the create form submission
func (h *PageHandler) CreateInvoice(c *gin.Context) {
	var input model.InvoiceFormInput
	if err := c.ShouldBind(&input); err != nil {
		respondBadRequest(c, ErrInvalidInput)
		return
	}

	if _, err := h.invoiceService.CreateInvoice(c.Request.Context(), input); err != nil {
		page, pageErr := h.pageService.CreateInvoicePage(c.Request.Context())
		if pageErr != nil {
			logError(c, "failed_to_load_create_form", pageErr, nil)
			renderError(c, model.CreateInvoicePath)
			return
		}
		h.renderFormFailure(c, "failed_to_create_invoice", err, page, input)
		return
	}

	c.Redirect(StatusSeeOther, model.InvoicesPath)
}

// EditInvoicePage renders the edit form prefilled with the stored invoice
func (h *PageHandler) EditInvoicePage(c *gin.Context) {
	invoiceID, err := getPathParam(c, "id")
	if err != nil {
		renderNotFound(c, "Could not find the requested invoice.")
		return
	}

	page, err := h.pageService.EditInvoicePage(c.Request.Context(), invoiceID)
	if err != nil {
		if errors.Is(err, domain.ErrInvoiceNotFound) {
			renderNotFound(c, "Could not find the requested invoice.")
			return
		}
		logError(c, "failed_to_load_edit_form", err, map[string]interface{}{
			"invoice_id": invoiceID,
		})
		renderError(c, model.EditInvoicePath(invoiceID))
		return
	}

	renderHTML(c, StatusOK, tmplInvoiceForm, page)
}

// UpdateInvoice handles the edit form submission
func (h *PageHandler) UpdateInvoice(c *gin.Context) {
	invoiceID, err := getPathParam(c, "id")
	if err != nil {
		renderNotFound(c, "Could not find the requested invoice.")
		return
	}

	var input model.InvoiceFormInput
	if err := c.ShouldBind(&input); err != nil {
		respondBadRequest(c, ErrInvalidInput)
		return
	}

	if _, err := h.invoiceService.UpdateInvoice(c.Request.Context(), invoiceID, input); err != nil {
		page, pageErr := h.pageService.EditInvoicePage(c.Request.Context(), invoiceID)
		if pageErr != nil {
			if errors.Is(pageErr, domain.ErrInvoiceNotFound) {
				// The row is gone; show the failure on a bare form keyed to the submitted id.
				page, pageErr = h.pageService.CreateInvoicePage(c.Request.Context())
			}
			if pageErr != nil {
				logError(c, "failed_to_load_edit_form", pageErr, map[string]interface{}{
					"invoice_id": invoiceID,
				})
				renderError(c, model.EditInvoicePath(invoiceID))
				return
			}
			page.Title = "Update Invoice"
			page.Breadcrumbs = model.EditInvoiceBreadcrumbs(invoiceID)
			page.Invoice = &domain.Invoice{ID: invoiceID}
			page.Action = model.EditInvoicePath(invoiceID)
		}
		h.renderFormFailure(c, "failed_to_update_invoice", err, page, input)
		return
	}

	c.Redirect(StatusSeeOther, model.InvoicesPath)
}

// DeleteInvoice handles the delete button of an invoice row
func (h *PageHandler) DeleteInvoice(c *gin.Context) {
	invoiceID, err := getPathParam(c, "id")
	if err != nil {
		renderNotFound(c, "Could not find the requested invoice.")
		return
	}

	if err := h.invoiceService.DeleteInvoice(c.Request.Context(), invoiceID); err != nil {
		state := service.ActionStateFromError(err)
		logError(c, "failed_to_delete_invoice", err, map[string]interface{}{
			"invoice_id": invoiceID,
		})
		renderHTML(c, StatusInternalServerError, tmplError, gin.H{
			"Title":    "Error",
			"Message":  state.Message,
			"RetryURL": model.InvoicesPath,
		})
		return
	}

	c.Redirect(StatusSeeOther, model.InvoicesPath)
}

// renderFormFailure re-renders the invoice form with the submitted values and the action state
func (h *PageHandler) renderFormFailure(c *gin.Context, event string, err error, page *model.InvoiceFormPage, input model.InvoiceFormInput) {
	status := StatusInternalServerError
	var serviceErr *service.InvoiceServiceError
	if errors.As(err, &serviceErr) && serviceErr.IsValidation() {
		status = StatusUnprocessableEntity
	}
	if status == StatusInternalServerError {
		logError(c, event, err, nil)
	}

	page.Input = input
	page.State = service.ActionStateFromError(err)
	renderHTML(c, status, tmplInvoiceForm, page)
}

// NotFound renders the 404 page for unknown dashboard routes
func (h *PageHandler) NotFound(c *gin.Context) {
	renderNotFound(c, "Could not find the requested page.")
}

// RegisterRoutes registers the dashboard page routes behind the session guard
func (h *PageHandler) RegisterRoutes(router *gin.Engine, sessionMiddleware gin.HandlerFunc) {
	dashboard := router.Group(model.DashboardPath, sessionMiddleware)
	{
		dashboard.GET("", h.Dashboard)
		dashboard.GET("/invoices", h.ListInvoices)
		dashboard.GET("/invoices/create", h.CreateInvoicePage)
		dashboard.POST("/invoices/create", h.CreateInvoice)
		dashboard.GET("/invoices/:id/edit", h.EditInvoicePage)
		dashboard.POST("/invoices/:id/edit", h.UpdateInvoice)
		dashboard.POST("/invoices/:id/delete", h.DeleteInvoice)
	}

	router.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusFound, model.DashboardPath)
	})
}
