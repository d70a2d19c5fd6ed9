package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/ridwanfathin/invoice-dashboard/internal/model"
	"github.com/ridwanfathin/invoice-dashboard/internal/service"
)

// AnalyticsHandler handles the dashboard figures and insights endpoints
type AnalyticsHandler struct {
	pageService    service.PageService
	invoiceService service.InvoiceService
}

// NewAnalyticsHandler creates a new analytics handler
func NewAnalyticsHandler(pageService service.PageService, invoiceService service.InvoiceService) *AnalyticsHandler {
	return &AnalyticsHandler{
		pageService:    pageService,
		invoiceService: invoiceService,
	}
}

// GetDashboardSummary handles GET /v1/dashboard/summary endpoint
// @Summary Get dashboard summary
// @Description Invoice and customer counts, collected and pending totals, and the latest invoices
// @Tags analytics
// @Produce json
// @Success 200 {object} model.DashboardSummaryResponse "Dashboard summary"
// @Failure 401 {object} model.ErrorResponse "Unauthorized"
// @Failure 500 {object} model.ErrorResponse "Internal server error"
// @Security BearerAuth
// @Router /v1/dashboard/summary [get]
func (h *AnalyticsHandler) GetDashboardSummary(c *gin.Context) {
	page, err := h.pageService.DashboardPage(c.Request.Context())
	if err != nil {
		logError(c, "failed_to_get_dashboard_summary", err, nil)
		respondInternalServerError(c, ErrInternalServer)
		return
	}

	respondOK(c, model.DashboardSummaryResponse{
		InvoiceCount:  page.Summary.InvoiceCount,
		CustomerCount: page.Summary.CustomerCount,
		TotalPaid:     model.FormatCurrency(page.Summary.TotalPaid),
		TotalPending:  model.FormatCurrency(page.Summary.TotalPending),
		Latest:        model.NewInvoiceListItemResponses(page.Latest),
	})
}

// GetTotalsByCategory handles GET /v1/insights/by-category endpoint
// @Summary Get totals by category
// @Description Invoice count and summed amount per category, largest first
// @Tags analytics
// @Produce json
// @Success 200 {array} model.CategoryTotalResponse "Totals by category"
// @Failure 401 {object} model.ErrorResponse "Unauthorized"
// @Failure 500 {object} model.ErrorResponse "Internal server error"
// @Security BearerAuth
// @Router /v1/insights/by-category [get]
func (h *AnalyticsHandler) GetTotalsByCategory(c *gin.Context) {
	totals, err := h.invoiceService.GetTotalsByCategory(c.Request.Context())
	if err != nil {
		logError(c, "failed_to_get_category_totals", err, nil)
		respondInternalServerError(c, ErrInternalServer)
		return
	}

	response := make([]model.CategoryTotalResponse, len(totals))
	for i, total := range totals {
		response[i] = model.CategoryTotalResponse{
			Category:     total.Category,
			InvoiceCount: total.InvoiceCount,
			Amount:       model.FormatCurrency(total.Amount),
		}
	}

	respondOK(c, response)
}

// RegisterRoutes registers the analytics API routes
func (h *AnalyticsHandler) RegisterRoutes(router *gin.Engine, authMiddleware gin.HandlerFunc) {
	v1 := router.Group("/v1", authMiddleware)
	{
		v1.GET("/dashboard/summary", h.GetDashboardSummary)
		v1.GET("/insights/by-category", h.GetTotalsByCategory)
	}
}
