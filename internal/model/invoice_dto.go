package model

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/ridwanfathin/invoice-dashboard/internal/domain"
)

// Form field names shared by the HTML forms and the JSON API
const (
	FieldCustomerID   = "customerId"
	FieldAmount       = "amount"
	FieldStatus       = "status"
	FieldCategoryName = "categoryName"
)

// InvoiceFormInput carries the raw submitted invoice fields before validation
type InvoiceFormInput struct {
	CustomerID   string     `form:"customerId" json:"customerId"`
	Amount       FormAmount `form:"amount" json:"amount"`
	Status       string     `form:"status" json:"status"`
	CategoryName string     `form:"categoryName" json:"categoryName"`
}

// FormAmount is a submitted amount kept as raw text. JSON accepts either a number or a string.
type FormAmount string

// UnmarshalJSON keeps the literal text of a JSON number or string; other values decode as empty
func (a *FormAmount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var raw string
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
		*a = FormAmount(raw)
		return nil
	}

	var number json.Number
	if err := json.Unmarshal(data, &number); err != nil {
		*a = ""
		return nil
	}
	*a = FormAmount(number)
	return nil
}

// ActionState is returned by a failed invoice or auth action so the form can be re-rendered
type ActionState struct {
	Errors  map[string][]string `json:"errors,omitempty"`
	Message string              `json:"message,omitempty"`
}

// HasFieldErrors reports whether any field-level validation error is present
func (s *ActionState) HasFieldErrors() bool {
	return s != nil && len(s.Errors) > 0
}

// FieldError returns the first error for a field or an empty string
func (s *ActionState) FieldError(field string) string {
	if s == nil {
		return ""
	}
	if msgs := s.Errors[field]; len(msgs) > 0 {
		return msgs[0]
	}
	return ""
}

// InvoiceResponse represents the response for a single invoice
type InvoiceResponse struct {
	ID           string `json:"id"`
	CustomerID   string `json:"customerId"`
	Amount       int64  `json:"amount"`
	AmountString string `json:"amountFormatted"`
	Status       string `json:"status"`
	Date         string `json:"date"`
	CategoryID   string `json:"categoryId"`
	CategoryName string `json:"categoryName,omitempty"`
}

// InvoiceListItemResponse represents a joined invoice row in a list
type InvoiceListItemResponse struct {
	ID           string `json:"id"`
	CustomerName string `json:"name"`
	Email        string `json:"email"`
	ImageURL     string `json:"imageUrl,omitempty"`
	Amount       string `json:"amount"`
	Status       string `json:"status"`
	Date         string `json:"date"`
	CategoryName string `json:"categoryName"`
}

// InvoicesListResponse represents paginated list of invoices
type InvoicesListResponse struct {
	Data       []InvoiceListItemResponse `json:"data"`
	Pagination PaginationResponse        `json:"pagination"`
}

// PaginationResponse represents pagination metadata
type PaginationResponse struct {
	TotalItems  int `json:"totalItems"`
	TotalPages  int `json:"totalPages"`
	CurrentPage int `json:"currentPage"`
	Limit       int `json:"limit"`
}

// DashboardSummaryResponse represents the dashboard card figures
type DashboardSummaryResponse struct {
	InvoiceCount  int                       `json:"invoiceCount"`
	CustomerCount int                       `json:"customerCount"`
	TotalPaid     string                    `json:"totalPaid"`
	TotalPending  string                    `json:"totalPending"`
	Latest        []InvoiceListItemResponse `json:"latestInvoices"`
}

// CategoryTotalResponse represents invoice totals for one category
type CategoryTotalResponse struct {
	Category     string `json:"category"`
	InvoiceCount int    `json:"invoiceCount"`
	Amount       string `json:"amount"`
}

// FormatCurrency renders an amount in cents as a dollar string
func FormatCurrency(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s$%d.%02d", sign, cents/100, cents%100)
}

// NewInvoiceResponse converts a domain invoice into its response form
func NewInvoiceResponse(invoice *domain.Invoice) InvoiceResponse {
	return InvoiceResponse{
		ID:           invoice.ID,
		CustomerID:   invoice.CustomerID,
		Amount:       invoice.Amount,
		AmountString: FormatCurrency(invoice.Amount),
		Status:       string(invoice.Status),
		Date:         invoice.Date.String(),
		CategoryID:   invoice.CategoryID,
		CategoryName: invoice.CategoryName,
	}
}

// NewInvoiceListItemResponses converts joined invoice rows into their response form
func NewInvoiceListItemResponses(items []domain.InvoiceListItem) []InvoiceListItemResponse {
	formatted := make([]InvoiceListItemResponse, len(items))
	for i, item := range items {
		formatted[i] = InvoiceListItemResponse{
			ID:           item.ID,
			CustomerName: item.CustomerName,
			Email:        item.Email,
			ImageURL:     item.ImageURL,
			Amount:       FormatCurrency(item.Amount),
			Status:       string(item.Status),
			Date:         item.Date.String(),
			CategoryName: item.CategoryName,
		}
	}
	return formatted
}
