package handler

import (
	"embed"
	"html/template"
	"net/url"
	"strconv"

	"github.com/ridwanfathin/invoice-dashboard/internal/domain"
	"github.com/ridwanfathin/invoice-dashboard/internal/model"
)

//go:embed templates/*.html
var templateFS embed.FS

// Page template names
const (
	tmplLogin       = "login.html"
	tmplDashboard   = "dashboard.html"
	tmplInvoices    = "invoices.html"
	tmplInvoiceForm = "invoice_form.html"
	tmplNotFound    = "not_found.html"
	tmplError       = "error.html"
)

// templateFuncs are the helpers available to every page template
var templateFuncs = template.FuncMap{
	"currency":   model.FormatCurrency,
	"formatDate": formatDate,
	"editPath":   model.EditInvoicePath,
	"pageURL":    pageURL,
	"add":        func(a, b int) int { return a + b },
	"sub":        func(a, b int) int { return a - b },
}

// LoadTemplates parses the embedded page templates
func LoadTemplates() (*template.Template, error) {
	return template.New("").Funcs(templateFuncs).ParseFS(templateFS, "templates/*.html")
}

// formatDate renders a date the way the invoice table shows it
func formatDate(d domain.DateOnly) string {
	if d.IsZero() {
		return ""
	}
	return d.Format("Jan 2, 2006")
}

// pageURL builds the invoice list link for a search term and page
func pageURL(query string, page int) string {
	values := url.Values{"page": {strconv.Itoa(page)}}
	if query != "" {
		values.Set("query", query)
	}
	return model.InvoicesPath + "?" + values.Encode()
}
