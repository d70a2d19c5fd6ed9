package model

import (
	"github.com/ridwanfathin/invoice-dashboard/internal/domain"
)

// Dashboard routes
const (
	DashboardPath     = "/dashboard"
	InvoicesPath      = "/dashboard/invoices"
	CreateInvoicePath = "/dashboard/invoices/create"
	LoginPath         = "/login"
)

// EditInvoicePath returns the edit page path for an invoice
func EditInvoicePath(id string) string {
	return InvoicesPath + "/" + id + "/edit"
}

// Breadcrumb is one entry of the page trail
type Breadcrumb struct {
	Label  string
	Href   string
	Active bool
}

// EditInvoiceBreadcrumbs is the trail shown above the edit form of an invoice
func EditInvoiceBreadcrumbs(id string) []Breadcrumb {
	return []Breadcrumb{
		{Label: "Invoices", Href: InvoicesPath},
		{Label: "Edit Invoice", Href: EditInvoicePath(id), Active: true},
	}
}

// InvoiceFormPage is the data handed to the create and edit form templates
type InvoiceFormPage struct {
	Title       string
	Breadcrumbs []Breadcrumb
	Invoice     *domain.Invoice
	Customers   []domain.Customer
	Categories  []domain.Category
	Statuses    []domain.InvoiceStatus
	Input       InvoiceFormInput
	State       *ActionState
	Action      string
}

// InvoiceListPage is the data behind the invoice list view
type InvoiceListPage struct {
	Title      string
	Query      string
	Invoices   []domain.InvoiceListItem
	Pagination domain.Pagination
}

// DashboardPage is the data behind the dashboard overview
type DashboardPage struct {
	Title   string
	Summary domain.DashboardSummary
	Latest  []domain.InvoiceListItem
}

// LoginPage is the data handed to the login template
type LoginPage struct {
	Title        string
	Email        string
	CallbackURL  string
	ErrorMessage string
}
