package repository

import (
	"context"

	"github.com/ridwanfathin/invoice-dashboard/internal/domain"
)

// InvoiceRepository defines the interface for invoice data operations
type InvoiceRepository interface {
	// Invoice CRUD operations
	CreateInvoice(ctx context.Context, invoice *domain.Invoice) error
	GetInvoiceByID(ctx context.Context, invoiceID string) (*domain.Invoice, error)
	UpdateInvoice(ctx context.Context, invoice *domain.Invoice) error
	DeleteInvoice(ctx context.Context, invoiceID string) error

	// Invoice querying operations
	ListInvoices(ctx context.Context, filter domain.InvoiceFilter) (*domain.PaginatedInvoices, error)
	LatestInvoices(ctx context.Context, limit int) ([]domain.InvoiceListItem, error)

	// Dashboard and insights operations
	GetDashboardSummary(ctx context.Context) (*domain.DashboardSummary, error)
	GetTotalsByCategory(ctx context.Context) ([]domain.CategoryTotal, error)
}

// CustomerRepository defines read access to customers
type CustomerRepository interface {
	ListCustomers(ctx context.Context) ([]domain.Customer, error)
}

// CategoryRepository defines read access to categories
type CategoryRepository interface {
	ListCategories(ctx context.Context) ([]domain.Category, error)
	GetCategoryIDByName(ctx context.Context, name string) (string, error)
}
