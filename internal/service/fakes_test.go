package service

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/ridwanfathin/invoice-dashboard/internal/domain"
	"github.com/ridwanfathin/invoice-dashboard/internal/revalidate"
)

var errDatabaseDown = errors.New("connection refused")

// fakeStore is an in-memory stand-in for the invoice, customer, category and user tables
type fakeStore struct {
	mu         sync.Mutex
	invoices   map[string]domain.Invoice
	customers  []domain.Customer
	categories map[string]string
	users      map[string]domain.User

	writes      int
	failWrites  bool
	failLookups bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		invoices: map[string]domain.Invoice{},
		customers: []domain.Customer{
			{ID: "3958dc9e-712f-4377-85e9-fec4b6a6442a", Name: "Delba de Oliveira", Email: "delba@oliveira.com"},
			{ID: "3958dc9e-742f-4377-85e9-fec4b6a6442a", Name: "Lee Robinson", Email: "lee@robinson.com"},
		},
		categories: map[string]string{
			"Consulting": "9a1d5a3c-5e0b-4c7c-8b1d-6b1c2f3e4d5a",
			"Hardware":   "9a1d5a3c-5e0b-4c7c-8b1d-6b1c2f3e4d5b",
		},
		users: map[string]domain.User{},
	}
}

func (f *fakeStore) CreateInvoice(_ context.Context, invoice *domain.Invoice) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWrites {
		return errDatabaseDown
	}
	f.writes++
	invoice.ID = uuid.NewString()
	f.invoices[invoice.ID] = *invoice
	return nil
}

func (f *fakeStore) GetInvoiceByID(_ context.Context, invoiceID string) (*domain.Invoice, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failLookups {
		return nil, errDatabaseDown
	}
	invoice, ok := f.invoices[invoiceID]
	if !ok {
		return nil, domain.ErrInvoiceNotFound
	}
	return &invoice, nil
}

func (f *fakeStore) UpdateInvoice(_ context.Context, invoice *domain.Invoice) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWrites {
		return errDatabaseDown
	}
	stored, ok := f.invoices[invoice.ID]
	if !ok {
		return domain.ErrInvoiceNotFound
	}
	f.writes++
	invoice.Date = stored.Date
	f.invoices[invoice.ID] = *invoice
	return nil
}

func (f *fakeStore) DeleteInvoice(_ context.Context, invoiceID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWrites {
		return errDatabaseDown
	}
	if _, ok := f.invoices[invoiceID]; !ok {
		return domain.ErrInvoiceNotFound
	}
	f.writes++
	delete(f.invoices, invoiceID)
	return nil
}

func (f *fakeStore) ListInvoices(_ context.Context, filter domain.InvoiceFilter) (*domain.PaginatedInvoices, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failLookups {
		return nil, errDatabaseDown
	}
	items := f.listItems()
	return &domain.PaginatedInvoices{
		Data: items,
		Pagination: domain.Pagination{
			TotalItems:  len(items),
			TotalPages:  1,
			CurrentPage: filter.Page,
			Limit:       filter.Limit,
		},
	}, nil
}

func (f *fakeStore) LatestInvoices(_ context.Context, limit int) ([]domain.InvoiceListItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	items := f.listItems()
	if len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

func (f *fakeStore) listItems() []domain.InvoiceListItem {
	items := []domain.InvoiceListItem{}
	for _, invoice := range f.invoices {
		items = append(items, domain.InvoiceListItem{
			ID:           invoice.ID,
			Amount:       invoice.Amount,
			Status:       invoice.Status,
			Date:         invoice.Date,
			CategoryName: invoice.CategoryName,
		})
	}
	return items
}

func (f *fakeStore) GetDashboardSummary(_ context.Context) (*domain.DashboardSummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failLookups {
		return nil, errDatabaseDown
	}
	summary := &domain.DashboardSummary{InvoiceCount: len(f.invoices), CustomerCount: len(f.customers)}
	for _, invoice := range f.invoices {
		if invoice.Status == domain.StatusPaid {
			summary.TotalPaid += invoice.Amount
		} else {
			summary.TotalPending += invoice.Amount
		}
	}
	return summary, nil
}

func (f *fakeStore) GetTotalsByCategory(_ context.Context) ([]domain.CategoryTotal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	totals := map[string]*domain.CategoryTotal{}
	result := []domain.CategoryTotal{}
	for _, invoice := range f.invoices {
		total, ok := totals[invoice.CategoryName]
		if !ok {
			total = &domain.CategoryTotal{Category: invoice.CategoryName}
			totals[invoice.CategoryName] = total
		}
		total.InvoiceCount++
		total.Amount += invoice.Amount
	}
	for _, total := range totals {
		result = append(result, *total)
	}
	return result, nil
}

func (f *fakeStore) ListCustomers(_ context.Context) ([]domain.Customer, error) {
	if f.failLookups {
		return nil, errDatabaseDown
	}
	return f.customers, nil
}

func (f *fakeStore) ListCategories(_ context.Context) ([]domain.Category, error) {
	if f.failLookups {
		return nil, errDatabaseDown
	}
	categories := []domain.Category{}
	for name, id := range f.categories {
		categories = append(categories, domain.Category{ID: id, Name: name})
	}
	return categories, nil
}

func (f *fakeStore) GetCategoryIDByName(_ context.Context, name string) (string, error) {
	if f.failLookups {
		return "", errDatabaseDown
	}
	id, ok := f.categories[name]
	if !ok {
		return "", domain.ErrCategoryNotFound
	}
	return id, nil
}

func (f *fakeStore) CreateUser(_ context.Context, user *domain.User) error {
	if f.failWrites {
		return errDatabaseDown
	}
	user.ID = uuid.NewString()
	f.users[user.Email] = *user
	return nil
}

func (f *fakeStore) GetUserByID(_ context.Context, userID string) (*domain.User, error) {
	for _, user := range f.users {
		if user.ID == userID {
			return &user, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (f *fakeStore) GetUserByEmail(_ context.Context, email string) (*domain.User, error) {
	if f.failLookups {
		return nil, errDatabaseDown
	}
	user, ok := f.users[email]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return &user, nil
}

// recordingCache wraps a memory cache and counts revalidations per path
type recordingCache struct {
	revalidate.RouteCache
	revalidated map[string]int
}

func newRecordingCache() *recordingCache {
	return &recordingCache{
		RouteCache:  revalidate.NewMemoryCache(16, 0),
		revalidated: map[string]int{},
	}
}

func (c *recordingCache) Revalidate(ctx context.Context, path string) error {
	c.revalidated[path]++
	return c.RouteCache.Revalidate(ctx, path)
}
