package handler

import (
	"context"

	"github.com/ridwanfathin/invoice-dashboard/internal/domain"
	"github.com/ridwanfathin/invoice-dashboard/internal/model"
	"github.com/ridwanfathin/invoice-dashboard/internal/service"
)

const testInvoiceID = "cc27c14a-0acf-4f4a-a6c9-d45682c144b9"

// fakeInvoiceService returns canned results and records the last submitted form
type fakeInvoiceService struct {
	actionErr error
	readErr   error
	lastInput model.InvoiceFormInput
	lastID    string
	deleted   []string
}

func (f *fakeInvoiceService) CreateInvoice(_ context.Context, input model.InvoiceFormInput) (*domain.Invoice, error) {
	f.lastInput = input
	if f.actionErr != nil {
		return nil, f.actionErr
	}
	return &domain.Invoice{ID: testInvoiceID, CustomerID: input.CustomerID, Amount: 5000, Status: domain.StatusPending, Date: domain.Today()}, nil
}

func (f *fakeInvoiceService) UpdateInvoice(_ context.Context, invoiceID string, input model.InvoiceFormInput) (*domain.Invoice, error) {
	f.lastID = invoiceID
	f.lastInput = input
	if f.actionErr != nil {
		return nil, f.actionErr
	}
	return &domain.Invoice{ID: invoiceID, CustomerID: input.CustomerID, Amount: 1999, Status: domain.StatusPaid}, nil
}

func (f *fakeInvoiceService) DeleteInvoice(_ context.Context, invoiceID string) error {
	if f.actionErr != nil {
		return f.actionErr
	}
	f.deleted = append(f.deleted, invoiceID)
	return nil
}

func (f *fakeInvoiceService) GetInvoice(_ context.Context, invoiceID string) (*domain.Invoice, error) {
	if f.readErr != nil {
		return nil, f.readErr
	}
	return &domain.Invoice{ID: invoiceID, Amount: 15795, Status: domain.StatusPending}, nil
}

func (f *fakeInvoiceService) ListInvoices(_ context.Context, filter domain.InvoiceFilter) (*domain.PaginatedInvoices, error) {
	if f.readErr != nil {
		return nil, f.readErr
	}
	return &domain.PaginatedInvoices{
		Data:       []domain.InvoiceListItem{{ID: testInvoiceID, Amount: 15795, Status: domain.StatusPaid, CustomerName: "Lee Robinson"}},
		Pagination: domain.Pagination{TotalItems: 1, TotalPages: 1, CurrentPage: filter.Page, Limit: filter.Limit},
	}, nil
}

func (f *fakeInvoiceService) LatestInvoices(context.Context, int) ([]domain.InvoiceListItem, error) {
	return nil, f.readErr
}

func (f *fakeInvoiceService) ListCustomers(context.Context) ([]domain.Customer, error) {
	if f.readErr != nil {
		return nil, f.readErr
	}
	return []domain.Customer{{ID: "c1", Name: "Delba de Oliveira"}}, nil
}

func (f *fakeInvoiceService) ListCategories(context.Context) ([]domain.Category, error) {
	if f.readErr != nil {
		return nil, f.readErr
	}
	return []domain.Category{{ID: "k1", Name: "Hardware"}}, nil
}

func (f *fakeInvoiceService) GetDashboardSummary(context.Context) (*domain.DashboardSummary, error) {
	return &domain.DashboardSummary{}, f.readErr
}

func (f *fakeInvoiceService) GetTotalsByCategory(context.Context) ([]domain.CategoryTotal, error) {
	if f.readErr != nil {
		return nil, f.readErr
	}
	return []domain.CategoryTotal{{Category: "Hardware", InvoiceCount: 2, Amount: 9000}}, nil
}

// fakePageService assembles pages without touching a repository
type fakePageService struct {
	err     error
	editErr error
}

func (f *fakePageService) CreateInvoicePage(context.Context) (*model.InvoiceFormPage, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &model.InvoiceFormPage{
		Title: "Create Invoice",
		Breadcrumbs: []model.Breadcrumb{
			{Label: "Invoices", Href: model.InvoicesPath},
			{Label: "Create Invoice", Href: model.CreateInvoicePath, Active: true},
		},
		Customers:  []domain.Customer{{ID: "c1", Name: "Delba de Oliveira"}},
		Categories: []domain.Category{{ID: "k1", Name: "Hardware"}},
		Statuses:   domain.InvoiceStatuses,
		Action:     model.CreateInvoicePath,
	}, nil
}

func (f *fakePageService) EditInvoicePage(_ context.Context, invoiceID string) (*model.InvoiceFormPage, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.editErr != nil {
		return nil, f.editErr
	}
	page, _ := f.CreateInvoicePage(context.Background())
	page.Title = "Update Invoice"
	page.Invoice = &domain.Invoice{ID: invoiceID}
	page.Action = model.EditInvoicePath(invoiceID)
	page.Input = model.InvoiceFormInput{CustomerID: "c1", Amount: "157.95", Status: "pending", CategoryName: "Hardware"}
	return page, nil
}

func (f *fakePageService) InvoiceListPage(_ context.Context, query string, page int) (*model.InvoiceListPage, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &model.InvoiceListPage{
		Title: "Invoices",
		Query: query,
		Invoices: []domain.InvoiceListItem{
			{ID: testInvoiceID, Amount: 15795, Status: domain.StatusPaid, CustomerName: "Lee Robinson", Email: "lee@robinson.com"},
		},
		Pagination: domain.Pagination{TotalItems: 8, TotalPages: 2, CurrentPage: page, Limit: 6},
	}, nil
}

func (f *fakePageService) DashboardPage(context.Context) (*model.DashboardPage, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &model.DashboardPage{
		Title:   "Dashboard",
		Summary: domain.DashboardSummary{InvoiceCount: 3, CustomerCount: 2, TotalPaid: 12000, TotalPending: 500},
		Latest:  []domain.InvoiceListItem{{ID: testInvoiceID, Amount: 500, CustomerName: "Lee Robinson"}},
	}, nil
}

// fakeAuthService answers Authenticate with a fixed outcome
type fakeAuthService struct {
	session *service.Session
	message string
	err     error
	last    service.Credentials
}

func (f *fakeAuthService) SignIn(context.Context, string, service.Credentials) (*service.Session, error) {
	return f.session, f.err
}

func (f *fakeAuthService) Authenticate(_ context.Context, credentials service.Credentials) (*service.Session, string, error) {
	f.last = credentials
	return f.session, f.message, f.err
}

func (f *fakeAuthService) ValidateSessionToken(string) (*service.Claims, error) {
	return nil, service.ErrInvalidToken
}

func (f *fakeAuthService) Register(context.Context, string, string, string) (*domain.User, error) {
	return nil, nil
}
