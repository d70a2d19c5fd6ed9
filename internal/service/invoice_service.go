package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/ridwanfathin/invoice-dashboard/internal/domain"
	"github.com/ridwanfathin/invoice-dashboard/internal/metrics"
	"github.com/ridwanfathin/invoice-dashboard/internal/model"
	"github.com/ridwanfathin/invoice-dashboard/internal/repository"
	"github.com/ridwanfathin/invoice-dashboard/internal/revalidate"
)

// Invoice action names, also used as metric labels
const (
	ActionCreate = "create"
	ActionUpdate = "update"
	ActionDelete = "delete"
)

// InvoiceServiceError represents an error in the invoice service.
// State holds what the submitting form shows for a failed action.
type InvoiceServiceError struct {
	Op    string
	Err   error
	State *model.ActionState
}

func (e *InvoiceServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	if e.State != nil && e.State.Message != "" {
		return fmt.Sprintf("%s: %s", e.Op, e.State.Message)
	}
	return e.Op
}

func (e *InvoiceServiceError) Unwrap() error {
	return e.Err
}

// IsValidation reports whether the failure was caused by the submitted fields rather than the database
func (e *InvoiceServiceError) IsValidation() bool {
	return e.State.HasFieldErrors()
}

// ActionStateFromError extracts the form state carried by an action error
func ActionStateFromError(err error) *model.ActionState {
	var serviceErr *InvoiceServiceError
	if errors.As(err, &serviceErr) && serviceErr.State != nil {
		return serviceErr.State
	}
	return &model.ActionState{Message: "Something went wrong."}
}

// InvoiceService defines the interface for invoice-related business logic
type InvoiceService interface {
	// Form actions
	CreateInvoice(ctx context.Context, input model.InvoiceFormInput) (*domain.Invoice, error)
	UpdateInvoice(ctx context.Context, invoiceID string, input model.InvoiceFormInput) (*domain.Invoice, error)
	DeleteInvoice(ctx context.Context, invoiceID string) error

	// Query operations
	GetInvoice(ctx context.Context, invoiceID string) (*domain.Invoice, error)
	ListInvoices(ctx context.Context, filter domain.InvoiceFilter) (*domain.PaginatedInvoices, error)
	LatestInvoices(ctx context.Context, limit int) ([]domain.InvoiceListItem, error)
	ListCustomers(ctx context.Context) ([]domain.Customer, error)
	ListCategories(ctx context.Context) ([]domain.Category, error)

	// Dashboard and insights operations
	GetDashboardSummary(ctx context.Context) (*domain.DashboardSummary, error)
	GetTotalsByCategory(ctx context.Context) ([]domain.CategoryTotal, error)
}

// InvoiceServiceImpl implements the InvoiceService interface
type InvoiceServiceImpl struct {
	invoices   repository.InvoiceRepository
	customers  repository.CustomerRepository
	categories repository.CategoryRepository
	cache      revalidate.RouteCache
	validator  *InvoiceFormValidator
}

// NewInvoiceService creates a new InvoiceService
func NewInvoiceService(
	invoices repository.InvoiceRepository,
	customers repository.CustomerRepository,
	categories repository.CategoryRepository,
	cache revalidate.RouteCache,
) InvoiceService {
	return &InvoiceServiceImpl{
		invoices:   invoices,
		customers:  customers,
		categories: categories,
		cache:      cache,
		validator:  NewInvoiceFormValidator(),
	}
}

// CreateInvoice validates the submitted form and stores a new invoice dated today
func (s *InvoiceServiceImpl) CreateInvoice(ctx context.Context, input model.InvoiceFormInput) (*domain.Invoice, error) {
	form, fieldErrors := s.validator.Validate(input)
	if fieldErrors != nil {
		return nil, s.fail(ActionCreate, metrics.OutcomeInvalid, nil, &model.ActionState{
			Errors:  fieldErrors,
			Message: "Missing Fields. Failed to Create Invoice.",
		})
	}

	categoryID, err := s.resolveCategory(ctx, ActionCreate, form.CategoryName)
	if err != nil {
		return nil, err
	}

	invoice := &domain.Invoice{
		CustomerID:   form.CustomerID,
		Amount:       domain.ToCents(form.Amount),
		Status:       form.status(),
		Date:         domain.Today(),
		CategoryID:   categoryID,
		CategoryName: form.CategoryName,
	}

	if err := s.invoices.CreateInvoice(ctx, invoice); err != nil {
		return nil, s.fail(ActionCreate, metrics.OutcomeDBError, err, &model.ActionState{
			Message: "Database Error: Failed to Create Invoice.",
		})
	}

	s.revalidateInvoices(ctx)
	metrics.RecordInvoiceAction(ActionCreate, metrics.OutcomeSuccess)
	return invoice, nil
}

// UpdateInvoice validates the submitted form and updates an existing invoice, keeping its date
func (s *InvoiceServiceImpl) UpdateInvoice(ctx context.Context, invoiceID string, input model.InvoiceFormInput) (*domain.Invoice, error) {
	form, fieldErrors := s.validator.Validate(input)
	if fieldErrors != nil {
		return nil, s.fail(ActionUpdate, metrics.OutcomeInvalid, nil, &model.ActionState{
			Errors:  fieldErrors,
			Message: "Missing Fields. Failed to Update Invoice.",
		})
	}

	categoryID, err := s.resolveCategory(ctx, ActionUpdate, form.CategoryName)
	if err != nil {
		return nil, err
	}

	invoice := &domain.Invoice{
		ID:           invoiceID,
		CustomerID:   form.CustomerID,
		Amount:       domain.ToCents(form.Amount),
		Status:       form.status(),
		CategoryID:   categoryID,
		CategoryName: form.CategoryName,
	}

	if err := s.invoices.UpdateInvoice(ctx, invoice); err != nil {
		return nil, s.fail(ActionUpdate, metrics.OutcomeDBError, err, &model.ActionState{
			Message: "Database Error: Failed to Update Invoice.",
		})
	}

	s.revalidateInvoices(ctx)
	metrics.RecordInvoiceAction(ActionUpdate, metrics.OutcomeSuccess)
	return invoice, nil
}

// DeleteInvoice removes an invoice
func (s *InvoiceServiceImpl) DeleteInvoice(ctx context.Context, invoiceID string) error {
	if err := s.invoices.DeleteInvoice(ctx, invoiceID); err != nil {
		return s.fail(ActionDelete, metrics.OutcomeDBError, err, &model.ActionState{
			Message: "Database Error: Failed to Delete Invoice.",
		})
	}

	s.revalidateInvoices(ctx)
	metrics.RecordInvoiceAction(ActionDelete, metrics.OutcomeSuccess)
	return nil
}

// resolveCategory maps a category name to its id
func (s *InvoiceServiceImpl) resolveCategory(ctx context.Context, action, name string) (string, error) {
	categoryID, err := s.categories.GetCategoryIDByName(ctx, name)
	if err == nil {
		return categoryID, nil
	}

	verb := actionVerb(action)
	if errors.Is(err, domain.ErrCategoryNotFound) {
		return "", s.fail(action, metrics.OutcomeBadCategory, err, &model.ActionState{
			Errors:  map[string][]string{model.FieldCategoryName: {"Please select a valid category."}},
			Message: fmt.Sprintf("Invalid Category. Failed to %s Invoice.", verb),
		})
	}
	return "", s.fail(action, metrics.OutcomeDBError, err, &model.ActionState{
		Message: fmt.Sprintf("Database Error: Failed to %s Invoice.", verb),
	})
}

// revalidateInvoices drops the cached invoice list; the write already succeeded so failures are only logged
func (s *InvoiceServiceImpl) revalidateInvoices(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Revalidate(ctx, model.InvoicesPath); err != nil {
		logrus.WithError(err).WithField("path", model.InvoicesPath).Warn("route cache revalidation failed")
	}
}

func (s *InvoiceServiceImpl) fail(action, outcome string, err error, state *model.ActionState) error {
	metrics.RecordInvoiceAction(action, outcome)
	return &InvoiceServiceError{
		Op:    action + "_invoice",
		Err:   err,
		State: state,
	}
}

func actionVerb(action string) string {
	switch action {
	case ActionCreate:
		return "Create"
	case ActionUpdate:
		return "Update"
	default:
		return "Delete"
	}
}

// GetInvoice retrieves a single invoice
func (s *InvoiceServiceImpl) GetInvoice(ctx context.Context, invoiceID string) (*domain.Invoice, error) {
	invoice, err := s.invoices.GetInvoiceByID(ctx, invoiceID)
	if err != nil {
		return nil, &InvoiceServiceError{
			Op:  "get_invoice",
			Err: err,
		}
	}
	return invoice, nil
}

// ListInvoices retrieves one page of invoices matching the filter
func (s *InvoiceServiceImpl) ListInvoices(ctx context.Context, filter domain.InvoiceFilter) (*domain.PaginatedInvoices, error) {
	result, err := s.invoices.ListInvoices(ctx, filter)
	if err != nil {
		return nil, &InvoiceServiceError{
			Op:  "list_invoices",
			Err: err,
		}
	}
	return result, nil
}

// LatestInvoices retrieves the most recent invoices
func (s *InvoiceServiceImpl) LatestInvoices(ctx context.Context, limit int) ([]domain.InvoiceListItem, error) {
	items, err := s.invoices.LatestInvoices(ctx, limit)
	if err != nil {
		return nil, &InvoiceServiceError{
			Op:  "latest_invoices",
			Err: err,
		}
	}
	return items, nil
}

// ListCustomers retrieves every customer for the form select
func (s *InvoiceServiceImpl) ListCustomers(ctx context.Context) ([]domain.Customer, error) {
	customers, err := s.customers.ListCustomers(ctx)
	if err != nil {
		return nil, &InvoiceServiceError{
			Op:  "list_customers",
			Err: err,
		}
	}
	return customers, nil
}

// ListCategories retrieves every category for the form select
func (s *InvoiceServiceImpl) ListCategories(ctx context.Context) ([]domain.Category, error) {
	categories, err := s.categories.ListCategories(ctx)
	if err != nil {
		return nil, &InvoiceServiceError{
			Op:  "list_categories",
			Err: err,
		}
	}
	return categories, nil
}

// GetDashboardSummary retrieves the dashboard card figures
func (s *InvoiceServiceImpl) GetDashboardSummary(ctx context.Context) (*domain.DashboardSummary, error) {
	summary, err := s.invoices.GetDashboardSummary(ctx)
	if err != nil {
		return nil, &InvoiceServiceError{
			Op:  "get_dashboard_summary",
			Err: err,
		}
	}
	return summary, nil
}

// GetTotalsByCategory retrieves invoice totals per category
func (s *InvoiceServiceImpl) GetTotalsByCategory(ctx context.Context) ([]domain.CategoryTotal, error) {
	totals, err := s.invoices.GetTotalsByCategory(ctx)
	if err != nil {
		return nil, &InvoiceServiceError{
			Op:  "get_totals_by_category",
			Err: err,
		}
	}
	return totals, nil
}
