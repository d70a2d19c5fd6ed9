package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/ridwanfathin/invoice-dashboard/internal/domain"
	"github.com/ridwanfathin/invoice-dashboard/internal/metrics"
	"github.com/ridwanfathin/invoice-dashboard/internal/model"
	"github.com/ridwanfathin/invoice-dashboard/internal/repository"
	"github.com/ridwanfathin/invoice-dashboard/internal/revalidate"
)

// LatestInvoicesLimit is the number of invoices shown on the dashboard overview
const LatestInvoicesLimit = 5

// PageService assembles the data behind the server-rendered pages
type PageService interface {
	CreateInvoicePage(ctx context.Context) (*model.InvoiceFormPage, error)
	EditInvoicePage(ctx context.Context, invoiceID string) (*model.InvoiceFormPage, error)
	InvoiceListPage(ctx context.Context, query string, page int) (*model.InvoiceListPage, error)
	DashboardPage(ctx context.Context) (*model.DashboardPage, error)
}

// PageServiceImpl implements the PageService interface
type PageServiceImpl struct {
	invoices InvoiceService
	cache    revalidate.RouteCache
}

// NewPageService creates a new PageService
func NewPageService(invoices InvoiceService, cache revalidate.RouteCache) PageService {
	return &PageServiceImpl{
		invoices: invoices,
		cache:    cache,
	}
}

// CreateInvoicePage fetches customers and categories for the empty create form
func (s *PageServiceImpl) CreateInvoicePage(ctx context.Context) (*model.InvoiceFormPage, error) {
	var customers []domain.Customer
	var categories []domain.Category

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		customers, err = s.invoices.ListCustomers(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		categories, err = s.invoices.ListCategories(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &model.InvoiceFormPage{
		Title: "Create Invoice",
		Breadcrumbs: []model.Breadcrumb{
			{Label: "Invoices", Href: model.InvoicesPath},
			{Label: "Create Invoice", Href: model.CreateInvoicePath, Active: true},
		},
		Customers:  customers,
		Categories: categories,
		Statuses:   domain.InvoiceStatuses,
		Input:      model.InvoiceFormInput{},
		Action:     model.CreateInvoicePath,
	}, nil
}

// EditInvoicePage fetches the invoice together with customers and categories.
// A missing invoice yields domain.ErrInvoiceNotFound.
func (s *PageServiceImpl) EditInvoicePage(ctx context.Context, invoiceID string) (*model.InvoiceFormPage, error) {
	var invoice *domain.Invoice
	var customers []domain.Customer
	var categories []domain.Category

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		invoice, err = s.invoices.GetInvoice(gctx, invoiceID)
		return err
	})
	g.Go(func() error {
		var err error
		customers, err = s.invoices.ListCustomers(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		categories, err = s.invoices.ListCategories(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &model.InvoiceFormPage{
		Title:       "Update Invoice",
		Breadcrumbs: model.EditInvoiceBreadcrumbs(invoice.ID),
		Invoice:     invoice,
		Customers:   customers,
		Categories:  categories,
		Statuses:    domain.InvoiceStatuses,
		Input: model.InvoiceFormInput{
			CustomerID:   invoice.CustomerID,
			Amount:       model.FormAmount(strconv.FormatFloat(invoice.AmountInDollars(), 'f', 2, 64)),
			Status:       string(invoice.Status),
			CategoryName: invoice.CategoryName,
		},
		Action: model.EditInvoicePath(invoice.ID),
	}, nil
}

// InvoiceListPage returns one page of the searchable invoice list, served from the route cache when possible
func (s *PageServiceImpl) InvoiceListPage(ctx context.Context, query string, page int) (*model.InvoiceListPage, error) {
	if page <= 0 {
		page = 1
	}
	cacheQuery := url.Values{
		"query": {query},
		"page":  {strconv.Itoa(page)},
	}.Encode()

	if cached, ok := s.cachedListPage(ctx, cacheQuery); ok {
		return cached, nil
	}
	generation, cacheable := s.listGeneration(ctx)

	result, err := s.invoices.ListInvoices(ctx, domain.InvoiceFilter{
		Query: query,
		Page:  page,
		Limit: repository.DefaultPageSize,
	})
	if err != nil {
		return nil, err
	}

	listPage := &model.InvoiceListPage{
		Title:      "Invoices",
		Query:      query,
		Invoices:   result.Data,
		Pagination: result.Pagination,
	}
	if cacheable {
		s.storeListPage(ctx, cacheQuery, generation, listPage)
	}

	return listPage, nil
}

func (s *PageServiceImpl) cachedListPage(ctx context.Context, cacheQuery string) (*model.InvoiceListPage, bool) {
	if s.cache == nil {
		return nil, false
	}

	data, ok, err := s.cache.Get(ctx, model.InvoicesPath, cacheQuery)
	if err != nil {
		logrus.WithError(err).Warn("route cache read failed")
		return nil, false
	}
	metrics.RecordRouteCacheLookup(ok)
	if !ok {
		return nil, false
	}

	var page model.InvoiceListPage
	if err := json.Unmarshal(data, &page); err != nil {
		logrus.WithError(err).Warn("discarding unreadable route cache entry")
		return nil, false
	}
	return &page, true
}

// listGeneration must be read before the list query so a revalidation during the query discards its result
func (s *PageServiceImpl) listGeneration(ctx context.Context) (int64, bool) {
	if s.cache == nil {
		return 0, false
	}

	generation, err := s.cache.Generation(ctx, model.InvoicesPath)
	if err != nil {
		logrus.WithError(err).Warn("route cache generation read failed")
		return 0, false
	}
	return generation, true
}

func (s *PageServiceImpl) storeListPage(ctx context.Context, cacheQuery string, generation int64, page *model.InvoiceListPage) {
	if s.cache == nil {
		return
	}

	data, err := json.Marshal(page)
	if err != nil {
		logrus.WithError(err).Warn("failed to encode invoice list page")
		return
	}
	if err := s.cache.Set(ctx, model.InvoicesPath, cacheQuery, generation, data); err != nil {
		logrus.WithError(err).Warn("route cache write failed")
	}
}

// DashboardPage fetches the card figures and latest invoices concurrently
func (s *PageServiceImpl) DashboardPage(ctx context.Context) (*model.DashboardPage, error) {
	var summary *domain.DashboardSummary
	var latest []domain.InvoiceListItem

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		summary, err = s.invoices.GetDashboardSummary(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		latest, err = s.invoices.LatestInvoices(gctx, LatestInvoicesLimit)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to load dashboard: %w", err)
	}

	return &model.DashboardPage{
		Title:   "Dashboard",
		Summary: *summary,
		Latest:  latest,
	}, nil
}
