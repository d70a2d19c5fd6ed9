package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ridwanfathin/invoice-dashboard/internal/domain"
)

const (
	testInvoiceID  = "2e1f6c1a-93a5-4c6b-9e73-1f1b2a2f0a01"
	testCustomerID = "3958dc9e-712f-4377-85e9-fec4b6a6442a"
	testCategoryID = "9a1d5a3c-5e0b-4c7c-8b1d-6b1c2f3e4d5a"
)

func newMockInvoiceRepository(t *testing.T) (*PostgresInvoiceRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return NewPostgresInvoiceRepository(mock), mock
}

func TestCreateInvoiceStoresCents(t *testing.T) {
	repo, mock := newMockInvoiceRepository(t)

	mock.ExpectQuery(`INSERT INTO invoices`).
		WithArgs(testCustomerID, int64(5000), "pending", pgxmock.AnyArg(), testCategoryID).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(testInvoiceID))

	invoice := &domain.Invoice{
		CustomerID: testCustomerID,
		Amount:     5000,
		Status:     domain.StatusPending,
		Date:       domain.Today(),
		CategoryID: testCategoryID,
	}
	require.NoError(t, repo.CreateInvoice(context.Background(), invoice))

	assert.Equal(t, testInvoiceID, invoice.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateInvoiceWrapsErrors(t *testing.T) {
	repo, mock := newMockInvoiceRepository(t)

	mock.ExpectQuery(`INSERT INTO invoices`).WillReturnError(errors.New("connection reset"))

	err := repo.CreateInvoice(context.Background(), &domain.Invoice{Status: domain.StatusPaid})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to insert invoice")
}

func TestUpdateInvoice(t *testing.T) {
	t.Run("updates existing row", func(t *testing.T) {
		repo, mock := newMockInvoiceRepository(t)
		date := time.Date(2023, 12, 6, 0, 0, 0, 0, time.UTC)
		mock.ExpectQuery(`UPDATE invoices`).
			WithArgs(testCustomerID, int64(1999), "paid", testCategoryID, testInvoiceID).
			WillReturnRows(pgxmock.NewRows([]string{"date"}).AddRow(date))

		invoice := &domain.Invoice{
			ID: testInvoiceID, CustomerID: testCustomerID, Amount: 1999,
			Status: domain.StatusPaid, CategoryID: testCategoryID,
		}
		require.NoError(t, repo.UpdateInvoice(context.Background(), invoice))
		assert.Equal(t, "2023-12-06", invoice.Date.String())
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing row is not found", func(t *testing.T) {
		repo, mock := newMockInvoiceRepository(t)
		mock.ExpectQuery(`UPDATE invoices`).
			WithArgs(testCustomerID, int64(500), "pending", testCategoryID, testInvoiceID).
			WillReturnRows(pgxmock.NewRows([]string{"date"}))

		err := repo.UpdateInvoice(context.Background(), &domain.Invoice{
			ID: testInvoiceID, CustomerID: testCustomerID, Amount: 500,
			Status: domain.StatusPending, CategoryID: testCategoryID,
		})
		assert.ErrorIs(t, err, domain.ErrInvoiceNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("malformed id never reaches the database", func(t *testing.T) {
		repo, mock := newMockInvoiceRepository(t)

		err := repo.UpdateInvoice(context.Background(), &domain.Invoice{ID: "42"})
		assert.ErrorIs(t, err, domain.ErrInvoiceNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestDeleteInvoice(t *testing.T) {
	repo, mock := newMockInvoiceRepository(t)
	mock.ExpectExec(`DELETE FROM invoices`).
		WithArgs(testInvoiceID).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	require.NoError(t, repo.DeleteInvoice(context.Background(), testInvoiceID))

	mock.ExpectExec(`DELETE FROM invoices`).
		WithArgs(testInvoiceID).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	assert.ErrorIs(t, repo.DeleteInvoice(context.Background(), testInvoiceID), domain.ErrInvoiceNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetInvoiceByID(t *testing.T) {
	date := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	t.Run("found", func(t *testing.T) {
		repo, mock := newMockInvoiceRepository(t)
		mock.ExpectQuery(`FROM invoices`).
			WithArgs(testInvoiceID).
			WillReturnRows(pgxmock.NewRows([]string{"id", "customer_id", "amount", "status", "date", "category_id", "name"}).
				AddRow(testInvoiceID, testCustomerID, int64(15795), "pending", date, testCategoryID, "Hardware"))

		invoice, err := repo.GetInvoiceByID(context.Background(), testInvoiceID)
		require.NoError(t, err)
		assert.Equal(t, int64(15795), invoice.Amount)
		assert.Equal(t, domain.StatusPending, invoice.Status)
		assert.Equal(t, "Hardware", invoice.CategoryName)
		assert.Equal(t, "2024-06-01", invoice.Date.String())
	})

	t.Run("no rows", func(t *testing.T) {
		repo, mock := newMockInvoiceRepository(t)
		mock.ExpectQuery(`FROM invoices`).WithArgs(testInvoiceID).WillReturnError(pgx.ErrNoRows)

		_, err := repo.GetInvoiceByID(context.Background(), testInvoiceID)
		assert.ErrorIs(t, err, domain.ErrInvoiceNotFound)
	})

	t.Run("malformed id", func(t *testing.T) {
		repo, _ := newMockInvoiceRepository(t)
		_, err := repo.GetInvoiceByID(context.Background(), "not-a-uuid")
		assert.ErrorIs(t, err, domain.ErrInvoiceNotFound)
	})
}

func TestListInvoicesPaginates(t *testing.T) {
	repo, mock := newMockInvoiceRepository(t)
	date := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT COUNT\(\*\)`).
		WithArgs("%lee%").
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(7))
	mock.ExpectQuery(`ORDER BY invoices.date DESC`).
		WithArgs("%lee%", DefaultPageSize, DefaultPageSize).
		WillReturnRows(pgxmock.NewRows([]string{"id", "amount", "status", "date", "name", "email", "image_url", "category"}).
			AddRow(testInvoiceID, int64(500), "paid", date, "Lee Robinson", "lee@robinson.com", "/customers/lee.png", "Software"))

	page, err := repo.ListInvoices(context.Background(), domain.InvoiceFilter{Query: "lee", Page: 2})
	require.NoError(t, err)

	assert.Equal(t, 7, page.Pagination.TotalItems)
	assert.Equal(t, 2, page.Pagination.TotalPages)
	assert.Equal(t, 2, page.Pagination.CurrentPage)
	require.Len(t, page.Data, 1)
	assert.Equal(t, "Lee Robinson", page.Data[0].CustomerName)
	assert.Equal(t, domain.StatusPaid, page.Data[0].Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListInvoicesEmpty(t *testing.T) {
	repo, mock := newMockInvoiceRepository(t)
	mock.ExpectQuery(`SELECT COUNT\(\*\)`).
		WithArgs("%%").
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(0))

	page, err := repo.ListInvoices(context.Background(), domain.InvoiceFilter{})
	require.NoError(t, err)
	assert.Empty(t, page.Data)
	assert.Equal(t, 0, page.Pagination.TotalPages)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetDashboardSummary(t *testing.T) {
	repo, mock := newMockInvoiceRepository(t)
	mock.ExpectQuery(`FROM invoices`).
		WillReturnRows(pgxmock.NewRows([]string{"count", "paid", "pending"}).AddRow(4, int64(12000), int64(3000)))
	mock.ExpectQuery(`FROM customers`).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(2))

	summary, err := repo.GetDashboardSummary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, &domain.DashboardSummary{InvoiceCount: 4, CustomerCount: 2, TotalPaid: 12000, TotalPending: 3000}, summary)
}

func TestGetTotalsByCategory(t *testing.T) {
	repo, mock := newMockInvoiceRepository(t)
	mock.ExpectQuery(`GROUP BY categories.name`).
		WillReturnRows(pgxmock.NewRows([]string{"name", "count", "sum"}).
			AddRow("Hardware", 2, int64(9000)).
			AddRow("Uncategorized", 1, int64(100)))

	totals, err := repo.GetTotalsByCategory(context.Background())
	require.NoError(t, err)
	require.Len(t, totals, 2)
	assert.Equal(t, domain.CategoryTotal{Category: "Hardware", InvoiceCount: 2, Amount: 9000}, totals[0])
}
