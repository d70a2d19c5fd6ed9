package repository

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/ridwanfathin/invoice-dashboard/internal/domain"
)

// DefaultPageSize is the number of invoices shown per list page
const DefaultPageSize = 6

// invoiceSearchCondition matches the search term against the joined invoice row
const invoiceSearchCondition = `
		customers.name ILIKE $1 OR
		customers.email ILIKE $1 OR
		invoices.amount::text ILIKE $1 OR
		invoices.date::text ILIKE $1 OR
		invoices.status ILIKE $1 OR
		COALESCE(categories.name, '') ILIKE $1`

// PostgresInvoiceRepository implements InvoiceRepository interface using PostgreSQL
type PostgresInvoiceRepository struct {
	db DBTX
}

// NewPostgresInvoiceRepository creates a new PostgreSQL invoice repository
func NewPostgresInvoiceRepository(db DBTX) *PostgresInvoiceRepository {
	return &PostgresInvoiceRepository{
		db: db,
	}
}

// CreateInvoice inserts a new invoice and fills in its generated ID
func (r *PostgresInvoiceRepository) CreateInvoice(ctx context.Context, invoice *domain.Invoice) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO invoices (customer_id, amount, status, date, category_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`, invoice.CustomerID, invoice.Amount, string(invoice.Status), invoice.Date.Time, invoice.CategoryID).Scan(&invoice.ID)
	if err != nil {
		return fmt.Errorf("failed to insert invoice: %w", err)
	}

	return nil
}

// GetInvoiceByID retrieves an invoice by its ID
func (r *PostgresInvoiceRepository) GetInvoiceByID(ctx context.Context, invoiceID string) (*domain.Invoice, error) {
	if !isUUID(invoiceID) {
		return nil, domain.ErrInvoiceNotFound
	}

	var invoice domain.Invoice
	var status string
	err := r.db.QueryRow(ctx, `
		SELECT invoices.id, invoices.customer_id, invoices.amount, invoices.status, invoices.date,
			COALESCE(invoices.category_id::text, ''), COALESCE(categories.name, '')
		FROM invoices
		LEFT JOIN categories ON invoices.category_id = categories.id
		WHERE invoices.id = $1
	`, invoiceID).Scan(
		&invoice.ID, &invoice.CustomerID, &invoice.Amount, &status, &invoice.Date.Time,
		&invoice.CategoryID, &invoice.CategoryName,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrInvoiceNotFound
		}
		return nil, fmt.Errorf("failed to get invoice: %w", err)
	}
	invoice.Status = domain.InvoiceStatus(status)

	return &invoice, nil
}

// UpdateInvoice updates customer, amount, status and category of an existing invoice.
// The invoice date is left untouched and read back into invoice.Date.
func (r *PostgresInvoiceRepository) UpdateInvoice(ctx context.Context, invoice *domain.Invoice) error {
	if !isUUID(invoice.ID) {
		return domain.ErrInvoiceNotFound
	}

	err := r.db.QueryRow(ctx, `
		UPDATE invoices
		SET customer_id = $1, amount = $2, status = $3, category_id = $4
		WHERE id = $5
		RETURNING date
	`, invoice.CustomerID, invoice.Amount, string(invoice.Status), invoice.CategoryID, invoice.ID).Scan(&invoice.Date.Time)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrInvoiceNotFound
		}
		return fmt.Errorf("failed to update invoice: %w", err)
	}

	return nil
}

// DeleteInvoice deletes an invoice by its ID
func (r *PostgresInvoiceRepository) DeleteInvoice(ctx context.Context, invoiceID string) error {
	if !isUUID(invoiceID) {
		return domain.ErrInvoiceNotFound
	}

	commandTag, err := r.db.Exec(ctx, `DELETE FROM invoices WHERE id = $1`, invoiceID)
	if err != nil {
		return fmt.Errorf("failed to delete invoice: %w", err)
	}

	if commandTag.RowsAffected() == 0 {
		return domain.ErrInvoiceNotFound
	}

	return nil
}

// ListInvoices retrieves invoices matching a search term, newest first, one page at a time
func (r *PostgresInvoiceRepository) ListInvoices(ctx context.Context, filter domain.InvoiceFilter) (*domain.PaginatedInvoices, error) {
	result := &domain.PaginatedInvoices{
		Data:       []domain.InvoiceListItem{},
		Pagination: domain.Pagination{},
	}

	// Set default pagination values if not provided
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.Limit <= 0 {
		filter.Limit = DefaultPageSize
	}
	if filter.Limit > 100 {
		filter.Limit = 100
	}

	term := "%" + filter.Query + "%"

	var totalItems int
	err := r.db.QueryRow(ctx, `
		SELECT COUNT(*)
		FROM invoices
		JOIN customers ON invoices.customer_id = customers.id
		LEFT JOIN categories ON invoices.category_id = categories.id
		WHERE`+invoiceSearchCondition, term).Scan(&totalItems)
	if err != nil {
		return nil, fmt.Errorf("failed to count invoices: %w", err)
	}

	result.Pagination.TotalItems = totalItems
	result.Pagination.Limit = filter.Limit
	result.Pagination.CurrentPage = filter.Page
	result.Pagination.TotalPages = int(math.Ceil(float64(totalItems) / float64(filter.Limit)))

	if totalItems == 0 {
		return result, nil
	}

	offset := (filter.Page - 1) * filter.Limit
	rows, err := r.db.Query(ctx, `
		SELECT invoices.id, invoices.amount, invoices.status, invoices.date,
			customers.name, customers.email, customers.image_url, COALESCE(categories.name, '')
		FROM invoices
		JOIN customers ON invoices.customer_id = customers.id
		LEFT JOIN categories ON invoices.category_id = categories.id
		WHERE`+invoiceSearchCondition+`
		ORDER BY invoices.date DESC
		LIMIT $2 OFFSET $3
	`, term, filter.Limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query invoices: %w", err)
	}
	defer rows.Close()

	items, err := scanInvoiceListItems(rows)
	if err != nil {
		return nil, err
	}
	result.Data = items

	return result, nil
}

// LatestInvoices retrieves the most recent invoices
func (r *PostgresInvoiceRepository) LatestInvoices(ctx context.Context, limit int) ([]domain.InvoiceListItem, error) {
	rows, err := r.db.Query(ctx, `
		SELECT invoices.id, invoices.amount, invoices.status, invoices.date,
			customers.name, customers.email, customers.image_url, COALESCE(categories.name, '')
		FROM invoices
		JOIN customers ON invoices.customer_id = customers.id
		LEFT JOIN categories ON invoices.category_id = categories.id
		ORDER BY invoices.date DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query latest invoices: %w", err)
	}
	defer rows.Close()

	return scanInvoiceListItems(rows)
}

// GetDashboardSummary retrieves the invoice and customer figures for the dashboard cards
func (r *PostgresInvoiceRepository) GetDashboardSummary(ctx context.Context) (*domain.DashboardSummary, error) {
	summary := &domain.DashboardSummary{}

	err := r.db.QueryRow(ctx, `
		SELECT
			COUNT(*),
			COALESCE(SUM(CASE WHEN status = 'paid' THEN amount ELSE 0 END), 0)::bigint,
			COALESCE(SUM(CASE WHEN status = 'pending' THEN amount ELSE 0 END), 0)::bigint
		FROM invoices
	`).Scan(&summary.InvoiceCount, &summary.TotalPaid, &summary.TotalPending)
	if err != nil {
		return nil, fmt.Errorf("failed to get invoice totals: %w", err)
	}

	err = r.db.QueryRow(ctx, `SELECT COUNT(*) FROM customers`).Scan(&summary.CustomerCount)
	if err != nil {
		return nil, fmt.Errorf("failed to count customers: %w", err)
	}

	return summary, nil
}

// GetTotalsByCategory sums invoice amounts per category, largest first
func (r *PostgresInvoiceRepository) GetTotalsByCategory(ctx context.Context) ([]domain.CategoryTotal, error) {
	rows, err := r.db.Query(ctx, `
		SELECT COALESCE(categories.name, 'Uncategorized'), COUNT(invoices.id), COALESCE(SUM(invoices.amount), 0)::bigint
		FROM invoices
		LEFT JOIN categories ON invoices.category_id = categories.id
		GROUP BY categories.name
		ORDER BY 3 DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query category totals: %w", err)
	}
	defer rows.Close()

	totals := []domain.CategoryTotal{}
	for rows.Next() {
		var total domain.CategoryTotal
		if err := rows.Scan(&total.Category, &total.InvoiceCount, &total.Amount); err != nil {
			return nil, fmt.Errorf("failed to scan category total: %w", err)
		}
		totals = append(totals, total)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating category totals: %w", err)
	}

	return totals, nil
}

// scanInvoiceListItems reads joined invoice rows
func scanInvoiceListItems(rows pgx.Rows) ([]domain.InvoiceListItem, error) {
	items := []domain.InvoiceListItem{}
	for rows.Next() {
		var item domain.InvoiceListItem
		var status string
		if err := rows.Scan(
			&item.ID, &item.Amount, &status, &item.Date.Time,
			&item.CustomerName, &item.Email, &item.ImageURL, &item.CategoryName,
		); err != nil {
			return nil, fmt.Errorf("failed to scan invoice: %w", err)
		}
		item.Status = domain.InvoiceStatus(status)
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating invoices: %w", err)
	}

	return items, nil
}

// isUUID reports whether an identifier can be compared against a uuid column
func isUUID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
