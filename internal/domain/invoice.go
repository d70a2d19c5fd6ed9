package domain

import (
	"encoding/json"
	"errors"
	"math"
	"time"
)

// Common domain errors
var (
	ErrInvoiceNotFound  = errors.New("invoice not found")
	ErrCategoryNotFound = errors.New("category not found")
)

// DateOnly is a custom type for handling date-only strings from JSON
type DateOnly struct {
	time.Time
}

// UnmarshalJSON implements custom unmarshaling for date-only strings
func (d *DateOnly) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}

	// Handle null/empty dates
	if s == "" || s == "null" {
		d.Time = time.Time{}
		return nil
	}

	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}

// MarshalJSON implements custom marshaling for date-only strings
func (d DateOnly) MarshalJSON() ([]byte, error) {
	if d.Time.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.Time.Format(DateLayout))
}

// String formats the date as YYYY-MM-DD
func (d DateOnly) String() string {
	if d.Time.IsZero() {
		return ""
	}
	return d.Time.Format(DateLayout)
}

// DateLayout is the storage and display format for invoice dates
const DateLayout = "2006-01-02"

// InvoiceStatus is the payment state of an invoice
type InvoiceStatus string

const (
	StatusPending InvoiceStatus = "pending"
	StatusPaid    InvoiceStatus = "paid"
)

// InvoiceStatuses lists every accepted status in display order
var InvoiceStatuses = []InvoiceStatus{StatusPending, StatusPaid}

// Valid reports whether the status is one of the known values
func (s InvoiceStatus) Valid() bool {
	return s == StatusPending || s == StatusPaid
}

// Invoice represents a stored invoice. Amount is kept in cents.
type Invoice struct {
	ID           string        `json:"id"`
	CustomerID   string        `json:"customer_id"`
	Amount       int64         `json:"amount"`
	Status       InvoiceStatus `json:"status"`
	Date         DateOnly      `json:"date"`
	CategoryID   string        `json:"category_id"`
	CategoryName string        `json:"category_name,omitempty"`
}

// AmountInDollars returns the amount in major currency units
func (i *Invoice) AmountInDollars() float64 {
	return float64(i.Amount) / 100
}

// ToCents converts an amount in major units into cents, rounding to the nearest cent
func ToCents(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

// Today returns the current UTC date truncated to midnight
func Today() DateOnly {
	now := time.Now().UTC()
	return DateOnly{Time: time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)}
}

// InvoiceListItem is an invoice joined with its customer and category for listing
type InvoiceListItem struct {
	ID           string        `json:"id"`
	Amount       int64         `json:"amount"`
	Status       InvoiceStatus `json:"status"`
	Date         DateOnly      `json:"date"`
	CustomerName string        `json:"name"`
	Email        string        `json:"email"`
	ImageURL     string        `json:"image_url"`
	CategoryName string        `json:"category_name"`
}

// Customer is a reference entity an invoice is billed to
type Customer struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email,omitempty"`
	ImageURL string `json:"image_url,omitempty"`
}

// Category is a reference entity used to classify invoices
type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// InvoiceFilter represents filters for querying invoices
type InvoiceFilter struct {
	Query string
	Page  int
	Limit int
}

// Pagination represents pagination metadata
type Pagination struct {
	TotalItems  int `json:"totalItems"`
	TotalPages  int `json:"totalPages"`
	CurrentPage int `json:"currentPage"`
	Limit       int `json:"limit"`
}

// PaginatedInvoices represents a paginated list of invoices
type PaginatedInvoices struct {
	Data       []InvoiceListItem `json:"data"`
	Pagination Pagination        `json:"pagination"`
}

// DashboardSummary holds the card figures for the dashboard overview
type DashboardSummary struct {
	InvoiceCount  int   `json:"invoiceCount"`
	CustomerCount int   `json:"customerCount"`
	TotalPaid     int64 `json:"totalPaid"`
	TotalPending  int64 `json:"totalPending"`
}

// CategoryTotal is the sum of invoice amounts for one category
type CategoryTotal struct {
	Category     string `json:"category"`
	InvoiceCount int    `json:"invoiceCount"`
	Amount       int64  `json:"amount"`
}
