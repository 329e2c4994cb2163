package core

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// PaymentMethod is how a paid order was settled.
type PaymentMethod string

const (
	PaymentCard     PaymentMethod = "card"
	PaymentCheck    PaymentMethod = "check"
	PaymentCash     PaymentMethod = "cash"
	PaymentTransfer PaymentMethod = "transfer"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentCard, PaymentCheck, PaymentCash, PaymentTransfer:
		return true
	}
	return false
}

// OrderStatus tracks fulfillment: ordered → preparing → delivered.
type OrderStatus string

const (
	StatusOrdered   OrderStatus = "ordered"
	StatusPreparing OrderStatus = "preparing"
	StatusDelivered OrderStatus = "delivered"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case StatusOrdered, StatusPreparing, StatusDelivered:
		return true
	}
	return false
}

// CatalogPolicy decides what happens when a line item reuses an existing
// product reference with different display fields.
type CatalogPolicy string

const (
	// OverwriteOnConflict updates the shared catalog row in place —
	// last writer wins across unrelated orders. Historical behavior.
	OverwriteOnConflict CatalogPolicy = "overwrite"
	// VersionOnConflict archives the current display fields to
	// produit_revisions before applying the overwrite.
	VersionOnConflict CatalogPolicy = "version"
	// RejectOnConflict fails the write with ErrCatalogConflict.
	RejectOnConflict CatalogPolicy = "reject"
)

func (p CatalogPolicy) Valid() bool {
	switch p {
	case OverwriteOnConflict, VersionOnConflict, RejectOnConflict:
		return true
	}
	return false
}

// LineItem is the transient (name, reference, optional brand) tuple carried
// on an order before it is resolved to a catalog row.
type LineItem struct {
	Name      string `json:"name"`
	Reference string `json:"reference"`
	Brand     string `json:"brand,omitempty"`
}

// Product is a canonical catalog entry, keyed by its business reference.
type Product struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Reference  string    `json:"reference"`
	Brand      *string   `json:"brand,omitempty"`
	OrderCount int       `json:"order_count"`
	CreatedAt  time.Time `json:"created_at"`
}

// ProductRevision is one audited overwrite attempt recorded under the
// VersionOnConflict policy.
type ProductRevision struct {
	ID         int64     `json:"id"`
	ProductID  string    `json:"product_id"`
	Name       string    `json:"name"`
	Brand      *string   `json:"brand,omitempty"`
	RecordedAt time.Time `json:"recorded_at"`
}

// Client is the customer snapshot shared by every order placed under the
// same full name. It is overwritten in place on each write, never versioned.
type Client struct {
	ID         string    `json:"id"`
	FullName   string    `json:"full_name"`
	Address    string    `json:"address"`
	Email      *string   `json:"email,omitempty"`
	Phone      *string   `json:"phone,omitempty"`
	OrderCount int       `json:"order_count"`
	CreatedAt  time.Time `json:"created_at"`
}

// ClientInput holds the mutable contact fields of a client.
type ClientInput struct {
	FullName string
	Address  string
	Email    string
	Phone    string
}

// Order is the in-memory shape handed to the UI: the header joined with its
// client snapshot and resolved line items.
type Order struct {
	ID            string          `json:"id"`
	CustomerName  string          `json:"customer_name"`
	Address       string          `json:"address"`
	Email         *string         `json:"email,omitempty"`
	Phone         *string         `json:"phone,omitempty"`
	Products      []LineItem      `json:"products"`
	InvoiceNumber string          `json:"invoice_number"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	Date          string          `json:"date"` // YYYY-MM-DD
	IsPaid        bool            `json:"is_paid"`
	PaymentMethod *PaymentMethod  `json:"payment_method,omitempty"`
	Status        OrderStatus     `json:"status"`
	CreatedAt     time.Time       `json:"created_at"`
}

// OrderInput carries everything needed to create or replace an order.
type OrderInput struct {
	CustomerName  string
	Address       string
	Email         string // empty means absent
	Phone         string
	Products      []LineItem
	InvoiceNumber string
	TotalAmount   decimal.Decimal
	Date          string // YYYY-MM-DD
	IsPaid        bool
	PaymentMethod PaymentMethod // ignored unless IsPaid
	Status        OrderStatus   // defaults to ordered
}

// validate checks the header invariants and every line item before any
// write is issued.
func (in OrderInput) validate() error {
	if strings.TrimSpace(in.CustomerName) == "" {
		return fmt.Errorf("%w: customer name is required", ErrInvalidOrder)
	}
	if strings.TrimSpace(in.InvoiceNumber) == "" {
		return fmt.Errorf("%w: invoice number is required", ErrInvalidOrder)
	}
	if in.Date == "" {
		return fmt.Errorf("%w: order date is required", ErrInvalidOrder)
	}
	if in.IsPaid && !in.PaymentMethod.Valid() {
		return fmt.Errorf("%w: a paid order requires a payment method", ErrInvalidOrder)
	}
	if in.Status != "" && !in.Status.Valid() {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidOrder, in.Status)
	}
	return ValidateLineItems(in.Products)
}

// CorruptRecord identifies a stored order whose client relation is missing.
type CorruptRecord struct {
	OrderID string `json:"order_id"`
	Reason  string `json:"reason"`
}

// OrderList is the partial result of ListOrders: readable orders plus the
// rows that could not be reshaped.
type OrderList struct {
	Orders  []Order         `json:"orders"`
	Corrupt []CorruptRecord `json:"corrupt,omitempty"`
}

// UploadedFile is the metadata row for a stored attachment.
type UploadedFile struct {
	ID               string    `json:"id"`
	OriginalFilename string    `json:"original_filename"`
	StorageKey       string    `json:"storage_key"`
	ContentType      string    `json:"content_type"`
	SizeBytes        int64     `json:"size_bytes"`
	UploadedBy       *string   `json:"uploaded_by,omitempty"`
	UploadedAt       time.Time `json:"uploaded_at"`
}

// User is a staff account. New accounts stay unusable until an admin
// approves them.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	FullName     string    `json:"full_name"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	IsApproved   bool      `json:"is_approved"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
}

// toPtr maps an optional form value to its nullable column representation.
func toPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
