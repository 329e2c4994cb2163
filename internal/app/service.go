package app

import (
	"context"

	"studio-orders/internal/core"
)

// ApplicationService is the single interface all adapters (CLI, Web) call.
// It decouples presentation from business logic. Implementations must contain
// no fmt.Println, no ANSI codes, and no display logic of any kind.
type ApplicationService interface {
	// NextInvoiceNumber reserves and returns the next invoice number.
	NextInvoiceNumber(ctx context.Context) (string, error)

	// CreateOrder saves a new order with its client snapshot and products.
	CreateOrder(ctx context.Context, req SaveOrderRequest) (*OrderResult, error)

	// UpdateOrder replaces an order's content. The returned order carries a
	// new id; the caller must forget the old one.
	UpdateOrder(ctx context.Context, id string, req SaveOrderRequest) (*OrderResult, error)

	// DeleteOrder removes an order and its product links.
	DeleteOrder(ctx context.Context, id string) error

	// GetOrder returns one order with client details and products.
	GetOrder(ctx context.Context, id string) (*OrderResult, error)

	// ListOrders returns all orders, newest first, with any corrupt rows
	// reported separately.
	ListOrders(ctx context.Context) (*OrderListResult, error)

	// SetPaymentStatus flips an order's paid flag and payment method.
	SetPaymentStatus(ctx context.Context, id string, isPaid bool, method core.PaymentMethod) error

	// SetOrderStatus updates the fulfilment status.
	SetOrderStatus(ctx context.Context, id string, status core.OrderStatus) error

	// AddProducts links more products to an existing order.
	AddProducts(ctx context.Context, id string, items []core.LineItem) error

	// SendOrderConfirmation emails the order summary to the given address,
	// or to the order's client email when to is empty.
	SendOrderConfirmation(ctx context.Context, orderID, to string) error

	// ExportOrders renders the products of the given orders to a
	// spreadsheet. An empty id list exports every order.
	ExportOrders(ctx context.Context, orderIDs []string) (*ExportResult, error)

	// ListClients returns the client roster with order counts.
	ListClients(ctx context.Context) (*ClientListResult, error)

	// UpdateClient edits a client's shared snapshot.
	UpdateClient(ctx context.Context, id string, req core.ClientInput) (*core.Client, error)

	// DeleteClient removes a client; their orders survive as corrupt rows.
	DeleteClient(ctx context.Context, id string) error

	// ListProducts returns the catalog with per-product order counts.
	ListProducts(ctx context.Context) (*ProductListResult, error)

	// ProductRevisions returns the audit trail kept when the catalog policy
	// versions conflicting writes.
	ProductRevisions(ctx context.Context, productID string) ([]core.ProductRevision, error)

	// GetStats returns the dashboard figures for a period.
	GetStats(ctx context.Context, period core.StatsPeriod) (*core.Stats, error)

	// Signup registers a pending staff account.
	Signup(ctx context.Context, req SignupRequest) (*core.User, error)

	// Login authenticates a staff account.
	Login(ctx context.Context, email, password string) (*core.User, error)

	// GetUser returns the account behind an authenticated request.
	GetUser(ctx context.Context, id string) (*core.User, error)

	// ListPendingUsers returns accounts awaiting admin approval.
	ListPendingUsers(ctx context.Context) ([]core.User, error)

	// ApproveUser lets a pending account log in.
	ApproveUser(ctx context.Context, id string) error

	// RejectUser deactivates a pending account.
	RejectUser(ctx context.Context, id string) error

	// UploadFile stores an attachment and its metadata.
	UploadFile(ctx context.Context, req core.FileUpload) (*core.UploadedFile, error)

	// ListFiles returns attachment metadata, newest first.
	ListFiles(ctx context.Context) ([]core.UploadedFile, error)

	// FileDownloadURL returns a short-lived download link.
	FileDownloadURL(ctx context.Context, id string) (string, error)

	// DeleteFile removes an attachment and its stored object.
	DeleteFile(ctx context.Context, id string) error
}
