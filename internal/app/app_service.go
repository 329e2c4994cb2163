package app

import (
	"context"
	"fmt"

	"studio-orders/internal/core"
	"studio-orders/internal/export"
	"studio-orders/internal/notify"
)

type appService struct {
	invoices core.InvoiceService
	orders   core.OrderService
	catalog  core.CatalogService
	clients  core.ClientService
	stats    core.StatsService
	users    core.UserService
	files    core.FileService
	mailer   notify.Mailer
}

// NewAppService constructs an appService that satisfies ApplicationService.
func NewAppService(
	invoices core.InvoiceService,
	orders core.OrderService,
	catalog core.CatalogService,
	clients core.ClientService,
	stats core.StatsService,
	users core.UserService,
	files core.FileService,
	mailer notify.Mailer,
) ApplicationService {
	return &appService{
		invoices: invoices,
		orders:   orders,
		catalog:  catalog,
		clients:  clients,
		stats:    stats,
		users:    users,
		files:    files,
		mailer:   mailer,
	}
}

func (s *appService) NextInvoiceNumber(ctx context.Context) (string, error) {
	return s.invoices.NextInvoiceNumber(ctx)
}

func (s *appService) CreateOrder(ctx context.Context, req SaveOrderRequest) (*OrderResult, error) {
	order, err := s.orders.CreateOrder(ctx, req.toInput())
	if err != nil {
		return nil, err
	}
	return &OrderResult{Order: order}, nil
}

func (s *appService) UpdateOrder(ctx context.Context, id string, req SaveOrderRequest) (*OrderResult, error) {
	order, err := s.orders.UpdateOrder(ctx, id, req.toInput())
	if err != nil {
		return nil, err
	}
	return &OrderResult{Order: order}, nil
}

func (s *appService) DeleteOrder(ctx context.Context, id string) error {
	return s.orders.DeleteOrder(ctx, id)
}

func (s *appService) GetOrder(ctx context.Context, id string) (*OrderResult, error) {
	order, err := s.orders.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	return &OrderResult{Order: order}, nil
}

func (s *appService) ListOrders(ctx context.Context) (*OrderListResult, error) {
	list, err := s.orders.ListOrders(ctx)
	if err != nil {
		return nil, err
	}
	return &OrderListResult{Orders: list.Orders, Corrupt: list.Corrupt}, nil
}

func (s *appService) SetPaymentStatus(ctx context.Context, id string, isPaid bool, method core.PaymentMethod) error {
	return s.orders.SetPaymentStatus(ctx, id, isPaid, method)
}

func (s *appService) SetOrderStatus(ctx context.Context, id string, status core.OrderStatus) error {
	return s.orders.SetOrderStatus(ctx, id, status)
}

func (s *appService) AddProducts(ctx context.Context, id string, items []core.LineItem) error {
	return s.orders.AddProducts(ctx, id, items)
}

func (s *appService) SendOrderConfirmation(ctx context.Context, orderID, to string) error {
	order, err := s.orders.GetOrder(ctx, orderID)
	if err != nil {
		return err
	}
	if to == "" {
		if order.Email == nil || *order.Email == "" {
			return fmt.Errorf("%w: order %s has no client email", core.ErrInvalidOrder, orderID)
		}
		to = *order.Email
	}
	return s.mailer.SendOrderConfirmation(ctx, to, order)
}

func (s *appService) ExportOrders(ctx context.Context, orderIDs []string) (*ExportResult, error) {
	var orders []core.Order
	if len(orderIDs) == 0 {
		list, err := s.orders.ListOrders(ctx)
		if err != nil {
			return nil, err
		}
		orders = list.Orders
	} else {
		for _, id := range orderIDs {
			order, err := s.orders.GetOrder(ctx, id)
			if err != nil {
				return nil, err
			}
			orders = append(orders, *order)
		}
	}

	wb, err := export.OrderProducts(orders)
	if err != nil {
		return nil, err
	}
	return &ExportResult{Filename: wb.Filename, Data: wb.Data}, nil
}

func (s *appService) ListClients(ctx context.Context) (*ClientListResult, error) {
	clients, err := s.clients.ListClients(ctx)
	if err != nil {
		return nil, err
	}
	return &ClientListResult{Clients: clients}, nil
}

func (s *appService) UpdateClient(ctx context.Context, id string, req core.ClientInput) (*core.Client, error) {
	return s.clients.UpdateClient(ctx, id, req)
}

func (s *appService) DeleteClient(ctx context.Context, id string) error {
	return s.clients.DeleteClient(ctx, id)
}

func (s *appService) ListProducts(ctx context.Context) (*ProductListResult, error) {
	products, err := s.catalog.ListProducts(ctx)
	if err != nil {
		return nil, err
	}
	return &ProductListResult{Products: products}, nil
}

func (s *appService) ProductRevisions(ctx context.Context, productID string) ([]core.ProductRevision, error) {
	return s.catalog.ProductRevisions(ctx, productID)
}

func (s *appService) GetStats(ctx context.Context, period core.StatsPeriod) (*core.Stats, error) {
	return s.stats.GetStats(ctx, period)
}

func (s *appService) Signup(ctx context.Context, req SignupRequest) (*core.User, error) {
	return s.users.Create(ctx, req.Email, req.Password, req.FullName)
}

func (s *appService) Login(ctx context.Context, email, password string) (*core.User, error) {
	return s.users.Authenticate(ctx, email, password)
}

func (s *appService) GetUser(ctx context.Context, id string) (*core.User, error) {
	return s.users.GetByID(ctx, id)
}

func (s *appService) ListPendingUsers(ctx context.Context) ([]core.User, error) {
	return s.users.ListPending(ctx)
}

func (s *appService) ApproveUser(ctx context.Context, id string) error {
	return s.users.Approve(ctx, id)
}

func (s *appService) RejectUser(ctx context.Context, id string) error {
	return s.users.Reject(ctx, id)
}

func (s *appService) UploadFile(ctx context.Context, req core.FileUpload) (*core.UploadedFile, error) {
	return s.files.Upload(ctx, req)
}

func (s *appService) ListFiles(ctx context.Context) ([]core.UploadedFile, error) {
	return s.files.ListFiles(ctx)
}

func (s *appService) FileDownloadURL(ctx context.Context, id string) (string, error) {
	return s.files.DownloadURL(ctx, id)
}

func (s *appService) DeleteFile(ctx context.Context, id string) error {
	return s.files.DeleteFile(ctx, id)
}
