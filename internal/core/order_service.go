package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// OrderService owns the order lifecycle: creation, full replacement,
// deletion, the paid/status flips, and the joined reads the UI consumes.
type OrderService interface {
	// CreateOrder persists a new order: client snapshot, header, and
	// catalog links, all in one transaction. Nothing is persisted when any
	// step fails.
	CreateOrder(ctx context.Context, in OrderInput) (*Order, error)

	// UpdateOrder replaces an order's full content. The store models this
	// as delete-then-recreate — the link table is cleared by the cascade on
	// the old header and the replacement gets a fresh identity — so the
	// returned order never carries the old id. All steps run in one
	// transaction: a failure after the delete leaves the original untouched.
	UpdateOrder(ctx context.Context, id string, in OrderInput) (*Order, error)

	// DeleteOrder removes the order; the cascade removes its product links.
	DeleteOrder(ctx context.Context, id string) error

	// GetOrder returns one order joined with its client and products.
	GetOrder(ctx context.Context, id string) (*Order, error)

	// ListOrders returns all orders, newest order date first. Rows whose
	// client relation is missing are reported in OrderList.Corrupt and
	// excluded from Orders instead of failing the whole list.
	ListOrders(ctx context.Context) (*OrderList, error)

	// SetPaymentStatus flips the paid flag. Marking paid requires a valid
	// method; marking unpaid clears it.
	SetPaymentStatus(ctx context.Context, id string, isPaid bool, method PaymentMethod) error

	// SetOrderStatus moves the order along ordered → preparing → delivered.
	SetOrderStatus(ctx context.Context, id string, status OrderStatus) error

	// AddProducts links additional line items to an existing order without
	// touching the header. Items already linked are skipped.
	AddProducts(ctx context.Context, id string, items []LineItem) error
}

type orderService struct {
	pool    *pgxpool.Pool
	catalog CatalogService
}

// NewOrderService constructs an OrderService that reconciles products
// through the given catalog.
func NewOrderService(pool *pgxpool.Pool, catalog CatalogService) OrderService {
	return &orderService{pool: pool, catalog: catalog}
}

func (s *orderService) CreateOrder(ctx context.Context, in OrderInput) (*Order, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	ctx, cancel := opCtx(ctx)
	defer cancel()

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin create order: %w", classify(err))
	}
	defer tx.Rollback(ctx)

	clientID, err := upsertClientByName(ctx, tx, in)
	if err != nil {
		return nil, err
	}

	orderID, err := insertOrderHeader(ctx, tx, clientID, in)
	if err != nil {
		return nil, err
	}

	if err := s.catalog.Reconcile(ctx, tx, orderID, in.Products); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit create order: %w", classify(err))
	}
	return s.GetOrder(ctx, orderID)
}

func (s *orderService) UpdateOrder(ctx context.Context, id string, in OrderInput) (*Order, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	ctx, cancel := opCtx(ctx)
	defer cancel()

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin update order: %w", classify(err))
	}
	defer tx.Rollback(ctx)

	// Lock the old row so two replacements of the same order serialize
	// instead of interleaving.
	var clientID *string
	err = tx.QueryRow(ctx,
		"SELECT client_id::text FROM commandes WHERE id = $1 FOR UPDATE", id,
	).Scan(&clientID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrOrderNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("fetch order %s: %w", id, classify(err))
	}

	// Cascade clears the commande_produits links.
	if _, err := tx.Exec(ctx, "DELETE FROM commandes WHERE id = $1", id); err != nil {
		return nil, fmt.Errorf("delete order %s: %w", id, classify(err))
	}

	// Overwrite the shared client snapshot in place. Editing this order's
	// address changes the displayed address of every order under the same
	// name — the snapshot is shared, not versioned.
	if clientID != nil {
		if _, err := tx.Exec(ctx, `
			UPDATE clients SET nom_complet = $1, adresse = $2, email = $3, telephone = $4
			WHERE id = $5
		`, in.CustomerName, in.Address, toPtr(in.Email), toPtr(in.Phone), *clientID); err != nil {
			return nil, fmt.Errorf("update client: %w", classify(err))
		}
	} else {
		// The client row was deleted out from under this order; recreate it
		// so the replacement is readable.
		fresh, err := insertClient(ctx, tx, in)
		if err != nil {
			return nil, err
		}
		clientID = &fresh
	}

	newID, err := insertOrderHeader(ctx, tx, *clientID, in)
	if err != nil {
		return nil, err
	}

	if err := s.catalog.Reconcile(ctx, tx, newID, in.Products); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit update order: %w", classify(err))
	}
	return s.GetOrder(ctx, newID)
}

func (s *orderService) DeleteOrder(ctx context.Context, id string) error {
	ctx, cancel := opCtx(ctx)
	defer cancel()

	tag, err := s.pool.Exec(ctx, "DELETE FROM commandes WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete order %s: %w", id, classify(err))
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", ErrOrderNotFound, id)
	}
	return nil
}

func (s *orderService) GetOrder(ctx context.Context, id string) (*Order, error) {
	ctx, cancel := opCtx(ctx)
	defer cancel()

	var (
		o      Order
		orphan bool
	)
	err := s.pool.QueryRow(ctx, `
		SELECT co.id::text, COALESCE(c.nom_complet, ''), COALESCE(c.adresse, ''),
		       c.email, c.telephone,
		       co.numero_facture, co.montant_total, co.date_creation::text,
		       co.is_paid, co.payment_method, co.status, co.created_at,
		       c.id IS NULL
		FROM commandes co
		LEFT JOIN clients c ON c.id = co.client_id
		WHERE co.id = $1
	`, id).Scan(
		&o.ID, &o.CustomerName, &o.Address, &o.Email, &o.Phone,
		&o.InvoiceNumber, &o.TotalAmount, &o.Date,
		&o.IsPaid, &o.PaymentMethod, &o.Status, &o.CreatedAt,
		&orphan,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrOrderNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("fetch order %s: %w", id, classify(err))
	}
	if orphan {
		return nil, fmt.Errorf("%w: order %s has no client", ErrCorruptRecord, id)
	}

	items, err := fetchLineItems(ctx, s.pool, []string{o.ID})
	if err != nil {
		return nil, err
	}
	o.Products = items[o.ID]
	return &o, nil
}

func (s *orderService) ListOrders(ctx context.Context) (*OrderList, error) {
	ctx, cancel := opCtx(ctx)
	defer cancel()

	rows, err := s.pool.Query(ctx, `
		SELECT co.id::text, COALESCE(c.nom_complet, ''), COALESCE(c.adresse, ''),
		       c.email, c.telephone,
		       co.numero_facture, co.montant_total, co.date_creation::text,
		       co.is_paid, co.payment_method, co.status, co.created_at,
		       c.id IS NULL
		FROM commandes co
		LEFT JOIN clients c ON c.id = co.client_id
		ORDER BY co.date_creation DESC, co.created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("query orders: %w", classify(err))
	}
	defer rows.Close()

	list := &OrderList{}
	var ids []string
	for rows.Next() {
		var (
			o      Order
			orphan bool
		)
		if err := rows.Scan(
			&o.ID, &o.CustomerName, &o.Address, &o.Email, &o.Phone,
			&o.InvoiceNumber, &o.TotalAmount, &o.Date,
			&o.IsPaid, &o.PaymentMethod, &o.Status, &o.CreatedAt,
			&orphan,
		); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		if orphan {
			list.Corrupt = append(list.Corrupt, CorruptRecord{
				OrderID: o.ID,
				Reason:  "client relation missing",
			})
			continue
		}
		list.Orders = append(list.Orders, o)
		ids = append(ids, o.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read orders: %w", classify(err))
	}

	items, err := fetchLineItems(ctx, s.pool, ids)
	if err != nil {
		return nil, err
	}
	for i := range list.Orders {
		list.Orders[i].Products = items[list.Orders[i].ID]
	}
	return list, nil
}

func (s *orderService) SetPaymentStatus(ctx context.Context, id string, isPaid bool, method PaymentMethod) error {
	if isPaid && !method.Valid() {
		return fmt.Errorf("%w: a paid order requires a payment method", ErrInvalidOrder)
	}

	ctx, cancel := opCtx(ctx)
	defer cancel()

	var methodParam *PaymentMethod
	if isPaid {
		methodParam = &method
	}
	tag, err := s.pool.Exec(ctx,
		"UPDATE commandes SET is_paid = $1, payment_method = $2 WHERE id = $3",
		isPaid, methodParam, id,
	)
	if err != nil {
		return fmt.Errorf("update payment status: %w", classify(err))
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", ErrOrderNotFound, id)
	}
	return nil
}

func (s *orderService) SetOrderStatus(ctx context.Context, id string, status OrderStatus) error {
	if !status.Valid() {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidOrder, status)
	}

	ctx, cancel := opCtx(ctx)
	defer cancel()

	tag, err := s.pool.Exec(ctx,
		"UPDATE commandes SET status = $1 WHERE id = $2", status, id,
	)
	if err != nil {
		return fmt.Errorf("update order status: %w", classify(err))
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", ErrOrderNotFound, id)
	}
	return nil
}

func (s *orderService) AddProducts(ctx context.Context, id string, items []LineItem) error {
	if err := ValidateLineItems(items); err != nil {
		return err
	}

	ctx, cancel := opCtx(ctx)
	defer cancel()

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin add products: %w", classify(err))
	}
	defer tx.Rollback(ctx)

	var exists bool
	err = tx.QueryRow(ctx,
		"SELECT true FROM commandes WHERE id = $1 FOR UPDATE", id,
	).Scan(&exists)
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%w: %s", ErrOrderNotFound, id)
	}
	if err != nil {
		return fmt.Errorf("fetch order %s: %w", id, classify(err))
	}

	if err := s.catalog.Reconcile(ctx, tx, id, items); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit add products: %w", classify(err))
	}
	return nil
}

// ── Shared write helpers ─────────────────────────────────────────────────────

// upsertClientByName deduplicates clients by full name only. The contact
// fields are a snapshot shared by every order for that name and are
// overwritten on each write.
func upsertClientByName(ctx context.Context, tx pgx.Tx, in OrderInput) (string, error) {
	var id string
	err := tx.QueryRow(ctx,
		"SELECT id::text FROM clients WHERE nom_complet = $1 ORDER BY created_at LIMIT 1",
		in.CustomerName,
	).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return insertClient(ctx, tx, in)
	}
	if err != nil {
		return "", fmt.Errorf("lookup client: %w", classify(err))
	}

	if _, err := tx.Exec(ctx, `
		UPDATE clients SET adresse = $1, email = $2, telephone = $3 WHERE id = $4
	`, in.Address, toPtr(in.Email), toPtr(in.Phone), id); err != nil {
		return "", fmt.Errorf("refresh client snapshot: %w", classify(err))
	}
	return id, nil
}

func insertClient(ctx context.Context, tx pgx.Tx, in OrderInput) (string, error) {
	var id string
	err := tx.QueryRow(ctx, `
		INSERT INTO clients (nom_complet, adresse, email, telephone)
		VALUES ($1, $2, $3, $4)
		RETURNING id::text
	`, in.CustomerName, in.Address, toPtr(in.Email), toPtr(in.Phone)).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("insert client: %w", classify(err))
	}
	return id, nil
}

func insertOrderHeader(ctx context.Context, tx pgx.Tx, clientID string, in OrderInput) (string, error) {
	status := in.Status
	if status == "" {
		status = StatusOrdered
	}
	var methodParam *PaymentMethod
	if in.IsPaid {
		m := in.PaymentMethod
		methodParam = &m
	}

	var id string
	err := tx.QueryRow(ctx, `
		INSERT INTO commandes (client_id, numero_facture, montant_total, date_creation,
		                       is_paid, payment_method, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id::text
	`, clientID, in.InvoiceNumber, in.TotalAmount, in.Date,
		in.IsPaid, methodParam, status).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("insert order: %w", classify(err))
	}
	return id, nil
}

// pgxRowQuerier is satisfied by both *pgxpool.Pool and pgx.Tx.
type pgxRowQuerier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// fetchLineItems loads the resolved line items for the given order ids,
// keyed by order id, ordered by reference for deterministic output.
func fetchLineItems(ctx context.Context, q pgxRowQuerier, orderIDs []string) (map[string][]LineItem, error) {
	items := make(map[string][]LineItem, len(orderIDs))
	if len(orderIDs) == 0 {
		return items, nil
	}

	rows, err := q.Query(ctx, `
		SELECT cp.commande_id::text, p.nom, p.reference, COALESCE(p.parfum_brand, '')
		FROM commande_produits cp
		JOIN produits p ON p.id = cp.produit_id
		WHERE cp.commande_id = ANY($1)
		ORDER BY p.reference
	`, orderIDs)
	if err != nil {
		return nil, fmt.Errorf("query order products: %w", classify(err))
	}
	defer rows.Close()

	for rows.Next() {
		var (
			orderID string
			it      LineItem
		)
		if err := rows.Scan(&orderID, &it.Name, &it.Reference, &it.Brand); err != nil {
			return nil, fmt.Errorf("scan order product: %w", err)
		}
		items[orderID] = append(items[orderID], it)
	}
	return items, rows.Err()
}
