package core

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// CatalogService resolves order line items to canonical catalog rows and
// answers catalog queries. Reconciliation is deliberately policy-driven so
// the destructive legacy behavior can be swapped without touching callers.
type CatalogService interface {
	// Reconcile maps each line item, in order, to a produits row — creating
	// it if absent, applying the configured CatalogPolicy if present — and
	// links it to orderID. It runs inside the caller's transaction; the
	// order row must already exist.
	Reconcile(ctx context.Context, tx pgx.Tx, orderID string, items []LineItem) error

	// ListProducts returns the catalog ordered by name, with usage counts.
	ListProducts(ctx context.Context) ([]Product, error)

	// ProductRevisions returns the audit trail recorded for a product under
	// the VersionOnConflict policy, newest first.
	ProductRevisions(ctx context.Context, productID string) ([]ProductRevision, error)
}

type catalogService struct {
	pool   *pgxpool.Pool
	policy CatalogPolicy
}

// NewCatalogService constructs a CatalogService with the given conflict
// policy. OverwriteOnConflict reproduces the historical last-writer-wins
// catalog.
func NewCatalogService(pool *pgxpool.Pool, policy CatalogPolicy) CatalogService {
	return &catalogService{pool: pool, policy: policy}
}

// ValidateLineItems rejects an empty product list and any item missing its
// name or reference, before any write happens.
func ValidateLineItems(items []LineItem) error {
	if len(items) == 0 {
		return fmt.Errorf("%w: order has no products", ErrInvalidLineItem)
	}
	for i, it := range items {
		if strings.TrimSpace(it.Name) == "" || strings.TrimSpace(it.Reference) == "" {
			return fmt.Errorf("%w: product %d is missing a name or reference", ErrInvalidLineItem, i+1)
		}
	}
	return nil
}

func (s *catalogService) Reconcile(ctx context.Context, tx pgx.Tx, orderID string, items []LineItem) error {
	if err := ValidateLineItems(items); err != nil {
		return err
	}

	for i, item := range items {
		productID, err := s.resolveProduct(ctx, tx, item)
		if err != nil {
			return fmt.Errorf("product %d (%s): %w", i+1, item.Reference, err)
		}

		// The same reference may appear twice on one order; the link is
		// keyed on (order, product) so the second occurrence is a no-op.
		if _, err := tx.Exec(ctx, `
			INSERT INTO commande_produits (commande_id, produit_id)
			VALUES ($1, $2)
			ON CONFLICT DO NOTHING
		`, orderID, productID); err != nil {
			return fmt.Errorf("link product %s: %w", item.Reference, classify(err))
		}
	}
	return nil
}

// resolveProduct returns the catalog id for one line item, creating or
// revising the row as the policy dictates.
func (s *catalogService) resolveProduct(ctx context.Context, tx pgx.Tx, item LineItem) (string, error) {
	var (
		id    string
		name  string
		brand *string
	)
	err := tx.QueryRow(ctx,
		"SELECT id::text, nom, parfum_brand FROM produits WHERE reference = $1",
		item.Reference,
	).Scan(&id, &name, &brand)

	if errors.Is(err, pgx.ErrNoRows) {
		err = tx.QueryRow(ctx, `
			INSERT INTO produits (nom, reference, parfum_brand)
			VALUES ($1, $2, $3)
			RETURNING id::text
		`, item.Name, item.Reference, toPtr(item.Brand)).Scan(&id)
		if err != nil {
			return "", fmt.Errorf("insert product: %w", classify(err))
		}
		return id, nil
	}
	if err != nil {
		return "", fmt.Errorf("lookup product: %w", classify(err))
	}

	if name == item.Name && deref(brand) == item.Brand {
		return id, nil
	}

	switch s.policy {
	case VersionOnConflict:
		// Archive the current display fields before the overwrite so the
		// audit trail holds what earlier orders were sold under.
		if _, err := tx.Exec(ctx, `
			INSERT INTO produit_revisions (produit_id, nom, parfum_brand)
			VALUES ($1, $2, $3)
		`, id, name, brand); err != nil {
			return "", fmt.Errorf("record product revision: %w", classify(err))
		}
		if _, err := tx.Exec(ctx, `
			UPDATE produits SET nom = $1, parfum_brand = $2 WHERE id = $3
		`, item.Name, toPtr(item.Brand), id); err != nil {
			return "", fmt.Errorf("update product: %w", classify(err))
		}
	case RejectOnConflict:
		return "", fmt.Errorf("%w: reference %s is already cataloged as %q",
			ErrCatalogConflict, item.Reference, name)
	default:
		// Last writer wins. The new display fields become visible to every
		// order sharing this reference.
		if _, err := tx.Exec(ctx, `
			UPDATE produits SET nom = $1, parfum_brand = $2 WHERE id = $3
		`, item.Name, toPtr(item.Brand), id); err != nil {
			return "", fmt.Errorf("update product: %w", classify(err))
		}
	}
	return id, nil
}

func (s *catalogService) ListProducts(ctx context.Context) ([]Product, error) {
	ctx, cancel := opCtx(ctx)
	defer cancel()

	rows, err := s.pool.Query(ctx, `
		SELECT p.id::text, p.nom, p.reference, p.parfum_brand, p.created_at,
		       count(cp.commande_id)
		FROM produits p
		LEFT JOIN commande_produits cp ON cp.produit_id = p.id
		GROUP BY p.id
		ORDER BY p.nom
	`)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", classify(err))
	}
	defer rows.Close()

	var products []Product
	for rows.Next() {
		var p Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Reference, &p.Brand, &p.CreatedAt, &p.OrderCount); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func (s *catalogService) ProductRevisions(ctx context.Context, productID string) ([]ProductRevision, error) {
	ctx, cancel := opCtx(ctx)
	defer cancel()

	rows, err := s.pool.Query(ctx, `
		SELECT id, produit_id::text, nom, parfum_brand, recorded_at
		FROM produit_revisions
		WHERE produit_id = $1
		ORDER BY recorded_at DESC, id DESC
	`, productID)
	if err != nil {
		return nil, fmt.Errorf("query product revisions: %w", classify(err))
	}
	defer rows.Close()

	var revisions []ProductRevision
	for rows.Next() {
		var r ProductRevision
		if err := rows.Scan(&r.ID, &r.ProductID, &r.Name, &r.Brand, &r.RecordedAt); err != nil {
			return nil, fmt.Errorf("scan product revision: %w", err)
		}
		revisions = append(revisions, r)
	}
	return revisions, rows.Err()
}
