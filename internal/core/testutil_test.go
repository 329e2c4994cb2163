package core_test

import (
	"context"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"studio-orders/internal/core"
)

func setupTestDB(t *testing.T) *pgxpool.Pool {
	t.Helper()
	_ = godotenv.Load("../../.env")

	// Use a dedicated TEST database to avoid wiping the live app database.
	// Set TEST_DATABASE_URL in your .env or environment to run integration tests.
	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set — skipping integration test to protect live database")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	_, err = pool.Exec(ctx, `
		TRUNCATE TABLE commande_produits, commandes, produit_revisions, produits,
			clients, facture_sequences, uploaded_files, users CASCADE;
	`)
	if err != nil {
		t.Fatalf("Failed to clean test database: %v", err)
	}

	return pool
}

// testOrderInput returns a valid order input with the given invoice number.
func testOrderInput(invoice string) core.OrderInput {
	return core.OrderInput{
		CustomerName:  "Marie Delacroix",
		Address:       "12 rue des Lilas, Lyon",
		Email:         "marie@example.com",
		Phone:         "+33 6 12 34 56 78",
		InvoiceNumber: invoice,
		TotalAmount:   decimal.NewFromFloat(149.90),
		Date:          "2026-03-15",
		Products: []core.LineItem{
			{Name: "Eau de Rose 50ml", Reference: "ROSE-50", Brand: "Maison Fleur"},
			{Name: "Musc Blanc 30ml", Reference: "MUSC-30"},
		},
	}
}

func newOrderService(pool *pgxpool.Pool, policy core.CatalogPolicy) (core.OrderService, core.CatalogService) {
	catalog := core.NewCatalogService(pool, policy)
	return core.NewOrderService(pool, catalog), catalog
}
