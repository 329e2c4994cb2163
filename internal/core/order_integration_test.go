package core_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"studio-orders/internal/core"
)

func TestOrderService_CreateAndReadBack(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	ctx := context.Background()

	orders, _ := newOrderService(pool, core.OverwriteOnConflict)
	created, err := orders.CreateOrder(ctx, testOrderInput("001"))
	if err != nil {
		t.Fatalf("CreateOrder failed: %v", err)
	}

	got, err := orders.GetOrder(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetOrder failed: %v", err)
	}
	if got.CustomerName != "Marie Delacroix" {
		t.Errorf("customer name: got %q", got.CustomerName)
	}
	if got.InvoiceNumber != "001" {
		t.Errorf("invoice number: got %q", got.InvoiceNumber)
	}
	if !got.TotalAmount.Equal(decimal.NewFromFloat(149.90)) {
		t.Errorf("total: got %s", got.TotalAmount)
	}
	if got.Status != core.StatusOrdered {
		t.Errorf("status: got %q, want default ordered", got.Status)
	}
	if len(got.Products) != 2 {
		t.Fatalf("expected 2 products, got %d", len(got.Products))
	}
	// Order is deterministic by reference.
	if got.Products[0].Reference != "MUSC-30" || got.Products[1].Reference != "ROSE-50" {
		t.Errorf("unexpected product references: %+v", got.Products)
	}
}

func TestOrderService_CreateReusesClientByName(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	ctx := context.Background()

	orders, _ := newOrderService(pool, core.OverwriteOnConflict)
	if _, err := orders.CreateOrder(ctx, testOrderInput("001")); err != nil {
		t.Fatalf("first CreateOrder failed: %v", err)
	}

	second := testOrderInput("002")
	second.Address = "99 avenue Victor Hugo, Paris"
	if _, err := orders.CreateOrder(ctx, second); err != nil {
		t.Fatalf("second CreateOrder failed: %v", err)
	}

	var clientCount int
	if err := pool.QueryRow(ctx, "SELECT count(*) FROM clients").Scan(&clientCount); err != nil {
		t.Fatalf("count clients: %v", err)
	}
	if clientCount != 1 {
		t.Errorf("expected 1 client row, got %d", clientCount)
	}

	// The snapshot is shared: the first order now shows the new address.
	list, err := orders.ListOrders(ctx)
	if err != nil {
		t.Fatalf("ListOrders failed: %v", err)
	}
	for _, o := range list.Orders {
		if o.Address != "99 avenue Victor Hugo, Paris" {
			t.Errorf("order %s address: got %q", o.InvoiceNumber, o.Address)
		}
	}
}

func TestOrderService_InvalidLineItemPersistsNothing(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	ctx := context.Background()

	orders, _ := newOrderService(pool, core.OverwriteOnConflict)
	in := testOrderInput("001")
	in.Products = append(in.Products, core.LineItem{Name: "Sans référence"})

	_, err := orders.CreateOrder(ctx, in)
	if !errors.Is(err, core.ErrInvalidLineItem) {
		t.Fatalf("expected ErrInvalidLineItem, got %v", err)
	}

	var headerCount int
	if err := pool.QueryRow(ctx, "SELECT count(*) FROM commandes").Scan(&headerCount); err != nil {
		t.Fatalf("count commandes: %v", err)
	}
	if headerCount != 0 {
		t.Errorf("expected no order header persisted, got %d", headerCount)
	}
}

func TestOrderService_UpdateReplacesIdentity(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	ctx := context.Background()

	orders, _ := newOrderService(pool, core.OverwriteOnConflict)
	created, err := orders.CreateOrder(ctx, testOrderInput("001"))
	if err != nil {
		t.Fatalf("CreateOrder failed: %v", err)
	}

	updated := testOrderInput("001")
	updated.TotalAmount = decimal.NewFromFloat(210.00)
	updated.Products = []core.LineItem{
		{Name: "Vétiver Intense 100ml", Reference: "VET-100", Brand: "Atelier Sud"},
	}

	replacement, err := orders.UpdateOrder(ctx, created.ID, updated)
	if err != nil {
		t.Fatalf("UpdateOrder failed: %v", err)
	}
	if replacement.ID == created.ID {
		t.Error("expected the replacement to carry a new id")
	}
	if len(replacement.Products) != 1 || replacement.Products[0].Reference != "VET-100" {
		t.Errorf("unexpected products after update: %+v", replacement.Products)
	}

	if _, err := orders.GetOrder(ctx, created.ID); !errors.Is(err, core.ErrOrderNotFound) {
		t.Errorf("expected old id to be gone, got %v", err)
	}

	// The old product links must not survive the replacement.
	var linkCount int
	if err := pool.QueryRow(ctx, "SELECT count(*) FROM commande_produits").Scan(&linkCount); err != nil {
		t.Fatalf("count links: %v", err)
	}
	if linkCount != 1 {
		t.Errorf("expected 1 link after update, got %d", linkCount)
	}
}

func TestOrderService_UpdateFailureKeepsOriginal(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	ctx := context.Background()

	orders, _ := newOrderService(pool, core.OverwriteOnConflict)
	created, err := orders.CreateOrder(ctx, testOrderInput("001"))
	if err != nil {
		t.Fatalf("CreateOrder failed: %v", err)
	}
	other, err := orders.CreateOrder(ctx, testOrderInput("002"))
	if err != nil {
		t.Fatalf("CreateOrder failed: %v", err)
	}

	// Replacing 001 with the invoice number of another order violates the
	// unique constraint mid-transaction. The original must survive.
	bad := testOrderInput("002")
	_, err = orders.UpdateOrder(ctx, created.ID, bad)
	if !errors.Is(err, core.ErrDuplicateInvoiceNumber) {
		t.Fatalf("expected ErrDuplicateInvoiceNumber, got %v", err)
	}

	got, err := orders.GetOrder(ctx, created.ID)
	if err != nil {
		t.Fatalf("original order should still exist: %v", err)
	}
	if got.InvoiceNumber != "001" {
		t.Errorf("original invoice number changed: %q", got.InvoiceNumber)
	}
	if _, err := orders.GetOrder(ctx, other.ID); err != nil {
		t.Errorf("unrelated order damaged: %v", err)
	}
}

func TestOrderService_UpdateUnknownOrder(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	ctx := context.Background()

	orders, _ := newOrderService(pool, core.OverwriteOnConflict)
	_, err := orders.UpdateOrder(ctx, "00000000-0000-0000-0000-000000000000", testOrderInput("001"))
	if !errors.Is(err, core.ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound, got %v", err)
	}
}

func TestOrderService_DeleteOrder(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	ctx := context.Background()

	orders, _ := newOrderService(pool, core.OverwriteOnConflict)
	created, err := orders.CreateOrder(ctx, testOrderInput("001"))
	if err != nil {
		t.Fatalf("CreateOrder failed: %v", err)
	}

	if err := orders.DeleteOrder(ctx, created.ID); err != nil {
		t.Fatalf("DeleteOrder failed: %v", err)
	}
	if err := orders.DeleteOrder(ctx, created.ID); !errors.Is(err, core.ErrOrderNotFound) {
		t.Errorf("expected ErrOrderNotFound on second delete, got %v", err)
	}

	// Catalog rows survive order deletion.
	var productCount int
	if err := pool.QueryRow(ctx, "SELECT count(*) FROM produits").Scan(&productCount); err != nil {
		t.Fatalf("count produits: %v", err)
	}
	if productCount != 2 {
		t.Errorf("expected catalog to survive delete, got %d products", productCount)
	}
}

func TestOrderService_PaymentFlips(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	ctx := context.Background()

	orders, _ := newOrderService(pool, core.OverwriteOnConflict)
	created, err := orders.CreateOrder(ctx, testOrderInput("001"))
	if err != nil {
		t.Fatalf("CreateOrder failed: %v", err)
	}

	if err := orders.SetPaymentStatus(ctx, created.ID, true, ""); !errors.Is(err, core.ErrInvalidOrder) {
		t.Errorf("expected ErrInvalidOrder for paid without method, got %v", err)
	}

	if err := orders.SetPaymentStatus(ctx, created.ID, true, core.PaymentCard); err != nil {
		t.Fatalf("SetPaymentStatus failed: %v", err)
	}
	got, err := orders.GetOrder(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetOrder failed: %v", err)
	}
	if !got.IsPaid || got.PaymentMethod == nil || *got.PaymentMethod != core.PaymentCard {
		t.Errorf("expected paid by card, got paid=%v method=%v", got.IsPaid, got.PaymentMethod)
	}

	// Marking unpaid clears the method.
	if err := orders.SetPaymentStatus(ctx, created.ID, false, ""); err != nil {
		t.Fatalf("SetPaymentStatus failed: %v", err)
	}
	got, err = orders.GetOrder(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetOrder failed: %v", err)
	}
	if got.IsPaid || got.PaymentMethod != nil {
		t.Errorf("expected unpaid with no method, got paid=%v method=%v", got.IsPaid, got.PaymentMethod)
	}
}

func TestOrderService_StatusTransitions(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	ctx := context.Background()

	orders, _ := newOrderService(pool, core.OverwriteOnConflict)
	created, err := orders.CreateOrder(ctx, testOrderInput("001"))
	if err != nil {
		t.Fatalf("CreateOrder failed: %v", err)
	}

	if err := orders.SetOrderStatus(ctx, created.ID, "shipped"); !errors.Is(err, core.ErrInvalidOrder) {
		t.Errorf("expected ErrInvalidOrder for unknown status, got %v", err)
	}
	if err := orders.SetOrderStatus(ctx, created.ID, core.StatusDelivered); err != nil {
		t.Fatalf("SetOrderStatus failed: %v", err)
	}
	got, err := orders.GetOrder(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetOrder failed: %v", err)
	}
	if got.Status != core.StatusDelivered {
		t.Errorf("status: got %q", got.Status)
	}
}

func TestOrderService_AddProducts(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	ctx := context.Background()

	orders, _ := newOrderService(pool, core.OverwriteOnConflict)
	created, err := orders.CreateOrder(ctx, testOrderInput("001"))
	if err != nil {
		t.Fatalf("CreateOrder failed: %v", err)
	}

	// One new product and one already linked; the duplicate is a no-op.
	err = orders.AddProducts(ctx, created.ID, []core.LineItem{
		{Name: "Ambre Nuit 50ml", Reference: "AMB-50", Brand: "Maison Fleur"},
		{Name: "Eau de Rose 50ml", Reference: "ROSE-50", Brand: "Maison Fleur"},
	})
	if err != nil {
		t.Fatalf("AddProducts failed: %v", err)
	}

	got, err := orders.GetOrder(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetOrder failed: %v", err)
	}
	if len(got.Products) != 3 {
		t.Errorf("expected 3 products, got %d: %+v", len(got.Products), got.Products)
	}
}

func TestOrderService_SharedCatalogAcrossOrders(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	ctx := context.Background()

	orders, catalog := newOrderService(pool, core.OverwriteOnConflict)

	first := testOrderInput("001")
	first.Products = []core.LineItem{{Name: "Eau de Rose 50ml", Reference: "ROSE-50", Brand: "Maison Fleur"}}
	if _, err := orders.CreateOrder(ctx, first); err != nil {
		t.Fatalf("first CreateOrder failed: %v", err)
	}

	// A second order reuses the same reference with a different name, which
	// overwrites the shared catalog row for every order.
	second := testOrderInput("002")
	second.Products = []core.LineItem{{Name: "Eau de Rose Intense 50ml", Reference: "ROSE-50", Brand: "Maison Fleur"}}
	if _, err := orders.CreateOrder(ctx, second); err != nil {
		t.Fatalf("second CreateOrder failed: %v", err)
	}

	products, err := catalog.ListProducts(ctx)
	if err != nil {
		t.Fatalf("ListProducts failed: %v", err)
	}
	roseCount := 0
	for _, p := range products {
		if p.Reference == "ROSE-50" {
			roseCount++
			if p.Name != "Eau de Rose Intense 50ml" {
				t.Errorf("expected overwritten name, got %q", p.Name)
			}
			if p.OrderCount != 2 {
				t.Errorf("expected the row to be linked to 2 orders, got %d", p.OrderCount)
			}
		}
	}
	if roseCount != 1 {
		t.Fatalf("expected a single catalog row for ROSE-50, got %d", roseCount)
	}
}

func TestOrderService_ListReportsCorruptRows(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	ctx := context.Background()

	orders, _ := newOrderService(pool, core.OverwriteOnConflict)
	kept, err := orders.CreateOrder(ctx, testOrderInput("001"))
	if err != nil {
		t.Fatalf("CreateOrder failed: %v", err)
	}

	orphanInput := testOrderInput("002")
	orphanInput.CustomerName = "Client Fantôme"
	orphan, err := orders.CreateOrder(ctx, orphanInput)
	if err != nil {
		t.Fatalf("CreateOrder failed: %v", err)
	}

	clients := core.NewClientService(pool)
	roster, err := clients.ListClients(ctx)
	if err != nil {
		t.Fatalf("ListClients failed: %v", err)
	}
	for _, c := range roster {
		if c.FullName == "Client Fantôme" {
			if err := clients.DeleteClient(ctx, c.ID); err != nil {
				t.Fatalf("DeleteClient failed: %v", err)
			}
		}
	}

	list, err := orders.ListOrders(ctx)
	if err != nil {
		t.Fatalf("ListOrders failed: %v", err)
	}
	if len(list.Orders) != 1 || list.Orders[0].ID != kept.ID {
		t.Errorf("expected only the intact order, got %d orders", len(list.Orders))
	}
	if len(list.Corrupt) != 1 || list.Corrupt[0].OrderID != orphan.ID {
		t.Errorf("expected the orphan in Corrupt, got %+v", list.Corrupt)
	}

	if _, err := orders.GetOrder(ctx, orphan.ID); !errors.Is(err, core.ErrCorruptRecord) {
		t.Errorf("expected ErrCorruptRecord on direct read, got %v", err)
	}
}
