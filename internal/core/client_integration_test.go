package core_test

import (
	"context"
	"errors"
	"testing"

	"studio-orders/internal/core"
)

func TestClientService_EditAffectsHistoricalOrders(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	ctx := context.Background()

	orders, _ := newOrderService(pool, core.OverwriteOnConflict)
	created, err := orders.CreateOrder(ctx, testOrderInput("001"))
	if err != nil {
		t.Fatalf("CreateOrder failed: %v", err)
	}

	clients := core.NewClientService(pool)
	roster, err := clients.ListClients(ctx)
	if err != nil {
		t.Fatalf("ListClients failed: %v", err)
	}
	if len(roster) != 1 {
		t.Fatalf("expected 1 client, got %d", len(roster))
	}
	if roster[0].OrderCount != 1 {
		t.Errorf("order count: got %d", roster[0].OrderCount)
	}

	_, err = clients.UpdateClient(ctx, roster[0].ID, core.ClientInput{
		FullName: "Marie Delacroix-Bernard",
		Address:  "3 place Bellecour, Lyon",
		Email:    "marie.db@example.com",
	})
	if err != nil {
		t.Fatalf("UpdateClient failed: %v", err)
	}

	// The historical order reflects the edited snapshot.
	got, err := orders.GetOrder(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetOrder failed: %v", err)
	}
	if got.CustomerName != "Marie Delacroix-Bernard" {
		t.Errorf("customer name: got %q", got.CustomerName)
	}
	if got.Address != "3 place Bellecour, Lyon" {
		t.Errorf("address: got %q", got.Address)
	}
}

func TestClientService_DeleteLeavesOrphanedOrders(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	ctx := context.Background()

	orders, _ := newOrderService(pool, core.OverwriteOnConflict)
	created, err := orders.CreateOrder(ctx, testOrderInput("001"))
	if err != nil {
		t.Fatalf("CreateOrder failed: %v", err)
	}

	clients := core.NewClientService(pool)
	roster, err := clients.ListClients(ctx)
	if err != nil {
		t.Fatalf("ListClients failed: %v", err)
	}
	if err := clients.DeleteClient(ctx, roster[0].ID); err != nil {
		t.Fatalf("DeleteClient failed: %v", err)
	}

	if _, err := clients.GetClient(ctx, roster[0].ID); !errors.Is(err, core.ErrClientNotFound) {
		t.Errorf("expected ErrClientNotFound, got %v", err)
	}
	if _, err := orders.GetOrder(ctx, created.ID); !errors.Is(err, core.ErrCorruptRecord) {
		t.Errorf("expected the order to surface as corrupt, got %v", err)
	}
}

func TestClientService_UpdateUnknown(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	ctx := context.Background()

	clients := core.NewClientService(pool)
	_, err := clients.UpdateClient(ctx, "00000000-0000-0000-0000-000000000000",
		core.ClientInput{FullName: "Personne"})
	if !errors.Is(err, core.ErrClientNotFound) {
		t.Fatalf("expected ErrClientNotFound, got %v", err)
	}
}
