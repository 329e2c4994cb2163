package core_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"studio-orders/internal/core"
)

func TestStatsService_AllPeriod(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	ctx := context.Background()

	orders, _ := newOrderService(pool, core.OverwriteOnConflict)

	paid := testOrderInput("001")
	paid.TotalAmount = decimal.NewFromInt(100)
	paid.IsPaid = true
	paid.PaymentMethod = core.PaymentCash
	if _, err := orders.CreateOrder(ctx, paid); err != nil {
		t.Fatalf("CreateOrder failed: %v", err)
	}

	unpaid := testOrderInput("002")
	unpaid.TotalAmount = decimal.NewFromInt(50)
	unpaid.Status = core.StatusDelivered
	if _, err := orders.CreateOrder(ctx, unpaid); err != nil {
		t.Fatalf("CreateOrder failed: %v", err)
	}

	stats := core.NewStatsService(pool)
	got, err := stats.GetStats(ctx, core.PeriodAll)
	if err != nil {
		t.Fatalf("GetStats failed: %v", err)
	}

	if got.OrderCount != 2 {
		t.Errorf("order count: got %d", got.OrderCount)
	}
	if !got.Revenue.Equal(decimal.NewFromInt(150)) {
		t.Errorf("revenue: got %s", got.Revenue)
	}
	if got.PaidCount != 1 || got.UnpaidCount != 1 {
		t.Errorf("paid/unpaid: got %d/%d", got.PaidCount, got.UnpaidCount)
	}
	if !got.AverageOrder.Equal(decimal.NewFromInt(75)) {
		t.Errorf("average: got %s", got.AverageOrder)
	}
	if got.StatusCounts[core.StatusOrdered] != 1 || got.StatusCounts[core.StatusDelivered] != 1 {
		t.Errorf("status counts: got %+v", got.StatusCounts)
	}
}

func TestStatsService_TodayExcludesOtherDays(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	ctx := context.Background()

	orders, _ := newOrderService(pool, core.OverwriteOnConflict)

	today := testOrderInput("001")
	today.Date = time.Now().Format("2006-01-02")
	today.TotalAmount = decimal.NewFromInt(80)
	if _, err := orders.CreateOrder(ctx, today); err != nil {
		t.Fatalf("CreateOrder failed: %v", err)
	}

	yesterday := testOrderInput("002")
	yesterday.Date = time.Now().AddDate(0, 0, -1).Format("2006-01-02")
	yesterday.TotalAmount = decimal.NewFromInt(40)
	if _, err := orders.CreateOrder(ctx, yesterday); err != nil {
		t.Fatalf("CreateOrder failed: %v", err)
	}

	stats := core.NewStatsService(pool)
	got, err := stats.GetStats(ctx, core.PeriodToday)
	if err != nil {
		t.Fatalf("GetStats failed: %v", err)
	}
	if got.OrderCount != 1 {
		t.Errorf("expected only today's order, got %d", got.OrderCount)
	}
	if !got.Revenue.Equal(decimal.NewFromInt(80)) {
		t.Errorf("revenue: got %s", got.Revenue)
	}
	// Yesterday is the comparison window for today.
	if !got.PrevRevenue.Equal(decimal.NewFromInt(40)) {
		t.Errorf("previous revenue: got %s", got.PrevRevenue)
	}
	if got.RevenueGrowth == nil || *got.RevenueGrowth != 100.0 {
		t.Errorf("growth: got %v", got.RevenueGrowth)
	}
}

func TestStatsService_InvalidPeriod(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	stats := core.NewStatsService(pool)
	_, err := stats.GetStats(context.Background(), "quarter")
	if !errors.Is(err, core.ErrInvalidOrder) {
		t.Fatalf("expected ErrInvalidOrder, got %v", err)
	}
}
