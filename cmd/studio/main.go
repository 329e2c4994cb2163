package main

import (
	"context"
	"log"
	"os"

	"github.com/joho/godotenv"

	"studio-orders/internal/adapters/cli"
	"studio-orders/internal/app"
	"studio-orders/internal/core"
	"studio-orders/internal/db"
	"studio-orders/internal/notify"
	"studio-orders/internal/storage"
)

func main() {
	_ = godotenv.Load()

	if len(os.Args) < 2 {
		log.Fatal("Usage: studio <command> [args]\nAvailable: orders, next-invoice, create, clients, stats, export, approve-user")
	}

	ctx := context.Background()
	pool, err := db.NewPool(ctx)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer pool.Close()

	invoiceService := core.NewInvoiceService(pool, core.AllocatorSequence)
	catalogService := core.NewCatalogService(pool, core.OverwriteOnConflict)
	orderService := core.NewOrderService(pool, catalogService)
	clientService := core.NewClientService(pool)
	statsService := core.NewStatsService(pool)
	userService := core.NewUserService(pool)
	fileService := core.NewFileService(pool, storage.NewMemoryStore())

	svc := app.NewAppService(invoiceService, orderService, catalogService,
		clientService, statsService, userService, fileService, &notify.RecordingMailer{})

	cli.Run(ctx, svc, os.Args[1:])
}
