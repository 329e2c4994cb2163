package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"

	webAdapter "studio-orders/internal/adapters/web"
	"studio-orders/internal/app"
	"studio-orders/internal/core"
	"studio-orders/internal/db"
	"studio-orders/internal/notify"
	"studio-orders/internal/storage"
)

func main() {
	_ = godotenv.Load()

	ctx := context.Background()
	pool, err := db.NewPool(ctx)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer pool.Close()

	if v := os.Getenv("STORAGE_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			log.Fatalf("invalid STORAGE_TIMEOUT %q", v)
		}
		core.StorageTimeout = d
	}

	allocatorMode := core.AllocatorSequence
	if os.Getenv("INVOICE_ALLOCATOR") == "scan" {
		allocatorMode = core.AllocatorMaxScan
	}
	catalogPolicy := core.OverwriteOnConflict
	if p := os.Getenv("CATALOG_POLICY"); p != "" {
		catalogPolicy = core.CatalogPolicy(p)
		if !catalogPolicy.Valid() {
			log.Fatalf("invalid CATALOG_POLICY %q", p)
		}
	}

	var store core.ObjectStorage
	if bucket := os.Getenv("S3_BUCKET"); bucket != "" {
		s3Store, err := storage.NewS3Store(ctx, storage.Config{
			Bucket:       bucket,
			Region:       os.Getenv("S3_REGION"),
			AccessKey:    os.Getenv("S3_ACCESS_KEY"),
			SecretKey:    os.Getenv("S3_SECRET_KEY"),
			Endpoint:     os.Getenv("S3_ENDPOINT"),
			UsePathStyle: os.Getenv("S3_USE_PATH_STYLE") == "true",
		})
		if err != nil {
			log.Fatalf("object storage: %v", err)
		}
		store = s3Store
	} else {
		log.Println("Warning: S3_BUCKET is not set, using in-memory object storage")
		store = storage.NewMemoryStore()
	}

	var mailer notify.Mailer
	if apiKey := os.Getenv("RESEND_API_KEY"); apiKey != "" {
		mailer = notify.NewResendMailer(apiKey, os.Getenv("MAIL_FROM"))
	} else {
		log.Println("Warning: RESEND_API_KEY is not set, confirmation emails are recorded only")
		mailer = &notify.RecordingMailer{}
	}

	invoiceService := core.NewInvoiceService(pool, allocatorMode)
	catalogService := core.NewCatalogService(pool, catalogPolicy)
	orderService := core.NewOrderService(pool, catalogService)
	clientService := core.NewClientService(pool)
	statsService := core.NewStatsService(pool)
	userService := core.NewUserService(pool)
	fileService := core.NewFileService(pool, store)

	svc := app.NewAppService(invoiceService, orderService, catalogService,
		clientService, statsService, userService, fileService, mailer)

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal("JWT_SECRET environment variable not set")
	}

	port := os.Getenv("SERVER_PORT")
	if port == "" {
		port = "8080"
	}

	allowedOrigins := os.Getenv("ALLOWED_ORIGINS")
	handler := webAdapter.NewHandler(svc, allowedOrigins, jwtSecret)

	log.Printf("server starting on :%s", port)
	if err := http.ListenAndServe(":"+port, handler); err != nil {
		log.Fatalf("server: %v", err)
	}
}
