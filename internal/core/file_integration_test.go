package core_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"studio-orders/internal/core"
	"studio-orders/internal/storage"
)

func TestFileService_UploadListDownloadDelete(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	ctx := context.Background()

	store := storage.NewMemoryStore()
	files := core.NewFileService(pool, store)

	content := "facture scannée"
	uploaded, err := files.Upload(ctx, core.FileUpload{
		Filename:    "facture-001.pdf",
		ContentType: "application/pdf",
		Size:        int64(len(content)),
		Body:        strings.NewReader(content),
	})
	if err != nil {
		t.Fatalf("Upload failed: %v", err)
	}
	if uploaded.OriginalFilename != "facture-001.pdf" {
		t.Errorf("filename: got %q", uploaded.OriginalFilename)
	}
	if !strings.HasSuffix(uploaded.StorageKey, ".pdf") {
		t.Errorf("storage key should keep the extension, got %q", uploaded.StorageKey)
	}
	if data, ok := store.Get(uploaded.StorageKey); !ok || string(data) != content {
		t.Errorf("object not stored correctly")
	}

	listed, err := files.ListFiles(ctx)
	if err != nil {
		t.Fatalf("ListFiles failed: %v", err)
	}
	if len(listed) != 1 || listed[0].ID != uploaded.ID {
		t.Fatalf("expected the uploaded file in the list, got %+v", listed)
	}

	url, err := files.DownloadURL(ctx, uploaded.ID)
	if err != nil {
		t.Fatalf("DownloadURL failed: %v", err)
	}
	if url == "" {
		t.Error("expected a non-empty download url")
	}

	if err := files.DeleteFile(ctx, uploaded.ID); err != nil {
		t.Fatalf("DeleteFile failed: %v", err)
	}
	if _, ok := store.Get(uploaded.StorageKey); ok {
		t.Error("object should be removed with the metadata row")
	}
	if _, err := files.DownloadURL(ctx, uploaded.ID); !errors.Is(err, core.ErrFileNotFound) {
		t.Errorf("expected ErrFileNotFound, got %v", err)
	}
}

func TestFileService_UploadRequiresFilename(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	files := core.NewFileService(pool, storage.NewMemoryStore())
	_, err := files.Upload(context.Background(), core.FileUpload{Body: strings.NewReader("x")})
	if !errors.Is(err, core.ErrInvalidOrder) {
		t.Fatalf("expected ErrInvalidOrder, got %v", err)
	}
}
