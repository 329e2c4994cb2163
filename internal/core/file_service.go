package core

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ObjectStorage is the blob store behind file attachments. The S3 adapter in
// internal/storage implements it; tests use the in-memory stub.
type ObjectStorage interface {
	Put(ctx context.Context, key, contentType string, body io.Reader, size int64) error
	PresignDownload(ctx context.Context, key string, expiry time.Duration) (string, error)
	Delete(ctx context.Context, key string) error
}

// FileService tracks uploaded attachments: the metadata row lives in
// Postgres, the bytes in object storage.
type FileService interface {
	Upload(ctx context.Context, in FileUpload) (*UploadedFile, error)
	ListFiles(ctx context.Context) ([]UploadedFile, error)

	// DownloadURL returns a presigned link valid for a short window.
	DownloadURL(ctx context.Context, id string) (string, error)

	// DeleteFile removes the metadata row first, then the object. A
	// dangling object is preferable to a dangling row.
	DeleteFile(ctx context.Context, id string) error
}

// FileUpload carries one incoming attachment.
type FileUpload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
	UploadedBy  *string
}

const downloadExpiry = 15 * time.Minute

type fileService struct {
	pool  *pgxpool.Pool
	store ObjectStorage
}

func NewFileService(pool *pgxpool.Pool, store ObjectStorage) FileService {
	return &fileService{pool: pool, store: store}
}

func (s *fileService) Upload(ctx context.Context, in FileUpload) (*UploadedFile, error) {
	if in.Filename == "" {
		return nil, fmt.Errorf("%w: filename is required", ErrInvalidOrder)
	}

	key := uuid.NewString() + filepath.Ext(in.Filename)

	ctx, cancel := opCtx(ctx)
	defer cancel()

	if err := s.store.Put(ctx, key, in.ContentType, in.Body, in.Size); err != nil {
		return nil, fmt.Errorf("store object %s: %w", key, err)
	}

	var f UploadedFile
	err := s.pool.QueryRow(ctx, `
		INSERT INTO uploaded_files (original_filename, file_path, content_type, size_bytes, uploaded_by)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id::text, original_filename, file_path, content_type, size_bytes, uploaded_by::text, uploaded_at
	`, in.Filename, key, in.ContentType, in.Size, in.UploadedBy).Scan(
		&f.ID, &f.OriginalFilename, &f.StorageKey, &f.ContentType, &f.SizeBytes, &f.UploadedBy, &f.UploadedAt)
	if err != nil {
		// The object is already written; remove it so a failed upload leaves
		// no orphan blob behind.
		if delErr := s.store.Delete(ctx, key); delErr != nil {
			return nil, fmt.Errorf("insert file (orphan object %s left behind: %v): %w",
				key, delErr, classify(err))
		}
		return nil, fmt.Errorf("insert file: %w", classify(err))
	}
	return &f, nil
}

func (s *fileService) ListFiles(ctx context.Context) ([]UploadedFile, error) {
	ctx, cancel := opCtx(ctx)
	defer cancel()

	rows, err := s.pool.Query(ctx, `
		SELECT id::text, original_filename, file_path, content_type, size_bytes, uploaded_by::text, uploaded_at
		FROM uploaded_files
		ORDER BY uploaded_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("query files: %w", classify(err))
	}
	defer rows.Close()

	var files []UploadedFile
	for rows.Next() {
		var f UploadedFile
		if err := rows.Scan(&f.ID, &f.OriginalFilename, &f.StorageKey, &f.ContentType,
			&f.SizeBytes, &f.UploadedBy, &f.UploadedAt); err != nil {
			return nil, fmt.Errorf("scan file: %w", err)
		}
		files = append(files, f)
	}
	return files, rows.Err()
}

func (s *fileService) DownloadURL(ctx context.Context, id string) (string, error) {
	ctx, cancel := opCtx(ctx)
	defer cancel()

	var key string
	err := s.pool.QueryRow(ctx,
		"SELECT file_path FROM uploaded_files WHERE id = $1", id).Scan(&key)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", fmt.Errorf("%w: %s", ErrFileNotFound, id)
	}
	if err != nil {
		return "", fmt.Errorf("fetch file %s: %w", id, classify(err))
	}

	url, err := s.store.PresignDownload(ctx, key, downloadExpiry)
	if err != nil {
		return "", fmt.Errorf("presign %s: %w", key, err)
	}
	return url, nil
}

func (s *fileService) DeleteFile(ctx context.Context, id string) error {
	ctx, cancel := opCtx(ctx)
	defer cancel()

	var key string
	err := s.pool.QueryRow(ctx,
		"DELETE FROM uploaded_files WHERE id = $1 RETURNING file_path", id).Scan(&key)
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%w: %s", ErrFileNotFound, id)
	}
	if err != nil {
		return fmt.Errorf("delete file %s: %w", id, classify(err))
	}

	if err := s.store.Delete(ctx, key); err != nil {
		return fmt.Errorf("delete object %s: %w", key, err)
	}
	return nil
}
