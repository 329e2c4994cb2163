package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
)

// Error kinds surfaced by every service. Callers match them with errors.Is;
// the web adapter maps each kind to an HTTP status.
var (
	// ErrStorageUnavailable means the database could not be reached or the
	// call timed out. The operation may be retried by the caller.
	ErrStorageUnavailable = errors.New("storage unavailable")

	// ErrDuplicateInvoiceNumber is a unique-constraint violation on
	// numero_facture at insert time. The caller should request a fresh
	// invoice number and retry once.
	ErrDuplicateInvoiceNumber = errors.New("duplicate invoice number")

	// ErrInvalidLineItem marks a product line item missing its name or
	// reference. Not retryable without caller correction.
	ErrInvalidLineItem = errors.New("invalid line item")

	// ErrInvalidOrder marks a header-level validation failure, e.g. a paid
	// order without a payment method.
	ErrInvalidOrder = errors.New("invalid order")

	ErrOrderNotFound  = errors.New("order not found")
	ErrClientNotFound = errors.New("client not found")
	ErrFileNotFound   = errors.New("file not found")

	// ErrCorruptRecord marks a stored row whose expected relations are
	// missing (an order without a client).
	ErrCorruptRecord = errors.New("corrupt record")

	// ErrCatalogConflict is returned under the RejectOnConflict catalog
	// policy when a line item reuses a reference with different display
	// fields.
	ErrCatalogConflict = errors.New("catalog entry conflict")

	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountPending     = errors.New("account pending approval")
)

// StorageTimeout bounds every storage round-trip. A deadline hit is
// classified as ErrStorageUnavailable.
var StorageTimeout = 10 * time.Second

func opCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, StorageTimeout)
}

const pgUniqueViolation = "23505"

// classify maps a raw pgx error onto one of the kinds above. Unique
// violations on the invoice number become ErrDuplicateInvoiceNumber;
// connection failures and timeouts become ErrStorageUnavailable; anything
// else passes through for the caller to wrap.
func classify(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == pgUniqueViolation && pgErr.ConstraintName == "commandes_numero_facture_key" {
			return fmt.Errorf("%w (%s)", ErrDuplicateInvoiceNumber, pgErr.ConstraintName)
		}
		return err
	}
	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) {
		return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	if errors.Is(err, context.DeadlineExceeded) || pgconn.Timeout(err) {
		return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	return err
}
