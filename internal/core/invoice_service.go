package core

import (
	"context"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5/pgxpool"
)

// InvoiceService allocates sequential invoice numbers.
type InvoiceService interface {
	// NextInvoiceNumber returns the next invoice number as a zero-padded
	// three-digit decimal string ("001", "002", … "010"). Past 999 the
	// string grows in width instead of wrapping.
	NextInvoiceNumber(ctx context.Context) (string, error)
}

// AllocatorMode selects how the next invoice number is derived.
type AllocatorMode int

const (
	// AllocatorMaxScan reads the current maximum numero_facture and
	// increments it. This is the historical behavior and it races: two
	// concurrent callers can read the same maximum and both receive the
	// same next number; the loser surfaces ErrDuplicateInvoiceNumber at
	// insert time and must re-request.
	AllocatorMaxScan AllocatorMode = iota

	// AllocatorSequence bumps the single-row facture_sequences counter
	// atomically. Concurrent callers always receive distinct numbers.
	AllocatorSequence
)

type invoiceService struct {
	pool *pgxpool.Pool
	mode AllocatorMode
}

// NewInvoiceService constructs an InvoiceService using the given allocation
// mode. The server wires AllocatorSequence; AllocatorMaxScan exists for
// parity with the historical store.
func NewInvoiceService(pool *pgxpool.Pool, mode AllocatorMode) InvoiceService {
	return &invoiceService{pool: pool, mode: mode}
}

func (s *invoiceService) NextInvoiceNumber(ctx context.Context) (string, error) {
	ctx, cancel := opCtx(ctx)
	defer cancel()

	if s.mode == AllocatorSequence {
		return s.nextFromSequence(ctx)
	}
	return s.nextFromScan(ctx)
}

func (s *invoiceService) nextFromScan(ctx context.Context) (string, error) {
	var last *string
	err := s.pool.QueryRow(ctx, "SELECT max(numero_facture) FROM commandes").Scan(&last)
	if err != nil {
		return "", fmt.Errorf("read last invoice number: %w", classify(err))
	}

	next := 1
	if last != nil {
		if n, err := strconv.Atoi(*last); err == nil {
			next = n + 1
		}
	}
	return formatInvoiceNumber(int64(next)), nil
}

func (s *invoiceService) nextFromSequence(ctx context.Context) (string, error) {
	// The seed subquery lets the counter be introduced on a store that
	// already carries invoices.
	var n int64
	err := s.pool.QueryRow(ctx, `
		INSERT INTO facture_sequences (singleton, last_number)
		VALUES (true, (
			SELECT COALESCE(max(numero_facture::bigint), 0) + 1
			FROM commandes
			WHERE numero_facture ~ '^[0-9]+$'
		))
		ON CONFLICT (singleton)
		DO UPDATE SET last_number = facture_sequences.last_number + 1
		RETURNING last_number
	`).Scan(&n)
	if err != nil {
		return "", fmt.Errorf("advance invoice sequence: %w", classify(err))
	}
	return formatInvoiceNumber(n), nil
}

func formatInvoiceNumber(n int64) string {
	return fmt.Sprintf("%03d", n)
}
