package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ClientService exposes the client roster. Clients are created implicitly by
// order writes; this service only reads and edits the shared snapshots.
type ClientService interface {
	ListClients(ctx context.Context) ([]Client, error)
	GetClient(ctx context.Context, id string) (*Client, error)

	// UpdateClient overwrites the shared snapshot. Every order under this
	// client shows the new contact details afterwards.
	UpdateClient(ctx context.Context, id string, in ClientInput) (*Client, error)

	// DeleteClient removes the client. Orders that referenced it keep their
	// headers but lose the relation and surface as corrupt in order lists.
	DeleteClient(ctx context.Context, id string) error
}

type clientService struct {
	pool *pgxpool.Pool
}

func NewClientService(pool *pgxpool.Pool) ClientService {
	return &clientService{pool: pool}
}

func (s *clientService) ListClients(ctx context.Context) ([]Client, error) {
	ctx, cancel := opCtx(ctx)
	defer cancel()

	rows, err := s.pool.Query(ctx, `
		SELECT c.id::text, c.nom_complet, c.adresse, c.email, c.telephone,
		       count(co.id), c.created_at
		FROM clients c
		LEFT JOIN commandes co ON co.client_id = c.id
		GROUP BY c.id
		ORDER BY c.nom_complet
	`)
	if err != nil {
		return nil, fmt.Errorf("query clients: %w", classify(err))
	}
	defer rows.Close()

	var clients []Client
	for rows.Next() {
		var c Client
		if err := rows.Scan(&c.ID, &c.FullName, &c.Address, &c.Email, &c.Phone,
			&c.OrderCount, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan client: %w", err)
		}
		clients = append(clients, c)
	}
	return clients, rows.Err()
}

func (s *clientService) GetClient(ctx context.Context, id string) (*Client, error) {
	ctx, cancel := opCtx(ctx)
	defer cancel()

	var c Client
	err := s.pool.QueryRow(ctx, `
		SELECT c.id::text, c.nom_complet, c.adresse, c.email, c.telephone,
		       count(co.id), c.created_at
		FROM clients c
		LEFT JOIN commandes co ON co.client_id = c.id
		WHERE c.id = $1
		GROUP BY c.id
	`, id).Scan(&c.ID, &c.FullName, &c.Address, &c.Email, &c.Phone,
		&c.OrderCount, &c.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrClientNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("fetch client %s: %w", id, classify(err))
	}
	return &c, nil
}

func (s *clientService) UpdateClient(ctx context.Context, id string, in ClientInput) (*Client, error) {
	if in.FullName == "" {
		return nil, fmt.Errorf("%w: full name is required", ErrInvalidOrder)
	}

	ctx, cancel := opCtx(ctx)
	defer cancel()

	tag, err := s.pool.Exec(ctx, `
		UPDATE clients SET nom_complet = $1, adresse = $2, email = $3, telephone = $4
		WHERE id = $5
	`, in.FullName, in.Address, toPtr(in.Email), toPtr(in.Phone), id)
	if err != nil {
		return nil, fmt.Errorf("update client %s: %w", id, classify(err))
	}
	if tag.RowsAffected() == 0 {
		return nil, fmt.Errorf("%w: %s", ErrClientNotFound, id)
	}
	return s.GetClient(ctx, id)
}

func (s *clientService) DeleteClient(ctx context.Context, id string) error {
	ctx, cancel := opCtx(ctx)
	defer cancel()

	tag, err := s.pool.Exec(ctx, "DELETE FROM clients WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete client %s: %w", id, classify(err))
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", ErrClientNotFound, id)
	}
	return nil
}
