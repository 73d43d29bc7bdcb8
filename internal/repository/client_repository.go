package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/enquiry-console/internal/domain"
)

// ClientRepository stores converted clients.
type ClientRepository interface {
	Create(ctx context.Context, client *domain.Client) error
	List(ctx context.Context) ([]domain.Client, error)
	GetByPhone(ctx context.Context, phone string) (*domain.Client, error)
}

type clientRepository struct {
	pool *pgxpool.Pool
}

// NewClientRepository returns a Postgres-backed implementation.
func NewClientRepository(pool *pgxpool.Pool) ClientRepository {
	return &clientRepository{pool: pool}
}

func (r *clientRepository) Create(ctx context.Context, client *domain.Client) error {
	const query = `
        INSERT INTO clients (name, phone, phone_normalized, source_enquiry_id)
        VALUES ($1, $2, $3, $4)
        RETURNING id::text, created_at`

	return r.pool.QueryRow(ctx, query,
		client.Name,
		client.Phone,
		domain.NormalizePhone(client.Phone),
		client.SourceEnquiryID,
	).Scan(&client.ID, &client.CreatedAt)
}

func (r *clientRepository) List(ctx context.Context) ([]domain.Client, error) {
	const query = `
        SELECT id::text, name, phone, source_enquiry_id::text, created_at
        FROM clients ORDER BY created_at ASC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Client
	for rows.Next() {
		var client domain.Client
		if err := rows.Scan(
			&client.ID,
			&client.Name,
			&client.Phone,
			&client.SourceEnquiryID,
			&client.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, client)
	}
	return result, rows.Err()
}

// GetByPhone matches on the normalized number.
func (r *clientRepository) GetByPhone(ctx context.Context, phone string) (*domain.Client, error) {
	const query = `
        SELECT id::text, name, phone, source_enquiry_id::text, created_at
        FROM clients WHERE phone_normalized=$1 ORDER BY created_at ASC LIMIT 1`

	var client domain.Client
	if err := r.pool.QueryRow(ctx, query, domain.NormalizePhone(phone)).Scan(
		&client.ID,
		&client.Name,
		&client.Phone,
		&client.SourceEnquiryID,
		&client.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &client, nil
}
