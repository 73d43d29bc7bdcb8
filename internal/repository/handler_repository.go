package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/enquiry-console/internal/domain"
)

// HandlerRepository handles persistence for staff handlers.
type HandlerRepository interface {
	Create(ctx context.Context, handler *domain.Handler) error
	Update(ctx context.Context, handler *domain.Handler) error
	GetByID(ctx context.Context, id string) (*domain.Handler, error)
	GetByEmail(ctx context.Context, email string) (*domain.Handler, error)
	List(ctx context.Context, filter HandlerFilter) ([]domain.Handler, error)
}

// HandlerFilter defines query params for handler listing.
type HandlerFilter struct {
	Role  *domain.HandlerRole
	State *domain.HandlerState
}

type handlerRepository struct {
	pool *pgxpool.Pool
}

// NewHandlerRepository instantiates the repository.
func NewHandlerRepository(pool *pgxpool.Pool) HandlerRepository {
	return &handlerRepository{pool: pool}
}

const handlerColumns = `id::text, name, email, password_hash, role, state, created_at, updated_at`

func (r *handlerRepository) Create(ctx context.Context, handler *domain.Handler) error {
	const query = `
        INSERT INTO handlers (name, email, password_hash, role, state)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id::text, created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		handler.Name,
		handler.Email,
		handler.PasswordHash,
		handler.Role,
		handler.State,
	).Scan(&handler.ID, &handler.CreatedAt, &handler.UpdatedAt)
}

func (r *handlerRepository) Update(ctx context.Context, handler *domain.Handler) error {
	const query = `
        UPDATE handlers
        SET name=$1, email=$2, password_hash=$3, role=$4, state=$5, updated_at=NOW()
        WHERE id=$6
        RETURNING updated_at`

	err := r.pool.QueryRow(ctx, query,
		handler.Name,
		handler.Email,
		handler.PasswordHash,
		handler.Role,
		handler.State,
		handler.ID,
	).Scan(&handler.UpdatedAt)
	return err
}

func (r *handlerRepository) GetByID(ctx context.Context, id string) (*domain.Handler, error) {
	query := `SELECT ` + handlerColumns + ` FROM handlers WHERE id=$1`
	return scanHandler(r.pool.QueryRow(ctx, query, id))
}

func (r *handlerRepository) GetByEmail(ctx context.Context, email string) (*domain.Handler, error) {
	query := `SELECT ` + handlerColumns + ` FROM handlers WHERE LOWER(email)=LOWER($1)`
	return scanHandler(r.pool.QueryRow(ctx, query, email))
}

func (r *handlerRepository) List(ctx context.Context, filter HandlerFilter) ([]domain.Handler, error) {
	query := `SELECT ` + handlerColumns + ` FROM handlers`
	args := []any{}
	clauses := []string{}

	if filter.Role != nil {
		args = append(args, *filter.Role)
		clauses = append(clauses, fmt.Sprintf("role=$%d", len(args)))
	}
	if filter.State != nil {
		args = append(args, *filter.State)
		clauses = append(clauses, fmt.Sprintf("state=$%d", len(args)))
	}
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY LOWER(name) ASC, id ASC"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Handler
	for rows.Next() {
		handler, err := scanHandler(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *handler)
	}
	return result, rows.Err()
}

func scanHandler(row pgx.Row) (*domain.Handler, error) {
	var handler domain.Handler
	if err := row.Scan(
		&handler.ID,
		&handler.Name,
		&handler.Email,
		&handler.PasswordHash,
		&handler.Role,
		&handler.State,
		&handler.CreatedAt,
		&handler.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &handler, nil
}
