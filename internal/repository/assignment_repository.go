package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/enquiry-console/internal/domain"
)

// AssignmentRepository stores handler-change audit entries.
type AssignmentRepository interface {
	Create(ctx context.Context, record *domain.AssignmentRecord) error
	ListByLead(ctx context.Context, leadID string) ([]domain.AssignmentRecord, error)
}

type assignmentRepository struct {
	db DBTX
}

// NewAssignmentRepository builds repository.
func NewAssignmentRepository(pool *pgxpool.Pool) AssignmentRepository {
	return &assignmentRepository{db: pool}
}

func (r *assignmentRepository) Create(ctx context.Context, record *domain.AssignmentRecord) error {
	const query = `
        INSERT INTO lead_assignments (lead_id, actor_id, old_handler, new_handler, suggested_handler_id, overridden)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING id::text, created_at`
	return r.db.QueryRow(ctx, query,
		record.LeadID,
		record.ActorID,
		record.OldHandler.String(),
		record.NewHandler.String(),
		record.SuggestedHandlerID,
		record.Overridden,
	).Scan(&record.ID, &record.CreatedAt)
}

func (r *assignmentRepository) ListByLead(ctx context.Context, leadID string) ([]domain.AssignmentRecord, error) {
	const query = `
        SELECT id::text, lead_id::text, actor_id::text, old_handler, new_handler, suggested_handler_id, overridden, created_at
        FROM lead_assignments WHERE lead_id=$1 ORDER BY created_at ASC`
	rows, err := r.db.Query(ctx, query, leadID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.AssignmentRecord
	for rows.Next() {
		var (
			record     domain.AssignmentRecord
			oldHandler string
			newHandler string
		)
		if err := rows.Scan(
			&record.ID,
			&record.LeadID,
			&record.ActorID,
			&oldHandler,
			&newHandler,
			&record.SuggestedHandlerID,
			&record.Overridden,
			&record.CreatedAt,
		); err != nil {
			return nil, err
		}
		record.OldHandler = domain.ParseHandlerRef(oldHandler)
		record.NewHandler = domain.ParseHandlerRef(newHandler)
		result = append(result, record)
	}
	return result, rows.Err()
}
