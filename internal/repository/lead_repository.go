package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/enquiry-console/internal/domain"
)

// LeadPatch names the enquiry columns an update touches.
type LeadPatch struct {
	Handler          *domain.HandlerRef
	Disposition      *string
	BusinessName     *string
	Notes            *string
	SecondaryContact *string
}

// LeadRepository encapsulates enquiry persistence.
type LeadRepository interface {
	Create(ctx context.Context, lead *domain.Lead) error
	Update(ctx context.Context, id string, patch LeadPatch) (*domain.Lead, domain.HandlerRef, error)
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Lead, error)
	ListAll(ctx context.Context) ([]*domain.Lead, error)
}

type leadRepository struct {
	db DBTX
}

// NewLeadRepository instantiates repository.
func NewLeadRepository(pool *pgxpool.Pool) LeadRepository {
	return &leadRepository{db: pool}
}

const leadColumns = `id::text, contact_name, phone, handler, disposition, business_name, notes, secondary_contact, created_at, updated_at`

func (r *leadRepository) Create(ctx context.Context, lead *domain.Lead) error {
	const query = `
        INSERT INTO enquiries (contact_name, phone, handler, disposition, business_name, notes, secondary_contact)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        RETURNING id::text, created_at, updated_at`
	return r.db.QueryRow(ctx, query,
		lead.ContactName,
		lead.Phone,
		lead.Handler.String(),
		lead.Disposition,
		lead.BusinessName,
		lead.Notes,
		lead.SecondaryContact,
	).Scan(&lead.ID, &lead.CreatedAt, &lead.UpdatedAt)
}

// Update applies the named columns and returns the full row together with the
// handler value it replaced. The previous value is read under the same row lock.
func (r *leadRepository) Update(ctx context.Context, id string, patch LeadPatch) (*domain.Lead, domain.HandlerRef, error) {
	sets := []string{"updated_at=clock_timestamp()"}
	args := []any{id}

	if patch.Handler != nil {
		args = append(args, patch.Handler.String())
		sets = append(sets, fmt.Sprintf("handler=$%d", len(args)))
	}
	if patch.Disposition != nil {
		args = append(args, *patch.Disposition)
		sets = append(sets, fmt.Sprintf("disposition=$%d", len(args)))
	}
	if patch.BusinessName != nil {
		args = append(args, *patch.BusinessName)
		sets = append(sets, fmt.Sprintf("business_name=$%d", len(args)))
	}
	if patch.Notes != nil {
		args = append(args, *patch.Notes)
		sets = append(sets, fmt.Sprintf("notes=$%d", len(args)))
	}
	if patch.SecondaryContact != nil {
		args = append(args, *patch.SecondaryContact)
		sets = append(sets, fmt.Sprintf("secondary_contact=$%d", len(args)))
	}

	query := fmt.Sprintf(`
        WITH prev AS (SELECT id, handler FROM enquiries WHERE id=$1 FOR UPDATE)
        UPDATE enquiries e SET %s
        FROM prev WHERE e.id = prev.id
        RETURNING prev.handler, e.id::text, e.contact_name, e.phone, e.handler, e.disposition,
                  e.business_name, e.notes, e.secondary_contact, e.created_at, e.updated_at`,
		strings.Join(sets, ", "))

	var previous string
	lead, err := scanLead(r.db.QueryRow(ctx, query, args...), &previous)
	if err != nil {
		return nil, domain.Unassigned(), err
	}
	return lead, domain.ParseHandlerRef(previous), nil
}

func (r *leadRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM enquiries WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *leadRepository) GetByID(ctx context.Context, id string) (*domain.Lead, error) {
	query := `SELECT ` + leadColumns + ` FROM enquiries WHERE id=$1`
	return scanLead(r.db.QueryRow(ctx, query, id))
}

func (r *leadRepository) ListAll(ctx context.Context) ([]*domain.Lead, error) {
	query := `SELECT ` + leadColumns + ` FROM enquiries ORDER BY created_at ASC, id ASC`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*domain.Lead
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, lead)
	}
	return result, rows.Err()
}

func scanLead(row pgx.Row, leading ...any) (*domain.Lead, error) {
	var (
		lead    domain.Lead
		handler string
	)
	dest := append(leading,
		&lead.ID,
		&lead.ContactName,
		&lead.Phone,
		&handler,
		&lead.Disposition,
		&lead.BusinessName,
		&lead.Notes,
		&lead.SecondaryContact,
		&lead.CreatedAt,
		&lead.UpdatedAt,
	)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	lead.Handler = domain.ParseHandlerRef(handler)
	return &lead, nil
}
