package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/orta-study/crm-backend/internal/domain"
)

// ErrEmptyUpdate is returned when an update carries no field to write.
var ErrEmptyUpdate = errors.New("empty update")

// LeadFilter captures listing predicates. All present predicates are AND-combined.
type LeadFilter struct {
	Status     *domain.LeadStatus
	AssignedTo *string
	// VisibleTo restricts the result to leads assigned to this id or unassigned.
	VisibleTo *string
}

// LeadRepository encapsulates lead persistence. Each call is a single statement.
type LeadRepository interface {
	Create(ctx context.Context, lead *domain.Lead) error
	GetByID(ctx context.Context, id string) (*domain.Lead, error)
	List(ctx context.Context, filter LeadFilter) ([]domain.Lead, error)
	Update(ctx context.Context, id string, update domain.LeadUpdate) (*domain.Lead, error)
	Delete(ctx context.Context, id string) error
}

type leadRepository struct {
	pool *pgxpool.Pool
}

// NewLeadRepository instantiates repository.
func NewLeadRepository(pool *pgxpool.Pool) LeadRepository {
	return &leadRepository{pool: pool}
}

const leadColumns = `id, name, email, phone, message, status, assigned_to, created_at, updated_at`

func (r *leadRepository) Create(ctx context.Context, lead *domain.Lead) error {
	const query = `
        INSERT INTO leads (name, email, phone, message, status, assigned_to)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		lead.Name,
		lead.Email,
		lead.Phone,
		lead.Message,
		lead.Status,
		lead.AssignedTo,
	).Scan(&lead.ID, &lead.CreatedAt, &lead.UpdatedAt)
}

func (r *leadRepository) GetByID(ctx context.Context, id string) (*domain.Lead, error) {
	query := `SELECT ` + leadColumns + ` FROM leads WHERE id=$1`
	return scanLead(r.pool.QueryRow(ctx, query, id))
}

func (r *leadRepository) List(ctx context.Context, filter LeadFilter) ([]domain.Lead, error) {
	where, args := buildLeadWhere(filter)
	query := fmt.Sprintf(`SELECT %s FROM leads WHERE %s ORDER BY created_at DESC`, leadColumns, where)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.Lead{}
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *lead)
	}
	return result, rows.Err()
}

func (r *leadRepository) Update(ctx context.Context, id string, update domain.LeadUpdate) (*domain.Lead, error) {
	set, args := buildLeadSet(update)
	if len(set) == 0 {
		return nil, ErrEmptyUpdate
	}
	set = append(set, "updated_at=NOW()")
	args = append(args, id)

	query := fmt.Sprintf(`UPDATE leads SET %s WHERE id=$%d RETURNING %s`,
		strings.Join(set, ", "), len(args), leadColumns)
	return scanLead(r.pool.QueryRow(ctx, query, args...))
}

func (r *leadRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM leads WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func buildLeadWhere(filter LeadFilter) (string, []any) {
	clauses := []string{"1=1"}
	args := []any{}

	if filter.Status != nil {
		args = append(args, *filter.Status)
		clauses = append(clauses, fmt.Sprintf("status=$%d", len(args)))
	}
	if filter.AssignedTo != nil {
		args = append(args, *filter.AssignedTo)
		clauses = append(clauses, fmt.Sprintf("assigned_to=$%d", len(args)))
	}
	if filter.VisibleTo != nil {
		args = append(args, *filter.VisibleTo)
		clauses = append(clauses, fmt.Sprintf("(assigned_to=$%d OR assigned_to IS NULL)", len(args)))
	}
	return strings.Join(clauses, " AND "), args
}

func buildLeadSet(update domain.LeadUpdate) ([]string, []any) {
	set := []string{}
	args := []any{}

	if status, ok := update.Status.Get(); ok {
		args = append(args, status)
		set = append(set, fmt.Sprintf("status=$%d", len(args)))
	}
	if assignee, ok := update.AssignedTo.Get(); ok {
		args = append(args, assignee)
		set = append(set, fmt.Sprintf("assigned_to=$%d", len(args)))
	}
	return set, args
}

func scanLead(row pgx.Row) (*domain.Lead, error) {
	var lead domain.Lead
	if err := row.Scan(
		&lead.ID,
		&lead.Name,
		&lead.Email,
		&lead.Phone,
		&lead.Message,
		&lead.Status,
		&lead.AssignedTo,
		&lead.CreatedAt,
		&lead.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &lead, nil
}
