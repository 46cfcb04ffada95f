package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/octobees/leads-manager/internal/dto"
	"github.com/octobees/leads-manager/internal/entity"
)

// ErrLeadNotFound is returned when no lead matches the given id.
var ErrLeadNotFound = errors.New("lead not found")

// LeadsRepository describes persistence operations for leads.
type LeadsRepository interface {
	List(ctx context.Context, filters dto.LeadFilters) ([]entity.Lead, error)
	FindByID(ctx context.Context, id int64) (*entity.Lead, error)
	Create(ctx context.Context, input dto.LeadCreate) (*entity.Lead, error)
	CreateMany(ctx context.Context, inputs []dto.LeadCreate) (int, error)
	Update(ctx context.Context, id int64, input dto.LeadUpdate) (*entity.Lead, error)
	Delete(ctx context.Context, id int64) error
}

type pgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
}

var _ pgxPool = (*pgxpool.Pool)(nil)

const leadColumns = `id, name, job_title, phone_number, company, email, headcount, industry, created_at, updated_at`

const insertLeadSQL = `
        INSERT INTO leads (name, job_title, phone_number, company, email, headcount, industry)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING ` + leadColumns

// PGXLeadsRepository implements LeadsRepository using pgx.
type PGXLeadsRepository struct {
	pool pgxPool
}

// NewPGXLeadsRepository wires a pgx backed repository.
func NewPGXLeadsRepository(pool *pgxpool.Pool) *PGXLeadsRepository {
	return &PGXLeadsRepository{pool: pool}
}

// List returns leads matching filters ordered by id.
func (r *PGXLeadsRepository) List(ctx context.Context, filters dto.LeadFilters) ([]entity.Lead, error) {
	query := strings.Builder{}
	query.WriteString("SELECT " + leadColumns + " FROM leads")

	var (
		clauses []string
		args    []any
		idx     = 1
	)
	if filters.Industry != "" {
		clauses = append(clauses, fmt.Sprintf("industry = $%d", idx))
		args = append(args, filters.Industry)
		idx++
	}
	if filters.HeadcountMin != nil {
		clauses = append(clauses, fmt.Sprintf("headcount >= $%d", idx))
		args = append(args, *filters.HeadcountMin)
		idx++
	}
	if filters.HeadcountMax != nil {
		clauses = append(clauses, fmt.Sprintf("headcount <= $%d", idx))
		args = append(args, *filters.HeadcountMax)
	}
	if len(clauses) > 0 {
		query.WriteString(" WHERE ")
		query.WriteString(strings.Join(clauses, " AND "))
	}
	query.WriteString(" ORDER BY id ASC")

	rows, err := r.pool.Query(ctx, query.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("list leads: %w", err)
	}
	defer rows.Close()

	leads := make([]entity.Lead, 0)
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, fmt.Errorf("scan lead row: %w", err)
		}
		leads = append(leads, *lead)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate leads: %w", err)
	}
	return leads, nil
}

// FindByID retrieves a lead by identifier.
func (r *PGXLeadsRepository) FindByID(ctx context.Context, id int64) (*entity.Lead, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+leadColumns+` FROM leads WHERE id = $1`, id)

	lead, err := scanLead(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrLeadNotFound
		}
		return nil, fmt.Errorf("query lead by id: %w", err)
	}
	return lead, nil
}

// Create inserts a new lead row.
func (r *PGXLeadsRepository) Create(ctx context.Context, input dto.LeadCreate) (*entity.Lead, error) {
	row := r.pool.QueryRow(ctx, insertLeadSQL, insertArgs(input)...)

	lead, err := scanLead(row)
	if err != nil {
		return nil, fmt.Errorf("insert lead: %w", err)
	}
	return lead, nil
}

// CreateMany inserts a batch of leads in a single transaction.
func (r *PGXLeadsRepository) CreateMany(ctx context.Context, inputs []dto.LeadCreate) (int, error) {
	if len(inputs) == 0 {
		return 0, nil
	}

	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return 0, fmt.Errorf("start lead import tx: %w", err)
	}
	defer tx.Rollback(ctx)

	for i, input := range inputs {
		if _, err := tx.Exec(ctx, insertLeadSQL, insertArgs(input)...); err != nil {
			return 0, fmt.Errorf("import lead %d (%q): %w", i+1, input.Name, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit lead import tx: %w", err)
	}
	return len(inputs), nil
}

// Update patches the provided attributes and stamps updated_at.
func (r *PGXLeadsRepository) Update(ctx context.Context, id int64, input dto.LeadUpdate) (*entity.Lead, error) {
	setClauses := make([]string, 0)
	args := make([]any, 0)
	idx := 1

	set := func(column string, value any) {
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", column, idx))
		args = append(args, value)
		idx++
	}
	if input.Name != nil {
		set("name", *input.Name)
	}
	if input.JobTitle != nil {
		set("job_title", *input.JobTitle)
	}
	if input.PhoneNumber != nil {
		set("phone_number", *input.PhoneNumber)
	}
	if input.Company != nil {
		set("company", *input.Company)
	}
	if input.Email != nil {
		set("email", *input.Email)
	}
	if input.Headcount != nil {
		set("headcount", *input.Headcount)
	}
	if input.Industry != nil {
		set("industry", *input.Industry)
	}

	setClauses = append(setClauses, "updated_at = NOW()")
	args = append(args, id)

	query := fmt.Sprintf(`UPDATE leads SET %s WHERE id = $%d RETURNING %s`, strings.Join(setClauses, ", "), idx, leadColumns)

	lead, err := scanLead(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrLeadNotFound
		}
		return nil, fmt.Errorf("update lead: %w", err)
	}
	return lead, nil
}

// Delete removes a lead by id.
func (r *PGXLeadsRepository) Delete(ctx context.Context, id int64) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM leads WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete lead: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrLeadNotFound
	}
	return nil
}

func insertArgs(input dto.LeadCreate) []any {
	return []any{
		input.Name,
		input.JobTitle,
		input.PhoneNumber,
		input.Company,
		input.Email,
		input.Headcount,
		input.Industry,
	}
}

func scanLead(row pgx.Row) (*entity.Lead, error) {
	var lead entity.Lead
	err := row.Scan(
		&lead.ID,
		&lead.Name,
		&lead.JobTitle,
		&lead.PhoneNumber,
		&lead.Company,
		&lead.Email,
		&lead.Headcount,
		&lead.Industry,
		&lead.CreatedAt,
		&lead.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &lead, nil
}

var _ LeadsRepository = (*PGXLeadsRepository)(nil)
