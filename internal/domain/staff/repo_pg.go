package staff

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/ehr/hms/internal/platform/db"
)

type staffRepoPG struct {
	q db.Querier
}

func NewRepo(q db.Querier) Repository {
	return &staffRepoPG{q: q}
}

const staffCols = `id, first_name, last_name, role, department, email, phone,
	joining_date, status, created_at, updated_at`

func (r *staffRepoPG) Create(ctx context.Context, s *Staff) error {
	err := r.q.QueryRow(ctx, `
		INSERT INTO staff (first_name, last_name, role, department, email, phone, joining_date, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at`,
		s.FirstName, s.LastName, s.Role, s.Department, s.Email, s.Phone, s.JoiningDate, string(s.Status),
	).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
	if db.IsUniqueViolation(err) {
		return ErrDuplicateEmail
	}
	if err != nil {
		return fmt.Errorf("insert staff: %w", err)
	}
	return nil
}

func (r *staffRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Staff, error) {
	s, err := scanStaff(r.q.QueryRow(ctx, `SELECT `+staffCols+` FROM staff WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrStaffNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get staff %s: %w", id, err)
	}
	return s, nil
}

func (r *staffRepoPG) Update(ctx context.Context, s *Staff) error {
	err := r.q.QueryRow(ctx, `
		UPDATE staff SET
			first_name = $2, last_name = $3, role = $4, department = $5,
			email = $6, phone = $7, joining_date = $8, status = $9, updated_at = NOW()
		WHERE id = $1
		RETURNING created_at, updated_at`,
		s.ID, s.FirstName, s.LastName, s.Role, s.Department, s.Email, s.Phone, s.JoiningDate, string(s.Status),
	).Scan(&s.CreatedAt, &s.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrStaffNotFound
	}
	if db.IsUniqueViolation(err) {
		return ErrDuplicateEmail
	}
	if err != nil {
		return fmt.Errorf("update staff %s: %w", s.ID, err)
	}
	return nil
}

func (r *staffRepoPG) List(ctx context.Context, f Filter, limit, offset int) ([]*Staff, int, error) {
	qb := db.NewSearchQuery("staff", staffCols)
	qb.ContainsAny(f.Search, "first_name", "last_name", "email", "role", "department")
	qb.Equals("department", f.Department)
	qb.Equals("role", f.Role)
	qb.Equals("status", string(f.Status))
	qb.OrderBy("last_name, first_name, id")

	var total int
	if err := r.q.QueryRow(ctx, qb.CountSQL(), qb.CountArgs()...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count staff: %w", err)
	}

	rows, err := r.q.Query(ctx, qb.DataSQL(), qb.DataArgs(limit, offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("list staff: %w", err)
	}
	defer rows.Close()

	var items []*Staff
	for rows.Next() {
		s, err := scanStaff(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, s)
	}
	return items, total, rows.Err()
}

func (r *staffRepoPG) FindAny(ctx context.Context) (*Staff, error) {
	s, err := scanStaff(r.q.QueryRow(ctx, `SELECT `+staffCols+` FROM staff LIMIT 1`))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrStaffNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find staff: %w", err)
	}
	return s, nil
}

func (r *staffRepoPG) Departments(ctx context.Context) ([]string, error) {
	return r.distinct(ctx, "department")
}

func (r *staffRepoPG) Roles(ctx context.Context) ([]string, error) {
	return r.distinct(ctx, "role")
}

// distinct lists the non-empty values of a trusted column name.
func (r *staffRepoPG) distinct(ctx context.Context, column string) ([]string, error) {
	rows, err := r.q.Query(ctx, fmt.Sprintf(
		`SELECT DISTINCT %[1]s FROM staff WHERE %[1]s <> '' ORDER BY %[1]s`, column))
	if err != nil {
		return nil, fmt.Errorf("list %s values: %w", column, err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func (r *staffRepoPG) Stats(ctx context.Context) (Stats, error) {
	var st Stats
	err := r.q.QueryRow(ctx, `
		SELECT COUNT(*),
			COUNT(*) FILTER (WHERE status = 'active'),
			COUNT(*) FILTER (WHERE status = 'inactive'),
			COUNT(*) FILTER (WHERE status = 'on-leave')
		FROM staff`).Scan(&st.Total, &st.Active, &st.Inactive, &st.OnLeave)
	if err != nil {
		return Stats{}, fmt.Errorf("staff stats: %w", err)
	}
	return st, nil
}

func scanStaff(row pgx.Row) (*Staff, error) {
	var s Staff
	var status string
	err := row.Scan(
		&s.ID, &s.FirstName, &s.LastName, &s.Role, &s.Department, &s.Email, &s.Phone,
		&s.JoiningDate, &status, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	s.Status = Status(status)
	return &s, nil
}
