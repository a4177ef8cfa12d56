package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"ar-dashboard/internal/domain"
)

const followUpColumns = `
	f.id,
	f.receivable_id,
	f.scheduled_date,
	f.completed,
	f.completed_date,
	f.contacted_by,
	f.method,
	f.notes,
	f.next_follow_up,
	f.created_at`

type FollowUpRepository struct {
	db *sql.DB
}

func NewFollowUpRepository(db *sql.DB) *FollowUpRepository {
	return &FollowUpRepository{db: db}
}

func scanFollowUp(row rowScanner) (domain.FollowUp, error) {
	var (
		f      domain.FollowUp
		method sql.NullString
	)
	if err := row.Scan(
		&f.ID,
		&f.ReceivableID,
		&f.ScheduledDate,
		&f.Completed,
		&f.CompletedDate,
		&f.ContactedBy,
		&method,
		&f.Notes,
		&f.NextFollowUp,
		&f.CreatedAt,
	); err != nil {
		return f, err
	}

	if method.Valid {
		m := domain.ContactMethod(method.String)
		if !m.Valid() {
			return f, fmt.Errorf("follow-up %s: unexpected method %q", f.ID, method.String)
		}
		f.Method = &m
	}
	return f, nil
}

func buildFollowUpsWhere(f FollowUpsFilter) (string, []any) {
	where := []string{"1=1"}
	args := []any{}
	i := 1

	if f.ReceivableID != nil {
		where = append(where, fmt.Sprintf("f.receivable_id = $%d", i))
		args = append(args, *f.ReceivableID)
		i++
	}

	if f.ScheduledDate != nil {
		where = append(where, fmt.Sprintf("f.scheduled_date = $%d", i))
		args = append(args, f.ScheduledDate.String())
		i++
	}

	if f.Completed != nil {
		where = append(where, fmt.Sprintf("f.completed = $%d", i))
		args = append(args, *f.Completed)
		i++
	}

	return strings.Join(where, " AND "), args
}

func (r *FollowUpRepository) List(ctx context.Context, f FollowUpsFilter) ([]domain.FollowUp, error) {
	where, args := buildFollowUpsWhere(f)

	order := "f.scheduled_date ASC, f.created_at ASC"
	if f.Order == FollowUpsOldestFirst {
		order = "f.created_at ASC"
	}

	query := `SELECT ` + followUpColumns + ` FROM follow_ups f WHERE ` + where + ` ORDER BY ` + order

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, wrapErr("list follow-ups", err)
	}
	defer rows.Close()

	var out []domain.FollowUp
	for rows.Next() {
		fu, err := scanFollowUp(rows)
		if err != nil {
			return nil, wrapErr("scan follow-up", err)
		}
		out = append(out, fu)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr("list follow-ups", err)
	}
	return out, nil
}

func (r *FollowUpRepository) Create(ctx context.Context, in domain.NewFollowUp) (*domain.FollowUp, error) {
	var method *string
	if in.Method != nil {
		m := string(*in.Method)
		method = &m
	}

	cols := []string{
		"receivable_id",
		"scheduled_date",
		"completed",
		"completed_date",
		"contacted_by",
		"method",
		"notes",
		"next_follow_up",
	}
	args := []any{
		in.ReceivableID,
		in.ScheduledDate,
		in.Completed,
		in.CompletedDate,
		in.ContactedBy,
		method,
		in.Notes,
		in.NextFollowUp,
	}

	if in.ID != nil {
		cols = append(cols, "id")
		args = append(args, *in.ID)
	}
	if in.CreatedAt != nil {
		cols = append(cols, "created_at")
		args = append(args, *in.CreatedAt)
	}

	query := fmt.Sprintf(
		`INSERT INTO follow_ups AS f (%s) VALUES (%s) RETURNING %s`,
		strings.Join(cols, ", "),
		placeholders(len(args)),
		followUpColumns,
	)

	fu, err := scanFollowUp(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		return nil, wrapErr("create follow-up", err)
	}
	return &fu, nil
}
