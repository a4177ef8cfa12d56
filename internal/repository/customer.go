package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"ar-dashboard/internal/domain"
)

const customerColumns = `c.id, c.name, c.ewity_name, c.quickbooks_name, c.contact_number, c.email, c.created_at`

type CustomerRepository struct {
	db *sql.DB
}

func NewCustomerRepository(db *sql.DB) *CustomerRepository {
	return &CustomerRepository{db: db}
}

func scanCustomer(row interface{ Scan(...any) error }, c *domain.Customer) error {
	return row.Scan(
		&c.ID,
		&c.Name,
		&c.EwityName,
		&c.QuickbooksName,
		&c.ContactNumber,
		&c.Email,
		&c.CreatedAt,
	)
}

func (r *CustomerRepository) List(ctx context.Context) ([]domain.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers c ORDER BY c.name ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, wrapErr("list customers", err)
	}
	defer rows.Close()

	var out []domain.Customer
	for rows.Next() {
		var c domain.Customer
		if err := scanCustomer(rows, &c); err != nil {
			return nil, wrapErr("scan customer", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr("list customers", err)
	}
	return out, nil
}

func (r *CustomerRepository) GetByID(ctx context.Context, id string) (*domain.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers c WHERE c.id = $1`

	var c domain.Customer
	if err := scanCustomer(r.db.QueryRowContext(ctx, query, id), &c); err != nil {
		return nil, wrapGetErr("get customer", err)
	}
	return &c, nil
}

func (r *CustomerRepository) Create(ctx context.Context, in domain.NewCustomer) (*domain.Customer, error) {
	cols := []string{"name", "ewity_name", "quickbooks_name", "contact_number", "email"}
	args := []any{in.Name, in.EwityName, in.QuickbooksName, in.ContactNumber, in.Email}

	if in.ID != nil {
		cols = append(cols, "id")
		args = append(args, *in.ID)
	}
	if in.CreatedAt != nil {
		cols = append(cols, "created_at")
		args = append(args, *in.CreatedAt)
	}

	query := fmt.Sprintf(
		`INSERT INTO customers AS c (%s) VALUES (%s) RETURNING %s`,
		strings.Join(cols, ", "),
		placeholders(len(args)),
		customerColumns,
	)

	var c domain.Customer
	if err := scanCustomer(r.db.QueryRowContext(ctx, query, args...), &c); err != nil {
		return nil, wrapErr("create customer", err)
	}
	return &c, nil
}

func placeholders(n int) string {
	ph := make([]string, n)
	for i := range ph {
		ph[i] = fmt.Sprintf("$%d", i+1)
	}
	return strings.Join(ph, ", ")
}
