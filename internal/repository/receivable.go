package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"ar-dashboard/internal/domain"
)

const receivableColumns = `
	r.id,
	r.receipt_number,
	r.po_number,
	r.customer_id,
	r.order_date,
	r.due_date,
	r.original_amount,
	r.balance_due,
	r.status,
	r.ewity_transaction_id,
	r.quickbooks_invoice_id,
	r.created_at,
	r.updated_at`

const receivableWithCustomerQuery = `
	SELECT ` + receivableColumns + `,
		c.id,
		c.name,
		c.ewity_name,
		c.quickbooks_name,
		c.contact_number,
		c.email,
		c.created_at
	FROM receivables r
	LEFT JOIN customers c ON c.id = r.customer_id
`

type ReceivableRepository struct {
	db *sql.DB
}

func NewReceivableRepository(db *sql.DB) *ReceivableRepository {
	return &ReceivableRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func receivableDest(r *domain.Receivable) []any {
	return []any{
		&r.ID,
		&r.ReceiptNumber,
		&r.PONumber,
		&r.CustomerID,
		&r.OrderDate,
		&r.DueDate,
		&r.OriginalAmount,
		&r.BalanceDue,
		&r.Status,
		&r.EwityTransactionID,
		&r.QuickbooksInvoiceID,
		&r.CreatedAt,
		&r.UpdatedAt,
	}
}

func scanReceivable(row rowScanner) (domain.Receivable, error) {
	var r domain.Receivable
	if err := row.Scan(receivableDest(&r)...); err != nil {
		return r, err
	}
	if !r.Status.Valid() {
		return r, fmt.Errorf("receivable %s: unexpected status %q", r.ID, r.Status)
	}
	return r, nil
}

func scanReceivableWithCustomer(row rowScanner) (domain.Receivable, error) {
	var (
		r        domain.Receivable
		custID   sql.NullString
		custName sql.NullString
		custAt   sql.NullTime
		customer domain.Customer
	)

	dest := append(receivableDest(&r),
		&custID,
		&custName,
		&customer.EwityName,
		&customer.QuickbooksName,
		&customer.ContactNumber,
		&customer.Email,
		&custAt,
	)
	if err := row.Scan(dest...); err != nil {
		return r, err
	}
	if !r.Status.Valid() {
		return r, fmt.Errorf("receivable %s: unexpected status %q", r.ID, r.Status)
	}

	if custID.Valid {
		customer.ID = custID.String
		customer.Name = custName.String
		if custAt.Valid {
			customer.CreatedAt = custAt.Time
		}
		r.Customer = &customer
	}
	return r, nil
}

func buildReceivablesWhere(f ReceivablesFilter) (string, []any) {
	where := []string{"1=1"}
	args := []any{}
	i := 1

	if f.CustomerID != nil {
		where = append(where, fmt.Sprintf("r.customer_id = $%d", i))
		args = append(args, *f.CustomerID)
		i++
	}

	if f.Status != nil {
		where = append(where, fmt.Sprintf("r.status = $%d", i))
		args = append(args, string(*f.Status))
		i++
	}

	return strings.Join(where, " AND "), args
}

func (r *ReceivableRepository) List(ctx context.Context, f ReceivablesFilter) ([]domain.Receivable, error) {
	where, args := buildReceivablesWhere(f)

	order := "r.created_at DESC"
	if f.Order == ReceivablesByDueDate {
		order = "r.due_date ASC NULLS LAST, r.created_at DESC"
	}

	query := receivableWithCustomerQuery + " WHERE " + where + " ORDER BY " + order

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, wrapErr("list receivables", err)
	}
	defer rows.Close()

	var out []domain.Receivable
	for rows.Next() {
		rec, err := scanReceivableWithCustomer(rows)
		if err != nil {
			return nil, wrapErr("scan receivable", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr("list receivables", err)
	}
	return out, nil
}

func (r *ReceivableRepository) GetByID(ctx context.Context, id string) (*domain.Receivable, error) {
	query := receivableWithCustomerQuery + " WHERE r.id = $1"

	rec, err := scanReceivableWithCustomer(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, wrapGetErr("get receivable", err)
	}
	return &rec, nil
}

func (r *ReceivableRepository) Create(ctx context.Context, in domain.NewReceivable) (*domain.Receivable, error) {
	cols := []string{
		"receipt_number",
		"po_number",
		"customer_id",
		"order_date",
		"due_date",
		"original_amount",
		"balance_due",
		"status",
		"ewity_transaction_id",
		"quickbooks_invoice_id",
	}
	args := []any{
		in.ReceiptNumber,
		in.PONumber,
		in.CustomerID,
		in.OrderDate,
		in.DueDate,
		in.OriginalAmount,
		in.BalanceDue,
		string(in.Status),
		in.EwityTransactionID,
		in.QuickbooksInvoiceID,
	}

	if in.ID != nil {
		cols = append(cols, "id")
		args = append(args, *in.ID)
	}
	if in.CreatedAt != nil {
		cols = append(cols, "created_at")
		args = append(args, *in.CreatedAt)
	}
	if in.UpdatedAt != nil {
		cols = append(cols, "updated_at")
		args = append(args, *in.UpdatedAt)
	}

	query := fmt.Sprintf(
		`INSERT INTO receivables AS r (%s) VALUES (%s) RETURNING %s`,
		strings.Join(cols, ", "),
		placeholders(len(args)),
		receivableColumns,
	)

	rec, err := scanReceivable(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		return nil, wrapErr("create receivable", err)
	}
	return &rec, nil
}
