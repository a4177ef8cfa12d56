package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"ar-dashboard/internal/domain"

	"github.com/jackc/pgx/v5/pgconn"
)

const (
	// relation does not exist
	codeUndefinedTable = "42P01"
	// text does not parse as the column type, e.g. a non-UUID id
	codeInvalidTextRepresentation = "22P02"
)

// QueryError carries the diagnostics the backend reported for a failed statement.
type QueryError struct {
	Op      string
	Message string
	Detail  string
	Hint    string
	Code    string
	Err     error
}

func (e *QueryError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Op, e.Message)
	if e.Code != "" {
		msg += " (code " + e.Code + ")"
	}
	if e.Hint != "" {
		msg += ": " + e.Hint
	}
	return msg
}

func (e *QueryError) Unwrap() error { return e.Err }

// IsMissingTable reports whether err means the schema has not been provisioned.
func IsMissingTable(err error) bool {
	var qe *QueryError
	return errors.As(err, &qe) && qe.Code == codeUndefinedTable
}

func wrapErr(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return &QueryError{
			Op:      op,
			Message: pgErr.Message,
			Detail:  pgErr.Detail,
			Hint:    pgErr.Hint,
			Code:    pgErr.Code,
			Err:     err,
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}

// wrapGetErr treats an id the key column cannot hold as a missing row.
func wrapGetErr(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == codeInvalidTextRepresentation {
		return domain.ErrNotFound
	}
	return wrapErr(op, err)
}
