package domain

import "errors"

var (
	ErrNotFound      = errors.New("record not found")
	ErrReadOnly      = errors.New("demo data is read-only")
	ErrNotConfigured = errors.New("backend is not configured")
)
