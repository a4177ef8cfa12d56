package rest

import (
	"errors"
	"net/http"

	"ar-dashboard/internal/domain"
	"ar-dashboard/internal/repository"
	"ar-dashboard/internal/service"
)

// SQLSTATE classes a create can fail with that are the caller's fault.
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
	codeCheckViolation      = "23514"
	codeNotNullViolation    = "23502"
	codeInvalidText         = "22P02"
)

type queryErrorData struct {
	Source  service.SourceStatus `json:"source"`
	Code    string               `json:"code,omitempty"`
	Detail  string               `json:"detail,omitempty"`
	Hint    string               `json:"hint,omitempty"`
	Message string               `json:"message"`
}

// writeCreateError maps a failed create to a status code. The data source is
// echoed so clients can tell a demo refusal from a live failure.
func writeCreateError(w http.ResponseWriter, err error, source service.SourceStatus) {
	var (
		verr *ValidationError
		qerr *repository.QueryError
	)
	switch {
	case errors.As(err, &verr):
		ErrorBadRequest(w, verr.Error())
	case errors.Is(err, domain.ErrReadOnly):
		ErrorWithData(w, "records cannot be created while serving demo data", map[string]any{"source": source}, http.StatusServiceUnavailable)
	case errors.As(err, &qerr):
		data := queryErrorData{
			Source:  source,
			Code:    qerr.Code,
			Detail:  qerr.Detail,
			Hint:    qerr.Hint,
			Message: qerr.Message,
		}
		switch qerr.Code {
		case codeUniqueViolation:
			ErrorWithData(w, qerr.Message, data, http.StatusConflict)
		case codeForeignKeyViolation, codeCheckViolation, codeNotNullViolation, codeInvalidText:
			ErrorWithData(w, qerr.Message, data, http.StatusUnprocessableEntity)
		default:
			ErrorWithData(w, qerr.Message, data, http.StatusBadGateway)
		}
	default:
		ErrorWithData(w, err.Error(), map[string]any{"source": source}, http.StatusBadGateway)
	}
}

// writeGetError maps a failed single-record read.
func writeGetError(w http.ResponseWriter, err error, what string) {
	if errors.Is(err, domain.ErrNotFound) {
		ErrorNotFound(w, what+" not found")
		return
	}
	Error(w, err.Error(), http.StatusBadGateway, http.StatusBadGateway)
}
