package rest

import (
	"errors"
	"net/http"
	"strings"

	"ar-dashboard/internal/service"
	"ar-dashboard/internal/transport/auth"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const exportKeyPrefix = "exports:"

type ExportStartedResponse struct {
	ExportID string         `json:"export_id"`
	Source   service.Source `json:"source"`
}

func (h *Handler) operator(w http.ResponseWriter, r *http.Request) (string, bool) {
	op, err := auth.GetOperator(r.Context())
	if err != nil {
		ErrorUnauthorized(w, "unauthorized")
		return "", false
	}
	return op, true
}

func writeExportError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrExportNotFound):
		ErrorNotFound(w, "export not found")
	case errors.Is(err, service.ErrExportsDisabled):
		Error(w, "export tracking is not configured", http.StatusServiceUnavailable, http.StatusServiceUnavailable)
	case errors.Is(err, service.ErrNoExportColumns):
		ErrorBadRequest(w, err.Error())
	default:
		ErrorInternal(w, err.Error())
	}
}

func (h *Handler) exportAging(w http.ResponseWriter, r *http.Request) {
	operator, ok := h.operator(w, r)
	if !ok {
		return
	}

	req, err := ValidateAgingExportRequest(w, r)
	if err != nil {
		ErrorBadRequest(w, err.Error())
		return
	}

	st, err := h.exporter.StartAgingExport(r.Context(), operator, *req)
	if err != nil {
		h.log.Error("start aging export", zap.String("operator", operator), zap.Error(err))
		writeExportError(w, err)
		return
	}

	SuccessAccepted(w, "export started", ExportStartedResponse{ExportID: st.Key, Source: st.Source})
}

func (h *Handler) listExports(w http.ResponseWriter, r *http.Request) {
	operator, ok := h.operator(w, r)
	if !ok {
		return
	}

	exports, err := h.exportList.GetExports(r.Context(), operator)
	if err != nil {
		writeExportError(w, err)
		return
	}

	Success(w, "exports", exports)
}

func (h *Handler) getExport(w http.ResponseWriter, r *http.Request) {
	operator, ok := h.operator(w, r)
	if !ok {
		return
	}

	exportID := strings.TrimSpace(chi.URLParam(r, "export_id"))
	if exportID == "" {
		ErrorBadRequest(w, "export_id is required")
		return
	}
	if !strings.HasPrefix(exportID, exportKeyPrefix) {
		exportID = exportKeyPrefix + exportID
	}

	export, err := h.exportList.GetExport(r.Context(), exportID, operator)
	if err != nil {
		writeExportError(w, err)
		return
	}

	Success(w, "export", export)
}
