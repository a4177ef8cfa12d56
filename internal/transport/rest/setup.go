package rest

import (
	"net/http"

	"ar-dashboard/internal/service"

	"go.uber.org/zap"
)

type setupResponse struct {
	service.SourceStatus
	Configured bool `json:"configured"`
}

func setupView(st service.SourceStatus) setupResponse {
	return setupResponse{SourceStatus: st, Configured: len(st.MissingSettings) == 0}
}

func (h *Handler) setupStatus(w http.ResponseWriter, r *http.Request) {
	Success(w, "setup status", setupView(h.dashboard.Source(r.Context())))
}

// setupRetry probes again. The selector keeps no state so this is the same
// probe every request runs; it exists for the setup page's retry button.
func (h *Handler) setupRetry(w http.ResponseWriter, r *http.Request) {
	st := h.dashboard.Source(r.Context())
	msg := "connected to backend"
	if st.IsDemo() {
		msg = "backend unavailable, serving demo data"
	}
	h.log.Info("setup retry", zapSource(st)...)
	Success(w, msg, setupView(st))
}

func zapSource(st service.SourceStatus) []zap.Field {
	fields := []zap.Field{
		zap.String("source", string(st.Source)),
		zap.Bool("connected", st.Connected),
		zap.Bool("tables_exist", st.TablesExist),
	}
	if st.Error != nil {
		fields = append(fields, zap.String("error", *st.Error))
	}
	if len(st.MissingSettings) > 0 {
		fields = append(fields, zap.Strings("missing_settings", st.MissingSettings))
	}
	return fields
}
