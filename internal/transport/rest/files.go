package rest

import (
	"errors"
	"io/fs"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func (h *Handler) serveFile(w http.ResponseWriter, r *http.Request) {
	path, downloadName, err := h.files.Open(chi.URLParam(r, "file"))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			http.NotFound(w, r)
			return
		}
		h.log.Error("open export file", zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="`+downloadName+`"`)
	http.ServeFile(w, r, path)
}

func (h *Handler) serveWebSocket(w http.ResponseWriter, r *http.Request) {
	operator, ok := h.operator(w, r)
	if !ok {
		return
	}
	h.ws.HandleWebSocket(w, r, operator)
}
