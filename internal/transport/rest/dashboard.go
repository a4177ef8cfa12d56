package rest

import (
	"net/http"
	"strings"

	"ar-dashboard/internal/domain"
	"ar-dashboard/internal/service"

	"github.com/go-chi/chi/v5"
)

type statsResponse struct {
	Source   service.SourceStatus  `json:"source"`
	Date     domain.Date           `json:"date"`
	Stats    domain.DashboardStats `json:"stats"`
	Warnings []string              `json:"warnings,omitempty"`
}

func (h *Handler) getDashboard(w http.ResponseWriter, r *http.Request) {
	Success(w, "dashboard", h.dashboard.Overview(r.Context()))
}

func (h *Handler) getDashboardStats(w http.ResponseWriter, r *http.Request) {
	o := h.dashboard.Overview(r.Context())
	Success(w, "dashboard stats", statsResponse{
		Source:   o.Source,
		Date:     o.Date,
		Stats:    o.Stats,
		Warnings: o.Warnings,
	})
}

func (h *Handler) listCustomers(w http.ResponseWriter, r *http.Request) {
	Success(w, "customers", h.dashboard.Customers(r.Context()))
}

func (h *Handler) getCustomer(w http.ResponseWriter, r *http.Request) {
	item, err := h.dashboard.Customer(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeGetError(w, err, "customer")
		return
	}
	Success(w, "customer", item)
}

func (h *Handler) listCustomerReceivables(w http.ResponseWriter, r *http.Request) {
	Success(w, "receivables", h.dashboard.CustomerReceivables(r.Context(), chi.URLParam(r, "id")))
}

func (h *Handler) listReceivables(w http.ResponseWriter, r *http.Request) {
	status, err := parseStatus(r)
	if err != nil {
		ErrorBadRequest(w, err.Error())
		return
	}
	if status != nil {
		Success(w, "receivables", h.dashboard.ReceivablesByStatus(r.Context(), *status))
		return
	}
	Success(w, "receivables", h.dashboard.Receivables(r.Context()))
}

func (h *Handler) getReceivable(w http.ResponseWriter, r *http.Request) {
	item, err := h.dashboard.Receivable(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeGetError(w, err, "receivable")
		return
	}
	Success(w, "receivable", item)
}

func (h *Handler) listFollowUps(w http.ResponseWriter, r *http.Request) {
	var receivableID *string
	if v := strings.TrimSpace(r.URL.Query().Get("receivable_id")); v != "" {
		receivableID = &v
	}
	Success(w, "follow-ups", h.dashboard.FollowUps(r.Context(), receivableID))
}

func (h *Handler) todaysFollowUps(w http.ResponseWriter, r *http.Request) {
	Success(w, "follow-ups due today", h.dashboard.TodaysFollowUps(r.Context()))
}
