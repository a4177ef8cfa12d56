package rest

import (
	"net/http"
)

func (h *Handler) createCustomer(w http.ResponseWriter, r *http.Request) {
	in, err := ValidateNewCustomer(w, r)
	if err != nil {
		ErrorBadRequest(w, err.Error())
		return
	}

	item, err := h.records.CreateCustomer(r.Context(), *in)
	if err != nil {
		writeCreateError(w, err, item.Source)
		return
	}
	SuccessCreated(w, "customer created", item)
}

func (h *Handler) createReceivable(w http.ResponseWriter, r *http.Request) {
	in, err := ValidateNewReceivable(w, r)
	if err != nil {
		ErrorBadRequest(w, err.Error())
		return
	}

	item, err := h.records.CreateReceivable(r.Context(), *in)
	if err != nil {
		writeCreateError(w, err, item.Source)
		return
	}
	SuccessCreated(w, "receivable created", item)
}

func (h *Handler) createFollowUp(w http.ResponseWriter, r *http.Request) {
	in, err := ValidateNewFollowUp(w, r)
	if err != nil {
		ErrorBadRequest(w, err.Error())
		return
	}

	item, err := h.records.CreateFollowUp(r.Context(), *in)
	if err != nil {
		writeCreateError(w, err, item.Source)
		return
	}
	SuccessCreated(w, "follow-up created", item)
}
