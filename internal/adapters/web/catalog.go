package web

import (
	"net/http"

	"studio-orders/internal/core"
)

// listProducts handles GET /api/products.
func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.ListProducts(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	type response struct {
		Products []core.Product `json:"products"`
	}
	writeJSON(w, response{Products: result.Products})
}

// productRevisions handles GET /api/products/{id}/revisions.
func (h *Handler) productRevisions(w http.ResponseWriter, r *http.Request) {
	revisions, err := h.svc.ProductRevisions(r.Context(), urlParam(r, "id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	type response struct {
		Revisions []core.ProductRevision `json:"revisions"`
	}
	writeJSON(w, response{Revisions: revisions})
}
