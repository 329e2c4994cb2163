package web

import (
	"net/http"

	"studio-orders/internal/core"
)

// listClients handles GET /api/clients.
func (h *Handler) listClients(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.ListClients(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	type response struct {
		Clients []core.Client `json:"clients"`
	}
	writeJSON(w, response{Clients: result.Clients})
}

// updateClient handles PUT /api/clients/{id}. The edit shows on every order
// under the same client.
func (h *Handler) updateClient(w http.ResponseWriter, r *http.Request) {
	var req struct {
		FullName string `json:"full_name"`
		Address  string `json:"address"`
		Email    string `json:"email"`
		Phone    string `json:"phone"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	client, err := h.svc.UpdateClient(r.Context(), urlParam(r, "id"), core.ClientInput{
		FullName: req.FullName,
		Address:  req.Address,
		Email:    req.Email,
		Phone:    req.Phone,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, client)
}

// deleteClient handles DELETE /api/clients/{id}.
func (h *Handler) deleteClient(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteClient(r.Context(), urlParam(r, "id")); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
