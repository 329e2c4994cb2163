// Package web exposes the application over a JSON HTTP API.
package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"studio-orders/internal/app"
)

// Handler holds the ApplicationService and the chi router.
type Handler struct {
	svc       app.ApplicationService
	router    chi.Router
	jwtSecret string
}

// NewHandler creates and wires the chi router with all routes.
func NewHandler(svc app.ApplicationService, allowedOrigins, jwtSecret string) http.Handler {
	h := &Handler{svc: svc, jwtSecret: jwtSecret}

	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(Logger)
	r.Use(Recoverer)
	r.Use(CORS(allowedOrigins))

	// ── Health (public) ─────────────────────────────────────────────────────
	r.Get("/api/health", h.health)

	// ── Auth (public) ───────────────────────────────────────────────────────
	r.Group(func(r chi.Router) {
		r.Use(RequestBodyLimit(1 << 20))
		r.Post("/api/auth/signup", h.signup)
		r.Post("/api/auth/login", h.login)
		r.Post("/api/auth/logout", h.logout)
	})

	// ── Protected API routes ────────────────────────────────────────────────
	r.Group(func(r chi.Router) {
		r.Use(h.RequireAuth)

		// File upload: the multipart body limit is managed inside the handler.
		r.Post("/api/files", h.uploadFile)

		r.Group(func(r chi.Router) {
			r.Use(RequestBodyLimit(1 << 20))

			r.Get("/api/auth/me", h.me)

			// Orders
			r.Get("/api/orders", h.listOrders)
			r.Post("/api/orders", h.createOrder)
			r.Get("/api/orders/next-invoice-number", h.nextInvoiceNumber)
			r.Get("/api/orders/{id}", h.getOrder)
			r.Put("/api/orders/{id}", h.updateOrder)
			r.Delete("/api/orders/{id}", h.deleteOrder)
			r.Patch("/api/orders/{id}/payment", h.setPaymentStatus)
			r.Patch("/api/orders/{id}/status", h.setOrderStatus)
			r.Post("/api/orders/{id}/products", h.addProducts)
			r.Post("/api/orders/{id}/confirmation-email", h.sendConfirmation)
			r.Post("/api/orders/export", h.exportOrders)

			// Clients
			r.Get("/api/clients", h.listClients)
			r.Put("/api/clients/{id}", h.updateClient)
			r.Delete("/api/clients/{id}", h.deleteClient)

			// Catalog
			r.Get("/api/products", h.listProducts)
			r.Get("/api/products/{id}/revisions", h.productRevisions)

			// Dashboard
			r.Get("/api/stats", h.getStats)

			// Files
			r.Get("/api/files", h.listFiles)
			r.Get("/api/files/{id}/download-url", h.fileDownloadURL)
			r.Delete("/api/files/{id}", h.deleteFile)

			// Admin
			r.Group(func(r chi.Router) {
				r.Use(h.RequireAdmin)
				r.Get("/api/admin/users/pending", h.listPendingUsers)
				r.Post("/api/admin/users/{id}/approve", h.approveUser)
				r.Post("/api/admin/users/{id}/reject", h.rejectUser)
			})
		})
	})

	h.router = r
	return r
}

// health returns service status.
func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	type response struct {
		Status string `json:"status"`
	}
	writeJSON(w, response{Status: "ok"})
}

// urlParam extracts a chi URL parameter.
func urlParam(r *http.Request, name string) string {
	return chi.URLParam(r, name)
}

// decodeJSON decodes the request body into v and writes an appropriate error
// response on failure. Returns HTTP 413 when the body exceeds the configured
// limit; HTTP 400 for all other decode errors.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			writeError(w, r, "request body too large", "REQUEST_TOO_LARGE", http.StatusRequestEntityTooLarge)
			return false
		}
		writeError(w, r, "invalid JSON body: "+err.Error(), "BAD_REQUEST", http.StatusBadRequest)
		return false
	}
	return true
}
