package web

import (
	"fmt"
	"net/http"

	"github.com/shopspring/decimal"

	"studio-orders/internal/app"
	"studio-orders/internal/core"
)

// saveOrderRequest is the JSON body for creating or replacing an order.
type saveOrderRequest struct {
	CustomerName  string          `json:"customer_name"`
	Address       string          `json:"address"`
	Email         string          `json:"email"`
	Phone         string          `json:"phone"`
	Products      []lineItemBody  `json:"products"`
	InvoiceNumber string          `json:"invoice_number"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	Date          string          `json:"date"`
	IsPaid        bool            `json:"is_paid"`
	PaymentMethod string          `json:"payment_method"`
	Status        string          `json:"status"`
}

type lineItemBody struct {
	Name      string `json:"name"`
	Reference string `json:"reference"`
	Brand     string `json:"brand"`
}

func lineItems(body []lineItemBody) []core.LineItem {
	items := make([]core.LineItem, len(body))
	for i, b := range body {
		items[i] = core.LineItem{Name: b.Name, Reference: b.Reference, Brand: b.Brand}
	}
	return items
}

func (req saveOrderRequest) toRequest() app.SaveOrderRequest {
	return app.SaveOrderRequest{
		CustomerName:  req.CustomerName,
		Address:       req.Address,
		Email:         req.Email,
		Phone:         req.Phone,
		Products:      lineItems(req.Products),
		InvoiceNumber: req.InvoiceNumber,
		TotalAmount:   req.TotalAmount,
		Date:          req.Date,
		IsPaid:        req.IsPaid,
		PaymentMethod: core.PaymentMethod(req.PaymentMethod),
		Status:        core.OrderStatus(req.Status),
	}
}

// nextInvoiceNumber handles GET /api/orders/next-invoice-number.
func (h *Handler) nextInvoiceNumber(w http.ResponseWriter, r *http.Request) {
	number, err := h.svc.NextInvoiceNumber(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	type response struct {
		InvoiceNumber string `json:"invoice_number"`
	}
	writeJSON(w, response{InvoiceNumber: number})
}

// listOrders handles GET /api/orders.
func (h *Handler) listOrders(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.ListOrders(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	type response struct {
		Orders  []core.Order         `json:"orders"`
		Corrupt []core.CorruptRecord `json:"corrupt,omitempty"`
	}
	writeJSON(w, response{Orders: result.Orders, Corrupt: result.Corrupt})
}

// createOrder handles POST /api/orders.
func (h *Handler) createOrder(w http.ResponseWriter, r *http.Request) {
	var req saveOrderRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.svc.CreateOrder(r.Context(), req.toRequest())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
	writeJSON(w, result.Order)
}

// getOrder handles GET /api/orders/{id}.
func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.GetOrder(r.Context(), urlParam(r, "id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result.Order)
}

// updateOrder handles PUT /api/orders/{id}. The response carries the
// replacement order, whose id differs from the one in the URL.
func (h *Handler) updateOrder(w http.ResponseWriter, r *http.Request) {
	var req saveOrderRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.svc.UpdateOrder(r.Context(), urlParam(r, "id"), req.toRequest())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result.Order)
}

// deleteOrder handles DELETE /api/orders/{id}.
func (h *Handler) deleteOrder(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteOrder(r.Context(), urlParam(r, "id")); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// setPaymentStatus handles PATCH /api/orders/{id}/payment.
func (h *Handler) setPaymentStatus(w http.ResponseWriter, r *http.Request) {
	var req struct {
		IsPaid        bool   `json:"is_paid"`
		PaymentMethod string `json:"payment_method"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	err := h.svc.SetPaymentStatus(r.Context(), urlParam(r, "id"),
		req.IsPaid, core.PaymentMethod(req.PaymentMethod))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// setOrderStatus handles PATCH /api/orders/{id}/status.
func (h *Handler) setOrderStatus(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Status string `json:"status"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	err := h.svc.SetOrderStatus(r.Context(), urlParam(r, "id"), core.OrderStatus(req.Status))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// addProducts handles POST /api/orders/{id}/products.
func (h *Handler) addProducts(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Products []lineItemBody `json:"products"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := h.svc.AddProducts(r.Context(), urlParam(r, "id"), lineItems(req.Products)); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// sendConfirmation handles POST /api/orders/{id}/confirmation-email.
func (h *Handler) sendConfirmation(w http.ResponseWriter, r *http.Request) {
	var req struct {
		To string `json:"to"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := h.svc.SendOrderConfirmation(r.Context(), urlParam(r, "id"), req.To); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// exportOrders handles POST /api/orders/export and streams back the xlsx.
func (h *Handler) exportOrders(w http.ResponseWriter, r *http.Request) {
	var req struct {
		OrderIDs []string `json:"order_ids"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.svc.ExportOrders(r.Context(), req.OrderIDs)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	w.Header().Set("Content-Type",
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", result.Filename))
	_, _ = w.Write(result.Data)
}
