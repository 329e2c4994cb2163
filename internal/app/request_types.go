package app

import (
	"github.com/shopspring/decimal"

	"studio-orders/internal/core"
)

// SaveOrderRequest is the input for creating or replacing an order.
type SaveOrderRequest struct {
	CustomerName  string
	Address       string
	Email         string
	Phone         string
	Products      []core.LineItem
	InvoiceNumber string
	TotalAmount   decimal.Decimal
	Date          string // YYYY-MM-DD
	IsPaid        bool
	PaymentMethod core.PaymentMethod // required when IsPaid
	Status        core.OrderStatus   // empty means ordered
}

func (r SaveOrderRequest) toInput() core.OrderInput {
	return core.OrderInput{
		CustomerName:  r.CustomerName,
		Address:       r.Address,
		Email:         r.Email,
		Phone:         r.Phone,
		Products:      r.Products,
		InvoiceNumber: r.InvoiceNumber,
		TotalAmount:   r.TotalAmount,
		Date:          r.Date,
		IsPaid:        r.IsPaid,
		PaymentMethod: r.PaymentMethod,
		Status:        r.Status,
	}
}

// SignupRequest is the input for registering a staff account.
type SignupRequest struct {
	Email    string
	Password string
	FullName string
}
