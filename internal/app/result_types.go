package app

import "studio-orders/internal/core"

// OrderResult is returned by order lifecycle operations.
type OrderResult struct {
	Order *core.Order
}

// OrderListResult is returned by ListOrders.
type OrderListResult struct {
	Orders  []core.Order
	Corrupt []core.CorruptRecord
}

// ClientListResult is returned by ListClients.
type ClientListResult struct {
	Clients []core.Client
}

// ProductListResult is returned by ListProducts.
type ProductListResult struct {
	Products []core.Product
}

// ExportResult is returned by ExportOrders.
type ExportResult struct {
	Filename string
	Data     []byte
}
