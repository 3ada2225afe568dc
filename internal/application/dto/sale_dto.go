package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// SaleLineRequest línea de venta en el request. El precio nunca lo aporta el
// cliente: se captura del producto al momento de la venta. Discount es porcentaje.
type SaleLineRequest struct {
	ProductID string          `json:"product_id"`
	Quantity  int64           `json:"quantity"`
	Discount  decimal.Decimal `json:"discount"`
}

// CreateSaleRequest body para POST /api/sales.
// Status admite draft, pending o completed; si se omite, la venta se registra completed.
type CreateSaleRequest struct {
	CustomerID    *string           `json:"customer_id,omitempty"`
	WarehouseID   string            `json:"warehouse_id"`
	Status        string            `json:"status,omitempty"`
	PaymentStatus string            `json:"payment_status,omitempty"`
	PaymentMethod string            `json:"payment_method,omitempty"`
	Notes         string            `json:"notes,omitempty"`
	Lines         []SaleLineRequest `json:"lines"`
}

// UpdateSaleRequest body para PUT /api/sales/:id. Reemplaza todas las líneas;
// Status permite mover la venta a un nuevo estado objetivo (draft/pending/completed).
type UpdateSaleRequest struct {
	CustomerID    *string           `json:"customer_id,omitempty"`
	Status        string            `json:"status,omitempty"`
	PaymentStatus string            `json:"payment_status,omitempty"`
	PaymentMethod string            `json:"payment_method,omitempty"`
	Notes         string            `json:"notes,omitempty"`
	Lines         []SaleLineRequest `json:"lines"`
}

// SaleLineResponse línea de venta en la respuesta.
type SaleLineResponse struct {
	ID        string          `json:"id"`
	ProductID string          `json:"product_id"`
	Quantity  int64           `json:"quantity"`
	SalePrice decimal.Decimal `json:"sale_price"`
	Discount  decimal.Decimal `json:"discount"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// SaleResponse representación HTTP de una venta.
type SaleResponse struct {
	ID            string             `json:"id"`
	CustomerID    *string            `json:"customer_id,omitempty"`
	StoreID       string             `json:"store_id"`
	WarehouseID   string             `json:"warehouse_id"`
	SaleNumber    string             `json:"sale_number"`
	InvoiceNumber string             `json:"invoice_number"`
	SaleDate      time.Time          `json:"sale_date"`
	Total         decimal.Decimal    `json:"total"`
	TaxTotal      decimal.Decimal    `json:"tax_total"`
	DiscountTotal decimal.Decimal    `json:"discount_total"`
	NetTotal      decimal.Decimal    `json:"net_total"`
	PaymentStatus string             `json:"payment_status"`
	PaymentMethod string             `json:"payment_method,omitempty"`
	Status        string             `json:"status"`
	Notes         string             `json:"notes,omitempty"`
	Lines         []SaleLineResponse `json:"lines"`
	CreatedAt     time.Time          `json:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at"`
}
