package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// PurchaseLineRequest línea de compra en el request. El descuento es un monto.
type PurchaseLineRequest struct {
	ProductID     string          `json:"product_id"`
	Quantity      int64           `json:"quantity"`
	PurchasePrice decimal.Decimal `json:"unit_price"`
	TaxRate       decimal.Decimal `json:"tax_rate"`
	Discount      decimal.Decimal `json:"discount"`
}

// CreatePurchaseRequest body para POST /api/purchases.
// Status solo admite "pending" (u omitido): el stock se mueve al confirmar, no al crear.
type CreatePurchaseRequest struct {
	SupplierID  string                `json:"supplier_id"`
	WarehouseID string                `json:"warehouse_id"`
	Status      string                `json:"status,omitempty"`
	Lines       []PurchaseLineRequest `json:"lines"`
}

// UpdatePurchaseRequest body para PUT /api/purchases/:id. Reemplaza todas las líneas.
type UpdatePurchaseRequest struct {
	SupplierID string                `json:"supplier_id,omitempty"`
	Lines      []PurchaseLineRequest `json:"lines"`
}

// PurchaseLineResponse línea de compra en la respuesta.
type PurchaseLineResponse struct {
	ID            string          `json:"id"`
	ProductID     string          `json:"product_id"`
	Quantity      int64           `json:"quantity"`
	PurchasePrice decimal.Decimal `json:"unit_price"`
	TaxRate       decimal.Decimal `json:"tax_rate"`
	Discount      decimal.Decimal `json:"discount"`
	Subtotal      decimal.Decimal `json:"subtotal"`
}

// PurchaseResponse representación HTTP de una compra.
type PurchaseResponse struct {
	ID            string                 `json:"id"`
	SupplierID    string                 `json:"supplier_id"`
	StoreID       string                 `json:"store_id"`
	WarehouseID   string                 `json:"warehouse_id"`
	InvoiceNumber string                 `json:"invoice_number"`
	PurchaseDate  time.Time              `json:"purchase_date"`
	Total         decimal.Decimal        `json:"total"`
	TaxTotal      decimal.Decimal        `json:"tax_total"`
	DiscountTotal decimal.Decimal        `json:"discount_total"`
	NetTotal      decimal.Decimal        `json:"net_total"`
	Status        string                 `json:"status"`
	Lines         []PurchaseLineResponse `json:"lines"`
	CreatedAt     time.Time              `json:"created_at"`
	UpdatedAt     time.Time              `json:"updated_at"`
}
