package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest body para POST /api/products.
// Stock y ReservedStock no se aceptan: solo se mueven vía compras y ventas.
type CreateProductRequest struct {
	WarehouseID   string          `json:"warehouse_id"`
	Name          string          `json:"name"`
	Code          string          `json:"code"`
	Barcode       string          `json:"barcode,omitempty"`
	Unit          string          `json:"unit,omitempty"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	SalePrice     decimal.Decimal `json:"sale_price"`
	Description   string          `json:"description,omitempty"`
}

// UpdateProductRequest body para PUT /api/products/:id. Campos nil no se tocan.
type UpdateProductRequest struct {
	Name          *string          `json:"name,omitempty"`
	Unit          *string          `json:"unit,omitempty"`
	PurchasePrice *decimal.Decimal `json:"purchase_price,omitempty"`
	SalePrice     *decimal.Decimal `json:"sale_price,omitempty"`
	Description   *string          `json:"description,omitempty"`
	IsActive      *bool            `json:"is_active,omitempty"`
}

// ProductResponse representación HTTP de un producto.
type ProductResponse struct {
	ID             string          `json:"id"`
	StoreID        string          `json:"store_id"`
	WarehouseID    string          `json:"warehouse_id"`
	Name           string          `json:"name"`
	Code           string          `json:"code"`
	Barcode        string          `json:"barcode,omitempty"`
	Unit           string          `json:"unit,omitempty"`
	PurchasePrice  decimal.Decimal `json:"purchase_price"`
	SalePrice      decimal.Decimal `json:"sale_price"`
	Stock          int64           `json:"stock"`
	ReservedStock  int64           `json:"reserved_stock"`
	AvailableStock int64           `json:"available_stock"`
	Description    string          `json:"description,omitempty"`
	IsActive       bool            `json:"is_active"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}
