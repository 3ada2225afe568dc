package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto de una tienda, ubicado en una bodega.
// Stock y ReservedStock se mutan únicamente por los procesadores de compra y venta
// bajo bloqueo de fila; el resto de campos es catálogo.
type Product struct {
	ID            string
	StoreID       string
	WarehouseID   string
	Name          string
	Code          string
	Barcode       string
	Unit          string
	PurchasePrice decimal.Decimal
	SalePrice     decimal.Decimal
	Stock         int64
	ReservedStock int64 // invariante: 0 <= ReservedStock <= Stock tras cada transacción
	Description   string
	IsActive      bool
	SoftDeleted   bool
	CreatedBy     string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// AvailableStock devuelve el stock disponible para nuevas reservas o ventas.
func (p *Product) AvailableStock() int64 {
	return p.Stock - p.ReservedStock
}
