package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una compra. pending -> completed, pending -> canceled,
// completed -> canceled. De canceled no se sale.
const (
	PurchaseStatusPending   = "pending"
	PurchaseStatusCompleted = "completed"
	PurchaseStatusCanceled  = "canceled"
)

// Purchase representa un documento de compra a proveedor (entrada de stock).
// El stock solo se mueve al confirmar, nunca al crear.
type Purchase struct {
	ID            string
	SupplierID    string
	StoreID       string
	WarehouseID   string
	InvoiceNumber string // único por tienda, emitido por el contador de facturas
	PurchaseDate  time.Time
	Total         decimal.Decimal
	TaxTotal      decimal.Decimal
	DiscountTotal decimal.Decimal
	NetTotal      decimal.Decimal
	Status        string
	SoftDeleted   bool
	CreatedBy     string
	CreatedAt     time.Time
	UpdatedAt     time.Time

	Lines []PurchaseLine
}

// IsTerminal indica si la compra ya no admite edición de líneas.
func (p *Purchase) IsTerminal() bool {
	return p.Status == PurchaseStatusCompleted || p.Status == PurchaseStatusCanceled
}

// PurchaseLine es una línea de compra: producto, cantidad y condiciones de precio.
// Subtotal = cantidad*precio - descuento; el impuesto se calcula sobre el subtotal.
type PurchaseLine struct {
	ID            string
	PurchaseID    string
	ProductID     string
	Quantity      int64
	PurchasePrice decimal.Decimal
	TaxRate       decimal.Decimal // porcentaje 0-100
	Discount      decimal.Decimal // monto, no porcentaje
	Subtotal      decimal.Decimal
}
