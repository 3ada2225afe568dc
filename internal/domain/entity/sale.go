package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una venta. draft/pending -> completed, draft/pending -> canceled,
// completed -> canceled. Una venta pending mantiene stock reservado.
const (
	SaleStatusDraft     = "draft"
	SaleStatusPending   = "pending"
	SaleStatusCompleted = "completed"
	SaleStatusCanceled  = "canceled"
)

// Estados de pago de una venta.
const (
	PaymentStatusPending = "pending"
	PaymentStatusPartial = "partial"
	PaymentStatusPaid    = "paid"
)

// Métodos de pago aceptados.
const (
	PaymentMethodCash       = "cash"
	PaymentMethodCreditCard = "credit_card"
	PaymentMethodDebitCard  = "debit_card"
	PaymentMethodTransfer   = "transfer"
)

// Sale representa un documento de venta (salida de stock o reserva).
// Crear en completed descuenta stock de inmediato; en pending reserva; draft no toca stock.
type Sale struct {
	ID            string
	CustomerID    *string // opcional: venta a público general
	StoreID       string
	WarehouseID   string
	SaleDate      time.Time
	SaleNumber    string // único por tienda: {store_code}-SL-NNNNN
	InvoiceNumber string
	Total         decimal.Decimal
	TaxTotal      decimal.Decimal
	DiscountTotal decimal.Decimal
	NetTotal      decimal.Decimal
	PaymentStatus string
	PaymentMethod string
	Status        string
	Notes         string
	SoftDeleted   bool
	CreatedBy     string
	CreatedAt     time.Time
	UpdatedAt     time.Time

	Lines []SaleLine
}

// IsTerminal indica si la venta ya no admite edición de líneas.
func (s *Sale) IsTerminal() bool {
	return s.Status == SaleStatusCompleted || s.Status == SaleStatusCanceled
}

// SaleLine es una línea de venta. SalePrice se captura del producto al momento
// de la venta, nunca lo aporta el cliente. Discount es porcentaje 0-100.
// Subtotal = precio*cantidad*(1 - descuento/100).
type SaleLine struct {
	ID        string
	SaleID    string
	ProductID string
	Quantity  int64
	SalePrice decimal.Decimal
	TaxRate   decimal.Decimal
	Discount  decimal.Decimal
	Subtotal  decimal.Decimal
}
