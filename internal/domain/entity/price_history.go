package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProductPriceHistory registra cada precio de compra visto al confirmar compras.
// Se escribe siempre, aunque la tienda no tenga activada la actualización automática.
type ProductPriceHistory struct {
	ID            string
	ProductID     string
	PurchasePrice decimal.Decimal
	SalePrice     decimal.Decimal // el precio de venta vigente tras el cambio
	ChangedBy     string
	ChangedAt     time.Time
}
