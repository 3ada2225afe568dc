package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Store representa una tienda: el límite de tenant. Toda entidad pertenece a una tienda.
type Store struct {
	ID        string
	Name      string
	Code      string // prefijo del número de venta ({code}-SL-NNNNN)
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time

	Settings StoreSettings
}

// StoreSettings configuración operativa de la tienda.
// AutoUpdatePriceOnPurchase: al confirmar una compra, sobreescribe el precio de compra
// del producto y deriva el de venta con MarginPercentage.
type StoreSettings struct {
	AutoUpdatePriceOnPurchase bool
	MarginPercentage          decimal.Decimal
}
