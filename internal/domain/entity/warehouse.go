package entity

import "time"

// Warehouse representa una bodega física de una tienda donde se almacena inventario.
type Warehouse struct {
	ID        string
	StoreID   string
	Name      string
	Code      string // parte del número de factura (P-YYYYMMDD-{code}-NNNN)
	Address   string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
