package entity

import "time"

// Supplier representa un proveedor de la tienda (referenciado por las compras).
type Supplier struct {
	ID        string
	StoreID   string
	Name      string
	TaxID     string
	Email     string
	Phone     string
	Address   string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
