package entity

import "time"

// Customer representa un cliente de la tienda (opcional en las ventas).
type Customer struct {
	ID        string
	StoreID   string
	Name      string
	TaxID     string
	Email     string
	Phone     string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
