package entity

import "time"

// Tipos de transacción de inventario.
const (
	TransactionTypeEntrada = "entrada" // cantidad siempre positiva
	TransactionTypeSalida  = "salida"  // cantidad siempre negativa
	TransactionTypeAjuste  = "ajuste"  // conserva el signo del llamador
)

// Tipos de documento que originan una transacción de inventario.
const (
	RefPurchase = "purchase"
	RefSale     = "sale"
)

// DocumentRef referencia tipada al documento que originó un movimiento.
// Reemplaza la discriminación por strings libres con una unión etiquetada.
type DocumentRef struct {
	Kind string // RefPurchase | RefSale
	ID   string
}

// InventoryTransaction es una fila inmutable del libro de inventario.
// Se crea cuando el stock realmente se mueve; nunca se actualiza ni borra.
type InventoryTransaction struct {
	ID          string
	ProductID   string
	WarehouseID string
	StoreID     string
	Quantity    int64 // con signo, normalizado según Type al escribir
	Type        string
	Reason      string
	Reference   DocumentRef
	UserID      string
	CreatedAt   time.Time
}
