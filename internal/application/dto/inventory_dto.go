package dto

import "time"

// InventoryTransactionResponse fila del libro de inventario en respuestas HTTP.
type InventoryTransactionResponse struct {
	ID            string    `json:"id"`
	ProductID     string    `json:"product_id"`
	WarehouseID   string    `json:"warehouse_id"`
	StoreID       string    `json:"store_id"`
	Quantity      int64     `json:"quantity"`
	Type          string    `json:"type"`
	Reason        string    `json:"reason,omitempty"`
	ReferenceKind string    `json:"reference_type,omitempty"`
	ReferenceID   string    `json:"reference_id,omitempty"`
	UserID        string    `json:"user_id,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}
