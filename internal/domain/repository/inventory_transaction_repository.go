package repository

import (
	"time"

	"github.com/Isaac-VelizC/localstock-backend/internal/domain/entity"
)

// InventoryTransactionRepository define el puerto del libro de inventario.
// El libro es append-only: no hay Update ni Delete.
type InventoryTransactionRepository interface {
	// CreateBulk agrega todas las filas en un solo lote.
	CreateBulk(transactions []*entity.InventoryTransaction) error
	ListByProduct(productID string, from, to *time.Time, limit, offset int) ([]*entity.InventoryTransaction, error)
	ListByWarehouse(warehouseID string, from, to *time.Time, limit, offset int) ([]*entity.InventoryTransaction, error)
}
