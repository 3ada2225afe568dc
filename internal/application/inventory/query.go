package inventory

import (
	"time"

	"github.com/Isaac-VelizC/localstock-backend/internal/application/dto"
	"github.com/Isaac-VelizC/localstock-backend/internal/domain/entity"
	"github.com/Isaac-VelizC/localstock-backend/internal/domain/repository"
)

// QueryUseCase lectura del libro de inventario (solo scan append-only).
type QueryUseCase struct {
	transactions repository.InventoryTransactionRepository
}

// NewQueryUseCase construye el caso de uso de consulta del libro.
func NewQueryUseCase(transactions repository.InventoryTransactionRepository) *QueryUseCase {
	return &QueryUseCase{transactions: transactions}
}

// ListByProduct lista las transacciones de un producto, más recientes primero.
func (uc *QueryUseCase) ListByProduct(storeID, productID string, from, to *time.Time, limit, offset int) ([]dto.InventoryTransactionResponse, error) {
	rows, err := uc.transactions.ListByProduct(productID, from, to, limit, offset)
	if err != nil {
		return nil, err
	}
	return filterToResponses(rows, storeID), nil
}

// ListByWarehouse lista las transacciones de una bodega, más recientes primero.
func (uc *QueryUseCase) ListByWarehouse(storeID, warehouseID string, from, to *time.Time, limit, offset int) ([]dto.InventoryTransactionResponse, error) {
	rows, err := uc.transactions.ListByWarehouse(warehouseID, from, to, limit, offset)
	if err != nil {
		return nil, err
	}
	return filterToResponses(rows, storeID), nil
}

func filterToResponses(rows []*entity.InventoryTransaction, storeID string) []dto.InventoryTransactionResponse {
	out := make([]dto.InventoryTransactionResponse, 0, len(rows))
	for _, tx := range rows {
		if tx.StoreID != storeID {
			continue
		}
		out = append(out, dto.InventoryTransactionResponse{
			ID:            tx.ID,
			ProductID:     tx.ProductID,
			WarehouseID:   tx.WarehouseID,
			StoreID:       tx.StoreID,
			Quantity:      tx.Quantity,
			Type:          tx.Type,
			Reason:        tx.Reason,
			ReferenceKind: tx.Reference.Kind,
			ReferenceID:   tx.Reference.ID,
			UserID:        tx.UserID,
			CreatedAt:     tx.CreatedAt,
		})
	}
	return out
}
