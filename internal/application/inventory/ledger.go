package inventory

import (
	"time"

	"github.com/Isaac-VelizC/localstock-backend/internal/domain/entity"
	"github.com/Isaac-VelizC/localstock-backend/internal/domain/repository"
	"github.com/google/uuid"
)

// Entry describe un delta de stock a registrar en el libro de inventario.
// La cantidad se entrega tal cual la produce el procesador; el signo se
// normaliza al escribir según el tipo.
type Entry struct {
	ProductID string
	Quantity  int64
	Type      string
	Reason    string
}

// NormalizeQuantity aplica la convención de signos del libro:
// entrada siempre positiva, salida siempre negativa, ajuste conserva el signo.
func NormalizeQuantity(txType string, quantity int64) int64 {
	switch txType {
	case entity.TransactionTypeEntrada:
		if quantity < 0 {
			return -quantity
		}
	case entity.TransactionTypeSalida:
		if quantity > 0 {
			return -quantity
		}
	}
	return quantity
}

// RecordAll construye las filas del libro para un documento y las agrega en un
// solo lote. No valida stock: esa responsabilidad es del procesador que llama.
func RecordAll(
	ledger repository.InventoryTransactionRepository,
	storeID, warehouseID, userID string,
	ref entity.DocumentRef,
	entries []Entry,
	now time.Time,
) error {
	if len(entries) == 0 {
		return nil
	}
	rows := make([]*entity.InventoryTransaction, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, &entity.InventoryTransaction{
			ID:          uuid.New().String(),
			ProductID:   e.ProductID,
			WarehouseID: warehouseID,
			StoreID:     storeID,
			Quantity:    NormalizeQuantity(e.Type, e.Quantity),
			Type:        e.Type,
			Reason:      e.Reason,
			Reference:   ref,
			UserID:      userID,
			CreatedAt:   now,
		})
	}
	return ledger.CreateBulk(rows)
}
