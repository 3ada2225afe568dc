package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/Isaac-VelizC/localstock-backend/internal/domain/entity"
	"github.com/Isaac-VelizC/localstock-backend/internal/domain/repository"
)

var _ repository.InventoryTransactionRepository = (*InventoryTransactionRepo)(nil)

const transactionColumns = `id, product_id, warehouse_id, store_id, quantity, type, reason,
	reference_kind, reference_id, user_id, created_at`

// InventoryTransactionRepo implementación del libro de inventario sobre PostgreSQL.
// Solo inserta y lee: el libro es append-only.
type InventoryTransactionRepo struct {
	q Querier
}

// NewInventoryTransactionRepository construye el adaptador del libro. Pasar pool o tx (Querier).
func NewInventoryTransactionRepository(q Querier) *InventoryTransactionRepo {
	return &InventoryTransactionRepo{q: q}
}

// CreateBulk agrega todas las filas en un solo COPY.
func (r *InventoryTransactionRepo) CreateBulk(transactions []*entity.InventoryTransaction) error {
	if len(transactions) == 0 {
		return nil
	}
	rows := make([][]any, 0, len(transactions))
	for _, t := range transactions {
		rows = append(rows, []any{
			t.ID, t.ProductID, t.WarehouseID, t.StoreID, t.Quantity, t.Type, t.Reason,
			t.Reference.Kind, t.Reference.ID, t.UserID, t.CreatedAt,
		})
	}
	_, err := r.q.CopyFrom(context.Background(),
		pgx.Identifier{"inventory_transactions"},
		[]string{"id", "product_id", "warehouse_id", "store_id", "quantity", "type", "reason",
			"reference_kind", "reference_id", "user_id", "created_at"},
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		return mapError("copy inventory transactions", err)
	}
	return nil
}

func (r *InventoryTransactionRepo) list(where string, args []any, from, to *time.Time, limit, offset int) ([]*entity.InventoryTransaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM inventory_transactions WHERE ` + where
	if from != nil {
		args = append(args, *from)
		query += fmt.Sprintf(" AND created_at >= $%d", len(args))
	}
	if to != nil {
		args = append(args, *to)
		query += fmt.Sprintf(" AND created_at < $%d", len(args))
	}
	args = append(args, limit, offset)
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list inventory transactions: %w", err)
	}
	defer rows.Close()
	var list []*entity.InventoryTransaction
	for rows.Next() {
		var t entity.InventoryTransaction
		if err := rows.Scan(&t.ID, &t.ProductID, &t.WarehouseID, &t.StoreID, &t.Quantity,
			&t.Type, &t.Reason, &t.Reference.Kind, &t.Reference.ID, &t.UserID, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan inventory transaction: %w", err)
		}
		list = append(list, &t)
	}
	return list, rows.Err()
}

// ListByProduct lista el historial de movimientos de un producto, opcionalmente acotado por fechas.
func (r *InventoryTransactionRepo) ListByProduct(productID string, from, to *time.Time, limit, offset int) ([]*entity.InventoryTransaction, error) {
	return r.list("product_id = $1", []any{productID}, from, to, limit, offset)
}

// ListByWarehouse lista el historial de movimientos de una bodega, opcionalmente acotado por fechas.
func (r *InventoryTransactionRepo) ListByWarehouse(warehouseID string, from, to *time.Time, limit, offset int) ([]*entity.InventoryTransaction, error) {
	return r.list("warehouse_id = $1", []any{warehouseID}, from, to, limit, offset)
}
