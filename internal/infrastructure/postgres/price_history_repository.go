package postgres

import (
	"context"
	"fmt"

	"github.com/Isaac-VelizC/localstock-backend/internal/domain/entity"
	"github.com/Isaac-VelizC/localstock-backend/internal/domain/repository"
)

var _ repository.PriceHistoryRepository = (*PriceHistoryRepo)(nil)

// PriceHistoryRepo implementación del historial de precios sobre PostgreSQL.
type PriceHistoryRepo struct {
	q Querier
}

// NewPriceHistoryRepository construye el adaptador del historial de precios. Pasar pool o tx (Querier).
func NewPriceHistoryRepository(q Querier) *PriceHistoryRepo {
	return &PriceHistoryRepo{q: q}
}

// Create registra un cambio de precio.
func (r *PriceHistoryRepo) Create(history *entity.ProductPriceHistory) error {
	query := `
		INSERT INTO product_price_history (id, product_id, purchase_price, sale_price, changed_by, changed_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(context.Background(), query,
		history.ID, history.ProductID, history.PurchasePrice, history.SalePrice,
		history.ChangedBy, history.ChangedAt,
	)
	if err != nil {
		return fmt.Errorf("insert price history: %w", err)
	}
	return nil
}

// ListByProduct lista el historial de precios de un producto, más reciente primero.
func (r *PriceHistoryRepo) ListByProduct(productID string, limit, offset int) ([]*entity.ProductPriceHistory, error) {
	query := `
		SELECT id, product_id, purchase_price, sale_price, changed_by, changed_at
		FROM product_price_history WHERE product_id = $1
		ORDER BY changed_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, productID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list price history: %w", err)
	}
	defer rows.Close()
	var list []*entity.ProductPriceHistory
	for rows.Next() {
		var h entity.ProductPriceHistory
		if err := rows.Scan(&h.ID, &h.ProductID, &h.PurchasePrice, &h.SalePrice,
			&h.ChangedBy, &h.ChangedAt); err != nil {
			return nil, fmt.Errorf("scan price history: %w", err)
		}
		list = append(list, &h)
	}
	return list, rows.Err()
}
