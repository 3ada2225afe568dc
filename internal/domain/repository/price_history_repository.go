package repository

import "github.com/Isaac-VelizC/localstock-backend/internal/domain/entity"

// PriceHistoryRepository define el puerto del historial de precios de producto.
type PriceHistoryRepository interface {
	Create(history *entity.ProductPriceHistory) error
	ListByProduct(productID string, limit, offset int) ([]*entity.ProductPriceHistory, error)
}
