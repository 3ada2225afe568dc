package repository

import "github.com/Isaac-VelizC/localstock-backend/internal/domain/entity"

// PurchaseRepository define el puerto de persistencia para compras y sus líneas.
type PurchaseRepository interface {
	Create(purchase *entity.Purchase) error
	CreateLines(lines []entity.PurchaseLine) error
	// GetByID carga la compra activa (sin soft delete) con sus líneas ordenadas.
	GetByID(id string) (*entity.Purchase, error)
	// GetByIDForUpdate bloquea la fila de la compra (SELECT FOR UPDATE) para
	// serializar transiciones de estado concurrentes sobre el mismo documento.
	GetByIDForUpdate(id string) (*entity.Purchase, error)
	Update(purchase *entity.Purchase) error
	DeleteLines(purchaseID string) error
	ListByStore(storeID string, limit, offset int) ([]*entity.Purchase, error)
	// Delete marca la compra como eliminada (soft delete).
	Delete(id string) error
}
