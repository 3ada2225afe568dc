package repository

import "github.com/Isaac-VelizC/localstock-backend/internal/domain/entity"

// SaleRepository define el puerto de persistencia para ventas y sus líneas.
type SaleRepository interface {
	Create(sale *entity.Sale) error
	CreateLines(lines []entity.SaleLine) error
	// GetByID carga la venta activa (sin soft delete) con sus líneas ordenadas.
	GetByID(id string) (*entity.Sale, error)
	// GetByIDForUpdate bloquea la fila de la venta (SELECT FOR UPDATE) para
	// serializar transiciones de estado concurrentes sobre el mismo documento.
	GetByIDForUpdate(id string) (*entity.Sale, error)
	Update(sale *entity.Sale) error
	DeleteLines(saleID string) error
	ListByStore(storeID string, limit, offset int) ([]*entity.Sale, error)
	// Delete marca la venta como eliminada (soft delete).
	Delete(id string) error
}
