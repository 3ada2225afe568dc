package repository

import "github.com/Isaac-VelizC/localstock-backend/internal/domain/entity"

// WarehouseRepository define el puerto de persistencia para bodegas.
type WarehouseRepository interface {
	GetByID(id string) (*entity.Warehouse, error)
	ListByStore(storeID string) ([]*entity.Warehouse, error)
}
