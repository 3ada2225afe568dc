package repository

import "github.com/Isaac-VelizC/localstock-backend/internal/domain/entity"

// SupplierRepository define el puerto de persistencia para proveedores.
type SupplierRepository interface {
	GetByID(id string) (*entity.Supplier, error)
}
