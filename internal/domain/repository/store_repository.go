package repository

import "github.com/Isaac-VelizC/localstock-backend/internal/domain/entity"

// StoreRepository define el puerto de persistencia para tiendas y su configuración.
type StoreRepository interface {
	GetByID(id string) (*entity.Store, error)
}
