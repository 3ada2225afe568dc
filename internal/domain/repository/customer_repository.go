package repository

import "github.com/Isaac-VelizC/localstock-backend/internal/domain/entity"

// CustomerRepository define el puerto de persistencia para clientes.
type CustomerRepository interface {
	GetByID(id string) (*entity.Customer, error)
}
