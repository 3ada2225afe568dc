package repository

import "github.com/Isaac-VelizC/localstock-backend/internal/domain/entity"

// ProductRepository define el puerto de persistencia para Product (DIP).
// Las lecturas excluyen productos con soft delete salvo que se indique lo contrario.
type ProductRepository interface {
	Create(product *entity.Product) error
	GetByID(id string) (*entity.Product, error)
	GetByStoreAndCode(storeID, code string) (*entity.Product, error)
	Update(product *entity.Product) error
	ListByStore(storeID string, limit, offset int) ([]*entity.Product, error)
	// ListForUpdate carga los productos indicados con bloqueo exclusivo de fila
	// (SELECT FOR UPDATE) en orden ascendente de ID, para evitar deadlocks entre
	// documentos concurrentes que comparten productos.
	ListForUpdate(ids []string) ([]*entity.Product, error)
	// UpdateStockBulk persiste stock, reserved_stock y precios de todos los
	// productos en un solo batch al final de la transacción.
	UpdateStockBulk(products []*entity.Product) error
	// Delete marca el producto como eliminado (soft delete).
	Delete(id string) error
}
