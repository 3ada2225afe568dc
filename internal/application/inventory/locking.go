package inventory

import (
	"sort"

	"github.com/Isaac-VelizC/localstock-backend/internal/domain"
	"github.com/Isaac-VelizC/localstock-backend/internal/domain/entity"
	"github.com/Isaac-VelizC/localstock-backend/internal/domain/repository"
)

// HasDuplicates indica si la lista de IDs de producto contiene repetidos.
func HasDuplicates(ids []string) bool {
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			return true
		}
		seen[id] = struct{}{}
	}
	return false
}

// LockProducts carga y bloquea (SELECT FOR UPDATE) los productos referenciados
// por un documento, en orden ascendente de ID para que dos documentos
// concurrentes que comparten productos nunca se bloqueen en orden cruzado.
// Valida que cada producto exista, esté activo y pertenezca a la tienda y bodega.
func LockProducts(products repository.ProductRepository, storeID, warehouseID string, ids []string) (map[string]*entity.Product, error) {
	sorted := make([]string, len(ids))
	copy(sorted, ids)
	sort.Strings(sorted)

	locked, err := products.ListForUpdate(sorted)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]*entity.Product, len(locked))
	for _, p := range locked {
		byID[p.ID] = p
	}
	for _, id := range ids {
		p, ok := byID[id]
		if !ok || p.SoftDeleted {
			return nil, domain.ErrNotFound
		}
		if p.StoreID != storeID {
			return nil, domain.ErrForbidden
		}
		if p.WarehouseID != warehouseID || !p.IsActive {
			return nil, domain.ErrInvalidInput
		}
	}
	return byID, nil
}
