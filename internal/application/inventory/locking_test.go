package inventory_test

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Isaac-VelizC/localstock-backend/internal/application/inventory"
	"github.com/Isaac-VelizC/localstock-backend/internal/domain"
	"github.com/Isaac-VelizC/localstock-backend/internal/domain/entity"
)

// fakeProducts registra el orden de IDs pedido a ListForUpdate.
type fakeProducts struct {
	byID      map[string]*entity.Product
	lastOrder []string
}

func newFakeProducts(products ...*entity.Product) *fakeProducts {
	f := &fakeProducts{byID: make(map[string]*entity.Product)}
	for _, p := range products {
		f.byID[p.ID] = p
	}
	return f
}

func (f *fakeProducts) Create(p *entity.Product) error             { f.byID[p.ID] = p; return nil }
func (f *fakeProducts) GetByID(id string) (*entity.Product, error) { return f.byID[id], nil }
func (f *fakeProducts) Update(p *entity.Product) error             { return nil }
func (f *fakeProducts) Delete(id string) error                     { return nil }
func (f *fakeProducts) UpdateStockBulk(ps []*entity.Product) error { return nil }
func (f *fakeProducts) GetByStoreAndCode(storeID, code string) (*entity.Product, error) {
	return nil, nil
}
func (f *fakeProducts) ListByStore(storeID string, limit, offset int) ([]*entity.Product, error) {
	return nil, nil
}

func (f *fakeProducts) ListForUpdate(ids []string) ([]*entity.Product, error) {
	f.lastOrder = append([]string(nil), ids...)
	var out []*entity.Product
	for _, id := range ids {
		if p, ok := f.byID[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func activeProduct(id string) *entity.Product {
	return &entity.Product{ID: id, StoreID: "store-1", WarehouseID: "wh-1", IsActive: true}
}

func TestHasDuplicates(t *testing.T) {
	assert.False(t, inventory.HasDuplicates(nil))
	assert.False(t, inventory.HasDuplicates([]string{"a", "b"}))
	assert.True(t, inventory.HasDuplicates([]string{"a", "b", "a"}))
}

// El bloqueo siempre se pide en orden ascendente de ID, sin importar el orden
// de las líneas del documento.
func TestLockProducts_OrdenAscendente(t *testing.T) {
	repo := newFakeProducts(activeProduct("c"), activeProduct("a"), activeProduct("b"))

	locked, err := inventory.LockProducts(repo, "store-1", "wh-1", []string{"c", "a", "b"})
	require.NoError(t, err)
	require.Len(t, locked, 3)

	assert.True(t, sort.StringsAreSorted(repo.lastOrder),
		"ListForUpdate debe recibir los IDs ordenados, recibió %v", repo.lastOrder)
}

func TestLockProducts_ProductoInexistente(t *testing.T) {
	repo := newFakeProducts(activeProduct("a"))
	_, err := inventory.LockProducts(repo, "store-1", "wh-1", []string{"a", "zzz"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestLockProducts_ProductoEliminado(t *testing.T) {
	p := activeProduct("a")
	p.SoftDeleted = true
	repo := newFakeProducts(p)
	_, err := inventory.LockProducts(repo, "store-1", "wh-1", []string{"a"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// Producto de otra tienda: el tenant nunca ve recursos ajenos como "inválidos",
// los ve como prohibidos.
func TestLockProducts_OtraTienda(t *testing.T) {
	p := activeProduct("a")
	p.StoreID = "store-2"
	repo := newFakeProducts(p)
	_, err := inventory.LockProducts(repo, "store-1", "wh-1", []string{"a"})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestLockProducts_OtraBodega(t *testing.T) {
	p := activeProduct("a")
	p.WarehouseID = "wh-2"
	repo := newFakeProducts(p)
	_, err := inventory.LockProducts(repo, "store-1", "wh-1", []string{"a"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestLockProducts_ProductoInactivo(t *testing.T) {
	p := activeProduct("a")
	p.IsActive = false
	repo := newFakeProducts(p)
	_, err := inventory.LockProducts(repo, "store-1", "wh-1", []string{"a"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
