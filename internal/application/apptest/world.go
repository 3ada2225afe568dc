// Package apptest provee dobles en memoria de los puertos de persistencia,
// con un TxRunner que imita el rollback de una transacción real: si el
// callback falla, el estado vuelve al snapshot previo.
package apptest

import (
	"context"
	"sync"
	"time"

	"github.com/Isaac-VelizC/localstock-backend/internal/application/inventory"
	"github.com/Isaac-VelizC/localstock-backend/internal/domain"
	"github.com/Isaac-VelizC/localstock-backend/internal/domain/entity"
	"github.com/Isaac-VelizC/localstock-backend/internal/domain/repository"
)

type invoiceCounterKey struct {
	WarehouseID string
	Date        string
	Operation   string
}

// World es el estado compartido de los fakes. Los repos devuelven copias, por
// lo que una mutación solo persiste si el código bajo prueba llama Update o
// UpdateStockBulk, igual que contra la DB real.
type World struct {
	mu sync.Mutex

	Products        map[string]*entity.Product
	Purchases       map[string]*entity.Purchase
	Sales           map[string]*entity.Sale
	Ledger          []*entity.InventoryTransaction
	PriceHistory    []*entity.ProductPriceHistory
	InvoiceCounters map[invoiceCounterKey]int64
	SaleCounters    map[string]int64
	Stores          map[string]*entity.Store
	Warehouses      map[string]*entity.Warehouse
	Suppliers       map[string]*entity.Supplier
	Customers       map[string]*entity.Customer
}

// NewWorld construye un mundo vacío.
func NewWorld() *World {
	return &World{
		Products:        make(map[string]*entity.Product),
		Purchases:       make(map[string]*entity.Purchase),
		Sales:           make(map[string]*entity.Sale),
		InvoiceCounters: make(map[invoiceCounterKey]int64),
		SaleCounters:    make(map[string]int64),
		Stores:          make(map[string]*entity.Store),
		Warehouses:      make(map[string]*entity.Warehouse),
		Suppliers:       make(map[string]*entity.Supplier),
		Customers:       make(map[string]*entity.Customer),
	}
}

func copyProduct(p *entity.Product) *entity.Product {
	c := *p
	return &c
}

func copyPurchase(p *entity.Purchase) *entity.Purchase {
	c := *p
	c.Lines = append([]entity.PurchaseLine(nil), p.Lines...)
	return &c
}

func copySale(s *entity.Sale) *entity.Sale {
	c := *s
	c.Lines = append([]entity.SaleLine(nil), s.Lines...)
	if s.CustomerID != nil {
		id := *s.CustomerID
		c.CustomerID = &id
	}
	return &c
}

func (w *World) snapshot() *World {
	s := NewWorld()
	for id, p := range w.Products {
		s.Products[id] = copyProduct(p)
	}
	for id, p := range w.Purchases {
		s.Purchases[id] = copyPurchase(p)
	}
	for id, v := range w.Sales {
		s.Sales[id] = copySale(v)
	}
	s.Ledger = append([]*entity.InventoryTransaction(nil), w.Ledger...)
	s.PriceHistory = append([]*entity.ProductPriceHistory(nil), w.PriceHistory...)
	for k, v := range w.InvoiceCounters {
		s.InvoiceCounters[k] = v
	}
	for k, v := range w.SaleCounters {
		s.SaleCounters[k] = v
	}
	for id, v := range w.Stores {
		s.Stores[id] = v
	}
	for id, v := range w.Warehouses {
		s.Warehouses[id] = v
	}
	for id, v := range w.Suppliers {
		s.Suppliers[id] = v
	}
	for id, v := range w.Customers {
		s.Customers[id] = v
	}
	return s
}

func (w *World) restore(s *World) {
	w.Products = s.Products
	w.Purchases = s.Purchases
	w.Sales = s.Sales
	w.Ledger = s.Ledger
	w.PriceHistory = s.PriceHistory
	w.InvoiceCounters = s.InvoiceCounters
	w.SaleCounters = s.SaleCounters
}

// ── Accesores de conveniencia para asserts ────────────────────────────────────

// Product devuelve el estado persistido de un producto (incluso soft-deleted).
func (w *World) Product(id string) *entity.Product { return w.Products[id] }

// Purchase devuelve el estado persistido de una compra (incluso soft-deleted).
func (w *World) Purchase(id string) *entity.Purchase { return w.Purchases[id] }

// Sale devuelve el estado persistido de una venta (incluso soft-deleted).
func (w *World) Sale(id string) *entity.Sale { return w.Sales[id] }

// LedgerForProduct filtra el libro por producto, en orden de inserción.
func (w *World) LedgerForProduct(productID string) []*entity.InventoryTransaction {
	var out []*entity.InventoryTransaction
	for _, t := range w.Ledger {
		if t.ProductID == productID {
			out = append(out, t)
		}
	}
	return out
}

// ── TxRunner ──────────────────────────────────────────────────────────────────

// TxRunner ejecuta fn sobre el mundo; si fn falla restaura el snapshot.
type TxRunner struct {
	World *World
	// FailCommit fuerza un error tras un fn exitoso, simulando un commit fallido.
	FailCommit error
	// Runs cuenta las transacciones iniciadas.
	Runs int
}

var _ inventory.TxRunner = (*TxRunner)(nil)

// NewTxRunner construye el runner sobre un mundo.
func NewTxRunner(w *World) *TxRunner {
	return &TxRunner{World: w}
}

// Run implementa inventory.TxRunner con semántica de rollback.
func (r *TxRunner) Run(ctx context.Context, fn func(repos inventory.TxRepos) error) error {
	r.World.mu.Lock()
	defer r.World.mu.Unlock()
	r.Runs++

	snap := r.World.snapshot()
	err := fn(Repos(r.World))
	if err == nil && r.FailCommit != nil {
		err = r.FailCommit
	}
	if err != nil {
		r.World.restore(snap)
		return err
	}
	return nil
}

// Repos construye el conjunto de repos sobre un mundo (pool o "tx", aquí es lo mismo).
func Repos(w *World) inventory.TxRepos {
	return inventory.TxRepos{
		Products:        &productRepo{w},
		Purchases:       &purchaseRepo{w},
		Sales:           &saleRepo{w},
		Transactions:    &ledgerRepo{w},
		InvoiceCounters: &invoiceCounterRepo{w},
		SaleCounters:    &saleCounterRepo{w},
		PriceHistory:    &priceHistoryRepo{w},
	}
}

// ── Product ───────────────────────────────────────────────────────────────────

type productRepo struct{ w *World }

var _ repository.ProductRepository = (*productRepo)(nil)

// ProductRepo expone el repo de productos del mundo.
func (w *World) ProductRepo() repository.ProductRepository { return &productRepo{w} }

func (r *productRepo) Create(p *entity.Product) error {
	if _, ok := r.w.Products[p.ID]; ok {
		return domain.ErrDuplicate
	}
	r.w.Products[p.ID] = copyProduct(p)
	return nil
}

func (r *productRepo) GetByID(id string) (*entity.Product, error) {
	p, ok := r.w.Products[id]
	if !ok || p.SoftDeleted {
		return nil, nil
	}
	return copyProduct(p), nil
}

func (r *productRepo) GetByStoreAndCode(storeID, code string) (*entity.Product, error) {
	for _, p := range r.w.Products {
		if p.StoreID == storeID && p.Code == code && !p.SoftDeleted {
			return copyProduct(p), nil
		}
	}
	return nil, nil
}

func (r *productRepo) Update(p *entity.Product) error {
	if cur, ok := r.w.Products[p.ID]; ok && !cur.SoftDeleted {
		r.w.Products[p.ID] = copyProduct(p)
	}
	return nil
}

func (r *productRepo) ListByStore(storeID string, limit, offset int) ([]*entity.Product, error) {
	var out []*entity.Product
	for _, p := range r.w.Products {
		if p.StoreID == storeID && !p.SoftDeleted {
			out = append(out, copyProduct(p))
		}
	}
	return out, nil
}

func (r *productRepo) ListForUpdate(ids []string) ([]*entity.Product, error) {
	var out []*entity.Product
	for _, id := range ids {
		if p, ok := r.w.Products[id]; ok {
			out = append(out, copyProduct(p))
		}
	}
	return out, nil
}

func (r *productRepo) UpdateStockBulk(products []*entity.Product) error {
	for _, p := range products {
		cur, ok := r.w.Products[p.ID]
		if !ok {
			continue
		}
		cur.Stock = p.Stock
		cur.ReservedStock = p.ReservedStock
		cur.PurchasePrice = p.PurchasePrice
		cur.SalePrice = p.SalePrice
	}
	return nil
}

func (r *productRepo) Delete(id string) error {
	if p, ok := r.w.Products[id]; ok {
		p.SoftDeleted = true
	}
	return nil
}

// ── Purchase ──────────────────────────────────────────────────────────────────

type purchaseRepo struct{ w *World }

var _ repository.PurchaseRepository = (*purchaseRepo)(nil)

// PurchaseRepo expone el repo de compras del mundo.
func (w *World) PurchaseRepo() repository.PurchaseRepository { return &purchaseRepo{w} }

func (r *purchaseRepo) Create(p *entity.Purchase) error {
	if _, ok := r.w.Purchases[p.ID]; ok {
		return domain.ErrDuplicate
	}
	c := copyPurchase(p)
	c.Lines = nil
	r.w.Purchases[p.ID] = c
	return nil
}

func (r *purchaseRepo) CreateLines(lines []entity.PurchaseLine) error {
	for _, l := range lines {
		if p, ok := r.w.Purchases[l.PurchaseID]; ok {
			p.Lines = append(p.Lines, l)
		}
	}
	return nil
}

func (r *purchaseRepo) GetByID(id string) (*entity.Purchase, error) {
	p, ok := r.w.Purchases[id]
	if !ok || p.SoftDeleted {
		return nil, nil
	}
	return copyPurchase(p), nil
}

func (r *purchaseRepo) GetByIDForUpdate(id string) (*entity.Purchase, error) {
	return r.GetByID(id)
}

func (r *purchaseRepo) Update(p *entity.Purchase) error {
	if cur, ok := r.w.Purchases[p.ID]; ok && !cur.SoftDeleted {
		c := copyPurchase(p)
		c.Lines = cur.Lines
		r.w.Purchases[p.ID] = c
	}
	return nil
}

func (r *purchaseRepo) DeleteLines(purchaseID string) error {
	if p, ok := r.w.Purchases[purchaseID]; ok {
		p.Lines = nil
	}
	return nil
}

func (r *purchaseRepo) ListByStore(storeID string, limit, offset int) ([]*entity.Purchase, error) {
	var out []*entity.Purchase
	for _, p := range r.w.Purchases {
		if p.StoreID == storeID && !p.SoftDeleted {
			out = append(out, copyPurchase(p))
		}
	}
	return out, nil
}

func (r *purchaseRepo) Delete(id string) error {
	if p, ok := r.w.Purchases[id]; ok {
		p.SoftDeleted = true
	}
	return nil
}

// ── Sale ──────────────────────────────────────────────────────────────────────

type saleRepo struct{ w *World }

var _ repository.SaleRepository = (*saleRepo)(nil)

// SaleRepo expone el repo de ventas del mundo.
func (w *World) SaleRepo() repository.SaleRepository { return &saleRepo{w} }

func (r *saleRepo) Create(s *entity.Sale) error {
	if _, ok := r.w.Sales[s.ID]; ok {
		return domain.ErrDuplicate
	}
	c := copySale(s)
	c.Lines = nil
	r.w.Sales[s.ID] = c
	return nil
}

func (r *saleRepo) CreateLines(lines []entity.SaleLine) error {
	for _, l := range lines {
		if s, ok := r.w.Sales[l.SaleID]; ok {
			s.Lines = append(s.Lines, l)
		}
	}
	return nil
}

func (r *saleRepo) GetByID(id string) (*entity.Sale, error) {
	s, ok := r.w.Sales[id]
	if !ok || s.SoftDeleted {
		return nil, nil
	}
	return copySale(s), nil
}

func (r *saleRepo) GetByIDForUpdate(id string) (*entity.Sale, error) {
	return r.GetByID(id)
}

func (r *saleRepo) Update(s *entity.Sale) error {
	if cur, ok := r.w.Sales[s.ID]; ok && !cur.SoftDeleted {
		c := copySale(s)
		c.Lines = cur.Lines
		r.w.Sales[s.ID] = c
	}
	return nil
}

func (r *saleRepo) DeleteLines(saleID string) error {
	if s, ok := r.w.Sales[saleID]; ok {
		s.Lines = nil
	}
	return nil
}

func (r *saleRepo) ListByStore(storeID string, limit, offset int) ([]*entity.Sale, error) {
	var out []*entity.Sale
	for _, s := range r.w.Sales {
		if s.StoreID == storeID && !s.SoftDeleted {
			out = append(out, copySale(s))
		}
	}
	return out, nil
}

func (r *saleRepo) Delete(id string) error {
	if s, ok := r.w.Sales[id]; ok {
		s.SoftDeleted = true
	}
	return nil
}

// ── Libro de inventario ───────────────────────────────────────────────────────

type ledgerRepo struct{ w *World }

var _ repository.InventoryTransactionRepository = (*ledgerRepo)(nil)

// LedgerRepo expone el libro de inventario del mundo.
func (w *World) LedgerRepo() repository.InventoryTransactionRepository { return &ledgerRepo{w} }

func (r *ledgerRepo) CreateBulk(transactions []*entity.InventoryTransaction) error {
	r.w.Ledger = append(r.w.Ledger, transactions...)
	return nil
}

func (r *ledgerRepo) ListByProduct(productID string, from, to *time.Time, limit, offset int) ([]*entity.InventoryTransaction, error) {
	return r.w.LedgerForProduct(productID), nil
}

func (r *ledgerRepo) ListByWarehouse(warehouseID string, from, to *time.Time, limit, offset int) ([]*entity.InventoryTransaction, error) {
	var out []*entity.InventoryTransaction
	for _, t := range r.w.Ledger {
		if t.WarehouseID == warehouseID {
			out = append(out, t)
		}
	}
	return out, nil
}

// ── Contadores ────────────────────────────────────────────────────────────────

type invoiceCounterRepo struct{ w *World }

func (r *invoiceCounterRepo) Next(warehouseID string, date time.Time, operationType string) (int64, error) {
	k := invoiceCounterKey{warehouseID, date.Format("2006-01-02"), operationType}
	r.w.InvoiceCounters[k]++
	return r.w.InvoiceCounters[k], nil
}

type saleCounterRepo struct{ w *World }

func (r *saleCounterRepo) Next(storeID string) (int64, error) {
	r.w.SaleCounters[storeID]++
	return r.w.SaleCounters[storeID], nil
}

// ── Historial de precios ──────────────────────────────────────────────────────

type priceHistoryRepo struct{ w *World }

var _ repository.PriceHistoryRepository = (*priceHistoryRepo)(nil)

func (r *priceHistoryRepo) Create(h *entity.ProductPriceHistory) error {
	c := *h
	r.w.PriceHistory = append(r.w.PriceHistory, &c)
	return nil
}

func (r *priceHistoryRepo) ListByProduct(productID string, limit, offset int) ([]*entity.ProductPriceHistory, error) {
	var out []*entity.ProductPriceHistory
	for _, h := range r.w.PriceHistory {
		if h.ProductID == productID {
			out = append(out, h)
		}
	}
	return out, nil
}

// ── Catálogos de solo lectura ─────────────────────────────────────────────────

type storeRepo struct{ w *World }

func (r *storeRepo) GetByID(id string) (*entity.Store, error) { return r.w.Stores[id], nil }

// StoreRepo expone el repo de tiendas del mundo.
func (w *World) StoreRepo() repository.StoreRepository { return &storeRepo{w} }

type warehouseRepo struct{ w *World }

func (r *warehouseRepo) GetByID(id string) (*entity.Warehouse, error) { return r.w.Warehouses[id], nil }

func (r *warehouseRepo) ListByStore(storeID string) ([]*entity.Warehouse, error) {
	var out []*entity.Warehouse
	for _, wh := range r.w.Warehouses {
		if wh.StoreID == storeID {
			out = append(out, wh)
		}
	}
	return out, nil
}

// WarehouseRepo expone el repo de bodegas del mundo.
func (w *World) WarehouseRepo() repository.WarehouseRepository { return &warehouseRepo{w} }

type supplierRepo struct{ w *World }

func (r *supplierRepo) GetByID(id string) (*entity.Supplier, error) { return r.w.Suppliers[id], nil }

// SupplierRepo expone el repo de proveedores del mundo.
func (w *World) SupplierRepo() repository.SupplierRepository { return &supplierRepo{w} }

type customerRepo struct{ w *World }

func (r *customerRepo) GetByID(id string) (*entity.Customer, error) { return r.w.Customers[id], nil }

// CustomerRepo expone el repo de clientes del mundo.
func (w *World) CustomerRepo() repository.CustomerRepository { return &customerRepo{w} }
