// Package purchase implementa el ciclo de vida de las compras a proveedor:
// crear/editar en pending, confirmar (entrada de stock) y cancelar (reverso).
package purchase

import (
	"context"
	"fmt"
	"time"

	"github.com/Isaac-VelizC/localstock-backend/internal/application/dto"
	"github.com/Isaac-VelizC/localstock-backend/internal/application/inventory"
	"github.com/Isaac-VelizC/localstock-backend/internal/application/numbering"
	"github.com/Isaac-VelizC/localstock-backend/internal/domain"
	"github.com/Isaac-VelizC/localstock-backend/internal/domain/entity"
	"github.com/Isaac-VelizC/localstock-backend/internal/domain/repository"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// UseCase procesa documentos de compra de forma transaccional, con bloqueo de
// fila sobre los productos referenciados y registro en el libro de inventario.
type UseCase struct {
	txRunner      inventory.TxRunner
	purchaseRepo  repository.PurchaseRepository
	storeRepo     repository.StoreRepository
	warehouseRepo repository.WarehouseRepository
	supplierRepo  repository.SupplierRepository
}

// NewUseCase construye el procesador de compras.
func NewUseCase(
	txRunner inventory.TxRunner,
	purchaseRepo repository.PurchaseRepository,
	storeRepo repository.StoreRepository,
	warehouseRepo repository.WarehouseRepository,
	supplierRepo repository.SupplierRepository,
) *UseCase {
	return &UseCase{
		txRunner:      txRunner,
		purchaseRepo:  purchaseRepo,
		storeRepo:     storeRepo,
		warehouseRepo: warehouseRepo,
		supplierRepo:  supplierRepo,
	}
}

// validateLines rechaza líneas malformadas antes de tomar cualquier bloqueo:
// sin líneas, producto vacío o duplicado, cantidad <= 0, precio/descuento
// negativo o tasa de impuesto fuera de 0-100.
func validateLines(lines []dto.PurchaseLineRequest) error {
	if len(lines) == 0 {
		return domain.ErrInvalidInput
	}
	ids := make([]string, 0, len(lines))
	for _, l := range lines {
		if l.ProductID == "" || l.Quantity <= 0 {
			return domain.ErrInvalidInput
		}
		if l.PurchasePrice.IsNegative() || l.Discount.IsNegative() {
			return domain.ErrInvalidInput
		}
		if l.TaxRate.IsNegative() || l.TaxRate.GreaterThan(hundred) {
			return domain.ErrInvalidInput
		}
		ids = append(ids, l.ProductID)
	}
	if inventory.HasDuplicates(ids) {
		return domain.ErrInvalidInput
	}
	return nil
}

func lineProductIDs(lines []dto.PurchaseLineRequest) []string {
	ids := make([]string, 0, len(lines))
	for _, l := range lines {
		ids = append(ids, l.ProductID)
	}
	return ids
}

// totals acumula los montos del documento durante el cálculo de líneas.
type totals struct {
	Total         decimal.Decimal
	TaxTotal      decimal.Decimal
	DiscountTotal decimal.Decimal
	NetTotal      decimal.Decimal
}

// buildLines calcula cada línea y los totales del documento:
// subtotal = cantidad*precio - descuento, impuesto = subtotal*tasa/100,
// total = sum(cantidad*precio), net_total = total + tax_total - discount_total.
func buildLines(purchaseID string, in []dto.PurchaseLineRequest) ([]entity.PurchaseLine, totals) {
	t := totals{
		Total:         decimal.Zero,
		TaxTotal:      decimal.Zero,
		DiscountTotal: decimal.Zero,
	}
	lines := make([]entity.PurchaseLine, 0, len(in))
	for _, l := range in {
		qty := decimal.NewFromInt(l.Quantity)
		gross := qty.Mul(l.PurchasePrice)
		subtotal := gross.Sub(l.Discount)
		tax := subtotal.Mul(l.TaxRate).Div(hundred)

		t.Total = t.Total.Add(gross)
		t.TaxTotal = t.TaxTotal.Add(tax)
		t.DiscountTotal = t.DiscountTotal.Add(l.Discount)

		lines = append(lines, entity.PurchaseLine{
			ID:            uuid.New().String(),
			PurchaseID:    purchaseID,
			ProductID:     l.ProductID,
			Quantity:      l.Quantity,
			PurchasePrice: l.PurchasePrice,
			TaxRate:       l.TaxRate,
			Discount:      l.Discount,
			Subtotal:      subtotal,
		})
	}
	t.NetTotal = t.Total.Add(t.TaxTotal).Sub(t.DiscountTotal)
	return lines, t
}

// Create registra una compra en estado pending. No mueve stock ni escribe en el
// libro: eso ocurre únicamente al confirmar. El número de factura se emite
// dentro de la misma transacción que persiste el documento.
func (uc *UseCase) Create(ctx context.Context, storeID, userID string, in dto.CreatePurchaseRequest) (*dto.PurchaseResponse, error) {
	if in.Status != "" && in.Status != entity.PurchaseStatusPending {
		return nil, domain.ErrInvalidInput
	}
	if err := validateLines(in.Lines); err != nil {
		return nil, err
	}
	if in.SupplierID == "" || in.WarehouseID == "" {
		return nil, domain.ErrInvalidInput
	}

	warehouse, err := uc.warehouseRepo.GetByID(in.WarehouseID)
	if err != nil || warehouse == nil {
		return nil, domain.ErrNotFound
	}
	if warehouse.StoreID != storeID {
		return nil, domain.ErrForbidden
	}
	supplier, err := uc.supplierRepo.GetByID(in.SupplierID)
	if err != nil || supplier == nil {
		return nil, domain.ErrNotFound
	}
	if supplier.StoreID != storeID {
		return nil, domain.ErrForbidden
	}

	now := time.Now()
	purchase := &entity.Purchase{
		ID:           uuid.New().String(),
		SupplierID:   in.SupplierID,
		StoreID:      storeID,
		WarehouseID:  in.WarehouseID,
		PurchaseDate: now,
		Status:       entity.PurchaseStatusPending,
		CreatedBy:    userID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err = uc.txRunner.Run(ctx, func(r inventory.TxRepos) error {
		// El bloqueo también valida existencia, tienda, bodega y estado activo.
		if _, err := inventory.LockProducts(r.Products, storeID, in.WarehouseID, lineProductIDs(in.Lines)); err != nil {
			return err
		}
		invoiceNumber, err := numbering.NextInvoiceNumber(r.InvoiceCounters, warehouse, repository.OperationPurchase, now)
		if err != nil {
			return err
		}
		purchase.InvoiceNumber = invoiceNumber

		lines, totals := buildLines(purchase.ID, in.Lines)
		purchase.Total = totals.Total
		purchase.TaxTotal = totals.TaxTotal
		purchase.DiscountTotal = totals.DiscountTotal
		purchase.NetTotal = totals.NetTotal
		purchase.Lines = lines

		if err := r.Purchases.Create(purchase); err != nil {
			return err
		}
		return r.Purchases.CreateLines(lines)
	})
	if err != nil {
		return nil, err
	}
	return toResponse(purchase), nil
}

// Update reemplaza todas las líneas de una compra pending y recalcula totales
// exactamente igual que Create. Cualquier otro estado es una transición inválida.
func (uc *UseCase) Update(ctx context.Context, storeID, userID, id string, in dto.UpdatePurchaseRequest) (*dto.PurchaseResponse, error) {
	if err := validateLines(in.Lines); err != nil {
		return nil, err
	}
	existing, err := uc.loadForStore(storeID, id)
	if err != nil {
		return nil, err
	}
	if existing.Status != entity.PurchaseStatusPending {
		return nil, fmt.Errorf("%w: solo se editan compras pendientes", domain.ErrInvalidTransition)
	}

	var updated *entity.Purchase
	err = uc.txRunner.Run(ctx, func(r inventory.TxRepos) error {
		purchase, err := r.Purchases.GetByIDForUpdate(id)
		if err != nil {
			return err
		}
		if purchase == nil {
			return domain.ErrNotFound
		}
		if purchase.Status != entity.PurchaseStatusPending {
			return domain.ErrInvalidTransition
		}
		if _, err := inventory.LockProducts(r.Products, storeID, purchase.WarehouseID, lineProductIDs(in.Lines)); err != nil {
			return err
		}
		if err := r.Purchases.DeleteLines(purchase.ID); err != nil {
			return err
		}

		lines, totals := buildLines(purchase.ID, in.Lines)
		if in.SupplierID != "" {
			purchase.SupplierID = in.SupplierID
		}
		purchase.Total = totals.Total
		purchase.TaxTotal = totals.TaxTotal
		purchase.DiscountTotal = totals.DiscountTotal
		purchase.NetTotal = totals.NetTotal
		purchase.UpdatedAt = time.Now()
		purchase.Lines = lines

		if err := r.Purchases.CreateLines(lines); err != nil {
			return err
		}
		if err := r.Purchases.Update(purchase); err != nil {
			return err
		}
		updated = purchase
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toResponse(updated), nil
}

// GetByID carga una compra de la tienda con sus líneas.
func (uc *UseCase) GetByID(storeID, id string) (*dto.PurchaseResponse, error) {
	purchase, err := uc.loadForStore(storeID, id)
	if err != nil {
		return nil, err
	}
	return toResponse(purchase), nil
}

// List lista las compras de la tienda, paginadas.
func (uc *UseCase) List(storeID string, limit, offset int) ([]*dto.PurchaseResponse, error) {
	purchases, err := uc.purchaseRepo.ListByStore(storeID, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.PurchaseResponse, 0, len(purchases))
	for _, p := range purchases {
		out = append(out, toResponse(p))
	}
	return out, nil
}

func (uc *UseCase) loadForStore(storeID, id string) (*entity.Purchase, error) {
	purchase, err := uc.purchaseRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if purchase == nil {
		return nil, domain.ErrNotFound
	}
	if purchase.StoreID != storeID {
		return nil, domain.ErrForbidden
	}
	return purchase, nil
}

func toResponse(p *entity.Purchase) *dto.PurchaseResponse {
	resp := &dto.PurchaseResponse{
		ID:            p.ID,
		SupplierID:    p.SupplierID,
		StoreID:       p.StoreID,
		WarehouseID:   p.WarehouseID,
		InvoiceNumber: p.InvoiceNumber,
		PurchaseDate:  p.PurchaseDate,
		Total:         p.Total,
		TaxTotal:      p.TaxTotal,
		DiscountTotal: p.DiscountTotal,
		NetTotal:      p.NetTotal,
		Status:        p.Status,
		Lines:         make([]dto.PurchaseLineResponse, 0, len(p.Lines)),
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
	for _, l := range p.Lines {
		resp.Lines = append(resp.Lines, dto.PurchaseLineResponse{
			ID:            l.ID,
			ProductID:     l.ProductID,
			Quantity:      l.Quantity,
			PurchasePrice: l.PurchasePrice,
			TaxRate:       l.TaxRate,
			Discount:      l.Discount,
			Subtotal:      l.Subtotal,
		})
	}
	return resp
}
