// Package sale implementa el ciclo de vida de las ventas: creación en
// draft/pending/completed (con reserva o salida inmediata de stock),
// edición, confirmación y cancelación.
package sale

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

// UseCase procesa documentos de venta de forma transaccional. Una venta
// completed descuenta stock al instante; una pending reserva stock disponible;
// una draft no toca inventario.
type UseCase struct {
	txRunner      inventory.TxRunner
	saleRepo      repository.SaleRepository
	storeRepo     repository.StoreRepository
	warehouseRepo repository.WarehouseRepository
	customerRepo  repository.CustomerRepository
}

// NewUseCase construye el procesador de ventas.
func NewUseCase(
	txRunner inventory.TxRunner,
	saleRepo repository.SaleRepository,
	storeRepo repository.StoreRepository,
	warehouseRepo repository.WarehouseRepository,
	customerRepo repository.CustomerRepository,
) *UseCase {
	return &UseCase{
		txRunner:      txRunner,
		saleRepo:      saleRepo,
		storeRepo:     storeRepo,
		warehouseRepo: warehouseRepo,
		customerRepo:  customerRepo,
	}
}

// validateLines rechaza líneas malformadas antes de tomar cualquier bloqueo.
// El descuento de venta es porcentaje 0-100; el precio no viene en el request.
func validateLines(lines []dto.SaleLineRequest) error {
	if len(lines) == 0 {
		return domain.ErrInvalidInput
	}
	ids := make([]string, 0, len(lines))
	for _, l := range lines {
		if l.ProductID == "" || l.Quantity <= 0 {
			return domain.ErrInvalidInput
		}
		if l.Discount.IsNegative() || l.Discount.GreaterThan(hundred) {
			return domain.ErrInvalidInput
		}
		ids = append(ids, l.ProductID)
	}
	if inventory.HasDuplicates(ids) {
		return domain.ErrInvalidInput
	}
	return nil
}

func lineProductIDs(lines []dto.SaleLineRequest) []string {
	ids := make([]string, 0, len(lines))
	for _, l := range lines {
		ids = append(ids, l.ProductID)
	}
	return ids
}

func validTargetStatus(status string) bool {
	switch status {
	case entity.SaleStatusDraft, entity.SaleStatusPending, entity.SaleStatusCompleted:
		return true
	}
	return false
}

// totals acumula los montos del documento durante el cálculo de líneas.
type totals struct {
	Total         decimal.Decimal
	DiscountTotal decimal.Decimal
	NetTotal      decimal.Decimal
}

// applyLines valida stock contra el estado objetivo y aplica su efecto sobre
// los productos ya bloqueados: completed descuenta stock (requiere stock >=
// cantidad), pending reserva (requiere disponible >= cantidad), draft no toca
// nada. Devuelve las líneas calculadas, los totales y las entradas del libro.
// El precio se captura del producto en este momento.
func applyLines(saleID, status, reason string, in []dto.SaleLineRequest, products map[string]*entity.Product, now time.Time) ([]entity.SaleLine, totals, []inventory.Entry, error) {
	t := totals{Total: decimal.Zero, DiscountTotal: decimal.Zero}
	lines := make([]entity.SaleLine, 0, len(in))
	var entries []inventory.Entry

	for _, l := range in {
		product := products[l.ProductID]

		switch status {
		case entity.SaleStatusCompleted:
			if product.Stock < l.Quantity {
				return nil, t, nil, fmt.Errorf("%w: %s (quedan %d)", domain.ErrInsufficientStock, product.Name, product.Stock)
			}
			product.Stock -= l.Quantity
			product.UpdatedAt = now
			entries = append(entries, inventory.Entry{
				ProductID: product.ID,
				Quantity:  l.Quantity,
				Type:      entity.TransactionTypeSalida,
				Reason:    reason,
			})
		case entity.SaleStatusPending:
			if product.AvailableStock() < l.Quantity {
				return nil, t, nil, fmt.Errorf("%w para reservar: %s (disponibles %d)", domain.ErrInsufficientStock, product.Name, product.AvailableStock())
			}
			// La reserva no es un movimiento del libro: el stock no cambió.
			product.ReservedStock += l.Quantity
			product.UpdatedAt = now
		}

		price := product.SalePrice
		qty := decimal.NewFromInt(l.Quantity)
		gross := price.Mul(qty)
		subtotal := gross.Mul(decimal.NewFromInt(1).Sub(l.Discount.Div(hundred)))

		t.Total = t.Total.Add(gross)
		t.DiscountTotal = t.DiscountTotal.Add(gross.Sub(subtotal))

		lines = append(lines, entity.SaleLine{
			ID:        uuid.New().String(),
			SaleID:    saleID,
			ProductID: l.ProductID,
			Quantity:  l.Quantity,
			SalePrice: price,
			Discount:  l.Discount,
			Subtotal:  subtotal,
		})
	}
	t.NetTotal = t.Total.Sub(t.DiscountTotal)
	return lines, t, entries, nil
}

// revertLines deshace el efecto de las líneas actuales de la venta según su
// estado: completed repone stock, pending libera la reserva (con piso en cero),
// draft no hizo nada.
func revertLines(sale *entity.Sale, products map[string]*entity.Product, now time.Time) {
	for _, line := range sale.Lines {
		product, ok := products[line.ProductID]
		if !ok {
			continue
		}
		switch sale.Status {
		case entity.SaleStatusCompleted:
			product.Stock += line.Quantity
		case entity.SaleStatusPending:
			product.ReservedStock -= line.Quantity
			if product.ReservedStock < 0 {
				product.ReservedStock = 0
			}
		}
		product.UpdatedAt = now
	}
}

// Create registra una venta. Los números de venta y factura se emiten dentro
// de la misma transacción que valida stock y persiste el documento: si la
// validación falla no se consume numeración ni queda estado parcial.
func (uc *UseCase) Create(ctx context.Context, storeID, userID string, in dto.CreateSaleRequest) (*dto.SaleResponse, error) {
	status := in.Status
	if status == "" {
		status = entity.SaleStatusCompleted
	}
	if !validTargetStatus(status) {
		return nil, domain.ErrInvalidInput
	}
	if err := validateLines(in.Lines); err != nil {
		return nil, err
	}
	if in.WarehouseID == "" {
		return nil, domain.ErrInvalidInput
	}

	store, err := uc.storeRepo.GetByID(storeID)
	if err != nil || store == nil {
		return nil, domain.ErrNotFound
	}
	warehouse, err := uc.warehouseRepo.GetByID(in.WarehouseID)
	if err != nil || warehouse == nil {
		return nil, domain.ErrNotFound
	}
	if warehouse.StoreID != storeID {
		return nil, domain.ErrForbidden
	}
	if in.CustomerID != nil {
		customer, err := uc.customerRepo.GetByID(*in.CustomerID)
		if err != nil || customer == nil {
			return nil, domain.ErrNotFound
		}
		if customer.StoreID != storeID {
			return nil, domain.ErrForbidden
		}
	}

	now := time.Now()
	paymentStatus := in.PaymentStatus
	if paymentStatus == "" {
		paymentStatus = entity.PaymentStatusPending
	}
	sale := &entity.Sale{
		ID:            uuid.New().String(),
		CustomerID:    in.CustomerID,
		StoreID:       storeID,
		WarehouseID:   in.WarehouseID,
		SaleDate:      now,
		TaxTotal:      decimal.Zero,
		PaymentStatus: paymentStatus,
		PaymentMethod: in.PaymentMethod,
		Status:        status,
		Notes:         in.Notes,
		CreatedBy:     userID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	err = uc.txRunner.Run(ctx, func(r inventory.TxRepos) error {
		products, err := inventory.LockProducts(r.Products, storeID, in.WarehouseID, lineProductIDs(in.Lines))
		if err != nil {
			return err
		}
		saleNumber, err := numbering.NextSaleNumber(r.SaleCounters, store)
		if err != nil {
			return err
		}
		invoiceNumber, err := numbering.NextInvoiceNumber(r.InvoiceCounters, warehouse, repository.OperationSale, now)
		if err != nil {
			return err
		}
		sale.SaleNumber = saleNumber
		sale.InvoiceNumber = invoiceNumber

		lines, t, entries, err := applyLines(sale.ID, status, "Venta registrada", in.Lines, products, now)
		if err != nil {
			return err
		}
		sale.Total = t.Total
		sale.DiscountTotal = t.DiscountTotal
		sale.NetTotal = t.NetTotal
		sale.Lines = lines

		if status != entity.SaleStatusDraft {
			if err := r.Products.UpdateStockBulk(productsOf(products, in.Lines)); err != nil {
				return err
			}
		}
		ref := entity.DocumentRef{Kind: entity.RefSale, ID: sale.ID}
		if err := inventory.RecordAll(r.Transactions, storeID, in.WarehouseID, userID, ref, entries, now); err != nil {
			return err
		}
		if err := r.Sales.Create(sale); err != nil {
			return err
		}
		return r.Sales.CreateLines(lines)
	})
	if err != nil {
		return nil, err
	}
	return toResponse(sale), nil
}

// Update reemplaza las líneas de una venta draft o pending: primero revierte el
// efecto de las líneas existentes, luego revalida y aplica contra el estado
// objetivo exactamente igual que Create. El estado objetivo puede cambiar la
// venta a completed en la misma operación.
func (uc *UseCase) Update(ctx context.Context, storeID, userID, id string, in dto.UpdateSaleRequest) (*dto.SaleResponse, error) {
	if err := validateLines(in.Lines); err != nil {
		return nil, err
	}
	existing, err := uc.loadForStore(storeID, id)
	if err != nil {
		return nil, err
	}
	if existing.Status != entity.SaleStatusDraft && existing.Status != entity.SaleStatusPending {
		return nil, fmt.Errorf("%w: solo se editan ventas en borrador o pendientes", domain.ErrInvalidTransition)
	}
	target := in.Status
	if target == "" {
		target = existing.Status
	}
	if !validTargetStatus(target) {
		return nil, domain.ErrInvalidInput
	}

	var updated *entity.Sale
	err = uc.txRunner.Run(ctx, func(r inventory.TxRepos) error {
		sale, err := r.Sales.GetByIDForUpdate(id)
		if err != nil {
			return err
		}
		if sale == nil {
			return domain.ErrNotFound
		}
		if sale.Status != entity.SaleStatusDraft && sale.Status != entity.SaleStatusPending {
			return domain.ErrInvalidTransition
		}

		// Bloquear la unión de productos viejos y nuevos en un solo lote.
		idSet := make(map[string]struct{})
		for _, l := range sale.Lines {
			idSet[l.ProductID] = struct{}{}
		}
		for _, l := range in.Lines {
			idSet[l.ProductID] = struct{}{}
		}
		allIDs := make([]string, 0, len(idSet))
		for pid := range idSet {
			allIDs = append(allIDs, pid)
		}
		products, err := inventory.LockProducts(r.Products, storeID, sale.WarehouseID, allIDs)
		if err != nil {
			return err
		}

		now := time.Now()
		revertLines(sale, products, now)
		if err := r.Sales.DeleteLines(sale.ID); err != nil {
			return err
		}

		lines, t, entries, err := applyLines(sale.ID, target, "Venta actualizada", in.Lines, products, now)
		if err != nil {
			return err
		}

		touched := make([]*entity.Product, 0, len(products))
		for _, p := range products {
			touched = append(touched, p)
		}
		if err := r.Products.UpdateStockBulk(touched); err != nil {
			return err
		}
		ref := entity.DocumentRef{Kind: entity.RefSale, ID: sale.ID}
		if err := inventory.RecordAll(r.Transactions, storeID, sale.WarehouseID, userID, ref, entries, now); err != nil {
			return err
		}

		sale.Status = target
		sale.Total = t.Total
		sale.DiscountTotal = t.DiscountTotal
		sale.TaxTotal = decimal.Zero
		sale.NetTotal = t.NetTotal
		sale.Lines = lines
		if in.CustomerID != nil {
			sale.CustomerID = in.CustomerID
		}
		if in.PaymentStatus != "" {
			sale.PaymentStatus = in.PaymentStatus
		}
		if in.PaymentMethod != "" {
			sale.PaymentMethod = in.PaymentMethod
		}
		if in.Notes != "" {
			sale.Notes = in.Notes
		}
		sale.UpdatedAt = now

		if err := r.Sales.CreateLines(lines); err != nil {
			return err
		}
		if err := r.Sales.Update(sale); err != nil {
			return err
		}
		updated = sale
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toResponse(updated), nil
}

// GetByID carga una venta de la tienda con sus líneas.
func (uc *UseCase) GetByID(storeID, id string) (*dto.SaleResponse, error) {
	sale, err := uc.loadForStore(storeID, id)
	if err != nil {
		return nil, err
	}
	return toResponse(sale), nil
}

// List lista las ventas de la tienda, paginadas.
func (uc *UseCase) List(storeID string, limit, offset int) ([]*dto.SaleResponse, error) {
	sales, err := uc.saleRepo.ListByStore(storeID, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.SaleResponse, 0, len(sales))
	for _, s := range sales {
		out = append(out, toResponse(s))
	}
	return out, nil
}

func (uc *UseCase) loadForStore(storeID, id string) (*entity.Sale, error) {
	sale, err := uc.saleRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, domain.ErrNotFound
	}
	if sale.StoreID != storeID {
		return nil, domain.ErrForbidden
	}
	return sale, nil
}

// productsOf devuelve los productos referenciados por las líneas, para el
// update en lote al final de la transacción.
func productsOf(products map[string]*entity.Product, lines []dto.SaleLineRequest) []*entity.Product {
	out := make([]*entity.Product, 0, len(lines))
	for _, l := range lines {
		out = append(out, products[l.ProductID])
	}
	return out
}

func toResponse(s *entity.Sale) *dto.SaleResponse {
	resp := &dto.SaleResponse{
		ID:            s.ID,
		CustomerID:    s.CustomerID,
		StoreID:       s.StoreID,
		WarehouseID:   s.WarehouseID,
		SaleNumber:    s.SaleNumber,
		InvoiceNumber: s.InvoiceNumber,
		SaleDate:      s.SaleDate,
		Total:         s.Total,
		TaxTotal:      s.TaxTotal,
		DiscountTotal: s.DiscountTotal,
		NetTotal:      s.NetTotal,
		PaymentStatus: s.PaymentStatus,
		PaymentMethod: s.PaymentMethod,
		Status:        s.Status,
		Notes:         s.Notes,
		Lines:         make([]dto.SaleLineResponse, 0, len(s.Lines)),
		CreatedAt:     s.CreatedAt,
		UpdatedAt:     s.UpdatedAt,
	}
	for _, l := range s.Lines {
		resp.Lines = append(resp.Lines, dto.SaleLineResponse{
			ID:        l.ID,
			ProductID: l.ProductID,
			Quantity:  l.Quantity,
			SalePrice: l.SalePrice,
			Discount:  l.Discount,
			Subtotal:  l.Subtotal,
		})
	}
	return resp
}
