package sale

import (
	"context"
	"fmt"
	"time"

	"github.com/Isaac-VelizC/localstock-backend/internal/application/dto"
	"github.com/Isaac-VelizC/localstock-backend/internal/application/inventory"
	"github.com/Isaac-VelizC/localstock-backend/internal/domain"
	"github.com/Isaac-VelizC/localstock-backend/internal/domain/entity"
)

// Confirm transiciona draft/pending -> completed: revalida stock por línea,
// libera la reserva previa si la venta estaba pending, descuenta stock y
// registra salidas en el libro.
func (uc *UseCase) Confirm(ctx context.Context, storeID, userID, id string) (*dto.SaleResponse, error) {
	existing, err := uc.loadForStore(storeID, id)
	if err != nil {
		return nil, err
	}
	switch existing.Status {
	case entity.SaleStatusCompleted:
		return nil, fmt.Errorf("%w: la venta ya fue confirmada", domain.ErrInvalidTransition)
	case entity.SaleStatusCanceled:
		return nil, fmt.Errorf("%w: no se confirma una venta cancelada", domain.ErrInvalidTransition)
	}

	var confirmed *entity.Sale
	err = uc.txRunner.Run(ctx, func(r inventory.TxRepos) error {
		sale, err := r.Sales.GetByIDForUpdate(id)
		if err != nil {
			return err
		}
		if sale == nil {
			return domain.ErrNotFound
		}
		if sale.IsTerminal() {
			return domain.ErrInvalidTransition
		}

		products, err := inventory.LockProducts(r.Products, storeID, sale.WarehouseID, saleProductIDs(sale))
		if err != nil {
			return err
		}

		now := time.Now()
		wasPending := sale.Status == entity.SaleStatusPending
		entries := make([]inventory.Entry, 0, len(sale.Lines))
		updated := make([]*entity.Product, 0, len(sale.Lines))
		for _, line := range sale.Lines {
			product := products[line.ProductID]
			if product.Stock < line.Quantity {
				return fmt.Errorf("%w: %s (quedan %d)", domain.ErrInsufficientStock, product.Name, product.Stock)
			}
			if wasPending {
				product.ReservedStock -= line.Quantity
				if product.ReservedStock < 0 {
					product.ReservedStock = 0
				}
			}
			product.Stock -= line.Quantity
			product.UpdatedAt = now
			updated = append(updated, product)
			entries = append(entries, inventory.Entry{
				ProductID: product.ID,
				Quantity:  line.Quantity,
				Type:      entity.TransactionTypeSalida,
				Reason:    "Confirmación de venta",
			})
		}

		if err := r.Products.UpdateStockBulk(updated); err != nil {
			return err
		}
		ref := entity.DocumentRef{Kind: entity.RefSale, ID: sale.ID}
		if err := inventory.RecordAll(r.Transactions, sale.StoreID, sale.WarehouseID, userID, ref, entries, now); err != nil {
			return err
		}

		sale.Status = entity.SaleStatusCompleted
		sale.UpdatedAt = now
		if err := r.Sales.Update(sale); err != nil {
			return err
		}
		confirmed = sale
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toResponse(confirmed), nil
}

// Cancel transiciona a canceled. Si la venta estaba pending libera la reserva;
// si estaba completed repone el stock. En ambos casos registra ajustes en el
// libro. Una venta draft se cancela sin efecto de inventario.
func (uc *UseCase) Cancel(ctx context.Context, storeID, userID, id string) (*dto.SaleResponse, error) {
	existing, err := uc.loadForStore(storeID, id)
	if err != nil {
		return nil, err
	}
	if existing.Status == entity.SaleStatusCanceled {
		return nil, fmt.Errorf("%w: la venta ya está cancelada", domain.ErrInvalidTransition)
	}

	var canceled *entity.Sale
	err = uc.txRunner.Run(ctx, func(r inventory.TxRepos) error {
		sale, err := r.Sales.GetByIDForUpdate(id)
		if err != nil {
			return err
		}
		if sale == nil {
			return domain.ErrNotFound
		}
		if sale.Status == entity.SaleStatusCanceled {
			return domain.ErrInvalidTransition
		}

		now := time.Now()
		prior := sale.Status
		if prior == entity.SaleStatusPending || prior == entity.SaleStatusCompleted {
			products, err := inventory.LockProducts(r.Products, storeID, sale.WarehouseID, saleProductIDs(sale))
			if err != nil {
				return err
			}
			entries := make([]inventory.Entry, 0, len(sale.Lines))
			updated := make([]*entity.Product, 0, len(sale.Lines))
			for _, line := range sale.Lines {
				product := products[line.ProductID]
				reason := "Cancelación de venta"
				if prior == entity.SaleStatusPending {
					product.ReservedStock -= line.Quantity
					if product.ReservedStock < 0 {
						product.ReservedStock = 0
					}
					reason = "Cancelación de venta (liberación de reserva)"
				} else {
					product.Stock += line.Quantity
				}
				product.UpdatedAt = now
				updated = append(updated, product)
				entries = append(entries, inventory.Entry{
					ProductID: product.ID,
					Quantity:  line.Quantity,
					Type:      entity.TransactionTypeAjuste,
					Reason:    reason,
				})
			}
			if err := r.Products.UpdateStockBulk(updated); err != nil {
				return err
			}
			ref := entity.DocumentRef{Kind: entity.RefSale, ID: sale.ID}
			if err := inventory.RecordAll(r.Transactions, sale.StoreID, sale.WarehouseID, userID, ref, entries, now); err != nil {
				return err
			}
		}

		sale.Status = entity.SaleStatusCanceled
		sale.UpdatedAt = now
		if err := r.Sales.Update(sale); err != nil {
			return err
		}
		canceled = sale
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toResponse(canceled), nil
}

// Delete elimina (soft delete) una venta draft. Una pending mantiene stock
// reservado que debe liberarse cancelando primero; completed y canceled son
// registros históricos inmutables.
func (uc *UseCase) Delete(ctx context.Context, storeID, id string) error {
	existing, err := uc.loadForStore(storeID, id)
	if err != nil {
		return err
	}
	if existing.Status != entity.SaleStatusDraft {
		return fmt.Errorf("%w: solo se eliminan ventas en borrador", domain.ErrInvalidTransition)
	}
	return uc.saleRepo.Delete(id)
}

func saleProductIDs(s *entity.Sale) []string {
	ids := make([]string, 0, len(s.Lines))
	for _, l := range s.Lines {
		ids = append(ids, l.ProductID)
	}
	return ids
}
