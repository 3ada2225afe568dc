package purchase

import (
	"context"
	"fmt"
	"time"

	"github.com/Isaac-VelizC/localstock-backend/internal/application/dto"
	"github.com/Isaac-VelizC/localstock-backend/internal/application/inventory"
	"github.com/Isaac-VelizC/localstock-backend/internal/domain"
	"github.com/Isaac-VelizC/localstock-backend/internal/domain/entity"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// calculateSalePrice deriva el precio de venta desde el de compra con el margen
// de la tienda, redondeado a 2 decimales.
func calculateSalePrice(purchasePrice, marginPercentage decimal.Decimal) decimal.Decimal {
	return purchasePrice.Mul(decimal.NewFromInt(1).Add(marginPercentage.Div(hundred))).Round(2)
}

// Confirm transiciona pending -> completed: suma el stock de cada línea,
// registra entradas en el libro y actualiza precios según la configuración de
// la tienda. El historial de precios se escribe siempre, se aplique o no el precio.
func (uc *UseCase) Confirm(ctx context.Context, storeID, userID, id string) (*dto.PurchaseResponse, error) {
	existing, err := uc.loadForStore(storeID, id)
	if err != nil {
		return nil, err
	}
	switch existing.Status {
	case entity.PurchaseStatusCompleted:
		return nil, fmt.Errorf("%w: la compra ya fue confirmada", domain.ErrInvalidTransition)
	case entity.PurchaseStatusCanceled:
		return nil, fmt.Errorf("%w: no se confirma una compra cancelada", domain.ErrInvalidTransition)
	}
	store, err := uc.storeRepo.GetByID(storeID)
	if err != nil || store == nil {
		return nil, domain.ErrNotFound
	}

	var confirmed *entity.Purchase
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

		products, err := inventory.LockProducts(r.Products, storeID, purchase.WarehouseID, purchaseProductIDs(purchase))
		if err != nil {
			return err
		}

		now := time.Now()
		entries := make([]inventory.Entry, 0, len(purchase.Lines))
		updated := make([]*entity.Product, 0, len(purchase.Lines))
		for _, line := range purchase.Lines {
			product := products[line.ProductID]
			product.Stock += line.Quantity
			product.UpdatedAt = now

			if store.Settings.AutoUpdatePriceOnPurchase {
				product.PurchasePrice = line.PurchasePrice
				product.SalePrice = calculateSalePrice(line.PurchasePrice, store.Settings.MarginPercentage)
			}
			// Historial de precios: siempre, aunque el precio no se aplique.
			history := &entity.ProductPriceHistory{
				ID:            uuid.New().String(),
				ProductID:     product.ID,
				PurchasePrice: line.PurchasePrice,
				SalePrice:     product.SalePrice,
				ChangedBy:     userID,
				ChangedAt:     now,
			}
			if err := r.PriceHistory.Create(history); err != nil {
				return err
			}

			updated = append(updated, product)
			entries = append(entries, inventory.Entry{
				ProductID: product.ID,
				Quantity:  line.Quantity,
				Type:      entity.TransactionTypeEntrada,
				Reason:    "Confirmación de compra",
			})
		}

		if err := r.Products.UpdateStockBulk(updated); err != nil {
			return err
		}
		ref := entity.DocumentRef{Kind: entity.RefPurchase, ID: purchase.ID}
		if err := inventory.RecordAll(r.Transactions, purchase.StoreID, purchase.WarehouseID, userID, ref, entries, now); err != nil {
			return err
		}

		purchase.Status = entity.PurchaseStatusCompleted
		purchase.UpdatedAt = now
		if err := r.Purchases.Update(purchase); err != nil {
			return err
		}
		confirmed = purchase
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toResponse(confirmed), nil
}

// Cancel transiciona a canceled. Si la compra estaba completed revierte el
// stock sumado al confirmar y registra ajustes en el libro; si estaba pending
// no hay stock que revertir. De canceled no se sale.
func (uc *UseCase) Cancel(ctx context.Context, storeID, userID, id string) (*dto.PurchaseResponse, error) {
	existing, err := uc.loadForStore(storeID, id)
	if err != nil {
		return nil, err
	}
	if existing.Status == entity.PurchaseStatusCanceled {
		return nil, fmt.Errorf("%w: la compra ya está cancelada", domain.ErrInvalidTransition)
	}

	var canceled *entity.Purchase
	err = uc.txRunner.Run(ctx, func(r inventory.TxRepos) error {
		purchase, err := r.Purchases.GetByIDForUpdate(id)
		if err != nil {
			return err
		}
		if purchase == nil {
			return domain.ErrNotFound
		}
		if purchase.Status == entity.PurchaseStatusCanceled {
			return domain.ErrInvalidTransition
		}

		now := time.Now()
		if purchase.Status == entity.PurchaseStatusCompleted {
			products, err := inventory.LockProducts(r.Products, storeID, purchase.WarehouseID, purchaseProductIDs(purchase))
			if err != nil {
				return err
			}
			entries := make([]inventory.Entry, 0, len(purchase.Lines))
			updated := make([]*entity.Product, 0, len(purchase.Lines))
			for _, line := range purchase.Lines {
				product := products[line.ProductID]
				product.Stock -= line.Quantity
				if product.Stock < 0 {
					product.Stock = 0
				}
				product.UpdatedAt = now
				updated = append(updated, product)
				entries = append(entries, inventory.Entry{
					ProductID: product.ID,
					Quantity:  -line.Quantity,
					Type:      entity.TransactionTypeAjuste,
					Reason:    "Cancelación de compra",
				})
			}
			if err := r.Products.UpdateStockBulk(updated); err != nil {
				return err
			}
			ref := entity.DocumentRef{Kind: entity.RefPurchase, ID: purchase.ID}
			if err := inventory.RecordAll(r.Transactions, purchase.StoreID, purchase.WarehouseID, userID, ref, entries, now); err != nil {
				return err
			}
		}

		purchase.Status = entity.PurchaseStatusCanceled
		purchase.UpdatedAt = now
		if err := r.Purchases.Update(purchase); err != nil {
			return err
		}
		canceled = purchase
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toResponse(canceled), nil
}

// Delete elimina (soft delete) una compra pending. Las compras completed o
// canceled son registros históricos inmutables y no se pueden eliminar.
func (uc *UseCase) Delete(ctx context.Context, storeID, id string) error {
	existing, err := uc.loadForStore(storeID, id)
	if err != nil {
		return err
	}
	if existing.Status != entity.PurchaseStatusPending {
		return fmt.Errorf("%w: solo se eliminan compras pendientes", domain.ErrInvalidTransition)
	}
	return uc.purchaseRepo.Delete(id)
}

func purchaseProductIDs(p *entity.Purchase) []string {
	ids := make([]string, 0, len(p.Lines))
	for _, l := range p.Lines {
		ids = append(ids, l.ProductID)
	}
	return ids
}
