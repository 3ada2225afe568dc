package usecase

import (
	"strings"
	"time"

	"github.com/Isaac-VelizC/localstock-backend/internal/application/dto"
	"github.com/Isaac-VelizC/localstock-backend/internal/domain"
	"github.com/Isaac-VelizC/localstock-backend/internal/domain/entity"
	"github.com/Isaac-VelizC/localstock-backend/internal/domain/repository"
	"github.com/google/uuid"
)

// ProductUseCase casos de uso CRUD para productos. Stock y ReservedStock no se
// tocan aquí: solo se mueven vía compras y ventas.
type ProductUseCase struct {
	repo          repository.ProductRepository
	warehouseRepo repository.WarehouseRepository
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(repo repository.ProductRepository, warehouseRepo repository.WarehouseRepository) *ProductUseCase {
	return &ProductUseCase{repo: repo, warehouseRepo: warehouseRepo}
}

// Create crea un producto con stock en cero.
func (uc *ProductUseCase) Create(storeID, userID string, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if in.Name == "" || in.Code == "" || in.WarehouseID == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.PurchasePrice.IsNegative() || in.SalePrice.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	warehouse, err := uc.warehouseRepo.GetByID(in.WarehouseID)
	if err != nil || warehouse == nil {
		return nil, domain.ErrNotFound
	}
	if warehouse.StoreID != storeID {
		return nil, domain.ErrForbidden
	}
	existing, _ := uc.repo.GetByStoreAndCode(storeID, in.Code)
	if existing != nil {
		return nil, domain.ErrDuplicate
	}

	now := time.Now()
	barcode := in.Barcode
	if barcode == "" {
		barcode = generateBarcode()
	}
	product := &entity.Product{
		ID:            uuid.New().String(),
		StoreID:       storeID,
		WarehouseID:   in.WarehouseID,
		Name:          in.Name,
		Code:          in.Code,
		Barcode:       barcode,
		Unit:          in.Unit,
		PurchasePrice: in.PurchasePrice,
		SalePrice:     in.SalePrice,
		Description:   in.Description,
		IsActive:      true,
		CreatedBy:     userID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := uc.repo.Create(product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// GetByID obtiene un producto de la tienda.
func (uc *ProductUseCase) GetByID(storeID, id string) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	if product.StoreID != storeID {
		return nil, domain.ErrForbidden
	}
	return toProductResponse(product), nil
}

// Update actualiza campos de catálogo del producto. Campos nil no se tocan.
func (uc *ProductUseCase) Update(storeID, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	if product.StoreID != storeID {
		return nil, domain.ErrForbidden
	}
	if in.Name != nil {
		product.Name = *in.Name
	}
	if in.Unit != nil {
		product.Unit = *in.Unit
	}
	if in.PurchasePrice != nil {
		if in.PurchasePrice.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		product.PurchasePrice = *in.PurchasePrice
	}
	if in.SalePrice != nil {
		if in.SalePrice.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		product.SalePrice = *in.SalePrice
	}
	if in.Description != nil {
		product.Description = *in.Description
	}
	if in.IsActive != nil {
		product.IsActive = *in.IsActive
	}
	product.UpdatedAt = time.Now()
	if err := uc.repo.Update(product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// List lista productos activos de la tienda, paginados.
func (uc *ProductUseCase) List(storeID string, limit, offset int) ([]*dto.ProductResponse, error) {
	products, err := uc.repo.ListByStore(storeID, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.ProductResponse, 0, len(products))
	for _, p := range products {
		out = append(out, toProductResponse(p))
	}
	return out, nil
}

// Delete marca el producto como eliminado (soft delete).
func (uc *ProductUseCase) Delete(storeID, id string) error {
	product, err := uc.repo.GetByID(id)
	if err != nil {
		return err
	}
	if product == nil {
		return domain.ErrNotFound
	}
	if product.StoreID != storeID {
		return domain.ErrForbidden
	}
	return uc.repo.Delete(id)
}

func generateBarcode() string {
	return strings.ReplaceAll(uuid.New().String(), "-", "")[:12]
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	return &dto.ProductResponse{
		ID:             p.ID,
		StoreID:        p.StoreID,
		WarehouseID:    p.WarehouseID,
		Name:           p.Name,
		Code:           p.Code,
		Barcode:        p.Barcode,
		Unit:           p.Unit,
		PurchasePrice:  p.PurchasePrice,
		SalePrice:      p.SalePrice,
		Stock:          p.Stock,
		ReservedStock:  p.ReservedStock,
		AvailableStock: p.AvailableStock(),
		Description:    p.Description,
		IsActive:       p.IsActive,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}
