package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/Isaac-VelizC/localstock-backend/internal/domain/entity"
	"github.com/Isaac-VelizC/localstock-backend/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

const productColumns = `id, store_id, warehouse_id, name, code, barcode, unit, purchase_price, sale_price,
	stock, reserved_stock, description, is_active, soft_deleted, created_by, created_at, updated_at`

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

func scanProduct(row pgx.Row) (*entity.Product, error) {
	var p entity.Product
	err := row.Scan(
		&p.ID, &p.StoreID, &p.WarehouseID, &p.Name, &p.Code, &p.Barcode, &p.Unit,
		&p.PurchasePrice, &p.SalePrice, &p.Stock, &p.ReservedStock, &p.Description,
		&p.IsActive, &p.SoftDeleted, &p.CreatedBy, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Create persiste un nuevo producto.
func (r *ProductRepo) Create(product *entity.Product) error {
	query := `
		INSERT INTO products (` + productColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`
	_, err := r.q.Exec(context.Background(), query,
		product.ID, product.StoreID, product.WarehouseID, product.Name, product.Code,
		product.Barcode, product.Unit, product.PurchasePrice, product.SalePrice,
		product.Stock, product.ReservedStock, product.Description, product.IsActive,
		product.SoftDeleted, product.CreatedBy, product.CreatedAt, product.UpdatedAt,
	)
	if err != nil {
		return mapError("insert product", err)
	}
	return nil
}

// GetByID obtiene un producto activo por ID. Retorna nil si no existe o está eliminado.
func (r *ProductRepo) GetByID(id string) (*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1 AND soft_deleted = false`
	p, err := scanProduct(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

// GetByStoreAndCode obtiene un producto activo por tienda y código interno.
func (r *ProductRepo) GetByStoreAndCode(storeID, code string) (*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products
		WHERE store_id = $1 AND code = $2 AND soft_deleted = false`
	p, err := scanProduct(r.q.QueryRow(context.Background(), query, storeID, code))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product by code: %w", err)
	}
	return p, nil
}

// Update actualiza los campos de catálogo de un producto existente.
// Stock y reserved_stock se persisten únicamente vía UpdateStockBulk.
func (r *ProductRepo) Update(product *entity.Product) error {
	query := `
		UPDATE products SET name = $2, code = $3, barcode = $4, unit = $5, purchase_price = $6,
			sale_price = $7, description = $8, is_active = $9, updated_at = $10
		WHERE id = $1 AND soft_deleted = false`
	_, err := r.q.Exec(context.Background(), query,
		product.ID, product.Name, product.Code, product.Barcode, product.Unit,
		product.PurchasePrice, product.SalePrice, product.Description, product.IsActive,
		product.UpdatedAt,
	)
	if err != nil {
		return mapError("update product", err)
	}
	return nil
}

// ListByStore lista productos activos de una tienda con paginación.
func (r *ProductRepo) ListByStore(storeID string, limit, offset int) ([]*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products
		WHERE store_id = $1 AND soft_deleted = false
		ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, storeID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()
	var list []*entity.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

// ListForUpdate carga los productos indicados con bloqueo exclusivo de fila.
// ORDER BY id garantiza orden de adquisición determinista entre transacciones
// concurrentes que comparten productos.
func (r *ProductRepo) ListForUpdate(ids []string) ([]*entity.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query := `SELECT ` + productColumns + ` FROM products
		WHERE id = ANY($1)
		ORDER BY id
		FOR UPDATE`
	rows, err := r.q.Query(context.Background(), query, ids)
	if err != nil {
		return nil, mapError("lock products", err)
	}
	defer rows.Close()
	var list []*entity.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan locked product: %w", err)
		}
		list = append(list, p)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError("lock products", err)
	}
	return list, nil
}

// UpdateStockBulk persiste stock, reserva y precios de todos los productos en
// un solo batch (un round-trip a la DB al final de la transacción).
func (r *ProductRepo) UpdateStockBulk(products []*entity.Product) error {
	if len(products) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, p := range products {
		batch.Queue(
			`UPDATE products SET stock = $2, reserved_stock = $3, purchase_price = $4, sale_price = $5, updated_at = now()
			 WHERE id = $1`,
			p.ID, p.Stock, p.ReservedStock, p.PurchasePrice, p.SalePrice,
		)
	}
	br := r.q.SendBatch(context.Background(), batch)
	defer br.Close()
	for range products {
		if _, err := br.Exec(); err != nil {
			return mapError("update stock bulk", err)
		}
	}
	return nil
}

// Delete marca el producto como eliminado (soft delete).
func (r *ProductRepo) Delete(id string) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE products SET soft_deleted = true, updated_at = now() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	return nil
}
