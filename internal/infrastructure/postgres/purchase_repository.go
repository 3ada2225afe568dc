package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/Isaac-VelizC/localstock-backend/internal/domain/entity"
	"github.com/Isaac-VelizC/localstock-backend/internal/domain/repository"
)

var _ repository.PurchaseRepository = (*PurchaseRepo)(nil)

const purchaseColumns = `id, supplier_id, store_id, warehouse_id, invoice_number, purchase_date,
	total, tax_total, discount_total, net_total, status, soft_deleted, created_by, created_at, updated_at`

// PurchaseRepo implementación del puerto PurchaseRepository sobre PostgreSQL (usable con pool o tx).
type PurchaseRepo struct {
	q Querier
}

// NewPurchaseRepository construye el adaptador de persistencia para compras. Pasar pool o tx (Querier).
func NewPurchaseRepository(q Querier) *PurchaseRepo {
	return &PurchaseRepo{q: q}
}

func scanPurchase(row pgx.Row) (*entity.Purchase, error) {
	var p entity.Purchase
	err := row.Scan(
		&p.ID, &p.SupplierID, &p.StoreID, &p.WarehouseID, &p.InvoiceNumber, &p.PurchaseDate,
		&p.Total, &p.TaxTotal, &p.DiscountTotal, &p.NetTotal, &p.Status, &p.SoftDeleted,
		&p.CreatedBy, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Create persiste la cabecera de una compra.
func (r *PurchaseRepo) Create(purchase *entity.Purchase) error {
	query := `
		INSERT INTO purchases (` + purchaseColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	_, err := r.q.Exec(context.Background(), query,
		purchase.ID, purchase.SupplierID, purchase.StoreID, purchase.WarehouseID,
		purchase.InvoiceNumber, purchase.PurchaseDate, purchase.Total, purchase.TaxTotal,
		purchase.DiscountTotal, purchase.NetTotal, purchase.Status, purchase.SoftDeleted,
		purchase.CreatedBy, purchase.CreatedAt, purchase.UpdatedAt,
	)
	if err != nil {
		return mapError("insert purchase", err)
	}
	return nil
}

// CreateLines inserta las líneas de una compra en un solo batch.
func (r *PurchaseRepo) CreateLines(lines []entity.PurchaseLine) error {
	if len(lines) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, l := range lines {
		batch.Queue(
			`INSERT INTO purchase_lines (id, purchase_id, product_id, quantity, purchase_price, tax_rate, discount, subtotal)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			l.ID, l.PurchaseID, l.ProductID, l.Quantity, l.PurchasePrice, l.TaxRate, l.Discount, l.Subtotal,
		)
	}
	br := r.q.SendBatch(context.Background(), batch)
	defer br.Close()
	for range lines {
		if _, err := br.Exec(); err != nil {
			return mapError("insert purchase lines", err)
		}
	}
	return nil
}

func (r *PurchaseRepo) loadLines(purchaseID string) ([]entity.PurchaseLine, error) {
	rows, err := r.q.Query(context.Background(),
		`SELECT id, purchase_id, product_id, quantity, purchase_price, tax_rate, discount, subtotal
		 FROM purchase_lines WHERE purchase_id = $1 ORDER BY id`, purchaseID)
	if err != nil {
		return nil, fmt.Errorf("list purchase lines: %w", err)
	}
	defer rows.Close()
	var lines []entity.PurchaseLine
	for rows.Next() {
		var l entity.PurchaseLine
		if err := rows.Scan(&l.ID, &l.PurchaseID, &l.ProductID, &l.Quantity,
			&l.PurchasePrice, &l.TaxRate, &l.Discount, &l.Subtotal); err != nil {
			return nil, fmt.Errorf("scan purchase line: %w", err)
		}
		lines = append(lines, l)
	}
	return lines, rows.Err()
}

// GetByID carga la compra activa (sin soft delete) con sus líneas.
func (r *PurchaseRepo) GetByID(id string) (*entity.Purchase, error) {
	query := `SELECT ` + purchaseColumns + ` FROM purchases WHERE id = $1 AND soft_deleted = false`
	p, err := scanPurchase(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get purchase: %w", err)
	}
	p.Lines, err = r.loadLines(id)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// GetByIDForUpdate bloquea la fila de la compra (SELECT FOR UPDATE) y carga sus líneas.
func (r *PurchaseRepo) GetByIDForUpdate(id string) (*entity.Purchase, error) {
	query := `SELECT ` + purchaseColumns + ` FROM purchases
		WHERE id = $1 AND soft_deleted = false FOR UPDATE`
	p, err := scanPurchase(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, mapError("get purchase for update", err)
	}
	p.Lines, err = r.loadLines(id)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// Update actualiza la cabecera de una compra.
func (r *PurchaseRepo) Update(purchase *entity.Purchase) error {
	query := `
		UPDATE purchases SET supplier_id = $2, warehouse_id = $3, purchase_date = $4,
			total = $5, tax_total = $6, discount_total = $7, net_total = $8, status = $9, updated_at = $10
		WHERE id = $1 AND soft_deleted = false`
	_, err := r.q.Exec(context.Background(), query,
		purchase.ID, purchase.SupplierID, purchase.WarehouseID, purchase.PurchaseDate,
		purchase.Total, purchase.TaxTotal, purchase.DiscountTotal, purchase.NetTotal,
		purchase.Status, purchase.UpdatedAt,
	)
	if err != nil {
		return mapError("update purchase", err)
	}
	return nil
}

// DeleteLines borra todas las líneas de una compra (previo a reconstruirlas en un update).
func (r *PurchaseRepo) DeleteLines(purchaseID string) error {
	_, err := r.q.Exec(context.Background(),
		`DELETE FROM purchase_lines WHERE purchase_id = $1`, purchaseID)
	if err != nil {
		return fmt.Errorf("delete purchase lines: %w", err)
	}
	return nil
}

// ListByStore lista compras activas de una tienda con paginación (sin líneas).
func (r *PurchaseRepo) ListByStore(storeID string, limit, offset int) ([]*entity.Purchase, error) {
	query := `SELECT ` + purchaseColumns + ` FROM purchases
		WHERE store_id = $1 AND soft_deleted = false
		ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, storeID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list purchases: %w", err)
	}
	defer rows.Close()
	var list []*entity.Purchase
	for rows.Next() {
		p, err := scanPurchase(rows)
		if err != nil {
			return nil, fmt.Errorf("scan purchase: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

// Delete marca la compra como eliminada (soft delete).
func (r *PurchaseRepo) Delete(id string) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE purchases SET soft_deleted = true, updated_at = now() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete purchase: %w", err)
	}
	return nil
}
