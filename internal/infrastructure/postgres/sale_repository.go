package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/Isaac-VelizC/localstock-backend/internal/domain/entity"
	"github.com/Isaac-VelizC/localstock-backend/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

const saleColumns = `id, customer_id, store_id, warehouse_id, sale_date, sale_number, invoice_number,
	total, tax_total, discount_total, net_total, payment_status, payment_method, status, notes,
	soft_deleted, created_by, created_at, updated_at`

// SaleRepo implementación del puerto SaleRepository sobre PostgreSQL (usable con pool o tx).
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el adaptador de persistencia para ventas. Pasar pool o tx (Querier).
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

func scanSale(row pgx.Row) (*entity.Sale, error) {
	var s entity.Sale
	err := row.Scan(
		&s.ID, &s.CustomerID, &s.StoreID, &s.WarehouseID, &s.SaleDate, &s.SaleNumber,
		&s.InvoiceNumber, &s.Total, &s.TaxTotal, &s.DiscountTotal, &s.NetTotal,
		&s.PaymentStatus, &s.PaymentMethod, &s.Status, &s.Notes, &s.SoftDeleted,
		&s.CreatedBy, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Create persiste la cabecera de una venta.
func (r *SaleRepo) Create(sale *entity.Sale) error {
	query := `
		INSERT INTO sales (` + saleColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)`
	_, err := r.q.Exec(context.Background(), query,
		sale.ID, sale.CustomerID, sale.StoreID, sale.WarehouseID, sale.SaleDate,
		sale.SaleNumber, sale.InvoiceNumber, sale.Total, sale.TaxTotal, sale.DiscountTotal,
		sale.NetTotal, sale.PaymentStatus, sale.PaymentMethod, sale.Status, sale.Notes,
		sale.SoftDeleted, sale.CreatedBy, sale.CreatedAt, sale.UpdatedAt,
	)
	if err != nil {
		return mapError("insert sale", err)
	}
	return nil
}

// CreateLines inserta las líneas de una venta en un solo batch.
func (r *SaleRepo) CreateLines(lines []entity.SaleLine) error {
	if len(lines) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, l := range lines {
		batch.Queue(
			`INSERT INTO sale_lines (id, sale_id, product_id, quantity, sale_price, tax_rate, discount, subtotal)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			l.ID, l.SaleID, l.ProductID, l.Quantity, l.SalePrice, l.TaxRate, l.Discount, l.Subtotal,
		)
	}
	br := r.q.SendBatch(context.Background(), batch)
	defer br.Close()
	for range lines {
		if _, err := br.Exec(); err != nil {
			return mapError("insert sale lines", err)
		}
	}
	return nil
}

func (r *SaleRepo) loadLines(saleID string) ([]entity.SaleLine, error) {
	rows, err := r.q.Query(context.Background(),
		`SELECT id, sale_id, product_id, quantity, sale_price, tax_rate, discount, subtotal
		 FROM sale_lines WHERE sale_id = $1 ORDER BY id`, saleID)
	if err != nil {
		return nil, fmt.Errorf("list sale lines: %w", err)
	}
	defer rows.Close()
	var lines []entity.SaleLine
	for rows.Next() {
		var l entity.SaleLine
		if err := rows.Scan(&l.ID, &l.SaleID, &l.ProductID, &l.Quantity,
			&l.SalePrice, &l.TaxRate, &l.Discount, &l.Subtotal); err != nil {
			return nil, fmt.Errorf("scan sale line: %w", err)
		}
		lines = append(lines, l)
	}
	return lines, rows.Err()
}

// GetByID carga la venta activa (sin soft delete) con sus líneas.
func (r *SaleRepo) GetByID(id string) (*entity.Sale, error) {
	query := `SELECT ` + saleColumns + ` FROM sales WHERE id = $1 AND soft_deleted = false`
	s, err := scanSale(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sale: %w", err)
	}
	s.Lines, err = r.loadLines(id)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// GetByIDForUpdate bloquea la fila de la venta (SELECT FOR UPDATE) y carga sus líneas.
func (r *SaleRepo) GetByIDForUpdate(id string) (*entity.Sale, error) {
	query := `SELECT ` + saleColumns + ` FROM sales
		WHERE id = $1 AND soft_deleted = false FOR UPDATE`
	s, err := scanSale(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, mapError("get sale for update", err)
	}
	s.Lines, err = r.loadLines(id)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Update actualiza la cabecera de una venta.
func (r *SaleRepo) Update(sale *entity.Sale) error {
	query := `
		UPDATE sales SET customer_id = $2, warehouse_id = $3, sale_date = $4,
			total = $5, tax_total = $6, discount_total = $7, net_total = $8,
			payment_status = $9, payment_method = $10, status = $11, notes = $12, updated_at = $13
		WHERE id = $1 AND soft_deleted = false`
	_, err := r.q.Exec(context.Background(), query,
		sale.ID, sale.CustomerID, sale.WarehouseID, sale.SaleDate,
		sale.Total, sale.TaxTotal, sale.DiscountTotal, sale.NetTotal,
		sale.PaymentStatus, sale.PaymentMethod, sale.Status, sale.Notes, sale.UpdatedAt,
	)
	if err != nil {
		return mapError("update sale", err)
	}
	return nil
}

// DeleteLines borra todas las líneas de una venta (previo a reconstruirlas en un update).
func (r *SaleRepo) DeleteLines(saleID string) error {
	_, err := r.q.Exec(context.Background(),
		`DELETE FROM sale_lines WHERE sale_id = $1`, saleID)
	if err != nil {
		return fmt.Errorf("delete sale lines: %w", err)
	}
	return nil
}

// ListByStore lista ventas activas de una tienda con paginación (sin líneas).
func (r *SaleRepo) ListByStore(storeID string, limit, offset int) ([]*entity.Sale, error) {
	query := `SELECT ` + saleColumns + ` FROM sales
		WHERE store_id = $1 AND soft_deleted = false
		ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, storeID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	defer rows.Close()
	var list []*entity.Sale
	for rows.Next() {
		s, err := scanSale(rows)
		if err != nil {
			return nil, fmt.Errorf("scan sale: %w", err)
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

// Delete marca la venta como eliminada (soft delete).
func (r *SaleRepo) Delete(id string) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE sales SET soft_deleted = true, updated_at = now() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete sale: %w", err)
	}
	return nil
}
