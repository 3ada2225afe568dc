package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/Isaac-VelizC/localstock-backend/internal/domain/repository"
)

var _ repository.InvoiceCounterRepository = (*InvoiceCounterRepo)(nil)
var _ repository.SaleCounterRepository = (*SaleCounterRepo)(nil)

// InvoiceCounterRepo contador atómico de facturas por (bodega, fecha, operación).
type InvoiceCounterRepo struct {
	q Querier
}

// NewInvoiceCounterRepository construye el contador de facturas. Pasar pool o tx (Querier).
func NewInvoiceCounterRepository(q Querier) *InvoiceCounterRepo {
	return &InvoiceCounterRepo{q: q}
}

// Next incrementa y devuelve el consecutivo. El UPSERT con RETURNING se ejecuta bajo
// bloqueo de fila: dos transacciones sobre la misma clave se serializan y nunca
// observan el mismo número.
func (r *InvoiceCounterRepo) Next(warehouseID string, date time.Time, operationType string) (int64, error) {
	query := `
		INSERT INTO invoice_counters (id, warehouse_id, date, operation_type, last_number)
		VALUES ($1, $2, $3, $4, 1)
		ON CONFLICT (warehouse_id, date, operation_type)
		DO UPDATE SET last_number = invoice_counters.last_number + 1
		RETURNING last_number`
	var n int64
	err := r.q.QueryRow(context.Background(), query,
		uuid.NewString(), warehouseID, date.Format("2006-01-02"), operationType,
	).Scan(&n)
	if err != nil {
		return 0, mapError("next invoice number", err)
	}
	return n, nil
}

// SaleCounterRepo contador atómico del consecutivo de venta por tienda.
// Sustituye al esquema de parsear el último número emitido, que permitía duplicados
// bajo concurrencia.
type SaleCounterRepo struct {
	q Querier
}

// NewSaleCounterRepository construye el contador de ventas. Pasar pool o tx (Querier).
func NewSaleCounterRepository(q Querier) *SaleCounterRepo {
	return &SaleCounterRepo{q: q}
}

// Next incrementa y devuelve el consecutivo de venta de la tienda.
func (r *SaleCounterRepo) Next(storeID string) (int64, error) {
	query := `
		INSERT INTO sale_counters (store_id, last_number)
		VALUES ($1, 1)
		ON CONFLICT (store_id)
		DO UPDATE SET last_number = sale_counters.last_number + 1
		RETURNING last_number`
	var n int64
	err := r.q.QueryRow(context.Background(), query, storeID).Scan(&n)
	if err != nil {
		return 0, mapError("next sale number", err)
	}
	return n, nil
}
