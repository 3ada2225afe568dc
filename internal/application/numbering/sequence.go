// Package numbering emite los consecutivos de documentos: números de factura
// por bodega/día/operación y números de venta por tienda. Ambos se derivan de
// contadores con bloqueo de fila, por lo que deben llamarse con repositorios
// atados a la transacción del documento.
package numbering

import (
	"fmt"
	"time"

	"github.com/Isaac-VelizC/localstock-backend/internal/domain/entity"
	"github.com/Isaac-VelizC/localstock-backend/internal/domain/repository"
)

// FormatInvoiceNumber arma el número de factura: {P|S}-{YYYYMMDD}-{código bodega}-{NNNN}.
func FormatInvoiceNumber(operationType string, date time.Time, warehouseCode string, n int64) string {
	prefix := "S"
	if operationType == repository.OperationPurchase {
		prefix = "P"
	}
	return fmt.Sprintf("%s-%s-%s-%04d", prefix, date.Format("20060102"), warehouseCode, n)
}

// FormatSaleNumber arma el número de venta: {código tienda}-SL-{NNNNN}.
func FormatSaleNumber(storeCode string, n int64) string {
	return fmt.Sprintf("%s-SL-%05d", storeCode, n)
}

// NextInvoiceNumber incrementa el contador (bodega, fecha, operación) bajo
// bloqueo de fila y devuelve el número formateado. Peticiones concurrentes
// sobre la misma clave se serializan: el conjunto emitido es {1..N} contiguo.
func NextInvoiceNumber(counters repository.InvoiceCounterRepository, warehouse *entity.Warehouse, operationType string, date time.Time) (string, error) {
	n, err := counters.Next(warehouse.ID, date, operationType)
	if err != nil {
		return "", fmt.Errorf("siguiente número de factura: %w", err)
	}
	return FormatInvoiceNumber(operationType, date, warehouse.Code, n), nil
}

// NextSaleNumber incrementa el contador por tienda bajo bloqueo de fila y
// devuelve el número de venta formateado. Sustituye al esquema original de
// parsear el último número existente, que no era seguro bajo creación concurrente.
func NextSaleNumber(counters repository.SaleCounterRepository, store *entity.Store) (string, error) {
	n, err := counters.Next(store.ID)
	if err != nil {
		return "", fmt.Errorf("siguiente número de venta: %w", err)
	}
	return FormatSaleNumber(store.Code, n), nil
}
