package repository

import "time"

// Tipos de operación para el contador de facturas.
const (
	OperationPurchase = "purchase"
	OperationSale     = "sale"
)

// InvoiceCounterRepository entrega números consecutivos por (bodega, fecha, operación).
// Next incrementa last_number bajo bloqueo de fila: peticiones concurrentes sobre la
// misma clave se serializan y el conjunto emitido es contiguo, sin huecos ni duplicados.
type InvoiceCounterRepository interface {
	Next(warehouseID string, date time.Time, operationType string) (int64, error)
}

// SaleCounterRepository entrega el consecutivo de venta por tienda, con la misma
// garantía de serialización por fila que el contador de facturas.
type SaleCounterRepository interface {
	Next(storeID string) (int64, error)
}
