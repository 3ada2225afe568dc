package inventory

import (
	"context"

	"github.com/Isaac-VelizC/localstock-backend/internal/domain/repository"
)

// TxRepos agrupa los repositorios atados a una misma transacción de BD.
// Los procesadores de compra y venta operan exclusivamente sobre este conjunto
// dentro de TxRunner.Run, nunca sobre los repositorios del pool.
type TxRepos struct {
	Products        repository.ProductRepository
	Purchases       repository.PurchaseRepository
	Sales           repository.SaleRepository
	Transactions    repository.InventoryTransactionRepository
	InvoiceCounters repository.InvoiceCounterRepository
	SaleCounters    repository.SaleCounterRepository
	PriceHistory    repository.PriceHistoryRepository
}

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza atomicidad para el motor de
// inventario: si fn retorna error se hace Rollback y no sobrevive ningún
// estado parcial (ni stock, ni líneas, ni libro).
type TxRunner interface {
	Run(ctx context.Context, fn func(r TxRepos) error) error
}
