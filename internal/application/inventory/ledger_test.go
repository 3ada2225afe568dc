package inventory_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Isaac-VelizC/localstock-backend/internal/application/inventory"
	"github.com/Isaac-VelizC/localstock-backend/internal/domain/entity"
)

// fakeLedger acumula las filas escritas por CreateBulk.
type fakeLedger struct {
	rows []*entity.InventoryTransaction
}

func (f *fakeLedger) CreateBulk(transactions []*entity.InventoryTransaction) error {
	f.rows = append(f.rows, transactions...)
	return nil
}

func (f *fakeLedger) ListByProduct(productID string, from, to *time.Time, limit, offset int) ([]*entity.InventoryTransaction, error) {
	return nil, nil
}

func (f *fakeLedger) ListByWarehouse(warehouseID string, from, to *time.Time, limit, offset int) ([]*entity.InventoryTransaction, error) {
	return nil, nil
}

func TestNormalizeQuantity(t *testing.T) {
	cases := []struct {
		name     string
		txType   string
		in, want int64
	}{
		{"entrada positiva queda igual", entity.TransactionTypeEntrada, 10, 10},
		{"entrada negativa se invierte", entity.TransactionTypeEntrada, -10, 10},
		{"salida positiva se invierte", entity.TransactionTypeSalida, 10, -10},
		{"salida negativa queda igual", entity.TransactionTypeSalida, -10, -10},
		{"ajuste conserva signo positivo", entity.TransactionTypeAjuste, 5, 5},
		{"ajuste conserva signo negativo", entity.TransactionTypeAjuste, -5, -5},
		{"cero queda cero", entity.TransactionTypeSalida, 0, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, inventory.NormalizeQuantity(tc.txType, tc.in))
		})
	}
}

func TestRecordAll_NormalizaYEtiquetaFilas(t *testing.T) {
	ledger := &fakeLedger{}
	now := time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC)
	ref := entity.DocumentRef{Kind: entity.RefPurchase, ID: "purchase-1"}

	err := inventory.RecordAll(ledger, "store-1", "wh-1", "user-1", ref, []inventory.Entry{
		{ProductID: "prod-a", Quantity: 10, Type: entity.TransactionTypeEntrada, Reason: "Confirmación de compra"},
		{ProductID: "prod-b", Quantity: 3, Type: entity.TransactionTypeSalida, Reason: "Venta registrada"},
	}, now)
	require.NoError(t, err)
	require.Len(t, ledger.rows, 2)

	first, second := ledger.rows[0], ledger.rows[1]
	assert.NotEmpty(t, first.ID)
	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, int64(10), first.Quantity)
	assert.Equal(t, int64(-3), second.Quantity, "una salida siempre se registra negativa")

	for _, row := range ledger.rows {
		assert.Equal(t, "store-1", row.StoreID)
		assert.Equal(t, "wh-1", row.WarehouseID)
		assert.Equal(t, "user-1", row.UserID)
		assert.Equal(t, ref, row.Reference)
		assert.Equal(t, now, row.CreatedAt)
	}
}

func TestRecordAll_SinEntradasNoEscribe(t *testing.T) {
	ledger := &fakeLedger{}
	err := inventory.RecordAll(ledger, "store-1", "wh-1", "user-1",
		entity.DocumentRef{Kind: entity.RefSale, ID: "sale-1"}, nil, time.Now())
	require.NoError(t, err)
	assert.Empty(t, ledger.rows)
}
