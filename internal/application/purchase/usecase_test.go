package purchase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Isaac-VelizC/localstock-backend/internal/application/apptest"
	"github.com/Isaac-VelizC/localstock-backend/internal/application/dto"
	"github.com/Isaac-VelizC/localstock-backend/internal/application/purchase"
	"github.com/Isaac-VelizC/localstock-backend/internal/domain"
	"github.com/Isaac-VelizC/localstock-backend/internal/domain/entity"
)

const (
	storeID     = "store-1"
	warehouseID = "wh-1"
	supplierID  = "sup-1"
	userID      = "user-1"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func eqDec(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...interface{}) {
	t.Helper()
	assert.True(t, dec(want).Equal(got), "esperaba %s, obtuvo %s %v", want, got, msgAndArgs)
}

// fixture arma una tienda con bodega, proveedor y dos productos activos.
func fixture() (*apptest.World, *apptest.TxRunner, *purchase.UseCase) {
	w := apptest.NewWorld()
	w.Stores[storeID] = &entity.Store{ID: storeID, Name: "Tienda Centro", Code: "TDA", IsActive: true}
	w.Warehouses[warehouseID] = &entity.Warehouse{ID: warehouseID, StoreID: storeID, Code: "BOD1", IsActive: true}
	w.Suppliers[supplierID] = &entity.Supplier{ID: supplierID, StoreID: storeID, Name: "Proveedor SA", IsActive: true}
	w.Products["prod-a"] = &entity.Product{
		ID: "prod-a", StoreID: storeID, WarehouseID: warehouseID, Name: "Arroz 1kg",
		PurchasePrice: dec("8.00"), SalePrice: dec("12.00"), Stock: 5, IsActive: true,
	}
	w.Products["prod-b"] = &entity.Product{
		ID: "prod-b", StoreID: storeID, WarehouseID: warehouseID, Name: "Azúcar 1kg",
		PurchasePrice: dec("5.00"), SalePrice: dec("7.50"), Stock: 0, IsActive: true,
	}
	runner := apptest.NewTxRunner(w)
	uc := purchase.NewUseCase(runner, w.PurchaseRepo(), w.StoreRepo(), w.WarehouseRepo(), w.SupplierRepo())
	return w, runner, uc
}

func twoLineRequest() dto.CreatePurchaseRequest {
	return dto.CreatePurchaseRequest{
		SupplierID:  supplierID,
		WarehouseID: warehouseID,
		Lines: []dto.PurchaseLineRequest{
			{ProductID: "prod-a", Quantity: 10, PurchasePrice: dec("8.00"), TaxRate: dec("19"), Discount: dec("5.00")},
			{ProductID: "prod-b", Quantity: 4, PurchasePrice: dec("5.00")},
		},
	}
}

// ── Create ────────────────────────────────────────────────────────────────────

func TestPurchaseCreate_QuedaPendingSinMoverStock(t *testing.T) {
	w, _, uc := fixture()

	resp, err := uc.Create(context.Background(), storeID, userID, twoLineRequest())
	require.NoError(t, err)

	assert.Equal(t, entity.PurchaseStatusPending, resp.Status)
	assert.Regexp(t, `^P-\d{8}-BOD1-0001$`, resp.InvoiceNumber)
	require.Len(t, resp.Lines, 2)

	// total = 10*8 + 4*5 = 100; descuento 5; subtotal línea A = 75, impuesto 19% de 75 = 14.25
	eqDec(t, "100.00", resp.Total)
	eqDec(t, "5.00", resp.DiscountTotal)
	eqDec(t, "14.25", resp.TaxTotal)
	eqDec(t, "109.25", resp.NetTotal) // 100 + 14.25 - 5
	eqDec(t, "75.00", resp.Lines[0].Subtotal)
	eqDec(t, "20.00", resp.Lines[1].Subtotal)

	// El stock no se mueve al crear; el libro queda vacío
	assert.Equal(t, int64(5), w.Product("prod-a").Stock)
	assert.Equal(t, int64(0), w.Product("prod-b").Stock)
	assert.Empty(t, w.Ledger)
}

func TestPurchaseCreate_RechazaEstadoDistintoDePending(t *testing.T) {
	_, _, uc := fixture()
	in := twoLineRequest()
	in.Status = entity.PurchaseStatusCompleted

	_, err := uc.Create(context.Background(), storeID, userID, in)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestPurchaseCreate_ValidacionDeLineas(t *testing.T) {
	_, _, uc := fixture()

	cases := []struct {
		name   string
		mutate func(*dto.CreatePurchaseRequest)
	}{
		{"sin líneas", func(r *dto.CreatePurchaseRequest) { r.Lines = nil }},
		{"cantidad cero", func(r *dto.CreatePurchaseRequest) { r.Lines[0].Quantity = 0 }},
		{"cantidad negativa", func(r *dto.CreatePurchaseRequest) { r.Lines[0].Quantity = -3 }},
		{"precio negativo", func(r *dto.CreatePurchaseRequest) { r.Lines[0].PurchasePrice = dec("-1") }},
		{"descuento negativo", func(r *dto.CreatePurchaseRequest) { r.Lines[0].Discount = dec("-1") }},
		{"impuesto mayor a 100", func(r *dto.CreatePurchaseRequest) { r.Lines[0].TaxRate = dec("101") }},
		{"producto duplicado", func(r *dto.CreatePurchaseRequest) { r.Lines[1].ProductID = "prod-a" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := twoLineRequest()
			tc.mutate(&in)
			_, err := uc.Create(context.Background(), storeID, userID, in)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestPurchaseCreate_BodegaDeOtraTienda(t *testing.T) {
	w, _, uc := fixture()
	w.Warehouses["wh-ajena"] = &entity.Warehouse{ID: "wh-ajena", StoreID: "store-2", Code: "BODX"}
	in := twoLineRequest()
	in.WarehouseID = "wh-ajena"

	_, err := uc.Create(context.Background(), storeID, userID, in)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestPurchaseCreate_ProductoInexistente(t *testing.T) {
	_, _, uc := fixture()
	in := twoLineRequest()
	in.Lines[0].ProductID = "no-existe"

	_, err := uc.Create(context.Background(), storeID, userID, in)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPurchaseCreate_NumeracionConsecutiva(t *testing.T) {
	_, _, uc := fixture()

	first, err := uc.Create(context.Background(), storeID, userID, twoLineRequest())
	require.NoError(t, err)
	second, err := uc.Create(context.Background(), storeID, userID, twoLineRequest())
	require.NoError(t, err)

	assert.Regexp(t, `-0001$`, first.InvoiceNumber)
	assert.Regexp(t, `-0002$`, second.InvoiceNumber)
}

// ── Confirm ───────────────────────────────────────────────────────────────────

func TestPurchaseConfirm_SumaStockYEscribeLibro(t *testing.T) {
	w, _, uc := fixture()
	created, err := uc.Create(context.Background(), storeID, userID, twoLineRequest())
	require.NoError(t, err)

	resp, err := uc.Confirm(context.Background(), storeID, userID, created.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.PurchaseStatusCompleted, resp.Status)

	assert.Equal(t, int64(15), w.Product("prod-a").Stock)
	assert.Equal(t, int64(4), w.Product("prod-b").Stock)

	rows := w.LedgerForProduct("prod-a")
	require.Len(t, rows, 1)
	assert.Equal(t, entity.TransactionTypeEntrada, rows[0].Type)
	assert.Equal(t, int64(10), rows[0].Quantity, "una entrada siempre se registra positiva")
	assert.Equal(t, entity.DocumentRef{Kind: entity.RefPurchase, ID: created.ID}, rows[0].Reference)
	assert.Equal(t, userID, rows[0].UserID)
}

func TestPurchaseConfirm_HistorialDePreciosSiempre(t *testing.T) {
	w, _, uc := fixture()
	// Sin actualización automática de precio
	created, err := uc.Create(context.Background(), storeID, userID, twoLineRequest())
	require.NoError(t, err)
	_, err = uc.Confirm(context.Background(), storeID, userID, created.ID)
	require.NoError(t, err)

	require.Len(t, w.PriceHistory, 2, "el historial se escribe aunque el precio no se aplique")
	// El precio del producto no cambió
	eqDec(t, "8.00", w.Product("prod-a").PurchasePrice)
	eqDec(t, "12.00", w.Product("prod-a").SalePrice)
}

func TestPurchaseConfirm_ActualizaPreciosConMargen(t *testing.T) {
	w, _, uc := fixture()
	w.Stores[storeID].Settings = entity.StoreSettings{
		AutoUpdatePriceOnPurchase: true,
		MarginPercentage:          dec("30"),
	}

	in := twoLineRequest()
	in.Lines = in.Lines[:1]
	in.Lines[0].PurchasePrice = dec("10.00")
	created, err := uc.Create(context.Background(), storeID, userID, in)
	require.NoError(t, err)

	_, err = uc.Confirm(context.Background(), storeID, userID, created.ID)
	require.NoError(t, err)

	eqDec(t, "10.00", w.Product("prod-a").PurchasePrice)
	eqDec(t, "13.00", w.Product("prod-a").SalePrice, "venta = compra * 1.30 redondeado a 2")

	require.Len(t, w.PriceHistory, 1)
	eqDec(t, "10.00", w.PriceHistory[0].PurchasePrice)
	eqDec(t, "13.00", w.PriceHistory[0].SalePrice)
}

func TestPurchaseConfirm_DobleConfirmacionFalla(t *testing.T) {
	_, _, uc := fixture()
	created, err := uc.Create(context.Background(), storeID, userID, twoLineRequest())
	require.NoError(t, err)

	_, err = uc.Confirm(context.Background(), storeID, userID, created.ID)
	require.NoError(t, err)
	_, err = uc.Confirm(context.Background(), storeID, userID, created.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestPurchaseConfirm_CommitFallidoNoDejaEstadoParcial(t *testing.T) {
	w, runner, uc := fixture()
	created, err := uc.Create(context.Background(), storeID, userID, twoLineRequest())
	require.NoError(t, err)

	runner.FailCommit = errors.New("commit transaction: conexión perdida")
	_, err = uc.Confirm(context.Background(), storeID, userID, created.ID)
	require.Error(t, err)

	// Rollback total: ni stock, ni libro, ni historial, ni cambio de estado
	assert.Equal(t, int64(5), w.Product("prod-a").Stock)
	assert.Empty(t, w.Ledger)
	assert.Empty(t, w.PriceHistory)
	assert.Equal(t, entity.PurchaseStatusPending, w.Purchase(created.ID).Status)
}

// ── Cancel ────────────────────────────────────────────────────────────────────

func TestPurchaseCancel_CompletedRevierteStock(t *testing.T) {
	w, _, uc := fixture()
	created, err := uc.Create(context.Background(), storeID, userID, twoLineRequest())
	require.NoError(t, err)
	_, err = uc.Confirm(context.Background(), storeID, userID, created.ID)
	require.NoError(t, err)

	resp, err := uc.Cancel(context.Background(), storeID, userID, created.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.PurchaseStatusCanceled, resp.Status)

	assert.Equal(t, int64(5), w.Product("prod-a").Stock)
	assert.Equal(t, int64(0), w.Product("prod-b").Stock)

	rows := w.LedgerForProduct("prod-a")
	require.Len(t, rows, 2)
	assert.Equal(t, entity.TransactionTypeAjuste, rows[1].Type)
	assert.Equal(t, int64(-10), rows[1].Quantity, "el ajuste registra el delta real, negativo al revertir")
}

func TestPurchaseCancel_PendingNoEscribeLibro(t *testing.T) {
	w, _, uc := fixture()
	created, err := uc.Create(context.Background(), storeID, userID, twoLineRequest())
	require.NoError(t, err)

	_, err = uc.Cancel(context.Background(), storeID, userID, created.ID)
	require.NoError(t, err)

	assert.Empty(t, w.Ledger, "cancelar una compra pending no mueve inventario")
	assert.Equal(t, entity.PurchaseStatusCanceled, w.Purchase(created.ID).Status)
}

func TestPurchaseCancel_CanceladaEsTerminal(t *testing.T) {
	_, _, uc := fixture()
	created, err := uc.Create(context.Background(), storeID, userID, twoLineRequest())
	require.NoError(t, err)
	_, err = uc.Cancel(context.Background(), storeID, userID, created.ID)
	require.NoError(t, err)

	_, err = uc.Cancel(context.Background(), storeID, userID, created.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	_, err = uc.Confirm(context.Background(), storeID, userID, created.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

// ── Update / Delete ───────────────────────────────────────────────────────────

func TestPurchaseUpdate_ReemplazaLineasYRecalcula(t *testing.T) {
	w, _, uc := fixture()
	created, err := uc.Create(context.Background(), storeID, userID, twoLineRequest())
	require.NoError(t, err)

	resp, err := uc.Update(context.Background(), storeID, userID, created.ID, dto.UpdatePurchaseRequest{
		Lines: []dto.PurchaseLineRequest{
			{ProductID: "prod-b", Quantity: 2, PurchasePrice: dec("6.00")},
		},
	})
	require.NoError(t, err)

	require.Len(t, resp.Lines, 1)
	assert.Equal(t, "prod-b", resp.Lines[0].ProductID)
	eqDec(t, "12.00", resp.Total)
	eqDec(t, "12.00", resp.NetTotal)

	stored := w.Purchase(created.ID)
	require.Len(t, stored.Lines, 1, "las líneas viejas se reemplazan, no se acumulan")
}

func TestPurchaseUpdate_SoloPending(t *testing.T) {
	_, _, uc := fixture()
	created, err := uc.Create(context.Background(), storeID, userID, twoLineRequest())
	require.NoError(t, err)
	_, err = uc.Confirm(context.Background(), storeID, userID, created.ID)
	require.NoError(t, err)

	_, err = uc.Update(context.Background(), storeID, userID, created.ID, dto.UpdatePurchaseRequest{
		Lines: []dto.PurchaseLineRequest{{ProductID: "prod-a", Quantity: 1, PurchasePrice: dec("1")}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestPurchaseDelete_SoloPending(t *testing.T) {
	w, _, uc := fixture()
	created, err := uc.Create(context.Background(), storeID, userID, twoLineRequest())
	require.NoError(t, err)

	require.NoError(t, uc.Delete(context.Background(), storeID, created.ID))
	assert.True(t, w.Purchase(created.ID).SoftDeleted)

	// Ya eliminada: no se encuentra
	_, err = uc.GetByID(storeID, created.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPurchaseDelete_CompletedEsInmutable(t *testing.T) {
	_, _, uc := fixture()
	created, err := uc.Create(context.Background(), storeID, userID, twoLineRequest())
	require.NoError(t, err)
	_, err = uc.Confirm(context.Background(), storeID, userID, created.ID)
	require.NoError(t, err)

	err = uc.Delete(context.Background(), storeID, created.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestPurchaseGetByID_OtraTienda(t *testing.T) {
	_, _, uc := fixture()
	created, err := uc.Create(context.Background(), storeID, userID, twoLineRequest())
	require.NoError(t, err)

	_, err = uc.GetByID("store-2", created.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}
