package sale_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Isaac-VelizC/localstock-backend/internal/application/apptest"
	"github.com/Isaac-VelizC/localstock-backend/internal/application/dto"
	"github.com/Isaac-VelizC/localstock-backend/internal/application/sale"
	"github.com/Isaac-VelizC/localstock-backend/internal/domain"
	"github.com/Isaac-VelizC/localstock-backend/internal/domain/entity"
)

const (
	storeID     = "store-1"
	warehouseID = "wh-1"
	customerID  = "cus-1"
	userID      = "user-1"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func eqDec(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...interface{}) {
	t.Helper()
	assert.True(t, dec(want).Equal(got), "esperaba %s, obtuvo %s %v", want, got, msgAndArgs)
}

// fixture arma una tienda con bodega, cliente y dos productos con stock.
func fixture() (*apptest.World, *apptest.TxRunner, *sale.UseCase) {
	w := apptest.NewWorld()
	w.Stores[storeID] = &entity.Store{ID: storeID, Name: "Tienda Centro", Code: "TDA", IsActive: true}
	w.Warehouses[warehouseID] = &entity.Warehouse{ID: warehouseID, StoreID: storeID, Code: "BOD1", IsActive: true}
	w.Customers[customerID] = &entity.Customer{ID: customerID, StoreID: storeID, Name: "Cliente Frecuente", IsActive: true}
	w.Products["prod-a"] = &entity.Product{
		ID: "prod-a", StoreID: storeID, WarehouseID: warehouseID, Name: "Arroz 1kg",
		PurchasePrice: dec("8.00"), SalePrice: dec("12.00"), Stock: 10, IsActive: true,
	}
	w.Products["prod-b"] = &entity.Product{
		ID: "prod-b", StoreID: storeID, WarehouseID: warehouseID, Name: "Azúcar 1kg",
		PurchasePrice: dec("5.00"), SalePrice: dec("7.50"), Stock: 6, ReservedStock: 2, IsActive: true,
	}
	runner := apptest.NewTxRunner(w)
	uc := sale.NewUseCase(runner, w.SaleRepo(), w.StoreRepo(), w.WarehouseRepo(), w.CustomerRepo())
	return w, runner, uc
}

func request(status string, lines ...dto.SaleLineRequest) dto.CreateSaleRequest {
	if len(lines) == 0 {
		lines = []dto.SaleLineRequest{{ProductID: "prod-a", Quantity: 3}}
	}
	return dto.CreateSaleRequest{
		WarehouseID: warehouseID,
		Status:      status,
		Lines:       lines,
	}
}

// ── Create ────────────────────────────────────────────────────────────────────

func TestSaleCreate_CompletedDescuentaStockDeInmediato(t *testing.T) {
	w, _, uc := fixture()

	resp, err := uc.Create(context.Background(), storeID, userID, request(""))
	require.NoError(t, err)

	assert.Equal(t, entity.SaleStatusCompleted, resp.Status, "sin status explícito la venta queda completed")
	assert.Equal(t, "TDA-SL-00001", resp.SaleNumber)
	assert.Regexp(t, `^S-\d{8}-BOD1-0001$`, resp.InvoiceNumber)

	// Precio del servidor: 3 * 12.00
	eqDec(t, "36.00", resp.Total)
	eqDec(t, "36.00", resp.NetTotal)
	eqDec(t, "12.00", resp.Lines[0].SalePrice)

	assert.Equal(t, int64(7), w.Product("prod-a").Stock)

	rows := w.LedgerForProduct("prod-a")
	require.Len(t, rows, 1)
	assert.Equal(t, entity.TransactionTypeSalida, rows[0].Type)
	assert.Equal(t, int64(-3), rows[0].Quantity, "una salida siempre se registra negativa")
	assert.Equal(t, entity.DocumentRef{Kind: entity.RefSale, ID: resp.ID}, rows[0].Reference)
}

func TestSaleCreate_DescuentoPorcentual(t *testing.T) {
	_, _, uc := fixture()

	resp, err := uc.Create(context.Background(), storeID, userID, request("",
		dto.SaleLineRequest{ProductID: "prod-a", Quantity: 2, Discount: dec("10")}))
	require.NoError(t, err)

	// bruto 24, 10% de descuento -> subtotal 21.6
	eqDec(t, "24.00", resp.Total)
	eqDec(t, "2.40", resp.DiscountTotal)
	eqDec(t, "21.60", resp.NetTotal)
	eqDec(t, "21.60", resp.Lines[0].Subtotal)
}

func TestSaleCreate_PendingReservaSinMoverStock(t *testing.T) {
	w, _, uc := fixture()

	resp, err := uc.Create(context.Background(), storeID, userID, request(entity.SaleStatusPending))
	require.NoError(t, err)
	assert.Equal(t, entity.SaleStatusPending, resp.Status)

	p := w.Product("prod-a")
	assert.Equal(t, int64(10), p.Stock, "reservar no cambia el stock físico")
	assert.Equal(t, int64(3), p.ReservedStock)
	assert.Empty(t, w.Ledger, "la reserva no es un movimiento del libro")
}

func TestSaleCreate_DraftNoTocaInventario(t *testing.T) {
	w, _, uc := fixture()

	resp, err := uc.Create(context.Background(), storeID, userID, request(entity.SaleStatusDraft))
	require.NoError(t, err)
	assert.Equal(t, entity.SaleStatusDraft, resp.Status)
	assert.NotEmpty(t, resp.SaleNumber, "el borrador ya tiene número asignado")

	p := w.Product("prod-a")
	assert.Equal(t, int64(10), p.Stock)
	assert.Equal(t, int64(0), p.ReservedStock)
	assert.Empty(t, w.Ledger)
}

func TestSaleCreate_StockInsuficiente(t *testing.T) {
	w, _, uc := fixture()

	_, err := uc.Create(context.Background(), storeID, userID, request("",
		dto.SaleLineRequest{ProductID: "prod-a", Quantity: 11}))
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	// Nada persiste: ni venta, ni numeración consumida
	assert.Empty(t, w.Sales)
	assert.Empty(t, w.SaleCounters)

	resp, err := uc.Create(context.Background(), storeID, userID, request(""))
	require.NoError(t, err)
	assert.Equal(t, "TDA-SL-00001", resp.SaleNumber, "el intento fallido no consumió numeración")
}

// La reserva descuenta del disponible: con stock 6 y 2 reservados solo hay 4.
func TestSaleCreate_PendingRespetaReservasPrevias(t *testing.T) {
	_, _, uc := fixture()

	_, err := uc.Create(context.Background(), storeID, userID, request(entity.SaleStatusPending,
		dto.SaleLineRequest{ProductID: "prod-b", Quantity: 5}))
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	_, err = uc.Create(context.Background(), storeID, userID, request(entity.SaleStatusPending,
		dto.SaleLineRequest{ProductID: "prod-b", Quantity: 4}))
	assert.NoError(t, err)
}

// Completed valida contra stock físico, no disponible: vender 6 de prod-b
// (2 reservados) se permite; la sobre-reserva se detecta al confirmar la otra.
func TestSaleCreate_CompletedValidaContraStockFisico(t *testing.T) {
	w, _, uc := fixture()

	_, err := uc.Create(context.Background(), storeID, userID, request("",
		dto.SaleLineRequest{ProductID: "prod-b", Quantity: 6}))
	require.NoError(t, err)
	assert.Equal(t, int64(0), w.Product("prod-b").Stock)
}

func TestSaleCreate_Validaciones(t *testing.T) {
	_, _, uc := fixture()
	ctx := context.Background()

	_, err := uc.Create(ctx, storeID, userID, request("canceled"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "canceled no es estado de creación")

	_, err = uc.Create(ctx, storeID, userID, request("", dto.SaleLineRequest{ProductID: "prod-a", Quantity: 1, Discount: dec("101")}))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	in := request("")
	in.WarehouseID = ""
	_, err = uc.Create(ctx, storeID, userID, in)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	other := "cus-ajeno"
	in = request("")
	in.CustomerID = &other
	_, err = uc.Create(ctx, storeID, userID, in)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ── Confirm ───────────────────────────────────────────────────────────────────

func TestSaleConfirm_PendingLiberaReservaYDescuenta(t *testing.T) {
	w, _, uc := fixture()
	created, err := uc.Create(context.Background(), storeID, userID, request(entity.SaleStatusPending))
	require.NoError(t, err)

	resp, err := uc.Confirm(context.Background(), storeID, userID, created.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.SaleStatusCompleted, resp.Status)

	p := w.Product("prod-a")
	assert.Equal(t, int64(7), p.Stock)
	assert.Equal(t, int64(0), p.ReservedStock, "la reserva se libera al confirmar")

	rows := w.LedgerForProduct("prod-a")
	require.Len(t, rows, 1)
	assert.Equal(t, entity.TransactionTypeSalida, rows[0].Type)
	assert.Equal(t, int64(-3), rows[0].Quantity)
}

func TestSaleConfirm_DraftDescuentaDirecto(t *testing.T) {
	w, _, uc := fixture()
	created, err := uc.Create(context.Background(), storeID, userID, request(entity.SaleStatusDraft))
	require.NoError(t, err)

	_, err = uc.Confirm(context.Background(), storeID, userID, created.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(7), w.Product("prod-a").Stock)
}

func TestSaleConfirm_RevalidaStock(t *testing.T) {
	w, _, uc := fixture()
	created, err := uc.Create(context.Background(), storeID, userID, request(entity.SaleStatusDraft,
		dto.SaleLineRequest{ProductID: "prod-a", Quantity: 8}))
	require.NoError(t, err)

	// Otra venta consume el stock entre el borrador y la confirmación
	_, err = uc.Create(context.Background(), storeID, userID, request("",
		dto.SaleLineRequest{ProductID: "prod-a", Quantity: 5}))
	require.NoError(t, err)

	_, err = uc.Confirm(context.Background(), storeID, userID, created.ID)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, entity.SaleStatusDraft, w.Sale(created.ID).Status, "la confirmación fallida no cambia el estado")
}

func TestSaleConfirm_TerminalFalla(t *testing.T) {
	_, _, uc := fixture()
	created, err := uc.Create(context.Background(), storeID, userID, request(""))
	require.NoError(t, err)

	_, err = uc.Confirm(context.Background(), storeID, userID, created.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

// ── Cancel ────────────────────────────────────────────────────────────────────

func TestSaleCancel_CompletedReponeStock(t *testing.T) {
	w, _, uc := fixture()
	created, err := uc.Create(context.Background(), storeID, userID, request(""))
	require.NoError(t, err)

	resp, err := uc.Cancel(context.Background(), storeID, userID, created.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.SaleStatusCanceled, resp.Status)
	assert.Equal(t, int64(10), w.Product("prod-a").Stock)

	rows := w.LedgerForProduct("prod-a")
	require.Len(t, rows, 2)
	assert.Equal(t, entity.TransactionTypeAjuste, rows[1].Type)
	assert.Equal(t, int64(3), rows[1].Quantity, "el ajuste registra el delta real, positivo al reponer")
	assert.Equal(t, "Cancelación de venta", rows[1].Reason)
}

func TestSaleCancel_PendingLiberaReserva(t *testing.T) {
	w, _, uc := fixture()
	created, err := uc.Create(context.Background(), storeID, userID, request(entity.SaleStatusPending))
	require.NoError(t, err)

	_, err = uc.Cancel(context.Background(), storeID, userID, created.ID)
	require.NoError(t, err)

	p := w.Product("prod-a")
	assert.Equal(t, int64(10), p.Stock)
	assert.Equal(t, int64(0), p.ReservedStock)

	rows := w.LedgerForProduct("prod-a")
	require.Len(t, rows, 1)
	assert.Equal(t, "Cancelación de venta (liberación de reserva)", rows[0].Reason)
}

func TestSaleCancel_DraftSinEfectoDeInventario(t *testing.T) {
	w, _, uc := fixture()
	created, err := uc.Create(context.Background(), storeID, userID, request(entity.SaleStatusDraft))
	require.NoError(t, err)

	_, err = uc.Cancel(context.Background(), storeID, userID, created.ID)
	require.NoError(t, err)
	assert.Empty(t, w.Ledger)
	assert.Equal(t, entity.SaleStatusCanceled, w.Sale(created.ID).Status)
}

func TestSaleCancel_CanceladaEsTerminal(t *testing.T) {
	_, _, uc := fixture()
	created, err := uc.Create(context.Background(), storeID, userID, request(entity.SaleStatusDraft))
	require.NoError(t, err)
	_, err = uc.Cancel(context.Background(), storeID, userID, created.ID)
	require.NoError(t, err)

	_, err = uc.Cancel(context.Background(), storeID, userID, created.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

// ── Update / Delete ───────────────────────────────────────────────────────────

func TestSaleUpdate_PendingAjustaReserva(t *testing.T) {
	w, _, uc := fixture()
	created, err := uc.Create(context.Background(), storeID, userID, request(entity.SaleStatusPending))
	require.NoError(t, err)
	assert.Equal(t, int64(3), w.Product("prod-a").ReservedStock)

	_, err = uc.Update(context.Background(), storeID, userID, created.ID, dto.UpdateSaleRequest{
		Lines: []dto.SaleLineRequest{{ProductID: "prod-a", Quantity: 5}},
	})
	require.NoError(t, err)

	p := w.Product("prod-a")
	assert.Equal(t, int64(10), p.Stock)
	assert.Equal(t, int64(5), p.ReservedStock, "la reserva vieja se libera antes de aplicar la nueva")
}

func TestSaleUpdate_PendingACompleted(t *testing.T) {
	w, _, uc := fixture()
	created, err := uc.Create(context.Background(), storeID, userID, request(entity.SaleStatusPending))
	require.NoError(t, err)

	resp, err := uc.Update(context.Background(), storeID, userID, created.ID, dto.UpdateSaleRequest{
		Status: entity.SaleStatusCompleted,
		Lines:  []dto.SaleLineRequest{{ProductID: "prod-a", Quantity: 3}},
	})
	require.NoError(t, err)
	assert.Equal(t, entity.SaleStatusCompleted, resp.Status)

	p := w.Product("prod-a")
	assert.Equal(t, int64(7), p.Stock)
	assert.Equal(t, int64(0), p.ReservedStock)
}

func TestSaleUpdate_CambioDeProducto(t *testing.T) {
	w, _, uc := fixture()
	created, err := uc.Create(context.Background(), storeID, userID, request(entity.SaleStatusPending))
	require.NoError(t, err)

	_, err = uc.Update(context.Background(), storeID, userID, created.ID, dto.UpdateSaleRequest{
		Lines: []dto.SaleLineRequest{{ProductID: "prod-b", Quantity: 2}},
	})
	require.NoError(t, err)

	assert.Equal(t, int64(0), w.Product("prod-a").ReservedStock, "el producto removido libera su reserva")
	assert.Equal(t, int64(4), w.Product("prod-b").ReservedStock)
}

func TestSaleUpdate_CompletedNoSeEdita(t *testing.T) {
	_, _, uc := fixture()
	created, err := uc.Create(context.Background(), storeID, userID, request(""))
	require.NoError(t, err)

	_, err = uc.Update(context.Background(), storeID, userID, created.ID, dto.UpdateSaleRequest{
		Lines: []dto.SaleLineRequest{{ProductID: "prod-a", Quantity: 1}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestSaleUpdate_FalloDejaEstadoIntacto(t *testing.T) {
	w, runner, uc := fixture()
	created, err := uc.Create(context.Background(), storeID, userID, request(entity.SaleStatusPending))
	require.NoError(t, err)

	runner.FailCommit = errors.New("commit transaction: conexión perdida")
	_, err = uc.Update(context.Background(), storeID, userID, created.ID, dto.UpdateSaleRequest{
		Lines: []dto.SaleLineRequest{{ProductID: "prod-a", Quantity: 5}},
	})
	require.Error(t, err)

	assert.Equal(t, int64(3), w.Product("prod-a").ReservedStock, "rollback: la reserva original sobrevive")
	require.Len(t, w.Sale(created.ID).Lines, 1)
	assert.Equal(t, int64(3), w.Sale(created.ID).Lines[0].Quantity)
}

func TestSaleDelete_SoloDraft(t *testing.T) {
	w, _, uc := fixture()
	draft, err := uc.Create(context.Background(), storeID, userID, request(entity.SaleStatusDraft))
	require.NoError(t, err)
	pending, err := uc.Create(context.Background(), storeID, userID, request(entity.SaleStatusPending))
	require.NoError(t, err)

	require.NoError(t, uc.Delete(context.Background(), storeID, draft.ID))
	assert.True(t, w.Sale(draft.ID).SoftDeleted)

	err = uc.Delete(context.Background(), storeID, pending.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition, "una pending retiene reserva: se cancela, no se elimina")
}

func TestSaleGetByID_OtraTienda(t *testing.T) {
	_, _, uc := fixture()
	created, err := uc.Create(context.Background(), storeID, userID, request(entity.SaleStatusDraft))
	require.NoError(t, err)

	_, err = uc.GetByID("store-2", created.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}
