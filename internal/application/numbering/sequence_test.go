package numbering_test

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Isaac-VelizC/localstock-backend/internal/application/numbering"
	"github.com/Isaac-VelizC/localstock-backend/internal/domain/entity"
	"github.com/Isaac-VelizC/localstock-backend/internal/domain/repository"
)

// invoiceKey identifica un contador de facturas: bodega + día + operación.
type invoiceKey struct {
	warehouseID string
	date        string
	operation   string
}

// fakeInvoiceCounters emula el UPSERT+RETURNING bajo bloqueo de fila de la DB:
// un mutex por repositorio serializa los incrementos.
type fakeInvoiceCounters struct {
	mu   sync.Mutex
	last map[invoiceKey]int64
}

func newFakeInvoiceCounters() *fakeInvoiceCounters {
	return &fakeInvoiceCounters{last: make(map[invoiceKey]int64)}
}

func (f *fakeInvoiceCounters) Next(warehouseID string, date time.Time, operationType string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	k := invoiceKey{warehouseID, date.Format("2006-01-02"), operationType}
	f.last[k]++
	return f.last[k], nil
}

type fakeSaleCounters struct {
	mu   sync.Mutex
	last map[string]int64
}

func newFakeSaleCounters() *fakeSaleCounters {
	return &fakeSaleCounters{last: make(map[string]int64)}
}

func (f *fakeSaleCounters) Next(storeID string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.last[storeID]++
	return f.last[storeID], nil
}

func TestFormatInvoiceNumber(t *testing.T) {
	date := time.Date(2025, 3, 15, 10, 0, 0, 0, time.UTC)

	assert.Equal(t, "P-20250315-BOD1-0001",
		numbering.FormatInvoiceNumber(repository.OperationPurchase, date, "BOD1", 1))
	assert.Equal(t, "S-20250315-BOD1-0042",
		numbering.FormatInvoiceNumber(repository.OperationSale, date, "BOD1", 42))
	// El padding es de 4 dígitos pero no trunca números mayores
	assert.Equal(t, "P-20250315-BOD1-12345",
		numbering.FormatInvoiceNumber(repository.OperationPurchase, date, "BOD1", 12345))
}

func TestFormatSaleNumber(t *testing.T) {
	assert.Equal(t, "TDA-SL-00001", numbering.FormatSaleNumber("TDA", 1))
	assert.Equal(t, "TDA-SL-00917", numbering.FormatSaleNumber("TDA", 917))
}

// Contadores distintos por operación: compra y venta del mismo día y bodega
// llevan secuencias independientes.
func TestNextInvoiceNumber_SecuenciasIndependientesPorOperacion(t *testing.T) {
	counters := newFakeInvoiceCounters()
	wh := &entity.Warehouse{ID: "wh-1", Code: "BOD1"}
	date := time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)

	p1, err := numbering.NextInvoiceNumber(counters, wh, repository.OperationPurchase, date)
	require.NoError(t, err)
	s1, err := numbering.NextInvoiceNumber(counters, wh, repository.OperationSale, date)
	require.NoError(t, err)
	p2, err := numbering.NextInvoiceNumber(counters, wh, repository.OperationPurchase, date)
	require.NoError(t, err)

	assert.Equal(t, "P-20250315-BOD1-0001", p1)
	assert.Equal(t, "S-20250315-BOD1-0001", s1)
	assert.Equal(t, "P-20250315-BOD1-0002", p2)
}

// Días distintos reinician el consecutivo.
func TestNextInvoiceNumber_ReiniciaPorDia(t *testing.T) {
	counters := newFakeInvoiceCounters()
	wh := &entity.Warehouse{ID: "wh-1", Code: "BOD1"}

	d1 := time.Date(2025, 3, 15, 23, 59, 0, 0, time.UTC)
	d2 := time.Date(2025, 3, 16, 0, 1, 0, 0, time.UTC)

	n1, err := numbering.NextInvoiceNumber(counters, wh, repository.OperationPurchase, d1)
	require.NoError(t, err)
	n2, err := numbering.NextInvoiceNumber(counters, wh, repository.OperationPurchase, d2)
	require.NoError(t, err)

	assert.Equal(t, "P-20250315-BOD1-0001", n1)
	assert.Equal(t, "P-20250316-BOD1-0001", n2)
}

// N goroutines pidiendo números sobre la misma clave deben recibir exactamente
// el conjunto {1..N}: sin huecos y sin duplicados.
func TestNextInvoiceNumber_ConcurrenciaSinHuecosNiDuplicados(t *testing.T) {
	const n = 100
	counters := newFakeInvoiceCounters()
	wh := &entity.Warehouse{ID: "wh-1", Code: "BOD1"}
	date := time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)

	results := make(chan string, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			num, err := numbering.NextInvoiceNumber(counters, wh, repository.OperationSale, date)
			assert.NoError(t, err)
			results <- num
		}()
	}
	wg.Wait()
	close(results)

	seen := make(map[string]bool, n)
	for num := range results {
		assert.False(t, seen[num], "número duplicado: %s", num)
		seen[num] = true
	}
	require.Len(t, seen, n)
	for i := 1; i <= n; i++ {
		expected := numbering.FormatInvoiceNumber(repository.OperationSale, date, "BOD1", int64(i))
		assert.True(t, seen[expected], "falta el número %s", expected)
	}
}

func TestNextSaleNumber_ConcurrenciaPorTienda(t *testing.T) {
	const n = 50
	counters := newFakeSaleCounters()
	storeA := &entity.Store{ID: "store-a", Code: "TDA"}
	storeB := &entity.Store{ID: "store-b", Code: "TDB"}

	results := make(chan string, n*2)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			num, err := numbering.NextSaleNumber(counters, storeA)
			assert.NoError(t, err)
			results <- num
		}()
		wg.Add(1)
		go func() {
			defer wg.Done()
			num, err := numbering.NextSaleNumber(counters, storeB)
			assert.NoError(t, err)
			results <- num
		}()
	}
	wg.Wait()
	close(results)

	seen := make(map[string]bool, n*2)
	for num := range results {
		assert.False(t, seen[num], "número duplicado: %s", num)
		seen[num] = true
	}
	// Cada tienda recibe su {1..N} contiguo e independiente
	for i := 1; i <= n; i++ {
		assert.True(t, seen[numbering.FormatSaleNumber("TDA", int64(i))])
		assert.True(t, seen[numbering.FormatSaleNumber("TDB", int64(i))])
	}
}
