package inventory_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/fluxa-api/internal/domain/entity"
	"github.com/jhoicas/fluxa-api/internal/domain/inventory"
)

// ──────────────────────────────────────────────────────────────────────────────
// StockAllocator
// ──────────────────────────────────────────────────────────────────────────────

func TestStockAllocator_LineasRepetidasConsumenElMismoSaldo(t *testing.T) {
	a := inventory.NewStockAllocator(map[int64]int{1: 6})

	available, ok := a.Allocate(1, 4)
	assert.True(t, ok)
	assert.Equal(t, 6, available)
	assert.Equal(t, 2, a.Remaining(1))

	available, ok = a.Allocate(1, 4)
	assert.False(t, ok, "la segunda línea ve solo el saldo restante")
	assert.Equal(t, 2, available)
	assert.Equal(t, 2, a.Remaining(1), "un intento fallido no descuenta")
}

func TestStockAllocator_NoModificaElMapaOriginal(t *testing.T) {
	initial := map[int64]int{1: 3}
	a := inventory.NewStockAllocator(initial)
	_, _ = a.Allocate(1, 3)
	assert.Equal(t, 3, initial[1])
	assert.Equal(t, 0, a.Remaining(1))
}

func TestStockAllocator_ProductoDesconocidoNoTieneStock(t *testing.T) {
	a := inventory.NewStockAllocator(nil)
	available, ok := a.Allocate(99, 1)
	assert.False(t, ok)
	assert.Equal(t, 0, available)
}

// ──────────────────────────────────────────────────────────────────────────────
// Financials
// ──────────────────────────────────────────────────────────────────────────────

func TestSummarizeSales(t *testing.T) {
	sales := []*entity.Sale{
		{TotalAmount: decimal.RequireFromString("30.00"), Items: []entity.SaleItem{
			{QuantitySold: 3, PricePerUnit: decimal.RequireFromString("10.00"), CostPerUnit: decimal.RequireFromString("6.00")},
		}},
		{TotalAmount: decimal.RequireFromString("25.50"), Items: []entity.SaleItem{
			{QuantitySold: 1, PricePerUnit: decimal.RequireFromString("25.50"), CostPerUnit: decimal.RequireFromString("20.25")},
		}},
	}
	f := inventory.SummarizeSales(sales)
	assert.True(t, decimal.RequireFromString("55.50").Equal(f.TotalRevenue))
	assert.True(t, decimal.RequireFromString("38.25").Equal(f.TotalCostOfGoods))
	assert.True(t, decimal.RequireFromString("17.25").Equal(f.GrossProfit))
	assert.Equal(t, 2, f.SalesCount)
}

func TestValueStock(t *testing.T) {
	products := []*entity.Product{
		{ID: 1, Quantity: 20, PurchasePrice: decimal.RequireFromString("2.50")},
		{ID: 2, Quantity: 10, PurchasePrice: decimal.RequireFromString("1.00")},
		{ID: 3, Quantity: 0, PurchasePrice: decimal.RequireFromString("9.00")},
		{ID: 4, Quantity: -2, PurchasePrice: decimal.RequireFromString("9.00")},
	}
	v := inventory.ValueStock(products, 10)
	assert.True(t, decimal.RequireFromString("60.00").Equal(v.TotalCostValue), "el stock negativo no resta valor")
	assert.Equal(t, 4, v.ActiveProductCount)
	assert.Equal(t, 1, v.LowStockCount)
	assert.Equal(t, 2, v.OutOfStockCount)
	if assert.Len(t, v.LowStock, 1) {
		assert.Equal(t, int64(2), v.LowStock[0].ID)
	}
}

func TestGrossMarginPct(t *testing.T) {
	f := inventory.SalesFinancials{
		TotalRevenue: decimal.NewFromInt(200),
		GrossProfit:  decimal.NewFromInt(50),
	}
	assert.True(t, f.GrossMarginPct().Equal(decimal.NewFromInt(25)))

	assert.True(t, inventory.SalesFinancials{}.GrossMarginPct().IsZero(), "sin ingresos no divide por cero")
}

func TestRankProductsByRevenue(t *testing.T) {
	line := func(id int64, title string, qty int, price int64) entity.SaleItem {
		return entity.SaleItem{ProductID: id, ProductTitle: title, QuantitySold: qty, PricePerUnit: decimal.NewFromInt(price)}
	}
	sales := []*entity.Sale{
		{Items: []entity.SaleItem{line(1, "Silla", 2, 50), line(2, "Mesa", 1, 300)}},
		{Items: []entity.SaleItem{line(1, "Silla", 3, 50), line(3, "Lámpara", 5, 10)}},
		{Items: []entity.SaleItem{line(4, "Cojín", 10, 5)}},
	}

	top := inventory.RankProductsByRevenue(sales, 3)
	assert.Len(t, top, 3)
	assert.Equal(t, int64(2), top[0].ProductID)
	assert.Equal(t, int64(1), top[1].ProductID)
	assert.Equal(t, 5, top[1].QuantitySold)
	assert.True(t, top[1].Revenue.Equal(decimal.NewFromInt(250)))
	// Lámpara y Cojín empatan en 50; gana el que vendió más unidades.
	assert.Equal(t, int64(4), top[2].ProductID)

	assert.Len(t, inventory.RankProductsByRevenue(sales, 0), 4)
	assert.Empty(t, inventory.RankProductsByRevenue(nil, 5))
}
