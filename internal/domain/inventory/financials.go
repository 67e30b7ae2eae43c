package inventory

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/fluxa-api/internal/domain/entity"
)

// SalesFinancials resumen financiero de un conjunto de ventas.
type SalesFinancials struct {
	TotalRevenue     decimal.Decimal
	TotalCostOfGoods decimal.Decimal
	GrossProfit      decimal.Decimal
	SalesCount       int
}

// StockValuation foto del inventario.
type StockValuation struct {
	TotalCostValue     decimal.Decimal
	ActiveProductCount int
	LowStockCount      int
	OutOfStockCount    int
	LowStock           []*entity.Product
}

// SummarizeSales ingresos = Σ TotalAmount; costo = Σ CostPerUnit * QuantitySold.
func SummarizeSales(sales []*entity.Sale) SalesFinancials {
	out := SalesFinancials{TotalRevenue: decimal.Zero, TotalCostOfGoods: decimal.Zero}
	for _, s := range sales {
		out.TotalRevenue = out.TotalRevenue.Add(s.TotalAmount)
		for _, it := range s.Items {
			out.TotalCostOfGoods = out.TotalCostOfGoods.Add(it.CostTotal())
		}
	}
	out.GrossProfit = out.TotalRevenue.Sub(out.TotalCostOfGoods)
	out.SalesCount = len(sales)
	return out
}

// ValueStock valor a costo del stock no negativo; stock bajo = 0 < qty <= lowStockThreshold; agotado = qty <= 0.
func ValueStock(products []*entity.Product, lowStockThreshold int) StockValuation {
	out := StockValuation{TotalCostValue: decimal.Zero}
	for _, p := range products {
		qty := p.Quantity
		if qty < 0 {
			qty = 0
		}
		out.TotalCostValue = out.TotalCostValue.Add(p.PurchasePrice.Mul(decimal.NewFromInt(int64(qty))))
		switch {
		case p.Quantity <= 0:
			out.OutOfStockCount++
		case p.Quantity <= lowStockThreshold:
			out.LowStockCount++
			out.LowStock = append(out.LowStock, p)
		}
	}
	out.ActiveProductCount = len(products)
	return out
}

// GrossMarginPct (ingresos - costo) / ingresos * 100, redondeado a 2 decimales. Sin ingresos devuelve 0.
func (f SalesFinancials) GrossMarginPct() decimal.Decimal {
	if !f.TotalRevenue.IsPositive() {
		return decimal.Zero
	}
	return f.GrossProfit.Div(f.TotalRevenue).Mul(decimal.NewFromInt(100)).Round(2)
}

// ProductSales acumulado de ventas de un producto.
type ProductSales struct {
	ProductID    int64
	Title        string
	QuantitySold int
	Revenue      decimal.Decimal
}

// RankProductsByRevenue agrupa las líneas por producto y devuelve los n de mayor ingreso.
// Empate: más unidades vendidas, luego menor id.
func RankProductsByRevenue(sales []*entity.Sale, n int) []ProductSales {
	byID := map[int64]*ProductSales{}
	for _, s := range sales {
		for _, it := range s.Items {
			ps, ok := byID[it.ProductID]
			if !ok {
				ps = &ProductSales{ProductID: it.ProductID, Title: it.ProductTitle, Revenue: decimal.Zero}
				byID[it.ProductID] = ps
			}
			ps.QuantitySold += it.QuantitySold
			ps.Revenue = ps.Revenue.Add(it.Subtotal())
		}
	}
	ranked := make([]ProductSales, 0, len(byID))
	for _, ps := range byID {
		ranked = append(ranked, *ps)
	}
	sort.Slice(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if !a.Revenue.Equal(b.Revenue) {
			return a.Revenue.GreaterThan(b.Revenue)
		}
		if a.QuantitySold != b.QuantitySold {
			return a.QuantitySold > b.QuantitySold
		}
		return a.ProductID < b.ProductID
	})
	if n > 0 && len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}
