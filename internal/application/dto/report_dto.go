package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockFinancialReportDTO respuesta de GET /api/reports/stock-financial/:year/:month/summary
// y fuente de datos del PDF.
type StockFinancialReportDTO struct {
	Year        int       `json:"year"`
	Month       int       `json:"month"`
	DateLabel   string    `json:"dateLabel"` // ej: "Febrero 2026"
	PeriodStart time.Time `json:"periodStart"`
	PeriodEnd   time.Time `json:"periodEnd"` // exclusivo
	GeneratedAt time.Time `json:"generatedAt"`

	Sales SalesSummaryDTO `json:"sales"`
	Stock StockSummaryDTO `json:"stock"`

	// Top 5 productos por ingreso del mes (de mayor a menor)
	TopProducts []TopProductDTO `json:"topProducts"`
	// Ventas del mes en orden cronológico
	SalesDetail []SaleResponse `json:"salesDetail"`
}

// SalesSummaryDTO resultado de las ventas del período.
type SalesSummaryDTO struct {
	TotalRevenue     decimal.Decimal `json:"totalRevenue"`
	TotalCostOfGoods decimal.Decimal `json:"totalCostOfGoods"`
	GrossProfit      decimal.Decimal `json:"grossProfit"`
	GrossMarginPct   decimal.Decimal `json:"grossMarginPct"` // (revenue - cogs) / revenue * 100
	SalesCount       int             `json:"salesCount"`
}

// StockSummaryDTO foto actual del stock de los productos anunciados.
type StockSummaryDTO struct {
	TotalCostValue    decimal.Decimal   `json:"totalCostValue"`
	ActiveProducts    int               `json:"activeProducts"`
	LowStockCount     int               `json:"lowStockCount"`
	OutOfStockCount   int               `json:"outOfStockCount"`
	LowStockThreshold int               `json:"lowStockThreshold"`
	LowStock          []LowStockItemDTO `json:"lowStock"`
}

// LowStockItemDTO producto con stock bajo.
type LowStockItemDTO struct {
	ProductID int64  `json:"productId"`
	Title     string `json:"title"`
	Quantity  int    `json:"quantity"`
}

// TopProductDTO resumen de un producto vendido en el período.
type TopProductDTO struct {
	ProductID    int64           `json:"productId"`
	Title        string          `json:"title"`
	QuantitySold int             `json:"quantitySold"`
	TotalRevenue decimal.Decimal `json:"totalRevenue"`
}
