package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Sale venta confirmada. Inmutable una vez creada.
type Sale struct {
	ID          int64
	TotalAmount decimal.Decimal
	CreatedAt   time.Time
	Items       []SaleItem
}

// SaleItem línea de venta. PricePerUnit y CostPerUnit son copias congeladas del producto al momento de la venta.
type SaleItem struct {
	ID           int64
	SaleID       int64
	ProductID    int64
	ProductTitle string // solo lectura, para mostrar
	QuantitySold int
	PricePerUnit decimal.Decimal
	CostPerUnit  decimal.Decimal
}

// Subtotal PricePerUnit * QuantitySold.
func (i SaleItem) Subtotal() decimal.Decimal {
	return i.PricePerUnit.Mul(decimal.NewFromInt(int64(i.QuantitySold)))
}

// CostTotal CostPerUnit * QuantitySold.
func (i SaleItem) CostTotal() decimal.Decimal {
	return i.CostPerUnit.Mul(decimal.NewFromInt(int64(i.QuantitySold)))
}

// ComputeTotal suma exacta de los subtotales de las líneas.
func (s *Sale) ComputeTotal() decimal.Decimal {
	total := decimal.Zero
	for _, it := range s.Items {
		total = total.Add(it.Subtotal())
	}
	return total
}
