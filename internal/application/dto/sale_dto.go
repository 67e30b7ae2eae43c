package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// SaleLineRequest una línea del carrito.
type SaleLineRequest struct {
	ProductID int64 `json:"productId"`
	Quantity  int   `json:"quantity"`
}

// CreateSaleRequest body para POST /api/sales. El total lo calcula el servidor.
type CreateSaleRequest struct {
	Items []SaleLineRequest `json:"items"`
}

// SaleProductRef producto referenciado por una línea, solo para mostrar.
type SaleProductRef struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
}

// SaleItemResponse línea de venta con precios congelados.
type SaleItemResponse struct {
	ID           int64           `json:"id"`
	ProductID    int64           `json:"productId"`
	Product      SaleProductRef  `json:"product"`
	QuantitySold int             `json:"quantitySold"`
	PricePerUnit decimal.Decimal `json:"pricePerUnit"`
	CostPerUnit  decimal.Decimal `json:"costPerUnit"`
	Subtotal     decimal.Decimal `json:"subtotal"`
}

// SaleResponse venta confirmada.
type SaleResponse struct {
	ID          int64              `json:"id"`
	TotalAmount decimal.Decimal    `json:"totalAmount"`
	CreatedAt   time.Time          `json:"createdAt"`
	Items       []SaleItemResponse `json:"items"`
}

// SaleListResponse todas las ventas, más recientes primero.
type SaleListResponse struct {
	Items []SaleResponse `json:"items"`
}
