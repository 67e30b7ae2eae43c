package dto

import "time"

// RegisterMovementRequest body para POST /api/inventory/movements.
// Type admite purchase o manual_adjustment; Quantity con signo (negativo = salida).
type RegisterMovementRequest struct {
	ProductID int64  `json:"productId"`
	Quantity  int    `json:"quantity"`
	Type      string `json:"type"`
}

// StockMovementResponse un asiento del libro de movimientos.
type StockMovementResponse struct {
	ID        int64     `json:"id"`
	ProductID int64     `json:"productId"`
	Quantity  int       `json:"quantity"`
	Type      string    `json:"type"`
	CreatedAt time.Time `json:"createdAt"`
}

// RegisterMovementResponse movimiento registrado y stock resultante del producto.
type RegisterMovementResponse struct {
	Movement        StockMovementResponse `json:"movement"`
	ProductQuantity int                   `json:"productQuantity"`
}

// MovementListResponse historial paginado de movimientos de un producto.
type MovementListResponse struct {
	Items []StockMovementResponse `json:"items"`
	Page  PageResponse            `json:"page"`
}
