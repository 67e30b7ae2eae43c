package entity

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// ProductStatus estado comercial del producto.
type ProductStatus string

const (
	ProductStatusAnnounced   ProductStatus = "announced"   // publicado, se puede vender
	ProductStatusSold        ProductStatus = "sold"        // vendido
	ProductStatusDeactivated ProductStatus = "deactivated" // retirado del catálogo
)

// Valid indica si el estado pertenece al conjunto cerrado.
func (s ProductStatus) Valid() bool {
	switch s {
	case ProductStatusAnnounced, ProductStatusSold, ProductStatusDeactivated:
		return true
	}
	return false
}

// Sellable solo los productos anunciados admiten nuevas ventas.
func (s ProductStatus) Sellable() bool {
	return s == ProductStatusAnnounced
}

// ParseProductStatus convierte el valor recibido en el borde (HTTP, BD) al enum.
func ParseProductStatus(s string) (ProductStatus, error) {
	st := ProductStatus(s)
	if !st.Valid() {
		return "", fmt.Errorf("estado de producto desconocido: %q", s)
	}
	return st, nil
}

// Product producto del catálogo.
// Quantity es un valor derivado: la suma de sus StockMovement. Solo el libro de movimientos lo escribe.
type Product struct {
	ID            int64
	Title         string
	Description   string
	Category      string
	Status        ProductStatus
	PurchasePrice decimal.Decimal // costo
	SalePrice     decimal.Decimal // precio de venta
	Quantity      int
	SupplierID    int64
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
