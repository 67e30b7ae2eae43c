package entity

import "time"

// Supplier proveedor de productos.
type Supplier struct {
	ID          int64
	CompanyName string
	TaxID       string // identificación tributaria, única
	ContactName string
	Phone       string
	CreatedAt   time.Time
}
