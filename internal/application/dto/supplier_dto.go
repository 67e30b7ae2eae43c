package dto

import "time"

// CreateSupplierRequest entrada para crear un proveedor.
type CreateSupplierRequest struct {
	CompanyName string `json:"companyName"`
	TaxID       string `json:"taxId"`
	ContactName string `json:"contactName"`
	Phone       string `json:"phone"`
}

// UpdateSupplierRequest campos modificables de un proveedor.
type UpdateSupplierRequest struct {
	CompanyName *string `json:"companyName"`
	TaxID       *string `json:"taxId"`
	ContactName *string `json:"contactName"`
	Phone       *string `json:"phone"`
}

// SupplierResponse salida de un proveedor.
type SupplierResponse struct {
	ID          int64     `json:"id"`
	CompanyName string    `json:"companyName"`
	TaxID       string    `json:"taxId"`
	ContactName string    `json:"contactName"`
	Phone       string    `json:"phone"`
	CreatedAt   time.Time `json:"createdAt"`
}

// SupplierListResponse lista paginada de proveedores.
type SupplierListResponse struct {
	Items []SupplierResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}
