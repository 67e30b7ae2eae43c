package repository

import "context"

// TxRepositories repositorios atados a una misma transacción.
type TxRepositories interface {
	Products() ProductRepository
	Suppliers() SupplierRepository
	StockMovements() StockMovementRepository
	Sales() SaleRepository
}

// UnitOfWork ejecuta fn de forma atómica: si fn devuelve nil se confirma,
// si devuelve error o el contexto se cancela se revierte todo.
type UnitOfWork interface {
	Do(ctx context.Context, fn func(ctx context.Context, repos TxRepositories) error) error
}
