package repository

import (
	"context"

	"github.com/jhoicas/fluxa-api/internal/domain/entity"
)

// ProductFilter criterios de listado de productos.
type ProductFilter struct {
	Status *entity.ProductStatus
	Limit  int
	Offset int
}

// ProductRepository define el puerto de persistencia para Product (DIP).
// Los métodos de lectura devuelven (nil, nil) cuando el producto no existe.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id int64) (*entity.Product, error)
	// GetByIDsForUpdate bloquea las filas hasta el fin de la transacción, en orden ascendente de id.
	GetByIDsForUpdate(ctx context.Context, ids []int64) ([]*entity.Product, error)
	List(ctx context.Context, filter ProductFilter) ([]*entity.Product, error)
	// Update no modifica Quantity.
	Update(ctx context.Context, product *entity.Product) error
	// UpdateQuantity uso exclusivo del libro de movimientos. Devuelve false si el producto no existe.
	UpdateQuantity(ctx context.Context, id int64, quantity int) (bool, error)
	// Delete devuelve domain.ErrConflict si el producto tiene ventas.
	Delete(ctx context.Context, id int64) error
}
