package repository

import (
	"context"
	"time"

	"github.com/jhoicas/fluxa-api/internal/domain/entity"
)

// SaleRepository define el puerto de persistencia para Sale y sus líneas.
// Las lecturas incluyen las líneas con el título del producto.
type SaleRepository interface {
	// Create persiste la venta y todas sus líneas, asignando los ids.
	Create(ctx context.Context, sale *entity.Sale) error
	GetByID(ctx context.Context, id int64) (*entity.Sale, error)
	List(ctx context.Context) ([]*entity.Sale, error)
	// ListByPeriod ventas con CreatedAt en [from, to), en orden cronológico.
	ListByPeriod(ctx context.Context, from, to time.Time) ([]*entity.Sale, error)
}
