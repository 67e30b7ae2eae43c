package inventory

import (
	"context"

	"github.com/jhoicas/fluxa-api/internal/domain/entity"
	"github.com/jhoicas/fluxa-api/internal/domain/repository"
)

// Ledger único camino de escritura del stock de un producto.
// Se ejecuta con los repositorios de la unidad de trabajo de quien llama: si la
// transacción se revierte, el movimiento y el recálculo se revierten con ella.
type Ledger interface {
	AddMovement(
		ctx context.Context,
		repos repository.TxRepositories,
		productID int64,
		quantity int,
		movementType entity.MovementType,
	) (*entity.StockMovement, error)
}
