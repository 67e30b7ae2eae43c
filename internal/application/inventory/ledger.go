package inventory

import (
	"context"
	"time"

	"github.com/jhoicas/fluxa-api/internal/domain"
	"github.com/jhoicas/fluxa-api/internal/domain/entity"
	"github.com/jhoicas/fluxa-api/internal/domain/repository"
	"github.com/jhoicas/fluxa-api/pkg/logger"
	"github.com/jhoicas/fluxa-api/pkg/metrics"
)

var _ Ledger = (*StockLedger)(nil)

// StockLedger registra movimientos y recalcula el stock cacheado del producto
// como la suma de todos sus movimientos.
type StockLedger struct {
	metrics *metrics.Metrics
	log     *logger.Logger
	now     func() time.Time
}

// NewStockLedger construye el libro de movimientos. m puede ser nil.
func NewStockLedger(m *metrics.Metrics, log *logger.Logger) *StockLedger {
	if log == nil {
		log = logger.Nop()
	}
	return &StockLedger{metrics: m, log: log.Component("stock_ledger"), now: time.Now}
}

// AddMovement bloquea la fila del producto (SELECT FOR UPDATE), inserta el movimiento,
// recalcula Σ quantity y lo escribe en products.quantity.
// Falla con NotFoundError si el producto no existe; cualquier error deja la transacción para rollback.
func (l *StockLedger) AddMovement(
	ctx context.Context,
	repos repository.TxRepositories,
	productID int64,
	quantity int,
	movementType entity.MovementType,
) (*entity.StockMovement, error) {
	if productID <= 0 {
		return nil, domain.NewValidationError("productId", "debe ser un entero positivo")
	}
	if quantity == 0 {
		return nil, domain.NewValidationError("quantity", "no puede ser cero")
	}
	if !movementType.Valid() {
		return nil, domain.NewValidationError("type", "tipo de movimiento desconocido")
	}

	// La existencia se comprueba dentro de la misma transacción que recalcula.
	locked, err := repos.Products().GetByIDsForUpdate(ctx, []int64{productID})
	if err != nil {
		return nil, domain.WrapPersistence("bloquear producto", err)
	}
	if len(locked) == 0 {
		return nil, &domain.NotFoundError{Resource: "producto", ID: productID}
	}

	mov := &entity.StockMovement{
		ProductID: productID,
		Quantity:  quantity,
		Type:      movementType,
		CreatedAt: l.now().UTC(),
	}
	if err := repos.StockMovements().Create(ctx, mov); err != nil {
		return nil, domain.WrapPersistence("registrar movimiento", err)
	}

	total, err := repos.StockMovements().SumByProduct(ctx, productID)
	if err != nil {
		return nil, domain.WrapPersistence("sumar movimientos", err)
	}
	ok, err := repos.Products().UpdateQuantity(ctx, productID, total)
	if err != nil {
		return nil, domain.WrapPersistence("actualizar stock", err)
	}
	if !ok {
		return nil, &domain.NotFoundError{Resource: "producto", ID: productID}
	}

	l.metrics.MovementRecorded(string(movementType))
	l.log.Debug().
		Int64("product_id", productID).
		Int("quantity", quantity).
		Str("type", string(movementType)).
		Int("stock", total).
		Msg("movimiento registrado")
	return mov, nil
}
