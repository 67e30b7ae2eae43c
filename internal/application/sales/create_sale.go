// Package sales convierte un carrito en una venta confirmada de forma atómica.
package sales

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jhoicas/fluxa-api/internal/application/dto"
	appinventory "github.com/jhoicas/fluxa-api/internal/application/inventory"
	"github.com/jhoicas/fluxa-api/internal/domain"
	"github.com/jhoicas/fluxa-api/internal/domain/entity"
	"github.com/jhoicas/fluxa-api/internal/domain/inventory"
	"github.com/jhoicas/fluxa-api/internal/domain/repository"
	"github.com/jhoicas/fluxa-api/pkg/logger"
	"github.com/jhoicas/fluxa-api/pkg/metrics"
)

// CreateSaleUseCase procesa ventas: valida el carrito, bloquea los productos, congela precios,
// persiste venta y líneas y descuenta el stock vía el libro de movimientos, todo en una unidad de trabajo.
type CreateSaleUseCase struct {
	uow     repository.UnitOfWork
	ledger  appinventory.Ledger
	metrics *metrics.Metrics
	log     *logger.Logger
	now     func() time.Time
}

// NewCreateSaleUseCase construye el caso de uso. m puede ser nil.
func NewCreateSaleUseCase(uow repository.UnitOfWork, ledger appinventory.Ledger, m *metrics.Metrics, log *logger.Logger) *CreateSaleUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &CreateSaleUseCase{
		uow:     uow,
		ledger:  ledger,
		metrics: m,
		log:     log.Component("sales"),
		now:     time.Now,
	}
}

// CreateSale ejecuta la venta. Cualquier error revierte la transacción completa:
// no quedan filas de venta, líneas ni movimientos.
func (uc *CreateSaleUseCase) CreateSale(ctx context.Context, in dto.CreateSaleRequest) (*dto.SaleResponse, error) {
	start := time.Now()
	if err := validateCart(in); err != nil {
		uc.reject(err)
		return nil, err
	}

	var sale *entity.Sale
	err := uc.uow.Do(ctx, func(ctx context.Context, repos repository.TxRepositories) error {
		var err error
		sale, err = uc.process(ctx, repos, in.Items)
		return err
	})
	if err != nil {
		err = domain.WrapPersistence("crear venta", err)
		uc.reject(err)
		return nil, err
	}

	uc.metrics.SaleCreated(sale.TotalAmount, time.Since(start))
	uc.log.Info().
		Int64("sale_id", sale.ID).
		Str("total", sale.TotalAmount.StringFixed(2)).
		Int("lines", len(sale.Items)).
		Msg("venta confirmada")
	resp := ToSaleResponse(sale)
	return &resp, nil
}

func (uc *CreateSaleUseCase) process(ctx context.Context, repos repository.TxRepositories, lines []dto.SaleLineRequest) (*entity.Sale, error) {
	// 1. Carga en lote de los productos distintos, con bloqueo de fila en orden de id.
	ids := distinctIDs(lines)
	locked, err := repos.Products().GetByIDsForUpdate(ctx, ids)
	if err != nil {
		return nil, domain.WrapPersistence("bloquear productos", err)
	}
	byID := make(map[int64]*entity.Product, len(locked))
	stock := make(map[int64]int, len(locked))
	for _, p := range locked {
		byID[p.ID] = p
		stock[p.ID] = p.Quantity
	}
	for _, id := range ids {
		if _, ok := byID[id]; !ok {
			return nil, &domain.NotFoundError{Resource: "producto", ID: id}
		}
	}

	// 2. Validación por línea en el orden recibido, contra el saldo restante.
	// 3. Precios congelados y total exacto.
	alloc := inventory.NewStockAllocator(stock)
	sale := &entity.Sale{
		CreatedAt: uc.now().UTC(),
		Items:     make([]entity.SaleItem, 0, len(lines)),
	}
	for _, line := range lines {
		p := byID[line.ProductID]
		if !p.Status.Sellable() {
			return nil, &domain.ProductUnavailableError{ProductID: p.ID, Title: p.Title, Status: string(p.Status)}
		}
		if available, ok := alloc.Allocate(p.ID, line.Quantity); !ok {
			return nil, &domain.InsufficientStockError{
				ProductID: p.ID,
				Title:     p.Title,
				Available: available,
				Requested: line.Quantity,
			}
		}
		sale.Items = append(sale.Items, entity.SaleItem{
			ProductID:    p.ID,
			ProductTitle: p.Title,
			QuantitySold: line.Quantity,
			PricePerUnit: p.SalePrice,
			CostPerUnit:  p.PurchasePrice,
		})
	}
	sale.TotalAmount = sale.ComputeTotal()

	// 4. Venta y líneas.
	if err := repos.Sales().Create(ctx, sale); err != nil {
		return nil, domain.WrapPersistence("guardar venta", err)
	}

	// 5. Un movimiento de salida por línea; es lo que realmente descuenta el stock.
	for _, it := range sale.Items {
		if _, err := uc.ledger.AddMovement(ctx, repos, it.ProductID, -it.QuantitySold, entity.MovementTypeSale); err != nil {
			return nil, err
		}
	}
	return sale, nil
}

func (uc *CreateSaleUseCase) reject(err error) {
	reason := rejectReason(err)
	uc.metrics.SaleRejected(reason)
	if reason == metrics.ReasonPersistence {
		uc.log.Error().Err(err).Msg("venta abortada por error de persistencia")
		return
	}
	uc.log.Debug().Err(err).Str("reason", reason).Msg("venta rechazada")
}

func rejectReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return metrics.ReasonValidation
	case errors.Is(err, domain.ErrNotFound):
		return metrics.ReasonNotFound
	case errors.Is(err, domain.ErrProductUnavailable):
		return metrics.ReasonUnavailable
	case errors.Is(err, domain.ErrInsufficientStock):
		return metrics.ReasonInsufficient
	default:
		return metrics.ReasonPersistence
	}
}

// validateCart: al menos una línea; ids y cantidades enteros positivos.
func validateCart(in dto.CreateSaleRequest) error {
	if len(in.Items) == 0 {
		return domain.NewValidationError("items", "la venta debe tener al menos una línea")
	}
	for i, line := range in.Items {
		if line.ProductID <= 0 {
			return domain.NewValidationError(fmt.Sprintf("items[%d].productId", i), "debe ser un entero positivo")
		}
		if line.Quantity <= 0 {
			return domain.NewValidationError(fmt.Sprintf("items[%d].quantity", i), "debe ser un entero positivo")
		}
	}
	return nil
}

// distinctIDs ids en el orden de primera aparición.
func distinctIDs(lines []dto.SaleLineRequest) []int64 {
	seen := make(map[int64]struct{}, len(lines))
	ids := make([]int64, 0, len(lines))
	for _, l := range lines {
		if _, ok := seen[l.ProductID]; ok {
			continue
		}
		seen[l.ProductID] = struct{}{}
		ids = append(ids, l.ProductID)
	}
	return ids
}

// ToSaleResponse mapea la venta con sus líneas al DTO.
func ToSaleResponse(s *entity.Sale) dto.SaleResponse {
	items := make([]dto.SaleItemResponse, 0, len(s.Items))
	for _, it := range s.Items {
		items = append(items, dto.SaleItemResponse{
			ID:           it.ID,
			ProductID:    it.ProductID,
			Product:      dto.SaleProductRef{ID: it.ProductID, Title: it.ProductTitle},
			QuantitySold: it.QuantitySold,
			PricePerUnit: it.PricePerUnit,
			CostPerUnit:  it.CostPerUnit,
			Subtotal:     it.Subtotal(),
		})
	}
	return dto.SaleResponse{
		ID:          s.ID,
		TotalAmount: s.TotalAmount,
		CreatedAt:   s.CreatedAt,
		Items:       items,
	}
}
