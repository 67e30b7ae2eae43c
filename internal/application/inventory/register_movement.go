package inventory

import (
	"context"

	"github.com/jhoicas/fluxa-api/internal/application/dto"
	"github.com/jhoicas/fluxa-api/internal/domain"
	"github.com/jhoicas/fluxa-api/internal/domain/entity"
	"github.com/jhoicas/fluxa-api/internal/domain/repository"
)

// RegisterMovementUseCase entrada pública al libro: compras y ajustes manuales.
// Las salidas por venta y el ajuste inicial los emiten la venta y el alta de producto.
type RegisterMovementUseCase struct {
	uow         repository.UnitOfWork
	ledger      Ledger
	productRepo repository.ProductRepository
	movRepo     repository.StockMovementRepository
}

// NewRegisterMovementUseCase construye el caso de uso.
func NewRegisterMovementUseCase(
	uow repository.UnitOfWork,
	ledger Ledger,
	productRepo repository.ProductRepository,
	movRepo repository.StockMovementRepository,
) *RegisterMovementUseCase {
	return &RegisterMovementUseCase{
		uow:         uow,
		ledger:      ledger,
		productRepo: productRepo,
		movRepo:     movRepo,
	}
}

// RegisterMovement valida el tipo y registra el movimiento en su propia unidad de trabajo.
// Una reversión de venta se modela como manual_adjustment positivo.
func (uc *RegisterMovementUseCase) RegisterMovement(ctx context.Context, in dto.RegisterMovementRequest) (*dto.RegisterMovementResponse, error) {
	movementType, err := entity.ParseMovementType(in.Type)
	if err != nil {
		return nil, domain.NewValidationError("type", err.Error())
	}
	if !movementType.ManualEntryAllowed() {
		return nil, domain.NewValidationError("type", "solo se admiten purchase y manual_adjustment")
	}
	if movementType == entity.MovementTypePurchase && in.Quantity < 0 {
		return nil, domain.NewValidationError("quantity", "una compra debe ser positiva")
	}

	var (
		mov   *entity.StockMovement
		stock int
	)
	err = uc.uow.Do(ctx, func(ctx context.Context, repos repository.TxRepositories) error {
		var err error
		mov, err = uc.ledger.AddMovement(ctx, repos, in.ProductID, in.Quantity, movementType)
		if err != nil {
			return err
		}
		p, err := repos.Products().GetByID(ctx, in.ProductID)
		if err != nil {
			return err
		}
		if p != nil {
			stock = p.Quantity
		}
		return nil
	})
	if err != nil {
		return nil, domain.WrapPersistence("registrar movimiento", err)
	}
	return &dto.RegisterMovementResponse{
		Movement:        ToMovementResponse(mov),
		ProductQuantity: stock,
	}, nil
}

// ListByProduct historial del producto, más reciente primero.
func (uc *RegisterMovementUseCase) ListByProduct(ctx context.Context, productID int64, page dto.PageRequest) (*dto.MovementListResponse, error) {
	page.DefaultPage()
	p, err := uc.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, domain.WrapPersistence("obtener producto", err)
	}
	if p == nil {
		return nil, &domain.NotFoundError{Resource: "producto", ID: productID}
	}
	list, err := uc.movRepo.ListByProduct(ctx, productID, page.Limit, page.Offset)
	if err != nil {
		return nil, domain.WrapPersistence("listar movimientos", err)
	}
	items := make([]dto.StockMovementResponse, 0, len(list))
	for _, m := range list {
		items = append(items, ToMovementResponse(m))
	}
	return &dto.MovementListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

// ToMovementResponse mapea la entidad al DTO.
func ToMovementResponse(m *entity.StockMovement) dto.StockMovementResponse {
	return dto.StockMovementResponse{
		ID:        m.ID,
		ProductID: m.ProductID,
		Quantity:  m.Quantity,
		Type:      string(m.Type),
		CreatedAt: m.CreatedAt,
	}
}
