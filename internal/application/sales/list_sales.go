package sales

import (
	"context"

	"github.com/jhoicas/fluxa-api/internal/application/dto"
	"github.com/jhoicas/fluxa-api/internal/domain"
	"github.com/jhoicas/fluxa-api/internal/domain/repository"
)

// ListSalesUseCase consulta de ventas con sus líneas y el producto referenciado.
type ListSalesUseCase struct {
	repo repository.SaleRepository
}

// NewListSalesUseCase construye el caso de uso.
func NewListSalesUseCase(repo repository.SaleRepository) *ListSalesUseCase {
	return &ListSalesUseCase{repo: repo}
}

// List todas las ventas, más recientes primero. Sin filtros ni paginación.
func (uc *ListSalesUseCase) List(ctx context.Context) (*dto.SaleListResponse, error) {
	list, err := uc.repo.List(ctx)
	if err != nil {
		return nil, domain.WrapPersistence("listar ventas", err)
	}
	items := make([]dto.SaleResponse, 0, len(list))
	for _, s := range list {
		items = append(items, ToSaleResponse(s))
	}
	return &dto.SaleListResponse{Items: items}, nil
}

// GetByID una venta; NotFoundError si no existe.
func (uc *ListSalesUseCase) GetByID(ctx context.Context, id int64) (*dto.SaleResponse, error) {
	s, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, domain.WrapPersistence("obtener venta", err)
	}
	if s == nil {
		return nil, &domain.NotFoundError{Resource: "venta", ID: id}
	}
	resp := ToSaleResponse(s)
	return &resp, nil
}
