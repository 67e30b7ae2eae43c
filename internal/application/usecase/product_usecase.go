package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/jhoicas/fluxa-api/internal/application/dto"
	appinventory "github.com/jhoicas/fluxa-api/internal/application/inventory"
	"github.com/jhoicas/fluxa-api/internal/domain"
	"github.com/jhoicas/fluxa-api/internal/domain/entity"
	"github.com/jhoicas/fluxa-api/internal/domain/repository"
)

// ProductUseCase casos de uso CRUD para productos. Quantity se maneja vía movimientos.
type ProductUseCase struct {
	uow    repository.UnitOfWork
	ledger appinventory.Ledger
	repo   repository.ProductRepository
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(uow repository.UnitOfWork, ledger appinventory.Ledger, repo repository.ProductRepository) *ProductUseCase {
	return &ProductUseCase{uow: uow, ledger: ledger, repo: repo}
}

// Create da de alta el producto con stock 0 y, si la cantidad inicial no es cero,
// registra un initial_adjustment en la misma transacción.
func (uc *ProductUseCase) Create(ctx context.Context, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	status := entity.ProductStatusAnnounced
	if in.Status != "" {
		st, err := entity.ParseProductStatus(in.Status)
		if err != nil {
			return nil, domain.NewValidationError("status", err.Error())
		}
		status = st
	}
	if in.Quantity < 0 {
		return nil, domain.NewValidationError("quantity", "no puede ser negativa")
	}
	now := time.Now().UTC()
	product := &entity.Product{
		Title:         strings.TrimSpace(in.Title),
		Description:   in.Description,
		Category:      strings.TrimSpace(in.Category),
		Status:        status,
		PurchasePrice: in.PurchasePrice,
		SalePrice:     in.SalePrice,
		SupplierID:    in.SupplierID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := validateProduct(product); err != nil {
		return nil, err
	}

	err := uc.uow.Do(ctx, func(ctx context.Context, repos repository.TxRepositories) error {
		sup, err := repos.Suppliers().GetByID(ctx, product.SupplierID)
		if err != nil {
			return err
		}
		if sup == nil {
			return &domain.NotFoundError{Resource: "proveedor", ID: product.SupplierID}
		}
		if err := repos.Products().Create(ctx, product); err != nil {
			return err
		}
		if in.Quantity == 0 {
			return nil
		}
		if _, err := uc.ledger.AddMovement(ctx, repos, product.ID, in.Quantity, entity.MovementTypeInitialAdjustment); err != nil {
			return err
		}
		product.Quantity = in.Quantity
		return nil
	})
	if err != nil {
		return nil, domain.WrapPersistence("crear producto", err)
	}
	return toProductResponse(product), nil
}

// GetByID obtiene un producto por ID.
func (uc *ProductUseCase) GetByID(ctx context.Context, id int64) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, domain.WrapPersistence("obtener producto", err)
	}
	if product == nil {
		return nil, &domain.NotFoundError{Resource: "producto", ID: id}
	}
	return toProductResponse(product), nil
}

// Update aplica solo los campos presentes. No permite modificar Quantity.
func (uc *ProductUseCase) Update(ctx context.Context, id int64, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	var product *entity.Product
	err := uc.uow.Do(ctx, func(ctx context.Context, repos repository.TxRepositories) error {
		var err error
		product, err = repos.Products().GetByID(ctx, id)
		if err != nil {
			return err
		}
		if product == nil {
			return &domain.NotFoundError{Resource: "producto", ID: id}
		}
		if in.Title != nil {
			product.Title = strings.TrimSpace(*in.Title)
		}
		if in.Description != nil {
			product.Description = *in.Description
		}
		if in.Category != nil {
			product.Category = strings.TrimSpace(*in.Category)
		}
		if in.Status != nil {
			st, err := entity.ParseProductStatus(*in.Status)
			if err != nil {
				return domain.NewValidationError("status", err.Error())
			}
			product.Status = st
		}
		if in.PurchasePrice != nil {
			product.PurchasePrice = *in.PurchasePrice
		}
		if in.SalePrice != nil {
			product.SalePrice = *in.SalePrice
		}
		if in.SupplierID != nil && *in.SupplierID != product.SupplierID {
			sup, err := repos.Suppliers().GetByID(ctx, *in.SupplierID)
			if err != nil {
				return err
			}
			if sup == nil {
				return &domain.NotFoundError{Resource: "proveedor", ID: *in.SupplierID}
			}
			product.SupplierID = *in.SupplierID
		}
		if err := validateProduct(product); err != nil {
			return err
		}
		product.UpdatedAt = time.Now().UTC()
		return repos.Products().Update(ctx, product)
	})
	if err != nil {
		return nil, domain.WrapPersistence("actualizar producto", err)
	}
	return toProductResponse(product), nil
}

// List lista productos con paginación y filtro opcional por estado.
func (uc *ProductUseCase) List(ctx context.Context, in dto.ProductListRequest) (*dto.ProductListResponse, error) {
	in.DefaultPage()
	filter := repository.ProductFilter{Limit: in.Limit, Offset: in.Offset}
	if in.Status != "" {
		st, err := entity.ParseProductStatus(in.Status)
		if err != nil {
			return nil, domain.NewValidationError("status", err.Error())
		}
		filter.Status = &st
	}
	list, err := uc.repo.List(ctx, filter)
	if err != nil {
		return nil, domain.WrapPersistence("listar productos", err)
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toProductResponse(p))
	}
	return &dto.ProductListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: in.Limit, Offset: in.Offset},
	}, nil
}

// Delete elimina un producto y, en cascada, sus movimientos.
// Con historial de ventas devuelve domain.ErrConflict.
func (uc *ProductUseCase) Delete(ctx context.Context, id int64) error {
	return domain.WrapPersistence("eliminar producto", uc.repo.Delete(ctx, id))
}

func validateProduct(p *entity.Product) error {
	switch {
	case p.Title == "":
		return domain.NewValidationError("title", "es obligatorio")
	case len(p.Title) > 255:
		return domain.NewValidationError("title", "máximo 255 caracteres")
	case p.Category == "":
		return domain.NewValidationError("category", "es obligatoria")
	case p.PurchasePrice.IsNegative():
		return domain.NewValidationError("purchasePrice", "no puede ser negativo")
	case p.SalePrice.IsNegative():
		return domain.NewValidationError("salePrice", "no puede ser negativo")
	case !p.PurchasePrice.Equal(p.PurchasePrice.Round(2)):
		return domain.NewValidationError("purchasePrice", "máximo 2 decimales")
	case !p.SalePrice.Equal(p.SalePrice.Round(2)):
		return domain.NewValidationError("salePrice", "máximo 2 decimales")
	case p.SupplierID <= 0:
		return domain.NewValidationError("supplierId", "debe ser un entero positivo")
	}
	return nil
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	return &dto.ProductResponse{
		ID:            p.ID,
		Title:         p.Title,
		Description:   p.Description,
		Category:      p.Category,
		Status:        string(p.Status),
		PurchasePrice: p.PurchasePrice,
		SalePrice:     p.SalePrice,
		Quantity:      p.Quantity,
		SupplierID:    p.SupplierID,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}
