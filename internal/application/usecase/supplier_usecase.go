package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/jhoicas/fluxa-api/internal/application/dto"
	"github.com/jhoicas/fluxa-api/internal/domain"
	"github.com/jhoicas/fluxa-api/internal/domain/entity"
	"github.com/jhoicas/fluxa-api/internal/domain/repository"
)

// SupplierUseCase casos de uso CRUD para proveedores.
type SupplierUseCase struct {
	repo repository.SupplierRepository
}

// NewSupplierUseCase construye el caso de uso.
func NewSupplierUseCase(repo repository.SupplierRepository) *SupplierUseCase {
	return &SupplierUseCase{repo: repo}
}

// Create crea un proveedor. TaxID duplicado devuelve domain.ErrDuplicate.
func (uc *SupplierUseCase) Create(ctx context.Context, in dto.CreateSupplierRequest) (*dto.SupplierResponse, error) {
	supplier := &entity.Supplier{
		CompanyName: strings.TrimSpace(in.CompanyName),
		TaxID:       strings.TrimSpace(in.TaxID),
		ContactName: strings.TrimSpace(in.ContactName),
		Phone:       strings.TrimSpace(in.Phone),
		CreatedAt:   time.Now().UTC(),
	}
	if err := validateSupplier(supplier); err != nil {
		return nil, err
	}
	if err := uc.repo.Create(ctx, supplier); err != nil {
		return nil, domain.WrapPersistence("crear proveedor", err)
	}
	return toSupplierResponse(supplier), nil
}

// GetByID obtiene un proveedor por ID.
func (uc *SupplierUseCase) GetByID(ctx context.Context, id int64) (*dto.SupplierResponse, error) {
	supplier, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, domain.WrapPersistence("obtener proveedor", err)
	}
	if supplier == nil {
		return nil, &domain.NotFoundError{Resource: "proveedor", ID: id}
	}
	return toSupplierResponse(supplier), nil
}

// Update actualiza los campos presentes de un proveedor.
func (uc *SupplierUseCase) Update(ctx context.Context, id int64, in dto.UpdateSupplierRequest) (*dto.SupplierResponse, error) {
	supplier, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, domain.WrapPersistence("obtener proveedor", err)
	}
	if supplier == nil {
		return nil, &domain.NotFoundError{Resource: "proveedor", ID: id}
	}
	if in.CompanyName != nil {
		supplier.CompanyName = strings.TrimSpace(*in.CompanyName)
	}
	if in.TaxID != nil {
		supplier.TaxID = strings.TrimSpace(*in.TaxID)
	}
	if in.ContactName != nil {
		supplier.ContactName = strings.TrimSpace(*in.ContactName)
	}
	if in.Phone != nil {
		supplier.Phone = strings.TrimSpace(*in.Phone)
	}
	if err := validateSupplier(supplier); err != nil {
		return nil, err
	}
	if err := uc.repo.Update(ctx, supplier); err != nil {
		return nil, domain.WrapPersistence("actualizar proveedor", err)
	}
	return toSupplierResponse(supplier), nil
}

// List lista proveedores con paginación.
func (uc *SupplierUseCase) List(ctx context.Context, page dto.PageRequest) (*dto.SupplierListResponse, error) {
	page.DefaultPage()
	list, err := uc.repo.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, domain.WrapPersistence("listar proveedores", err)
	}
	items := make([]dto.SupplierResponse, 0, len(list))
	for _, s := range list {
		items = append(items, *toSupplierResponse(s))
	}
	return &dto.SupplierListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

// Delete elimina un proveedor sin productos asociados.
func (uc *SupplierUseCase) Delete(ctx context.Context, id int64) error {
	return domain.WrapPersistence("eliminar proveedor", uc.repo.Delete(ctx, id))
}

func validateSupplier(s *entity.Supplier) error {
	switch {
	case s.CompanyName == "":
		return domain.NewValidationError("companyName", "es obligatorio")
	case len(s.CompanyName) > 255:
		return domain.NewValidationError("companyName", "máximo 255 caracteres")
	case s.TaxID == "":
		return domain.NewValidationError("taxId", "es obligatorio")
	case len(s.TaxID) > 20:
		return domain.NewValidationError("taxId", "máximo 20 caracteres")
	case len(s.Phone) > 20:
		return domain.NewValidationError("phone", "máximo 20 caracteres")
	}
	return nil
}

func toSupplierResponse(s *entity.Supplier) *dto.SupplierResponse {
	return &dto.SupplierResponse{
		ID:          s.ID,
		CompanyName: s.CompanyName,
		TaxID:       s.TaxID,
		ContactName: s.ContactName,
		Phone:       s.Phone,
		CreatedAt:   s.CreatedAt,
	}
}
