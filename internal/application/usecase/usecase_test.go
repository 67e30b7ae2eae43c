package usecase_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/fluxa-api/internal/application/dto"
	appinventory "github.com/jhoicas/fluxa-api/internal/application/inventory"
	"github.com/jhoicas/fluxa-api/internal/application/sales"
	"github.com/jhoicas/fluxa-api/internal/application/usecase"
	"github.com/jhoicas/fluxa-api/internal/domain"
	"github.com/jhoicas/fluxa-api/internal/domain/entity"
	"github.com/jhoicas/fluxa-api/internal/domain/repository"
	"github.com/jhoicas/fluxa-api/internal/infrastructure/memstore"
	"github.com/jhoicas/fluxa-api/pkg/logger"
)

type catalog struct {
	store     *memstore.Store
	ledger    *appinventory.StockLedger
	products  *usecase.ProductUseCase
	suppliers *usecase.SupplierUseCase
}

func newCatalog() *catalog {
	st := memstore.New()
	ledger := appinventory.NewStockLedger(nil, logger.Nop())
	return &catalog{
		store:     st,
		ledger:    ledger,
		products:  usecase.NewProductUseCase(st, ledger, st.Products()),
		suppliers: usecase.NewSupplierUseCase(st.Suppliers()),
	}
}

func (c *catalog) supplier(t *testing.T, taxID string) *dto.SupplierResponse {
	t.Helper()
	s, err := c.suppliers.Create(context.Background(), dto.CreateSupplierRequest{
		CompanyName: "Distribuidora " + taxID, TaxID: taxID, ContactName: "Ana", Phone: "3001234567",
	})
	require.NoError(t, err)
	return s
}

func productReq(supplierID int64, qty int) dto.CreateProductRequest {
	return dto.CreateProductRequest{
		Title:         "Silla Nórdica",
		Description:   "Roble",
		Category:      "Muebles",
		PurchasePrice: decimal.RequireFromString("45.50"),
		SalePrice:     decimal.RequireFromString("89.90"),
		Quantity:      qty,
		SupplierID:    supplierID,
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// ProductUseCase
// ──────────────────────────────────────────────────────────────────────────────

func TestProductCreate_EmiteAjusteInicial(t *testing.T) {
	c := newCatalog()
	sup := c.supplier(t, "900111")
	ctx := context.Background()

	p, err := c.products.Create(ctx, productReq(sup.ID, 12))
	require.NoError(t, err)
	assert.Equal(t, 12, p.Quantity)
	assert.Equal(t, "announced", p.Status)

	movs, err := c.store.StockMovements().ListByProduct(ctx, p.ID, 0, 0)
	require.NoError(t, err)
	require.Len(t, movs, 1)
	assert.Equal(t, 12, movs[0].Quantity)
	assert.Equal(t, entity.MovementTypeInitialAdjustment, movs[0].Type)

	stored, err := c.products.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 12, stored.Quantity)
}

func TestProductCreate_SinStockInicialNoEmiteMovimiento(t *testing.T) {
	c := newCatalog()
	sup := c.supplier(t, "900111")
	ctx := context.Background()

	p, err := c.products.Create(ctx, productReq(sup.ID, 0))
	require.NoError(t, err)
	movs, err := c.store.StockMovements().ListByProduct(ctx, p.ID, 0, 0)
	require.NoError(t, err)
	assert.Empty(t, movs)
	assert.Equal(t, 0, p.Quantity)
}

func TestProductCreate_ProveedorInexistente(t *testing.T) {
	c := newCatalog()
	_, err := c.products.Create(context.Background(), productReq(42, 5))

	var nf *domain.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "proveedor", nf.Resource)

	list, err := c.store.Products().List(context.Background(), repository.ProductFilter{})
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestProductCreate_Validaciones(t *testing.T) {
	c := newCatalog()
	sup := c.supplier(t, "900111")

	mutate := map[string]func(r *dto.CreateProductRequest){
		"sin título":          func(r *dto.CreateProductRequest) { r.Title = "  " },
		"sin categoría":       func(r *dto.CreateProductRequest) { r.Category = "" },
		"costo negativo":      func(r *dto.CreateProductRequest) { r.PurchasePrice = decimal.NewFromInt(-1) },
		"precio negativo":     func(r *dto.CreateProductRequest) { r.SalePrice = decimal.NewFromInt(-1) },
		"tres decimales":      func(r *dto.CreateProductRequest) { r.SalePrice = decimal.RequireFromString("1.999") },
		"cantidad negativa":   func(r *dto.CreateProductRequest) { r.Quantity = -3 },
		"estado desconocido":  func(r *dto.CreateProductRequest) { r.Status = "archived" },
		"proveedor no válido": func(r *dto.CreateProductRequest) { r.SupplierID = 0 },
	}
	for name, fn := range mutate {
		t.Run(name, func(t *testing.T) {
			req := productReq(sup.ID, 1)
			fn(&req)
			_, err := c.products.Create(context.Background(), req)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestProductUpdate_CamposExplicitosYStockIntacto(t *testing.T) {
	c := newCatalog()
	sup := c.supplier(t, "900111")
	other := c.supplier(t, "900222")
	ctx := context.Background()
	p, err := c.products.Create(ctx, productReq(sup.ID, 7))
	require.NoError(t, err)

	title := "Silla Escandinava"
	status := "deactivated"
	price := decimal.RequireFromString("99.00")
	out, err := c.products.Update(ctx, p.ID, dto.UpdateProductRequest{
		Title: &title, Status: &status, SalePrice: &price, SupplierID: &other.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, title, out.Title)
	assert.Equal(t, "deactivated", out.Status)
	assert.True(t, out.SalePrice.Equal(price))
	assert.Equal(t, other.ID, out.SupplierID)
	assert.Equal(t, "Muebles", out.Category, "los campos ausentes no cambian")
	assert.Equal(t, 7, out.Quantity)
}

func TestProductUpdate_Errores(t *testing.T) {
	c := newCatalog()
	sup := c.supplier(t, "900111")
	ctx := context.Background()
	p, err := c.products.Create(ctx, productReq(sup.ID, 1))
	require.NoError(t, err)

	bad := "vendido"
	_, err = c.products.Update(ctx, p.ID, dto.UpdateProductRequest{Status: &bad})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	missing := int64(777)
	_, err = c.products.Update(ctx, p.ID, dto.UpdateProductRequest{SupplierID: &missing})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = c.products.Update(ctx, 555, dto.UpdateProductRequest{})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	got, err := c.products.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "announced", got.Status)
}

func TestProductList_FiltraPorEstado(t *testing.T) {
	c := newCatalog()
	sup := c.supplier(t, "900111")
	ctx := context.Background()
	for _, st := range []string{"announced", "sold", "announced", "deactivated"} {
		req := productReq(sup.ID, 0)
		req.Status = st
		_, err := c.products.Create(ctx, req)
		require.NoError(t, err)
	}

	all, err := c.products.List(ctx, dto.ProductListRequest{})
	require.NoError(t, err)
	assert.Len(t, all.Items, 4)
	assert.Equal(t, 20, all.Page.Limit)

	announced, err := c.products.List(ctx, dto.ProductListRequest{Status: "announced"})
	require.NoError(t, err)
	assert.Len(t, announced.Items, 2)

	_, err = c.products.List(ctx, dto.ProductListRequest{Status: "otro"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestProductDelete_ConVentasEsConflicto(t *testing.T) {
	c := newCatalog()
	sup := c.supplier(t, "900111")
	ctx := context.Background()
	sold, err := c.products.Create(ctx, productReq(sup.ID, 5))
	require.NoError(t, err)
	free, err := c.products.Create(ctx, productReq(sup.ID, 5))
	require.NoError(t, err)

	saleUC := sales.NewCreateSaleUseCase(c.store, c.ledger, nil, logger.Nop())
	_, err = saleUC.CreateSale(ctx, dto.CreateSaleRequest{Items: []dto.SaleLineRequest{{ProductID: sold.ID, Quantity: 1}}})
	require.NoError(t, err)

	assert.ErrorIs(t, c.products.Delete(ctx, sold.ID), domain.ErrConflict)

	require.NoError(t, c.products.Delete(ctx, free.ID))
	_, err = c.products.GetByID(ctx, free.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	movs, err := c.store.StockMovements().ListByProduct(ctx, free.ID, 0, 0)
	require.NoError(t, err)
	assert.Empty(t, movs, "los movimientos se borran en cascada")
}

// ──────────────────────────────────────────────────────────────────────────────
// SupplierUseCase
// ──────────────────────────────────────────────────────────────────────────────

func TestSupplier_CRUD(t *testing.T) {
	c := newCatalog()
	ctx := context.Background()
	s := c.supplier(t, "800555")
	assert.Equal(t, "Distribuidora 800555", s.CompanyName)

	phone := "6015550000"
	out, err := c.suppliers.Update(ctx, s.ID, dto.UpdateSupplierRequest{Phone: &phone})
	require.NoError(t, err)
	assert.Equal(t, phone, out.Phone)
	assert.Equal(t, "Ana", out.ContactName)

	list, err := c.suppliers.List(ctx, dto.PageRequest{})
	require.NoError(t, err)
	assert.Len(t, list.Items, 1)

	require.NoError(t, c.suppliers.Delete(ctx, s.ID))
	_, err = c.suppliers.GetByID(ctx, s.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSupplier_TaxIDDuplicado(t *testing.T) {
	c := newCatalog()
	c.supplier(t, "800555")
	_, err := c.suppliers.Create(context.Background(), dto.CreateSupplierRequest{CompanyName: "Otra", TaxID: "800555"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestSupplier_Validaciones(t *testing.T) {
	c := newCatalog()
	ctx := context.Background()
	_, err := c.suppliers.Create(ctx, dto.CreateSupplierRequest{TaxID: "1"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = c.suppliers.Create(ctx, dto.CreateSupplierRequest{CompanyName: "X"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = c.suppliers.Create(ctx, dto.CreateSupplierRequest{CompanyName: "X", TaxID: "123456789012345678901"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSupplier_ConProductosNoSeElimina(t *testing.T) {
	c := newCatalog()
	ctx := context.Background()
	sup := c.supplier(t, "900111")
	_, err := c.products.Create(ctx, productReq(sup.ID, 0))
	require.NoError(t, err)

	assert.ErrorIs(t, c.suppliers.Delete(ctx, sup.ID), domain.ErrConflict)
}

// ──────────────────────────────────────────────────────────────────────────────
// UserUseCase
// ──────────────────────────────────────────────────────────────────────────────

func TestUser_GetByID(t *testing.T) {
	st := memstore.New()
	ctx := context.Background()
	u := &entity.User{Email: "ana@fluxa.co", PasswordHash: "x", Name: "Ana"}
	require.NoError(t, st.Users().Create(ctx, u))
	uc := usecase.NewUserUseCase(st.Users())

	out, err := uc.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "ana@fluxa.co", out.Email)

	_, err = uc.GetByID(ctx, 99)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}
