package inventory_test

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/fluxa-api/internal/application/dto"
	"github.com/jhoicas/fluxa-api/internal/application/inventory"
	"github.com/jhoicas/fluxa-api/internal/domain"
	"github.com/jhoicas/fluxa-api/internal/domain/entity"
	"github.com/jhoicas/fluxa-api/internal/domain/repository"
	"github.com/jhoicas/fluxa-api/internal/infrastructure/memstore"
	"github.com/jhoicas/fluxa-api/pkg/logger"
	"github.com/jhoicas/fluxa-api/pkg/metrics"
)

type fixture struct {
	store   *memstore.Store
	ledger  *inventory.StockLedger
	metrics *metrics.Metrics
	uc      *inventory.RegisterMovementUseCase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	st := memstore.New()
	m := metrics.New("fluxa_test")
	ledger := inventory.NewStockLedger(m, logger.Nop())
	return &fixture{
		store:   st,
		ledger:  ledger,
		metrics: m,
		uc:      inventory.NewRegisterMovementUseCase(st, ledger, st.Products(), st.StockMovements()),
	}
}

func (f *fixture) product(t *testing.T) *entity.Product {
	t.Helper()
	ctx := context.Background()
	sup := &entity.Supplier{CompanyName: "Proveedor", TaxID: "900123456"}
	require.NoError(t, f.store.Suppliers().Create(ctx, sup))
	p := &entity.Product{
		Title:         "Silla",
		Category:      "Muebles",
		Status:        entity.ProductStatusAnnounced,
		PurchasePrice: decimal.NewFromInt(40),
		SalePrice:     decimal.NewFromInt(70),
		SupplierID:    sup.ID,
	}
	require.NoError(t, f.store.Products().Create(ctx, p))
	return p
}

func (f *fixture) add(ctx context.Context, productID int64, qty int, typ entity.MovementType) error {
	return f.store.Do(ctx, func(ctx context.Context, repos repository.TxRepositories) error {
		_, err := f.ledger.AddMovement(ctx, repos, productID, qty, typ)
		return err
	})
}

func (f *fixture) quantity(t *testing.T, id int64) int {
	t.Helper()
	p, err := f.store.Products().GetByID(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, p)
	return p.Quantity
}

func (f *fixture) movementSum(t *testing.T, id int64) int {
	t.Helper()
	sum, err := f.store.StockMovements().SumByProduct(context.Background(), id)
	require.NoError(t, err)
	return sum
}

// ──────────────────────────────────────────────────────────────────────────────
// StockLedger.AddMovement
// ──────────────────────────────────────────────────────────────────────────────

func TestAddMovement_StockIgualALaSumaDelLibro(t *testing.T) {
	f := newFixture(t)
	p := f.product(t)
	ctx := context.Background()

	require.NoError(t, f.add(ctx, p.ID, 10, entity.MovementTypeInitialAdjustment))
	require.NoError(t, f.add(ctx, p.ID, -3, entity.MovementTypeSale))
	require.NoError(t, f.add(ctx, p.ID, 5, entity.MovementTypePurchase))
	require.NoError(t, f.add(ctx, p.ID, -1, entity.MovementTypeManualAdjustment))

	assert.Equal(t, 11, f.quantity(t, p.ID))
	assert.Equal(t, f.movementSum(t, p.ID), f.quantity(t, p.ID))
}

func TestAddMovement_RecalculaDesdeElLibroAunqueElCacheEsteCorrupto(t *testing.T) {
	f := newFixture(t)
	p := f.product(t)
	ctx := context.Background()
	require.NoError(t, f.add(ctx, p.ID, 4, entity.MovementTypeInitialAdjustment))

	_, err := f.store.Products().UpdateQuantity(ctx, p.ID, 999)
	require.NoError(t, err)

	require.NoError(t, f.add(ctx, p.ID, 1, entity.MovementTypePurchase))
	assert.Equal(t, 5, f.quantity(t, p.ID))
}

func TestAddMovement_ProductoInexistente(t *testing.T) {
	f := newFixture(t)
	err := f.add(context.Background(), 404, 3, entity.MovementTypePurchase)

	var nf *domain.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, int64(404), nf.ID)
	assert.Equal(t, 0, f.movementSum(t, 404))
}

func TestAddMovement_Validaciones(t *testing.T) {
	f := newFixture(t)
	p := f.product(t)
	ctx := context.Background()

	cases := []struct {
		name string
		id   int64
		qty  int
		typ  entity.MovementType
	}{
		{"cantidad cero", p.ID, 0, entity.MovementTypePurchase},
		{"id no positivo", 0, 1, entity.MovementTypePurchase},
		{"tipo desconocido", p.ID, 1, entity.MovementType("transfer")},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := f.add(ctx, tc.id, tc.qty, tc.typ)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
	assert.Equal(t, 0, f.movementSum(t, p.ID))
}

func TestAddMovement_RollbackDeshaceMovimientoYStock(t *testing.T) {
	f := newFixture(t)
	p := f.product(t)
	ctx := context.Background()
	require.NoError(t, f.add(ctx, p.ID, 8, entity.MovementTypeInitialAdjustment))

	boom := errors.New("falla posterior")
	err := f.store.Do(ctx, func(ctx context.Context, repos repository.TxRepositories) error {
		if _, err := f.ledger.AddMovement(ctx, repos, p.ID, -5, entity.MovementTypeSale); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	assert.Equal(t, 8, f.quantity(t, p.ID))
	assert.Equal(t, 8, f.movementSum(t, p.ID))
}

func TestAddMovement_CuentaMovimientosPorTipo(t *testing.T) {
	f := newFixture(t)
	p := f.product(t)
	ctx := context.Background()
	require.NoError(t, f.add(ctx, p.ID, 2, entity.MovementTypePurchase))
	require.NoError(t, f.add(ctx, p.ID, 3, entity.MovementTypePurchase))

	assert.Equal(t, float64(2), testutil.ToFloat64(f.metrics.StockMovements.WithLabelValues("purchase")))
	assert.Equal(t, float64(0), testutil.ToFloat64(f.metrics.StockMovements.WithLabelValues("sale")))
}

// ──────────────────────────────────────────────────────────────────────────────
// RegisterMovementUseCase
// ──────────────────────────────────────────────────────────────────────────────

func TestRegisterMovement_CompraSumaStock(t *testing.T) {
	f := newFixture(t)
	p := f.product(t)

	out, err := f.uc.RegisterMovement(context.Background(), dto.RegisterMovementRequest{
		ProductID: p.ID, Quantity: 12, Type: "purchase",
	})
	require.NoError(t, err)
	assert.Equal(t, 12, out.ProductQuantity)
	assert.Equal(t, "purchase", out.Movement.Type)
	assert.NotZero(t, out.Movement.ID)
	assert.Equal(t, 12, f.quantity(t, p.ID))
}

func TestRegisterMovement_AjusteManualNegativoComoReversion(t *testing.T) {
	f := newFixture(t)
	p := f.product(t)
	ctx := context.Background()
	require.NoError(t, f.add(ctx, p.ID, 5, entity.MovementTypeInitialAdjustment))

	out, err := f.uc.RegisterMovement(ctx, dto.RegisterMovementRequest{
		ProductID: p.ID, Quantity: -2, Type: "manual_adjustment",
	})
	require.NoError(t, err)
	assert.Equal(t, 3, out.ProductQuantity)
}

func TestRegisterMovement_TiposReservadosYCompraNegativa(t *testing.T) {
	f := newFixture(t)
	p := f.product(t)
	ctx := context.Background()

	for _, in := range []dto.RegisterMovementRequest{
		{ProductID: p.ID, Quantity: -1, Type: "sale"},
		{ProductID: p.ID, Quantity: 1, Type: "initial_adjustment"},
		{ProductID: p.ID, Quantity: -4, Type: "purchase"},
		{ProductID: p.ID, Quantity: 1, Type: "PURCHASE"},
		{ProductID: p.ID, Quantity: 0, Type: "manual_adjustment"},
	} {
		_, err := f.uc.RegisterMovement(ctx, in)
		assert.ErrorIs(t, err, domain.ErrInvalidInput, "%+v", in)
	}
	assert.Equal(t, 0, f.movementSum(t, p.ID))
}

func TestRegisterMovement_ProductoInexistente(t *testing.T) {
	f := newFixture(t)
	_, err := f.uc.RegisterMovement(context.Background(), dto.RegisterMovementRequest{
		ProductID: 77, Quantity: 1, Type: "purchase",
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListByProduct_MasRecientePrimero(t *testing.T) {
	f := newFixture(t)
	p := f.product(t)
	ctx := context.Background()
	require.NoError(t, f.add(ctx, p.ID, 10, entity.MovementTypeInitialAdjustment))
	require.NoError(t, f.add(ctx, p.ID, -2, entity.MovementTypeSale))
	require.NoError(t, f.add(ctx, p.ID, 6, entity.MovementTypePurchase))

	out, err := f.uc.ListByProduct(ctx, p.ID, dto.PageRequest{})
	require.NoError(t, err)
	require.Len(t, out.Items, 3)
	assert.Equal(t, "purchase", out.Items[0].Type)
	assert.Equal(t, "initial_adjustment", out.Items[2].Type)
	assert.Equal(t, 20, out.Page.Limit)

	out, err = f.uc.ListByProduct(ctx, p.ID, dto.PageRequest{Limit: 1, Offset: 1})
	require.NoError(t, err)
	require.Len(t, out.Items, 1)
	assert.Equal(t, -2, out.Items[0].Quantity)

	_, err = f.uc.ListByProduct(ctx, 999, dto.PageRequest{})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
