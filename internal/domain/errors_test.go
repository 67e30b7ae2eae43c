package domain_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/fluxa-api/internal/domain"
)

func TestTypedErrors_CoincidenConSuSentinela(t *testing.T) {
	cases := []struct {
		name     string
		err      error
		sentinel error
	}{
		{"validación", domain.NewValidationError("items", "vacío"), domain.ErrInvalidInput},
		{"no encontrado", &domain.NotFoundError{Resource: "producto", ID: 7}, domain.ErrNotFound},
		{"no disponible", &domain.ProductUnavailableError{ProductID: 1, Title: "Mesa", Status: "deactivated"}, domain.ErrProductUnavailable},
		{"stock", &domain.InsufficientStockError{ProductID: 1, Title: "Mesa", Available: 2, Requested: 5}, domain.ErrInsufficientStock},
		{"persistencia", domain.NewPersistenceError("commit", errors.New("conexión perdida")), domain.ErrPersistence},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.ErrorIs(t, tc.err, tc.sentinel)
			wrapped := fmt.Errorf("capa superior: %w", tc.err)
			assert.ErrorIs(t, wrapped, tc.sentinel, "debe seguir coincidiendo al envolverse")
		})
	}
}

func TestInsufficientStockError_MensajeIncluyeDisponibleYSolicitado(t *testing.T) {
	err := &domain.InsufficientStockError{ProductID: 3, Title: "Silla", Available: 2, Requested: 5}
	assert.Contains(t, err.Error(), "Silla")
	assert.Contains(t, err.Error(), "disponible 2")
	assert.Contains(t, err.Error(), "solicitado 5")
}

func TestPersistenceError_Unwrap(t *testing.T) {
	err := domain.NewPersistenceError("commit", context.Canceled)
	assert.ErrorIs(t, err, context.Canceled)

	var pe *domain.PersistenceError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "commit", pe.Op)
}

func TestWrapPersistence(t *testing.T) {
	assert.NoError(t, domain.WrapPersistence("op", nil))

	nf := &domain.NotFoundError{Resource: "producto", ID: 1}
	assert.Same(t, nf, domain.WrapPersistence("op", nf).(*domain.NotFoundError), "los errores de dominio no se envuelven")

	raw := errors.New("pq: relation does not exist")
	got := domain.WrapPersistence("crear venta", raw)
	assert.ErrorIs(t, got, domain.ErrPersistence)
	assert.ErrorIs(t, got, raw)
}
