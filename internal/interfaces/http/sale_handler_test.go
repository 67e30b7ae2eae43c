package http_test

import (
	"encoding/json"
	"net/http"
	"strconv"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/fluxa-api/internal/application/dto"
)

func saleBody(lines ...dto.SaleLineRequest) dto.CreateSaleRequest {
	return dto.CreateSaleRequest{Items: lines}
}

func line(productID int64, qty int) dto.SaleLineRequest {
	return dto.SaleLineRequest{ProductID: productID, Quantity: qty}
}

func TestSaleHandler_VentaExitosa201(t *testing.T) {
	s := newTestServer(t, nil)
	supID := s.supplier(t, "900111222")
	silla := s.product(t, supID, "Silla", 5, "15.35", "")
	mesa := s.product(t, supID, "Mesa", 2, "120.00", "")

	resp, raw := s.do(t, http.MethodPost, "/api/sales", saleBody(line(silla, 2), line(mesa, 1)))
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))

	var sale dto.SaleResponse
	require.NoError(t, json.Unmarshal(raw, &sale))
	assert.True(t, decimal.RequireFromString("150.70").Equal(sale.TotalAmount), sale.TotalAmount.String())
	require.Len(t, sale.Items, 2)
	assert.Equal(t, "Silla", sale.Items[0].Product.Title)
	assert.True(t, decimal.RequireFromString("10.00").Equal(sale.Items[0].CostPerUnit))
	assert.Equal(t, 3, s.quantity(t, silla))
	assert.Equal(t, 1, s.quantity(t, mesa))
	assert.Equal(t, float64(1), testutil.ToFloat64(s.metrics.SalesCreated))

	resp, raw = s.do(t, http.MethodGet, "/api/sales/"+strconv.FormatInt(sale.ID, 10), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var got dto.SaleResponse
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.Equal(t, sale.ID, got.ID)
	assert.Len(t, got.Items, 2)
}

func TestSaleHandler_Rechazos400SinEfectos(t *testing.T) {
	s := newTestServer(t, nil)
	supID := s.supplier(t, "900111222")
	silla := s.product(t, supID, "Silla", 3, "50.00", "")
	vendido := s.product(t, supID, "Lámpara", 4, "30.00", "sold")
	retirado := s.product(t, supID, "Sofá", 4, "300.00", "deactivated")

	cases := []struct {
		name string
		body any
		code string
	}{
		{"carrito vacío", saleBody(), "VALIDATION"},
		{"cantidad cero", saleBody(line(silla, 0)), "VALIDATION"},
		{"producto inexistente", saleBody(line(silla, 1), line(999, 1)), "PRODUCT_NOT_FOUND"},
		{"producto vendido", saleBody(line(silla, 1), line(vendido, 1)), "PRODUCT_UNAVAILABLE"},
		{"producto retirado", saleBody(line(retirado, 1)), "PRODUCT_UNAVAILABLE"},
		{"stock insuficiente", saleBody(line(silla, 4)), "INSUFFICIENT_STOCK"},
		{"líneas repetidas superan el stock", saleBody(line(silla, 2), line(silla, 2)), "INSUFFICIENT_STOCK"},
		{"campo desconocido", `{"items":[],"customer":"x"}`, "INVALID_BODY"},
		{"json roto", `{"items":[`, "INVALID_BODY"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp, raw := s.do(t, http.MethodPost, "/api/sales", tc.body)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode, string(raw))
			e := decodeError(t, raw)
			assert.Equal(t, tc.code, e.Code)
			assert.NotEmpty(t, e.Message)
		})
	}

	assert.Equal(t, 3, s.quantity(t, silla))
	assert.Equal(t, 4, s.quantity(t, vendido))
	resp, raw := s.do(t, http.MethodGet, "/api/sales", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var list dto.SaleListResponse
	require.NoError(t, json.Unmarshal(raw, &list))
	assert.Empty(t, list.Items)
}

func TestSaleHandler_MensajeIdentificaElProducto(t *testing.T) {
	s := newTestServer(t, nil)
	supID := s.supplier(t, "900111222")
	silla := s.product(t, supID, "Silla Eames", 1, "50.00", "")

	_, raw := s.do(t, http.MethodPost, "/api/sales", saleBody(line(silla, 3)))
	e := decodeError(t, raw)
	assert.Contains(t, e.Message, "Silla Eames")
	assert.Contains(t, e.Message, "disponible 1")

	_, raw = s.do(t, http.MethodPost, "/api/sales", saleBody(line(4242, 1)))
	assert.Contains(t, decodeError(t, raw).Message, "4242")
}

func TestSaleHandler_SinToken401(t *testing.T) {
	s := newTestServer(t, nil)

	resp, _ := s.doAs(t, "", http.MethodPost, "/api/sales", saleBody(line(1, 1)))
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp, _ = s.doAs(t, "", http.MethodGet, "/api/sales", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestSaleHandler_ListaMasRecientePrimero(t *testing.T) {
	s := newTestServer(t, nil)
	supID := s.supplier(t, "900111222")
	silla := s.product(t, supID, "Silla", 5, "50.00", "")

	var ids []int64
	for i := 0; i < 2; i++ {
		resp, raw := s.do(t, http.MethodPost, "/api/sales", saleBody(line(silla, 1)))
		require.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))
		var sale dto.SaleResponse
		require.NoError(t, json.Unmarshal(raw, &sale))
		ids = append(ids, sale.ID)
	}

	resp, raw := s.do(t, http.MethodGet, "/api/sales", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var list dto.SaleListResponse
	require.NoError(t, json.Unmarshal(raw, &list))
	require.Len(t, list.Items, 2)
	assert.Equal(t, ids[1], list.Items[0].ID)
	assert.Equal(t, ids[0], list.Items[1].ID)
}

func TestSaleHandler_VentaInexistente(t *testing.T) {
	s := newTestServer(t, nil)

	resp, raw := s.do(t, http.MethodGet, "/api/sales/31", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", decodeError(t, raw).Code)

	resp, raw = s.do(t, http.MethodGet, "/api/sales/x", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "INVALID_ID", decodeError(t, raw).Code)
}
