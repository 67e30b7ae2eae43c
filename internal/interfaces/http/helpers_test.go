package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/fluxa-api/internal/application/auth"
	"github.com/jhoicas/fluxa-api/internal/application/dto"
	appinventory "github.com/jhoicas/fluxa-api/internal/application/inventory"
	"github.com/jhoicas/fluxa-api/internal/application/report"
	"github.com/jhoicas/fluxa-api/internal/application/sales"
	"github.com/jhoicas/fluxa-api/internal/application/usecase"
	"github.com/jhoicas/fluxa-api/internal/infrastructure/memstore"
	infrapdf "github.com/jhoicas/fluxa-api/internal/infrastructure/pdf"
	apphttp "github.com/jhoicas/fluxa-api/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/fluxa-api/pkg/jwt"
	"github.com/jhoicas/fluxa-api/pkg/logger"
	"github.com/jhoicas/fluxa-api/pkg/metrics"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	testIssuer    = "fluxa-test"
	testExpMin    = 60
)

// testServer app completa sobre el almacenamiento en memoria.
type testServer struct {
	app     *fiber.App
	store   *memstore.Store
	metrics *metrics.Metrics
	authUC  *auth.AuthUseCase
	token   string
}

func newTestServer(t *testing.T, idem apphttp.IdempotencyStore) *testServer {
	t.Helper()
	st := memstore.New()
	m := metrics.New("fluxa_http_test")
	log := logger.Nop()
	ledger := appinventory.NewStockLedger(m, log)
	authUC := auth.NewAuthUseCase(st.Users(), auth.JWTConfig{Secret: testJWTSecret, ExpMinutes: testExpMin, Issuer: testIssuer})

	app := apphttp.NewApp(fiber.Config{}, apphttp.RouterDeps{
		AppName:          "fluxa-test",
		SupplierUC:       usecase.NewSupplierUseCase(st.Suppliers()),
		ProductUC:        usecase.NewProductUseCase(st, ledger, st.Products()),
		UserUC:           usecase.NewUserUseCase(st.Users()),
		RegisterMovement: appinventory.NewRegisterMovementUseCase(st, ledger, st.Products(), st.StockMovements()),
		CreateSale:       sales.NewCreateSaleUseCase(st, ledger, m, log),
		ListSales:        sales.NewListSalesUseCase(st.Sales()),
		ReportUC:         report.NewReportUseCase(st.Sales(), st.Products(), infrapdf.NewMarotoReportGenerator("Fluxa"), 10),
		AuthUC:           authUC,
		JWTSecret:        testJWTSecret,
		Metrics:          m,
		Logger:           log,
		Idempotency:      idem,
	})

	s := &testServer{app: app, store: st, metrics: m, authUC: authUC}
	s.token = s.userToken(t, "vendedor@fluxa.test")
	return s
}

// userToken registra un usuario y devuelve su cabecera Authorization.
func (s *testServer) userToken(t *testing.T, email string) string {
	t.Helper()
	u, err := s.authUC.RegisterUser(context.Background(), dto.RegisterRequest{Email: email, Password: "secreta123", Name: "Vendedor"})
	require.NoError(t, err)
	tok, err := pkgjwt.Generate(testJWTSecret, u.ID, u.Email, testIssuer, testExpMin)
	require.NoError(t, err)
	return "Bearer " + tok
}

// do lanza la petición con el token por defecto. body puede ser string (crudo) o cualquier valor JSON.
func (s *testServer) do(t *testing.T, method, path string, body any, headers ...string) (*http.Response, []byte) {
	t.Helper()
	return s.doAs(t, s.token, method, path, body, headers...)
}

func (s *testServer) doAs(t *testing.T, authHeader, method, path string, body any, headers ...string) (*http.Response, []byte) {
	t.Helper()
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	return resp, raw
}

// supplier crea un proveedor vía API.
func (s *testServer) supplier(t *testing.T, taxID string) int64 {
	t.Helper()
	resp, raw := s.do(t, http.MethodPost, "/api/suppliers", dto.CreateSupplierRequest{
		CompanyName: "Muebles del Valle",
		TaxID:       taxID,
		ContactName: "Ana",
		Phone:       "3001234567",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))
	var out dto.SupplierResponse
	require.NoError(t, json.Unmarshal(raw, &out))
	return out.ID
}

// product crea un producto vía API; status vacío = announced.
func (s *testServer) product(t *testing.T, supplierID int64, title string, quantity int, salePrice, status string) int64 {
	t.Helper()
	body := `{"title":"` + title + `","category":"Muebles","status":"` + status + `",` +
		`"purchasePrice":"10.00","salePrice":"` + salePrice + `","quantity":` + strconv.Itoa(quantity) +
		`,"supplierId":` + strconv.FormatInt(supplierID, 10) + `}`
	resp, raw := s.do(t, http.MethodPost, "/api/products", body)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))
	var out dto.ProductResponse
	require.NoError(t, json.Unmarshal(raw, &out))
	return out.ID
}

func (s *testServer) quantity(t *testing.T, productID int64) int {
	t.Helper()
	p, err := s.store.Products().GetByID(context.Background(), productID)
	require.NoError(t, err)
	require.NotNil(t, p)
	return p.Quantity
}

func decodeError(t *testing.T, raw []byte) dto.ErrorResponse {
	t.Helper()
	var e dto.ErrorResponse
	require.NoError(t, json.Unmarshal(raw, &e), string(raw))
	return e
}
