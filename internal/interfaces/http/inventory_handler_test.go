package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-bodegas/internal/application/dto"
	"github.com/jhoicas/inventario-bodegas/internal/application/inventory"
	"github.com/jhoicas/inventario-bodegas/internal/application/usecase"
	"github.com/jhoicas/inventario-bodegas/internal/infrastructure/lock"
	"github.com/jhoicas/inventario-bodegas/internal/infrastructure/memory"
	apphttp "github.com/jhoicas/inventario-bodegas/internal/interfaces/http"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

func buildTestApp(t *testing.T) *fiber.App {
	t.Helper()
	store := memory.NewStore()
	locker := lock.NewKeyedMutex()
	svc := inventory.NewMovementService(inventory.ServiceDeps{
		TxRunner:   store.TxRunner(),
		Locker:     locker,
		Products:   store.Products(),
		Warehouses: store.Warehouses(),
		Records:    store.Records(),
		Movements:  store.Movements(),
		Transfers:  store.Transfers(),
		Balances:   store.Balances(),
	}, zerolog.Nop())

	app := fiber.New()
	app.Use(apphttp.RequestLogger(zerolog.Nop()))
	apphttp.Router(app, apphttp.RouterDeps{
		Movements:   svc,
		CompanyUC:   usecase.NewCompanyUseCase(store.Records()),
		WarehouseUC: usecase.NewWarehouseUseCase(store.Warehouses()),
		ProductUC:   usecase.NewProductUseCase(store.Products(), store.Balances(), store.Records(), locker),
		CategoryUC:  usecase.NewCategoryUseCase(store.Records()),
		EmployeeUC:  usecase.NewEmployeeUseCase(store.Records()),
	})
	return app
}

// do ejecuta la petición y decodifica el cuerpo en out si no es nil.
func do(t *testing.T, app *fiber.App, method, path string, body any, out any) int {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil {
		raw, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(raw, out), "cuerpo: %s", raw)
	}
	return resp.StatusCode
}

type catalog struct {
	origin, destination, product, employee string
}

func seedCatalog(t *testing.T, app *fiber.App) catalog {
	t.Helper()
	var w1, w2 dto.WarehouseResponse
	require.Equal(t, http.StatusCreated, do(t, app, http.MethodPost, "/api/warehouses",
		dto.CreateWarehouseRequest{Name: "Principal", Kind: "blanca"}, &w1))
	require.Equal(t, http.StatusCreated, do(t, app, http.MethodPost, "/api/warehouses",
		dto.CreateWarehouseRequest{Name: "Sucursal", Kind: "oscura"}, &w2))

	var p dto.ProductResponse
	require.Equal(t, http.StatusCreated, do(t, app, http.MethodPost, "/api/products",
		map[string]any{"name": "Tornillos", "price": "1500", "fractionable": true, "units_per_package": 10}, &p))

	var e dto.EmployeeResponse
	require.Equal(t, http.StatusCreated, do(t, app, http.MethodPost, "/api/employees",
		dto.EmployeeRequest{Name: "Ana"}, &e))

	return catalog{origin: w1.ID, destination: w2.ID, product: p.ID, employee: e.ID}
}

// ──────────────────────────────────────────────────────────────────────────────
// Movimientos
// ──────────────────────────────────────────────────────────────────────────────

func TestRecordMovement_EntradaThenSalida(t *testing.T) {
	app := buildTestApp(t)
	cat := seedCatalog(t, app)

	five := int64(5)
	var mov dto.MovementResponse
	status := do(t, app, http.MethodPost, "/api/inventory/movements", dto.RecordMovementRequest{
		ProductID: cat.product, WarehouseID: cat.origin, Type: "entrada", Quantity: 10, FractionalQuantity: &five, EmployeeID: cat.employee, Date: "2024-03-01",
	}, &mov)
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, "2024-03-01", mov.Date)
	assert.NotEmpty(t, mov.ID)

	frac := int64(3)
	status = do(t, app, http.MethodPost, "/api/inventory/movements", dto.RecordMovementRequest{
		ProductID: cat.product, WarehouseID: cat.origin, Type: "salida", Quantity: 2, FractionalQuantity: &frac, EmployeeID: cat.employee,
	}, nil)
	require.Equal(t, http.StatusCreated, status)

	var bal dto.BalanceResponse
	status = do(t, app, http.MethodGet, "/api/inventory/balances/"+cat.origin+"/"+cat.product, nil, &bal)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, int64(8), bal.Quantity)
	assert.Equal(t, int64(2), bal.FractionalQuantity)
	assert.Equal(t, "Tornillos", bal.ProductName)
}

func TestRecordMovement_InsufficientStockIs409(t *testing.T) {
	app := buildTestApp(t)
	cat := seedCatalog(t, app)

	var errResp dto.ErrorResponse
	status := do(t, app, http.MethodPost, "/api/inventory/movements", dto.RecordMovementRequest{
		ProductID: cat.product, WarehouseID: cat.origin, Type: "salida", Quantity: 1, EmployeeID: cat.employee,
	}, &errResp)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "INSUFFICIENT_STOCK", errResp.Code)

	var list dto.MovementListResponse
	require.Equal(t, http.StatusOK, do(t, app, http.MethodGet, "/api/inventory/movements", nil, &list))
	assert.Empty(t, list.Items, "una salida rechazada no deja rastro en el kardex")
}

func TestRecordMovement_ValidationErrors(t *testing.T) {
	app := buildTestApp(t)
	cat := seedCatalog(t, app)

	cases := []struct {
		name   string
		req    dto.RecordMovementRequest
		status int
		code   string
	}{
		{"tipo inválido", dto.RecordMovementRequest{ProductID: cat.product, WarehouseID: cat.origin, Type: "ajuste", Quantity: 1, EmployeeID: cat.employee}, http.StatusBadRequest, "VALIDATION"},
		{"cantidad cero", dto.RecordMovementRequest{ProductID: cat.product, WarehouseID: cat.origin, Type: "entrada", EmployeeID: cat.employee}, http.StatusBadRequest, "VALIDATION"},
		{"fecha inválida", dto.RecordMovementRequest{ProductID: cat.product, WarehouseID: cat.origin, Type: "entrada", Quantity: 1, EmployeeID: cat.employee, Date: "01/03/2024"}, http.StatusBadRequest, "VALIDATION"},
		{"producto inexistente", dto.RecordMovementRequest{ProductID: "no-existe", WarehouseID: cat.origin, Type: "entrada", Quantity: 1, EmployeeID: cat.employee}, http.StatusNotFound, "NOT_FOUND"},
		{"empleado inexistente", dto.RecordMovementRequest{ProductID: cat.product, WarehouseID: cat.origin, Type: "entrada", Quantity: 1, EmployeeID: "nadie"}, http.StatusNotFound, "NOT_FOUND"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var errResp dto.ErrorResponse
			status := do(t, app, http.MethodPost, "/api/inventory/movements", tc.req, &errResp)
			assert.Equal(t, tc.status, status)
			assert.Equal(t, tc.code, errResp.Code)
		})
	}
}

func TestRecordMovement_InvalidBody(t *testing.T) {
	app := buildTestApp(t)

	req := httptest.NewRequest(http.MethodPost, "/api/inventory/movements", bytes.NewBufferString("{no es json"))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// Traslados y saldos
// ──────────────────────────────────────────────────────────────────────────────

func TestRecordTransfer_MovesStock(t *testing.T) {
	app := buildTestApp(t)
	cat := seedCatalog(t, app)

	require.Equal(t, http.StatusCreated, do(t, app, http.MethodPost, "/api/inventory/movements", dto.RecordMovementRequest{
		ProductID: cat.product, WarehouseID: cat.origin, Type: "entrada", Quantity: 50, EmployeeID: cat.employee,
	}, nil))

	var tr dto.TransferResponse
	status := do(t, app, http.MethodPost, "/api/inventory/transfers", dto.RecordTransferRequest{
		ProductID: cat.product, OriginWarehouseID: cat.origin, DestinationWarehouseID: cat.destination, Quantity: 20,
	}, &tr)
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, int64(20), tr.Quantity)

	var balances dto.BalanceListResponse
	require.Equal(t, http.StatusOK, do(t, app, http.MethodGet, "/api/inventory/balances?warehouse_id="+cat.destination, nil, &balances))
	require.Len(t, balances.Items, 1)
	assert.Equal(t, int64(20), balances.Items[0].Quantity)

	var perProduct []dto.BalanceResponse
	require.Equal(t, http.StatusOK, do(t, app, http.MethodGet, "/api/products/"+cat.product+"/balances", nil, &perProduct))
	total := int64(0)
	for _, b := range perProduct {
		total += b.Quantity
	}
	assert.Equal(t, int64(50), total)

	var transfers dto.TransferListResponse
	require.Equal(t, http.StatusOK, do(t, app, http.MethodGet, "/api/inventory/transfers", nil, &transfers))
	assert.Len(t, transfers.Items, 1)
}

func TestRecordTransfer_Rejections(t *testing.T) {
	app := buildTestApp(t)
	cat := seedCatalog(t, app)

	var errResp dto.ErrorResponse
	status := do(t, app, http.MethodPost, "/api/inventory/transfers", dto.RecordTransferRequest{
		ProductID: cat.product, OriginWarehouseID: cat.origin, DestinationWarehouseID: cat.destination, Quantity: 5,
	}, &errResp)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "INSUFFICIENT_STOCK", errResp.Code)

	status = do(t, app, http.MethodPost, "/api/inventory/transfers", dto.RecordTransferRequest{
		ProductID: cat.product, OriginWarehouseID: cat.origin, DestinationWarehouseID: cat.origin, Quantity: 5,
	}, &errResp)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION", errResp.Code)
}

func TestListBalances_RequiresWarehouse(t *testing.T) {
	app := buildTestApp(t)

	var errResp dto.ErrorResponse
	assert.Equal(t, http.StatusBadRequest, do(t, app, http.MethodGet, "/api/inventory/balances", nil, &errResp))
	assert.Equal(t, "VALIDATION", errResp.Code)
	assert.Equal(t, http.StatusNotFound, do(t, app, http.MethodGet, "/api/inventory/balances?warehouse_id=nada", nil, &errResp))
}

// ──────────────────────────────────────────────────────────────────────────────
// Catálogo
// ──────────────────────────────────────────────────────────────────────────────

func TestWarehouse_CRUD(t *testing.T) {
	app := buildTestApp(t)

	var w dto.WarehouseResponse
	require.Equal(t, http.StatusCreated, do(t, app, http.MethodPost, "/api/warehouses",
		dto.CreateWarehouseRequest{Name: "Norte", Kind: "blanca", City: "Bogotá"}, &w))

	name := "Norte 2"
	var updated dto.WarehouseResponse
	require.Equal(t, http.StatusOK, do(t, app, http.MethodPut, "/api/warehouses/"+w.ID,
		dto.UpdateWarehouseRequest{Name: &name}, &updated))
	assert.Equal(t, "Norte 2", updated.Name)
	assert.Equal(t, "Bogotá", updated.City)

	var list dto.WarehouseListResponse
	require.Equal(t, http.StatusOK, do(t, app, http.MethodGet, "/api/warehouses?limit=5", nil, &list))
	assert.Len(t, list.Items, 1)
	assert.Equal(t, 5, list.Page.Limit)

	assert.Equal(t, http.StatusNoContent, do(t, app, http.MethodDelete, "/api/warehouses/"+w.ID, nil, nil))
	assert.Equal(t, http.StatusNotFound, do(t, app, http.MethodGet, "/api/warehouses/"+w.ID, nil, &dto.ErrorResponse{}))
}

func TestWarehouse_InvalidKind(t *testing.T) {
	app := buildTestApp(t)

	var errResp dto.ErrorResponse
	assert.Equal(t, http.StatusBadRequest, do(t, app, http.MethodPost, "/api/warehouses",
		dto.CreateWarehouseRequest{Name: "X", Kind: "gris"}, &errResp))
	assert.Equal(t, "VALIDATION", errResp.Code)
}

func TestCategory_DeleteInUseIsConflict(t *testing.T) {
	app := buildTestApp(t)

	var c dto.CategoryResponse
	require.Equal(t, http.StatusCreated, do(t, app, http.MethodPost, "/api/categories", dto.CategoryRequest{Name: "Ferretería"}, &c))
	require.Equal(t, http.StatusCreated, do(t, app, http.MethodPost, "/api/products",
		map[string]any{"name": "Martillo", "price": "20000", "category_id": c.ID}, nil))

	var errResp dto.ErrorResponse
	assert.Equal(t, http.StatusConflict, do(t, app, http.MethodDelete, "/api/categories/"+c.ID, nil, &errResp))
	assert.Equal(t, "CONFLICT", errResp.Code)
}

func TestCompany_GetBeforeAndAfterSave(t *testing.T) {
	app := buildTestApp(t)

	assert.Equal(t, http.StatusNotFound, do(t, app, http.MethodGet, "/api/company", nil, &dto.ErrorResponse{}))

	var saved dto.CompanyResponse
	require.Equal(t, http.StatusOK, do(t, app, http.MethodPut, "/api/company",
		dto.UpdateCompanyRequest{Name: "Bodegas SAS", TaxID: "900123456"}, &saved))

	var got dto.CompanyResponse
	require.Equal(t, http.StatusOK, do(t, app, http.MethodGet, "/api/company", nil, &got))
	assert.Equal(t, saved.ID, got.ID)
	assert.Equal(t, "Bodegas SAS", got.Name)
}
