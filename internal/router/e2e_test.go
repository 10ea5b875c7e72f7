//go:build integration

package router_test

// Integración de punta a punta contra Postgres + Redis reales vía
// testcontainers. Correr con: go test -tags integration ./internal/router/... -v
//
// Cubre:
//   - alta de catálogo y presupuesto con snapshots calculados
//   - compra: presupuesto CERRADO + expansión en unidades
//   - ciclo de vida de la unidad (alquiler, retorno, venta)
//   - reporte de finanzas con ingresos y egresos del flujo anterior

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/RamsesGirala/machinery-ops/internal/config"
	"github.com/RamsesGirala/machinery-ops/internal/infra"
	"github.com/RamsesGirala/machinery-ops/internal/router"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcPostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	tcRedis "github.com/testcontainers/testcontainers-go/modules/redis"
)

// ── Helpers ──────────────────────────────────────────────────────────────────

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(b)
}

func do(t *testing.T, srv *httptest.Server, method, path string, body *bytes.Buffer) *http.Response {
	t.Helper()
	var req *http.Request
	var err error
	if body != nil {
		req, err = http.NewRequest(method, srv.URL+path, body)
	} else {
		req, err = http.NewRequest(method, srv.URL+path, nil)
	}
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	return resp
}

func decodeJSON(t *testing.T, resp *http.Response, dest any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(dest))
}

func assertDec(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, decimal.RequireFromString(want).Equal(got), "esperado %s, obtenido %s", want, got)
}

// ── Setup ────────────────────────────────────────────────────────────────────

func setupTestEnv(t *testing.T) *httptest.Server {
	t.Helper()
	ctx := context.Background()

	pgC, err := tcPostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:15-alpine"),
		tcPostgres.WithDatabase("maqops_test"),
		tcPostgres.WithUsername("maqops"),
		tcPostgres.WithPassword("maqops"),
		tcPostgres.BasicWaitStrategies(),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pgC.Terminate(ctx) })

	pgURL, err := pgC.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	rdC, err := tcRedis.RunContainer(ctx,
		testcontainers.WithImage("redis:7-alpine"),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdC.Terminate(ctx) })

	rdURL, err := rdC.ConnectionString(ctx)
	require.NoError(t, err)

	cfg := &config.Config{
		Port:                  8000,
		Env:                   "test",
		DatabaseURL:           pgURL,
		RedisURL:              rdURL,
		ReportCacheTTLSeconds: 60,
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	require.NoError(t, err)

	rdb, err := infra.NewRedis(cfg.RedisURL)
	require.NoError(t, err)

	srv := httptest.NewServer(router.New(cfg, db, rdb))
	t.Cleanup(srv.Close)
	return srv
}

func crearEntidad(t *testing.T, srv *httptest.Server, path string, payload map[string]any) string {
	t.Helper()
	resp := do(t, srv, "POST", path, jsonBody(t, payload))
	require.Equal(t, http.StatusCreated, resp.StatusCode, "POST %s", path)
	var out struct {
		ID string `json:"id"`
	}
	decodeJSON(t, resp, &out)
	require.NotEmpty(t, out.ID)
	return out.ID
}

type presupuestoDetail struct {
	ID                     string          `json:"id"`
	Numero                 string          `json:"numero"`
	Estado                 string          `json:"estado"`
	BaseImponibleSnapshot  decimal.Decimal `json:"base_imponible_snapshot"`
	TotalImpuestosSnapshot decimal.Decimal `json:"total_impuestos_snapshot"`
	CostoAduanaSnapshot    decimal.Decimal `json:"costo_aduana_snapshot"`
	TotalSnapshot          decimal.Decimal `json:"total_snapshot"`
	Items                  []struct {
		SubtotalMaquinaSnapshot decimal.Decimal `json:"subtotal_maquina_snapshot"`
	} `json:"items"`
	Impuestos []struct {
		TaxNombre             string          `json:"tax_nombre"`
		MontoAplicadoSnapshot decimal.Decimal `json:"monto_aplicado_snapshot"`
	} `json:"impuestos"`
}

// ── Tests ────────────────────────────────────────────────────────────────────

func TestE2E_Health(t *testing.T) {
	srv := setupTestEnv(t)
	resp := do(t, srv, "GET", "/health", nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestE2E_FlujoCompleto(t *testing.T) {
	srv := setupTestEnv(t)

	// 1. Catálogo
	maqID := crearEntidad(t, srv, "/v1/catalogo/maquinas", map[string]any{
		"nombre": "Excavadora 20T", "total": "2000",
	})
	accID := crearEntidad(t, srv, "/v1/catalogo/accesorios", map[string]any{
		"nombre": "Balde de roca", "total": "50",
	})
	ivaID := crearEntidad(t, srv, "/v1/catalogo/impuestos", map[string]any{
		"nombre": "IVA", "porcentaje": "21", "siempre_incluir": true,
	})
	hastaID := crearEntidad(t, srv, "/v1/catalogo/logistica", map[string]any{
		"desde": "Shanghai", "hasta": "Buenos Aires",
		"tipo": "MARITIMO", "etapa": "HASTA_ADUANA", "total": "300",
	})
	postID := crearEntidad(t, srv, "/v1/catalogo/logistica", map[string]any{
		"desde": "Buenos Aires", "hasta": "Córdoba",
		"tipo": "TERRESTRE", "etapa": "POST_ADUANA", "total": "100",
	})

	// 2. Presupuesto: base 2350, IVA 493.50, total 2943.50
	resp := do(t, srv, "POST", "/v1/presupuestos", jsonBody(t, map[string]any{
		"fecha": "2025-03-10",
		"items": []map[string]any{{
			"machine_base_id": maqID,
			"cantidad":        2,
			"accesorios": []map[string]any{
				{"accessory_id": accID, "cantidad": 1},
			},
		}},
		"impuestos": []map[string]any{{"tax_id": ivaID}},
		"logisticas": []map[string]any{
			{"logistics_leg_id": hastaID},
			{"logistics_leg_id": postID},
		},
	}))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var presu presupuestoDetail
	decodeJSON(t, resp, &presu)

	assert.Equal(t, "DRAFT", presu.Estado)
	assertDec(t, "4350", presu.BaseImponibleSnapshot) // 4000 + 50 + 300
	assertDec(t, "913.50", presu.TotalImpuestosSnapshot)
	assertDec(t, "1213.50", presu.CostoAduanaSnapshot)
	assertDec(t, "5363.50", presu.TotalSnapshot)

	// 3. Comprar: cierra el presupuesto y expande 2 unidades
	resp = do(t, srv, "POST", "/v1/presupuestos/"+presu.ID+"/comprar", jsonBody(t, map[string]any{
		"fecha_compra": "2025-04-01",
	}))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var compra struct {
		OK         bool   `json:"ok"`
		PurchaseID string `json:"purchase_id"`
	}
	decodeJSON(t, resp, &compra)
	assert.True(t, compra.OK)

	// comprar dos veces el mismo presupuesto es conflicto
	resp = do(t, srv, "POST", "/v1/presupuestos/"+presu.ID+"/comprar", jsonBody(t, map[string]any{}))
	defer resp.Body.Close()
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	// el presupuesto comprado no se puede editar ni borrar
	resp = do(t, srv, "PUT", "/v1/presupuestos/"+presu.ID, jsonBody(t, map[string]any{
		"items": []map[string]any{{"machine_base_id": maqID, "cantidad": 1}},
	}))
	defer resp.Body.Close()
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	resp = do(t, srv, "DELETE", "/v1/presupuestos/"+presu.ID, nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	// la máquina referenciada queda protegida contra borrado
	resp = do(t, srv, "DELETE", "/v1/catalogo/maquinas/"+maqID, nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	// 4. Unidades: dos en DEPOSITO con identificador secuencial
	resp = do(t, srv, "GET", "/v1/unidades", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var unidades struct {
		Data []struct {
			ID            string `json:"id"`
			Estado        string `json:"estado"`
			Identificador string `json:"identificador"`
		} `json:"data"`
	}
	decodeJSON(t, resp, &unidades)
	require.Len(t, unidades.Data, 2)
	for _, u := range unidades.Data {
		assert.Equal(t, "DEPOSITO", u.Estado)
		assert.Contains(t, u.Identificador, presu.Numero)
	}
	unidadID := unidades.Data[0].ID

	// 5. Alquiler: mayo a julio estimado, 3 meses x 100
	resp = do(t, srv, "POST", "/v1/unidades/"+unidadID+"/alquilar", jsonBody(t, map[string]any{
		"inicio_year": 2025, "inicio_month": 5,
		"retorno_estimada_year": 2025, "retorno_estimada_month": 7,
		"monto_mensual": "100",
	}))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	// alquilada no puede venderse
	resp = do(t, srv, "POST", "/v1/unidades/"+unidadID+"/vender", jsonBody(t, map[string]any{
		"fecha_venta": "2025-06-01", "monto_total": "9999",
	}))
	defer resp.Body.Close()
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	// retorna en junio: 2 meses efectivos, total 200
	resp = do(t, srv, "POST", "/v1/unidades/"+unidadID+"/finalizar-alquiler", jsonBody(t, map[string]any{
		"retorno_real_year": 2025, "retorno_real_month": 6,
	}))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	// 6. Venta
	resp = do(t, srv, "POST", "/v1/unidades/"+unidadID+"/vender", jsonBody(t, map[string]any{
		"fecha_venta": "2025-07-15", "monto_total": "3500",
		"cliente_texto": "Constructora Sur SRL",
	}))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = do(t, srv, "GET", "/v1/unidades/"+unidadID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var detalle struct {
		Estado string `json:"estado"`
		Venta  *struct {
			MontoTotal decimal.Decimal `json:"monto_total"`
		} `json:"venta"`
		Alquileres []struct {
			MontoTotal       decimal.Decimal `json:"monto_total"`
			RetornoRealMonth *int            `json:"retorno_real_month"`
		} `json:"alquileres"`
	}
	decodeJSON(t, resp, &detalle)
	assert.Equal(t, "VENDIDA", detalle.Estado)
	require.NotNil(t, detalle.Venta)
	assertDec(t, "3500", detalle.Venta.MontoTotal)
	require.Len(t, detalle.Alquileres, 1)
	assertDec(t, "200", detalle.Alquileres[0].MontoTotal)
	require.NotNil(t, detalle.Alquileres[0].RetornoRealMonth)
	assert.Equal(t, 6, *detalle.Alquileres[0].RetornoRealMonth)

	// 7. Reporte: compra el 2025-04-01, alquiler cerrado el 2025-06-01,
	// venta el 2025-07-15
	resp = do(t, srv, "GET", "/v1/reportes/finanzas?desde=2025-04-01&hasta=2025-07-31", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var reporte struct {
		Totales struct {
			Ingresos decimal.Decimal `json:"ingresos"`
			Egresos  decimal.Decimal `json:"egresos"`
			Ganancia decimal.Decimal `json:"ganancia"`
		} `json:"totales"`
		SerieDiaria []struct {
			Fecha    string          `json:"fecha"`
			Ingresos decimal.Decimal `json:"ingresos"`
			Egresos  decimal.Decimal `json:"egresos"`
		} `json:"serie_diaria"`
	}
	decodeJSON(t, resp, &reporte)

	assertDec(t, "3700", reporte.Totales.Ingresos) // 200 alquiler + 3500 venta
	assertDec(t, "5363.50", reporte.Totales.Egresos)
	assertDec(t, "-1663.50", reporte.Totales.Ganancia)

	porFecha := map[string]struct{ ingresos, egresos decimal.Decimal }{}
	for _, d := range reporte.SerieDiaria {
		porFecha[d.Fecha] = struct{ ingresos, egresos decimal.Decimal }{d.Ingresos, d.Egresos}
	}
	assertDec(t, "5363.50", porFecha["2025-04-01"].egresos)
	assertDec(t, "200", porFecha["2025-06-01"].ingresos)
	assertDec(t, "3500", porFecha["2025-07-15"].ingresos)
}

func TestE2E_ValidacionYNotFound(t *testing.T) {
	srv := setupTestEnv(t)

	// presupuesto sin items
	resp := do(t, srv, "POST", "/v1/presupuestos", jsonBody(t, map[string]any{
		"items": []map[string]any{},
	}))
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// envelope de error canónico
	resp = do(t, srv, "GET", fmt.Sprintf("/v1/presupuestos/%s", "3f7a1f40-0000-0000-0000-000000000000"), nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	var errBody struct {
		Err struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	decodeJSON(t, resp, &errBody)
	assert.Equal(t, "NOT_FOUND", errBody.Err.Code)
	assert.NotEmpty(t, errBody.Err.Message)
}
