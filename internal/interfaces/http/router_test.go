package http_test

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/sites-hotels-dashboard/internal/application/auth"
	appdashboard "github.com/jhoicas/sites-hotels-dashboard/internal/application/dashboard"
	"github.com/jhoicas/sites-hotels-dashboard/internal/application/ports"
	"github.com/jhoicas/sites-hotels-dashboard/internal/application/session"
	"github.com/jhoicas/sites-hotels-dashboard/internal/domain"
	"github.com/jhoicas/sites-hotels-dashboard/internal/domain/entity"
	"github.com/jhoicas/sites-hotels-dashboard/internal/domain/filter"
	"github.com/jhoicas/sites-hotels-dashboard/internal/infrastructure/memory"
	apphttp "github.com/jhoicas/sites-hotels-dashboard/internal/interfaces/http"
)

// ──────────────────────────────────────────────────────────────────────────────
// Dobles del backend de BI
// ──────────────────────────────────────────────────────────────────────────────

type fakeSource struct{}

func (fakeSource) FetchMetrics(_ context.Context, key filter.State) (entity.Metrics, error) {
	return entity.Metrics{
		entity.MetricOcupacion:     decimal.RequireFromString("78.46"),
		entity.MetricVentasTotales: decimal.NewFromInt(int64(key.Date.Year)),
		entity.MetricADR:           decimal.NewFromInt(320),
		entity.MetricRevPAR:        decimal.NewFromInt(250),
	}, nil
}

// fakeBackend implementa ports.Authenticator y ports.MetricsBackend.
type fakeBackend struct {
	users map[string]entity.User // email → usuario; la contraseña válida es "secreta"
}

func (b *fakeBackend) Login(_ context.Context, email, password string) (*ports.BackendLogin, error) {
	u, ok := b.users[email]
	if !ok || password != "secreta" {
		return nil, fmt.Errorf("%w: Credenciales inválidas", domain.ErrUnauthorized)
	}
	return &ports.BackendLogin{AccessToken: "access-" + u.ID, RefreshToken: "refresh", User: u}, nil
}

func (b *fakeBackend) MetricsFor(ports.BackendTokens) ports.MetricsSource { return fakeSource{} }

type fakeGenerator struct{}

func (fakeGenerator) GenerateKPIReport(_ context.Context, r ports.KPIReport) ([]byte, error) {
	return []byte("%PDF-1.3 " + r.Title), nil
}

func newTestServer(t *testing.T) *fiber.App {
	t.Helper()
	backend := &fakeBackend{users: map[string]entity.User{
		"gerencia@sites.co": {ID: "1", Email: "gerencia@sites.co", Name: "Ana", Role: entity.RoleAdmin, Active: true},
		"socio@sites.co":    {ID: "2", Email: "socio@sites.co", Name: "Luis", Role: entity.RoleInversionista, Active: true},
		"retirado@sites.co": {ID: "3", Email: "retirado@sites.co", Role: entity.RoleInversionista, Active: false},
	}}
	sessions := session.NewManager(memory.NewFilterRepository(), backend, nil, zerolog.Nop())
	t.Cleanup(sessions.CloseAll)

	kpis := appdashboard.NewKPIUseCase()
	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	apphttp.Router(app, apphttp.RouterDeps{
		AuthUC:    auth.NewAuthUseCase(backend, sessions, auth.JWTConfig{Secret: testJWTSecret, ExpMinutes: testExpMin, Issuer: testIssuer}),
		Sessions:  sessions,
		KPIUC:     kpis,
		ReportUC:  appdashboard.NewReportUseCase(fakeGenerator{}, kpis),
		JWTSecret: testJWTSecret,
		EpochYear: 2012,
	})
	return app
}

func call(t *testing.T, app *fiber.App, method, path, token string, body any) *http.Response {
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
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode(t *testing.T, resp *http.Response, dst any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(dst))
}

func login(t *testing.T, app *fiber.App, email string) string {
	t.Helper()
	resp := call(t, app, http.MethodPost, "/api/auth/login", "", map[string]string{"email": email, "password": "secreta"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var out struct {
		Token string `json:"token"`
		User  struct {
			Role string `json:"role"`
		} `json:"user"`
	}
	decode(t, resp, &out)
	require.NotEmpty(t, out.Token)
	return out.Token
}

type filterBody struct {
	State struct {
		Date struct {
			Year    int    `json:"year"`
			Quarter int    `json:"quarter"`
			Month   int    `json:"month"`
			Day     int    `json:"day"`
			Mode    string `json:"mode"`
		} `json:"date_selection"`
		Property string `json:"property"`
		Area     string `json:"area"`
	} `json:"state"`
	Query    string `json:"query"`
	Selector struct {
		Summary string `json:"summary"`
		Levels  []struct {
			Level   string `json:"level"`
			Enabled bool   `json:"enabled"`
		} `json:"levels"`
	} `json:"selector"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ──────────────────────────────────────────────────────────────────────────────
// Auth
// ──────────────────────────────────────────────────────────────────────────────

func TestLogin_Errores(t *testing.T) {
	app := newTestServer(t)

	// Caso 1: credenciales inválidas → 401 con el mensaje del backend.
	resp := call(t, app, http.MethodPost, "/api/auth/login", "", map[string]string{"email": "gerencia@sites.co", "password": "mala"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	var e errorBody
	decode(t, resp, &e)
	assert.Equal(t, "UNAUTHORIZED", e.Code)

	// Caso 2: campos vacíos → 400.
	resp = call(t, app, http.MethodPost, "/api/auth/login", "", map[string]string{"email": ""})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	// Caso 3: usuario inactivo → 403.
	resp = call(t, app, http.MethodPost, "/api/auth/login", "", map[string]string{"email": "retirado@sites.co", "password": "secreta"})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()
}

func TestRutasProtegidas_SinToken(t *testing.T) {
	app := newTestServer(t)
	resp := call(t, app, http.MethodGet, "/api/filters", "", nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

// Un token válido cuya sesión ya no existe (logout o login posterior) → SESSION_EXPIRED.
func TestSesion_ExpiraTrasLogoutYNuevoLogin(t *testing.T) {
	app := newTestServer(t)
	first := login(t, app, "socio@sites.co")
	second := login(t, app, "socio@sites.co")

	resp := call(t, app, http.MethodGet, "/api/filters", first, nil)
	var e errorBody
	decode(t, resp, &e)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "SESSION_EXPIRED", e.Code)

	resp = call(t, app, http.MethodGet, "/api/filters", second, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = call(t, app, http.MethodPost, "/api/auth/logout", second, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp.Body.Close()

	resp = call(t, app, http.MethodGet, "/api/filters", second, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()
}

// ──────────────────────────────────────────────────────────────────────────────
// Filtros
// ──────────────────────────────────────────────────────────────────────────────

func TestFiltros_CascadaYCatalogos(t *testing.T) {
	app := newTestServer(t)
	token := login(t, app, "socio@sites.co")

	// Caso 1: estado inicial por defecto.
	resp := call(t, app, http.MethodGet, "/api/filters", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var f filterBody
	decode(t, resp, &f)
	assert.Equal(t, "all", f.State.Property)
	assert.Equal(t, "all", f.State.Area)
	assert.Equal(t, "year", f.State.Date.Mode)
	assert.Equal(t, "Seleccionar fecha", f.Selector.Summary)

	// Caso 2: elegir mes recalcula el trimestre.
	resp = call(t, app, http.MethodPatch, "/api/filters/date", token, map[string]int{"year": 2024, "month": 5, "day": 10})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	f = filterBody{}
	decode(t, resp, &f)
	assert.Equal(t, 2, f.State.Date.Quarter)
	assert.Equal(t, "day", f.State.Date.Mode)
	assert.Equal(t, "10 de Mayo 2024", f.Selector.Summary)

	// Caso 3: cambiar el año limpia los niveles inferiores.
	resp = call(t, app, http.MethodPatch, "/api/filters/date", token, map[string]int{"year": 2023})
	f = filterBody{}
	decode(t, resp, &f)
	assert.Equal(t, 2023, f.State.Date.Year)
	assert.Zero(t, f.State.Date.Quarter)
	assert.Zero(t, f.State.Date.Month)
	assert.Zero(t, f.State.Date.Day)

	// Caso 4: propiedad y área no tocan la fecha.
	resp = call(t, app, http.MethodPut, "/api/filters/property", token, map[string]string{"property": "sitesBAQ"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
	resp = call(t, app, http.MethodPut, "/api/filters/area", token, map[string]string{"area": "minibar"})
	f = filterBody{}
	decode(t, resp, &f)
	assert.Equal(t, "sitesBAQ", f.State.Property)
	assert.Equal(t, "minibar", f.State.Area)
	assert.Equal(t, 2023, f.State.Date.Year)

	// Caso 5: valores fuera del catálogo → 400 VALIDATION.
	resp = call(t, app, http.MethodPut, "/api/filters/area", token, map[string]string{"area": "spa"})
	var e errorBody
	decode(t, resp, &e)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", e.Code)

	// Caso 6: limpiar la fecha conserva propiedad y área.
	resp = call(t, app, http.MethodDelete, "/api/filters/date", token, nil)
	f = filterBody{}
	decode(t, resp, &f)
	assert.Zero(t, f.State.Date.Year)
	assert.Equal(t, "sitesBAQ", f.State.Property)

	// Caso 7: reset total.
	resp = call(t, app, http.MethodDelete, "/api/filters", token, nil)
	f = filterBody{}
	decode(t, resp, &f)
	assert.Equal(t, "all", f.State.Property)
	assert.Equal(t, "all", f.State.Area)

	resp = call(t, app, http.MethodGet, "/api/filters/options", token, nil)
	var opts struct {
		Properties []map[string]string `json:"properties"`
		Areas      []map[string]string `json:"areas"`
		Years      []int               `json:"years"`
	}
	decode(t, resp, &opts)
	assert.Len(t, opts.Properties, 5)
	assert.Len(t, opts.Areas, 7)
	require.NotEmpty(t, opts.Years)
	assert.Equal(t, 2012, opts.Years[0])
}

func TestFiltros_AplicarEnlaceCompartido(t *testing.T) {
	app := newTestServer(t)
	token := login(t, app, "gerencia@sites.co")

	resp := call(t, app, http.MethodPut, "/api/filters?year=2024&quarter=1&month=8&mode=month&property=sites45&area=evento", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var f filterBody
	decode(t, resp, &f)
	// El trimestre inconsistente se repara a partir del mes.
	assert.Equal(t, 3, f.State.Date.Quarter)
	assert.Equal(t, 8, f.State.Date.Month)
	assert.Equal(t, "sites45", f.State.Property)
	assert.Contains(t, f.Query, "month=8")

	resp = call(t, app, http.MethodPut, "/api/filters?year=dos-mil", token, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

// Los años fuera de epoch..año actual+1 se rechazan y no tocan el filtro.
func TestFiltros_AnioFueraDeRango(t *testing.T) {
	app := newTestServer(t)
	token := login(t, app, "gerencia@sites.co")

	// Caso 1: PATCH con un año imposible
	resp := call(t, app, http.MethodPatch, "/api/filters/date", token, map[string]int{"year": 9999})
	var e errorBody
	decode(t, resp, &e)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", e.Code)

	// Caso 2: enlace compartido con un año anterior al epoch
	resp = call(t, app, http.MethodPut, "/api/filters?year=2011&mode=year", token, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	var f filterBody
	decode(t, call(t, app, http.MethodGet, "/api/filters", token, nil), &f)
	assert.Zero(t, f.State.Date.Year)

	// Caso 3: el último año del catálogo sí se acepta
	last := time.Now().Year() + 1
	resp = call(t, app, http.MethodPatch, "/api/filters/date", token, map[string]int{"year": last})
	f = filterBody{}
	decode(t, resp, &f)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, last, f.State.Date.Year)
}

// ──────────────────────────────────────────────────────────────────────────────
// Dashboard
// ──────────────────────────────────────────────────────────────────────────────

type metricsBody struct {
	Status  string         `json:"status"`
	Loading bool           `json:"loading"`
	Data    map[string]any `json:"data"`
}

func waitMetrics(t *testing.T, app *fiber.App, token string, year int) metricsBody {
	t.Helper()
	var out metricsBody
	require.Eventually(t, func() bool {
		out = metricsBody{}
		resp := call(t, app, http.MethodGet, "/api/dashboard/metrics", token, nil)
		decode(t, resp, &out)
		if out.Status != "success" {
			return false
		}
		return fmt.Sprint(out.Data[entity.MetricVentasTotales]) == fmt.Sprint(year)
	}, 2*time.Second, 10*time.Millisecond)
	return out
}

func TestDashboard_MetricasSiguenAlFiltro(t *testing.T) {
	app := newTestServer(t)
	token := login(t, app, "socio@sites.co")

	// Sin fecha el año enviado es 0.
	first := waitMetrics(t, app, token, 0)
	assert.False(t, first.Loading)

	resp := call(t, app, http.MethodPatch, "/api/filters/date", token, map[string]int{"year": 2025})
	resp.Body.Close()
	waitMetrics(t, app, token, 2025)
}

func TestDashboard_KPIsPorRol(t *testing.T) {
	app := newTestServer(t)

	socio := login(t, app, "socio@sites.co")
	waitMetrics(t, app, socio, 0)
	var k struct {
		Role  string           `json:"role"`
		Cards []map[string]any `json:"cards"`
	}
	decode(t, call(t, app, http.MethodGet, "/api/dashboard/kpis", socio, nil), &k)
	assert.Equal(t, entity.RoleInversionista, k.Role)
	assert.Len(t, k.Cards, 4)

	admin := login(t, app, "gerencia@sites.co")
	waitMetrics(t, app, admin, 0)
	k.Cards = nil
	decode(t, call(t, app, http.MethodGet, "/api/dashboard/kpis", admin, nil), &k)
	assert.Equal(t, entity.RoleAdmin, k.Role)
	assert.Len(t, k.Cards, 10)
}

func TestDashboard_ReporteSoloAdmin(t *testing.T) {
	app := newTestServer(t)

	// Caso 1: el inversionista no puede descargar el reporte.
	socio := login(t, app, "socio@sites.co")
	resp := call(t, app, http.MethodGet, "/api/dashboard/report", socio, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	// Caso 2: el admin recibe el PDF.
	admin := login(t, app, "gerencia@sites.co")
	waitMetrics(t, app, admin, 0)
	resp = call(t, app, http.MethodGet, "/api/dashboard/report", admin, nil)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "reporte-kpis.pdf")
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(raw, []byte("%PDF")))
}

type sseEvent struct {
	name string
	data string
}

// readEvents lee el stream SSE en segundo plano. El canal se cierra con el stream.
func readEvents(body io.Reader) <-chan sseEvent {
	events := make(chan sseEvent, 64)
	go func() {
		defer close(events)
		sc := bufio.NewScanner(body)
		var ev sseEvent
		for sc.Scan() {
			line := sc.Text()
			switch {
			case strings.HasPrefix(line, "event: "):
				ev.name = strings.TrimPrefix(line, "event: ")
			case strings.HasPrefix(line, "data: "):
				ev.data = strings.TrimPrefix(line, "data: ")
			case line == "" && ev.data != "":
				events <- ev
				ev = sseEvent{}
			}
		}
	}()
	return events
}

func nextMetrics(t *testing.T, events <-chan sseEvent) (metricsBody, bool) {
	t.Helper()
	select {
	case ev, ok := <-events:
		if !ok {
			return metricsBody{}, false
		}
		assert.Equal(t, "metrics", ev.name)
		var m metricsBody
		require.NoError(t, json.Unmarshal([]byte(ev.data), &m))
		return m, true
	case <-time.After(2 * time.Second):
		t.Fatal("no llegó ningún evento")
		return metricsBody{}, false
	}
}

// El stream envía el estado actual, sigue los cambios del filtro y termina
// con el logout.
func TestDashboard_StreamDeMetricas(t *testing.T) {
	app := newTestServer(t)
	token := login(t, app, "gerencia@sites.co")

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	go func() { _ = app.Listener(ln) }()
	t.Cleanup(func() { _ = app.ShutdownWithTimeout(time.Second) })
	req, err := http.NewRequest(http.MethodGet, "http://"+ln.Addr().String()+"/api/dashboard/stream", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	events := readEvents(resp.Body)

	// Caso 1: el primer evento es el estado actual
	_, ok := nextMetrics(t, events)
	require.True(t, ok)

	// Caso 2: un cambio de filtro llega como eventos hasta el éxito
	patch := call(t, app, http.MethodPatch, "/api/filters/date", token, map[string]int{"year": 2025})
	patch.Body.Close()
	for {
		m, ok := nextMetrics(t, events)
		require.True(t, ok, "el stream terminó antes de tiempo")
		if m.Status == "success" && fmt.Sprint(m.Data[entity.MetricVentasTotales]) == "2025" {
			break
		}
	}

	// Caso 3: logout cierra el stream
	logout := call(t, app, http.MethodPost, "/api/auth/logout", token, nil)
	logout.Body.Close()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case _, ok := <-events:
			if !ok {
				return
			}
		case <-deadline:
			t.Fatal("el stream siguió abierto tras el logout")
		}
	}
}
