package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xelth-com/swiftlog/internal/ai"
	"github.com/xelth-com/swiftlog/internal/models"
	"github.com/xelth-com/swiftlog/internal/services/logistics"
	"github.com/xelth-com/swiftlog/internal/store"
	"github.com/xelth-com/swiftlog/internal/utils"
)

const testSecret = "handler-secret"

type fakeAI struct {
	records []ai.Record
}

func (f *fakeAI) ExtractFromText(context.Context, string) []ai.Record         { return f.records }
func (f *fakeAI) ExtractFromFile(context.Context, string, string) []ai.Record { return f.records }
func (f *fakeAI) Chat(_ context.Context, msg string, _ []ai.ChatTurn) (string, error) {
	return "eco: " + msg, nil
}

type env struct {
	router *Router
	ms     *store.MemoryStore
	svc    *logistics.Service
	token  string
}

func setup(t *testing.T, extractor *fakeAI) *env {
	t.Helper()
	ctx := context.Background()
	ms := store.NewMemoryStore()
	require.NoError(t, ms.Insert(ctx, models.TableDeliveries, []models.Delivery{
		{ID: "D-1", CustomerID: "MAT-1", CustomerName: "Mercado Sol", Status: models.StatusPending, Date: "2024-03-10", BoxQuantity: 2, DriverName: "A. Lima", Branch: "sp-01"},
		{ID: "D-2", CustomerID: "MAT-2", CustomerName: "Padaria Lua", Status: models.StatusPending, Date: "2024-03-10", BoxQuantity: 1, DriverName: "A. Lima", Branch: "sp-01"},
		{ID: "D-3", CustomerID: "MAT-3", CustomerName: "Bar Estrela", Status: models.StatusPending, Date: "2024-03-10", BoxQuantity: 4, DriverName: "A. Lima", Branch: "sp-01"},
		{ID: "D-4", CustomerID: "MAT-4", CustomerName: "Loja Azul", Status: models.StatusPending, Date: "2024-03-10", BoxQuantity: 1, DriverName: "M. Souza", Branch: "rj-02"},
		{ID: "D-5", CustomerID: "MAT-5", CustomerName: "Casa Verde", Status: models.StatusReturned, Date: "10/03/2024", BoxQuantity: 3, DriverName: "J. Silva", Branch: "sp-01", ReturnReason: "Cliente Ausente"},
	}))
	require.NoError(t, ms.Insert(ctx, models.TableReputations, []models.CustomerReputation{
		{CustomerID: "MAT-5", Status: models.ReputationReturn, RiskLevel: models.RiskHigh, ResolutionStatus: models.ResolutionPending},
	}))

	svc := logistics.NewService(ms, logistics.Options{
		DefaultBranch: "sp-01",
		Location:      time.UTC,
		Clock:         func() time.Time { return time.Date(2024, time.March, 10, 12, 0, 0, 0, time.UTC) },
	})
	require.NoError(t, svc.Load(ctx))

	deps := Deps{Service: svc, JWTSecret: testSecret}
	if extractor != nil {
		deps.Extractor = extractor
		deps.Assistant = extractor
	}
	token, _, err := utils.GenerateTokens(&models.User{ID: "op-1", Email: "op@swiftlog"}, testSecret)
	require.NoError(t, err)

	return &env{router: NewRouter(deps), ms: ms, svc: svc, token: token}
}

func (e *env) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if e.token != "" {
		req.Header.Set("Authorization", "Bearer "+e.token)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestPublicRoutes(t *testing.T) {
	e := setup(t, nil)
	e.token = ""

	assert.Equal(t, http.StatusOK, e.do(t, http.MethodGet, "/health", nil).Code)
	assert.Equal(t, http.StatusOK, e.do(t, http.MethodGet, "/api/status", nil).Code)
	assert.Equal(t, http.StatusUnauthorized, e.do(t, http.MethodGet, "/api/deliveries", nil).Code)
}

func TestLogin(t *testing.T) {
	e := setup(t, nil)
	e.token = ""

	rec := e.do(t, http.MethodPost, "/auth/login", LoginRequest{Email: "ADMIN", Password: "admin"})
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	tokens := body["tokens"].(map[string]interface{})
	assert.NotEmpty(t, tokens["accessToken"])
	user := body["user"].(map[string]interface{})
	assert.NotContains(t, user, "passwordHash")

	e.token = tokens["accessToken"].(string)
	assert.Equal(t, http.StatusOK, e.do(t, http.MethodGet, "/api/me", nil).Code)

	e.token = ""
	rec = e.do(t, http.MethodPost, "/auth/refresh", RefreshRequest{RefreshToken: tokens["refreshToken"].(string)})
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = e.do(t, http.MethodPost, "/auth/login", LoginRequest{Email: "admin", Password: "wrong"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestListDeliveries(t *testing.T) {
	e := setup(t, nil)

	rec := e.do(t, http.MethodGet, "/api/deliveries?branch=sp-01&range=today&display=1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.EqualValues(t, 4, body["count"])
	first := body["deliveries"].([]interface{})[0].(map[string]interface{})
	assert.Equal(t, "10/03/2024", first["displayDate"])

	flagged := 0
	for _, row := range body["deliveries"].([]interface{}) {
		d := row.(map[string]interface{})
		if d["critical"] == true {
			flagged++
			assert.Equal(t, "MAT-5", d["customerId"])
		}
	}
	assert.Equal(t, 1, flagged)

	rec = e.do(t, http.MethodGet, "/api/deliveries?critical=true", nil)
	critical := decodeBody(t, rec)
	assert.EqualValues(t, 1, critical["count"])
	assert.Equal(t, true, critical["deliveries"].([]interface{})[0].(map[string]interface{})["critical"])

	rec = e.do(t, http.MethodGet, "/api/deliveries?search=padaria", nil)
	assert.EqualValues(t, 1, decodeBody(t, rec)["count"])
}

func TestBulkStatusAndStats(t *testing.T) {
	e := setup(t, nil)

	rec := e.do(t, http.MethodPost, "/api/deliveries/status", BulkStatusRequest{
		IDs:    []string{"D-1", "D-2", "D-3"},
		Status: models.StatusDelivered,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 3, decodeBody(t, rec)["count"])

	rec = e.do(t, http.MethodGet, "/api/stats?branch=sp-01", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	stats := decodeBody(t, rec)
	assert.EqualValues(t, 4, stats["total"])
	assert.EqualValues(t, 3, stats["delivered"])
	assert.EqualValues(t, 75, stats["efficiencyPct"])
}

func TestSyncFailureReplies502(t *testing.T) {
	e := setup(t, nil)
	e.ms.FailOn("update", models.TableDeliveries, errors.New("connection reset"))

	rec := e.do(t, http.MethodPatch, "/api/deliveries/D-1/status", StatusRequest{Status: models.StatusDelivered})
	require.Equal(t, http.StatusBadGateway, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, true, body["syncFailed"])
	assert.Equal(t, true, body["retry"])

	d, err := e.svc.Delivery("D-1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, d.Status)
}

func TestCreateDeliveryValidation(t *testing.T) {
	e := setup(t, nil)

	rec := e.do(t, http.MethodPost, "/api/deliveries", map[string]string{"customerId": "MAT-9"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = e.do(t, http.MethodPost, "/api/deliveries", map[string]string{"customerId": "MAT-9", "customerName": "Empório"})
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "sp-01", decodeBody(t, rec)["branch"])

	assert.Equal(t, http.StatusNotFound, e.do(t, http.MethodGet, "/api/deliveries/nope", nil).Code)
}

func TestReturnsAndReport(t *testing.T) {
	e := setup(t, nil)

	rec := e.do(t, http.MethodGet, "/api/returns?branch=sp-01", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 1, decodeBody(t, rec)["count"])

	rec = e.do(t, http.MethodGet, "/api/returns/report.pdf?branch=all", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.True(t, strings.HasPrefix(rec.Body.String(), "%PDF"))

	rec = e.do(t, http.MethodPost, "/api/deliveries/D-5/notify", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCritical(t *testing.T) {
	e := setup(t, nil)

	rec := e.do(t, http.MethodGet, "/api/critical", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	rows := decodeBody(t, rec)["critical"].([]interface{})
	require.Len(t, rows, 1)
	row := rows[0].(map[string]interface{})
	assert.Equal(t, "J. Silva", row["driverName"])
	assert.Equal(t, "unassigned", row["sellerName"])

	rec = e.do(t, http.MethodPatch, "/api/critical/MAT-5/resolution", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, models.ResolutionResolved, decodeBody(t, rec)["resolutionStatus"])
}

func TestSettingsConflict(t *testing.T) {
	e := setup(t, nil)

	rec := e.do(t, http.MethodPost, "/api/settings/branches", map[string]string{"id": "bh-03", "name": "Belo Horizonte"})
	require.Equal(t, http.StatusCreated, rec.Code)
	rec = e.do(t, http.MethodPost, "/api/settings/branches", map[string]string{"id": "bh-03", "name": "Outra"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = e.do(t, http.MethodGet, "/api/settings/database", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeBody(t, rec)["tables"], len(models.Tables))
}

func TestAIEndpoints(t *testing.T) {
	e := setup(t, nil)
	assert.Equal(t, http.StatusServiceUnavailable, e.do(t, http.MethodPost, "/api/ai/extract/text", ExtractTextRequest{Text: "x"}).Code)

	fake := &fakeAI{}
	e = setup(t, fake)
	rec := e.do(t, http.MethodPost, "/api/ai/extract/text", ExtractTextRequest{Text: "nada aqui"})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "no data could be extracted", decodeBody(t, rec)["error"])

	fake.records = []ai.Record{{CustomerName: "Mercado Novo", BoxQuantity: 0}}
	rec = e.do(t, http.MethodPost, "/api/ai/extract/text", ExtractTextRequest{Text: "Mercado Novo", Save: true})
	require.Equal(t, http.StatusCreated, rec.Code)
	added := decodeBody(t, rec)["deliveries"].([]interface{})[0].(map[string]interface{})
	assert.EqualValues(t, 1, added["boxQuantity"])
	assert.Equal(t, "2024-03-10", added["date"])
	assert.Len(t, e.svc.Snapshot().Deliveries, 6)

	rec = e.do(t, http.MethodPost, "/api/ai/chat", ChatRequest{Message: "oi"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "eco: oi", decodeBody(t, rec)["reply"])
}

func TestHealthReportsDatabase(t *testing.T) {
	e := setup(t, nil)
	e.router.ping = func(context.Context) error { return errors.New("connection refused") }

	rec := e.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "degraded", decodeBody(t, rec)["status"])
}
