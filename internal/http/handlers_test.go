package httpapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/asleulv/vervekart/internal/repository"
	"github.com/asleulv/vervekart/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// newTestAPI wires the full route surface on the in-memory repositories.
func newTestAPI(t *testing.T) *httptest.Server {
	t.Helper()
	logger := zap.NewNop()

	usersRepo := repository.NewMemoryUsersRepo()
	statusRepo := repository.NewMemoryStatusRepo()

	userService := service.NewUserService(usersRepo, logger)
	statusService := service.NewStatusService(statusRepo, nil, logger)
	statsService := service.NewStatsService(statusRepo, logger)

	router := NewRouter(logger)
	router.RegisterStatusRoutes(
		NewUserHandler(userService, logger),
		NewStatusHandler(statusService, logger),
		NewStatsHandler(statsService, logger),
	)
	router.RegisterAddressRoutes(NewAddressHandler(nil, logger))
	router.RegisterExportRoutes(NewExportHandler(statusService, statsService, logger))
	router.RegisterHealthRoutes(NewHealthHandler(nil, logger))

	server := httptest.NewServer(CORS([]string{"http://localhost:5173"})(router))
	t.Cleanup(server.Close)
	return server
}

func doJSON(t *testing.T, method, url string, body any) (*http.Response, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })

	var decoded map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
	return resp, decoded
}

func TestRegisterUserIsIdempotent(t *testing.T) {
	server := newTestAPI(t)

	_, first := doJSON(t, http.MethodPost, server.URL+"/api/register-user", map[string]any{"name": "Kari"})
	_, second := doJSON(t, http.MethodPost, server.URL+"/api/register-user", map[string]any{"name": "Kari"})

	firstUser := first["user"].(map[string]any)
	secondUser := second["user"].(map[string]any)
	assert.Equal(t, "Kari", firstUser["name"])
	assert.Equal(t, firstUser["id"], secondUser["id"])
}

func TestRegisterUserRequiresName(t *testing.T) {
	server := newTestAPI(t)

	resp, body := doJSON(t, http.MethodPost, server.URL+"/api/register-user", map[string]any{"name": "  "})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.NotEmpty(t, body["error"])
}

func TestSaveStatusRoundTrip(t *testing.T) {
	server := newTestAPI(t)

	resp, body := doJSON(t, http.MethodPost, server.URL+"/api/save-status", map[string]any{
		"lokalid":      "123",
		"status":       "Ja",
		"address_text": "Storgata 1",
		"kommune":      "Oslo",
		"fylke":        "Oslo",
		"user_id":      1,
		"user_name":    "Kari",
		"lat":          59.91,
		"lon":          10.75,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	assert.Equal(t, true, body["success"])
	assert.Equal(t, "Ubehandlet", body["old_status"])
	assert.Equal(t, "Ja", body["new_status"])
	coords := body["coordinates"].(map[string]any)
	assert.Equal(t, 59.91, coords["lat"])

	resp, body = doJSON(t, http.MethodPost, server.URL+"/api/get-statuses", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(1), body["count"])
	statuses := body["statuses"].(map[string]any)
	assert.Equal(t, "Ja", statuses["123"])
}

func TestSaveStatusRejectsUnknownStatus(t *testing.T) {
	server := newTestAPI(t)

	resp, body := doJSON(t, http.MethodPost, server.URL+"/api/save-status", map[string]any{
		"lokalid":   "123",
		"status":    "Kanskje",
		"user_id":   1,
		"user_name": "Kari",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.NotEmpty(t, body["error"])
}

func TestGetStatusesEmpty(t *testing.T) {
	server := newTestAPI(t)

	resp, body := doJSON(t, http.MethodPost, server.URL+"/api/get-statuses", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(0), body["count"])
	assert.NotNil(t, body["statuses"])
	assert.Contains(t, body, "execution_time_ms")
}

func TestGetStatusesBoundsRequiresAllFields(t *testing.T) {
	server := newTestAPI(t)

	resp, _ := doJSON(t, http.MethodPost, server.URL+"/api/get-statuses-bounds", map[string]any{
		"north": 60.0, "south": 59.0, "east": 11.0,
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestGetStatusesBoundsEchoesViewport(t *testing.T) {
	server := newTestAPI(t)

	resp, body := doJSON(t, http.MethodPost, server.URL+"/api/get-statuses-bounds", map[string]any{
		"north": 60.0, "south": 59.0, "east": 11.0, "west": 10.0,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	bounds := body["bounds"].(map[string]any)
	assert.Equal(t, 60.0, bounds["north"])
	assert.Equal(t, float64(0), body["count"])
}

func TestAddressHistory(t *testing.T) {
	server := newTestAPI(t)

	for _, status := range []string{"Ikke hjemme", "Ja"} {
		resp, _ := doJSON(t, http.MethodPost, server.URL+"/api/save-status", map[string]any{
			"lokalid": "123", "status": status, "user_id": 1, "user_name": "Kari",
		})
		require.Equal(t, http.StatusOK, resp.StatusCode)
	}

	resp, body := doJSON(t, http.MethodGet, server.URL+"/api/address-history/123", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "123", body["lokalid"])
	assert.Equal(t, float64(2), body["total_changes"])

	history := body["history"].([]any)
	require.Len(t, history, 2)
	newest := history[0].(map[string]any)
	assert.Equal(t, "Ikke hjemme", newest["old_status"])
	assert.Equal(t, "Ja", newest["new_status"])
}

func TestAddressHistoryUnknownAddress(t *testing.T) {
	server := newTestAPI(t)

	resp, body := doJSON(t, http.MethodGet, server.URL+"/api/address-history/nope", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(0), body["total_changes"])
	assert.Equal(t, []any{}, body["history"])
}

func TestClearAreaEmptyRegion(t *testing.T) {
	server := newTestAPI(t)

	resp, body := doJSON(t, http.MethodDelete, server.URL+"/api/clear-area", map[string]any{
		"kommune": "Oslo", "fylke": "Oslo", "user_id": 1, "user_name": "Kari",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, float64(0), body["affected"])
	assert.Equal(t, "Ingen adresser å nullstille", body["message"])
}

func TestClearAreaDeletesRegion(t *testing.T) {
	server := newTestAPI(t)

	resp, _ := doJSON(t, http.MethodPost, server.URL+"/api/save-status", map[string]any{
		"lokalid": "123", "status": "Nei", "kommune": "Oslo", "fylke": "Oslo",
		"user_id": 1, "user_name": "Kari",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body := doJSON(t, http.MethodDelete, server.URL+"/api/clear-area", map[string]any{
		"kommune": "Oslo", "fylke": "Oslo", "user_id": 1, "user_name": "Kari",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(1), body["affected"])
	assert.NotEmpty(t, body["reset_log_id"])

	resp, body = doJSON(t, http.MethodPost, server.URL+"/api/get-statuses", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(0), body["count"])
}

func TestDailyStatsShape(t *testing.T) {
	server := newTestAPI(t)

	resp, body := doJSON(t, http.MethodGet, server.URL+"/api/daily-stats", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, body["date"])
	assert.Equal(t, []any{}, body["current_stats"])
	assert.Equal(t, []any{}, body["user_activity"])
	assert.Equal(t, []any{}, body["daily_activity"])
}

func TestAdvancedStatsShape(t *testing.T) {
	server := newTestAPI(t)

	resp, body := doJSON(t, http.MethodGet, server.URL+"/api/advanced-stats", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotContains(t, body, "date")
}

func TestAddressProxyUnconfigured(t *testing.T) {
	server := newTestAPI(t)

	resp, _ := doJSON(t, http.MethodPost, server.URL+"/api/addresses/bounds", map[string]any{
		"north": 60.0, "south": 59.0, "east": 11.0, "west": 10.0,
	})
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestHealthWithoutDatabase(t *testing.T) {
	server := newTestAPI(t)

	resp, body := doJSON(t, http.MethodGet, server.URL+"/api/health", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "disabled", body["database"])
}

func TestMethodNotAllowed(t *testing.T) {
	server := newTestAPI(t)

	req, err := http.NewRequest(http.MethodGet, server.URL+"/api/save-status", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestCORSPreflight(t *testing.T) {
	server := newTestAPI(t)

	req, err := http.NewRequest(http.MethodOptions, server.URL+"/api/save-status", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://localhost:5173")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, "http://localhost:5173", resp.Header.Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", resp.Header.Get("Access-Control-Allow-Credentials"))
}

func TestCORSUnknownOrigin(t *testing.T) {
	server := newTestAPI(t)

	req, err := http.NewRequest(http.MethodGet, server.URL+"/api/health", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://evil.example")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Empty(t, resp.Header.Get("Access-Control-Allow-Origin"))
}
