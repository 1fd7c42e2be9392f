package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"property-desk/internal/events"
	"property-desk/internal/handlers"
	"property-desk/internal/metrics"
	"property-desk/internal/middleware"
	"property-desk/internal/repository"
	"property-desk/internal/services"
	"property-desk/internal/storage"
	"property-desk/internal/testutil"
)

type envelope struct {
	Success   bool              `json:"success"`
	Message   string            `json:"message"`
	RequestID string            `json:"request_id"`
	Data      json.RawMessage   `json:"data"`
	Errors    map[string]string `json:"errors"`
}

type tenantBody struct {
	ID              uint    `json:"id"`
	Name            string  `json:"name"`
	Email           string  `json:"email"`
	ApartmentNumber string  `json:"apartment_number"`
	CheckOutDate    *string `json:"check_out_date"`
}

type requestBody struct {
	ID              uint    `json:"id"`
	TenantID        uint    `json:"tenant_id"`
	ApartmentNumber string  `json:"apartment_number"`
	ProblemArea     string  `json:"problem_area"`
	Description     string  `json:"description"`
	Photo           *string `json:"photo"`
	Status          string  `json:"status"`
}

func init() {
	gin.SetMode(gin.TestMode)
}

func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()

	db := testutil.NewDB(t)
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	photos, err := storage.NewLocalPhotoStore(t.TempDir(), logger)
	require.NoError(t, err)

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	tenantRepo := repository.NewTenantRepository(db)
	requestRepo := repository.NewMaintenanceRepository(db)
	publisher := events.NopPublisher{}

	return handlers.NewRouter(handlers.RouterConfig{
		DB:             db,
		Tenants:        services.NewTenantService(tenantRepo, publisher, m, logger),
		Requests:       services.NewMaintenanceService(requestRepo, tenantRepo, photos, publisher, m, logger),
		Metrics:        m,
		Gatherer:       reg,
		Logger:         logger,
		MaxUploadBytes: 1024,
	})
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var env envelope
	if strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	}
	return w, env
}

func addTenant(t *testing.T, router *gin.Engine) tenantBody {
	t.Helper()

	w, env := doJSON(t, router, http.MethodPost, "/api/v1/tenants", map[string]string{
		"name":             "Jane Doe",
		"phone":            "555-0100",
		"email":            "jane@x.com",
		"apartment_number": "12B",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var tenant tenantBody
	require.NoError(t, json.Unmarshal(env.Data, &tenant))
	return tenant
}

func TestHealth(t *testing.T) {
	router := setupRouter(t)

	w, _ := doJSON(t, router, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = doJSON(t, router, http.MethodGet, "/ready", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequestIDIsEchoed(t *testing.T) {
	router := setupRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/tenants", nil)
	req.Header.Set(middleware.RequestIDHeader, "abc-123")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, "abc-123", w.Header().Get(middleware.RequestIDHeader))

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	assert.Equal(t, "abc-123", env.RequestID)
}

func TestTenantEndpoints(t *testing.T) {
	router := setupRouter(t)
	tenant := addTenant(t, router)
	assert.Equal(t, "jane@x.com", tenant.Email)

	w, env := doJSON(t, router, http.MethodPost, "/api/v1/tenants", map[string]string{
		"name": "Janet", "phone": "1", "email": "jane@x.com", "apartment_number": "4D",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, env.Errors, "email")

	w, env = doJSON(t, router, http.MethodGet, "/api/v1/tenants", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list []tenantBody
	require.NoError(t, json.Unmarshal(env.Data, &list))
	require.Len(t, list, 1)

	path := fmt.Sprintf("/api/v1/tenants/%d", tenant.ID)

	w, env = doJSON(t, router, http.MethodPut, path+"/apartment", map[string]string{"new_apartment_number": "3A"})
	require.Equal(t, http.StatusOK, w.Code)
	var moved tenantBody
	require.NoError(t, json.Unmarshal(env.Data, &moved))
	assert.Equal(t, "3A", moved.ApartmentNumber)

	w, env = doJSON(t, router, http.MethodPost, path+"/checkout", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var checkedOut tenantBody
	require.NoError(t, json.Unmarshal(env.Data, &checkedOut))
	assert.NotNil(t, checkedOut.CheckOutDate)

	w, _ = doJSON(t, router, http.MethodDelete, path, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = doJSON(t, router, http.MethodGet, path, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, env = doJSON(t, router, http.MethodGet, "/api/v1/tenants/abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, env.Errors, "id")
}

func TestRequestLifecycle(t *testing.T) {
	router := setupRouter(t)
	tenant := addTenant(t, router)

	w, env := doJSON(t, router, http.MethodPost, "/api/v1/requests", map[string]interface{}{
		"tenant_id":        tenant.ID,
		"apartment_number": "12B",
		"problem_area":     "plumbing",
		"description":      "leaky faucet",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var submitted requestBody
	require.NoError(t, json.Unmarshal(env.Data, &submitted))
	assert.Equal(t, "pending", submitted.Status)

	w, env = doJSON(t, router, http.MethodGet, "/api/v1/requests?status=pending", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var pending []requestBody
	require.NoError(t, json.Unmarshal(env.Data, &pending))
	require.Len(t, pending, 1)
	assert.Equal(t, submitted.ID, pending[0].ID)

	completePath := fmt.Sprintf("/api/v1/requests/%d/complete", submitted.ID)
	w, _ = doJSON(t, router, http.MethodPost, completePath, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w, _ = doJSON(t, router, http.MethodPost, completePath, nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w, _ = doJSON(t, router, http.MethodPost, "/api/v1/requests/999/complete", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, env = doJSON(t, router, http.MethodGet, "/api/v1/requests?status=completed&apartment_number=12B", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var completed []requestBody
	require.NoError(t, json.Unmarshal(env.Data, &completed))
	require.Len(t, completed, 1)
	assert.Equal(t, "leaky faucet", completed[0].Description)

	w, env = doJSON(t, router, http.MethodGet, "/api/v1/requests?status=open", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, env.Errors, "status")

	w, env = doJSON(t, router, http.MethodPost, "/api/v1/requests", map[string]interface{}{
		"tenant_id": 999, "apartment_number": "1A", "problem_area": "plumbing", "description": "x",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, env.Errors, "tenant_id")
}

func multipartRequest(t *testing.T, fields map[string]string, filename string, photo []byte) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, writer.WriteField(k, v))
	}
	if filename != "" {
		part, err := writer.CreateFormFile("photo", filename)
		require.NoError(t, err)
		_, err = part.Write(photo)
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/requests", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func TestSubmitRequestWithPhoto(t *testing.T) {
	router := setupRouter(t)
	tenant := addTenant(t, router)

	fields := map[string]string{
		"tenant_id":        fmt.Sprint(tenant.ID),
		"apartment_number": "12B",
		"problem_area":     "plumbing",
		"description":      "leaky faucet",
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, multipartRequest(t, fields, "sink.jpg", []byte("jpeg bytes")))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	var submitted requestBody
	require.NoError(t, json.Unmarshal(env.Data, &submitted))
	require.NotNil(t, submitted.Photo)
	assert.True(t, strings.HasSuffix(*submitted.Photo, "_sink.jpg"))

	stored, err := os.ReadFile(*submitted.Photo)
	require.NoError(t, err)
	assert.Equal(t, "jpeg bytes", string(stored))

	w = httptest.NewRecorder()
	router.ServeHTTP(w, multipartRequest(t, fields, "huge.jpg", bytes.Repeat([]byte("x"), 2048)))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	assert.Contains(t, env.Errors, "photo")
}

func TestSubmitRequestRejectsOversizedBody(t *testing.T) {
	router := setupRouter(t)
	tenant := addTenant(t, router)

	fields := map[string]string{
		"tenant_id":        fmt.Sprint(tenant.ID),
		"apartment_number": "12B",
		"problem_area":     "plumbing",
		"description":      "leaky faucet",
	}
	huge := bytes.Repeat([]byte("x"), 128<<10)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, multipartRequest(t, fields, "huge.jpg", huge))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	assert.Contains(t, env.Errors, "photo")

	// without a Content-Length the body is cut off while it is read
	req := multipartRequest(t, fields, "huge.jpg", huge)
	req.ContentLength = -1
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, env = doJSON(t, router, http.MethodGet, "/api/v1/requests", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var stored []requestBody
	require.NoError(t, json.Unmarshal(env.Data, &stored))
	assert.Empty(t, stored)
}

func TestMetricsEndpoint(t *testing.T) {
	router := setupRouter(t)
	addTenant(t, router)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "property_desk_tenants_added_total 1")
	assert.Contains(t, w.Body.String(), `route="/api/v1/tenants"`)
}
