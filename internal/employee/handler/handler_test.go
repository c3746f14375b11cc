package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fekuna/omnipos-warehouse-service/internal/auth"
	"github.com/fekuna/omnipos-warehouse-service/internal/employee/repository"
	"github.com/fekuna/omnipos-warehouse-service/internal/employee/usecase"
	"github.com/fekuna/omnipos-warehouse-service/internal/model"
	"github.com/fekuna/omnipos-warehouse-service/internal/testutil"
	"github.com/fekuna/omnipos-warehouse-service/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type harness struct {
	router *gin.Engine
	tokens *auth.TokenManager
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	log := logger.NewNop()
	tokens := auth.NewTokenManager("secret", "omnipos-auth", time.Hour)
	uc := usecase.NewEmployeeUseCase(repository.NewPGRepository(testutil.NewDB(t)), log)

	r := gin.New()
	NewEmployeeHandler(uc, log).Register(r.Group("/api/resources/employees", auth.Middleware(tokens, log)))
	return &harness{router: r, tokens: tokens}
}

func (h *harness) do(t *testing.T, method, path, employee string, roles []string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, "/api/resources/employees"+path, &buf)
	req.Header.Set("Content-Type", "application/json")
	token, err := h.tokens.Issue(employee, roles)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+token)

	w := httptest.NewRecorder()
	h.router.ServeHTTP(w, req)
	return w
}

func data[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var env struct {
		Data T `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return env.Data
}

var admin = []string{auth.RoleAdmin}

func body(name, email string) map[string]any {
	return map[string]any{
		"name":  name,
		"email": email,
		"phone": "+47 555 0100",
		"address": map[string]string{
			"street": "Dock 4", "city": "Oslo", "zip": "0150", "country": "Norway",
		},
	}
}

func TestEmployeeRoutes(t *testing.T) {
	h := newHarness(t)

	w := h.do(t, http.MethodPost, "", "staff-1", nil, body("Ola", "ola@example.com"))
	assert.Equal(t, http.StatusForbidden, w.Code, "create is admin only")

	w = h.do(t, http.MethodPost, "", "admin-1", admin, body("Ola", "ola@example.com"))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	ola := data[model.Employee](t, w)
	assert.Equal(t, model.TitleWorker, ola.Title)
	assert.Equal(t, "Oslo", ola.City)

	w = h.do(t, http.MethodGet, "/"+ola.ID, "staff-1", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ola@example.com", data[model.Employee](t, w).Email)

	w = h.do(t, http.MethodGet, "/name", ola.ID, nil, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "Ola", data[map[string]string](t, w)["name"])

	w = h.do(t, http.MethodGet, "/names", "staff-1", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []model.EmployeeName{{ID: ola.ID, Name: "Ola"}}, data[[]model.EmployeeName](t, w))

	w = h.do(t, http.MethodGet, "", "staff-1", nil, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	w = h.do(t, http.MethodGet, "", "admin-1", admin, nil)
	assert.Len(t, data[[]model.Employee](t, w), 1)

	update := body("Ola N", "ola@example.com")
	w = h.do(t, http.MethodPut, "/"+ola.ID, "staff-1", nil, update)
	assert.Equal(t, http.StatusForbidden, w.Code, "only self or admin")
	w = h.do(t, http.MethodPut, "/"+ola.ID, ola.ID, nil, update)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "Ola N", data[model.Employee](t, w).Name)

	w = h.do(t, http.MethodPatch, "/"+ola.ID+"/title/manager", ola.ID, nil, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	w = h.do(t, http.MethodPatch, "/"+ola.ID+"/title/manager", "admin-1", admin, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, model.TitleManager, data[model.Employee](t, w).Title)

	w = h.do(t, http.MethodDelete, "/"+ola.ID, ola.ID, nil, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	w = h.do(t, http.MethodDelete, "/"+ola.ID, "admin-1", admin, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w = h.do(t, http.MethodGet, "/"+ola.ID, "staff-1", nil, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateEmployeeBadBody(t *testing.T) {
	h := newHarness(t)

	w := h.do(t, http.MethodPost, "", "admin-1", admin, map[string]any{"name": "Ola", "email": "nope"})
	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp struct {
		Errors []struct {
			Field string `json:"field"`
		} `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	fields := map[string]bool{}
	for _, e := range resp.Errors {
		fields[e.Field] = true
	}
	assert.True(t, fields["email"])
	assert.True(t, fields["phone"])
}
