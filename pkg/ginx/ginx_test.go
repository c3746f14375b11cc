package ginx

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/fekuna/omnipos-warehouse-service/pkg/apperror"
	"github.com/fekuna/omnipos-warehouse-service/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func perform(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) Response {
	t.Helper()
	var resp Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestErrorRendering(t *testing.T) {
	log := logger.NewNop()
	cases := []struct {
		name   string
		err    error
		code   int
		status string
		msg    string
	}{
		{"not found", apperror.NotFound("Item", "7"), http.StatusNotFound, "failed", "Item 7 not found!"},
		{"conflict", apperror.Conflict("SKU already exists"), http.StatusConflict, "failed", "SKU already exists"},
		{"permission", apperror.Permission("forbidden"), http.StatusForbidden, "failed", "forbidden"},
		{"transaction", apperror.Transaction("stock update failed", errors.New("disk")), http.StatusInternalServerError, "error", "stock update failed"},
		{"unexpected", errors.New("boom"), http.StatusInternalServerError, "error", "Internal server error"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := gin.New()
			r.GET("/x", func(c *gin.Context) { Error(c, log, tc.err) })

			w := perform(r, http.MethodGet, "/x", "")
			assert.Equal(t, tc.code, w.Code)
			resp := decode(t, w)
			assert.Equal(t, tc.status, resp.Status)
			assert.Equal(t, tc.msg, resp.Message)
		})
	}
}

func TestErrorRenderingFields(t *testing.T) {
	r := gin.New()
	r.GET("/x", func(c *gin.Context) {
		Error(c, logger.NewNop(), apperror.Validation("Invalid item",
			apperror.FieldError{Field: "stock", Message: "stock cannot be below 0"},
			apperror.FieldError{Field: "name", Message: "name cannot be empty"},
		))
	})

	w := perform(r, http.MethodGet, "/x", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp := decode(t, w)
	require.Len(t, resp.Errors, 2)
	assert.Equal(t, "stock", resp.Errors[0].Field)
}

type bindTarget struct {
	Name  string `json:"name" binding:"required"`
	Stock *int   `json:"stock" binding:"required,min=0"`
}

func TestBindJSON(t *testing.T) {
	r := gin.New()
	r.POST("/x", func(c *gin.Context) {
		var in bindTarget
		if !BindJSON(c, logger.NewNop(), &in) {
			return
		}
		OK(c, in.Name)
	})

	w := perform(r, http.MethodPost, "/x", `{"stock":-1}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp := decode(t, w)
	assert.Len(t, resp.Errors, 2)

	w = perform(r, http.MethodPost, "/x", `{not json`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = perform(r, http.MethodPost, "/x", `{"name":"Widget","stock":1}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Widget", decode(t, w).Data)
}

func TestRequestLoggerLevels(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	log := logger.NewFromZap(zap.New(core))

	r := gin.New()
	r.Use(RequestLogger(log))
	r.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/bad", func(c *gin.Context) { c.Status(http.StatusBadRequest) })

	perform(r, http.MethodGet, "/ok", "")
	perform(r, http.MethodGet, "/bad", "")

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, zap.InfoLevel, entries[0].Level)
	assert.Equal(t, zap.WarnLevel, entries[1].Level)
	assert.Equal(t, "/bad", entries[1].ContextMap()["path"])
}

func TestRecovery(t *testing.T) {
	r := gin.New()
	r.Use(Recovery(logger.NewNop()))
	r.GET("/panic", func(c *gin.Context) { panic("kaboom") })

	w := perform(r, http.MethodGet, "/panic", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "error", decode(t, w).Status)
}

func TestRateLimit(t *testing.T) {
	clock := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	now := func() time.Time { return clock }

	r := gin.New()
	r.Use(rateLimit(RateLimitConfig{Requests: 2, Window: time.Minute}, logger.NewNop(), now))
	r.GET("/x", func(c *gin.Context) { OK(c, "ok") })

	from := func(ip string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/x", nil)
		req.RemoteAddr = ip + ":4000"
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	assert.Equal(t, http.StatusOK, from("10.0.0.1").Code)
	assert.Equal(t, http.StatusOK, from("10.0.0.1").Code)

	w := from("10.0.0.1")
	require.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "30", w.Header().Get("Retry-After"))
	resp := decode(t, w)
	assert.Equal(t, "failed", resp.Status)
	assert.Equal(t, "Too many requests, please try again later", resp.Message)

	assert.Equal(t, http.StatusOK, from("10.0.0.2").Code, "limits are per client")

	clock = clock.Add(30 * time.Second)
	assert.Equal(t, http.StatusOK, from("10.0.0.1").Code)
}

func TestRateLimitDisabled(t *testing.T) {
	r := gin.New()
	r.Use(RateLimit(RateLimitConfig{}, logger.NewNop()))
	r.GET("/x", func(c *gin.Context) { OK(c, "ok") })

	for i := 0; i < 5; i++ {
		assert.Equal(t, http.StatusOK, perform(r, http.MethodGet, "/x", "").Code)
	}
}
