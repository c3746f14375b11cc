package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fekuna/omnipos-warehouse-service/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func ok(context.Context) error   { return nil }
func down(context.Context) error { return errors.New("connection refused") }

func TestCheck(t *testing.T) {
	c := NewChecker(logger.NewNop()).Require("database", ok).Optional("elasticsearch", down)

	r := c.Check(context.Background())
	assert.True(t, r.Healthy, "optional failures do not fail the service")
	assert.Equal(t, map[string]string{"database": "up", "elasticsearch": "down"}, r.Components)

	c.Require("redis", down)
	assert.False(t, c.Check(context.Background()).Healthy)
}

func TestHandler(t *testing.T) {
	for _, tc := range []struct {
		name  string
		probe Probe
		code  int
	}{
		{"healthy", ok, http.StatusOK},
		{"unhealthy", down, http.StatusServiceUnavailable},
	} {
		t.Run(tc.name, func(t *testing.T) {
			r := gin.New()
			r.GET("/api/health", NewChecker(logger.NewNop()).Require("database", tc.probe).Handler)

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/health", nil))
			assert.Equal(t, tc.code, w.Code)

			var body struct {
				Data Report `json:"data"`
			}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Contains(t, body.Data.Components, "database")
		})
	}
}

func TestWatch(t *testing.T) {
	srv := health.NewServer()
	healthy := make(chan bool, 1)
	healthy <- false
	probe := func(context.Context) error {
		select {
		case v := <-healthy:
			if !v {
				return errors.New("down")
			}
		default:
		}
		return nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		NewChecker(logger.NewNop()).Require("database", probe).Watch(ctx, srv, 10*time.Millisecond)
		close(done)
	}()

	assert.Eventually(t, func() bool {
		res, err := srv.Check(context.Background(), &healthpb.HealthCheckRequest{})
		return err == nil && res.Status == healthpb.HealthCheckResponse_SERVING
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	<-done
}
