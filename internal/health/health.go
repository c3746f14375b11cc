// Package health reports dependency status over HTTP and gRPC.
package health

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/fekuna/omnipos-warehouse-service/pkg/ginx"
	"github.com/fekuna/omnipos-warehouse-service/pkg/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

const probeTimeout = 2 * time.Second

type Probe func(ctx context.Context) error

// Checker runs named probes. Required probes decide overall health; the rest
// are reported but may fail.
type Checker struct {
	required map[string]Probe
	optional map[string]Probe
	logger   logger.ZapLogger
}

func NewChecker(log logger.ZapLogger) *Checker {
	return &Checker{
		required: map[string]Probe{},
		optional: map[string]Probe{},
		logger:   log,
	}
}

func (c *Checker) Require(name string, p Probe) *Checker {
	c.required[name] = p
	return c
}

func (c *Checker) Optional(name string, p Probe) *Checker {
	c.optional[name] = p
	return c
}

type Report struct {
	Healthy    bool              `json:"healthy"`
	Components map[string]string `json:"components"`
}

func (c *Checker) Check(ctx context.Context) Report {
	r := Report{Healthy: true, Components: map[string]string{}}
	run := func(probes map[string]Probe, required bool) {
		names := make([]string, 0, len(probes))
		for n := range probes {
			names = append(names, n)
		}
		sort.Strings(names)
		for _, name := range names {
			pctx, cancel := context.WithTimeout(ctx, probeTimeout)
			err := probes[name](pctx)
			cancel()
			if err != nil {
				c.logger.Warn("health probe failed", zap.String("component", name), zap.Error(err))
				r.Components[name] = "down"
				if required {
					r.Healthy = false
				}
				continue
			}
			r.Components[name] = "up"
		}
	}
	run(c.required, true)
	run(c.optional, false)
	return r
}

func (c *Checker) Handler(ctx *gin.Context) {
	r := c.Check(ctx.Request.Context())
	if !r.Healthy {
		ctx.JSON(http.StatusServiceUnavailable, ginx.Response{Status: "error", Message: "Service unhealthy", Data: r})
		return
	}
	ginx.OK(ctx, r)
}

// Watch keeps the gRPC health server in step with the required probes until
// ctx is done.
func (c *Checker) Watch(ctx context.Context, srv *health.Server, every time.Duration) {
	update := func() {
		status := healthpb.HealthCheckResponse_SERVING
		if !c.Check(ctx).Healthy {
			status = healthpb.HealthCheckResponse_NOT_SERVING
		}
		srv.SetServingStatus("", status)
	}
	update()

	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			srv.Shutdown()
			return
		case <-ticker.C:
			update()
		}
	}
}
