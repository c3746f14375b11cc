// Package ginx holds the gin glue shared by every HTTP handler: access
// logging, panic recovery and the JSON envelope for errors and results.
package ginx

import (
	"net/http"
	"time"

	"github.com/fekuna/omnipos-warehouse-service/pkg/apperror"
	"github.com/fekuna/omnipos-warehouse-service/pkg/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Response struct {
	Status  string                `json:"status"`
	Message string                `json:"message,omitempty"`
	Data    any                   `json:"data,omitempty"`
	Errors  []apperror.FieldError `json:"errors,omitempty"`
}

func RequestLogger(log logger.ZapLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}

		switch {
		case c.Writer.Status() >= http.StatusInternalServerError:
			log.Error("http request", fields...)
		case c.Writer.Status() >= http.StatusBadRequest:
			log.Warn("http request", fields...)
		default:
			log.Info("http request", fields...)
		}
	}
}

func Recovery(log logger.ZapLogger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		log.Error("panic recovered", zap.Any("panic", recovered), zap.String("path", c.Request.URL.Path))
		c.AbortWithStatusJSON(http.StatusInternalServerError, Response{
			Status:  "error",
			Message: "Internal server error",
		})
	})
}

// Error renders err and aborts the request. Client errors use status
// "failed"; server errors use "error" and hide the cause.
func Error(c *gin.Context, log logger.ZapLogger, err error) {
	code := apperror.HTTPStatus(err)
	_ = c.Error(err)

	if code >= http.StatusInternalServerError {
		if apperror.IsOperational(err) {
			log.Error("request failed", zap.String("path", c.Request.URL.Path), zap.Error(err))
			c.AbortWithStatusJSON(code, Response{Status: "error", Message: messageOf(err)})
			return
		}
		log.Error("unexpected error", zap.String("path", c.Request.URL.Path), zap.Error(err))
		c.AbortWithStatusJSON(code, Response{Status: "error", Message: "Internal server error"})
		return
	}

	resp := Response{Status: "failed", Message: messageOf(err)}
	var appErr *apperror.Error
	if asAppError(err, &appErr) {
		resp.Errors = appErr.Fields
	}
	c.AbortWithStatusJSON(code, resp)
}

func OK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, Response{Status: "success", Data: data})
}

func Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, Response{Status: "success", Data: data})
}

func Message(c *gin.Context, code int, msg string) {
	c.JSON(code, Response{Status: "success", Message: msg})
}

// BindJSON decodes the body into dst, rendering a validation error on failure.
func BindJSON(c *gin.Context, log logger.ZapLogger, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		Error(c, log, apperror.FromValidator("Invalid request body", 0, wrapBindError(err)))
		return false
	}
	return true
}

func messageOf(err error) string {
	var appErr *apperror.Error
	if asAppError(err, &appErr) {
		return appErr.Message
	}
	return err.Error()
}
