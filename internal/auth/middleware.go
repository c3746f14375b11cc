package auth

import (
	"strings"

	"github.com/fekuna/omnipos-warehouse-service/pkg/apperror"
	"github.com/fekuna/omnipos-warehouse-service/pkg/ginx"
	"github.com/fekuna/omnipos-warehouse-service/pkg/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const principalGinKey = "auth.principal"

// Middleware verifies the bearer token and stores the principal on both the
// gin context and the request context.
func Middleware(tokens *TokenManager, log logger.ZapLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := bearerToken(c.GetHeader("Authorization"))
		if raw == "" {
			log.Debug("no token provided", zap.String("path", c.Request.URL.Path))
			ginx.Error(c, log, apperror.Permission("No token was provided"))
			return
		}

		p, err := tokens.Parse(raw)
		if err != nil {
			log.Debug("token rejected", zap.Error(err))
			ginx.Error(c, log, apperror.Unauthenticated("Token not valid - Unauthorized!"))
			return
		}

		c.Set(principalGinKey, p)
		c.Request = c.Request.WithContext(WithPrincipal(c.Request.Context(), p))
		c.Next()
	}
}

// RequireRole lets the request through when the principal holds any of roles.
func RequireRole(log logger.ZapLogger, roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		p := Current(c)
		if !p.HasRole(roles...) {
			ginx.Error(c, log, apperror.Permission(strings.Join(roles, " or ")+" role required"))
			return
		}
		c.Next()
	}
}

func Current(c *gin.Context) *Principal {
	if v, ok := c.Get(principalGinKey); ok {
		if p, ok := v.(*Principal); ok {
			return p
		}
	}
	return nil
}

func bearerToken(header string) string {
	const prefix = "bearer "
	if len(header) > len(prefix) && strings.EqualFold(header[:len(prefix)], prefix) {
		return strings.TrimSpace(header[len(prefix):])
	}
	return ""
}
