package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"storefront/auth"
	"storefront/models"
	"storefront/util"
)

const principalKey = "principal"

// PrincipalResolver is the part of auth.Resolver the middleware needs.
type PrincipalResolver interface {
	ResolvePrincipal(ctx context.Context, token string) (models.Principal, error)
	RequireAdmin(p models.Principal) (models.Principal, error)
}

// AuthMiddleware resolves the bearer token into a principal for the rest of
// the chain. Any failure ends the request with 401.
func AuthMiddleware(resolver PrincipalResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			unauthorized(c)
			return
		}

		principal, err := resolver.ResolvePrincipal(c.Request.Context(), tokenString)
		if err != nil {
			if !errors.Is(err, auth.ErrUnauthorized) {
				util.GetLogger().Error("Failed to resolve principal", zap.Error(err))
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
				return
			}
			unauthorized(c)
			return
		}

		c.Set(principalKey, principal)
		c.Next()
	}
}

// AdminMiddleware must run after AuthMiddleware.
func AdminMiddleware(resolver PrincipalResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, err := resolver.RequireAdmin(CurrentPrincipal(c)); err != nil {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"detail": "Forbidden! You are not authorized to access this API",
			})
			return
		}
		c.Next()
	}
}

// CurrentPrincipal returns the principal stored by AuthMiddleware, or nil.
func CurrentPrincipal(c *gin.Context) models.Principal {
	v, ok := c.Get(principalKey)
	if !ok {
		return nil
	}
	p, _ := v.(models.Principal)
	return p
}

func bearerToken(header string) (string, bool) {
	const prefix = "Bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", false
	}
	token := strings.TrimSpace(header[len(prefix):])
	return token, token != ""
}

func unauthorized(c *gin.Context) {
	c.Header("WWW-Authenticate", "Bearer")
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "Could not validate credentials"})
}
