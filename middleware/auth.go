package middleware

import (
	"strings"

	"tonotes/apperr"
	"tonotes/model"
	"tonotes/usecase"
	"tonotes/utils"

	"github.com/gin-gonic/gin"
)

// identityContextKey holds a model.Identity; only AuthMiddleware writes it.
const identityContextKey = "tonotes.identity"

// BearerToken returns the token from "Authorization: Bearer <token>", or "" when absent.
func BearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if len(authHeader) < 7 || !strings.EqualFold(authHeader[:7], "Bearer ") {
		return ""
	}
	return strings.TrimSpace(authHeader[7:])
}

// AuthMiddleware resolves the caller through provider and rejects anonymous requests.
func AuthMiddleware(provider usecase.IdentityProvider) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, err := provider.GetUser(c.Request.Context(), BearerToken(c))
		if err != nil || identity == nil {
			utils.TrackError(apperr.KindUnauthorized.String())
			utils.Unauthorized(c, apperr.ErrUnauthorized.Error())
			c.Abort()
			return
		}

		c.Set(identityContextKey, *identity)
		c.Next()
	}
}

// IdentityFrom returns the identity AuthMiddleware stored. ok is false on unprotected routes.
func IdentityFrom(c *gin.Context) (model.Identity, bool) {
	v, exists := c.Get(identityContextKey)
	if !exists {
		return model.Identity{}, false
	}
	identity, ok := v.(model.Identity)
	return identity, ok
}
