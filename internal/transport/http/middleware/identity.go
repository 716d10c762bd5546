package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"mediaitor/internal/identity"
	"mediaitor/internal/pkg/jwtutil"
	"mediaitor/internal/transport/http/response"
)

const ContextIdentityKey = "identity"

// Identity resolves the caller from a bearer token when one is present and
// valid. It never rejects a request; RequireIdentity does that.
func Identity(secret, issuer string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := strings.TrimSpace(c.GetHeader("Authorization"))
		const prefix = "Bearer "
		if authHeader == "" || !strings.HasPrefix(authHeader, prefix) {
			c.Next()
			return
		}

		token := strings.TrimSpace(strings.TrimPrefix(authHeader, prefix))
		claims, err := jwtutil.ParseToken(secret, issuer, token)
		if err != nil {
			c.Next()
			return
		}

		id := claims.Identity()
		c.Set(ContextIdentityKey, &id)
		c.Next()
	}
}

func RequireIdentity() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := CallerFromContext(c); !ok {
			response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "not authenticated")
			c.Abort()
			return
		}
		c.Next()
	}
}

// CallerFromContext returns the identity stored by Identity, if any.
func CallerFromContext(c *gin.Context) (*identity.Identity, bool) {
	v, exists := c.Get(ContextIdentityKey)
	if !exists {
		return nil, false
	}
	id, ok := v.(*identity.Identity)
	return id, ok && id != nil
}
