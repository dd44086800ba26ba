package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"file-storage-api/internal/application/ports"
	"file-storage-api/internal/domain/caller"
)

const CtxCaller = "caller"

func abortUnauthorized(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(
		http.StatusUnauthorized,
		gin.H{"error": msg, "success": false},
	)
}

// AuthMiddleware is the only place a caller.Identity is built.
func AuthMiddleware(tokens ports.TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortUnauthorized(c, "missing Authorization header")
			return
		}

		tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenStr == authHeader || tokenStr == "" {
			abortUnauthorized(c, "invalid token format")
			return
		}

		claims, err := tokens.ValidateToken(tokenStr)
		if err != nil {
			abortUnauthorized(c, "invalid token")
			return
		}

		who, err := caller.FromVerifiedClaims(claims.UserID)
		if err != nil {
			abortUnauthorized(c, "invalid token")
			return
		}

		c.Set(CtxCaller, who)

		c.Next()
	}
}

// Caller returns the identity set by AuthMiddleware, or the zero identity.
func Caller(c *gin.Context) caller.Identity {
	v, ok := c.Get(CtxCaller)
	if !ok {
		return caller.Identity{}
	}
	who, _ := v.(caller.Identity)
	return who
}
