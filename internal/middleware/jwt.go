package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sgp/sgp-backend/internal/response"
	"github.com/sgp/sgp-backend/internal/service"
)

const (
	// ContextKeyClaims is the Gin context key for JWT claims.
	ContextKeyClaims = "claims"
)

// tokenValidator is the part of service.AuthService the middleware needs.
type tokenValidator interface {
	ValidateToken(tokenStr string) (*service.Claims, error)
}

// RequireAdminJWT validates an admin JWT from the Authorization header, or
// from ?token= on stream requests (websocket upgrade, EventSource) which
// cannot set headers. Plain REST calls must use the header.
func RequireAdminJWT(auth tokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr, err := extractToken(c)
		if err != nil {
			response.AbortFail(c, http.StatusUnauthorized, response.ErrTokenRequired)
			return
		}

		claims, err := auth.ValidateToken(tokenStr)
		if err != nil {
			response.AbortFail(c, http.StatusUnauthorized, response.ErrTokenInvalid)
			return
		}

		if claims.TokenType != service.TokenTypeAdmin {
			response.AbortFail(c, http.StatusForbidden, response.ErrAdminAccessOnly)
			return
		}

		c.Set(ContextKeyClaims, claims)
		c.Next()
	}
}

// GetClaims retrieves the JWT claims from the Gin context.
func GetClaims(c *gin.Context) *service.Claims {
	val, exists := c.Get(ContextKeyClaims)
	if !exists {
		return nil
	}
	claims, ok := val.(*service.Claims)
	if !ok {
		return nil
	}
	return claims
}

func extractToken(c *gin.Context) (string, error) {
	if authHeader := c.GetHeader("Authorization"); authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") && parts[1] != "" {
			return parts[1], nil
		}
	}

	if isStreamRequest(c.Request) {
		if tokenStr := c.Query("token"); tokenStr != "" {
			return tokenStr, nil
		}
	}

	return "", fmt.Errorf("authorization header required")
}

func isStreamRequest(r *http.Request) bool {
	return websocket.IsWebSocketUpgrade(r) ||
		strings.Contains(r.Header.Get("Accept"), "text/event-stream")
}
