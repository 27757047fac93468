package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"bootcamper/internal/domain"
	"bootcamper/internal/domain/models"
	"bootcamper/internal/token"
)

const principalKey = "principal"

// PrincipalLoader fetches the account behind a token subject so role changes
// take effect without waiting for the token to expire.
type PrincipalLoader interface {
	GetByID(ctx context.Context, id string) (models.User, error)
}

// Authenticate requires a valid session token, from the Authorization bearer
// header or the token cookie, and stores the principal on the context.
func Authenticate(tokens *token.Manager, users PrincipalLoader) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := bearerToken(c)
		if raw == "" {
			abortUnauthorized(c, "not authorized to access this route")
			return
		}

		p, err := tokens.Parse(raw)
		if err != nil {
			abortUnauthorized(c, "not authorized to access this route")
			return
		}

		u, err := users.GetByID(c.Request.Context(), p.ID)
		if err != nil {
			abortUnauthorized(c, "not authorized to access this route")
			return
		}

		c.Set(principalKey, u.Principal())
		c.Next()
	}
}

// RequireRoles allows only the listed roles past. Must run after
// Authenticate.
func RequireRoles(roles ...domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := GetPrincipal(c)
		if !ok {
			abortUnauthorized(c, "not authorized to access this route")
			return
		}
		for _, r := range roles {
			if p.Role == r {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"success":    false,
			"error":      "user role " + string(p.Role) + " is not authorized to access this route",
			"request_id": GetRequestID(c),
		})
	}
}

// GetPrincipal returns the authenticated principal set by Authenticate.
func GetPrincipal(c *gin.Context) (domain.Principal, bool) {
	v, ok := c.Get(principalKey)
	if !ok {
		return domain.Principal{}, false
	}
	p, ok := v.(domain.Principal)
	return p, ok
}

func bearerToken(c *gin.Context) string {
	if h := c.GetHeader("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	}
	if cookie, err := c.Cookie("token"); err == nil {
		return cookie
	}
	return ""
}

func abortUnauthorized(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"success":    false,
		"error":      msg,
		"request_id": GetRequestID(c),
	})
}
