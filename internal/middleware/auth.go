package middleware

import (
	"net/http"
	"strings"

	"github.com/kawojue/phrednetwork/config"
	"github.com/kawojue/phrednetwork/internal/auth"
	"github.com/kawojue/phrednetwork/internal/domain"

	"github.com/gin-gonic/gin"
)

// AuthRequired validates the bearer token and sets UserID, Username and
// Role in context. Suspended accounts are cut off here.
func AuthRequired(cfg *config.JWTConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := claimsFromHeader(cfg, c)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}
		if claims.Status == domain.StatusSuspended {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "account suspended"})
			return
		}
		setClaims(c, claims)
		c.Next()
	}
}

// OptionalAuth sets claims when a valid token is present but lets
// anonymous requests through. Used on read endpoints where the access
// gate applies different quotas per viewer class.
func OptionalAuth(cfg *config.JWTConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		if claims, err := claimsFromHeader(cfg, c); err == nil && claims.Status != domain.StatusSuspended {
			setClaims(c, claims)
		}
		c.Next()
	}
}

// RequireRole checks that the authenticated user has one of the allowed
// roles.
func RequireRole(allowed ...domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get("role")
		if !exists {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		r := role.(domain.Role)
		for _, a := range allowed {
			if r == a {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
	}
}

// RequireModerator admits admins and auditors.
func RequireModerator() gin.HandlerFunc {
	return RequireRole(domain.RoleAdmin, domain.RoleAuditor)
}

func claimsFromHeader(cfg *config.JWTConfig, c *gin.Context) (*auth.Claims, error) {
	header := c.GetHeader("Authorization")
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return nil, auth.ErrInvalidToken
	}
	return auth.ParseToken(cfg, parts[1])
}

func setClaims(c *gin.Context, claims *auth.Claims) {
	c.Set("user_id", claims.UserID)
	c.Set("username", claims.Username)
	c.Set("role", claims.Role)
	c.Set("claims", claims)
}

// GetUserID returns the authenticated user ID from context, zero for
// anonymous requests.
func GetUserID(c *gin.Context) uint {
	v, _ := c.Get("user_id")
	if v == nil {
		return 0
	}
	return v.(uint)
}

// GetRole returns the authenticated role, empty for anonymous requests.
func GetRole(c *gin.Context) domain.Role {
	v, _ := c.Get("role")
	if v == nil {
		return ""
	}
	return v.(domain.Role)
}
