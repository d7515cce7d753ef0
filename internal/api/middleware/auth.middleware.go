// internal/api/middleware/auth.middleware.go
package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/platformbuilds/klaxon-core/internal/config"
	"github.com/platformbuilds/klaxon-core/internal/monitoring"
)

const (
	// DefaultTenantID is the fallback tenant ID when none is specified
	DefaultTenantID = "default"
	// UnknownTenantID represents an unknown/unset tenant
	UnknownTenantID = "unknown"
)

// userClaims is the identity carried by a validated bearer token.
type userClaims struct {
	UserID   string
	TenantID string
	Roles    []string
}

// AuthMiddleware validates JWT bearer tokens for KLAXON-CORE
func AuthMiddleware(authConfig config.AuthConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Skip auth for public endpoints
		if isPublicEndpoint(c.Request.URL.Path) {
			c.Next()
			return
		}

		// Extract token from request
		token := extractToken(c)
		if token == "" {
			monitoring.RecordAuthAttempt("jwt", "missing")
			c.JSON(http.StatusUnauthorized, gin.H{
				"status": "error",
				"error":  "Authentication required",
			})
			c.Abort()
			return
		}

		claims, err := validateJWTToken(token, authConfig)
		if err != nil {
			monitoring.RecordAuthAttempt("jwt", "failure")
			c.JSON(http.StatusUnauthorized, gin.H{
				"status": "error",
				"error":  "Invalid authentication token",
				"detail": err.Error(),
			})
			c.Abort()
			return
		}
		monitoring.RecordAuthAttempt("jwt", "success")

		// Set context for downstream middleware and handlers
		c.Set("user_id", claims.UserID)
		c.Set("tenant_id", claims.TenantID)
		c.Set("user_roles", claims.Roles)

		// Add security headers
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("X-XSS-Protection", "1; mode=block")

		c.Next()
	}
}

// extractToken gets the bearer token from various sources
func extractToken(c *gin.Context) string {
	// Try Authorization header first (Bearer token)
	authHeader := c.GetHeader("Authorization")
	if authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			return parts[1]
		}
	}

	// Try cookie (fallback for browser sessions)
	if cookie, err := c.Cookie("klaxon_session"); err == nil {
		return cookie
	}

	// Try query parameter (for WebSocket upgrades)
	if queryToken := c.Query("token"); queryToken != "" {
		return queryToken
	}

	return ""
}

// validateJWTToken verifies an HMAC-signed JWT and extracts the caller identity
func validateJWTToken(tokenString string, authConfig config.AuthConfig) (*userClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		// Verify signing method
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(authConfig.JWTSecret), nil
	})

	if err != nil || !token.Valid {
		return nil, fmt.Errorf("invalid JWT token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("invalid token claims")
	}

	userID, ok := claims["sub"].(string)
	if !ok {
		return nil, fmt.Errorf("missing user ID in token")
	}

	tenantID, ok := claims["tenant"].(string)
	if !ok {
		tenantID = DefaultTenantID // Fallback tenant
	}

	// Extract roles
	var userRoles []string
	if rolesInterface, exists := claims["roles"]; exists {
		if rolesList, ok := rolesInterface.([]interface{}); ok {
			for _, role := range rolesList {
				if roleStr, ok := role.(string); ok {
					userRoles = append(userRoles, roleStr)
				}
			}
		}
	}

	return &userClaims{
		UserID:   userID,
		TenantID: tenantID,
		Roles:    userRoles,
	}, nil
}

// isPublicEndpoint checks if an endpoint requires authentication
func isPublicEndpoint(path string) bool {
	publicPaths := []string{
		"/health",
		"/ready",
		"/catalog/status",
		"/api/openapi.json",
		"/api/openapi.yaml",
		"/swagger/", // Swagger UI
		"/metrics",  // Prometheus metrics endpoint
	}

	for _, publicPath := range publicPaths {
		if strings.HasPrefix(path, publicPath) {
			return true
		}
	}

	return false
}

// RequireTenant ensures tenant context is available
func RequireTenant() gin.HandlerFunc {
	return func(c *gin.Context) {
		tenantID := c.GetString("tenant_id")
		if tenantID == "" || tenantID == UnknownTenantID {
			c.JSON(http.StatusBadRequest, gin.H{
				"status": "error",
				"error":  "Tenant context required",
			})
			c.Abort()
			return
		}
		c.Next()
	}
}
