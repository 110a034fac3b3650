// Package middleware provides the gin middlewares guarding the API: JWT
// bearer authentication and the admin-only gate.
package middleware

import (
	"net/http"
	"strings"

	"github.com/dgrijalva/jwt-go"
	"github.com/gin-gonic/gin"

	"medcert-dashboard-go/pkg/model"
)

// Context keys set by JWTAuthMiddleware.
const (
	ContextUserID   = "user_id"
	ContextLogin    = "login"
	ContextRole     = "role"
	ContextRegionID = "region_id"
)

// JWTAuthMiddleware validates the Authorization bearer token and stores the
// actor identity in the request context.
func JWTAuthMiddleware(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			return
		}

		tokenString := strings.TrimPrefix(header, "Bearer ")
		if tokenString == header {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Bearer token required"})
			return
		}

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(jwtSecret), nil
		})
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token claims"})
			return
		}

		if userID, ok := claims["user_id"].(float64); ok {
			c.Set(ContextUserID, int(userID))
		}
		if login, ok := claims["login"].(string); ok {
			c.Set(ContextLogin, login)
		}
		if role, ok := claims["role"].(string); ok {
			c.Set(ContextRole, role)
		}
		if regionID, ok := claims["region_id"].(float64); ok {
			c.Set(ContextRegionID, int(regionID))
		}

		c.Next()
	}
}

// AdminOnly rejects requests whose actor does not hold the global role.
func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(ContextRole) != model.RoleAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Administrator role required"})
			return
		}
		c.Next()
	}
}

// ActorFrom builds the explicit actor value from the verified claims.
func ActorFrom(c *gin.Context) model.Actor {
	actor := model.Actor{
		UserID: c.GetInt(ContextUserID),
		Role:   c.GetString(ContextRole),
	}
	if regionID, ok := c.Get(ContextRegionID); ok {
		if id, ok := regionID.(int); ok {
			actor.RegionID = &id
		}
	}
	return actor
}
