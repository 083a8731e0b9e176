package middleware

import (
	"crypto/subtle"
	"log"
	"net/http"
	"strings"

	"bearcart/api/utils"

	"github.com/gin-gonic/gin"
)

// AuthRequired accepts either the configured admin API key in X-API-KEY or a valid JWT from the jwt_token cookie
// or a Bearer Authorization header. An empty apiKey disables the key path; a nil tokens disables the JWT path.
func AuthRequired(tokens *utils.TokenManager, apiKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if apiKey != "" {
			if given := c.GetHeader("X-API-KEY"); subtle.ConstantTimeCompare([]byte(given), []byte(apiKey)) == 1 {
				c.Set("auth_method", "api_key")
				c.Next()
				return
			}
		}

		if tokens == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized: No valid credentials provided"})
			return
		}

		tokenString, err := c.Cookie("jwt_token")
		if err != nil {
			tokenString = strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
			if tokenString == "" {
				log.Println("AuthRequired: No JWT token found in cookie or header")
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized: No token provided"})
				return
			}
		}

		claims, err := tokens.ValidateJWT(tokenString)
		if err != nil {
			log.Printf("AuthRequired: Invalid JWT token: %v", err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized: Invalid or expired token"})
			return
		}

		c.Set("auth_method", "jwt")
		c.Set("user_id", claims.UserID)
		c.Set("user_email", claims.Email)
		c.Next()
	}
}
