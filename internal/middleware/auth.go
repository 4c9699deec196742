package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const userIDKey = "userID"

type claims struct {
	UserID string `json:"userId"`
	jwt.RegisteredClaims
}

func validateToken(tokenString, secret string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &claims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	if err != nil {
		return "", err
	}
	c, ok := token.Claims.(*claims)
	if !ok || !token.Valid {
		return "", errors.New("invalid token")
	}

	userID := c.UserID
	// Upstream services sometimes embed the raw ObjectID string form.
	if strings.HasPrefix(userID, "ObjectID(\"") && strings.HasSuffix(userID, "\")") {
		userID = userID[10 : len(userID)-2]
	}
	return userID, nil
}

// Auth resolves the caller's user ID from a Bearer token, falling back
// to the X-User-ID header set by the gateway. Requests with neither are
// rejected.
func Auth(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if strings.HasPrefix(authHeader, "Bearer ") && jwtSecret != "" {
			userID, err := validateToken(strings.TrimPrefix(authHeader, "Bearer "), jwtSecret)
			if err != nil {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
				c.Abort()
				return
			}
			c.Set(userIDKey, userID)
			c.Next()
			return
		}

		if userID := c.GetHeader("X-User-ID"); userID != "" {
			c.Set(userIDKey, userID)
			c.Next()
			return
		}

		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		c.Abort()
	}
}

// UserID returns the authenticated user ID stored by Auth.
func UserID(c *gin.Context) string {
	return c.GetString(userIDKey)
}
