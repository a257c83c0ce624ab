package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// Claims is the identity the token carries. The core logic trusts it
// without re-validating credentials.
type Claims struct {
	UserID   int64
	Username string
	IsAdmin  bool
}

// ParseToken verifies an HS256 token and extracts its claims.
func ParseToken(secret []byte, tokenString string) (Claims, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		return Claims{}, err
	}
	if !token.Valid {
		return Claims{}, fmt.Errorf("invalid token")
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Claims{}, fmt.Errorf("unexpected claims type")
	}

	userID, ok := mapClaims["user_id"].(float64)
	if !ok {
		return Claims{}, fmt.Errorf("token has no user_id claim")
	}
	username, _ := mapClaims["username"].(string)
	isAdmin, _ := mapClaims["is_admin"].(bool)

	return Claims{
		UserID:   int64(userID),
		Username: username,
		IsAdmin:  isAdmin,
	}, nil
}

// AuthMiddleware rejects requests without a valid bearer token and puts
// the caller's identity into the gin context.
func AuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
			return
		}

		claims, err := ParseToken([]byte(secret), strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("username", claims.Username)
		c.Set("is_admin", claims.IsAdmin)
		c.Next()
	}
}
