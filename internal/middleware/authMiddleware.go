package middleware

import (
	"net/http"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/mili4400/FinanzApp-Cloud/internal/service"
)

// UserContext is the session context attached to every authenticated
// request. Components receive it explicitly instead of reading ambient
// session state.
type UserContext struct {
	Username string `json:"username"`
	Language string `json:"language"`
}

// RequireAuth validates the Bearer access token and resolves the user from
// the credential store into the request context under "user".
func RequireAuth(users *service.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		jwtSecret := os.Getenv("ACCESS_TOKEN_SECRET")

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Access token not found"})
			c.Abort()
			return
		}
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrTokenSignatureInvalid
			}
			return []byte(jwtSecret), nil
		})
		if err != nil || !token.Valid {
			c.JSON(http.StatusForbidden, gin.H{"message": "Access token expired or incorrect"})
			c.Abort()
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid token"})
			c.Abort()
			return
		}

		username, ok := claims["username"].(string)
		if !ok || username == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "username not found in token"})
			c.Abort()
			return
		}

		record := users.Lookup(username)
		if record == nil {
			c.JSON(http.StatusNotFound, gin.H{"message": "User does not exist"})
			c.Abort()
			return
		}

		lang := record.Language
		if lang == "" {
			lang = "es"
		}
		c.Set("user", UserContext{Username: record.Username, Language: lang})
		c.Next()
	}
}
