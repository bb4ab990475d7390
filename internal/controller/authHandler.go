package controller

import (
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/mili4400/FinanzApp-Cloud/internal/service"
)

type SignInRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Language string `json:"language"`
}

type jwtClaims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

var accessTTL = 15 * time.Minute

// SignIn validates credentials against the user store and issues a JWT
// access token. Unknown user and wrong password produce the same response.
func SignIn(users *service.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		jwtSecret := os.Getenv("ACCESS_TOKEN_SECRET")

		var req SignInRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid data"})
			return
		}

		if !users.Authenticate(req.Username, req.Password) {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Incorrect username or password"})
			return
		}

		claims := jwtClaims{
			Username: req.Username,
			RegisteredClaims: jwt.RegisteredClaims{
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(accessTTL)),
				IssuedAt:  jwt.NewNumericDate(time.Now()),
				ID:        uuid.NewString(),
			},
		}
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
		accessToken, err := token.SignedString([]byte(jwtSecret))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "System error (jwt)"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"accessToken": accessToken,
			"expiresIn":   int(accessTTL.Seconds()),
		})
	}
}

// SignOut ends the session. Access tokens are stateless, so there is
// nothing to revoke server-side; the cookie copy, if any, is cleared.
func SignOut() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.SetCookie("accessToken", "", -1, "/", "", false, true)
		c.Status(http.StatusNoContent)
	}
}

// Register provisions a new user. Only the admin account may call it; the
// password is stored as a bcrypt hash.
func Register(users *service.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		current, ok := currentUser(c)
		if !ok || current.Username != "admin" {
			c.JSON(http.StatusForbidden, gin.H{"message": "Admin only"})
			return
		}

		var req RegisterRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid data"})
			return
		}
		if req.Username == "" || req.Password == "" {
			c.JSON(http.StatusBadRequest, gin.H{"message": "username and password are required."})
			return
		}

		if err := users.AddUser(req.Username, req.Password, req.Language); err != nil {
			if errors.Is(err, service.ErrUserExists) {
				c.JSON(http.StatusConflict, gin.H{"message": "username already exists"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"message": "System error (add user)"})
			return
		}

		c.Status(http.StatusNoContent)
	}
}
