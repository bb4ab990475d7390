package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mili4400/FinanzApp-Cloud/internal/middleware"
	"github.com/mili4400/FinanzApp-Cloud/internal/service"
)

// currentUser reads the session context the auth middleware stored on the
// request.
func currentUser(c *gin.Context) (middleware.UserContext, bool) {
	v, ok := c.Get("user")
	if !ok {
		return middleware.UserContext{}, false
	}
	uc, ok := v.(middleware.UserContext)
	return uc, ok
}

// AuthMe returns the session context the auth middleware resolved.
func AuthMe() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "User not found in context"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"user": user})
	}
}

// GetHistory returns the user's ticker history, most recent first. An
// unknown user yields an empty list.
func GetHistory(users *service.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "User not found in context"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"history": users.History(user.Username)})
	}
}
