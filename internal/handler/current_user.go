package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/mili4400/FinanzApp-Cloud/internal/middleware"
)

// GetCurrentUser reads the session context the auth middleware stored on
// the request.
func GetCurrentUser(c *gin.Context) (*middleware.UserContext, error) {
	v, ok := c.Get("user")
	if !ok || v == nil {
		return nil, errors.New("user not found in context")
	}
	if uc, ok := v.(middleware.UserContext); ok {
		return &uc, nil
	}
	return nil, errors.New("invalid user data in context")
}
