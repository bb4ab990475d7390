package route

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mili4400/FinanzApp-Cloud/internal/controller"
	"github.com/mili4400/FinanzApp-Cloud/internal/service"
)

func HealthRoutes(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}

func AuthRoutes(r *gin.Engine, users *service.UserService) {
	auth := r.Group("/auth")

	auth.POST("/login", controller.SignIn(users))
	auth.POST("/logout", controller.SignOut())
}

// UserRoutes are mounted behind RequireAuth.
func UserRoutes(r *gin.Engine, users *service.UserService) {
	user := r.Group("/user")

	user.GET("/profile", controller.AuthMe())
	user.GET("/history", controller.GetHistory(users))

	r.POST("/auth/register", controller.Register(users))
}
