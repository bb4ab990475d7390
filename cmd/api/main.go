package main

import (
	"log"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/mili4400/FinanzApp-Cloud/internal/data"
	"github.com/mili4400/FinanzApp-Cloud/internal/handler"
	"github.com/mili4400/FinanzApp-Cloud/internal/middleware"
	"github.com/mili4400/FinanzApp-Cloud/internal/repo"
	"github.com/mili4400/FinanzApp-Cloud/internal/route"
	"github.com/mili4400/FinanzApp-Cloud/internal/service"
)

func main() {
	godotenv.Load()

	r := gin.Default()
	r.SetTrustedProxies(nil)

	corsOrigin := os.Getenv("CORS_ORIGIN")
	if corsOrigin == "" {
		corsOrigin = "http://localhost:3001"
	}
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{corsOrigin},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           24 * time.Hour,
	}))

	port := os.Getenv("PORT")
	if port == "" {
		port = "10000"
	}

	usersFile := os.Getenv("USERS_FILE")
	if usersFile == "" {
		usersFile = "users.json"
	}

	apiKey := os.Getenv("EODHD_API_KEY")
	if apiKey == "" {
		log.Fatal("EODHD_API_KEY is required")
	}
	baseURL := os.Getenv("EODHD_BASE_URL")
	if baseURL == "" {
		baseURL = "https://eodhd.com/api"
	}

	// Optional shared cache; fall back to per-process memoization when
	// Redis is unavailable.
	var cache service.Cache
	redis, err := data.NewRedis()
	if err != nil {
		log.Printf("Warning: Redis connection failed: %v. Using in-memory cache.", err)
		cache = service.NewMemoryCache()
	} else {
		defer redis.Close()
		cache = service.NewRedisCache(redis.Client)
		log.Println("Cache service initialized with Redis")
	}

	// Initialize repositories
	marketRepo := repo.NewMarketRepo(baseURL, apiKey, 25*time.Second)
	userFile := data.NewUserFile(usersFile)

	// Initialize services with cache
	userService := service.NewUserService(userFile)
	marketService := service.NewMarketService(marketRepo, cache)

	// Initialize handlers
	handle := handler.NewHandler(marketService, userService)

	// Setup routes
	route.HealthRoutes(r)
	route.AuthRoutes(r, userService)

	r.Use(middleware.RequireAuth(userService))

	route.UserRoutes(r, userService)
	handle.RegisterRoutes(r)

	if err := r.Run(":" + port); err != nil {
		log.Fatal(err)
	}
}
