package bootstrap

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	httpapi "github.com/roomify/roomify-backend/internal/api/http"
	"github.com/roomify/roomify-backend/internal/auth"
	projecthttp "github.com/roomify/roomify-backend/internal/projects/http"
	"github.com/roomify/roomify-backend/internal/projects/repository"
	"github.com/roomify/roomify-backend/internal/store"
)

type RouterDeps struct {
	ServiceName string
	Version     string
	Redis       *redis.Client
	Verifier    auth.TokenVerifier
}

func BuildRouter(dep RouterDeps) *gin.Engine {
	r := gin.Default()

	// The store API is consumed straight from browser sessions.
	r.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:    []string{"Authorization", "Content-Type"},
	}))

	healthHandler := httpapi.NewHealthHandler(dep.ServiceName, dep.Version, dep.Redis)
	healthHandler.RegisterRoutes(r)

	kv := store.NewRedisKV(dep.Redis)
	projectRepo := repository.NewRepo(kv)

	api := r.Group("/api/projects")
	api.Use(auth.RequireUser(dep.Verifier))

	projectHandler := projecthttp.NewHandler(projectRepo)
	projectHandler.Register(api)

	return r
}
