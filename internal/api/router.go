package api

import (
	"github.com/gin-gonic/gin"

	"github.com/timmy/chadgen/internal/api/handler"
	"github.com/timmy/chadgen/internal/api/middleware"
	"github.com/timmy/chadgen/internal/config"
	"github.com/timmy/chadgen/internal/logger"
	"github.com/timmy/chadgen/internal/storage"
)

// Deps are the components the HTTP API serves.
type Deps struct {
	Generator     handler.MemeGenerator
	History       handler.GenerationReader // nil disables the history routes
	Storage       storage.ObjectStorage
	CaptionSource string
	Font          string
}

// SetupRouter configures the Gin router with all routes
func SetupRouter(deps Deps, cfg *config.ServerConfig, log *logger.Logger) *gin.Engine {
	switch cfg.Mode {
	case "release":
		gin.SetMode(gin.ReleaseMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.DebugMode)
	}

	r := gin.New()

	r.Use(gin.Recovery())
	r.Use(middleware.Logger(log))
	r.Use(middleware.CORS(cfg.CORS))

	healthHandler := handler.NewHealthHandler(deps.CaptionSource, deps.Font)
	memeHandler := handler.NewMemeHandler(deps.Generator, deps.History, deps.Storage)

	r.GET("/health", healthHandler.Health)

	v1 := r.Group("/api/v1")
	{
		v1.POST("/memes", memeHandler.Generate)
		v1.GET("/memes", memeHandler.ListMemes)
		v1.GET("/memes/:id", memeHandler.GetMeme)
		v1.GET("/memes/:id/image", memeHandler.GetImage)
	}

	return r
}
