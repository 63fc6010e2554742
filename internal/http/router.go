package http

import (
	"github.com/gin-gonic/gin"

	httpH "github.com/fesoni/tastematch-backend/internal/http/handlers"
	httpMW "github.com/fesoni/tastematch-backend/internal/http/middleware"
	"github.com/fesoni/tastematch-backend/internal/pkg/logger"
)

type RouterConfig struct {
	Log *logger.Logger

	AuthMiddleware *httpMW.AuthMiddleware

	ChatHandler         *httpH.ChatHandler
	ProductHandler      *httpH.ProductHandler
	SavedProductHandler *httpH.SavedProductHandler
	HealthHandler       *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.CORS())

	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}

	api := r.Group("/api")

	protected := api.Group("/")
	{
		if cfg.AuthMiddleware != nil {
			protected.Use(cfg.AuthMiddleware.RequireAuth())
		}

		if cfg.ChatHandler != nil {
			protected.POST("/chat/message", cfg.ChatHandler.SendMessage)
			protected.GET("/chat/conversations", cfg.ChatHandler.ListConversations)
			protected.GET("/chat/conversations/:id", cfg.ChatHandler.GetConversationHistory)
			protected.DELETE("/chat/conversations/:id", cfg.ChatHandler.DeleteConversation)
			protected.GET("/chat/preferences", cfg.ChatHandler.ListPreferences)
		}

		if cfg.ProductHandler != nil {
			protected.POST("/products/search", cfg.ProductHandler.SearchProducts)
			protected.GET("/products/searches", cfg.ProductHandler.ListSearchHistory)
			protected.GET("/products/searches/:id/recommendations", cfg.ProductHandler.ListRecommendations)
		}

		if cfg.SavedProductHandler != nil {
			protected.POST("/products/saved", cfg.SavedProductHandler.Save)
			protected.GET("/products/saved", cfg.SavedProductHandler.List)
			protected.DELETE("/products/saved/:id", cfg.SavedProductHandler.Delete)
		}
	}

	return r
}
