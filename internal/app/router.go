package app

import (
	internalhttp "github.com/fesoni/tastematch-backend/internal/http"
	"github.com/fesoni/tastematch-backend/internal/pkg/logger"
)

func wireRouter(log *logger.Logger, handlerset Handlers, mw Middleware) *internalhttp.Server {
	log.Info("Wiring router...")
	return internalhttp.NewServer(internalhttp.RouterConfig{
		Log:                 log,
		AuthMiddleware:      mw.Auth,
		ChatHandler:         handlerset.Chat,
		ProductHandler:      handlerset.Products,
		SavedProductHandler: handlerset.SavedProducts,
		HealthHandler:       handlerset.Health,
	})
}
