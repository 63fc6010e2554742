package app

import (
	httpH "github.com/fesoni/tastematch-backend/internal/http/handlers"
	"github.com/fesoni/tastematch-backend/internal/pkg/logger"
)

type Handlers struct {
	Chat          *httpH.ChatHandler
	Products      *httpH.ProductHandler
	SavedProducts *httpH.SavedProductHandler
	Health        *httpH.HealthHandler
}

func wireHandlers(log *logger.Logger, serviceset Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Chat:          httpH.NewChatHandler(serviceset.Chat),
		Products:      httpH.NewProductHandler(serviceset.Taste, serviceset.Products),
		SavedProducts: httpH.NewSavedProductHandler(serviceset.SavedProducts),
		Health:        httpH.NewHealthHandler(),
	}
}
