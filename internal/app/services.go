package app

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/fesoni/tastematch-backend/internal/pkg/logger"
	"github.com/fesoni/tastematch-backend/internal/services"
)

type Services struct {
	Auth          services.AuthService
	Extractor     services.SignalExtractor
	Taste         services.TasteMapper
	Scorer        services.CulturalMatchScorer
	Products      services.ProductService
	Chat          services.ChatService
	SavedProducts services.SavedProductService
}

func wireServices(db *gorm.DB, log *logger.Logger, clients Clients, reposet Repos) (Services, error) {
	log.Info("Wiring services...")

	authService, err := services.NewAuthService(log)
	if err != nil {
		return Services{}, fmt.Errorf("init auth service: %w", err)
	}

	extractor := services.NewSignalExtractor(log, clients.Gemini)
	taste := services.NewTasteMapper(log, clients.Qloo)
	scorer := services.NewCulturalMatchScorer()
	products := services.NewProductService(log, clients.Retail, scorer, reposet.Searches, reposet.Recommendations)
	chat := services.NewChatService(
		db,
		log,
		clients.Gemini,
		extractor,
		taste,
		products,
		reposet.Conversations,
		reposet.Messages,
		reposet.Preferences,
	)
	saved := services.NewSavedProductService(log, reposet.SavedProducts)

	return Services{
		Auth:          authService,
		Extractor:     extractor,
		Taste:         taste,
		Scorer:        scorer,
		Products:      products,
		Chat:          chat,
		SavedProducts: saved,
	}, nil
}
