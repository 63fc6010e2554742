package app

import (
	"gorm.io/gorm"

	"github.com/fesoni/tastematch-backend/internal/data/repos"
	"github.com/fesoni/tastematch-backend/internal/pkg/logger"
)

type Repos struct {
	Conversations   repos.ConversationRepo
	Messages        repos.MessageRepo
	Preferences     repos.CulturalPreferenceRepo
	Searches        repos.ProductSearchRepo
	Recommendations repos.ProductRecommendationRepo
	SavedProducts   repos.SavedProductRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		Conversations:   repos.NewConversationRepo(db, log),
		Messages:        repos.NewMessageRepo(db, log),
		Preferences:     repos.NewCulturalPreferenceRepo(db, log),
		Searches:        repos.NewProductSearchRepo(db, log),
		Recommendations: repos.NewProductRecommendationRepo(db, log),
		SavedProducts:   repos.NewSavedProductRepo(db, log),
	}
}
