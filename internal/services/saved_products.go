package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/fesoni/tastematch-backend/internal/data/repos"
	"github.com/fesoni/tastematch-backend/internal/domain"
	"github.com/fesoni/tastematch-backend/internal/pkg/dbctx"
	pkgerrors "github.com/fesoni/tastematch-backend/internal/pkg/errors"
	"github.com/fesoni/tastematch-backend/internal/pkg/logger"
	"github.com/fesoni/tastematch-backend/internal/requestdata"
)

// SaveProductInput is the caller-supplied shape for pinning a product.
type SaveProductInput struct {
	ProductID          string  `json:"product_id"`
	Title              string  `json:"title"`
	URL                string  `json:"url"`
	Image              string  `json:"image"`
	Price              float64 `json:"price"`
	Retailer           string  `json:"retailer"`
	CulturalMatchScore float64 `json:"cultural_match_score"`
}

type SavedProductService interface {
	Save(dbc dbctx.Context, input SaveProductInput) (*domain.SavedProduct, error)
	List(dbc dbctx.Context) ([]*domain.SavedProduct, error)
	Delete(dbc dbctx.Context, id uuid.UUID) error
}

type savedProductService struct {
	log   *logger.Logger
	saved repos.SavedProductRepo
}

func NewSavedProductService(baseLog *logger.Logger, savedRepo repos.SavedProductRepo) SavedProductService {
	return &savedProductService{
		log:   baseLog.With("service", "SavedProductService"),
		saved: savedRepo,
	}
}

func (s *savedProductService) Save(dbc dbctx.Context, input SaveProductInput) (*domain.SavedProduct, error) {
	rd := requestdata.GetRequestData(dbc.Ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return nil, pkgerrors.ErrUnauthorized
	}

	input.ProductID = strings.TrimSpace(input.ProductID)
	input.Title = strings.TrimSpace(input.Title)
	input.Retailer = strings.ToLower(strings.TrimSpace(input.Retailer))
	if input.ProductID == "" || input.Title == "" || input.Retailer == "" {
		return nil, fmt.Errorf("%w: product_id, title and retailer are required", pkgerrors.ErrInvalidArgument)
	}

	row := &domain.SavedProduct{
		ID:                 uuid.New(),
		UserID:             rd.UserID,
		ProductID:          input.ProductID,
		Title:              input.Title,
		URL:                input.URL,
		Image:              input.Image,
		Price:              input.Price,
		Retailer:           input.Retailer,
		CulturalMatchScore: input.CulturalMatchScore,
		CreatedAt:          time.Now().UTC(),
	}
	return s.saved.Create(dbc, row)
}

func (s *savedProductService) List(dbc dbctx.Context) ([]*domain.SavedProduct, error) {
	rd := requestdata.GetRequestData(dbc.Ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return nil, pkgerrors.ErrUnauthorized
	}
	return s.saved.ListByUser(dbc, rd.UserID)
}

func (s *savedProductService) Delete(dbc dbctx.Context, id uuid.UUID) error {
	rd := requestdata.GetRequestData(dbc.Ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return pkgerrors.ErrUnauthorized
	}
	return s.saved.Delete(dbc, id, rd.UserID)
}
