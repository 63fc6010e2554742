package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/fesoni/tastematch-backend/internal/clients/gemini"
	"github.com/fesoni/tastematch-backend/internal/domain"
	"github.com/fesoni/tastematch-backend/internal/pkg/logger"
)

// SignalExtractor turns a raw chat message into a structured cultural
// signal. Extraction never errors: provider failures and malformed
// responses degrade to the empty signal so the pipeline keeps running.
type SignalExtractor interface {
	Extract(ctx context.Context, message string) domain.CulturalSignal
}

type signalExtractor struct {
	log *logger.Logger
	ai  gemini.Client
}

func NewSignalExtractor(baseLog *logger.Logger, ai gemini.Client) SignalExtractor {
	return &signalExtractor{
		log: baseLog.With("service", "SignalExtractor"),
		ai:  ai,
	}
}

const extractionPromptTemplate = `Analyze the following message and extract cultural preferences, aesthetics, and style references.
Return a JSON object with the following structure:
{
    "cultural_references": ["list of cultural references like movies, music, books, etc."],
    "aesthetic_keywords": ["list of aesthetic descriptors"],
    "style_preferences": ["list of style preferences"],
    "mood_descriptors": ["list of mood/vibe descriptors"],
    "product_categories": ["list of relevant product categories"],
    "entities_to_search": ["specific named entities worth resolving against a taste graph"],
    "tags_to_search": ["short genre/aesthetic tags worth resolving against a taste graph"],
    "target_entity_type": "one of: movie, artist, book, brand, tv_show, person, place",
    "confidence_score": 0.0
}

confidence_score must be a number between 0.0 and 1.0.

Message: %q`

func (s *signalExtractor) Extract(ctx context.Context, message string) domain.CulturalSignal {
	if s.ai == nil {
		s.log.Warn("Extraction skipped, no AI client wired")
		return domain.EmptyCulturalSignal()
	}

	prompt := fmt.Sprintf(extractionPromptTemplate, message)

	raw, err := s.ai.GenerateJSON(ctx, prompt)
	if err != nil {
		s.log.Warn("Signal extraction failed", "error", err)
		return domain.EmptyCulturalSignal()
	}

	var signal domain.CulturalSignal
	if err := json.Unmarshal(raw, &signal); err != nil {
		s.log.Warn("Signal extraction returned malformed JSON", "error", err)
		return domain.EmptyCulturalSignal()
	}

	signal.Normalize()
	return signal
}
