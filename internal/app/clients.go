package app

import (
	"fmt"

	"github.com/fesoni/tastematch-backend/internal/clients/gemini"
	"github.com/fesoni/tastematch-backend/internal/clients/qloo"
	"github.com/fesoni/tastematch-backend/internal/clients/redis"
	"github.com/fesoni/tastematch-backend/internal/clients/retail"
	"github.com/fesoni/tastematch-backend/internal/pkg/logger"
)

type Clients struct {
	Gemini gemini.Client
	Qloo   qloo.Client
	Retail retail.Client
	Cache  redis.Cache
}

func wireClients(log *logger.Logger) (Clients, error) {
	log.Info("Wiring clients...")

	// Cache is optional: without REDIS_ADDR the taste-graph lookups
	// just go uncached.
	cache, err := redis.NewCache(log)
	if err != nil {
		log.Warn("Redis cache disabled", "error", err)
		cache = nil
	}

	geminiClient, err := gemini.NewClient(log)
	if err != nil {
		return Clients{}, fmt.Errorf("init gemini client: %w", err)
	}

	qlooClient, err := qloo.NewClient(log, cache)
	if err != nil {
		return Clients{}, fmt.Errorf("init qloo client: %w", err)
	}

	retailClient, err := retail.NewClient(log)
	if err != nil {
		return Clients{}, fmt.Errorf("init retail client: %w", err)
	}

	return Clients{
		Gemini: geminiClient,
		Qloo:   qlooClient,
		Retail: retailClient,
		Cache:  cache,
	}, nil
}
