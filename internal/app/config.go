package app

import (
	"github.com/fesoni/tastematch-backend/internal/pkg/envutil"
	"github.com/fesoni/tastematch-backend/internal/pkg/logger"
)

type Config struct {
	Port    string
	GinMode string
}

func LoadConfig(log *logger.Logger) Config {
	cfg := Config{
		Port:    envutil.String("PORT", "8080"),
		GinMode: envutil.String("GIN_MODE", "debug"),
	}
	log.Info("Config loaded", "port", cfg.Port, "gin_mode", cfg.GinMode)
	return cfg
}
