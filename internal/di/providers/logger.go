package providers

import (
	"log/slog"

	"github.com/samber/do/v2"

	"github.com/shopfrontapp/shopfront/internal/config"
	"github.com/shopfrontapp/shopfront/internal/logger"
)

// ProvideLogger provides the application logger.
func ProvideLogger(i do.Injector) (*slog.Logger, error) {
	cfg := do.MustInvoke[*config.ServeConfig](i)

	return logger.New(logger.Config{
		Format: cfg.Logger.Format,
		Level:  logger.ParseLevel(cfg.Logger.Level),
	}), nil
}
