// Package di provides dependency injection configuration for the preview server.
package di

import (
	"log/slog"

	"github.com/samber/do/v2"

	"github.com/shopfrontapp/shopfront/internal/config"
	"github.com/shopfrontapp/shopfront/internal/di/providers"
	"github.com/shopfrontapp/shopfront/internal/server"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer(cfg *config.ServeConfig) *do.RootScope {
	injector := do.New()

	do.ProvideValue(injector, cfg)

	do.Provide(injector, providers.ProvideLogger)
	do.Provide(injector, providers.ProvideSearchIndex)
	do.Provide(injector, providers.ProvideServer)
	do.Provide(injector, providers.ProvideHTTPServer)

	return injector
}

// Bootstrap initializes all services and starts the HTTP server. The injector
// holds shutdownable handles; call injector.Shutdown() to stop everything.
func Bootstrap(injector *do.RootScope) error {
	_ = do.MustInvoke[*slog.Logger](injector)
	_ = do.MustInvoke[*providers.SearchIndexHandle](injector)
	_ = do.MustInvoke[*server.Server](injector)
	_ = do.MustInvoke[*providers.HTTPServerHandle](injector)

	return nil
}
