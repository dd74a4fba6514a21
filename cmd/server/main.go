package main

import (
	"fmt"
	"log"

	"go.uber.org/zap"

	"github.com/david/opportunity-navigator/internal/ai"
	"github.com/david/opportunity-navigator/internal/api"
	"github.com/david/opportunity-navigator/internal/catalog"
	"github.com/david/opportunity-navigator/internal/config"
	"github.com/david/opportunity-navigator/internal/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	zl, err := logger.New(cfg.LogJSON, cfg.LogDebug)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer zl.Sync()

	// The catalog is fixed configuration data; a malformed record is a
	// startup defect, not a runtime case.
	cat, err := catalog.Load()
	if err != nil {
		zl.Fatal("catalog load failed", zap.Error(err))
	}

	if cfg.JWTSecret == "" {
		zl.Warn("JWT_SECRET is not set; using ephemeral in-memory fallback secret")
	}

	explainer := ai.NewOllamaClient(cfg.OllamaHost, cfg.GenModel, cfg.ExplainTimeout)

	srv, err := api.NewServer(cfg, zl, cat, explainer)
	if err != nil {
		zl.Fatal("server init failed", zap.Error(err))
	}

	zl.Info("server starting",
		zap.Int("port", cfg.Port),
		zap.Int("catalog_size", cat.Size()),
		zap.String("gen_model", cfg.GenModel),
	)
	if err := srv.Start(fmt.Sprintf("%d", cfg.Port)); err != nil {
		zl.Fatal("server stopped", zap.Error(err))
	}
}
