package app

import (
	"go-leaves/internal/config"
	"go-leaves/internal/database"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BuildApp connects infrastructure, applies migrations and mounts every module
// on router. The caller owns the returned Infra and must Close it.
func BuildApp(router *gin.Engine, cfg *config.Config, logger *zap.Logger) (*Infra, error) {
	// 1. Setup Infrastructure
	in, err := connectInfra(cfg, true, logger)
	if err != nil {
		return nil, err
	}

	if err := database.RunMigrations(in.SQLDB, logger); err != nil {
		in.Close()
		return nil, err
	}

	// 2. Register Modules & Routes
	if err := registerModules(router, in, logger); err != nil {
		in.Close()
		return nil, err
	}

	return in, nil
}
