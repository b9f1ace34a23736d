package app

import (
	"net/http"

	"hr-portal/internal/config"
	"hr-portal/internal/middleware"
	"hr-portal/internal/shared/connection"
	"hr-portal/internal/shared/migration"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BuildApp connects the stores, runs migrations and mounts every module on
// router. The returned cleanup closes the connections.
func BuildApp(cfg *config.Config, router *gin.Engine) (func(), error) {
	logger := zap.L().Named("app")

	gormDB, err := connection.ConnectGORMWithRetry(cfg.Database)
	if err != nil {
		return nil, err
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, err
	}

	if cfg.Database.Migrate {
		if err := migration.Up(sqlDB, logger); err != nil {
			_ = sqlDB.Close()
			return nil, err
		}
	}

	rdb, err := connection.ConnectRedisWithRetry(cfg.Redis.Addr, cfg.Database.MaxRetries)
	if err != nil {
		_ = sqlDB.Close()
		return nil, err
	}

	router.Use(
		middleware.RequestID(),
		middleware.Logger(zap.L().Named("http")),
		gin.Recovery(),
	)
	router.GET("/", health)

	if err := registerModules(router, cfg, sqlDB, gormDB, rdb, logger); err != nil {
		_ = rdb.Close()
		_ = sqlDB.Close()
		return nil, err
	}

	cleanup := func() {
		_ = rdb.Close()
		_ = sqlDB.Close()
	}
	return cleanup, nil
}

func health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "Active",
		"message": "HR portal backend is running",
	})
}
