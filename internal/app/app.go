// Package app 组装两个进程共用的依赖：DB、缓存、JWT、服务层
package app

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"sample-app/internal/core/auth"
	"sample-app/internal/core/cache"
	"sample-app/internal/core/config"
	"sample-app/internal/core/database"
	"sample-app/internal/repo"
	"sample-app/internal/service"
	"sample-app/internal/transport/http/handler"
)

type App struct {
	DB    *gorm.DB
	Cache *cache.Cache // 未配置 Redis 时为 nil
	Deps  handler.Deps
}

func OpenDB(c config.DB) (*gorm.DB, error) {
	return database.NewGorm(database.Opts{
		Driver:             c.Driver,
		DSN:                c.DSN,
		Username:           c.Username,
		Password:           c.Password,
		MaxOpenConns:       c.MaxOpenConns,
		MaxIdleConns:       c.MaxIdleConns,
		ConnMaxLifetimeMin: c.ConnMaxLifetimeMin,
		LogLevel:           c.LogLevel,
	})
}

// New 连库、按需迁移、连 Redis（连不上只告警，退化为直连 DB）
func New(ctx context.Context, cfg *config.Config, l *zap.Logger) (*App, error) {
	db, err := OpenDB(cfg.DB)
	if err != nil {
		return nil, err
	}
	l.Info("database connected", zap.String("driver", cfg.DB.Driver))
	if cfg.DB.AutoMigrate {
		if err := database.Migrate(db); err != nil {
			return nil, fmt.Errorf("automigrate: %w", err)
		}
		l.Info("automigrate done")
	}

	var c *cache.Cache
	if cfg.Redis.Addr != "" {
		c = cache.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		pctx, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := c.Ping(pctx); err != nil {
			l.Warn("redis unreachable, profile cache degraded", zap.String("addr", cfg.Redis.Addr), zap.Error(err))
		}
		cancel()
	}

	return &App{DB: db, Cache: c, Deps: Wire(db, c, cfg, l)}, nil
}

// Wire 仓储 -> 服务 -> handler 依赖
func Wire(db *gorm.DB, c *cache.Cache, cfg *config.Config, l *zap.Logger) handler.Deps {
	users := repo.NewUserRepo(db)
	microposts := repo.NewMicropostRepo(db)
	rels := repo.NewRelationshipRepo(db)

	userSvc := service.NewUserService(users, microposts, rels, c,
		time.Duration(cfg.Cache.ProfileTTLSec)*time.Second, l)
	jwter := &auth.JWTer{
		Secret: []byte(cfg.Session.Secret),
		Issuer: cfg.Session.Issuer,
		TTL:    time.Duration(cfg.Session.TTLHours) * time.Hour,
	}
	return handler.Deps{
		DB:       db,
		Users:    userSvc,
		Sessions: service.NewSessions(userSvc, jwter),
		Social:   service.NewSocial(userSvc, rels, microposts),
		Session:  cfg.Session,
		Log:      l,
	}
}

func (a *App) Close() {
	if a.Cache != nil {
		_ = a.Cache.Close()
	}
	if sqlDB, err := a.DB.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
