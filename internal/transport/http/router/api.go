package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"sample-app/internal/core/config"
	"sample-app/internal/core/server"
	mdw "sample-app/internal/transport/http/middleware"
	resp "sample-app/internal/transport/http/response"
)

// base 两个引擎共用的中间件链 + /health + /metrics
func base(l *zap.Logger, cfg *config.Config) *gin.Engine {
	r := server.NewRouter(cfg.App.Env, cfg.CORS)
	lim := cfg.Limits
	r.Use(
		mdw.RequestID(),
		mdw.Recovery(l),
		mdw.RateLimit(rate.Limit(lim.RPS), lim.Burst),
		mdw.ConcurrencyLimit(lim.Concurrency),
		mdw.MaxBodyBytes(lim.MaxBodyBytes),
		mdw.Timeout(time.Duration(lim.TimeoutSec)*time.Second),
		mdw.Metrics(),
		mdw.AccessLog(l),
	)

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, resp.OK(gin.H{"ok": 1})) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	return r
}

// NewAPIEngine 用户端：/api/v1，会话中间件识别当前用户（可匿名）
func NewAPIEngine(l *zap.Logger, cfg *config.Config, sessions mdw.SessionResolver, mods ...any) *gin.Engine {
	r := base(l, cfg)

	api := r.Group("/api/v1")
	api.Use(
		mdw.RateLimitPerIP(rate.Limit(cfg.Limits.PerIPRPS), cfg.Limits.PerIPBurst, 10*time.Minute),
		mdw.Session(sessions, cfg.Session.CookieName, l),
	)

	reg := &Registry{}
	reg.Register(mods...)
	reg.MountAllAPI(api)
	return r
}
