package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"sample-app/internal/core/config"
	mdw "sample-app/internal/transport/http/middleware"
)

// NewAdminEngine 后台：/admin/v1 整组要求管理员会话
func NewAdminEngine(l *zap.Logger, cfg *config.Config, sessions mdw.SessionResolver, mods ...any) *gin.Engine {
	r := base(l, cfg)

	admin := r.Group("/admin/v1")
	admin.Use(
		mdw.Session(sessions, cfg.Session.CookieName, l),
		mdw.RequireAdmin(l),
	)

	reg := &Registry{}
	reg.Register(mods...)
	reg.MountAllAdmin(admin)
	return r
}
