package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"sample-app/internal/core/auth"
	"sample-app/internal/core/config"
	"sample-app/internal/domain"
	"sample-app/internal/transport/http/ez"
)

// SessionResolver 由 service.Sessions 实现
type SessionResolver interface {
	Resolve(ctx context.Context, token string) (*domain.User, error)
}

// SessionToken 先看 Cookie，再看 Authorization: Bearer
func SessionToken(c *gin.Context, cookieName string) string {
	if v, err := c.Cookie(cookieName); err == nil && v != "" {
		return v
	}
	if ah := c.GetHeader("Authorization"); strings.HasPrefix(ah, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(ah, "Bearer "))
	}
	return ""
}

// Session 识别当前用户；识别不出按匿名放行，由各路由自己决定是否要求登录
func Session(s SessionResolver, cookieName string, l *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		tok := SessionToken(c, cookieName)
		if tok == "" {
			c.Next()
			return
		}
		u, err := s.Resolve(c, tok)
		if err != nil {
			// 存储故障不当作未登录处理
			ez.Fail(l, c, ez.Internal("session lookup failed", err))
			return
		}
		if u != nil {
			ez.SetCurrentUser(c, u, auth.RoleOf(u.Admin))
		}
		c.Next()
	}
}

// RequireAdmin 未登录 -> /signin，非管理员 -> /
func RequireAdmin(l *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := ez.Gate(c, false, true, []string{auth.RoleAdmin}); err != nil {
			ez.Fail(l, c, err)
			return
		}
		c.Next()
	}
}

func SetSessionCookie(c *gin.Context, s config.Session, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(s.CookieName, token, int((time.Duration(s.TTLHours) * time.Hour).Seconds()),
		"/", s.CookieDomain, s.CookieSecure, true)
}

func ClearSessionCookie(c *gin.Context, s config.Session) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(s.CookieName, "", -1, "/", s.CookieDomain, s.CookieSecure, true)
}
