// Package handler 按资源划分的 HTTP 模块，由 router 的 Registry 挂载
package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"sample-app/internal/core/config"
	"sample-app/internal/domain"
	"sample-app/internal/service"
	"sample-app/internal/transport/http/ez"
	resp "sample-app/internal/transport/http/response"
)

type Deps struct {
	DB       *gorm.DB
	Users    *service.UserService
	Sessions *service.Sessions
	Social   *service.Social
	Session  config.Session
	Log      *zap.Logger
}

// APIModules 用户端全部模块
func APIModules(d Deps) []any {
	return []any{
		&Sessions{d: d},
		&Users{d: d},
		&Relationships{d: d},
		&Microposts{d: d},
		&Feed{d: d},
	}
}

// AdminModules 后台模块
func AdminModules(d Deps) []any {
	return []any{&Admin{d: d}}
}

type pageOut[T any] struct {
	List  []T   `json:"list"`
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Size  int   `json:"size"`
}

func pageOf[T any](items []T, total int64, p domain.Page) pageOut[T] {
	if items == nil {
		items = []T{}
	}
	return pageOut[T]{List: items, Total: total, Page: p.Page, Size: p.Size}
}

// sessionOut 注册 / 登录成功：token 给不用 Cookie 的客户端
type sessionOut struct {
	User  *domain.User `json:"user"`
	Token string       `json:"token"`
}

// destroyOut 删除用户的结果；拒绝删除自己时 destroyed=false
type destroyOut struct {
	ID        string `json:"id"`
	Destroyed bool   `json:"destroyed"`
	Redirect  string `json:"redirect"`
}

// destroyUser 前台和后台共用：自己不能删自己
func destroyUser(c *gin.Context, d Deps, id string) (ez.Noticed[destroyOut], error) {
	out := destroyOut{ID: id, Redirect: resp.PathUsers}
	if err := d.Users.Destroy(c, ez.CurrentUser(c), id); err != nil {
		if errors.Is(err, domain.ErrSelfDestroy) {
			return ez.WithNotice("Can't destroy yourself", out), nil
		}
		return ez.Noticed[destroyOut]{}, err
	}
	out.Destroyed = true
	return ez.WithNotice("User destroyed.", out), nil
}
