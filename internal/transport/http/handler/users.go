package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"sample-app/internal/core/auth"
	"sample-app/internal/domain"
	"sample-app/internal/service"
	"sample-app/internal/transport/http/ez"
	mdw "sample-app/internal/transport/http/middleware"
)

type Users struct{ d Deps }

type profileOut struct {
	*domain.Profile
	Microposts pageOut[domain.Micropost] `json:"microposts"`
	// 当前用户对该用户的关注关系（取关用它的 id）；未登录或看自己时为 null
	Relationship *domain.Relationship `json:"relationship"`
}

// owned 先查用户（不存在 404），再要求是本人
func (h *Users) owned(c *gin.Context) (*domain.User, error) {
	u, err := h.d.Users.Get(c, c.Param("id"))
	if err != nil {
		return nil, err
	}
	if cur := ez.CurrentUser(c); cur == nil || cur.ID != u.ID {
		return nil, ez.Forbidden("forbidden")
	}
	return u, nil
}

func (h *Users) MountAPI(g *gin.RouterGroup) {
	e := ez.New(g, h.d.Log)

	// 注册成功即登录
	ez.RegisterAction(e, nil, ez.Action[service.SignUpInput, ez.Noticed[sessionOut]]{
		Method:    http.MethodPost,
		Path:      "/users",
		Binder:    ez.BindJSON,
		Anonymous: true,
		Handler: func(c *gin.Context, _ *gorm.DB, in *service.SignUpInput) (ez.Noticed[sessionOut], error) {
			u, err := h.d.Users.SignUp(c, *in)
			if err != nil {
				return ez.Noticed[sessionOut]{}, err
			}
			tok, err := h.d.Sessions.Start(c, u)
			if err != nil {
				return ez.Noticed[sessionOut]{}, err
			}
			mdw.SetSessionCookie(c, h.d.Session, tok)
			return ez.WithNotice("Welcome to the Sample App!", sessionOut{User: u, Token: tok}), nil
		},
	})

	ez.RegisterAction(e, nil, ez.Action[struct{}, pageOut[domain.User]]{
		Method: http.MethodGet,
		Path:   "/users",
		Binder: ez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *gorm.DB, _ *struct{}) (pageOut[domain.User], error) {
			p := ez.PageOf(c)
			us, total, err := h.d.Users.List(c, strings.TrimSpace(c.Query("q")), p)
			if err != nil {
				return pageOut[domain.User]{}, err
			}
			return pageOf(us, total, p), nil
		},
	})

	ez.RegisterAction(e, nil, ez.Action[struct{}, profileOut]{
		Method: http.MethodGet,
		Path:   "/users/:id",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *gorm.DB, _ *struct{}) (profileOut, error) {
			id := c.Param("id")
			prof, err := h.d.Users.Profile(c, id)
			if err != nil {
				return profileOut{}, err
			}
			p := ez.PageOf(c)
			posts, total, err := h.d.Social.Microposts(c, id, p)
			if err != nil {
				return profileOut{}, err
			}
			out := profileOut{Profile: prof, Microposts: pageOf(posts, total, p)}
			if cur := ez.CurrentUser(c); cur != nil && cur.ID != id {
				if out.Relationship, err = h.d.Social.Relationship(c, cur.ID, id); err != nil {
					return profileOut{}, err
				}
			}
			return out, nil
		},
	})

	ez.RegisterAction(e, nil, ez.Action[struct{}, *domain.User]{
		Method: http.MethodGet,
		Path:   "/users/:id/edit",
		Binder: ez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *gorm.DB, _ *struct{}) (*domain.User, error) {
			return h.owned(c)
		},
	})

	update := func(c *gin.Context, _ *gorm.DB, in *service.UpdateInput) (ez.Noticed[*domain.User], error) {
		u, err := h.owned(c)
		if err != nil {
			return ez.Noticed[*domain.User]{}, err
		}
		if u, err = h.d.Users.Update(c, u.ID, *in); err != nil {
			return ez.Noticed[*domain.User]{}, err
		}
		return ez.WithNotice("Profile updated.", u), nil
	}
	// 编辑表单也可直接 PATCH 到 /edit
	for _, r := range []struct{ method, path string }{
		{http.MethodPatch, "/users/:id"},
		{http.MethodPut, "/users/:id"},
		{http.MethodPatch, "/users/:id/edit"},
	} {
		ez.RegisterAction(e, nil, ez.Action[service.UpdateInput, ez.Noticed[*domain.User]]{
			Method:  r.method,
			Path:    r.path,
			Binder:  ez.BindJSON,
			Auth:    true,
			Handler: update,
		})
	}

	// 未登录 -> /signin，非管理员 -> /
	ez.RegisterAction(e, nil, ez.Action[struct{}, ez.Noticed[destroyOut]]{
		Method: http.MethodDelete,
		Path:   "/users/:id",
		Binder: ez.BindNone,
		Roles:  []string{auth.RoleAdmin},
		Handler: func(c *gin.Context, _ *gorm.DB, _ *struct{}) (ez.Noticed[destroyOut], error) {
			return destroyUser(c, h.d, c.Param("id"))
		},
	})

	type graphFn func(context.Context, string, domain.Page) ([]domain.User, int64, error)
	graph := func(path string, fn graphFn) {
		ez.RegisterAction(e, nil, ez.Action[struct{}, pageOut[domain.User]]{
			Method: http.MethodGet,
			Path:   path,
			Binder: ez.BindNone,
			Auth:   true,
			Handler: func(c *gin.Context, _ *gorm.DB, _ *struct{}) (pageOut[domain.User], error) {
				p := ez.PageOf(c)
				us, total, err := fn(c, c.Param("id"), p)
				if err != nil {
					return pageOut[domain.User]{}, err
				}
				return pageOf(us, total, p), nil
			},
		})
	}
	graph("/users/:id/following", h.d.Social.Following)
	graph("/users/:id/followers", h.d.Social.Followers)
}
