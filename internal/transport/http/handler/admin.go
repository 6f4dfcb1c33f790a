package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"sample-app/internal/core/auth"
	"sample-app/internal/domain"
	"sample-app/internal/transport/http/ez"
)

// Admin 后台：用户列表、切换管理员、删除用户。分组已挂 RequireAdmin，这里再按角色校验一次
type Admin struct{ d Deps }

func (h *Admin) MountAdmin(g *gin.RouterGroup) {
	e := ez.New(g, h.d.Log)
	admins := []string{auth.RoleAdmin}

	ez.RegisterAction(e, nil, ez.Action[struct{}, pageOut[domain.User]]{
		Method: http.MethodGet,
		Path:   "/users",
		Binder: ez.BindNone,
		Roles:  admins,
		Handler: func(c *gin.Context, _ *gorm.DB, _ *struct{}) (pageOut[domain.User], error) {
			p := ez.PageOf(c)
			us, total, err := h.d.Users.List(c, strings.TrimSpace(c.Query("q")), p)
			if err != nil {
				return pageOut[domain.User]{}, err
			}
			return pageOf(us, total, p), nil
		},
	})

	ez.RegisterAction(e, nil, ez.Action[struct{}, *domain.User]{
		Method: http.MethodPost,
		Path:   "/users/:id/admin",
		Binder: ez.BindNone,
		Roles:  admins,
		Handler: func(c *gin.Context, _ *gorm.DB, _ *struct{}) (*domain.User, error) {
			return h.d.Users.ToggleAdmin(c, ez.CurrentUser(c), c.Param("id"))
		},
	})

	ez.RegisterAction(e, nil, ez.Action[struct{}, ez.Noticed[destroyOut]]{
		Method: http.MethodDelete,
		Path:   "/users/:id",
		Binder: ez.BindNone,
		Roles:  admins,
		Handler: func(c *gin.Context, _ *gorm.DB, _ *struct{}) (ez.Noticed[destroyOut], error) {
			return destroyUser(c, h.d, c.Param("id"))
		},
	})
}
