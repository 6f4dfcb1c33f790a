package handler

import (
	"github.com/gin-gonic/gin"

	"sample-app/internal/domain"
	"sample-app/internal/transport/http/ez"
)

// Microposts 自己的微博：发 / 列 / 查 / 删
type Microposts struct{ d Deps }

func (h *Microposts) MountAPI(g *gin.RouterGroup) {
	ez.Crud(ez.CrudConfig[domain.Micropost]{
		DB:      h.d.DB,
		EZ:      ez.New(g, h.d.Log),
		Path:    "/microposts",
		New:     func() *domain.Micropost { return &domain.Micropost{} },
		OrderBy: "created_at DESC, id DESC",
		Hooks: ez.CrudHooks[domain.Micropost]{
			BeforeCreate: func(_ *gin.Context, m *domain.Micropost) error {
				// 只接受 content，时间戳交给 gorm
				*m = domain.Micropost{ID: m.ID, UserID: m.UserID, Content: m.Content}
				return domain.Validate(m)
			},
			AfterCreate: func(c *gin.Context, m *domain.Micropost) {
				h.d.Users.MicropostChanged(c, m.UserID, "create")
			},
			AfterDelete: func(c *gin.Context, m *domain.Micropost) {
				h.d.Users.MicropostChanged(c, m.UserID, "delete")
			},
		},
	})
}
