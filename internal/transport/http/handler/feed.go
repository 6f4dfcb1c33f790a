package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"sample-app/internal/domain"
	"sample-app/internal/transport/http/ez"
)

// Feed 本人 + 已关注用户的微博
type Feed struct{ d Deps }

func (h *Feed) MountAPI(g *gin.RouterGroup) {
	ez.RegisterAction(ez.New(g, h.d.Log), nil, ez.Action[struct{}, pageOut[domain.Micropost]]{
		Method: http.MethodGet,
		Path:   "/feed",
		Binder: ez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *gorm.DB, _ *struct{}) (pageOut[domain.Micropost], error) {
			p := ez.PageOf(c)
			items, total, err := h.d.Social.Feed(c, ez.CurrentUser(c).ID, p)
			if err != nil {
				return pageOut[domain.Micropost]{}, err
			}
			return pageOf(items, total, p), nil
		},
	})
}
