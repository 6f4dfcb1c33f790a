package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"sample-app/internal/domain"
	"sample-app/internal/transport/http/ez"
)

type Relationships struct{ d Deps }

func (h *Relationships) MountAPI(g *gin.RouterGroup) {
	e := ez.New(g, h.d.Log)

	type followIn struct {
		FollowedID string `json:"followedId" binding:"required"`
	}
	// 重复关注返回已有关系
	ez.RegisterAction(e, nil, ez.Action[followIn, *domain.Relationship]{
		Method: http.MethodPost,
		Path:   "/relationships",
		Binder: ez.BindJSON,
		Auth:   true,
		Handler: func(c *gin.Context, _ *gorm.DB, in *followIn) (*domain.Relationship, error) {
			return h.d.Social.Follow(c, ez.CurrentUser(c), in.FollowedID)
		},
	})

	ez.RegisterAction(e, nil, ez.Action[struct{}, *domain.Relationship]{
		Method: http.MethodDelete,
		Path:   "/relationships/:id",
		Binder: ez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *gorm.DB, _ *struct{}) (*domain.Relationship, error) {
			return h.d.Social.Unfollow(c, ez.CurrentUser(c), c.Param("id"))
		},
	})
}
