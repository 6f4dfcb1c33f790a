package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"sample-app/internal/domain"
	"sample-app/internal/transport/http/ez"
	mdw "sample-app/internal/transport/http/middleware"
)

// Sessions 登录 / 登出 / 当前用户
type Sessions struct{ d Deps }

func (h *Sessions) Priority() int { return 10 }

func (h *Sessions) MountAPI(g *gin.RouterGroup) {
	e := ez.New(g, h.d.Log)

	type signInIn struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	ez.RegisterAction(e, nil, ez.Action[signInIn, sessionOut]{
		Method:    http.MethodPost,
		Path:      "/sessions",
		Binder:    ez.BindJSON,
		Anonymous: true,
		Handler: func(c *gin.Context, _ *gorm.DB, in *signInIn) (sessionOut, error) {
			u, tok, err := h.d.Sessions.SignIn(c, in.Email, in.Password)
			if err != nil {
				return sessionOut{}, err
			}
			if u == nil {
				return sessionOut{}, ez.Unauthorized("Invalid email/password combination.")
			}
			mdw.SetSessionCookie(c, h.d.Session, tok)
			return sessionOut{User: u, Token: tok}, nil
		},
	})

	ez.RegisterAction(e, nil, ez.Action[struct{}, ez.Noticed[gin.H]]{
		Method: http.MethodDelete,
		Path:   "/sessions",
		Binder: ez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *gorm.DB, _ *struct{}) (ez.Noticed[gin.H], error) {
			if err := h.d.Sessions.SignOut(c, ez.CurrentUser(c)); err != nil {
				return ez.Noticed[gin.H]{}, err
			}
			mdw.ClearSessionCookie(c, h.d.Session)
			return ez.WithNotice("Signed out.", gin.H{"redirect": "/"}), nil
		},
	})

	ez.RegisterAction(e, nil, ez.Action[struct{}, *domain.User]{
		Method: http.MethodGet,
		Path:   "/me",
		Binder: ez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *gorm.DB, _ *struct{}) (*domain.User, error) {
			return ez.CurrentUser(c), nil
		},
	})
}
