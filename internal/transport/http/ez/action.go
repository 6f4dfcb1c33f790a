package ez

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	resp "sample-app/internal/transport/http/response"
)

type EZ struct {
	g   *gin.RouterGroup
	log *zap.Logger
}

func New(g *gin.RouterGroup, l *zap.Logger) EZ {
	if l == nil {
		l = zap.NewNop()
	}
	return EZ{g: g, log: l}
}

type Binder string

const (
	BindJSON  Binder = "json"  // 从 JSON 绑定
	BindQuery Binder = "query" // 从 URL ?a=b 绑定
	BindNone  Binder = "none"  // 不绑定，自己从 c.Param 取
)

// Action I 入参，O 出参
type Action[I any, O any] struct {
	Method    string
	Path      string
	Binder    Binder
	Anonymous bool     // 必须未登录（注册 / 登录）
	Auth      bool     // 必须已登录
	Roles     []string // 限定角色；隐含 Auth
	UseTx     bool     // 是否包事务
	Handler   func(c *gin.Context, db *gorm.DB, in *I) (O, error)
}

// Gate 登录态 / 角色检查，失败返回带跳转的错误
func Gate(c *gin.Context, anonymous, auth bool, roles []string) error {
	signedIn := SignedIn(c)
	if anonymous && signedIn {
		return NeedSignOut()
	}
	if !auth && len(roles) == 0 {
		return nil
	}
	if !signedIn {
		return NeedSignIn()
	}
	if len(roles) == 0 {
		return nil
	}
	role := c.GetString(KeyRole)
	for _, r := range roles {
		if role == r {
			return nil
		}
	}
	return Forbidden("forbidden")
}

type noticer interface{ notice() (string, any) }

// Noticed 成功响应，但 msg 换成给用户看的提示
type Noticed[T any] struct {
	Msg  string
	Data T
}

func (n Noticed[T]) notice() (string, any) { return n.Msg, n.Data }

func WithNotice[T any](msg string, data T) Noticed[T] { return Noticed[T]{Msg: msg, Data: data} }

func RegisterAction[I any, O any](e EZ, db *gorm.DB, a Action[I, O]) {
	h := func(c *gin.Context) {
		// 1) 鉴权/角色
		if err := Gate(c, a.Anonymous, a.Auth, a.Roles); err != nil {
			c.JSON(http.StatusOK, ToResp(e.log, c, err))
			return
		}

		// 2) 绑定入参
		var in I
		var bindErr error
		switch a.Binder {
		case BindJSON:
			bindErr = c.ShouldBindJSON(&in)
		case BindQuery:
			bindErr = c.ShouldBindQuery(&in)
		}
		if bindErr != nil {
			c.JSON(http.StatusOK, resp.Error(resp.CodeBadRequest, bindErr.Error()))
			return
		}

		// 3) 执行（可选事务）
		var out O
		var err error
		if a.UseTx && db != nil {
			err = db.WithContext(c).Transaction(func(tx *gorm.DB) error {
				o, e := a.Handler(c, tx, &in)
				out = o
				return e
			})
		} else {
			var tx *gorm.DB
			if db != nil {
				tx = db.WithContext(c)
			}
			out, err = a.Handler(c, tx, &in)
		}

		// 4) 统一错误映射
		if err != nil {
			c.JSON(http.StatusOK, ToResp(e.log, c, err))
			return
		}
		if n, ok := any(out).(noticer); ok {
			msg, data := n.notice()
			c.JSON(http.StatusOK, resp.Notice(msg, data))
			return
		}
		c.JSON(http.StatusOK, resp.OK(out))
	}

	switch strings.ToUpper(a.Method) {
	case http.MethodGet:
		e.g.GET(a.Path, h)
	case http.MethodPut:
		e.g.PUT(a.Path, h)
	case http.MethodPatch:
		e.g.PATCH(a.Path, h)
	case http.MethodDelete:
		e.g.DELETE(a.Path, h)
	default:
		e.g.POST(a.Path, h)
	}
}
