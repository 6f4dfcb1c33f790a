package ez

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"sample-app/internal/domain"
	resp "sample-app/internal/transport/http/response"
)

// AErr 统一错误对象；Redirect 非空时响应里带跳转目标
type AErr struct {
	Code     int
	Msg      string
	Redirect string
	Err      error
}

func (e *AErr) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "action error"
}

func (e *AErr) Unwrap() error { return e.Err }

func BadRequest(msg string) error   { return &AErr{Code: resp.CodeBadRequest, Msg: msg} }
func Unauthorized(msg string) error { return &AErr{Code: resp.CodeUnauthorized, Msg: msg} }
func NotFound(msg string) error     { return &AErr{Code: resp.CodeNotFound, Msg: msg} }
func Internal(msg string, err error) error {
	return &AErr{Code: resp.CodeServerError, Msg: msg, Err: err}
}

// 鉴权失败统一带跳转
func NeedSignIn() error {
	return &AErr{Code: resp.CodeUnauthorized, Msg: "Please sign in to access this page.", Redirect: resp.PathSignIn}
}
func NeedSignOut() error {
	return &AErr{Code: resp.CodeForbidden, Msg: "already signed in", Redirect: resp.PathRoot}
}
func Forbidden(msg string) error {
	return &AErr{Code: resp.CodeForbidden, Msg: msg, Redirect: resp.PathRoot}
}

// ToResp 错误映射为响应体；未知错误记日志并隐藏细节
func ToResp(l *zap.Logger, c *gin.Context, err error) resp.Resp {
	var ae *AErr
	var ve *domain.ValidationError
	switch {
	case errors.As(err, &ve):
		return resp.Invalid(ve.Fields)
	case errors.As(err, &ae):
		if ae.Code >= resp.CodeServerError {
			logError(l, c, ae.Msg, ae.Err)
		}
		if ae.Redirect != "" {
			return resp.Redirect(ae.Code, ae.Error(), ae.Redirect)
		}
		return resp.Error(ae.Code, ae.Error())
	case errors.Is(err, domain.ErrNotFound):
		return resp.Error(resp.CodeNotFound, "")
	case errors.Is(err, domain.ErrSelfFollow):
		return resp.Error(resp.CodeBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFollower), errors.Is(err, domain.ErrNotOwner), errors.Is(err, domain.ErrSelfDemote):
		return resp.Redirect(resp.CodeForbidden, err.Error(), resp.PathRoot)
	}
	logError(l, c, "unhandled", err)
	return resp.Error(resp.CodeServerError, "internal error")
}

func logError(l *zap.Logger, c *gin.Context, msg string, err error) {
	if l == nil {
		return
	}
	_ = c.Error(err)
	l.Error(msg,
		zap.Error(err),
		zap.String("path", c.FullPath()),
		zap.String("rid", c.GetString("X-Request-ID")),
	)
}

// Fail 直接写错误响应
func Fail(l *zap.Logger, c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusOK, ToResp(l, c, err))
}
