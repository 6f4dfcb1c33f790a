package ez

import (
	"github.com/gin-gonic/gin"

	"sample-app/internal/domain"
)

// gin.Context 里的会话键
const (
	KeyUserID      = "userId"
	KeyRole        = "role"
	KeyCurrentUser = "currentUser"
)

// SetCurrentUser 会话中间件识别出用户后调用
func SetCurrentUser(c *gin.Context, u *domain.User, role string) {
	c.Set(KeyUserID, u.ID)
	c.Set(KeyRole, role)
	c.Set(KeyCurrentUser, u)
}

// CurrentUser 未登录返回 nil
func CurrentUser(c *gin.Context) *domain.User {
	if v, ok := c.Get(KeyCurrentUser); ok {
		if u, ok := v.(*domain.User); ok {
			return u
		}
	}
	return nil
}

func SignedIn(c *gin.Context) bool { return c.GetString(KeyUserID) != "" }

// PageOf ?page=&size= 绑定为分页参数
func PageOf(c *gin.Context) domain.Page {
	var q struct {
		Page int `form:"page"`
		Size int `form:"size"`
	}
	_ = c.ShouldBindQuery(&q)
	return domain.Page{Page: q.Page, Size: q.Size}.Normalize()
}
