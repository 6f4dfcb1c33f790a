package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	KeyRequestID = "X-Request-ID"

	maxRequestIDLen = 64
)

// usableRequestID 上游传入的 id 只接受短的可打印 ASCII，避免污染日志
func usableRequestID(id string) bool {
	if id == "" || len(id) > maxRequestIDLen {
		return false
	}
	for i := 0; i < len(id); i++ {
		if id[i] < 0x21 || id[i] > 0x7e {
			return false
		}
	}
	return true
}

// RequestID 沿用合法的上游 id，否则生成 uuid；写回响应头并放进 gin 上下文
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(KeyRequestID)
		if !usableRequestID(id) {
			id = uuid.NewString()
		}
		c.Set(KeyRequestID, id)
		c.Header(KeyRequestID, id)
		c.Next()
	}
}
