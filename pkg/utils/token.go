package utils

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"

	"github.com/google/uuid"
)

func NewID() string { return uuid.NewString() }

// NewToken 32 字节随机数，URL 安全编码
func NewToken() string {
	b := make([]byte, 32)
	_, _ = rand.Read(b)
	return base64.RawURLEncoding.EncodeToString(b)
}

// Digest 记住登录令牌只存 sha256 摘要
func Digest(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// DigestMatches 常量时间比较；空摘要永不匹配（已登出）
func DigestMatches(digest, token string) bool {
	if digest == "" || token == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(digest), []byte(Digest(token))) == 1
}
