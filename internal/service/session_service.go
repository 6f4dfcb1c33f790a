package service

import (
	"context"

	"sample-app/internal/core/auth"
	"sample-app/internal/domain"
)

// Sessions 登录 / 识别 / 登出；JWT 只负责签名，吊销靠服务端令牌表
type Sessions struct {
	users *UserService
	jwt   *auth.JWTer
}

func NewSessions(users *UserService, j *auth.JWTer) *Sessions {
	return &Sessions{users: users, jwt: j}
}

// Start 为已认证用户签发会话令牌
func (s *Sessions) Start(ctx context.Context, u *domain.User) (string, error) {
	sid, err := s.users.Remember(ctx, u)
	if err != nil {
		return "", err
	}
	return s.jwt.Issue(u.ID, auth.RoleOf(u.Admin), sid)
}

// SignIn 凭据错误返回 (nil, "", nil)
func (s *Sessions) SignIn(ctx context.Context, email, password string) (*domain.User, string, error) {
	u, err := s.users.Authenticate(ctx, email, password)
	if err != nil || u == nil {
		return nil, "", err
	}
	tok, err := s.Start(ctx, u)
	if err != nil {
		return nil, "", err
	}
	return u, tok, nil
}

// Resolve 令牌无效、过期或已吊销时返回 (nil, nil)
func (s *Sessions) Resolve(ctx context.Context, token string) (*domain.User, error) {
	if token == "" {
		return nil, nil
	}
	claims, err := s.jwt.Parse(token)
	if err != nil {
		return nil, nil
	}
	return s.users.AuthenticateWithToken(ctx, claims.UID, claims.SID)
}

func (s *Sessions) SignOut(ctx context.Context, u *domain.User) error {
	if u == nil {
		return nil
	}
	return s.users.Forget(ctx, u.ID)
}
