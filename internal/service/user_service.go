package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"sample-app/internal/core/cache"
	"sample-app/internal/domain"
	"sample-app/pkg/utils"
)

type SignUpInput struct {
	Name                 string `json:"name"`
	Email                string `json:"email"`
	Password             string `json:"password"`
	PasswordConfirmation string `json:"passwordConfirmation"`
}

// UpdateInput 密码留空表示不修改
type UpdateInput struct {
	Name                 string `json:"name"`
	Email                string `json:"email"`
	Password             string `json:"password"`
	PasswordConfirmation string `json:"passwordConfirmation"`
}

type UserService struct {
	users      domain.UserRepository
	microposts domain.MicropostRepository
	rels       domain.RelationshipRepository
	cache      *cache.Cache
	profileTTL time.Duration
	log        *zap.Logger
}

func NewUserService(users domain.UserRepository, microposts domain.MicropostRepository, rels domain.RelationshipRepository, c *cache.Cache, profileTTL time.Duration, l *zap.Logger) *UserService {
	if l == nil {
		l = zap.NewNop()
	}
	return &UserService{users: users, microposts: microposts, rels: rels, cache: c, profileTTL: profileTTL, log: l}
}

func profileKey(id string) string { return "profile:" + id }

func (s *UserService) invalidate(ctx context.Context, ids ...string) {
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = profileKey(id)
	}
	s.cache.Delete(ctx, keys...)
}

// MicropostChanged op: create / delete
func (s *UserService) MicropostChanged(ctx context.Context, userID, op string) {
	micropostChanges.WithLabelValues(op).Inc()
	s.invalidate(ctx, userID)
}

func (s *UserService) SignUp(ctx context.Context, in SignUpInput) (*domain.User, error) {
	u := &domain.User{
		ID:    utils.NewID(),
		Name:  strings.TrimSpace(in.Name),
		Email: domain.NormalizeEmail(in.Email),
	}
	pw := domain.Password{Password: in.Password, PasswordConfirmation: in.PasswordConfirmation}
	if err := domain.Merge(domain.Validate(u), domain.Validate(&pw)); err != nil {
		return nil, err
	}
	if err := s.ensureEmailFree(ctx, u.Email, ""); err != nil {
		return nil, err
	}
	u.Salt = utils.NewSalt()
	if err := s.setPassword(u, in.Password); err != nil {
		return nil, err
	}
	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, domain.ErrDuplicateKey) {
			return nil, emailTaken()
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	signUps.Inc()
	s.log.Info("user signed up", zap.String("uid", u.ID))
	return u, nil
}

func emailTaken() error {
	ve := &domain.ValidationError{}
	ve.Add("email", "has already been taken")
	return ve
}

func (s *UserService) ensureEmailFree(ctx context.Context, email, selfID string) error {
	other, err := s.users.FindByEmail(ctx, email)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return nil
	case err != nil:
		return fmt.Errorf("lookup email: %w", err)
	case other.ID != selfID:
		return emailTaken()
	}
	return nil
}

// setPassword 盐只在首次保存时生成，之后改密码沿用
func (s *UserService) setPassword(u *domain.User, pw string) error {
	if u.Salt == "" {
		u.Salt = utils.NewSalt()
	}
	h, err := utils.HashPassword(u.Salt, pw)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	u.PasswordHash = h
	return nil
}

// HasPassword 未落库的用户一律返回 false
func HasPassword(u *domain.User, submitted string) bool {
	if !u.Persisted() {
		return false
	}
	return utils.CheckPassword(u.Salt, submitted, u.PasswordHash)
}

// Authenticate 邮箱不存在或密码错误都返回 (nil, nil)
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	u, err := s.users.FindByEmail(ctx, email)
	if errors.Is(err, domain.ErrNotFound) {
		signIns.WithLabelValues("unknown_email").Inc()
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("authenticate: %w", err)
	}
	if !HasPassword(u, password) {
		signIns.WithLabelValues("bad_password").Inc()
		return nil, nil
	}
	signIns.WithLabelValues("ok").Inc()
	return u, nil
}

// Remember 为本次登录新建一条令牌，返回 "<令牌 id>.<原始令牌>"；库里只存摘要，已有会话不受影响
func (s *UserService) Remember(ctx context.Context, u *domain.User) (string, error) {
	tok := utils.NewToken()
	rt := &domain.RememberToken{ID: utils.NewID(), UserID: u.ID, Digest: utils.Digest(tok)}
	if err := s.users.AddRememberToken(ctx, rt); err != nil {
		return "", fmt.Errorf("remember: %w", err)
	}
	return rt.ID + "." + tok, nil
}

// Forget 删掉该用户全部令牌，所有设备一起登出
func (s *UserService) Forget(ctx context.Context, id string) error {
	return s.users.DeleteRememberTokens(ctx, id)
}

// AuthenticateWithToken 用户 id + Remember 返回的令牌；不匹配返回 (nil, nil)
func (s *UserService) AuthenticateWithToken(ctx context.Context, id, token string) (*domain.User, error) {
	tid, raw, ok := strings.Cut(token, ".")
	if !ok || tid == "" {
		return nil, nil
	}
	rt, err := s.users.FindRememberToken(ctx, tid)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if rt.UserID != id || !utils.DigestMatches(rt.Digest, raw) {
		return nil, nil
	}
	u, err := s.users.FindByID(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (s *UserService) Get(ctx context.Context, id string) (*domain.User, error) {
	return s.users.FindByID(ctx, id)
}

func (s *UserService) List(ctx context.Context, q string, p domain.Page) ([]domain.User, int64, error) {
	return s.users.List(ctx, q, p)
}

// Profile 用户 + 计数，走缓存
func (s *UserService) Profile(ctx context.Context, id string) (*domain.Profile, error) {
	return cache.GetOrLoadJSON(s.cache, ctx, profileKey(id), s.profileTTL, func(ctx context.Context) (*domain.Profile, error) {
		u, err := s.users.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		p := &domain.Profile{User: *u}
		if p.MicropostCount, err = s.microposts.CountByUser(ctx, id); err != nil {
			return nil, err
		}
		if p.FollowingCount, err = s.rels.CountFollowing(ctx, id); err != nil {
			return nil, err
		}
		if p.FollowerCount, err = s.rels.CountFollowers(ctx, id); err != nil {
			return nil, err
		}
		return p, nil
	})
}

func (s *UserService) Update(ctx context.Context, id string, in UpdateInput) (*domain.User, error) {
	u, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	u.Name = strings.TrimSpace(in.Name)
	u.Email = domain.NormalizeEmail(in.Email)

	errs := []error{domain.Validate(u)}
	if in.Password != "" || in.PasswordConfirmation != "" {
		errs = append(errs, domain.Validate(&domain.Password{Password: in.Password, PasswordConfirmation: in.PasswordConfirmation}))
	}
	if err := domain.Merge(errs...); err != nil {
		return nil, err
	}
	if err := s.ensureEmailFree(ctx, u.Email, u.ID); err != nil {
		return nil, err
	}
	if in.Password != "" {
		if err := s.setPassword(u, in.Password); err != nil {
			return nil, err
		}
	}
	if err := s.users.Update(ctx, u); err != nil {
		if errors.Is(err, domain.ErrDuplicateKey) {
			return nil, emailTaken()
		}
		return nil, fmt.Errorf("update user: %w", err)
	}
	s.invalidate(ctx, u.ID)
	return u, nil
}

// Destroy 管理员删除用户（级联），不能删自己
func (s *UserService) Destroy(ctx context.Context, actor *domain.User, targetID string) error {
	if actor != nil && actor.ID == targetID {
		return domain.ErrSelfDestroy
	}
	// 先取关注双方，删除后失效他们的计数缓存
	neighbors, err := s.rels.Neighbors(ctx, targetID)
	if err != nil {
		return fmt.Errorf("load relationships: %w", err)
	}
	if err := s.users.Delete(ctx, targetID); err != nil {
		return err
	}
	s.invalidate(ctx, append(neighbors, targetID)...)
	destroyedUsers.Inc()
	if actor != nil {
		s.log.Info("user destroyed", zap.String("uid", targetID), zap.String("by", actor.ID))
	}
	return nil
}

// ToggleAdmin 切换管理员标记，不能改自己
func (s *UserService) ToggleAdmin(ctx context.Context, actor *domain.User, targetID string) (*domain.User, error) {
	if actor != nil && actor.ID == targetID {
		return nil, domain.ErrSelfDemote
	}
	u, err := s.users.FindByID(ctx, targetID)
	if err != nil {
		return nil, err
	}
	u.Admin = !u.Admin
	if err := s.users.SetAdmin(ctx, u.ID, u.Admin); err != nil {
		return nil, err
	}
	s.invalidate(ctx, u.ID)
	return u, nil
}

// PromoteEmails 启动时把配置里的邮箱设为管理员，不存在的跳过
func (s *UserService) PromoteEmails(ctx context.Context, emails []string) (int, error) {
	n := 0
	for _, e := range emails {
		u, err := s.users.FindByEmail(ctx, e)
		if errors.Is(err, domain.ErrNotFound) {
			s.log.Warn("bootstrap admin not found", zap.String("email", e))
			continue
		}
		if err != nil {
			return n, err
		}
		if u.Admin {
			continue
		}
		if err := s.users.SetAdmin(ctx, u.ID, true); err != nil {
			return n, err
		}
		s.invalidate(ctx, u.ID)
		n++
	}
	return n, nil
}
