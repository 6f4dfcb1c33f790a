package domain

import (
	"context"
	"time"
)

type User struct {
	ID             string    `gorm:"primaryKey;size:36" json:"id"`
	Name           string    `gorm:"size:50;not null" json:"name" validate:"notblank,max=50"`
	Email          string    `gorm:"uniqueIndex;size:191;not null" json:"email" validate:"required,max=191,emailfmt"`
	PasswordHash   string    `gorm:"column:encrypted_password;size:100;not null" json:"-"`
	Salt           string    `gorm:"size:64;not null" json:"-"`
	Admin          bool      `gorm:"not null;default:false" json:"admin"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// RememberToken 每次登录一条，只存令牌的 sha256 摘要；多设备互不影响
type RememberToken struct {
	ID        string `gorm:"primaryKey;size:36"`
	UserID    string `gorm:"index;size:36;not null"`
	Digest    string `gorm:"size:64;not null"`
	CreatedAt time.Time
}

// Persisted 是否已落库
func (u *User) Persisted() bool { return u != nil && u.ID != "" && u.PasswordHash != "" }

// Profile 个人主页（可缓存，不含凭据）
type Profile struct {
	User           User  `json:"user"`
	MicropostCount int64 `json:"micropostCount"`
	FollowingCount int64 `json:"followingCount"`
	FollowerCount  int64 `json:"followerCount"`
}

type Page struct {
	Page int
	Size int
}

const (
	DefaultPageSize = 30
	MaxPageSize     = 100
)

// Normalize 页码从 1 开始，size 超界回落默认值
func (p Page) Normalize() Page {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Size <= 0 || p.Size > MaxPageSize {
		p.Size = DefaultPageSize
	}
	return p
}

func (p Page) Offset() int { return (p.Page - 1) * p.Size }

type UserRepository interface {
	Create(ctx context.Context, u *User) error
	FindByID(ctx context.Context, id string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	List(ctx context.Context, q string, p Page) ([]User, int64, error)
	Update(ctx context.Context, u *User) error
	AddRememberToken(ctx context.Context, t *RememberToken) error
	FindRememberToken(ctx context.Context, id string) (*RememberToken, error)
	// DeleteRememberTokens 吊销该用户所有会话
	DeleteRememberTokens(ctx context.Context, userID string) error
	SetAdmin(ctx context.Context, id string, admin bool) error
	// Delete 在同一事务里删除该用户的微博、双向关注关系、登录令牌和用户本身
	Delete(ctx context.Context, id string) error
}
