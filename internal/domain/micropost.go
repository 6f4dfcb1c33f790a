package domain

import (
	"context"
	"time"
)

const MaxMicropostLength = 140

type Micropost struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	Content   string    `gorm:"size:140;not null" json:"content" validate:"notblank,max=140"`
	UserID    string    `gorm:"size:36;not null;index:idx_micropost_user_created,priority:1" json:"userId" validate:"required"`
	CreatedAt time.Time `gorm:"index:idx_micropost_user_created,priority:2" json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type MicropostRepository interface {
	ListByUser(ctx context.Context, userID string, p Page) ([]Micropost, int64, error)
	// Feed 本人 + 已关注用户的微博，按时间倒序
	Feed(ctx context.Context, userID string, p Page) ([]Micropost, int64, error)
	CountByUser(ctx context.Context, userID string) (int64, error)
}
