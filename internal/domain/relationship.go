package domain

import (
	"context"
	"time"
)

// Relationship 关注关系（follower 关注 followed）
type Relationship struct {
	ID         string    `gorm:"primaryKey;size:36" json:"id"`
	FollowerID string    `gorm:"size:36;not null;index:idx_relationship_pair,unique,priority:1" json:"followerId"`
	FollowedID string    `gorm:"size:36;not null;index:idx_relationship_pair,unique,priority:2;index" json:"followedId"`
	CreatedAt  time.Time `json:"createdAt"`
}

type RelationshipRepository interface {
	Create(ctx context.Context, r *Relationship) error
	Find(ctx context.Context, followerID, followedID string) (*Relationship, error)
	FindByID(ctx context.Context, id string) (*Relationship, error)
	Delete(ctx context.Context, id string) error
	Following(ctx context.Context, userID string, p Page) ([]User, int64, error)
	Followers(ctx context.Context, userID string, p Page) ([]User, int64, error)
	CountFollowing(ctx context.Context, userID string) (int64, error)
	CountFollowers(ctx context.Context, userID string) (int64, error)
	// Neighbors 关注或被关注的全部用户 id，不分页
	Neighbors(ctx context.Context, userID string) ([]string, error)
}
