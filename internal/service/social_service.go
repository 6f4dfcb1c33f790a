package service

import (
	"context"
	"errors"
	"fmt"

	"sample-app/internal/domain"
	"sample-app/pkg/utils"
)

// Social 关注关系与 feed
type Social struct {
	users      *UserService
	rels       domain.RelationshipRepository
	microposts domain.MicropostRepository
}

func NewSocial(users *UserService, rels domain.RelationshipRepository, microposts domain.MicropostRepository) *Social {
	return &Social{users: users, rels: rels, microposts: microposts}
}

// Follow 已关注时直接返回已有关系
func (s *Social) Follow(ctx context.Context, follower *domain.User, followedID string) (*domain.Relationship, error) {
	if follower.ID == followedID {
		return nil, domain.ErrSelfFollow
	}
	if _, err := s.users.Get(ctx, followedID); err != nil {
		return nil, err
	}
	if rel, err := s.rels.Find(ctx, follower.ID, followedID); err == nil {
		return rel, nil
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	rel := &domain.Relationship{ID: utils.NewID(), FollowerID: follower.ID, FollowedID: followedID}
	if err := s.rels.Create(ctx, rel); err != nil {
		if errors.Is(err, domain.ErrDuplicateKey) {
			// 并发重复关注：返回先写入的那条
			return s.rels.Find(ctx, follower.ID, followedID)
		}
		return nil, fmt.Errorf("follow: %w", err)
	}
	follows.WithLabelValues("follow").Inc()
	s.users.invalidate(ctx, follower.ID, followedID)
	return rel, nil
}

// Unfollow 按关系 id 取关，只有关注者本人可以删除
func (s *Social) Unfollow(ctx context.Context, actor *domain.User, relID string) (*domain.Relationship, error) {
	rel, err := s.rels.FindByID(ctx, relID)
	if err != nil {
		return nil, err
	}
	if rel.FollowerID != actor.ID {
		return nil, domain.ErrNotFollower
	}
	if err := s.rels.Delete(ctx, rel.ID); err != nil {
		return nil, err
	}
	follows.WithLabelValues("unfollow").Inc()
	s.users.invalidate(ctx, rel.FollowerID, rel.FollowedID)
	return rel, nil
}

// Relationship 查询 a 对 b 的关注关系，不存在返回 nil
func (s *Social) Relationship(ctx context.Context, followerID, followedID string) (*domain.Relationship, error) {
	rel, err := s.rels.Find(ctx, followerID, followedID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil
	}
	return rel, err
}

func (s *Social) IsFollowing(ctx context.Context, followerID, followedID string) (bool, error) {
	rel, err := s.Relationship(ctx, followerID, followedID)
	return rel != nil, err
}

func (s *Social) Following(ctx context.Context, userID string, p domain.Page) ([]domain.User, int64, error) {
	if _, err := s.users.Get(ctx, userID); err != nil {
		return nil, 0, err
	}
	return s.rels.Following(ctx, userID, p)
}

func (s *Social) Followers(ctx context.Context, userID string, p domain.Page) ([]domain.User, int64, error) {
	if _, err := s.users.Get(ctx, userID); err != nil {
		return nil, 0, err
	}
	return s.rels.Followers(ctx, userID, p)
}

func (s *Social) Feed(ctx context.Context, userID string, p domain.Page) ([]domain.Micropost, int64, error) {
	return s.microposts.Feed(ctx, userID, p)
}

func (s *Social) Microposts(ctx context.Context, userID string, p domain.Page) ([]domain.Micropost, int64, error) {
	return s.microposts.ListByUser(ctx, userID, p)
}
