package repo

import (
	"context"

	"gorm.io/gorm"

	"sample-app/internal/domain"
)

type RelationshipRepo struct{ db *gorm.DB }

func NewRelationshipRepo(db *gorm.DB) *RelationshipRepo { return &RelationshipRepo{db: db} }

var _ domain.RelationshipRepository = (*RelationshipRepo)(nil)

func (r *RelationshipRepo) Create(ctx context.Context, rel *domain.Relationship) error {
	return translate(r.db.WithContext(ctx).Create(rel).Error)
}

func (r *RelationshipRepo) Find(ctx context.Context, followerID, followedID string) (*domain.Relationship, error) {
	var rel domain.Relationship
	err := r.db.WithContext(ctx).
		Where("follower_id = ? AND followed_id = ?", followerID, followedID).
		First(&rel).Error
	if err != nil {
		return nil, translate(err)
	}
	return &rel, nil
}

func (r *RelationshipRepo) FindByID(ctx context.Context, id string) (*domain.Relationship, error) {
	var rel domain.Relationship
	if err := r.db.WithContext(ctx).First(&rel, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &rel, nil
}

func (r *RelationshipRepo) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Relationship{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *RelationshipRepo) Following(ctx context.Context, userID string, p domain.Page) ([]domain.User, int64, error) {
	return r.users(ctx, "users.id = relationships.followed_id", "relationships.follower_id = ?", userID, p)
}

func (r *RelationshipRepo) Followers(ctx context.Context, userID string, p domain.Page) ([]domain.User, int64, error) {
	return r.users(ctx, "users.id = relationships.follower_id", "relationships.followed_id = ?", userID, p)
}

func (r *RelationshipRepo) users(ctx context.Context, on, where, userID string, p domain.Page) ([]domain.User, int64, error) {
	q := r.db.WithContext(ctx).Model(&domain.User{}).
		Joins("JOIN relationships ON "+on).
		Where(where, userID).
		Session(&gorm.Session{}) // Count 后还要复用
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var out []domain.User
	if err := paginate(q.Order("relationships.created_at DESC, users.id ASC"), p).Find(&out).Error; err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (r *RelationshipRepo) CountFollowing(ctx context.Context, userID string) (int64, error) {
	return r.count(ctx, "follower_id = ?", userID)
}

func (r *RelationshipRepo) CountFollowers(ctx context.Context, userID string) (int64, error) {
	return r.count(ctx, "followed_id = ?", userID)
}

func (r *RelationshipRepo) count(ctx context.Context, where, userID string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.Relationship{}).Where(where, userID).Count(&n).Error
	return n, err
}

func (r *RelationshipRepo) Neighbors(ctx context.Context, userID string) ([]string, error) {
	var rels []domain.Relationship
	err := r.db.WithContext(ctx).Select("follower_id", "followed_id").
		Where("follower_id = ? OR followed_id = ?", userID, userID).
		Find(&rels).Error
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(rels))
	for _, rel := range rels {
		if rel.FollowerID == userID {
			out = append(out, rel.FollowedID)
		} else {
			out = append(out, rel.FollowerID)
		}
	}
	return out, nil
}
