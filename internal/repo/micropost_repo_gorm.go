package repo

import (
	"context"

	"gorm.io/gorm"

	"sample-app/internal/domain"
)

type MicropostRepo struct{ db *gorm.DB }

func NewMicropostRepo(db *gorm.DB) *MicropostRepo { return &MicropostRepo{db: db} }

var _ domain.MicropostRepository = (*MicropostRepo)(nil)

func (r *MicropostRepo) ListByUser(ctx context.Context, userID string, p domain.Page) ([]domain.Micropost, int64, error) {
	return r.page(r.db.WithContext(ctx).Model(&domain.Micropost{}).Where("user_id = ?", userID), p)
}

func (r *MicropostRepo) Feed(ctx context.Context, userID string, p domain.Page) ([]domain.Micropost, int64, error) {
	followed := r.db.Model(&domain.Relationship{}).Select("followed_id").Where("follower_id = ?", userID)
	q := r.db.WithContext(ctx).Model(&domain.Micropost{}).
		Where("user_id IN (?) OR user_id = ?", followed, userID)
	return r.page(q, p)
}

func (r *MicropostRepo) CountByUser(ctx context.Context, userID string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.Micropost{}).Where("user_id = ?", userID).Count(&n).Error
	return n, err
}

func (r *MicropostRepo) page(q *gorm.DB, p domain.Page) ([]domain.Micropost, int64, error) {
	q = q.Session(&gorm.Session{})
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var out []domain.Micropost
	if err := paginate(q.Order("created_at DESC, id DESC"), p).Find(&out).Error; err != nil {
		return nil, 0, err
	}
	return out, total, nil
}
