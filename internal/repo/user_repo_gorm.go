package repo

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"sample-app/internal/domain"
)

type UserRepo struct{ db *gorm.DB }

func NewUserRepo(db *gorm.DB) *UserRepo { return &UserRepo{db: db} }

var _ domain.UserRepository = (*UserRepo)(nil)

func (r *UserRepo) Create(ctx context.Context, u *domain.User) error {
	return translate(r.db.WithContext(ctx).Create(u).Error)
}

func (r *UserRepo) FindByID(ctx context.Context, id string) (*domain.User, error) {
	var u domain.User
	if err := r.db.WithContext(ctx).First(&u, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (r *UserRepo) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	var u domain.User
	if err := r.db.WithContext(ctx).First(&u, "email = ?", domain.NormalizeEmail(email)).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (r *UserRepo) List(ctx context.Context, q string, p domain.Page) ([]domain.User, int64, error) {
	tx := r.db.WithContext(ctx).Model(&domain.User{})
	if s := strings.TrimSpace(q); s != "" {
		like := "%" + s + "%"
		tx = tx.Where("email LIKE ? OR name LIKE ?", like, like)
	}
	tx = tx.Session(&gorm.Session{})
	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var users []domain.User
	if err := paginate(tx.Order("created_at ASC, id ASC"), p).Find(&users).Error; err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

func (r *UserRepo) Update(ctx context.Context, u *domain.User) error {
	res := r.db.WithContext(ctx).Model(&domain.User{ID: u.ID}).
		Select("name", "email", "encrypted_password", "updated_at").
		Updates(u)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *UserRepo) AddRememberToken(ctx context.Context, t *domain.RememberToken) error {
	return translate(r.db.WithContext(ctx).Create(t).Error)
}

func (r *UserRepo) FindRememberToken(ctx context.Context, id string) (*domain.RememberToken, error) {
	var t domain.RememberToken
	if err := r.db.WithContext(ctx).First(&t, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &t, nil
}

func (r *UserRepo) DeleteRememberTokens(ctx context.Context, userID string) error {
	return r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&domain.RememberToken{}).Error
}

func (r *UserRepo) SetAdmin(ctx context.Context, id string, admin bool) error {
	return r.updateColumn(ctx, id, "admin", admin)
}

// updateColumn 调用方已加载过该用户；MySQL 值未变时 RowsAffected 为 0，不据此判断不存在
func (r *UserRepo) updateColumn(ctx context.Context, id, col string, v any) error {
	return r.db.WithContext(ctx).Model(&domain.User{}).Where("id = ?", id).Update(col, v).Error
}

func (r *UserRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", id).Delete(&domain.Micropost{}).Error; err != nil {
			return err
		}
		if err := tx.Where("follower_id = ? OR followed_id = ?", id, id).Delete(&domain.Relationship{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&domain.RememberToken{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&domain.User{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrNotFound
		}
		return nil
	})
}
