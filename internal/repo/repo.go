package repo

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"sample-app/internal/domain"
)

// translate 把 gorm 错误映射到领域错误
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return domain.ErrNotFound
	case isDupKey(err):
		return domain.ErrDuplicateKey
	}
	return err
}

func isDupKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	// 不同驱动文案不同，按关键字兜底
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "unique violation")
}

func paginate(q *gorm.DB, p domain.Page) *gorm.DB {
	p = p.Normalize()
	return q.Offset(p.Offset()).Limit(p.Size)
}
