// Package testutil 测试用的内存数据库与数据构造
package testutil

import (
	"fmt"
	"testing"
	"time"

	"gorm.io/gorm"

	"sample-app/internal/core/database"
	"sample-app/internal/domain"
	"sample-app/pkg/utils"
)

// NewDB 每个测试一个独立的内存 SQLite 库
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", utils.NewID())
	db, err := database.NewGorm(database.Opts{Driver: "sqlite", DSN: dsn, LogLevel: "silent", MaxOpenConns: 1})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// InsertUser 直接落库一个用户（密码哈希为占位值，不可登录）
func InsertUser(t testing.TB, db *gorm.DB, name, email string) *domain.User {
	t.Helper()
	u := &domain.User{
		ID:           utils.NewID(),
		Name:         name,
		Email:        domain.NormalizeEmail(email),
		PasswordHash: "x",
		Salt:         utils.NewSalt(),
	}
	if err := db.Create(u).Error; err != nil {
		t.Fatalf("insert user: %v", err)
	}
	return u
}

// InsertMicropost 指定创建时间落库一条微博
func InsertMicropost(t testing.TB, db *gorm.DB, userID, content string, at time.Time) *domain.Micropost {
	t.Helper()
	m := &domain.Micropost{ID: utils.NewID(), UserID: userID, Content: content, CreatedAt: at, UpdatedAt: at}
	if err := db.Create(m).Error; err != nil {
		t.Fatalf("insert micropost: %v", err)
	}
	return m
}

// Follow 直接落库一条关注关系
func Follow(t testing.TB, db *gorm.DB, followerID, followedID string) *domain.Relationship {
	t.Helper()
	r := &domain.Relationship{ID: utils.NewID(), FollowerID: followerID, FollowedID: followedID}
	if err := db.Create(r).Error; err != nil {
		t.Fatalf("insert relationship: %v", err)
	}
	return r
}
