package gormstore

import (
	"context"
	"errors"
	"strings"
	"time"

	storemodel "dammed/internal/store/model"

	"gorm.io/gorm"
)

// User 认证用户的对外视图。
type User struct {
	ID        int64
	Username  string
	CreatedAt time.Time
}

func toUser(m storemodel.UserModel) User {
	return User{
		ID:        m.ID,
		Username:  m.Username,
		CreatedAt: time.Unix(m.CreatedAtUnix, 0).UTC(),
	}
}

// CreateUser 新建用户；用户名冲突返回 ErrUserExists。
// 唯一性交给 username 的唯一索引裁决，并发注册不会产生先查后插的竞态窗口。
func (s *GormStore) CreateUser(ctx context.Context, username, passwordHash string) (User, error) {
	m := storemodel.UserModel{
		Username:      strings.TrimSpace(username),
		PasswordHash:  passwordHash,
		CreatedAtUnix: time.Now().Unix(),
	}
	if err := s.db.WithContext(ctx).Create(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return User{}, ErrUserExists
		}
		return User{}, err
	}
	return toUser(m), nil
}

// UserByUsername 按用户名查找；不存在返回 ErrNotFound。
func (s *GormStore) UserByUsername(ctx context.Context, username string) (User, string, error) {
	var m storemodel.UserModel
	err := s.db.WithContext(ctx).Where("username = ?", strings.TrimSpace(username)).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return User{}, "", ErrNotFound
	}
	if err != nil {
		return User{}, "", err
	}
	return toUser(m), m.PasswordHash, nil
}

// UserByID 按 ID 查找；不存在返回 ErrNotFound。
func (s *GormStore) UserByID(ctx context.Context, id int64) (User, error) {
	var m storemodel.UserModel
	err := s.db.WithContext(ctx).First(&m, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return User{}, ErrNotFound
	}
	if err != nil {
		return User{}, err
	}
	return toUser(m), nil
}
