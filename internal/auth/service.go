package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"dammed/internal/store/gormstore"

	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials 用户名或密码错误（对外不区分两者）。
var ErrInvalidCredentials = errors.New("invalid username or password")

// ErrUserExists 注册时用户名已被占用。
var ErrUserExists = gormstore.ErrUserExists

// Service 注册/登录服务。密码使用 bcrypt（每用户随机盐）。
type Service struct {
	store    *gormstore.GormStore
	secret   string
	tokenTTL time.Duration
}

// NewService 构建认证服务。
func NewService(store *gormstore.GormStore, secret string, tokenTTL time.Duration) (*Service, error) {
	if store == nil {
		return nil, errors.New("auth service requires a store")
	}
	if strings.TrimSpace(secret) == "" {
		return nil, errors.New("auth service requires a jwt secret")
	}
	if tokenTTL <= 0 {
		tokenTTL = DefaultTokenTTL
	}
	return &Service{store: store, secret: secret, tokenTTL: tokenTTL}, nil
}

// Register 注册新用户。
func (s *Service) Register(ctx context.Context, username, password string) (gormstore.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return gormstore.User{}, fmt.Errorf("username cannot be empty")
	}
	if len(password) < 6 {
		return gormstore.User{}, fmt.Errorf("password must be at least 6 characters")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return gormstore.User{}, fmt.Errorf("hashing password: %w", err)
	}
	return s.store.CreateUser(ctx, username, string(hash))
}

// Login 校验凭据并签发会话令牌。
func (s *Service) Login(ctx context.Context, username, password string) (string, gormstore.User, error) {
	user, hash, err := s.store.UserByUsername(ctx, username)
	if errors.Is(err, gormstore.ErrNotFound) {
		return "", gormstore.User{}, ErrInvalidCredentials
	}
	if err != nil {
		return "", gormstore.User{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return "", gormstore.User{}, ErrInvalidCredentials
	}
	token, err := GenerateToken(s.secret, user.ID, user.Username, s.tokenTTL)
	if err != nil {
		return "", gormstore.User{}, err
	}
	return token, user, nil
}

// Verify 校验令牌并返回 claims。
func (s *Service) Verify(tokenStr string) (*Claims, error) {
	return ValidateToken(s.secret, tokenStr)
}
