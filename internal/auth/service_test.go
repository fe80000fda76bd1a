package auth

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"dammed/internal/store/gormstore"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	store, err := gormstore.NewGormStore(filepath.Join(t.TempDir(), "dammed.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	svc, err := NewService(store, "test-secret", time.Hour)
	require.NoError(t, err)
	return svc
}

func TestRegisterAndLogin(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, "alice", "secret123")
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)

	token, logged, err := svc.Login(ctx, "alice", "secret123")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, user.ID, logged.ID)

	claims, err := svc.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, "alice", claims.Username)
}

func TestRegisterRejectsWeakInput(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "", "secret123")
	assert.Error(t, err)

	_, err = svc.Register(ctx, "alice", "short")
	assert.Error(t, err)
}

func TestRegisterDuplicateUsername(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice", "secret123")
	require.NoError(t, err)
	_, err = svc.Register(ctx, "alice", "other-secret")
	assert.ErrorIs(t, err, ErrUserExists)
}

func TestLoginWrongPassword(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice", "secret123")
	require.NoError(t, err)

	_, _, err = svc.Login(ctx, "alice", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	// 不存在的用户返回同样的错误，不暴露用户是否存在
	_, _, err = svc.Login(ctx, "nobody", "secret123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestPasswordsHashedPerUser(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice", "same-password")
	require.NoError(t, err)
	_, err = svc.Register(ctx, "bob", "same-password")
	require.NoError(t, err)

	_, hashA, err := svc.store.UserByUsername(ctx, "alice")
	require.NoError(t, err)
	_, hashB, err := svc.store.UserByUsername(ctx, "bob")
	require.NoError(t, err)
	// bcrypt 每次加盐，相同密码得到不同哈希
	assert.NotEqual(t, hashA, hashB)
	assert.NotContains(t, hashA, "same-password")
}
