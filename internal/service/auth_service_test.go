package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/arpit00000/Blog-Devonate/internal/core/auth"
	"github.com/arpit00000/Blog-Devonate/internal/domain"
	"github.com/arpit00000/Blog-Devonate/pkg/utils"
)

type mockUsers struct{ mock.Mock }

func (m *mockUsers) Create(ctx context.Context, u *domain.User) error {
	return m.Called(ctx, u).Error(0)
}

func (m *mockUsers) FindByID(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	u, _ := args.Get(0).(*domain.User)
	return u, args.Error(1)
}

func (m *mockUsers) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	u, _ := args.Get(0).(*domain.User)
	return u, args.Error(1)
}

func (m *mockUsers) UpdateProfile(ctx context.Context, id string, p domain.ProfileUpdate) (*domain.User, error) {
	args := m.Called(ctx, id, p)
	u, _ := args.Get(0).(*domain.User)
	return u, args.Error(1)
}

func (m *mockUsers) List(ctx context.Context, q string, withDeleted bool, offset, limit int) ([]domain.UserWithCounts, int64, error) {
	args := m.Called(ctx, q, withDeleted, offset, limit)
	items, _ := args.Get(0).([]domain.UserWithCounts)
	return items, args.Get(1).(int64), args.Error(2)
}

func (m *mockUsers) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockUsers) SoftDelete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func testJWTer() *auth.JWTer {
	return &auth.JWTer{Secret: []byte("test-secret"), Issuer: "blog-test", TTL: time.Hour}
}

func TestAuthService_Signup(t *testing.T) {
	users := new(mockUsers)
	jwter := testJWTer()
	svc := NewAuthService(users, jwter, zap.NewNop())

	users.On("Create", mock.Anything, mock.MatchedBy(func(u *domain.User) bool {
		return u.Email == "alice@example.com" && u.Role == domain.RoleUser && u.PasswordHash != "secret123"
	})).Return(nil).Once()

	sess, err := svc.Signup(context.Background(), SignupInput{Name: " Alice ", Email: " Alice@Example.com", Password: "secret123"})
	require.NoError(t, err)
	assert.Equal(t, "Alice", sess.User.Name)
	assert.True(t, utils.CheckPassword("secret123", sess.User.PasswordHash))

	claims, err := jwter.Parse(sess.Token)
	require.NoError(t, err)
	assert.Equal(t, sess.User.ID, claims.UID)
	assert.Equal(t, domain.RoleUser, claims.Role)
	users.AssertExpectations(t)
}

func TestAuthService_SignupErrors(t *testing.T) {
	users := new(mockUsers)
	svc := NewAuthService(users, testJWTer(), zap.NewNop())

	_, err := svc.Signup(context.Background(), SignupInput{Email: "a@b.c", Password: "x"})
	assert.ErrorIs(t, err, domain.ErrInvalidRequest)

	users.On("Create", mock.Anything, mock.Anything).Return(domain.ErrConflict).Once()
	_, err = svc.Signup(context.Background(), SignupInput{Name: "A", Email: "a@b.c", Password: "x"})
	assert.ErrorIs(t, err, domain.ErrConflict)
	users.AssertExpectations(t)
}

func TestAuthService_Login(t *testing.T) {
	users := new(mockUsers)
	svc := NewAuthService(users, testJWTer(), zap.NewNop())
	hash, err := utils.HashPassword("secret123")
	require.NoError(t, err)
	alice := &domain.User{ID: "u-1", Email: "alice@example.com", Name: "Alice", PasswordHash: hash, Role: domain.RoleAdmin}

	users.On("FindByEmail", mock.Anything, "alice@example.com").Return(alice, nil)
	users.On("FindByEmail", mock.Anything, "ghost@example.com").Return(nil, domain.ErrNotFound)

	sess, err := svc.Login(context.Background(), "ALICE@example.com ", "secret123")
	require.NoError(t, err)
	assert.Equal(t, "u-1", sess.User.ID)
	assert.NotEmpty(t, sess.Token)

	_, err = svc.Login(context.Background(), "alice@example.com", "wrong")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	_, err = svc.Login(context.Background(), "ghost@example.com", "secret123")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestAuthService_CreateAdmin(t *testing.T) {
	users := new(mockUsers)
	svc := NewAuthService(users, testJWTer(), zap.NewNop())
	users.On("Create", mock.Anything, mock.MatchedBy(func(u *domain.User) bool { return u.Role == domain.RoleAdmin })).Return(nil)

	u, err := svc.CreateAdmin(context.Background(), SignupInput{Name: "Root", Email: "root@example.com", Password: "pw"})
	require.NoError(t, err)
	assert.True(t, u.IsAdmin())
}

func TestUserService(t *testing.T) {
	ctx := context.Background()
	users := new(mockUsers)
	svc := NewUserService(users, zap.NewNop())

	_, err := svc.UpdateProfile(ctx, "u-1", domain.ProfileUpdate{Name: "  "})
	assert.ErrorIs(t, err, domain.ErrInvalidRequest)

	assert.ErrorIs(t, svc.Ban(ctx, "admin-1", "admin-1"), domain.ErrInvalidRequest)

	users.On("SoftDelete", mock.Anything, "u-2").Return(nil).Once()
	require.NoError(t, svc.Ban(ctx, "admin-1", "u-2"))

	users.On("List", mock.Anything, "bob", false, 0, 20).Return([]domain.UserWithCounts{{PostsCount: 2}}, int64(1), nil).Once()
	page, err := svc.List(ctx, " bob ", false, -5, 500)
	require.NoError(t, err)
	assert.EqualValues(t, 1, page.Total)
	assert.Len(t, page.Items, 1)
	users.AssertExpectations(t)
}
