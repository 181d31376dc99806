package service

import (
	"context"
	"errors"
	"testing"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"conduit-backend/internal/domains/user"
	"conduit-backend/pkg/jwt"
)

// ========================================
// FAKE REPOSITORY
// ========================================

// fakeUserRepo - in-memory implementation của user.Repository.
// Dùng fake thay vì mock framework: dễ đọc, thấy rõ behavior.
type fakeUserRepo struct {
	users   map[uuid.UUID]*user.User
	follows map[[2]uuid.UUID]bool
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		users:   make(map[uuid.UUID]*user.User),
		follows: make(map[[2]uuid.UUID]bool),
	}
}

func (f *fakeUserRepo) Create(ctx context.Context, u *user.User) error {
	for _, existing := range f.users {
		if existing.Username == u.Username {
			return user.ErrUsernameAlreadyExists
		}
		if existing.Email == u.Email {
			return user.ErrEmailAlreadyExists
		}
	}
	copied := *u
	f.users[u.ID] = &copied
	return nil
}

func (f *fakeUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, user.ErrUserNotFound
	}
	copied := *u
	return &copied, nil
}

func (f *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, user.ErrUserNotFound
}

func (f *fakeUserRepo) FindByUsername(ctx context.Context, username string) (*user.User, error) {
	for _, u := range f.users {
		if u.Username == username {
			copied := *u
			return &copied, nil
		}
	}
	return nil, user.ErrUserNotFound
}

func (f *fakeUserRepo) Update(ctx context.Context, u *user.User) error {
	if _, ok := f.users[u.ID]; !ok {
		return user.ErrUserNotFound
	}
	for id, existing := range f.users {
		if id == u.ID {
			continue
		}
		if existing.Username == u.Username {
			return user.ErrUsernameAlreadyExists
		}
		if existing.Email == u.Email {
			return user.ErrEmailAlreadyExists
		}
	}
	copied := *u
	f.users[u.ID] = &copied
	return nil
}

func (f *fakeUserRepo) UpdateToken(ctx context.Context, id uuid.UUID, token string) error {
	u, ok := f.users[id]
	if !ok {
		return user.ErrUserNotFound
	}
	u.Token = &token
	return nil
}

func (f *fakeUserRepo) Follow(ctx context.Context, followerID, followingID uuid.UUID) (bool, error) {
	key := [2]uuid.UUID{followerID, followingID}
	if f.follows[key] {
		return false, nil
	}
	f.follows[key] = true
	return true, nil
}

func (f *fakeUserRepo) Unfollow(ctx context.Context, followerID, followingID uuid.UUID) (bool, error) {
	key := [2]uuid.UUID{followerID, followingID}
	if !f.follows[key] {
		return false, nil
	}
	delete(f.follows, key)
	return true, nil
}

func (f *fakeUserRepo) IsFollowing(ctx context.Context, followerID, followingID uuid.UUID) (bool, error) {
	return f.follows[[2]uuid.UUID{followerID, followingID}], nil
}

// ========================================
// HELPERS
// ========================================

func newTestService(repo *fakeUserRepo) user.Service {
	manager := jwt.NewManager("test-secret-key", time.Hour, 24*time.Hour)
	return NewUserService(repo, manager)
}

func registerTestUser(t *testing.T, svc user.Service, username, email string) *user.AuthResponse {
	t.Helper()

	res, err := svc.Register(context.Background(), user.RegisterRequest{
		Username: username,
		Email:    email,
		Password: "Password1",
	})
	require.NoError(t, err)
	return res
}

// ========================================
// AUTHENTICATION TESTS
// ========================================

func TestRegisterAndLogin(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestService(repo)

	res := registerTestUser(t, svc, "alice", "alice@example.com")

	assert.Equal(t, "alice", res.User.Username)
	assert.Equal(t, "alice@example.com", res.User.Email)
	assert.NotEmpty(t, res.AccessToken)
	assert.NotEmpty(t, res.RefreshToken)

	// Password hash không được leak ra response và không phải plaintext
	stored, err := repo.FindByID(context.Background(), res.User.ID)
	require.NoError(t, err)
	assert.NotEqual(t, "Password1", stored.PasswordHash)

	// Latest access token persisted lên user row
	require.NotNil(t, stored.Token)
	assert.Equal(t, res.AccessToken, *stored.Token)

	// Login với đúng credentials
	loginRes, err := svc.Login(context.Background(), user.LoginRequest{
		Email:    "alice@example.com",
		Password: "Password1",
	})
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, loginRes.User.ID)
}

func TestLoginInvalidCredentials(t *testing.T) {
	svc := newTestService(newFakeUserRepo())
	registerTestUser(t, svc, "alice", "alice@example.com")

	// Sai password
	_, err := svc.Login(context.Background(), user.LoginRequest{
		Email:    "alice@example.com",
		Password: "WrongPass1",
	})
	assert.ErrorIs(t, err, user.ErrInvalidCredentials)

	// Email không tồn tại - cùng error, không leak thông tin
	_, err = svc.Login(context.Background(), user.LoginRequest{
		Email:    "nobody@example.com",
		Password: "Password1",
	})
	assert.ErrorIs(t, err, user.ErrInvalidCredentials)
}

func TestRegisterDuplicate(t *testing.T) {
	svc := newTestService(newFakeUserRepo())
	registerTestUser(t, svc, "alice", "alice@example.com")

	_, err := svc.Register(context.Background(), user.RegisterRequest{
		Username: "alice",
		Email:    "other@example.com",
		Password: "Password1",
	})
	assert.ErrorIs(t, err, user.ErrUsernameAlreadyExists)

	_, err = svc.Register(context.Background(), user.RegisterRequest{
		Username: "alice2",
		Email:    "alice@example.com",
		Password: "Password1",
	})
	assert.ErrorIs(t, err, user.ErrEmailAlreadyExists)
}

func TestRegisterValidation(t *testing.T) {
	svc := newTestService(newFakeUserRepo())

	tests := []struct {
		name  string
		req   user.RegisterRequest
		field string
	}{
		{
			name:  "password too short",
			req:   user.RegisterRequest{Username: "alice", Email: "a@example.com", Password: "Ab1"},
			field: "password",
		},
		{
			name:  "password without digit",
			req:   user.RegisterRequest{Username: "alice", Email: "a@example.com", Password: "Abcdefgh"},
			field: "password",
		},
		{
			name:  "password without uppercase",
			req:   user.RegisterRequest{Username: "alice", Email: "a@example.com", Password: "abcdefg1"},
			field: "password",
		},
		{
			name:  "username with spaces",
			req:   user.RegisterRequest{Username: "a b c", Email: "a@example.com", Password: "Password1"},
			field: "username",
		},
		{
			name:  "invalid email",
			req:   user.RegisterRequest{Username: "alice", Email: "not-an-email", Password: "Password1"},
			field: "email",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(context.Background(), tt.req)
			require.Error(t, err)

			var vErrs validation.Errors
			require.True(t, errors.As(err, &vErrs))
			assert.Contains(t, vErrs, tt.field)
		})
	}
}

func TestRefreshToken(t *testing.T) {
	svc := newTestService(newFakeUserRepo())
	res := registerTestUser(t, svc, "alice", "alice@example.com")

	refreshed, err := svc.RefreshToken(context.Background(), res.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, refreshed.User.ID)
	assert.NotEmpty(t, refreshed.AccessToken)

	// Access token không dùng được làm refresh token
	_, err = svc.RefreshToken(context.Background(), res.AccessToken)
	assert.ErrorIs(t, err, user.ErrInvalidToken)

	// Garbage token
	_, err = svc.RefreshToken(context.Background(), "not-a-token")
	assert.ErrorIs(t, err, user.ErrInvalidToken)
}

// ========================================
// SELF-SERVICE TESTS
// ========================================

func TestUpdateUser(t *testing.T) {
	svc := newTestService(newFakeUserRepo())
	res := registerTestUser(t, svc, "alice", "alice@example.com")

	bio := "gopher"
	newPassword := "NewPassword1"

	dto, err := svc.UpdateUser(context.Background(), res.User.ID, user.UpdateUserRequest{
		Bio:      &bio,
		Password: &newPassword,
	})
	require.NoError(t, err)
	require.NotNil(t, dto.Bio)
	assert.Equal(t, "gopher", *dto.Bio)
	assert.Equal(t, "alice", dto.Username) // field không gửi lên giữ nguyên

	// Password mới dùng được để login, password cũ thì không
	_, err = svc.Login(context.Background(), user.LoginRequest{
		Email:    "alice@example.com",
		Password: newPassword,
	})
	assert.NoError(t, err)

	_, err = svc.Login(context.Background(), user.LoginRequest{
		Email:    "alice@example.com",
		Password: "Password1",
	})
	assert.ErrorIs(t, err, user.ErrInvalidCredentials)
}

func TestUpdateUserDuplicateUsername(t *testing.T) {
	svc := newTestService(newFakeUserRepo())
	registerTestUser(t, svc, "alice", "alice@example.com")
	res := registerTestUser(t, svc, "bob", "bob@example.com")

	taken := "alice"
	_, err := svc.UpdateUser(context.Background(), res.User.ID, user.UpdateUserRequest{
		Username: &taken,
	})
	assert.ErrorIs(t, err, user.ErrUsernameAlreadyExists)
}

// ========================================
// PROFILE & FOLLOW TESTS
// ========================================

func TestFollowLifecycle(t *testing.T) {
	svc := newTestService(newFakeUserRepo())
	alice := registerTestUser(t, svc, "alice", "alice@example.com")
	registerTestUser(t, svc, "bob", "bob@example.com")

	ctx := context.Background()

	// Lần đầu: created=true
	created, profile, err := svc.FollowUser(ctx, alice.User.ID, "bob")
	require.NoError(t, err)
	assert.True(t, created)
	assert.True(t, profile.Following)

	// Follow lần nữa: idempotent, created=false
	created, _, err = svc.FollowUser(ctx, alice.User.ID, "bob")
	require.NoError(t, err)
	assert.False(t, created)

	// Profile của bob qua mắt alice có following=true
	p, err := svc.GetProfile(ctx, "bob", alice.User.ID)
	require.NoError(t, err)
	assert.True(t, p.Following)

	// Unfollow
	require.NoError(t, svc.UnfollowUser(ctx, alice.User.ID, "bob"))

	// Unfollow khi không follow → not found
	err = svc.UnfollowUser(ctx, alice.User.ID, "bob")
	assert.ErrorIs(t, err, user.ErrNotFollowing)
}

func TestSelfFollowRejected(t *testing.T) {
	svc := newTestService(newFakeUserRepo())
	alice := registerTestUser(t, svc, "alice", "alice@example.com")

	_, _, err := svc.FollowUser(context.Background(), alice.User.ID, "alice")
	assert.ErrorIs(t, err, user.ErrSelfFollow)
}

func TestFollowUnknownUser(t *testing.T) {
	svc := newTestService(newFakeUserRepo())
	alice := registerTestUser(t, svc, "alice", "alice@example.com")

	_, _, err := svc.FollowUser(context.Background(), alice.User.ID, "ghost")
	assert.ErrorIs(t, err, user.ErrUserNotFound)
}

func TestGetProfileAnonymous(t *testing.T) {
	svc := newTestService(newFakeUserRepo())
	registerTestUser(t, svc, "alice", "alice@example.com")

	// Anonymous viewer: following luôn false
	p, err := svc.GetProfile(context.Background(), "alice", uuid.Nil)
	require.NoError(t, err)
	assert.Equal(t, "alice", p.Username)
	assert.False(t, p.Following)
}
