package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"conduit-backend/internal/domains/user"
	"conduit-backend/pkg/jwt"
	"conduit-backend/pkg/logger"
)

// userService implement user.Service interface
type userService struct {
	repo       user.Repository
	jwtManager *jwt.Manager
}

// NewUserService tạo service instance (constructor injection)
func NewUserService(repo user.Repository, jwtManager *jwt.Manager) user.Service {
	return &userService{
		repo:       repo,
		jwtManager: jwtManager,
	}
}

// ========================================
// AUTHENTICATION
// ========================================

// Register tạo user mới và issue token pair
func (s *userService) Register(ctx context.Context, req user.RegisterRequest) (*user.AuthResponse, error) {
	// 1. VALIDATE INPUT
	if err := req.Validate(); err != nil {
		return nil, err
	}

	// 2. HASH PASSWORD
	// bcrypt cost = 12: balance giữa security và performance
	passwordHash, err := bcrypt.GenerateFromPassword([]byte(req.Password), 12)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	// 3. CREATE USER ENTITY
	now := time.Now()
	newUser := &user.User{
		ID:           uuid.New(),
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: string(passwordHash),
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	// 4. PERSIST TO DATABASE
	// Duplicate username/email surface từ unique constraint, không cần
	// check-then-insert (tránh race giữa hai registration đồng thời)
	if err := s.repo.Create(ctx, newUser); err != nil {
		return nil, err
	}

	// 5. ISSUE TOKEN PAIR
	return s.issueTokens(ctx, newUser)
}

// Login xác thực credentials và issue token pair mới
func (s *userService) Login(ctx context.Context, req user.LoginRequest) (*user.AuthResponse, error) {
	// 1. VALIDATE INPUT
	if err := req.Validate(); err != nil {
		return nil, err
	}

	// 2. FIND USER BY EMAIL
	u, err := s.repo.FindByEmail(ctx, req.Email)
	if err != nil {
		// Không expose "email not found" - attacker không biết email có
		// tồn tại hay không
		return nil, user.ErrInvalidCredentials
	}

	// 3. CHECK ACCOUNT STATUS
	if !u.IsActive {
		return nil, user.ErrUserInactive
	}

	// 4. VERIFY PASSWORD (constant-time comparison)
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		return nil, user.ErrInvalidCredentials
	}

	// 5. ISSUE TOKEN PAIR
	return s.issueTokens(ctx, u)
}

// RefreshToken exchange refresh token lấy token pair mới
func (s *userService) RefreshToken(ctx context.Context, refreshToken string) (*user.AuthResponse, error) {
	claims, err := s.jwtManager.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, user.ErrInvalidToken
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, user.ErrInvalidToken
	}

	u, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, user.ErrInvalidToken
	}

	if !u.IsActive {
		return nil, user.ErrUserInactive
	}

	return s.issueTokens(ctx, u)
}

// issueTokens generate access/refresh pair và persist access token mới nhất
// lên user row. Token persistence là advisory - stateless JWT validation
// vẫn quyết định auth.
func (s *userService) issueTokens(ctx context.Context, u *user.User) (*user.AuthResponse, error) {
	accessToken, err := s.jwtManager.GenerateAccessToken(u.ID.String(), u.Username)
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}

	refreshToken, err := s.jwtManager.GenerateRefreshToken(u.ID.String())
	if err != nil {
		return nil, fmt.Errorf("generate refresh token: %w", err)
	}

	if err := s.repo.UpdateToken(ctx, u.ID, accessToken); err != nil {
		// Không fail login vì persistence này chỉ là audit
		logger.Warn("failed to persist access token", map[string]interface{}{
			"user_id": u.ID,
			"error":   err.Error(),
		})
	}

	return &user.AuthResponse{
		User:         u.ToDTO(),
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// ========================================
// SELF-SERVICE
// ========================================

func (s *userService) GetCurrentUser(ctx context.Context, userID uuid.UUID) (*user.UserDTO, error) {
	u, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	dto := u.ToDTO()
	return &dto, nil
}

// UpdateUser cập nhật profile fields trong whitelist
// Password được re-hash, không bao giờ lưu plaintext
func (s *userService) UpdateUser(ctx context.Context, userID uuid.UUID, req user.UpdateUserRequest) (*user.UserDTO, error) {
	// 1. VALIDATE INPUT
	if err := req.Validate(); err != nil {
		return nil, err
	}

	// 2. GET CURRENT USER
	u, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	// 3. APPLY PARTIAL UPDATE (chỉ update fields được gửi lên)
	if req.Email != nil {
		u.Email = *req.Email
	}
	if req.Username != nil {
		u.Username = *req.Username
	}
	if req.Password != nil {
		passwordHash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), 12)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		u.PasswordHash = string(passwordHash)
	}
	if req.Image != nil {
		u.Image = req.Image
	}
	if req.Bio != nil {
		u.Bio = req.Bio
	}

	// 4. PERSIST - unique violation surface thành ErrUsernameAlreadyExists /
	// ErrEmailAlreadyExists từ repository
	if err := s.repo.Update(ctx, u); err != nil {
		return nil, err
	}

	dto := u.ToDTO()
	return &dto, nil
}

// ========================================
// PROFILES & FOLLOWS
// ========================================

func (s *userService) GetProfile(ctx context.Context, username string, viewerID uuid.UUID) (*user.ProfileDTO, error) {
	u, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	following := false
	if viewerID != uuid.Nil && viewerID != u.ID {
		following, err = s.repo.IsFollowing(ctx, viewerID, u.ID)
		if err != nil {
			return nil, fmt.Errorf("check following: %w", err)
		}
	}

	profile := u.ToProfileDTO(following)
	return &profile, nil
}

// FollowUser - idempotent toggle:
// created=true nếu follow mới được tạo, false nếu đã follow từ trước.
// Self-follow bị reject trước khi chạm storage.
func (s *userService) FollowUser(ctx context.Context, followerID uuid.UUID, username string) (bool, *user.ProfileDTO, error) {
	target, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		return false, nil, err
	}

	if target.ID == followerID {
		return false, nil, user.ErrSelfFollow
	}

	created, err := s.repo.Follow(ctx, followerID, target.ID)
	if err != nil {
		return false, nil, err
	}

	profile := target.ToProfileDTO(true)
	return created, &profile, nil
}

// UnfollowUser xóa follow pair; absent pair → ErrNotFollowing (404)
func (s *userService) UnfollowUser(ctx context.Context, followerID uuid.UUID, username string) error {
	target, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		return err
	}

	removed, err := s.repo.Unfollow(ctx, followerID, target.ID)
	if err != nil {
		return err
	}

	if !removed {
		return user.ErrNotFollowing
	}

	return nil
}
