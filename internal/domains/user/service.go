package user

import (
	"context"

	"github.com/google/uuid"
)

// Service là business logic contract cho user domain
type Service interface {
	// Authentication
	Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error)
	Login(ctx context.Context, req LoginRequest) (*AuthResponse, error)
	RefreshToken(ctx context.Context, refreshToken string) (*AuthResponse, error)

	// Self-service
	GetCurrentUser(ctx context.Context, userID uuid.UUID) (*UserDTO, error)
	UpdateUser(ctx context.Context, userID uuid.UUID, req UpdateUserRequest) (*UserDTO, error)

	// Profiles & follows
	// viewerID = uuid.Nil cho anonymous requests
	GetProfile(ctx context.Context, username string, viewerID uuid.UUID) (*ProfileDTO, error)
	FollowUser(ctx context.Context, followerID uuid.UUID, username string) (created bool, profile *ProfileDTO, err error)
	UnfollowUser(ctx context.Context, followerID uuid.UUID, username string) error
}
