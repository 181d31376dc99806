package user

import (
	"context"

	"github.com/google/uuid"
)

// Repository là data access contract cho user domain
type Repository interface {
	// Users
	Create(ctx context.Context, u *User) error
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByUsername(ctx context.Context, username string) (*User, error)
	Update(ctx context.Context, u *User) error
	UpdateToken(ctx context.Context, id uuid.UUID, token string) error

	// Follows - idempotent toggle over unique (follower, following) pair.
	// Follow returns created=false when the pair already exists.
	// Unfollow returns removed=false when the pair does not exist.
	Follow(ctx context.Context, followerID, followingID uuid.UUID) (created bool, err error)
	Unfollow(ctx context.Context, followerID, followingID uuid.UUID) (removed bool, err error)
	IsFollowing(ctx context.Context, followerID, followingID uuid.UUID) (bool, error)
}
