package user

import (
	"time"

	"github.com/google/uuid"
)

// User entity - map 1:1 với bảng users
type User struct {
	ID           uuid.UUID  `json:"id" db:"id"`
	Username     string     `json:"username" db:"username"`
	Email        string     `json:"email" db:"email"`
	PasswordHash string     `json:"-" db:"password_hash"` // Never expose in JSON
	Bio          *string    `json:"bio" db:"bio"`
	Image        *string    `json:"image" db:"image"`
	Token        *string    `json:"-" db:"token"` // Latest issued access token
	IsActive     bool       `json:"is_active" db:"is_active"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at" db:"updated_at"`
}

// Follow là directed relationship giữa hai users
// (follower_id, following_id) unique - duplicate follow là no-op
type Follow struct {
	FollowerID  uuid.UUID `json:"follower_id" db:"follower_id"`
	FollowingID uuid.UUID `json:"following_id" db:"following_id"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}
