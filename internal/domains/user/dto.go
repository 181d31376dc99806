package user

import (
	"regexp"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/google/uuid"
)

// ========================================
// AUTH DTOs
// ========================================

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

type RegisterRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (r RegisterRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Username,
			validation.Required.Error("username is required"),
			validation.Length(3, 150),
			validation.Match(usernamePattern).Error("username may only contain letters, numbers, dashes and underscores"),
		),
		validation.Field(&r.Email,
			validation.Required.Error("email is required"),
			is.Email.Error("invalid email format"),
			validation.Length(5, 255),
		),
		validation.Field(&r.Password,
			validation.Required.Error("password is required"),
			validation.Length(8, 128).Error("password must be 8-128 characters"),
			validation.Match(regexp.MustCompile(`[A-Z]`)).Error("password must contain at least one uppercase letter"),
			validation.Match(regexp.MustCompile(`[a-z]`)).Error("password must contain at least one lowercase letter"),
			validation.Match(regexp.MustCompile(`[0-9]`)).Error("password must contain at least one number"),
		),
	)
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required),
	)
}

// AuthResponse - user + JWT token pair, trả về sau register/login/refresh
type AuthResponse struct {
	User         UserDTO `json:"user"`
	AccessToken  string  `json:"access_token"`
	RefreshToken string  `json:"refresh_token"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

func (r RefreshTokenRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.RefreshToken, validation.Required),
	)
}

// ========================================
// USER / PROFILE DTOs
// ========================================

// UserDTO - representation của chính user đó (self view)
type UserDTO struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Bio       *string   `json:"bio"`
	Image     *string   `json:"image"`
	CreatedAt time.Time `json:"created_at"`
}

// ToDTO converts User entity to UserDTO
func (u *User) ToDTO() UserDTO {
	return UserDTO{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Bio:       u.Bio,
		Image:     u.Image,
		CreatedAt: u.CreatedAt,
	}
}

// ProfileDTO - public view của một user, Following phụ thuộc requester
type ProfileDTO struct {
	Username  string  `json:"username"`
	Bio       *string `json:"bio"`
	Image     *string `json:"image"`
	Following bool    `json:"following"`
}

func (u *User) ToProfileDTO(following bool) ProfileDTO {
	return ProfileDTO{
		Username:  u.Username,
		Bio:       u.Bio,
		Image:     u.Image,
		Following: following,
	}
}

// UpdateUserRequest - self-service partial update
// Whitelist cố định: email, username, password, image, bio
// Field nil = không đổi
type UpdateUserRequest struct {
	Email    *string `json:"email,omitempty"`
	Username *string `json:"username,omitempty"`
	Password *string `json:"password,omitempty"`
	Image    *string `json:"image,omitempty"`
	Bio      *string `json:"bio,omitempty"`
}

func (r UpdateUserRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email,
			validation.When(r.Email != nil, is.Email.Error("invalid email format")),
		),
		validation.Field(&r.Username,
			validation.When(r.Username != nil,
				validation.Length(3, 150),
				validation.Match(usernamePattern).Error("username may only contain letters, numbers, dashes and underscores"),
			),
		),
		validation.Field(&r.Password,
			validation.When(r.Password != nil,
				validation.Length(8, 128).Error("password must be 8-128 characters"),
				validation.Match(regexp.MustCompile(`[A-Z]`)).Error("password must contain at least one uppercase letter"),
				validation.Match(regexp.MustCompile(`[a-z]`)).Error("password must contain at least one lowercase letter"),
				validation.Match(regexp.MustCompile(`[0-9]`)).Error("password must contain at least one number"),
			),
		),
		validation.Field(&r.Image,
			validation.When(r.Image != nil, validation.Length(0, 255)),
		),
	)
}

// IsEmpty check không có field nào được gửi lên
func (r UpdateUserRequest) IsEmpty() bool {
	return r.Email == nil && r.Username == nil && r.Password == nil &&
		r.Image == nil && r.Bio == nil
}
