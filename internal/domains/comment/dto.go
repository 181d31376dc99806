package comment

import (
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"conduit-backend/internal/domains/user"
)

func notBlank(value interface{}) error {
	s, _ := value.(string)
	if strings.TrimSpace(s) == "" {
		return validation.NewError("validation_blank", "cannot be blank")
	}
	return nil
}

type CreateCommentRequest struct {
	Body string `json:"body" binding:"required"`
}

func (r CreateCommentRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Body,
			validation.Required.Error("body is required"),
			validation.By(notBlank),
		),
	)
}

type UpdateCommentRequest struct {
	Body string `json:"body" binding:"required"`
}

func (r UpdateCommentRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Body,
			validation.Required.Error("body is required"),
			validation.By(notBlank),
		),
	)
}

// CommentDTO - wire representation với author profile embedded
type CommentDTO struct {
	ID        uuid.UUID       `json:"id"`
	Body      string          `json:"body"`
	Author    user.ProfileDTO `json:"author"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

func (m *CommentMeta) ToDTO() CommentDTO {
	return CommentDTO{
		ID:   m.ID,
		Body: m.Body,
		Author: user.ProfileDTO{
			Username:  m.AuthorUsername,
			Bio:       m.AuthorBio,
			Image:     m.AuthorImage,
			Following: m.AuthorFollowing,
		},
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

type ListCommentsRequest struct {
	Limit  int `form:"limit"`
	Offset int `form:"offset"`
}

func (r *ListCommentsRequest) SetDefaults() {
	if r.Limit <= 0 {
		r.Limit = 20
	}
	if r.Limit > 100 {
		r.Limit = 100
	}
	if r.Offset < 0 {
		r.Offset = 0
	}
}
