package article

import (
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"conduit-backend/internal/domains/user"
)

// notBlank fails trên strings chỉ chứa whitespace
// (validation.Required chỉ bắt empty string)
func notBlank(value interface{}) error {
	s, _ := value.(string)
	if strings.TrimSpace(s) == "" {
		return validation.NewError("validation_blank", "cannot be blank")
	}
	return nil
}

// ========================================
// WRITE DTOs
// ========================================

type CreateArticleRequest struct {
	Title       string   `json:"title" binding:"required"`
	Description string   `json:"description" binding:"required"`
	Body        string   `json:"body" binding:"required"`
	Tags        []string `json:"tags,omitempty"`
}

func (r CreateArticleRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title,
			validation.Required.Error("title is required"),
			validation.By(notBlank),
			validation.Length(1, 255),
		),
		validation.Field(&r.Description,
			validation.Required.Error("description is required"),
			validation.By(notBlank),
		),
		validation.Field(&r.Body,
			validation.Required.Error("body is required"),
			validation.By(notBlank),
		),
		validation.Field(&r.Tags,
			validation.Each(validation.Length(1, 50)),
		),
	)
}

// UpdateArticleRequest - partial update, field nil = không đổi.
// Tags non-nil thay toàn bộ tag set của article.
type UpdateArticleRequest struct {
	Title       *string   `json:"title,omitempty"`
	Description *string   `json:"description,omitempty"`
	Body        *string   `json:"body,omitempty"`
	Tags        *[]string `json:"tags,omitempty"`
}

func (r UpdateArticleRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title,
			validation.When(r.Title != nil, validation.By(notBlank), validation.Length(1, 255)),
		),
		validation.Field(&r.Description,
			validation.When(r.Description != nil, validation.By(notBlank)),
		),
		validation.Field(&r.Body,
			validation.When(r.Body != nil, validation.By(notBlank)),
		),
	)
}

func (r UpdateArticleRequest) IsEmpty() bool {
	return r.Title == nil && r.Description == nil && r.Body == nil && r.Tags == nil
}

// ========================================
// READ DTOs
// ========================================

// ArticleDTO - wire representation của một article
type ArticleDTO struct {
	ID             uuid.UUID       `json:"id"`
	Slug           string          `json:"slug"`
	Title          string          `json:"title"`
	Description    string          `json:"description"`
	Body           string          `json:"body"`
	Tags           []string        `json:"tags"`
	Author         user.ProfileDTO `json:"author"`
	FavoritesCount int             `json:"favorites_count"`
	Favorited      bool            `json:"favorited"`
	ViewsCount     int             `json:"views_count"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// ToDTO converts ArticleMeta to wire representation
func (m *ArticleMeta) ToDTO() ArticleDTO {
	tags := m.TagNames
	if tags == nil {
		tags = []string{}
	}

	return ArticleDTO{
		ID:          m.ID,
		Slug:        m.Slug,
		Title:       m.Title,
		Description: m.Description,
		Body:        m.Body,
		Tags:        tags,
		Author: user.ProfileDTO{
			Username:  m.AuthorUsername,
			Bio:       m.AuthorBio,
			Image:     m.AuthorImage,
			Following: m.AuthorFollowing,
		},
		FavoritesCount: m.FavoritesCount,
		Favorited:      m.Favorited,
		ViewsCount:     m.ViewsCount,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}

// ========================================
// LIST / FILTER DTOs
// ========================================

// ListArticlesRequest - các filters là conjunctive (AND)
type ListArticlesRequest struct {
	Tag           string     `form:"tag"`
	Author        string     `form:"author"`
	Favorited     string     `form:"favorited"` // username của người favorite
	CreatedBefore *time.Time `form:"createdBefore" time_format:"2006-01-02T15:04:05Z07:00"`
	CreatedAfter  *time.Time `form:"createdAfter" time_format:"2006-01-02T15:04:05Z07:00"`
	Limit         int        `form:"limit"`
	Offset        int        `form:"offset"`
}

// SetDefaults áp pagination defaults
func (r *ListArticlesRequest) SetDefaults() {
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

// FeedRequest - feed chỉ có pagination, không có filters
type FeedRequest struct {
	Limit  int `form:"limit"`
	Offset int `form:"offset"`
}

func (r *FeedRequest) SetDefaults() {
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
