package article

import (
	"errors"
	"testing"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateArticleRequestValidate(t *testing.T) {
	valid := CreateArticleRequest{
		Title:       "How to Go",
		Description: "short intro",
		Body:        "content",
		Tags:        []string{"go"},
	}
	assert.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(r *CreateArticleRequest)
		field  string
	}{
		{"empty title", func(r *CreateArticleRequest) { r.Title = "" }, "title"},
		{"blank title", func(r *CreateArticleRequest) { r.Title = "   " }, "title"},
		{"blank description", func(r *CreateArticleRequest) { r.Description = " " }, "description"},
		{"empty body", func(r *CreateArticleRequest) { r.Body = "" }, "body"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid
			tt.mutate(&req)

			err := req.Validate()
			require.Error(t, err)

			var vErrs validation.Errors
			require.True(t, errors.As(err, &vErrs))
			assert.Contains(t, vErrs, tt.field)
		})
	}
}

func TestUpdateArticleRequestValidate(t *testing.T) {
	// Empty update là valid ở DTO level (handler reject riêng qua IsEmpty)
	assert.NoError(t, UpdateArticleRequest{}.Validate())
	assert.True(t, UpdateArticleRequest{}.IsEmpty())

	blank := "   "
	err := UpdateArticleRequest{Title: &blank}.Validate()
	require.Error(t, err)

	var vErrs validation.Errors
	require.True(t, errors.As(err, &vErrs))
	assert.Contains(t, vErrs, "title")

	tags := []string{"go"}
	assert.False(t, UpdateArticleRequest{Tags: &tags}.IsEmpty())
}

func TestListArticlesRequestDefaults(t *testing.T) {
	tests := []struct {
		name       string
		in         ListArticlesRequest
		wantLimit  int
		wantOffset int
	}{
		{"zero values", ListArticlesRequest{}, 20, 0},
		{"negative values", ListArticlesRequest{Limit: -5, Offset: -1}, 20, 0},
		{"over max limit", ListArticlesRequest{Limit: 500}, 100, 0},
		{"valid values kept", ListArticlesRequest{Limit: 50, Offset: 40}, 50, 40},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.in.SetDefaults()
			assert.Equal(t, tt.wantLimit, tt.in.Limit)
			assert.Equal(t, tt.wantOffset, tt.in.Offset)
		})
	}
}

func TestArticleMetaToDTO(t *testing.T) {
	m := ArticleMeta{
		AuthorUsername: "alice",
		FavoritesCount: 3,
		Favorited:      true,
	}
	m.Title = "Post"

	dto := m.ToDTO()
	assert.Equal(t, "alice", dto.Author.Username)
	assert.Equal(t, 3, dto.FavoritesCount)
	assert.True(t, dto.Favorited)

	// nil tag slice serialize thành [] thay vì null
	assert.NotNil(t, dto.Tags)
	assert.Empty(t, dto.Tags)
}
