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

	"conduit-backend/internal/domains/article"
	"conduit-backend/internal/domains/comment"
)

// ========================================
// FAKES
// ========================================

// fakeCommentRepo - in-memory implementation của comment.Repository
type fakeCommentRepo struct {
	comments map[uuid.UUID]*comment.Comment
}

func newFakeCommentRepo() *fakeCommentRepo {
	return &fakeCommentRepo{
		comments: make(map[uuid.UUID]*comment.Comment),
	}
}

func (f *fakeCommentRepo) Create(ctx context.Context, c *comment.Comment) error {
	copied := *c
	f.comments[c.ID] = &copied
	return nil
}

func (f *fakeCommentRepo) FindByID(ctx context.Context, id uuid.UUID) (*comment.Comment, error) {
	c, ok := f.comments[id]
	if !ok {
		return nil, comment.ErrCommentNotFound
	}
	copied := *c
	return &copied, nil
}

func (f *fakeCommentRepo) FindMetaByID(ctx context.Context, id uuid.UUID, viewerID uuid.UUID) (*comment.CommentMeta, error) {
	c, ok := f.comments[id]
	if !ok {
		return nil, comment.ErrCommentNotFound
	}
	return &comment.CommentMeta{
		Comment:        *c,
		AuthorUsername: "author",
	}, nil
}

func (f *fakeCommentRepo) ListByArticle(ctx context.Context, articleID, viewerID uuid.UUID, limit, offset int) ([]comment.CommentMeta, int, error) {
	var metas []comment.CommentMeta
	for _, c := range f.comments {
		if c.ArticleID == articleID {
			metas = append(metas, comment.CommentMeta{Comment: *c, AuthorUsername: "author"})
		}
	}
	return metas, len(metas), nil
}

func (f *fakeCommentRepo) Update(ctx context.Context, c *comment.Comment) error {
	if _, ok := f.comments[c.ID]; !ok {
		return comment.ErrCommentNotFound
	}
	copied := *c
	f.comments[c.ID] = &copied
	return nil
}

func (f *fakeCommentRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := f.comments[id]; !ok {
		return comment.ErrCommentNotFound
	}
	delete(f.comments, id)
	return nil
}

// stubArticleRepo - chỉ cần FindByID cho existence checks.
// Embedded interface để không phải implement toàn bộ article.Repository;
// method chưa override sẽ panic nếu bị gọi ngoài dự kiến.
type stubArticleRepo struct {
	article.Repository
	articles map[uuid.UUID]*article.Article
}

func newStubArticleRepo(ids ...uuid.UUID) *stubArticleRepo {
	s := &stubArticleRepo{articles: make(map[uuid.UUID]*article.Article)}
	for _, id := range ids {
		s.articles[id] = &article.Article{
			ID:        id,
			Slug:      "stub",
			AuthorID:  uuid.New(),
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		}
	}
	return s
}

func (s *stubArticleRepo) FindByID(ctx context.Context, id uuid.UUID) (*article.Article, error) {
	a, ok := s.articles[id]
	if !ok {
		return nil, article.ErrArticleNotFound
	}
	return a, nil
}

// ========================================
// TESTS
// ========================================

func TestCreateComment(t *testing.T) {
	articleID := uuid.New()
	authorID := uuid.New()
	svc := NewCommentService(newFakeCommentRepo(), newStubArticleRepo(articleID))

	dto, err := svc.CreateComment(context.Background(), authorID, articleID, comment.CreateCommentRequest{
		Body: "nice post",
	})
	require.NoError(t, err)
	assert.Equal(t, "nice post", dto.Body)
	assert.NotEqual(t, uuid.Nil, dto.ID)
}

func TestCreateCommentArticleMissing(t *testing.T) {
	svc := NewCommentService(newFakeCommentRepo(), newStubArticleRepo())

	_, err := svc.CreateComment(context.Background(), uuid.New(), uuid.New(), comment.CreateCommentRequest{
		Body: "orphan",
	})
	assert.ErrorIs(t, err, article.ErrArticleNotFound)
}

func TestCreateCommentBlankBody(t *testing.T) {
	articleID := uuid.New()
	svc := NewCommentService(newFakeCommentRepo(), newStubArticleRepo(articleID))

	_, err := svc.CreateComment(context.Background(), uuid.New(), articleID, comment.CreateCommentRequest{
		Body: "   ",
	})
	require.Error(t, err)

	var vErrs validation.Errors
	require.True(t, errors.As(err, &vErrs))
	assert.Contains(t, vErrs, "body")
}

func TestUpdateCommentAuthorOnly(t *testing.T) {
	articleID := uuid.New()
	authorID := uuid.New()
	svc := NewCommentService(newFakeCommentRepo(), newStubArticleRepo(articleID))

	dto, err := svc.CreateComment(context.Background(), authorID, articleID, comment.CreateCommentRequest{
		Body: "original",
	})
	require.NoError(t, err)

	// Người khác không sửa được
	_, err = svc.UpdateComment(context.Background(), uuid.New(), articleID, dto.ID, comment.UpdateCommentRequest{
		Body: "hijacked",
	})
	assert.ErrorIs(t, err, comment.ErrNotCommentAuthor)

	// Author sửa được
	updated, err := svc.UpdateComment(context.Background(), authorID, articleID, dto.ID, comment.UpdateCommentRequest{
		Body: "edited",
	})
	require.NoError(t, err)
	assert.Equal(t, "edited", updated.Body)
}

func TestCommentScopedToArticle(t *testing.T) {
	articleA := uuid.New()
	articleB := uuid.New()
	authorID := uuid.New()
	svc := NewCommentService(newFakeCommentRepo(), newStubArticleRepo(articleA, articleB))

	dto, err := svc.CreateComment(context.Background(), authorID, articleA, comment.CreateCommentRequest{
		Body: "on article A",
	})
	require.NoError(t, err)

	// Comment tồn tại nhưng qua article khác → not found, không phải forbidden
	_, err = svc.UpdateComment(context.Background(), authorID, articleB, dto.ID, comment.UpdateCommentRequest{
		Body: "wrong scope",
	})
	assert.ErrorIs(t, err, comment.ErrCommentNotFound)

	err = svc.DeleteComment(context.Background(), authorID, articleB, dto.ID)
	assert.ErrorIs(t, err, comment.ErrCommentNotFound)
}

func TestDeleteComment(t *testing.T) {
	articleID := uuid.New()
	authorID := uuid.New()
	repo := newFakeCommentRepo()
	svc := NewCommentService(repo, newStubArticleRepo(articleID))

	dto, err := svc.CreateComment(context.Background(), authorID, articleID, comment.CreateCommentRequest{
		Body: "to be deleted",
	})
	require.NoError(t, err)

	err = svc.DeleteComment(context.Background(), uuid.New(), articleID, dto.ID)
	assert.ErrorIs(t, err, comment.ErrNotCommentAuthor)

	require.NoError(t, svc.DeleteComment(context.Background(), authorID, articleID, dto.ID))
	assert.Empty(t, repo.comments)
}

func TestListComments(t *testing.T) {
	articleID := uuid.New()
	svc := NewCommentService(newFakeCommentRepo(), newStubArticleRepo(articleID))

	for i := 0; i < 3; i++ {
		_, err := svc.CreateComment(context.Background(), uuid.New(), articleID, comment.CreateCommentRequest{
			Body: "comment",
		})
		require.NoError(t, err)
	}

	dtos, total, err := svc.ListComments(context.Background(), articleID, uuid.Nil, comment.ListCommentsRequest{})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	assert.Len(t, dtos, 3)
}
