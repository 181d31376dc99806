package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"conduit-backend/internal/domains/article"
	"conduit-backend/internal/domains/comment"
)

// commentService implement comment.Service interface.
// Giữ article.Repository để verify article tồn tại trước khi comment.
type commentService struct {
	repo     comment.Repository
	articles article.Repository
}

func NewCommentService(repo comment.Repository, articles article.Repository) comment.Service {
	return &commentService{
		repo:     repo,
		articles: articles,
	}
}

// CreateComment thêm comment vào article; article không tồn tại → 404
func (s *commentService) CreateComment(ctx context.Context, authorID, articleID uuid.UUID, req comment.CreateCommentRequest) (*comment.CommentDTO, error) {
	// 1. VALIDATE INPUT
	if err := req.Validate(); err != nil {
		return nil, err
	}

	// 2. VERIFY ARTICLE EXISTS
	if _, err := s.articles.FindByID(ctx, articleID); err != nil {
		return nil, err
	}

	// 3. CREATE + PERSIST
	now := time.Now()
	c := &comment.Comment{
		ID:        uuid.New(),
		ArticleID: articleID,
		AuthorID:  authorID,
		Body:      req.Body,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}

	return s.loadDTO(ctx, c.ID, authorID)
}

func (s *commentService) ListComments(ctx context.Context, articleID, viewerID uuid.UUID, req comment.ListCommentsRequest) ([]comment.CommentDTO, int, error) {
	req.SetDefaults()

	if _, err := s.articles.FindByID(ctx, articleID); err != nil {
		return nil, 0, err
	}

	metas, total, err := s.repo.ListByArticle(ctx, articleID, viewerID, req.Limit, req.Offset)
	if err != nil {
		return nil, 0, err
	}

	dtos := make([]comment.CommentDTO, 0, len(metas))
	for i := range metas {
		dtos = append(dtos, metas[i].ToDTO())
	}

	return dtos, total, nil
}

// UpdateComment - author only; comment thuộc article khác → not found
func (s *commentService) UpdateComment(ctx context.Context, userID, articleID, commentID uuid.UUID, req comment.UpdateCommentRequest) (*comment.CommentDTO, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	c, err := s.findScoped(ctx, articleID, commentID)
	if err != nil {
		return nil, err
	}

	if c.AuthorID != userID {
		return nil, comment.ErrNotCommentAuthor
	}

	c.Body = req.Body
	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}

	return s.loadDTO(ctx, c.ID, userID)
}

func (s *commentService) DeleteComment(ctx context.Context, userID, articleID, commentID uuid.UUID) error {
	c, err := s.findScoped(ctx, articleID, commentID)
	if err != nil {
		return err
	}

	if c.AuthorID != userID {
		return comment.ErrNotCommentAuthor
	}

	return s.repo.Delete(ctx, c.ID)
}

// findScoped load comment và enforce article scoping.
// Comment tồn tại nhưng thuộc article khác → ErrCommentNotFound,
// không leak thông tin qua error khác nhau.
func (s *commentService) findScoped(ctx context.Context, articleID, commentID uuid.UUID) (*comment.Comment, error) {
	c, err := s.repo.FindByID(ctx, commentID)
	if err != nil {
		return nil, err
	}

	if c.ArticleID != articleID {
		return nil, comment.ErrCommentNotFound
	}

	return c, nil
}

func (s *commentService) loadDTO(ctx context.Context, commentID, viewerID uuid.UUID) (*comment.CommentDTO, error) {
	m, err := s.repo.FindMetaByID(ctx, commentID, viewerID)
	if err != nil {
		return nil, err
	}

	dto := m.ToDTO()
	return &dto, nil
}
