package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"conduit-backend/internal/domains/article"
	"conduit-backend/internal/domains/tag"
	"conduit-backend/internal/shared/utils"
	"conduit-backend/pkg/logger"
)

// articleService implement article.Service interface
type articleService struct {
	repo article.Repository
	tags tag.Service // invalidate tag cache khi tag set thay đổi
}

func NewArticleService(repo article.Repository, tags tag.Service) article.Service {
	return &articleService{
		repo: repo,
		tags: tags,
	}
}

// ========================================
// CRUD
// ========================================

// CreateArticle tạo article mới với author là acting user
func (s *articleService) CreateArticle(ctx context.Context, authorID uuid.UUID, req article.CreateArticleRequest) (*article.ArticleDTO, error) {
	// 1. VALIDATE INPUT
	if err := req.Validate(); err != nil {
		return nil, err
	}

	// 2. GENERATE UNIQUE SLUG từ title
	slug, err := s.resolveSlug(ctx, req.Title)
	if err != nil {
		return nil, err
	}

	// 3. CREATE ENTITY - author_id forced từ token, không từ request body
	now := time.Now()
	a := &article.Article{
		ID:          uuid.New(),
		Slug:        slug,
		Title:       req.Title,
		Description: req.Description,
		Body:        req.Body,
		AuthorID:    authorID,
		ViewsCount:  0,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	// 4. PERSIST (article + tags trong một transaction)
	if err := s.repo.Create(ctx, a, req.Tags); err != nil {
		return nil, err
	}

	// 5. INVALIDATE TAG CACHE nếu có tags mới
	if len(req.Tags) > 0 {
		s.invalidateTagCache(ctx)
	}

	return s.loadDTO(ctx, a.ID, authorID)
}

// GetArticle đọc article và increment view counter
func (s *articleService) GetArticle(ctx context.Context, articleID, viewerID uuid.UUID) (*article.ArticleDTO, error) {
	m, err := s.repo.FindMetaByID(ctx, articleID, viewerID)
	if err != nil {
		return nil, err
	}

	// View counter là best-effort - read không fail vì counter
	if err := s.repo.IncrementViews(ctx, articleID); err != nil {
		logger.Warn("failed to increment views", map[string]interface{}{
			"article_id": articleID,
			"error":      err.Error(),
		})
	} else {
		m.ViewsCount++
	}

	dto := m.ToDTO()
	return &dto, nil
}

// UpdateArticle - author only. Mọi thay đổi title/description/body append
// pre-update snapshot vào history; title mới regenerate slug.
func (s *articleService) UpdateArticle(ctx context.Context, userID, articleID uuid.UUID, req article.UpdateArticleRequest) (*article.ArticleDTO, error) {
	// 1. VALIDATE INPUT
	if err := req.Validate(); err != nil {
		return nil, err
	}

	// 2. LOAD + OWNERSHIP CHECK
	a, err := s.repo.FindByID(ctx, articleID)
	if err != nil {
		return nil, err
	}

	if a.AuthorID != userID {
		return nil, article.ErrNotArticleAuthor
	}

	// 3. SNAPSHOT pre-update state nếu content thay đổi
	var snapshot *article.ArticleHistory
	if s.contentChanged(a, req) {
		snapshot = a.Snapshot()
	}

	// 4. APPLY PARTIAL UPDATE
	if req.Title != nil && *req.Title != a.Title {
		a.Title = *req.Title

		// Title mới → slug mới; giữ slug cũ nếu slugify ra cùng kết quả
		if newSlug := utils.GenerateSlug(a.Title); newSlug != a.Slug {
			slug, err := s.resolveSlug(ctx, a.Title)
			if err != nil {
				return nil, err
			}
			a.Slug = slug
		}
	}
	if req.Description != nil {
		a.Description = *req.Description
	}
	if req.Body != nil {
		a.Body = *req.Body
	}

	var tags []string
	replaceTags := req.Tags != nil
	if replaceTags {
		tags = *req.Tags
	}

	// 5. PERSIST (update + history + tags trong một transaction)
	if err := s.repo.Update(ctx, a, tags, replaceTags, snapshot); err != nil {
		return nil, err
	}

	if replaceTags {
		s.invalidateTagCache(ctx)
	}

	return s.loadDTO(ctx, a.ID, userID)
}

// DeleteArticle - author only, cascade xóa dependents
func (s *articleService) DeleteArticle(ctx context.Context, userID, articleID uuid.UUID) error {
	a, err := s.repo.FindByID(ctx, articleID)
	if err != nil {
		return err
	}

	if a.AuthorID != userID {
		return article.ErrNotArticleAuthor
	}

	if err := s.repo.Delete(ctx, articleID); err != nil {
		return err
	}

	// Orphaned tags có thể còn lại trong tags table nhưng tag list
	// chỉ expose names đang tồn tại - vẫn invalidate cho consistency
	s.invalidateTagCache(ctx)

	return nil
}

// ========================================
// LISTING
// ========================================

func (s *articleService) ListArticles(ctx context.Context, filter article.ListArticlesRequest, viewerID uuid.UUID) ([]article.ArticleDTO, int, error) {
	filter.SetDefaults()

	metas, total, err := s.repo.List(ctx, filter, viewerID)
	if err != nil {
		return nil, 0, err
	}

	return toDTOs(metas), total, nil
}

// Feed - articles của các authors mà user follow, mới nhất trước
func (s *articleService) Feed(ctx context.Context, userID uuid.UUID, req article.FeedRequest) ([]article.ArticleDTO, int, error) {
	req.SetDefaults()

	metas, total, err := s.repo.Feed(ctx, userID, req.Limit, req.Offset)
	if err != nil {
		return nil, 0, err
	}

	return toDTOs(metas), total, nil
}

// ========================================
// FAVORITES
// ========================================

// FavoriteArticle - idempotent: created=false nếu đã favorite từ trước
func (s *articleService) FavoriteArticle(ctx context.Context, userID, articleID uuid.UUID) (bool, *article.ArticleDTO, error) {
	a, err := s.repo.FindByID(ctx, articleID)
	if err != nil {
		return false, nil, err
	}

	created, err := s.repo.Favorite(ctx, userID, a.ID)
	if err != nil {
		return false, nil, err
	}

	dto, err := s.loadDTO(ctx, a.ID, userID)
	if err != nil {
		return false, nil, err
	}

	return created, dto, nil
}

// UnfavoriteArticle xóa favorite; absent pair → ErrFavoriteNotFound (404)
func (s *articleService) UnfavoriteArticle(ctx context.Context, userID, articleID uuid.UUID) error {
	a, err := s.repo.FindByID(ctx, articleID)
	if err != nil {
		return err
	}

	removed, err := s.repo.Unfavorite(ctx, userID, a.ID)
	if err != nil {
		return err
	}

	if !removed {
		return article.ErrFavoriteNotFound
	}

	return nil
}

// ========================================
// HISTORY
// ========================================

// GetArticleHistory - chỉ author được xem audit trail
func (s *articleService) GetArticleHistory(ctx context.Context, userID, articleID uuid.UUID) ([]article.ArticleHistory, error) {
	a, err := s.repo.FindByID(ctx, articleID)
	if err != nil {
		return nil, err
	}

	if a.AuthorID != userID {
		return nil, article.ErrNotArticleAuthor
	}

	return s.repo.ListHistory(ctx, articleID)
}

// ========================================
// HELPERS
// ========================================

// resolveSlug generate slug từ title, append random suffix khi collision
func (s *articleService) resolveSlug(ctx context.Context, title string) (string, error) {
	slug := utils.GenerateSlug(title)
	if slug == "" {
		slug = "article"
	}

	exists, err := s.repo.SlugExists(ctx, slug)
	if err != nil {
		return "", fmt.Errorf("check slug: %w", err)
	}

	if exists {
		slug = utils.AppendSlugSuffix(slug)
	}

	return slug, nil
}

func (s *articleService) contentChanged(a *article.Article, req article.UpdateArticleRequest) bool {
	if req.Title != nil && *req.Title != a.Title {
		return true
	}
	if req.Description != nil && *req.Description != a.Description {
		return true
	}
	if req.Body != nil && *req.Body != a.Body {
		return true
	}
	return false
}

// invalidateTagCache - best-effort, write đã commit rồi nên không fail
func (s *articleService) invalidateTagCache(ctx context.Context) {
	if err := s.tags.InvalidateTagList(ctx); err != nil {
		logger.Warn("failed to invalidate tag cache", map[string]interface{}{
			"error": err.Error(),
		})
	}
}

func (s *articleService) loadDTO(ctx context.Context, articleID, viewerID uuid.UUID) (*article.ArticleDTO, error) {
	m, err := s.repo.FindMetaByID(ctx, articleID, viewerID)
	if err != nil {
		return nil, err
	}

	dto := m.ToDTO()
	return &dto, nil
}

func toDTOs(metas []article.ArticleMeta) []article.ArticleDTO {
	dtos := make([]article.ArticleDTO, 0, len(metas))
	for i := range metas {
		dtos = append(dtos, metas[i].ToDTO())
	}
	return dtos
}
