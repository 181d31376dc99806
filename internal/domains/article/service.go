package article

import (
	"context"

	"github.com/google/uuid"
)

// Service định nghĩa business operations cho article domain
type Service interface {
	CreateArticle(ctx context.Context, authorID uuid.UUID, req CreateArticleRequest) (*ArticleDTO, error)

	// GetArticle trả về article theo id và increment view counter
	GetArticle(ctx context.Context, articleID, viewerID uuid.UUID) (*ArticleDTO, error)

	UpdateArticle(ctx context.Context, userID, articleID uuid.UUID, req UpdateArticleRequest) (*ArticleDTO, error)
	DeleteArticle(ctx context.Context, userID, articleID uuid.UUID) error

	ListArticles(ctx context.Context, filter ListArticlesRequest, viewerID uuid.UUID) ([]ArticleDTO, int, error)
	Feed(ctx context.Context, userID uuid.UUID, req FeedRequest) ([]ArticleDTO, int, error)

	// FavoriteArticle: created=true nếu favorite mới được tạo
	FavoriteArticle(ctx context.Context, userID, articleID uuid.UUID) (bool, *ArticleDTO, error)
	UnfavoriteArticle(ctx context.Context, userID, articleID uuid.UUID) error

	GetArticleHistory(ctx context.Context, userID, articleID uuid.UUID) ([]ArticleHistory, error)
}
