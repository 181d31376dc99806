package article

import (
	"context"

	"github.com/google/uuid"
)

// Repository định nghĩa contract cho article data access.
// Read methods nhận viewerID để personalize favorited/following flags;
// viewerID = uuid.Nil nghĩa là anonymous.
type Repository interface {
	// Articles
	Create(ctx context.Context, a *Article, tags []string) error
	FindByID(ctx context.Context, id uuid.UUID) (*Article, error)
	FindMetaByID(ctx context.Context, id uuid.UUID, viewerID uuid.UUID) (*ArticleMeta, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
	Update(ctx context.Context, a *Article, tags []string, replaceTags bool, snapshot *ArticleHistory) error
	Delete(ctx context.Context, id uuid.UUID) error
	IncrementViews(ctx context.Context, id uuid.UUID) error

	// Listing
	List(ctx context.Context, filter ListArticlesRequest, viewerID uuid.UUID) ([]ArticleMeta, int, error)
	Feed(ctx context.Context, userID uuid.UUID, limit, offset int) ([]ArticleMeta, int, error)

	// Favorites - idempotent toggles, bool cho biết state có đổi không
	Favorite(ctx context.Context, userID, articleID uuid.UUID) (bool, error)
	Unfavorite(ctx context.Context, userID, articleID uuid.UUID) (bool, error)

	// History
	ListHistory(ctx context.Context, articleID uuid.UUID) ([]ArticleHistory, error)
}
