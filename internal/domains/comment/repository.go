package comment

import (
	"context"

	"github.com/google/uuid"
)

// Repository định nghĩa contract cho comment data access
type Repository interface {
	Create(ctx context.Context, c *Comment) error
	FindByID(ctx context.Context, id uuid.UUID) (*Comment, error)
	FindMetaByID(ctx context.Context, id uuid.UUID, viewerID uuid.UUID) (*CommentMeta, error)
	ListByArticle(ctx context.Context, articleID, viewerID uuid.UUID, limit, offset int) ([]CommentMeta, int, error)
	Update(ctx context.Context, c *Comment) error
	Delete(ctx context.Context, id uuid.UUID) error
}
