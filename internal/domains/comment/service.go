package comment

import (
	"context"

	"github.com/google/uuid"
)

// Service định nghĩa business operations cho comment domain.
// Mọi operation đều scoped theo articleID - comment của article khác
// đối xử như not found.
type Service interface {
	CreateComment(ctx context.Context, authorID, articleID uuid.UUID, req CreateCommentRequest) (*CommentDTO, error)
	ListComments(ctx context.Context, articleID, viewerID uuid.UUID, req ListCommentsRequest) ([]CommentDTO, int, error)
	UpdateComment(ctx context.Context, userID, articleID, commentID uuid.UUID, req UpdateCommentRequest) (*CommentDTO, error)
	DeleteComment(ctx context.Context, userID, articleID, commentID uuid.UUID) error
}
