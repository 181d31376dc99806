package comment

import (
	"time"

	"github.com/google/uuid"
)

// Comment entity - map 1:1 với bảng comments
type Comment struct {
	ID        uuid.UUID `json:"id" db:"id"`
	ArticleID uuid.UUID `json:"article_id" db:"article_id"`
	AuthorID  uuid.UUID `json:"author_id" db:"author_id"`
	Body      string    `json:"body" db:"body"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// CommentMeta là comment row cùng author profile cho responses
type CommentMeta struct {
	Comment

	AuthorUsername  string  `db:"author_username"`
	AuthorBio       *string `db:"author_bio"`
	AuthorImage     *string `db:"author_image"`
	AuthorFollowing bool    `db:"author_following"`
}
