package article

import (
	"time"

	"github.com/google/uuid"
)

// Article entity - map 1:1 với bảng articles
type Article struct {
	ID          uuid.UUID `json:"id" db:"id"`
	Slug        string    `json:"slug" db:"slug"`
	Title       string    `json:"title" db:"title"`
	Description string    `json:"description" db:"description"`
	Body        string    `json:"body" db:"body"`
	AuthorID    uuid.UUID `json:"author_id" db:"author_id"`
	ViewsCount  int       `json:"views_count" db:"views_count"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// ArticleMeta là article row cùng các fields denormalized cho responses:
// author profile, tag names, favorite counters và personalized flags
type ArticleMeta struct {
	Article

	AuthorUsername  string  `db:"author_username"`
	AuthorBio       *string `db:"author_bio"`
	AuthorImage     *string `db:"author_image"`
	AuthorFollowing bool    `db:"author_following"` // viewer follows author?

	TagNames       []string `db:"tag_names"`
	FavoritesCount int      `db:"favorites_count"`
	Favorited      bool     `db:"favorited"` // viewer favorited?
}

// Favorite - bookmark của user trên một article
// (user_id, article_id) unique - favorite hai lần giữ đúng một row
type Favorite struct {
	UserID    uuid.UUID `json:"user_id" db:"user_id"`
	ArticleID uuid.UUID `json:"article_id" db:"article_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// ArticleHistory - append-only audit trail.
// Mỗi body-affecting update append snapshot của pre-update state;
// rows không bao giờ bị mutate sau khi tạo.
type ArticleHistory struct {
	ID          uuid.UUID `json:"id" db:"id"`
	ArticleID   uuid.UUID `json:"article_id" db:"article_id"`
	Slug        string    `json:"slug" db:"slug"`
	Title       string    `json:"title" db:"title"`
	Description string    `json:"description" db:"description"`
	Body        string    `json:"body" db:"body"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// Snapshot tạo history row từ state hiện tại của article
func (a *Article) Snapshot() *ArticleHistory {
	return &ArticleHistory{
		ID:          uuid.New(),
		ArticleID:   a.ID,
		Slug:        a.Slug,
		Title:       a.Title,
		Description: a.Description,
		Body:        a.Body,
		UpdatedAt:   time.Now(),
	}
}
