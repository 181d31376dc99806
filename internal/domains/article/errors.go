package article

import "errors"

// Repository-level errors
var (
	ErrArticleNotFound  = errors.New("article not found")
	ErrFavoriteNotFound = errors.New("article is not favorited")
	ErrSlugAlreadyTaken = errors.New("slug already taken")
)

// Service-level (business logic) errors
var (
	ErrNotArticleAuthor = errors.New("only the author can modify this article")
)
