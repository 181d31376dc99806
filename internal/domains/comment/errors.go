package comment

import "errors"

var (
	ErrCommentNotFound  = errors.New("comment not found")
	ErrNotCommentAuthor = errors.New("only the author can modify this comment")
)
